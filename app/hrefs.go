package app

import (
	"fmt"
)

// TrackerHref returns the resource href.
func TrackerHref(id interface{}) string {
	return fmt.Sprintf("/trackers/%v", id)
}

// ActionHref returns the resource href.
func ActionHref(id interface{}) string {
	return fmt.Sprintf("/actions/%v", id)
}
