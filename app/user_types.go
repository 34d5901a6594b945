package app

import (
	"encoding/json"

	"github.com/goadesign/goa"
)

// TrackerPayload is the body of the tracker create and update actions.
type TrackerPayload struct {
	// Name of the tracker
	Name *string `json:"name,omitempty" form:"name,omitempty" yaml:"name,omitempty" xml:"name,omitempty"`
}

// Validate validates the TrackerPayload type instance.
func (ut *TrackerPayload) Validate() (err error) {
	if ut.Name == nil {
		err = goa.MergeErrors(err, goa.MissingAttributeError(`request`, "name"))
	}
	return
}

// ActionPayload is the body of the action create and update actions. The
// attributes are kept raw so that an absent attribute and an explicit null
// can be told apart and numbers given as strings can be coerced.
type ActionPayload map[string]json.RawMessage

// Has returns true if the payload carries the given attribute, even if its
// value is null.
func (ut ActionPayload) Has(name string) bool {
	_, ok := ut[name]
	return ok
}

// IsNull returns true if the payload carries the given attribute with a null
// value.
func (ut ActionPayload) IsNull(name string) bool {
	v, ok := ut[name]
	return ok && (len(v) == 0 || string(v) == "null")
}
