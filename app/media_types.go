package app

import (
	"github.com/goadesign/goa"
)

// Tracker media type.
//
// Identifier: application/vnd.tracker+json
type Tracker struct {
	// Time the tracker was created
	CreatedAt string `json:"created_at" form:"created_at" yaml:"created_at" xml:"created_at"`
	// ID of the tracker
	ID uint64 `json:"id" form:"id" yaml:"id" xml:"id"`
	// Name of the tracker
	Name string `json:"name" form:"name" yaml:"name" xml:"name"`
}

// Validate validates the Tracker media type instance.
func (mt *Tracker) Validate() (err error) {
	if mt.Name == "" {
		err = goa.MergeErrors(err, goa.MissingAttributeError(`response`, "name"))
	}
	if mt.CreatedAt == "" {
		err = goa.MergeErrors(err, goa.MissingAttributeError(`response`, "created_at"))
	}
	return
}

// TrackerCollection is the media type for an array of Tracker.
//
// Identifier: application/vnd.tracker+json; type=collection
type TrackerCollection []*Tracker

// Validate validates the TrackerCollection media type instance.
func (mt TrackerCollection) Validate() (err error) {
	for _, e := range mt {
		if e != nil {
			if err2 := e.Validate(); err2 != nil {
				err = goa.MergeErrors(err, err2)
			}
		}
	}
	return
}

// Action media type.
//
// Identifier: application/vnd.action+json
type Action struct {
	// Free text notes
	Comments *string `json:"comments" form:"comments" yaml:"comments" xml:"comments"`
	// Time the action was created
	CreatedAt string `json:"created_at" form:"created_at" yaml:"created_at" xml:"created_at"`
	// Due date (YYYY-MM-DD)
	DueDate *string `json:"due_date" form:"due_date" yaml:"due_date" xml:"due_date"`
	// ID of the action
	ID uint64 `json:"id" form:"id" yaml:"id" xml:"id"`
	// Number of the action within its tracker, starting at 1
	LocalID int `json:"local_id" form:"local_id" yaml:"local_id" xml:"local_id"`
	// Person in charge
	Owner *string `json:"owner" form:"owner" yaml:"owner" xml:"owner"`
	// Priority of the action
	Priority int `json:"priority" form:"priority" yaml:"priority" xml:"priority"`
	// One of open, in_progress, completed
	Status string `json:"status" form:"status" yaml:"status" xml:"status"`
	// Title of the action
	Title string `json:"title" form:"title" yaml:"title" xml:"title"`
	// ID of the tracker the action belongs to
	TrackerID uint64 `json:"tracker_id" form:"tracker_id" yaml:"tracker_id" xml:"tracker_id"`
	// Time of the last change of the action
	UpdatedAt string `json:"updated_at" form:"updated_at" yaml:"updated_at" xml:"updated_at"`
}

// Validate validates the Action media type instance.
func (mt *Action) Validate() (err error) {
	if mt.Title == "" {
		err = goa.MergeErrors(err, goa.MissingAttributeError(`response`, "title"))
	}
	if !(mt.Status == "open" || mt.Status == "in_progress" || mt.Status == "completed") {
		err = goa.MergeErrors(err, goa.InvalidEnumValueError(`response.status`, mt.Status, []interface{}{"open", "in_progress", "completed"}))
	}
	if mt.LocalID < 1 {
		err = goa.MergeErrors(err, goa.InvalidRangeError(`response.local_id`, mt.LocalID, 1, true))
	}
	return
}

// ActionCollection is the media type for an array of Action.
//
// Identifier: application/vnd.action+json; type=collection
type ActionCollection []*Action

// Validate validates the ActionCollection media type instance.
func (mt ActionCollection) Validate() (err error) {
	for _, e := range mt {
		if e != nil {
			if err2 := e.Validate(); err2 != nil {
				err = goa.MergeErrors(err, err2)
			}
		}
	}
	return
}

// Deletion media type.
//
// Identifier: application/vnd.deletion+json
type Deletion struct {
	// True if a row was removed
	Ok bool `json:"ok" form:"ok" yaml:"ok" xml:"ok"`
}

// Health media type.
//
// Identifier: application/vnd.health+json
type Health struct {
	// Build time of the running binary
	BuildTime string `json:"build_time,omitempty" form:"build_time,omitempty" yaml:"build_time,omitempty" xml:"build_time,omitempty"`
	// Commit the running binary was built from
	Commit string `json:"commit,omitempty" form:"commit,omitempty" yaml:"commit,omitempty" xml:"commit,omitempty"`
	// Database reachability: ok or unavailable
	Db string `json:"db" form:"db" yaml:"db" xml:"db"`
	// Schema provisioning state: pending, ok or degraded
	Schema string `json:"schema" form:"schema" yaml:"schema" xml:"schema"`
	// Time the service was started
	StartTime string `json:"start_time,omitempty" form:"start_time,omitempty" yaml:"start_time,omitempty" xml:"start_time,omitempty"`
	// Overall status: ok or degraded
	Status string `json:"status" form:"status" yaml:"status" xml:"status"`
	// Time of the check
	Time string `json:"time" form:"time" yaml:"time" xml:"time"`
}

// JSONAPIError media type.
//
// Identifier: application/vnd.jsonapierror+json
type JSONAPIError struct {
	// a machine-readable code for the kind of problem, e.g. "not_found"
	Code *string `json:"code,omitempty" form:"code,omitempty" yaml:"code,omitempty" xml:"code,omitempty"`
	// a human-readable explanation specific to this occurrence of the problem.
	Detail string `json:"detail" form:"detail" yaml:"detail" xml:"detail"`
	// a unique identifier for this particular occurrence of the problem.
	ID *string `json:"id,omitempty" form:"id,omitempty" yaml:"id,omitempty" xml:"id,omitempty"`
	// the HTTP status code applicable to this problem, expressed as a string value.
	Status *string `json:"status,omitempty" form:"status,omitempty" yaml:"status,omitempty" xml:"status,omitempty"`
	// a short, human-readable summary of the problem
	Title *string `json:"title,omitempty" form:"title,omitempty" yaml:"title,omitempty" xml:"title,omitempty"`
}

// JSONAPIErrors media type.
//
// Identifier: application/vnd.jsonapierrors+json
type JSONAPIErrors struct {
	// an array of JSONAPI errors
	Errors []*JSONAPIError `json:"errors" form:"errors" yaml:"errors" xml:"errors"`
}
