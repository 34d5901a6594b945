package action

import (
	"context"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/fabric8-services/fabric8-tracker/errors"
	"github.com/fabric8-services/fabric8-tracker/gormsupport"
	"github.com/fabric8-services/fabric8-tracker/numbersequence"
	"github.com/jinzhu/gorm"
)

// Status is the progress of an action.
type Status string

// The possible action states.
const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// DefaultPriority is the priority of actions created without one.
const DefaultPriority = 3

// contextKey is the gorm setting holding the request context, so that the
// callbacks can log and query on behalf of the request.
const contextKey = "tracker:context"

// IsValid returns true if s is one of the known states.
func (s Status) IsValid() bool {
	return govalidator.IsIn(string(s), string(StatusOpen), string(StatusInProgress), string(StatusCompleted))
}

// Action is a single task item belonging to exactly one tracker. LocalID
// numbers the actions of a tracker, starting at 1.
type Action struct {
	gormsupport.Lifecycle
	ID        uint64     `gorm:"primary_key" json:"id"`
	TrackerID uint64     `json:"tracker_id"`
	LocalID   int        `json:"local_id"`
	Title     string     `json:"title"`
	Owner     *string    `json:"owner"`
	Comments  *string    `json:"comments"`
	Status    Status     `json:"status"`
	Priority  int        `json:"priority"`
	DueDate   *time.Time `json:"due_date"`
}

// TableName implements gorm.tabler
func (a Action) TableName() string {
	return "actions"
}

// Validate checks the fields of a new action.
func (a Action) Validate() error {
	if a.TrackerID == 0 {
		return errors.NewBadParameterError("tracker_id", a.TrackerID).Expected("a tracker id")
	}
	if isBlank(a.Title) {
		return errors.NewBadParameterError("title", a.Title).Expected("non-empty title")
	}
	if !a.Status.IsValid() {
		return errors.NewBadParameterError("status", a.Status).Expected("open, in_progress or completed")
	}
	if a.LocalID < 0 {
		return errors.NewBadParameterError("local_id", a.LocalID).Expected("a positive number")
	}
	return nil
}

// BeforeCreate is a GORM callback (see http://doc.gorm.io/callbacks.html) that
// will be called before creating the model. We use it to determine the next
// local id of the tracker and set it automatically in the CREATE query.
func (a *Action) BeforeCreate(scope *gorm.Scope) error {
	localID, err := numbersequence.ActionLocalID.Assign(scopeContext(scope), scope, a.TrackerID, a.LocalID)
	if err != nil {
		return err
	}
	a.LocalID = localID
	return nil
}

// BeforeUpdate is a GORM callback (see http://doc.gorm.io/callbacks.html) that
// will be called before updating the model. It makes sure the local id of an
// existing action never changes.
func (a *Action) BeforeUpdate(scope *gorm.Scope) error {
	numbersequence.ActionLocalID.Pin(scope, a.LocalID)
	return nil
}

func scopeContext(scope *gorm.Scope) context.Context {
	if v, ok := scope.Get(contextKey); ok {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}
	return context.Background()
}

func isBlank(s string) bool {
	return govalidator.IsNull(strings.TrimSpace(s))
}

// Patch lists the fields of an action to change. Nil fields are left
// untouched; the Clear flags set the optional fields to NULL.
type Patch struct {
	Title         *string
	Owner         *string
	ClearOwner    bool
	Comments      *string
	ClearComments bool
	Status        *Status
	Priority      *int
	DueDate       *time.Time
	ClearDueDate  bool
}

// IsEmpty returns true if the patch does not change anything.
func (p Patch) IsEmpty() bool {
	return len(p.columns()) == 0
}

// Validate checks the values of the patch.
func (p Patch) Validate() error {
	if p.IsEmpty() {
		return errors.NewBadParameterError("data", "{}").Expected("at least one of title, owner, comments, status, priority, due_date")
	}
	if p.Title != nil && isBlank(*p.Title) {
		return errors.NewBadParameterError("title", *p.Title).Expected("non-empty title")
	}
	if p.Status != nil && !p.Status.IsValid() {
		return errors.NewBadParameterError("status", *p.Status).Expected("open, in_progress or completed")
	}
	return nil
}

// columns returns the values to update by column name.
func (p Patch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.ClearOwner {
		cols["owner"] = nil
	} else if p.Owner != nil {
		cols["owner"] = *p.Owner
	}
	if p.ClearComments {
		cols["comments"] = nil
	} else if p.Comments != nil {
		cols["comments"] = *p.Comments
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.Priority != nil {
		cols["priority"] = *p.Priority
	}
	if p.ClearDueDate {
		cols["due_date"] = nil
	} else if p.DueDate != nil {
		cols["due_date"] = *p.DueDate
	}
	return cols
}
