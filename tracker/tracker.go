package tracker

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/fabric8-services/fabric8-tracker/errors"
)

// Tracker is a named container for a list of actions (a project, a
// sprint, ...).
type Tracker struct {
	ID        uint64    `gorm:"primary_key" json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName implements gorm.tabler
func (t Tracker) TableName() string {
	return "trackers"
}

// Validate checks that the tracker can be stored.
func (t Tracker) Validate() error {
	if IsBlank(t.Name) {
		return errors.NewBadParameterError("name", t.Name).Expected("non-empty name")
	}
	return nil
}

// IsBlank returns true if the given string is empty or only made of
// whitespace.
func IsBlank(s string) bool {
	return govalidator.IsNull(strings.TrimSpace(s))
}
