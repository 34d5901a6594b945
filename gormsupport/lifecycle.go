package gormsupport

import (
	"time"
)

// The Lifecycle struct contains the timestamps of gorm.Model without the ID
// and without soft deletion, hence we can embed the Lifecycle struct into
// models whose rows are removed for real (and cascade).
type Lifecycle struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Equal returns true if two Lifecycle objects are equal; otherwise false is
// returned.
func (lc Lifecycle) Equal(other Lifecycle) bool {
	return lc.CreatedAt.Equal(other.CreatedAt) && lc.UpdatedAt.Equal(other.UpdatedAt)
}
