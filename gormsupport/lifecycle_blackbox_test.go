package gormsupport_test

import (
	"testing"
	"time"

	"github.com/fabric8-services/fabric8-tracker/gormsupport"
	"github.com/fabric8-services/fabric8-tracker/resource"
	"github.com/stretchr/testify/assert"
)

func TestLifecycle_Equal(t *testing.T) {
	t.Parallel()
	resource.Require(t, resource.UnitTest)

	// given
	now := time.Now()
	a := gormsupport.Lifecycle{
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.Run("equality", func(t *testing.T) {
		t.Parallel()
		assert.True(t, a.Equal(a))
	})

	t.Run("same instant in another location", func(t *testing.T) {
		t.Parallel()
		b := gormsupport.Lifecycle{
			CreatedAt: now.UTC(),
			UpdatedAt: now.UTC(),
		}
		assert.True(t, a.Equal(b))
	})

	t.Run("created at", func(t *testing.T) {
		t.Parallel()
		b := gormsupport.Lifecycle{
			CreatedAt: now.Add(time.Duration(1000)),
			UpdatedAt: now,
		}
		assert.False(t, a.Equal(b))
	})

	t.Run("updated at", func(t *testing.T) {
		t.Parallel()
		b := gormsupport.Lifecycle{
			CreatedAt: now,
			UpdatedAt: now.Add(time.Duration(1000)),
		}
		assert.False(t, a.Equal(b))
	})
}
