package migration

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fabric8-services/fabric8-tracker/resource"
	errs "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingMigrate fails the given number of times before it succeeds.
type failingMigrate struct {
	failures int32
	calls    int32
}

// hangingMigrate blocks on its first call until the context is done.
type hangingMigrate struct {
	calls int32
}

func (h *hangingMigrate) migrate(ctx context.Context, db *sql.DB, catalog string) error {
	if atomic.AddInt32(&h.calls, 1) == 1 {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (f *failingMigrate) migrate(ctx context.Context, db *sql.DB, catalog string) error {
	if atomic.AddInt32(&f.calls, 1) <= atomic.LoadInt32(&f.failures) {
		return errs.New("connection refused")
	}
	return nil
}

func newTestProvisioner(f *failingMigrate) *Provisioner {
	p := NewProvisioner(nil, "postgres", time.Millisecond, time.Minute)
	p.migrate = f.migrate
	return p
}

func TestNewStatusIsPending(t *testing.T) {
	resource.Require(t, resource.UnitTest)
	s := NewStatus()
	report := s.Snapshot()
	assert.Equal(t, StatePending, report.State)
	assert.NoError(t, report.Err)
	assert.True(t, report.CheckedAt.IsZero())
}

func TestEnsureSchema(t *testing.T) {
	resource.Require(t, resource.UnitTest)

	t.Run("degraded then ok", func(t *testing.T) {
		f := &failingMigrate{failures: 1}
		p := newTestProvisioner(f)

		err := p.EnsureSchema(context.Background())
		require.Error(t, err)
		report := p.Status().Snapshot()
		assert.Equal(t, StateDegraded, report.State)
		assert.EqualError(t, report.Err, "connection refused")
		assert.False(t, report.CheckedAt.IsZero())

		require.NoError(t, p.EnsureSchema(context.Background()))
		report = p.Status().Snapshot()
		assert.Equal(t, StateOK, report.State)
		assert.NoError(t, report.Err)
	})
}

func TestRun(t *testing.T) {
	resource.Require(t, resource.UnitTest)

	t.Run("retries until success", func(t *testing.T) {
		f := &failingMigrate{failures: 3}
		p := newTestProvisioner(f)
		p.Run(context.Background())
		assert.Equal(t, StateOK, p.Status().State())
		assert.Equal(t, int32(4), atomic.LoadInt32(&f.calls))
	})
	t.Run("stops when the context is done", func(t *testing.T) {
		f := &failingMigrate{failures: 1 << 30}
		p := newTestProvisioner(f)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		done := make(chan struct{})
		go func() {
			p.Run(ctx)
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not return after the context was done")
		}
		assert.Equal(t, StateDegraded, p.Status().State())
	})
	t.Run("hung attempt is cut by the timeout", func(t *testing.T) {
		h := &hangingMigrate{}
		p := NewProvisioner(nil, "postgres", time.Millisecond, 50*time.Millisecond)
		p.migrate = h.migrate
		done := make(chan struct{})
		go func() {
			p.Run(context.Background())
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("Run is still blocked on the first attempt")
		}
		assert.Equal(t, StateOK, p.Status().State())
		assert.Equal(t, int32(2), atomic.LoadInt32(&h.calls))
	})
}
