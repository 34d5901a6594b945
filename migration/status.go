package migration

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/fabric8-services/fabric8-tracker/log"
)

// State is the provisioning state of the database schema.
type State string

const (
	// StatePending means the schema was not provisioned yet.
	StatePending State = "pending"
	// StateOK means every migration was applied.
	StateOK State = "ok"
	// StateDegraded means the last provisioning attempt failed.
	StateDegraded State = "degraded"
)

// Status holds the outcome of the latest schema provisioning attempt. It is
// safe for concurrent use.
type Status struct {
	mu        sync.RWMutex
	state     State
	err       error
	checkedAt time.Time
}

// NewStatus returns a status in the pending state.
func NewStatus() *Status {
	return &Status{state: StatePending}
}

// Report is a point in time copy of a Status.
type Report struct {
	State State
	// Err is the error of the last attempt, nil unless degraded.
	Err       error
	CheckedAt time.Time
}

// Snapshot returns a copy of the current status.
func (s *Status) Snapshot() Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Report{State: s.state, Err: s.err, CheckedAt: s.checkedAt}
}

// State returns the current state.
func (s *Status) State() State {
	return s.Snapshot().State
}

func (s *Status) set(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkedAt = time.Now()
	s.err = err
	if err != nil {
		s.state = StateDegraded
		return
	}
	s.state = StateOK
}

// Provisioner applies the migrations and records the outcome in its Status.
type Provisioner struct {
	db         *sql.DB
	catalog    string
	retrySleep time.Duration
	timeout    time.Duration
	status     *Status
	migrate    func(ctx context.Context, db *sql.DB, catalog string) error
}

// NewProvisioner creates a provisioner for the given database. Every attempt
// is bounded by timeout; a failed attempt is retried by Run after retrySleep.
func NewProvisioner(db *sql.DB, catalog string, retrySleep, timeout time.Duration) *Provisioner {
	return &Provisioner{
		db:         db,
		catalog:    catalog,
		retrySleep: retrySleep,
		timeout:    timeout,
		status:     NewStatus(),
		migrate:    Migrate,
	}
}

// Status returns the status updated by the provisioner.
func (p *Provisioner) Status() *Status {
	return p.status
}

// EnsureSchema runs the migrations once, within the provisioner timeout. The
// outcome is recorded in the status and returned.
func (p *Provisioner) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	err := p.migrate(ctx, p.db, p.catalog)
	p.status.set(err)
	if err != nil {
		log.Error(ctx, map[string]interface{}{
			"err":     err,
			"catalog": p.catalog,
		}, "failed to provision the database schema")
		return err
	}
	log.Info(ctx, map[string]interface{}{
		"catalog": p.catalog,
	}, "database schema is up to date")
	return nil
}

// Run calls EnsureSchema until it succeeds or the context is done.
func (p *Provisioner) Run(ctx context.Context) {
	for {
		if err := p.EnsureSchema(ctx); err == nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.retrySleep):
		}
	}
}
