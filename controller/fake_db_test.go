package controller_test

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/fabric8-services/fabric8-tracker/action"
	"github.com/fabric8-services/fabric8-tracker/application"
	"github.com/fabric8-services/fabric8-tracker/errors"
	"github.com/fabric8-services/fabric8-tracker/tracker"
)

// fakeDB is an in-memory application.DB. When err is set, every repository
// call fails with it.
type fakeDB struct {
	mu            sync.Mutex
	now           time.Time
	trackers      map[uint64]tracker.Tracker
	actions       map[uint64]action.Action
	lastTrackerID uint64
	lastActionID  uint64
	err           error
	pingErr       error
	// pingHangs makes Ping wait until its context is done
	pingHangs     bool
}

var _ application.DB = (*fakeDB)(nil)

func newFakeDB() *fakeDB {
	return &fakeDB{
		now:      time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC),
		trackers: map[uint64]tracker.Tracker{},
		actions:  map[uint64]action.Action{},
	}
}

func (db *fakeDB) Trackers() tracker.Repository { return fakeTrackers{db} }

func (db *fakeDB) Actions() action.Repository { return fakeActions{db} }

func (db *fakeDB) BeginTransaction(ctx context.Context) (application.Transaction, error) {
	return fakeTransaction{db}, nil
}

func (db *fakeDB) Ping(ctx context.Context) error {
	if db.pingHangs {
		<-ctx.Done()
		return ctx.Err()
	}
	return db.pingErr
}

func (db *fakeDB) actionCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.actions)
}

func (db *fakeDB) trackerCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.trackers)
}

type fakeTransaction struct {
	*fakeDB
}

func (fakeTransaction) Commit() error   { return nil }
func (fakeTransaction) Rollback() error { return nil }

type fakeTrackers struct {
	db *fakeDB
}

func (r fakeTrackers) CheckExists(ctx context.Context, id uint64) error {
	_, err := r.Load(ctx, id)
	return err
}

func (r fakeTrackers) List(ctx context.Context) ([]tracker.Tracker, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}
	res := []tracker.Tracker{}
	for _, t := range r.db.trackers {
		res = append(res, t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r fakeTrackers) Create(ctx context.Context, t *tracker.Tracker) error {
	if err := t.Validate(); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return r.db.err
	}
	r.db.lastTrackerID++
	t.ID = r.db.lastTrackerID
	t.CreatedAt = r.db.now
	r.db.trackers[t.ID] = *t
	return nil
}

func (r fakeTrackers) Load(ctx context.Context, id uint64) (*tracker.Tracker, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}
	t, ok := r.db.trackers[id]
	if !ok {
		return nil, errors.NewNotFoundError("tracker", strconv.FormatUint(id, 10))
	}
	return &t, nil
}

func (r fakeTrackers) Save(ctx context.Context, t tracker.Tracker) (*tracker.Tracker, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}
	existing, ok := r.db.trackers[t.ID]
	if !ok {
		return nil, errors.NewNotFoundError("tracker", strconv.FormatUint(t.ID, 10))
	}
	existing.Name = t.Name
	r.db.trackers[t.ID] = existing
	return &existing, nil
}

func (r fakeTrackers) Delete(ctx context.Context, id uint64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return false, r.db.err
	}
	if _, ok := r.db.trackers[id]; !ok {
		return false, nil
	}
	delete(r.db.trackers, id)
	for actionID, a := range r.db.actions {
		if a.TrackerID == id {
			delete(r.db.actions, actionID)
		}
	}
	return true, nil
}

type fakeActions struct {
	db *fakeDB
}

func (r fakeActions) List(ctx context.Context, trackerID uint64) ([]action.Action, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}
	res := []action.Action{}
	for _, a := range r.db.actions {
		if a.TrackerID == trackerID {
			res = append(res, a)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].LocalID != res[j].LocalID {
			return res[i].LocalID < res[j].LocalID
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (r fakeActions) Create(ctx context.Context, a *action.Action) error {
	if a.Status == "" {
		a.Status = action.StatusOpen
	}
	if err := a.Validate(); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return r.db.err
	}
	if _, ok := r.db.trackers[a.TrackerID]; !ok {
		return errors.NewBadParameterError("tracker_id", a.TrackerID).Expected("an existing tracker id")
	}
	maxLocalID := 0
	for _, other := range r.db.actions {
		if other.TrackerID != a.TrackerID {
			continue
		}
		if a.LocalID != 0 && other.LocalID == a.LocalID {
			return errors.NewBadParameterError("local_id", a.LocalID).Expected("a local_id not used in the tracker")
		}
		if other.LocalID > maxLocalID {
			maxLocalID = other.LocalID
		}
	}
	if a.LocalID == 0 {
		a.LocalID = maxLocalID + 1
	}
	r.db.lastActionID++
	a.ID = r.db.lastActionID
	a.CreatedAt = r.db.now
	a.UpdatedAt = r.db.now
	r.db.actions[a.ID] = *a
	return nil
}

func (r fakeActions) Load(ctx context.Context, id uint64) (*action.Action, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}
	a, ok := r.db.actions[id]
	if !ok {
		return nil, errors.NewNotFoundError("action", strconv.FormatUint(id, 10))
	}
	return &a, nil
}

func (r fakeActions) Patch(ctx context.Context, id uint64, p action.Patch) (*action.Action, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}
	a, ok := r.db.actions[id]
	if !ok {
		return nil, errors.NewNotFoundError("action", strconv.FormatUint(id, 10))
	}
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.ClearOwner {
		a.Owner = nil
	} else if p.Owner != nil {
		a.Owner = p.Owner
	}
	if p.ClearComments {
		a.Comments = nil
	} else if p.Comments != nil {
		a.Comments = p.Comments
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Priority != nil {
		a.Priority = *p.Priority
	}
	if p.ClearDueDate {
		a.DueDate = nil
	} else if p.DueDate != nil {
		a.DueDate = p.DueDate
	}
	a.UpdatedAt = a.UpdatedAt.Add(time.Second)
	r.db.actions[id] = a
	return &a, nil
}

func (r fakeActions) Delete(ctx context.Context, id uint64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return false, r.db.err
	}
	if _, ok := r.db.actions[id]; !ok {
		return false, nil
	}
	delete(r.db.actions, id)
	return true, nil
}
