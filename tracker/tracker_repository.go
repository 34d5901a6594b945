package tracker

import (
	"context"
	"strconv"
	"time"

	"github.com/fabric8-services/fabric8-tracker/application/repository"
	"github.com/fabric8-services/fabric8-tracker/errors"
	"github.com/fabric8-services/fabric8-tracker/gormsupport"
	"github.com/fabric8-services/fabric8-tracker/log"
	"github.com/goadesign/goa"
	"github.com/jinzhu/gorm"
	errs "github.com/pkg/errors"
)

const nameCheckConstraint = "trackers_name_check"

// Repository encapsulate storage & retrieval of trackers
type Repository interface {
	repository.Exister
	// List returns all trackers in creation order.
	List(ctx context.Context) ([]Tracker, error)
	// Create stores the given tracker and updates it with the values assigned
	// by the database.
	Create(ctx context.Context, t *Tracker) error
	// Load returns the tracker with the given ID.
	Load(ctx context.Context, id uint64) (*Tracker, error)
	// Save renames the given tracker and returns the stored row.
	Save(ctx context.Context, t Tracker) (*Tracker, error)
	// Delete removes the tracker together with its actions. It returns false
	// if no tracker with the given ID existed.
	Delete(ctx context.Context, id uint64) (bool, error)
}

// NewRepository creates a new tracker repository
func NewRepository(db *gorm.DB) *GormTrackerRepository {
	return &GormTrackerRepository{db: db}
}

// GormTrackerRepository implements Repository using gorm
type GormTrackerRepository struct {
	db *gorm.DB
}

// CheckExists returns nil if a tracker exists with a given ID
func (r *GormTrackerRepository) CheckExists(ctx context.Context, id uint64) error {
	defer goa.MeasureSince([]string{"goa", "db", "tracker", "exists"}, time.Now())
	return repository.CheckExists(ctx, r.db, Tracker{}.TableName(), id)
}

// List returns all trackers ordered by creation.
func (r *GormTrackerRepository) List(ctx context.Context) ([]Tracker, error) {
	defer goa.MeasureSince([]string{"goa", "db", "tracker", "list"}, time.Now())
	trackers := []Tracker{}
	if err := r.db.Order("created_at, id").Find(&trackers).Error; err != nil && err != gorm.ErrRecordNotFound {
		log.Error(ctx, map[string]interface{}{
			"err": err,
		}, "failed to list trackers")
		return nil, gormsupport.ConvertError(ctx, errs.Wrap(err, "failed to list trackers"))
	}
	return trackers, nil
}

// Create stores the given tracker.
func (r *GormTrackerRepository) Create(ctx context.Context, t *Tracker) error {
	defer goa.MeasureSince([]string{"goa", "db", "tracker", "create"}, time.Now())
	if err := t.Validate(); err != nil {
		return err
	}
	if err := r.db.Create(t).Error; err != nil {
		return convertError(ctx, errs.Wrap(err, "failed to create tracker"), t.Name)
	}
	log.Debug(ctx, map[string]interface{}{
		"tracker_id": t.ID,
	}, "tracker created")
	created, err := r.Load(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

// Load returns the tracker for the given id
func (r *GormTrackerRepository) Load(ctx context.Context, id uint64) (*Tracker, error) {
	defer goa.MeasureSince([]string{"goa", "db", "tracker", "load"}, time.Now())
	var t Tracker
	tx := r.db.Where("id = ?", id).First(&t)
	if tx.RecordNotFound() {
		return nil, errors.NewNotFoundError("tracker", strconv.FormatUint(id, 10))
	}
	if tx.Error != nil {
		log.Error(ctx, map[string]interface{}{
			"tracker_id": id,
			"err":        tx.Error,
		}, "failed to load tracker")
		return nil, gormsupport.ConvertError(ctx, errs.Wrapf(tx.Error, "failed to load tracker %d", id))
	}
	return &t, nil
}

// Save updates the name of the given tracker
func (r *GormTrackerRepository) Save(ctx context.Context, t Tracker) (*Tracker, error) {
	defer goa.MeasureSince([]string{"goa", "db", "tracker", "save"}, time.Now())
	if err := t.Validate(); err != nil {
		return nil, err
	}
	tx := r.db.Model(&Tracker{ID: t.ID}).Update("name", t.Name)
	if tx.Error != nil {
		return nil, convertError(ctx, errs.Wrapf(tx.Error, "failed to update tracker %d", t.ID), t.Name)
	}
	if tx.RowsAffected == 0 {
		return nil, errors.NewNotFoundError("tracker", strconv.FormatUint(t.ID, 10))
	}
	log.Debug(ctx, map[string]interface{}{
		"tracker_id": t.ID,
	}, "tracker updated")
	return r.Load(ctx, t.ID)
}

// Delete removes the tracker with the given id. Its actions are removed by
// the database (ON DELETE CASCADE).
func (r *GormTrackerRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	defer goa.MeasureSince([]string{"goa", "db", "tracker", "delete"}, time.Now())
	tx := r.db.Where("id = ?", id).Delete(&Tracker{})
	if tx.Error != nil {
		log.Error(ctx, map[string]interface{}{
			"tracker_id": id,
			"err":        tx.Error,
		}, "failed to delete tracker")
		return false, gormsupport.ConvertError(ctx, errs.Wrapf(tx.Error, "failed to delete tracker %d", id))
	}
	log.Debug(ctx, map[string]interface{}{
		"tracker_id": id,
		"deleted":    tx.RowsAffected,
	}, "tracker deleted")
	return tx.RowsAffected > 0, nil
}

func convertError(ctx context.Context, err error, name string) error {
	if gormsupport.IsCheckViolation(err, nameCheckConstraint) || gormsupport.IsNotNullViolation(err, "name") {
		return errors.NewBadParameterError("name", name).Expected("non-empty name")
	}
	return gormsupport.ConvertError(ctx, err)
}
