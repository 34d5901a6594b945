package action

import (
	"context"
	"strconv"
	"time"

	"github.com/fabric8-services/fabric8-tracker/errors"
	"github.com/fabric8-services/fabric8-tracker/gormsupport"
	"github.com/fabric8-services/fabric8-tracker/log"
	"github.com/goadesign/goa"
	"github.com/jinzhu/gorm"
	errs "github.com/pkg/errors"
)

const (
	trackerForeignKey      = "actions_tracker_id_fkey"
	localIDUniqueKey       = "actions_tracker_id_local_id_key"
	localIDCheckConstraint = "actions_local_id_check"
	titleCheckConstraint   = "actions_title_check"
	statusCheckConstraint  = "actions_status_check"
)

// Repository encapsulate storage & retrieval of actions
type Repository interface {
	// List returns the actions of the given tracker ordered by local id.
	List(ctx context.Context, trackerID uint64) ([]Action, error)
	// Create stores the given action, assigning the next local id of its
	// tracker unless one is set, and updates it with the stored row.
	Create(ctx context.Context, a *Action) error
	// Load returns the action with the given ID.
	Load(ctx context.Context, id uint64) (*Action, error)
	// Patch changes the fields listed in the patch and returns the stored
	// row.
	Patch(ctx context.Context, id uint64, p Patch) (*Action, error)
	// Delete removes the action. It returns false if no action with the
	// given ID existed.
	Delete(ctx context.Context, id uint64) (bool, error)
}

// NewRepository creates a new action repository
func NewRepository(db *gorm.DB) *GormActionRepository {
	return &GormActionRepository{db: db}
}

// GormActionRepository implements Repository using gorm
type GormActionRepository struct {
	db *gorm.DB
}

func (r *GormActionRepository) withContext(ctx context.Context) *gorm.DB {
	return r.db.Set(contextKey, ctx)
}

// List returns the actions of a tracker ordered by local id
func (r *GormActionRepository) List(ctx context.Context, trackerID uint64) ([]Action, error) {
	defer goa.MeasureSince([]string{"goa", "db", "action", "list"}, time.Now())
	actions := []Action{}
	err := r.db.Where("tracker_id = ?", trackerID).Order("local_id, id").Find(&actions).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		log.Error(ctx, map[string]interface{}{
			"tracker_id": trackerID,
			"err":        err,
		}, "failed to list actions")
		return nil, gormsupport.ConvertError(ctx, errs.Wrapf(err, "failed to list actions of tracker %d", trackerID))
	}
	return actions, nil
}

// Create stores a new action. The local id is computed inside the insert
// transaction unless the action already carries one.
func (r *GormActionRepository) Create(ctx context.Context, a *Action) error {
	defer goa.MeasureSince([]string{"goa", "db", "action", "create"}, time.Now())
	if a.Status == "" {
		a.Status = StatusOpen
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if err := r.withContext(ctx).Create(a).Error; err != nil {
		return convertError(ctx, errs.Wrap(err, "failed to create action"), *a)
	}
	log.Debug(ctx, map[string]interface{}{
		"action_id":  a.ID,
		"tracker_id": a.TrackerID,
		"local_id":   a.LocalID,
	}, "action created")
	created, err := r.Load(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *created
	return nil
}

// Load returns the action for the given id
func (r *GormActionRepository) Load(ctx context.Context, id uint64) (*Action, error) {
	defer goa.MeasureSince([]string{"goa", "db", "action", "load"}, time.Now())
	return r.load(ctx, r.db, id)
}

func (r *GormActionRepository) load(ctx context.Context, db *gorm.DB, id uint64) (*Action, error) {
	var a Action
	tx := db.Where("id = ?", id).First(&a)
	if tx.RecordNotFound() {
		return nil, errors.NewNotFoundError("action", strconv.FormatUint(id, 10))
	}
	if tx.Error != nil {
		log.Error(ctx, map[string]interface{}{
			"action_id": id,
			"err":       tx.Error,
		}, "failed to load action")
		return nil, gormsupport.ConvertError(ctx, errs.Wrapf(tx.Error, "failed to load action %d", id))
	}
	return &a, nil
}

// Patch updates the given fields of an action. The row is locked for the
// rest of the transaction.
func (r *GormActionRepository) Patch(ctx context.Context, id uint64, p Patch) (*Action, error) {
	defer goa.MeasureSince([]string{"goa", "db", "action", "patch"}, time.Now())
	if err := p.Validate(); err != nil {
		return nil, err
	}
	a, err := r.load(ctx, r.db.Set("gorm:query_option", "FOR UPDATE"), id)
	if err != nil {
		return nil, err
	}
	if err := r.withContext(ctx).Model(a).Updates(p.columns()).Error; err != nil {
		return nil, convertError(ctx, errs.Wrapf(err, "failed to update action %d", id), *a)
	}
	log.Debug(ctx, map[string]interface{}{
		"action_id": id,
	}, "action updated")
	return r.load(ctx, r.db, id)
}

// Delete removes the action with the given id
func (r *GormActionRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	defer goa.MeasureSince([]string{"goa", "db", "action", "delete"}, time.Now())
	tx := r.db.Where("id = ?", id).Delete(&Action{})
	if tx.Error != nil {
		log.Error(ctx, map[string]interface{}{
			"action_id": id,
			"err":       tx.Error,
		}, "failed to delete action")
		return false, gormsupport.ConvertError(ctx, errs.Wrapf(tx.Error, "failed to delete action %d", id))
	}
	return tx.RowsAffected > 0, nil
}

// convertError maps constraint violations to the offending parameter of the
// given action.
func convertError(ctx context.Context, err error, a Action) error {
	switch {
	case gormsupport.IsForeignKeyViolation(err, trackerForeignKey):
		return errors.NewBadParameterError("tracker_id", a.TrackerID).Expected("an existing tracker id")
	case gormsupport.IsUniqueViolation(err, localIDUniqueKey):
		return errors.NewBadParameterError("local_id", a.LocalID).Expected("a local_id not used in the tracker")
	case gormsupport.IsCheckViolation(err, localIDCheckConstraint):
		return errors.NewBadParameterError("local_id", a.LocalID).Expected("a positive number")
	case gormsupport.IsCheckViolation(err, titleCheckConstraint):
		return errors.NewBadParameterError("title", a.Title).Expected("non-empty title")
	case gormsupport.IsCheckViolation(err, statusCheckConstraint):
		return errors.NewBadParameterError("status", a.Status).Expected("open, in_progress or completed")
	case gormsupport.IsDataException(err):
		return errors.NewBadParameterError("data", errs.Cause(err).Error())
	}
	return gormsupport.ConvertError(ctx, err)
}
