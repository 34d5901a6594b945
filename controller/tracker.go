package controller

import (
	"context"
	"strings"
	"time"

	"github.com/fabric8-services/fabric8-tracker/app"
	"github.com/fabric8-services/fabric8-tracker/application"
	"github.com/fabric8-services/fabric8-tracker/errors"
	"github.com/fabric8-services/fabric8-tracker/jsonapi"
	"github.com/fabric8-services/fabric8-tracker/log"
	"github.com/fabric8-services/fabric8-tracker/tracker"
	"github.com/goadesign/goa"
)

// TrackerController implements the tracker resource.
type TrackerController struct {
	*goa.Controller
	db  application.DB
	log log.Interface
}

// NewTrackerController creates a tracker controller.
func NewTrackerController(service *goa.Service, db application.DB, logger log.Interface) *TrackerController {
	return &TrackerController{
		Controller: service.NewController("TrackerController"),
		db:         db,
		log:        logger,
	}
}

// List runs the list action.
func (c *TrackerController) List(ctx *app.ListTrackerContext) error {
	var trackers []tracker.Tracker
	err := application.Transactional(ctx, c.db, func(ctx context.Context, appl application.Application) error {
		var err error
		trackers, err = appl.Trackers().List(ctx)
		return err
	})
	if err != nil {
		return jsonapi.JSONErrorResponse(ctx, err)
	}
	return ctx.OK(ConvertTrackers(trackers))
}

// Create runs the create action.
func (c *TrackerController) Create(ctx *app.CreateTrackerContext) error {
	name, err := trackerName(ctx.Payload)
	if err != nil {
		return jsonapi.JSONErrorResponse(ctx, err)
	}
	t := tracker.Tracker{Name: name}
	err = application.Transactional(ctx, c.db, func(ctx context.Context, appl application.Application) error {
		return appl.Trackers().Create(ctx, &t)
	})
	if err != nil {
		return jsonapi.JSONErrorResponse(ctx, err)
	}
	c.log.Info(ctx, map[string]interface{}{
		"tracker_id": t.ID,
	}, "tracker created")
	ctx.ResponseData.Header().Set("Location", app.TrackerHref(t.ID))
	return ctx.Created(ConvertTracker(t))
}

// Update runs the update action.
func (c *TrackerController) Update(ctx *app.UpdateTrackerContext) error {
	name, err := trackerName(ctx.Payload)
	if err != nil {
		return jsonapi.JSONErrorResponse(ctx, err)
	}
	id := ctx.ID
	var updated *tracker.Tracker
	err = application.Transactional(ctx, c.db, func(ctx context.Context, appl application.Application) error {
		var err error
		updated, err = appl.Trackers().Save(ctx, tracker.Tracker{ID: id, Name: name})
		return err
	})
	if err != nil {
		return jsonapi.JSONErrorResponse(ctx, err)
	}
	return ctx.OK(ConvertTracker(*updated))
}

// Delete runs the delete action. The actions of the tracker are removed
// along with it.
func (c *TrackerController) Delete(ctx *app.DeleteTrackerContext) error {
	id := ctx.ID
	var deleted bool
	err := application.Transactional(ctx, c.db, func(ctx context.Context, appl application.Application) error {
		var err error
		deleted, err = appl.Trackers().Delete(ctx, id)
		return err
	})
	if err != nil {
		return jsonapi.JSONErrorResponse(ctx, err)
	}
	if deleted {
		c.log.Info(ctx, map[string]interface{}{
			"tracker_id": ctx.ID,
		}, "tracker deleted")
	}
	return ctx.OK(&app.Deletion{Ok: deleted})
}

// trackerName returns the trimmed name of the payload.
func trackerName(payload *app.TrackerPayload) (string, error) {
	if payload == nil || payload.Name == nil {
		return "", errors.NewBadParameterError("name", nil).Expected("non-empty name")
	}
	name := strings.TrimSpace(*payload.Name)
	if tracker.IsBlank(name) {
		return "", errors.NewBadParameterError("name", *payload.Name).Expected("non-empty name")
	}
	return name, nil
}

// ConvertTracker converts a tracker to its REST representation.
func ConvertTracker(t tracker.Tracker) *app.Tracker {
	return &app.Tracker{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ConvertTrackers converts trackers to their REST representation.
func ConvertTrackers(trackers []tracker.Tracker) app.TrackerCollection {
	res := app.TrackerCollection{}
	for _, t := range trackers {
		res = append(res, ConvertTracker(t))
	}
	return res
}
