package controller

import (
	"context"

	"github.com/fabric8-services/fabric8-tracker/action"
	"github.com/fabric8-services/fabric8-tracker/app"
	"github.com/fabric8-services/fabric8-tracker/application"
	"github.com/fabric8-services/fabric8-tracker/jsonapi"
	"github.com/fabric8-services/fabric8-tracker/log"
	"github.com/goadesign/goa"
)

// ActionController implements the action resource.
type ActionController struct {
	*goa.Controller
	db  application.DB
	log log.Interface
}

// NewActionController creates an action controller.
func NewActionController(service *goa.Service, db application.DB, logger log.Interface) *ActionController {
	return &ActionController{
		Controller: service.NewController("ActionController"),
		db:         db,
		log:        logger,
	}
}

// List runs the list action. It returns the actions of the tracker given by
// the tracker_id query parameter ordered by local id. An unknown tracker is
// not found.
func (c *ActionController) List(ctx *app.ListActionContext) error {
	trackerID := ctx.TrackerID
	var actions []action.Action
	err := application.Transactional(ctx, c.db, func(ctx context.Context, appl application.Application) error {
		if err := appl.Trackers().CheckExists(ctx, trackerID); err != nil {
			return err
		}
		var err error
		actions, err = appl.Actions().List(ctx, trackerID)
		return err
	})
	if err != nil {
		return jsonapi.JSONErrorResponse(ctx, err)
	}
	return ctx.OK(ConvertActions(actions))
}

// Create runs the create action.
func (c *ActionController) Create(ctx *app.CreateActionContext) error {
	a, err := newAction(ctx.Payload)
	if err != nil {
		return jsonapi.JSONErrorResponse(ctx, err)
	}
	err = application.Transactional(ctx, c.db, func(ctx context.Context, appl application.Application) error {
		return appl.Actions().Create(ctx, a)
	})
	if err != nil {
		return jsonapi.JSONErrorResponse(ctx, err)
	}
	c.log.Info(ctx, map[string]interface{}{
		"action_id":  a.ID,
		"tracker_id": a.TrackerID,
		"local_id":   a.LocalID,
	}, "action created")
	ctx.ResponseData.Header().Set("Location", app.ActionHref(a.ID))
	return ctx.Created(ConvertAction(*a))
}

// Update runs the update action. Only the attributes present in the payload
// are changed.
func (c *ActionController) Update(ctx *app.UpdateActionContext) error {
	p, err := newPatch(ctx.Payload)
	if err != nil {
		return jsonapi.JSONErrorResponse(ctx, err)
	}
	id := ctx.ID
	var updated *action.Action
	err = application.Transactional(ctx, c.db, func(ctx context.Context, appl application.Application) error {
		var err error
		updated, err = appl.Actions().Patch(ctx, id, p)
		return err
	})
	if err != nil {
		return jsonapi.JSONErrorResponse(ctx, err)
	}
	return ctx.OK(ConvertAction(*updated))
}

// Delete runs the delete action.
func (c *ActionController) Delete(ctx *app.DeleteActionContext) error {
	id := ctx.ID
	var deleted bool
	err := application.Transactional(ctx, c.db, func(ctx context.Context, appl application.Application) error {
		var err error
		deleted, err = appl.Actions().Delete(ctx, id)
		return err
	})
	if err != nil {
		return jsonapi.JSONErrorResponse(ctx, err)
	}
	if deleted {
		c.log.Info(ctx, map[string]interface{}{
			"action_id": id,
		}, "action deleted")
	}
	return ctx.OK(&app.Deletion{Ok: deleted})
}
