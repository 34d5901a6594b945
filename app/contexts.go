package app

import (
	"context"
	"net/http"
	"strconv"

	"github.com/fabric8-services/fabric8-tracker/errors"
	"github.com/goadesign/goa"
)

// parseID reads a positive integer path parameter. Anything else does not
// name an existing row, hence the not found error.
func parseID(req *goa.RequestData, entity string) (uint64, error) {
	raw := req.Params.Get("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewNotFoundError(entity, raw)
	}
	return id, nil
}

// ShowStatusContext provides the status show action context.
type ShowStatusContext struct {
	context.Context
	*goa.ResponseData
	*goa.RequestData
}

// NewShowStatusContext parses the incoming request URL and body, performs
// validations and creates the context used by the status controller show
// action.
func NewShowStatusContext(ctx context.Context, r *http.Request, service *goa.Service) (*ShowStatusContext, error) {
	var err error
	resp := goa.ContextResponse(ctx)
	resp.Service = service
	req := goa.ContextRequest(ctx)
	req.Request = r
	rctx := ShowStatusContext{Context: ctx, ResponseData: resp, RequestData: req}
	return &rctx, err
}

// OK sends a HTTP response with status code 200.
func (ctx *ShowStatusContext) OK(r *Health) error {
	if ctx.ResponseData.Header().Get("Content-Type") == "" {
		ctx.ResponseData.Header().Set("Content-Type", "application/vnd.health+json")
	}
	return ctx.ResponseData.Service.Send(ctx.Context, 200, r)
}

// InternalServerError sends a HTTP response with status code 500.
func (ctx *ShowStatusContext) InternalServerError(r *Health) error {
	if ctx.ResponseData.Header().Get("Content-Type") == "" {
		ctx.ResponseData.Header().Set("Content-Type", "application/vnd.health+json")
	}
	return ctx.ResponseData.Service.Send(ctx.Context, 500, r)
}

// ListTrackerContext provides the tracker list action context.
type ListTrackerContext struct {
	context.Context
	*goa.ResponseData
	*goa.RequestData
}

// NewListTrackerContext parses the incoming request URL and body, performs
// validations and creates the context used by the tracker controller list
// action.
func NewListTrackerContext(ctx context.Context, r *http.Request, service *goa.Service) (*ListTrackerContext, error) {
	var err error
	resp := goa.ContextResponse(ctx)
	resp.Service = service
	req := goa.ContextRequest(ctx)
	req.Request = r
	rctx := ListTrackerContext{Context: ctx, ResponseData: resp, RequestData: req}
	return &rctx, err
}

// OK sends a HTTP response with status code 200.
func (ctx *ListTrackerContext) OK(r TrackerCollection) error {
	if ctx.ResponseData.Header().Get("Content-Type") == "" {
		ctx.ResponseData.Header().Set("Content-Type", "application/vnd.tracker+json; type=collection")
	}
	if r == nil {
		r = TrackerCollection{}
	}
	return ctx.ResponseData.Service.Send(ctx.Context, 200, r)
}

// CreateTrackerContext provides the tracker create action context.
type CreateTrackerContext struct {
	context.Context
	*goa.ResponseData
	*goa.RequestData
	Payload *TrackerPayload
}

// NewCreateTrackerContext parses the incoming request URL and body, performs
// validations and creates the context used by the tracker controller create
// action.
func NewCreateTrackerContext(ctx context.Context, r *http.Request, service *goa.Service) (*CreateTrackerContext, error) {
	var err error
	resp := goa.ContextResponse(ctx)
	resp.Service = service
	req := goa.ContextRequest(ctx)
	req.Request = r
	rctx := CreateTrackerContext{Context: ctx, ResponseData: resp, RequestData: req}
	return &rctx, err
}

// Created sends a HTTP response with status code 201.
func (ctx *CreateTrackerContext) Created(r *Tracker) error {
	if ctx.ResponseData.Header().Get("Content-Type") == "" {
		ctx.ResponseData.Header().Set("Content-Type", "application/vnd.tracker+json")
	}
	return ctx.ResponseData.Service.Send(ctx.Context, 201, r)
}

// UpdateTrackerContext provides the tracker update action context.
type UpdateTrackerContext struct {
	context.Context
	*goa.ResponseData
	*goa.RequestData
	ID      uint64
	Payload *TrackerPayload
}

// NewUpdateTrackerContext parses the incoming request URL and body, performs
// validations and creates the context used by the tracker controller update
// action.
func NewUpdateTrackerContext(ctx context.Context, r *http.Request, service *goa.Service) (*UpdateTrackerContext, error) {
	var err error
	resp := goa.ContextResponse(ctx)
	resp.Service = service
	req := goa.ContextRequest(ctx)
	req.Request = r
	rctx := UpdateTrackerContext{Context: ctx, ResponseData: resp, RequestData: req}
	rctx.ID, err = parseID(req, "tracker")
	return &rctx, err
}

// OK sends a HTTP response with status code 200.
func (ctx *UpdateTrackerContext) OK(r *Tracker) error {
	if ctx.ResponseData.Header().Get("Content-Type") == "" {
		ctx.ResponseData.Header().Set("Content-Type", "application/vnd.tracker+json")
	}
	return ctx.ResponseData.Service.Send(ctx.Context, 200, r)
}

// DeleteTrackerContext provides the tracker delete action context.
type DeleteTrackerContext struct {
	context.Context
	*goa.ResponseData
	*goa.RequestData
	ID uint64
}

// NewDeleteTrackerContext parses the incoming request URL and body, performs
// validations and creates the context used by the tracker controller delete
// action.
func NewDeleteTrackerContext(ctx context.Context, r *http.Request, service *goa.Service) (*DeleteTrackerContext, error) {
	var err error
	resp := goa.ContextResponse(ctx)
	resp.Service = service
	req := goa.ContextRequest(ctx)
	req.Request = r
	rctx := DeleteTrackerContext{Context: ctx, ResponseData: resp, RequestData: req}
	rctx.ID, err = parseID(req, "tracker")
	return &rctx, err
}

// OK sends a HTTP response with status code 200.
func (ctx *DeleteTrackerContext) OK(r *Deletion) error {
	if ctx.ResponseData.Header().Get("Content-Type") == "" {
		ctx.ResponseData.Header().Set("Content-Type", "application/vnd.deletion+json")
	}
	return ctx.ResponseData.Service.Send(ctx.Context, 200, r)
}

// ListActionContext provides the action list action context.
type ListActionContext struct {
	context.Context
	*goa.ResponseData
	*goa.RequestData
	TrackerID uint64
}

// NewListActionContext parses the incoming request URL and body, performs
// validations and creates the context used by the action controller list
// action. The tracker_id query parameter is required.
func NewListActionContext(ctx context.Context, r *http.Request, service *goa.Service) (*ListActionContext, error) {
	var err error
	resp := goa.ContextResponse(ctx)
	resp.Service = service
	req := goa.ContextRequest(ctx)
	req.Request = r
	rctx := ListActionContext{Context: ctx, ResponseData: resp, RequestData: req}
	paramTrackerID := req.Params["tracker_id"]
	if len(paramTrackerID) == 0 || paramTrackerID[0] == "" {
		return &rctx, errors.NewBadParameterError("tracker_id", "").Expected("a tracker id")
	}
	rawTrackerID := paramTrackerID[0]
	trackerID, err2 := strconv.ParseUint(rawTrackerID, 10, 64)
	if err2 != nil || trackerID == 0 {
		return &rctx, errors.NewBadParameterError("tracker_id", rawTrackerID).Expected("a positive integer")
	}
	rctx.TrackerID = trackerID
	return &rctx, err
}

// OK sends a HTTP response with status code 200.
func (ctx *ListActionContext) OK(r ActionCollection) error {
	if ctx.ResponseData.Header().Get("Content-Type") == "" {
		ctx.ResponseData.Header().Set("Content-Type", "application/vnd.action+json; type=collection")
	}
	if r == nil {
		r = ActionCollection{}
	}
	return ctx.ResponseData.Service.Send(ctx.Context, 200, r)
}

// CreateActionContext provides the action create action context.
type CreateActionContext struct {
	context.Context
	*goa.ResponseData
	*goa.RequestData
	Payload ActionPayload
}

// NewCreateActionContext parses the incoming request URL and body, performs
// validations and creates the context used by the action controller create
// action.
func NewCreateActionContext(ctx context.Context, r *http.Request, service *goa.Service) (*CreateActionContext, error) {
	var err error
	resp := goa.ContextResponse(ctx)
	resp.Service = service
	req := goa.ContextRequest(ctx)
	req.Request = r
	rctx := CreateActionContext{Context: ctx, ResponseData: resp, RequestData: req}
	return &rctx, err
}

// Created sends a HTTP response with status code 201.
func (ctx *CreateActionContext) Created(r *Action) error {
	if ctx.ResponseData.Header().Get("Content-Type") == "" {
		ctx.ResponseData.Header().Set("Content-Type", "application/vnd.action+json")
	}
	return ctx.ResponseData.Service.Send(ctx.Context, 201, r)
}

// UpdateActionContext provides the action update action context.
type UpdateActionContext struct {
	context.Context
	*goa.ResponseData
	*goa.RequestData
	ID      uint64
	Payload ActionPayload
}

// NewUpdateActionContext parses the incoming request URL and body, performs
// validations and creates the context used by the action controller update
// action.
func NewUpdateActionContext(ctx context.Context, r *http.Request, service *goa.Service) (*UpdateActionContext, error) {
	var err error
	resp := goa.ContextResponse(ctx)
	resp.Service = service
	req := goa.ContextRequest(ctx)
	req.Request = r
	rctx := UpdateActionContext{Context: ctx, ResponseData: resp, RequestData: req}
	rctx.ID, err = parseID(req, "action")
	return &rctx, err
}

// OK sends a HTTP response with status code 200.
func (ctx *UpdateActionContext) OK(r *Action) error {
	if ctx.ResponseData.Header().Get("Content-Type") == "" {
		ctx.ResponseData.Header().Set("Content-Type", "application/vnd.action+json")
	}
	return ctx.ResponseData.Service.Send(ctx.Context, 200, r)
}

// DeleteActionContext provides the action delete action context.
type DeleteActionContext struct {
	context.Context
	*goa.ResponseData
	*goa.RequestData
	ID uint64
}

// NewDeleteActionContext parses the incoming request URL and body, performs
// validations and creates the context used by the action controller delete
// action.
func NewDeleteActionContext(ctx context.Context, r *http.Request, service *goa.Service) (*DeleteActionContext, error) {
	var err error
	resp := goa.ContextResponse(ctx)
	resp.Service = service
	req := goa.ContextRequest(ctx)
	req.Request = r
	rctx := DeleteActionContext{Context: ctx, ResponseData: resp, RequestData: req}
	rctx.ID, err = parseID(req, "action")
	return &rctx, err
}

// OK sends a HTTP response with status code 200.
func (ctx *DeleteActionContext) OK(r *Deletion) error {
	if ctx.ResponseData.Header().Get("Content-Type") == "" {
		ctx.ResponseData.Header().Set("Content-Type", "application/vnd.deletion+json")
	}
	return ctx.ResponseData.Service.Send(ctx.Context, 200, r)
}
