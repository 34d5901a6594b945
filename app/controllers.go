package app

import (
	"context"
	"net/http"

	"github.com/goadesign/goa"
	"github.com/goadesign/goa/cors"
)

// initService sets up the service encoders and decoders.
func initService(service *goa.Service) {
	// Setup encoders and decoders
	service.Encoder.Register(goa.NewJSONEncoder, "application/json")
	service.Decoder.Register(goa.NewJSONDecoder, "application/json")

	// Setup default encoder and decoder
	service.Encoder.Register(goa.NewJSONEncoder, "*/*")
	service.Decoder.Register(goa.NewJSONDecoder, "*/*")
}

// StatusController is the controller interface for the Status actions.
type StatusController interface {
	goa.Muxer
	Show(*ShowStatusContext) error
}

// MountStatusController "mounts" a Status resource controller on the given
// service.
func MountStatusController(service *goa.Service, ctrl StatusController, policy OriginPolicy) {
	initService(service)
	var h goa.Handler
	service.Mux.Handle("OPTIONS", "/health", ctrl.MuxHandler("preflight", policy.handle(cors.HandlePreflight(), "GET"), nil))

	h = func(ctx context.Context, rw http.ResponseWriter, req *http.Request) error {
		// Check if there was an error loading the request
		if err := goa.ContextError(ctx); err != nil {
			return err
		}
		// Build the context
		rctx, err := NewShowStatusContext(ctx, req, service)
		if err != nil {
			return err
		}
		return ctrl.Show(rctx)
	}
	h = policy.handle(h, "GET")
	service.Mux.Handle("GET", "/health", ctrl.MuxHandler("show", h, nil))
	service.LogInfo("mount", "ctrl", "Status", "action", "Show", "route", "GET /health")
}

// TrackerController is the controller interface for the Tracker actions.
type TrackerController interface {
	goa.Muxer
	List(*ListTrackerContext) error
	Create(*CreateTrackerContext) error
	Update(*UpdateTrackerContext) error
	Delete(*DeleteTrackerContext) error
}

// MountTrackerController "mounts" a Tracker resource controller on the given
// service.
func MountTrackerController(service *goa.Service, ctrl TrackerController, policy OriginPolicy) {
	initService(service)
	var h goa.Handler
	service.Mux.Handle("OPTIONS", "/trackers", ctrl.MuxHandler("preflight", policy.handle(cors.HandlePreflight(), "GET", "POST"), nil))
	service.Mux.Handle("OPTIONS", "/trackers/:id", ctrl.MuxHandler("preflight", policy.handle(cors.HandlePreflight(), "PATCH", "DELETE"), nil))

	h = func(ctx context.Context, rw http.ResponseWriter, req *http.Request) error {
		// Check if there was an error loading the request
		if err := goa.ContextError(ctx); err != nil {
			return err
		}
		// Build the context
		rctx, err := NewListTrackerContext(ctx, req, service)
		if err != nil {
			return err
		}
		return ctrl.List(rctx)
	}
	h = policy.handle(h, "GET", "POST")
	service.Mux.Handle("GET", "/trackers", ctrl.MuxHandler("list", h, nil))
	service.LogInfo("mount", "ctrl", "Tracker", "action", "List", "route", "GET /trackers")

	h = func(ctx context.Context, rw http.ResponseWriter, req *http.Request) error {
		// Check if there was an error loading the request
		if err := goa.ContextError(ctx); err != nil {
			return err
		}
		// Build the context
		rctx, err := NewCreateTrackerContext(ctx, req, service)
		if err != nil {
			return err
		}
		// Build the payload
		if rawPayload := goa.ContextRequest(ctx).Payload; rawPayload != nil {
			rctx.Payload = rawPayload.(*TrackerPayload)
		}
		return ctrl.Create(rctx)
	}
	h = policy.handle(h, "GET", "POST")
	service.Mux.Handle("POST", "/trackers", ctrl.MuxHandler("create", h, unmarshalTrackerPayload))
	service.LogInfo("mount", "ctrl", "Tracker", "action", "Create", "route", "POST /trackers")

	h = func(ctx context.Context, rw http.ResponseWriter, req *http.Request) error {
		// Check if there was an error loading the request
		if err := goa.ContextError(ctx); err != nil {
			return err
		}
		// Build the context
		rctx, err := NewUpdateTrackerContext(ctx, req, service)
		if err != nil {
			return err
		}
		// Build the payload
		if rawPayload := goa.ContextRequest(ctx).Payload; rawPayload != nil {
			rctx.Payload = rawPayload.(*TrackerPayload)
		}
		return ctrl.Update(rctx)
	}
	h = policy.handle(h, "PATCH", "DELETE")
	service.Mux.Handle("PATCH", "/trackers/:id", ctrl.MuxHandler("update", h, unmarshalTrackerPayload))
	service.LogInfo("mount", "ctrl", "Tracker", "action", "Update", "route", "PATCH /trackers/:id")

	h = func(ctx context.Context, rw http.ResponseWriter, req *http.Request) error {
		// Check if there was an error loading the request
		if err := goa.ContextError(ctx); err != nil {
			return err
		}
		// Build the context
		rctx, err := NewDeleteTrackerContext(ctx, req, service)
		if err != nil {
			return err
		}
		return ctrl.Delete(rctx)
	}
	h = policy.handle(h, "PATCH", "DELETE")
	service.Mux.Handle("DELETE", "/trackers/:id", ctrl.MuxHandler("delete", h, nil))
	service.LogInfo("mount", "ctrl", "Tracker", "action", "Delete", "route", "DELETE /trackers/:id")
}

// unmarshalTrackerPayload unmarshals the request body into the context
// request data Payload field.
func unmarshalTrackerPayload(ctx context.Context, service *goa.Service, req *http.Request) error {
	payload := &TrackerPayload{}
	if err := service.DecodeRequest(req, payload); err != nil {
		return err
	}
	goa.ContextRequest(ctx).Payload = payload
	return nil
}

// ActionController is the controller interface for the Action actions.
type ActionController interface {
	goa.Muxer
	List(*ListActionContext) error
	Create(*CreateActionContext) error
	Update(*UpdateActionContext) error
	Delete(*DeleteActionContext) error
}

// MountActionController "mounts" a Action resource controller on the given
// service.
func MountActionController(service *goa.Service, ctrl ActionController, policy OriginPolicy) {
	initService(service)
	var h goa.Handler
	service.Mux.Handle("OPTIONS", "/actions", ctrl.MuxHandler("preflight", policy.handle(cors.HandlePreflight(), "GET", "POST"), nil))
	service.Mux.Handle("OPTIONS", "/actions/:id", ctrl.MuxHandler("preflight", policy.handle(cors.HandlePreflight(), "PATCH", "DELETE"), nil))

	h = func(ctx context.Context, rw http.ResponseWriter, req *http.Request) error {
		// Check if there was an error loading the request
		if err := goa.ContextError(ctx); err != nil {
			return err
		}
		// Build the context
		rctx, err := NewListActionContext(ctx, req, service)
		if err != nil {
			return err
		}
		return ctrl.List(rctx)
	}
	h = policy.handle(h, "GET", "POST")
	service.Mux.Handle("GET", "/actions", ctrl.MuxHandler("list", h, nil))
	service.LogInfo("mount", "ctrl", "Action", "action", "List", "route", "GET /actions")

	h = func(ctx context.Context, rw http.ResponseWriter, req *http.Request) error {
		// Check if there was an error loading the request
		if err := goa.ContextError(ctx); err != nil {
			return err
		}
		// Build the context
		rctx, err := NewCreateActionContext(ctx, req, service)
		if err != nil {
			return err
		}
		// Build the payload
		if rawPayload := goa.ContextRequest(ctx).Payload; rawPayload != nil {
			rctx.Payload = *rawPayload.(*ActionPayload)
		}
		return ctrl.Create(rctx)
	}
	h = policy.handle(h, "GET", "POST")
	service.Mux.Handle("POST", "/actions", ctrl.MuxHandler("create", h, unmarshalActionPayload))
	service.LogInfo("mount", "ctrl", "Action", "action", "Create", "route", "POST /actions")

	h = func(ctx context.Context, rw http.ResponseWriter, req *http.Request) error {
		// Check if there was an error loading the request
		if err := goa.ContextError(ctx); err != nil {
			return err
		}
		// Build the context
		rctx, err := NewUpdateActionContext(ctx, req, service)
		if err != nil {
			return err
		}
		// Build the payload
		if rawPayload := goa.ContextRequest(ctx).Payload; rawPayload != nil {
			rctx.Payload = *rawPayload.(*ActionPayload)
		}
		return ctrl.Update(rctx)
	}
	h = policy.handle(h, "PATCH", "DELETE")
	service.Mux.Handle("PATCH", "/actions/:id", ctrl.MuxHandler("update", h, unmarshalActionPayload))
	service.LogInfo("mount", "ctrl", "Action", "action", "Update", "route", "PATCH /actions/:id")

	h = func(ctx context.Context, rw http.ResponseWriter, req *http.Request) error {
		// Check if there was an error loading the request
		if err := goa.ContextError(ctx); err != nil {
			return err
		}
		// Build the context
		rctx, err := NewDeleteActionContext(ctx, req, service)
		if err != nil {
			return err
		}
		return ctrl.Delete(rctx)
	}
	h = policy.handle(h, "PATCH", "DELETE")
	service.Mux.Handle("DELETE", "/actions/:id", ctrl.MuxHandler("delete", h, nil))
	service.LogInfo("mount", "ctrl", "Action", "action", "Delete", "route", "DELETE /actions/:id")
}

// unmarshalActionPayload unmarshals the request body into the context
// request data Payload field.
func unmarshalActionPayload(ctx context.Context, service *goa.Service, req *http.Request) error {
	payload := &ActionPayload{}
	if err := service.DecodeRequest(req, payload); err != nil {
		return err
	}
	goa.ContextRequest(ctx).Payload = payload
	return nil
}
