package jsonapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/fabric8-services/fabric8-tracker/app"
	"github.com/fabric8-services/fabric8-tracker/errors"
	"github.com/fabric8-services/fabric8-tracker/log"
	"github.com/fabric8-services/fabric8-tracker/sentry"
	"github.com/goadesign/goa"
	"github.com/goadesign/goa/middleware"
	errs "github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// The error codes found in the code attribute of the JSON-API errors.
const (
	ErrorCodeNotFound      = "not_found"
	ErrorCodeBadParameter  = "bad_parameter"
	ErrorCodeUnavailable   = "unavailable"
	ErrorCodeUnknownError  = "unknown_error"
	ErrorCodeInternalError = "internal_error"
)

// ErrorMediaIdentifier is the content type of error responses.
const ErrorMediaIdentifier = "application/vnd.api+json"

const (
	unavailableDetail = "the storage backend is temporarily unavailable, please retry later"
	internalDetail    = "an internal error occurred, please contact the administrator"
)

// ErrorToJSONAPIError returns the JSON-API representation of an error and
// the HTTP status code that will be associated with it. The details of
// unavailable and internal errors are replaced by a generic message.
func ErrorToJSONAPIError(ctx context.Context, err error) (app.JSONAPIError, int) {
	cause := errs.Cause(err)
	detail := cause.Error()
	var title, code string
	var statusCode int
	switch cause.(type) {
	case errors.NotFoundError, *errors.NotFoundError:
		code = ErrorCodeNotFound
		title = "Not found error"
		statusCode = http.StatusNotFound
	case errors.BadParameterError, *errors.BadParameterError:
		code = ErrorCodeBadParameter
		title = "Bad parameter error"
		statusCode = http.StatusBadRequest
	case errors.UnavailableError, *errors.UnavailableError:
		code = ErrorCodeUnavailable
		title = "Service unavailable"
		statusCode = http.StatusServiceUnavailable
		detail = unavailableDetail
	case errors.InternalError, *errors.InternalError:
		code = ErrorCodeInternalError
		title = "Internal error"
		statusCode = http.StatusInternalServerError
		detail = internalDetail
	default:
		code = ErrorCodeUnknownError
		title = "Unknown error"
		statusCode = http.StatusInternalServerError
		detail = internalDetail
		if e, ok := cause.(goa.ServiceError); ok {
			statusCode = e.ResponseStatus()
			title = http.StatusText(statusCode)
			switch statusCode {
			case http.StatusBadRequest:
				code = ErrorCodeBadParameter
			case http.StatusNotFound:
				code = ErrorCodeNotFound
			}
			if statusCode < http.StatusInternalServerError {
				detail = cause.Error()
				if resp, ok := cause.(*goa.ErrorResponse); ok {
					detail = resp.Detail
				}
			}
		}
	}
	id := errorID(ctx)
	statusCodeStr := strconv.Itoa(statusCode)
	jerr := app.JSONAPIError{
		ID:     &id,
		Code:   &code,
		Status: &statusCodeStr,
		Title:  &title,
		Detail: detail,
	}
	return jerr, statusCode
}

// ErrorToJSONAPIErrors is a convenience function if you just want to return
// one error as a JSON-API errors array.
func ErrorToJSONAPIErrors(ctx context.Context, err error) (*app.JSONAPIErrors, int) {
	jerr, httpStatusCode := ErrorToJSONAPIError(ctx, err)
	jerrors := app.JSONAPIErrors{}
	jerrors.Errors = append(jerrors.Errors, &jerr)
	return &jerrors, httpStatusCode
}

// JSONErrorResponse writes the JSON-API representation of the given error to
// the response of the given request context. Server side errors are logged
// with their full detail and sent to Sentry.
func JSONErrorResponse(ctx context.Context, err error) error {
	resp := goa.ContextResponse(ctx)
	if resp == nil || resp.Service == nil {
		return err
	}
	return sendError(ctx, resp.Service, err)
}

// ErrorHandler turns the errors returned by the controllers and the request
// decoding into JSON-API error responses.
func ErrorHandler(service *goa.Service) goa.Middleware {
	return func(h goa.Handler) goa.Handler {
		return func(ctx context.Context, rw http.ResponseWriter, req *http.Request) error {
			e := h(ctx, rw, req)
			if e == nil {
				return nil
			}
			return sendError(ctx, service, e)
		}
	}
}

func sendError(ctx context.Context, service *goa.Service, err error) error {
	jerrors, status := ErrorToJSONAPIErrors(ctx, err)
	if status >= http.StatusInternalServerError {
		log.Error(ctx, map[string]interface{}{
			"err":    err,
			"err_id": *jerrors.Errors[0].ID,
		}, "request failed: %+v", err)
		sentry.Sentry().CaptureError(ctx, err)
	}
	if resp := goa.ContextResponse(ctx); resp != nil {
		resp.Header().Set("Content-Type", ErrorMediaIdentifier)
	}
	return service.Send(ctx, status, jerrors)
}

// errorID returns the request id so that a reported error can be found in
// the logs, or a random id outside of a request.
func errorID(ctx context.Context) string {
	if ctx != nil {
		if reqID := middleware.ContextRequestID(ctx); reqID != "" {
			return reqID
		}
	}
	return uuid.NewV4().String()
}
