package jsonapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/fabric8-services/fabric8-tracker/app"
	"github.com/fabric8-services/fabric8-tracker/errors"
	"github.com/fabric8-services/fabric8-tracker/jsonapi"
	"github.com/fabric8-services/fabric8-tracker/resource"
	"github.com/goadesign/goa"
	errs "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorToJSONAPIError(t *testing.T) {
	t.Parallel()
	resource.Require(t, resource.UnitTest)
	ctx := context.Background()

	secret := "dial tcp db:5432: password=hunter2"
	testData := []struct {
		name   string
		err    error
		status int
		code   string
		detail string
	}{
		{"not found", errors.NewNotFoundError("tracker", "12"), http.StatusNotFound, jsonapi.ErrorCodeNotFound, "tracker with id '12' not found"},
		{"bad parameter", errors.NewBadParameterError("name", ""), http.StatusBadRequest, jsonapi.ErrorCodeBadParameter, "Bad value for parameter 'name': ''"},
		{"wrapped bad parameter", errs.Wrap(errors.NewBadParameterError("status", "done"), "create"), http.StatusBadRequest, jsonapi.ErrorCodeBadParameter, "Bad value for parameter 'status': 'done'"},
		{"unavailable", errors.UnavailableError{Err: errs.New(secret)}, http.StatusServiceUnavailable, jsonapi.ErrorCodeUnavailable, ""},
		{"internal", errors.InternalError{Err: errs.New(secret)}, http.StatusInternalServerError, jsonapi.ErrorCodeInternalError, ""},
		{"unknown", errs.New(secret), http.StatusInternalServerError, jsonapi.ErrorCodeUnknownError, ""},
		{"goa bad request", goa.ErrBadRequest("invalid character 'x'"), http.StatusBadRequest, jsonapi.ErrorCodeBadParameter, "invalid character 'x'"},
	}
	for _, td := range testData {
		td := td
		t.Run(td.name, func(t *testing.T) {
			t.Parallel()
			jerr, status := jsonapi.ErrorToJSONAPIError(ctx, td.err)
			assert.Equal(t, td.status, status)
			require.NotNil(t, jerr.Code)
			assert.Equal(t, td.code, *jerr.Code)
			require.NotNil(t, jerr.Status)
			assert.Equal(t, strconv.Itoa(td.status), *jerr.Status)
			require.NotNil(t, jerr.ID)
			assert.NotEmpty(t, *jerr.ID)
			if td.detail != "" {
				assert.Equal(t, td.detail, jerr.Detail)
			}
			assert.NotContains(t, jerr.Detail, "hunter2")
		})
	}
}

func TestErrorToJSONAPIErrors(t *testing.T) {
	t.Parallel()
	resource.Require(t, resource.UnitTest)
	jerrors, status := jsonapi.ErrorToJSONAPIErrors(context.Background(), errors.NewNotFoundError("action", "3"))
	assert.Equal(t, http.StatusNotFound, status)
	require.Len(t, jerrors.Errors, 1)
	assert.Equal(t, "404", *jerrors.Errors[0].Status)
}

func TestErrorHandler(t *testing.T) {
	resource.Require(t, resource.UnitTest)
	service := goa.New("test")
	service.Encoder.Register(goa.NewJSONEncoder, "*/*")

	send := func(t *testing.T, handlerErr error) (*httptest.ResponseRecorder, app.JSONAPIErrors) {
		rw := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/trackers", nil)
		ctx := goa.NewContext(goa.WithAction(context.Background(), "list"), rw, req, nil)
		h := jsonapi.ErrorHandler(service)(func(ctx context.Context, rw http.ResponseWriter, req *http.Request) error {
			return handlerErr
		})
		require.NoError(t, h(ctx, goa.ContextResponse(ctx), req))
		var body app.JSONAPIErrors
		if rw.Body.Len() > 0 {
			require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &body))
		}
		return rw, body
	}

	t.Run("no error", func(t *testing.T) {
		rw, _ := send(t, nil)
		assert.Equal(t, 0, rw.Body.Len())
	})
	t.Run("not found", func(t *testing.T) {
		rw, body := send(t, errors.NewNotFoundError("tracker", "1"))
		assert.Equal(t, http.StatusNotFound, rw.Code)
		assert.Equal(t, jsonapi.ErrorMediaIdentifier, rw.Header().Get("Content-Type"))
		require.Len(t, body.Errors, 1)
		assert.Equal(t, jsonapi.ErrorCodeNotFound, *body.Errors[0].Code)
	})
	t.Run("unavailable", func(t *testing.T) {
		rw, body := send(t, errors.UnavailableError{Err: errs.New("connection refused")})
		assert.Equal(t, http.StatusServiceUnavailable, rw.Code)
		require.Len(t, body.Errors, 1)
		assert.NotContains(t, body.Errors[0].Detail, "connection refused")
	})
}
