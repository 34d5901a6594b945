package controller_test

import (
	"encoding/json"
	"io/ioutil"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fabric8-services/fabric8-tracker/app"
	. "github.com/fabric8-services/fabric8-tracker/controller"
	"github.com/fabric8-services/fabric8-tracker/jsonapi"
	"github.com/fabric8-services/fabric8-tracker/log"
	"github.com/fabric8-services/fabric8-tracker/migration"
	"github.com/goadesign/goa"
	"github.com/goadesign/goa/middleware"
	"github.com/sebdah/goldie/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	testRequestID     = "test-request"
	testAllowedOrigin = "https://allowed.example.org"
)

// fixedSchema is a SchemaStatus always in the given state.
type fixedSchema migration.State

func (s fixedSchema) Snapshot() migration.Report {
	return migration.Report{State: migration.State(s)}
}

// newService returns a service with every controller mounted on the given
// fake database.
func newService(db *fakeDB, schema SchemaStatus) *goa.Service {
	l := logrus.New()
	l.Out = ioutil.Discard
	logger := log.NewAdapter(l)

	service := goa.New("tracker-test")
	service.Use(middleware.RequestID())
	service.Use(jsonapi.ErrorHandler(service))
	service.Use(middleware.Recover())

	policy := app.NewOriginPolicy(testAllowedOrigin)
	app.MountStatusController(service, NewStatusController(service, db, schema, logger), policy)
	app.MountTrackerController(service, NewTrackerController(service, db, logger), policy)
	app.MountActionController(service, NewActionController(service, db, logger), policy)
	return service
}

// serve sends a request with the given JSON body to the service.
func serve(t *testing.T, service *goa.Service, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.RequestIDHeader, testRequestID)
	require.True(t, len(headers)%2 == 0, "headers must be given as key/value pairs")
	for i := 0; i < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rw := httptest.NewRecorder()
	service.Mux.ServeHTTP(rw, req)
	return rw
}

// decode unmarshals the response body into v.
func decode(t *testing.T, rw *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), v), "body: %s", rw.Body.String())
}

// errorCode returns the code of the single JSON-API error of the response.
func errorCode(t *testing.T, rw *httptest.ResponseRecorder) string {
	t.Helper()
	var jerrors app.JSONAPIErrors
	decode(t, rw, &jerrors)
	require.Len(t, jerrors.Errors, 1)
	require.NotNil(t, jerrors.Errors[0].Code)
	return *jerrors.Errors[0].Code
}

// compareWithGolden compares the JSON body of the response with the given
// golden file of the testdata directory. Run the tests with -update to
// rewrite the golden files.
func compareWithGolden(t *testing.T, name string, rw *httptest.ResponseRecorder) {
	t.Helper()
	var actual interface{}
	decode(t, rw, &actual)
	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden.json"))
	g.AssertJson(t, name, actual)
}

func requireStatus(t *testing.T, rw *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rw.Code, "body: %s", rw.Body.String())
}
