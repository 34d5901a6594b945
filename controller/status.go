package controller

import (
	"context"
	"time"

	"github.com/fabric8-services/fabric8-tracker/app"
	"github.com/fabric8-services/fabric8-tracker/application"
	"github.com/fabric8-services/fabric8-tracker/log"
	"github.com/fabric8-services/fabric8-tracker/migration"
	"github.com/goadesign/goa"
)

var (
	// Commit current build commit set by build script
	Commit = "0"
	// BuildTime set by build script in ISO 8601 (UTC) format: YYYY-MM-DDThh:mm:ssTZD (see https://www.w3.org/TR/NOTE-datetime for details)
	BuildTime = "0"
	// StartTime in ISO 8601 (UTC) format
	StartTime = time.Now().UTC().Format("2006-01-02T15:04:05Z")
)

const (
	statusOK          = "ok"
	statusDegraded    = "degraded"
	statusUnavailable = "unavailable"
)

// DBChecker is to be used to check if the DB is reachable
type DBChecker interface {
	Ping(ctx context.Context) error
}

// SchemaStatus reports the state of the schema provisioning.
type SchemaStatus interface {
	Snapshot() migration.Report
}

// StatusController implements the status resource.
type StatusController struct {
	*goa.Controller
	dbChecker DBChecker
	schema    SchemaStatus
	log       log.Interface
}

// NewStatusController creates a status controller.
func NewStatusController(service *goa.Service, dbChecker DBChecker, schema SchemaStatus, logger log.Interface) *StatusController {
	return &StatusController{
		Controller: service.NewController("StatusController"),
		dbChecker:  dbChecker,
		schema:     schema,
		log:        logger,
	}
}

// Show runs the show action. It answers 500 when the database cannot be
// reached within the database transaction timeout and reports a schema that
// could not be provisioned as degraded.
func (c *StatusController) Show(ctx *app.ShowStatusContext) error {
	res := &app.Health{
		Status:    statusOK,
		Db:        statusOK,
		Commit:    Commit,
		BuildTime: BuildTime,
		StartTime: StartTime,
		Time:      time.Now().UTC().Format(time.RFC3339),
	}
	report := c.schema.Snapshot()
	res.Schema = string(report.State)
	if report.State != migration.StateOK {
		res.Status = statusDegraded
	}
	pingCtx, cancel := context.WithTimeout(ctx, application.DatabaseTransactionTimeout())
	defer cancel()
	if err := c.dbChecker.Ping(pingCtx); err != nil {
		c.log.Error(ctx, map[string]interface{}{
			"err": err,
		}, "database is not reachable")
		res.Status = statusDegraded
		res.Db = statusUnavailable
		return ctx.InternalServerError(res)
	}
	return ctx.OK(res)
}
