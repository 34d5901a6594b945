package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fabric8-services/fabric8-tracker/app"
	"github.com/fabric8-services/fabric8-tracker/application"
	"github.com/fabric8-services/fabric8-tracker/closeable"
	"github.com/fabric8-services/fabric8-tracker/configuration"
	"github.com/fabric8-services/fabric8-tracker/controller"
	"github.com/fabric8-services/fabric8-tracker/gormapplication"
	"github.com/fabric8-services/fabric8-tracker/gormsupport"
	"github.com/fabric8-services/fabric8-tracker/jsonapi"
	"github.com/fabric8-services/fabric8-tracker/log"
	"github.com/fabric8-services/fabric8-tracker/metric"
	"github.com/fabric8-services/fabric8-tracker/migration"
	"github.com/fabric8-services/fabric8-tracker/sentry"
	"github.com/goadesign/goa"
	goalogrus "github.com/goadesign/goa/logging/logrus"
	"github.com/goadesign/goa/middleware"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:           "fabric8-tracker",
		Short:         "Trackers and actions over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configFile)
		},
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", os.Getenv("F8_CONFIG_FILE_PATH"), "Path to the config file to read")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Provision the schema and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configFile)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Provision the schema and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(configFile)
		},
	})
	cmd.AddCommand(newVersionCommand())
	return cmd
}

// setup loads the configuration and initializes the logger and the error
// reporting.
func setup(configFile string) (*configuration.Registry, error) {
	config, err := configuration.New(configFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to setup the configuration from '%s'", configFile)
	}
	if err := log.InitializeLogger(config.IsDeveloperModeEnabled(), config.GetLogLevel()); err != nil {
		return nil, errors.Wrap(err, "failed to initialize the logger")
	}
	if err := sentry.InitializeSentryClient(config.GetSentryDSN(), controller.Commit, config.GetEnvironment()); err != nil {
		log.Error(context.Background(), map[string]interface{}{
			"err": err,
		}, "failed to setup the sentry client")
	}
	if config.IsDeveloperModeEnabled() {
		log.Debug(context.Background(), map[string]interface{}{
			"config": config.String(),
		}, "loaded configuration")
	}
	return config, nil
}

func migrate(configFile string) error {
	config, err := setup(configFile)
	if err != nil {
		return err
	}
	ctx := context.Background()
	db, err := gormsupport.Open(ctx, config)
	if err != nil {
		log.Error(ctx, map[string]interface{}{
			"err": err,
		}, "failed to connect to the database")
		closeable.Close(ctx, db)
		return err
	}
	defer closeable.Close(ctx, db)
	ctx, cancel := context.WithTimeout(ctx, config.GetPostgresMigrationTimeout())
	defer cancel()
	return migration.Migrate(ctx, db.DB(), config.GetPostgresDatabase())
}

func serve(configFile string) error {
	config, err := setup(configFile)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := gormsupport.Open(ctx, config)
	if err != nil {
		if errors.Cause(err) != gormsupport.ErrUnreachable {
			return err
		}
		log.Warn(ctx, map[string]interface{}{
			"err": err,
		}, "starting with an unreachable database")
	}
	defer closeable.Close(context.Background(), db)
	application.SetDatabaseTransactionTimeout(config.GetPostgresTransactionTimeout())
	metric.RegisterDBStats(db.DB(), config.GetPostgresDatabase())

	provisioner := migration.NewProvisioner(db.DB(), config.GetPostgresDatabase(), config.GetPostgresConnectionRetrySleep(), config.GetPostgresMigrationTimeout())
	reportSchema(provisioner.Status())
	go provisioner.Run(ctx)
	go watchSchema(ctx, provisioner.Status(), config.GetPostgresConnectionRetrySleep())

	appDB := gormapplication.NewGormDB(db)

	// Create service
	service := goa.New("tracker")
	service.WithLogger(goalogrus.New(log.Logger()))

	// Mount middleware
	service.Use(middleware.RequestID())
	service.Use(middleware.LogRequest(config.IsDeveloperModeEnabled()))
	service.Use(metric.Recorder())
	service.Use(jsonapi.ErrorHandler(service))
	service.Use(middleware.Recover())

	policy := app.NewOriginPolicy(config.GetHTTPCORSAllowedOrigins()...)

	// Mount "status" controller
	statusCtrl := controller.NewStatusController(service, appDB, provisioner.Status(), log.Default())
	app.MountStatusController(service, statusCtrl, policy)

	// Mount "tracker" controller
	trackerCtrl := controller.NewTrackerController(service, appDB, log.Default())
	app.MountTrackerController(service, trackerCtrl, policy)

	// Mount "action" controller
	actionCtrl := controller.NewActionController(service, appDB, log.Default())
	app.MountActionController(service, actionCtrl, policy)

	log.Info(ctx, map[string]interface{}{
		"commit":     controller.Commit,
		"build_time": controller.BuildTime,
		"dev_mode":   config.IsDeveloperModeEnabled(),
	}, "tracker service starting")

	mux := http.NewServeMux()
	mux.Handle("/", service.Mux)
	servers := []*http.Server{{Addr: config.GetHTTPAddress(), Handler: mux}}
	if addr := config.GetMetricsHTTPAddress(); addr != "" && addr != config.GetHTTPAddress() {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", metric.Handler())
		servers = append(servers, &http.Server{Addr: addr, Handler: metricsMux})
	} else {
		mux.Handle("/metrics", metric.Handler())
	}
	return listen(ctx, servers)
}

// listen serves until the context is done or a server fails, then shuts all
// the servers down.
func listen(ctx context.Context, servers []*http.Server) error {
	errc := make(chan error, len(servers))
	for _, srv := range servers {
		srv := srv
		go func() {
			log.Info(ctx, map[string]interface{}{
				"addr": srv.Addr,
			}, "listening")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errc <- errors.Wrapf(err, "failed to serve on %s", srv.Addr)
			}
		}()
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-errc:
		log.Error(ctx, map[string]interface{}{
			"err": err,
		}, "server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error(shutdownCtx, map[string]interface{}{
				"err":  shutdownErr,
				"addr": srv.Addr,
			}, "failed to shut the server down")
		}
	}
	return err
}

var schemaStates = []string{
	string(migration.StatePending),
	string(migration.StateOK),
	string(migration.StateDegraded),
}

func reportSchema(status *migration.Status) {
	metric.ReportSchemaState(string(status.State()), schemaStates...)
}

// watchSchema keeps the schema state gauge current while the provisioner
// retries.
func watchSchema(ctx context.Context, status *migration.Status, every time.Duration) {
	if every <= 0 {
		every = time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reportSchema(status)
			if status.State() == migration.StateOK {
				return
			}
		}
	}
}
