package gormsupport

import (
	"context"
	"database/sql"
	"time"

	"github.com/fabric8-services/fabric8-tracker/configuration"
	"github.com/fabric8-services/fabric8-tracker/log"
	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq" // need to import postgres driver
	errs "github.com/pkg/errors"
)

// ConnectionConfig is what the storage client needs to know to reach the
// database. The transport settings are part of it and only apply to the
// connections of the returned handle.
type ConnectionConfig interface {
	GetPostgresConfigString() string
	GetPostgresTransport() configuration.PostgresTransport
	GetPostgresConnectionMaxIdle() int
	GetPostgresConnectionMaxOpen() int
	GetPostgresConnectionMaxLifetime() time.Duration
	GetPostgresConnectionMaxRetries() int
	GetPostgresConnectionRetrySleep() time.Duration
	IsDeveloperModeEnabled() bool
}

// ErrUnreachable is returned along with a usable handle by Open when the
// database did not answer within the configured number of retries.
var ErrUnreachable = errs.New("database unreachable")

// Open creates the pooled database handle. It pings the server up to the
// configured number of times. When the server stays unreachable, Open still
// returns the handle (the pool connects lazily) together with an error whose
// cause is ErrUnreachable, so callers can start in degraded mode.
func Open(ctx context.Context, config ConnectionConfig) (*gorm.DB, error) {
	transport := config.GetPostgresTransport()
	if !transport.VerifiesServer() && !config.IsDeveloperModeEnabled() {
		log.Warn(ctx, map[string]interface{}{
			"sslmode": transport.SSLMode,
		}, "the database server certificate is not verified")
	}
	sqlDB, err := sql.Open("postgres", config.GetPostgresConfigString())
	if err != nil {
		return nil, errs.Wrap(err, "failed to open the database handle")
	}
	ConfigurePool(sqlDB, config)

	var pingErr error
	retries := config.GetPostgresConnectionMaxRetries()
	if retries < 1 {
		retries = 1
	}
	for i := 0; i < retries; i++ {
		if pingErr = sqlDB.PingContext(ctx); pingErr == nil {
			break
		}
		log.Error(ctx, map[string]interface{}{
			"err":     pingErr,
			"attempt": i + 1,
			"retries": retries,
		}, "failed to connect to the database")
		if i+1 == retries {
			break
		}
		select {
		case <-ctx.Done():
			i = retries
		case <-time.After(config.GetPostgresConnectionRetrySleep()):
		}
	}

	db, err := gorm.Open("postgres", sqlDB)
	if db == nil {
		closeErr := sqlDB.Close()
		return nil, errs.Wrapf(err, "failed to wrap the database handle (close: %v)", closeErr)
	}
	if config.IsDeveloperModeEnabled() {
		db = db.Debug()
	}
	if pingErr != nil {
		return db, errs.Wrapf(ErrUnreachable, "%v", pingErr)
	}
	return db, nil
}

// ConfigurePool applies the pool bounds of the given configuration. Negative
// values keep the database/sql defaults.
func ConfigurePool(sqlDB *sql.DB, config ConnectionConfig) {
	if limit := config.GetPostgresConnectionMaxIdle(); limit >= 0 {
		sqlDB.SetMaxIdleConns(limit)
	}
	if limit := config.GetPostgresConnectionMaxOpen(); limit >= 0 {
		sqlDB.SetMaxOpenConns(limit)
	}
	if lifetime := config.GetPostgresConnectionMaxLifetime(); lifetime > 0 {
		sqlDB.SetConnMaxLifetime(lifetime)
	}
}
