package configuration

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	yaml "gopkg.in/yaml.v2"
)

// Constants for viper variable names. Will be used to set
// default values as well as to get each value
const (
	varPostgresHost                  = "postgres.host"
	varPostgresPort                  = "postgres.port"
	varPostgresUser                  = "postgres.user"
	varPostgresDatabase              = "postgres.database"
	varPostgresPassword              = "postgres.password"
	varPostgresSSLMode               = "postgres.sslmode"
	varPostgresSSLRootCert           = "postgres.sslrootcert"
	varPostgresSSLCert               = "postgres.sslcert"
	varPostgresSSLKey                = "postgres.sslkey"
	varPostgresConnectionTimeout     = "postgres.connection.timeout"
	varPostgresConnectionMaxRetries  = "postgres.connection.maxretries"
	varPostgresConnectionRetrySleep  = "postgres.connection.retrysleep"
	varPostgresConnectionMaxIdle     = "postgres.connection.maxidle"
	varPostgresConnectionMaxOpen     = "postgres.connection.maxopen"
	varPostgresConnectionMaxLifetime = "postgres.connection.maxlifetime"
	varPostgresStatementTimeout      = "postgres.statement.timeout"
	varPostgresTransactionTimeout    = "postgres.transaction.timeout"
	varPostgresMigrationTimeout      = "postgres.migration.timeout"
	varHTTPAddress                   = "http.address"
	varHTTPCORSAllowedOrigins        = "http.cors.allowedorigins"
	varMetricsHTTPAddress            = "metrics.http.address"
	varDeveloperModeEnabled          = "developer.mode.enabled"
	varLogLevel                      = "log.level"
	varSentryDSN                     = "sentry.dsn"
	varEnvironment                   = "environment"
)

const (
	defaultPostgresTransactionTimeout   = 10 * time.Second
	defaultPostgresStatementTimeout     = 5 * time.Second
	defaultPostgresConnectionTimeout    = 5
	defaultPostgresConnectionRetrySleep = time.Second
	defaultPostgresMigrationTimeout     = time.Minute
	maskedPassword                      = "********"
)

// Registry encapsulates the Viper configuration registry which stores the
// configuration data in-memory.
type Registry struct {
	v *viper.Viper
}

// New creates a configuration reader object using a configurable configuration
// file path. Values are taken from the code defaults, then from the given
// configuration file (if the path is not empty) and finally from environment
// variables prefixed with "F8_" (e.g. F8_POSTGRES_HOST overrides
// postgres.host).
func New(configFilePath string) (*Registry, error) {
	c := Registry{
		v: viper.New(),
	}
	c.v.SetEnvPrefix("F8")
	c.v.AutomaticEnv()
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.SetTypeByDefaultValue(true)
	c.setConfigDefaults()

	if configFilePath != "" {
		c.v.SetConfigType("yaml")
		c.v.SetConfigFile(configFilePath)
		if err := c.v.ReadInConfig(); err != nil {
			return nil, errors.Errorf("Fatal error config file: %s \n", err)
		}
	}
	return &c, nil
}

func (c *Registry) setConfigDefaults() {
	//---------
	// Postgres
	//---------
	c.v.SetDefault(varPostgresHost, "localhost")
	c.v.SetDefault(varPostgresPort, 5432)
	c.v.SetDefault(varPostgresUser, "postgres")
	c.v.SetDefault(varPostgresDatabase, "postgres")
	c.v.SetDefault(varPostgresPassword, "mysecretpassword")
	c.v.SetDefault(varPostgresSSLMode, "disable")
	c.v.SetDefault(varPostgresSSLRootCert, "")
	c.v.SetDefault(varPostgresSSLCert, "")
	c.v.SetDefault(varPostgresSSLKey, "")
	// Seconds lib/pq waits while establishing a single connection
	c.v.SetDefault(varPostgresConnectionTimeout, defaultPostgresConnectionTimeout)
	// The number of times the server will attempt to open a connection to the
	// database at startup before it goes on in degraded mode
	c.v.SetDefault(varPostgresConnectionMaxRetries, 5)
	// Time to wait before trying to connect again
	c.v.SetDefault(varPostgresConnectionRetrySleep, defaultPostgresConnectionRetrySleep)
	c.v.SetDefault(varPostgresConnectionMaxIdle, 5)
	c.v.SetDefault(varPostgresConnectionMaxOpen, 20)
	c.v.SetDefault(varPostgresConnectionMaxLifetime, 30*time.Minute)
	c.v.SetDefault(varPostgresStatementTimeout, defaultPostgresStatementTimeout)
	c.v.SetDefault(varPostgresTransactionTimeout, defaultPostgresTransactionTimeout)
	// Bound of a single schema provisioning attempt
	c.v.SetDefault(varPostgresMigrationTimeout, defaultPostgresMigrationTimeout)

	//-----
	// HTTP
	//-----
	c.v.SetDefault(varHTTPAddress, "0.0.0.0:8080")
	c.v.SetDefault(varMetricsHTTPAddress, "")
	// No origin is allowed unless explicitly configured
	c.v.SetDefault(varHTTPCORSAllowedOrigins, []string{})

	//-----
	// Misc
	//-----
	c.v.SetDefault(varDeveloperModeEnabled, false)
	c.v.SetDefault(varLogLevel, "")
	c.v.SetDefault(varSentryDSN, "")
	c.v.SetDefault(varEnvironment, "local")
}

// String returns the current configuration as a string with the database
// password masked.
func (c *Registry) String() string {
	allSettings := c.v.AllSettings()
	if pg, ok := allSettings["postgres"].(map[string]interface{}); ok {
		if _, ok := pg["password"]; ok {
			pg["password"] = maskedPassword
		}
	}
	if s, ok := allSettings["sentry"].(map[string]interface{}); ok {
		if dsn, ok := s["dsn"].(string); ok && dsn != "" {
			s["dsn"] = maskedPassword
		}
	}
	y, err := yaml.Marshal(&allSettings)
	if err != nil {
		return fmt.Sprintf("failed to marshal config to string: %s", err.Error())
	}
	return fmt.Sprintf("%s\n", y)
}

// GetPostgresHost returns the postgres host as set via default, config file,
// or environment variable
func (c *Registry) GetPostgresHost() string {
	return c.v.GetString(varPostgresHost)
}

// GetPostgresPort returns the postgres port as set via default, config file,
// or environment variable
func (c *Registry) GetPostgresPort() int64 {
	return c.v.GetInt64(varPostgresPort)
}

// GetPostgresUser returns the postgres user as set via default, config file,
// or environment variable
func (c *Registry) GetPostgresUser() string {
	return c.v.GetString(varPostgresUser)
}

// GetPostgresDatabase returns the postgres database as set via default, config
// file, or environment variable
func (c *Registry) GetPostgresDatabase() string {
	return c.v.GetString(varPostgresDatabase)
}

// GetPostgresPassword returns the postgres password as set via default, config
// file, or environment variable
func (c *Registry) GetPostgresPassword() string {
	return c.v.GetString(varPostgresPassword)
}

// GetPostgresTransport returns the transport security settings of the
// database connection.
func (c *Registry) GetPostgresTransport() PostgresTransport {
	return PostgresTransport{
		SSLMode:     c.v.GetString(varPostgresSSLMode),
		SSLRootCert: c.v.GetString(varPostgresSSLRootCert),
		SSLCert:     c.v.GetString(varPostgresSSLCert),
		SSLKey:      c.v.GetString(varPostgresSSLKey),
	}
}

// GetPostgresConnectionTimeout returns the number of seconds (as set via
// default, config file, or environment variable) lib/pq waits when it
// establishes a connection.
func (c *Registry) GetPostgresConnectionTimeout() int64 {
	return c.v.GetInt64(varPostgresConnectionTimeout)
}

// GetPostgresConnectionMaxRetries returns the number of times (as set via
// default, config file, or environment variable) the server will attempt to
// open a connection to the database at startup.
func (c *Registry) GetPostgresConnectionMaxRetries() int {
	return c.v.GetInt(varPostgresConnectionMaxRetries)
}

// GetPostgresConnectionRetrySleep returns the duration to wait before trying
// to connect again.
func (c *Registry) GetPostgresConnectionRetrySleep() time.Duration {
	return c.v.GetDuration(varPostgresConnectionRetrySleep)
}

// GetPostgresConnectionMaxIdle returns the number of connections that should
// be kept alive in the database connection pool at any given time. -1
// represents no restrictions/default behavior
func (c *Registry) GetPostgresConnectionMaxIdle() int {
	return c.v.GetInt(varPostgresConnectionMaxIdle)
}

// GetPostgresConnectionMaxOpen returns the max number of open connections that
// should be open in the database connection pool. -1 represents no
// restrictions/default behavior
func (c *Registry) GetPostgresConnectionMaxOpen() int {
	return c.v.GetInt(varPostgresConnectionMaxOpen)
}

// GetPostgresConnectionMaxLifetime returns the maximum amount of time a
// pooled connection may be reused.
func (c *Registry) GetPostgresConnectionMaxLifetime() time.Duration {
	return c.v.GetDuration(varPostgresConnectionMaxLifetime)
}

// GetPostgresStatementTimeout returns the server side bound of a single SQL
// statement.
func (c *Registry) GetPostgresStatementTimeout() time.Duration {
	return c.v.GetDuration(varPostgresStatementTimeout)
}

// GetPostgresTransactionTimeout returns the bound of a whole database
// transaction, pool acquisition included.
func (c *Registry) GetPostgresTransactionTimeout() time.Duration {
	return c.v.GetDuration(varPostgresTransactionTimeout)
}

// GetPostgresMigrationTimeout returns the bound of a single schema
// provisioning attempt.
func (c *Registry) GetPostgresMigrationTimeout() time.Duration {
	return c.v.GetDuration(varPostgresMigrationTimeout)
}

// GetPostgresConfigString returns a ready to use string for usage in
// sql.Open()
func (c *Registry) GetPostgresConfigString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s %s connect_timeout=%d statement_timeout=%d",
		c.GetPostgresHost(),
		c.GetPostgresPort(),
		c.GetPostgresUser(),
		c.GetPostgresPassword(),
		c.GetPostgresDatabase(),
		c.GetPostgresTransport().String(),
		c.GetPostgresConnectionTimeout(),
		c.GetPostgresStatementTimeout()/time.Millisecond,
	)
}

// GetHTTPAddress returns the HTTP address (as set via default, config file, or
// environment variable) that the server binds to (e.g. "0.0.0.0:8080")
func (c *Registry) GetHTTPAddress() string {
	return c.v.GetString(varHTTPAddress)
}

// GetMetricsHTTPAddress returns the address the /metrics endpoint binds to.
// An empty value serves the metrics on the main HTTP address.
func (c *Registry) GetMetricsHTTPAddress() string {
	return c.v.GetString(varMetricsHTTPAddress)
}

// GetHTTPCORSAllowedOrigins returns the list of origin patterns (see
// goa's cors.MatchOrigin) that may issue cross origin requests. The list is
// empty by default, which disables CORS responses.
func (c *Registry) GetHTTPCORSAllowedOrigins() []string {
	var origins []string
	for _, o := range c.v.GetStringSlice(varHTTPCORSAllowedOrigins) {
		// environment variables carry the list comma separated
		for _, s := range strings.Split(o, ",") {
			if s = strings.TrimSpace(s); s != "" {
				origins = append(origins, s)
			}
		}
	}
	return origins
}

// IsDeveloperModeEnabled returns if development related features (as set via
// default, config file, or environment variable) are enabled.
func (c *Registry) IsDeveloperModeEnabled() bool {
	return c.v.GetBool(varDeveloperModeEnabled)
}

// GetLogLevel returns the logging level (as set via config file or environment
// variable). Empty means the developer mode default.
func (c *Registry) GetLogLevel() string {
	return c.v.GetString(varLogLevel)
}

// GetSentryDSN returns the secret needed to securely communicate with Sentry.
// Empty disables error reporting.
func (c *Registry) GetSentryDSN() string {
	return c.v.GetString(varSentryDSN)
}

// GetEnvironment returns the current environment the service is deployed in,
// e.g. 'production', 'prod-preview', 'local'.
func (c *Registry) GetEnvironment() string {
	return c.v.GetString(varEnvironment)
}
