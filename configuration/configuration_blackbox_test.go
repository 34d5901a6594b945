package configuration_test

import (
	"os"
	"testing"
	"time"

	"github.com/fabric8-services/fabric8-tracker/configuration"
	"github.com/fabric8-services/fabric8-tracker/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultConfigFilePath       = "../config.yaml"
	defaultValuesConfigFilePath = "" // when the code defaults are to be used, the path to config file is ""
)

// setEnv sets the given environment variable for the duration of the test.
func setEnv(t *testing.T, key, value string) {
	old, wasSet := os.LookupEnv(key)
	require.NoError(t, os.Setenv(key, value))
	t.Cleanup(func() {
		if wasSet {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestDefaults(t *testing.T) {
	resource.Require(t, resource.UnitTest)
	config, err := configuration.New(defaultValuesConfigFilePath)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", config.GetHTTPAddress())
	assert.Equal(t, 10*time.Second, config.GetPostgresTransactionTimeout())
	assert.Equal(t, time.Minute, config.GetPostgresMigrationTimeout())
	assert.Equal(t, 5*time.Second, config.GetPostgresStatementTimeout())
	assert.Equal(t, "disable", config.GetPostgresTransport().SSLMode)
	assert.Empty(t, config.GetHTTPCORSAllowedOrigins())
	assert.False(t, config.IsDeveloperModeEnabled())
}

func TestConfigFile(t *testing.T) {
	resource.Require(t, resource.UnitTest)
	config, err := configuration.New(defaultConfigFilePath)
	require.NoError(t, err)

	assert.Equal(t, int64(5433), config.GetPostgresPort())
	assert.Equal(t, 50, config.GetPostgresConnectionMaxRetries())
	assert.Equal(t, time.Second, config.GetPostgresConnectionRetrySleep())
	assert.True(t, config.IsDeveloperModeEnabled())
	assert.Equal(t, "debug", config.GetLogLevel())
}

func TestMissingConfigFile(t *testing.T) {
	resource.Require(t, resource.UnitTest)
	_, err := configuration.New("/does/not/exist.yaml")
	require.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	resource.Require(t, resource.UnitTest)
	setEnv(t, "F8_POSTGRES_HOST", "db.example.org")
	setEnv(t, "F8_POSTGRES_TRANSACTION_TIMEOUT", "3s")
	setEnv(t, "F8_HTTP_CORS_ALLOWEDORIGINS", "https://a.example.org, https://*.example.com")

	config, err := configuration.New(defaultConfigFilePath)
	require.NoError(t, err)

	assert.Equal(t, "db.example.org", config.GetPostgresHost())
	assert.Equal(t, 3*time.Second, config.GetPostgresTransactionTimeout())
	assert.Equal(t, []string{"https://a.example.org", "https://*.example.com"}, config.GetHTTPCORSAllowedOrigins())
}

func TestGetPostgresConfigString(t *testing.T) {
	resource.Require(t, resource.UnitTest)
	setEnv(t, "F8_POSTGRES_SSLMODE", "verify-full")
	setEnv(t, "F8_POSTGRES_SSLROOTCERT", "/etc/ssl/db-ca.pem")
	config, err := configuration.New(defaultValuesConfigFilePath)
	require.NoError(t, err)

	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres sslmode=verify-full sslrootcert=/etc/ssl/db-ca.pem connect_timeout=5 statement_timeout=5000",
		config.GetPostgresConfigString())
	assert.True(t, config.GetPostgresTransport().VerifiesServer())
}

func TestStringMasksSecrets(t *testing.T) {
	resource.Require(t, resource.UnitTest)
	setEnv(t, "F8_POSTGRES_PASSWORD", "s3cr3t-value")
	config, err := configuration.New(defaultConfigFilePath)
	require.NoError(t, err)

	s := config.String()
	assert.NotContains(t, s, "s3cr3t-value")
	assert.NotContains(t, s, "mysecretpassword")
	assert.Contains(t, s, "********")
}

func TestPostgresTransportString(t *testing.T) {
	resource.Require(t, resource.UnitTest)
	t.Parallel()
	assert.Equal(t, "sslmode=disable", configuration.PostgresTransport{}.String())
	tr := configuration.PostgresTransport{
		SSLMode: "require",
		SSLCert: "/tmp/client.crt",
		SSLKey:  "/tmp/client.key",
	}
	assert.Equal(t, "sslmode=require sslcert=/tmp/client.crt sslkey=/tmp/client.key", tr.String())
	assert.False(t, tr.VerifiesServer())
}
