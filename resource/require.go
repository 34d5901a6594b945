package resource

import (
	"os"
	"strconv"
	"testing"
)

const (
	// UnitTest refers to the F8_RESOURCE_UNIT_TEST environment variable. Unit
	// tests run unless it is explicitly set to a false value.
	UnitTest = "F8_RESOURCE_UNIT_TEST"
	// Database refers to the F8_RESOURCE_DATABASE environment variable. Tests
	// that need a running PostgreSQL only run when it is set to a true value.
	Database = "F8_RESOURCE_DATABASE"
	// StSkipReasonValueFalse is the skip message for false values.
	StSkipReasonValueFalse = "Skipping test because environment variable %s evaluates to false: %s"
	// StSkipReasonNotSet is the skip message for unset variables.
	StSkipReasonNotSet = "Skipping test because environment variable %s is not set."
	// StSkipReasonParseError is the skip message for unparsable values.
	StSkipReasonParseError = "Unable to parse value of environment variable %s as bool: %s"
)

// Require checks if all the given environment variables ("envVars") are set
// and if one is not set it will skip the test ("t"). The only exception is
// that the unit test resource is always considered to be available unless
// the F8_RESOURCE_UNIT_TEST environment variable is explicitly set to false.
func Require(t testing.TB, envVars ...string) {
	for _, envVar := range envVars {
		v, isSet := os.LookupEnv(envVar)

		if envVar == UnitTest && !isSet {
			continue
		}
		if !isSet {
			t.Skipf(StSkipReasonNotSet, envVar)
			return
		}
		val, err := strconv.ParseBool(v)
		if err != nil {
			t.Skipf(StSkipReasonParseError, envVar, v)
			return
		}
		if !val {
			t.Skipf(StSkipReasonValueFalse, envVar, v)
			return
		}
	}
}
