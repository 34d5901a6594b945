package errors_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/fabric8-services/fabric8-tracker/errors"
	"github.com/fabric8-services/fabric8-tracker/resource"
	errs "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInternalError(t *testing.T) {
	t.Parallel()
	resource.Require(t, resource.UnitTest)
	err := errors.NewInternalError(context.Background(), errs.New("system disk could not be read"))
	assert.Equal(t, "system disk could not be read", err.Error())
}

func TestNewUnavailableError(t *testing.T) {
	t.Parallel()
	resource.Require(t, resource.UnitTest)
	err := errors.NewUnavailableError(context.Background(), errs.New("dial tcp: connection refused"))
	assert.Equal(t, "storage unavailable: dial tcp: connection refused", err.Error())
}

func TestNewBadParameterError(t *testing.T) {
	t.Parallel()
	resource.Require(t, resource.UnitTest)
	param := "status"
	value := "done"
	expectedValue := "open|in_progress|completed"
	err := errors.NewBadParameterError(param, value)
	assert.Equal(t, fmt.Sprintf("Bad value for parameter '%s': '%v'", param, value), err.Error())
	assert.Equal(t, param, err.Parameter())
	err = errors.NewBadParameterError(param, value).Expected(expectedValue)
	assert.Equal(t, fmt.Sprintf("Bad value for parameter '%s': '%v' (expected: '%v')", param, value, expectedValue), err.Error())
}

func TestNewNotFoundError(t *testing.T) {
	t.Parallel()
	resource.Require(t, resource.UnitTest)
	err := errors.NewNotFoundError("tracker", "10")
	assert.Equal(t, "tracker with id '10' not found", err.Error())
}

func TestIsErrorKind(t *testing.T) {
	t.Parallel()
	resource.Require(t, resource.UnitTest)
	ctx := context.Background()
	kinds := map[string]struct {
		err         error
		notFound    bool
		badParam    bool
		unavailable bool
		internal    bool
	}{
		"not found":   {err: errors.NewNotFoundError("action", "1"), notFound: true},
		"bad param":   {err: errors.NewBadParameterError("title", ""), badParam: true},
		"unavailable": {err: errors.NewUnavailableError(ctx, errs.New("timeout")), unavailable: true},
		"internal":    {err: errors.NewInternalErrorFromString(ctx, "boom"), internal: true},
		"plain":       {err: errs.New("plain")},
	}
	for name, k := range kinds {
		k := k
		t.Run(name, func(t *testing.T) {
			// wrapping must not hide the kind
			wrapped := errs.Wrap(k.err, "wrapped")
			ok, cause := errors.IsNotFoundError(wrapped)
			assert.Equal(t, k.notFound, ok)
			if ok {
				require.Equal(t, k.err, cause)
			}
			ok, _ = errors.IsBadParameterError(wrapped)
			assert.Equal(t, k.badParam, ok)
			ok, _ = errors.IsUnavailableError(wrapped)
			assert.Equal(t, k.unavailable, ok)
			ok, _ = errors.IsInternalError(wrapped)
			assert.Equal(t, k.internal, ok)
		})
	}
}
