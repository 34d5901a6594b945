package errors

import (
	"context"
	"fmt"

	"github.com/fabric8-services/fabric8-tracker/log"
	errs "github.com/pkg/errors"
)

const (
	stBadParameterErrorMsg         = "Bad value for parameter '%s': '%v'"
	stBadParameterErrorExpectedMsg = "Bad value for parameter '%s': '%v' (expected: '%v')"
	stNotFoundErrorMsg             = "%s with id '%s' not found"
	stUnavailableErrorMsg          = "storage unavailable: %s"
)

// InternalError means that the operation failed for some internal, unexpected
// reason.
type InternalError struct {
	Err error
}

func (err InternalError) Error() string {
	return err.Err.Error()
}

// NewInternalError returns the custom defined error of type InternalError.
func NewInternalError(ctx context.Context, err error) InternalError {
	log.Error(ctx, map[string]interface{}{
		"err": err,
	}, "internal error")
	return InternalError{Err: err}
}

// NewInternalErrorFromString returns the custom defined error of type
// InternalError built from the given message.
func NewInternalErrorFromString(ctx context.Context, msg string) InternalError {
	return NewInternalError(ctx, errs.New(msg))
}

// UnavailableError means that the storage backend could not be reached within
// the configured bounds (connection refused, pool exhausted, timeout, ...).
type UnavailableError struct {
	Err error
}

func (err UnavailableError) Error() string {
	return fmt.Sprintf(stUnavailableErrorMsg, err.Err.Error())
}

// NewUnavailableError returns the custom defined error of type
// UnavailableError.
func NewUnavailableError(ctx context.Context, err error) UnavailableError {
	log.Error(ctx, map[string]interface{}{
		"err": err,
	}, "storage unavailable")
	return UnavailableError{Err: err}
}

// BadParameterError means that a parameter was not as required
type BadParameterError struct {
	parameter        string
	value            interface{}
	expectedValue    interface{}
	hasExpectedValue bool
}

// Error implements the error interface
func (err BadParameterError) Error() string {
	if err.hasExpectedValue {
		return fmt.Sprintf(stBadParameterErrorExpectedMsg, err.parameter, err.value, err.expectedValue)
	}
	return fmt.Sprintf(stBadParameterErrorMsg, err.parameter, err.value)
}

// Expected sets the optional expectedValue parameter on the BadParameterError
func (err BadParameterError) Expected(expected interface{}) BadParameterError {
	err.expectedValue = expected
	err.hasExpectedValue = true
	return err
}

// Parameter returns the name of the offending parameter.
func (err BadParameterError) Parameter() string {
	return err.parameter
}

// NewBadParameterError returns the custom defined error of type BadParameterError.
func NewBadParameterError(param string, actual interface{}) BadParameterError {
	return BadParameterError{parameter: param, value: actual}
}

// NotFoundError means the object specified for the operation does not exist
type NotFoundError struct {
	entity string
	ID     string
}

func (err NotFoundError) Error() string {
	return fmt.Sprintf(stNotFoundErrorMsg, err.entity, err.ID)
}

// NewNotFoundError returns the custom defined error of type NotFoundError.
func NewNotFoundError(entity string, id string) NotFoundError {
	return NotFoundError{entity: entity, ID: id}
}

// IsNotFoundError returns true if the cause of the given error is a
// NotFoundError.
func IsNotFoundError(err error) (bool, error) {
	switch errs.Cause(err).(type) {
	case NotFoundError, *NotFoundError:
		return true, errs.Cause(err)
	}
	return false, nil
}

// IsBadParameterError returns true if the cause of the given error is a
// BadParameterError.
func IsBadParameterError(err error) (bool, error) {
	switch errs.Cause(err).(type) {
	case BadParameterError, *BadParameterError:
		return true, errs.Cause(err)
	}
	return false, nil
}

// IsUnavailableError returns true if the cause of the given error is an
// UnavailableError.
func IsUnavailableError(err error) (bool, error) {
	switch errs.Cause(err).(type) {
	case UnavailableError, *UnavailableError:
		return true, errs.Cause(err)
	}
	return false, nil
}

// IsInternalError returns true if the cause of the given error is an
// InternalError.
func IsInternalError(err error) (bool, error) {
	switch errs.Cause(err).(type) {
	case InternalError, *InternalError:
		return true, errs.Cause(err)
	}
	return false, nil
}
