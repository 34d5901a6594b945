package gormsupport

import (
	"context"

	"github.com/fabric8-services/fabric8-tracker/errors"
)

// ConvertError turns a storage error into an UnavailableError when the
// database could not be reached in time and into an InternalError otherwise.
// Errors that already are one of the typed errors are returned unchanged.
func ConvertError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ok, _ := errors.IsNotFoundError(err); ok {
		return err
	}
	if ok, _ := errors.IsBadParameterError(err); ok {
		return err
	}
	if ok, _ := errors.IsUnavailableError(err); ok {
		return err
	}
	if ok, _ := errors.IsInternalError(err); ok {
		return err
	}
	if IsConnectionError(err) {
		return errors.NewUnavailableError(ctx, err)
	}
	return errors.NewInternalError(ctx, err)
}
