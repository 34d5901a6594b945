package application

import (
	"context"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/fabric8-services/fabric8-tracker/errors"
	"github.com/fabric8-services/fabric8-tracker/gormsupport"
	"github.com/fabric8-services/fabric8-tracker/log"
	errs "github.com/pkg/errors"
)

var databaseTransactionTimeout = int64(10 * time.Second)

// SetDatabaseTransactionTimeout sets the global timeout variable to the given
// duration.
func SetDatabaseTransactionTimeout(t time.Duration) {
	atomic.StoreInt64(&databaseTransactionTimeout, int64(t))
}

// DatabaseTransactionTimeout returns the bound of a transaction run by
// Transactional.
func DatabaseTransactionTimeout() time.Duration {
	return time.Duration(atomic.LoadInt64(&databaseTransactionTimeout))
}

// Transactional executes the given function in a transaction. If todo returns
// an error, the transaction is rolled back. The whole transaction, starting
// it included, is bounded by the database transaction timeout; when it
// expires the transaction is rolled back and an UnavailableError is returned.
// todo receives the bounded context and must use it for its queries.
func Transactional(ctx context.Context, db DB, todo func(ctx context.Context, f Application) error) error {
	ctx, cancel := context.WithTimeout(ctx, DatabaseTransactionTimeout())
	defer cancel()

	tx, err := db.BeginTransaction(ctx)
	if err != nil {
		log.Error(ctx, map[string]interface{}{
			"err": err,
		}, "database BeginTransaction failed!")
		return gormsupport.ConvertError(ctx, errs.Wrap(err, "failed to start the database transaction"))
	}

	errorChan := make(chan error, 1)
	go func(tx Transaction) {
		defer func() {
			if err := recover(); err != nil {
				errorChan <- errs.Errorf("recovered %v. stack: %s", err, debug.Stack())
			}
		}()
		errorChan <- todo(ctx, tx)
	}(tx)

	select {
	case err := <-errorChan:
		if err != nil {
			log.Debug(ctx, map[string]interface{}{"error": err}, "Rolling back the transaction...")
			if errRollback := tx.Rollback(); errRollback != nil {
				log.Error(ctx, map[string]interface{}{
					"errRollback": errs.WithStack(errRollback),
					"err":         errs.WithStack(err),
				}, "failed to rollback transaction: %+v", errRollback)
			}
			log.Debug(ctx, map[string]interface{}{
				"err": err,
			}, "database transaction failed!")
			return errs.WithStack(err)
		}

		log.Debug(ctx, nil, "Committing the transaction!")
		if errCommit := tx.Commit(); errCommit != nil {
			log.Error(ctx, map[string]interface{}{
				"errCommit": errs.WithStack(errCommit),
			}, "failed to commit transaction: %+v", errCommit)
			return gormsupport.ConvertError(ctx, errs.Wrap(errCommit, "failed to commit the database transaction"))
		}
		return nil
	case <-ctx.Done():
		log.Debug(ctx, nil, "Rolling back the transaction...")
		tx.Rollback()
		return errors.NewUnavailableError(ctx, errs.Wrap(ctx.Err(), "database transaction timeout"))
	}
}
