package application

import (
	"context"

	"github.com/fabric8-services/fabric8-tracker/action"
	"github.com/fabric8-services/fabric8-tracker/tracker"
)

// An Application stands for a particular implementation of the business logic of our application
type Application interface {
	Trackers() tracker.Repository
	Actions() action.Repository
}

// A Transaction abstracts a database transaction. The repositories created for the transaction object make changes inside the the transaction
type Transaction interface {
	Application
	Commit() error
	Rollback() error
}

// A DB stands for a particular database (or a mock/fake thereof). It also includes "Application" for creating transactionless repositories
type DB interface {
	Application
	// BeginTransaction starts a transaction bound to the given context: the
	// transaction is rolled back when the context is done before Commit.
	BeginTransaction(ctx context.Context) (Transaction, error)
}
