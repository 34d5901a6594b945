package gormapplication

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/fabric8-services/fabric8-tracker/action"
	"github.com/fabric8-services/fabric8-tracker/application"
	"github.com/fabric8-services/fabric8-tracker/tracker"
	"github.com/jinzhu/gorm"
	errs "github.com/pkg/errors"
)

// A TXIsoLevel specifies the characteristics of the transaction
// See https://www.postgresql.org/docs/current/static/sql-set-transaction.html
type TXIsoLevel int8

const (
	// TXIsoLevelDefault doesn't specify any transaction isolation level, instead the connection
	// based setting will be used.
	TXIsoLevelDefault TXIsoLevel = iota

	// TXIsoLevelReadCommitted means "A statement can only see rows committed before it began. This is the default."
	TXIsoLevelReadCommitted

	// TXIsoLevelRepeatableRead means "All statements of the current transaction can only see rows committed before the
	// first query or data-modification statement was executed in this transaction."
	TXIsoLevelRepeatableRead

	// TXIsoLevelSerializable means "All statements of the current transaction can only see rows committed
	// before the first query or data-modification statement was executed in this transaction.
	// If a pattern of reads and writes among concurrent serializable transactions would create a
	// situation which could not have occurred for any serial (one-at-a-time) execution of those
	// transactions, one of them will be rolled back with a serialization_failure error."
	TXIsoLevelSerializable
)

var _ application.DB = &GormDB{}

var _ application.Transaction = &GormTransaction{}

// NewGormDB wraps the given database handle.
func NewGormDB(db *gorm.DB) *GormDB {
	return &GormDB{GormBase: GormBase{db}}
}

// GormBase is a base struct for gorm implementations of db & transaction
type GormBase struct {
	db *gorm.DB
}

// GormTransaction is a specific implementation of the application.Transaction
// interface using gorm.
type GormTransaction struct {
	GormBase
}

// GormDB implements application.DB using gorm. The local id assignment of
// actions relies on the row lock semantics of READ COMMITTED, which is the
// PostgreSQL default; a stricter isolation level makes concurrent action
// inserts of the same tracker fail with serialization errors.
type GormDB struct {
	GormBase
	txIsoLevel sql.IsolationLevel
}

// Trackers returns a tracker repository
func (g *GormBase) Trackers() tracker.Repository {
	return tracker.NewRepository(g.db)
}

// Actions returns an action repository
func (g *GormBase) Actions() action.Repository {
	return action.NewRepository(g.db)
}

// DB returns the underlying database handle.
func (g *GormBase) DB() *gorm.DB {
	return g.db
}

// SetTransactionIsolationLevel sets the isolation level for
// See also https://www.postgresql.org/docs/current/static/sql-set-transaction.html
func (g *GormDB) SetTransactionIsolationLevel(level TXIsoLevel) error {
	switch level {
	case TXIsoLevelReadCommitted:
		g.txIsoLevel = sql.LevelReadCommitted
	case TXIsoLevelRepeatableRead:
		g.txIsoLevel = sql.LevelRepeatableRead
	case TXIsoLevelSerializable:
		g.txIsoLevel = sql.LevelSerializable
	case TXIsoLevelDefault:
		g.txIsoLevel = sql.LevelDefault
	default:
		return fmt.Errorf("Unknown transaction isolation level: " + strconv.FormatInt(int64(level), 10))
	}
	return nil
}

// BeginTransaction implements application.DB
func (g *GormDB) BeginTransaction(ctx context.Context) (application.Transaction, error) {
	tx := g.db.BeginTx(ctx, &sql.TxOptions{Isolation: g.txIsoLevel})
	if tx.Error != nil {
		return nil, errs.WithStack(tx.Error)
	}
	return &GormTransaction{GormBase{tx}}, nil
}

// Ping checks that the database can be reached.
func (g *GormDB) Ping(ctx context.Context) error {
	return g.db.DB().PingContext(ctx)
}

// Commit implements application.Transaction
func (g *GormTransaction) Commit() error {
	return g.db.Commit().Error
}

// Rollback implements application.Transaction
func (g *GormTransaction) Rollback() error {
	return g.db.Rollback().Error
}
