package numbersequence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fabric8-services/fabric8-tracker/errors"
	"github.com/fabric8-services/fabric8-tracker/log"
	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
	errs "github.com/pkg/errors"
)

// Sequence describes a human friendly number (1, 2, 3, ...) that is unique
// within the rows of Table sharing the same parent. ParentColumn is the column
// of Table referencing the "id" column of ParentTable.
type Sequence struct {
	ParentTable  string
	Table        string
	ParentColumn string
	Column       string
}

// ActionLocalID numbers the actions of a tracker.
var ActionLocalID = Sequence{
	ParentTable:  "trackers",
	Table:        "actions",
	ParentColumn: "tracker_id",
	Column:       "local_id",
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func queryRow(ctx context.Context, db gorm.SQLCommon, query string, args ...interface{}) *sql.Row {
	if q, ok := db.(rowQuerier); ok {
		return q.QueryRowContext(ctx, query, args...)
	}
	return db.QueryRow(query, args...)
}

// NextVal returns the next number of the sequence for the given parent. It
// locks the parent row (SELECT ... FOR UPDATE) and then computes the current
// maximum plus one in a separate statement, so that every insert which
// committed before the lock was granted is taken into account. The lock is
// held until the end of the transaction of db, which must also be the one
// inserting the numbered row. A missing parent is reported as a bad
// parameter.
func NextVal(ctx context.Context, db *gorm.DB, seq Sequence, parentID uint64) (int, error) {
	common := db.CommonDB()
	if err := lock(ctx, common, seq, parentID); err != nil {
		return 0, err
	}

	maxStmt := fmt.Sprintf(`SELECT COALESCE(MAX(%s), 0) + 1 FROM %s WHERE %s = $1`,
		pq.QuoteIdentifier(seq.Column),
		pq.QuoteIdentifier(seq.Table),
		pq.QuoteIdentifier(seq.ParentColumn))
	var nextVal int
	if err := queryRow(ctx, common, maxStmt, parentID).Scan(&nextVal); err != nil {
		return 0, errs.Wrapf(err, "failed to obtain next val for %s %d", seq.ParentTable, parentID)
	}
	log.Debug(ctx, map[string]interface{}{
		"table":     seq.Table,
		"parent_id": parentID,
		"next_val":  nextVal,
	}, "computed nextVal")
	return nextVal, nil
}

// Lock takes the row lock of the parent that NextVal takes, without computing
// a number. Inserts carrying their own number must hold it too, otherwise a
// concurrent NextVal does not see their uncommitted row and hands out the
// same number.
func Lock(ctx context.Context, db *gorm.DB, seq Sequence, parentID uint64) error {
	return lock(ctx, db.CommonDB(), seq, parentID)
}

func lock(ctx context.Context, db gorm.SQLCommon, seq Sequence, parentID uint64) error {
	lockStmt := fmt.Sprintf(`SELECT 1 FROM %s WHERE id = $1 FOR UPDATE`, pq.QuoteIdentifier(seq.ParentTable))
	var found int
	if err := queryRow(ctx, db, lockStmt, parentID).Scan(&found); err != nil {
		if err == sql.ErrNoRows {
			return errors.NewBadParameterError(seq.ParentColumn, parentID).Expected("an existing " + seq.ParentTable + " id")
		}
		return errs.Wrapf(err, "failed to lock %s row %d", seq.ParentTable, parentID)
	}
	return nil
}

// Assign is meant to be called from a GORM BeforeCreate callback (see
// http://doc.gorm.io/callbacks.html). When current is zero it determines the
// next number for the parent and sets it in the INSERT; an explicitly given
// number is kept as is, but the parent row is locked all the same. It returns
// the number the row is inserted with.
func (seq Sequence) Assign(ctx context.Context, scope *gorm.Scope, parentID uint64, current int) (int, error) {
	if current != 0 {
		if err := Lock(ctx, scope.NewDB(), seq, parentID); err != nil {
			return 0, err
		}
		return current, nil
	}
	nextVal, err := NextVal(ctx, scope.NewDB(), seq, parentID)
	if err != nil {
		return 0, err
	}
	return nextVal, scope.SetColumn(seq.Column, nextVal)
}

// Pin is meant to be called from a GORM BeforeUpdate callback. It adds this
// condition to the WHERE clause of the UPDATE:
//
//	AND <column>=<NUMBER-OF-THE-MODEL>
//
// This guarantees that you cannot change the number on the model when you
// update it. The UPDATE will affect no rows!
func (seq Sequence) Pin(scope *gorm.Scope, current int) {
	scope.Search.Where(fmt.Sprintf(`%s.%s=?`, pq.QuoteIdentifier(scope.TableName()), pq.QuoteIdentifier(seq.Column)), current)
}
