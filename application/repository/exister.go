package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fabric8-services/fabric8-tracker/errors"
	"github.com/fabric8-services/fabric8-tracker/gormsupport"
	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
	errs "github.com/pkg/errors"
)

// Exister is implemented by repositories of entities that can be referenced
// by their ID.
type Exister interface {
	// CheckExists returns nil if the object with the given ID exists;
	// otherwise an error is returned in case the object is not found or in
	// case of another issue.
	CheckExists(ctx context.Context, id uint64) error
}

// CheckExists does a lightweight check on the given table to see if a row
// with the given ID exists.
func CheckExists(ctx context.Context, db *gorm.DB, tableName string, id uint64) error {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, pq.QuoteIdentifier(tableName))
	var exists bool
	if err := db.CommonDB().QueryRow(query, id).Scan(&exists); err != nil {
		return gormsupport.ConvertError(ctx, errs.Wrapf(err, "unable to verify if %s exists", tableName))
	}
	if !exists {
		return errors.NewNotFoundError(tableName, strconv.FormatUint(id, 10))
	}
	return nil
}
