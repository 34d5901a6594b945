package gormsupport

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"net"
	"strings"

	"github.com/lib/pq"
	errs "github.com/pkg/errors"
)

const (
	errCheckViolation       = "23514"
	errUniqueViolation      = "23505"
	errForeignKeyViolation  = "23503"
	errNotNullViolation     = "23502"
	errInvalidCatalogName   = "3D000"
	errQueryCanceled        = "57014"
	errDataException        = "22" // This class contains many data representation related errors. See https://www.postgresql.org/docs/current/static/errcodes-appendix.html
	errConnectionException  = "08"
	errInsufficientRes      = "53"
	errOperatorIntervention = "57P"
)

func pqError(err error) (*pq.Error, bool) {
	if err == nil {
		return nil, false
	}
	pqErr, ok := errs.Cause(err).(*pq.Error)
	return pqErr, ok
}

// IsCheckViolation returns true if the error is a violation of the given check
func IsCheckViolation(err error, constraintName string) bool {
	pqErr, ok := pqError(err)
	return ok && pqErr.Code == errCheckViolation && pqErr.Constraint == constraintName
}

// IsAnyCheckViolation returns true if the error is a violation of any check
// constraint.
func IsAnyCheckViolation(err error) bool {
	pqErr, ok := pqError(err)
	return ok && pqErr.Code == errCheckViolation
}

// IsNotNullViolation returns true if the error is a NOT NULL violation of the
// given column.
func IsNotNullViolation(err error, column string) bool {
	pqErr, ok := pqError(err)
	return ok && pqErr.Code == errNotNullViolation && pqErr.Column == column
}

// IsDataException returns true if the error is of type data exception (eg: type
// mismatch, invalid delimiter, divide by zero, ...)
// See https://www.postgresql.org/docs/current/static/errcodes-appendix.html
func IsDataException(err error) bool {
	pqErr, ok := pqError(err)
	return ok && strings.HasPrefix(string(pqErr.Code), errDataException)
}

// IsInvalidCatalogName returns true if the given error says that the catalog
// is ivalid (e.g. database does not exist)
func IsInvalidCatalogName(err error) bool {
	pqErr, ok := pqError(err)
	return ok && pqErr.Code == errInvalidCatalogName
}

// IsUniqueViolation returns true if the error is a violation of the given unique index
func IsUniqueViolation(err error, indexName string) bool {
	pqErr, ok := pqError(err)
	return ok && pqErr.Code == errUniqueViolation && pqErr.Constraint == indexName
}

// IsForeignKeyViolation returns true if the error is a violation of the given foreign key index
func IsForeignKeyViolation(err error, indexName string) bool {
	pqErr, ok := pqError(err)
	return ok && pqErr.Code == errForeignKeyViolation && pqErr.Constraint == indexName
}

// IsConnectionError returns true if the error means that the database could
// not be reached or did not answer in time: connection exceptions,
// insufficient resources, server shutdown, cancelled statements (e.g. by
// statement_timeout), broken or exhausted pool connections, network errors
// and expired contexts.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	cause := errs.Cause(err)
	switch cause {
	case driver.ErrBadConn, sql.ErrConnDone, sql.ErrTxDone, context.DeadlineExceeded, context.Canceled, io.EOF, io.ErrUnexpectedEOF:
		return true
	}
	if pqErr, ok := cause.(*pq.Error); ok {
		code := string(pqErr.Code)
		return strings.HasPrefix(code, errConnectionException) ||
			strings.HasPrefix(code, errInsufficientRes) ||
			strings.HasPrefix(code, errOperatorIntervention) ||
			code == errQueryCanceled
	}
	if _, ok := cause.(net.Error); ok {
		return true
	}
	// lib/pq reports some transport failures as plain errors
	msg := cause.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "bad connection") ||
		strings.Contains(msg, "i/o timeout") ||
		strings.Contains(msg, "no such host")
}
