package contentstore

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Error causes carried by QueryError.
var (
	// ErrDuplicate indicates a unique constraint rejected the statement
	ErrDuplicate = errors.New("duplicate entry")

	// ErrMissingField indicates a NOT NULL column was left empty
	ErrMissingField = errors.New("required field is missing")

	// ErrReferenceNotFound indicates a foreign key target does not exist
	ErrReferenceNotFound = errors.New("referenced record not found")

	// ErrSchemaMissing indicates the content tables have not been created
	ErrSchemaMissing = errors.New("table does not exist - database migration required")

	// ErrPoolTimeout indicates no pooled connection became free in time
	ErrPoolTimeout = errors.New("timed out waiting for a pooled connection")

	// ErrMalformedJSON indicates a structured column held invalid JSON
	ErrMalformedJSON = errors.New("malformed structured column")
)

// QueryError reports a failed content store operation.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("content store %s failed: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsQueryError reports whether err is or wraps a QueryError.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

// wrapError classifies err and wraps it in a QueryError. pgx.ErrNoRows is
// not an error at this layer and is returned unchanged.
func wrapError(op string, err error) error {
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return &QueryError{Op: op, Err: fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)}
		case "23503": // foreign_key_violation
			return &QueryError{Op: op, Err: fmt.Errorf("%w: %s", ErrReferenceNotFound, pgErr.ConstraintName)}
		case "23502": // not_null_violation
			return &QueryError{Op: op, Err: fmt.Errorf("%w: %s", ErrMissingField, pgErr.ColumnName)}
		case "42P01": // undefined_table
			return &QueryError{Op: op, Err: ErrSchemaMissing}
		default:
			return &QueryError{Op: op, Err: fmt.Errorf("%s (code: %s): %w", pgErr.Message, pgErr.Code, err)}
		}
	}

	return &QueryError{Op: op, Err: err}
}
