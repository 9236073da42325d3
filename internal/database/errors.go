package database

import (
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Sentinel errors for the result store. Callers match them with errors.Is;
// the driver error stays in the chain for logging.
var (
	// ErrStorageUnavailable indicates the store could not be reached or failed
	// for a reason other than data integrity.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrConstraintViolation indicates an integrity error other than the
	// expected duplicate (user, game) submission.
	ErrConstraintViolation = errors.New("storage constraint violation")
)

type storageError struct {
	kind error
	err  error
}

func (e *storageError) Error() string { return e.kind.Error() + ": " + e.err.Error() }

func (e *storageError) Unwrap() []error { return []error{e.kind, e.err} }

// classify maps a driver error onto the store's sentinel errors
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorageUnavailable) || errors.Is(err, ErrConstraintViolation) {
		return err
	}
	if isConstraintError(err) {
		return &storageError{kind: ErrConstraintViolation, err: err}
	}
	return &storageError{kind: ErrStorageUnavailable, err: err}
}

func isConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 23 - Integrity Constraint Violation
		return pqErr.Code.Class() == "23"
	}

	return false
}
