package dbpkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Postgres SQLSTATE codes.
const (
	pgCheckViolation       = "23514"
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

func pgCode(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, true
	}

	return "", false
}

func sqliteErr(err error) (sqlite3.Error, bool) {
	var e sqlite3.Error
	if errors.As(err, &e) {
		return e, true
	}

	return e, false
}

// IsCheckViolation reports whether err was caused by a CHECK constraint.
func IsCheckViolation(err error) bool {
	if code, ok := pgCode(err); ok {
		return code == pgCheckViolation
	}

	if e, ok := sqliteErr(err); ok {
		return e.ExtendedCode == sqlite3.ErrConstraintCheck
	}

	return false
}

// IsUniqueViolation reports whether err was caused by a unique or primary key constraint.
func IsUniqueViolation(err error) bool {
	if code, ok := pgCode(err); ok {
		return code == pgUniqueViolation
	}

	if e, ok := sqliteErr(err); ok {
		return e.ExtendedCode == sqlite3.ErrConstraintUnique ||
			e.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}

// IsSerializationFailure reports whether the transaction lost a race with a concurrent one
// and may succeed when retried.
func IsSerializationFailure(err error) bool {
	if code, ok := pgCode(err); ok {
		return code == pgSerializationFailure || code == pgDeadlockDetected
	}

	if e, ok := sqliteErr(err); ok {
		return e.Code == sqlite3.ErrBusy || e.Code == sqlite3.ErrLocked
	}

	return false
}
