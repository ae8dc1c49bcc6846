// Package dbpkg provides helpers to make db initialization and testing easier.
package dbpkg

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"testing"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverPGX      = "pgx"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Setup sets up connection with database.
//
// The returned handle is meant to live for the whole process and be closed on shutdown.
// SQLite handles are limited to a single connection, which keeps one writer at a time and
// lets in-memory databases be shared by every query.
func Setup(driver, source string) (*sql.DB, error) {
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func schemaFile(driver string) (string, error) {
	switch driver {
	case DriverSQLite:
		return "schema/sqlite3.sql", nil
	case DriverPostgres, DriverPGX:
		return "schema/postgres.sql", nil
	}

	return "", fmt.Errorf("unsupported db driver %q", driver)
}

// Migrate creates the accounts and transfers tables when they do not exist yet.
func Migrate(ctx context.Context, db SQLInterface, driver string) error {
	name, err := schemaFile(driver)
	if err != nil {
		return err
	}

	schema, err := schemaFS.ReadFile(name)
	if err != nil {
		return err
	}

	for _, stmt := range strings.Split(string(schema), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", name, err)
		}
	}

	return nil
}

// SetupTX sets up a database transaction to be used in tests.
// Once the tests are done it will rollback the transaction.
func SetupTX(t *testing.T, driver, source string) *sql.Tx {
	t.Helper()

	db, err := Setup(driver, source)
	if err != nil {
		t.Fatalf("Setup(%v, %v) failed: %v", driver, source, err)
	}

	if err := Migrate(context.Background(), db, driver); err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("db.Begin() failed: %v", err)
	}

	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Fatalf("tx.Rollback() failed: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("db.Close() failed: %v", err)
		}
	})

	return tx
}

// SQLInterface provides neccessary db methods to perform queries.
//
// Both *sql.DB and *sql.Tx satisfy it, so repositories can run inside a transaction.
type SQLInterface interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}
