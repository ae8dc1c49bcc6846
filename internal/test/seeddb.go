// Package test provides shared test helpers.
package test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-petr/basic-bank/internal/accountrepo"
	"github.com/go-petr/basic-bank/internal/domain"
	"github.com/go-petr/basic-bank/internal/transferrepo"
	"github.com/go-petr/basic-bank/pkg/dbpkg"
)

// SetupDB opens a migrated in-memory SQLite database that is closed after the test.
func SetupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := dbpkg.Setup(dbpkg.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("dbpkg.Setup() returned error: %v", err)
	}

	if err := dbpkg.Migrate(context.Background(), db, dbpkg.DriverSQLite); err != nil {
		t.Fatalf("dbpkg.Migrate() returned error: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("db.Close() failed: %v", err)
		}
	})

	return db
}

// SeedAccount creates a random Account with the given balance.
func SeedAccount(t *testing.T, db dbpkg.SQLInterface, balance int64) domain.Account {
	t.Helper()

	arg := RandomAccount(balance)

	account, err := accountrepo.NewRepoSQL(db).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("accountRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return account
}

// SeedDefaultAccounts inserts accountrepo.SeedAccounts.
func SeedDefaultAccounts(t *testing.T, db dbpkg.SQLInterface) []domain.Account {
	t.Helper()

	if err := accountrepo.NewRepoSQL(db).Seed(context.Background(), accountrepo.SeedAccounts); err != nil {
		t.Fatalf("accountRepo.Seed() returned error: %v", err)
	}

	return accountrepo.SeedAccounts
}

// SeedRecord appends a ledger record.
func SeedRecord(t *testing.T, db dbpkg.SQLInterface, fromName, toName string, amount int64, status domain.TransferStatus) domain.TransferRecord {
	t.Helper()

	arg := domain.TransferRecord{
		FromName: fromName,
		ToName:   toName,
		Amount:   amount,
		Status:   status,
	}

	record, err := transferrepo.NewTxRepoSQL(db).Append(context.Background(), arg)
	if err != nil {
		t.Fatalf("transferRepo.Append(context.Background(), %+v) returned error: %v", arg, err)
	}

	return record
}
