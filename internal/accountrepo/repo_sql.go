// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/basic-bank/internal/domain"
	"github.com/go-petr/basic-bank/pkg/dbpkg"

	"github.com/rs/zerolog"
)

// RepoSQL facilitates account repository layer logic.
//
// The queries are portable between SQLite and Postgres.
type RepoSQL struct {
	db dbpkg.SQLInterface
}

// NewRepoSQL returns account RepoSQL.
func NewRepoSQL(db dbpkg.SQLInterface) *RepoSQL {
	return &RepoSQL{
		db: db,
	}
}

const accountColumns = `account_no, name, email, phone, ifsc_code, balance`

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.AccountNo,
		&a.Name,
		&a.Email,
		&a.Phone,
		&a.IFSCCode,
		&a.Balance,
	)

	return a, err
}

const createQuery = `
INSERT INTO
    accounts (account_no, name, email, phone, ifsc_code, balance)
VALUES
    ($1, $2, $3, $4, $5, $6)
RETURNING ` + accountColumns

// Create creates the account and then returns it.
func (r *RepoSQL) Create(ctx context.Context, arg domain.Account) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.AccountNo,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.IFSCCode,
		arg.Balance,
	)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		switch {
		case dbpkg.IsUniqueViolation(err):
			return domain.Account{}, domain.ErrAccountAlreadyExists
		case dbpkg.IsCheckViolation(err):
			return domain.Account{}, domain.ErrInsufficientBalance
		}

		return domain.Account{}, domain.ErrStoreUnavailable
	}

	return a, nil
}

const seedQuery = `
INSERT INTO
    accounts (account_no, name, email, phone, ifsc_code, balance)
VALUES
    ($1, $2, $3, $4, $5, $6)
ON CONFLICT (account_no) DO NOTHING
`

// Seed inserts the accounts that do not exist yet and leaves existing ones untouched.
func (r *RepoSQL) Seed(ctx context.Context, accounts []domain.Account) error {
	l := zerolog.Ctx(ctx)

	for _, a := range accounts {
		_, err := r.db.ExecContext(ctx, seedQuery,
			a.AccountNo,
			a.Name,
			a.Email,
			a.Phone,
			a.IFSCCode,
			a.Balance,
		)
		if err != nil {
			l.Error().Err(err).Str("account_no", a.AccountNo).Msg("seed account")
			return domain.ErrStoreUnavailable
		}
	}

	return nil
}

const getQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE account_no = $1
`

// Get returns the account with the given number.
func (r *RepoSQL) Get(ctx context.Context, accountNo string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, getQuery, accountNo))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Str("account_no", accountNo).Msg("account not found")
			return domain.Account{}, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return domain.Account{}, domain.ErrStoreUnavailable
	}

	return a, nil
}

// Numeric account numbers sort naturally when shorter ones go first.
const listQuery = `
SELECT ` + accountColumns + `
FROM accounts
ORDER BY length(account_no), account_no
`

const listExcludingQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE account_no <> $1
ORDER BY length(account_no), account_no
`

// List returns all accounts.
func (r *RepoSQL) List(ctx context.Context) ([]domain.Account, error) {
	return r.list(ctx, listQuery)
}

// ListExcluding returns all accounts except the one with the given number.
func (r *RepoSQL) ListExcluding(ctx context.Context, accountNo string) ([]domain.Account, error) {
	return r.list(ctx, listExcludingQuery, accountNo)
}

func (r *RepoSQL) list(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, domain.ErrStoreUnavailable
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, domain.ErrStoreUnavailable
		}

		items = append(items, a)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, domain.ErrStoreUnavailable
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, domain.ErrStoreUnavailable
	}

	return items, nil
}

const updateBalanceQuery = `
UPDATE accounts
SET balance = $1
WHERE account_no = $2
RETURNING ` + accountColumns

// UpdateBalance sets the account's balance and returns the changed account.
func (r *RepoSQL) UpdateBalance(ctx context.Context, accountNo string, balance int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, updateBalanceQuery, balance, accountNo))
	if err != nil {
		return domain.Account{}, balanceErr(l, err)
	}

	return a, nil
}

const swapBalanceQuery = `
UPDATE accounts
SET balance = $1
WHERE account_no = $2 AND balance = $3
RETURNING ` + accountColumns

// SwapBalance sets the account's balance only if it still equals old.
//
// It returns domain.ErrBalanceConflict when the balance was changed by someone else.
func (r *RepoSQL) SwapBalance(ctx context.Context, accountNo string, old, balance int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, swapBalanceQuery, balance, accountNo, old))
	if err == nil {
		return a, nil
	}

	err = balanceErr(l, err)
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return domain.Account{}, err
	}

	// No row matched: either the account is gone or its balance moved.
	if _, err := r.Get(ctx, accountNo); err != nil {
		return domain.Account{}, err
	}

	return domain.Account{}, domain.ErrBalanceConflict
}

func balanceErr(l *zerolog.Logger, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrAccountNotFound
	case dbpkg.IsCheckViolation(err):
		l.Info().Err(err).Send()
		return domain.ErrInsufficientBalance
	case dbpkg.IsSerializationFailure(err):
		l.Warn().Err(err).Send()
		return domain.ErrBalanceConflict
	}

	l.Error().Err(err).Send()

	return domain.ErrStoreUnavailable
}
