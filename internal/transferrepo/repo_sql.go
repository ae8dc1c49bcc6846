// Package transferrepo manages the transfer ledger and the transfer transaction.
package transferrepo

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/go-petr/basic-bank/internal/accountrepo"
	"github.com/go-petr/basic-bank/internal/domain"
	"github.com/go-petr/basic-bank/pkg/dbpkg"
	"github.com/rs/zerolog"
)

// RepoSQL facilitates transfer repository layer logic.
//
// The transfers table is append-only: there is no update or delete.
type RepoSQL struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoSQL returns transfer RepoSQL bound to an existing transaction or connection.
func NewTxRepoSQL(db dbpkg.SQLInterface) *RepoSQL {
	return &RepoSQL{
		db: db,
	}
}

// NewRepoSQL returns transfer RepoSQL with connection to start transactions.
func NewRepoSQL(db *sql.DB) *RepoSQL {
	return &RepoSQL{
		db:   db,
		conn: db,
	}
}

const appendQuery = `
INSERT INTO
    transfers (from_name, to_name, amount, status, created_at)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING id
`

// Append adds the record to the ledger and returns it with its id and creation time.
func (r *RepoSQL) Append(ctx context.Context, arg domain.TransferRecord) (domain.TransferRecord, error) {
	l := zerolog.Ctx(ctx)

	rec := domain.TransferRecord{
		FromName:  arg.FromName,
		ToName:    arg.ToName,
		Amount:    arg.Amount,
		Status:    arg.Status,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	row := r.db.QueryRowContext(ctx, appendQuery,
		rec.FromName,
		rec.ToName,
		rec.Amount,
		string(rec.Status),
		rec.CreatedAt,
	)

	if err := row.Scan(&rec.ID); err != nil {
		l.Error().Err(err).Msgf("Append(ctx, %+v)", arg)

		if dbpkg.IsCheckViolation(err) {
			return domain.TransferRecord{}, domain.ErrInvalidAmount
		}

		return domain.TransferRecord{}, domain.ErrStoreUnavailable
	}

	return rec, nil
}

const listQuery = `
SELECT
	id, from_name, to_name, amount, status, created_at
FROM transfers
ORDER BY id
`

// List returns the whole ledger in insertion order.
func (r *RepoSQL) List(ctx context.Context) ([]domain.TransferRecord, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, domain.ErrStoreUnavailable
	}
	defer rows.Close()

	items := []domain.TransferRecord{}

	for rows.Next() {
		var (
			rec    domain.TransferRecord
			status string
		)

		if err := rows.Scan(
			&rec.ID,
			&rec.FromName,
			&rec.ToName,
			&rec.Amount,
			&status,
			&rec.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, domain.ErrStoreUnavailable
		}

		rec.Status = domain.TransferStatus(status)
		items = append(items, rec)
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

// Transfer moves money between two accounts.
//
// It re-reads both accounts, swaps both balances and appends the Success record
// within a single serializable transaction, so either all three writes land or none.
func (r *RepoSQL) Transfer(ctx context.Context, arg domain.TransferTxParams) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransferTxResult

	if r.conn == nil {
		l.Error().Msg("Transfer called on a transaction scoped repo")
		return result, domain.ErrStoreUnavailable
	}

	tx, err := r.conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		l.Error().Err(err).Send()
		return result, domain.ErrStoreUnavailable
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	accountRepo := accountrepo.NewRepoSQL(tx)
	ledger := NewTxRepoSQL(tx)

	from, err := accountRepo.Get(ctx, arg.FromAccountNo)
	if err != nil {
		return result, err
	}

	to, err := accountRepo.Get(ctx, arg.ToAccountNo)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return result, domain.ErrRecipientNotFound
		}

		return result, err
	}

	switch {
	case arg.Amount <= 0:
		return result, domain.ErrInvalidAmount
	case from.AccountNo == to.AccountNo:
		return result, domain.ErrSameAccount
	case from.Balance < arg.Amount:
		return result, domain.ErrInsufficientBalance
	case to.Balance > math.MaxInt64-arg.Amount:
		return result, domain.ErrInvalidAmount
	}

	// To avoid deadlocks execute statements in consistent account order
	if from.AccountNo < to.AccountNo {
		result.FromAccount, result.ToAccount, err = swapBalances(ctx, accountRepo, from, to, arg.Amount)
	} else {
		result.ToAccount, result.FromAccount, err = swapBalances(ctx, accountRepo, to, from, -arg.Amount)
	}

	if err != nil {
		return domain.TransferTxResult{}, err
	}

	result.Record, err = ledger.Append(ctx, domain.TransferRecord{
		FromName: from.Name,
		ToName:   to.Name,
		Amount:   arg.Amount,
		Status:   domain.StatusSuccess,
	})
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()

		if dbpkg.IsSerializationFailure(err) {
			return domain.TransferTxResult{}, domain.ErrBalanceConflict
		}

		return domain.TransferTxResult{}, domain.ErrStoreUnavailable
	}

	return result, nil
}

// swapBalances moves delta from a1 to a2; a negative delta moves money the other way.
func swapBalances(ctx context.Context, r *accountrepo.RepoSQL, a1, a2 domain.Account, delta int64) (domain.Account, domain.Account, error) {
	account1, err := r.SwapBalance(ctx, a1.AccountNo, a1.Balance, a1.Balance-delta)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	account2, err := r.SwapBalance(ctx, a2.AccountNo, a2.Balance, a2.Balance+delta)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	return account1, account2, nil
}
