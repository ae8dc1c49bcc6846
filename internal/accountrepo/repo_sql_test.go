package accountrepo_test

import (
	"context"
	"testing"

	"github.com/go-petr/basic-bank/internal/accountrepo"
	"github.com/go-petr/basic-bank/internal/domain"
	"github.com/go-petr/basic-bank/internal/test"
	"github.com/go-petr/basic-bank/pkg/dbpkg"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	t.Parallel()

	db := test.SetupDB(t)
	repo := accountrepo.NewRepoSQL(db)
	existing := test.SeedAccount(t, db, 100)

	testCases := []struct {
		name    string
		arg     domain.Account
		wantErr error
	}{
		{
			name: "OK",
			arg:  test.RandomAccount(1_000),
		},
		{
			name: "ZeroBalance",
			arg:  test.RandomAccount(0),
		},
		{
			name:    "ErrAccountAlreadyExists",
			arg:     existing,
			wantErr: domain.ErrAccountAlreadyExists,
		},
		{
			name:    "NegativeBalance",
			arg:     test.RandomAccount(-1),
			wantErr: domain.ErrInsufficientBalance,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.Create(context.Background(), tc.arg)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Empty(t, got)

				return
			}

			require.NoError(t, err)

			if diff := cmp.Diff(tc.arg, got); diff != "" {
				t.Errorf("repo.Create(ctx, %+v) returned unexpected difference (-want +got):\n%s", tc.arg, diff)
			}
		})
	}
}

func TestSeed(t *testing.T) {
	t.Parallel()

	db := test.SetupDB(t)
	repo := accountrepo.NewRepoSQL(db)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, accountrepo.SeedAccounts))

	// A changed balance survives a second seed.
	_, err := repo.UpdateBalance(ctx, "1", 5000)
	require.NoError(t, err)
	require.NoError(t, repo.Seed(ctx, accountrepo.SeedAccounts))

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 15)

	got, err := repo.Get(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, int64(5000), got.Balance)
}

func TestGet(t *testing.T) {
	t.Parallel()

	db := test.SetupDB(t)
	test.SeedDefaultAccounts(t, db)
	repo := accountrepo.NewRepoSQL(db)

	got, err := repo.Get(context.Background(), "1")
	require.NoError(t, err)

	want := domain.Account{
		AccountNo: "1",
		Name:      "Aditya Sharma",
		Email:     "aditya@gmail.com",
		Phone:     "7854123698",
		IFSCCode:  "XXXX8569",
		Balance:   7895641238,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf(`repo.Get(ctx, "1") returned unexpected difference (-want +got):\n%s`, diff)
	}

	got, err = repo.Get(context.Background(), "99")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	require.Empty(t, got)
}

func TestList(t *testing.T) {
	t.Parallel()

	db := test.SetupDB(t)
	repo := accountrepo.NewRepoSQL(db)

	empty, err := repo.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	test.SeedDefaultAccounts(t, db)

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, len(accountrepo.SeedAccounts))

	// Numeric order: "2" comes before "10".
	for i, a := range accounts {
		require.Equal(t, accountrepo.SeedAccounts[i].AccountNo, a.AccountNo)
	}
}

func TestListExcluding(t *testing.T) {
	t.Parallel()

	db := test.SetupDB(t)
	test.SeedDefaultAccounts(t, db)
	repo := accountrepo.NewRepoSQL(db)
	ctx := context.Background()

	all, err := repo.List(ctx)
	require.NoError(t, err)

	for _, excluded := range []string{"1", "10", "15"} {
		accounts, err := repo.ListExcluding(ctx, excluded)
		require.NoError(t, err)
		require.Len(t, accounts, len(all)-1)

		for _, a := range accounts {
			require.NotEqual(t, excluded, a.AccountNo)
		}
	}

	// Unknown numbers exclude nothing.
	accounts, err := repo.ListExcluding(ctx, "99")
	require.NoError(t, err)
	require.Len(t, accounts, len(all))
}

func TestUpdateBalance(t *testing.T) {
	t.Parallel()

	db := test.SetupDB(t)
	account := test.SeedAccount(t, db, 1_000)
	repo := accountrepo.NewRepoSQL(db)
	ctx := context.Background()

	got, err := repo.UpdateBalance(ctx, account.AccountNo, 5_000)
	require.NoError(t, err)

	account.Balance = 5_000
	require.Equal(t, account, got)

	_, err = repo.UpdateBalance(ctx, "99", 1_000)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = repo.UpdateBalance(ctx, account.AccountNo, -1)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	stored, err := repo.Get(ctx, account.AccountNo)
	require.NoError(t, err)
	require.Equal(t, int64(5_000), stored.Balance)
}

func TestSwapBalance(t *testing.T) {
	t.Parallel()

	db := test.SetupDB(t)
	account := test.SeedAccount(t, db, 1_000)
	repo := accountrepo.NewRepoSQL(db)
	ctx := context.Background()

	testCases := []struct {
		name      string
		accountNo string
		old       int64
		balance   int64
		wantErr   error
	}{
		{
			name:      "OK",
			accountNo: account.AccountNo,
			old:       1_000,
			balance:   400,
		},
		{
			name:      "StaleBalance",
			accountNo: account.AccountNo,
			old:       1_000,
			balance:   0,
			wantErr:   domain.ErrBalanceConflict,
		},
		{
			name:      "NotFound",
			accountNo: "99",
			old:       0,
			balance:   10,
			wantErr:   domain.ErrAccountNotFound,
		},
		{
			name:      "Negative",
			accountNo: account.AccountNo,
			old:       400,
			balance:   -1,
			wantErr:   domain.ErrInsufficientBalance,
		},
	}

	// Cases build on each other, so they run in order.
	for _, tc := range testCases {
		got, err := repo.SwapBalance(ctx, tc.accountNo, tc.old, tc.balance)
		if tc.wantErr != nil {
			require.ErrorIs(t, err, tc.wantErr, tc.name)
			continue
		}

		require.NoError(t, err, tc.name)
		require.Equal(t, tc.balance, got.Balance, tc.name)
	}
}

func TestTxScopedRepo(t *testing.T) {
	t.Parallel()

	tx := dbpkg.SetupTX(t, dbpkg.DriverSQLite, ":memory:")
	account := test.SeedAccount(t, tx, 10)

	got, err := accountrepo.NewRepoSQL(tx).Get(context.Background(), account.AccountNo)
	require.NoError(t, err)
	require.Equal(t, account, got)
}
