// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/go-petr/basic-bank/internal/domain"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Get(ctx context.Context, accountNo string) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	ListExcluding(ctx context.Context, accountNo string) ([]domain.Account, error)
	Seed(ctx context.Context, accounts []domain.Account) error
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Get returns account for the given account number.
func (s *Service) Get(ctx context.Context, accountNo string) (domain.Account, error) {
	account, err := s.repo.Get(ctx, accountNo)
	if err != nil {
		return account, err
	}

	return account, nil
}

// List returns every account.
func (s *Service) List(ctx context.Context) ([]domain.Account, error) {
	return s.repo.List(ctx)
}

// ListRecipients returns the accounts the given account can send money to.
func (s *Service) ListRecipients(ctx context.Context, accountNo string) ([]domain.Account, error) {
	if _, err := s.repo.Get(ctx, accountNo); err != nil {
		return nil, err
	}

	return s.repo.ListExcluding(ctx, accountNo)
}

// Seed makes sure the given accounts exist.
func (s *Service) Seed(ctx context.Context, accounts []domain.Account) error {
	l := zerolog.Ctx(ctx)

	if err := s.repo.Seed(ctx, accounts); err != nil {
		return err
	}

	l.Info().Int("accounts", len(accounts)).Msg("accounts seeded")

	return nil
}
