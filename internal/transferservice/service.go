// Package transferservice manages business logic layer of transfers.
package transferservice

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/go-petr/basic-bank/internal/accountdelivery"
	"github.com/go-petr/basic-bank/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	Transfer(ctx context.Context, arg domain.TransferTxParams) (domain.TransferTxResult, error)
	Append(ctx context.Context, arg domain.TransferRecord) (domain.TransferRecord, error)
	List(ctx context.Context) ([]domain.TransferRecord, error)
}

// Publisher announces recorded transfer attempts.
type Publisher interface {
	Publish(ctx context.Context, record domain.TransferRecord) error
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo           Repo
	accountService accountdelivery.Service
	publisher      Publisher
}

// New return transfer service struct to manage transfer bussines logic.
func New(tr Repo, as accountdelivery.Service, p Publisher) *Service {
	return &Service{
		repo:           tr,
		accountService: as,
		publisher:      p,
	}
}

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// parseAmount accepts a positive whole number that fits into int64.
func parseAmount(ctx context.Context, amount string) (int64, error) {
	l := zerolog.Ctx(ctx)

	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		l.Info().Err(err).Str("amount", amount).Send()
		return 0, domain.ErrInvalidAmount
	}

	if !d.IsInteger() || d.LessThanOrEqual(decimal.Zero) || d.GreaterThan(maxAmount) {
		l.Info().Str("amount", amount).Msg("amount out of range")
		return 0, domain.ErrInvalidAmount
	}

	return d.IntPart(), nil
}

// Transfer validates the request, moves the money and records the attempt.
//
// Every attempt that gets past amount parsing and sender lookup leaves exactly one
// ledger record. On failure the returned result holds only the Failure record.
func (s *Service) Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)
	a := newAttempt(ctx)

	amount, err := parseAmount(ctx, arg.Amount)
	if err != nil {
		a.to(stateRejected)
		return domain.TransferTxResult{}, err
	}

	from, err := s.accountService.Get(ctx, arg.FromAccountNo)
	if err != nil {
		l.Info().Err(err).Str("from_account_no", arg.FromAccountNo).Send()
		a.to(stateRejected)

		return domain.TransferTxResult{}, err
	}

	toName := arg.ToAccountNo

	to, toErr := s.accountService.Get(ctx, arg.ToAccountNo)
	switch {
	case toErr == nil:
		toName = to.Name
	case errors.Is(toErr, domain.ErrAccountNotFound):
		toErr = domain.ErrRecipientNotFound
	}

	failure := domain.TransferRecord{
		FromName: from.Name,
		ToName:   toName,
		Amount:   amount,
		Status:   domain.StatusFailure,
	}

	switch {
	case amount > from.Balance:
		err = domain.ErrInsufficientBalance
	case toErr != nil:
		err = toErr
	case from.AccountNo == to.AccountNo:
		err = domain.ErrSameAccount
	}

	if err != nil {
		a.to(stateRejected)
		return s.recordFailure(ctx, a, failure, err)
	}

	a.to(stateValidated)

	result, err := s.repo.Transfer(ctx, domain.TransferTxParams{
		FromAccountNo: from.AccountNo,
		ToAccountNo:   to.AccountNo,
		Amount:        amount,
	})
	if err != nil {
		l.Warn().Err(err).Msg("transfer transaction rolled back")
		a.to(stateRejected)

		return s.recordFailure(ctx, a, failure, err)
	}

	a.to(stateApplied)
	a.to(stateRecorded)

	s.publish(ctx, result.Record)

	return result, nil
}

// recordFailure appends the Failure record for a rejected attempt.
func (s *Service) recordFailure(ctx context.Context, a *attempt, rec domain.TransferRecord, cause error) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	stored, err := s.repo.Append(ctx, rec)
	if err != nil {
		l.Error().Err(err).Msgf("failure record not stored: %+v", rec)
		return domain.TransferTxResult{}, errors.Join(cause, domain.ErrStoreUnavailable)
	}

	a.to(stateRecorded)

	s.publish(ctx, stored)

	return domain.TransferTxResult{Record: stored}, cause
}

// Cancel records a transfer abandoned after the amount was entered.
//
// The Failure record is stored before Cancel returns.
func (s *Service) Cancel(ctx context.Context, arg domain.CancelTransferParams) (domain.TransferRecord, error) {
	l := zerolog.Ctx(ctx)
	a := newAttempt(ctx)

	amount, err := parseAmount(ctx, arg.Amount)
	if err != nil {
		a.to(stateRejected)
		return domain.TransferRecord{}, err
	}

	from, err := s.accountService.Get(ctx, arg.FromAccountNo)
	if err != nil {
		l.Info().Err(err).Str("from_account_no", arg.FromAccountNo).Send()
		a.to(stateRejected)

		return domain.TransferRecord{}, err
	}

	a.to(stateRejected)

	rec, err := s.repo.Append(ctx, domain.TransferRecord{
		FromName: from.Name,
		ToName:   domain.NotSelected,
		Amount:   amount,
		Status:   domain.StatusFailure,
	})
	if err != nil {
		return domain.TransferRecord{}, err
	}

	a.to(stateRecorded)

	s.publish(ctx, rec)

	return rec, nil
}

// History returns every recorded transfer attempt in insertion order.
func (s *Service) History(ctx context.Context) ([]domain.TransferRecord, error) {
	return s.repo.List(ctx)
}

func (s *Service) publish(ctx context.Context, rec domain.TransferRecord) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, rec); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("record_id", rec.ID).Msg("transfer event not published")
	}
}
