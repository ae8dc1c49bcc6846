// Package userservice manages business logic layer of users.
package userservice

import (
	"context"

	"github.com/go-petr/basic-bank/internal/domain"
	"github.com/go-petr/basic-bank/pkg/passpkg"
	"github.com/rs/zerolog"
)

// Service checks credentials of the single configured user.
type Service struct {
	username       string
	hashedPassword string
}

// New hashes the configured password and returns user service.
func New(username, password string) (*Service, error) {
	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		return nil, err
	}

	return &Service{
		username:       username,
		hashedPassword: hashedPassword,
	}, nil
}

// CheckPassword returns the user when username and password match the configured ones.
func (s *Service) CheckPassword(ctx context.Context, username, password string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	if username != s.username {
		l.Info().Str("username", username).Msg("unknown user")
		return domain.User{}, domain.ErrWrongCredentials
	}

	if err := passpkg.Check(password, s.hashedPassword); err != nil {
		l.Info().Err(err).Str("username", username).Send()
		return domain.User{}, domain.ErrWrongCredentials
	}

	return domain.User{Username: username}, nil
}
