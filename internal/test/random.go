package test

import (
	"github.com/go-petr/basic-bank/internal/domain"
	"github.com/go-petr/basic-bank/pkg/randompkg"
)

// RandomAccount returns an account with random data and the given balance.
func RandomAccount(balance int64) domain.Account {
	return domain.Account{
		AccountNo: randompkg.AccountNo(),
		Name:      randompkg.Name(),
		Email:     randompkg.Email(),
		Phone:     randompkg.Phone(),
		IFSCCode:  randompkg.IFSCCode(),
		Balance:   balance,
	}
}
