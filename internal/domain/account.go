// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists indicates that the account number is taken.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrBalanceConflict indicates that the balance changed between read and write.
	ErrBalanceConflict = errors.New("balance changed concurrently, retry")
	// ErrStoreUnavailable indicates that the store cannot be opened or written.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Account holds a customer's balance in the smallest currency unit.
type Account struct {
	AccountNo string `json:"account_no"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IFSCCode  string `json:"ifsc_code"`
	Balance   int64  `json:"balance"` // never negative
}
