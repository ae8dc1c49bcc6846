package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidAmount indicates an empty, non numeric, fractional or non positive amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrRecipientNotFound indicates that the destination account does not exist.
	ErrRecipientNotFound = errors.New("recipient not found")
	// ErrSameAccount indicates a transfer to the sending account itself.
	ErrSameAccount = errors.New("cannot transfer to the same account")
)

// NotSelected is the recipient name of a transfer cancelled before a recipient was chosen.
const NotSelected = "Not selected"

// TransferStatus is the outcome stored with every ledger record.
type TransferStatus string

// Transfer statuses.
const (
	StatusSuccess TransferStatus = "Success"
	StatusFailure TransferStatus = "Failure"
)

// TransferRecord is an immutable ledger row describing one transfer attempt.
type TransferRecord struct {
	ID        int64          `json:"id"`
	FromName  string         `json:"from_name"`
	ToName    string         `json:"to_name"`
	Amount    int64          `json:"amount"` // always positive
	Status    TransferStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// CreateTransferParams is the raw transfer request as entered by the caller.
type CreateTransferParams struct {
	FromAccountNo string `json:"from_account_no"`
	ToAccountNo   string `json:"to_account_no"`
	Amount        string `json:"amount"`
}

// CancelTransferParams is a transfer abandoned after the amount was entered.
type CancelTransferParams struct {
	FromAccountNo string `json:"from_account_no"`
	Amount        string `json:"amount"`
}

// TransferTxParams is the validated input of the transfer transaction.
type TransferTxParams struct {
	FromAccountNo string
	ToAccountNo   string
	Amount        int64
}

// TransferTxResult is the result of the transfer transaction.
type TransferTxResult struct {
	Record      TransferRecord `json:"record"`
	FromAccount Account        `json:"from_account"`
	ToAccount   Account        `json:"to_account"`
}
