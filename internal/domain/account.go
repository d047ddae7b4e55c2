// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAccountNumberExists indicates that an account with the given account number already exists.
	ErrAccountNumberExists = errors.New("account number already exists")
	// ErrCurrencyNotSupported indicates that the given currency is not supported.
	ErrCurrencyNotSupported = errors.New("currency not supported")
	// ErrInvalidOpeningBalance indicates that the opening balance is not a non-negative number.
	ErrInvalidOpeningBalance = errors.New("opening balance must be a non-negative number")
)

// AccountNotFoundError indicates that the account with the given id does not exist.
type AccountNotFoundError struct {
	AccountID int64
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account not found with id %d", e.AccountID)
}

// InsufficientFundsError indicates that the source account balance does not cover the amount.
type InsufficientFundsError struct {
	AccountID int64
	Required  string
	Available string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in account %d: required %s, available %s",
		e.AccountID, e.Required, e.Available)
}

// Account holds a money balance for a single currency.
type Account struct {
	ID            int64     `json:"id"`
	AccountNumber string    `json:"account_number"`
	OwnerName     string    `json:"owner_name"`
	Balance       string    `json:"balance"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
