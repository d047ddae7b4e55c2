package domain

import (
	"errors"
	"time"
)

var (
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrTransactionFinalized indicates an attempt to change a terminal transaction status.
	ErrTransactionFinalized = errors.New("transaction already finalized")
	// ErrDuplicateIdempotencyKey indicates that the idempotency key has already been recorded.
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already recorded")
	// ErrTransferConflict indicates a lock or serialization conflict; the attempt is safe to retry.
	ErrTransferConflict = errors.New("transfer conflict, retry the request")
)

// TransactionStatus is the state of a transfer attempt.
//
// PENDING transitions to either COMPLETED or FAILED; both are terminal.
type TransactionStatus string

// All transaction statuses.
const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
)

// Transaction records one transfer attempt between two accounts.
type Transaction struct {
	ID                   int64             `json:"id"`
	TransferID           string            `json:"transfer_id"`
	SourceAccountID      int64             `json:"source_account_id"`
	DestinationAccountID int64             `json:"destination_account_id"`
	Amount               string            `json:"amount"` // must be positive
	Currency             string            `json:"currency"`
	Status               TransactionStatus `json:"status"`
	FailureReason        string            `json:"failure_reason,omitempty"`
	IdempotencyKey       string            `json:"idempotency_key,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
}

// CreateTransactionParams is the input data to persist a transaction record.
type CreateTransactionParams struct {
	TransferID           string
	SourceAccountID      int64
	DestinationAccountID int64
	Amount               string
	Currency             string
	Status               TransactionStatus
	FailureReason        string
	IdempotencyKey       string
}
