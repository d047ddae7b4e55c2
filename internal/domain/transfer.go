package domain

import "time"

// InvalidTransferError indicates a transfer request that can never succeed,
// such as a self-transfer or a non-positive amount.
type InvalidTransferError struct {
	Reason string
}

func (e *InvalidTransferError) Error() string {
	return e.Reason
}

// CreateTransferParams is the input data for the transfer operation.
type CreateTransferParams struct {
	SourceAccountID      int64  `json:"source_account_id"`
	DestinationAccountID int64  `json:"destination_account_id"`
	Amount               string `json:"amount"`
	IdempotencyKey       string `json:"idempotency_key"`
}

// TransferTxResult is the result of the atomic transfer transaction.
type TransferTxResult struct {
	Transaction        Transaction  `json:"transaction"`
	SourceAccount      Account      `json:"source_account"`
	DestinationAccount Account      `json:"destination_account"`
	SourceAudit        BalanceAudit `json:"source_audit"`
	DestinationAudit   BalanceAudit `json:"destination_audit"`
}

// TransferDetails describes the accounts and amount of a transfer attempt.
type TransferDetails struct {
	SourceAccountID          int64     `json:"source_account_id"`
	SourceAccountNumber      string    `json:"source_account_number"`
	DestinationAccountID     int64     `json:"destination_account_id"`
	DestinationAccountNumber string    `json:"destination_account_number"`
	Amount                   string    `json:"amount"`
	Currency                 string    `json:"currency"`
	Timestamp                time.Time `json:"timestamp"`
	FailureReason            string    `json:"failure_reason,omitempty"`
}

// TransferResult is the consumer facing outcome of a transfer request.
type TransferResult struct {
	TransferID string            `json:"transfer_id"`
	Status     TransactionStatus `json:"status"`
	Message    string            `json:"message"`
	Details    TransferDetails   `json:"details"`
}
