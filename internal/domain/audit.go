package domain

import "time"

// BalanceAudit is a write-once before/after balance snapshot for one account
// taken during one transfer. Exactly two are written per completed transfer.
type BalanceAudit struct {
	ID            int64     `json:"id"`
	AccountID     int64     `json:"account_id"`
	BeforeBalance string    `json:"before_balance"`
	AfterBalance  string    `json:"after_balance"`
	Currency      string    `json:"currency"`
	TransactionID int64     `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateAuditParams is the input data to persist a balance audit row.
type CreateAuditParams struct {
	AccountID     int64
	BeforeBalance string
	AfterBalance  string
	Currency      string
	TransactionID int64
}
