// Package auditrepo manages repository layer of balance audits.
package auditrepo

import (
	"context"

	"github.com/go-vlad/payment-transfer/internal/domain"
	"github.com/go-vlad/payment-transfer/pkg/dbpkg"
	"github.com/go-vlad/payment-transfer/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates balance audit repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns audit RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const auditColumns = `
	id, account_id, before_balance, after_balance, currency, transaction_id, created_at
`

const createQuery = `
INSERT INTO
    balance_audits (account_id, before_balance, after_balance, currency, transaction_id)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING ` + auditColumns

// Create creates the audit row and then returns it. Audit rows are never updated.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAuditParams) (domain.BalanceAudit, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.AccountID,
		arg.BeforeBalance,
		arg.AfterBalance,
		arg.Currency,
		arg.TransactionID,
	)

	var a domain.BalanceAudit

	err := row.Scan(
		&a.ID,
		&a.AccountID,
		&a.BeforeBalance,
		&a.AfterBalance,
		&a.Currency,
		&a.TransactionID,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Int64("account_id", arg.AccountID).Int64("transaction_id", arg.TransactionID).Send()
		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listByAccountQuery = `
SELECT ` + auditColumns + `
FROM balance_audits
WHERE account_id = $1
ORDER BY currency, created_at DESC
`

// ListByAccount returns all audit rows for the given account,
// ordered by currency then by most recent first.
func (r *RepoPGS) ListByAccount(ctx context.Context, accountID int64) ([]domain.BalanceAudit, error) {
	return r.list(ctx, listByAccountQuery, accountID)
}

const listByAccountAndCurrencyQuery = `
SELECT ` + auditColumns + `
FROM balance_audits
WHERE account_id = $1 AND currency = $2
ORDER BY created_at DESC
`

// ListByAccountAndCurrency returns the account's audit rows in the given currency.
func (r *RepoPGS) ListByAccountAndCurrency(ctx context.Context, accountID int64, currency string) ([]domain.BalanceAudit, error) {
	return r.list(ctx, listByAccountAndCurrencyQuery, accountID, currency)
}

const listByTransactionQuery = `
SELECT ` + auditColumns + `
FROM balance_audits
WHERE transaction_id = $1
ORDER BY id
`

// ListByTransaction returns the audit rows written for the given transaction.
func (r *RepoPGS) ListByTransaction(ctx context.Context, transactionID int64) ([]domain.BalanceAudit, error) {
	return r.list(ctx, listByTransactionQuery, transactionID)
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...interface{}) ([]domain.BalanceAudit, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.BalanceAudit{}

	for rows.Next() {
		var a domain.BalanceAudit
		if err := rows.Scan(
			&a.ID,
			&a.AccountID,
			&a.BeforeBalance,
			&a.AfterBalance,
			&a.Currency,
			&a.TransactionID,
			&a.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
