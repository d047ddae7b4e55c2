// Package transactionrepo manages repository layer of transaction records.
package transactionrepo

import (
	"context"
	"database/sql"

	"github.com/go-vlad/payment-transfer/internal/domain"
	"github.com/go-vlad/payment-transfer/pkg/dbpkg"
	"github.com/go-vlad/payment-transfer/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const transactionColumns = `
	id, transfer_id, source_account_id, destination_account_id,
	amount, currency, status, failure_reason, idempotency_key, created_at
`

func scanTransaction(row *sql.Row) (domain.Transaction, error) {
	var (
		t             domain.Transaction
		failureReason sql.NullString
		key           sql.NullString
	)

	err := row.Scan(
		&t.ID,
		&t.TransferID,
		&t.SourceAccountID,
		&t.DestinationAccountID,
		&t.Amount,
		&t.Currency,
		&t.Status,
		&failureReason,
		&key,
		&t.CreatedAt,
	)

	t.FailureReason = failureReason.String
	t.IdempotencyKey = key.String

	return t, err
}

const createQuery = `
INSERT INTO
    transactions (transfer_id, source_account_id, destination_account_id,
                  amount, currency, status, failure_reason, idempotency_key)
VALUES
    ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''))
RETURNING ` + transactionColumns

// Create creates the transaction record and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.TransferID,
		arg.SourceAccountID,
		arg.DestinationAccountID,
		arg.Amount,
		arg.Currency,
		arg.Status,
		arg.FailureReason,
		arg.IdempotencyKey,
	)

	t, err := scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Str("transfer_id", arg.TransferID).Msg("transaction create failed")

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_source_account_id_fkey":
				return t, &domain.AccountNotFoundError{AccountID: arg.SourceAccountID}
			case "transactions_destination_account_id_fkey":
				return t, &domain.AccountNotFoundError{AccountID: arg.DestinationAccountID}
			case "transactions_amount_check":
				return t, &domain.InvalidTransferError{Reason: "transfer amount must be greater than zero"}
			case "transactions_idempotency_key_key":
				return t, domain.ErrDuplicateIdempotencyKey
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const finalizeQuery = `
UPDATE transactions
SET status = $2, failure_reason = NULLIF($3, '')
WHERE id = $1 AND status = 'PENDING'
RETURNING ` + transactionColumns

// Finalize moves a pending transaction to its terminal status.
//
// The status guard in the query makes terminal statuses immutable.
func (r *RepoPGS) Finalize(ctx context.Context, id int64, status domain.TransactionStatus, failureReason string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, finalizeQuery, id, status, failureReason)

	t, err := scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Int64("transaction_id", id).Str("status", string(status)).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionFinalized
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE id = $1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Int64("transaction_id", id).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const findByIdempotencyKeyQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE idempotency_key = $1
`

// FindByIdempotencyKey returns the transaction previously recorded for the
// given idempotency key, or ErrTransactionNotFound when the key is new.
func (r *RepoPGS) FindByIdempotencyKey(ctx context.Context, key string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, findByIdempotencyKeyQuery, key)

	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Str("idempotency_key", key).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listByAccountQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE source_account_id = $1 OR destination_account_id = $1
ORDER BY currency, created_at DESC
`

// ListByAccount returns all transactions touching the given account,
// ordered by currency then by most recent first.
func (r *RepoPGS) ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	return r.list(ctx, listByAccountQuery, accountID)
}

const listByAccountAndCurrencyQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE (source_account_id = $1 OR destination_account_id = $1) AND currency = $2
ORDER BY currency, created_at DESC
`

// ListByAccountAndCurrency returns the account's transactions in the given currency.
func (r *RepoPGS) ListByAccountAndCurrency(ctx context.Context, accountID int64, currency string) ([]domain.Transaction, error) {
	return r.list(ctx, listByAccountAndCurrencyQuery, accountID, currency)
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...interface{}) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var (
			t             domain.Transaction
			failureReason sql.NullString
			key           sql.NullString
		)

		if err := rows.Scan(
			&t.ID,
			&t.TransferID,
			&t.SourceAccountID,
			&t.DestinationAccountID,
			&t.Amount,
			&t.Currency,
			&t.Status,
			&failureReason,
			&key,
			&t.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		t.FailureReason = failureReason.String
		t.IdempotencyKey = key.String

		items = append(items, t)
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
