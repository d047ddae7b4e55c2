// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/go-vlad/payment-transfer/internal/domain"
	"github.com/go-vlad/payment-transfer/pkg/dbpkg"
	"github.com/go-vlad/payment-transfer/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.AccountNumber,
		&a.OwnerName,
		&a.Balance,
		&a.Currency,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	return a, err
}

const createQuery = `
INSERT INTO
    accounts (account_number, owner_name, balance, currency)
VALUES
    ($1, $2, $3, $4)
RETURNING id, account_number, owner_name, balance, currency, created_at, updated_at
`

// Create creates the account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, accountNumber, ownerName, balance, currency string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, accountNumber, ownerName, balance, currency)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Str("account_number", accountNumber).Msg("account create failed")

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_account_number_key" {
				return a, domain.ErrAccountNumberExists
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	id, account_number, owner_name, balance, currency, created_at, updated_at
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, &domain.AccountNotFoundError{AccountID: id}
		}

		l.Error().Err(err).Int64("account_id", id).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getForUpdateQuery = `
SELECT
	id, account_number, owner_name, balance, currency, created_at, updated_at
FROM accounts
WHERE id = $1
FOR UPDATE
`

// GetForUpdate returns the account with the given id holding an exclusive row
// lock until the enclosing transaction ends.
func (r *RepoPGS) GetForUpdate(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getForUpdateQuery, id)

	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, &domain.AccountNotFoundError{AccountID: id}
		}

		l.Error().Err(err).Int64("account_id", id).Send()

		if dbpkg.IsConflictError(err) {
			return a, domain.ErrTransferConflict
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1, updated_at = now()
WHERE id = $2
RETURNING id, account_number, owner_name, balance, currency, created_at, updated_at
`

// AddBalance changes the account's balance and returns the changed account.
func (r *RepoPGS) AddBalance(ctx context.Context, amount string, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, amount, id)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Str("amount", amount).Int64("account_id", id).Send()

		if err == sql.ErrNoRows {
			return a, &domain.AccountNotFoundError{AccountID: id}
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, &domain.InsufficientFundsError{AccountID: id}
			}
		}

		if dbpkg.IsConflictError(err) {
			return a, domain.ErrTransferConflict
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listAccounts = `
SELECT
	id, account_number, owner_name, balance, currency, created_at, updated_at
FROM accounts
ORDER BY id
LIMIT $1 OFFSET $2
`

// List returns the specified number of accounts.
func (r *RepoPGS) List(ctx context.Context, limit, offset int32) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listAccounts, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.AccountNumber, &a.OwnerName, &a.Balance, &a.Currency, &a.CreatedAt, &a.UpdatedAt); err != nil {
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

const deleteQuery = `
DELETE FROM accounts
WHERE id = $1
`

// Delete removes the account with the given id.
func (r *RepoPGS) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, deleteQuery, id)
	return err
}
