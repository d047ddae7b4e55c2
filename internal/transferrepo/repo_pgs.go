// Package transferrepo implements the atomic transfer unit between two accounts.
package transferrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-vlad/payment-transfer/internal/accountrepo"
	"github.com/go-vlad/payment-transfer/internal/auditrepo"
	"github.com/go-vlad/payment-transfer/internal/domain"
	"github.com/go-vlad/payment-transfer/internal/idempotencyrepo"
	"github.com/go-vlad/payment-transfer/internal/transactionrepo"
	"github.com/go-vlad/payment-transfer/pkg/dbpkg"
	"github.com/go-vlad/payment-transfer/pkg/errorspkg"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const internalFailureReason = "internal error during transfer"

// RepoPGS facilitates transfer repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns transfer RepoPGS bound to an existing transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns transfer RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

// FindByIdempotencyKey returns the transaction previously recorded for the key.
func (r *RepoPGS) FindByIdempotencyKey(ctx context.Context, key string) (domain.Transaction, error) {
	return transactionrepo.NewRepoPGS(r.db).FindByIdempotencyKey(ctx, key)
}

// PerformTransfer moves money between two accounts exactly once.
//
// It locks both accounts, creates the transaction record, checks funds,
// applies the paired debit and credit, writes one audit row per account and
// the idempotency marker, all within a single serializable transaction.
// Locks are always acquired in ascending account id order, independent of
// transfer direction, so two opposite transfers between the same pair of
// accounts cannot deadlock.
func (r *RepoPGS) PerformTransfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransferTxResult

	tx, err := r.conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)
	transactionRepo := transactionrepo.NewRepoPGS(tx)
	auditRepo := auditrepo.NewRepoPGS(tx)
	idempotencyRepo := idempotencyrepo.NewRepoPGS(tx)

	firstID, secondID := arg.SourceAccountID, arg.DestinationAccountID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := accountRepo.GetForUpdate(ctx, firstID)
	if err != nil {
		return result, err
	}

	second, err := accountRepo.GetForUpdate(ctx, secondID)
	if err != nil {
		return result, err
	}

	source, destination := first, second
	if arg.SourceAccountID != firstID {
		source, destination = second, first
	}

	transferID := uuid.NewString()

	pending, err := transactionRepo.Create(ctx, domain.CreateTransactionParams{
		TransferID:           transferID,
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               arg.Amount,
		Currency:             source.Currency,
		Status:               domain.StatusPending,
		IdempotencyKey:       arg.IdempotencyKey,
	})
	if err != nil {
		return result, err
	}

	sourceBalance, err := decimal.NewFromString(source.Balance)
	if err != nil {
		l.Error().Err(err).Int64("account_id", source.ID).Send()
		return result, errorspkg.ErrInternal
	}

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Error().Err(err).Str("amount", arg.Amount).Send()
		return result, errorspkg.ErrInternal
	}

	if sourceBalance.LessThan(amount) {
		insufficient := &domain.InsufficientFundsError{
			AccountID: source.ID,
			Required:  arg.Amount,
			Available: source.Balance,
		}

		l.Info().
			Int64("source_account_id", source.ID).
			Str("amount", arg.Amount).
			Str("idempotency_key", arg.IdempotencyKey).
			Msg("transfer failed: insufficient funds")

		// Nothing but bookkeeping has been written yet, so committing the
		// FAILED record keeps the failure trail durable.
		if _, err := transactionRepo.Finalize(ctx, pending.ID, domain.StatusFailed, insufficient.Error()); err != nil {
			return result, err
		}

		if err := tx.Commit(); err != nil {
			l.Error().Err(err).Send()
			return result, errorspkg.ErrInternal
		}

		return result, insufficient
	}

	updatedSource, err := accountRepo.AddBalance(ctx, "-"+arg.Amount, source.ID)
	if err != nil {
		return result, r.failAfterMutation(ctx, tx, arg, transferID, source.ID, destination.ID, source.Currency, err)
	}

	updatedDestination, err := accountRepo.AddBalance(ctx, arg.Amount, destination.ID)
	if err != nil {
		return result, r.failAfterMutation(ctx, tx, arg, transferID, source.ID, destination.ID, source.Currency, err)
	}

	completed, err := transactionRepo.Finalize(ctx, pending.ID, domain.StatusCompleted, "")
	if err != nil {
		return result, r.failAfterMutation(ctx, tx, arg, transferID, source.ID, destination.ID, source.Currency, err)
	}

	sourceAudit, err := auditRepo.Create(ctx, domain.CreateAuditParams{
		AccountID:     source.ID,
		BeforeBalance: source.Balance,
		AfterBalance:  updatedSource.Balance,
		Currency:      source.Currency,
		TransactionID: completed.ID,
	})
	if err != nil {
		return result, r.failAfterMutation(ctx, tx, arg, transferID, source.ID, destination.ID, source.Currency, err)
	}

	destinationAudit, err := auditRepo.Create(ctx, domain.CreateAuditParams{
		AccountID:     destination.ID,
		BeforeBalance: destination.Balance,
		AfterBalance:  updatedDestination.Balance,
		Currency:      destination.Currency,
		TransactionID: completed.ID,
	})
	if err != nil {
		return result, r.failAfterMutation(ctx, tx, arg, transferID, source.ID, destination.ID, source.Currency, err)
	}

	if arg.IdempotencyKey != "" {
		if _, err := idempotencyRepo.Create(ctx, arg.IdempotencyKey); err != nil {
			return result, r.failAfterMutation(ctx, tx, arg, transferID, source.ID, destination.ID, source.Currency, err)
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Str("transfer_id", transferID).Send()

		if dbpkg.IsConflictError(err) {
			return result, domain.ErrTransferConflict
		}

		return result, errorspkg.ErrInternal
	}

	result = domain.TransferTxResult{
		Transaction:        completed,
		SourceAccount:      updatedSource,
		DestinationAccount: updatedDestination,
		SourceAudit:        sourceAudit,
		DestinationAudit:   destinationAudit,
	}

	return result, nil
}

// failAfterMutation handles an unexpected error once balances may have been
// touched. It rolls the enclosing transaction back, discarding every write of
// the attempt, then inserts a fresh FAILED record outside of it so the
// failure stays durable. The rollback must complete first: until it does, the
// aborted attempt's PENDING row still occupies the idempotency key's unique
// index entry and the new insert would block on it. Retryable conflicts leave
// no record since the attempt may legitimately run again.
func (r *RepoPGS) failAfterMutation(ctx context.Context, tx *sql.Tx, arg domain.CreateTransferParams,
	transferID string, sourceID, destinationID int64, currency string, cause error) error {
	l := zerolog.Ctx(ctx)

	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		l.Error().Err(err).Str("transfer_id", transferID).Send()
	}

	l.Error().Err(cause).
		Str("transfer_id", transferID).
		Int64("source_account_id", sourceID).
		Int64("destination_account_id", destinationID).
		Str("amount", arg.Amount).
		Str("idempotency_key", arg.IdempotencyKey).
		Msg("unexpected error during transfer")

	if errors.Is(cause, domain.ErrTransferConflict) {
		return domain.ErrTransferConflict
	}

	transactionRepo := transactionrepo.NewRepoPGS(r.conn)

	_, err := transactionRepo.Create(ctx, domain.CreateTransactionParams{
		TransferID:           transferID,
		SourceAccountID:      sourceID,
		DestinationAccountID: destinationID,
		Amount:               arg.Amount,
		Currency:             currency,
		Status:               domain.StatusFailed,
		FailureReason:        internalFailureReason,
		IdempotencyKey:       arg.IdempotencyKey,
	})
	if err != nil {
		l.Error().Err(err).Str("transfer_id", transferID).Msg("recording failed transfer")
	}

	return errorspkg.ErrInternal
}
