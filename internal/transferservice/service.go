// Package transferservice manages business logic layer of transfers.
package transferservice

import (
	"context"
	"errors"

	"github.com/go-vlad/payment-transfer/internal/accountdelivery"
	"github.com/go-vlad/payment-transfer/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	FindByIdempotencyKey(ctx context.Context, key string) (domain.Transaction, error)
	PerformTransfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error)
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo           Repo
	accountService accountdelivery.Service
}

// New return transfer service struct to manage transfer bussines logic.
func New(tr Repo, as accountdelivery.Service) *Service {
	return &Service{
		repo:           tr,
		accountService: as,
	}
}

// Transfer executes a transfer request exactly once per idempotency key.
//
// A replayed key returns the recorded outcome of the original attempt,
// successful or failed, without re-validating or mutating anything.
func (s *Service) Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferResult, error) {
	l := zerolog.Ctx(ctx)

	l.Info().
		Int64("source_account_id", arg.SourceAccountID).
		Int64("destination_account_id", arg.DestinationAccountID).
		Str("amount", arg.Amount).
		Str("idempotency_key", arg.IdempotencyKey).
		Msg("starting transfer")

	if arg.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, arg.IdempotencyKey)

		switch {
		case err == nil:
			l.Warn().Str("idempotency_key", arg.IdempotencyKey).Msg("duplicate transfer request")
			return s.replayResult(ctx, existing)
		case !errors.Is(err, domain.ErrTransactionNotFound):
			return domain.TransferResult{}, err
		}
	}

	if err := validRequest(ctx, arg); err != nil {
		return domain.TransferResult{}, err
	}

	txResult, err := s.repo.PerformTransfer(ctx, arg)
	if err != nil {
		return domain.TransferResult{}, err
	}

	l.Info().Str("transfer_id", txResult.Transaction.TransferID).Msg("transfer completed")

	return domain.TransferResult{
		TransferID: txResult.Transaction.TransferID,
		Status:     domain.StatusCompleted,
		Message:    "Transfer completed successfully",
		Details: domain.TransferDetails{
			SourceAccountID:          txResult.SourceAccount.ID,
			SourceAccountNumber:      txResult.SourceAccount.AccountNumber,
			DestinationAccountID:     txResult.DestinationAccount.ID,
			DestinationAccountNumber: txResult.DestinationAccount.AccountNumber,
			Amount:                   txResult.Transaction.Amount,
			Currency:                 txResult.Transaction.Currency,
			Timestamp:                txResult.Transaction.CreatedAt,
		},
	}, nil
}

func validRequest(ctx context.Context, arg domain.CreateTransferParams) error {
	l := zerolog.Ctx(ctx)

	if arg.SourceAccountID == arg.DestinationAccountID {
		err := &domain.InvalidTransferError{Reason: "cannot transfer to the same account"}
		l.Info().Err(err).Int64("account_id", arg.SourceAccountID).Send()

		return err
	}

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		invalid := &domain.InvalidTransferError{Reason: "invalid transfer amount"}
		l.Info().Err(err).Str("amount", arg.Amount).Send()

		return invalid
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		err := &domain.InvalidTransferError{Reason: "transfer amount must be greater than zero"}
		l.Info().Err(err).Str("amount", arg.Amount).Send()

		return err
	}

	return nil
}

func (s *Service) replayResult(ctx context.Context, txn domain.Transaction) (domain.TransferResult, error) {
	source, err := s.accountService.Get(ctx, txn.SourceAccountID)
	if err != nil {
		return domain.TransferResult{}, err
	}

	destination, err := s.accountService.Get(ctx, txn.DestinationAccountID)
	if err != nil {
		return domain.TransferResult{}, err
	}

	message := "Transfer already processed"
	if txn.Status == domain.StatusFailed {
		message = "Transfer previously failed"
	}

	return domain.TransferResult{
		TransferID: txn.TransferID,
		Status:     txn.Status,
		Message:    message,
		Details: domain.TransferDetails{
			SourceAccountID:          source.ID,
			SourceAccountNumber:      source.AccountNumber,
			DestinationAccountID:     destination.ID,
			DestinationAccountNumber: destination.AccountNumber,
			Amount:                   txn.Amount,
			Currency:                 txn.Currency,
			Timestamp:                txn.CreatedAt,
			FailureReason:            txn.FailureReason,
		},
	}, nil
}
