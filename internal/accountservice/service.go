// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/go-vlad/payment-transfer/internal/domain"
	"github.com/go-vlad/payment-transfer/pkg/currencypkg"
	"github.com/go-vlad/payment-transfer/pkg/randompkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, accountNumber, ownerName, balance, currency string) (domain.Account, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	List(ctx context.Context, limit, offset int32) ([]domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Create provisions an account with a generated account number and the
// given opening balance.
func (s *Service) Create(ctx context.Context, ownerName, balance, currency string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	if !currencypkg.IsSupportedCurrency(currency) {
		l.Info().Str("currency", currency).Msg("unsupported currency")
		return domain.Account{}, domain.ErrCurrencyNotSupported
	}

	opening, err := decimal.NewFromString(balance)
	if err != nil || opening.IsNegative() {
		l.Info().Str("balance", balance).Msg("invalid opening balance")
		return domain.Account{}, domain.ErrInvalidOpeningBalance
	}

	account, err := s.repo.Create(ctx, randompkg.AccountNumber(), ownerName, opening.StringFixed(2), currency)
	if err != nil {
		return account, err
	}

	return account, nil
}

// Get returns account for the given account ID.
func (s *Service) Get(ctx context.Context, id int64) (domain.Account, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return account, err
	}

	return account, nil
}

// List returns the requested page of accounts.
func (s *Service) List(ctx context.Context, pageSize, pageID int32) ([]domain.Account, error) {
	limit := pageSize
	offset := (pageID - 1) * pageSize

	accounts, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return accounts, err
}
