// Package reportservice manages business logic layer of account reports.
package reportservice

import (
	"context"

	"github.com/go-vlad/payment-transfer/internal/domain"
)

// TransactionRepo provides transaction reads needed by the report service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package reportservice
type TransactionRepo interface {
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error)
	ListByAccountAndCurrency(ctx context.Context, accountID int64, currency string) ([]domain.Transaction, error)
}

// AuditRepo provides balance audit reads needed by the report service layer.
type AuditRepo interface {
	ListByAccount(ctx context.Context, accountID int64) ([]domain.BalanceAudit, error)
	ListByAccountAndCurrency(ctx context.Context, accountID int64, currency string) ([]domain.BalanceAudit, error)
}

// AccountGetter checks account existence before building a report.
type AccountGetter interface {
	Get(ctx context.Context, id int64) (domain.Account, error)
}

// Service facilitates report service layer logic.
type Service struct {
	transactionRepo TransactionRepo
	auditRepo       AuditRepo
	accountService  AccountGetter
}

// New returns report service struct to manage report bussines logic.
func New(tr TransactionRepo, ar AuditRepo, as AccountGetter) *Service {
	return &Service{
		transactionRepo: tr,
		auditRepo:       ar,
		accountService:  as,
	}
}

// TransactionsByCurrency returns the account transaction history for one currency,
// newest first.
func (s *Service) TransactionsByCurrency(ctx context.Context, accountID int64, currency string) ([]domain.Transaction, error) {
	if _, err := s.accountService.Get(ctx, accountID); err != nil {
		return nil, err
	}

	return s.transactionRepo.ListByAccountAndCurrency(ctx, accountID, currency)
}

// AllTransactions returns the account transaction history grouped by currency.
func (s *Service) AllTransactions(ctx context.Context, accountID int64) (map[string][]domain.Transaction, error) {
	if _, err := s.accountService.Get(ctx, accountID); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]domain.Transaction)
	for _, txn := range transactions {
		grouped[txn.Currency] = append(grouped[txn.Currency], txn)
	}

	return grouped, nil
}

// AuditsByCurrency returns the account balance audit trail for one currency.
func (s *Service) AuditsByCurrency(ctx context.Context, accountID int64, currency string) ([]domain.BalanceAudit, error) {
	if _, err := s.accountService.Get(ctx, accountID); err != nil {
		return nil, err
	}

	return s.auditRepo.ListByAccountAndCurrency(ctx, accountID, currency)
}

// AllAudits returns the account balance audit trail grouped by currency.
func (s *Service) AllAudits(ctx context.Context, accountID int64) (map[string][]domain.BalanceAudit, error) {
	if _, err := s.accountService.Get(ctx, accountID); err != nil {
		return nil, err
	}

	audits, err := s.auditRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]domain.BalanceAudit)
	for _, audit := range audits {
		grouped[audit.Currency] = append(grouped[audit.Currency], audit)
	}

	return grouped, nil
}
