// Package helpers seeds the database with test entities.
package helpers

import (
	"context"
	"testing"

	"github.com/go-vlad/payment-transfer/internal/accountrepo"
	"github.com/go-vlad/payment-transfer/internal/domain"
	"github.com/go-vlad/payment-transfer/internal/transactionrepo"
	"github.com/go-vlad/payment-transfer/pkg/dbpkg"
	"github.com/go-vlad/payment-transfer/pkg/randompkg"
)

// RandomAccount returns an account with random fields for the given currency.
func RandomAccount(currency string) domain.Account {
	return domain.Account{
		AccountNumber: randompkg.AccountNumber(),
		OwnerName:     randompkg.Owner(),
		Balance:       randompkg.MoneyAmountBetween(1000, 10000),
		Currency:      currency,
	}
}

// SeedAccount persists an account with random owner and number.
func SeedAccount(t *testing.T, db dbpkg.SQLInterface, balance, currency string) domain.Account {
	t.Helper()

	repo := accountrepo.NewRepoPGS(db)

	account, err := repo.Create(context.Background(),
		randompkg.AccountNumber(), randompkg.Owner(), balance, currency)
	if err != nil {
		t.Fatalf("repo.Create(ctx, accountNumber, ownerName, %v, %v) returned error: %v",
			balance, currency, err)
	}

	return account
}

// SeedAccountWith persists the given account.
func SeedAccountWith(t *testing.T, db dbpkg.SQLInterface, account domain.Account) domain.Account {
	t.Helper()

	repo := accountrepo.NewRepoPGS(db)

	created, err := repo.Create(context.Background(),
		account.AccountNumber, account.OwnerName, account.Balance, account.Currency)
	if err != nil {
		t.Fatalf("repo.Create(ctx, %+v) returned error: %v", account, err)
	}

	return created
}

// SeedTransaction persists a transaction record.
func SeedTransaction(t *testing.T, db dbpkg.SQLInterface, arg domain.CreateTransactionParams) domain.Transaction {
	t.Helper()

	repo := transactionrepo.NewRepoPGS(db)

	txn, err := repo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("repo.Create(ctx, %+v) returned error: %v", arg, err)
	}

	return txn
}
