//go:build integration

package auditrepo_test

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/go-vlad/payment-transfer/internal/auditrepo"
	"github.com/go-vlad/payment-transfer/internal/domain"
	"github.com/go-vlad/payment-transfer/internal/integrationtest"
	"github.com/go-vlad/payment-transfer/internal/integrationtest/helpers"
	"github.com/go-vlad/payment-transfer/internal/middleware"
	"github.com/go-vlad/payment-transfer/pkg/configpkg"
	"github.com/go-vlad/payment-transfer/pkg/currencypkg"
	"github.com/google/uuid"
)

var (
	dbDriver string
	dbSource string
	ctx      context.Context
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	logger := middleware.CreateLogger(config)
	ctx = logger.WithContext(context.Background())

	os.Exit(m.Run())
}

func seedAuditFixture(t *testing.T, tx *sql.Tx) (domain.Account, domain.Transaction) {
	t.Helper()

	source := helpers.SeedAccount(t, tx, "1000.00", currencypkg.USD)
	destination := helpers.SeedAccount(t, tx, "1000.00", currencypkg.USD)

	txn := helpers.SeedTransaction(t, tx, domain.CreateTransactionParams{
		TransferID:           uuid.NewString(),
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               "100.00",
		Currency:             currencypkg.USD,
		Status:               domain.StatusCompleted,
	})

	return source, txn
}

func TestCreate(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	account, txn := seedAuditFixture(t, tx)
	auditRepo := auditrepo.NewRepoPGS(tx)

	arg := domain.CreateAuditParams{
		AccountID:     account.ID,
		BeforeBalance: "1000.00",
		AfterBalance:  "900.00",
		Currency:      currencypkg.USD,
		TransactionID: txn.ID,
	}

	got, err := auditRepo.Create(ctx, arg)
	if err != nil {
		t.Fatalf("auditRepo.Create(ctx, %+v) returned error: %v", arg, err)
	}

	if got.ID == 0 {
		t.Error("got.ID = 0, want non-zero")
	}

	if got.BeforeBalance != arg.BeforeBalance || got.AfterBalance != arg.AfterBalance {
		t.Errorf("got balances = %v -> %v, want %v -> %v",
			got.BeforeBalance, got.AfterBalance, arg.BeforeBalance, arg.AfterBalance)
	}
}

func TestListByAccount(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	account, txn := seedAuditFixture(t, tx)
	auditRepo := auditrepo.NewRepoPGS(tx)

	const auditsCount = 3
	for i := 0; i < auditsCount; i++ {
		if _, err := auditRepo.Create(ctx, domain.CreateAuditParams{
			AccountID:     account.ID,
			BeforeBalance: "1000.00",
			AfterBalance:  "900.00",
			Currency:      currencypkg.USD,
			TransactionID: txn.ID,
		}); err != nil {
			t.Fatalf("auditRepo.Create() returned error: %v", err)
		}
	}

	got, err := auditRepo.ListByAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("auditRepo.ListByAccount(ctx, %v) returned error: %v", account.ID, err)
	}

	if len(got) != auditsCount {
		t.Errorf("len(got) = %v, want %v", len(got), auditsCount)
	}

	gotUSD, err := auditRepo.ListByAccountAndCurrency(ctx, account.ID, currencypkg.USD)
	if err != nil {
		t.Fatalf("auditRepo.ListByAccountAndCurrency(ctx, %v, USD) returned error: %v", account.ID, err)
	}

	if len(gotUSD) != auditsCount {
		t.Errorf("len(gotUSD) = %v, want %v", len(gotUSD), auditsCount)
	}

	gotEUR, err := auditRepo.ListByAccountAndCurrency(ctx, account.ID, currencypkg.EUR)
	if err != nil {
		t.Fatalf("auditRepo.ListByAccountAndCurrency(ctx, %v, EUR) returned error: %v", account.ID, err)
	}

	if len(gotEUR) != 0 {
		t.Errorf("len(gotEUR) = %v, want 0", len(gotEUR))
	}
}

func TestListByTransaction(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	account, txn := seedAuditFixture(t, tx)
	auditRepo := auditrepo.NewRepoPGS(tx)

	first, err := auditRepo.Create(ctx, domain.CreateAuditParams{
		AccountID:     account.ID,
		BeforeBalance: "1000.00",
		AfterBalance:  "900.00",
		Currency:      currencypkg.USD,
		TransactionID: txn.ID,
	})
	if err != nil {
		t.Fatalf("auditRepo.Create() returned error: %v", err)
	}

	second, err := auditRepo.Create(ctx, domain.CreateAuditParams{
		AccountID:     txn.DestinationAccountID,
		BeforeBalance: "1000.00",
		AfterBalance:  "1100.00",
		Currency:      currencypkg.USD,
		TransactionID: txn.ID,
	})
	if err != nil {
		t.Fatalf("auditRepo.Create() returned error: %v", err)
	}

	got, err := auditRepo.ListByTransaction(ctx, txn.ID)
	if err != nil {
		t.Fatalf("auditRepo.ListByTransaction(ctx, %v) returned error: %v", txn.ID, err)
	}

	if len(got) != 2 {
		t.Fatalf("len(got) = %v, want 2", len(got))
	}

	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Errorf("got IDs = %v, %v, want %v, %v in insertion order",
			got[0].ID, got[1].ID, first.ID, second.ID)
	}
}
