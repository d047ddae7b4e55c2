//go:build integration

package transferrepo_test

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/go-vlad/payment-transfer/internal/accountrepo"
	"github.com/go-vlad/payment-transfer/internal/auditrepo"
	"github.com/go-vlad/payment-transfer/internal/domain"
	"github.com/go-vlad/payment-transfer/internal/integrationtest"
	"github.com/go-vlad/payment-transfer/internal/integrationtest/helpers"
	"github.com/go-vlad/payment-transfer/internal/middleware"
	"github.com/go-vlad/payment-transfer/internal/transferrepo"
	"github.com/go-vlad/payment-transfer/pkg/configpkg"
	"github.com/go-vlad/payment-transfer/pkg/currencypkg"
	"github.com/go-vlad/payment-transfer/pkg/randompkg"
	"github.com/shopspring/decimal"
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

// performWithRetry retries serialization conflicts, which are expected
// under concurrent load.
func performWithRetry(t *testing.T, repo *transferrepo.RepoPGS, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
	t.Helper()

	for {
		result, err := repo.PerformTransfer(ctx, arg)
		if errors.Is(err, domain.ErrTransferConflict) {
			continue
		}

		return result, err
	}
}

func TestPerformTransfer(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	transferRepo := transferrepo.NewRepoPGS(db)

	source := helpers.SeedAccount(t, db, "200.00", currencypkg.EUR)
	destination := helpers.SeedAccount(t, db, "50.00", currencypkg.EUR)
	key := randompkg.IdempotencyKey()

	arg := domain.CreateTransferParams{
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               "100.00",
		IdempotencyKey:       key,
	}

	got, err := transferRepo.PerformTransfer(ctx, arg)
	if err != nil {
		t.Fatalf("transferRepo.PerformTransfer(ctx, %+v) returned error: %v", arg, err)
	}

	if got.Transaction.Status != domain.StatusCompleted {
		t.Errorf("got.Transaction.Status = %v, want %v", got.Transaction.Status, domain.StatusCompleted)
	}

	if got.Transaction.TransferID == "" {
		t.Error("got.Transaction.TransferID is empty")
	}

	if got.SourceAccount.Balance != "100.00" {
		t.Errorf("got.SourceAccount.Balance = %v, want 100.00", got.SourceAccount.Balance)
	}

	if got.DestinationAccount.Balance != "150.00" {
		t.Errorf("got.DestinationAccount.Balance = %v, want 150.00", got.DestinationAccount.Balance)
	}

	if got.SourceAudit.BeforeBalance != "200.00" || got.SourceAudit.AfterBalance != "100.00" {
		t.Errorf("got.SourceAudit = %v -> %v, want 200.00 -> 100.00",
			got.SourceAudit.BeforeBalance, got.SourceAudit.AfterBalance)
	}

	if got.DestinationAudit.BeforeBalance != "50.00" || got.DestinationAudit.AfterBalance != "150.00" {
		t.Errorf("got.DestinationAudit = %v -> %v, want 50.00 -> 150.00",
			got.DestinationAudit.BeforeBalance, got.DestinationAudit.AfterBalance)
	}

	auditRepo := auditrepo.NewRepoPGS(db)

	audits, err := auditRepo.ListByTransaction(ctx, got.Transaction.ID)
	if err != nil {
		t.Fatalf("auditRepo.ListByTransaction(ctx, %v) returned error: %v", got.Transaction.ID, err)
	}

	if len(audits) != 2 {
		t.Errorf("len(audits) = %v, want exactly 2", len(audits))
	}

	replayed, err := transferRepo.FindByIdempotencyKey(ctx, key)
	if err != nil {
		t.Fatalf("transferRepo.FindByIdempotencyKey(ctx, %v) returned error: %v", key, err)
	}

	if replayed.ID != got.Transaction.ID {
		t.Errorf("replayed.ID = %v, want %v", replayed.ID, got.Transaction.ID)
	}
}

func TestPerformTransferInsufficientFunds(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	transferRepo := transferrepo.NewRepoPGS(db)

	source := helpers.SeedAccount(t, db, "50.00", currencypkg.USD)
	destination := helpers.SeedAccount(t, db, "50.00", currencypkg.USD)
	key := randompkg.IdempotencyKey()

	arg := domain.CreateTransferParams{
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               "100.00",
		IdempotencyKey:       key,
	}

	_, err := transferRepo.PerformTransfer(ctx, arg)

	var insufficient *domain.InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("transferRepo.PerformTransfer(ctx, %+v) returned error %v, want InsufficientFundsError", arg, err)
	}

	if insufficient.AccountID != source.ID {
		t.Errorf("insufficient.AccountID = %v, want %v", insufficient.AccountID, source.ID)
	}

	// The failure is durable and replayable by key.
	failed, err := transferRepo.FindByIdempotencyKey(ctx, key)
	if err != nil {
		t.Fatalf("transferRepo.FindByIdempotencyKey(ctx, %v) returned error: %v", key, err)
	}

	if failed.Status != domain.StatusFailed {
		t.Errorf("failed.Status = %v, want %v", failed.Status, domain.StatusFailed)
	}

	if failed.FailureReason == "" {
		t.Error("failed.FailureReason is empty")
	}

	// Balances are untouched.
	accountRepo := accountrepo.NewRepoPGS(db)

	for _, want := range []domain.Account{source, destination} {
		got, err := accountRepo.Get(ctx, want.ID)
		if err != nil {
			t.Fatalf("accountRepo.Get(ctx, %v) returned error: %v", want.ID, err)
		}

		if got.Balance != want.Balance {
			t.Errorf("account %v balance = %v, want %v", want.ID, got.Balance, want.Balance)
		}
	}
}

func TestPerformTransferDuplicateKey(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	transferRepo := transferrepo.NewRepoPGS(db)

	source := helpers.SeedAccount(t, db, "1000.00", currencypkg.USD)
	destination := helpers.SeedAccount(t, db, "1000.00", currencypkg.USD)

	arg := domain.CreateTransferParams{
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               "100.00",
		IdempotencyKey:       randompkg.IdempotencyKey(),
	}

	if _, err := transferRepo.PerformTransfer(ctx, arg); err != nil {
		t.Fatalf("transferRepo.PerformTransfer(ctx, %+v) returned error: %v", arg, err)
	}

	if _, err := transferRepo.PerformTransfer(ctx, arg); !errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
		t.Fatalf("transferRepo.PerformTransfer(ctx, %+v) returned error %v, want %v",
			arg, err, domain.ErrDuplicateIdempotencyKey)
	}

	// The money moved exactly once.
	accountRepo := accountrepo.NewRepoPGS(db)

	got, err := accountRepo.Get(ctx, source.ID)
	if err != nil {
		t.Fatalf("accountRepo.Get(ctx, %v) returned error: %v", source.ID, err)
	}

	if got.Balance != "900.00" {
		t.Errorf("source balance = %v, want 900.00", got.Balance)
	}
}

func TestPerformTransferConcurrent(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	transferRepo := transferrepo.NewRepoPGS(db)

	source := helpers.SeedAccount(t, db, "1000.00", currencypkg.USD)
	destination := helpers.SeedAccount(t, db, "1000.00", currencypkg.USD)

	const (
		transfersCount = 10
		amount         = "10.00"
	)

	errs := make(chan error, transfersCount)

	var wg sync.WaitGroup
	for i := 0; i < transfersCount; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := performWithRetry(t, transferRepo, domain.CreateTransferParams{
				SourceAccountID:      source.ID,
				DestinationAccountID: destination.ID,
				Amount:               amount,
			})
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("transferRepo.PerformTransfer() returned error: %v", err)
		}
	}

	accountRepo := accountrepo.NewRepoPGS(db)

	gotSource, err := accountRepo.Get(ctx, source.ID)
	if err != nil {
		t.Fatalf("accountRepo.Get(ctx, %v) returned error: %v", source.ID, err)
	}

	gotDestination, err := accountRepo.Get(ctx, destination.ID)
	if err != nil {
		t.Fatalf("accountRepo.Get(ctx, %v) returned error: %v", destination.ID, err)
	}

	moved := decimal.RequireFromString(amount).Mul(decimal.NewFromInt(transfersCount))
	wantSource := decimal.RequireFromString("1000.00").Sub(moved)
	wantDestination := decimal.RequireFromString("1000.00").Add(moved)

	if gotSource.Balance != wantSource.StringFixed(2) {
		t.Errorf("source balance = %v, want %v", gotSource.Balance, wantSource.StringFixed(2))
	}

	if gotDestination.Balance != wantDestination.StringFixed(2) {
		t.Errorf("destination balance = %v, want %v", gotDestination.Balance, wantDestination.StringFixed(2))
	}
}

func TestPerformTransferDisjointPairs(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	transferRepo := transferrepo.NewRepoPGS(db)

	const pairsCount = 4

	type pair struct {
		source      domain.Account
		destination domain.Account
	}

	pairs := make([]pair, pairsCount)
	for i := range pairs {
		pairs[i] = pair{
			source:      helpers.SeedAccount(t, db, "500.00", currencypkg.USD),
			destination: helpers.SeedAccount(t, db, "500.00", currencypkg.USD),
		}
	}

	errs := make(chan error, pairsCount)

	var wg sync.WaitGroup
	for i := range pairs {
		wg.Add(1)

		go func(p pair) {
			defer wg.Done()

			_, err := performWithRetry(t, transferRepo, domain.CreateTransferParams{
				SourceAccountID:      p.source.ID,
				DestinationAccountID: p.destination.ID,
				Amount:               "25.00",
			})
			errs <- err
		}(pairs[i])
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("transferRepo.PerformTransfer() returned error: %v", err)
		}
	}

	accountRepo := accountrepo.NewRepoPGS(db)

	for _, p := range pairs {
		gotSource, err := accountRepo.Get(ctx, p.source.ID)
		if err != nil {
			t.Fatalf("accountRepo.Get(ctx, %v) returned error: %v", p.source.ID, err)
		}

		gotDestination, err := accountRepo.Get(ctx, p.destination.ID)
		if err != nil {
			t.Fatalf("accountRepo.Get(ctx, %v) returned error: %v", p.destination.ID, err)
		}

		if gotSource.Balance != "475.00" || gotDestination.Balance != "525.00" {
			t.Errorf("pair (%v, %v) balances = (%v, %v), want (475.00, 525.00)",
				p.source.ID, p.destination.ID, gotSource.Balance, gotDestination.Balance)
		}
	}
}

// Opposite direction transfers between the same pair of accounts must not
// deadlock thanks to the ascending lock order.
func TestPerformTransferOppositeDirections(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	transferRepo := transferrepo.NewRepoPGS(db)

	account1 := helpers.SeedAccount(t, db, "1000.00", currencypkg.USD)
	account2 := helpers.SeedAccount(t, db, "1000.00", currencypkg.USD)

	const roundsCount = 5

	errs := make(chan error, roundsCount*2)

	var wg sync.WaitGroup
	for i := 0; i < roundsCount; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()

			_, err := performWithRetry(t, transferRepo, domain.CreateTransferParams{
				SourceAccountID:      account1.ID,
				DestinationAccountID: account2.ID,
				Amount:               "10.00",
			})
			errs <- err
		}()

		go func() {
			defer wg.Done()

			_, err := performWithRetry(t, transferRepo, domain.CreateTransferParams{
				SourceAccountID:      account2.ID,
				DestinationAccountID: account1.ID,
				Amount:               "10.00",
			})
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("transferRepo.PerformTransfer() returned error: %v", err)
		}
	}

	accountRepo := accountrepo.NewRepoPGS(db)

	for _, id := range []int64{account1.ID, account2.ID} {
		got, err := accountRepo.Get(ctx, id)
		if err != nil {
			t.Fatalf("accountRepo.Get(ctx, %v) returned error: %v", id, err)
		}

		if got.Balance != "1000.00" {
			t.Errorf("account %v balance = %v, want 1000.00", id, got.Balance)
		}
	}
}
