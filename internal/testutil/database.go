// Package testutil provides test helpers: an in-memory migrated database
// and seeding shortcuts for the domain records.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/fmeinberg/kontor/internal/model"
	"github.com/fmeinberg/kontor/internal/service"
	"github.com/fmeinberg/kontor/internal/storage"
)

// TestDB wraps a migrated in-memory database for tests.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a new in-memory database, runs migrations, and
// registers cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SeedAsset inserts an asset and returns it with its ID set.
func (db *TestDB) SeedAsset(ctx context.Context, asset model.Asset) model.Asset {
	db.t.Helper()
	if err := db.Storage.CreateAsset(ctx, &asset); err != nil {
		db.t.Fatalf("failed to seed asset: %v", err)
	}
	return asset
}

// SeedIncome inserts an income record with amounts derived from its net.
func (db *TestDB) SeedIncome(ctx context.Context, rec model.IncomeRecord) model.IncomeRecord {
	db.t.Helper()
	rec.ComputeAmounts()
	if err := db.Storage.CreateIncome(ctx, &rec); err != nil {
		db.t.Fatalf("failed to seed income record: %v", err)
	}
	return rec
}

// SeedExpense inserts an expense record with amounts derived from its net.
func (db *TestDB) SeedExpense(ctx context.Context, rec model.ExpenseRecord) model.ExpenseRecord {
	db.t.Helper()
	rec.ComputeAmounts()
	if err := db.Storage.CreateExpense(ctx, &rec); err != nil {
		db.t.Fatalf("failed to seed expense record: %v", err)
	}
	return rec
}

// SeedInvoice inserts an invoice and returns it with its ID set.
func (db *TestDB) SeedInvoice(ctx context.Context, inv model.Invoice) model.Invoice {
	db.t.Helper()
	if err := db.Storage.CreateInvoice(ctx, &inv); err != nil {
		db.t.Fatalf("failed to seed invoice: %v", err)
	}
	return inv
}

// SeedTransactions inserts bank transactions, generating hashes where
// missing.
func (db *TestDB) SeedTransactions(ctx context.Context, txns []model.BankTransaction) {
	db.t.Helper()
	for i := range txns {
		if txns[i].Hash == "" {
			txns[i].Hash = txns[i].GenerateHash()
		}
		if txns[i].Status == "" {
			txns[i].Status = model.StatusUnmatched
		}
	}
	if err := db.Storage.SaveBankTransactions(ctx, txns); err != nil {
		db.t.Fatalf("failed to seed bank transactions: %v", err)
	}
}

// Date is shorthand for a UTC midnight timestamp in tests.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
