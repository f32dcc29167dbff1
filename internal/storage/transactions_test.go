package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fmeinberg/kontor/internal/common"
	"github.com/fmeinberg/kontor/internal/model"
)

func makeTestTransaction(id string, amount float64) model.BankTransaction {
	txn := model.BankTransaction{
		ID:              id,
		Date:            testDate(2024, time.March, 10),
		Amount:          amount,
		CounterpartName: "Acme GmbH",
		CounterpartIBAN: "DE02120300000000202051",
		Purpose:         "RG 2024-001",
		Status:          model.StatusUnmatched,
	}
	txn.Hash = txn.GenerateHash()
	return txn
}

func TestBankTransaction_GenerateHash(t *testing.T) {
	a := makeTestTransaction("txn-1", 1190)
	b := makeTestTransaction("txn-2", 1190)
	if a.Hash != b.Hash {
		t.Error("Hash must ignore the ID: same statement line, same hash")
	}

	c := makeTestTransaction("txn-3", 1191)
	if a.Hash == c.Hash {
		t.Error("Different amounts must produce different hashes")
	}

	d := makeTestTransaction("txn-4", 1190)
	d.Purpose = "RG 2024-002"
	d.Hash = d.GenerateHash()
	if a.Hash == d.Hash {
		t.Error("Different purposes must produce different hashes")
	}
}

func TestSQLiteStorage_SaveBankTransactions_Dedupe(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txns := []model.BankTransaction{
		makeTestTransaction("txn-1", 1190),
		makeTestTransaction("txn-2", -50),
	}
	if err := store.SaveBankTransactions(ctx, txns); err != nil {
		t.Fatalf("Failed to save transactions: %v", err)
	}

	// Re-import the same statement plus one new line.
	again := []model.BankTransaction{
		makeTestTransaction("txn-1", 1190),
		makeTestTransaction("txn-3", 200),
	}
	if err := store.SaveBankTransactions(ctx, again); err != nil {
		t.Fatalf("Failed to re-save transactions: %v", err)
	}

	unmatched, err := store.ListBankTransactionsByStatus(ctx, model.StatusUnmatched)
	if err != nil {
		t.Fatalf("Failed to list transactions: %v", err)
	}
	if len(unmatched) != 3 {
		t.Errorf("Expected 3 unique transactions after re-import, got %d", len(unmatched))
	}
}

func TestSQLiteStorage_SaveBankTransactions_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveBankTransactions(ctx, nil); err == nil {
		t.Error("Expected error for empty slice")
	}

	noID := makeTestTransaction("", 100)
	if err := store.SaveBankTransactions(ctx, []model.BankTransaction{noID}); err == nil {
		t.Error("Expected error for transaction without ID")
	}
}

func TestSQLiteStorage_UpdateBankTransactionMatch(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txn := makeTestTransaction("txn-1", 1190)
	if err := store.SaveBankTransactions(ctx, []model.BankTransaction{txn}); err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}

	recordID := int64(7)
	txn.Status = model.StatusAutoMatched
	txn.MatchedType = model.TargetInvoice
	txn.MatchedRecordID = &recordID
	txn.MatchConfidence = 0.95
	if err := store.UpdateBankTransactionMatch(ctx, &txn); err != nil {
		t.Fatalf("Failed to update match: %v", err)
	}

	got, err := store.GetBankTransaction(ctx, "txn-1")
	if err != nil {
		t.Fatalf("Failed to get transaction: %v", err)
	}
	if got.Status != model.StatusAutoMatched {
		t.Errorf("Expected status auto_matched, got %s", got.Status)
	}
	if got.MatchedType != model.TargetInvoice {
		t.Errorf("Expected matched type invoice, got %s", got.MatchedType)
	}
	if got.MatchedRecordID == nil || *got.MatchedRecordID != 7 {
		t.Errorf("Expected matched record 7, got %v", got.MatchedRecordID)
	}
	if got.MatchConfidence != 0.95 {
		t.Errorf("Expected confidence 0.95, got %v", got.MatchConfidence)
	}

	// Ignored transactions carry their reason.
	txn.Status = model.StatusIgnored
	txn.IgnoreReason = "private purchase"
	if err := store.UpdateBankTransactionMatch(ctx, &txn); err != nil {
		t.Fatalf("Failed to update to ignored: %v", err)
	}
	got, err = store.GetBankTransaction(ctx, "txn-1")
	if err != nil {
		t.Fatalf("Failed to get transaction: %v", err)
	}
	if got.IgnoreReason != "private purchase" {
		t.Errorf("Expected ignore reason to persist, got %q", got.IgnoreReason)
	}
}

func TestSQLiteStorage_BankTransactionNotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.GetBankTransaction(ctx, "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	ghost := makeTestTransaction("missing", 1)
	if err := store.UpdateBankTransactionMatch(ctx, &ghost); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on update, got %v", err)
	}
}
