package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fmeinberg/kontor/internal/common"
	"github.com/fmeinberg/kontor/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func testDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func makeTestAsset(name string) model.Asset {
	return model.Asset{
		Name:            name,
		Category:        model.CategoryComputer,
		PurchasePrice:   2400,
		VATPaid:         456,
		PurchaseDate:    testDate(2024, time.June, 15),
		Method:          model.MethodLinear,
		UsefulLifeYears: 3,
		Status:          model.AssetActive,
	}
}

func TestSQLiteStorage_AssetCRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	asset := makeTestAsset("MacBook Pro")
	if err := store.CreateAsset(ctx, &asset); err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}
	if asset.ID == 0 {
		t.Error("Expected asset ID to be set after create")
	}

	got, err := store.GetAsset(ctx, asset.ID)
	if err != nil {
		t.Fatalf("Failed to get asset: %v", err)
	}
	if got.Name != "MacBook Pro" {
		t.Errorf("Expected name %q, got %q", "MacBook Pro", got.Name)
	}
	if got.PurchasePrice != 2400 {
		t.Errorf("Expected price 2400, got %v", got.PurchasePrice)
	}
	if got.DisposalDate != nil {
		t.Error("Expected nil disposal date for active asset")
	}

	// Update: dispose the asset.
	disposal := testDate(2026, time.August, 1)
	price := 500.0
	got.Status = model.AssetSold
	got.DisposalDate = &disposal
	got.DisposalPrice = &price
	if err := store.UpdateAsset(ctx, got); err != nil {
		t.Fatalf("Failed to update asset: %v", err)
	}

	updated, err := store.GetAsset(ctx, asset.ID)
	if err != nil {
		t.Fatalf("Failed to get updated asset: %v", err)
	}
	if updated.Status != model.AssetSold {
		t.Errorf("Expected status sold, got %s", updated.Status)
	}
	if updated.DisposalDate == nil || !updated.DisposalDate.Equal(disposal) {
		t.Errorf("Expected disposal date %v, got %v", disposal, updated.DisposalDate)
	}
	if updated.DisposalPrice == nil || *updated.DisposalPrice != 500 {
		t.Errorf("Expected disposal price 500, got %v", updated.DisposalPrice)
	}

	if err := store.DeleteAsset(ctx, asset.ID); err != nil {
		t.Fatalf("Failed to delete asset: %v", err)
	}
	if _, err := store.GetAsset(ctx, asset.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteStorage_AssetNotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.GetAsset(ctx, 999); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteAsset(ctx, 999); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on delete, got %v", err)
	}

	missing := makeTestAsset("Ghost")
	missing.ID = 999
	if err := store.UpdateAsset(ctx, &missing); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on update, got %v", err)
	}
}

func TestSQLiteStorage_CreateAssetValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		mutate func(*model.Asset)
		name   string
	}{
		{name: "missing name", mutate: func(a *model.Asset) { a.Name = "" }},
		{name: "zero price", mutate: func(a *model.Asset) { a.PurchasePrice = 0 }},
		{name: "negative price", mutate: func(a *model.Asset) { a.PurchasePrice = -1 }},
		{name: "missing purchase date", mutate: func(a *model.Asset) { a.PurchaseDate = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset := makeTestAsset("Valid")
			tt.mutate(&asset)
			if err := store.CreateAsset(ctx, &asset); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestSQLiteStorage_ListAssetsByStatus(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	active := makeTestAsset("Active one")
	if err := store.CreateAsset(ctx, &active); err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}

	sold := makeTestAsset("Sold one")
	sold.Status = model.AssetSold
	disposal := testDate(2025, time.January, 1)
	sold.DisposalDate = &disposal
	if err := store.CreateAsset(ctx, &sold); err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}

	all, err := store.ListAssets(ctx)
	if err != nil {
		t.Fatalf("Failed to list assets: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 assets, got %d", len(all))
	}

	activeOnly, err := store.ListAssetsByStatus(ctx, model.AssetActive)
	if err != nil {
		t.Fatalf("Failed to list by status: %v", err)
	}
	if len(activeOnly) != 1 || activeOnly[0].Name != "Active one" {
		t.Errorf("Expected only the active asset, got %v", activeOnly)
	}
}

func TestSQLiteStorage_ReplaceDepreciationEntries(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	asset := makeTestAsset("Laptop")
	if err := store.CreateAsset(ctx, &asset); err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}

	first := []model.DepreciationEntry{
		{AssetID: asset.ID, Year: 2024, Months: 7, Amount: 466.67, Cumulative: 466.67, BookValue: 1933.33},
		{AssetID: asset.ID, Year: 2025, Months: 12, Amount: 800, Cumulative: 1266.67, BookValue: 1133.33},
	}
	if err := store.ReplaceDepreciationEntries(ctx, asset.ID, first); err != nil {
		t.Fatalf("Failed to replace entries: %v", err)
	}

	// Replace with a different schedule; the old rows must be gone.
	second := []model.DepreciationEntry{
		{AssetID: asset.ID, Year: 2024, Months: 12, Amount: 2400, Cumulative: 2400, BookValue: 0},
	}
	if err := store.ReplaceDepreciationEntries(ctx, asset.ID, second); err != nil {
		t.Fatalf("Failed to replace entries again: %v", err)
	}

	entries, err := store.GetDepreciationEntries(ctx, asset.ID)
	if err != nil {
		t.Fatalf("Failed to get entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry after replace, got %d", len(entries))
	}
	if entries[0].Amount != 2400 {
		t.Errorf("Expected amount 2400, got %v", entries[0].Amount)
	}
}

func TestSQLiteStorage_DepreciationEntriesCascadeOnDelete(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	asset := makeTestAsset("Laptop")
	if err := store.CreateAsset(ctx, &asset); err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}

	entries := []model.DepreciationEntry{
		{AssetID: asset.ID, Year: 2024, Months: 12, Amount: 2400, Cumulative: 2400, BookValue: 0},
	}
	if err := store.ReplaceDepreciationEntries(ctx, asset.ID, entries); err != nil {
		t.Fatalf("Failed to replace entries: %v", err)
	}

	if err := store.DeleteAsset(ctx, asset.ID); err != nil {
		t.Fatalf("Failed to delete asset: %v", err)
	}

	orphans, err := store.GetDepreciationEntries(ctx, asset.ID)
	if err != nil {
		t.Fatalf("Failed to get entries: %v", err)
	}
	if len(orphans) != 0 {
		t.Errorf("Expected entries to cascade on delete, found %d", len(orphans))
	}
}
