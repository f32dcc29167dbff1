package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fmeinberg/kontor/internal/common"
	"github.com/fmeinberg/kontor/internal/model"
)

// CreateAsset inserts a new asset and sets its ID.
func (s *SQLiteStorage) CreateAsset(ctx context.Context, asset *model.Asset) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAsset(asset); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO assets (
			name, category, purchase_price, vat_paid, purchase_date,
			method, useful_life_years, status, disposal_date, disposal_price
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		asset.Name,
		string(asset.Category),
		asset.PurchasePrice,
		asset.VATPaid,
		asset.PurchaseDate,
		string(asset.Method),
		asset.UsefulLifeYears,
		string(asset.Status),
		asset.DisposalDate,
		asset.DisposalPrice,
	)
	if err != nil {
		return fmt.Errorf("failed to insert asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get asset id: %w", err)
	}
	asset.ID = id

	return nil
}

// GetAsset returns a single asset by ID.
func (s *SQLiteStorage) GetAsset(ctx context.Context, id int64) (*model.Asset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, purchase_price, vat_paid, purchase_date,
		       method, useful_life_years, status, disposal_date, disposal_price
		FROM assets WHERE id = ?
	`, id)

	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("asset %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset %d: %w", id, err)
	}

	return asset, nil
}

// ListAssets returns all assets ordered by purchase date.
func (s *SQLiteStorage) ListAssets(ctx context.Context) ([]model.Asset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listAssets(ctx, `
		SELECT id, name, category, purchase_price, vat_paid, purchase_date,
		       method, useful_life_years, status, disposal_date, disposal_price
		FROM assets ORDER BY purchase_date, id
	`)
}

// ListAssetsByStatus returns assets with the given lifecycle status.
func (s *SQLiteStorage) ListAssetsByStatus(ctx context.Context, status model.AssetStatus) ([]model.Asset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listAssets(ctx, `
		SELECT id, name, category, purchase_price, vat_paid, purchase_date,
		       method, useful_life_years, status, disposal_date, disposal_price
		FROM assets WHERE status = ? ORDER BY purchase_date, id
	`, string(status))
}

// UpdateAsset persists changes to an existing asset. Callers must
// regenerate the depreciation schedule afterwards when a depreciation
// input changed.
func (s *SQLiteStorage) UpdateAsset(ctx context.Context, asset *model.Asset) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAsset(asset); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE assets SET
			name = ?, category = ?, purchase_price = ?, vat_paid = ?,
			purchase_date = ?, method = ?, useful_life_years = ?,
			status = ?, disposal_date = ?, disposal_price = ?
		WHERE id = ?
	`,
		asset.Name,
		string(asset.Category),
		asset.PurchasePrice,
		asset.VATPaid,
		asset.PurchaseDate,
		string(asset.Method),
		asset.UsefulLifeYears,
		string(asset.Status),
		asset.DisposalDate,
		asset.DisposalPrice,
		asset.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset %d: %w", asset.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of asset %d: %w", asset.ID, err)
	}
	if rows == 0 {
		return fmt.Errorf("asset %d: %w", asset.ID, common.ErrNotFound)
	}

	return nil
}

// DeleteAsset removes an asset; its depreciation entries cascade.
func (s *SQLiteStorage) DeleteAsset(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion of asset %d: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("asset %d: %w", id, common.ErrNotFound)
	}

	return nil
}

// ReplaceDepreciationEntries swaps an asset's whole entry sequence inside
// one transaction. Entries are derived data; there is no partial update.
func (s *SQLiteStorage) ReplaceDepreciationEntries(ctx context.Context, assetID int64, entries []model.DepreciationEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM depreciation_entries WHERE asset_id = ?`, assetID); err != nil {
		return fmt.Errorf("failed to delete old entries for asset %d: %w", assetID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO depreciation_entries (asset_id, year, months, amount, cumulative, book_value)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(ctx, assetID, entry.Year, entry.Months, entry.Amount, entry.Cumulative, entry.BookValue); err != nil {
			return fmt.Errorf("failed to insert entry for asset %d year %d: %w", assetID, entry.Year, err)
		}
	}

	return tx.Commit()
}

// GetDepreciationEntries returns an asset's entries ordered by year.
func (s *SQLiteStorage) GetDepreciationEntries(ctx context.Context, assetID int64) ([]model.DepreciationEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, asset_id, year, months, amount, cumulative, book_value
		FROM depreciation_entries WHERE asset_id = ? ORDER BY year
	`, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for asset %d: %w", assetID, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.DepreciationEntry
	for rows.Next() {
		var e model.DepreciationEntry
		if err := rows.Scan(&e.ID, &e.AssetID, &e.Year, &e.Months, &e.Amount, &e.Cumulative, &e.BookValue); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (s *SQLiteStorage) listAssets(ctx context.Context, query string, args ...any) ([]model.Asset, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var assets []model.Asset
	for rows.Next() {
		asset, scanErr := scanAsset(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", scanErr)
		}
		assets = append(assets, *asset)
	}

	return assets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*model.Asset, error) {
	var asset model.Asset
	var category, method, status string
	var disposalDate sql.NullTime
	var disposalPrice sql.NullFloat64

	err := row.Scan(
		&asset.ID,
		&asset.Name,
		&category,
		&asset.PurchasePrice,
		&asset.VATPaid,
		&asset.PurchaseDate,
		&method,
		&asset.UsefulLifeYears,
		&status,
		&disposalDate,
		&disposalPrice,
	)
	if err != nil {
		return nil, err
	}

	asset.Category = model.AssetCategory(category)
	asset.Method = model.AfaMethod(method)
	asset.Status = model.AssetStatus(status)
	if disposalDate.Valid {
		d := disposalDate.Time
		asset.DisposalDate = &d
	}
	if disposalPrice.Valid {
		p := disposalPrice.Float64
		asset.DisposalPrice = &p
	}

	return &asset, nil
}
