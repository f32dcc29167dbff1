package tax

import (
	"context"
	"fmt"
	"time"

	"github.com/fmeinberg/kontor/internal/model"
	"github.com/fmeinberg/kontor/internal/service"
)

// Service orchestrates the calculation core against storage: fetch the
// records, compute, write derived results back. It holds no state beyond
// its dependencies.
type Service struct {
	storage service.Storage
	now     func() time.Time
	cfg     Config
}

// NewService creates a tax service on top of the given storage.
func NewService(storage service.Storage, cfg Config) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Config exposes the statutory constants the service was built with.
func (s *Service) Config() Config {
	return s.cfg
}

// RegenerateSchedule recomputes and replaces an asset's depreciation
// entries. Called after any edit to price, date, category, useful life,
// or method; there is no incremental patching of entries.
func (s *Service) RegenerateSchedule(ctx context.Context, assetID int64) ([]model.DepreciationEntry, error) {
	asset, err := s.storage.GetAsset(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load asset %d: %w", assetID, err)
	}

	entries, err := ComputeSchedule(*asset, s.cfg)
	if err != nil {
		return nil, err
	}

	if err := s.storage.ReplaceDepreciationEntries(ctx, assetID, entries); err != nil {
		return nil, fmt.Errorf("failed to persist schedule for asset %d: %w", assetID, err)
	}

	return entries, nil
}

// UpdateAsset persists edits to an asset, then recomputes its schedule.
// A change to price, date, category, useful life, or method invalidates
// every derived entry, so the whole sequence is replaced.
func (s *Service) UpdateAsset(ctx context.Context, asset *model.Asset) ([]model.DepreciationEntry, error) {
	if err := s.storage.UpdateAsset(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to update asset %d: %w", asset.ID, err)
	}
	return s.RegenerateSchedule(ctx, asset.ID)
}

// CurrentBookValue returns the asset's book value as of the given year.
func (s *Service) CurrentBookValue(ctx context.Context, assetID int64, year int) (float64, error) {
	asset, err := s.storage.GetAsset(ctx, assetID)
	if err != nil {
		return 0, fmt.Errorf("failed to load asset %d: %w", assetID, err)
	}
	entries, err := s.storage.GetDepreciationEntries(ctx, assetID)
	if err != nil {
		return 0, fmt.Errorf("failed to load entries for asset %d: %w", assetID, err)
	}
	return BookValueAt(*asset, entries, year), nil
}

// QuarterlyVat computes the draft USt-Voranmeldung for a quarter.
func (s *Service) QuarterlyVat(ctx context.Context, year, quarter int) (model.UstVoranmeldung, error) {
	incomes, expenses, err := s.quarterRecords(ctx, year, quarter)
	if err != nil {
		return model.UstVoranmeldung{}, err
	}
	return ComputeQuarter(year, quarter, incomes, expenses)
}

// MarkAsFiled flags all records in the quarter as reported/claimed, then
// recomputes and returns the filed report. Filing is one-way; re-filing
// an already filed quarter changes nothing and does not fail.
func (s *Service) MarkAsFiled(ctx context.Context, year, quarter int) (model.UstVoranmeldung, error) {
	start, end, err := QuarterRange(year, quarter)
	if err != nil {
		return model.UstVoranmeldung{}, err
	}

	if err := s.storage.MarkQuarterFiled(ctx, start, end); err != nil {
		return model.UstVoranmeldung{}, fmt.Errorf("failed to mark quarter %d/%d as filed: %w", quarter, year, err)
	}

	incomes, expenses, err := s.quarterRecords(ctx, year, quarter)
	if err != nil {
		return model.UstVoranmeldung{}, err
	}

	report, err := ComputeQuarter(year, quarter, incomes, expenses)
	if err != nil {
		return model.UstVoranmeldung{}, err
	}

	filedAt := s.now().UTC()
	report.Status = model.VatFiled
	report.FiledAt = &filedAt

	return report, nil
}

// AnnualReport computes the EÜR for a calendar year, merging asset
// depreciation and disposal results into the record-based lines.
func (s *Service) AnnualReport(ctx context.Context, year int) (model.EuerReport, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	incomes, err := s.storage.ListIncomeByDateRange(ctx, start, end)
	if err != nil {
		return model.EuerReport{}, fmt.Errorf("failed to load income records: %w", err)
	}
	expenses, err := s.storage.ListExpensesByDateRange(ctx, start, end)
	if err != nil {
		return model.EuerReport{}, fmt.Errorf("failed to load expense records: %w", err)
	}
	assets, err := s.storage.ListAssets(ctx)
	if err != nil {
		return model.EuerReport{}, fmt.Errorf("failed to load assets: %w", err)
	}

	entriesByAsset := make(map[int64][]model.DepreciationEntry, len(assets))
	for _, asset := range assets {
		entries, entriesErr := s.storage.GetDepreciationEntries(ctx, asset.ID)
		if entriesErr != nil {
			return model.EuerReport{}, fmt.Errorf("failed to load entries for asset %d: %w", asset.ID, entriesErr)
		}
		entriesByAsset[asset.ID] = entries
	}

	return ComputeAnnual(year, incomes, expenses, assets, entriesByAsset, s.cfg), nil
}

func (s *Service) quarterRecords(ctx context.Context, year, quarter int) ([]model.IncomeRecord, []model.ExpenseRecord, error) {
	start, end, err := QuarterRange(year, quarter)
	if err != nil {
		return nil, nil, err
	}

	incomes, err := s.storage.ListIncomeByDateRange(ctx, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load income records: %w", err)
	}
	expenses, err := s.storage.ListExpensesByDateRange(ctx, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load expense records: %w", err)
	}

	return incomes, expenses, nil
}
