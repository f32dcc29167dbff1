package tax

import (
	"fmt"

	"github.com/fmeinberg/kontor/internal/common"
	"github.com/fmeinberg/kontor/internal/model"
)

// ComputeSchedule computes the full year-by-year depreciation schedule
// for an asset. The returned entries are ordered by year ascending and
// partition the purchase price exactly: the final entry is forced so that
// cumulative depreciation equals the price to the cent and its book value
// is 0.
//
// Each entry's amount, cumulative, and book value are rounded to two
// decimals independently. That per-entry rounding can drift by sub-cent
// amounts mid-schedule; it is kept for compatibility with historical
// statutory reports, and the forced final entry absorbs the drift.
func ComputeSchedule(asset model.Asset, cfg Config) ([]model.DepreciationEntry, error) {
	if asset.PurchasePrice <= 0 {
		return nil, fmt.Errorf("%w: got %.2f", common.ErrInvalidPrice, asset.PurchasePrice)
	}
	if asset.PurchaseDate.IsZero() {
		return nil, fmt.Errorf("asset %d: purchase date is required", asset.ID)
	}

	method := cfg.ResolveMethod(asset.PurchasePrice, asset.Method)
	startYear := asset.PurchaseDate.Year()
	price := asset.PurchasePrice

	if method == model.MethodImmediate {
		return []model.DepreciationEntry{{
			AssetID:    asset.ID,
			Year:       startYear,
			Months:     12,
			Amount:     model.Round2(price),
			Cumulative: model.Round2(price),
			BookValue:  0,
		}}, nil
	}

	life := asset.UsefulLifeYears
	if life < 1 {
		return nil, fmt.Errorf("%w: got %d", common.ErrInvalidUsefulLife, life)
	}

	annual := price / float64(life)
	// Purchase in January covers the full first year.
	firstMonths := 12 - (int(asset.PurchaseDate.Month()) - 1)

	var entries []model.DepreciationEntry
	cumulative := 0.0

	for i := 0; i < life; i++ {
		months := 12
		amount := annual
		if i == 0 {
			months = firstMonths
			amount = annual * float64(firstMonths) / 12
		}
		if i == life-1 && firstMonths == 12 {
			// No stub year follows; force the final entry.
			amount = price - cumulative
		}

		amount = model.Round2(amount)
		cumulative = model.Round2(cumulative + amount)
		book := model.Round2(price - cumulative)
		if i == life-1 && firstMonths == 12 {
			cumulative = model.Round2(price)
			book = 0
		}

		entries = append(entries, model.DepreciationEntry{
			AssetID:    asset.ID,
			Year:       startYear + i,
			Months:     months,
			Amount:     amount,
			Cumulative: cumulative,
			BookValue:  book,
		})
	}

	if firstMonths < 12 {
		// Stub year for the months the pro-rated first year left over.
		amount := model.Round2(price - cumulative)
		entries = append(entries, model.DepreciationEntry{
			AssetID:    asset.ID,
			Year:       startYear + life,
			Months:     12 - firstMonths,
			Amount:     amount,
			Cumulative: model.Round2(price),
			BookValue:  0,
		})
	}

	return entries, nil
}

// BookValueAt returns the asset's book value at the end of the given
// fiscal year: the latest entry with year <= the given year. When no
// entry applies yet the original purchase price is returned; this covers
// the documented edge case of an asset purchased in a future year.
func BookValueAt(asset model.Asset, entries []model.DepreciationEntry, year int) float64 {
	value := asset.PurchasePrice
	for _, e := range entries {
		if e.Year <= year {
			value = e.BookValue
		}
	}
	return value
}

// DisposalResult returns the signed gain or loss realized when the asset
// left service in its disposal year: positive values are gains (income),
// negative values losses (expense). The second return is false while the
// asset is still active or lacks a disposal date.
//
// A sold asset realizes disposal price minus book value; an asset merely
// disposed of writes its entire remaining book value off as a loss.
func DisposalResult(asset model.Asset, entries []model.DepreciationEntry) (float64, bool) {
	if !asset.IsDisposed() || asset.DisposalDate == nil {
		return 0, false
	}

	book := BookValueAt(asset, entries, asset.DisposalDate.Year())
	if asset.Status == model.AssetSold && asset.DisposalPrice != nil {
		return model.Round2(*asset.DisposalPrice - book), true
	}
	return model.Round2(-book), true
}

// YearAmount returns the depreciation amount an asset contributes to the
// given fiscal year, or 0 when the schedule does not touch that year.
func YearAmount(entries []model.DepreciationEntry, year int) float64 {
	for _, e := range entries {
		if e.Year == year {
			return e.Amount
		}
	}
	return 0
}
