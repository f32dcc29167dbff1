package tax

import (
	"github.com/fmeinberg/kontor/internal/model"
)

// ComputeAnnual builds the annual profit report (EÜR) for a calendar
// year. Incomes group by their statutory line on net amounts; expenses
// apply partial deductibility at aggregation time. Asset-tracked
// depreciation merges additively onto the AfA line, so manually entered
// depreciation records coexist with computed schedules. Disposal gains
// and losses get their dedicated lines only when nonzero: a year without
// disposals must not show the lines at all.
//
// The home office flat allowance is injected only when the year has no
// real expense record on the home office line; presence wins, not size.
func ComputeAnnual(year int, incomes []model.IncomeRecord, expenses []model.ExpenseRecord, assets []model.Asset, entriesByAsset map[int64][]model.DepreciationEntry, cfg Config) model.EuerReport {
	incomeLines := make(map[int]float64)
	expenseLines := make(map[int]float64)
	hasHomeOffice := false

	for _, rec := range incomes {
		if rec.Date.Year() != year {
			continue
		}
		incomeLines[rec.EuerLine] += rec.NetAmount
	}

	for _, rec := range expenses {
		if rec.Date.Year() != year {
			continue
		}
		expenseLines[rec.EuerLine] += rec.DeductibleNet()
		if rec.EuerLine == cfg.Lines.HomeOffice {
			hasHomeOffice = true
		}
	}

	var afaTotal, disposalGains, disposalLosses float64
	for _, asset := range assets {
		entries := entriesByAsset[asset.ID]
		afaTotal += YearAmount(entries, year)

		if asset.DisposalYear() != year {
			continue
		}
		if gainLoss, ok := DisposalResult(asset, entries); ok {
			if gainLoss > 0 {
				disposalGains += gainLoss
			} else {
				disposalLosses += -gainLoss
			}
		}
	}

	if afaTotal != 0 {
		expenseLines[cfg.Lines.Afa] += afaTotal
	}
	if disposalGains != 0 {
		incomeLines[cfg.Lines.DisposalGain] += disposalGains
	}
	if disposalLosses != 0 {
		expenseLines[cfg.Lines.DisposalLoss] += disposalLosses
	}

	if !hasHomeOffice && cfg.HomeOfficeAllowance > 0 {
		expenseLines[cfg.Lines.HomeOffice] = cfg.HomeOfficeAllowance
	}

	report := model.EuerReport{
		Year:         year,
		IncomeLines:  make(map[int]float64, len(incomeLines)),
		ExpenseLines: make(map[int]float64, len(expenseLines)),
	}

	for line, value := range incomeLines {
		value = model.Round2(value)
		if value == 0 {
			continue
		}
		report.IncomeLines[line] = value
		report.TotalIncome += value
	}
	for line, value := range expenseLines {
		value = model.Round2(value)
		if value == 0 {
			continue
		}
		report.ExpenseLines[line] = value
		report.TotalExpenses += value
	}

	report.TotalIncome = model.Round2(report.TotalIncome)
	report.TotalExpenses = model.Round2(report.TotalExpenses)
	report.Gewinn = model.Round2(report.TotalIncome - report.TotalExpenses)

	return report
}
