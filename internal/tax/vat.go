package tax

import (
	"fmt"
	"time"

	"github.com/fmeinberg/kontor/internal/common"
	"github.com/fmeinberg/kontor/internal/model"
)

// QuarterRange returns the inclusive date range a quarter covers: the
// first day of its first month through the last day of its third month.
func QuarterRange(year, quarter int) (time.Time, time.Time, error) {
	if quarter < 1 || quarter > 4 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: got %d", common.ErrInvalidQuarter, quarter)
	}

	start := time.Date(year, time.Month(3*(quarter-1)+1), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the following month normalizes to the last day of the
	// quarter's third month.
	end := time.Date(year, time.Month(3*quarter+1), 0, 23, 59, 59, 0, time.UTC)
	return start, end, nil
}

// ComputeQuarter aggregates the quarterly advance VAT return from income
// and expense records. Records outside the quarter are filtered out, so
// callers may pass unfiltered collections. Input VAT counts only expenses
// whose Vorsteuer has actually been claimed. An empty record set yields a
// zero-valued draft report.
func ComputeQuarter(year, quarter int, incomes []model.IncomeRecord, expenses []model.ExpenseRecord) (model.UstVoranmeldung, error) {
	start, end, err := QuarterRange(year, quarter)
	if err != nil {
		return model.UstVoranmeldung{}, err
	}

	report := model.UstVoranmeldung{
		Year:    year,
		Quarter: quarter,
		Status:  model.VatDraft,
	}

	for _, rec := range incomes {
		if !inRange(rec.Date, start, end) {
			continue
		}
		switch rec.VATRate {
		case model.VATStandard:
			report.Umsatzsteuer19 += rec.VATAmount
		case model.VATReduced:
			report.Umsatzsteuer7 += rec.VATAmount
		}
	}

	for _, rec := range expenses {
		if !inRange(rec.Date, start, end) {
			continue
		}
		if rec.VorsteuerClaimed {
			report.Vorsteuer += rec.VATAmount
		}
	}

	report.Umsatzsteuer19 = model.Round2(report.Umsatzsteuer19)
	report.Umsatzsteuer7 = model.Round2(report.Umsatzsteuer7)
	report.TotalUmsatzsteuer = model.Round2(report.Umsatzsteuer19 + report.Umsatzsteuer7)
	report.Vorsteuer = model.Round2(report.Vorsteuer)
	report.Zahllast = model.Round2(report.TotalUmsatzsteuer - report.Vorsteuer)

	return report, nil
}

func inRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}
