package tax

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmeinberg/kontor/internal/common"
	"github.com/fmeinberg/kontor/internal/model"
)

func incomeAt(date time.Time, net float64, rate model.VATRate) model.IncomeRecord {
	rec := model.IncomeRecord{Date: date, NetAmount: net, VATRate: rate, EuerLine: 14}
	rec.ComputeAmounts()
	return rec
}

func expenseAt(date time.Time, net float64, rate model.VATRate, claimed bool) model.ExpenseRecord {
	rec := model.ExpenseRecord{Date: date, NetAmount: net, VATRate: rate, EuerLine: 27, VorsteuerClaimed: claimed}
	rec.ComputeAmounts()
	return rec
}

func TestQuarterRange(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		quarter   int
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name: "Q1", year: 2024, quarter: 1,
			wantStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name: "Q2 ends on a 30th", year: 2024, quarter: 2,
			wantStart: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.June, 30, 23, 59, 59, 0, time.UTC),
		},
		{
			name: "Q4 crosses into no new year", year: 2024, quarter: 4,
			wantStart: time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := QuarterRange(tt.year, tt.quarter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}

	for _, q := range []int{0, 5, -1} {
		_, _, err := QuarterRange(2024, q)
		assert.ErrorIs(t, err, common.ErrInvalidQuarter)
	}
}

func TestComputeQuarter(t *testing.T) {
	feb := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	incomes := []model.IncomeRecord{
		incomeAt(feb, 1000, model.VATStandard),
		incomeAt(mar, 500, model.VATReduced),
		// Outside the quarter, must be ignored.
		incomeAt(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), 9999, model.VATStandard),
		// Zero-rated income contributes no output VAT.
		incomeAt(feb, 250, model.VATZero),
	}
	expenses := []model.ExpenseRecord{
		expenseAt(feb, 300, model.VATStandard, true),
		// Not claimed: no input VAT even though VAT was paid.
		expenseAt(mar, 200, model.VATStandard, false),
	}

	report, err := ComputeQuarter(2024, 1, incomes, expenses)
	require.NoError(t, err)

	assert.Equal(t, 2024, report.Year)
	assert.Equal(t, 1, report.Quarter)
	assert.Equal(t, model.VatDraft, report.Status)
	assert.InDelta(t, 190, report.Umsatzsteuer19, 0.001)
	assert.InDelta(t, 35, report.Umsatzsteuer7, 0.001)
	assert.InDelta(t, 225, report.TotalUmsatzsteuer, 0.001)
	assert.InDelta(t, 57, report.Vorsteuer, 0.001)
	assert.InDelta(t, 168, report.Zahllast, 0.001)
}

func TestComputeQuarter_Empty(t *testing.T) {
	report, err := ComputeQuarter(2024, 3, nil, nil)
	require.NoError(t, err)

	assert.Zero(t, report.TotalUmsatzsteuer)
	assert.Zero(t, report.Vorsteuer)
	assert.Zero(t, report.Zahllast)
	assert.Equal(t, model.VatDraft, report.Status)
}

func TestComputeQuarter_NegativeZahllast(t *testing.T) {
	// More input than output VAT: a refund quarter.
	feb := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)

	incomes := []model.IncomeRecord{incomeAt(feb, 100, model.VATStandard)}
	expenses := []model.ExpenseRecord{expenseAt(feb, 2000, model.VATStandard, true)}

	report, err := ComputeQuarter(2024, 1, incomes, expenses)
	require.NoError(t, err)

	assert.InDelta(t, 19, report.TotalUmsatzsteuer, 0.001)
	assert.InDelta(t, 380, report.Vorsteuer, 0.001)
	assert.InDelta(t, -361, report.Zahllast, 0.001)
}

func TestComputeQuarter_BoundaryDates(t *testing.T) {
	// First and last moments of the quarter are both inside it.
	incomes := []model.IncomeRecord{
		incomeAt(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), 100, model.VATStandard),
		incomeAt(time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC), 100, model.VATStandard),
	}

	report, err := ComputeQuarter(2024, 1, incomes, nil)
	require.NoError(t, err)
	assert.InDelta(t, 38, report.Umsatzsteuer19, 0.001)
}

func TestComputeQuarter_InvalidQuarter(t *testing.T) {
	_, err := ComputeQuarter(2024, 7, nil, nil)
	assert.ErrorIs(t, err, common.ErrInvalidQuarter)
}
