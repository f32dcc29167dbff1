package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testTime(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{name: "no rounding needed", input: 1.25, want: 1.25},
		{name: "round down", input: 1.254, want: 1.25},
		{name: "round up", input: 1.256, want: 1.26},
		{name: "repeating decimal", input: 466.6666666, want: 466.67},
		{name: "negative", input: -1.005, want: -1.0},
		{name: "negative half cent rounds up", input: -361.125, want: -361.12},
		{name: "positive half cent rounds up", input: 361.125, want: 361.13},
		{name: "zero", input: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Round2(tt.input), 0.0001)
		})
	}
}

func TestIncomeRecord_ComputeAmounts(t *testing.T) {
	rec := IncomeRecord{NetAmount: 1000, VATRate: VATStandard}
	rec.ComputeAmounts()
	assert.InDelta(t, 190, rec.VATAmount, 0.001)
	assert.InDelta(t, 1190, rec.GrossAmount, 0.001)

	reduced := IncomeRecord{NetAmount: 500, VATRate: VATReduced}
	reduced.ComputeAmounts()
	assert.InDelta(t, 35, reduced.VATAmount, 0.001)
	assert.InDelta(t, 535, reduced.GrossAmount, 0.001)

	exempt := IncomeRecord{NetAmount: 300, VATRate: VATZero}
	exempt.ComputeAmounts()
	assert.Zero(t, exempt.VATAmount)
	assert.InDelta(t, 300, exempt.GrossAmount, 0.001)
}

func TestExpenseRecord_DeductibleNet(t *testing.T) {
	full := ExpenseRecord{NetAmount: 100, DeductiblePercent: 100}
	assert.InDelta(t, 100, full.DeductibleNet(), 0.001)

	meals := ExpenseRecord{NetAmount: 100, DeductiblePercent: 70}
	assert.InDelta(t, 70, meals.DeductibleNet(), 0.001)

	// Zero means the field was never set: fully deductible.
	legacy := ExpenseRecord{NetAmount: 100}
	assert.InDelta(t, 100, legacy.DeductibleNet(), 0.001)
}

func TestAsset_DisposalYear(t *testing.T) {
	active := Asset{Status: AssetActive}
	assert.Zero(t, active.DisposalYear())
	assert.False(t, active.IsDisposed())

	disposal := testTime(2026, 8, 1)
	sold := Asset{Status: AssetSold, DisposalDate: &disposal}
	assert.Equal(t, 2026, sold.DisposalYear())
	assert.True(t, sold.IsDisposed())
}
