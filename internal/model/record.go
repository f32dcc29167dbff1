package model

import (
	"time"
)

// VATRate is a German VAT percentage applicable to a record.
type VATRate int

// Statutory VAT rates.
const (
	VATZero     VATRate = 0
	VATReduced  VATRate = 7
	VATStandard VATRate = 19
)

// IncomeRecord is a single business income entry.
// Records are leaf data for the aggregators: created and read, never
// mutated by the calculation core except for the filing flags.
type IncomeRecord struct {
	Date        time.Time
	Description string
	ID          int64
	EuerLine    int
	Category    string
	VATRate     VATRate
	NetAmount   float64
	VATAmount   float64
	GrossAmount float64
	UstReported bool
	InvoiceID   *int64
}

// ExpenseRecord is a single business expense entry.
type ExpenseRecord struct {
	Date              time.Time
	Description       string
	ID                int64
	EuerLine          int
	Category          string
	VATRate           VATRate
	NetAmount         float64
	VATAmount         float64
	GrossAmount       float64
	DeductiblePercent float64 // 100 for fully deductible, e.g. 70 for meals
	VorsteuerClaimed  bool
}

// ComputeAmounts fills VATAmount and GrossAmount from NetAmount and VATRate.
func (r *IncomeRecord) ComputeAmounts() {
	r.VATAmount = round2(r.NetAmount * float64(r.VATRate) / 100)
	r.GrossAmount = round2(r.NetAmount + r.VATAmount)
}

// ComputeAmounts fills VATAmount and GrossAmount from NetAmount and VATRate.
func (r *ExpenseRecord) ComputeAmounts() {
	r.VATAmount = round2(r.NetAmount * float64(r.VATRate) / 100)
	r.GrossAmount = round2(r.NetAmount + r.VATAmount)
}

// DeductibleNet returns the net amount after applying the partial
// deductibility percentage. A zero percentage is treated as fully
// deductible so that records created before the field existed keep
// their old behavior.
func (r *ExpenseRecord) DeductibleNet() float64 {
	pct := r.DeductiblePercent
	if pct == 0 {
		pct = 100
	}
	return r.NetAmount * pct / 100
}
