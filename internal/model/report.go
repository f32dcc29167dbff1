package model

import (
	"sort"
	"time"
)

// VatReturnStatus is the filing state of a quarterly VAT return.
type VatReturnStatus string

const (
	// VatDraft is a computed but unfiled return.
	VatDraft VatReturnStatus = "draft"
	// VatFiled is a return whose records have been marked as reported.
	// Filing is one-way; there is no unfile.
	VatFiled VatReturnStatus = "filed"
)

// UstVoranmeldung is a quarterly advance VAT return, derived on demand
// from income and expense records. Never stored as raw data.
type UstVoranmeldung struct {
	FiledAt           *time.Time
	Status            VatReturnStatus
	Year              int
	Quarter           int
	Umsatzsteuer19    float64
	Umsatzsteuer7     float64
	TotalUmsatzsteuer float64
	Vorsteuer         float64
	Zahllast          float64 // positive = owed, negative = refund
}

// EuerReport is the annual profit report (Einnahmen-Überschuss-Rechnung),
// derived for a calendar year. Lines absent from the maps were zero or not
// applicable; a zero-valued line is never emitted.
type EuerReport struct {
	IncomeLines   map[int]float64
	ExpenseLines  map[int]float64
	Year          int
	TotalIncome   float64
	TotalExpenses float64
	Gewinn        float64
}

// SortedIncomeLines returns the populated income line numbers in ascending order.
func (r *EuerReport) SortedIncomeLines() []int {
	return sortedKeys(r.IncomeLines)
}

// SortedExpenseLines returns the populated expense line numbers in ascending order.
func (r *EuerReport) SortedExpenseLines() []int {
	return sortedKeys(r.ExpenseLines)
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
