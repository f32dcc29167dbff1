package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// MatchStatus tracks a bank transaction through reconciliation.
type MatchStatus string

// Match status constants.
const (
	StatusUnmatched     MatchStatus = "unmatched"
	StatusAutoMatched   MatchStatus = "auto_matched"
	StatusManualMatched MatchStatus = "manual_matched"
	StatusBooked        MatchStatus = "booked"
	StatusIgnored       MatchStatus = "ignored"
)

// MatchTargetType names the kind of record a transaction was matched to.
type MatchTargetType string

const (
	// TargetInvoice links a transaction to an outgoing invoice.
	TargetInvoice MatchTargetType = "invoice"
	// TargetExpense links a transaction to an expense record.
	TargetExpense MatchTargetType = "expense"
	// TargetIncome links a transaction to an income record.
	TargetIncome MatchTargetType = "income"
)

// BankTransaction represents a single imported bank statement line.
type BankTransaction struct {
	Date            time.Time
	ID              string
	Hash            string
	CounterpartName string
	CounterpartIBAN string
	Purpose         string
	Status          MatchStatus
	MatchedType     MatchTargetType
	IgnoreReason    string
	Amount          float64 // signed; positive = incoming
	MatchConfidence float64 // 0-1 when auto-matched
	MatchedRecordID *int64
}

// GenerateHash creates a stable hash for duplicate detection on import.
func (t *BankTransaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.CounterpartIBAN,
		t.Purpose)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// IsIncoming reports whether money came in.
func (t *BankTransaction) IsIncoming() bool {
	return t.Amount > 0
}

// AbsAmount returns the unsigned transaction amount.
func (t *BankTransaction) AbsAmount() float64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

// CanTransition reports whether the reconciliation state machine allows
// moving from the transaction's current status to the given one.
// unmatched -> auto_matched | manual_matched | ignored
// auto_matched | manual_matched -> booked (or back to unmatched on reject)
// booked and ignored are terminal.
func (t *BankTransaction) CanTransition(to MatchStatus) bool {
	switch t.Status {
	case StatusUnmatched:
		return to == StatusAutoMatched || to == StatusManualMatched || to == StatusIgnored
	case StatusAutoMatched, StatusManualMatched:
		return to == StatusBooked || to == StatusUnmatched
	case StatusBooked, StatusIgnored:
		return false
	}
	return false
}
