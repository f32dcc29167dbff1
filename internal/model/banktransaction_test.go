package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBankTransaction_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from MatchStatus
		to   MatchStatus
		want bool
	}{
		{name: "unmatched to auto_matched", from: StatusUnmatched, to: StatusAutoMatched, want: true},
		{name: "unmatched to manual_matched", from: StatusUnmatched, to: StatusManualMatched, want: true},
		{name: "unmatched to ignored", from: StatusUnmatched, to: StatusIgnored, want: true},
		{name: "unmatched cannot book directly", from: StatusUnmatched, to: StatusBooked, want: false},
		{name: "auto_matched to booked", from: StatusAutoMatched, to: StatusBooked, want: true},
		{name: "auto_matched back to unmatched", from: StatusAutoMatched, to: StatusUnmatched, want: true},
		{name: "auto_matched cannot be ignored", from: StatusAutoMatched, to: StatusIgnored, want: false},
		{name: "manual_matched to booked", from: StatusManualMatched, to: StatusBooked, want: true},
		{name: "manual_matched back to unmatched", from: StatusManualMatched, to: StatusUnmatched, want: true},
		{name: "booked is terminal", from: StatusBooked, to: StatusUnmatched, want: false},
		{name: "booked cannot be ignored", from: StatusBooked, to: StatusIgnored, want: false},
		{name: "ignored is terminal", from: StatusIgnored, to: StatusUnmatched, want: false},
		{name: "ignored cannot be booked", from: StatusIgnored, to: StatusBooked, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := BankTransaction{Status: tt.from}
			assert.Equal(t, tt.want, txn.CanTransition(tt.to))
		})
	}
}

func TestBankTransaction_Amounts(t *testing.T) {
	in := BankTransaction{Amount: 1190}
	assert.True(t, in.IsIncoming())
	assert.InDelta(t, 1190, in.AbsAmount(), 0.001)

	out := BankTransaction{Amount: -238}
	assert.False(t, out.IsIncoming())
	assert.InDelta(t, 238, out.AbsAmount(), 0.001)
}

func TestBankTransaction_GenerateHash_Stable(t *testing.T) {
	txn := BankTransaction{
		Date:            time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:          1190,
		CounterpartIBAN: "DE02120300000000202051",
		Purpose:         "RG 2024-001",
	}

	first := txn.GenerateHash()
	second := txn.GenerateHash()
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}
