package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmeinberg/kontor/internal/model"
)

func matchTxn(amount float64, name string, date time.Time) model.BankTransaction {
	return model.BankTransaction{
		ID:              "txn-1",
		Date:            date,
		Amount:          amount,
		CounterpartName: name,
		Status:          model.StatusUnmatched,
	}
}

func TestMatcher_Propose(t *testing.T) {
	date := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	m := NewMatcher()

	t.Run("exact amount and name clears the threshold", func(t *testing.T) {
		txn := matchTxn(1190, "Acme GmbH", date)
		candidates := []Candidate{
			{Type: model.TargetInvoice, ID: 7, Name: "Acme", Amount: 1190, Date: date.AddDate(0, 0, -5)},
		}

		proposal, ok := m.Propose(txn, candidates)
		require.True(t, ok)
		assert.Equal(t, int64(7), proposal.Target.ID)
		assert.GreaterOrEqual(t, proposal.Confidence, HighConfidenceThreshold)
	})

	t.Run("best of several candidates wins", func(t *testing.T) {
		txn := matchTxn(1190, "Acme GmbH", date)
		candidates := []Candidate{
			{Type: model.TargetInvoice, ID: 1, Name: "Globex", Amount: 1190, Date: date},
			{Type: model.TargetInvoice, ID: 2, Name: "Acme", Amount: 1190, Date: date},
		}

		proposal, ok := m.Propose(txn, candidates)
		require.True(t, ok)
		assert.Equal(t, int64(2), proposal.Target.ID)
	})

	t.Run("amount outside tolerance is no match", func(t *testing.T) {
		txn := matchTxn(1190, "Acme GmbH", date)
		candidates := []Candidate{
			{Type: model.TargetInvoice, ID: 7, Name: "Acme", Amount: 1300, Date: date},
		}

		_, ok := m.Propose(txn, candidates)
		assert.False(t, ok)
	})

	t.Run("amount at the tolerance edge needs review", func(t *testing.T) {
		txn := matchTxn(1190.50, "Acme GmbH", date)
		candidates := []Candidate{
			{Type: model.TargetInvoice, ID: 7, Name: "Acme", Amount: 1190, Date: date},
		}

		proposal, ok := m.Propose(txn, candidates)
		require.True(t, ok)
		// amount 0.60, name 1, date 1: 0.33 + 0.35 + 0.10
		assert.InDelta(t, 0.78, proposal.Confidence, 0.001)
		assert.Less(t, proposal.Confidence, HighConfidenceThreshold)
	})

	t.Run("negative amounts compare on absolute value", func(t *testing.T) {
		txn := matchTxn(-238, "Hetzner Online GmbH", date)
		candidates := []Candidate{
			{Type: model.TargetExpense, ID: 3, Name: "Hetzner", Amount: 238, Date: date},
		}

		proposal, ok := m.Propose(txn, candidates)
		require.True(t, ok)
		assert.GreaterOrEqual(t, proposal.Confidence, HighConfidenceThreshold)
	})

	t.Run("date outside the window zeroes the date component", func(t *testing.T) {
		txn := matchTxn(1190, "Acme GmbH", date)
		candidates := []Candidate{
			{Type: model.TargetInvoice, ID: 7, Name: "Acme", Amount: 1190, Date: date.AddDate(-1, 0, 0)},
		}

		proposal, ok := m.Propose(txn, candidates)
		require.True(t, ok)
		// amount 1, name 1, date 0
		assert.InDelta(t, 0.90, proposal.Confidence, 0.001)
	})

	t.Run("no candidates", func(t *testing.T) {
		txn := matchTxn(1190, "Acme GmbH", date)
		_, ok := m.Propose(txn, nil)
		assert.False(t, ok)
	})
}
