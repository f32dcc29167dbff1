package reconcile

import (
	"math"
	"time"

	"github.com/fmeinberg/kontor/internal/model"
)

// HighConfidenceThreshold is the default confidence at or above which a
// proposal may be accepted without manual review.
const HighConfidenceThreshold = 0.8

// Candidate is an open record a bank transaction could settle.
type Candidate struct {
	Date   time.Time
	Name   string
	Type   model.MatchTargetType
	ID     int64
	Amount float64 // gross, unsigned
}

// Proposal pairs a transaction with its best candidate and a confidence
// score in [0,1].
type Proposal struct {
	Transaction model.BankTransaction
	Target      Candidate
	Confidence  float64
}

// Matcher scores transactions against candidates. Weights favor the
// amount: an exact amount with a vaguely similar name should clear the
// review threshold, a similar name with a wrong amount never should.
type Matcher struct {
	// AmountTolerance is the largest absolute difference still treated
	// as a near-match, in euros.
	AmountTolerance float64
	// DateWindow is how far apart transaction and record dates may lie
	// before the date component scores zero.
	DateWindow time.Duration
}

// NewMatcher creates a matcher with the default tolerances.
func NewMatcher() *Matcher {
	return &Matcher{
		AmountTolerance: 0.50,
		DateWindow:      90 * 24 * time.Hour,
	}
}

// Propose returns the best-scoring candidate for a transaction, if any
// candidate is plausible at all.
func (m *Matcher) Propose(txn model.BankTransaction, candidates []Candidate) (Proposal, bool) {
	best := Proposal{Transaction: txn}
	found := false

	for _, cand := range candidates {
		score, ok := m.score(txn, cand)
		if !ok {
			continue
		}
		if !found || score > best.Confidence {
			best.Target = cand
			best.Confidence = score
			found = true
		}
	}

	return best, found
}

// score combines amount closeness, name similarity, and date proximity.
// Candidates outside the amount tolerance are not matches at all.
func (m *Matcher) score(txn model.BankTransaction, cand Candidate) (float64, bool) {
	diff := math.Abs(txn.AbsAmount() - cand.Amount)

	var amountScore float64
	switch {
	case diff < 0.005:
		amountScore = 1
	case diff <= m.AmountTolerance:
		amountScore = 0.85 - 0.25*(diff/m.AmountTolerance)
	default:
		return 0, false
	}

	nameScore := NameSimilarity(txn.CounterpartName, cand.Name)

	gap := txn.Date.Sub(cand.Date)
	if gap < 0 {
		gap = -gap
	}
	dateScore := 0.0
	if gap <= m.DateWindow {
		dateScore = 1 - float64(gap)/float64(m.DateWindow)
	}

	confidence := 0.55*amountScore + 0.35*nameScore + 0.10*dateScore
	if confidence > 1 {
		confidence = 1
	}
	return confidence, true
}
