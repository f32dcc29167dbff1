package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fmeinberg/kontor/internal/common"
	"github.com/fmeinberg/kontor/internal/model"
	"github.com/fmeinberg/kontor/internal/service"
)

// Service runs reconciliation against storage: auto-matching, manual
// matching, booking, and ignoring transactions.
type Service struct {
	storage   service.Storage
	matcher   *Matcher
	threshold float64
	now       func() time.Time
}

// NewService creates a reconciliation service with the default
// auto-accept threshold.
func NewService(storage service.Storage, matcher *Matcher) *Service {
	return NewServiceWithThreshold(storage, matcher, HighConfidenceThreshold)
}

// NewServiceWithThreshold creates a reconciliation service with a custom
// auto-accept threshold.
func NewServiceWithThreshold(storage service.Storage, matcher *Matcher, threshold float64) *Service {
	if matcher == nil {
		matcher = NewMatcher()
	}
	if threshold <= 0 || threshold > 1 {
		threshold = HighConfidenceThreshold
	}
	return &Service{
		storage:   storage,
		matcher:   matcher,
		threshold: threshold,
		now:       time.Now,
	}
}

// AutoMatch scans unmatched transactions and proposes matches. Proposals
// at or above the high-confidence threshold are persisted as auto_matched;
// the rest are returned for manual review. onProgress, when non-nil, is
// called once per scanned transaction.
func (s *Service) AutoMatch(ctx context.Context, onProgress func(done, total int)) ([]Proposal, error) {
	txns, err := s.storage.ListBankTransactionsByStatus(ctx, model.StatusUnmatched)
	if err != nil {
		return nil, fmt.Errorf("failed to load unmatched transactions: %w", err)
	}

	incoming, outgoing, err := s.loadCandidates(ctx)
	if err != nil {
		return nil, err
	}

	var review []Proposal
	for i, txn := range txns {
		candidates := outgoing
		if txn.IsIncoming() {
			candidates = incoming
		}

		proposal, ok := s.matcher.Propose(txn, candidates)
		if ok {
			if proposal.Confidence >= s.threshold {
				if err := s.applyAutoMatch(ctx, proposal); err != nil {
					return nil, err
				}
			} else {
				review = append(review, proposal)
			}
		}

		if onProgress != nil {
			onProgress(i+1, len(txns))
		}
	}

	return review, nil
}

// ManualMatch links a transaction to a specific record after review.
func (s *Service) ManualMatch(ctx context.Context, txnID string, targetType model.MatchTargetType, targetID int64) error {
	txn, err := s.storage.GetBankTransaction(ctx, txnID)
	if err != nil {
		return fmt.Errorf("failed to load transaction %s: %w", txnID, err)
	}
	if !txn.CanTransition(model.StatusManualMatched) {
		return fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, txn.Status, model.StatusManualMatched)
	}

	txn.Status = model.StatusManualMatched
	txn.MatchedType = targetType
	txn.MatchedRecordID = &targetID
	txn.MatchConfidence = 1

	return s.storage.UpdateBankTransactionMatch(ctx, txn)
}

// Book finalizes a matched transaction. Booked is terminal for accounting
// purposes. When the match target is an invoice, the invoice is marked
// paid and the associated income record created; income creation is a
// non-fatal side effect, so its failure is logged and the booking stands.
func (s *Service) Book(ctx context.Context, txnID string) error {
	txn, err := s.storage.GetBankTransaction(ctx, txnID)
	if err != nil {
		return fmt.Errorf("failed to load transaction %s: %w", txnID, err)
	}
	if !txn.CanTransition(model.StatusBooked) {
		return fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, txn.Status, model.StatusBooked)
	}

	txn.Status = model.StatusBooked
	if err := s.storage.UpdateBankTransactionMatch(ctx, txn); err != nil {
		return fmt.Errorf("failed to book transaction %s: %w", txnID, err)
	}

	if txn.MatchedType == model.TargetInvoice && txn.MatchedRecordID != nil {
		s.settleInvoice(ctx, txn, *txn.MatchedRecordID)
	}

	return nil
}

// Ignore removes a transaction from the open queue permanently. There is
// no un-ignore path.
func (s *Service) Ignore(ctx context.Context, txnID, reason string) error {
	txn, err := s.storage.GetBankTransaction(ctx, txnID)
	if err != nil {
		return fmt.Errorf("failed to load transaction %s: %w", txnID, err)
	}
	if !txn.CanTransition(model.StatusIgnored) {
		return fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, txn.Status, model.StatusIgnored)
	}

	txn.Status = model.StatusIgnored
	txn.IgnoreReason = reason

	return s.storage.UpdateBankTransactionMatch(ctx, txn)
}

// Accept persists a reviewed proposal as auto_matched.
func (s *Service) Accept(ctx context.Context, proposal Proposal) error {
	return s.applyAutoMatch(ctx, proposal)
}

func (s *Service) applyAutoMatch(ctx context.Context, proposal Proposal) error {
	txn := proposal.Transaction
	if !txn.CanTransition(model.StatusAutoMatched) {
		return fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, txn.Status, model.StatusAutoMatched)
	}

	txn.Status = model.StatusAutoMatched
	txn.MatchedType = proposal.Target.Type
	targetID := proposal.Target.ID
	txn.MatchedRecordID = &targetID
	txn.MatchConfidence = proposal.Confidence

	if err := s.storage.UpdateBankTransactionMatch(ctx, &txn); err != nil {
		return fmt.Errorf("failed to persist match for transaction %s: %w", txn.ID, err)
	}

	slog.Debug("Auto-matched transaction",
		"transaction", txn.ID,
		"target_type", proposal.Target.Type,
		"target_id", proposal.Target.ID,
		"confidence", proposal.Confidence)

	return nil
}

// settleInvoice marks the matched invoice paid and creates the associated
// income record. The payment status change is the primary operation;
// failures creating the income record are reported but never roll it back.
func (s *Service) settleInvoice(ctx context.Context, txn *model.BankTransaction, invoiceID int64) {
	invoice, err := s.storage.GetInvoice(ctx, invoiceID)
	if err != nil {
		slog.Error("Failed to load invoice for booked transaction",
			"transaction", txn.ID, "invoice", invoiceID, "error", err)
		return
	}
	if invoice.Status == model.InvoicePaid {
		return
	}

	if err := s.storage.MarkInvoicePaid(ctx, invoiceID, txn.Date); err != nil {
		slog.Error("Failed to mark invoice paid",
			"transaction", txn.ID, "invoice", invoiceID, "error", err)
		return
	}

	income := &model.IncomeRecord{
		Date:        txn.Date,
		Description: fmt.Sprintf("Invoice %s", invoice.Number),
		Category:    "invoice",
		EuerLine:    invoice.EuerLine,
		VATRate:     invoice.VATRate,
		NetAmount:   invoice.NetAmount,
		InvoiceID:   &invoiceID,
	}
	income.ComputeAmounts()

	if err := s.storage.CreateIncome(ctx, income); err != nil {
		// Non-fatal: the invoice is paid either way.
		slog.Error("Failed to create income record for paid invoice",
			"transaction", txn.ID, "invoice", invoiceID, "error", err)
	}
}

// loadCandidates builds the candidate pools: open invoices and unreported
// income for incoming money, expense records for outgoing money.
func (s *Service) loadCandidates(ctx context.Context) (incoming, outgoing []Candidate, err error) {
	invoices, err := s.storage.ListInvoicesByStatus(ctx, model.InvoiceOpen)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load open invoices: %w", err)
	}
	for _, inv := range invoices {
		incoming = append(incoming, Candidate{
			Type:   model.TargetInvoice,
			ID:     inv.ID,
			Name:   inv.ClientName,
			Amount: inv.GrossAmount,
			Date:   inv.IssueDate,
		})
	}

	// Candidate window: a year back is plenty for open items.
	end := s.now()
	start := end.AddDate(-1, 0, 0)

	incomes, err := s.storage.ListIncomeByDateRange(ctx, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load income records: %w", err)
	}
	for _, rec := range incomes {
		if rec.InvoiceID != nil {
			continue
		}
		incoming = append(incoming, Candidate{
			Type:   model.TargetIncome,
			ID:     rec.ID,
			Name:   rec.Description,
			Amount: rec.GrossAmount,
			Date:   rec.Date,
		})
	}

	expenses, err := s.storage.ListExpensesByDateRange(ctx, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load expense records: %w", err)
	}
	for _, rec := range expenses {
		outgoing = append(outgoing, Candidate{
			Type:   model.TargetExpense,
			ID:     rec.ID,
			Name:   rec.Description,
			Amount: rec.GrossAmount,
			Date:   rec.Date,
		})
	}

	return incoming, outgoing, nil
}
