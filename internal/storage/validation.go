package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fmeinberg/kontor/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidAsset     = errors.New("invalid asset")
	ErrInvalidRecord    = errors.New("invalid record")
	ErrInvalidInvoice   = errors.New("invalid invoice")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateDateRange ensures start does not come after end.
func validateDateRange(start, end time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("%w: %v after %v", ErrInvalidDateRange, start, end)
	}
	return nil
}

// validateAsset validates an asset before persistence.
func validateAsset(asset *model.Asset) error {
	if asset == nil {
		return fmt.Errorf("%w: asset", ErrNilParameter)
	}
	if asset.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidAsset)
	}
	if asset.PurchasePrice <= 0 {
		return fmt.Errorf("%w: purchase price must be positive", ErrInvalidAsset)
	}
	if asset.PurchaseDate.IsZero() {
		return fmt.Errorf("%w: missing purchase date", ErrInvalidAsset)
	}
	return nil
}

// validateIncome validates an income record before persistence.
func validateIncome(rec *model.IncomeRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: income record", ErrNilParameter)
	}
	if rec.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidRecord)
	}
	if rec.Description == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidRecord)
	}
	return nil
}

// validateExpense validates an expense record before persistence.
func validateExpense(rec *model.ExpenseRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: expense record", ErrNilParameter)
	}
	if rec.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidRecord)
	}
	if rec.Description == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidRecord)
	}
	return nil
}

// validateInvoice validates an invoice before persistence.
func validateInvoice(invoice *model.Invoice) error {
	if invoice == nil {
		return fmt.Errorf("%w: invoice", ErrNilParameter)
	}
	if invoice.Number == "" {
		return fmt.Errorf("%w: missing number", ErrInvalidInvoice)
	}
	if invoice.ClientName == "" {
		return fmt.Errorf("%w: missing client name", ErrInvalidInvoice)
	}
	if invoice.IssueDate.IsZero() {
		return fmt.Errorf("%w: missing issue date", ErrInvalidInvoice)
	}
	return nil
}

// validateBankTransactions validates a slice of bank transactions.
func validateBankTransactions(txns []model.BankTransaction) error {
	if len(txns) == 0 {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	for i, txn := range txns {
		if txn.ID == "" {
			return fmt.Errorf("transaction at index %d: missing ID", i)
		}
		if txn.Date.IsZero() {
			return fmt.Errorf("transaction at index %d: missing date", i)
		}
	}
	return nil
}
