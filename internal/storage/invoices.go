package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/fmeinberg/kontor/internal/common"
	"github.com/fmeinberg/kontor/internal/model"
)

// CreateInvoice inserts a new invoice and sets its ID.
func (s *SQLiteStorage) CreateInvoice(ctx context.Context, invoice *model.Invoice) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateInvoice(invoice); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO invoices (
			number, client_name, issue_date, paid_date, status,
			euer_line, vat_rate, net_amount, gross_amount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		invoice.Number,
		invoice.ClientName,
		invoice.IssueDate,
		invoice.PaidDate,
		string(invoice.Status),
		invoice.EuerLine,
		int(invoice.VATRate),
		invoice.NetAmount,
		invoice.GrossAmount,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("invoice number %q: %w", invoice.Number, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to insert invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get invoice id: %w", err)
	}
	invoice.ID = id

	return nil
}

// GetInvoice returns a single invoice by ID.
func (s *SQLiteStorage) GetInvoice(ctx context.Context, id int64) (*model.Invoice, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, number, client_name, issue_date, paid_date, status,
		       euer_line, vat_rate, net_amount, gross_amount
		FROM invoices WHERE id = ?
	`, id)

	invoice, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invoice %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice %d: %w", id, err)
	}

	return invoice, nil
}

// ListInvoicesByStatus returns invoices with the given payment status.
func (s *SQLiteStorage) ListInvoicesByStatus(ctx context.Context, status model.InvoiceStatus) ([]model.Invoice, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, number, client_name, issue_date, paid_date, status,
		       euer_line, vat_rate, net_amount, gross_amount
		FROM invoices WHERE status = ? ORDER BY issue_date, id
	`, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var invoices []model.Invoice
	for rows.Next() {
		invoice, scanErr := scanInvoice(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", scanErr)
		}
		invoices = append(invoices, *invoice)
	}

	return invoices, rows.Err()
}

// MarkInvoicePaid transitions an invoice to paid with the given date.
func (s *SQLiteStorage) MarkInvoicePaid(ctx context.Context, id int64, paidDate time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE invoices SET status = ?, paid_date = ? WHERE id = ?
	`, string(model.InvoicePaid), paidDate, id)
	if err != nil {
		return fmt.Errorf("failed to mark invoice %d paid: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of invoice %d: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("invoice %d: %w", id, common.ErrNotFound)
	}

	return nil
}

func scanInvoice(row rowScanner) (*model.Invoice, error) {
	var invoice model.Invoice
	var status string
	var rate int
	var paidDate sql.NullTime

	err := row.Scan(
		&invoice.ID,
		&invoice.Number,
		&invoice.ClientName,
		&invoice.IssueDate,
		&paidDate,
		&status,
		&invoice.EuerLine,
		&rate,
		&invoice.NetAmount,
		&invoice.GrossAmount,
	)
	if err != nil {
		return nil, err
	}

	invoice.Status = model.InvoiceStatus(status)
	invoice.VATRate = model.VATRate(rate)
	if paidDate.Valid {
		d := paidDate.Time
		invoice.PaidDate = &d
	}

	return &invoice, nil
}
