package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fmeinberg/kontor/internal/model"
)

// CreateIncome inserts a new income record and sets its ID.
func (s *SQLiteStorage) CreateIncome(ctx context.Context, rec *model.IncomeRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateIncome(rec); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO income_records (
			date, description, category, euer_line, vat_rate,
			net_amount, vat_amount, gross_amount, ust_reported, invoice_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.Date,
		rec.Description,
		rec.Category,
		rec.EuerLine,
		int(rec.VATRate),
		rec.NetAmount,
		rec.VATAmount,
		rec.GrossAmount,
		rec.UstReported,
		rec.InvoiceID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert income record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get income record id: %w", err)
	}
	rec.ID = id

	return nil
}

// CreateExpense inserts a new expense record and sets its ID.
func (s *SQLiteStorage) CreateExpense(ctx context.Context, rec *model.ExpenseRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpense(rec); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO expense_records (
			date, description, category, euer_line, vat_rate,
			net_amount, vat_amount, gross_amount, deductible_percent, vorsteuer_claimed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.Date,
		rec.Description,
		rec.Category,
		rec.EuerLine,
		int(rec.VATRate),
		rec.NetAmount,
		rec.VATAmount,
		rec.GrossAmount,
		rec.DeductiblePercent,
		rec.VorsteuerClaimed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get expense record id: %w", err)
	}
	rec.ID = id

	return nil
}

// ListIncomeByDateRange returns income records within the inclusive range.
func (s *SQLiteStorage) ListIncomeByDateRange(ctx context.Context, start, end time.Time) ([]model.IncomeRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, description, category, euer_line, vat_rate,
		       net_amount, vat_amount, gross_amount, ust_reported, invoice_id
		FROM income_records
		WHERE date >= ? AND date <= ?
		ORDER BY date, id
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query income records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.IncomeRecord
	for rows.Next() {
		var rec model.IncomeRecord
		var category sql.NullString
		var invoiceID sql.NullInt64
		var rate int
		if err := rows.Scan(
			&rec.ID, &rec.Date, &rec.Description, &category, &rec.EuerLine,
			&rate, &rec.NetAmount, &rec.VATAmount, &rec.GrossAmount,
			&rec.UstReported, &invoiceID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan income record: %w", err)
		}
		rec.Category = category.String
		rec.VATRate = model.VATRate(rate)
		if invoiceID.Valid {
			id := invoiceID.Int64
			rec.InvoiceID = &id
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ListExpensesByDateRange returns expense records within the inclusive range.
func (s *SQLiteStorage) ListExpensesByDateRange(ctx context.Context, start, end time.Time) ([]model.ExpenseRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, description, category, euer_line, vat_rate,
		       net_amount, vat_amount, gross_amount, deductible_percent, vorsteuer_claimed
		FROM expense_records
		WHERE date >= ? AND date <= ?
		ORDER BY date, id
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.ExpenseRecord
	for rows.Next() {
		var rec model.ExpenseRecord
		var category sql.NullString
		var rate int
		if err := rows.Scan(
			&rec.ID, &rec.Date, &rec.Description, &category, &rec.EuerLine,
			&rate, &rec.NetAmount, &rec.VATAmount, &rec.GrossAmount,
			&rec.DeductiblePercent, &rec.VorsteuerClaimed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense record: %w", err)
		}
		rec.Category = category.String
		rec.VATRate = model.VATRate(rate)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// MarkQuarterFiled flags all income records in range as VAT-reported and
// all expense records as Vorsteuer-claimed. Re-running on an already
// filed range affects zero rows and succeeds.
func (s *SQLiteStorage) MarkQuarterFiled(ctx context.Context, start, end time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDateRange(start, end); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		UPDATE income_records SET ust_reported = 1
		WHERE date >= ? AND date <= ?
	`, start, end); err != nil {
		return fmt.Errorf("failed to mark income records reported: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE expense_records SET vorsteuer_claimed = 1
		WHERE date >= ? AND date <= ?
	`, start, end); err != nil {
		return fmt.Errorf("failed to mark expense records claimed: %w", err)
	}

	return tx.Commit()
}
