package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fmeinberg/kontor/internal/common"
	"github.com/fmeinberg/kontor/internal/model"
)

// SaveBankTransactions inserts imported transactions, silently skipping
// duplicates by hash so re-importing the same statement is safe.
func (s *SQLiteStorage) SaveBankTransactions(ctx context.Context, txns []model.BankTransaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBankTransactions(txns); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO bank_transactions (
			id, hash, date, amount, counterpart_name, counterpart_iban,
			purpose, status, match_confidence
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range txns {
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}
		if txn.Status == "" {
			txn.Status = model.StatusUnmatched
		}

		if _, err := stmt.ExecContext(ctx,
			txn.ID,
			txn.Hash,
			txn.Date,
			txn.Amount,
			txn.CounterpartName,
			txn.CounterpartIBAN,
			txn.Purpose,
			string(txn.Status),
			txn.MatchConfidence,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	return tx.Commit()
}

// GetBankTransaction returns a single transaction by ID.
func (s *SQLiteStorage) GetBankTransaction(ctx context.Context, id string) (*model.BankTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, hash, date, amount, counterpart_name, counterpart_iban,
		       purpose, status, match_confidence, matched_type,
		       matched_record_id, ignore_reason
		FROM bank_transactions WHERE id = ?
	`, id)

	txn, err := scanBankTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bank transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bank transaction %s: %w", id, err)
	}

	return txn, nil
}

// ListBankTransactionsByStatus returns transactions in a given match state.
func (s *SQLiteStorage) ListBankTransactionsByStatus(ctx context.Context, status model.MatchStatus) ([]model.BankTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hash, date, amount, counterpart_name, counterpart_iban,
		       purpose, status, match_confidence, matched_type,
		       matched_record_id, ignore_reason
		FROM bank_transactions WHERE status = ? ORDER BY date, id
	`, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query bank transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.BankTransaction
	for rows.Next() {
		txn, scanErr := scanBankTransaction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan bank transaction: %w", scanErr)
		}
		txns = append(txns, *txn)
	}

	return txns, rows.Err()
}

// UpdateBankTransactionMatch persists a transaction's match state.
func (s *SQLiteStorage) UpdateBankTransactionMatch(ctx context.Context, txn *model.BankTransaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE bank_transactions SET
			status = ?, match_confidence = ?, matched_type = ?,
			matched_record_id = ?, ignore_reason = ?
		WHERE id = ?
	`,
		string(txn.Status),
		txn.MatchConfidence,
		string(txn.MatchedType),
		txn.MatchedRecordID,
		txn.IgnoreReason,
		txn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bank transaction %s: %w", txn.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of bank transaction %s: %w", txn.ID, err)
	}
	if rows == 0 {
		return fmt.Errorf("bank transaction %s: %w", txn.ID, common.ErrNotFound)
	}

	return nil
}

func scanBankTransaction(row rowScanner) (*model.BankTransaction, error) {
	var txn model.BankTransaction
	var status string
	var counterpartName, counterpartIBAN, purpose sql.NullString
	var matchedType, ignoreReason sql.NullString
	var matchedRecordID sql.NullInt64

	err := row.Scan(
		&txn.ID,
		&txn.Hash,
		&txn.Date,
		&txn.Amount,
		&counterpartName,
		&counterpartIBAN,
		&purpose,
		&status,
		&txn.MatchConfidence,
		&matchedType,
		&matchedRecordID,
		&ignoreReason,
	)
	if err != nil {
		return nil, err
	}

	txn.CounterpartName = counterpartName.String
	txn.CounterpartIBAN = counterpartIBAN.String
	txn.Purpose = purpose.String
	txn.Status = model.MatchStatus(status)
	txn.MatchedType = model.MatchTargetType(matchedType.String)
	txn.IgnoreReason = ignoreReason.String
	if matchedRecordID.Valid {
		id := matchedRecordID.Int64
		txn.MatchedRecordID = &id
	}

	return &txn, nil
}
