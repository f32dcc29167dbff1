package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a
// fatal error.
const ExpectedSchemaVersion = 4

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS assets (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					category TEXT NOT NULL,
					purchase_price REAL NOT NULL,
					vat_paid REAL DEFAULT 0,
					purchase_date DATETIME NOT NULL,
					method TEXT NOT NULL,
					useful_life_years INTEGER NOT NULL,
					status TEXT NOT NULL DEFAULT 'active',
					disposal_date DATETIME,
					disposal_price REAL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_assets_status ON assets(status)`,

				`CREATE TABLE IF NOT EXISTS depreciation_entries (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					asset_id INTEGER NOT NULL,
					year INTEGER NOT NULL,
					months INTEGER NOT NULL,
					amount REAL NOT NULL,
					cumulative REAL NOT NULL,
					book_value REAL NOT NULL,
					FOREIGN KEY (asset_id) REFERENCES assets(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_depreciation_entries_asset ON depreciation_entries(asset_id)`,
				`CREATE INDEX idx_depreciation_entries_year ON depreciation_entries(year)`,

				`CREATE TABLE IF NOT EXISTS income_records (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					date DATETIME NOT NULL,
					description TEXT NOT NULL,
					category TEXT,
					euer_line INTEGER NOT NULL,
					vat_rate INTEGER NOT NULL,
					net_amount REAL NOT NULL,
					vat_amount REAL NOT NULL,
					gross_amount REAL NOT NULL,
					ust_reported BOOLEAN DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_income_records_date ON income_records(date)`,

				`CREATE TABLE IF NOT EXISTS expense_records (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					date DATETIME NOT NULL,
					description TEXT NOT NULL,
					category TEXT,
					euer_line INTEGER NOT NULL,
					vat_rate INTEGER NOT NULL,
					net_amount REAL NOT NULL,
					vat_amount REAL NOT NULL,
					gross_amount REAL NOT NULL,
					deductible_percent REAL DEFAULT 100,
					vorsteuer_claimed BOOLEAN DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_expense_records_date ON expense_records(date)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add invoices",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS invoices (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					number TEXT UNIQUE NOT NULL,
					client_name TEXT NOT NULL,
					issue_date DATETIME NOT NULL,
					paid_date DATETIME,
					status TEXT NOT NULL DEFAULT 'open',
					euer_line INTEGER NOT NULL,
					vat_rate INTEGER NOT NULL,
					net_amount REAL NOT NULL,
					gross_amount REAL NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_invoices_status ON invoices(status)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Add bank transactions for reconciliation",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS bank_transactions (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					date DATETIME NOT NULL,
					amount REAL NOT NULL,
					counterpart_name TEXT,
					counterpart_iban TEXT,
					purpose TEXT,
					status TEXT NOT NULL DEFAULT 'unmatched',
					match_confidence REAL DEFAULT 0,
					matched_type TEXT,
					matched_record_id INTEGER,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_bank_transactions_status ON bank_transactions(status)`,
				`CREATE INDEX idx_bank_transactions_date ON bank_transactions(date)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     4,
		Description: "Record why transactions were ignored, link income to invoices",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE bank_transactions ADD COLUMN ignore_reason TEXT`,
				`ALTER TABLE income_records ADD COLUMN invoice_id INTEGER REFERENCES invoices(id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
