// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/fmeinberg/kontor/internal/model"
)

// Storage defines the contract for the persistence layer. The calculation
// core receives an implementation explicitly; nothing reaches for ambient
// global state.
type Storage interface {
	// Asset operations
	CreateAsset(ctx context.Context, asset *model.Asset) error
	GetAsset(ctx context.Context, id int64) (*model.Asset, error)
	ListAssets(ctx context.Context) ([]model.Asset, error)
	ListAssetsByStatus(ctx context.Context, status model.AssetStatus) ([]model.Asset, error)
	UpdateAsset(ctx context.Context, asset *model.Asset) error
	DeleteAsset(ctx context.Context, id int64) error

	// Depreciation entries are derived data, replaced wholesale.
	ReplaceDepreciationEntries(ctx context.Context, assetID int64, entries []model.DepreciationEntry) error
	GetDepreciationEntries(ctx context.Context, assetID int64) ([]model.DepreciationEntry, error)

	// Income and expense records
	CreateIncome(ctx context.Context, rec *model.IncomeRecord) error
	CreateExpense(ctx context.Context, rec *model.ExpenseRecord) error
	ListIncomeByDateRange(ctx context.Context, start, end time.Time) ([]model.IncomeRecord, error)
	ListExpensesByDateRange(ctx context.Context, start, end time.Time) ([]model.ExpenseRecord, error)
	// MarkQuarterFiled flags every income record in range as VAT-reported
	// and every expense record as Vorsteuer-claimed. One-way; re-filing an
	// already filed range is a no-op that must not fail.
	MarkQuarterFiled(ctx context.Context, start, end time.Time) error

	// Invoice operations
	CreateInvoice(ctx context.Context, invoice *model.Invoice) error
	GetInvoice(ctx context.Context, id int64) (*model.Invoice, error)
	ListInvoicesByStatus(ctx context.Context, status model.InvoiceStatus) ([]model.Invoice, error)
	MarkInvoicePaid(ctx context.Context, id int64, paidDate time.Time) error

	// Bank transaction operations
	SaveBankTransactions(ctx context.Context, txns []model.BankTransaction) error
	GetBankTransaction(ctx context.Context, id string) (*model.BankTransaction, error)
	ListBankTransactionsByStatus(ctx context.Context, status model.MatchStatus) ([]model.BankTransaction, error)
	UpdateBankTransactionMatch(ctx context.Context, txn *model.BankTransaction) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
