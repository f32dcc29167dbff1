package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/fmeinberg/kontor/internal/model"
	"github.com/fmeinberg/kontor/internal/ofx"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import bank statements from OFX/QFX or CSV files",
		Long: `Import bank statement exports into the reconciliation queue.
Transactions are deduplicated by hash, so re-importing a statement is
safe.

Examples:
  kontor import ~/Downloads/statement_2024_q2.ofx
  kontor import --csv ~/Downloads/umsaetze_*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("csv", false, "parse files as German bank CSV exports instead of OFX")
	cmd.Flags().BoolP("dry-run", "d", false, "preview import without saving")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	asCSV, _ := cmd.Flags().GetBool("csv")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	slog.Info("Importing bank statements",
		"file_count", len(allFiles),
		"dry_run", dryRun)

	bar := progressbar.Default(int64(len(allFiles)), "importing")

	var allTransactions []model.BankTransaction
	seen := make(map[string]bool)

	parser := ofx.NewParser()
	for _, file := range allFiles {
		f, err := os.Open(file) // #nosec G304 -- user-supplied import path
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", file, err)
		}

		var txns []model.BankTransaction
		if asCSV {
			txns, err = parseBankCSV(f, filepath.Base(file))
		} else {
			txns, err = parser.ParseFile(ctx, f)
		}
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", file, err)
		}

		for _, txn := range txns {
			if seen[txn.Hash] {
				continue
			}
			seen[txn.Hash] = true
			allTransactions = append(allTransactions, txn)
		}

		_ = bar.Add(1)
	}

	if len(allTransactions) == 0 {
		slog.Info("No new transactions found")
		return nil
	}

	if dryRun {
		for _, txn := range allTransactions {
			fmt.Printf("%s  %10.2f  %-30s %s\n",
				txn.Date.Format("2006-01-02"), txn.Amount, txn.CounterpartName, txn.Purpose)
		}
		slog.Info("Dry run, nothing saved", "transactions", len(allTransactions))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveBankTransactions(ctx, allTransactions); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	slog.Info("Import complete", "transactions", len(allTransactions))
	return nil
}

// parseCSVDate accepts the German DD.MM.YYYY format as well as ISO dates.
func parseCSVDate(s string) (time.Time, error) {
	for _, layout := range []string{"02.01.2006", "2006-01-02"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseBankCSV reads a German bank CSV export: semicolon-separated with
// the columns Buchungstag, Empfänger, IBAN, Verwendungszweck, Betrag.
// Amounts use the German decimal comma.
func parseBankCSV(r io.Reader, source string) ([]model.BankTransaction, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	var txns []model.BankTransaction
	for i, row := range rows {
		if i == 0 || len(row) < 5 {
			// Header or malformed row.
			continue
		}

		date, err := parseCSVDate(strings.TrimSpace(row[0]))
		if err != nil {
			slog.Warn("Skipping CSV row with invalid date",
				"source", source, "row", i+1, "value", row[0])
			continue
		}

		amountStr := strings.TrimSpace(row[4])
		amountStr = strings.ReplaceAll(amountStr, ".", "")
		amountStr = strings.ReplaceAll(amountStr, ",", ".")
		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil {
			slog.Warn("Skipping CSV row with invalid amount",
				"source", source, "row", i+1, "value", row[4])
			continue
		}

		txn := model.BankTransaction{
			Date:            date,
			Amount:          amount,
			CounterpartName: strings.TrimSpace(row[1]),
			CounterpartIBAN: strings.TrimSpace(row[2]),
			Purpose:         strings.TrimSpace(row[3]),
			Status:          model.StatusUnmatched,
		}
		txn.Hash = txn.GenerateHash()
		txn.ID = fmt.Sprintf("csv:%s", txn.Hash[:16])

		txns = append(txns, txn)
	}

	return txns, nil
}
