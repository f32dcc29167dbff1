package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fmeinberg/kontor/internal/common"
	"github.com/fmeinberg/kontor/internal/model"
	"github.com/fmeinberg/kontor/internal/sheets"
	"github.com/fmeinberg/kontor/internal/tax"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export reports to external destinations",
	}

	cmd.AddCommand(exportSheetsCmd())

	return cmd
}

func exportSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Export the annual report to Google Sheets",
		Long: `Export the EÜR and the year's quarterly VAT returns to a Google
spreadsheet. Credentials come from KONTOR_SHEETS_* environment
variables; either a service account file or OAuth client credentials
with a refresh token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			year, _ := cmd.Flags().GetInt("year")
			if year == 0 {
				year = currentYear()
			}

			sheetsConfig := sheets.DefaultConfig()
			sheetsConfig.LoadFromEnv()
			if id, _ := cmd.Flags().GetString("spreadsheet"); id != "" {
				sheetsConfig.SpreadsheetID = id
			}
			if err := sheetsConfig.Validate(); err != nil {
				return common.NewUserError(
					"Google Sheets credentials are not configured; set the KONTOR_SHEETS_* environment variables", err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := tax.NewService(store, taxConfig())

			report, err := svc.AnnualReport(ctx, year)
			if err != nil {
				return fmt.Errorf("failed to compute annual report: %w", err)
			}

			quarters := make([]model.UstVoranmeldung, 0, 4)
			for q := 1; q <= 4; q++ {
				vat, err := svc.QuarterlyVat(ctx, year, q)
				if err != nil {
					return fmt.Errorf("failed to compute Q%d: %w", q, err)
				}
				quarters = append(quarters, vat)
			}

			writer, err := sheets.NewWriter(ctx, sheetsConfig, slog.Default())
			if err != nil {
				return err
			}

			if err := writer.WriteAnnualReport(ctx, report, quarters); err != nil {
				return err
			}

			slog.Info("Export complete",
				"year", year,
				"spreadsheet", sheetsConfig.SpreadsheetID)
			return nil
		},
	}

	cmd.Flags().IntP("year", "y", 0, "report year (defaults to current year)")
	cmd.Flags().StringP("spreadsheet", "s", "", "spreadsheet ID (overrides KONTOR_SHEETS_SPREADSHEET_ID)")

	return cmd
}
