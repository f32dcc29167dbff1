package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fmeinberg/kontor/internal/cli"
	"github.com/fmeinberg/kontor/internal/tax"
)

func ustvaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ustva",
		Short: "Quarterly advance VAT returns (USt-Voranmeldung)",
	}

	report := &cobra.Command{
		Use:   "report",
		Short: "Compute the draft return for a quarter",
		RunE:  runUstvaReport,
	}
	report.Flags().Int("year", currentYear(), "calendar year")
	report.Flags().Int("quarter", 0, "quarter 1-4 (required)")
	_ = report.MarkFlagRequired("quarter")

	file := &cobra.Command{
		Use:   "file",
		Short: "File a quarter: mark its records as reported and claimed",
		Long: `Mark every income record in the quarter as VAT-reported and every
expense record as Vorsteuer-claimed, then print the filed return.
Filing is one-way; there is no unfile. Re-filing an already filed
quarter changes nothing.`,
		RunE: runUstvaFile,
	}
	file.Flags().Int("year", currentYear(), "calendar year")
	file.Flags().Int("quarter", 0, "quarter 1-4 (required)")
	_ = file.MarkFlagRequired("quarter")

	cmd.AddCommand(report)
	cmd.AddCommand(file)

	return cmd
}

func runUstvaReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	year, _ := cmd.Flags().GetInt("year")
	quarter, _ := cmd.Flags().GetInt("quarter")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	taxService := tax.NewService(store, taxConfig())
	report, err := taxService.QuarterlyVat(ctx, year, quarter)
	if err != nil {
		return err
	}

	fmt.Print(cli.RenderVatReport(report))
	return nil
}

func runUstvaFile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	year, _ := cmd.Flags().GetInt("year")
	quarter, _ := cmd.Flags().GetInt("quarter")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	taxService := tax.NewService(store, taxConfig())
	report, err := taxService.MarkAsFiled(ctx, year, quarter)
	if err != nil {
		return err
	}

	fmt.Print(cli.RenderVatReport(report))
	return nil
}
