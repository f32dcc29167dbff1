package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fmeinberg/kontor/internal/cli"
	"github.com/fmeinberg/kontor/internal/tax"
)

func euerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "euer",
		Short: "Compute the annual profit report (EÜR)",
		Long: `Aggregate the year's income and expense records by statutory line,
merge in asset depreciation and disposal results, and apply the home
office flat allowance when no real home office expenses exist.`,
		RunE: runEuer,
	}

	cmd.Flags().Int("year", currentYear(), "calendar year")

	return cmd
}

func runEuer(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	year, _ := cmd.Flags().GetInt("year")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	taxService := tax.NewService(store, taxConfig())
	report, err := taxService.AnnualReport(ctx, year)
	if err != nil {
		return err
	}

	fmt.Print(cli.RenderEuerReport(report))
	return nil
}
