package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/fmeinberg/kontor/internal/cli"
	"github.com/fmeinberg/kontor/internal/model"
)

func incomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Manage income records",
	}

	add := &cobra.Command{
		Use:   "add <description>",
		Short: "Record a business income",
		Args:  cobra.ExactArgs(1),
		RunE:  runIncomeAdd,
	}
	add.Flags().Float64("net", 0, "net amount in EUR (required)")
	add.Flags().Int("vat-rate", 19, "VAT rate (0, 7, 19)")
	add.Flags().String("date", "", "date YYYY-MM-DD (defaults to today)")
	add.Flags().Int("line", 14, "statutory EÜR line number")
	add.Flags().String("category", "", "free-form category")
	_ = add.MarkFlagRequired("net")

	list := &cobra.Command{
		Use:   "list",
		Short: "List income records for a year",
		RunE:  runIncomeList,
	}
	list.Flags().Int("year", currentYear(), "calendar year")

	cmd.AddCommand(add)
	cmd.AddCommand(list)

	return cmd
}

func runIncomeAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	net, _ := cmd.Flags().GetFloat64("net")
	rateFlag, _ := cmd.Flags().GetInt("vat-rate")
	dateStr, _ := cmd.Flags().GetString("date")
	line, _ := cmd.Flags().GetInt("line")
	category, _ := cmd.Flags().GetString("category")

	rate, err := parseVATRate(rateFlag)
	if err != nil {
		return err
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if dateStr != "" {
		if date, err = parseDate(dateStr); err != nil {
			return err
		}
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rec := model.IncomeRecord{
		Date:        date,
		Description: args[0],
		Category:    category,
		EuerLine:    line,
		VATRate:     rate,
		NetAmount:   net,
	}
	rec.ComputeAmounts()

	if err := store.CreateIncome(ctx, &rec); err != nil {
		return err
	}

	slog.Info("Income recorded",
		"id", rec.ID,
		"net", rec.NetAmount,
		"vat", rec.VATAmount,
		"gross", rec.GrossAmount)
	return nil
}

func runIncomeList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	year, _ := cmd.Flags().GetInt("year")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	records, err := store.ListIncomeByDateRange(ctx, start, end)
	if err != nil {
		return err
	}

	for _, rec := range records {
		flag := " "
		if rec.UstReported {
			flag = "R"
		}
		fmt.Printf("%4d  %s  %-40s line %-3d %2d%%  %12s %s\n",
			rec.ID, rec.Date.Format("2006-01-02"), rec.Description,
			rec.EuerLine, rec.VATRate, cli.Euro(rec.NetAmount), flag)
	}

	return nil
}

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Manage expense records",
	}

	add := &cobra.Command{
		Use:   "add <description>",
		Short: "Record a business expense",
		Args:  cobra.ExactArgs(1),
		RunE:  runExpenseAdd,
	}
	add.Flags().Float64("net", 0, "net amount in EUR (required)")
	add.Flags().Int("vat-rate", 19, "VAT rate (0, 7, 19)")
	add.Flags().String("date", "", "date YYYY-MM-DD (defaults to today)")
	add.Flags().Int("line", 0, "statutory EÜR line number (required)")
	add.Flags().String("category", "", "free-form category")
	add.Flags().Float64("deductible", 100, "deductible percentage, e.g. 70 for business meals")
	add.Flags().Bool("vorsteuer", false, "mark input VAT as claimed immediately")
	_ = add.MarkFlagRequired("net")
	_ = add.MarkFlagRequired("line")

	list := &cobra.Command{
		Use:   "list",
		Short: "List expense records for a year",
		RunE:  runExpenseList,
	}
	list.Flags().Int("year", currentYear(), "calendar year")

	cmd.AddCommand(add)
	cmd.AddCommand(list)

	return cmd
}

func runExpenseAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	net, _ := cmd.Flags().GetFloat64("net")
	rateFlag, _ := cmd.Flags().GetInt("vat-rate")
	dateStr, _ := cmd.Flags().GetString("date")
	line, _ := cmd.Flags().GetInt("line")
	category, _ := cmd.Flags().GetString("category")
	deductible, _ := cmd.Flags().GetFloat64("deductible")
	vorsteuer, _ := cmd.Flags().GetBool("vorsteuer")

	rate, err := parseVATRate(rateFlag)
	if err != nil {
		return err
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if dateStr != "" {
		if date, err = parseDate(dateStr); err != nil {
			return err
		}
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rec := model.ExpenseRecord{
		Date:              date,
		Description:       args[0],
		Category:          category,
		EuerLine:          line,
		VATRate:           rate,
		NetAmount:         net,
		DeductiblePercent: deductible,
		VorsteuerClaimed:  vorsteuer,
	}
	rec.ComputeAmounts()

	if err := store.CreateExpense(ctx, &rec); err != nil {
		return err
	}

	slog.Info("Expense recorded",
		"id", rec.ID,
		"net", rec.NetAmount,
		"deductible_percent", rec.DeductiblePercent)
	return nil
}

func runExpenseList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	year, _ := cmd.Flags().GetInt("year")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	records, err := store.ListExpensesByDateRange(ctx, start, end)
	if err != nil {
		return err
	}

	for _, rec := range records {
		flag := " "
		if rec.VorsteuerClaimed {
			flag = "V"
		}
		fmt.Printf("%4d  %s  %-40s line %-3d %2d%%  %12s %s\n",
			rec.ID, rec.Date.Format("2006-01-02"), rec.Description,
			rec.EuerLine, rec.VATRate, cli.Euro(rec.NetAmount), flag)
	}

	return nil
}
