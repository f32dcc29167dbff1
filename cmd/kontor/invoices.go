package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fmeinberg/kontor/internal/cli"
	"github.com/fmeinberg/kontor/internal/model"
)

func invoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Manage outgoing invoices",
	}

	add := &cobra.Command{
		Use:   "add <number>",
		Short: "Record an issued invoice",
		Args:  cobra.ExactArgs(1),
		RunE:  runInvoicesAdd,
	}
	add.Flags().String("client", "", "client name (required)")
	add.Flags().Float64("net", 0, "net amount in EUR (required)")
	add.Flags().Int("vat-rate", 19, "VAT rate (0, 7, 19)")
	add.Flags().String("date", "", "issue date YYYY-MM-DD (required)")
	add.Flags().Int("line", 14, "statutory EÜR line for the income when paid")
	_ = add.MarkFlagRequired("client")
	_ = add.MarkFlagRequired("net")
	_ = add.MarkFlagRequired("date")

	list := &cobra.Command{
		Use:   "list",
		Short: "List invoices",
		RunE:  runInvoicesList,
	}
	list.Flags().String("status", "open", "filter by status (open, paid)")

	cmd.AddCommand(add)
	cmd.AddCommand(list)

	return cmd
}

func runInvoicesAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, _ := cmd.Flags().GetString("client")
	net, _ := cmd.Flags().GetFloat64("net")
	rateFlag, _ := cmd.Flags().GetInt("vat-rate")
	dateStr, _ := cmd.Flags().GetString("date")
	line, _ := cmd.Flags().GetInt("line")

	rate, err := parseVATRate(rateFlag)
	if err != nil {
		return err
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	invoice := model.Invoice{
		Number:     args[0],
		ClientName: client,
		IssueDate:  date,
		Status:     model.InvoiceOpen,
		EuerLine:   line,
		VATRate:    rate,
		NetAmount:  net,
	}
	invoice.GrossAmount = model.Round2(net * (1 + float64(rate)/100))

	if err := store.CreateInvoice(ctx, &invoice); err != nil {
		return err
	}

	slog.Info("Invoice recorded",
		"id", invoice.ID,
		"number", invoice.Number,
		"gross", invoice.GrossAmount)
	return nil
}

func runInvoicesList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	status, _ := cmd.Flags().GetString("status")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	invoices, err := store.ListInvoicesByStatus(ctx, model.InvoiceStatus(status))
	if err != nil {
		return err
	}

	for _, inv := range invoices {
		fmt.Printf("%4d  %-12s %s  %-30s %12s  %s\n",
			inv.ID, inv.Number, inv.IssueDate.Format("2006-01-02"),
			inv.ClientName, cli.Euro(inv.GrossAmount), inv.Status)
	}

	return nil
}
