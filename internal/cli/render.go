package cli

import (
	"fmt"
	"strings"

	"github.com/fmeinberg/kontor/internal/model"
)

// Euro formats a monetary amount for terminal output.
func Euro(v float64) string {
	return fmt.Sprintf("%.2f €", v)
}

// RenderSchedule renders a depreciation schedule as a table.
func RenderSchedule(asset *model.Asset, entries []model.DepreciationEntry) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("AfA schedule: %s (%s, %s)", asset.Name, asset.Category, asset.Method)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%-6s %-7s %14s %14s %14s\n", "Year", "Months", "Amount", "Cumulative", "Book value"))

	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%-6d %-7d %14s %14s %14s\n",
			e.Year, e.Months, Euro(e.Amount), Euro(e.Cumulative), Euro(e.BookValue)))
	}

	return b.String()
}

// RenderVatReport renders a quarterly VAT return.
func RenderVatReport(report model.UstVoranmeldung) string {
	var b strings.Builder

	title := fmt.Sprintf("USt-Voranmeldung Q%d/%d (%s)", report.Quarter, report.Year, report.Status)
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Umsatzsteuer 19%%:   %14s\n", Euro(report.Umsatzsteuer19)))
	b.WriteString(fmt.Sprintf("Umsatzsteuer 7%%:    %14s\n", Euro(report.Umsatzsteuer7)))
	b.WriteString(fmt.Sprintf("Umsatzsteuer total: %14s\n", Euro(report.TotalUmsatzsteuer)))
	b.WriteString(fmt.Sprintf("Vorsteuer:          %14s\n", Euro(report.Vorsteuer)))

	zahllast := fmt.Sprintf("Zahllast:           %14s", Euro(report.Zahllast))
	if report.Zahllast < 0 {
		zahllast += SubtleStyle.Render("  (refund)")
	}
	b.WriteString(BoldStyle.Render(zahllast))
	b.WriteString("\n")

	return b.String()
}

// RenderEuerReport renders the annual profit report, line by line.
func RenderEuerReport(report model.EuerReport) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("EÜR %d", report.Year)))
	b.WriteString("\n")

	b.WriteString(BoldStyle.Render("Income"))
	b.WriteString("\n")
	for _, line := range report.SortedIncomeLines() {
		b.WriteString(fmt.Sprintf("  line %-4d %14s\n", line, Euro(report.IncomeLines[line])))
	}

	b.WriteString(BoldStyle.Render("Expenses"))
	b.WriteString("\n")
	for _, line := range report.SortedExpenseLines() {
		b.WriteString(fmt.Sprintf("  line %-4d %14s\n", line, Euro(report.ExpenseLines[line])))
	}

	b.WriteString(fmt.Sprintf("Total income:   %14s\n", Euro(report.TotalIncome)))
	b.WriteString(fmt.Sprintf("Total expenses: %14s\n", Euro(report.TotalExpenses)))

	gewinn := fmt.Sprintf("Gewinn:         %14s", Euro(report.Gewinn))
	if report.Gewinn >= 0 {
		b.WriteString(SuccessStyle.Render(gewinn))
	} else {
		b.WriteString(ErrorStyle.Render(gewinn))
	}
	b.WriteString("\n")

	return b.String()
}
