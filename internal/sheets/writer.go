package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/fmeinberg/kontor/internal/common"
	"github.com/fmeinberg/kontor/internal/model"
)

// Writer exports tax reports to a Google spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: service,
		logger:  logger,
	}, nil
}

func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	if config.ServiceAccountPath != "" {
		return sheets.NewService(ctx,
			option.WithCredentialsFile(config.ServiceAccountPath),
			option.WithScopes(sheets.SpreadsheetsScope))
	}

	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
	token := &oauth2.Token{RefreshToken: config.RefreshToken}

	return sheets.NewService(ctx,
		option.WithTokenSource(oauthConfig.TokenSource(ctx, token)))
}

// WriteAnnualReport writes the EÜR and the year's quarterly VAT returns
// to the configured spreadsheet, replacing previous contents.
func (w *Writer) WriteAnnualReport(ctx context.Context, report model.EuerReport, quarters []model.UstVoranmeldung) error {
	w.logger.Info("exporting annual report",
		"year", report.Year,
		"spreadsheet", w.config.SpreadsheetID)

	values := w.prepareValues(report, quarters)

	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err := common.WithRetry(ctx, func() error {
		return w.writeValues(ctx, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	w.logger.Info("annual report exported", "rows", len(values))
	return nil
}

func (w *Writer) prepareValues(report model.EuerReport, quarters []model.UstVoranmeldung) [][]any {
	values := [][]any{
		{fmt.Sprintf("EÜR %d", report.Year)},
		{},
		{"Income"},
	}

	for _, line := range report.SortedIncomeLines() {
		values = append(values, []any{fmt.Sprintf("line %d", line), report.IncomeLines[line]})
	}

	values = append(values, []any{}, []any{"Expenses"})
	for _, line := range report.SortedExpenseLines() {
		values = append(values, []any{fmt.Sprintf("line %d", line), report.ExpenseLines[line]})
	}

	values = append(values,
		[]any{},
		[]any{"Total income", report.TotalIncome},
		[]any{"Total expenses", report.TotalExpenses},
		[]any{"Gewinn", report.Gewinn},
		[]any{},
		[]any{"Quarter", "USt 19%", "USt 7%", "Vorsteuer", "Zahllast", "Status"},
	)

	for _, q := range quarters {
		values = append(values, []any{
			fmt.Sprintf("Q%d", q.Quarter),
			q.Umsatzsteuer19,
			q.Umsatzsteuer7,
			q.Vorsteuer,
			q.Zahllast,
			string(q.Status),
		})
	}

	return values
}

func (w *Writer) writeValues(ctx context.Context, values [][]any) error {
	clearCall := w.service.Spreadsheets.Values.Clear(w.config.SpreadsheetID, "A:Z", &sheets.ClearValuesRequest{})
	if _, err := clearCall.Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	valueRange := &sheets.ValueRange{Values: values}
	updateCall := w.service.Spreadsheets.Values.Update(w.config.SpreadsheetID, "A1", valueRange).
		ValueInputOption("USER_ENTERED")
	if _, err := updateCall.Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update sheet: %w", err)
	}

	return nil
}
