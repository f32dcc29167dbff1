package tax

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmeinberg/kontor/internal/model"
	"github.com/fmeinberg/kontor/internal/testutil"
)

func TestService_RegenerateSchedule(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	svc := NewService(db.Storage, DefaultConfig())

	asset := db.SeedAsset(ctx, model.Asset{
		Name:            "Laptop",
		Category:        model.CategoryComputer,
		PurchaseDate:    testutil.Date(2024, time.June, 15),
		PurchasePrice:   2400,
		UsefulLifeYears: 3,
		Method:          model.MethodLinear,
		Status:          model.AssetActive,
	})

	entries, err := svc.RegenerateSchedule(ctx, asset.ID)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	stored, err := db.Storage.GetDepreciationEntries(ctx, asset.ID)
	require.NoError(t, err)
	require.Len(t, stored, 4)
	assert.InDelta(t, 466.67, stored[0].Amount, 0.001)
	assert.Zero(t, stored[3].BookValue)

	// A second run replaces rather than appends.
	_, err = svc.RegenerateSchedule(ctx, asset.ID)
	require.NoError(t, err)

	stored, err = db.Storage.GetDepreciationEntries(ctx, asset.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 4)
}

func TestService_UpdateAsset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	svc := NewService(db.Storage, DefaultConfig())

	asset := db.SeedAsset(ctx, model.Asset{
		Name:            "Laptop",
		Category:        model.CategoryComputer,
		PurchaseDate:    testutil.Date(2024, time.June, 15),
		PurchasePrice:   2400,
		UsefulLifeYears: 3,
		Method:          model.MethodLinear,
		Status:          model.AssetActive,
	})

	_, err := svc.RegenerateSchedule(ctx, asset.ID)
	require.NoError(t, err)

	// Correcting the price replaces the whole schedule with values
	// derived from the new inputs.
	asset.PurchasePrice = 1200
	entries, err := svc.UpdateAsset(ctx, &asset)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.InDelta(t, 233.33, entries[0].Amount, 0.001)
	assert.Zero(t, entries[3].BookValue)

	stored, err := db.Storage.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1200, stored.PurchasePrice, 0.001)

	persisted, err := db.Storage.GetDepreciationEntries(ctx, asset.ID)
	require.NoError(t, err)
	require.Len(t, persisted, 4)
	assert.InDelta(t, 233.33, persisted[0].Amount, 0.001)

	// Shortening the useful life shrinks the entry sequence.
	asset.UsefulLifeYears = 2
	entries, err = svc.UpdateAsset(ctx, &asset)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Zero(t, entries[2].BookValue)
}

func TestService_CurrentBookValue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	svc := NewService(db.Storage, DefaultConfig())

	asset := db.SeedAsset(ctx, model.Asset{
		Name:            "Laptop",
		Category:        model.CategoryComputer,
		PurchaseDate:    testutil.Date(2024, time.June, 15),
		PurchasePrice:   2400,
		UsefulLifeYears: 3,
		Method:          model.MethodLinear,
		Status:          model.AssetActive,
	})
	_, err := svc.RegenerateSchedule(ctx, asset.ID)
	require.NoError(t, err)

	value, err := svc.CurrentBookValue(ctx, asset.ID, 2025)
	require.NoError(t, err)
	assert.InDelta(t, 1133.33, value, 0.001)

	// Before the schedule starts the purchase price stands.
	value, err = svc.CurrentBookValue(ctx, asset.ID, 2023)
	require.NoError(t, err)
	assert.InDelta(t, 2400, value, 0.001)
}

func TestService_QuarterlyVat(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	svc := NewService(db.Storage, DefaultConfig())

	db.SeedIncome(ctx, model.IncomeRecord{
		Date: testutil.Date(2024, time.February, 10), Description: "Consulting",
		EuerLine: 14, NetAmount: 1000, VATRate: model.VATStandard,
	})
	db.SeedExpense(ctx, model.ExpenseRecord{
		Date: testutil.Date(2024, time.March, 1), Description: "Software",
		EuerLine: 27, NetAmount: 300, VATRate: model.VATStandard, VorsteuerClaimed: true,
	})
	// Q2 record must not leak into Q1.
	db.SeedIncome(ctx, model.IncomeRecord{
		Date: testutil.Date(2024, time.April, 1), Description: "Consulting",
		EuerLine: 14, NetAmount: 5000, VATRate: model.VATStandard,
	})

	report, err := svc.QuarterlyVat(ctx, 2024, 1)
	require.NoError(t, err)

	assert.InDelta(t, 190, report.Umsatzsteuer19, 0.001)
	assert.InDelta(t, 57, report.Vorsteuer, 0.001)
	assert.InDelta(t, 133, report.Zahllast, 0.001)
	assert.Equal(t, model.VatDraft, report.Status)
}

func TestService_MarkAsFiled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	svc := NewService(db.Storage, DefaultConfig())
	filedAt := testutil.Date(2024, time.April, 10)
	svc.now = func() time.Time { return filedAt }

	db.SeedIncome(ctx, model.IncomeRecord{
		Date: testutil.Date(2024, time.February, 10), Description: "Consulting",
		EuerLine: 14, NetAmount: 1000, VATRate: model.VATStandard,
	})
	db.SeedExpense(ctx, model.ExpenseRecord{
		Date: testutil.Date(2024, time.March, 1), Description: "Hosting",
		EuerLine: 27, NetAmount: 100, VATRate: model.VATStandard,
	})

	report, err := svc.MarkAsFiled(ctx, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, model.VatFiled, report.Status)
	require.NotNil(t, report.FiledAt)
	assert.Equal(t, filedAt.UTC(), *report.FiledAt)

	// Filing flags the records: income reported, Vorsteuer claimed.
	start, end, err := QuarterRange(2024, 1)
	require.NoError(t, err)
	incomes, err := db.Storage.ListIncomeByDateRange(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	assert.True(t, incomes[0].UstReported)

	expenses, err := db.Storage.ListExpensesByDateRange(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.True(t, expenses[0].VorsteuerClaimed)

	// Filing again must not fail and yields the same numbers.
	again, err := svc.MarkAsFiled(ctx, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, report.Zahllast, again.Zahllast)
}

func TestService_AnnualReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	svc := NewService(db.Storage, DefaultConfig())

	db.SeedIncome(ctx, model.IncomeRecord{
		Date: testutil.Date(2024, time.February, 10), Description: "Consulting",
		EuerLine: 14, NetAmount: 10000, VATRate: model.VATStandard,
	})
	db.SeedExpense(ctx, model.ExpenseRecord{
		Date: testutil.Date(2024, time.March, 1), Description: "Hosting",
		EuerLine: 27, NetAmount: 600, VATRate: model.VATStandard,
	})

	asset := db.SeedAsset(ctx, model.Asset{
		Name:            "Laptop",
		Category:        model.CategoryComputer,
		PurchaseDate:    testutil.Date(2024, time.June, 15),
		PurchasePrice:   2400,
		UsefulLifeYears: 3,
		Method:          model.MethodLinear,
		Status:          model.AssetActive,
	})
	_, err := svc.RegenerateSchedule(ctx, asset.ID)
	require.NoError(t, err)

	report, err := svc.AnnualReport(ctx, 2024)
	require.NoError(t, err)

	cfg := svc.Config()
	assert.InDelta(t, 10000, report.IncomeLines[14], 0.001)
	assert.InDelta(t, 600, report.ExpenseLines[27], 0.001)
	assert.InDelta(t, 466.67, report.ExpenseLines[cfg.Lines.Afa], 0.001)
	assert.InDelta(t, 1260, report.ExpenseLines[cfg.Lines.HomeOffice], 0.001)
	assert.InDelta(t, 10000-600-466.67-1260, report.Gewinn, 0.001)
}
