package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/fmeinberg/kontor/internal/config"
	"github.com/fmeinberg/kontor/internal/model"
	"github.com/fmeinberg/kontor/internal/service"
	"github.com/fmeinberg/kontor/internal/storage"
	"github.com/fmeinberg/kontor/internal/tax"
)

// initStorage initializes the storage service with proper path expansion
// and runs pending migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// taxConfig builds the statutory constants, applying config overrides.
func taxConfig() tax.Config {
	cfg := tax.DefaultConfig()

	if v := viper.GetFloat64("tax.gwg_threshold"); v > 0 {
		cfg.GWGThreshold = v
	}
	if v := viper.GetFloat64("tax.home_office_allowance"); v > 0 {
		cfg.HomeOfficeAllowance = v
	}
	if v := viper.GetFloat64("reconcile.high_confidence"); v > 0 {
		cfg.HighConfidenceThreshold = v
	}

	return cfg
}

// parseID parses a numeric record ID argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

func currentYear() int {
	return time.Now().Year()
}

// parseDate parses a YYYY-MM-DD argument.
func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return d, nil
}

// parseVATRate validates a VAT rate argument against the statutory rates.
func parseVATRate(rate int) (model.VATRate, error) {
	switch model.VATRate(rate) {
	case model.VATZero, model.VATReduced, model.VATStandard:
		return model.VATRate(rate), nil
	default:
		return 0, fmt.Errorf("invalid VAT rate %d, expected 0, 7, or 19", rate)
	}
}
