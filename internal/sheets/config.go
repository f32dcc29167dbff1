// Package sheets provides Google Sheets API integration for report export.
package sheets

import (
	"fmt"
	"os"
	"time"

	"github.com/fmeinberg/kontor/internal/common"
)

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	RetryAttempts      int
	RetryDelay         time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TimeZone:      "Europe/Berlin",
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	}
}

// LoadFromEnv loads the configuration from environment variables.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("KONTOR_SHEETS_CLIENT_ID"); v != "" {
		c.ClientID = v
	}
	if v := os.Getenv("KONTOR_SHEETS_CLIENT_SECRET"); v != "" {
		c.ClientSecret = v
	}
	if v := os.Getenv("KONTOR_SHEETS_REFRESH_TOKEN"); v != "" {
		c.RefreshToken = v
	}
	if v := os.Getenv("KONTOR_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
		c.ServiceAccountPath = v
	}
	if v := os.Getenv("KONTOR_SHEETS_SPREADSHEET_ID"); v != "" {
		c.SpreadsheetID = v
	}
}

// Validate checks that at least one authentication method is configured.
func (c *Config) Validate() error {
	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	hasServiceAccount := c.ServiceAccountPath != ""

	if !hasOAuth && !hasServiceAccount {
		return fmt.Errorf("%w: either OAuth2 credentials or a service account path is required", common.ErrMissingConfig)
	}
	return nil
}
