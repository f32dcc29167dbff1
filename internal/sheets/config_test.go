package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmeinberg/kontor/internal/common"
)

func TestConfig_Validate(t *testing.T) {
	t.Run("no credentials", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.ErrorIs(t, cfg.Validate(), common.ErrMissingConfig)
	})

	t.Run("service account", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ServiceAccountPath = "/tmp/sa.json"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("oauth", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ClientID = "id"
		cfg.ClientSecret = "secret"
		cfg.RefreshToken = "token"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("partial oauth is not enough", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ClientID = "id"
		assert.ErrorIs(t, cfg.Validate(), common.ErrMissingConfig)
	})
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("KONTOR_SHEETS_SERVICE_ACCOUNT_PATH", "/tmp/sa.json")
	t.Setenv("KONTOR_SHEETS_SPREADSHEET_ID", "sheet-123")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	require.Equal(t, "/tmp/sa.json", cfg.ServiceAccountPath)
	assert.Equal(t, "sheet-123", cfg.SpreadsheetID)
	assert.NoError(t, cfg.Validate())
}
