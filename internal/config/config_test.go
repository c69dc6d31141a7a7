package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
server:
  port: 9100
data:
  provider: csv
  csv_dir: /var/data/prices
backtest:
  risk_free_rate: 0.1475
  holding_days: calendar
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "csv", cfg.Data.Provider)
	assert.Equal(t, "/var/data/prices", cfg.Data.CSVDir)
	assert.Equal(t, 0.1475, cfg.Backtest.RiskFreeRate)
	assert.Equal(t, "calendar", cfg.Backtest.HoldingDays)
	// Untouched defaults survive.
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 30, cfg.Backtest.VolWindow)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("STRANGLE_PORT", "9300")
	t.Setenv("STRANGLE_LOG_LEVEL", "trace")
	t.Setenv("STRANGLE_DATA_PROVIDER", "synthetic")

	cfg, err := LoadWithEnv("")
	require.NoError(t, err)
	assert.Equal(t, 9300, cfg.Server.Port)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.Equal(t, "synthetic", cfg.Data.Provider)
}

func TestLoadWithEnvBadPort(t *testing.T) {
	t.Setenv("STRANGLE_PORT", "not-a-port")
	_, err := LoadWithEnv("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Data.Provider = "ftp"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Data.Provider = "csv"
	assert.Error(t, cfg.Validate(), "csv provider needs a directory")
	cfg.Data.CSVDir = "/tmp/prices"
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.Backtest.HoldingDays = "lunar"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}
