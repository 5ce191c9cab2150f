package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "mode: both\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTP.Addr)
	assert.Equal(t, "https://api.binance.com", cfg.Reporter.Source.APIURL)
	assert.Equal(t, "BTCUSDT", cfg.Reporter.Source.Symbol)
	assert.Equal(t, "0 * * * * *", cfg.Reporter.Schedule)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.NoError(t, Validate(cfg))
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("ORACLE_HTTP_ADDR", ":9999")
	path := writeConfig(t, `
mode: server
server:
  http:
    addr: ${ORACLE_HTTP_ADDR}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.HTTP.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestValidate_RejectsUnknownMode(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	cfg.Mode = "standalone"
	err = Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestValidate_ReporterModeRequiresSubmitURL(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	cfg.Mode = ModeReporter
	err = Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSubmitURL)

	cfg.Reporter.SubmitURL = "http://aggregator:8080"
	assert.NoError(t, Validate(cfg))
}

func TestValidate_RejectsBadLoggingLevel(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	cfg.Logging.Level = "loud"
	err = Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestModeHelpers(t *testing.T) {
	cfg := &Config{Mode: "Both"}
	assert.True(t, cfg.IsServerMode())
	assert.True(t, cfg.IsReporterMode())

	cfg.Mode = "server"
	assert.True(t, cfg.IsServerMode())
	assert.False(t, cfg.IsReporterMode())

	cfg.Mode = "reporter"
	assert.False(t, cfg.IsServerMode())
	assert.True(t, cfg.IsReporterMode())
}
