package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USER", "tester")
	return home
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".plancore", "plancore.db"), cfg.DBPath)
	assert.Equal(t, DefaultBusyTimeoutMs, cfg.BusyTimeoutMs)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, DefaultOrganization, cfg.Organization)
	assert.Equal(t, "tester", cfg.Actor)
}

func TestLoad_FileValues(t *testing.T) {
	home := isolate(t)
	dir := t.TempDir()
	doc := `
db:
  path: ~/work/plan.db
  busy_timeout_ms: 250
log:
  level: DEBUG
  format: json
organization: acme
actor: ci-bot
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plancore.yaml"), []byte(doc), 0o644))

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "work", "plan.db"), cfg.DBPath)
	assert.Equal(t, 250, cfg.BusyTimeoutMs)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "acme", cfg.Organization)
	assert.Equal(t, "ci-bot", cfg.Actor)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plancore.yaml"), []byte("organization: acme\n"), 0o644))
	t.Setenv("PLANCORE_ORGANIZATION", "globex")
	t.Setenv("PLANCORE_DB_PATH", "/tmp/override.db")
	t.Setenv("PLANCORE_DB_BUSY_TIMEOUT_MS", "900")

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, "globex", cfg.Organization)
	assert.Equal(t, "/tmp/override.db", cfg.DBPath)
	assert.Equal(t, 900, cfg.BusyTimeoutMs)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	isolate(t)
	t.Setenv("PLANCORE_LOG_FORMAT", "xml")

	_, err := Load("", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{"negative busy timeout", func(c *Config) { c.BusyTimeoutMs = -1 }, "busy_timeout_ms"},
		{"bad level", func(c *Config) { c.LogLevel = "chatty" }, "log.level"},
		{"empty organization", func(c *Config) { c.Organization = "" }, "organization"},
		{"empty db path", func(c *Config) { c.DBPath = "" }, "db.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}

func TestNewLogger_JSONFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":1`)
}
