// Package config loads runtime settings from plancore.yaml and PLANCORE_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// FileName is the config file searched for, without extension.
	FileName  = "plancore"
	EnvPrefix = "PLANCORE"

	DefaultBusyTimeoutMs = 5000
	DefaultOrganization  = "default"
)

// Config holds everything cmd/plancore needs to wire the application.
type Config struct {
	DBPath        string
	BusyTimeoutMs int
	LogLevel      string
	LogFormat     string
	Organization  string
	Actor         string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		DBPath:        defaultDBPath(),
		BusyTimeoutMs: DefaultBusyTimeoutMs,
		LogLevel:      "info",
		LogFormat:     "text",
		Organization:  DefaultOrganization,
		Actor:         os.Getenv("USER"),
	}
}

// Load reads configuration. An explicit file must exist; otherwise
// plancore.yaml is looked up in searchPaths (default: the working directory
// and ~/.plancore) and a missing file means defaults. Environment variables
// override both, e.g. PLANCORE_DB_PATH or PLANCORE_LOG_LEVEL.
func Load(file string, searchPaths ...string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetDefault("db.path", cfg.DBPath)
	v.SetDefault("db.busy_timeout_ms", cfg.BusyTimeoutMs)
	v.SetDefault("log.level", cfg.LogLevel)
	v.SetDefault("log.format", cfg.LogFormat)
	v.SetDefault("organization", cfg.Organization)
	v.SetDefault("actor", cfg.Actor)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		if len(searchPaths) == 0 {
			searchPaths = defaultSearchPaths()
		}
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg.DBPath = expandHome(v.GetString("db.path"))
	cfg.BusyTimeoutMs = v.GetInt("db.busy_timeout_ms")
	cfg.LogLevel = strings.ToLower(v.GetString("log.level"))
	cfg.LogFormat = strings.ToLower(v.GetString("log.format"))
	cfg.Organization = v.GetString("organization")
	cfg.Actor = v.GetString("actor")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot start with.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db.path is required")
	}
	if c.BusyTimeoutMs < 0 {
		return fmt.Errorf("db.busy_timeout_ms must not be negative, got %d", c.BusyTimeoutMs)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log.format: invalid value %q (expected text|json)", c.LogFormat)
	}
	if c.Organization == "" {
		return fmt.Errorf("organization is required")
	}
	return nil
}

func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log.level: invalid value %q", c.LogLevel)
	}
	return lvl, nil
}

// NewLogger builds the structured logger described by the config.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := c.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func defaultSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".plancore"))
	}
	return paths
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "plancore.db"
	}
	return filepath.Join(home, ".plancore", "plancore.db")
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
