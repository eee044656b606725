// Package config loads and saves the cfohelper TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	appName = "cfohelper"

	// DefaultBackendURL is where the forecasting service listens by default.
	DefaultBackendURL = "http://127.0.0.1:5000"
	// DefaultTimeoutSec bounds every backend call.
	DefaultTimeoutSec = 10

	envBackendURL     = "CFO_BACKEND_URL"
	envBackendTimeout = "CFO_BACKEND_TIMEOUT"
)

// Config holds all cfohelper configuration.
type Config struct {
	Backend    BackendConfig    `toml:"backend"`
	Report     ReportConfig     `toml:"report"`
	Appearance AppearanceConfig `toml:"appearance"`
	Logging    LoggingConfig    `toml:"logging"`
	Stub       StubConfig       `toml:"stub"`
}

// BackendConfig points the client at the forecasting service.
type BackendConfig struct {
	URL        string `toml:"url"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// ReportConfig controls where exported reports are saved.
type ReportConfig struct {
	Dir string `toml:"dir,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	OutputFile string `toml:"output_file,omitempty"`
}

// StubConfig tunes the local stand-in forecasting backend.
type StubConfig struct {
	Addr            string  `toml:"addr"`
	DBPath          string  `toml:"db_path,omitempty"`
	BaseRevenue     float64 `toml:"base_revenue"`
	BaseExpenses    float64 `toml:"base_expenses"`
	CostPerHire     float64 `toml:"cost_per_hire"`
	CashOnHand      float64 `toml:"cash_on_hand"`
	MaxRunwayMonths float64 `toml:"max_runway_months"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			URL:        DefaultBackendURL,
			TimeoutSec: DefaultTimeoutSec,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Stub: StubConfig{
			Addr:            "127.0.0.1:5000",
			BaseRevenue:     500_000,
			BaseExpenses:    300_000,
			CostPerHire:     60_000,
			CashOnHand:      2_400_000,
			MaxRunwayMonths: 60,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// CacheDir returns the XDG-compliant cache directory, used for logs and the stub database.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
// Fields absent from the file keep their default values.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the local user
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user-chosen path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// BackendURL returns the backend URL from env var or config, in that order.
func BackendURL(cfg Config) string {
	if u := strings.TrimSpace(os.Getenv(envBackendURL)); u != "" {
		return u
	}
	if cfg.Backend.URL == "" {
		return DefaultBackendURL
	}
	return cfg.Backend.URL
}

// BackendTimeout returns the per-call timeout from env var or config, in that
// order. The env var accepts a Go duration ("15s") or whole seconds ("15").
func BackendTimeout(cfg Config) time.Duration {
	if raw := strings.TrimSpace(os.Getenv(envBackendTimeout)); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	if cfg.Backend.TimeoutSec <= 0 {
		return DefaultTimeoutSec * time.Second
	}
	return time.Duration(cfg.Backend.TimeoutSec) * time.Second
}

// ReportDir returns where reports are saved: the configured dir, or the
// current working directory.
func ReportDir(cfg Config) string {
	if cfg.Report.Dir != "" {
		return expandHome(cfg.Report.Dir)
	}
	return "."
}

// StubDBPath returns the stub backend's database path.
func StubDBPath(cfg Config) string {
	if cfg.Stub.DBPath != "" {
		return expandHome(cfg.Stub.DBPath)
	}
	return filepath.Join(CacheDir(), "backend.db")
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
