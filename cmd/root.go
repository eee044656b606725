// Package cmd implements the cfohelper CLI commands.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/hemalatha2205/CFO-Helper/internal/config"
	"github.com/hemalatha2205/CFO-Helper/internal/forecast"
	"github.com/hemalatha2205/CFO-Helper/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagBackend  string
	flagTimeout  time.Duration
	flagConfig   string
	flagLogLevel string
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "cfohelper",
	Short: "Scenario forecasting for finance teams",
	Long:  "Try hiring, spending and pricing scenarios against a forecasting service and export the results as a PDF report.",
	RunE:  runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagBackend, "backend", "b", "", "Forecasting service base URL (overrides config and CFO_BACKEND_URL)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Per-request timeout, e.g. 15s")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file path (default $XDG_CONFIG_HOME/cfohelper/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.ConfigPath()
}

func loadConfig() (config.Config, error) {
	return config.LoadFrom(configPath())
}

// newLogger builds the CLI logger. --quiet keeps only warnings and errors
// unless --log-level says otherwise.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	level := flagLogLevel
	if level == "" && flagQuiet {
		level = "warn"
	}
	return logging.New(cfg.Logging, level)
}

func backendURL(cfg config.Config) string {
	if flagBackend != "" {
		return flagBackend
	}
	return config.BackendURL(cfg)
}

func backendTimeout(cfg config.Config) time.Duration {
	if flagTimeout > 0 {
		return flagTimeout
	}
	return config.BackendTimeout(cfg)
}

func newClient(cfg config.Config, logger *zap.Logger) (*forecast.Client, error) {
	c, err := forecast.NewClient(backendURL(cfg),
		forecast.WithTimeout(backendTimeout(cfg)),
		forecast.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	return c, nil
}

func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
