package cmd

import (
	"fmt"

	"github.com/hemalatha2205/CFO-Helper/internal/config"
	"github.com/hemalatha2205/CFO-Helper/internal/logging"
	"github.com/hemalatha2205/CFO-Helper/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive scenario dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	path := configPath()
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}

	logger, err := logging.ForTUI(cfg.Logging, flagLogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Config:     cfg,
		ConfigPath: path,
		Logger:     logger,
		NeedSetup:  !config.Exists(path),
	}).WithBackendOverride(flagBackend, flagTimeout)

	logger.Info("dashboard starting", zap.String("op", "cmd.tui"), zap.String("config", path))

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
