package cmd

import (
	"errors"
	"fmt"

	"github.com/hemalatha2205/CFO-Helper/internal/config"
	"github.com/hemalatha2205/CFO-Helper/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	path := configPath()

	// Load existing config or defaults
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}

	cfg, err = tui.RunSetup(cfg)
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Println("  Setup cancelled, nothing saved.")
		return nil
	}
	if err != nil {
		return err
	}

	if err := config.SaveTo(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", path)
	fmt.Println("  Run `cfohelper setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
