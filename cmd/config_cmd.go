package cmd

import (
	"fmt"
	"os"

	"github.com/hemalatha2205/CFO-Helper/internal/config"
	"github.com/hemalatha2205/CFO-Helper/internal/report"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	path := configPath()
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", path)
	if config.Exists(path) {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Backend]")
	fmt.Printf("    URL:     %s (%s)\n", backendURL(cfg), backendURLSource(cfg))
	fmt.Printf("    Timeout: %s\n", backendTimeout(cfg))
	fmt.Println()

	fmt.Println("  [Report]")
	fmt.Printf("    Directory: %s\n", config.ReportDir(cfg))
	fmt.Printf("    File name: %s\n", report.FileName)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", cfg.Logging.Level)
	fmt.Printf("    Format: %s\n", cfg.Logging.Format)
	if cfg.Logging.OutputFile != "" {
		fmt.Printf("    File:   %s\n", cfg.Logging.OutputFile)
	}
	fmt.Println()

	fmt.Println("  [Stub backend]")
	fmt.Printf("    Address:       %s\n", cfg.Stub.Addr)
	fmt.Printf("    Database:      %s\n", config.StubDBPath(cfg))
	fmt.Printf("    Base revenue:  %.0f\n", cfg.Stub.BaseRevenue)
	fmt.Printf("    Base expenses: %.0f\n", cfg.Stub.BaseExpenses)
	fmt.Printf("    Cost per hire: %.0f\n", cfg.Stub.CostPerHire)
	fmt.Printf("    Cash on hand:  %.0f\n", cfg.Stub.CashOnHand)
	fmt.Println()

	fmt.Println("  Run `cfohelper setup` to reconfigure.")
	return nil
}

func backendURLSource(cfg config.Config) string {
	switch {
	case flagBackend != "":
		return "--backend flag"
	case os.Getenv("CFO_BACKEND_URL") != "":
		return "CFO_BACKEND_URL"
	case cfg.Backend.URL != "":
		return "config file"
	default:
		return "default"
	}
}
