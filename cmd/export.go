package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hemalatha2205/CFO-Helper/internal/config"
	"github.com/hemalatha2205/CFO-Helper/internal/report"
	"github.com/hemalatha2205/CFO-Helper/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the forecast report and save it as report.pdf",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Directory to save "+report.FileName+" in (default from config, else current directory)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	dir := flagExportOut
	if dir == "" {
		dir = config.ReportDir(cfg)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	progress("  Requesting report from %s...\n", client.BaseURL())
	sess := session.New()
	if err := sess.Export(ctx, client, report.Saver(dir)); err != nil {
		return err
	}

	logger.Info("report saved", zap.String("op", "cmd.export"), zap.String("path", sess.ReportPath()))
	fmt.Printf("  Report saved to %s\n", sess.ReportPath())
	return nil
}
