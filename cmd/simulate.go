package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/hemalatha2205/CFO-Helper/internal/cli"
	"github.com/hemalatha2205/CFO-Helper/internal/scenario"
	"github.com/hemalatha2205/CFO-Helper/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagSimHires      int
	flagSimExtraSpend float64
	flagSimPriceDelta int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one scenario and print the forecast",
	Example: `  cfohelper simulate --hires 2 --extra-spend 10000 --price-delta 5
  cfohelper simulate --backend http://forecast.internal:5000 --hires 4`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimHires, "hires", 0,
		fmt.Sprintf("New hires (%d-%d)", scenario.MinHires, scenario.MaxHires))
	simulateCmd.Flags().Float64Var(&flagSimExtraSpend, "extra-spend", 0,
		fmt.Sprintf("Extra monthly spend in rupees (%d-%d, steps of %d)", scenario.MinExtraSpend, scenario.MaxExtraSpend, scenario.SpendStep))
	simulateCmd.Flags().IntVar(&flagSimPriceDelta, "price-delta", 0,
		fmt.Sprintf("Price increase in percent (%d-%d)", scenario.MinPriceDelta, scenario.MaxPriceDelta))
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(_ *cobra.Command, _ []string) error {
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

	sess := session.New()
	sess.Params.SetHires(flagSimHires)
	sess.Params.SetExtraSpend(flagSimExtraSpend)
	sess.Params.SetPriceDeltaPercent(flagSimPriceDelta)
	warnClamped(sess.Params.Values())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	progress("  Simulating against %s...\n", client.BaseURL())
	if err := sess.Simulate(ctx, client); err != nil {
		logger.Debug("simulate failed", zap.String("op", "cmd.simulate"), zap.Error(err))
		return err
	}

	printForecast(sess)
	return nil
}

// warnClamped tells the user when a flag was pulled into range.
func warnClamped(got scenario.Values) {
	if flagQuiet {
		return
	}
	if got.Hires != flagSimHires {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(fmt.Sprintf("--hires %d out of range, using %d", flagSimHires, got.Hires)))
	}
	if got.ExtraSpend != flagSimExtraSpend {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(fmt.Sprintf("--extra-spend %s adjusted to %s",
			strconv.FormatFloat(flagSimExtraSpend, 'f', -1, 64), cli.FormatRupees(got.ExtraSpend))))
	}
	if got.PriceDeltaPercent != flagSimPriceDelta {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(fmt.Sprintf("--price-delta %d out of range, using %d", flagSimPriceDelta, got.PriceDeltaPercent)))
	}
}

func printForecast(sess *session.Session) {
	f, _ := sess.Forecast()
	chart, _ := sess.Chart()
	v := sess.Params.Values()

	fmt.Println()
	fmt.Println(cli.RenderTitle("CFO HELPER  Scenario forecast"))
	fmt.Println()

	for _, line := range sess.ForecastLines() {
		fmt.Printf("  %s\n", line)
	}
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Scenario",
		Headers: []string{"Input", "Value", "Range"},
		Rows: [][]string{
			{"Hires", strconv.Itoa(v.Hires), rangeGauge(sess, scenario.FieldHires)},
			{"Extra Spend", cli.FormatRupees(v.ExtraSpend), rangeGauge(sess, scenario.FieldExtraSpend)},
			{"Price Increase", cli.FormatPercent(v.PriceDeltaPercent), rangeGauge(sess, scenario.FieldPriceDelta)},
		},
	}))

	months := float64(session.ChartMonths)
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Forecast",
		Headers: []string{"Metric", "Monthly", "Next 6 months"},
		Rows: [][]string{
			{"Revenue", cli.FormatRupees(f.Revenue), cli.FormatRupees(f.Revenue * months)},
			{"Expenses", cli.FormatRupees(f.Expenses), cli.FormatRupees(f.Expenses * months)},
			{"---"},
			{"Profit", cli.FormatSigned(f.Profit), cli.FormatSigned(f.Profit * months)},
			{"Runway", cli.FormatMonths(f.RunwayMonths), ""},
		},
	}))

	fmt.Println(cli.RenderMuted("  Next 6 months"))
	fmt.Print(cli.RenderMonthlyBars(chart.Labels[:], chart.Datasets[0].Values[:], chart.Datasets[1].Values[:], 40))
	fmt.Println()
	fmt.Printf("  %s\n\n", sess.UsageLine())
}

func rangeGauge(sess *session.Session, field scenario.Field) string {
	return cli.RenderProgressBar(sess.Params.Fraction(field), 12)
}
