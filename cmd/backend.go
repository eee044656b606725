package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hemalatha2205/CFO-Helper/internal/backend"
	"github.com/hemalatha2205/CFO-Helper/internal/cli"
	"github.com/hemalatha2205/CFO-Helper/internal/config"
	"github.com/hemalatha2205/CFO-Helper/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagStubAddr    string
	flagStubDB      string
	flagStubPIDFile string
)

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Run the local stub forecasting backend",
	Long: "Serves /simulate and /export-report with a placeholder projection and a SQLite usage ledger.\n" +
		"Use it for demos and manual testing; it is not a real forecasting engine.",
	RunE: runStub,
}

var backendStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Ask a running stub backend for its counters",
	RunE:  runStubStatus,
}

var backendStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Send SIGTERM to the stub backend recorded in the pid file",
	RunE:  runStubStop,
}

func init() {
	backendCmd.PersistentFlags().StringVar(&flagStubAddr, "addr", "", "HTTP listen address (default from [stub] addr)")
	backendCmd.PersistentFlags().StringVar(&flagStubPIDFile, "pid-file",
		filepath.Join(config.CacheDir(), "backend.pid"), "Where the running stub records its pid")
	backendCmd.Flags().StringVar(&flagStubDB, "db", "", "SQLite database path (default from [stub] db_path)")

	backendCmd.AddCommand(backendStatusCmd, backendStopCmd)
	rootCmd.AddCommand(backendCmd)
}

func stubAddr(cfg config.Config) string {
	if flagStubAddr != "" {
		return flagStubAddr
	}
	return cfg.Stub.Addr
}

func stubModel(cfg config.Config) backend.Model {
	return backend.Model{
		BaseRevenue:     cfg.Stub.BaseRevenue,
		BaseExpenses:    cfg.Stub.BaseExpenses,
		CostPerHire:     cfg.Stub.CostPerHire,
		CashOnHand:      cfg.Stub.CashOnHand,
		MaxRunwayMonths: cfg.Stub.MaxRunwayMonths,
	}
}

func runStub(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	pf := pidFile(flagStubPIDFile)
	if err := pf.claim(os.Getpid()); err != nil {
		return err
	}
	defer pf.release()

	dbPath := flagStubDB
	if dbPath == "" {
		dbPath = config.StubDBPath(cfg)
	}
	ledger, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open backend database: %w", err)
	}
	defer func() { _ = ledger.Close() }()

	addr := stubAddr(cfg)
	svc := backend.New(backend.Config{Addr: addr, Model: stubModel(cfg)}, ledger, logger)

	fmt.Printf("  Stub backend on http://%s (ledger %s)\n", addr, dbPath)
	fmt.Println(cli.RenderMuted("  Ctrl+C or `cfohelper backend stop` to shut it down"))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stub backend exited", zap.String("op", "cmd.backend"), zap.Error(err))
		return err
	}
	return nil
}

func runStubStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	addr := stubAddr(cfg)
	if pid, err := pidFile(flagStubPIDFile).read(); err == nil {
		fmt.Printf("  PID:       %d\n", pid)
	}
	fmt.Printf("  Address:   http://%s\n", addr)

	st, err := fetchStubStatus(cmd.Context(), addr)
	if err != nil {
		fmt.Println(cli.RenderWarning("  Not answering: " + err.Error()))
		return nil
	}

	fmt.Printf("  Up since:  %s\n", st.StartedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Requests:  %s\n", cli.FormatNumber(st.Requests))
	fmt.Printf("  Scenarios: %s\n", cli.FormatNumber(int64(st.Usage.Scenarios)))
	fmt.Printf("  Reports:   %s (%s in the log)\n",
		cli.FormatNumber(int64(st.Usage.Reports)), cli.FormatNumber(int64(st.ReportsLogged)))
	if st.LastScenarioAt != nil {
		fmt.Printf("  Last run:  %s\n", st.LastScenarioAt.Local().Format(time.RFC3339))
	}
	if st.LastError != "" {
		fmt.Println(cli.RenderWarning("  Last error: " + st.LastError))
	}
	return nil
}

func fetchStubStatus(ctx context.Context, addr string) (backend.Status, error) {
	var st backend.Status
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("decode status: %w", err)
	}
	return st, nil
}

func runStubStop(_ *cobra.Command, _ []string) error {
	pf := pidFile(flagStubPIDFile)
	pid, err := pf.read()
	if err != nil {
		return errors.New("no stub backend recorded; is it running?")
	}
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal pid %d: %w", pid, err)
	}

	for deadline := time.Now().Add(8 * time.Second); time.Now().Before(deadline); {
		if !pidRunning(pid) {
			pf.release()
			fmt.Printf("  Stub backend %d stopped\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return fmt.Errorf("pid %d still running after SIGTERM", pid)
}

// pidFile marks a foreground stub backend so `backend stop` can find it.
type pidFile string

func (p pidFile) read() (int, error) {
	data, err := os.ReadFile(string(p))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("%s does not hold a pid", p)
	}
	return pid, nil
}

// claim records pid, refusing while another live process holds the file.
// A file left behind by a dead process is overwritten.
func (p pidFile) claim(pid int) error {
	if held, err := p.read(); err == nil && held != pid && pidRunning(held) {
		return fmt.Errorf("stub backend already running (pid %d)", held)
	}
	if err := os.MkdirAll(filepath.Dir(string(p)), 0o750); err != nil {
		return fmt.Errorf("create pid directory: %w", err)
	}
	return os.WriteFile(string(p), []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func (p pidFile) release() { _ = os.Remove(string(p)) }

func pidRunning(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
