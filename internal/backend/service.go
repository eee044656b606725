// Package backend runs a local stand-in for the forecasting service: the
// same wire contract, a placeholder projection, and a SQLite usage ledger.
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/hemalatha2205/CFO-Helper/internal/forecast"
	"github.com/hemalatha2205/CFO-Helper/internal/store"
)

// historyRows is how many past scenarios the report lists.
const historyRows = 5

// Config controls the backend runtime behavior.
type Config struct {
	Addr  string
	Model Model
}

// Ledger is the persistence the backend needs.
type Ledger interface {
	Usage(ctx context.Context) (forecast.Usage, error)
	RecordScenario(ctx context.Context, sc store.Scenario) (forecast.Usage, error)
	RecordReport(ctx context.Context, sizeBytes int) (forecast.Usage, error)
	RecentScenarios(ctx context.Context, limit int) ([]store.Scenario, error)
	LastScenario(ctx context.Context) (store.Scenario, error)
	ReportCount(ctx context.Context) (int, error)
}

// Status is served at /v1/status.
type Status struct {
	StartedAt      time.Time      `json:"started_at"`
	Addr           string         `json:"addr"`
	Requests       int64          `json:"requests"`
	Usage          forecast.Usage `json:"usage"`
	ReportsLogged  int            `json:"reports_logged"`
	LastScenarioAt *time.Time     `json:"last_scenario_at,omitempty"`
	LastError      string         `json:"last_error,omitempty"`
}

// Service provides the backend HTTP API.
type Service struct {
	cfg    Config
	ledger Ledger
	logger *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	startedAt time.Time
	requests  int64
	lastError string
}

// New returns a backend service with the provided config.
func New(cfg Config, ledger Ledger, logger *zap.Logger) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:5000"
	}
	if cfg.Model == (Model{}) {
		cfg.Model = DefaultModel()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		ledger:    ledger,
		logger:    logger,
		now:       time.Now,
		startedAt: time.Now(),
	}
}

// Handler returns the routed, CORS-wrapped HTTP handler.
func (s *Service) Handler() http.Handler {
	router := gin.New()
	router.Use(recovery(s.logger))
	router.Use(requestLogger(s.logger))
	router.Use(s.countRequests)

	router.GET("/healthz", s.handleHealth)
	router.GET("/v1/status", s.handleStatus)
	router.POST("/simulate", s.handleSimulate)
	router.POST("/export-report", s.handleExport)

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	})

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	}).Handler(router)
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info("backend listening", zap.String("op", "backend.run"), zap.String("addr", s.cfg.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("backend shutting down", zap.String("op", "backend.run"))
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("backend http server: %w", err)
	}
}

func (s *Service) countRequests(c *gin.Context) {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()
	c.Next()
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

func (s *Service) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok\n")
}

func (s *Service) handleStatus(c *gin.Context) {
	ctx := c.Request.Context()
	usage, err := s.ledger.Usage(ctx)
	if err != nil {
		s.recordError(err)
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "LEDGER_ERROR", "usage unavailable")
		return
	}

	s.mu.RLock()
	st := Status{
		StartedAt: s.startedAt,
		Addr:      s.cfg.Addr,
		Requests:  s.requests,
		Usage:     usage,
		LastError: s.lastError,
	}
	s.mu.RUnlock()

	last, err := s.ledger.LastScenario(ctx)
	switch {
	case err == nil:
		st.LastScenarioAt = &last.CreatedAt
	case !errors.Is(err, store.ErrNoScenario):
		s.recordError(err)
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "LEDGER_ERROR", "scenario history unavailable")
		return
	}

	if st.ReportsLogged, err = s.ledger.ReportCount(ctx); err != nil {
		s.recordError(err)
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "LEDGER_ERROR", "report log unavailable")
		return
	}

	c.JSON(http.StatusOK, st)
}

func (s *Service) handleSimulate(c *gin.Context) {
	var req forecast.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "body must be {hires, extra_spend, price_delta}")
		return
	}
	if req.Hires < 0 || req.ExtraSpend < 0 || req.PriceDelta < 0 {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "scenario values must not be negative")
		return
	}

	f := s.cfg.Model.Project(req)
	usage, err := s.ledger.RecordScenario(c.Request.Context(), store.Scenario{
		Hires:      req.Hires,
		ExtraSpend: req.ExtraSpend,
		PriceDelta: req.PriceDelta,
		Forecast:   f,
	})
	if err != nil {
		s.recordError(err)
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "LEDGER_ERROR", "could not record scenario")
		return
	}

	s.logger.Debug("scenario simulated",
		zap.String("op", "backend.simulate"),
		zap.String(requestIDKey, c.GetString(requestIDKey)),
		zap.Int("hires", req.Hires),
		zap.Float64("extra_spend", req.ExtraSpend),
		zap.Float64("price_delta", req.PriceDelta),
		zap.Float64("profit", f.Profit),
	)

	c.JSON(http.StatusOK, forecast.SimulateResponse{Forecast: &f, Usage: &usage})
}

func (s *Service) handleExport(c *gin.Context) {
	ctx := c.Request.Context()

	history, err := s.ledger.RecentScenarios(ctx, historyRows)
	if err != nil {
		s.recordError(err)
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "LEDGER_ERROR", "could not load scenarios")
		return
	}
	usage, err := s.ledger.Usage(ctx)
	if err != nil {
		s.recordError(err)
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "LEDGER_ERROR", "usage unavailable")
		return
	}

	// The report shows the counters as they will read once this export is logged.
	usage.Reports++
	data := reportData{GeneratedAt: s.now(), History: history, Usage: usage}
	if len(history) > 0 {
		data.Scenario = &history[0]
	}

	var buf bytes.Buffer
	if err := renderReport(&buf, data); err != nil {
		s.recordError(err)
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "RENDER_ERROR", "could not render report")
		return
	}

	if _, err := s.ledger.RecordReport(ctx, buf.Len()); err != nil {
		s.recordError(err)
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "LEDGER_ERROR", "could not record report")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
