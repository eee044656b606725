// Package forecast provides a client for the remote forecasting and report service.
package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hemalatha2205/CFO-Helper/internal/scenario"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds every backend call so a hung backend surfaces as a NetworkError.
	DefaultTimeout = 10 * time.Second

	maxJSONBodySize   = 1 << 20  // 1 MB
	maxReportBodySize = 32 << 20 // 32 MB
	userAgent         = "cfohelper/1.0"
)

// ErrEmptyReport indicates the export succeeded at the HTTP level but carried no bytes.
var ErrEmptyReport = errors.New("forecast: empty report document")

// NetworkError is the single error kind returned at the backend boundary.
// It covers connection failures, non-success statuses and decode failures.
type NetworkError struct {
	Op     string // "simulate" or "export-report"
	Status int    // HTTP status, 0 when no response was received
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend not reachable: %s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("backend not reachable: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Client talks to the forecasting backend.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the backend rooted at baseURL.
// It returns an error if baseURL is not an absolute http(s) URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("forecast: parsing backend url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("forecast: backend url %q must be an absolute http(s) url", baseURL)
	}

	c := &Client{
		baseURL: baseURL,
		timeout: DefaultTimeout,
		http:    &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Simulate submits the scenario and returns the forecast and the server's usage snapshot.
// Any failure is returned as a *NetworkError.
func (c *Client) Simulate(ctx context.Context, v scenario.Values) (Result, error) {
	const op = "simulate"

	payload, err := json.Marshal(SimulateRequest{
		Hires:      v.Hires,
		ExtraSpend: v.ExtraSpend,
		PriceDelta: float64(v.PriceDeltaPercent),
	})
	if err != nil {
		return Result{}, &NetworkError{Op: op, Err: fmt.Errorf("encoding request: %w", err)}
	}

	body, err := c.post(ctx, op, "/simulate", payload, "application/json", maxJSONBodySize)
	if err != nil {
		return Result{}, err
	}

	var raw SimulateResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return Result{}, &NetworkError{Op: op, Err: fmt.Errorf("parsing response: %w", err)}
	}
	if raw.Forecast == nil || raw.Usage == nil {
		return Result{}, &NetworkError{Op: op, Err: errors.New("parsing response: missing forecast or usage")}
	}
	if raw.Usage.Scenarios < 0 || raw.Usage.Reports < 0 {
		return Result{}, &NetworkError{Op: op, Err: errors.New("parsing response: negative usage counter")}
	}

	return Result{Forecast: *raw.Forecast, Usage: *raw.Usage}, nil
}

// ExportReport requests the rendered report document and returns its bytes.
// The report is regenerated server-side from the backend's current state.
func (c *Client) ExportReport(ctx context.Context) ([]byte, error) {
	const op = "export-report"

	body, err := c.post(ctx, op, "/export-report", []byte("{}"), "application/pdf", maxReportBodySize)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, &NetworkError{Op: op, Err: ErrEmptyReport}
	}
	return body, nil
}

// post performs a JSON POST and returns the response body, bounded by limit.
func (c *Client) post(ctx context.Context, op, path string, payload []byte, accept string, limit int64) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqID := uuid.NewString()
	log := c.logger.With(zap.String("op", "forecast."+op), zap.String("request_id", reqID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	//nolint:gosec // URL is built from the configured backend
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("unexpected status", zap.Int("status", resp.StatusCode))
		return nil, &NetworkError{Op: op, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		log.Warn("reading response failed", zap.Error(err))
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}
	if int64(len(body)) > limit {
		log.Warn("response too large", zap.Int64("limit", limit))
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("response exceeds %d bytes", limit)}
	}

	log.Debug("request complete",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return body, nil
}
