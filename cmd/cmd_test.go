package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hemalatha2205/CFO-Helper/internal/backend"
	"github.com/hemalatha2205/CFO-Helper/internal/config"
	"github.com/hemalatha2205/CFO-Helper/internal/forecast"
)

func TestPIDFile(t *testing.T) {
	pf := pidFile(filepath.Join(t.TempDir(), "run", "backend.pid"))

	if _, err := pf.read(); err == nil {
		t.Fatal("read of a missing pid file succeeded")
	}
	if err := pf.claim(4242); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if pid, err := pf.read(); err != nil || pid != 4242 {
		t.Fatalf("read = %d, %v", pid, err)
	}

	if err := os.WriteFile(string(pf), []byte("nope\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := pf.read(); err == nil {
		t.Fatal("read accepted garbage")
	}

	pf.release()
	if _, err := os.Stat(string(pf)); !os.IsNotExist(err) {
		t.Fatalf("pid file still present: %v", err)
	}
}

func TestPIDFileClaimRefusesLiveHolder(t *testing.T) {
	pf := pidFile(filepath.Join(t.TempDir(), "backend.pid"))
	if err := pf.claim(os.Getpid()); err != nil {
		t.Fatal(err)
	}
	if err := pf.claim(os.Getpid() + 1_000_000); err == nil {
		t.Fatal("claim succeeded while a live process holds the file")
	}
	// Reclaiming with the same pid is allowed.
	if err := pf.claim(os.Getpid()); err != nil {
		t.Fatalf("reclaim: %v", err)
	}
}

func TestFetchStubStatus(t *testing.T) {
	last := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/status" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(backend.Status{
			Requests:       1234,
			Usage:          forecast.Usage{Scenarios: 3, Reports: 1},
			ReportsLogged:  1,
			LastScenarioAt: &last,
		})
	}))
	defer srv.Close()

	st, err := fetchStubStatus(context.Background(), strings.TrimPrefix(srv.URL, "http://"))
	if err != nil {
		t.Fatalf("fetchStubStatus: %v", err)
	}
	if st.Requests != 1234 || st.ReportsLogged != 1 || st.Usage.Scenarios != 3 {
		t.Fatalf("status = %+v", st)
	}
	if st.LastScenarioAt == nil || !st.LastScenarioAt.Equal(last) {
		t.Fatalf("LastScenarioAt = %v", st.LastScenarioAt)
	}
}

func TestFetchStubStatusHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := fetchStubStatus(context.Background(), strings.TrimPrefix(srv.URL, "http://")); err == nil ||
		!strings.Contains(err.Error(), "500") {
		t.Fatalf("err = %v, want HTTP 500", err)
	}
}

func TestBackendFlagPrecedence(t *testing.T) {
	t.Cleanup(func() {
		flagBackend = ""
		flagTimeout = 0
	})
	t.Setenv("CFO_BACKEND_URL", "http://env:1")
	t.Setenv("CFO_BACKEND_TIMEOUT", "")
	cfg := config.DefaultConfig()

	if got := backendURL(cfg); got != "http://env:1" {
		t.Fatalf("backendURL = %q, want env value", got)
	}
	if got := backendURLSource(cfg); got != "CFO_BACKEND_URL" {
		t.Fatalf("backendURLSource = %q", got)
	}

	flagBackend = "http://flag:2"
	flagTimeout = 3 * time.Second
	if got := backendURL(cfg); got != "http://flag:2" {
		t.Fatalf("backendURL = %q, want flag value", got)
	}
	if got := backendTimeout(cfg); got != 3*time.Second {
		t.Fatalf("backendTimeout = %v", got)
	}

	c, err := newClient(cfg, nil)
	if err != nil {
		t.Fatalf("newClient: %v", err)
	}
	if c.BaseURL() != "http://flag:2" {
		t.Fatalf("client BaseURL = %q", c.BaseURL())
	}
}

func TestStubModelFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Stub.CostPerHire = 75_000
	m := stubModel(cfg)
	if m.CostPerHire != 75_000 || m.BaseRevenue != cfg.Stub.BaseRevenue || m.MaxRunwayMonths != cfg.Stub.MaxRunwayMonths {
		t.Fatalf("stubModel = %+v", m)
	}
}
