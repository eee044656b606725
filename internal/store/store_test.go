package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hemalatha2205/CFO-Helper/internal/forecast"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "backend.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFreshStoreHasZeroUsage(t *testing.T) {
	s := openTemp(t)
	u, err := s.Usage(context.Background())
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if u != (forecast.Usage{}) {
		t.Fatalf("Usage = %+v, want zero", u)
	}
	if _, err := s.LastScenario(context.Background()); !errors.Is(err, ErrNoScenario) {
		t.Fatalf("LastScenario err = %v, want ErrNoScenario", err)
	}
}

func TestRecordScenarioAndReport(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	first := Scenario{Hires: 2, ExtraSpend: 10_000, PriceDelta: 5,
		Forecast: forecast.Forecast{Revenue: 525_000, Expenses: 430_000, Profit: 95_000, RunwayMonths: 60}}
	u, err := s.RecordScenario(ctx, first)
	if err != nil {
		t.Fatalf("RecordScenario: %v", err)
	}
	if u.Scenarios != 1 || u.Reports != 0 {
		t.Fatalf("usage after scenario = %+v", u)
	}

	second := first
	second.Hires = 7
	if _, err := s.RecordScenario(ctx, second); err != nil {
		t.Fatalf("RecordScenario: %v", err)
	}

	u, err = s.RecordReport(ctx, 2048)
	if err != nil {
		t.Fatalf("RecordReport: %v", err)
	}
	if u.Scenarios != 2 || u.Reports != 1 {
		t.Fatalf("usage after report = %+v", u)
	}

	last, err := s.LastScenario(ctx)
	if err != nil {
		t.Fatalf("LastScenario: %v", err)
	}
	if last.Hires != 7 || last.Forecast.Profit != 95_000 {
		t.Fatalf("LastScenario = %+v", last)
	}
	if last.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not parsed")
	}

	recent, err := s.RecentScenarios(ctx, 10)
	if err != nil {
		t.Fatalf("RecentScenarios: %v", err)
	}
	if len(recent) != 2 || recent[0].Hires != 7 || recent[1].Hires != 2 {
		t.Fatalf("RecentScenarios order wrong: %+v", recent)
	}

	n, err := s.ReportCount(ctx)
	if err != nil || n != 1 {
		t.Fatalf("ReportCount = %d, %v", n, err)
	}
}

func TestCountersSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "backend.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordReport(ctx, 10); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close() }()

	u, err := s.Usage(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if u.Reports != 1 {
		t.Fatalf("Reports after reopen = %d, want 1", u.Reports)
	}
}

func TestRecentScenariosRejectsBadTimestamp(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	_, err := s.db.ExecContext(ctx, `INSERT INTO scenarios
		(created_at, hires, extra_spend, price_delta, revenue, expenses, profit, runway_months)
		VALUES ('garbage', 1, 0, 0, 0, 0, 0, 0)`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := s.RecentScenarios(ctx, 5); err == nil || !strings.Contains(err.Error(), "created_at") {
		t.Fatalf("RecentScenarios err = %v, want created_at parse error", err)
	}
	if _, err := s.LastScenario(ctx); err == nil {
		t.Fatal("LastScenario should surface the parse error")
	}
}
