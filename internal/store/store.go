// Package store provides the SQLite ledger behind the local forecasting
// backend: usage counters and the history of simulated scenarios.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hemalatha2205/CFO-Helper/internal/forecast"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNoScenario is returned when no scenario has been recorded yet.
var ErrNoScenario = errors.New("store: no scenario recorded")

// Store is a SQLite-backed usage ledger.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Scenario is one recorded simulation: the inputs and the forecast produced.
type Scenario struct {
	ID         int64
	CreatedAt  time.Time
	Hires      int
	ExtraSpend float64
	PriceDelta float64
	Forecast   forecast.Forecast
}

// Open opens or creates the ledger database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}
	// A single connection serialises writers so counter updates never race.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the ledger database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Usage returns the current counters.
func (s *Store) Usage(ctx context.Context) (forecast.Usage, error) {
	var u forecast.Usage
	err := s.db.QueryRowContext(ctx, "SELECT scenarios, reports FROM usage WHERE id = 1").
		Scan(&u.Scenarios, &u.Reports)
	if err != nil {
		return forecast.Usage{}, fmt.Errorf("reading usage: %w", err)
	}
	return u, nil
}

// RecordScenario stores a simulated scenario, bumps the scenario counter and
// returns the counters as they stand after the update.
func (s *Store) RecordScenario(ctx context.Context, sc Scenario) (forecast.Usage, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return forecast.Usage{}, err
	}
	defer func() { _ = tx.Rollback() }()

	now := s.timestamp()
	_, err = tx.ExecContext(ctx, `INSERT INTO scenarios
		(created_at, hires, extra_spend, price_delta, revenue, expenses, profit, runway_months)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		now, sc.Hires, sc.ExtraSpend, sc.PriceDelta,
		sc.Forecast.Revenue, sc.Forecast.Expenses, sc.Forecast.Profit, sc.Forecast.RunwayMonths,
	)
	if err != nil {
		return forecast.Usage{}, fmt.Errorf("inserting scenario: %w", err)
	}

	u, err := bump(ctx, tx, "scenarios", now)
	if err != nil {
		return forecast.Usage{}, err
	}
	return u, tx.Commit()
}

// RecordReport logs a generated report of the given size against the latest
// scenario and bumps the report counter.
func (s *Store) RecordReport(ctx context.Context, sizeBytes int) (forecast.Usage, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return forecast.Usage{}, err
	}
	defer func() { _ = tx.Rollback() }()

	now := s.timestamp()
	_, err = tx.ExecContext(ctx, `INSERT INTO reports (created_at, scenario_id, size_bytes)
		VALUES (?, (SELECT MAX(id) FROM scenarios), ?)`, now, sizeBytes)
	if err != nil {
		return forecast.Usage{}, fmt.Errorf("inserting report: %w", err)
	}

	u, err := bump(ctx, tx, "reports", now)
	if err != nil {
		return forecast.Usage{}, err
	}
	return u, tx.Commit()
}

// LastScenario returns the most recently recorded scenario, or ErrNoScenario.
func (s *Store) LastScenario(ctx context.Context) (Scenario, error) {
	list, err := s.RecentScenarios(ctx, 1)
	if err != nil {
		return Scenario{}, err
	}
	if len(list) == 0 {
		return Scenario{}, ErrNoScenario
	}
	return list[0], nil
}

// RecentScenarios returns up to limit scenarios, newest first.
func (s *Store) RecentScenarios(ctx context.Context, limit int) ([]Scenario, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, created_at, hires, extra_spend, price_delta, revenue, expenses, profit, runway_months
		FROM scenarios ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Scenario
	for rows.Next() {
		var sc Scenario
		var created string
		err := rows.Scan(&sc.ID, &created, &sc.Hires, &sc.ExtraSpend, &sc.PriceDelta,
			&sc.Forecast.Revenue, &sc.Forecast.Expenses, &sc.Forecast.Profit, &sc.Forecast.RunwayMonths)
		if err != nil {
			return nil, err
		}
		if sc.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("scenario %d created_at: %w", sc.ID, err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// ReportCount returns the number of logged reports.
func (s *Store) ReportCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&n)
	return n, err
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// bump increments one usage column inside tx and reads back both counters.
// column is always one of the two literal names used above.
func bump(ctx context.Context, tx *sql.Tx, column, now string) (forecast.Usage, error) {
	q := fmt.Sprintf("UPDATE usage SET %s = %s + 1, updated_at = ? WHERE id = 1", column, column) //nolint:gosec // fixed column names
	if _, err := tx.ExecContext(ctx, q, now); err != nil {
		return forecast.Usage{}, fmt.Errorf("updating usage: %w", err)
	}
	var u forecast.Usage
	err := tx.QueryRowContext(ctx, "SELECT scenarios, reports FROM usage WHERE id = 1").
		Scan(&u.Scenarios, &u.Reports)
	if err != nil {
		return forecast.Usage{}, fmt.Errorf("reading usage: %w", err)
	}
	return u, nil
}
