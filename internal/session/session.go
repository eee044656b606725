// Package session owns the in-memory scenario session: the parameters being
// edited, the last forecast and its chart projection, usage counters, and
// the pending state of backend calls.
//
// A Session is not safe for concurrent use. It is mutated only from the UI
// loop; backend calls run elsewhere and report back through the Complete*
// methods.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hemalatha2205/CFO-Helper/internal/forecast"
	"github.com/hemalatha2205/CFO-Helper/internal/scenario"
)

// ErrBusy is returned when an action is triggered while the same action is still pending.
var ErrBusy = errors.New("session: action already in progress")

// Simulator runs a scenario against the forecasting backend.
type Simulator interface {
	Simulate(ctx context.Context, v scenario.Values) (forecast.Result, error)
}

// Exporter fetches the rendered report document.
type Exporter interface {
	ExportReport(ctx context.Context) ([]byte, error)
}

// SaveFunc stores report bytes locally and returns where they were written.
type SaveFunc func(data []byte) (string, error)

// NoticeKind classifies a user-visible notification.
type NoticeKind int

// Notification kinds.
const (
	NoticeNone NoticeKind = iota
	NoticeInfo
	NoticeSuccess
	NoticeError
)

// Notice is the latest non-blocking message for the user.
type Notice struct {
	Kind NoticeKind
	Text string
	At   time.Time
}

// SimulateTicket identifies one simulate request. Responses carrying a
// ticket other than the latest one are discarded.
type SimulateTicket struct {
	Seq    uint64
	Values scenario.Values
}

// Session is the single source of UI state.
type Session struct {
	Params scenario.Parameters

	forecast *forecast.Forecast
	chart    *ChartSeries
	usage    forecast.Usage

	simulating bool
	exporting  bool
	seq        uint64

	notice     Notice
	reportPath string

	now func() time.Time
}

// New returns an empty session: zero parameters, no forecast, zero usage.
func New() *Session {
	return &Session{now: time.Now}
}

// Forecast returns the last successful forecast, if any.
func (s *Session) Forecast() (forecast.Forecast, bool) {
	if s.forecast == nil {
		return forecast.Forecast{}, false
	}
	return *s.forecast, true
}

// Chart returns the chart projection of the last forecast, if any.
func (s *Session) Chart() (ChartSeries, bool) {
	if s.chart == nil {
		return ChartSeries{}, false
	}
	return *s.chart, true
}

// Usage returns the current usage counters. Reports may run ahead of the
// server until the next successful simulate resynchronises them.
func (s *Session) Usage() forecast.Usage { return s.usage }

// Simulating reports whether a simulate call is pending.
func (s *Session) Simulating() bool { return s.simulating }

// Exporting reports whether an export call is pending.
func (s *Session) Exporting() bool { return s.exporting }

// Notice returns the latest notification.
func (s *Session) Notice() Notice { return s.notice }

// ReportPath returns where the last report was saved, or "".
func (s *Session) ReportPath() string { return s.reportPath }

// Notify replaces the current notification.
func (s *Session) Notify(kind NoticeKind, text string) { s.notify(kind, text) }

// ClearNotice dismisses the current notification.
func (s *Session) ClearNotice() { s.notice = Notice{} }

// BeginSimulate marks a simulate call as pending and returns its ticket.
// It returns ErrBusy while another simulate is outstanding.
func (s *Session) BeginSimulate() (SimulateTicket, error) {
	if s.simulating {
		s.notify(NoticeInfo, "Simulation already running")
		return SimulateTicket{}, ErrBusy
	}
	s.simulating = true
	s.seq++
	return SimulateTicket{Seq: s.seq, Values: s.Params.Values()}, nil
}

// CompleteSimulate applies the outcome of the request identified by t.
// On success the forecast, chart and usage are replaced wholesale. On
// failure nothing but the notification changes. It reports whether the
// result was applied.
func (s *Session) CompleteSimulate(t SimulateTicket, res forecast.Result, err error) bool {
	if t.Seq != s.seq {
		return false
	}
	s.simulating = false

	if err != nil {
		s.notify(NoticeError, err.Error())
		return false
	}

	f := res.Forecast
	cs := NewChartSeries(f)
	s.forecast = &f
	s.chart = &cs
	s.usage = res.Usage

	if s.Params.Values() == t.Values {
		s.Params.MarkClean()
	}
	s.notify(NoticeSuccess, "Forecast updated")
	return true
}

// BeginExport marks an export as pending. It returns ErrBusy while another
// export is outstanding.
func (s *Session) BeginExport() error {
	if s.exporting {
		s.notify(NoticeInfo, "Export already running")
		return ErrBusy
	}
	s.exporting = true
	return nil
}

// CompleteExport records the outcome of an export. The local reports counter
// is incremented only when the document was received and saved.
func (s *Session) CompleteExport(path string, err error) {
	s.exporting = false
	if err != nil {
		s.notify(NoticeError, err.Error())
		return
	}
	s.usage.Reports++
	s.reportPath = path
	s.notify(NoticeSuccess, "Report saved to "+path)
}

// Simulate runs a full simulate round trip synchronously.
func (s *Session) Simulate(ctx context.Context, sim Simulator) error {
	t, err := s.BeginSimulate()
	if err != nil {
		return err
	}
	res, err := sim.Simulate(ctx, t.Values)
	s.CompleteSimulate(t, res, err)
	return err
}

// Export downloads the report and saves it with save, synchronously.
func (s *Session) Export(ctx context.Context, exp Exporter, save SaveFunc) error {
	if err := s.BeginExport(); err != nil {
		return err
	}
	path, err := FetchAndSave(ctx, exp, save)
	s.CompleteExport(path, err)
	return err
}

// FetchAndSave downloads the report and hands it to save. It touches no
// session state, so it can run off the UI loop.
func FetchAndSave(ctx context.Context, exp Exporter, save SaveFunc) (string, error) {
	data, err := exp.ExportReport(ctx)
	if err != nil {
		return "", err
	}
	path, err := save(data)
	if err != nil {
		return "", fmt.Errorf("saving report: %w", err)
	}
	return path, nil
}

// ForecastLines renders the forecast as display text, or nil when there is
// no forecast yet.
func (s *Session) ForecastLines() []string {
	f, ok := s.Forecast()
	if !ok {
		return nil
	}
	return []string{
		"Revenue: ₹" + FormatAmount(f.Revenue),
		"Expenses: ₹" + FormatAmount(f.Expenses),
		"Profit: ₹" + FormatAmount(f.Profit),
		"Runway: " + FormatAmount(f.RunwayMonths) + " months",
	}
}

// UsageLine renders the usage counters.
func (s *Session) UsageLine() string {
	return fmt.Sprintf("Usage - Scenarios: %d, Reports: %d", s.usage.Scenarios, s.usage.Reports)
}

// FormatAmount prints v in its shortest decimal form without grouping,
// e.g. 500000 -> "500000", 8.5 -> "8.5".
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (s *Session) notify(kind NoticeKind, text string) {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	s.notice = Notice{Kind: kind, Text: text, At: now()}
}
