package session

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hemalatha2205/CFO-Helper/internal/forecast"
	"github.com/hemalatha2205/CFO-Helper/internal/report"
	"github.com/hemalatha2205/CFO-Helper/internal/scenario"
)

type fakeSimulator struct {
	res   forecast.Result
	err   error
	calls int
	got   scenario.Values
}

func (f *fakeSimulator) Simulate(_ context.Context, v scenario.Values) (forecast.Result, error) {
	f.calls++
	f.got = v
	return f.res, f.err
}

type fakeExporter struct {
	data []byte
	err  error
}

func (f fakeExporter) ExportReport(context.Context) ([]byte, error) {
	return f.data, f.err
}

var errUnreachable = &forecast.NetworkError{Op: "simulate", Err: errors.New("connection refused")}

func sampleResult() forecast.Result {
	return forecast.Result{
		Forecast: forecast.Forecast{Revenue: 500000, Expenses: 300000, Profit: 200000, RunwayMonths: 8},
		Usage:    forecast.Usage{Scenarios: 1, Reports: 0},
	}
}

func TestNewSessionHasNoForecast(t *testing.T) {
	s := New()
	if _, ok := s.Forecast(); ok {
		t.Fatal("new session has a forecast")
	}
	if _, ok := s.Chart(); ok {
		t.Fatal("new session has a chart")
	}
	if lines := s.ForecastLines(); lines != nil {
		t.Fatalf("ForecastLines = %v, want nil", lines)
	}
	if got := s.UsageLine(); got != "Usage - Scenarios: 0, Reports: 0" {
		t.Fatalf("UsageLine = %q", got)
	}
}

func TestChartSeriesIsConstantProjection(t *testing.T) {
	for _, f := range []forecast.Forecast{
		{Revenue: 500000, Expenses: 300000},
		{Revenue: 0, Expenses: 0},
		{Revenue: 123.5, Expenses: 99999.25},
	} {
		cs := NewChartSeries(f)
		if cs.Labels != MonthLabels {
			t.Fatalf("labels = %v", cs.Labels)
		}
		if len(cs.Datasets) != 2 {
			t.Fatalf("datasets = %d, want 2", len(cs.Datasets))
		}
		for i := 0; i < ChartMonths; i++ {
			if cs.Datasets[0].Values[i] != f.Revenue {
				t.Errorf("revenue[%d] = %v, want %v", i, cs.Datasets[0].Values[i], f.Revenue)
			}
			if cs.Datasets[1].Values[i] != f.Expenses {
				t.Errorf("expenses[%d] = %v, want %v", i, cs.Datasets[1].Values[i], f.Expenses)
			}
		}
	}
}

func TestSimulateSuccessAppliesEverything(t *testing.T) {
	s := New()
	s.Params.SetHires(2)
	sim := &fakeSimulator{res: sampleResult()}

	if err := s.Simulate(context.Background(), sim); err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if sim.got.Hires != 2 {
		t.Fatalf("simulator saw hires=%d, want 2", sim.got.Hires)
	}

	f, ok := s.Forecast()
	if !ok || f != sampleResult().Forecast {
		t.Fatalf("forecast = %+v (ok=%v)", f, ok)
	}
	cs, ok := s.Chart()
	if !ok || cs != NewChartSeries(f) {
		t.Fatal("chart not derived from forecast")
	}
	if s.Usage() != sampleResult().Usage {
		t.Fatalf("usage = %+v", s.Usage())
	}
	if s.Params.Dirty() {
		t.Fatal("params still dirty after a successful simulate of the same values")
	}
	if s.Simulating() {
		t.Fatal("still simulating")
	}
	if s.Notice().Kind != NoticeSuccess {
		t.Fatalf("notice = %+v", s.Notice())
	}
}

func TestFailedSimulateLeavesStateUntouched(t *testing.T) {
	s := New()
	if err := s.Simulate(context.Background(), &fakeSimulator{res: sampleResult()}); err != nil {
		t.Fatal(err)
	}
	beforeF, _ := s.Forecast()
	beforeC, _ := s.Chart()
	beforeU := s.Usage()

	err := s.Simulate(context.Background(), &fakeSimulator{err: errUnreachable})
	if err == nil {
		t.Fatal("expected error")
	}

	afterF, ok := s.Forecast()
	if !ok || afterF != beforeF {
		t.Fatalf("forecast changed on failure: %+v -> %+v", beforeF, afterF)
	}
	if afterC, _ := s.Chart(); afterC != beforeC {
		t.Fatal("chart changed on failure")
	}
	if s.Usage() != beforeU {
		t.Fatalf("usage changed on failure: %+v -> %+v", beforeU, s.Usage())
	}
	n := s.Notice()
	if n.Kind != NoticeError || !strings.Contains(n.Text, "backend not reachable") {
		t.Fatalf("notice = %+v", n)
	}
	if s.Simulating() {
		t.Fatal("pending flag not cleared on failure")
	}
}

func TestSimulateGuardRejectsConcurrentCall(t *testing.T) {
	s := New()
	first, err := s.BeginSimulate()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.BeginSimulate(); !errors.Is(err, ErrBusy) {
		t.Fatalf("second BeginSimulate err = %v, want ErrBusy", err)
	}

	sim := &fakeSimulator{}
	if err := s.Simulate(context.Background(), sim); !errors.Is(err, ErrBusy) {
		t.Fatalf("Simulate while pending err = %v, want ErrBusy", err)
	}
	if sim.calls != 0 {
		t.Fatal("simulator called while another simulate was pending")
	}

	if !s.CompleteSimulate(first, sampleResult(), nil) {
		t.Fatal("first result not applied")
	}
}

func TestStaleSimulateResultDiscarded(t *testing.T) {
	s := New()
	old, _ := s.BeginSimulate()
	s.CompleteSimulate(old, forecast.Result{}, errUnreachable)

	current, _ := s.BeginSimulate()
	if s.CompleteSimulate(old, sampleResult(), nil) {
		t.Fatal("stale result was applied")
	}
	if _, ok := s.Forecast(); ok {
		t.Fatal("stale result produced a forecast")
	}
	if !s.Simulating() {
		t.Fatal("stale result cleared the pending flag of the current request")
	}
	if !s.CompleteSimulate(current, sampleResult(), nil) {
		t.Fatal("current result not applied")
	}
}

func TestEditDuringSimulateStaysDirty(t *testing.T) {
	s := New()
	ticket, _ := s.BeginSimulate()
	s.Params.SetHires(5)
	s.CompleteSimulate(ticket, sampleResult(), nil)
	if !s.Params.Dirty() {
		t.Fatal("params edited mid-flight should remain dirty")
	}
}

func TestExportSuccessIncrementsReportsByOne(t *testing.T) {
	s := New()
	dir := t.TempDir()

	err := s.Export(context.Background(), fakeExporter{data: []byte("%PDF")}, report.Saver(dir))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if s.Usage().Reports != 1 {
		t.Fatalf("reports = %d, want 1", s.Usage().Reports)
	}
	if s.ReportPath() != filepath.Join(dir, report.FileName) {
		t.Fatalf("report path = %q", s.ReportPath())
	}
	if s.Exporting() {
		t.Fatal("still exporting")
	}
}

func TestExportFailureLeavesReportsUnchanged(t *testing.T) {
	s := New()
	dir := t.TempDir()

	err := s.Export(context.Background(),
		fakeExporter{err: &forecast.NetworkError{Op: "export-report", Err: errors.New("refused")}},
		report.Saver(dir))
	if err == nil {
		t.Fatal("expected error")
	}
	if s.Usage().Reports != 0 {
		t.Fatalf("reports = %d, want 0", s.Usage().Reports)
	}
	if _, statErr := os.Stat(filepath.Join(dir, report.FileName)); !os.IsNotExist(statErr) {
		t.Fatal("failed export produced a local file")
	}
	if s.Notice().Kind != NoticeError {
		t.Fatalf("notice = %+v", s.Notice())
	}
}

func TestExportSaveFailureLeavesReportsUnchanged(t *testing.T) {
	s := New()
	save := func([]byte) (string, error) { return "", errors.New("disk full") }

	if err := s.Export(context.Background(), fakeExporter{data: []byte("%PDF")}, save); err == nil {
		t.Fatal("expected error")
	}
	if s.Usage().Reports != 0 {
		t.Fatalf("reports = %d, want 0", s.Usage().Reports)
	}
}

func TestExportGuard(t *testing.T) {
	s := New()
	if err := s.BeginExport(); err != nil {
		t.Fatal(err)
	}
	if err := s.BeginExport(); !errors.Is(err, ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
}

func TestSimulateResyncsReportsFromServer(t *testing.T) {
	s := New()
	_ = s.Export(context.Background(), fakeExporter{data: []byte("%PDF")}, report.Saver(t.TempDir()))
	if s.Usage().Reports != 1 {
		t.Fatalf("reports = %d, want 1", s.Usage().Reports)
	}

	res := sampleResult()
	res.Usage = forecast.Usage{Scenarios: 4, Reports: 3}
	_ = s.Simulate(context.Background(), &fakeSimulator{res: res})
	if s.Usage() != res.Usage {
		t.Fatalf("usage = %+v, want server snapshot %+v", s.Usage(), res.Usage)
	}
}

func TestScenarioAgainstStubBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simulate" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"forecast":{"revenue":500000,"expenses":300000,"profit":200000,"runway":8},"usage":{"scenarios":1,"reports":0}}`)
	}))
	defer srv.Close()

	client, err := forecast.NewClient(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	s := New()
	s.Params.SetHires(2)
	s.Params.SetExtraSpend(50000)
	s.Params.SetPriceDeltaPercent(10)

	if err := s.Simulate(context.Background(), client); err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	lines := strings.Join(s.ForecastLines(), "\n")
	for _, want := range []string{"Revenue: ₹500000", "Profit: ₹200000", "Runway: 8 months"} {
		if !strings.Contains(lines, want) {
			t.Errorf("forecast lines missing %q:\n%s", want, lines)
		}
	}

	cs, ok := s.Chart()
	if !ok {
		t.Fatal("no chart")
	}
	if len(cs.Datasets) != 2 {
		t.Fatalf("datasets = %d, want 2", len(cs.Datasets))
	}
	for i, want := range []float64{500000, 300000} {
		ds := cs.Datasets[i]
		if len(ds.Values) != 6 {
			t.Fatalf("dataset %d has %d points, want 6", i, len(ds.Values))
		}
		for _, v := range ds.Values {
			if v != want {
				t.Fatalf("dataset %q has value %v, want %v", ds.Label, v, want)
			}
		}
	}
}

func TestScenarioBackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := forecast.NewClient(url)
	if err != nil {
		t.Fatal(err)
	}

	s := New()
	if err := s.Simulate(context.Background(), client); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := s.Forecast(); ok {
		t.Fatal("forecast present after failed simulate")
	}
	if _, ok := s.Chart(); ok {
		t.Fatal("chart present after failed simulate")
	}
	n := s.Notice()
	if n.Kind != NoticeError || n.Text == "" {
		t.Fatalf("notice = %+v, want error notification", n)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := map[float64]string{
		500000: "500000",
		8:      "8",
		8.5:    "8.5",
		-1200:  "-1200",
		0:      "0",
	}
	for in, want := range tests {
		if got := FormatAmount(in); got != want {
			t.Errorf("FormatAmount(%v) = %q, want %q", in, got, want)
		}
	}
}
