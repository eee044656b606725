package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderTableAlignsRupeeCells(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Revenue", "₹5,25,000"},
			{"Runway", "60 months"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("table has %d lines, want 6:\n%s", len(lines), out)
	}
	want := lipgloss.Width(lines[0])
	for i, l := range lines {
		if w := lipgloss.Width(l); w != want {
			t.Errorf("line %d width = %d, want %d: %q", i, w, want, l)
		}
	}
}

func TestRenderTableEmpty(t *testing.T) {
	if out := RenderTable(Table{}); out != "" {
		t.Fatalf("empty table rendered %q", out)
	}
}

func TestRenderProgressBarClamps(t *testing.T) {
	full := RenderProgressBar(2, 10)
	if strings.Count(full, "█") != 10 {
		t.Fatalf("overfull bar = %q", full)
	}
	empty := RenderProgressBar(-1, 10)
	if strings.Count(empty, "░") != 10 {
		t.Fatalf("negative bar = %q", empty)
	}
	if RenderProgressBar(0.5, 0) != "" {
		t.Fatal("zero width should render nothing")
	}
}

func TestRenderMonthlyBars(t *testing.T) {
	labels := []string{"Jan", "Feb"}
	out := RenderMonthlyBars(labels, []float64{100, 100}, []float64{50, 50}, 20)

	if !strings.Contains(out, "Jan") || !strings.Contains(out, "Feb") {
		t.Fatalf("missing month labels:\n%s", out)
	}
	if !strings.Contains(out, strings.Repeat("█", 20)) {
		t.Fatalf("peak bar not full width:\n%s", out)
	}
	if !strings.Contains(out, "Revenue") || !strings.Contains(out, "Expenses") {
		t.Fatalf("missing legend:\n%s", out)
	}
}

func TestRenderHorizontalBar(t *testing.T) {
	if got := RenderHorizontalBar(5, 10, 10); got != "█████" {
		t.Fatalf("half bar = %q", got)
	}
	if got := RenderHorizontalBar(5, 0, 10); got != "" {
		t.Fatalf("zero max = %q", got)
	}
}
