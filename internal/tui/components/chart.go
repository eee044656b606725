package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/hemalatha2205/CFO-Helper/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Series is one named data series in a grouped bar chart.
type Series struct {
	Label  string
	Values []float64
	Color  lipgloss.Color
}

const (
	groupGap  = 2
	maxBarW   = 4
	minChartW = 15
	minChartH = 3
)

// GroupedBarChart renders one cluster of bars per label, one bar per series,
// over a shared Y axis, followed by a legend. Negative values draw as empty.
func GroupedBarChart(labels []string, series []Series, width, height int) string {
	if len(labels) == 0 || len(series) == 0 {
		return ""
	}
	if width < minChartW || height < minChartH {
		return Legend(series, true)
	}

	t := theme.Active

	maxVal := 0.0
	for _, s := range series {
		for _, v := range s.Values {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Y-axis: compute tick step and ceiling
	tickStep := chartTickStep(maxVal)
	maxIntervals := height / 2
	if maxIntervals < 2 {
		maxIntervals = 2
	}
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := int(math.Round(ceiling / tickStep))
	if numIntervals < 1 {
		numIntervals = 1
	}

	rowsPerTick := height / numIntervals
	if rowsPerTick < 1 {
		rowsPerTick = 1
	}
	chartH := rowsPerTick * numIntervals

	yLabelW := len(formatChartLabel(ceiling)) + 1
	if yLabelW < 4 {
		yLabelW = 4
	}
	tickLabels := make(map[int]string, numIntervals)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(tickStep * float64(i))
	}

	chartW := width - yLabelW - 1
	groups := len(labels)
	k := len(series)

	barW := (chartW - (groups-1)*groupGap) / (groups * k)
	if barW < 1 {
		barW = 1
	}
	if barW > maxBarW {
		barW = maxBarW
	}
	groupW := barW * k
	axisLen := groups*groupW + (groups-1)*groupGap

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)
	barStyles := make([]lipgloss.Style, k)
	for i, s := range series {
		barStyles[i] = lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface)
	}

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))

		for g := 0; g < groups; g++ {
			if g > 0 {
				b.WriteString(spaceStyle.Render(strings.Repeat(" ", groupGap)))
			}
			for si, s := range series {
				v := 0.0
				if g < len(s.Values) {
					v = s.Values[g]
				}
				switch {
				case v >= rowTop:
					b.WriteString(barStyles[si].Render(strings.Repeat("█", barW)))
				case v > rowBottom:
					idx := int((v - rowBottom) / (rowTop - rowBottom) * 8)
					idx = min(max(idx, 1), 8)
					b.WriteString(barStyles[si].Render(strings.Repeat(string(blocks[idx]), barW)))
				default:
					b.WriteString(spaceStyle.Render(strings.Repeat(" ", barW)))
				}
			}
		}
		b.WriteString("\n")
	}

	// X-axis line with 0 label
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))
	b.WriteString("\n")

	// X-axis labels, one per group where they fit
	buf := []byte(strings.Repeat(" ", axisLen))
	lastEnd := -1
	for g, lbl := range labels {
		pos := g * (groupW + groupGap)
		if pos <= lastEnd || pos >= axisLen {
			continue
		}
		end := min(pos+len(lbl), axisLen)
		copy(buf[pos:end], lbl[:end-pos])
		lastEnd = end
	}
	labelStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	b.WriteString(spaceStyle.Render(strings.Repeat(" ", yLabelW+1)))
	b.WriteString(labelStyle.Render(strings.TrimRight(string(buf), " ")))
	b.WriteString("\n")

	b.WriteString(spaceStyle.Render(strings.Repeat(" ", yLabelW+1)))
	b.WriteString(Legend(series, false))

	return b.String()
}

// Legend renders a color key for series. withValues appends each series'
// first value, which is enough for the constant projections we chart.
func Legend(series []Series, withValues bool) string {
	t := theme.Active
	textStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	parts := make([]string, 0, len(series))
	for _, s := range series {
		swatch := lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface).Render("█")
		text := " " + s.Label
		if withValues && len(s.Values) > 0 {
			text += ": " + formatChartLabel(s.Values[0])
		}
		parts = append(parts, swatch+textStyle.Render(text))
	}
	return strings.Join(parts, textStyle.Render("   "))
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// formatChartLabel formats axis amounts with crore/lakh/thousand suffixes.
func formatChartLabel(v float64) string {
	switch {
	case v >= 1e7:
		return trimSuffix(v/1e7, "Cr")
	case v >= 1e5:
		return trimSuffix(v/1e5, "L")
	case v >= 1e3:
		return trimSuffix(v/1e3, "k")
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func trimSuffix(v float64, unit string) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f%s", v, unit)
	}
	return fmt.Sprintf("%.1f%s", v, unit)
}
