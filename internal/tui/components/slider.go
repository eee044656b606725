package components

import (
	"fmt"
	"math"

	"github.com/hemalatha2205/CFO-Helper/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Slider renders one labelled scenario input: a focus marker, the label, a
// track filled to frac, and the current value.
func Slider(label, value string, frac float64, focused bool, labelW, barW int) string {
	t := theme.Active

	frac = clamp01(frac)
	if barW < 4 {
		barW = 4
	}

	fill := t.TextMuted
	marker := "  "
	labelColor := t.TextMuted
	if focused {
		fill = t.Accent
		marker = "▸ "
		labelColor = t.TextPrimary
	}

	bar := progress.New(
		progress.WithSolidFill(string(fill)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.Full = '━'
	bar.Empty = '─'
	bar.EmptyColor = string(t.TextDim)

	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(labelColor).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(focused)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return markerStyle.Render(marker) +
		labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(frac) +
		spaceStyle.Render("  ") +
		valueStyle.Render(value)
}

func clamp01(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
