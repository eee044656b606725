// Package theme maps the dashboard's colour roles (chrome, text, money
// series, notices) onto a few named palettes.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme holds one colour per role. Views pick roles, never raw hues, so a
// palette swap recolours revenue, profit and notices consistently.
type Theme struct {
	Name string

	Background    lipgloss.Color
	Surface       lipgloss.Color // card interiors
	SurfaceBright lipgloss.Color // selected row
	Border        lipgloss.Color
	BorderAccent  lipgloss.Color // focused card

	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	Revenue lipgloss.Color
	Expense lipgloss.Color
	Profit  lipgloss.Color
	Loss    lipgloss.Color

	KeyHint lipgloss.Color // key names in help
	Stale   lipgloss.Color // inputs edited since the last forecast
	Caution lipgloss.Color // unsaved or risky settings
	Saved   lipgloss.Color // persisted values

	NoticeInfo    lipgloss.Color
	NoticeSuccess lipgloss.Color
	NoticeError   lipgloss.Color
}

// ProfitColor is Profit for v >= 0 and Loss otherwise.
func (t Theme) ProfitColor(v float64) lipgloss.Color {
	if v < 0 {
		return t.Loss
	}
	return t.Profit
}

// palette is the raw swatch a Theme is derived from.
type palette struct {
	bg, surface, selected, border string
	dim, muted, text              string
	accent, accentBright          string
	green, greenBright, red, blue string
	yellow, orange, cyan          string
}

func (p palette) theme(name string) Theme {
	c := func(s string) lipgloss.Color { return lipgloss.Color(s) }
	return Theme{
		Name:          name,
		Background:    c(p.bg),
		Surface:       c(p.surface),
		SurfaceBright: c(p.selected),
		Border:        c(p.border),
		BorderAccent:  c(p.accent),
		TextDim:       c(p.dim),
		TextMuted:     c(p.muted),
		TextPrimary:   c(p.text),
		Accent:        c(p.accent),
		AccentBright:  c(p.accentBright),
		Revenue:       c(p.blue),
		Expense:       c(p.red),
		Profit:        c(p.green),
		Loss:          c(p.red),
		KeyHint:       c(p.cyan),
		Stale:         c(p.yellow),
		Caution:       c(p.orange),
		Saved:         c(p.greenBright),
		NoticeInfo:    c(p.accent),
		NoticeSuccess: c(p.green),
		NoticeError:   c(p.red),
	}
}

// FlexokiDark is the default: warm paper tones on near-black.
var FlexokiDark = palette{
	bg: "#100F0F", surface: "#1C1B1A", selected: "#343331", border: "#403E3C",
	dim: "#575653", muted: "#878580", text: "#FFFCF0",
	accent: "#3AA99F", accentBright: "#5BC8BE",
	green: "#879A39", greenBright: "#A3B859", red: "#D14D41", blue: "#4385BE",
	yellow: "#D0A215", orange: "#DA702C", cyan: "#24837B",
}.theme("flexoki-dark")

// CatppuccinMocha is a soft pastel palette.
var CatppuccinMocha = palette{
	bg: "#1E1E2E", surface: "#313244", selected: "#585B70", border: "#585B70",
	dim: "#6C7086", muted: "#A6ADC8", text: "#CDD6F4",
	accent: "#89B4FA", accentBright: "#B4D0FB",
	green: "#A6E3A1", greenBright: "#C6F6C1", red: "#F38BA8", blue: "#74C7EC",
	yellow: "#F9E2AF", orange: "#FAB387", cyan: "#94E2D5",
}.theme("catppuccin-mocha")

// TokyoNight is a cool blue and violet palette.
var TokyoNight = palette{
	bg: "#1A1B26", surface: "#24283B", selected: "#414868", border: "#565F89",
	dim: "#565F89", muted: "#A9B1D6", text: "#C0CAF5",
	accent: "#7AA2F7", accentBright: "#A9C1FF",
	green: "#9ECE6A", greenBright: "#B9E87A", red: "#F7768E", blue: "#2AC3DE",
	yellow: "#E0AF68", orange: "#FF9E64", cyan: "#7DCFFF",
}.theme("tokyo-night")

// Terminal sticks to the 16 ANSI colours.
var Terminal = palette{
	bg: "0", surface: "0", selected: "8", border: "8",
	dim: "8", muted: "7", text: "15",
	accent: "6", accentBright: "14",
	green: "2", greenBright: "10", red: "1", blue: "4",
	yellow: "3", orange: "11", cyan: "6",
}.theme("terminal")

// All lists the selectable themes; the first is the default.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// Active is the theme views render with.
var Active = All[0]

// Lookup finds a theme by name.
func Lookup(name string) (Theme, bool) {
	for _, t := range All {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// ByName is Lookup falling back to the default theme.
func ByName(name string) Theme {
	if t, ok := Lookup(name); ok {
		return t
	}
	return All[0]
}

// Names returns theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// SetActive switches Active; unknown names select the default.
func SetActive(name string) {
	Active = ByName(name)
}
