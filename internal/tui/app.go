// Package tui provides the interactive Bubble Tea dashboard for cfohelper.
package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hemalatha2205/CFO-Helper/internal/cli"
	"github.com/hemalatha2205/CFO-Helper/internal/config"
	"github.com/hemalatha2205/CFO-Helper/internal/forecast"
	"github.com/hemalatha2205/CFO-Helper/internal/report"
	"github.com/hemalatha2205/CFO-Helper/internal/scenario"
	"github.com/hemalatha2205/CFO-Helper/internal/session"
	"github.com/hemalatha2205/CFO-Helper/internal/tui/components"
	"github.com/hemalatha2205/CFO-Helper/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Backend is the forecasting service as the dashboard sees it.
type Backend interface {
	session.Simulator
	session.Exporter
}

// Dialer builds a Backend for a base URL and per-call timeout.
type Dialer func(baseURL string, timeout time.Duration) (Backend, error)

// SimulateDoneMsg is sent when a simulate call returns.
type SimulateDoneMsg struct {
	Ticket session.SimulateTicket
	Result forecast.Result
	Err    error
}

// ExportDoneMsg is sent when an export has been fetched and saved, or failed.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// Options configures a new App.
type Options struct {
	Config     config.Config
	ConfigPath string
	Dial       Dialer
	Logger     *zap.Logger
	NeedSetup  bool
}

// App is the root Bubble Tea model.
type App struct {
	sess    *session.Session
	backend Backend
	dial    Dialer
	logger  *zap.Logger

	cfg        config.Config
	cfgPath    string
	backendURL string
	timeout    time.Duration
	reportDir  string
	dialErr    error

	// UI state
	width    int
	height   int
	focus    scenario.Field
	showHelp bool
	spinner  spinner.Model

	// In-dashboard settings panel
	showSettings bool
	settings     settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
	sliderLabelW     = 17
	sliderValueW     = 12
)

// DialForecast is the production Dialer: an HTTP forecast client.
func DialForecast(logger *zap.Logger) Dialer {
	return func(baseURL string, timeout time.Duration) (Backend, error) {
		c, err := forecast.NewClient(baseURL, forecast.WithTimeout(timeout), forecast.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dial := opts.Dial
	if dial == nil {
		dial = DialForecast(logger)
	}

	theme.SetActive(opts.Config.Appearance.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		sess:       session.New(),
		dial:       dial,
		logger:     logger,
		cfg:        opts.Config,
		cfgPath:    opts.ConfigPath,
		backendURL: config.BackendURL(opts.Config),
		timeout:    config.BackendTimeout(opts.Config),
		reportDir:  config.ReportDir(opts.Config),
		spinner:    sp,
		needSetup:  opts.NeedSetup,
	}
	a.redial()

	if a.needSetup {
		a.setupVals = newSetupValues(a.cfg)
		a.setupForm = newSetupForm(a.setupVals)
	}
	return a
}

// WithBackendOverride replaces the backend URL and timeout from flags.
// Zero values keep the configured ones.
func (a App) WithBackendOverride(baseURL string, timeout time.Duration) App {
	if baseURL != "" {
		a.backendURL = baseURL
	}
	if timeout > 0 {
		a.timeout = timeout
	}
	a.redial()
	return a
}

// Session exposes the dashboard's session, mainly for tests.
func (a App) Session() *session.Session { return a.sess }

// redial rebuilds the backend after the URL or timeout changed. A bad URL
// leaves the dashboard usable; actions then report the dial error.
func (a *App) redial() {
	b, err := a.dial(a.backendURL, a.timeout)
	a.backend, a.dialErr = b, err
	if err != nil {
		a.logger.Warn("backend unusable", zap.String("op", "tui.dial"), zap.String("url", a.backendURL), zap.Error(err))
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.setupForm != nil {
		return a.setupForm.Init()
	}
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if a.showSettings {
			return a.updateSettings(msg)
		}

		return a.updateMain(msg)

	case SimulateDoneMsg:
		applied := a.sess.CompleteSimulate(msg.Ticket, msg.Result, msg.Err)
		fields := []zap.Field{zap.String("op", "tui.simulate"), zap.Uint64("seq", msg.Ticket.Seq), zap.Bool("applied", applied)}
		if msg.Err != nil {
			a.logger.Warn("simulate failed", append(fields, zap.Error(msg.Err))...)
		} else {
			a.logger.Info("simulate done", fields...)
		}
		return a, nil

	case ExportDoneMsg:
		a.sess.CompleteExport(msg.Path, msg.Err)
		if msg.Err != nil {
			a.logger.Warn("export failed", zap.String("op", "tui.export"), zap.Error(msg.Err))
		} else {
			a.logger.Info("report saved", zap.String("op", "tui.export"), zap.String("path", msg.Path))
		}
		return a, nil

	case spinner.TickMsg:
		if a.busy() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.showSettings && a.settings.editing {
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "up", "k":
		a.focus = (a.focus - 1 + scenario.FieldCount) % scenario.FieldCount
	case "down", "j", "tab":
		a.focus = (a.focus + 1) % scenario.FieldCount
	case "left", "h":
		a.sess.Params.Nudge(a.focus, -1, false)
	case "right", "l":
		a.sess.Params.Nudge(a.focus, 1, false)
	case "H", "shift+left":
		a.sess.Params.Nudge(a.focus, -1, true)
	case "L", "shift+right":
		a.sess.Params.Nudge(a.focus, 1, true)
	case "s", "enter":
		return a.startSimulate()
	case "e":
		return a.startExport()
	case ",":
		a.showSettings = true
		a.settings = settingsState{}
	case "esc":
		a.sess.ClearNotice()
	}
	return a, nil
}

func (a App) startSimulate() (tea.Model, tea.Cmd) {
	t, err := a.sess.BeginSimulate()
	if err != nil {
		return a, nil
	}
	if a.backend == nil {
		a.sess.CompleteSimulate(t, forecast.Result{}, a.dialFailure())
		return a, nil
	}
	a.logger.Debug("simulate", zap.String("op", "tui.simulate"), zap.Uint64("seq", t.Seq),
		zap.Int("hires", t.Values.Hires), zap.Float64("extra_spend", t.Values.ExtraSpend),
		zap.Int("price_delta", t.Values.PriceDeltaPercent))
	return a, tea.Batch(simulateCmd(a.backend, t), a.spinner.Tick)
}

func (a App) startExport() (tea.Model, tea.Cmd) {
	if err := a.sess.BeginExport(); err != nil {
		return a, nil
	}
	if a.backend == nil {
		a.sess.CompleteExport("", a.dialFailure())
		return a, nil
	}
	return a, tea.Batch(exportCmd(a.backend, report.Saver(a.reportDir)), a.spinner.Tick)
}

func (a App) dialFailure() error {
	if a.dialErr != nil {
		return a.dialErr
	}
	return errors.New("no backend configured")
}

func (a App) busy() bool {
	return a.sess.Simulating() || a.sess.Exporting()
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.applySetup()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func simulateCmd(b Backend, t session.SimulateTicket) tea.Cmd {
	return func() tea.Msg {
		res, err := b.Simulate(context.Background(), t.Values)
		return SimulateDoneMsg{Ticket: t, Result: res, Err: err}
	}
}

func exportCmd(b Backend, save session.SaveFunc) tea.Cmd {
	return func() tea.Msg {
		path, err := session.FetchAndSave(context.Background(), b, save)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	if a.showSettings {
		return a.viewSettings()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cfohelper needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.KeyHint).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Scenario", []struct{ key, desc string }{
			{"↑ ↓ / j k", "Select input"},
			{"← → / h l", "Adjust by one step"},
			{"H L", "Adjust by a large step"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"s / Enter", "Simulate"},
			{"e", "Export report"},
			{",", "Settings"},
			{"Esc", "Dismiss notification"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := a.renderHeader(w)
	statusBar := components.RenderStatusBar(w, a.sess.UsageLine(), a.sess.Notice())

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	usageRow := a.renderUsageRow(cw)
	scenarioCard := a.renderScenarioCard(cw)
	used := lipgloss.Height(usageRow) + lipgloss.Height(scenarioCard)
	forecastRow := a.renderForecastRow(cw, contentH-used)

	content := usageRow + "\n" + scenarioCard + "\n" + forecastRow

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderHeader(w int) string {
	t := theme.Active
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Background(t.Surface).Width(w)

	left := logoStyle.Render(" ◈ CFO Helper") + mutedStyle.Render(" · scenario forecasting")
	right := mutedStyle.Render(hostOf(a.backendURL) + " ")
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return rowStyle.Render(left)
	}
	return rowStyle.Render(left + mutedStyle.Render(strings.Repeat(" ", gap)) + right)
}

func (a App) renderUsageRow(cw int) string {
	t := theme.Active
	u := a.sess.Usage()

	lastReport := "none yet"
	if p := a.sess.ReportPath(); p != "" {
		lastReport = p
	}

	state := components.Metric{Label: "Backend", Value: "idle", Color: t.TextMuted}
	switch {
	case a.dialErr != nil:
		state = components.Metric{Label: "Backend", Value: "misconfigured", Color: t.NoticeError}
	case a.sess.Simulating() && a.sess.Exporting():
		state = components.Metric{Label: "Backend", Value: a.spinner.View() + " simulating, exporting", Color: t.Accent}
	case a.sess.Simulating():
		state = components.Metric{Label: "Backend", Value: a.spinner.View() + " simulating", Color: t.Accent}
	case a.sess.Exporting():
		state = components.Metric{Label: "Backend", Value: a.spinner.View() + " exporting", Color: t.Accent}
	}

	return components.MetricCardRow([]components.Metric{
		{Label: "Scenarios run", Value: strconv.Itoa(u.Scenarios)},
		{Label: "Reports exported", Value: strconv.Itoa(u.Reports)},
		state,
		{Label: "Last report", Value: truncStr(lastReport, components.CardInnerWidth(cw/4))},
	}, cw)
}

func (a App) renderScenarioCard(cw int) string {
	t := theme.Active
	p := &a.sess.Params
	bounds := scenario.Bounds()

	barW := components.CardInnerWidth(cw) - 2 - sliderLabelW - 1 - 2 - sliderValueW
	values := [scenario.FieldCount]string{
		strconv.Itoa(p.Hires()),
		cli.FormatRupees(p.ExtraSpend()),
		cli.FormatPercent(p.PriceDeltaPercent()),
	}

	var b strings.Builder
	for f := scenario.Field(0); f < scenario.FieldCount; f++ {
		b.WriteString(components.Slider(bounds[f].Label, values[f], p.Fraction(f), f == a.focus, sliderLabelW, barW))
		b.WriteString("\n")
	}

	hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	if _, ok := a.sess.Forecast(); ok && p.Dirty() {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Stale).Background(t.Surface).
			Render("● inputs changed since the last forecast, press s to re-run"))
	} else {
		b.WriteString(hint.Render("[s] simulate   [e] export report"))
	}

	return components.ContentCard("Scenario", b.String(), true, cw)
}

func (a App) renderForecastRow(cw, availH int) string {
	t := theme.Active

	lines := a.sess.ForecastLines()
	if lines == nil {
		body := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("No forecast yet. Adjust the inputs and press s to simulate.")
		return components.ContentCard("Forecast", body, false, cw)
	}

	f, _ := a.sess.Forecast()
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	profitColor := t.ProfitColor(f.Profit)

	var body strings.Builder
	for i, line := range lines {
		style := textStyle
		if i == 2 {
			style = lipgloss.NewStyle().Foreground(profitColor).Background(t.Surface).Bold(true)
		}
		body.WriteString(style.Render(line))
		if i < len(lines)-1 {
			body.WriteString("\n")
		}
	}

	leftW := 34
	rightW := cw - leftW
	left := components.ContentCard("Forecast", body.String(), false, leftW)

	chart, ok := a.sess.Chart()
	if !ok {
		return left
	}

	// card border + title + legend + axis + labels
	chartH := availH - 6
	if chartH < 3 {
		chartH = 3
	}
	series := []components.Series{
		{Label: chart.Datasets[0].Label, Values: chart.Datasets[0].Values[:], Color: t.Revenue},
		{Label: chart.Datasets[1].Label, Values: chart.Datasets[1].Values[:], Color: t.Expense},
	}
	plot := components.GroupedBarChart(chart.Labels[:], series, components.CardInnerWidth(rightW), chartH)
	right := components.ContentCard("Next 6 months", plot, false, rightW)

	return components.CardRow([]string{left, right})
}

// ─── Helpers ────────────────────────────────────────────────────

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return "…" + string(runes[len(runes)-limit+1:])
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
