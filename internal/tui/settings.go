package tui

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hemalatha2205/CFO-Helper/internal/config"
	"github.com/hemalatha2205/CFO-Helper/internal/tui/components"
	"github.com/hemalatha2205/CFO-Helper/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	settingsFieldBackendURL = iota
	settingsFieldTimeout
	settingsFieldReportDir
	settingsFieldTheme
	settingsFieldCount // sentinel
)

// settingsState tracks the settings panel state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message
	saveErr error // non-nil if the last edit was rejected or failed to save
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	switch msg.String() {
	case "q", "esc", ",":
		a.showSettings = false
	case "up", "k":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
	case "down", "j":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
	case "enter":
		return a.settingsStartEdit()
	}
	return a, nil
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldBackendURL:
		ti.Placeholder = config.DefaultBackendURL
		ti.SetValue(a.backendURL)
	case settingsFieldTimeout:
		ti.Placeholder = strconv.Itoa(config.DefaultTimeoutSec) + " (seconds)"
		ti.SetValue(strconv.Itoa(int(a.timeout.Seconds())))
	case settingsFieldReportDir:
		ti.Placeholder = ". (current directory)"
		ti.SetValue(a.cfg.Report.Dir)
	case settingsFieldTheme:
		ti.Placeholder = themeNames()
		ti.SetValue(theme.Active.Name)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates the edited value, applies it to the running
// dashboard and persists it. Invalid input leaves everything unchanged.
func (a *App) settingsSave() {
	val := strings.TrimSpace(a.settings.input.Value())
	cfg := a.cfg

	switch a.settings.cursor {
	case settingsFieldBackendURL:
		if err := validateBackendURL(val); err != nil {
			a.settings.saveErr = err
			return
		}
		cfg.Backend.URL = val
		a.backendURL = val
		a.redial()
	case settingsFieldTimeout:
		sec, err := strconv.Atoi(val)
		if err != nil || sec <= 0 {
			a.settings.saveErr = errors.New("timeout must be a positive number of seconds")
			return
		}
		cfg.Backend.TimeoutSec = sec
		a.timeout = time.Duration(sec) * time.Second
		a.redial()
	case settingsFieldReportDir:
		cfg.Report.Dir = val
		a.reportDir = config.ReportDir(cfg)
	case settingsFieldTheme:
		if !knownTheme(val) {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	}

	a.cfg = cfg
	if a.cfgPath != "" {
		a.settings.saveErr = config.SaveTo(a.cfgPath, cfg)
	}
	a.logger.Info("settings changed", zap.String("op", "tui.settings"),
		zap.Int("field", a.settings.cursor), zap.Bool("persisted", a.cfgPath != "" && a.settings.saveErr == nil))
}

func validateBackendURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("URL has no host")
	}
	return nil
}

func knownTheme(name string) bool {
	_, ok := theme.Lookup(name)
	return ok
}

func themeNames() string {
	return strings.Join(theme.Names(), ", ")
}

func (a App) viewSettings() string {
	t := theme.Active
	cw := a.contentWidth()

	header := a.renderHeader(a.width)
	body := a.renderSettings(cw)
	body = fillLinesWithBackground(body, cw, t.Background)

	contentH := a.height - lipgloss.Height(header)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}
	body = padHeight(truncateHeight(body, contentH), contentH)
	body = lipgloss.Place(a.width, contentH, lipgloss.Center, lipgloss.Top, body,
		lipgloss.WithWhitespaceBackground(t.Background))

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (a App) renderSettings(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	savedStyle := lipgloss.NewStyle().Foreground(t.Saved).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	reportDir := a.cfg.Report.Dir
	if reportDir == "" {
		reportDir = "(current directory)"
	}

	fields := []struct {
		label string
		value string
	}{
		{"Backend URL", a.backendURL},
		{"Timeout", fmt.Sprintf("%ds", int(a.timeout.Seconds()))},
		{"Report Directory", reportDir},
		{"Theme", theme.Active.Name},
	}

	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if padLen := components.CardInnerWidth(cw) - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Caution).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Not saved: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(savedStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] back"))

	cfgPath := a.cfgPath
	if cfgPath == "" {
		cfgPath = "(not persisted)"
	}
	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Config file:  ") + valueStyle.Render(cfgPath) + "\n")
	infoBody.WriteString(labelStyle.Render("Log file:     ") + valueStyle.Render(a.logPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Reports dir:  ") + valueStyle.Render(a.reportDir))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), true, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), false, cw))
	return b.String()
}

func (a App) logPath() string {
	if a.cfg.Logging.OutputFile != "" {
		return a.cfg.Logging.OutputFile
	}
	return filepath.Join(config.CacheDir(), "tui.log")
}
