package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hemalatha2205/CFO-Helper/internal/config"
	"github.com/hemalatha2205/CFO-Helper/internal/session"
	"github.com/hemalatha2205/CFO-Helper/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"go.uber.org/zap"
)

// setupValues holds what the first-run form edits. The form binds to these
// fields by pointer, so the struct must outlive the form.
type setupValues struct {
	backendURL string
	timeoutSec string
	reportDir  string
	theme      string
}

func newSetupValues(cfg config.Config) *setupValues {
	timeout := cfg.Backend.TimeoutSec
	if timeout <= 0 {
		timeout = config.DefaultTimeoutSec
	}
	url := cfg.Backend.URL
	if url == "" {
		url = config.DefaultBackendURL
	}
	return &setupValues{
		backendURL: url,
		timeoutSec: strconv.Itoa(timeout),
		reportDir:  cfg.Report.Dir,
		theme:      theme.ByName(cfg.Appearance.Theme).Name,
	}
}

func newSetupForm(v *setupValues) *huh.Form {
	themeOpts := huh.NewOptions(theme.Names()...)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to CFO Helper").
				Description("Point the dashboard at your forecasting service.\nRun `cfohelper setup` anytime to change these."),
			huh.NewInput().
				Title("Backend URL").
				Placeholder(config.DefaultBackendURL).
				Value(&v.backendURL).
				Validate(validateBackendURL),
			huh.NewInput().
				Title("Request timeout (seconds)").
				Value(&v.timeoutSec).
				Validate(validateTimeout),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Report directory").
				Description("Where report.pdf is saved. Leave blank for the current directory.").
				Value(&v.reportDir),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.theme),
		),
	).WithTheme(huh.ThemeCharm())
}

func validateTimeout(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a positive number of seconds")
	}
	return nil
}

// apply copies the form values onto cfg.
func (v *setupValues) apply(cfg config.Config) config.Config {
	cfg.Backend.URL = strings.TrimSpace(v.backendURL)
	if n, err := strconv.Atoi(strings.TrimSpace(v.timeoutSec)); err == nil && n > 0 {
		cfg.Backend.TimeoutSec = n
	}
	cfg.Report.Dir = strings.TrimSpace(v.reportDir)
	cfg.Appearance.Theme = v.theme
	return cfg
}

// applySetup saves the completed first-run form and applies it to the running dashboard.
func (a *App) applySetup() {
	a.cfg = a.setupVals.apply(a.cfg)
	theme.SetActive(a.cfg.Appearance.Theme)

	a.backendURL = config.BackendURL(a.cfg)
	a.timeout = config.BackendTimeout(a.cfg)
	a.reportDir = config.ReportDir(a.cfg)
	a.redial()

	if a.cfgPath == "" {
		return
	}
	if err := config.SaveTo(a.cfgPath, a.cfg); err != nil {
		a.logger.Warn("saving setup", zap.String("op", "tui.setup"), zap.Error(err))
		a.sess.Notify(session.NoticeError, "Could not save config: "+err.Error())
		return
	}
	a.logger.Info("setup saved", zap.String("op", "tui.setup"), zap.String("path", a.cfgPath))
}

// RunSetup runs the setup form standalone and returns the updated config.
// It returns huh.ErrUserAborted if the user cancels.
func RunSetup(cfg config.Config) (config.Config, error) {
	v := newSetupValues(cfg)
	if err := newSetupForm(v).Run(); err != nil {
		return cfg, fmt.Errorf("setup form: %w", err)
	}
	return v.apply(cfg), nil
}
