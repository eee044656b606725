package components

import (
	"strings"

	"github.com/hemalatha2205/CFO-Helper/internal/session"
	"github.com/hemalatha2205/CFO-Helper/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints or the latest
// notice on the left, the usage line on the right.
func RenderStatusBar(width int, usage string, notice session.Notice) string {
	t := theme.Active

	base := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	left := base.Render(" [s]imulate  [e]xport  [?]help  [q]uit")
	if notice.Kind != session.NoticeNone && notice.Text != "" {
		color := t.TextMuted
		switch notice.Kind {
		case session.NoticeSuccess:
			color = t.NoticeSuccess
		case session.NoticeError:
			color = t.NoticeError
		case session.NoticeInfo:
			color = t.NoticeInfo
		}
		left = lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(notice.Kind == session.NoticeError).
			Render(" " + notice.Text)
	}
	right := base.Render(usage + " ")

	// Notice text can be long (network errors); truncate to keep usage visible.
	room := width - lipgloss.Width(right) - 1
	if room < 0 {
		room = 0
	}
	if lipgloss.Width(left) > room {
		left = lipgloss.NewStyle().MaxWidth(room).Render(left)
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	gap := base.Render(strings.Repeat(" ", padding))

	return lipgloss.NewStyle().Background(t.Surface).Width(width).MaxWidth(width).Render(left + gap + right)
}
