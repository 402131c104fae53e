package components

import (
	"strings"

	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. message replaces the key
// hints when set; it is shown in red when isErr.
func RenderStatusBar(width int, user, lastUpdated, message string, isErr, saving bool) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	left := base.Render(" [?]help  [q]uit  [r]eload")
	switch {
	case message != "" && isErr:
		left = lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(" " + message)
	case message != "":
		left = lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Render(" " + message)
	}

	right := accent.Render(user)
	if saving {
		right += base.Render("  saving...")
	} else if lastUpdated != "" {
		right += base.Render("  updated " + lastUpdated)
	}
	right += base.Render(" ")

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + base.Render(strings.Repeat(" ", gap)) + right
}
