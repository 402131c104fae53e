// Package components provides reusable widgets for the fintrack dashboard.
package components

import (
	"strings"

	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Metric is one figure shown in a MetricCard.
type Metric struct {
	Label string
	Value string
	Note  string
	Color lipgloss.Color // value color; TextPrimary when empty
}

// LayoutRow splits totalWidth into n widths summing to totalWidth. The first
// items absorb the remainder.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	remainder := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

func cardStyle(outerWidth int, border lipgloss.Color) lipgloss.Style {
	t := theme.Active
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Width(max(outerWidth-2, 10)).
		Padding(0, 1)
}

// MetricCard renders a small card with label, value and an optional note.
// outerWidth includes the border.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active

	color := m.Color
	if color == "" {
		color = t.TextPrimary
	}
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	content := labelStyle.Render(m.Label) + "\n" + valueStyle.Render(m.Value)
	if m.Note != "" {
		content += "\n" + noteStyle.Render(m.Note)
	}
	return cardStyle(outerWidth, t.Border).Render(content)
}

// MetricCardRow renders metric cards side by side across totalWidth.
func MetricCardRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(metrics))
	cards := make([]string, len(metrics))
	for i, m := range metrics {
		cards[i] = MetricCard(m, widths[i])
	}
	return CardRow(cards)
}

// ContentCard renders a bordered card with an optional title.
func ContentCard(title, body string, outerWidth int) string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	content := body
	if title != "" {
		content = titleStyle.Render(title) + "\n" + body
	}
	return cardStyle(outerWidth, t.Border).Render(content)
}

// FocusCard is a ContentCard with an accent border.
func FocusCard(title, body string, outerWidth int) string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	return cardStyle(outerWidth, t.BorderAccent).Render(titleStyle.Render(title) + "\n" + body)
}

// CardRow joins cards horizontally. Shorter cards are padded with
// background-colored lines so the row has no unstyled gaps.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	height := 0
	for _, c := range cards {
		height = max(height, lipgloss.Height(c))
	}

	fill := lipgloss.NewStyle().Background(theme.Active.Background)
	padded := make([]string, len(cards))
	for i, c := range cards {
		missing := height - lipgloss.Height(c)
		if missing == 0 {
			padded[i] = c
			continue
		}
		blank := fill.Render(strings.Repeat(" ", lipgloss.Width(c)))
		padded[i] = c + strings.Repeat("\n"+blank, missing)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, padded...)
}

// CardInnerWidth is the usable text width inside a card of outerWidth.
func CardInnerWidth(outerWidth int) int {
	return max(outerWidth-4, 10)
}
