package components

import (
	"fmt"

	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

func clampPct(pct float64) float64 {
	return min(max(pct, 0), 1)
}

// ProgressBar renders pct (0..1) as a bar followed by the percentage. Goals
// fill toward green as they near completion.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = clampPct(pct)

	color := t.Cyan
	switch {
	case pct >= 1:
		color = t.Green
	case pct >= 0.5:
		color = t.Accent
	}
	return bar(pct, width, color) +
		lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true).Render(fmt.Sprintf(" %3.0f%%", pct*100))
}

// UsageColor goes from green to red as a budget fills up.
func UsageColor(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 1:
		return t.Red
	case pct >= 0.9:
		return t.Orange
	case pct >= 0.7:
		return t.Yellow
	default:
		return t.Green
	}
}

// UsageBar renders spent/limit usage. Overspending shows a full red bar
// with the real percentage.
func UsageBar(label string, pct float64, labelW, barWidth int) string {
	t := theme.Active
	color := UsageColor(pct)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s ", labelW, label)) +
		bar(clampPct(pct), barWidth, color) +
		pctStyle.Render(fmt.Sprintf(" %3.0f%%", pct*100))
}

func bar(pct float64, width int, color lipgloss.Color) string {
	p := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(width, 4)),
		progress.WithoutPercentage(),
	)
	p.EmptyColor = string(theme.Active.TextDim)
	return p.ViewAs(pct)
}
