package components

import (
	"strings"

	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // index of the shortcut letter in Name, -1 when absent
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o', KeyPos: 0},
	{Name: "Goals", Key: 'g', KeyPos: 0},
	{Name: "Transactions", Key: 't', KeyPos: 0},
	{Name: "Projection", Key: 'p', KeyPos: 0},
	{Name: "Settings", Key: 'x', KeyPos: -1},
}

// TabVisualWidth is the rendered width of a tab: one column of padding on
// each side, plus "[k]" for an inactive tab whose key is not in its name.
func TabVisualWidth(tab Tab, active bool) int {
	w := lipgloss.Width(tab.Name) + 2
	if !active && tab.KeyPos < 0 {
		w += 3
	}
	return w
}

// RenderTabBar renders a single-row tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceBright).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	pad := lipgloss.NewStyle().Background(t.Surface).Render(" ")
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(tab.Name))
			continue
		}
		var label string
		if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
			label = inactiveStyle.Render(tab.Name[:tab.KeyPos]) +
				keyStyle.Render(string(tab.Name[tab.KeyPos])) +
				inactiveStyle.Render(tab.Name[tab.KeyPos+1:])
		} else {
			label = inactiveStyle.Render(tab.Name) +
				inactiveStyle.Render("[") + keyStyle.Render(string(tab.Key)) + inactiveStyle.Render("]")
		}
		parts = append(parts, pad+label+pad)
	}

	row := strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
