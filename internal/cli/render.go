package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fintrack/internal/finance"
	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorText).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorText)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorTextMuted)
	dimStyle    = lipgloss.NewStyle().Foreground(ColorTextDim)
	goodStyle   = lipgloss.NewStyle().Foreground(ColorGreen)
	warnStyle   = lipgloss.NewStyle().Foreground(ColorOrange)
	badStyle    = lipgloss.NewStyle().Foreground(ColorRed)
	infoStyle   = lipgloss.NewStyle().Foreground(ColorBlue)
)

// Table represents a bordered text table for CLI output.
// The first column is left-aligned, the rest are right-aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Separator is a row value that draws a horizontal rule.
const Separator = "---"

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(titleStyle.Render(title))
}

// RenderSection renders a bold section label.
func RenderSection(label string) string {
	return "  " + headerStyle.Render(label)
}

// RenderKeyValue renders aligned "label  value" lines.
func RenderKeyValue(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}
	var b strings.Builder
	for _, p := range pairs {
		pad := strings.Repeat(" ", width-lipgloss.Width(p[0]))
		fmt.Fprintf(&b, "  %s%s  %s\n", mutedStyle.Render(p[0]), pad, valueStyle.Render(p[1]))
	}
	return b.String()
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	for _, row := range t.Rows {
		numCols = max(numCols, len(row))
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			continue
		}
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	rule := func(left, mid, right string) string {
		parts := make([]string, numCols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return dimStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
	}
	line := func(cells []string, style lipgloss.Style, alignFirstOnly bool) string {
		var b strings.Builder
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			gap := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if i == 0 || alignFirstOnly {
				b.WriteString(style.Render(" " + cell + gap + " "))
			} else {
				b.WriteString(style.Render(" " + gap + cell + " "))
			}
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(RenderSection(t.Title))
		b.WriteString("\n")
	}
	b.WriteString(rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(line(t.Headers, headerStyle, true))
		b.WriteString(rule("├", "┼", "┤"))
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}
		b.WriteString(line(row, valueStyle, false))
	}
	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == Separator
}

// ProgressBar renders a percentage as a block bar, clamped to 0..100.
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	p := min(max(percent, 0), 100)
	filled := int(p / 100 * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// RenderProgressBar renders a colored bar followed by the percentage.
func RenderProgressBar(percent float64, width int) string {
	style := warnStyle
	if percent >= 100 {
		style = goodStyle
	}
	return fmt.Sprintf("%s %s", style.Render(ProgressBar(percent, width)), FormatPercent(percent))
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		b.WriteRune(blocks[min(max(idx, 0), len(blocks)-1)])
	}
	return b.String()
}

// RenderHorizontalBar renders one labelled bar scaled against maxValue.
func RenderHorizontalBar(label string, value, maxValue float64, maxWidth int) string {
	barLen := 0
	if maxValue > 0 {
		barLen = min(max(int(value/maxValue*float64(maxWidth)), 0), maxWidth)
	}
	return fmt.Sprintf("  %s %s", label, infoStyle.Render(strings.Repeat("█", barLen)))
}

// RenderRecommendation renders a recommendation with a severity marker.
func RenderRecommendation(r model.Recommendation) string {
	var marker string
	switch r.Type {
	case model.SeverityCritical:
		marker = badStyle.Render("✗")
	case model.SeverityWarning:
		marker = warnStyle.Render("!")
	case model.SeveritySuccess:
		marker = goodStyle.Render("✓")
	default:
		marker = infoStyle.Render("i")
	}
	out := fmt.Sprintf("  %s %s\n    %s", marker, headerStyle.Render(r.Title), r.Message)
	if r.Action != "" {
		out += "\n    " + mutedStyle.Render("→ "+r.Action)
	}
	return out
}

// StatusStyle colors a health status label.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case finance.StatusExcellent, finance.StatusGood:
		return goodStyle
	case finance.StatusFair:
		return warnStyle
	default:
		return badStyle
	}
}

// AmountStyle colors an amount green when non-negative and red otherwise.
func AmountStyle(negative bool) lipgloss.Style {
	if negative {
		return badStyle
	}
	return goodStyle
}
