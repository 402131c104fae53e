package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as a one-line unicode sparkline.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round(max(v, 0) / peak * 7))
		b.WriteRune(eighths[min(idx, 7)+1])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(b.String())
}

// BarChart draws vertical bars for values with a labeled y-axis. When there
// are more values than fit, the most recent (rightmost) ones are kept.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	ceiling := niceCeiling(peak)

	yLabelW := max(len(AxisLabel(ceiling)), 3) + 1
	chartW := max(width-yLabelW-1, 5)

	if maxBars := (chartW + 1) / 2; len(values) > maxBars {
		values = values[len(values)-maxBars:]
		if len(labels) > maxBars {
			labels = labels[len(labels)-maxBars:]
		}
	}
	n := len(values)
	barW := min(max((chartW-(n-1))/n, 1), 6)
	axisLen := n*barW + n - 1

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		top := ceiling * float64(row) / float64(height)
		bottom := ceiling * float64(row-1) / float64(height)

		label := ""
		if row == height {
			label = AxisLabel(ceiling)
		} else if row == (height+1)/2 {
			label = AxisLabel(ceiling * float64(row) / float64(height))
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		for i, v := range values {
			if i > 0 {
				b.WriteString(blank.Render(" "))
			}
			switch {
			case v >= top:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := min(max(int((v-bottom)/(top-bottom)*8), 1), 8)
				b.WriteString(barStyle.Render(strings.Repeat(string(eighths[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", yLabelW, "0", strings.Repeat("─", axisLen))))

	if len(labels) == n && n > 0 {
		b.WriteString("\n")
		b.WriteString(axisStyle.Render(strings.Repeat(" ", yLabelW+1) + edgeLabels(labels[0], labels[n-1], axisLen)))
	}
	return b.String()
}

// edgeLabels places first at the left and last at the right of a line of
// width w.
func edgeLabels(first, last string, w int) string {
	if len(first)+len(last)+1 > w {
		return first
	}
	return first + strings.Repeat(" ", w-len(first)-len(last)) + last
}

// HBar is one row of a horizontal bar chart.
type HBar struct {
	Label string
	Value float64
	Text  string // shown after the bar
	Color lipgloss.Color
}

// HBarChart renders labeled horizontal bars scaled to the largest value.
func HBarChart(rows []HBar, width int) string {
	if len(rows) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW, peak := 0, 0, 0.0
	for _, r := range rows {
		labelW = max(labelW, lipgloss.Width(r.Label))
		textW = max(textW, lipgloss.Width(r.Text))
		peak = max(peak, r.Value)
	}
	if peak == 0 {
		peak = 1
	}
	barMax := max(width-labelW-textW-2, 4)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, len(rows))
	for i, r := range rows {
		n := int(math.Round(max(r.Value, 0) / peak * float64(barMax)))
		color := r.Color
		if color == "" {
			color = t.Accent
		}
		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s ", labelW, r.Label)) +
			lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(strings.Repeat("█", n)) +
			blank.Render(strings.Repeat(" ", barMax-n+1)) +
			textStyle.Render(fmt.Sprintf("%*s", textW, r.Text))
	}
	return strings.Join(lines, "\n")
}

// niceCeiling rounds v up to 1, 2 or 5 times a power of ten.
func niceCeiling(v float64) float64 {
	if v <= 0 {
		return 1
	}
	base := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if v <= m*base {
			return m * base
		}
	}
	return 10 * base
}

// AxisLabel abbreviates an axis value: 1.5k, 2M.
func AxisLabel(v float64) string {
	switch {
	case v >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
