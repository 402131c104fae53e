package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNiceCeiling(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 1},
		{0.7, 1},
		{3, 5},
		{12, 20},
		{480, 500},
		{1000, 1000},
		{7300, 10000},
	}
	for _, tc := range tests {
		if got := niceCeiling(tc.in); got != tc.want {
			t.Fatalf("niceCeiling(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestAxisLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.5, "0.50"},
		{20, "20"},
		{1000, "1k"},
		{1500, "1.5k"},
		{2e6, "2M"},
	}
	for _, tc := range tests {
		if got := AxisLabel(tc.in); got != tc.want {
			t.Fatalf("AxisLabel(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBarChartHeightAndLabels(t *testing.T) {
	out := BarChart([]float64{10, 40, 25}, []string{"Jun 1", "2", "3"}, "#ffffff", 40, 6)
	lines := strings.Split(out, "\n")
	if len(lines) != 8 { // 6 rows + axis + labels
		t.Fatalf("got %d lines, want 8:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[len(lines)-1], "Jun 1") {
		t.Fatalf("label row = %q, want first label", lines[len(lines)-1])
	}
	for i, line := range lines[:7] {
		if w := lipgloss.Width(line); w > 40 {
			t.Fatalf("line %d width = %d, exceeds 40", i, w)
		}
	}
}

func TestBarChartKeepsRecentValues(t *testing.T) {
	values := make([]float64, 100)
	values[99] = 50
	out := BarChart(values, nil, "#ffffff", 30, 4)
	top := strings.Split(out, "\n")[0]
	if !strings.Contains(top, "█") {
		t.Fatalf("most recent peak should reach the top row: %q", top)
	}
}

func TestHBarChartScalesToPeak(t *testing.T) {
	out := HBarChart([]HBar{
		{Label: "Housing", Value: 100, Text: "$100"},
		{Label: "Food", Value: 50, Text: "$50"},
	}, 40)
	lines := strings.Split(out, "\n")
	full := strings.Count(lines[0], "█")
	half := strings.Count(lines[1], "█")
	if full == 0 || half*2 < full-1 || half*2 > full+1 {
		t.Fatalf("bars = %d and %d, want 2:1", full, half)
	}
}
