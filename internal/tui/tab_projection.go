package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/fintrack/internal/finance"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

type projectionState struct {
	scenario finance.Scenario
	params   finance.ScenarioParams
	rows     []finance.ProjectionRow
	err      error
}

func (p *projectionState) recompute(params finance.ScenarioParams, monthlyExpenses decimal.Decimal) {
	params.Scenario = p.scenario
	p.params = params
	p.rows, p.err = finance.Project(params, monthlyExpenses, time.Now().Year())
}

// projectionParams projects from the profile ages, treating money saved toward
// goals as current savings and the monthly balance as the contribution.
func (a App) projectionParams() finance.ScenarioParams {
	return finance.ScenarioParams{
		CurrentAge:          a.cfg.Profile.CurrentAge,
		RetirementAge:       a.cfg.Profile.RetirementAge,
		CurrentSavings:      a.report.GoalAnalysis.TotalSaved,
		MonthlyContribution: decimal.Max(a.report.Summary.Balance, decimal.Zero),
	}
}

func stepScenario(sc finance.Scenario, delta int) finance.Scenario {
	n := len(finance.Scenarios)
	for i, s := range finance.Scenarios {
		if s == sc {
			return finance.Scenarios[((i+delta)%n+n)%n]
		}
	}
	return finance.Moderate
}

func (a App) updateProjectionKeys(key string) (App, tea.Cmd, bool) {
	switch key {
	case "[":
		a.proj.scenario = stepScenario(a.proj.scenario, -1)
	case "]":
		a.proj.scenario = stepScenario(a.proj.scenario, 1)
	default:
		return a, nil, false
	}
	a.proj.recompute(a.projectionParams(), a.report.Summary.TotalExpenses)
	return a, nil, true
}

func (a App) renderProjectionTab(cw int) string {
	t := theme.Active
	p := a.proj
	var b strings.Builder

	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	if p.err != nil {
		b.WriteString(components.ContentCard("Retirement Projection",
			lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(p.err.Error())+"\n\n"+
				dim.Render("Adjust your ages in Settings [x]."), cw))
		return b.String()
	}

	rate, _ := p.scenario.Rate()
	final := finance.FinalBalance(p.rows)
	contributed := decimal.Zero
	if len(p.rows) > 0 {
		contributed = p.rows[len(p.rows)-1].Contributions
	}

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Scenario", Value: string(p.scenario), Note: rate.Shift(2).String() + "% a year", Color: t.Accent},
		{Label: "Years", Value: fmt.Sprint(p.params.RetirementAge - p.params.CurrentAge),
			Note: fmt.Sprintf("age %d to %d", p.params.CurrentAge, p.params.RetirementAge)},
		{Label: "Contributed", Value: a.money(contributed), Note: a.money(p.params.MonthlyContribution) + "/mo"},
		{Label: "Final balance", Value: a.money(final), Note: "returns " + a.money(final.Sub(contributed)), Color: t.Income},
	}, cw))
	b.WriteString("\n")

	if len(p.rows) > 1 {
		vals := make([]float64, len(p.rows))
		labels := make([]string, len(p.rows))
		for i, r := range p.rows {
			vals[i] = r.Balance.InexactFloat64()
			labels[i] = fmt.Sprint(r.Year)
		}
		b.WriteString(components.ContentCard("Balance by Year",
			components.BarChart(vals, labels, t.Income, components.CardInnerWidth(cw), 8), cw))
		b.WriteString("\n")
	}

	b.WriteString(components.ContentCard("Milestones", a.renderMilestones(components.CardInnerWidth(cw)), cw))
	return b.String()
}

// renderMilestones lists the first year, every fifth year and the last.
func (a App) renderMilestones(innerW int) string {
	t := theme.Active
	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	colW := max((innerW-12)/4, 12)
	lines := []string{header.Render(fmt.Sprintf("%-6s %-4s  %*s %*s %*s %*s",
		"Year", "Age", colW, "Contributed", colW, "Returns", colW, "Balance", colW, "Expenses/yr"))}

	last := len(a.proj.rows) - 1
	for i, r := range a.proj.rows {
		if i != 0 && i != last && i%5 != 0 {
			continue
		}
		lines = append(lines, row.Render(fmt.Sprintf("%-6d %-4d  %*s %*s %*s %*s",
			r.Year, a.proj.params.CurrentAge+i,
			colW, a.money(r.Contributions),
			colW, a.money(r.CompoundReturns),
			colW, a.money(r.Balance),
			colW, a.money(r.Expenses))))
	}
	lines = append(lines, "", dim.Render("[ ] change scenario  ·  "+scenarioHint()))
	return strings.Join(lines, "\n")
}

func scenarioHint() string {
	parts := make([]string, len(finance.Scenarios))
	for i, sc := range finance.Scenarios {
		rate, _ := sc.Rate()
		parts[i] = fmt.Sprintf("%s %s%%", sc, rate.Shift(2).String())
	}
	return strings.Join(parts, " / ")
}
