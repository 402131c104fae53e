package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab indexes, in components.Tabs order.
const (
	tabOverview = iota
	tabGoals
	tabTransactions
	tabProjection
	tabSettings
)

const compactWidth = 110

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	r := a.report
	sum := r.Summary
	var b strings.Builder

	balanceColor := t.Income
	if sum.Balance.IsNegative() {
		balanceColor = t.Expense
	}
	savingsNote := "of income saved"
	if sum.TotalIncome.IsZero() {
		savingsNote = "set your income"
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Income", Value: a.money(sum.TotalIncome), Note: "monthly", Color: t.Income},
		{Label: "Expenses", Value: a.money(sum.TotalExpenses),
			Note: fmt.Sprintf("%s entries", cli.FormatNumber(int64(len(a.st.Snapshot.Expenses)))), Color: t.Expense},
		{Label: "Balance", Value: a.money(sum.Balance), Note: "yearly " + a.money(r.Monthly.YearlyProjection), Color: balanceColor},
		{Label: "Savings", Value: cli.FormatPercent(sum.SavingsPercentage), Note: savingsNote},
	}, cw))
	b.WriteString("\n")

	if len(r.Daily) > 0 {
		vals := make([]float64, len(r.Daily))
		dates := make([]model.Date, len(r.Daily))
		for i, d := range r.Daily {
			vals[i] = d.Amount.InexactFloat64()
			dates[i] = d.Date
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Daily Spending (%d days)", len(r.Daily)),
			components.BarChart(vals, chartDateLabels(dates), t.Expense, components.CardInnerWidth(cw), 8),
			cw,
		))
		b.WriteString("\n")
	}

	if cw < compactWidth {
		b.WriteString(a.renderHealthCard(cw))
		b.WriteString("\n")
		b.WriteString(a.renderCategoriesCard(cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{a.renderHealthCard(halves[0]), a.renderCategoriesCard(halves[1])}))
	}
	b.WriteString("\n")

	if len(r.Recommendations) > 0 {
		b.WriteString(components.ContentCard("Recommendations", a.renderRecommendations(components.CardInnerWidth(cw)), cw))
	}
	return b.String()
}

func (a App) renderHealthCard(w int) string {
	t := theme.Active
	h := a.report.Health
	color := t.StatusColor(h.Status)

	scoreStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	innerW := components.CardInnerWidth(w)
	var body strings.Builder
	body.WriteString(scoreStyle.Render(fmt.Sprintf("%d/%d  %s", h.Score, h.MaxScore, h.Status)))
	body.WriteString("\n")
	body.WriteString(components.ProgressBar(float64(h.Score)/float64(max(h.MaxScore, 1)), innerW-5))
	body.WriteString("\n\n")

	m := a.report.Monthly
	ga := a.report.GoalAnalysis
	rows := [][2]string{
		{"Average expense", a.money(a.report.AverageExpense)},
		{"Monthly savings", a.money(m.MonthlySavings)},
		{"Goals completed", fmt.Sprintf("%d of %d", ga.CompletedGoals, ga.TotalGoals)},
		{"Saved toward goals", a.money(ga.TotalSaved)},
	}
	if ga.TotalGoals > ga.CompletedGoals && m.MonthsToReachGoals > 0 {
		rows = append(rows, [2]string{"Goals reached in", cli.FormatMonths(m.MonthsToReachGoals)})
	}
	for i, kv := range rows {
		if i > 0 {
			body.WriteString("\n")
		}
		body.WriteString(label.Render(fmt.Sprintf("%-20s", kv[0])))
		body.WriteString(value.Render(kv[1]))
	}
	return components.ContentCard("Financial Health", body.String(), w)
}

func (a App) renderCategoriesCard(w int) string {
	t := theme.Active
	cats := a.report.Categories
	if len(cats) == 0 {
		dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		return components.ContentCard("Categories", dim.Render("No expenses yet. Press [a] to add one."), w)
	}

	limits := make(map[string]model.BudgetUsage, len(a.report.Budgets))
	for _, u := range a.report.Budgets {
		limits[u.Budget.Name] = u
	}

	rows := make([]components.HBar, 0, len(cats))
	for _, c := range cats {
		color := t.Accent
		if u, ok := limits[c.Category]; ok {
			color = components.UsageColor(u.UsedPercent / 100)
		}
		rows = append(rows, components.HBar{
			Label: c.Category,
			Value: c.Amount.InexactFloat64(),
			Text:  fmt.Sprintf("%s %5s", a.money(c.Amount), cli.FormatPercent(c.ShareOfExpenses)),
			Color: color,
		})
	}
	return components.ContentCard("Categories", components.HBarChart(rows, components.CardInnerWidth(w)), w)
}

func (a App) renderRecommendations(innerW int) string {
	t := theme.Active
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	action := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Italic(true)

	lines := make([]string, 0, len(a.report.Recommendations)*2)
	for _, rec := range a.report.Recommendations {
		title := lipgloss.NewStyle().Foreground(t.SeverityColor(rec.Type)).Background(t.Surface).Bold(true)
		lines = append(lines,
			title.Render("● "+rec.Title)+desc.Render("  "+truncStr(rec.Message, max(innerW-len(rec.Title)-4, 10))))
		if rec.Action != "" {
			lines = append(lines, action.Render("  → "+rec.Action))
		}
	}
	return strings.Join(lines, "\n")
}
