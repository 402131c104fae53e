// Package report renders a finance.Report as a markdown document, and
// renders markdown for the terminal.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/finance"

	"github.com/charmbracelet/glamour"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// Markdown builds the full financial report.
func Markdown(r finance.Report, currency string, now time.Time) string {
	money := cli.MoneyFormatter(currency)

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Financial Report on %s", now.Format("2006-01-02")))
	doc.PlainText(fmt.Sprintf("Health score: **%d/%d** (%s)", r.Health.Score, r.Health.MaxScore, r.Health.Status))

	doc.H2("Summary")
	doc.Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Income", money(r.Summary.TotalIncome)},
			{"Expenses", money(r.Summary.TotalExpenses)},
			{"Balance", money(r.Summary.Balance)},
			{"Savings rate", cli.FormatPercent(r.Summary.SavingsPercentage)},
			{"Average expense", money(r.AverageExpense)},
		},
	})

	if len(r.Categories) > 0 {
		doc.H2("Spending by Category")
		rows := make([][]string, 0, len(r.Categories))
		for _, c := range r.Categories {
			rows = append(rows, []string{
				c.Category,
				money(c.Amount),
				cli.FormatPercent(c.PercentageOfIncome),
				cli.FormatPercent(c.ShareOfExpenses),
				fmt.Sprintf("%d", c.Count),
			})
		}
		doc.Table(md.TableSet{
			Header: []string{"Category", "Amount", "% of income", "% of spending", "Count"},
			Rows:   rows,
		})
	}

	if len(r.Budgets) > 0 {
		doc.H2("Budgets")
		rows := make([][]string, 0, len(r.Budgets))
		for _, b := range r.Budgets {
			status := "ok"
			if b.Over {
				status = "over"
			}
			rows = append(rows, []string{b.Budget.Name, money(b.Spent), money(b.Budget.Limit), cli.FormatPercent(b.UsedPercent), status})
		}
		doc.Table(md.TableSet{
			Header: []string{"Budget", "Spent", "Limit", "Used", "Status"},
			Rows:   rows,
		})
	}

	doc.H2("Goals")
	if len(r.Goals) == 0 {
		doc.PlainText("No savings goals yet.")
	} else {
		rows := make([][]string, 0, len(r.Goals))
		for _, g := range r.Goals {
			rows = append(rows, []string{
				g.Goal.Name,
				money(g.Goal.CurrentAmount) + " / " + money(g.Goal.TargetAmount),
				cli.FormatPercent(g.ProgressPercent),
				cli.FormatDays(g.DaysRemaining),
				money(g.SuggestedMonthly),
				string(g.State),
			})
		}
		doc.Table(md.TableSet{
			Header: []string{"Goal", "Saved", "Progress", "Deadline", "Monthly", "State"},
			Rows:   rows,
		})
		doc.PlainText(fmt.Sprintf("%d of %d goals completed, %s saved of %s.",
			r.GoalAnalysis.CompletedGoals, r.GoalAnalysis.TotalGoals,
			money(r.GoalAnalysis.TotalSaved), money(r.GoalAnalysis.TotalGoalValue)))
	}

	doc.H2("Outlook")
	doc.BulletList(
		"Monthly savings: "+money(r.Monthly.MonthlySavings),
		"Yearly projection: "+money(r.Monthly.YearlyProjection),
		"Months to reach goals: "+cli.FormatMonths(r.Monthly.MonthsToReachGoals),
	)

	if len(r.Recommendations) > 0 {
		doc.H2("Recommendations")
		items := make([]string, 0, len(r.Recommendations))
		for _, rec := range r.Recommendations {
			item := fmt.Sprintf("**%s** (%s): %s", rec.Title, rec.Type, rec.Message)
			if rec.Action != "" {
				item += " " + rec.Action + "."
			}
			items = append(items, item)
		}
		doc.BulletList(items...)
	}

	return doc.String()
}

// ProjectionMarkdown renders a retirement projection table.
func ProjectionMarkdown(rows []finance.ProjectionRow, scenario finance.Scenario, currency string) string {
	money := cli.MoneyFormatter(currency)

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	rate, err := scenario.Rate()
	if err != nil {
		rate = decimal.Zero
	}
	doc.H1(fmt.Sprintf("Retirement Projection (%s, %s%%/yr)", scenario, rate.Shift(2).String()))

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			fmt.Sprintf("%d", r.Year),
			money(r.Balance),
			money(r.Contributions),
			money(r.CompoundReturns),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Year", "Balance", "Contributions", "Returns"},
		Rows:   out,
	})
	if len(rows) > 0 {
		doc.PlainText("Final balance: **" + money(finance.FinalBalance(rows)) + "**")
	}
	return doc.String()
}

// Render renders markdown for a terminal of the given width. A width of
// zero or less disables wrapping.
func Render(markdown string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// Plain returns markdown unchanged when styling is off, otherwise Render.
func Plain(markdown string, styled bool, width int) (string, error) {
	if !styled {
		return markdown, nil
	}
	return Render(markdown, width)
}
