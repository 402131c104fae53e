package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/finance"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Income, expenses, balance and savings rate",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(c *cobra.Command, _ []string) error {
	st, err := loadState(c.Context())
	if err != nil {
		return err
	}
	snap := st.Snapshot

	if snap.Income.IsZero() && len(snap.Expenses) == 0 && len(snap.Goals) == 0 {
		emptyNote("No data yet.")
		fmt.Println("  Start with `fintrack income set 3000` and `fintrack expense add`.")
		return nil
	}

	summary := finance.Summarize(snap.Income, snap.Expenses)
	analysis := finance.AnalyzeGoals(snap.Goals)
	monthly := finance.ProjectMonthly(summary, analysis)

	fmt.Println()
	fmt.Println(cli.RenderTitle("FINANCIAL SUMMARY"))
	fmt.Println()

	balance := cli.AmountStyle(summary.Balance.IsNegative()).Render(money(summary.Balance))
	rows := [][]string{
		{"Income", money(summary.TotalIncome)},
		{"Expenses", money(summary.TotalExpenses)},
		{"Balance", balance},
		{"Savings rate", cli.FormatPercent(summary.SavingsPercentage)},
		{cli.Separator},
		{"Entries", cli.FormatNumber(int64(len(snap.Expenses)))},
		{"Average expense", money(finance.AverageExpense(snap.Expenses))},
		{"Yearly projection", money(monthly.YearlyProjection)},
	}
	if analysis.TotalGoals > 0 {
		rows = append(rows,
			[]string{cli.Separator},
			[]string{"Goals", fmt.Sprintf("%d (%d completed)", analysis.TotalGoals, analysis.CompletedGoals)},
			[]string{"Saved toward goals", money(analysis.TotalSaved) + " / " + money(analysis.TotalGoalValue)},
			[]string{"Months to reach goals", cli.FormatMonths(monthly.MonthsToReachGoals)},
		)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	fmt.Printf("\n  Last updated %s\n", cli.FormatRelative(snap.LastUpdated, time.Now()))
	return nil
}
