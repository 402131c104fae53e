package cmd

import (
	"fmt"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/finance"

	"github.com/spf13/cobra"
)

var flagDailyIncome bool

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Spending per day (last 30 days with entries)",
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().BoolVar(&flagDailyIncome, "vs-income", false, "Compare each day with daily income (income/30)")
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(c *cobra.Command, _ []string) error {
	st, err := loadState(c.Context())
	if err != nil {
		return err
	}
	snap := st.Snapshot

	days := finance.DailySeries(snap.Expenses, today())
	if len(days) == 0 {
		emptyNote("No expenses recorded.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("DAILY SPENDING"))
	fmt.Println()

	var rows [][]string
	var headers []string
	if flagDailyIncome {
		headers = []string{"Date", "Day", "Income", "Expenses"}
		for _, d := range finance.IncomeVsExpenses(snap.Income, snap.Expenses, today()) {
			rows = append(rows, []string{
				d.Date.String(),
				d.Date.Time().Weekday().String()[:3],
				money(d.Income),
				money(d.Expenses),
			})
		}
	} else {
		headers = []string{"Date", "Day", "Entries", "Amount"}
		for _, d := range days {
			rows = append(rows, []string{
				d.Date.String(),
				d.Date.Time().Weekday().String()[:3],
				cli.FormatNumber(int64(d.Count)),
				money(d.Amount),
			})
		}
	}

	fmt.Print(cli.RenderTable(cli.Table{Headers: headers, Rows: rows}))

	values := make([]float64, len(days))
	for i, d := range days {
		values[i] = d.Amount.InexactFloat64()
	}
	fmt.Printf("\n  %s\n", cli.RenderSparkline(values))
	return nil
}
