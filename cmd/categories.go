package cmd

import (
	"fmt"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/finance"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cats"},
	Short:   "Spending by category",
	RunE:    runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(c *cobra.Command, _ []string) error {
	st, err := loadState(c.Context())
	if err != nil {
		return err
	}
	snap := st.Snapshot

	cats := finance.CategoryBreakdown(snap.Expenses, snap.Income)
	if len(cats) == 0 {
		emptyNote("No expenses recorded.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SPENDING BY CATEGORY"))
	fmt.Println()

	rows := make([][]string, 0, len(cats)+2)
	for _, cat := range cats {
		rows = append(rows, []string{
			cat.Category,
			money(cat.Amount),
			cli.FormatPercent(cat.PercentageOfIncome),
			cli.FormatPercent(cat.ShareOfExpenses),
			cli.FormatNumber(int64(cat.Count)),
		})
	}
	rows = append(rows, []string{cli.Separator})
	rows = append(rows, []string{"Total", money(finance.TotalExpenses(snap.Expenses)), "", "100.0%", cli.FormatNumber(int64(len(snap.Expenses)))})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Category", "Amount", "% Income", "% Spend", "Count"},
		Rows:    rows,
	}))

	fmt.Println()
	peak := cats[0].Amount.InexactFloat64()
	for _, cat := range cats {
		fmt.Println(cli.RenderHorizontalBar(fmt.Sprintf("%-10s", cat.Category), cat.Amount.InexactFloat64(), peak, 30))
	}

	if usage := finance.BudgetUsage(snap.Budgets, snap.Expenses); len(usage) > 0 {
		fmt.Println()
		fmt.Println(cli.RenderSection("Budgets"))
		for _, u := range usage {
			fmt.Printf("  %-12s %s  %s of %s\n", u.Budget.Name, cli.RenderProgressBar(u.UsedPercent, 20), money(u.Spent), money(u.Budget.Limit))
		}
	}
	return nil
}
