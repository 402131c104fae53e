package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/finance"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/state"

	"github.com/spf13/cobra"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Per-category spending limits",
	RunE:  runBudgetList,
}

var budgetAddCmd = &cobra.Command{
	Use:     "add CATEGORY LIMIT",
	Short:   "Set a monthly limit for a category",
	Example: `  fintrack budget add Food 400`,
	Args:    cobra.ExactArgs(2),
	RunE:    runBudgetAdd,
}

var budgetListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show spending against each budget",
	RunE:    runBudgetList,
}

var budgetRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Remove a budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetRm,
}

func init() {
	budgetCmd.AddCommand(budgetAddCmd, budgetRmCmd, budgetListCmd)
	rootCmd.AddCommand(budgetCmd)
}

func runBudgetList(c *cobra.Command, _ []string) error {
	st, err := loadState(c.Context())
	if err != nil {
		return err
	}
	usage := finance.BudgetUsage(st.Snapshot.Budgets, st.Snapshot.Expenses)
	if len(usage) == 0 {
		emptyNote("No budgets set. Add one with `fintrack budget add Food 400`.")
		return nil
	}

	rows := make([][]string, 0, len(usage))
	for _, u := range usage {
		used := cli.FormatPercent(u.UsedPercent)
		if u.Over {
			used = cli.AmountStyle(true).Render(used + " over")
		}
		rows = append(rows, []string{
			shortID(u.Budget.ID),
			u.Budget.Name,
			money(u.Spent),
			money(u.Budget.Limit),
			cli.ProgressBar(u.UsedPercent, 12),
			used,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Budgets",
		Headers: []string{"ID", "Category", "Spent", "Limit", "", "Used"},
		Rows:    rows,
	}))
	return nil
}

func runBudgetAdd(c *cobra.Command, args []string) error {
	limit, err := parseAmount("limit", args[1])
	if err != nil {
		return err
	}
	var added model.CategoryBudget
	_, err = withState(c.Context(), func(s state.State) (state.State, error) {
		next, b, err := state.ApplyAddBudget(s, args[0], limit, time.Now())
		added = b
		return next, err
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Budget %s: %s [%s]\n", added.Name, money(added.Limit), shortID(added.ID))
	return nil
}

func runBudgetRm(c *cobra.Command, args []string) error {
	_, err := withState(c.Context(), func(s state.State) (state.State, error) {
		ids := make([]string, len(s.Snapshot.Budgets))
		for i, b := range s.Snapshot.Budgets {
			ids[i] = b.ID
		}
		id, err := resolveID("budget", args[0], ids)
		if err != nil {
			return s, err
		}
		return state.ApplyRemoveBudget(s, id, time.Now())
	})
	if err != nil {
		return err
	}
	fmt.Println("  Budget removed")
	return nil
}
