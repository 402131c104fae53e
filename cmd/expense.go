package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/state"

	"github.com/spf13/cobra"
)

var (
	flagExpenseCategory string
	flagExpenseDate     string
	flagExpenseName     string
	flagExpenseAmount   string
	flagExpenseLimit    int
)

var expenseCmd = &cobra.Command{
	Use:     "expense",
	Aliases: []string{"exp"},
	Short:   "Record, edit and remove expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add NAME AMOUNT",
	Short: "Record an expense",
	Example: `  fintrack expense add Rent 1200 --category Housing
  fintrack expense add "Weekly shop" 84.50 -c Food --date 2025-06-01`,
	Args: cobra.ExactArgs(2),
	RunE: runExpenseAdd,
}

var expenseRmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove an expense by id (a unique prefix is enough)",
	Args:    cobra.ExactArgs(1),
	RunE:    runExpenseRm,
}

var expenseEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change fields of an existing expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpenseEdit,
}

var expenseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List expenses, newest first",
	RunE:    runExpenseList,
}

func init() {
	expenseAddCmd.Flags().StringVarP(&flagExpenseCategory, "category", "c", "", "Category (default Other)")
	expenseAddCmd.Flags().StringVarP(&flagExpenseDate, "date", "d", "", "Date as YYYY-MM-DD (default today)")

	expenseEditCmd.Flags().StringVar(&flagExpenseName, "name", "", "New name")
	expenseEditCmd.Flags().StringVar(&flagExpenseAmount, "amount", "", "New amount")
	expenseEditCmd.Flags().StringVarP(&flagExpenseCategory, "category", "c", "", "New category")
	expenseEditCmd.Flags().StringVarP(&flagExpenseDate, "date", "d", "", "New date as YYYY-MM-DD")

	expenseListCmd.Flags().StringVarP(&flagExpenseCategory, "category", "c", "", "Only this category")
	expenseListCmd.Flags().IntVarP(&flagExpenseLimit, "limit", "n", 0, "Show at most N expenses")

	expenseCmd.AddCommand(expenseAddCmd, expenseRmCmd, expenseEditCmd, expenseListCmd)
	rootCmd.AddCommand(expenseCmd)
}

func parseDateFlag(s string) (model.Date, error) {
	if s == "" {
		return model.Date{}, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, fmt.Errorf("--date: %w", err)
	}
	return d, nil
}

func runExpenseAdd(c *cobra.Command, args []string) error {
	amount, err := parseAmount("amount", args[1])
	if err != nil {
		return err
	}
	date, err := parseDateFlag(flagExpenseDate)
	if err != nil {
		return err
	}

	var added model.Expense
	_, err = withState(c.Context(), func(s state.State) (state.State, error) {
		next, e, err := state.ApplyAddExpense(s, state.ExpenseInput{
			Name:     args[0],
			Amount:   amount,
			Category: flagExpenseCategory,
			Date:     date,
		}, time.Now())
		added = e
		return next, err
	})
	if err != nil {
		return err
	}

	fmt.Printf("  Added %s  %s  %s  %s  [%s]\n",
		added.Date, added.Name, added.Category, money(added.Amount), shortID(added.ID))
	return nil
}

func runExpenseRm(c *cobra.Command, args []string) error {
	var removed model.Expense
	_, err := withState(c.Context(), func(s state.State) (state.State, error) {
		id, err := resolveID("expense", args[0], expenseIDs(s.Snapshot))
		if err != nil {
			return s, err
		}
		for _, e := range s.Snapshot.Expenses {
			if e.ID == id {
				removed = e
			}
		}
		return state.ApplyRemoveExpense(s, id, time.Now())
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Removed %s (%s)\n", removed.Name, money(removed.Amount))
	return nil
}

func runExpenseEdit(c *cobra.Command, args []string) error {
	var updated model.Expense
	_, err := withState(c.Context(), func(s state.State) (state.State, error) {
		id, err := resolveID("expense", args[0], expenseIDs(s.Snapshot))
		if err != nil {
			return s, err
		}
		for _, e := range s.Snapshot.Expenses {
			if e.ID == id {
				updated = e
			}
		}
		if c.Flags().Changed("name") {
			updated.Name = flagExpenseName
		}
		if c.Flags().Changed("amount") {
			if updated.Amount, err = parseAmount("amount", flagExpenseAmount); err != nil {
				return s, err
			}
		}
		if c.Flags().Changed("category") {
			updated.Category = flagExpenseCategory
		}
		if c.Flags().Changed("date") {
			if updated.Date, err = parseDateFlag(flagExpenseDate); err != nil {
				return s, err
			}
		}
		return state.ApplyReplaceExpense(s, updated, time.Now())
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Updated %s [%s]\n", strings.TrimSpace(updated.Name), shortID(updated.ID))
	return nil
}

func runExpenseList(c *cobra.Command, _ []string) error {
	st, err := loadState(c.Context())
	if err != nil {
		return err
	}

	expenses := make([]model.Expense, 0, len(st.Snapshot.Expenses))
	for _, e := range st.Snapshot.Expenses {
		if flagExpenseCategory != "" && !strings.EqualFold(e.CategoryOrDefault(), flagExpenseCategory) {
			continue
		}
		expenses = append(expenses, e)
	}
	if len(expenses) == 0 {
		emptyNote("No expenses recorded.")
		return nil
	}
	sortExpensesNewestFirst(expenses)
	if flagExpenseLimit > 0 && len(expenses) > flagExpenseLimit {
		expenses = expenses[:flagExpenseLimit]
	}

	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{shortID(e.ID), e.Date.String(), e.Name, e.CategoryOrDefault(), money(e.Amount)})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Expenses (%d)", len(expenses)),
		Headers: []string{"ID", "Date", "Name", "Category", "Amount"},
		Rows:    rows,
	}))
	return nil
}
