package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/finance"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/state"

	"github.com/spf13/cobra"
)

var (
	flagSimIncome      string
	flagSimAdd         []string
	flagSimRemove      []string
	flagSimFromCurrent bool
)

var simulateCmd = &cobra.Command{
	Use:     "simulate",
	Aliases: []string{"whatif"},
	Short:   "Compare a hypothetical budget with the recorded one",
	Long: "Build a what-if budget and compare it with your recorded figures.\n" +
		"The simulation starts empty unless --from-current is given. Nothing is saved.",
	Example: `  fintrack simulate --income 4200 --add Rent:1100:Housing --add Food:350
  fintrack simulate --from-current --remove 3f2a`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagSimIncome, "income", "", "Simulated monthly income")
	simulateCmd.Flags().StringArrayVar(&flagSimAdd, "add", nil, "Add an expense as NAME:AMOUNT[:CATEGORY] (repeatable)")
	simulateCmd.Flags().StringArrayVar(&flagSimRemove, "remove", nil, "Drop a recorded expense by id prefix (needs --from-current)")
	simulateCmd.Flags().BoolVar(&flagSimFromCurrent, "from-current", false, "Start from the recorded income and expenses")
	rootCmd.AddCommand(simulateCmd)
}

// parseSimExpense reads NAME:AMOUNT[:CATEGORY].
func parseSimExpense(s string, now time.Time) (model.Expense, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return model.Expense{}, fmt.Errorf("--add %q: want NAME:AMOUNT[:CATEGORY]", s)
	}
	amount, err := parseAmount("add", parts[1])
	if err != nil {
		return model.Expense{}, err
	}
	in := state.ExpenseInput{Name: parts[0], Amount: amount}
	if len(parts) == 3 {
		in.Category = parts[2]
	}
	return state.NewExpense(in, now)
}

func runSimulate(c *cobra.Command, _ []string) error {
	if len(flagSimRemove) > 0 && !flagSimFromCurrent {
		return fmt.Errorf("--remove needs --from-current")
	}
	st, err := loadState(c.Context())
	if err != nil {
		return err
	}
	snap := st.Snapshot
	now := time.Now()

	sim := finance.NewSimulation()
	if flagSimFromCurrent {
		sim = finance.SimulationFromCurrent(snap)
	}
	if flagSimIncome != "" {
		income, err := parseAmount("income", flagSimIncome)
		if err != nil {
			return err
		}
		if income.IsNegative() {
			return fmt.Errorf("--income: %w", state.ErrNegativeAmount)
		}
		sim = sim.WithIncome(income)
	}
	for _, prefix := range flagSimRemove {
		id, err := resolveID("expense", prefix, expenseIDs(snap))
		if err != nil {
			return err
		}
		sim = sim.WithoutExpense(id)
	}
	for _, spec := range flagSimAdd {
		e, err := parseSimExpense(spec, now)
		if err != nil {
			return err
		}
		sim = sim.WithExpense(e)
	}

	cmp := finance.Simulate(snap.Income, snap.Expenses, sim)

	fmt.Println()
	fmt.Println(cli.RenderTitle("WHAT-IF SIMULATION"))
	fmt.Println()

	row := func(label string, f finance.Field, cur, simulated, diff string) []string {
		return []string{label, cur, simulated, diff, cmp.Outcome(f).String()}
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"", "Current", "Simulated", "Change", ""},
		Rows: [][]string{
			row("Income", finance.FieldIncome, money(cmp.Current.TotalIncome), money(cmp.Simulated.TotalIncome), cli.FormatSignedMoney(cmp.IncomeDiff, cfg.General.Currency)),
			row("Expenses", finance.FieldExpenses, money(cmp.Current.TotalExpenses), money(cmp.Simulated.TotalExpenses), cli.FormatSignedMoney(cmp.ExpensesDiff, cfg.General.Currency)),
			row("Balance", finance.FieldBalance, money(cmp.Current.Balance), money(cmp.Simulated.Balance), cli.FormatSignedMoney(cmp.BalanceDiff, cfg.General.Currency)),
			row("Savings rate", finance.FieldSavings, cli.FormatPercent(cmp.Current.SavingsPercentage), cli.FormatPercent(cmp.Simulated.SavingsPercentage), fmt.Sprintf("%+.1f pts", cmp.SavingsDiff)),
		},
	}))

	if insights := finance.Insights(cmp, money); len(insights) > 0 {
		fmt.Println()
		for _, rec := range insights {
			fmt.Println(cli.RenderRecommendation(rec))
		}
	}
	return nil
}
