package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/finance"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagProjectAge        int
	flagProjectRetireAge  int
	flagProjectSavings    string
	flagProjectMonthly    string
	flagProjectExpenses   string
	flagProjectScenario   string
	flagProjectCompareAll bool
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"retirement"},
	Short:   "Project retirement savings year by year",
	Example: `  fintrack project --age 35 --retire-at 60 --savings 20000 --monthly 800
  fintrack project --scenario aggressive
  fintrack project --compare`,
	RunE: runProject,
}

func init() {
	projectCmd.Flags().IntVar(&flagProjectAge, "age", 0, "Current age (default from profile)")
	projectCmd.Flags().IntVar(&flagProjectRetireAge, "retire-at", 0, "Retirement age (default from profile)")
	projectCmd.Flags().StringVar(&flagProjectSavings, "savings", "0", "Current savings")
	projectCmd.Flags().StringVar(&flagProjectMonthly, "monthly", "", "Monthly contribution (default current balance)")
	projectCmd.Flags().StringVar(&flagProjectExpenses, "expenses", "", "Monthly expenses (default recorded total)")
	projectCmd.Flags().StringVarP(&flagProjectScenario, "scenario", "s", "", "conservative, moderate or aggressive (default from profile)")
	projectCmd.Flags().BoolVar(&flagProjectCompareAll, "compare", false, "Compare final balances across all scenarios")
	rootCmd.AddCommand(projectCmd)
}

func runProject(c *cobra.Command, _ []string) error {
	st, err := loadState(c.Context())
	if err != nil {
		return err
	}
	summary := finance.Summarize(st.Snapshot.Income, st.Snapshot.Expenses)

	p := finance.ScenarioParams{
		CurrentAge:          cfg.Profile.CurrentAge,
		RetirementAge:       cfg.Profile.RetirementAge,
		MonthlyContribution: decimal.Max(summary.Balance, decimal.Zero),
	}
	if flagProjectAge > 0 {
		p.CurrentAge = flagProjectAge
	}
	if flagProjectRetireAge > 0 {
		p.RetirementAge = flagProjectRetireAge
	}
	if p.CurrentSavings, err = parseAmount("savings", flagProjectSavings); err != nil {
		return err
	}
	if flagProjectMonthly != "" {
		if p.MonthlyContribution, err = parseAmount("monthly", flagProjectMonthly); err != nil {
			return err
		}
	}
	expenses := summary.TotalExpenses
	if flagProjectExpenses != "" {
		if expenses, err = parseAmount("expenses", flagProjectExpenses); err != nil {
			return err
		}
	}
	scenario := flagProjectScenario
	if scenario == "" {
		scenario = cfg.Profile.RiskProfile
	}
	if p.Scenario, err = finance.ParseScenario(scenario); err != nil {
		return err
	}

	year := time.Now().Year()
	if flagProjectCompareAll {
		return printScenarioComparison(p, expenses, year)
	}

	rows, err := finance.Project(p, expenses, year)
	if err != nil {
		return err
	}

	rate, err := p.Scenario.Rate()
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("RETIREMENT PROJECTION  %s, %s%%/yr", p.Scenario, rate.Shift(2).String())))
	fmt.Println()

	table := make([][]string, 0, len(rows))
	for i, r := range rows {
		table = append(table, []string{
			fmt.Sprintf("%d", r.Year),
			fmt.Sprintf("%d", p.CurrentAge+i+1),
			money(r.Contributions),
			money(r.CompoundReturns),
			money(r.Balance),
			money(r.NetWorth),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Year", "Age", "Contributed", "Returns", "Balance", "Net worth"},
		Rows:    table,
	}))

	balances := make([]float64, len(rows))
	for i, r := range rows {
		balances[i] = r.Balance.InexactFloat64()
	}
	fmt.Printf("\n  %s\n", cli.RenderSparkline(balances))
	fmt.Printf("  Final balance at %d: %s\n", p.RetirementAge, money(finance.FinalBalance(rows)))
	return nil
}

func printScenarioComparison(p finance.ScenarioParams, expenses decimal.Decimal, year int) error {
	rows := make([][]string, 0, len(finance.Scenarios))
	for _, sc := range finance.Scenarios {
		p.Scenario = sc
		proj, err := finance.Project(p, expenses, year)
		if err != nil {
			return err
		}
		rate, err := sc.Rate()
		if err != nil {
			return err
		}
		rows = append(rows, []string{string(sc), rate.Shift(2).String() + "%", money(finance.FinalBalance(proj))})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Savings at %d", p.RetirementAge),
		Headers: []string{"Scenario", "Return", "Final balance"},
		Rows:    rows,
	}))
	return nil
}
