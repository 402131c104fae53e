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

var (
	flagIncomeFrequency string
	flagIncomeSync      bool
)

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Monthly income and income sources",
	RunE:  runIncomeShow,
}

var incomeSetCmd = &cobra.Command{
	Use:   "set AMOUNT",
	Short: "Set the monthly income",
	Args:  cobra.ExactArgs(1),
	RunE:  runIncomeSet,
}

var incomeAddSourceCmd = &cobra.Command{
	Use:     "add-source NAME AMOUNT",
	Short:   "Record a named income source",
	Example: `  fintrack income add-source Salary 52000 --frequency yearly --sync`,
	Args:    cobra.ExactArgs(2),
	RunE:    runIncomeAddSource,
}

var incomeSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List income sources with their monthly equivalent",
	RunE:  runIncomeShow,
}

var incomeRmSourceCmd = &cobra.Command{
	Use:   "rm-source ID",
	Short: "Remove an income source",
	Args:  cobra.ExactArgs(1),
	RunE:  runIncomeRmSource,
}

func init() {
	incomeAddSourceCmd.Flags().StringVarP(&flagIncomeFrequency, "frequency", "f", "monthly", "monthly, weekly or yearly")
	incomeAddSourceCmd.Flags().BoolVar(&flagIncomeSync, "sync", false, "Recompute monthly income from all sources")
	incomeRmSourceCmd.Flags().BoolVar(&flagIncomeSync, "sync", false, "Recompute monthly income from remaining sources")

	incomeCmd.AddCommand(incomeSetCmd, incomeAddSourceCmd, incomeRmSourceCmd, incomeSourcesCmd)
	rootCmd.AddCommand(incomeCmd)
}

func runIncomeShow(c *cobra.Command, _ []string) error {
	st, err := loadState(c.Context())
	if err != nil {
		return err
	}
	snap := st.Snapshot

	fmt.Println()
	fmt.Print(cli.RenderKeyValue([][2]string{{"Monthly income", money(snap.Income)}}))
	if len(snap.IncomeSources) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(snap.IncomeSources)+2)
	for _, src := range snap.IncomeSources {
		rows = append(rows, []string{shortID(src.ID), src.Name, string(src.Frequency), money(src.Amount), money(src.MonthlyAmount())})
	}
	rows = append(rows, []string{cli.Separator})
	rows = append(rows, []string{"", "Total", "", "", money(finance.IncomeFromSources(snap.IncomeSources))})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Income sources",
		Headers: []string{"ID", "Name", "Frequency", "Amount", "Monthly"},
		Rows:    rows,
	}))
	return nil
}

func runIncomeSet(c *cobra.Command, args []string) error {
	amount, err := parseAmount("amount", args[0])
	if err != nil {
		return err
	}
	next, err := withState(c.Context(), func(s state.State) (state.State, error) {
		return state.ApplySetIncome(s, amount, time.Now())
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Monthly income set to %s\n", money(next.Snapshot.Income))
	return nil
}

func runIncomeAddSource(c *cobra.Command, args []string) error {
	amount, err := parseAmount("amount", args[1])
	if err != nil {
		return err
	}
	var src model.IncomeSource
	next, err := withState(c.Context(), func(s state.State) (state.State, error) {
		next, added, err := state.ApplyAddIncomeSource(s, args[0], amount, model.Frequency(flagIncomeFrequency), flagIncomeSync, time.Now())
		src = added
		return next, err
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Added %s: %s %s (%s/month) [%s]\n",
		src.Name, money(src.Amount), src.Frequency, money(src.MonthlyAmount()), shortID(src.ID))
	if flagIncomeSync {
		fmt.Printf("  Monthly income is now %s\n", money(next.Snapshot.Income))
	}
	return nil
}

func runIncomeRmSource(c *cobra.Command, args []string) error {
	next, err := withState(c.Context(), func(s state.State) (state.State, error) {
		ids := make([]string, len(s.Snapshot.IncomeSources))
		for i, src := range s.Snapshot.IncomeSources {
			ids[i] = src.ID
		}
		id, err := resolveID("income source", args[0], ids)
		if err != nil {
			return s, err
		}
		return state.ApplyRemoveIncomeSource(s, id, flagIncomeSync, time.Now())
	})
	if err != nil {
		return err
	}
	fmt.Println("  Income source removed")
	if flagIncomeSync {
		fmt.Printf("  Monthly income is now %s\n", money(next.Snapshot.Income))
	}
	return nil
}
