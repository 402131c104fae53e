package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/finance"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/state"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagGoalTenPercent bool
	flagGoalSuggested  bool
)

var errNothingToContribute = errors.New("nothing to contribute: balance is not positive")

var goalCmd = &cobra.Command{
	Use:     "goal",
	Aliases: []string{"goals"},
	Short:   "Savings goals",
	RunE:    runGoalList,
}

var goalAddCmd = &cobra.Command{
	Use:     "add NAME TARGET DEADLINE",
	Short:   "Create a savings goal",
	Example: `  fintrack goal add "Emergency fund" 10000 2026-12-31`,
	Args:    cobra.ExactArgs(3),
	RunE:    runGoalAdd,
}

var goalContributeCmd = &cobra.Command{
	Use:   "contribute ID [AMOUNT]",
	Short: "Add money to a goal",
	Example: `  fintrack goal contribute 3f2a 250
  fintrack goal contribute 3f2a --ten-percent
  fintrack goal contribute 3f2a --suggested`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGoalContribute,
}

var goalListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show progress of every goal",
	RunE:    runGoalList,
}

var goalRmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a savings goal",
	Args:    cobra.ExactArgs(1),
	RunE:    runGoalRm,
}

func init() {
	goalContributeCmd.Flags().BoolVar(&flagGoalTenPercent, "ten-percent", false, "Contribute 10% of the current balance")
	goalContributeCmd.Flags().BoolVar(&flagGoalSuggested, "suggested", false, "Contribute the suggested monthly amount")
	goalContributeCmd.MarkFlagsMutuallyExclusive("ten-percent", "suggested")

	goalCmd.AddCommand(goalAddCmd, goalContributeCmd, goalRmCmd, goalListCmd)
	rootCmd.AddCommand(goalCmd)
}

func runGoalList(c *cobra.Command, _ []string) error {
	st, err := loadState(c.Context())
	if err != nil {
		return err
	}
	goals := finance.GoalsProgress(st.Snapshot.Goals, today())
	if len(goals) == 0 {
		emptyNote("No savings goals yet. Create one with `fintrack goal add`.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SAVINGS GOALS"))
	fmt.Println()
	for _, p := range goals {
		g := p.Goal
		fmt.Printf("  %s  %s  %s\n", shortID(g.ID), g.Name, goalStateLabel(p))
		fmt.Printf("    %s  %s of %s\n", cli.RenderProgressBar(p.ProgressPercent, 24), money(g.CurrentAmount), money(g.TargetAmount))
		if p.State == model.GoalActive {
			fmt.Printf("    Deadline %s (%s), suggested %s/month\n", g.Deadline, cli.FormatDays(p.DaysRemaining), money(p.SuggestedMonthly))
		} else {
			fmt.Printf("    Deadline %s (%s)\n", g.Deadline, cli.FormatDays(p.DaysRemaining))
		}
		fmt.Println()
	}

	analysis := finance.AnalyzeGoals(st.Snapshot.Goals)
	fmt.Print(cli.RenderKeyValue([][2]string{
		{"Completed", fmt.Sprintf("%d of %d", analysis.CompletedGoals, analysis.TotalGoals)},
		{"Saved", money(analysis.TotalSaved) + " / " + money(analysis.TotalGoalValue)},
	}))
	return nil
}

func goalStateLabel(p model.GoalProgress) string {
	switch p.State {
	case model.GoalCompleted:
		return cli.StatusStyle(finance.StatusExcellent).Render("completed")
	case model.GoalOverdue:
		return cli.StatusStyle(finance.StatusCritical).Render("overdue")
	default:
		return cli.FormatPercent(p.ProgressPercent)
	}
}

func runGoalAdd(c *cobra.Command, args []string) error {
	target, err := parseAmount("target", args[1])
	if err != nil {
		return err
	}
	deadline, err := model.ParseDate(args[2])
	if err != nil {
		return fmt.Errorf("deadline: %w", err)
	}

	var added model.SavingsGoal
	_, err = withState(c.Context(), func(s state.State) (state.State, error) {
		next, g, err := state.ApplyAddGoal(s, state.GoalInput{Name: args[0], TargetAmount: target, Deadline: deadline}, time.Now())
		added = g
		return next, err
	})
	if err != nil {
		return err
	}
	p := finance.GoalProgress(added, today())
	fmt.Printf("  Created %s: %s by %s [%s]\n", added.Name, money(added.TargetAmount), added.Deadline, shortID(added.ID))
	fmt.Printf("  Save %s/month to get there\n", money(p.SuggestedMonthly))
	return nil
}

func runGoalContribute(c *cobra.Command, args []string) error {
	if len(args) == 1 && !flagGoalTenPercent && !flagGoalSuggested {
		return errors.New("give an AMOUNT or use --ten-percent or --suggested")
	}
	if len(args) == 2 && (flagGoalTenPercent || flagGoalSuggested) {
		return errors.New("AMOUNT cannot be combined with --ten-percent or --suggested")
	}

	var (
		amount decimal.Decimal
		goal   model.SavingsGoal
	)
	_, err := withState(c.Context(), func(s state.State) (state.State, error) {
		id, err := resolveID("goal", args[0], goalIDs(s.Snapshot))
		if err != nil {
			return s, err
		}
		now := time.Now()
		switch {
		case flagGoalTenPercent:
			amount, err = state.QuickTenPercent(s, id)
		case flagGoalSuggested:
			amount, err = state.QuickSuggested(s, id, now)
		default:
			amount, err = parseAmount("amount", args[1])
		}
		if err != nil {
			return s, err
		}
		if amount.IsZero() {
			return s, errNothingToContribute
		}
		next, err := state.ApplyContribute(s, id, amount, now)
		if err != nil {
			return s, err
		}
		for _, g := range next.Snapshot.Goals {
			if g.ID == id {
				goal = g
			}
		}
		return next, nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("  Added %s to %s: %s of %s\n", money(amount), goal.Name, money(goal.CurrentAmount), money(goal.TargetAmount))
	if goal.Completed() {
		fmt.Println("  " + cli.StatusStyle(finance.StatusExcellent).Render("Goal reached!"))
	}
	return nil
}

func runGoalRm(c *cobra.Command, args []string) error {
	_, err := withState(c.Context(), func(s state.State) (state.State, error) {
		id, err := resolveID("goal", args[0], goalIDs(s.Snapshot))
		if err != nil {
			return s, err
		}
		return state.ApplyRemoveGoal(s, id, time.Now())
	})
	if err != nil {
		return err
	}
	fmt.Println("  Goal removed")
	return nil
}
