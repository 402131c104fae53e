package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/fintrack/internal/state"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var flagResetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all income, expenses, goals and budgets",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(resetCmd)
}

func runReset(c *cobra.Command, _ []string) error {
	if !flagResetYes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete all data for %q?", userKey())).
			Description("This cannot be undone. Export first if you want a backup.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("  Cancelled")
			return nil
		}
	}

	_, err := withState(c.Context(), func(s state.State) (state.State, error) {
		return state.ApplyReset(s, time.Now()), nil
	})
	if err != nil {
		return err
	}
	fmt.Println("  All data deleted")
	return nil
}
