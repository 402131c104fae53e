package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/fintrack/internal/export"
	"github.com/theirongolddev/fintrack/internal/state"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace all data with a JSON export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(c *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	in, err := export.ReadJSON(f)
	if err != nil {
		return err
	}
	next, err := withState(c.Context(), func(s state.State) (state.State, error) {
		return state.ApplyImport(s, in, time.Now())
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Imported %d expenses and %d goals (income %s)\n",
		len(next.Snapshot.Expenses), len(next.Snapshot.Goals), money(next.Snapshot.Income))
	return nil
}
