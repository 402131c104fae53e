package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Start from the file, not from cfg, so --store and --ephemeral are not persisted.
	current, err := config.Load()
	if err != nil {
		return err
	}

	vals := tui.ValuesFromConfig(current)
	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	next, err := vals.Apply(current)
	if err != nil {
		return err
	}
	if err := config.Save(next); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `fintrack setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

// maskSecret shows just enough of a secret to recognize it.
func maskSecret(s string) string {
	if len(s) > 16 {
		return s[:8] + "..." + s[len(s)-4:]
	}
	if len(s) > 4 {
		return s[:4] + "..."
	}
	return "****"
}
