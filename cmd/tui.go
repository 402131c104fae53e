package cmd

import (
	"fmt"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/tui"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"dashboard"},
	Short:   "Launch the interactive dashboard",
	RunE:    runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	theme.SetActive(cfg.Appearance.Theme)

	// Background styling needs a color profile even when stdout is not
	// detected as a terminal.
	lipgloss.SetColorProfile(termenv.TrueColor)

	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	app := tui.NewApp(tui.Options{
		Store:     st,
		UserID:    userKey(),
		Config:    cfg,
		NeedSetup: !config.Exists(),
	})
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
