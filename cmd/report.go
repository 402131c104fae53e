package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/fintrack/internal/finance"
	"github.com/theirongolddev/fintrack/internal/report"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	flagReportRaw   bool
	flagReportWidth int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Full financial report as markdown",
	Long:  "Print the full report. Styled for the terminal unless --raw is given or stdout is not a terminal.",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&flagReportRaw, "raw", false, "Print plain markdown")
	reportCmd.Flags().IntVar(&flagReportWidth, "width", 0, "Wrap width (default terminal width)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(c *cobra.Command, _ []string) error {
	st, err := loadState(c.Context())
	if err != nil {
		return err
	}
	now := time.Now()
	r := finance.BuildReport(st.Snapshot, today(), money)
	doc := report.Markdown(r, cfg.General.Currency, now)

	fd := int(os.Stdout.Fd())
	styled := !flagReportRaw && term.IsTerminal(fd)
	width := flagReportWidth
	if width == 0 && styled {
		if w, _, err := term.GetSize(fd); err == nil {
			width = min(w, 100)
		}
	}

	out, err := report.Plain(doc, styled, width)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
