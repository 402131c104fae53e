package cmd

import (
	"fmt"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/finance"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Financial health score and recommendations",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(c *cobra.Command, _ []string) error {
	st, err := loadState(c.Context())
	if err != nil {
		return err
	}
	r := finance.BuildReport(st.Snapshot, today(), money)

	fmt.Println()
	fmt.Println(cli.RenderTitle("FINANCIAL HEALTH"))
	fmt.Println()

	h := r.Health
	pct := float64(h.Score) / float64(h.MaxScore) * 100
	fmt.Printf("  %s  %d/%d  %s\n\n",
		cli.StatusStyle(h.Status).Render(h.Status), h.Score, h.MaxScore, cli.RenderProgressBar(pct, 30))

	fmt.Print(cli.RenderKeyValue([][2]string{
		{"Savings rate", cli.FormatPercent(r.Summary.SavingsPercentage)},
		{"Categories", fmt.Sprintf("%d", len(r.Categories))},
		{"Goals completed", cli.FormatPercent(r.GoalAnalysis.CompletionRate)},
		{"Monthly savings", money(decimal.Max(r.Monthly.MonthlySavings, decimal.Zero))},
	}))

	if len(r.Recommendations) == 0 {
		return nil
	}
	fmt.Println()
	fmt.Println(cli.RenderSection("Recommendations"))
	for _, rec := range r.Recommendations {
		fmt.Println(cli.RenderRecommendation(rec))
	}
	return nil
}
