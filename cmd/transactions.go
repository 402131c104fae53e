package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/finance"

	"github.com/spf13/cobra"
)

var (
	flagTxSearch   string
	flagTxCategory string
	flagTxType     string
	flagTxLimit    int
)

var transactionsCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"tx"},
	Short:   "Income and expenses as one ledger, newest first",
	RunE:    runTransactions,
}

func init() {
	transactionsCmd.Flags().StringVarP(&flagTxSearch, "search", "q", "", "Match description or category")
	transactionsCmd.Flags().StringVarP(&flagTxCategory, "category", "c", "", "Only this category")
	transactionsCmd.Flags().StringVarP(&flagTxType, "type", "t", "", "income or expense")
	transactionsCmd.Flags().IntVarP(&flagTxLimit, "limit", "n", 0, "Show at most N rows")
	rootCmd.AddCommand(transactionsCmd)
}

func runTransactions(c *cobra.Command, _ []string) error {
	kind := finance.TransactionKind(strings.ToLower(flagTxType))
	switch kind {
	case "", finance.KindIncome, finance.KindExpense:
	default:
		return fmt.Errorf("--type must be %s or %s", finance.KindIncome, finance.KindExpense)
	}

	st, err := loadState(c.Context())
	if err != nil {
		return err
	}
	txs := finance.FilterTransactions(finance.Transactions(st.Snapshot, today()), finance.TransactionFilter{
		Query:    flagTxSearch,
		Category: flagTxCategory,
		Kind:     kind,
	})
	if len(txs) == 0 {
		emptyNote("No matching transactions.")
		return nil
	}
	in, out, net := finance.Totals(txs)
	shown := txs
	if flagTxLimit > 0 && len(shown) > flagTxLimit {
		shown = shown[:flagTxLimit]
	}

	rows := make([][]string, 0, len(shown)+2)
	for _, t := range shown {
		amount := t.Amount
		if t.Kind == finance.KindExpense {
			amount = amount.Neg()
		}
		rows = append(rows, []string{
			t.Date.String(),
			t.Name,
			t.Category,
			cli.AmountStyle(amount.IsNegative()).Render(cli.FormatSignedMoney(amount, cfg.General.Currency)),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Transactions (%d)", len(txs)),
		Headers: []string{"Date", "Description", "Category", "Amount"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Print(cli.RenderKeyValue([][2]string{
		{"In", money(in)},
		{"Out", money(out)},
		{"Net", cli.FormatSignedMoney(net, cfg.General.Currency)},
	}))
	return nil
}
