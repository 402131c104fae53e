package finance

import (
	"sort"
	"strings"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes money in from money out.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// IncomeTransactionID identifies the synthetic income row.
const IncomeTransactionID = "income-main"

// Transaction is one row of the combined income and expense ledger view.
type Transaction struct {
	ID       string          `json:"id"`
	Kind     TransactionKind `json:"type"`
	Name     string          `json:"description"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     model.Date      `json:"date"`
}

// Transactions lists the income (as a single row dated today, when positive)
// and every expense, newest first.
func Transactions(s model.Snapshot, today model.Date) []Transaction {
	out := make([]Transaction, 0, len(s.Expenses)+1)
	if s.Income.IsPositive() {
		out = append(out, Transaction{
			ID:       IncomeTransactionID,
			Kind:     KindIncome,
			Name:     "Monthly income",
			Category: "Income",
			Amount:   s.Income,
			Date:     today,
		})
	}
	for _, e := range s.Expenses {
		d := e.Date
		if d.IsZero() {
			d = today
		}
		out = append(out, Transaction{
			ID:       e.ID,
			Kind:     KindExpense,
			Name:     e.Name,
			Category: e.CategoryOrDefault(),
			Amount:   e.Amount,
			Date:     d,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// TransactionFilter narrows the transaction view. Zero values match everything.
type TransactionFilter struct {
	Query    string
	Category string
	Kind     TransactionKind
}

// FilterTransactions returns the transactions matching every set criterion.
func FilterTransactions(txs []Transaction, f TransactionFilter) []Transaction {
	var out []Transaction
	for _, t := range txs {
		if f.Kind != "" && t.Kind != f.Kind {
			continue
		}
		if f.Category != "" && !strings.EqualFold(t.Category, f.Category) {
			continue
		}
		if f.Query != "" && !containsIgnoreCase(t.Name, f.Query) && !containsIgnoreCase(t.Category, f.Query) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Totals returns money in, money out and their difference.
func Totals(txs []Transaction) (in, out, net decimal.Decimal) {
	in, out = decimal.Zero, decimal.Zero
	for _, t := range txs {
		if t.Kind == KindIncome {
			in = in.Add(t.Amount)
		} else {
			out = out.Add(t.Amount)
		}
	}
	return in, out, in.Sub(out)
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
