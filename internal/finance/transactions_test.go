package finance

import (
	"testing"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"
)

func TestTransactionsIncludesIncomeNewestFirst(t *testing.T) {
	today := day(2025, time.June, 30)
	snap := model.Snapshot{Income: dec("3000"), Expenses: sampleExpenses()}

	txs := Transactions(snap, today)
	if len(txs) != 4 {
		t.Fatalf("len(txs) = %d, want 4", len(txs))
	}
	if txs[0].ID != IncomeTransactionID || txs[0].Kind != KindIncome {
		t.Fatalf("txs[0] = %+v, want income row first", txs[0])
	}
	for i := 1; i < len(txs); i++ {
		if txs[i].Date.After(txs[i-1].Date) {
			t.Fatalf("txs not newest first at %d", i)
		}
	}
	if txs[1].Category != model.DefaultCategory {
		t.Fatalf("uncategorized expense Category = %q, want %q", txs[1].Category, model.DefaultCategory)
	}

	in, out, net := Totals(txs)
	assertDec(t, "in", in, "3000")
	assertDec(t, "out", out, "1800")
	assertDec(t, "net", net, "1200")
}

func TestTransactionsNoIncome(t *testing.T) {
	txs := Transactions(model.Snapshot{Expenses: sampleExpenses()}, day(2025, time.June, 30))
	for _, tx := range txs {
		if tx.Kind == KindIncome {
			t.Fatal("zero income should not produce an income row")
		}
	}
}

func TestFilterTransactions(t *testing.T) {
	txs := Transactions(model.Snapshot{Income: dec("3000"), Expenses: sampleExpenses()}, day(2025, time.June, 30))

	tests := []struct {
		name   string
		filter TransactionFilter
		want   int
	}{
		{"all", TransactionFilter{}, 4},
		{"expenses only", TransactionFilter{Kind: KindExpense}, 3},
		{"income only", TransactionFilter{Kind: KindIncome}, 1},
		{"category", TransactionFilter{Category: "food"}, 1},
		{"search by name", TransactionFilter{Query: "RENT"}, 1},
		{"search by category", TransactionFilter{Query: "hous"}, 1},
		{"combined miss", TransactionFilter{Query: "rent", Kind: KindIncome}, 0},
	}
	for _, tt := range tests {
		if got := len(FilterTransactions(txs, tt.filter)); got != tt.want {
			t.Errorf("%s: len = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestBuildReport(t *testing.T) {
	today := day(2025, time.June, 30)
	snap := model.Snapshot{
		Income:   dec("3000"),
		Expenses: sampleExpenses(),
		Goals:    []model.SavingsGoal{goal("1000", "1000", today.AddDays(30))},
	}
	r := BuildReport(snap, today, nil)

	assertDec(t, "Balance", r.Summary.Balance, "1200")
	if len(r.Categories) != 3 || len(r.Daily) != 3 || len(r.Goals) != 1 {
		t.Fatalf("report sizes = %d/%d/%d", len(r.Categories), len(r.Daily), len(r.Goals))
	}
	// 25 balance + 25 savings (40%) + 15 categories + 25 completion
	if r.Health.Score != 90 || r.Health.Status != StatusExcellent {
		t.Fatalf("Health = %+v, want 90 Excellent", r.Health)
	}
}
