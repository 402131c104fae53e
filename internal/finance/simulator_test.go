package finance

import (
	"strings"
	"testing"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

func TestNewSimulationStartsEmpty(t *testing.T) {
	sim := NewSimulation()
	if !sim.Income.IsZero() || len(sim.Expenses) != 0 {
		t.Fatalf("NewSimulation = %+v, want empty", sim)
	}
}

func TestSimulateDeltas(t *testing.T) {
	current := []model.Expense{expense("rent", "1000", "Housing", model.Date{})}
	sim := NewSimulation().
		WithIncome(dec("4000")).
		WithExpense(expense("rent", "1000", "Housing", model.Date{})).
		WithExpense(expense("car", "500", "Transport", model.Date{}))

	c := Simulate(dec("3000"), current, sim)

	assertDec(t, "IncomeDiff", c.IncomeDiff, "1000")
	assertDec(t, "ExpensesDiff", c.ExpensesDiff, "500")
	assertDec(t, "BalanceDiff", c.BalanceDiff, "500")
	assertFloat(t, "SavingsDiff", c.SavingsDiff, c.Simulated.SavingsPercentage-c.Current.SavingsPercentage)

	// Each delta is exactly simulated minus current.
	if !c.BalanceDiff.Equal(c.Simulated.Balance.Sub(c.Current.Balance)) {
		t.Fatal("BalanceDiff != simulated - current")
	}

	if got := c.Outcome(FieldExpenses); got != Worse {
		t.Fatalf("Outcome(expenses) = %s, want worse for higher spending", got)
	}
	if got := c.Outcome(FieldIncome); got != Better {
		t.Fatalf("Outcome(income) = %s, want better", got)
	}
	if got := c.Outcome(FieldBalance); got != Better {
		t.Fatalf("Outcome(balance) = %s, want better", got)
	}
}

func TestSimulateLowerSpendingIsBetter(t *testing.T) {
	current := []model.Expense{expense("rent", "1000", "Housing", model.Date{})}
	sim := NewSimulation().WithIncome(dec("3000")).WithExpense(expense("rent", "800", "Housing", model.Date{}))

	c := Simulate(dec("3000"), current, sim)
	if got := c.Outcome(FieldExpenses); got != Better {
		t.Fatalf("Outcome(expenses) = %s, want better", got)
	}
	if got := c.Outcome(FieldIncome); got != Unchanged {
		t.Fatalf("Outcome(income) = %s, want unchanged", got)
	}
}

func TestSimulationFromCurrentIsIndependent(t *testing.T) {
	snap := model.EmptySnapshot()
	snap.Income = dec("2000")
	snap.Expenses = []model.Expense{expense("a", "10", "Food", model.Date{})}

	sim := SimulationFromCurrent(snap)
	sim.Expenses[0].Amount = dec("99")
	if !snap.Expenses[0].Amount.Equal(dec("10")) {
		t.Fatal("SimulationFromCurrent shares the expense slice with the snapshot")
	}

	sim = sim.WithoutExpense("a")
	if len(sim.Expenses) != 0 {
		t.Fatalf("WithoutExpense left %d expenses", len(sim.Expenses))
	}
}

func TestInsights(t *testing.T) {
	current := []model.Expense{expense("rent", "1000", "Housing", model.Date{})}
	sim := NewSimulation().WithIncome(dec("500")).WithExpense(expense("rent", "1000", "Housing", model.Date{}))

	c := Simulate(dec("3000"), current, sim)
	ins := Insights(c, func(d decimal.Decimal) string { return "$" + d.StringFixed(2) })

	var kinds []string
	for _, i := range ins {
		kinds = append(kinds, string(i.Type))
	}
	if got := strings.Join(kinds, ","); got != "warning,warning,critical" {
		t.Fatalf("insight types = %s, want warning,warning,critical", got)
	}
	if !strings.Contains(ins[0].Message, "$2500.00") {
		t.Fatalf("balance insight = %q", ins[0].Message)
	}

	if got := Insights(Simulate(dec("3000"), current, SimulationFromCurrent(model.Snapshot{Income: dec("3000"), Expenses: current})), nil); len(got) != 0 {
		t.Fatalf("identical simulation produced insights: %+v", got)
	}
}
