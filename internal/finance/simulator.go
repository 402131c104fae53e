package finance

import (
	"fmt"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

// Simulation is a hypothetical income and expense set, independent of the
// recorded snapshot.
type Simulation struct {
	Income   decimal.Decimal `json:"income"`
	Expenses []model.Expense `json:"expenses"`
}

// NewSimulation returns an empty simulation for the user to fill in.
func NewSimulation() Simulation {
	return Simulation{Income: decimal.Zero, Expenses: []model.Expense{}}
}

// SimulationFromCurrent starts a simulation from the recorded snapshot.
func SimulationFromCurrent(s model.Snapshot) Simulation {
	return Simulation{Income: s.Income, Expenses: append([]model.Expense{}, s.Expenses...)}
}

// WithIncome returns a copy with the income replaced.
func (s Simulation) WithIncome(income decimal.Decimal) Simulation {
	s.Income = income
	return s
}

// WithExpense returns a copy with e appended.
func (s Simulation) WithExpense(e model.Expense) Simulation {
	s.Expenses = append(append([]model.Expense{}, s.Expenses...), e)
	return s
}

// WithoutExpense returns a copy without the expense of the given id.
func (s Simulation) WithoutExpense(id string) Simulation {
	out := make([]model.Expense, 0, len(s.Expenses))
	for _, e := range s.Expenses {
		if e.ID != id {
			out = append(out, e)
		}
	}
	s.Expenses = out
	return s
}

// Field identifies one compared figure.
type Field string

const (
	FieldIncome   Field = "income"
	FieldExpenses Field = "expenses"
	FieldBalance  Field = "balance"
	FieldSavings  Field = "savingsPercentage"
)

// Outcome is how a change should be read by the user.
type Outcome int

const (
	Unchanged Outcome = iota
	Better
	Worse
)

func (o Outcome) String() string {
	switch o {
	case Better:
		return "better"
	case Worse:
		return "worse"
	default:
		return "unchanged"
	}
}

// Comparison holds both summaries and their signed differences
// (simulated minus current).
type Comparison struct {
	Current      model.FinancialSummary `json:"current"`
	Simulated    model.FinancialSummary `json:"simulated"`
	IncomeDiff   decimal.Decimal        `json:"incomeDiff"`
	ExpensesDiff decimal.Decimal        `json:"expensesDiff"`
	BalanceDiff  decimal.Decimal        `json:"balanceDiff"`
	SavingsDiff  float64                `json:"savingsDiff"`
}

// Simulate compares the simulation with the recorded income and expenses.
func Simulate(income decimal.Decimal, expenses []model.Expense, sim Simulation) Comparison {
	cur := Summarize(income, expenses)
	simulated := Summarize(sim.Income, sim.Expenses)
	return Comparison{
		Current:      cur,
		Simulated:    simulated,
		IncomeDiff:   simulated.TotalIncome.Sub(cur.TotalIncome),
		ExpensesDiff: simulated.TotalExpenses.Sub(cur.TotalExpenses),
		BalanceDiff:  simulated.Balance.Sub(cur.Balance),
		SavingsDiff:  simulated.SavingsPercentage - cur.SavingsPercentage,
	}
}

// Outcome reads the difference of one field. More spending is worse even
// though its difference is positive; for every other field more is better.
func (c Comparison) Outcome(f Field) Outcome {
	var sign int
	switch f {
	case FieldIncome:
		sign = c.IncomeDiff.Sign()
	case FieldExpenses:
		sign = -c.ExpensesDiff.Sign()
	case FieldBalance:
		sign = c.BalanceDiff.Sign()
	case FieldSavings:
		switch {
		case c.SavingsDiff > 0:
			sign = 1
		case c.SavingsDiff < 0:
			sign = -1
		}
	}
	switch {
	case sign > 0:
		return Better
	case sign < 0:
		return Worse
	default:
		return Unchanged
	}
}

// Insights describes the comparison in plain sentences.
func Insights(c Comparison, currency func(decimal.Decimal) string) []model.Recommendation {
	format := func(d decimal.Decimal) string {
		if currency != nil {
			return currency(d)
		}
		return d.StringFixed(2)
	}

	var out []model.Recommendation
	switch c.Outcome(FieldBalance) {
	case Better:
		out = append(out, model.Recommendation{
			Type:    model.SeveritySuccess,
			Title:   "Balance improves",
			Message: fmt.Sprintf("Your balance would improve by %s.", format(c.BalanceDiff.Abs())),
		})
	case Worse:
		out = append(out, model.Recommendation{
			Type:    model.SeverityWarning,
			Title:   "Balance worsens",
			Message: fmt.Sprintf("Your balance would drop by %s.", format(c.BalanceDiff.Abs())),
		})
	}

	switch c.Outcome(FieldSavings) {
	case Better:
		out = append(out, model.Recommendation{
			Type:    model.SeveritySuccess,
			Title:   "Savings rate up",
			Message: fmt.Sprintf("Your savings rate would rise by %.1f points.", c.SavingsDiff),
		})
	case Worse:
		out = append(out, model.Recommendation{
			Type:    model.SeverityWarning,
			Title:   "Savings rate down",
			Message: fmt.Sprintf("Your savings rate would fall by %.1f points.", -c.SavingsDiff),
		})
	}

	if c.Simulated.Balance.IsNegative() {
		out = append(out, model.Recommendation{
			Type:    model.SeverityCritical,
			Title:   "Deficit",
			Message: "In this scenario your expenses exceed your income.",
			Action:  "Reduce simulated expenses or raise income",
		})
	}
	return out
}
