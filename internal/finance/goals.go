package finance

import (
	"math"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

var (
	daysPerMonth = decimal.NewFromInt(30)
	one          = decimal.NewFromInt(1)
)

// GoalProgress evaluates a goal on the given day.
//
// The suggested monthly contribution spreads the remaining amount over the
// months left, counting any deadline less than a month away as one month.
// It is zero once the goal is complete or the deadline has passed.
func GoalProgress(g model.SavingsGoal, today model.Date) model.GoalProgress {
	p := model.GoalProgress{
		Goal:             g,
		DaysRemaining:    DaysUntil(today, g.Deadline),
		SuggestedMonthly: decimal.Zero,
	}

	if g.TargetAmount.IsPositive() {
		pct := nonNegative(g.CurrentAmount).Div(g.TargetAmount).Mul(hundred).InexactFloat64()
		p.ProgressPercent = math.Min(pct, 100)
	}

	switch {
	case g.Completed() && g.TargetAmount.IsPositive():
		p.State = model.GoalCompleted
	case p.DaysRemaining < 0:
		p.State = model.GoalOverdue
	default:
		p.State = model.GoalActive
	}

	remaining := g.Remaining()
	if remaining.IsPositive() && p.DaysRemaining > 0 {
		months := decimal.NewFromInt(int64(p.DaysRemaining)).Div(daysPerMonth)
		p.SuggestedMonthly = remaining.Div(decimal.Max(months, one))
	}

	return p
}

// GoalsProgress evaluates every goal on the given day, preserving order.
func GoalsProgress(goals []model.SavingsGoal, today model.Date) []model.GoalProgress {
	out := make([]model.GoalProgress, len(goals))
	for i, g := range goals {
		out[i] = GoalProgress(g, today)
	}
	return out
}

// DaysUntil returns the whole days from today to deadline, rounded up.
// It is negative once the deadline has passed.
func DaysUntil(today, deadline model.Date) int {
	return int(math.Ceil(deadline.Time().Sub(today.Time()).Hours() / 24))
}
