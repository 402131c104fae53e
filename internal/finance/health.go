package finance

import (
	"fmt"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

// Health status labels.
const (
	StatusExcellent = "Excellent"
	StatusGood      = "Good"
	StatusFair      = "Fair"
	StatusCritical  = "Critical"
)

// HealthScore rates the snapshot out of 100 using four 25-point criteria:
// positive balance, savings rate, category diversity and goal completion.
// The thresholds are a fixed rubric.
func HealthScore(summary model.FinancialSummary, categories []model.CategoryStats, goalCompletion float64) model.HealthScore {
	score := 0

	if summary.Balance.IsPositive() {
		score += 25
	}

	switch s := summary.SavingsPercentage; {
	case s >= 20:
		score += 25
	case s >= 10:
		score += 15
	case s >= 5:
		score += 10
	}

	switch n := len(categories); {
	case n >= 5:
		score += 25
	case n >= 3:
		score += 15
	case n >= 1:
		score += 10
	}

	switch {
	case goalCompletion >= 50:
		score += 25
	case goalCompletion >= 25:
		score += 15
	case goalCompletion > 0:
		score += 10
	}

	return model.HealthScore{Score: score, MaxScore: 100, Status: HealthStatus(score)}
}

// HealthStatus maps a score to its label.
func HealthStatus(score int) string {
	switch {
	case score >= 80:
		return StatusExcellent
	case score >= 60:
		return StatusGood
	case score >= 40:
		return StatusFair
	default:
		return StatusCritical
	}
}

// AnalyzeGoals aggregates goal totals and completion.
func AnalyzeGoals(goals []model.SavingsGoal) model.GoalAnalysis {
	a := model.GoalAnalysis{
		TotalGoals:     len(goals),
		TotalGoalValue: decimal.Zero,
		TotalSaved:     decimal.Zero,
	}
	for _, g := range goals {
		a.TotalGoalValue = a.TotalGoalValue.Add(nonNegative(g.TargetAmount))
		a.TotalSaved = a.TotalSaved.Add(nonNegative(g.CurrentAmount))
		if g.Completed() {
			a.CompletedGoals++
		}
	}
	if a.TotalGoals > 0 {
		a.CompletionRate = float64(a.CompletedGoals) / float64(a.TotalGoals) * 100
	}
	a.SavingsRate = percentOf(a.TotalSaved, a.TotalGoalValue)
	return a
}

// ProjectMonthly extrapolates the current balance as monthly savings.
func ProjectMonthly(summary model.FinancialSummary, goals model.GoalAnalysis) model.MonthlyProjection {
	savings := summary.Balance
	p := model.MonthlyProjection{
		MonthlySavings:   savings,
		YearlyProjection: savings.Mul(decimal.NewFromInt(12)),
	}
	if goals.TotalGoalValue.IsPositive() && savings.IsPositive() {
		months := goals.TotalGoalValue.Sub(goals.TotalSaved).Div(savings).InexactFloat64()
		if months > 0 {
			p.MonthsToReachGoals = months
		}
	}
	return p
}

// Recommend lists observations about the snapshot, most severe first in the
// order they are checked. Spending concentration uses each category's share
// of total expenses.
func Recommend(summary model.FinancialSummary, categories []model.CategoryStats, goals []model.SavingsGoal, currency func(decimal.Decimal) string) []model.Recommendation {
	var recs []model.Recommendation

	if summary.Balance.IsNegative() {
		recs = append(recs, model.Recommendation{
			Type:    model.SeverityCritical,
			Title:   "Budget deficit",
			Message: "Your expenses exceed your income. Review your spending urgently.",
			Action:  "Cut unnecessary expenses",
		})
	}

	if summary.SavingsPercentage < 10 {
		recs = append(recs, model.Recommendation{
			Type:    model.SeverityWarning,
			Title:   "Low savings rate",
			Message: "Saving at least 10-20% of income is recommended.",
			Action:  "Increase income or reduce expenses",
		})
	}

	if top, ok := TopCategory(categories); ok && top.ShareOfExpenses > 50 {
		recs = append(recs, model.Recommendation{
			Type:    model.SeverityWarning,
			Title:   "Concentrated spending",
			Message: fmt.Sprintf("%.1f%% of spending is in %q.", top.ShareOfExpenses, top.Category),
			Action:  "Spread spending across categories for better control",
		})
	}

	if len(goals) == 0 {
		recs = append(recs, model.Recommendation{
			Type:    model.SeverityInfo,
			Title:   "No goals set",
			Message: "Setting financial goals helps with planning.",
			Action:  "Create short and long term goals",
		})
	}

	if summary.Balance.IsPositive() && len(goals) > 0 {
		amount := summary.Balance.StringFixed(2)
		if currency != nil {
			amount = currency(summary.Balance)
		}
		recs = append(recs, model.Recommendation{
			Type:    model.SeveritySuccess,
			Title:   "Positive progress",
			Message: fmt.Sprintf("Saving %s per month, you can reach your goals.", amount),
			Action:  "Keep up this savings pace",
		})
	}

	return recs
}

// TopCategory returns the category with the largest amount, if any.
func TopCategory(categories []model.CategoryStats) (model.CategoryStats, bool) {
	if len(categories) == 0 {
		return model.CategoryStats{}, false
	}
	top := categories[0]
	for _, c := range categories[1:] {
		if c.Amount.GreaterThan(top.Amount) {
			top = c
		}
	}
	return top, true
}
