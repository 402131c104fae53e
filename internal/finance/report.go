package finance

import (
	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

// Report bundles every derived view of one snapshot.
type Report struct {
	Summary         model.FinancialSummary  `json:"summary"`
	Categories      []model.CategoryStats   `json:"categories"`
	Daily           []model.DailyStats      `json:"daily"`
	Goals           []model.GoalProgress    `json:"goals"`
	GoalAnalysis    model.GoalAnalysis      `json:"goalAnalysis"`
	Health          model.HealthScore       `json:"health"`
	Monthly         model.MonthlyProjection `json:"monthly"`
	Recommendations []model.Recommendation  `json:"recommendations"`
	AverageExpense  decimal.Decimal         `json:"averageExpense"`
	Budgets         []model.BudgetUsage     `json:"budgets,omitempty"`
	IncomeVsExpense []model.IncomeVsExpense `json:"incomeVsExpense"`
}

// BuildReport derives every view of s as of today. currency formats amounts
// inside recommendation messages and may be nil.
func BuildReport(s model.Snapshot, today model.Date, currency func(decimal.Decimal) string) Report {
	summary := Summarize(s.Income, s.Expenses)
	cats := CategoryBreakdown(s.Expenses, s.Income)
	analysis := AnalyzeGoals(s.Goals)

	return Report{
		Summary:         summary,
		Categories:      cats,
		Daily:           DailySeries(s.Expenses, today),
		Goals:           GoalsProgress(s.Goals, today),
		GoalAnalysis:    analysis,
		Health:          HealthScore(summary, cats, analysis.CompletionRate),
		Monthly:         ProjectMonthly(summary, analysis),
		Recommendations: Recommend(summary, cats, s.Goals, currency),
		AverageExpense:  AverageExpense(s.Expenses),
		Budgets:         BudgetUsage(s.Budgets, s.Expenses),
		IncomeVsExpense: IncomeVsExpenses(s.Income, s.Expenses, today),
	}
}
