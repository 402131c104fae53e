package model

import "github.com/shopspring/decimal"

// FinancialSummary is derived from income and expenses on every read.
type FinancialSummary struct {
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	Balance           decimal.Decimal `json:"balance"`
	SavingsPercentage float64         `json:"savingsPercentage"`
}

// CategoryStats holds the total spent in one category.
type CategoryStats struct {
	Category           string          `json:"category"`
	Amount             decimal.Decimal `json:"amount"`
	PercentageOfIncome float64         `json:"percentageOfIncome"`
	ShareOfExpenses    float64         `json:"shareOfExpenses"`
	Count              int             `json:"count"`
}

// DailyStats holds the expense total for a single calendar day.
type DailyStats struct {
	Date   Date            `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// IncomeVsExpense pairs a day's spending with a pro-rata share of income.
type IncomeVsExpense struct {
	Date     Date            `json:"date"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// HealthScore is the 0-100 rubric score and its label.
type HealthScore struct {
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
	Status   string `json:"status"`
}

// GoalProgress is a goal evaluated against a given day.
type GoalProgress struct {
	Goal             SavingsGoal     `json:"goal"`
	ProgressPercent  float64         `json:"progressPercent"`
	DaysRemaining    int             `json:"daysRemaining"`
	SuggestedMonthly decimal.Decimal `json:"suggestedMonthly"`
	State            GoalState       `json:"state"`
}

// GoalAnalysis aggregates all goals of a snapshot.
type GoalAnalysis struct {
	TotalGoals     int             `json:"totalGoals"`
	CompletedGoals int             `json:"completedGoals"`
	TotalGoalValue decimal.Decimal `json:"totalGoalValue"`
	TotalSaved     decimal.Decimal `json:"totalSaved"`
	CompletionRate float64         `json:"completionRate"`
	SavingsRate    float64         `json:"savingsRate"`
}

// MonthlyProjection extrapolates the current balance forward.
type MonthlyProjection struct {
	MonthlySavings     decimal.Decimal `json:"monthlySavings"`
	MonthsToReachGoals float64         `json:"monthsToReachGoals"`
	YearlyProjection   decimal.Decimal `json:"yearlyProjection"`
}

// Severity classifies a recommendation.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
	SeveritySuccess  Severity = "success"
)

// Recommendation is one actionable observation about the snapshot.
type Recommendation struct {
	Type    Severity `json:"type"`
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Action  string   `json:"action"`
}
