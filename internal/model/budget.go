package model

import "github.com/shopspring/decimal"

// CategoryBudget caps monthly spending for one category name.
type CategoryBudget struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Limit decimal.Decimal `json:"limit"`
}

// BudgetUsage compares a budget limit with what was actually spent.
type BudgetUsage struct {
	Budget      CategoryBudget
	Spent       decimal.Decimal
	UsedPercent float64
	Over        bool
}

// Frequency is how often an income source pays out.
type Frequency string

const (
	Monthly Frequency = "monthly"
	Weekly  Frequency = "weekly"
	Yearly  Frequency = "yearly"
)

// IncomeSource is one named contributor to the monthly income.
type IncomeSource struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Frequency Frequency       `json:"frequency"`
}

var weeksPerMonth = decimal.NewFromInt(52).Div(decimal.NewFromInt(12))

// MonthlyAmount converts the source amount to its monthly equivalent.
func (s IncomeSource) MonthlyAmount() decimal.Decimal {
	switch s.Frequency {
	case Weekly:
		return s.Amount.Mul(weeksPerMonth)
	case Yearly:
		return s.Amount.Div(decimal.NewFromInt(12))
	default:
		return s.Amount
	}
}
