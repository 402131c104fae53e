package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is everything one user has recorded at a point in time.
// It is the unit of persistence: stores read and write it whole.
type Snapshot struct {
	Income        decimal.Decimal  `json:"income"`
	Expenses      []Expense        `json:"expenses"`
	Goals         []SavingsGoal    `json:"goals"`
	LastUpdated   time.Time        `json:"lastUpdated"`
	Budgets       []CategoryBudget `json:"budgets,omitempty"`
	IncomeSources []IncomeSource   `json:"incomeSources,omitempty"`
}

// EmptySnapshot returns a snapshot with non-nil lists, so it encodes as [] not null.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Income:   decimal.Zero,
		Expenses: []Expense{},
		Goals:    []SavingsGoal{},
	}
}

// Clone returns a deep copy whose slices can be modified independently.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Expenses = append([]Expense{}, s.Expenses...)
	out.Goals = append([]SavingsGoal{}, s.Goals...)
	if s.Budgets != nil {
		out.Budgets = append([]CategoryBudget{}, s.Budgets...)
	}
	if s.IncomeSources != nil {
		out.IncomeSources = append([]IncomeSource{}, s.IncomeSources...)
	}
	return out
}
