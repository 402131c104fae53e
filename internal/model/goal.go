package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalState is the lifecycle state of a savings goal on a given day.
type GoalState string

const (
	GoalActive    GoalState = "active"
	GoalCompleted GoalState = "completed"
	GoalOverdue   GoalState = "overdue"
)

// SavingsGoal is a named target amount with a deadline.
type SavingsGoal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      Date            `json:"deadline"`
	CreatedAt     time.Time       `json:"createdAt,omitzero"`
}

// Remaining returns how much is still missing, never below zero.
func (g SavingsGoal) Remaining() decimal.Decimal {
	r := g.TargetAmount.Sub(g.CurrentAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Completed reports whether the current amount has reached the target.
func (g SavingsGoal) Completed() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}
