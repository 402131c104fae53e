package state

import (
	"strings"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseInput is what a user supplies to record an expense.
type ExpenseInput struct {
	Name     string
	Amount   decimal.Decimal
	Category string
	Date     model.Date
}

// GoalInput is what a user supplies to create a savings goal.
type GoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	Deadline     model.Date
}

// newID is replaced in tests for stable identifiers.
var newID = func() string { return uuid.NewString() }

// NewExpense validates in and applies the defaults: trimmed name,
// category Other when empty, date today when unset.
func NewExpense(in ExpenseInput, now time.Time) (model.Expense, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Expense{}, invalid("name", ErrEmptyName)
	}
	if !in.Amount.IsPositive() {
		return model.Expense{}, invalid("amount", ErrNonPositiveAmount)
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = model.DefaultCategory
	}
	category, ok := canonicalCategory(category)
	if !ok {
		return model.Expense{}, invalid("category", ErrUnknownCategory)
	}
	date := in.Date
	if date.IsZero() {
		date = model.DateOf(now)
	}
	return model.Expense{
		ID:       newID(),
		Name:     name,
		Amount:   in.Amount,
		Category: category,
		Date:     date,
	}, nil
}

// NewGoal validates in. The deadline must fall strictly after today.
func NewGoal(in GoalInput, now time.Time) (model.SavingsGoal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.SavingsGoal{}, invalid("name", ErrEmptyName)
	}
	if !in.TargetAmount.IsPositive() {
		return model.SavingsGoal{}, invalid("targetAmount", ErrNonPositiveAmount)
	}
	if in.Deadline.IsZero() || !in.Deadline.After(model.DateOf(now)) {
		return model.SavingsGoal{}, invalid("deadline", ErrDeadlineNotFuture)
	}
	return model.SavingsGoal{
		ID:            newID(),
		Name:          name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      in.Deadline,
		CreatedAt:     now.UTC(),
	}, nil
}

// canonicalCategory matches name against the fixed set, case-insensitively.
func canonicalCategory(name string) (string, bool) {
	for _, c := range model.Categories {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

// ParseAmount parses user-entered money, rejecting anything that is not a
// finite decimal number.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, invalid("amount", ErrInvalidAmount)
	}
	return d, nil
}
