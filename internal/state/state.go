// Package state applies user commands to a snapshot.
//
// Every command has the shape Apply<Name>(s, input, now) (State, error).
// Input is validated first; on error the original state is returned and
// nothing is changed. The returned state never shares slices with the input.
package state

import (
	"strings"
	"time"

	"github.com/theirongolddev/fintrack/internal/finance"
	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

// State is the application state for one user.
type State struct {
	Snapshot model.Snapshot
}

// New wraps a snapshot, normalizing nil lists.
func New(s model.Snapshot) State {
	if s.Expenses == nil {
		s.Expenses = []model.Expense{}
	}
	if s.Goals == nil {
		s.Goals = []model.SavingsGoal{}
	}
	return State{Snapshot: s}
}

func (s State) touched(now time.Time) State {
	s.Snapshot.LastUpdated = now.UTC()
	return s
}

// ApplySetIncome replaces the monthly income.
func ApplySetIncome(s State, income decimal.Decimal, now time.Time) (State, error) {
	if income.IsNegative() {
		return s, invalid("income", ErrNegativeAmount)
	}
	next := State{Snapshot: s.Snapshot.Clone()}
	next.Snapshot.Income = income
	return next.touched(now), nil
}

// ApplyAddExpense records a new expense.
func ApplyAddExpense(s State, in ExpenseInput, now time.Time) (State, model.Expense, error) {
	e, err := NewExpense(in, now)
	if err != nil {
		return s, model.Expense{}, err
	}
	next := State{Snapshot: s.Snapshot.Clone()}
	next.Snapshot.Expenses = append(next.Snapshot.Expenses, e)
	return next.touched(now), e, nil
}

// ApplyReplaceExpense swaps the expense with the same id for e, after
// validating e as if it were new.
func ApplyReplaceExpense(s State, e model.Expense, now time.Time) (State, error) {
	idx := expenseIndex(s.Snapshot.Expenses, e.ID)
	if idx < 0 {
		return s, invalid("id", ErrNotFound)
	}
	normalized, err := NewExpense(ExpenseInput{Name: e.Name, Amount: e.Amount, Category: e.Category, Date: e.Date}, now)
	if err != nil {
		return s, err
	}
	normalized.ID = e.ID

	next := State{Snapshot: s.Snapshot.Clone()}
	next.Snapshot.Expenses[idx] = normalized
	return next.touched(now), nil
}

// ApplyImport replaces the whole snapshot with in after validating every
// entry. Expenses are normalized as if new but keep their ids; goals may
// have past deadlines since they were valid when created. Budgets and
// income sources get the same checks as when they are added, and ids must
// be unique within each list.
func ApplyImport(s State, in model.Snapshot, now time.Time) (State, error) {
	if in.Income.IsNegative() {
		return s, invalid("income", ErrNegativeAmount)
	}
	next := New(model.EmptySnapshot())
	next.Snapshot.Income = in.Income

	ids := newIDSet()
	for _, e := range in.Expenses {
		normalized, err := NewExpense(ExpenseInput{Name: e.Name, Amount: e.Amount, Category: e.Category, Date: e.Date}, now)
		if err != nil {
			return s, err
		}
		if normalized.ID, err = ids.claim("expenses.id", e.ID); err != nil {
			return s, err
		}
		next.Snapshot.Expenses = append(next.Snapshot.Expenses, normalized)
	}

	ids = newIDSet()
	for _, g := range in.Goals {
		g.Name = strings.TrimSpace(g.Name)
		switch {
		case g.Name == "":
			return s, invalid("goals.name", ErrEmptyName)
		case !g.TargetAmount.IsPositive():
			return s, invalid("goals.targetAmount", ErrNonPositiveAmount)
		case g.CurrentAmount.IsNegative():
			return s, invalid("goals.currentAmount", ErrNegativeAmount)
		case g.Deadline.IsZero():
			return s, invalid("goals.deadline", ErrDeadlineNotFuture)
		}
		var err error
		if g.ID, err = ids.claim("goals.id", g.ID); err != nil {
			return s, err
		}
		next.Snapshot.Goals = append(next.Snapshot.Goals, g)
	}

	ids = newIDSet()
	for _, b := range in.Budgets {
		b.Name = strings.TrimSpace(b.Name)
		switch {
		case b.Name == "":
			return s, invalid("budgets.name", ErrEmptyName)
		case !b.Limit.IsPositive():
			return s, invalid("budgets.limit", ErrNonPositiveAmount)
		}
		for _, prev := range next.Snapshot.Budgets {
			if strings.EqualFold(prev.Name, b.Name) {
				return s, invalid("budgets.name", ErrDuplicateBudget)
			}
		}
		var err error
		if b.ID, err = ids.claim("budgets.id", b.ID); err != nil {
			return s, err
		}
		next.Snapshot.Budgets = append(next.Snapshot.Budgets, b)
	}

	ids = newIDSet()
	for _, src := range in.IncomeSources {
		src.Name = strings.TrimSpace(src.Name)
		switch {
		case src.Name == "":
			return s, invalid("incomeSources.name", ErrEmptyName)
		case !src.Amount.IsPositive():
			return s, invalid("incomeSources.amount", ErrNonPositiveAmount)
		}
		freq, err := ParseFrequency(string(src.Frequency))
		if err != nil {
			return s, invalid("incomeSources.frequency", ErrUnknownFrequency)
		}
		src.Frequency = freq
		if src.ID, err = ids.claim("incomeSources.id", src.ID); err != nil {
			return s, err
		}
		next.Snapshot.IncomeSources = append(next.Snapshot.IncomeSources, src)
	}
	return next.touched(now), nil
}

// idSet tracks the ids already used in one imported list.
type idSet map[string]struct{}

func newIDSet() idSet { return idSet{} }

// claim returns id, or a fresh one when id is empty. A repeated id is an error.
func (ids idSet) claim(field, id string) (string, error) {
	if id == "" {
		id = newID()
	}
	if _, ok := ids[id]; ok {
		return "", invalid(field, ErrDuplicateID)
	}
	ids[id] = struct{}{}
	return id, nil
}

// ApplyRemoveExpense deletes the expense with the given id.
func ApplyRemoveExpense(s State, id string, now time.Time) (State, error) {
	idx := expenseIndex(s.Snapshot.Expenses, id)
	if idx < 0 {
		return s, invalid("id", ErrNotFound)
	}
	next := State{Snapshot: s.Snapshot.Clone()}
	next.Snapshot.Expenses = append(next.Snapshot.Expenses[:idx], next.Snapshot.Expenses[idx+1:]...)
	return next.touched(now), nil
}

// ApplyAddGoal creates a savings goal.
func ApplyAddGoal(s State, in GoalInput, now time.Time) (State, model.SavingsGoal, error) {
	g, err := NewGoal(in, now)
	if err != nil {
		return s, model.SavingsGoal{}, err
	}
	next := State{Snapshot: s.Snapshot.Clone()}
	next.Snapshot.Goals = append(next.Snapshot.Goals, g)
	return next.touched(now), g, nil
}

// ApplyContribute adds amount to a goal. Completed and overdue goals still
// accept contributions.
func ApplyContribute(s State, goalID string, amount decimal.Decimal, now time.Time) (State, error) {
	idx := goalIndex(s.Snapshot.Goals, goalID)
	if idx < 0 {
		return s, invalid("id", ErrNotFound)
	}
	if !amount.IsPositive() {
		return s, invalid("amount", ErrNonPositiveAmount)
	}
	next := State{Snapshot: s.Snapshot.Clone()}
	g := &next.Snapshot.Goals[idx]
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	return next.touched(now), nil
}

// ApplyRemoveGoal deletes the goal with the given id.
func ApplyRemoveGoal(s State, id string, now time.Time) (State, error) {
	idx := goalIndex(s.Snapshot.Goals, id)
	if idx < 0 {
		return s, invalid("id", ErrNotFound)
	}
	next := State{Snapshot: s.Snapshot.Clone()}
	next.Snapshot.Goals = append(next.Snapshot.Goals[:idx], next.Snapshot.Goals[idx+1:]...)
	return next.touched(now), nil
}

var tenPercent = decimal.NewFromFloat(0.1)

// QuickTenPercent is the amount of the "+10% of balance" action. It is zero
// when the balance is not positive or the goal is already complete.
func QuickTenPercent(s State, goalID string) (decimal.Decimal, error) {
	idx := goalIndex(s.Snapshot.Goals, goalID)
	if idx < 0 {
		return decimal.Zero, invalid("id", ErrNotFound)
	}
	if s.Snapshot.Goals[idx].Completed() {
		return decimal.Zero, invalid("id", ErrGoalCompleted)
	}
	balance := finance.Summarize(s.Snapshot.Income, s.Snapshot.Expenses).Balance
	if !balance.IsPositive() {
		return decimal.Zero, nil
	}
	return balance.Mul(tenPercent), nil
}

// QuickSuggested is the amount of the "+suggested" action: the goal's
// suggested monthly contribution as of now.
func QuickSuggested(s State, goalID string, now time.Time) (decimal.Decimal, error) {
	idx := goalIndex(s.Snapshot.Goals, goalID)
	if idx < 0 {
		return decimal.Zero, invalid("id", ErrNotFound)
	}
	g := s.Snapshot.Goals[idx]
	if g.Completed() {
		return decimal.Zero, invalid("id", ErrGoalCompleted)
	}
	return finance.GoalProgress(g, model.DateOf(now)).SuggestedMonthly, nil
}

// ApplyAddBudget creates a category budget. Names are unique, ignoring case.
func ApplyAddBudget(s State, name string, limit decimal.Decimal, now time.Time) (State, model.CategoryBudget, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, model.CategoryBudget{}, invalid("name", ErrEmptyName)
	}
	if !limit.IsPositive() {
		return s, model.CategoryBudget{}, invalid("limit", ErrNonPositiveAmount)
	}
	for _, b := range s.Snapshot.Budgets {
		if strings.EqualFold(b.Name, name) {
			return s, model.CategoryBudget{}, invalid("name", ErrDuplicateBudget)
		}
	}
	b := model.CategoryBudget{ID: newID(), Name: name, Limit: limit}
	next := State{Snapshot: s.Snapshot.Clone()}
	next.Snapshot.Budgets = append(next.Snapshot.Budgets, b)
	return next.touched(now), b, nil
}

// ApplyRemoveBudget deletes the budget with the given id.
func ApplyRemoveBudget(s State, id string, now time.Time) (State, error) {
	idx := -1
	for i, b := range s.Snapshot.Budgets {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, invalid("id", ErrNotFound)
	}
	next := State{Snapshot: s.Snapshot.Clone()}
	next.Snapshot.Budgets = append(next.Snapshot.Budgets[:idx], next.Snapshot.Budgets[idx+1:]...)
	return next.touched(now), nil
}

// ParseFrequency accepts monthly, weekly or yearly, case-insensitively.
func ParseFrequency(s string) (model.Frequency, error) {
	switch f := model.Frequency(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return model.Monthly, nil
	case model.Monthly, model.Weekly, model.Yearly:
		return f, nil
	}
	return "", invalid("frequency", ErrUnknownFrequency)
}

// ApplyAddIncomeSource records a named income source and, when syncIncome
// is set, recomputes the monthly income from all sources.
func ApplyAddIncomeSource(s State, name string, amount decimal.Decimal, freq model.Frequency, syncIncome bool, now time.Time) (State, model.IncomeSource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, model.IncomeSource{}, invalid("name", ErrEmptyName)
	}
	if !amount.IsPositive() {
		return s, model.IncomeSource{}, invalid("amount", ErrNonPositiveAmount)
	}
	freq, err := ParseFrequency(string(freq))
	if err != nil {
		return s, model.IncomeSource{}, err
	}
	src := model.IncomeSource{ID: newID(), Name: name, Amount: amount, Frequency: freq}
	next := State{Snapshot: s.Snapshot.Clone()}
	next.Snapshot.IncomeSources = append(next.Snapshot.IncomeSources, src)
	if syncIncome {
		next.Snapshot.Income = finance.IncomeFromSources(next.Snapshot.IncomeSources)
	}
	return next.touched(now), src, nil
}

// ApplyRemoveIncomeSource deletes an income source, recomputing income from
// the remaining sources when syncIncome is set.
func ApplyRemoveIncomeSource(s State, id string, syncIncome bool, now time.Time) (State, error) {
	idx := -1
	for i, src := range s.Snapshot.IncomeSources {
		if src.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, invalid("id", ErrNotFound)
	}
	next := State{Snapshot: s.Snapshot.Clone()}
	next.Snapshot.IncomeSources = append(next.Snapshot.IncomeSources[:idx], next.Snapshot.IncomeSources[idx+1:]...)
	if syncIncome {
		next.Snapshot.Income = finance.IncomeFromSources(next.Snapshot.IncomeSources)
	}
	return next.touched(now), nil
}

// ApplyReset clears every recorded entry.
func ApplyReset(_ State, now time.Time) State {
	return State{Snapshot: model.EmptySnapshot()}.touched(now)
}

func expenseIndex(expenses []model.Expense, id string) int {
	for i, e := range expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func goalIndex(goals []model.SavingsGoal, id string) int {
	for i, g := range goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}
