package finance

import (
	"testing"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

func goal(target, current string, deadline model.Date) model.SavingsGoal {
	return model.SavingsGoal{ID: "g", Name: "Trip", TargetAmount: dec(target), CurrentAmount: dec(current), Deadline: deadline}
}

func TestGoalProgressActive(t *testing.T) {
	today := day(2025, time.January, 1)
	p := GoalProgress(goal("1200", "300", today.AddDays(90)), today)

	assertFloat(t, "ProgressPercent", p.ProgressPercent, 25)
	if p.DaysRemaining != 90 {
		t.Fatalf("DaysRemaining = %d, want 90", p.DaysRemaining)
	}
	if p.State != model.GoalActive {
		t.Fatalf("State = %s, want active", p.State)
	}
	// 900 remaining over 3 months.
	assertDec(t, "SuggestedMonthly", p.SuggestedMonthly, "300")
}

func TestGoalProgressImminentDeadlineSaturates(t *testing.T) {
	today := day(2025, time.January, 1)
	p := GoalProgress(goal("1000", "400", today.AddDays(10)), today)

	// Less than a month away counts as one month.
	assertDec(t, "SuggestedMonthly", p.SuggestedMonthly, "600")
}

func TestGoalProgressCompletedClamps(t *testing.T) {
	today := day(2025, time.January, 1)
	p := GoalProgress(goal("1000", "1500", today.AddDays(-5)), today)

	assertFloat(t, "ProgressPercent", p.ProgressPercent, 100)
	if p.State != model.GoalCompleted {
		t.Fatalf("State = %s, want completed", p.State)
	}
	if !p.SuggestedMonthly.IsZero() {
		t.Fatalf("SuggestedMonthly = %s, want 0", p.SuggestedMonthly)
	}
}

func TestGoalProgressOverdue(t *testing.T) {
	today := day(2025, time.March, 10)
	p := GoalProgress(goal("1000", "100", today.AddDays(-3)), today)

	if p.DaysRemaining != -3 {
		t.Fatalf("DaysRemaining = %d, want -3", p.DaysRemaining)
	}
	if p.State != model.GoalOverdue {
		t.Fatalf("State = %s, want overdue", p.State)
	}
	if !p.SuggestedMonthly.IsZero() {
		t.Fatalf("SuggestedMonthly = %s, want 0 when overdue", p.SuggestedMonthly)
	}

	// A late contribution still completes it.
	late := GoalProgress(goal("1000", "1000", today.AddDays(-3)), today)
	if late.State != model.GoalCompleted {
		t.Fatalf("late State = %s, want completed", late.State)
	}
}

func TestGoalProgressDeadlineToday(t *testing.T) {
	today := day(2025, time.March, 10)
	p := GoalProgress(goal("1000", "100", today), today)
	if p.State != model.GoalActive || !p.SuggestedMonthly.IsZero() {
		t.Fatalf("deadline today = %+v, want active with no suggestion", p)
	}
}

func TestGoalProgressZeroTarget(t *testing.T) {
	today := day(2025, time.January, 1)
	p := GoalProgress(goal("0", "50", today.AddDays(30)), today)
	if p.ProgressPercent != 0 {
		t.Fatalf("ProgressPercent = %v, want 0", p.ProgressPercent)
	}
}

func TestGoalProgressMonotonic(t *testing.T) {
	today := day(2025, time.January, 1)
	prev := -1.0
	for cur := int64(0); cur <= 1500; cur += 50 {
		g := goal("1000", "0", today.AddDays(60))
		g.CurrentAmount = decimal.NewFromInt(cur)
		p := GoalProgress(g, today).ProgressPercent
		if p < prev || p < 0 || p > 100 {
			t.Fatalf("progress at %d = %v (prev %v)", cur, p, prev)
		}
		prev = p
	}
}

func TestDaysUntil(t *testing.T) {
	a := day(2024, time.February, 28)
	if got := DaysUntil(a, day(2024, time.March, 1)); got != 2 {
		t.Fatalf("DaysUntil across leap day = %d, want 2", got)
	}
	if got := DaysUntil(a, a); got != 0 {
		t.Fatalf("DaysUntil same day = %d, want 0", got)
	}
}
