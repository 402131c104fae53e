package finance

import (
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

func cats(n int) []model.CategoryStats {
	out := make([]model.CategoryStats, n)
	for i := range out {
		out[i] = model.CategoryStats{Category: string(rune('A' + i)), Amount: decimal.NewFromInt(int64(10 * (i + 1)))}
	}
	return out
}

func TestHealthScoreRubric(t *testing.T) {
	positive := model.FinancialSummary{Balance: dec("100")}
	negative := model.FinancialSummary{Balance: dec("-1")}

	tests := []struct {
		name       string
		summary    model.FinancialSummary
		savings    float64
		categories int
		completion float64
		want       int
		status     string
	}{
		{"nothing", negative, 0, 0, 0, 0, StatusCritical},
		{"balance only", positive, 0, 0, 0, 25, StatusCritical},
		{"savings 5", negative, 5, 0, 0, 10, StatusCritical},
		{"savings 10", negative, 10, 0, 0, 15, StatusCritical},
		{"savings 19.99", negative, 19.99, 0, 0, 15, StatusCritical},
		{"savings 20", negative, 20, 0, 0, 25, StatusCritical},
		{"one category", negative, 0, 1, 0, 10, StatusCritical},
		{"three categories", negative, 0, 3, 0, 15, StatusCritical},
		{"five categories", negative, 0, 5, 0, 25, StatusCritical},
		{"completion tiny", negative, 0, 0, 0.1, 10, StatusCritical},
		{"completion 25", negative, 0, 0, 25, 15, StatusCritical},
		{"completion 50", negative, 0, 0, 50, 25, StatusCritical},
		{"fair", positive, 5, 1, 0, 45, StatusFair},
		{"good", positive, 10, 3, 10, 65, StatusGood},
		{"excellent", positive, 20, 5, 50, 100, StatusExcellent},
		{"boundary 80", positive, 20, 3, 25, 80, StatusExcellent},
	}
	for _, tt := range tests {
		s := tt.summary
		s.SavingsPercentage = tt.savings
		got := HealthScore(s, cats(tt.categories), tt.completion)
		if got.Score != tt.want {
			t.Errorf("%s: Score = %d, want %d", tt.name, got.Score, tt.want)
		}
		if got.Status != tt.status {
			t.Errorf("%s: Status = %q, want %q", tt.name, got.Status, tt.status)
		}
		if got.Score < 0 || got.Score > got.MaxScore {
			t.Errorf("%s: Score %d out of [0,%d]", tt.name, got.Score, got.MaxScore)
		}
	}
}

func TestHealthStatusThresholds(t *testing.T) {
	cases := map[int]string{
		100: StatusExcellent, 80: StatusExcellent, 79: StatusGood, 60: StatusGood,
		59: StatusFair, 40: StatusFair, 39: StatusCritical, 0: StatusCritical,
	}
	for score, want := range cases {
		if got := HealthStatus(score); got != want {
			t.Errorf("HealthStatus(%d) = %q, want %q", score, got, want)
		}
	}
}

func TestAnalyzeGoals(t *testing.T) {
	deadline := day(2030, time.January, 1)
	goals := []model.SavingsGoal{
		{ID: "a", TargetAmount: dec("1000"), CurrentAmount: dec("1000"), Deadline: deadline},
		{ID: "b", TargetAmount: dec("3000"), CurrentAmount: dec("500"), Deadline: deadline},
	}
	a := AnalyzeGoals(goals)

	if a.TotalGoals != 2 || a.CompletedGoals != 1 {
		t.Fatalf("goals = %d/%d, want 1/2", a.CompletedGoals, a.TotalGoals)
	}
	assertDec(t, "TotalGoalValue", a.TotalGoalValue, "4000")
	assertDec(t, "TotalSaved", a.TotalSaved, "1500")
	assertFloat(t, "CompletionRate", a.CompletionRate, 50)
	assertFloat(t, "SavingsRate", a.SavingsRate, 37.5)

	empty := AnalyzeGoals(nil)
	if empty.CompletionRate != 0 || empty.SavingsRate != 0 {
		t.Fatalf("empty analysis = %+v, want zero rates", empty)
	}
}

func TestProjectMonthly(t *testing.T) {
	summary := model.FinancialSummary{Balance: dec("500")}
	goals := model.GoalAnalysis{TotalGoalValue: dec("4000"), TotalSaved: dec("1500")}

	p := ProjectMonthly(summary, goals)
	assertDec(t, "MonthlySavings", p.MonthlySavings, "500")
	assertDec(t, "YearlyProjection", p.YearlyProjection, "6000")
	assertFloat(t, "MonthsToReachGoals", p.MonthsToReachGoals, 5)

	deficit := ProjectMonthly(model.FinancialSummary{Balance: dec("-10")}, goals)
	if deficit.MonthsToReachGoals != 0 {
		t.Fatalf("MonthsToReachGoals with deficit = %v, want 0", deficit.MonthsToReachGoals)
	}
}

func titles(recs []model.Recommendation) string {
	var parts []string
	for _, r := range recs {
		parts = append(parts, string(r.Type)+":"+r.Title)
	}
	return strings.Join(parts, ",")
}

func TestRecommendDeficitNoGoals(t *testing.T) {
	summary := Summarize(dec("1000"), []model.Expense{expense("rent", "1500", "Housing", model.Date{})})
	recs := Recommend(summary, CategoryBreakdown([]model.Expense{expense("rent", "1500", "Housing", model.Date{})}, dec("1000")), nil, nil)

	want := "critical:Budget deficit,warning:Low savings rate,warning:Concentrated spending,info:No goals set"
	if got := titles(recs); got != want {
		t.Fatalf("recommendations = %s, want %s", got, want)
	}
	if !strings.Contains(recs[2].Message, "100.0%") {
		t.Fatalf("concentration message = %q, want share of total", recs[2].Message)
	}
}

func TestRecommendHealthy(t *testing.T) {
	expenses := []model.Expense{
		expense("a", "100", "Food", model.Date{}),
		expense("b", "100", "Housing", model.Date{}),
	}
	summary := Summarize(dec("1000"), expenses)
	goals := []model.SavingsGoal{{ID: "g", TargetAmount: dec("100")}}

	recs := Recommend(summary, CategoryBreakdown(expenses, dec("1000")), goals, func(d decimal.Decimal) string {
		return "$" + d.StringFixed(2)
	})
	if got := titles(recs); got != "success:Positive progress" {
		t.Fatalf("recommendations = %s", got)
	}
	if !strings.Contains(recs[0].Message, "$800.00") {
		t.Fatalf("message = %q, want formatted balance", recs[0].Message)
	}
}
