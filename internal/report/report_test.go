package report

import (
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/fintrack/internal/finance"
	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

var now = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func sample() finance.Report {
	snap := model.EmptySnapshot()
	snap.Income = decimal.RequireFromString("5000")
	snap.Expenses = []model.Expense{
		{ID: "1", Name: "Rent", Amount: decimal.RequireFromString("1500"), Category: "Housing", Date: model.NewDate(2025, 6, 1)},
		{ID: "2", Name: "Groceries", Amount: decimal.RequireFromString("400"), Category: "Food", Date: model.NewDate(2025, 6, 3)},
	}
	snap.Goals = []model.SavingsGoal{{
		ID:            "g",
		Name:          "Emergency fund",
		TargetAmount:  decimal.RequireFromString("6000"),
		CurrentAmount: decimal.RequireFromString("1500"),
		Deadline:      model.NewDate(2026, 6, 15),
	}}
	return finance.BuildReport(snap, model.DateOf(now), nil)
}

func TestMarkdownSections(t *testing.T) {
	out := Markdown(sample(), "USD", now)
	for _, want := range []string{
		"# Financial Report on 2025-06-15",
		"## Summary",
		"$5,000.00",
		"$3,100.00",
		"## Spending by Category",
		"Housing",
		"## Goals",
		"Emergency fund",
		"## Outlook",
		"Yearly projection: $37,200.00",
		"## Recommendations",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("markdown missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "## Budgets") {
		t.Fatal("budgets section rendered without budgets")
	}
}

func TestMarkdownNoGoals(t *testing.T) {
	r := finance.BuildReport(model.EmptySnapshot(), model.DateOf(now), nil)
	out := Markdown(r, "USD", now)
	if !strings.Contains(out, "No savings goals yet.") {
		t.Fatalf("expected empty goals note:\n%s", out)
	}
	if strings.Contains(out, "## Spending by Category") {
		t.Fatal("category section rendered without expenses")
	}
}

func TestProjectionMarkdown(t *testing.T) {
	rows, err := finance.Project(finance.ScenarioParams{
		CurrentAge:          30,
		RetirementAge:       32,
		CurrentSavings:      decimal.RequireFromString("1000"),
		MonthlyContribution: decimal.RequireFromString("100"),
		Scenario:            finance.Moderate,
	}, decimal.RequireFromString("250"), 2025)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	out := ProjectionMarkdown(rows, finance.Moderate, "USD")
	for _, want := range []string{"moderate, 7%/yr", "2025", "$1,000.00", "$3,803.00", "Final balance: **$3,803.00**"} {
		if !strings.Contains(out, want) {
			t.Fatalf("projection markdown missing %q:\n%s", want, out)
		}
	}
}

func TestRender(t *testing.T) {
	out, err := Render("# Title\n\nSome *text*.\n", 60)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "Title") || !strings.Contains(out, "text") {
		t.Fatalf("rendered output lost content: %q", out)
	}

	plain, err := Plain("# Title\n", false, 60)
	if err != nil || plain != "# Title\n" {
		t.Fatalf("Plain(unstyled) = %q, %v", plain, err)
	}
}
