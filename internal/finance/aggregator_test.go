package finance

import (
	"reflect"
	"testing"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

func sampleExpenses() []model.Expense {
	d := day(2025, time.June, 10)
	return []model.Expense{
		expense("rent", "1000", "Housing", d),
		expense("market", "500", "Food", d.AddDays(1)),
		expense("misc", "300", "", d.AddDays(2)),
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(dec("3000"), sampleExpenses())

	assertDec(t, "TotalIncome", s.TotalIncome, "3000")
	assertDec(t, "TotalExpenses", s.TotalExpenses, "1800")
	assertDec(t, "Balance", s.Balance, "1200")
	assertFloat(t, "SavingsPercentage", s.SavingsPercentage, 40)
}

func TestSummarizeZeroIncome(t *testing.T) {
	s := Summarize(decimal.Zero, []model.Expense{expense("a", "100", "Food", model.Date{})})

	assertDec(t, "Balance", s.Balance, "-100")
	assertFloat(t, "SavingsPercentage", s.SavingsPercentage, 0)
}

func TestSummarizeDeficit(t *testing.T) {
	s := Summarize(dec("1000"), []model.Expense{expense("a", "1500", "Food", model.Date{})})

	assertDec(t, "Balance", s.Balance, "-500")
	assertFloat(t, "SavingsPercentage", s.SavingsPercentage, -50)
}

func TestSummarizeClampsNegativeInput(t *testing.T) {
	s := Summarize(dec("-10"), []model.Expense{expense("a", "-5", "Food", model.Date{})})

	assertDec(t, "TotalIncome", s.TotalIncome, "0")
	assertDec(t, "TotalExpenses", s.TotalExpenses, "0")
	assertFloat(t, "SavingsPercentage", s.SavingsPercentage, 0)
}

func TestSummarizeIsDeterministic(t *testing.T) {
	in := sampleExpenses()
	a := Summarize(dec("2500.75"), in)
	b := Summarize(dec("2500.75"), in)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("Summarize not deterministic: %+v vs %+v", a, b)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	cats := CategoryBreakdown(sampleExpenses(), dec("3000"))
	if len(cats) != 3 {
		t.Fatalf("len(cats) = %d, want 3", len(cats))
	}

	wantOrder := []string{"Housing", "Food", model.DefaultCategory}
	for i, want := range wantOrder {
		if cats[i].Category != want {
			t.Fatalf("cats[%d].Category = %q, want %q", i, cats[i].Category, want)
		}
	}

	assertFloat(t, "Other PercentageOfIncome", cats[2].PercentageOfIncome, 10)
	if cats[0].ShareOfExpenses < 55.55 || cats[0].ShareOfExpenses > 55.56 {
		t.Fatalf("Housing ShareOfExpenses = %v, want ~55.56", cats[0].ShareOfExpenses)
	}

	// Percentages are of income, so they sum to total/income.
	var sum float64
	for _, c := range cats {
		sum += c.PercentageOfIncome
	}
	if diff := sum - 60; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("sum of PercentageOfIncome = %v, want 60", sum)
	}
}

func TestCategoryBreakdownZeroIncome(t *testing.T) {
	for _, c := range CategoryBreakdown(sampleExpenses(), decimal.Zero) {
		if c.PercentageOfIncome != 0 {
			t.Fatalf("%s PercentageOfIncome = %v, want 0", c.Category, c.PercentageOfIncome)
		}
	}
}

func TestDailySeriesKeepsMostRecent30Ascending(t *testing.T) {
	start := day(2025, time.January, 1)
	var expenses []model.Expense
	for i := 0; i < 35; i++ {
		expenses = append(expenses, expense("e", "10", "Food", start.AddDays(i)))
	}
	// Two on the same day collapse into one bucket.
	expenses = append(expenses, expense("extra", "5", "Food", start.AddDays(34)))

	series := DailySeries(expenses, start.AddDays(40))
	if len(series) != MaxDailyBuckets {
		t.Fatalf("len(series) = %d, want %d", len(series), MaxDailyBuckets)
	}
	if series[0].Date != start.AddDays(5) {
		t.Fatalf("first bucket = %s, want %s", series[0].Date, start.AddDays(5))
	}
	last := series[len(series)-1]
	if last.Date != start.AddDays(34) {
		t.Fatalf("last bucket = %s, want %s", last.Date, start.AddDays(34))
	}
	assertDec(t, "last bucket Amount", last.Amount, "15")
	if last.Count != 2 {
		t.Fatalf("last bucket Count = %d, want 2", last.Count)
	}
	for i := 1; i < len(series); i++ {
		if !series[i-1].Date.Before(series[i].Date) {
			t.Fatalf("series not ascending at %d: %s then %s", i, series[i-1].Date, series[i].Date)
		}
	}
}

func TestDailySeriesTotalsMatchAndInputUntouched(t *testing.T) {
	today := day(2025, time.June, 30)
	in := sampleExpenses()
	in = append(in, expense("undated", "45.50", "Food", model.Date{}))
	before := append([]model.Expense{}, in...)

	series := DailySeries(in, today)

	total := decimal.Zero
	for _, b := range series {
		total = total.Add(b.Amount)
	}
	assertDec(t, "sum of buckets", total, TotalExpenses(in).String())

	if series[len(series)-1].Date != today {
		t.Fatalf("undated expense bucket = %s, want %s", series[len(series)-1].Date, today)
	}
	if !reflect.DeepEqual(in, before) {
		t.Fatal("DailySeries mutated its input")
	}
}

func TestIncomeVsExpenses(t *testing.T) {
	rows := IncomeVsExpenses(dec("3000"), sampleExpenses(), day(2025, time.June, 30))
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	assertDec(t, "daily income", rows[0].Income, "100")
	assertDec(t, "first day expenses", rows[0].Expenses, "1000")
}

func TestAverageExpense(t *testing.T) {
	assertDec(t, "AverageExpense(nil)", AverageExpense(nil), "0")
	assertDec(t, "AverageExpense", AverageExpense(sampleExpenses()), "600")
}

func TestBudgetUsage(t *testing.T) {
	budgets := []model.CategoryBudget{
		{ID: "b1", Name: "food", Limit: dec("400")},
		{ID: "b2", Name: "Leisure", Limit: dec("200")},
	}
	usage := BudgetUsage(budgets, sampleExpenses())

	if !usage[0].Over {
		t.Fatal("food budget should be over limit")
	}
	assertDec(t, "food Spent", usage[0].Spent, "500")
	assertFloat(t, "food UsedPercent", usage[0].UsedPercent, 125)

	if usage[1].Over || !usage[1].Spent.IsZero() {
		t.Fatalf("leisure usage = %+v, want zero spend", usage[1])
	}
}

func TestIncomeFromSources(t *testing.T) {
	sources := []model.IncomeSource{
		{Name: "salary", Amount: dec("3000"), Frequency: model.Monthly},
		{Name: "bonus", Amount: dec("1200"), Frequency: model.Yearly},
		{Name: "gig", Amount: dec("120"), Frequency: model.Weekly},
	}
	got := IncomeFromSources(sources)
	// 3000 + 100 + 120*52/12 (520)
	if got.Round(2).String() != "3620" {
		t.Fatalf("IncomeFromSources = %s, want 3620", got.Round(2))
	}
}
