// Package finance derives reports from a snapshot of income, expenses and goals.
// Every function here is pure: inputs are never mutated and the same inputs
// always produce the same output.
package finance

import (
	"sort"
	"strings"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

// MaxDailyBuckets is how many of the most recent days DailySeries keeps.
const MaxDailyBuckets = 30

var hundred = decimal.NewFromInt(100)

// Summarize computes the summary for one period. A negative income or
// expense amount is treated as zero.
func Summarize(income decimal.Decimal, expenses []model.Expense) model.FinancialSummary {
	income = nonNegative(income)
	total := TotalExpenses(expenses)
	balance := income.Sub(total)

	return model.FinancialSummary{
		TotalIncome:       income,
		TotalExpenses:     total,
		Balance:           balance,
		SavingsPercentage: percentOf(balance, income),
	}
}

// TotalExpenses sums expense amounts.
func TotalExpenses(expenses []model.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(nonNegative(e.Amount))
	}
	return total
}

// CategoryBreakdown groups expenses by category. PercentageOfIncome is
// relative to income, not to total spending; ShareOfExpenses is relative
// to total spending. Results are sorted by amount, largest first.
func CategoryBreakdown(expenses []model.Expense, income decimal.Decimal) []model.CategoryStats {
	income = nonNegative(income)
	total := TotalExpenses(expenses)

	catMap := make(map[string]*model.CategoryStats)
	for _, e := range expenses {
		name := e.CategoryOrDefault()
		cs, ok := catMap[name]
		if !ok {
			cs = &model.CategoryStats{Category: name, Amount: decimal.Zero}
			catMap[name] = cs
		}
		cs.Amount = cs.Amount.Add(nonNegative(e.Amount))
		cs.Count++
	}

	result := make([]model.CategoryStats, 0, len(catMap))
	for _, cs := range catMap {
		cs.PercentageOfIncome = percentOf(cs.Amount, income)
		cs.ShareOfExpenses = percentOf(cs.Amount, total)
		result = append(result, *cs)
	}

	sort.Slice(result, func(i, j int) bool {
		if c := result[i].Amount.Cmp(result[j].Amount); c != 0 {
			return c > 0
		}
		return result[i].Category < result[j].Category
	})

	return result
}

// DailySeries sums expenses per calendar day, oldest first, keeping only the
// most recent MaxDailyBuckets days that have expenses. Undated expenses count
// toward today.
func DailySeries(expenses []model.Expense, today model.Date) []model.DailyStats {
	dayMap := make(map[model.Date]*model.DailyStats)

	for _, e := range expenses {
		day := e.Date
		if day.IsZero() {
			day = today
		}
		ds, ok := dayMap[day]
		if !ok {
			ds = &model.DailyStats{Date: day, Amount: decimal.Zero}
			dayMap[day] = ds
		}
		ds.Amount = ds.Amount.Add(nonNegative(e.Amount))
		ds.Count++
	}

	days := make([]model.DailyStats, 0, len(dayMap))
	for _, ds := range dayMap {
		days = append(days, *ds)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})

	if len(days) > MaxDailyBuckets {
		days = days[len(days)-MaxDailyBuckets:]
	}
	return days
}

// IncomeVsExpenses pairs each day of the daily series with income/30.
func IncomeVsExpenses(income decimal.Decimal, expenses []model.Expense, today model.Date) []model.IncomeVsExpense {
	daily := nonNegative(income).Div(decimal.NewFromInt(30))

	series := DailySeries(expenses, today)
	out := make([]model.IncomeVsExpense, len(series))
	for i, ds := range series {
		out[i] = model.IncomeVsExpense{Date: ds.Date, Income: daily, Expenses: ds.Amount}
	}
	return out
}

// AverageExpense returns the mean expense amount, or zero with no expenses.
func AverageExpense(expenses []model.Expense) decimal.Decimal {
	if len(expenses) == 0 {
		return decimal.Zero
	}
	return TotalExpenses(expenses).Div(decimal.NewFromInt(int64(len(expenses))))
}

// BudgetUsage compares each budget with what was spent in the category of
// the same name (case-insensitive).
func BudgetUsage(budgets []model.CategoryBudget, expenses []model.Expense) []model.BudgetUsage {
	spent := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		key := strings.ToLower(e.CategoryOrDefault())
		spent[key] = spent[key].Add(nonNegative(e.Amount))
	}

	out := make([]model.BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		s := spent[strings.ToLower(b.Name)]
		out = append(out, model.BudgetUsage{
			Budget:      b,
			Spent:       s,
			UsedPercent: percentOf(s, b.Limit),
			Over:        b.Limit.IsPositive() && s.GreaterThan(b.Limit),
		})
	}
	return out
}

// IncomeFromSources totals the monthly equivalent of every income source.
func IncomeFromSources(sources []model.IncomeSource) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sources {
		total = total.Add(nonNegative(s.MonthlyAmount()))
	}
	return total
}

// percentOf returns part/whole*100, or 0 when whole is not positive.
func percentOf(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Div(whole).Mul(hundred).InexactFloat64()
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
