package finance

import (
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) model.Date {
	return model.NewDate(y, m, d)
}

func expense(id, amount, category string, date model.Date) model.Expense {
	return model.Expense{ID: id, Name: id, Amount: dec(amount), Category: category, Date: date}
}

func assertDec(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %s", what, got, want)
	}
}

func assertFloat(t *testing.T, what string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", what, got, want)
	}
}
