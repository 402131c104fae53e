// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency has been configured.
const DefaultCurrency = "USD"

func currencyOf(code string) *money.Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || money.GetCurrency(code) == nil {
		code = DefaultCurrency
	}
	// money.New always yields a usable currency, GetCurrency may not.
	return money.New(0, code).Currency()
}

// FormatMoney formats amount in the given ISO 4217 currency,
// e.g. FormatMoney(1234.5, "USD") -> "$1,234.50".
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := currencyOf(currency)
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// MoneyFormatter returns FormatMoney bound to one currency.
func MoneyFormatter(currency string) func(decimal.Decimal) string {
	return func(d decimal.Decimal) string { return FormatMoney(d, currency) }
}

// FormatSignedMoney is FormatMoney with an explicit + for positive amounts.
// Zero is shown as "-".
func FormatSignedMoney(amount decimal.Decimal, currency string) string {
	switch amount.Sign() {
	case 0:
		return "-"
	case 1:
		return "+" + FormatMoney(amount, currency)
	default:
		return "-" + FormatMoney(amount.Neg(), currency)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-100 percentage with one decimal.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatDelta formats the change from previous to current with its sign.
func FormatDelta(current, previous decimal.Decimal, currency string) string {
	return FormatSignedMoney(current.Sub(previous), currency)
}

// FormatDays describes a goal's remaining days.
func FormatDays(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("overdue by %d %s", -days, plural(-days, "day"))
	case days == 0:
		return "due today"
	default:
		return fmt.Sprintf("%d %s left", days, plural(days, "day"))
	}
}

// FormatMonths formats a month count, or "-" when there is nothing to wait for.
func FormatMonths(m float64) string {
	if m <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f months", m)
}

// FormatRelative describes t relative to now, e.g. "3 hours ago".
func FormatRelative(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
