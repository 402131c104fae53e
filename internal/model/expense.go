package model

import "github.com/shopspring/decimal"

func init() {
	// Snapshots carry amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultCategory is assigned to expenses recorded without a category.
const DefaultCategory = "Other"

// Categories is the fixed set an expense can be filed under.
var Categories = []string{
	"Food",
	"Transport",
	"Housing",
	"Health",
	"Education",
	"Leisure",
	"Clothing",
	"Services",
	DefaultCategory,
}

// Expense is a single outgoing amount for the current period.
type Expense struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     Date            `json:"date"`
}

// CategoryOrDefault returns the expense category, falling back to DefaultCategory.
func (e Expense) CategoryOrDefault() string {
	if e.Category == "" {
		return DefaultCategory
	}
	return e.Category
}

// IsCategory reports whether name is one of Categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
