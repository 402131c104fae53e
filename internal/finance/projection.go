package finance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scenario names a fixed annual return assumption.
type Scenario string

const (
	Conservative Scenario = "conservative"
	Moderate     Scenario = "moderate"
	Aggressive   Scenario = "aggressive"
)

// Scenarios lists the supported scenarios from lowest to highest return.
var Scenarios = []Scenario{Conservative, Moderate, Aggressive}

var scenarioRates = map[Scenario]decimal.Decimal{
	Conservative: decimal.RequireFromString("0.05"),
	Moderate:     decimal.RequireFromString("0.07"),
	Aggressive:   decimal.RequireFromString("0.10"),
}

// ErrUnknownScenario is returned for a scenario outside Scenarios.
var ErrUnknownScenario = errors.New("unknown scenario")

// ParseScenario accepts a scenario name, case-insensitively.
func ParseScenario(s string) (Scenario, error) {
	sc := Scenario(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := scenarioRates[sc]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownScenario, s)
	}
	return sc, nil
}

// Rate returns the annual return of the scenario.
func (s Scenario) Rate() (decimal.Decimal, error) {
	r, ok := scenarioRates[s]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownScenario, string(s))
	}
	return r, nil
}

// ScenarioParams describes one retirement projection request.
type ScenarioParams struct {
	CurrentAge          int             `json:"currentAge"`
	RetirementAge       int             `json:"retirementAge"`
	CurrentSavings      decimal.Decimal `json:"currentSavings"`
	MonthlyContribution decimal.Decimal `json:"monthlyContribution"`
	Scenario            Scenario        `json:"scenario"`
}

// MaxAge bounds both ages of a projection.
const MaxAge = 120

// Validate reports the first invalid field.
func (p ScenarioParams) Validate() error {
	if p.CurrentAge < 0 {
		return fmt.Errorf("current age %d is negative", p.CurrentAge)
	}
	if p.RetirementAge > MaxAge {
		return fmt.Errorf("retirement age %d is above %d", p.RetirementAge, MaxAge)
	}
	if p.RetirementAge <= p.CurrentAge {
		return fmt.Errorf("retirement age %d must be greater than current age %d", p.RetirementAge, p.CurrentAge)
	}
	if p.CurrentSavings.IsNegative() {
		return errors.New("current savings cannot be negative")
	}
	if p.MonthlyContribution.IsNegative() {
		return errors.New("monthly contribution cannot be negative")
	}
	_, err := p.Scenario.Rate()
	return err
}

// ProjectionRow is the state of the retirement account at the end of one year.
type ProjectionRow struct {
	Year            int             `json:"year"`
	Balance         decimal.Decimal `json:"balance"`
	Contributions   decimal.Decimal `json:"contributions"`
	CompoundReturns decimal.Decimal `json:"compoundReturns"`
	Expenses        decimal.Decimal `json:"expenses"`
	NetWorth        decimal.Decimal `json:"netWorth"`
}

// Project emits one row per year from now until retirement, inclusive.
//
// Each year after the first, the annual contribution is added before that
// year's growth is applied, so new money earns a full year of return. The
// running balance is never rounded; rows carry whole currency units.
func Project(p ScenarioParams, monthlyExpenses decimal.Decimal, startYear int) ([]ProjectionRow, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rate, _ := p.Scenario.Rate()
	growth := one.Add(rate)

	years := p.RetirementAge - p.CurrentAge
	annual := p.MonthlyContribution.Mul(decimal.NewFromInt(12))
	expenses := nonNegative(monthlyExpenses).Mul(decimal.NewFromInt(12)).Round(0)

	rows := make([]ProjectionRow, 0, years+1)
	balance := p.CurrentSavings
	for year := 0; year <= years; year++ {
		if year > 0 {
			balance = balance.Add(annual).Mul(growth)
		}
		contributions := p.CurrentSavings.Add(annual.Mul(decimal.NewFromInt(int64(year))))
		rounded := balance.Round(0)
		rows = append(rows, ProjectionRow{
			Year:            startYear + year,
			Balance:         rounded,
			Contributions:   contributions,
			CompoundReturns: rounded.Sub(contributions),
			Expenses:        expenses,
			NetWorth:        rounded,
		})
	}
	return rows, nil
}

// FinalBalance returns the balance of the last row, or zero for no rows.
func FinalBalance(rows []ProjectionRow) decimal.Decimal {
	if len(rows) == 0 {
		return decimal.Zero
	}
	return rows[len(rows)-1].Balance
}
