package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/finance"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers of the setup wizard. Ages stay strings so
// huh inputs can bind to them directly.
type SetupValues struct {
	DisplayName   string
	Currency      string
	RiskProfile   string
	CurrentAge    string
	RetirementAge string
	Theme         string
}

// ValuesFromConfig pre-fills the wizard from an existing configuration.
func ValuesFromConfig(cfg config.Config) SetupValues {
	return SetupValues{
		DisplayName:   cfg.Profile.DisplayName,
		Currency:      cfg.General.Currency,
		RiskProfile:   cfg.Profile.RiskProfile,
		CurrentAge:    strconv.Itoa(cfg.Profile.CurrentAge),
		RetirementAge: strconv.Itoa(cfg.Profile.RetirementAge),
		Theme:         cfg.Appearance.Theme,
	}
}

// Apply copies the answers onto cfg and validates the result.
func (v SetupValues) Apply(cfg config.Config) (config.Config, error) {
	age, err := parseAge(v.CurrentAge)
	if err != nil {
		return cfg, fmt.Errorf("current age: %w", err)
	}
	retire, err := parseAge(v.RetirementAge)
	if err != nil {
		return cfg, fmt.Errorf("retirement age: %w", err)
	}
	sc, err := finance.ParseScenario(v.RiskProfile)
	if err != nil {
		return cfg, err
	}

	out := cfg
	out.Profile.DisplayName = strings.TrimSpace(v.DisplayName)
	out.Profile.RiskProfile = string(sc)
	out.Profile.CurrentAge = age
	out.Profile.RetirementAge = retire
	out.General.Currency = strings.ToUpper(strings.TrimSpace(v.Currency))
	if v.Theme != "" {
		out.Appearance.Theme = v.Theme
	}
	if err := config.Validate(out); err != nil {
		return cfg, err
	}
	return out, nil
}

func parseAge(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	if n < 0 || n > finance.MaxAge {
		return 0, fmt.Errorf("%d is out of range", n)
	}
	return n, nil
}

func validateCurrency(s string) error {
	if money.GetCurrency(strings.ToUpper(strings.TrimSpace(s))) == nil {
		return fmt.Errorf("unknown currency %q", s)
	}
	return nil
}

func validateAge(s string) error {
	_, err := parseAge(s)
	return err
}

// NewSetupForm builds the first-run wizard. The form writes into vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	riskOpts := make([]huh.Option[string], 0, len(finance.Scenarios))
	for _, sc := range finance.Scenarios {
		rate, _ := sc.Rate()
		label := fmt.Sprintf("%s (%s%% a year)", sc, rate.Shift(2).String())
		riskOpts = append(riskOpts, huh.NewOption(label, string(sc)))
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to fintrack").
				Description("Track income, expenses and savings goals.\n\nA few questions and you're ready."),
			huh.NewInput().
				Title("Your name").
				Placeholder("optional").
				Value(&vals.DisplayName),
			huh.NewInput().
				Title("Currency").
				Description("ISO 4217 code, e.g. USD, EUR, BRL").
				Validate(validateCurrency).
				Value(&vals.Currency),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Current age").
				Validate(validateAge).
				Value(&vals.CurrentAge),
			huh.NewInput().
				Title("Retirement age").
				Validate(validateAge).
				Value(&vals.RetirementAge),
			huh.NewSelect[string]().
				Title("Risk profile").
				Description("Return assumed by retirement projections.").
				Options(riskOpts...).
				Value(&vals.RiskProfile),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeDracula())
}
