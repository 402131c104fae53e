package tui

import (
	"testing"

	"github.com/theirongolddev/fintrack/internal/config"
)

func TestSetupValuesRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Profile.DisplayName = "Ana"

	vals := ValuesFromConfig(cfg)
	got, err := vals.Apply(cfg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != cfg {
		t.Fatalf("Apply(ValuesFromConfig(cfg)) = %+v, want %+v", got, cfg)
	}
}

func TestSetupValuesApply(t *testing.T) {
	vals := SetupValues{
		DisplayName:   "  Ana ",
		Currency:      "eur",
		RiskProfile:   "Aggressive",
		CurrentAge:    "40",
		RetirementAge: "60",
		Theme:         "tokyo-night",
	}
	got, err := vals.Apply(config.DefaultConfig())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.General.Currency != "EUR" {
		t.Fatalf("Currency = %q, want %q", got.General.Currency, "EUR")
	}
	if got.Profile.RiskProfile != "aggressive" {
		t.Fatalf("RiskProfile = %q, want %q", got.Profile.RiskProfile, "aggressive")
	}
	if got.Profile.DisplayName != "Ana" {
		t.Fatalf("DisplayName = %q, want %q", got.Profile.DisplayName, "Ana")
	}
	if got.Profile.CurrentAge != 40 || got.Profile.RetirementAge != 60 {
		t.Fatalf("ages = %d/%d, want 40/60", got.Profile.CurrentAge, got.Profile.RetirementAge)
	}
	if got.Appearance.Theme != "tokyo-night" {
		t.Fatalf("Theme = %q, want %q", got.Appearance.Theme, "tokyo-night")
	}
}

func TestSetupValuesApplyRejects(t *testing.T) {
	base := ValuesFromConfig(config.DefaultConfig())
	tests := map[string]func(*SetupValues){
		"currency":   func(v *SetupValues) { v.Currency = "XXQ" },
		"age":        func(v *SetupValues) { v.CurrentAge = "thirty" },
		"retirement": func(v *SetupValues) { v.RetirementAge = "20" },
		"risk":       func(v *SetupValues) { v.RiskProfile = "yolo" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			v := base
			mutate(&v)
			cfg := config.DefaultConfig()
			got, err := v.Apply(cfg)
			if err == nil {
				t.Fatal("Apply succeeded, want error")
			}
			if got != cfg {
				t.Fatalf("Apply changed cfg on error: %+v", got)
			}
		})
	}
}
