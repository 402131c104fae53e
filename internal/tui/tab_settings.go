package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/finance"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldName = iota
	settingsFieldCurrency
	settingsFieldRisk
	settingsFieldAge
	settingsFieldRetirement
	settingsFieldTheme
	settingsFieldCount
)

var settingsLabels = [settingsFieldCount]string{
	"Display name",
	"Currency",
	"Risk profile",
	"Current age",
	"Retirement age",
	"Theme",
}

// settingsState tracks the settings tab. Risk profile and theme cycle on
// enter; the other fields open a text input.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
}

// field returns a pointer to the SetupValues entry edited by settings row i.
func (v *SetupValues) field(i int) *string {
	switch i {
	case settingsFieldName:
		return &v.DisplayName
	case settingsFieldCurrency:
		return &v.Currency
	case settingsFieldRisk:
		return &v.RiskProfile
	case settingsFieldAge:
		return &v.CurrentAge
	case settingsFieldRetirement:
		return &v.RetirementAge
	default:
		return &v.Theme
	}
}

func cycle(options []string, current string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func (a App) updateSettingsKeys(key string) (App, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.settings.cursor = min(a.settings.cursor+1, settingsFieldCount-1)
	case "k", "up":
		a.settings.cursor = max(a.settings.cursor-1, 0)
	case "enter":
		vals := ValuesFromConfig(a.cfg)
		switch a.settings.cursor {
		case settingsFieldRisk:
			names := make([]string, len(finance.Scenarios))
			for i, sc := range finance.Scenarios {
				names[i] = string(sc)
			}
			vals.RiskProfile = cycle(names, vals.RiskProfile)
			a, cmd := a.saveConfig(vals)
			return a, cmd, true
		case settingsFieldTheme:
			vals.Theme = cycle(theme.Names(), vals.Theme)
			a, cmd := a.saveConfig(vals)
			return a, cmd, true
		}
		ti := textinput.New()
		ti.CharLimit = 64
		ti.Width = 30
		ti.SetValue(*vals.field(a.settings.cursor))
		ti.Focus()
		a.settings.input = ti
		a.settings.editing = true
		return a, textinput.Blink, true
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.editing = false
		vals := ValuesFromConfig(a.cfg)
		*vals.field(a.settings.cursor) = strings.TrimSpace(a.settings.input.Value())
		return a.saveConfig(vals)
	case "esc":
		a.settings.editing = false
		return a, nil
	}
	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	vals := ValuesFromConfig(a.cfg)

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selLabel := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	selValue := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	marker := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	innerW := components.CardInnerWidth(cw)
	var form strings.Builder
	for i := 0; i < settingsFieldCount; i++ {
		v := *vals.field(i)
		if v == "" {
			v = "(not set)"
		}
		name := fmt.Sprintf("%-16s ", settingsLabels[i]+":")

		switch {
		case i == a.settings.cursor && a.settings.editing:
			form.WriteString(marker.Render("▸ ") + selLabel.Render(name) + a.settings.input.View())
		case i == a.settings.cursor:
			line := marker.Render("▸ ") + selLabel.Render(name) + selValue.Render(v)
			if pad := innerW - lipgloss.Width(line); pad > 0 {
				line += selValue.Render(strings.Repeat(" ", pad))
			}
			form.WriteString(line)
		default:
			form.WriteString(value.Render("  ") + label.Render(name) + value.Render(v))
		}
		form.WriteString("\n")
	}
	form.WriteString("\n")
	form.WriteString(dim.Render("[j/k] navigate  [enter] edit or cycle  [esc] cancel"))

	snap := a.st.Snapshot
	info := [][2]string{
		{"User", a.userID},
		{"Store backend", a.cfg.Store.Backend},
		{"Expenses / goals", fmt.Sprintf("%s / %s",
			cli.FormatNumber(int64(len(snap.Expenses))), cli.FormatNumber(int64(len(snap.Goals))))},
		{"Load time", fmt.Sprintf("%.0fms", float64(a.loadTime.Microseconds())/1000)},
		{"Config file", a.configPath},
	}
	if a.cfg.Store.Backend == config.BackendSQLite || a.cfg.Store.Backend == "" {
		info = append(info[:2], append([][2]string{{"Database", config.DataPath(a.cfg)}}, info[2:]...)...)
	}
	var infoBody strings.Builder
	for i, kv := range info {
		if i > 0 {
			infoBody.WriteString("\n")
		}
		infoBody.WriteString(label.Render(fmt.Sprintf("%-18s", kv[0])) + value.Render(kv[1]))
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", form.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Data", infoBody.String(), cw))
	return b.String()
}
