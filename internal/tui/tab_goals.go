package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/state"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// listCursor is a cursor over a list of n items.
type listCursor struct {
	cursor int
}

func (c *listCursor) move(delta, n int) {
	c.cursor += delta
	c.clamp(n)
}

func (c *listCursor) clamp(n int) {
	c.cursor = min(c.cursor, n-1)
	c.cursor = max(c.cursor, 0)
}

type goalsState struct {
	listCursor
}

func (a App) selectedGoal() (model.SavingsGoal, bool) {
	goals := a.st.Snapshot.Goals
	if len(goals) == 0 {
		return model.SavingsGoal{}, false
	}
	return goals[a.goals.cursor], true
}

func (a App) updateGoalsKeys(key string) (App, tea.Cmd, bool) {
	n := len(a.st.Snapshot.Goals)
	switch key {
	case "j", "down":
		a.goals.move(1, n)
	case "k", "up":
		a.goals.move(-1, n)
	case "n":
		a, cmd := a.openGoalForm()
		return a, cmd, true
	case "+", "s":
		g, ok := a.selectedGoal()
		if !ok {
			return a, nil, true
		}
		a, cmd := a.quickContribute(g, key == "s")
		return a, cmd, true
	case "c":
		g, ok := a.selectedGoal()
		if !ok {
			return a, nil, true
		}
		a, cmd := a.openContributeForm(g)
		return a, cmd, true
	case "d":
		g, ok := a.selectedGoal()
		if !ok {
			return a, nil, true
		}
		a, cmd := a.confirmDelete(fmt.Sprintf("Delete goal %q?", g.Name), "goal deleted",
			func(s state.State, now time.Time) (state.State, error) {
				return state.ApplyRemoveGoal(s, g.ID, now)
			})
		return a, cmd, true
	default:
		return a, nil, false
	}
	return a, nil, true
}

// quickContribute adds 10% of the balance, or the suggested monthly amount,
// to g. A zero amount is reported instead of applied.
func (a App) quickContribute(g model.SavingsGoal, suggested bool) (App, tea.Cmd) {
	var (
		amount decimal.Decimal
		err    error
	)
	if suggested {
		amount, err = state.QuickSuggested(a.st, g.ID, time.Now())
	} else {
		amount, err = state.QuickTenPercent(a.st, g.ID)
	}
	if err != nil {
		return a.flash(err.Error(), true)
	}
	if !amount.IsPositive() {
		return a.flash("nothing to contribute: balance is not positive", true)
	}
	note := fmt.Sprintf("added %s to %s", a.money(amount), g.Name)
	return a.apply(note, func(s state.State, now time.Time) (state.State, error) {
		return state.ApplyContribute(s, g.ID, amount, now)
	})
}

func (a App) openContributeForm(g model.SavingsGoal) (App, tea.Cmd) {
	var amount string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Contribute to "+g.Name).
			Description("Remaining "+a.money(g.Remaining())).
			Validate(validatePositiveAmount).
			Value(&amount),
	))
	return a.openForm(form, func(a App) (App, tea.Cmd) {
		d, _ := state.ParseAmount(amount)
		return a.apply(fmt.Sprintf("added %s to %s", a.money(d), g.Name), func(s state.State, now time.Time) (state.State, error) {
			return state.ApplyContribute(s, g.ID, d, now)
		})
	})
}

func (a App) openGoalForm() (App, tea.Cmd) {
	var name, target, deadline string
	deadline = model.DateOf(time.Now().AddDate(1, 0, 0)).String()

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Goal name").Validate(validateName).Value(&name),
		huh.NewInput().Title("Target amount").Validate(validatePositiveAmount).Value(&target),
		huh.NewInput().Title("Deadline").Description("YYYY-MM-DD").Validate(validateDate).Value(&deadline),
	))
	return a.openForm(form, func(a App) (App, tea.Cmd) {
		amount, _ := state.ParseAmount(target)
		day, _ := model.ParseDate(strings.TrimSpace(deadline))
		return a.apply("goal added", func(s state.State, now time.Time) (state.State, error) {
			next, _, err := state.ApplyAddGoal(s, state.GoalInput{Name: name, TargetAmount: amount, Deadline: day}, now)
			return next, err
		})
	})
}

// confirmDelete asks before running a destructive command.
func (a App) confirmDelete(question, note string, fn func(state.State, time.Time) (state.State, error)) (App, tea.Cmd) {
	var confirmed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(question).Affirmative("Delete").Negative("Cancel").Value(&confirmed),
	))
	return a.openForm(form, func(a App) (App, tea.Cmd) {
		if !confirmed {
			return a, nil
		}
		return a.apply(note, fn)
	})
}

func (a App) renderGoalsTab(cw int) string {
	t := theme.Active
	r := a.report
	ga := r.GoalAnalysis
	var b strings.Builder

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Goals", Value: fmt.Sprintf("%d", ga.TotalGoals), Note: fmt.Sprintf("%d completed", ga.CompletedGoals)},
		{Label: "Saved", Value: a.money(ga.TotalSaved), Note: "of " + a.money(ga.TotalGoalValue), Color: t.Income},
		{Label: "Completion", Value: cli.FormatPercent(ga.CompletionRate), Note: "goals reached"},
		{Label: "Monthly savings", Value: a.money(r.Monthly.MonthlySavings), Note: "current balance"},
	}, cw))
	b.WriteString("\n")

	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	if len(r.Goals) == 0 {
		b.WriteString(components.ContentCard("Savings Goals", dim.Render("No goals yet. Press [n] to create one."), cw))
		return b.String()
	}

	innerW := components.CardInnerWidth(cw)
	nameW := min(max(innerW/4, 12), 28)
	barW := max(innerW-nameW-48, 10)

	name := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	selected := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright).Bold(true)

	var body strings.Builder
	for i, gp := range r.Goals {
		g := gp.Goal
		marker := "  "
		ns := name
		if i == a.goals.cursor {
			marker = "▸ "
			ns = selected
		}
		if i > 0 {
			body.WriteString("\n")
		}
		body.WriteString(ns.Render(marker + fmt.Sprintf("%-*s", nameW, truncStr(g.Name, nameW))))
		body.WriteString(muted.Render(" "))
		body.WriteString(components.ProgressBar(gp.ProgressPercent/100, barW))
		body.WriteString(muted.Render(fmt.Sprintf("  %s / %s", a.money(g.CurrentAmount), a.money(g.TargetAmount))))
		body.WriteString("\n")
		body.WriteString(muted.Render(fmt.Sprintf("    %s  due %s  %s",
			a.goalStateText(gp), g.Deadline, a.suggestedText(gp))))
	}
	body.WriteString("\n\n")
	body.WriteString(dim.Render("[j/k] select  [+] 10% of balance  [s] suggested  [c] contribute  [n] new  [d] delete"))

	b.WriteString(components.ContentCard("Savings Goals", body.String(), cw))
	return b.String()
}

func (a App) goalStateText(gp model.GoalProgress) string {
	t := theme.Active
	switch gp.State {
	case model.GoalCompleted:
		return lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Render("✓ completed")
	case model.GoalOverdue:
		return lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(cli.FormatDays(gp.DaysRemaining))
	default:
		return lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Render(cli.FormatDays(gp.DaysRemaining))
	}
}

func (a App) suggestedText(gp model.GoalProgress) string {
	if gp.State != model.GoalActive || !gp.SuggestedMonthly.IsPositive() {
		return ""
	}
	return "suggested " + a.money(gp.SuggestedMonthly) + "/mo"
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return state.ErrEmptyName
	}
	return nil
}

func validatePositiveAmount(s string) error {
	d, err := state.ParseAmount(s)
	if err != nil {
		return err
	}
	if !d.IsPositive() {
		return state.ErrNonPositiveAmount
	}
	return nil
}

func validateDate(s string) error {
	_, err := model.ParseDate(strings.TrimSpace(s))
	return err
}
