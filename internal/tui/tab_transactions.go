package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/finance"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/state"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

type txState struct {
	listCursor
	offset    int
	searching bool
	search    textinput.Model
	query     string
	kind      finance.TransactionKind // "" shows both
}

// kindCycle is the order "f" steps through.
var kindCycle = []finance.TransactionKind{"", finance.KindExpense, finance.KindIncome}

func nextKind(k finance.TransactionKind) finance.TransactionKind {
	for i, c := range kindCycle {
		if c == k {
			return kindCycle[(i+1)%len(kindCycle)]
		}
	}
	return ""
}

func newSearchInput(query string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "name or category"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 40
	ti.SetValue(query)
	return ti
}

// follow scrolls the window so the cursor stays within visible rows.
func (s *txState) follow(visible int) {
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+visible {
		s.offset = s.cursor - visible + 1
	}
}

func (a *App) moveTx(delta int) {
	a.txState.move(delta, len(a.filteredTransactions()))
	a.txState.follow(txVisibleRows(a.height - 2))
}

func (a App) filteredTransactions() []finance.Transaction {
	return finance.FilterTransactions(a.txs, finance.TransactionFilter{
		Query: a.txState.query,
		Kind:  a.txState.kind,
	})
}

func (a App) updateTransactionsKeys(key string) (App, tea.Cmd, bool) {
	txs := a.filteredTransactions()
	switch key {
	case "j", "down":
		a.moveTx(1)
	case "k", "up":
		a.moveTx(-1)
	case "/":
		a.txState.searching = true
		a.txState.search = newSearchInput(a.txState.query)
		a.txState.search.Focus()
		return a, textinput.Blink, true
	case "f":
		a.txState.kind = nextKind(a.txState.kind)
		a.txState.cursor, a.txState.offset = 0, 0
	case "esc":
		a.txState.query = ""
		a.txState.kind = ""
		a.txState.cursor, a.txState.offset = 0, 0
	case "d":
		if len(txs) == 0 {
			return a, nil, true
		}
		tx := txs[a.txState.cursor]
		if tx.Kind != finance.KindExpense {
			a, cmd := a.flash("income is changed with `fintrack income set`", true)
			return a, cmd, true
		}
		a, cmd := a.confirmDelete(fmt.Sprintf("Delete expense %q (%s)?", tx.Name, a.money(tx.Amount)), "expense deleted",
			func(s state.State, now time.Time) (state.State, error) {
				return state.ApplyRemoveExpense(s, tx.ID, now)
			})
		return a, cmd, true
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) updateTransactionsSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.txState.query = strings.TrimSpace(a.txState.search.Value())
		a.txState.searching = false
		a.txState.cursor, a.txState.offset = 0, 0
		return a, nil
	case "esc":
		a.txState.searching = false
		return a, nil
	}
	var cmd tea.Cmd
	a.txState.search, cmd = a.txState.search.Update(msg)
	return a, cmd
}

func (a App) openExpenseForm() (App, tea.Cmd) {
	var name, amount string
	category := model.DefaultCategory
	date := model.DateOf(time.Now()).String()

	opts := make([]huh.Option[string], len(model.Categories))
	for i, c := range model.Categories {
		opts[i] = huh.NewOption(c, c)
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Expense").Validate(validateName).Value(&name),
		huh.NewInput().Title("Amount").Validate(validatePositiveAmount).Value(&amount),
		huh.NewSelect[string]().Title("Category").Options(opts...).Value(&category),
		huh.NewInput().Title("Date").Description("YYYY-MM-DD").Validate(validateDate).Value(&date),
	))
	return a.openForm(form, func(a App) (App, tea.Cmd) {
		d, _ := state.ParseAmount(amount)
		day, _ := model.ParseDate(strings.TrimSpace(date))
		in := state.ExpenseInput{Name: name, Amount: d, Category: category, Date: day}
		return a.apply("expense added", func(s state.State, now time.Time) (state.State, error) {
			next, _, err := state.ApplyAddExpense(s, in, now)
			return next, err
		})
	})
}

// txVisibleRows is how many list rows fit when the tab has contentH lines:
// metric cards (5), card border and title (3), header (1), hint (2).
func txVisibleRows(contentH int) int {
	return max(contentH-11, 3)
}

func (a App) renderTransactionsTab(cw, contentH int) string {
	t := theme.Active
	txs := a.filteredTransactions()
	in, out, net := finance.Totals(txs)
	cur := a.cfg.General.Currency

	netColor := t.Income
	if net.IsNegative() {
		netColor = t.Expense
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Money in", Value: a.money(in), Color: t.Income},
		{Label: "Money out", Value: a.money(out), Color: t.Expense},
		{Label: "Net", Value: cli.FormatSignedMoney(net, cur), Color: netColor},
		{Label: "Transactions", Value: cli.FormatNumber(int64(len(txs))), Note: a.filterLabel()},
	}, cw))
	b.WriteString("\n")

	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selected := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright).Bold(true)

	innerW := components.CardInnerWidth(cw)
	amountW := 16
	dateW := 10
	catW := 11
	nameW := max(innerW-dateW-catW-amountW-8, 10)

	var body strings.Builder
	if a.txState.searching {
		body.WriteString(a.txState.search.View())
		body.WriteString("\n")
	}

	if len(txs) == 0 {
		msg := "No transactions. Press [a] to add an expense."
		if a.txState.query != "" || a.txState.kind != "" {
			msg = "Nothing matches. Press [esc] to clear the filter."
		}
		body.WriteString(dim.Render(msg))
	} else {
		body.WriteString(header.Render(fmt.Sprintf("  %-*s  %-*s  %-*s  %*s",
			dateW, "Date", nameW, "Description", catW, "Category", amountW, "Amount")))

		visible := txVisibleRows(contentH)
		view := a.txState
		view.follow(visible)
		offset := view.offset
		end := min(offset+visible, len(txs))

		for i := offset; i < end; i++ {
			tx := txs[i]
			amount := a.money(tx.Amount)
			amountColor := t.Expense
			if tx.Kind == finance.KindIncome {
				amount = "+" + amount
				amountColor = t.Income
			} else {
				amount = "-" + amount
			}

			style, marker := row, "  "
			if i == a.txState.cursor {
				style, marker = selected, "▸ "
			}
			line := style.Render(fmt.Sprintf("%s%-*s  %-*s  %-*s  ",
				marker, dateW, tx.Date, nameW, truncStr(tx.Name, nameW), catW, truncStr(tx.Category, catW)))
			line += lipgloss.NewStyle().Foreground(amountColor).Background(style.GetBackground()).
				Render(fmt.Sprintf("%*s", amountW, amount))
			body.WriteString("\n")
			body.WriteString(line)
		}
		if len(txs) > visible {
			body.WriteString("\n")
			body.WriteString(muted.Render(fmt.Sprintf("  %d-%d of %d", offset+1, end, len(txs))))
		}
	}
	body.WriteString("\n\n")
	body.WriteString(dim.Render("[/] search  [f] filter type  [a] add expense  [d] delete  [esc] clear"))

	b.WriteString(components.ContentCard("Transactions", body.String(), cw))
	return b.String()
}

func (a App) filterLabel() string {
	var parts []string
	if a.txState.kind != "" {
		parts = append(parts, string(a.txState.kind))
	}
	if a.txState.query != "" {
		parts = append(parts, fmt.Sprintf("%q", a.txState.query))
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, " · ")
}
