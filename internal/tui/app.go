// Package tui provides the interactive Bubble Tea dashboard for fintrack.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/finance"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/state"
	"github.com/theirongolddev/fintrack/internal/store"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// DataLoadedMsg is sent when the snapshot has been read from the store.
type DataLoadedMsg struct {
	Snapshot model.Snapshot
	LoadTime time.Duration
	Err      error
}

// savedMsg reports the outcome of a background Put.
type savedMsg struct {
	note string
	err  error
}

// clearMessageMsg hides the status bar message if it is still the one
// identified by seq.
type clearMessageMsg struct{ seq int }

// Options configures NewApp.
type Options struct {
	Store      store.SnapshotStore
	UserID     string
	Config     config.Config
	ConfigPath string // defaults to config.Path()
	NeedSetup  bool
}

// App is the root Bubble Tea model.
type App struct {
	store      store.SnapshotStore
	userID     string
	cfg        config.Config
	configPath string

	// Data
	st       state.State
	report   finance.Report
	txs      []finance.Transaction
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	spinner   spinner.Model

	// Status bar
	message    string
	messageErr bool
	messageSeq int
	saving     bool

	// Embedded huh form (setup, add expense, add goal, confirmations).
	// formDone runs once the form completes.
	form      *huh.Form
	formDone  func(App) (App, tea.Cmd)
	needSetup bool

	// Per-tab state
	goals    goalsState
	txState  txState
	proj     projectionState
	settings settingsState
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 160
	minContentHeight = 5

	storeTimeout   = 15 * time.Second
	messageTimeout = 4 * time.Second
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	path := opts.ConfigPath
	if path == "" {
		path = config.Path()
	}

	scenario, err := finance.ParseScenario(opts.Config.Profile.RiskProfile)
	if err != nil {
		scenario = finance.Moderate
	}

	return App{
		store:      opts.Store,
		userID:     opts.UserID,
		cfg:        opts.Config,
		configPath: path,
		needSetup:  opts.NeedSetup,
		spinner:    sp,
		st:         state.New(model.EmptySnapshot()),
		proj:       projectionState{scenario: scenario},
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadCmd(a.store, a.userID),
		a.spinner.Tick,
	)
}

func loadCmd(st store.SnapshotStore, key string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		snap, err := store.LoadOrEmpty(ctx, st, key)
		return DataLoadedMsg{Snapshot: snap, LoadTime: time.Since(start), Err: err}
	}
}

func saveCmd(st store.SnapshotStore, key string, snap model.Snapshot, note string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return savedMsg{note: note, err: st.Put(ctx, key, snap)}
	}
}

func (a App) currency() func(decimal.Decimal) string {
	return cli.MoneyFormatter(a.cfg.General.Currency)
}

func (a App) money(d decimal.Decimal) string {
	return cli.FormatMoney(d, a.cfg.General.Currency)
}

func (a *App) recompute() {
	today := model.DateOf(time.Now())
	snap := a.st.Snapshot
	a.report = finance.BuildReport(snap, today, a.currency())
	a.txs = finance.Transactions(snap, today)

	a.goals.clamp(len(snap.Goals))
	a.txState.clamp(len(a.filteredTransactions()))
	a.proj.recompute(a.projectionParams(), a.report.Summary.TotalExpenses)
}

// apply runs a state command, refreshes derived data and persists the result.
// Validation errors are shown in the status bar and leave the state untouched.
func (a App) apply(note string, fn func(state.State, time.Time) (state.State, error)) (App, tea.Cmd) {
	next, err := fn(a.st, time.Now())
	if err != nil {
		return a.flash(err.Error(), true)
	}
	a.st = next
	a.recompute()
	a.saving = true
	return a, saveCmd(a.store, a.userID, next.Snapshot, note)
}

// flash shows msg in the status bar for a few seconds.
func (a App) flash(msg string, isErr bool) (App, tea.Cmd) {
	a.messageSeq++
	a.message = msg
	a.messageErr = isErr
	seq := a.messageSeq
	return a, tea.Tick(messageTimeout, func(time.Time) tea.Msg {
		return clearMessageMsg{seq: seq}
	})
}

// openForm embeds f and runs done once the user completes it.
func (a App) openForm(f *huh.Form, done func(App) (App, tea.Cmd)) (App, tea.Cmd) {
	if a.width > 0 {
		f = f.WithWidth(min(a.width-4, 72)).WithHeight(a.height - 2)
	}
	a.form = f
	a.formDone = done
	return a, f.Init()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(min(a.width-4, 72)).WithHeight(a.height - 2)
		}
		return a, nil

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			a.loadErr = msg.Err
			return a, nil
		}
		a.st = state.New(msg.Snapshot)
		a.recompute()

		if a.needSetup {
			vals := ValuesFromConfig(a.cfg)
			return a.openForm(NewSetupForm(&vals), func(a App) (App, tea.Cmd) {
				a.needSetup = false
				return a.saveConfig(vals)
			})
		}
		return a, nil

	case savedMsg:
		a.saving = false
		if msg.err != nil {
			return a.flash("save failed: "+msg.err.Error(), true)
		}
		if msg.note != "" {
			return a.flash(msg.note, false)
		}
		return a, nil

	case clearMessageMsg:
		if msg.seq == a.messageSeq {
			a.message = ""
			a.messageErr = false
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.form != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.loadErr != nil {
			switch msg.String() {
			case "q", "esc":
				return a, tea.Quit
			case "r":
				a.loadErr = nil
				a.loaded = false
				return a, tea.Batch(loadCmd(a.store, a.userID), a.spinner.Tick)
			}
			return a, nil
		}
	}

	if a.form != nil {
		return a.updateForm(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		return a.updateKeys(key)
	}

	// Cursor blinks for the search and settings inputs.
	if a.txState.searching {
		var cmd tea.Cmd
		a.txState.search, cmd = a.txState.search.Update(msg)
		return a, cmd
	}
	if a.settings.editing {
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" && !a.needSetup {
		a.form = nil
		a.formDone = nil
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		done := a.formDone
		a.form = nil
		a.formDone = nil
		if done != nil {
			return done(a)
		}
		return a, nil
	case huh.StateAborted:
		a.form = nil
		a.formDone = nil
		a.needSetup = false
		return a, nil
	}
	return a, cmd
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Text inputs swallow every key while focused.
	if a.activeTab == tabTransactions && a.txState.searching {
		return a.updateTransactionsSearch(msg)
	}
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	var (
		handled bool
		cmd     tea.Cmd
	)
	switch a.activeTab {
	case tabGoals:
		a, cmd, handled = a.updateGoalsKeys(key)
	case tabTransactions:
		a, cmd, handled = a.updateTransactionsKeys(key)
	case tabProjection:
		a, cmd, handled = a.updateProjectionKeys(key)
	case tabSettings:
		a, cmd, handled = a.updateSettingsKeys(key)
	}
	if handled {
		return a, cmd
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		a.loaded = false
		return a, tea.Batch(loadCmd(a.store, a.userID), a.spinner.Tick)
	case "a":
		return a.openExpenseForm()
	case "left", "h":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "l":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		switch a.activeTab {
		case tabGoals:
			a.goals.move(-1, len(a.st.Snapshot.Goals))
		case tabTransactions:
			a.moveTx(-1)
		}
	case tea.MouseButtonWheelDown:
		switch a.activeTab {
		case tabGoals:
			a.goals.move(1, len(a.st.Snapshot.Goals))
		case tabTransactions:
			a.moveTx(1)
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// saveConfig applies wizard or settings answers and writes the config file.
func (a App) saveConfig(vals SetupValues) (App, tea.Cmd) {
	cfg, err := vals.Apply(a.cfg)
	if err != nil {
		return a.flash(err.Error(), true)
	}
	if err := config.SaveTo(a.configPath, cfg); err != nil {
		return a.flash("saving config: "+err.Error(), true)
	}
	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)
	if sc, err := finance.ParseScenario(cfg.Profile.RiskProfile); err == nil {
		a.proj.scenario = sc
	}
	a.recompute()
	return a.flash("settings saved", false)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.loadErr != nil {
		return a.viewLoadError()
	}
	if a.form != nil {
		return a.viewForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  fintrack needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) centered(body string, border lipgloss.Color) string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Padding(1, 3).
		Render(body)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoading() string {
	t := theme.Active
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sub := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logo.Render("◈ fintrack") + sub.Render(" · personal finances") + "\n\n" +
		a.spinner.View() + sub.Render(" Loading "+a.cfg.Store.Backend+" snapshot...")
	return a.centered(body, t.BorderAccent)
}

func (a App) viewLoadError() string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	sub := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := title.Render("Could not load your data") + "\n\n" +
		sub.Render(truncStr(a.loadErr.Error(), 70)) + "\n\n" +
		sub.Render("[r] retry   [q] quit")
	return a.centered(body, t.Red)
}

func (a App) viewForm() string {
	t := theme.Active
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.form.View(),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	section := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	groups := []struct {
		name     string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o g t p x", "Jump to tab"},
			{"← →", "Previous / next tab"},
			{"j k", "Move in lists"},
		}},
		{"Actions", [][2]string{
			{"a", "Add expense"},
			{"n", "New goal (Goals)"},
			{"+ s", "Contribute 10% / suggested (Goals)"},
			{"d", "Delete selected"},
			{"/ f", "Search / filter (Transactions)"},
			{"[ ]", "Change scenario (Projection)"},
			{"r", "Reload from store"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(title.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, g := range groups {
		b.WriteString("\n")
		b.WriteString(section.Render(g.name))
		b.WriteString("\n")
		for _, kv := range g.bindings {
			fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", kv[0])), desc.Render(kv[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("Press any key to close"))
	return a.centered(b.String(), t.BorderAccent)
}

func (a App) viewMain() string {
	t := theme.Active
	w, h := a.width, a.height
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)

	user := a.cfg.Profile.DisplayName
	if user == "" {
		user = a.userID
	}
	updated := "never"
	if last := a.st.Snapshot.LastUpdated; !last.IsZero() {
		updated = cli.FormatRelative(last, time.Now())
	}
	statusBar := components.RenderStatusBar(w, user, updated, a.message, a.messageErr, a.saving)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabGoals:
		content = a.renderGoalsTab(cw)
	case tabTransactions:
		content = a.renderTransactionsTab(cw, contentH)
	case tabProjection:
		content = a.renderProjectionTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

// chartDateLabels builds x-axis labels for a chronological date series:
// "Jan 2" at the first point and at month boundaries, the day number elsewhere.
func chartDateLabels(dates []model.Date) []string {
	labels := make([]string, len(dates))
	var prev time.Month
	for i, d := range dates {
		if i == 0 || d.Month() != prev {
			labels[i] = d.Time().Format("Jan 2")
		} else {
			labels[i] = fmt.Sprint(d.Day())
		}
		prev = d.Month()
	}
	return labels
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at column x of the tab bar, or -1.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1 // separator
	}
	return -1
}
