package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/theirongolddev/fintrack/internal/auth"
	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/export"
	"github.com/theirongolddev/fintrack/internal/finance"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/state"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// writeError maps an error to a status code and a short message.
func (s *Service) writeError(c *gin.Context, err error) {
	var ve *state.ValidationError
	switch {
	case errors.Is(err, state.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, state.ErrGoalCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": ve.Field})
	default:
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.String("user_id", userID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
}

func (s *Service) today() model.Date {
	return model.DateOf(s.now())
}

func (s *Service) money(d decimal.Decimal) string {
	return cli.FormatMoney(d, s.cfg.Currency)
}

// snapshot loads the caller's snapshot, writing the error response on failure.
func (s *Service) snapshot(c *gin.Context) (model.Snapshot, bool) {
	snap, err := s.load(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return model.Snapshot{}, false
	}
	return snap, true
}

func (s *Service) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok\n")
}

func (s *Service) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.status())
}

type tokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email"`
}

func authStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrEmailInUse):
		return http.StatusConflict
	case errors.Is(err, auth.ErrWrongCredentials):
		return http.StatusUnauthorized
	case state.IsValidation(err), errors.Is(err, auth.ErrPasswordMismatch), errors.Is(err, auth.ErrPasswordTooShort):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Service) issue(c *gin.Context, status int, u auth.User) {
	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(status, tokenResponse{Token: token, UserID: u.ID, Name: u.Name, Email: u.Email})
}

func (s *Service) handleSignUp(c *gin.Context) {
	if s.provider == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "local accounts are not available on this backend"})
		return
	}
	var in auth.SignUpInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	u, err := s.provider.SignUp(c.Request.Context(), in)
	if err != nil {
		if authStatus(err) == http.StatusInternalServerError {
			s.log.Error("sign-up failed", zap.Error(err))
		}
		c.JSON(authStatus(err), gin.H{"error": auth.Message(err)})
		return
	}
	s.log.Info("user signed up", zap.String("user_id", u.ID))
	s.issue(c, http.StatusCreated, u)
}

func (s *Service) handleLogin(c *gin.Context) {
	if s.provider == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "local accounts are not available on this backend"})
		return
	}
	var in auth.SignInInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	u, err := s.provider.SignIn(c.Request.Context(), in)
	if err != nil {
		if authStatus(err) == http.StatusInternalServerError {
			s.log.Error("sign-in failed", zap.Error(err))
		}
		c.JSON(authStatus(err), gin.H{"error": auth.Message(err)})
		return
	}
	s.issue(c, http.StatusOK, u)
}

func (s *Service) handleGetSnapshot(c *gin.Context) {
	if snap, ok := s.snapshot(c); ok {
		c.JSON(http.StatusOK, snap)
	}
}

func (s *Service) handlePutSnapshot(c *gin.Context) {
	var in model.Snapshot
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	next, err := s.mutate(c.Request.Context(), userID(c), func(st state.State) (state.State, error) {
		return state.ApplyImport(st, in, s.now())
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, next.Snapshot)
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (s *Service) handleSetIncome(c *gin.Context) {
	var in amountRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	next, err := s.mutate(c.Request.Context(), userID(c), func(st state.State) (state.State, error) {
		return state.ApplySetIncome(st, in.Amount, s.now())
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, finance.Summarize(next.Snapshot.Income, next.Snapshot.Expenses))
}

type expenseRequest struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     model.Date      `json:"date"`
}

func (s *Service) handleAddExpense(c *gin.Context) {
	var in expenseRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	var added model.Expense
	_, err := s.mutate(c.Request.Context(), userID(c), func(st state.State) (state.State, error) {
		next, e, err := state.ApplyAddExpense(st, state.ExpenseInput(in), s.now())
		added = e
		return next, err
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, added)
}

func (s *Service) handleRemoveExpense(c *gin.Context) {
	_, err := s.mutate(c.Request.Context(), userID(c), func(st state.State) (state.State, error) {
		return state.ApplyRemoveExpense(st, c.Param("id"), s.now())
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type goalRequest struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Deadline     model.Date      `json:"deadline"`
}

func (s *Service) handleAddGoal(c *gin.Context) {
	var in goalRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	var added model.SavingsGoal
	_, err := s.mutate(c.Request.Context(), userID(c), func(st state.State) (state.State, error) {
		next, g, err := state.ApplyAddGoal(st, state.GoalInput(in), s.now())
		added = g
		return next, err
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, finance.GoalProgress(added, s.today()))
}

// Contribution modes for POST /v1/goals/:id/contribute.
const (
	ModeTenPercent = "ten-percent"
	ModeSuggested  = "suggested"
)

type contributeRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Mode   string          `json:"mode"`
}

func (s *Service) handleContribute(c *gin.Context) {
	var in contributeRequest
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	id := c.Param("id")
	next, err := s.mutate(c.Request.Context(), userID(c), func(st state.State) (state.State, error) {
		amount := in.Amount
		var err error
		switch in.Mode {
		case "":
		case ModeTenPercent:
			amount, err = state.QuickTenPercent(st, id)
		case ModeSuggested:
			amount, err = state.QuickSuggested(st, id, s.now())
		default:
			return st, &state.ValidationError{Field: "mode", Err: fmt.Errorf("unknown mode %q", in.Mode)}
		}
		if err != nil {
			return st, err
		}
		return state.ApplyContribute(st, id, amount, s.now())
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	for _, g := range next.Snapshot.Goals {
		if g.ID == id {
			c.JSON(http.StatusOK, finance.GoalProgress(g, s.today()))
			return
		}
	}
	c.Status(http.StatusNoContent)
}

func (s *Service) handleRemoveGoal(c *gin.Context) {
	_, err := s.mutate(c.Request.Context(), userID(c), func(st state.State) (state.State, error) {
		return state.ApplyRemoveGoal(st, c.Param("id"), s.now())
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Service) handleGoals(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"goals":    finance.GoalsProgress(snap.Goals, s.today()),
		"analysis": finance.AnalyzeGoals(snap.Goals),
	})
}

func (s *Service) handleSummary(c *gin.Context) {
	if snap, ok := s.snapshot(c); ok {
		c.JSON(http.StatusOK, finance.Summarize(snap.Income, snap.Expenses))
	}
}

func (s *Service) handleCategories(c *gin.Context) {
	if snap, ok := s.snapshot(c); ok {
		c.JSON(http.StatusOK, finance.CategoryBreakdown(snap.Expenses, snap.Income))
	}
}

func (s *Service) handleDaily(c *gin.Context) {
	if snap, ok := s.snapshot(c); ok {
		c.JSON(http.StatusOK, finance.DailySeries(snap.Expenses, s.today()))
	}
}

func (s *Service) handleHealthScore(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	r := finance.BuildReport(snap, s.today(), s.money)
	c.JSON(http.StatusOK, gin.H{
		"health":          r.Health,
		"recommendations": r.Recommendations,
		"monthly":         r.Monthly,
	})
}

func (s *Service) handleReport(c *gin.Context) {
	if snap, ok := s.snapshot(c); ok {
		c.JSON(http.StatusOK, finance.BuildReport(snap, s.today(), s.money))
	}
}

func (s *Service) handleTransactions(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	kind := finance.TransactionKind(strings.ToLower(c.Query("type")))
	if kind != "" && kind != finance.KindIncome && kind != finance.KindExpense {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown transaction type %q", kind)})
		return
	}
	txs := finance.FilterTransactions(finance.Transactions(snap, s.today()), finance.TransactionFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Kind:     kind,
	})
	if txs == nil {
		txs = []finance.Transaction{}
	}
	in, out, net := finance.Totals(txs)
	c.JSON(http.StatusOK, gin.H{
		"transactions": txs,
		"totals":       gin.H{"income": in, "expenses": out, "net": net},
	})
}

type projectionRequest struct {
	CurrentAge          int              `json:"currentAge"`
	RetirementAge       int              `json:"retirementAge"`
	CurrentSavings      decimal.Decimal  `json:"currentSavings"`
	MonthlyContribution *decimal.Decimal `json:"monthlyContribution"`
	MonthlyExpenses     *decimal.Decimal `json:"monthlyExpenses"`
	Scenario            string           `json:"scenario"`
}

// handleProjection fills omitted fields from the configured profile and the
// snapshot: contribution defaults to the positive balance, expenses to the
// recorded total.
func (s *Service) handleProjection(c *gin.Context) {
	var in projectionRequest
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	summary := finance.Summarize(snap.Income, snap.Expenses)

	p := finance.ScenarioParams{
		CurrentAge:     in.CurrentAge,
		RetirementAge:  in.RetirementAge,
		CurrentSavings: in.CurrentSavings,
		Scenario:       s.cfg.Scenario,
	}
	if p.CurrentAge == 0 && p.RetirementAge == 0 {
		p.CurrentAge, p.RetirementAge = s.cfg.CurrentAge, s.cfg.RetirementAge
	}
	if in.Scenario != "" {
		sc, err := finance.ParseScenario(in.Scenario)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p.Scenario = sc
	}
	p.MonthlyContribution = decimal.Max(summary.Balance, decimal.Zero)
	if in.MonthlyContribution != nil {
		p.MonthlyContribution = *in.MonthlyContribution
	}
	expenses := summary.TotalExpenses
	if in.MonthlyExpenses != nil {
		expenses = *in.MonthlyExpenses
	}

	rows, err := finance.Project(p, expenses, s.now().Year())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"params":       p,
		"rows":         rows,
		"finalBalance": finance.FinalBalance(rows),
	})
}

type simulateRequest struct {
	FromCurrent bool             `json:"fromCurrent"`
	Income      *decimal.Decimal `json:"income"`
	Expenses    []expenseRequest `json:"expenses"`
	Remove      []string         `json:"remove"`
}

func (s *Service) handleSimulate(c *gin.Context) {
	var in simulateRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}

	sim := finance.NewSimulation()
	if in.FromCurrent {
		sim = finance.SimulationFromCurrent(snap)
	}
	if in.Income != nil {
		if in.Income.IsNegative() {
			s.writeError(c, &state.ValidationError{Field: "income", Err: state.ErrNegativeAmount})
			return
		}
		sim = sim.WithIncome(*in.Income)
	}
	for _, id := range in.Remove {
		sim = sim.WithoutExpense(id)
	}
	for _, e := range in.Expenses {
		exp, err := state.NewExpense(state.ExpenseInput(e), s.now())
		if err != nil {
			s.writeError(c, err)
			return
		}
		sim = sim.WithExpense(exp)
	}

	cmp := finance.Simulate(snap.Income, snap.Expenses, sim)
	outcomes := map[finance.Field]string{}
	for _, f := range []finance.Field{finance.FieldIncome, finance.FieldExpenses, finance.FieldBalance, finance.FieldSavings} {
		outcomes[f] = cmp.Outcome(f).String()
	}
	c.JSON(http.StatusOK, gin.H{
		"simulation": sim,
		"comparison": cmp,
		"outcomes":   outcomes,
		"insights":   finance.Insights(cmp, s.money),
	})
}

func (s *Service) handleExportJSON(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	now := s.now()
	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName("json", now)))
	c.Status(http.StatusOK)
	if err := export.WriteJSON(c.Writer, snap, now); err != nil {
		s.log.Error("json export failed", zap.Error(err))
	}
}

func (s *Service) handleExportCSV(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	now := s.now()
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName("csv", now)))
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, snap.Expenses, model.DateOf(now)); err != nil {
		s.log.Error("csv export failed", zap.Error(err))
	}
}

func (s *Service) handleEvents(c *gin.Context) {
	c.JSON(http.StatusOK, s.userEvents(userID(c)))
}

func (s *Service) handleStream(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.String(http.StatusInternalServerError, "streaming unsupported")
		return
	}
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	uid := userID(c)
	ch := make(chan Event, 16)
	id := s.addSubscriber(uid, ch)
	defer s.removeSubscriber(id)

	// Send current summary immediately.
	writeSSE(c.Writer, Event{
		Type:      "snapshot",
		Timestamp: s.now(),
		Summary:   finance.Summarize(snap.Income, snap.Expenses),
	})
	flusher.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			writeSSE(c.Writer, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w io.Writer, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
