package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/fintrack/internal/auth"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/store"

	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

type harness struct {
	t       *testing.T
	svc     *Service
	handler http.Handler
	tokens  *auth.Tokens
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	tokens, err := auth.NewTokens("test-secret", "fintrack", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	mem := store.NewMemory()
	svc := New(Config{Currency: "USD", EventsBuffer: 50}, mem, tokens, auth.NewLocalProvider(mem))
	svc.now = func() time.Time { return fixedNow }
	return &harness{t: t, svc: svc, handler: svc.Handler(), tokens: tokens}
}

func (h *harness) token(userID string) string {
	h.t.Helper()
	tok, err := h.tokens.Issue(userID, userID+"@example.com")
	if err != nil {
		h.t.Fatalf("Issue: %v", err)
	}
	return tok
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			h.t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

func TestDiffSnapshots(t *testing.T) {
	prev := model.EmptySnapshot()
	prev.Income = decimal.RequireFromString("1000")
	curr := prev.Clone()
	curr.Income = decimal.RequireFromString("1500")
	curr.Expenses = append(curr.Expenses, model.Expense{ID: "e", Name: "x", Amount: decimal.RequireFromString("200")})

	delta := diffSnapshots(prev, curr)
	if !delta.Income.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("Income delta = %s, want 500", delta.Income)
	}
	if !delta.Expenses.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("Expenses delta = %s, want 200", delta.Expenses)
	}
	if !delta.Balance.Equal(decimal.RequireFromString("300")) {
		t.Fatalf("Balance delta = %s, want 300", delta.Balance)
	}
	if delta.Entries != 1 {
		t.Fatalf("Entries delta = %d, want 1", delta.Entries)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(prev, prev).isZero() {
		t.Fatal("identical snapshots should have a zero delta")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, store.NewMemory(), nil, nil)

	s.publishEvent(Event{UserID: "a"})
	s.publishEvent(Event{UserID: "a"})
	s.publishEvent(Event{UserID: "b"})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPublishEventOnlyReachesOwner(t *testing.T) {
	s := New(Config{}, store.NewMemory(), nil, nil)
	mine := make(chan Event, 1)
	theirs := make(chan Event, 1)
	s.addSubscriber("me", mine)
	s.addSubscriber("them", theirs)

	s.publishEvent(Event{UserID: "me", Type: "snapshot_delta"})

	select {
	case ev := <-mine:
		if ev.ID != 1 {
			t.Fatalf("event ID = %d, want 1", ev.ID)
		}
	default:
		t.Fatal("owner did not receive the event")
	}
	select {
	case <-theirs:
		t.Fatal("event leaked to another user")
	default:
	}
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/healthz", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if rec.Body.String() != "ok\n" {
		t.Fatalf("body = %q, want ok", rec.Body.String())
	}
}

func TestRequiresToken(t *testing.T) {
	h := newHarness(t)
	expectStatus(t, h.do(http.MethodGet, "/v1/summary", "", nil), http.StatusUnauthorized)
	expectStatus(t, h.do(http.MethodGet, "/v1/summary", "garbage", nil), http.StatusUnauthorized)

	other, _ := auth.NewTokens("other-secret", "fintrack", time.Hour)
	forged, _ := other.Issue("u", "")
	expectStatus(t, h.do(http.MethodGet, "/v1/summary", forged, nil), http.StatusUnauthorized)

	expectStatus(t, h.do(http.MethodGet, "/v1/summary", h.token("u"), nil), http.StatusOK)
}

func TestSignUpAndLogin(t *testing.T) {
	h := newHarness(t)
	form := auth.SignUpInput{Name: "Ana", Email: "ana@example.com", Password: "secret1", Confirm: "secret1"}

	rec := h.do(http.MethodPost, "/v1/auth/signup", "", form)
	expectStatus(t, rec, http.StatusCreated)
	created := decode[tokenResponse](t, rec)
	if created.Token == "" || created.UserID == "" {
		t.Fatalf("signup response = %+v", created)
	}

	rec = h.do(http.MethodPost, "/v1/auth/signup", "", form)
	expectStatus(t, rec, http.StatusConflict)
	if msg := decode[map[string]string](t, rec)["error"]; msg != auth.MsgEmailInUse {
		t.Fatalf("duplicate signup error = %q, want %q", msg, auth.MsgEmailInUse)
	}

	mismatch := form
	mismatch.Email = "other@example.com"
	mismatch.Confirm = "different"
	rec = h.do(http.MethodPost, "/v1/auth/signup", "", mismatch)
	expectStatus(t, rec, http.StatusBadRequest)
	if msg := decode[map[string]string](t, rec)["error"]; msg != auth.MsgPasswordMismatch {
		t.Fatalf("mismatch error = %q, want %q", msg, auth.MsgPasswordMismatch)
	}

	rec = h.do(http.MethodPost, "/v1/auth/login", "", auth.SignInInput{Email: "ana@example.com", Password: "wrong!!"})
	expectStatus(t, rec, http.StatusUnauthorized)
	if msg := decode[map[string]string](t, rec)["error"]; msg != auth.MsgWrongCredentials {
		t.Fatalf("wrong password error = %q, want %q", msg, auth.MsgWrongCredentials)
	}

	rec = h.do(http.MethodPost, "/v1/auth/login", "", auth.SignInInput{Email: "ana@example.com", Password: "secret1"})
	expectStatus(t, rec, http.StatusOK)
	logged := decode[tokenResponse](t, rec)
	if logged.UserID != created.UserID {
		t.Fatalf("login user = %q, want %q", logged.UserID, created.UserID)
	}
	expectStatus(t, h.do(http.MethodGet, "/v1/snapshot", logged.Token, nil), http.StatusOK)
}

func TestSignUpWithoutProvider(t *testing.T) {
	tokens, _ := auth.NewTokens("k", "fintrack", time.Hour)
	s := New(Config{}, store.NewMemory(), tokens, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", strings.NewReader("{}"))
	s.Handler().ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusNotImplemented)
}

func TestExpenseLifecycle(t *testing.T) {
	h := newHarness(t)
	tok := h.token("alice")

	expectStatus(t, h.do(http.MethodPut, "/v1/income", tok, map[string]any{"amount": 3000}), http.StatusOK)

	rec := h.do(http.MethodPost, "/v1/expenses", tok, map[string]any{"name": "Rent", "amount": "1200", "category": "housing"})
	expectStatus(t, rec, http.StatusCreated)
	added := decode[model.Expense](t, rec)
	if added.Category != "Housing" || added.Date != model.DateOf(fixedNow) {
		t.Fatalf("added expense = %+v", added)
	}

	rec = h.do(http.MethodPost, "/v1/expenses", tok, map[string]any{"name": "", "amount": 5})
	expectStatus(t, rec, http.StatusBadRequest)
	if field := decode[map[string]string](t, rec)["field"]; field != "name" {
		t.Fatalf("validation field = %q, want name", field)
	}

	rec = h.do(http.MethodGet, "/v1/summary", tok, nil)
	expectStatus(t, rec, http.StatusOK)
	summary := decode[model.FinancialSummary](t, rec)
	if !summary.Balance.Equal(decimal.RequireFromString("1800")) {
		t.Fatalf("balance = %s, want 1800", summary.Balance)
	}
	if summary.SavingsPercentage != 60 {
		t.Fatalf("savings = %v, want 60", summary.SavingsPercentage)
	}

	rec = h.do(http.MethodGet, "/v1/categories", tok, nil)
	cats := decode[[]model.CategoryStats](t, rec)
	if len(cats) != 1 || cats[0].Category != "Housing" || cats[0].PercentageOfIncome != 40 {
		t.Fatalf("categories = %+v", cats)
	}

	expectStatus(t, h.do(http.MethodDelete, "/v1/expenses/nope", tok, nil), http.StatusNotFound)
	expectStatus(t, h.do(http.MethodDelete, "/v1/expenses/"+added.ID, tok, nil), http.StatusNoContent)

	// other users see their own empty snapshot
	rec = h.do(http.MethodGet, "/v1/snapshot", h.token("bob"), nil)
	snap := decode[model.Snapshot](t, rec)
	if !snap.Income.IsZero() || len(snap.Expenses) != 0 {
		t.Fatalf("bob snapshot = %+v", snap)
	}
}

func TestNegativeIncomeRejected(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPut, "/v1/income", h.token("u"), map[string]any{"amount": -1})
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestGoalContributions(t *testing.T) {
	h := newHarness(t)
	tok := h.token("alice")
	h.do(http.MethodPut, "/v1/income", tok, map[string]any{"amount": 1000})

	rec := h.do(http.MethodPost, "/v1/goals", tok, map[string]any{"name": "Trip", "targetAmount": 500, "deadline": "2025-12-31"})
	expectStatus(t, rec, http.StatusCreated)
	created := decode[model.GoalProgress](t, rec)
	id := created.Goal.ID

	expectStatus(t,
		h.do(http.MethodPost, "/v1/goals", tok, map[string]any{"name": "Late", "targetAmount": 1, "deadline": "2025-06-15"}),
		http.StatusBadRequest)

	rec = h.do(http.MethodPost, "/v1/goals/"+id+"/contribute", tok, map[string]any{"amount": 50})
	expectStatus(t, rec, http.StatusOK)

	// 10% of a 1000 balance
	rec = h.do(http.MethodPost, "/v1/goals/"+id+"/contribute", tok, map[string]any{"mode": ModeTenPercent})
	expectStatus(t, rec, http.StatusOK)
	progress := decode[model.GoalProgress](t, rec)
	if !progress.Goal.CurrentAmount.Equal(decimal.RequireFromString("150")) {
		t.Fatalf("saved = %s, want 150", progress.Goal.CurrentAmount)
	}
	if progress.ProgressPercent != 30 {
		t.Fatalf("progress = %v, want 30", progress.ProgressPercent)
	}

	expectStatus(t, h.do(http.MethodPost, "/v1/goals/"+id+"/contribute", tok, map[string]any{"mode": "double"}), http.StatusBadRequest)
	expectStatus(t, h.do(http.MethodPost, "/v1/goals/missing/contribute", tok, map[string]any{"amount": 1}), http.StatusNotFound)

	rec = h.do(http.MethodGet, "/v1/goals", tok, nil)
	expectStatus(t, rec, http.StatusOK)
	body := decode[struct {
		Goals    []model.GoalProgress `json:"goals"`
		Analysis model.GoalAnalysis   `json:"analysis"`
	}](t, rec)
	if len(body.Goals) != 1 || body.Analysis.TotalGoals != 1 {
		t.Fatalf("goals body = %+v", body)
	}

	expectStatus(t, h.do(http.MethodDelete, "/v1/goals/"+id, tok, nil), http.StatusNoContent)
}

func TestTransactionsFilter(t *testing.T) {
	h := newHarness(t)
	tok := h.token("alice")
	h.do(http.MethodPut, "/v1/income", tok, map[string]any{"amount": 2000})
	h.do(http.MethodPost, "/v1/expenses", tok, map[string]any{"name": "Groceries", "amount": 80, "category": "Food"})
	h.do(http.MethodPost, "/v1/expenses", tok, map[string]any{"name": "Bus pass", "amount": 40, "category": "Transport"})

	type txBody struct {
		Transactions []map[string]any `json:"transactions"`
	}

	all := decode[txBody](t, h.do(http.MethodGet, "/v1/transactions", tok, nil))
	if len(all.Transactions) != 3 {
		t.Fatalf("transactions = %d, want 3", len(all.Transactions))
	}
	food := decode[txBody](t, h.do(http.MethodGet, "/v1/transactions?q=groc", tok, nil))
	if len(food.Transactions) != 1 || food.Transactions[0]["description"] != "Groceries" {
		t.Fatalf("q=groc = %+v", food.Transactions)
	}
	income := decode[txBody](t, h.do(http.MethodGet, "/v1/transactions?type=income", tok, nil))
	if len(income.Transactions) != 1 || income.Transactions[0]["type"] != "income" {
		t.Fatalf("type=income = %+v", income.Transactions)
	}
	expectStatus(t, h.do(http.MethodGet, "/v1/transactions?type=transfer", tok, nil), http.StatusBadRequest)
}

func TestProjectionDefaults(t *testing.T) {
	h := newHarness(t)
	tok := h.token("alice")

	rec := h.do(http.MethodPost, "/v1/projection", tok, map[string]any{
		"currentAge":          30,
		"retirementAge":       32,
		"currentSavings":      1000,
		"monthlyContribution": 100,
		"scenario":            "Moderate",
	})
	expectStatus(t, rec, http.StatusOK)
	body := decode[map[string]any](t, rec)
	if body["finalBalance"].(float64) != 3803 {
		t.Fatalf("finalBalance = %v, want 3803", body["finalBalance"])
	}
	if rows := body["rows"].([]any); len(rows) != 3 || rows[0].(map[string]any)["year"].(float64) != 2025 {
		t.Fatalf("rows = %v", body["rows"])
	}

	expectStatus(t, h.do(http.MethodPost, "/v1/projection", tok, map[string]any{"scenario": "yolo"}), http.StatusBadRequest)
	expectStatus(t, h.do(http.MethodPost, "/v1/projection", tok, map[string]any{"currentAge": 70, "retirementAge": 65}), http.StatusBadRequest)

	// profile ages, zero balance contribution
	rec = h.do(http.MethodPost, "/v1/projection", tok, nil)
	expectStatus(t, rec, http.StatusOK)
	if rows := decode[map[string]any](t, rec)["rows"].([]any); len(rows) != 36 {
		t.Fatalf("default rows = %d, want 36", len(rows))
	}
}

func TestSimulate(t *testing.T) {
	h := newHarness(t)
	tok := h.token("alice")
	h.do(http.MethodPut, "/v1/income", tok, map[string]any{"amount": 2000})
	h.do(http.MethodPost, "/v1/expenses", tok, map[string]any{"name": "Rent", "amount": 1000})

	rec := h.do(http.MethodPost, "/v1/simulate", tok, map[string]any{
		"fromCurrent": true,
		"income":      2500,
	})
	expectStatus(t, rec, http.StatusOK)
	body := decode[struct {
		Outcomes map[string]string      `json:"outcomes"`
		Insights []model.Recommendation `json:"insights"`
	}](t, rec)
	if body.Outcomes["balance"] != "better" || body.Outcomes["expenses"] != "unchanged" {
		t.Fatalf("outcomes = %v", body.Outcomes)
	}
	if len(body.Insights) == 0 || !strings.Contains(body.Insights[0].Message, "$500.00") {
		t.Fatalf("insights = %+v", body.Insights)
	}

	expectStatus(t, h.do(http.MethodPost, "/v1/simulate", tok, map[string]any{"income": -5}), http.StatusBadRequest)
}

func TestPutSnapshot(t *testing.T) {
	h := newHarness(t)
	tok := h.token("alice")
	upload := map[string]any{
		"income":   1500,
		"expenses": []map[string]any{{"id": "e1", "name": "Gym", "amount": 30, "category": "Health", "date": "2025-06-02"}},
		"goals":    []any{},
	}
	rec := h.do(http.MethodPut, "/v1/snapshot", tok, upload)
	expectStatus(t, rec, http.StatusOK)
	snap := decode[model.Snapshot](t, rec)
	if len(snap.Expenses) != 1 || snap.Expenses[0].ID != "e1" || !snap.LastUpdated.Equal(fixedNow) {
		t.Fatalf("snapshot = %+v", snap)
	}

	upload["income"] = -1
	expectStatus(t, h.do(http.MethodPut, "/v1/snapshot", tok, upload), http.StatusBadRequest)
}

func TestExports(t *testing.T) {
	h := newHarness(t)
	tok := h.token("alice")
	h.do(http.MethodPost, "/v1/expenses", tok, map[string]any{"name": "Coffee", "amount": 4.5, "category": "Food", "date": "2025-06-10"})

	rec := h.do(http.MethodGet, "/v1/export/csv", tok, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := rec.Body.String(); got != "Date,Description,Category,Amount\n2025-06-10,Coffee,Food,4.5\n" {
		t.Fatalf("csv = %q", got)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "financial-report-2025-06-15.csv") {
		t.Fatalf("Content-Disposition = %q", cd)
	}

	rec = h.do(http.MethodGet, "/v1/export/json", tok, nil)
	expectStatus(t, rec, http.StatusOK)
	doc := decode[map[string]any](t, rec)
	if _, ok := doc["summary"]; !ok {
		t.Fatalf("json export missing summary: %s", rec.Body.String())
	}
}

func TestEventsRecordChanges(t *testing.T) {
	h := newHarness(t)
	alice, bob := h.token("alice"), h.token("bob")

	h.do(http.MethodPut, "/v1/income", alice, map[string]any{"amount": 100})
	h.do(http.MethodPut, "/v1/income", alice, map[string]any{"amount": 100}) // no change, no event
	h.do(http.MethodPut, "/v1/income", bob, map[string]any{"amount": 7})

	events := decode[[]Event](t, h.do(http.MethodGet, "/v1/events", alice, nil))
	if len(events) != 1 {
		t.Fatalf("alice events = %d, want 1", len(events))
	}
	if !events[0].Delta.Income.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("income delta = %s, want 100", events[0].Delta.Income)
	}

	status := decode[Status](t, h.do(http.MethodGet, "/v1/status", "", nil))
	if status.WriteCount != 3 || status.EventCount != 2 {
		t.Fatalf("status = %+v, want 3 writes and 2 events", status)
	}
}
