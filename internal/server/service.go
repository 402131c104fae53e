// Package server provides the HTTP API over a snapshot store.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/fintrack/internal/auth"
	"github.com/theirongolddev/fintrack/internal/finance"
	"github.com/theirongolddev/fintrack/internal/logger"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/state"
	"github.com/theirongolddev/fintrack/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
	Currency     string

	// Projection defaults when a request leaves them out.
	CurrentAge    int
	RetirementAge int
	Scenario      finance.Scenario
}

// Delta captures what changed between two snapshots of one user.
type Delta struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
	Entries  int             `json:"entries"`
	Goals    int             `json:"goals"`
}

func (d Delta) isZero() bool {
	return d.Income.IsZero() &&
		d.Expenses.IsZero() &&
		d.Balance.IsZero() &&
		d.Entries == 0 &&
		d.Goals == 0
}

// Event is emitted whenever a user's snapshot changes.
type Event struct {
	ID        int64                  `json:"id"`
	Type      string                 `json:"type"`
	UserID    string                 `json:"-"`
	Timestamp time.Time              `json:"timestamp"`
	Summary   model.FinancialSummary `json:"summary"`
	Delta     Delta                  `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastWriteAt     time.Time `json:"last_write_at"`
	WriteCount      int64     `json:"write_count"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

type subscriber struct {
	userID string
	ch     chan Event
}

// Service serves the API and fans snapshot changes out to subscribers.
type Service struct {
	cfg      Config
	store    store.SnapshotStore
	tokens   *auth.Tokens
	provider auth.Provider
	log      *zap.Logger
	now      func() time.Time

	// writeMu serializes read-modify-write cycles against the store.
	writeMu sync.Mutex

	mu          sync.RWMutex
	startedAt   time.Time
	lastWriteAt time.Time
	writeCount  int64
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]subscriber
}

// New returns a service. provider may be nil when the backend keeps no
// local accounts; sign-up and login then answer 501.
func New(cfg Config, st store.SnapshotStore, tokens *auth.Tokens, provider auth.Provider) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.CurrentAge == 0 && cfg.RetirementAge == 0 {
		cfg.CurrentAge, cfg.RetirementAge = 30, 65
	}
	if cfg.Scenario == "" {
		cfg.Scenario = finance.Moderate
	}

	return &Service{
		cfg:       cfg,
		store:     st,
		tokens:    tokens,
		provider:  provider,
		log:       logger.Get().Named("server"),
		now:       time.Now,
		startedAt: time.Now(),
		subs:      make(map[int]subscriber),
	}
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("listening", zap.String("addr", s.cfg.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

// load returns the user's snapshot, or an empty one.
func (s *Service) load(ctx context.Context, userID string) (model.Snapshot, error) {
	return store.LoadOrEmpty(ctx, s.store, userID)
}

// mutate applies fn to the user's state and persists the result. On any
// error the stored snapshot is left as it was.
func (s *Service) mutate(ctx context.Context, userID string, fn func(state.State) (state.State, error)) (state.State, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap, err := s.load(ctx, userID)
	if err != nil {
		return state.State{}, err
	}
	prev := state.New(snap)
	next, err := fn(prev)
	if err != nil {
		return prev, err
	}
	if err := s.store.Put(ctx, userID, next.Snapshot); err != nil {
		return prev, fmt.Errorf("saving snapshot: %w", err)
	}
	s.recordChange(userID, prev.Snapshot, next.Snapshot)
	return next, nil
}

func (s *Service) recordChange(userID string, prev, curr model.Snapshot) {
	now := s.now()
	delta := diffSnapshots(prev, curr)

	s.mu.Lock()
	s.writeCount++
	s.lastWriteAt = now
	s.mu.Unlock()

	if delta.isZero() {
		return
	}
	s.publishEvent(Event{
		Type:      "snapshot_delta",
		UserID:    userID,
		Timestamp: now,
		Summary:   finance.Summarize(curr.Income, curr.Expenses),
		Delta:     delta,
	})
}

func diffSnapshots(prev, curr model.Snapshot) Delta {
	p := finance.Summarize(prev.Income, prev.Expenses)
	c := finance.Summarize(curr.Income, curr.Expenses)
	return Delta{
		Income:   c.TotalIncome.Sub(p.TotalIncome),
		Expenses: c.TotalExpenses.Sub(p.TotalExpenses),
		Balance:  c.Balance.Sub(p.Balance),
		Entries:  len(curr.Expenses) - len(prev.Expenses),
		Goals:    len(curr.Goals) - len(prev.Goals),
	}
}

// publishEvent assigns the next id, appends ev to the ring and forwards it
// to the user's subscribers without blocking.
func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, sub := range s.subs {
		if sub.userID != ev.UserID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) userEvents(userID string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := []Event{}
	for _, ev := range s.events {
		if ev.UserID == userID {
			events = append(events, ev)
		}
	}
	return events
}

func (s *Service) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastWriteAt:     s.lastWriteAt,
		WriteCount:      s.writeCount,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(userID string, ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = subscriber{userID: userID, ch: ch}
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

// Handler builds the gin engine with every route registered.
func (s *Service) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	r.GET("/healthz", s.handleHealth)

	v1 := r.Group("/v1")
	v1.GET("/status", s.handleStatus)
	v1.POST("/auth/signup", s.handleSignUp)
	v1.POST("/auth/login", s.handleLogin)

	api := v1.Group("", s.requireAuth)
	api.GET("/snapshot", s.handleGetSnapshot)
	api.PUT("/snapshot", s.handlePutSnapshot)
	api.PUT("/income", s.handleSetIncome)
	api.POST("/expenses", s.handleAddExpense)
	api.DELETE("/expenses/:id", s.handleRemoveExpense)
	api.GET("/goals", s.handleGoals)
	api.POST("/goals", s.handleAddGoal)
	api.POST("/goals/:id/contribute", s.handleContribute)
	api.DELETE("/goals/:id", s.handleRemoveGoal)
	api.GET("/summary", s.handleSummary)
	api.GET("/categories", s.handleCategories)
	api.GET("/daily", s.handleDaily)
	api.GET("/health", s.handleHealthScore)
	api.GET("/report", s.handleReport)
	api.GET("/transactions", s.handleTransactions)
	api.POST("/projection", s.handleProjection)
	api.POST("/simulate", s.handleSimulate)
	api.GET("/export/json", s.handleExportJSON)
	api.GET("/export/csv", s.handleExportCSV)
	api.GET("/events", s.handleEvents)
	api.GET("/stream", s.handleStream)

	return r
}
