// Package cmd implements the fintrack CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/logger"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/state"
	"github.com/theirongolddev/fintrack/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagUser      string
	flagStore     string
	flagEphemeral bool
	flagVerbose   bool
)

// cfg is loaded once in PersistentPreRunE.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:               "fintrack",
	Short:             "Personal finance tracker",
	Long:              "Track income, expenses and savings goals; score your financial health and project retirement savings.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "User id whose snapshot to use (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Store backend: sqlite, mongo, postgres, memory")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "Keep data in memory only for this run")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
}

func setup(_ *cobra.Command, _ []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if flagStore != "" {
		loaded.Store.Backend = flagStore
	}
	if flagEphemeral {
		loaded.Store.Backend = config.BackendMemory
	}
	if err := config.Validate(loaded); err != nil {
		return fmt.Errorf("invalid config %s: %w", config.Path(), err)
	}
	cfg = loaded

	level := logger.LogLevel(cfg.Log.Level)
	if flagVerbose {
		level = logger.DebugLevel
	}
	if err := logger.Init(cfg.Log.Development, level); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.Get().Debug("config loaded",
		zap.String("path", config.Path()),
		zap.String("backend", cfg.Store.Backend),
		zap.String("user", userKey()),
	)
	return nil
}

// userKey is the snapshot key for this invocation.
func userKey() string {
	if flagUser != "" {
		return flagUser
	}
	return cfg.Profile.UserID
}

func openStore(ctx context.Context) (store.SnapshotStore, error) {
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
	}
	return st, nil
}

// loadState reads the current user's snapshot.
func loadState(ctx context.Context) (state.State, error) {
	st, err := openStore(ctx)
	if err != nil {
		return state.State{}, err
	}
	defer func() { _ = st.Close() }()

	snap, err := store.LoadOrEmpty(ctx, st, userKey())
	if err != nil {
		return state.State{}, err
	}
	return state.New(snap), nil
}

// withState loads the snapshot, applies fn and saves the result. Nothing is
// written when fn fails.
func withState(ctx context.Context, fn func(state.State) (state.State, error)) (state.State, error) {
	st, err := openStore(ctx)
	if err != nil {
		return state.State{}, err
	}
	defer func() { _ = st.Close() }()

	snap, err := store.LoadOrEmpty(ctx, st, userKey())
	if err != nil {
		return state.State{}, err
	}
	next, err := fn(state.New(snap))
	if err != nil {
		return state.State{}, err
	}
	if err := st.Put(ctx, userKey(), next.Snapshot); err != nil {
		return state.State{}, fmt.Errorf("saving snapshot: %w", err)
	}
	logger.Get().Debug("snapshot saved", zap.String("user", userKey()), zap.Time("at", next.Snapshot.LastUpdated))
	return next, nil
}

func money(d decimal.Decimal) string {
	return cli.FormatMoney(d, cfg.General.Currency)
}

func today() model.Date {
	return model.DateOf(time.Now())
}

func parseAmount(flag, s string) (decimal.Decimal, error) {
	d, err := state.ParseAmount(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %w", flag, err)
	}
	return d, nil
}

var errAmbiguousID = errors.New("ambiguous id prefix")

// resolveID finds the single id starting with prefix.
func resolveID(kind, prefix string, ids []string) (string, error) {
	var matches []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no %s with id %q: %w", kind, prefix, state.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w %q matches %d %ss", errAmbiguousID, prefix, len(matches), kind)
	}
}

func expenseIDs(s model.Snapshot) []string {
	ids := make([]string, len(s.Expenses))
	for i, e := range s.Expenses {
		ids[i] = e.ID
	}
	return ids
}

func goalIDs(s model.Snapshot) []string {
	ids := make([]string, len(s.Goals))
	for i, g := range s.Goals {
		ids[i] = g.ID
	}
	return ids
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func emptyNote(msg string) {
	fmt.Println()
	fmt.Printf("  %s\n", msg)
}

// sortExpensesNewestFirst orders by date descending, keeping the recorded
// order for ties.
func sortExpensesNewestFirst(expenses []model.Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.After(expenses[j].Date)
	})
}
