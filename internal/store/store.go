// Package store persists one snapshot per user.
//
// All backends store the snapshot as a single JSON document keyed by the
// opaque user id. A Put replaces the whole document: the last write wins.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/model"
)

// SnapshotStore reads and writes user snapshots.
type SnapshotStore interface {
	// Get returns nil and no error when key has no snapshot yet.
	Get(ctx context.Context, key string) (*model.Snapshot, error)
	Put(ctx context.Context, key string, snap model.Snapshot) error
	Close() error
}

// Open connects to the backend selected in cfg.
func Open(ctx context.Context, cfg config.Config) (SnapshotStore, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite, "":
		return OpenSQLite(config.DataPath(cfg))
	case config.BackendMongo:
		uri := config.GetMongoURI(cfg)
		if uri == "" {
			return nil, fmt.Errorf("mongo backend needs %s or store.mongo_uri", config.EnvMongoURI)
		}
		return OpenMongo(ctx, uri, cfg.Store.MongoDatabase, cfg.Store.MongoCollection)
	case config.BackendPostgres:
		dsn := config.GetPostgresDSN(cfg)
		if dsn == "" {
			return nil, fmt.Errorf("postgres backend needs %s or store.postgres_dsn", config.EnvPostgresDSN)
		}
		return OpenPostgres(ctx, dsn)
	case config.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// LoadOrEmpty returns the stored snapshot, or an empty one for a new user.
func LoadOrEmpty(ctx context.Context, s SnapshotStore, key string) (model.Snapshot, error) {
	snap, err := s.Get(ctx, key)
	if err != nil {
		return model.Snapshot{}, err
	}
	if snap == nil {
		return model.EmptySnapshot(), nil
	}
	return *snap, nil
}

func encodeSnapshot(snap model.Snapshot) ([]byte, error) {
	if snap.Expenses == nil {
		snap.Expenses = []model.Expense{}
	}
	if snap.Goals == nil {
		snap.Goals = []model.SavingsGoal{}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (*model.Snapshot, error) {
	snap := model.EmptySnapshot()
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Expenses == nil {
		snap.Expenses = []model.Expense{}
	}
	if snap.Goals == nil {
		snap.Goals = []model.SavingsGoal{}
	}
	return &snap, nil
}
