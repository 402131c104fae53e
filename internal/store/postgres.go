package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps snapshots in a JSONB column.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects with a pool and creates the table if needed.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases every pooled connection.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Get returns the snapshot for key, or nil if none was saved.
func (s *PostgresStore) Get(ctx context.Context, key string) (*model.Snapshot, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, "SELECT data FROM snapshots WHERE user_id = $1", key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return decodeSnapshot(data)
}

// Put upserts the snapshot for key.
func (s *PostgresStore) Put(ctx context.Context, key string, snap model.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	updated := snap.LastUpdated
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO snapshots (user_id, data, last_updated) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, last_updated = EXCLUDED.last_updated`,
		key, data, updated.UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
