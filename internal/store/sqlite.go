package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/fintrack/internal/auth"
	"github.com/theirongolddev/fintrack/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLiteStore keeps snapshots and local accounts in one SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at the given path.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the snapshot for key, or nil if none was saved.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*model.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM snapshots WHERE user_id = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return decodeSnapshot([]byte(data))
}

// Put replaces the snapshot for key.
func (s *SQLiteStore) Put(ctx context.Context, key string, snap model.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	updated := snap.LastUpdated
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO snapshots (user_id, data, last_updated) VALUES (?, ?, ?)",
		key, string(data), updated.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Keys lists every user id with a stored snapshot, most recently updated first.
func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT user_id FROM snapshots ORDER BY last_updated DESC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// CreateUser stores a local account. It returns auth.ErrEmailInUse when the
// address is already registered.
func (s *SQLiteStore) CreateUser(ctx context.Context, u auth.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM users WHERE email = ?", u.Email).Scan(&exists)
	if err == nil {
		return auth.ErrEmailInUse
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking email: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (user_id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return tx.Commit()
}

// UserByEmail looks up a local account, returning nil when there is none.
func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (*auth.User, error) {
	var u auth.User
	var created string
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, name, email, password_hash, created_at FROM users WHERE email = ?", email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading user: %w", err)
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}
