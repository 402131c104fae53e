package store

import (
	"context"
	"sync"

	"github.com/theirongolddev/fintrack/internal/auth"
	"github.com/theirongolddev/fintrack/internal/model"
)

// Memory is a process-local store. It keeps encoded snapshots so callers
// never share slices with it.
type Memory struct {
	mu    sync.RWMutex
	snaps map[string][]byte
	users map[string]auth.User
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		snaps: make(map[string][]byte),
		users: make(map[string]auth.User),
	}
}

func (m *Memory) Get(_ context.Context, key string) (*model.Snapshot, error) {
	m.mu.RLock()
	data, ok := m.snaps[key]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decodeSnapshot(data)
}

func (m *Memory) Put(_ context.Context, key string, snap model.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.snaps[key] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) CreateUser(_ context.Context, u auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return auth.ErrEmailInUse
	}
	m.users[u.Email] = u
	return nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
