package snapshot

import (
	"context"
	"sync"
)

// MemoryStore keeps snapshots in a map. Saved and returned snapshots are
// copies, so callers may keep mutating their own.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*Snapshot
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*Snapshot)}
}

func (m *MemoryStore) Save(_ context.Context, s *Snapshot) error {
	if s == nil {
		return nil
	}
	m.mu.Lock()
	m.items[s.Category] = s.clone()
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, category string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.items[category]
	if !ok {
		return nil, nil
	}
	return s.clone(), nil
}

func (m *MemoryStore) Delete(_ context.Context, category string) error {
	m.mu.Lock()
	delete(m.items, category)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	clear(m.items)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Len returns the number of stored snapshots.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

var _ Store = (*MemoryStore)(nil)
