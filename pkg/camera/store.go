package camera

import "sync"

// Store holds the current camera. SetCurrent also records whether an
// animation is in flight so readers can suppress competing input.
type Store interface {
	Current() State
	SetCurrent(s State, animating bool)
}

// MemoryStore is a Store backed by a mutex-guarded value.
type MemoryStore struct {
	mu        sync.Mutex
	state     State
	animating bool
}

// NewMemoryStore returns a store holding s.
func NewMemoryStore(s State) *MemoryStore {
	return &MemoryStore{state: s}
}

func (m *MemoryStore) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *MemoryStore) SetCurrent(s State, animating bool) {
	m.mu.Lock()
	m.state, m.animating = s, animating
	m.mu.Unlock()
}

// Animating reports the flag from the last SetCurrent.
func (m *MemoryStore) Animating() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.animating
}
