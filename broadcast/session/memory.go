package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in process memory; they vanish on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*Session)}
}

// Get returns a copy of the owner's session.
func (m *MemoryStore) Get(_ context.Context, ownerID int64) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[ownerID]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

// Put stores a copy of s.
func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.OwnerID] = s.Clone()
	return nil
}

// Delete removes the owner's session if present.
func (m *MemoryStore) Delete(_ context.Context, ownerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, ownerID)
	return nil
}

// Count returns the number of stored sessions.
func (m *MemoryStore) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), nil
}
