package session

import (
	"context"
	"sync"
	"time"
)

// sweepInterval caps how often the memory store scans for stale sessions.
const sweepInterval = 5 * time.Minute

// MemoryStore is the single-instance Store: an RWMutex-guarded map with
// TTL eviction.
type MemoryStore struct {
	mu        sync.RWMutex
	ttl       time.Duration
	sessions  map[string]Session
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStore creates an in-memory session store with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Get returns the sender's session, or a fresh idle session when none
// exists or the stored one went stale.
func (m *MemoryStore) Get(_ context.Context, senderID string) (Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[senderID]
	m.mu.RUnlock()

	if !ok || m.now().Sub(s.UpdatedAt) > m.ttl {
		return Session{Mode: ModeIdle}, nil
	}
	return s.Normalize(), nil
}

// Put stores the sender's session, stamping UpdatedAt.
func (m *MemoryStore) Put(_ context.Context, senderID string, s Session) error {
	now := m.now()
	s.UpdatedAt = now

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[senderID] = s.Normalize()
	if now.Sub(m.lastSweep) >= sweepInterval {
		m.sweep(now)
		m.lastSweep = now
	}
	return nil
}

// sweep drops stale sessions. Caller holds the write lock.
func (m *MemoryStore) sweep(now time.Time) {
	for id, s := range m.sessions {
		if now.Sub(s.UpdatedAt) > m.ttl {
			delete(m.sessions, id)
		}
	}
}

// Len reports the number of live sessions, for tests and diagnostics.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
