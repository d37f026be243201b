package dedup

import (
	"context"
	"sync"
	"time"
)

// Memory is the single-instance Deduplicator: a mutex-guarded map of
// message id to expiry. Records expire after the configured TTL; a hard
// entry cap keeps memory bounded under sustained traffic. State is empty
// at start and not durable across restarts.
type Memory struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	seen       map[string]time.Time
	now        func() time.Time
}

// NewMemory creates an in-memory deduplicator with the given window and
// entry cap. Non-positive maxEntries disables the cap.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Memory{
		ttl:        ttl,
		maxEntries: maxEntries,
		seen:       make(map[string]time.Time),
		now:        time.Now,
	}
}

func (m *Memory) ShouldProcess(_ context.Context, messageID string) bool {
	if messageID == "" {
		return true
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if exp, ok := m.seen[messageID]; ok && exp.After(now) {
		return false
	}

	m.seen[messageID] = now.Add(m.ttl)
	if m.maxEntries > 0 && len(m.seen) > m.maxEntries {
		m.evict(now)
	}
	return true
}

// evict drops expired records first, then the records closest to expiry
// until the map fits the cap again. Caller holds the lock.
func (m *Memory) evict(now time.Time) {
	for id, exp := range m.seen {
		if !exp.After(now) {
			delete(m.seen, id)
		}
	}
	for len(m.seen) > m.maxEntries {
		var oldestID string
		var oldestExp time.Time
		for id, exp := range m.seen {
			if oldestID == "" || exp.Before(oldestExp) {
				oldestID = id
				oldestExp = exp
			}
		}
		delete(m.seen, oldestID)
	}
}
