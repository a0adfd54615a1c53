package entitlement

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     Entitlement
	expiresAt time.Time
}

// MemoryStore is a process-local Store. Stale entries are not swept; they
// are treated as absent on read and replaced by the next Set.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

// SetClock replaces the time source, for tests.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (Entitlement, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[userID]
	if !ok || !s.now().Before(entry.expiresAt) {
		return Entitlement{}, false, nil
	}
	return entry.value, true, nil
}

func (s *MemoryStore) Set(ctx context.Context, userID string, e Entitlement, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = memoryEntry{value: e, expiresAt: s.now().Add(ttl)}
	return nil
}
