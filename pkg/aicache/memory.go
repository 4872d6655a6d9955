package aicache

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store backed by a map. It is mainly useful
// for tests and single-process deployments without Redis or a database.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Entry),
	}
}

// Get returns a copy of the entry while it is unexpired. Expired entries are
// left in place (lazy expiry) but reported as ErrCacheMiss.
func (s *MemoryStore) Get(_ context.Context, cacheKey string) (*Entry, error) {
	s.mu.RLock()
	entry, ok := s.entries[cacheKey]
	s.mu.RUnlock()

	if !ok || entry.IsExpired() {
		return nil, ErrCacheMiss
	}

	out := *entry
	return &out, nil
}

// Put upserts the entry, replacing any prior payload and expiry. The stored
// hit count is taken from the entry as given (the orchestrator writes 0).
func (s *MemoryStore) Put(_ context.Context, entry *Entry) error {
	stored := *entry

	s.mu.Lock()
	s.entries[entry.CacheKey] = &stored
	s.mu.Unlock()

	return nil
}

// Touch increments the hit counter. Missing keys are ignored.
func (s *MemoryStore) Touch(_ context.Context, cacheKey string) error {
	s.mu.Lock()
	if entry, ok := s.entries[cacheKey]; ok {
		entry.HitCount++
	}
	s.mu.Unlock()

	return nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
