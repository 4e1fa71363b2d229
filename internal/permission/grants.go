package permission

import (
	"context"
	"sync"
)

// MemoryGrantStore keeps grants in process memory.
type MemoryGrantStore struct {
	mu      sync.RWMutex
	granted map[string]bool
}

// NewMemoryGrantStore creates a store with the given permissions granted.
func NewMemoryGrantStore(granted ...string) *MemoryGrantStore {
	s := &MemoryGrantStore{granted: make(map[string]bool)}
	for _, p := range granted {
		s.granted[p] = true
	}
	return s
}

func (s *MemoryGrantStore) Granted(ctx context.Context, permission string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.granted[permission], nil
}

func (s *MemoryGrantStore) Grant(ctx context.Context, permissions ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range permissions {
		s.granted[p] = true
	}
	return nil
}

func (s *MemoryGrantStore) Revoke(ctx context.Context, permissions ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range permissions {
		delete(s.granted, p)
	}
	return nil
}
