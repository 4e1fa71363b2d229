package resolution

import (
	"sync"
	"sync/atomic"
)

// Registry is the ordered set of strategies active for a session.
//
// Writers publish a fresh slice on every change, so a snapshot handed to a
// running pass is never modified afterwards.
type Registry struct {
	mu         sync.Mutex
	strategies atomic.Pointer[[]Strategy]
}

// NewRegistry creates a registry holding the given strategies in order.
func NewRegistry(initial ...Strategy) *Registry {
	r := &Registry{}
	empty := []Strategy{}
	r.strategies.Store(&empty)
	for _, s := range initial {
		r.Add(s)
	}
	return r
}

// Add appends the strategy. It returns false if s is nil or already present.
func (r *Registry) Add(s Strategy) bool {
	if s == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.strategies.Load()
	if indexOf(current, s) >= 0 {
		return false
	}

	next := make([]Strategy, len(current), len(current)+1)
	copy(next, current)
	next = append(next, s)
	r.strategies.Store(&next)
	return true
}

// Remove drops the strategy. It returns false if s was not present.
func (r *Registry) Remove(s Strategy) bool {
	if s == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.strategies.Load()
	idx := indexOf(current, s)
	if idx < 0 {
		return false
	}

	next := make([]Strategy, 0, len(current)-1)
	next = append(next, current[:idx]...)
	next = append(next, current[idx+1:]...)
	r.strategies.Store(&next)
	return true
}

// Contains reports whether s is registered.
func (r *Registry) Contains(s Strategy) bool {
	return indexOf(*r.strategies.Load(), s) >= 0
}

// Len returns the number of registered strategies.
func (r *Registry) Len() int {
	return len(*r.strategies.Load())
}

// Snapshot returns the current membership in attempt order.
// The returned slice must not be modified.
func (r *Registry) Snapshot() []Strategy {
	return *r.strategies.Load()
}

func indexOf(strategies []Strategy, s Strategy) int {
	for i, existing := range strategies {
		if existing == s {
			return i
		}
	}
	return -1
}
