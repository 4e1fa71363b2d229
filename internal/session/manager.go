package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/metrics"
	"github.com/vietddude/availability/internal/probe"
	"github.com/vietddude/availability/internal/resolution"
	"github.com/vietddude/availability/internal/storage"
)

// ErrSessionNotFound is returned when a session id is unknown.
var ErrSessionNotFound = errors.New("session not found")

// CatalogFunc builds the strategies a new session can toggle.
type CatalogFunc func() map[domain.FailureKind]resolution.Strategy

// Manager creates and tracks sessions sharing one probe and resolver.
type Manager struct {
	probe    probe.Probe
	resolver *resolution.Resolver
	catalog  CatalogFunc
	passes   storage.PassRepository
	mu       sync.RWMutex
	sessions map[string]*Session
	onChange func(sessionID string, t Transition)
	log      *slog.Logger
}

// NewManager creates a new session manager.
func NewManager(
	p probe.Probe,
	resolver *resolution.Resolver,
	catalog CatalogFunc,
	passes storage.PassRepository,
) *Manager {
	return &Manager{
		probe:    p,
		resolver: resolver,
		catalog:  catalog,
		passes:   passes,
		sessions: make(map[string]*Session),
		log:      slog.Default().With("component", "sessions"),
	}
}

// SetStateChangeCallback registers callback for state changes of every session
// created afterwards.
func (m *Manager) SetStateChangeCallback(fn func(sessionID string, t Transition)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Create opens a session with the given strategies enabled.
func (m *Manager) Create(strategies []domain.FailureKind) (*Session, error) {
	m.mu.RLock()
	onChange := m.onChange
	m.mu.RUnlock()

	s, err := New(Config{
		Probe:      m.probe,
		Resolver:   m.resolver,
		Catalog:    m.catalog(),
		Passes:     m.passes,
		OnChange:   onChange,
		Strategies: strategies,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	metrics.ActiveSessions.Inc()
	m.log.Info("Session opened", "session", s.ID(), "strategies", s.ActiveStrategies())
	return s, nil
}

// Get returns an open session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// List returns open sessions ordered by creation time.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out
}

// Close closes a session and cancels its in-flight pass.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.Close()
	metrics.ActiveSessions.Dec()
	m.log.Info("Session closed", "session", id)
	return nil
}

// CloseAll closes every open session.
func (m *Manager) CloseAll() {
	for _, s := range m.List() {
		_ = m.Close(s.ID())
	}
}
