package probe

import (
	"context"
	"fmt"
	"sync"

	"github.com/vietddude/availability/internal/flow"
)

// Well-known settings.
const (
	SettingLocationEnabled   = "location_enabled"
	SettingServicesAvailable = "services_available"
	SettingServicesUpdatable = "services_updatable"
)

// Settings is a concurrency-safe set of device switches.
type Settings struct {
	mu     sync.RWMutex
	values map[string]bool
}

// NewSettings creates a settings store with initial values.
func NewSettings(initial map[string]bool) *Settings {
	s := &Settings{values: make(map[string]bool, len(initial))}
	for k, v := range initial {
		s.values[k] = v
	}
	return s
}

// Enabled reports the value of a setting; unknown settings are off.
func (s *Settings) Enabled(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// Set changes a setting.
func (s *Settings) Set(key string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = enabled
}

// All returns a copy of every setting.
func (s *Settings) All() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Apply turns on the setting a completed flow was about.
func (s *Settings) Apply(ctx context.Context, action flow.Action) error {
	if action.Setting == "" {
		return fmt.Errorf("action %s has no setting", action.Kind)
	}
	s.Set(action.Setting, true)
	return nil
}
