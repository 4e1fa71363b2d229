package session

import (
	"context"
	"errors"
	"testing"

	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/resolution"
	"github.com/vietddude/availability/internal/storage/memory"
)

func newTestManager(p *stubProbe) *Manager {
	return NewManager(
		p,
		resolution.NewResolver(),
		func() map[domain.FailureKind]resolution.Strategy {
			return map[domain.FailureKind]resolution.Strategy{
				domain.FailureKindPermissionDenied: &stubStrategy{
					name:    "perm",
					kind:    domain.FailureKindPermissionDenied,
					outcome: resolution.OutcomeResolved,
				},
			}
		},
		memory.NewPassRepo(0),
	)
}

func TestManager_CreateGetClose(t *testing.T) {
	m := newTestManager(&stubProbe{})

	s, err := m.Create([]domain.FailureKind{domain.FailureKindPermissionDenied})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := m.Get(s.ID())
	if err != nil || got != s {
		t.Fatalf("Get failed: %v", err)
	}
	if len(m.List()) != 1 {
		t.Errorf("expected 1 session, got %d", len(m.List()))
	}

	if err := m.Close(s.ID()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := m.Get(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if err := m.Close(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on second close, got %v", err)
	}
}

func TestManager_CreateUnknownStrategy(t *testing.T) {
	m := newTestManager(&stubProbe{})
	if _, err := m.Create([]domain.FailureKind{domain.FailureKindAPIUnresolvable}); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestManager_SessionsHaveOwnRegistry(t *testing.T) {
	p := &stubProbe{err: composite(domain.FailureKindPermissionDenied)}
	m := newTestManager(p)

	withPerm, _ := m.Create([]domain.FailureKind{domain.FailureKindPermissionDenied})
	without, _ := m.Create(nil)

	r1, err := withPerm.ResolveAvailability(context.Background())
	if err != nil || r1.State != domain.SessionStateAvailable {
		t.Errorf("expected available, got %s (%v)", r1.State, err)
	}
	r2, err := without.ResolveAvailability(context.Background())
	if err != nil || r2.State != domain.SessionStateUnavailable {
		t.Errorf("expected unavailable, got %s (%v)", r2.State, err)
	}
}

func TestManager_StateCallback(t *testing.T) {
	m := newTestManager(&stubProbe{})
	var last Transition
	m.SetStateChangeCallback(func(id string, tr Transition) { last = tr })

	s, _ := m.Create(nil)
	_, _ = s.CheckAvailability(context.Background())

	if last.To != domain.SessionStateAvailable {
		t.Errorf("expected last transition to available, got %s", last.To)
	}
	m.CloseAll()
	if last.To != domain.SessionStateClosed {
		t.Errorf("expected closed after CloseAll, got %s", last.To)
	}
}
