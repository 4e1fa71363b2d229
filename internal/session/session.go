package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/metrics"
	"github.com/vietddude/availability/internal/probe"
	"github.com/vietddude/availability/internal/resolution"
	"github.com/vietddude/availability/internal/storage"
)

var (
	// ErrUnknownStrategy is returned when enabling a kind with no strategy.
	ErrUnknownStrategy = errors.New("no strategy for failure kind")

	// ErrPassInProgress is returned when a pass is already running.
	ErrPassInProgress = errors.New("availability pass already in progress")

	// ErrSessionClosed is returned for operations on a closed session.
	ErrSessionClosed = errors.New("session closed")
)

// Report is the outcome of a check or resolution pass.
type Report struct {
	SessionID string           `json:"session_id"`
	PassID    string           `json:"pass_id"`
	State     State            `json:"state"`
	Remaining []domain.Failure `json:"remaining"`
	Error     string           `json:"error,omitempty"`
}

// Session owns the strategy registry of one screen or client and runs
// availability passes against it.
//
// The state-change callback runs with the session lock held and must not call
// back into the session.
type Session struct {
	id       string
	probe    probe.Probe
	resolver *resolution.Resolver
	registry *resolution.Registry
	catalog  map[domain.FailureKind]resolution.Strategy
	passes   storage.PassRepository
	onChange func(sessionID string, t Transition)
	log      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.RWMutex
	state      State
	lastReport Report
	history    []Transition
	createdAt  time.Time
}

// Config holds the collaborators of a session.
type Config struct {
	ID         string
	Probe      probe.Probe
	Resolver   *resolution.Resolver
	Catalog    map[domain.FailureKind]resolution.Strategy
	Passes     storage.PassRepository
	OnChange   func(sessionID string, t Transition)
	Strategies []domain.FailureKind
}

// New creates a session in the idle state with cfg.Strategies enabled.
func New(cfg Config) (*Session, error) {
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	if cfg.Resolver == nil {
		cfg.Resolver = resolution.NewResolver()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:        cfg.ID,
		probe:     cfg.Probe,
		resolver:  cfg.Resolver,
		registry:  resolution.NewRegistry(),
		catalog:   cfg.Catalog,
		passes:    cfg.Passes,
		onChange:  cfg.OnChange,
		log:       slog.Default().With("component", "session", "session", cfg.ID),
		ctx:       ctx,
		cancel:    cancel,
		state:     domain.SessionStateIdle,
		createdAt: time.Now(),
	}
	s.lastReport = Report{SessionID: s.id, State: s.state, Remaining: []domain.Failure{}}

	for _, kind := range cfg.Strategies {
		if _, err := s.Enable(kind); err != nil {
			cancel()
			return nil, err
		}
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was opened.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// State returns the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LastReport returns the report of the most recent finished pass.
func (s *Session) LastReport() Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport
}

// History returns the recorded state transitions, oldest first.
func (s *Session) History() []Transition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Transition, len(s.history))
	copy(out, s.history)
	return out
}

// Enable activates the strategy for kind. It reports whether the registry changed.
func (s *Session) Enable(kind domain.FailureKind) (bool, error) {
	strategy, ok := s.catalog[kind]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownStrategy, kind)
	}
	if s.ctx.Err() != nil {
		return false, ErrSessionClosed
	}
	changed := s.registry.Add(strategy)
	if changed {
		s.log.Debug("Strategy enabled", "strategy", strategy.Name())
	}
	return changed, nil
}

// Disable deactivates the strategy for kind. It reports whether the registry changed.
func (s *Session) Disable(kind domain.FailureKind) (bool, error) {
	strategy, ok := s.catalog[kind]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownStrategy, kind)
	}
	changed := s.registry.Remove(strategy)
	if changed {
		s.log.Debug("Strategy disabled", "strategy", strategy.Name())
	}
	return changed, nil
}

// ActiveStrategies returns the names of enabled strategies in attempt order.
func (s *Session) ActiveStrategies() []string {
	return resolution.Names(s.registry.Snapshot())
}

// CheckAvailability runs the probe without resolving anything.
func (s *Session) CheckAvailability(ctx context.Context) (Report, error) {
	return s.run(ctx, domain.PassModeCheck)
}

// ResolveAvailability runs the probe and, on a composite failure, drives the
// failures through the enabled strategies. An unresolved remainder is data in
// the report; faults and cancellation are returned as errors.
func (s *Session) ResolveAvailability(ctx context.Context) (Report, error) {
	return s.run(ctx, domain.PassModeResolve)
}

// Close cancels any pass in flight and moves the session to closed.
func (s *Session) Close() {
	s.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.SessionStateClosed {
		s.setStateLocked(domain.SessionStateClosed, "session closed")
	}
}

func (s *Session) run(ctx context.Context, mode domain.PassMode) (Report, error) {
	busyState := domain.SessionStateChecking
	if mode == domain.PassModeResolve {
		busyState = domain.SessionStateResolving
	}

	s.mu.Lock()
	if s.ctx.Err() != nil || s.state == domain.SessionStateClosed {
		s.mu.Unlock()
		return Report{}, ErrSessionClosed
	}
	if busy(s.state) {
		s.mu.Unlock()
		return Report{}, ErrPassInProgress
	}
	s.setStateLocked(busyState, string(mode)+" started")
	s.mu.Unlock()

	passCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	rec := &domain.PassRecord{
		ID:        uuid.New().String(),
		SessionID: s.id,
		Mode:      mode,
		StartedAt: time.Now(),
	}

	remaining, strategies, err := s.execute(passCtx, rec, mode)
	rec.Duration = time.Since(rec.StartedAt)
	rec.Strategies = strategies

	report := Report{SessionID: s.id, PassID: rec.ID, Remaining: []domain.Failure{}}
	var next State
	switch {
	case err != nil && resolution.IsCancelled(err):
		rec.Result = domain.PassResultCancelled
		next = domain.SessionStateIdle
	case err != nil:
		rec.Result = domain.PassResultFault
		next = domain.SessionStateFailed
	case len(remaining) == 0:
		rec.Result = domain.PassResultAvailable
		next = domain.SessionStateAvailable
	default:
		rec.Result = domain.PassResultUnavailable
		rec.Remaining = domain.Kinds(remaining)
		report.Remaining = remaining
		next = domain.SessionStateUnavailable
	}
	if err != nil {
		rec.Error = err.Error()
		report.Error = err.Error()
	}

	s.mu.Lock()
	if s.state == domain.SessionStateClosed {
		next = domain.SessionStateClosed
	} else {
		s.setStateLocked(next, string(mode)+" "+string(rec.Result))
	}
	report.State = next
	if rec.Result != domain.PassResultCancelled {
		s.lastReport = report
	}
	s.mu.Unlock()

	metrics.PassesTotal.WithLabelValues(string(mode), string(rec.Result)).Inc()
	metrics.PassDuration.WithLabelValues(string(mode)).Observe(rec.Duration.Seconds())
	s.record(rec)

	s.log.Info("Availability pass finished",
		"mode", mode,
		"result", rec.Result,
		"remaining", rec.Remaining,
		"duration", rec.Duration,
	)

	if err != nil && resolution.IsCancelled(err) && s.ctx.Err() != nil {
		return report, ErrSessionClosed
	}
	return report, err
}

// execute returns the unresolved failures and the strategies that took part.
func (s *Session) execute(
	ctx context.Context,
	rec *domain.PassRecord,
	mode domain.PassMode,
) ([]domain.Failure, []string, error) {
	err := s.probe.Probe(ctx)
	if err == nil {
		return nil, nil, nil
	}

	var composite *domain.CompositeFailure
	if !errors.As(err, &composite) {
		return nil, nil, fmt.Errorf("availability probe failed: %w", err)
	}

	rec.Detected = domain.Kinds(composite.Failures)
	for _, f := range composite.Failures {
		metrics.FailuresDetected.WithLabelValues(string(f.Kind)).Inc()
	}

	if mode == domain.PassModeCheck {
		return composite.Failures, nil, nil
	}

	snapshot := s.registry.Snapshot()
	remaining, err := s.resolver.ResolveAll(ctx, composite.Failures, snapshot)
	return remaining, resolution.Names(snapshot), err
}

func (s *Session) record(rec *domain.PassRecord) {
	if s.passes == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.passes.Save(ctx, rec); err != nil {
		s.log.Warn("Failed to record pass", "pass", rec.ID, "error", err)
	}
}

// setStateLocked must be called with s.mu held.
func (s *Session) setStateLocked(to State, reason string) {
	t := NewTransition(s.state, to, reason)
	if !t.IsValid() {
		s.log.Warn("Ignoring invalid transition", "from", t.From, "to", t.To)
		return
	}
	s.state = to

	if len(s.history) >= 20 {
		copy(s.history, s.history[1:])
		s.history[len(s.history)-1] = t
	} else {
		s.history = append(s.history, t)
	}

	if s.onChange != nil {
		s.onChange(s.id, t)
	}
}
