// Package flow launches corrective user flows and waits for their outcome.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownFlow is returned when completing a flow that is not pending.
var ErrUnknownFlow = errors.New("unknown flow")

// ActionKind names the corrective action a flow performs.
type ActionKind string

const (
	ActionEnableSetting   ActionKind = "enable_setting"
	ActionUpdateServices  ActionKind = "update_services"
	ActionResolveAPIError ActionKind = "resolve_api_error"
)

// Action describes a corrective flow to show the user.
type Action struct {
	Kind        ActionKind `json:"kind"`
	Setting     string     `json:"setting,omitempty"`
	Description string     `json:"description"`
}

// Result is the outcome the user reports for a flow.
type Result string

const (
	ResultCompleted Result = "completed"
	ResultCancelled Result = "cancelled"
)

// ParseResult converts a string into a Result.
func ParseResult(s string) (Result, error) {
	switch Result(s) {
	case ResultCompleted, ResultCancelled:
		return Result(s), nil
	default:
		return "", fmt.Errorf("unknown flow result: %q", s)
	}
}

// Flow is a launched action waiting for its result.
type Flow struct {
	ID         string    `json:"id"`
	Action     Action    `json:"action"`
	LaunchedAt time.Time `json:"launched_at"`
}

// Presenter displays a flow to the user and removes it again.
type Presenter interface {
	PresentFlow(ctx context.Context, f Flow) error
	DismissFlow(id string)
}

type pendingFlow struct {
	flow   Flow
	result chan Result
}

// Launcher starts flows and routes their results back to the waiting caller.
type Launcher struct {
	presenter Presenter
	mu        sync.Mutex
	pending   map[string]*pendingFlow
	log       *slog.Logger
}

// NewLauncher creates a new flow launcher.
func NewLauncher(presenter Presenter) *Launcher {
	return &Launcher{
		presenter: presenter,
		pending:   make(map[string]*pendingFlow),
		log:       slog.Default().With("component", "flow"),
	}
}

// Launch shows the action and blocks until the user completes or cancels it,
// or ctx is done.
func (l *Launcher) Launch(ctx context.Context, action Action) (Result, error) {
	p := &pendingFlow{
		flow: Flow{
			ID:         uuid.New().String(),
			Action:     action,
			LaunchedAt: time.Now(),
		},
		result: make(chan Result, 1),
	}

	l.mu.Lock()
	l.pending[p.flow.ID] = p
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.pending, p.flow.ID)
		l.mu.Unlock()
		l.presenter.DismissFlow(p.flow.ID)
	}()

	if err := l.presenter.PresentFlow(ctx, p.flow); err != nil {
		return "", fmt.Errorf("failed to present flow: %w", err)
	}
	l.log.Debug("Flow launched", "id", p.flow.ID, "action", action.Kind)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-p.result:
		l.log.Info("Flow finished", "id", p.flow.ID, "action", action.Kind, "result", r)
		return r, nil
	}
}

// Complete delivers the result for a pending flow.
func (l *Launcher) Complete(id string, result Result) error {
	l.mu.Lock()
	p, ok := l.pending[id]
	if ok {
		delete(l.pending, id)
	}
	l.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFlow, id)
	}

	p.result <- result
	return nil
}

// Pending returns the flows waiting for a result.
func (l *Launcher) Pending() []Flow {
	l.mu.Lock()
	defer l.mu.Unlock()
	flows := make([]Flow, 0, len(l.pending))
	for _, p := range l.pending {
		flows = append(flows, p.flow)
	}
	return flows
}
