package resolution

import (
	"context"

	"github.com/vietddude/availability/internal/core/domain"
)

// Outcome is the result of a single resolution attempt.
type Outcome int

const (
	// OutcomeStillFailing means the strategy ran but the failure remains.
	OutcomeStillFailing Outcome = iota
	// OutcomeResolved means the failure no longer applies.
	OutcomeResolved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeResolved:
		return "resolved"
	case OutcomeStillFailing:
		return "still_failing"
	default:
		return "unknown"
	}
}

// Strategy attempts to remedy one class of failure.
//
// Implementations are compared by identity inside a Registry, so they must be
// comparable values (pointers in practice).
type Strategy interface {
	// Name identifies the strategy in logs and metrics.
	Name() string

	// CanHandle reports whether the strategy applies to the failure.
	// It must be a pure predicate and must not block.
	CanHandle(f domain.Failure) bool

	// Resolve tries to remedy the failure. It may block on user interaction
	// and must return once ctx is done. A non-nil error is a fault and
	// aborts the whole pass; a declined resolution is OutcomeStillFailing.
	Resolve(ctx context.Context, f domain.Failure) (Outcome, error)
}

// Names returns the strategy names in order.
func Names(strategies []Strategy) []string {
	names := make([]string, 0, len(strategies))
	for _, s := range strategies {
		names = append(names, s.Name())
	}
	return names
}
