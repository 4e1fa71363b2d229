// Package probe reports whether the resources a session depends on are available.
package probe

import (
	"context"
	"fmt"

	"github.com/vietddude/availability/internal/core/domain"
)

// Probe reports availability. A nil error means available, a
// *domain.CompositeFailure lists what is missing, and any other error means
// the probe itself failed.
type Probe interface {
	Probe(ctx context.Context) error
}

// Check inspects one precondition. It returns a non-nil failure when the
// precondition does not hold.
type Check interface {
	Check(ctx context.Context) (*domain.Failure, error)
}

// CheckFunc adapts a function to Check.
type CheckFunc func(ctx context.Context) (*domain.Failure, error)

func (f CheckFunc) Check(ctx context.Context) (*domain.Failure, error) {
	return f(ctx)
}

// CheckProbe runs every check in order and aggregates the failures.
type CheckProbe struct {
	checks []Check
}

// NewCheckProbe creates a probe from an ordered list of checks.
func NewCheckProbe(checks ...Check) *CheckProbe {
	return &CheckProbe{checks: checks}
}

func (p *CheckProbe) Probe(ctx context.Context) error {
	var failures []domain.Failure
	for i, c := range p.checks {
		f, err := c.Check(ctx)
		if err != nil {
			return fmt.Errorf("check %d failed: %w", i, err)
		}
		if f != nil {
			failures = append(failures, *f)
		}
	}
	return domain.NewCompositeFailure(failures)
}
