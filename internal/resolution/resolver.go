package resolution

import (
	"context"
	"log/slog"

	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/metrics"
)

// Resolver drives a batch of failures through an ordered list of strategies.
type Resolver struct {
	log *slog.Logger
}

// NewResolver creates a new resolver.
func NewResolver() *Resolver {
	return &Resolver{
		log: slog.Default().With("component", "resolver"),
	}
}

// ResolveAll returns the failures no strategy could resolve, in input order.
//
// Failures are processed one after another. For each failure the matching
// strategies are tried in order until one reports OutcomeResolved. A strategy
// error aborts the pass with a *FaultError and no remainder. If ctx is done
// the pass stops with the context error; resolutions already applied stay.
func (r *Resolver) ResolveAll(
	ctx context.Context,
	failures []domain.Failure,
	strategies []Strategy,
) ([]domain.Failure, error) {
	remaining := make([]domain.Failure, 0, len(failures))
	if len(failures) == 0 {
		return remaining, nil
	}

	seen := make(map[string]struct{}, len(failures))
	for _, f := range failures {
		if f.ID != "" {
			if _, dup := seen[f.ID]; dup {
				continue
			}
			seen[f.ID] = struct{}{}
		}

		if ctx.Err() != nil {
			return nil, cancelErr(ctx)
		}

		resolved, err := r.resolveOne(ctx, f, strategies)
		if err != nil {
			return nil, err
		}
		if resolved {
			metrics.FailuresResolved.WithLabelValues(string(f.Kind)).Inc()
			continue
		}

		metrics.FailuresUnresolved.WithLabelValues(string(f.Kind)).Inc()
		remaining = append(remaining, f)
	}

	return remaining, nil
}

func (r *Resolver) resolveOne(
	ctx context.Context,
	f domain.Failure,
	strategies []Strategy,
) (bool, error) {
	for _, s := range strategies {
		if !s.CanHandle(f) {
			continue
		}
		if ctx.Err() != nil {
			return false, cancelErr(ctx)
		}

		r.log.Debug("Attempting resolution", "strategy", s.Name(), "kind", f.Kind, "failure", f.ID)
		outcome, err := s.Resolve(ctx, f)
		if err != nil {
			if ctx.Err() != nil {
				metrics.StrategyAttempts.WithLabelValues(s.Name(), "cancelled").Inc()
				return false, cancelErr(ctx)
			}
			metrics.StrategyAttempts.WithLabelValues(s.Name(), "fault").Inc()
			r.log.Warn("Strategy faulted", "strategy", s.Name(), "kind", f.Kind, "error", err)
			return false, &FaultError{Strategy: s.Name(), Failure: f, Err: err}
		}

		metrics.StrategyAttempts.WithLabelValues(s.Name(), outcome.String()).Inc()
		if outcome == OutcomeResolved {
			r.log.Debug("Failure resolved", "strategy", s.Name(), "kind", f.Kind)
			return true, nil
		}
	}
	return false, nil
}

func cancelErr(ctx context.Context) error {
	if cause := context.Cause(ctx); cause != nil {
		return cause
	}
	return ctx.Err()
}
