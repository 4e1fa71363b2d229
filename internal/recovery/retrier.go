package recovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/availability/internal/session"
)

// Target is what the retrier drives, normally a *session.Session.
type Target interface {
	ID() string
	ResolveAvailability(ctx context.Context) (session.Report, error)
}

// Retrier re-runs resolution passes with backoff until the target is available.
type Retrier struct {
	strategy RetryStrategy
	log      *slog.Logger
}

// NewRetrier creates a retrier. A nil strategy uses DefaultBackoff(nil).
func NewRetrier(strategy RetryStrategy) *Retrier {
	if strategy == nil {
		strategy = DefaultBackoff(nil)
	}
	return &Retrier{
		strategy: strategy,
		log:      slog.Default().With("component", "retrier"),
	}
}

// Run resolves target until it becomes available, the error is permanent,
// attempts run out or ctx is done. It returns the last report.
func (r *Retrier) Run(ctx context.Context, target Target) (session.Report, error) {
	for attempt := 0; ; attempt++ {
		report, err := target.ResolveAvailability(ctx)
		if err == nil && len(report.Remaining) == 0 {
			if attempt > 0 {
				r.log.Info("Target available after retry",
					"session", target.ID(),
					"attempts", attempt+1,
				)
			}
			return report, nil
		}
		if err == nil {
			err = fmt.Errorf("%w: %d failures remain", ErrStillUnavailable, len(report.Remaining))
		}

		if !r.strategy.ShouldRetry(err, attempt+1) {
			if errors.Is(err, ErrStillUnavailable) {
				return report, fmt.Errorf("gave up after %d attempts: %w", attempt+1, err)
			}
			return report, err
		}

		delay := r.strategy.GetDelay(attempt)
		r.log.Debug("Retrying resolution",
			"session", target.ID(),
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return report, ctx.Err()
		case <-timer.C:
		}
	}
}
