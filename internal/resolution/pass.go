package resolution

import (
	"context"

	"github.com/vietddude/availability/internal/core/domain"
)

// Pass is a handle to a resolution running in the background.
type Pass struct {
	cancel    context.CancelCauseFunc
	done      chan struct{}
	remaining []domain.Failure
	err       error
}

// Start runs ResolveAll in its own goroutine and returns a handle to it.
// The inputs are copied, so later registry changes do not reach the pass.
func (r *Resolver) Start(
	ctx context.Context,
	failures []domain.Failure,
	strategies []Strategy,
) *Pass {
	ctx, cancel := context.WithCancelCause(ctx)
	p := &Pass{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	failures = append([]domain.Failure(nil), failures...)
	strategies = append([]Strategy(nil), strategies...)

	go func() {
		defer close(p.done)
		defer cancel(nil)
		p.remaining, p.err = r.ResolveAll(ctx, failures, strategies)
	}()

	return p
}

// Cancel stops waiting on strategy outcomes. Wait then returns ErrPassCancelled.
func (p *Pass) Cancel() {
	p.cancel(ErrPassCancelled)
}

// Done is closed once the pass has finished.
func (p *Pass) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the pass finishes and returns its remainder or error.
func (p *Pass) Wait() ([]domain.Failure, error) {
	<-p.done
	return p.remaining, p.err
}
