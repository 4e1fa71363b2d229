package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/vietddude/availability/internal/storage"
)

// Pruner deletes pass history older than the retention period.
type Pruner struct {
	retention time.Duration
	repo      storage.PassPruner
	log       *slog.Logger
}

// NewPruner creates a new Pruner worker.
func NewPruner(retention time.Duration, repo storage.PassPruner) *Pruner {
	return &Pruner{
		retention: retention,
		repo:      repo,
		log:       slog.Default().With("component", "pruner"),
	}
}

// Interval is how often the pruner runs: 10% of the retention period,
// between one minute and one hour.
func (p *Pruner) Interval() time.Duration {
	interval := min(p.retention/10, 1*time.Hour)
	return max(interval, 1*time.Minute)
}

// Start runs the pruner loop until ctx is done.
func (p *Pruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		return // Retention disabled
	}

	ticker := time.NewTicker(p.Interval())
	defer ticker.Stop()

	// Initial prune
	p.Prune(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Prune(ctx)
		}
	}
}

// Prune runs one retention pass.
func (p *Pruner) Prune(ctx context.Context) {
	cutoff := time.Now().Add(-p.retention)

	deleted, err := p.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		p.log.Error("Failed to prune pass history", "error", err)
		return
	}
	if deleted > 0 {
		p.log.Info("Pruned pass history", "deleted", deleted, "cutoff", cutoff)
	}
}
