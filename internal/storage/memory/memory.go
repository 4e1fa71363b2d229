package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/storage"
)

// PassRepo keeps pass history in memory, capped per session.
type PassRepo struct {
	mu         sync.RWMutex
	passes     map[string][]*domain.PassRecord
	maxPerSess int
}

// NewPassRepo creates a repository keeping at most maxPerSession records per
// session. A non-positive value keeps everything.
func NewPassRepo(maxPerSession int) *PassRepo {
	return &PassRepo{
		passes:     make(map[string][]*domain.PassRecord),
		maxPerSess: maxPerSession,
	}
}

func (r *PassRepo) Save(ctx context.Context, rec *domain.PassRecord) error {
	if err := storage.Validate(rec); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *rec
	list := append(r.passes[rec.SessionID], &cp)
	if r.maxPerSess > 0 && len(list) > r.maxPerSess {
		list = list[len(list)-r.maxPerSess:]
	}
	r.passes[rec.SessionID] = list
	return nil
}

func (r *PassRepo) GetRecent(ctx context.Context, sessionID string, limit int) ([]*domain.PassRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.passes[sessionID]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}

	out := make([]*domain.PassRecord, 0, limit)
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *list[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *PassRepo) Count(ctx context.Context, sessionID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.passes[sessionID]), nil
}

func (r *PassRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, list := range r.passes {
		kept := list[:0]
		for _, p := range list {
			if p.StartedAt.Before(cutoff) {
				deleted++
				continue
			}
			kept = append(kept, p)
		}
		if len(kept) == 0 {
			delete(r.passes, id)
			continue
		}
		r.passes[id] = kept
	}
	return deleted, nil
}
