package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/storage"
)

// PassRepo implements storage.PassRepository with one capped list per session.
type PassRepo struct {
	rdb        *redis.Client
	maxPerSess int
	ttl        time.Duration
}

// NewPassRepo creates a Redis-backed pass repository.
func NewPassRepo(client *Client, maxPerSession int, ttl time.Duration) *PassRepo {
	if maxPerSession <= 0 {
		maxPerSession = 100
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &PassRepo{
		rdb:        client.rdb,
		maxPerSess: maxPerSession,
		ttl:        ttl,
	}
}

func passesKey(sessionID string) string {
	return fmt.Sprintf("passes:%s", sessionID)
}

// Save pushes the record to the head of the session list.
func (r *PassRepo) Save(ctx context.Context, rec *domain.PassRecord) error {
	if err := storage.Validate(rec); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal pass: %w", err)
	}

	key := passesKey(rec.SessionID)
	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(r.maxPerSess-1))
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save pass: %w", err)
	}
	return nil
}

// GetRecent returns the newest passes of a session.
func (r *PassRepo) GetRecent(ctx context.Context, sessionID string, limit int) ([]*domain.PassRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	items, err := r.rdb.LRange(ctx, passesKey(sessionID), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange failed: %w", err)
	}

	out := make([]*domain.PassRecord, 0, len(items))
	for _, item := range items {
		var rec domain.PassRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			continue
		}
		out = append(out, &rec)
	}
	return out, nil
}

// Count returns the number of passes stored for a session.
func (r *PassRepo) Count(ctx context.Context, sessionID string) (int, error) {
	n, err := r.rdb.LLen(ctx, passesKey(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("llen failed: %w", err)
	}
	return int(n), nil
}
