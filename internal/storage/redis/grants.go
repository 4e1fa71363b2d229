package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ServiceSubject is the subject holding permissions granted to the service itself.
const ServiceSubject = "availd"

// GrantStore implements permission.GrantStore with a Redis set per subject.
type GrantStore struct {
	rdb     *redis.Client
	subject string
}

// NewGrantStore creates a grant store for one subject (device or user).
func NewGrantStore(client *Client, subject string) *GrantStore {
	return &GrantStore{rdb: client.rdb, subject: subject}
}

func (s *GrantStore) key() string {
	return fmt.Sprintf("grants:%s", s.subject)
}

func (s *GrantStore) Granted(ctx context.Context, permission string) (bool, error) {
	ok, err := s.rdb.SIsMember(ctx, s.key(), permission).Result()
	if err != nil {
		return false, fmt.Errorf("sismember failed: %w", err)
	}
	return ok, nil
}

func (s *GrantStore) Grant(ctx context.Context, permissions ...string) error {
	if len(permissions) == 0 {
		return nil
	}
	members := make([]any, len(permissions))
	for i, p := range permissions {
		members[i] = p
	}
	if err := s.rdb.SAdd(ctx, s.key(), members...).Err(); err != nil {
		return fmt.Errorf("sadd failed: %w", err)
	}
	return nil
}

func (s *GrantStore) Revoke(ctx context.Context, permissions ...string) error {
	if len(permissions) == 0 {
		return nil
	}
	members := make([]any, len(permissions))
	for i, p := range permissions {
		members[i] = p
	}
	if err := s.rdb.SRem(ctx, s.key(), members...).Err(); err != nil {
		return fmt.Errorf("srem failed: %w", err)
	}
	return nil
}
