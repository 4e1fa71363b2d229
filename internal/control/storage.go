package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/availability/internal/core/config"
	"github.com/vietddude/availability/internal/permission"
	"github.com/vietddude/availability/internal/storage"
	"github.com/vietddude/availability/internal/storage/memory"
	"github.com/vietddude/availability/internal/storage/postgres"
	redisclient "github.com/vietddude/availability/internal/storage/redis"
)

// backends holds the storage chosen from configuration.
type backends struct {
	passes storage.PassRepository
	grants permission.GrantStore
	db     *postgres.DB
	redis  *redisclient.Client
}

// openBackends picks PostgreSQL for pass history when a database URL is set,
// Redis when only a Redis URL is set, and memory otherwise. Grants live in
// Redis whenever it is reachable.
func openBackends(ctx context.Context, cfg *config.AppConfig) (*backends, error) {
	b := &backends{}

	if cfg.Redis.URL != "" {
		client, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("Failed to connect to Redis, using memory stores", "error", err)
		} else {
			b.redis = client
		}
	}

	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			b.close()
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			b.close()
			return nil, err
		}
		b.db = db
		b.passes = postgres.NewPassRepo(db)
		slog.Info("Using PostgreSQL pass history")
	} else if b.redis != nil {
		b.passes = redisclient.NewPassRepo(b.redis, cfg.Session.HistoryLimit, cfg.Session.HistoryTTL)
		slog.Info("Using Redis pass history")
	} else {
		b.passes = memory.NewPassRepo(cfg.Session.HistoryLimit)
		slog.Info("Using Memory pass history")
	}

	if b.redis != nil {
		b.grants = redisclient.NewGrantStore(b.redis, redisclient.ServiceSubject)
	} else {
		b.grants = permission.NewMemoryGrantStore()
	}
	if len(cfg.Permissions.Granted) > 0 {
		if err := b.grants.Grant(ctx, cfg.Permissions.Granted...); err != nil {
			b.close()
			return nil, fmt.Errorf("failed to pre-grant permissions: %w", err)
		}
	}

	return b, nil
}

func (b *backends) close() {
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			slog.Warn("Failed to close Redis", "error", err)
		}
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}
}
