package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/voltprep/revision-service/internal/kv"
)

// CreateStore creates the progress key-value backend based on configuration.
// The memory backend keeps the service fully playable with no infrastructure
// at all; progress just does not survive a restart.
func (c *Config) CreateStore(ctx context.Context, logger *slog.Logger) (kv.Store, error) {
	switch c.StorageBackend {
	case "redis":
		logger.Info("Using Redis progress store", "url", c.RedisURL)
		return kv.NewRedisStore(ctx, c.RedisURL)
	case "postgres":
		logger.Info("Using Postgres progress store")
		return kv.NewPostgresStore(c.DatabaseURL, c.Environment != "production")
	case "sqlite":
		logger.Info("Using SQLite progress store", "path", c.SQLitePath)
		return kv.NewSQLiteStore(ctx, c.SQLitePath)
	case "memory":
		logger.Info("Using in-memory progress store; progress will not persist")
		return kv.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}
