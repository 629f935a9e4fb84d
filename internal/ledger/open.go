package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config selects and configures a ledger backend.
type Config struct {
	Backend     string
	Path        string
	RedisURL    string
	RedisKey    string
	DatabaseURL string
}

// Open builds the configured backend and wraps it in a Ledger.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Ledger, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendFile
	}

	var (
		store Store
		err   error
	)
	switch backend {
	case BackendFile:
		store, err = OpenFile(cfg.Path)
	case BackendMemory:
		store = NewMemoryStore()
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("ledger backend %q requires REDIS_URL", backend)
		}
		store, err = OpenRedis(ctx, cfg.RedisURL, cfg.RedisKey)
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("ledger backend %q requires DATABASE_URL", backend)
		}
		store, err = OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s ledger: %w", backend, err)
	}
	return New(store, backend, logger), nil
}
