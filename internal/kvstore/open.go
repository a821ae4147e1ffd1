package kvstore

import (
	"context"
	"fmt"
	"strings"
)

// DefaultSQLitePath is the database file used when none is configured.
const DefaultSQLitePath = "data/giganticwit.db"

// Options selects and configures a backend.
type Options struct {
	Backend     string // "sqlite", "memory", "redis" or "postgres"
	SQLitePath  string
	RedisURL    string
	DatabaseURL string
	MemoryQuota int
}

// Open returns the backend named by opts.Backend. An empty name selects the
// file-backed sqlite store.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", "sqlite":
		path := opts.SQLitePath
		if path == "" {
			path = DefaultSQLitePath
		}
		return OpenSQLite(ctx, path)
	case "memory":
		return NewMemoryStore(opts.MemoryQuota), nil
	case "redis":
		return NewRedisStore(opts.RedisURL)
	case "postgres":
		return OpenPostgres(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
