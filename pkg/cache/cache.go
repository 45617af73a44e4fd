// Package cache stores settled piles and stability reports between runs.
//
// Entries are opaque byte slices addressed by string keys. Keys come from
// a [Keyer], which hashes the input so identical piles share an entry no
// matter where they were read from. Three backends are provided:
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for tests and --no-cache
//
// Cache failures are never fatal to callers; a broken cache behaves like an
// empty one.
package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default time-to-live values. Settling is deterministic, so entries only
// expire to bound disk usage.
const (
	TTLSettle   = 7 * 24 * time.Hour
	TTLAnalysis = 7 * 24 * time.Hour
	TTLRender   = 24 * time.Hour
)

// Backend names accepted by [New].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	// TTL overrides the per-kind defaults when non-zero.
	TTL Duration `toml:"ttl"`
}

// Duration is a time.Duration that reads from TOML strings like "12h".
type Duration struct{ time.Duration }

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// New opens the backend named by cfg. An empty backend means file.
func New(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = DefaultDir(); err != nil {
				return nil, err
			}
		}
		return NewFileCache(dir)
	case BackendRedis:
		return NewRedisCache(ctx, RedisConfig{Addr: cfg.RedisAddr})
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// DefaultDir returns the per-user cache directory, ~/.cache/brickfall on
// Linux.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache dir: %w", err)
	}
	return filepath.Join(base, "brickfall"), nil
}

// TTLFor returns override when set, otherwise def.
func TTLFor(override Duration, def time.Duration) time.Duration {
	if override.Duration > 0 {
		return override.Duration
	}
	return def
}
