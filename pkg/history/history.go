// Package history records analysis runs so they can be listed and fetched
// again later, from the CLI or through the API.
//
// Three backends implement [Store]:
//   - [MemoryStore]: process-local, for tests and the default server
//   - [SQLiteStore]: a single file, for the CLI
//   - [MongoStore]: a shared MongoDB collection, for deployed servers
//
// Run IDs are random UUIDs assigned by [Prepare] when a run is saved.
package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned by [Store.Get] for unknown IDs.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded analysis.
type Run struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	// Source names where the input came from: a file path, "stdin" or
	// "http:<request id>".
	Source    string `json:"source" bson:"source"`
	InputHash string `json:"input_hash" bson:"input_hash"`

	Bricks       int   `json:"bricks" bson:"bricks"`
	Moved        int   `json:"moved" bson:"moved"`
	Edges        int   `json:"edges" bson:"edges"`
	Removable    int   `json:"removable" bson:"removable"`
	RemovableIDs []int `json:"removable_ids" bson:"removable_ids"`
	TotalFalls   int   `json:"total_falls" bson:"total_falls"`

	DurationMS int64 `json:"duration_ms" bson:"duration_ms"`
}

// Store persists runs. Implementations are safe for concurrent use.
type Store interface {
	// Save stores r, assigning ID and CreatedAt when they are unset.
	Save(ctx context.Context, r *Run) error

	// Get returns the run with the given ID or [ErrRunNotFound].
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Run, error)

	Close() error
}

// Prepare fills in a fresh ID and the creation time when missing.
func Prepare(r *Run) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if r.RemovableIDs == nil {
		r.RemovableIDs = []int{}
	}
}

// Backend names accepted by [Open].
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Open returns the configured store. History is optional: an empty or
// "none" backend yields a nil Store and no error.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return nil, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		path := cfg.Path
		if path == "" {
			var err error
			if path, err = DefaultPath(); err != nil {
				return nil, err
			}
		}
		return OpenSQLite(ctx, path)
	case BackendMongo:
		return OpenMongo(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}

// DefaultPath returns the per-user SQLite location,
// ~/.config/brickfall/history.db on Linux.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, "brickfall", "history.db"), nil
}
