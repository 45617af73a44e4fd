package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout has fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps runs in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			source TEXT NOT NULL,
			input_hash TEXT NOT NULL,
			bricks INTEGER NOT NULL,
			moved INTEGER NOT NULL,
			edges INTEGER NOT NULL,
			removable INTEGER NOT NULL,
			removable_ids TEXT NOT NULL,
			total_falls INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS runs_created_at ON runs(created_at);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init history db: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, r *Run) error {
	Prepare(r)
	ids, err := json.Marshal(r.RemovableIDs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs(id,created_at,source,input_hash,bricks,moved,edges,removable,removable_ids,total_falls,duration_ms)
		 VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		r.ID, r.CreatedAt.UTC().Format(timeLayout), r.Source, r.InputHash,
		r.Bricks, r.Moved, r.Edges, r.Removable, string(ids), r.TotalFalls, r.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

const selectRuns = `SELECT id,created_at,source,input_hash,bricks,moved,edges,removable,removable_ids,total_falls,duration_ms FROM runs`

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+` WHERE id=?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY created_at DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		r       Run
		created string
		ids     string
	)
	err := sc.Scan(&r.ID, &created, &r.Source, &r.InputHash,
		&r.Bricks, &r.Moved, &r.Edges, &r.Removable, &ids, &r.TotalFalls, &r.DurationMS)
	if err != nil {
		return nil, err
	}
	if r.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", created, err)
	}
	if err := json.Unmarshal([]byte(ids), &r.RemovableIDs); err != nil {
		return nil, fmt.Errorf("bad removable_ids: %w", err)
	}
	return &r, nil
}

var _ Store = (*SQLiteStore)(nil)
