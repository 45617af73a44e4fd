package history

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps runs in a map.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]Run
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]Run)}
}

func (s *MemoryStore) Save(_ context.Context, r *Run) error {
	Prepare(r)
	cp := *r
	cp.RemovableIDs = slices.Clone(r.RemovableIDs)
	s.mu.Lock()
	s.runs[r.ID] = cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Run, error) {
	s.mu.RLock()
	r, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrRunNotFound
	}
	r.RemovableIDs = slices.Clone(r.RemovableIDs)
	return &r, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	out := make([]Run, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	s.mu.RUnlock()
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func sortNewestFirst(runs []Run) {
	slices.SortFunc(runs, func(a, b Run) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
}

var _ Store = (*MemoryStore)(nil)
