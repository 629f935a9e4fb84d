package ledger

import (
	"context"
	"sort"
	"sync"
)

// BackendMemory keeps ids for the life of the process only.
const BackendMemory = "memory"

// MemoryStore keeps a thread-safe set of ids in memory.
type MemoryStore struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewMemoryStore constructs an empty MemoryStore, optionally seeded with ids.
func NewMemoryStore(ids ...string) *MemoryStore {
	s := &MemoryStore{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s *MemoryStore) Has(ctx context.Context, gameID string) (bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[gameID]
	return ok, nil
}

func (s *MemoryStore) Add(ctx context.Context, gameID string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[gameID] = struct{}{}
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// IDs returns the recorded ids in sorted order.
func (s *MemoryStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
