package fragment

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps fragments in process memory. Used as the dev backend
// and in tests; it honors the same ordering contract as MongoStore.
type MemoryStore struct {
	mu        sync.RWMutex
	fragments map[string][]Fragment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{fragments: make(map[string][]Fragment)}
}

func (s *MemoryStore) Store(_ context.Context, fragments []Fragment) error {
	if len(fragments) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range fragments {
		s.fragments[f.DocumentID] = append(s.fragments[f.DocumentID], f)
	}
	return nil
}

func (s *MemoryStore) FetchTop(_ context.Context, documentID string, k int) ([]Fragment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.fragments[documentID]
	out := make([]Fragment, len(stored))
	copy(out, stored)
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	if k >= 0 && k < len(out) {
		out = out[:k]
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fragments, documentID)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }
