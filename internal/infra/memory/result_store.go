package memory

import (
	"context"
	"sync"

	"quiz-leaderboard/internal/domain"
)

// ResultStore keeps results in process memory. Load returns a copy so
// callers never share the backing slice.
type ResultStore struct {
	mu      sync.RWMutex
	results domain.ResultSet
}

func NewResultStore(seed ...domain.ResultRecord) *ResultStore {
	return &ResultStore{results: append(domain.ResultSet(nil), seed...)}
}

func (s *ResultStore) EnsureStorage(context.Context) error { return nil }

func (s *ResultStore) Load(context.Context) domain.ResultSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(domain.ResultSet, len(s.results))
	copy(out, s.results)
	return out
}

func (s *ResultStore) Append(_ context.Context, record domain.ResultRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, record)
	return nil
}
