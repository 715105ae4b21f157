package filter

import (
	"context"
	"sync"
)

// InMemoryStore is the test and development implementation of the filter
// store.
type InMemoryStore struct {
	mu      sync.RWMutex
	byOwner map[string][]SavedFilter
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byOwner: make(map[string][]SavedFilter)}
}

func (s *InMemoryStore) Create(_ context.Context, filter *SavedFilter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byOwner[filter.OwnerID] = append(s.byOwner[filter.OwnerID], *filter)
	return nil
}

func (s *InMemoryStore) ListByOwner(_ context.Context, ownerID string) ([]SavedFilter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]SavedFilter(nil), s.byOwner[ownerID]...), nil
}
