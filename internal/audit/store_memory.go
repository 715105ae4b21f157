package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps events in a slice; used in tests and as a fallback
// when no database is configured.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) List(_ context.Context, q Query) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	// Newest first.
	for i := len(s.events) - 1; i >= 0; i-- {
		if q.Matches(s.events[i]) {
			out = append(out, s.events[i])
		}
	}
	return out, nil
}
