package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemoryTRL is the test and single-instance implementation of the token
// revocation list. Expired entries are pruned lazily on every call.
type InMemoryTRL struct {
	mu      sync.Mutex
	revoked map[string]time.Time // jti -> expiry
}

func NewInMemoryTRL() *InMemoryTRL {
	return &InMemoryTRL{revoked: make(map[string]time.Time)}
}

func (t *InMemoryTRL) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prune()
	t.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (t *InMemoryTRL) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prune()
	_, ok := t.revoked[jti]
	return ok, nil
}

func (t *InMemoryTRL) prune() {
	now := time.Now()
	for jti, expiry := range t.revoked {
		if now.After(expiry) {
			delete(t.revoked, jti)
		}
	}
}
