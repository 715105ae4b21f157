// Package store persists users. Stores return sentinel errors; the
// provisioner translates them into domain errors.
package store

import (
	"context"
	"sync"

	"blockrent/internal/identity/models"
	id "blockrent/pkg/domain"
	"blockrent/pkg/platform/sentinel"
)

// InMemoryStore is the test and development implementation of the user
// store. It enforces the same uniqueness rules as the Postgres schema.
type InMemoryStore struct {
	mu        sync.RWMutex
	byID      map[id.UserID]models.User
	byEmail   map[string]id.UserID
	byAccount map[string]id.UserID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:      make(map[id.UserID]models.User),
		byEmail:   make(map[string]id.UserID),
		byAccount: make(map[string]id.UserID),
	}
}

// Create persists a new user. Returns sentinel.ErrConflict when the email or
// account id is already taken.
func (s *InMemoryStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byAccount[user.AccountID]; exists {
		return sentinel.ErrConflict
	}

	s.byID[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	s.byAccount[user.AccountID] = user.ID
	return nil
}

// FindByEmail looks a user up by exact, case-sensitive email match.
func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	user := s.byID[userID]
	return &user, nil
}

// FindByAccountID looks a user up by the external account identifier.
func (s *InMemoryStore) FindByAccountID(_ context.Context, accountID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byAccount[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	user := s.byID[userID]
	return &user, nil
}
