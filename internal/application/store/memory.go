// Package store persists applications. Stores return sentinel errors; the
// services translate them into domain errors.
package store

import (
	"context"
	"sync"

	"blockrent/internal/application/models"
	"blockrent/pkg/platform/sentinel"
)

// Query filters application listings. Empty fields match everything.
type Query struct {
	TenantID string
	OwnerID  string
	Status   models.Status
}

// Matches reports whether a non-deleted application satisfies the query.
func (q Query) Matches(a models.Application) bool {
	if a.DeletedAt != nil {
		return false
	}
	if q.TenantID != "" && a.TenantID != q.TenantID {
		return false
	}
	if q.OwnerID != "" && a.OwnerID != q.OwnerID {
		return false
	}
	if q.Status != "" && a.Status != q.Status {
		return false
	}
	return true
}

// InMemoryStore is the test and development implementation of the
// application store. It enforces the same uniqueness rules as the Postgres
// schema: internal ids are globally unique, contract numbers are unique
// among non-deleted applications.
type InMemoryStore struct {
	mu         sync.RWMutex
	byInternal map[string]models.Application
	byContract map[string]string // contract number -> internal id, non-deleted only
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byInternal: make(map[string]models.Application),
		byContract: make(map[string]string),
	}
}

func (s *InMemoryStore) Create(_ context.Context, application *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byInternal[application.InternalID]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byContract[application.ContractNumber]; exists {
		return sentinel.ErrConflict
	}

	s.byInternal[application.InternalID] = *application
	s.byContract[application.ContractNumber] = application.InternalID
	return nil
}

func (s *InMemoryStore) FindByInternalID(_ context.Context, internalID string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	application, ok := s.byInternal[internalID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &application, nil
}

func (s *InMemoryStore) FindByContractNumber(_ context.Context, contractNumber string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	internalID, ok := s.byContract[contractNumber]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	application := s.byInternal[internalID]
	return &application, nil
}

// Update overwrites an existing application.
func (s *InMemoryStore) Update(_ context.Context, application *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byInternal[application.InternalID]; !ok {
		return sentinel.ErrNotFound
	}
	s.byInternal[application.InternalID] = *application
	if application.DeletedAt != nil {
		delete(s.byContract, application.ContractNumber)
	}
	return nil
}

func (s *InMemoryStore) List(_ context.Context, q Query) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Application
	for _, application := range s.byInternal {
		if q.Matches(application) {
			out = append(out, application)
		}
	}
	return out, nil
}
