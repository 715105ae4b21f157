package filter

import (
	"context"
	"log/slog"
	"time"

	id "blockrent/pkg/domain"
	dErrors "blockrent/pkg/domain-errors"
)

// Store persists saved filters.
type Store interface {
	Create(ctx context.Context, filter *SavedFilter) error
	ListByOwner(ctx context.Context, ownerID string) ([]SavedFilter, error)
}

// Service implements saved-filter CRUD. Visibility is enforced here: every
// read is scoped to the requesting owner.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Create persists a named filter for ownerID.
func (s *Service) Create(ctx context.Context, ownerID, name string, def Definition) (*SavedFilter, error) {
	if ownerID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "owner id is required")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "filter name is required")
	}

	filter := &SavedFilter{
		ID:         id.NewFilterID(),
		OwnerID:    ownerID,
		Name:       name,
		Definition: def,
		CreatedAt:  time.Now(),
	}
	if err := s.store.Create(ctx, filter); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create filter")
	}
	s.logger.InfoContext(ctx, "filter saved", "owner_id", ownerID, "name", name)
	return filter, nil
}

// ListFor returns ownerID's filters and nobody else's.
func (s *Service) ListFor(ctx context.Context, ownerID string) ([]SavedFilter, error) {
	if ownerID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "owner id is required")
	}
	filters, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list filters")
	}
	return filters, nil
}
