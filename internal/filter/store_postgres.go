package filter

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "blockrent/pkg/domain"
	txcontext "blockrent/pkg/platform/tx"
)

// PostgresStore persists saved filters in the saved_filters table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, filter *SavedFilter) error {
	query := `
		INSERT INTO saved_filters (
			id, owner_id, name, property_usage, min_size, max_size,
			tenant_name, owner_name, start_date_from, start_date_to,
			address_contains, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(filter.ID),
		filter.OwnerID,
		filter.Name,
		filter.Definition.PropertyUsage,
		filter.Definition.MinSize,
		filter.Definition.MaxSize,
		filter.Definition.TenantName,
		filter.Definition.OwnerName,
		filter.Definition.StartDateFrom,
		filter.Definition.StartDateTo,
		filter.Definition.AddressContains,
		filter.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert filter: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]SavedFilter, error) {
	query := `
		SELECT id, owner_id, name, property_usage, min_size, max_size,
		       tenant_name, owner_name, start_date_from, start_date_to,
		       address_contains, created_at
		FROM saved_filters
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query filters: %w", err)
	}
	defer rows.Close()

	var filters []SavedFilter
	for rows.Next() {
		var (
			filter   SavedFilter
			filterID uuid.UUID
		)
		err := rows.Scan(
			&filterID,
			&filter.OwnerID,
			&filter.Name,
			&filter.Definition.PropertyUsage,
			&filter.Definition.MinSize,
			&filter.Definition.MaxSize,
			&filter.Definition.TenantName,
			&filter.Definition.OwnerName,
			&filter.Definition.StartDateFrom,
			&filter.Definition.StartDateTo,
			&filter.Definition.AddressContains,
			&filter.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan filter: %w", err)
		}
		filter.ID = id.FilterID(filterID)
		filters = append(filters, filter)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate filters: %w", err)
	}
	return filters, nil
}
