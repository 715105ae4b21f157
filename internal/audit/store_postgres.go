package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "blockrent/pkg/domain"
	txcontext "blockrent/pkg/platform/tx"
)

// PostgresStore persists audit events in the events table.
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

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO events (id, reference_id, kind, actor_id, status, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(event.ID),
		event.ReferenceID,
		event.Kind,
		event.ActorID,
		string(event.Status),
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, q Query) ([]Event, error) {
	query := `
		SELECT id, reference_id, kind, actor_id, status, occurred_at
		FROM events
		WHERE ($1 = '' OR reference_id = $1)
		  AND ($2 = '' OR actor_id = $2)
		  AND ($3 = '' OR kind = $3)
		ORDER BY occurred_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, q.ReferenceID, q.ActorID, q.Kind)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			event   Event
			eventID uuid.UUID
			status  string
		)
		if err := rows.Scan(&eventID, &event.ReferenceID, &event.Kind, &event.ActorID, &status, &event.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.ID = id.EventID(eventID)
		event.Status = Status(status)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
