package audit

import (
	"context"
	"log/slog"
	"time"

	"blockrent/internal/platform/metrics"
	id "blockrent/pkg/domain"
)

// Store persists audit events. Append-only; events are never mutated or
// deleted by the core.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context, q Query) ([]Event, error)
}

// Recorder captures structured audit events. Persistence is best-effort
// side-channel logging: an append failure is logged and swallowed so it can
// never roll back the mutation that caused the event.
type Recorder struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewRecorder(store Store, logger *slog.Logger, m *metrics.Metrics) *Recorder {
	return &Recorder{store: store, logger: logger, metrics: m}
}

// Record appends one event and returns its id. The id is assigned before the
// append, so callers get a stable reference even when persistence fails.
func (r *Recorder) Record(ctx context.Context, referenceID, kind, actorID string) id.EventID {
	event := Event{
		ID:          id.NewEventID(),
		ReferenceID: referenceID,
		Kind:        kind,
		ActorID:     actorID,
		Status:      StatusNew,
		OccurredAt:  time.Now(),
	}

	if err := r.store.Append(ctx, event); err != nil {
		r.logger.ErrorContext(ctx, "audit append failed",
			"reference_id", referenceID,
			"kind", kind,
			"error", err,
		)
		return event.ID
	}

	if r.metrics != nil {
		r.metrics.AuditEvents.WithLabelValues(kind).Inc()
	}
	return event.ID
}

// List returns events matching the query, newest first.
func (r *Recorder) List(ctx context.Context, q Query) ([]Event, error) {
	return r.store.List(ctx, q)
}
