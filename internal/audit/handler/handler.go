// Package handler exposes the audit trail over HTTP. Admin only.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blockrent/internal/audit"
	identitymodels "blockrent/internal/identity/models"
	"blockrent/internal/platform/metrics"
	"blockrent/internal/platform/middleware"
	"blockrent/internal/transport/http/shared"
	dErrors "blockrent/pkg/domain-errors"
)

// Service defines the audit reads the handler needs.
type Service interface {
	List(ctx context.Context, q audit.Query) ([]audit.Event, error)
}

type Handler struct {
	audit        Service
	logger       *slog.Logger
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(audit Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		audit:        audit,
		logger:       logger,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

func (h *Handler) Register(r chi.Router) {
	eventRouter := chi.NewRouter()
	eventRouter.Use(middleware.Recovery(h.logger))
	eventRouter.Use(middleware.RequestID)
	eventRouter.Use(middleware.Logger(h.logger))
	eventRouter.Use(middleware.Timeout(15 * time.Second))
	eventRouter.Use(middleware.ContentTypeJSON)
	eventRouter.Use(middleware.Latency(h.metrics))
	eventRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	eventRouter.Get("/", h.handleList)

	r.Mount("/events", eventRouter)
}

type eventView struct {
	ID          string    `json:"id"`
	ReferenceID string    `json:"reference_id"`
	Kind        string    `json:"kind"`
	ActorID     string    `json:"actor_id"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if middleware.GetRole(ctx) != identitymodels.RoleAdmin.String() {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "audit trail is admin only"))
		return
	}

	q := audit.Query{
		ReferenceID: r.URL.Query().Get("reference_id"),
		ActorID:     r.URL.Query().Get("actor_id"),
		Kind:        r.URL.Query().Get("kind"),
	}
	events, err := h.audit.List(ctx, q)
	if err != nil {
		h.logger.ErrorContext(ctx, "event listing failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "listing failed"))
		return
	}

	views := make([]eventView, 0, len(events))
	for _, event := range events {
		views = append(views, eventView{
			ID:          event.ID.String(),
			ReferenceID: event.ReferenceID,
			Kind:        event.Kind,
			ActorID:     event.ActorID,
			Status:      string(event.Status),
			OccurredAt:  event.OccurredAt,
		})
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"events": views})
}
