// Package handler exposes saved filters over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blockrent/internal/filter"
	"blockrent/internal/platform/metrics"
	"blockrent/internal/platform/middleware"
	"blockrent/internal/transport/http/shared"
	dErrors "blockrent/pkg/domain-errors"
)

// Service defines the saved-filter operations the handler needs.
type Service interface {
	Create(ctx context.Context, ownerID, name string, def filter.Definition) (*filter.SavedFilter, error)
	ListFor(ctx context.Context, ownerID string) ([]filter.SavedFilter, error)
}

type Handler struct {
	filters      Service
	logger       *slog.Logger
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(filters Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		filters:      filters,
		logger:       logger,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

func (h *Handler) Register(r chi.Router) {
	filterRouter := chi.NewRouter()
	filterRouter.Use(middleware.Recovery(h.logger))
	filterRouter.Use(middleware.RequestID)
	filterRouter.Use(middleware.Logger(h.logger))
	filterRouter.Use(middleware.Timeout(15 * time.Second))
	filterRouter.Use(middleware.ContentTypeJSON)
	filterRouter.Use(middleware.Latency(h.metrics))
	filterRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	filterRouter.Post("/", h.handleCreate)
	filterRouter.Get("/", h.handleList)

	r.Mount("/filters", filterRouter)
}

const dateLayout = "2006-01-02"

type filterRequest struct {
	Name            string `json:"name"`
	PropertyUsage   string `json:"property_usage"`
	MinSize         string `json:"min_size"`
	MaxSize         string `json:"max_size"`
	TenantName      string `json:"tenant_name"`
	OwnerName       string `json:"owner_name"`
	StartDateFrom   string `json:"start_date_from"`
	StartDateTo     string `json:"start_date_to"`
	AddressContains string `json:"address_contains"`
}

type filterView struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	PropertyUsage   string    `json:"property_usage,omitempty"`
	MinSize         string    `json:"min_size,omitempty"`
	MaxSize         string    `json:"max_size,omitempty"`
	TenantName      string    `json:"tenant_name,omitempty"`
	OwnerName       string    `json:"owner_name,omitempty"`
	StartDateFrom   string    `json:"start_date_from,omitempty"`
	StartDateTo     string    `json:"start_date_to,omitempty"`
	AddressContains string    `json:"address_contains,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	def, err := req.definition()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	saved, err := h.filters.Create(ctx, middleware.GetUserID(ctx), req.Name, def)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "filter creation failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "filter creation failed"))
		return
	}
	shared.WriteJSON(w, http.StatusCreated, newFilterView(*saved))
}

// handleList returns the caller's filters only. There is no cross-owner
// listing, not even for admins.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filters, err := h.filters.ListFor(ctx, middleware.GetUserID(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "filter listing failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "listing failed"))
		return
	}

	views := make([]filterView, 0, len(filters))
	for _, saved := range filters {
		views = append(views, newFilterView(saved))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"filters": views})
}

func (r filterRequest) definition() (filter.Definition, error) {
	def := filter.Definition{
		PropertyUsage:   r.PropertyUsage,
		MinSize:         r.MinSize,
		MaxSize:         r.MaxSize,
		TenantName:      r.TenantName,
		OwnerName:       r.OwnerName,
		AddressContains: r.AddressContains,
	}
	if r.StartDateFrom != "" {
		from, err := time.Parse(dateLayout, r.StartDateFrom)
		if err != nil {
			return filter.Definition{}, dErrors.New(dErrors.CodeValidation, "invalid start_date_from")
		}
		def.StartDateFrom = &from
	}
	if r.StartDateTo != "" {
		to, err := time.Parse(dateLayout, r.StartDateTo)
		if err != nil {
			return filter.Definition{}, dErrors.New(dErrors.CodeValidation, "invalid start_date_to")
		}
		def.StartDateTo = &to
	}
	return def, nil
}

func newFilterView(saved filter.SavedFilter) filterView {
	view := filterView{
		ID:              saved.ID.String(),
		Name:            saved.Name,
		PropertyUsage:   saved.Definition.PropertyUsage,
		MinSize:         saved.Definition.MinSize,
		MaxSize:         saved.Definition.MaxSize,
		TenantName:      saved.Definition.TenantName,
		OwnerName:       saved.Definition.OwnerName,
		AddressContains: saved.Definition.AddressContains,
		CreatedAt:       saved.CreatedAt,
	}
	if saved.Definition.StartDateFrom != nil {
		view.StartDateFrom = saved.Definition.StartDateFrom.Format(dateLayout)
	}
	if saved.Definition.StartDateTo != nil {
		view.StartDateTo = saved.Definition.StartDateTo.Format(dateLayout)
	}
	return view
}
