// Package handler exposes the application registry and the confirmation
// flow over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blockrent/internal/application/models"
	"blockrent/internal/application/service"
	"blockrent/internal/application/store"
	identitymodels "blockrent/internal/identity/models"
	"blockrent/internal/platform/metrics"
	"blockrent/internal/platform/middleware"
	"blockrent/internal/transport/http/shared"
	dErrors "blockrent/pkg/domain-errors"
)

// RegistryService defines the read side of the application registry.
type RegistryService interface {
	Get(ctx context.Context, internalID string) (*models.Application, error)
	List(ctx context.Context, q store.Query) ([]models.Application, error)
}

// ConfirmService applies party confirmations.
type ConfirmService interface {
	Confirm(ctx context.Context, internalID, actorAccountID string) (service.ConfirmResult, error)
}

type Handler struct {
	registry     RegistryService
	confirmer    ConfirmService
	logger       *slog.Logger
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(registry RegistryService, confirmer ConfirmService, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		registry:     registry,
		confirmer:    confirmer,
		logger:       logger,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the application routes. All of them require a bearer
// token.
func (h *Handler) Register(r chi.Router) {
	applicationRouter := chi.NewRouter()
	applicationRouter.Use(middleware.Recovery(h.logger))
	applicationRouter.Use(middleware.RequestID)
	applicationRouter.Use(middleware.Logger(h.logger))
	applicationRouter.Use(middleware.Timeout(30 * time.Second))
	applicationRouter.Use(middleware.ContentTypeJSON)
	applicationRouter.Use(middleware.Latency(h.metrics))
	applicationRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	applicationRouter.Post("/confirm", h.handleConfirm)
	applicationRouter.Get("/", h.handleList)
	applicationRouter.Get("/{internalID}", h.handleGet)

	r.Mount("/applications", applicationRouter)
}

type confirmRequest struct {
	InternalID string `json:"internal_id"`
}

type confirmResponse struct {
	Outcome     string           `json:"outcome"`
	Application *ApplicationView `json:"application,omitempty"`
}

// handleConfirm records the caller's confirmation. Unknown applications and
// no-op confirmations are reported in the outcome, not as errors.
func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	result, err := h.confirmer.Confirm(ctx, req.InternalID, actorID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "confirmation failed",
			"request_id", middleware.GetRequestID(ctx),
			"internal_id", req.InternalID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "confirmation failed"))
		return
	}

	resp := confirmResponse{Outcome: string(result.Outcome)}
	if result.Application != nil {
		view := NewApplicationView(*result.Application)
		resp.Application = &view
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}

// handleList returns the caller's applications. Tenants and owners see the
// applications they are party to; admins see everything and may filter by
// party.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := store.Query{
		TenantID: r.URL.Query().Get("tenant_id"),
		OwnerID:  r.URL.Query().Get("owner_id"),
		Status:   models.Status(r.URL.Query().Get("status")),
	}
	switch middleware.GetRole(ctx) {
	case identitymodels.RoleTenant.String():
		q.TenantID = middleware.GetUserID(ctx)
		q.OwnerID = ""
	case identitymodels.RoleOwner.String():
		q.OwnerID = middleware.GetUserID(ctx)
		q.TenantID = ""
	}

	applications, err := h.registry.List(ctx, q)
	if err != nil {
		h.logger.ErrorContext(ctx, "application listing failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "listing failed"))
		return
	}

	views := make([]ApplicationView, 0, len(applications))
	for _, application := range applications {
		views = append(views, NewApplicationView(application))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"applications": views})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	internalID := chi.URLParam(r, "internalID")

	application, err := h.registry.Get(ctx, internalID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) || dErrors.HasCode(err, dErrors.CodeValidation) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "application lookup failed",
			"request_id", middleware.GetRequestID(ctx),
			"internal_id", internalID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "lookup failed"))
		return
	}

	if !h.callerMaySee(ctx, application) {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "not a party to this application"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, NewApplicationView(*application))
}

func (h *Handler) callerMaySee(ctx context.Context, application *models.Application) bool {
	if middleware.GetRole(ctx) == identitymodels.RoleAdmin.String() {
		return true
	}
	accountID := middleware.GetUserID(ctx)
	return accountID == application.TenantID || accountID == application.OwnerID
}
