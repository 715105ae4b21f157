// Package handler exposes the registration intake endpoint.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	applicationhandler "blockrent/internal/application/handler"
	"blockrent/internal/platform/metrics"
	"blockrent/internal/platform/middleware"
	"blockrent/internal/registration"
	"blockrent/internal/transport/http/shared"
	dErrors "blockrent/pkg/domain-errors"
)

// Service runs the registration intake flow.
type Service interface {
	Register(ctx context.Context, req registration.Request) (registration.Result, error)
}

type Handler struct {
	registration Service
	logger       *slog.Logger
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(registration Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		registration: registration,
		logger:       logger,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

func (h *Handler) Register(r chi.Router) {
	registrationRouter := chi.NewRouter()
	registrationRouter.Use(middleware.Recovery(h.logger))
	registrationRouter.Use(middleware.RequestID)
	registrationRouter.Use(middleware.Logger(h.logger))
	registrationRouter.Use(middleware.Timeout(30 * time.Second))
	registrationRouter.Use(middleware.ContentTypeJSON)
	registrationRouter.Use(middleware.Latency(h.metrics))
	registrationRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	registrationRouter.Post("/", h.handleRegister)

	r.Mount("/registrations", registrationRouter)
}

type partyView struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Created   bool   `json:"created"`
}

type registerResponse struct {
	Tenant      partyView                          `json:"tenant"`
	Owner       partyView                          `json:"owner"`
	Application applicationhandler.ApplicationView `json:"application"`
	Created     bool                               `json:"created"`
}

// handleRegister runs the intake flow. A request that resolves entirely to
// existing records answers 200; a request that created the application
// answers 201.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req registration.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	result, err := h.registration.Register(ctx, req)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) || dErrors.HasCode(err, dErrors.CodeConflict) {
			h.logger.WarnContext(ctx, "registration rejected",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "registration failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "registration failed"))
		return
	}

	status := http.StatusOK
	if result.Application.Created {
		status = http.StatusCreated
	}
	shared.WriteJSON(w, status, registerResponse{
		Tenant: partyView{
			AccountID: result.Tenant.User.AccountID,
			Email:     result.Tenant.User.Email,
			Role:      result.Tenant.User.Role.String(),
			Created:   result.Tenant.Created,
		},
		Owner: partyView{
			AccountID: result.Owner.User.AccountID,
			Email:     result.Owner.User.Email,
			Role:      result.Owner.User.Role.String(),
			Created:   result.Owner.Created,
		},
		Application: applicationhandler.NewApplicationView(*result.Application.Application),
		Created:     result.Application.Created,
	})
}
