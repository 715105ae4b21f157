// Package handler exposes user lookup over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blockrent/internal/identity/models"
	"blockrent/internal/platform/metrics"
	"blockrent/internal/platform/middleware"
	"blockrent/internal/transport/http/shared"
	dErrors "blockrent/pkg/domain-errors"
)

// Service defines the identity reads the handler needs.
type Service interface {
	GetByAccountID(ctx context.Context, accountID string) (*models.User, error)
}

type Handler struct {
	identity     Service
	logger       *slog.Logger
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(identity Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		identity:     identity,
		logger:       logger,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

func (h *Handler) Register(r chi.Router) {
	userRouter := chi.NewRouter()
	userRouter.Use(middleware.Recovery(h.logger))
	userRouter.Use(middleware.RequestID)
	userRouter.Use(middleware.Logger(h.logger))
	userRouter.Use(middleware.Timeout(15 * time.Second))
	userRouter.Use(middleware.ContentTypeJSON)
	userRouter.Use(middleware.Latency(h.metrics))
	userRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	userRouter.Get("/{accountID}", h.handleGet)

	r.Mount("/users", userRouter)
}

type userView struct {
	AccountID     string    `json:"account_id"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	ContactNumber string    `json:"contact_number"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
}

// handleGet returns a user's profile. Callers can read their own profile;
// only admins can read anyone's.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := chi.URLParam(r, "accountID")

	caller := middleware.GetUserID(ctx)
	if caller != accountID && middleware.GetRole(ctx) != models.RoleAdmin.String() {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "cannot read another user's profile"))
		return
	}

	user, err := h.identity.GetByAccountID(ctx, accountID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) || dErrors.HasCode(err, dErrors.CodeValidation) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "user lookup failed",
			"request_id", middleware.GetRequestID(ctx),
			"account_id", accountID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "lookup failed"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, userView{
		AccountID:     user.AccountID,
		Role:          user.Role.String(),
		Status:        string(user.Status),
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		ContactNumber: user.ContactNumber,
		Email:         user.Email,
		CreatedAt:     user.CreatedAt,
	})
}
