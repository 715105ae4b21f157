// Package handler exposes login and logout over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"blockrent/internal/auth"
	"blockrent/internal/platform/metrics"
	"blockrent/internal/platform/middleware"
	"blockrent/internal/transport/http/shared"
	dErrors "blockrent/pkg/domain-errors"
)

// Service defines the auth operations the handler needs.
type Service interface {
	Login(ctx context.Context, email, password string) (auth.LoginResult, error)
	Revoke(ctx context.Context, tokenString string) error
}

type Handler struct {
	auth         Service
	logger       *slog.Logger
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(auth Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		auth:         auth,
		logger:       logger,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the auth routes. Token issuance is the one public endpoint
// in the API; revocation requires the token being revoked.
func (h *Handler) Register(r chi.Router) {
	authRouter := chi.NewRouter()
	authRouter.Use(middleware.Recovery(h.logger))
	authRouter.Use(middleware.RequestID)
	authRouter.Use(middleware.Logger(h.logger))
	authRouter.Use(middleware.Timeout(15 * time.Second))
	authRouter.Use(middleware.ContentTypeJSON)
	authRouter.Use(middleware.Latency(h.metrics))

	authRouter.Post("/token", h.handleToken)
	authRouter.With(middleware.RequireAuth(h.jwtValidator, h.logger)).
		Post("/revoke", h.handleRevoke)

	r.Mount("/auth", authRouter)
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	AccountID   string `json:"account_id"`
	Role        string `json:"role"`
}

func (h *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if !govalidator.IsEmail(req.Email) {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid email"))
		return
	}

	result, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) || dErrors.HasCode(err, dErrors.CodeValidation) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "login failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "login failed"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(result.ExpiresIn.Seconds()),
		AccountID:   result.User.AccountID,
		Role:        result.User.Role.String(),
	})
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// RequireAuth already validated the token; revoke the exact bearer token
	// that authenticated this request.
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := h.auth.Revoke(ctx, token); err != nil {
		h.logger.ErrorContext(ctx, "token revocation failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
