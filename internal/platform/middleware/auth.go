package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// JWTClaims represents the claims we expect from the JWT validator. UserID is
// the opaque external account identifier, not the internal primary key.
type JWTClaims struct {
	UserID  string
	Role    string
	TokenID string
}

// JWTValidator defines the interface for validating bearer tokens.
type JWTValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*JWTClaims, error)
}

type contextKeyUserID struct{}
type contextKeyRole struct{}
type contextKeyTokenID struct{}

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyUserID  = contextKeyUserID{}
	ContextKeyRole    = contextKeyRole{}
	ContextKeyTokenID = contextKeyTokenID{}
)

// GetUserID retrieves the authenticated account identifier from the context.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(ContextKeyUserID).(string)
	return userID
}

// GetRole retrieves the authenticated user's role from the context.
func GetRole(ctx context.Context) string {
	role, _ := ctx.Value(ContextKeyRole).(string)
	return role
}

// GetTokenID retrieves the bearer token's JTI from the context.
func GetTokenID(ctx context.Context) string {
	tokenID, _ := ctx.Value(ContextKeyTokenID).(string)
	return tokenID
}

// RequireAuth rejects requests without a valid bearer token and stashes the
// resolved acting-user identity in the request context. Every core operation
// arrives already authenticated through this middleware.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			const bearerPrefix = "Bearer "

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(ctx, token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w)
				return
			}

			ctx = context.WithValue(ctx, ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)
			ctx = context.WithValue(ctx, ContextKeyTokenID, claims.TokenID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
