package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	identitymodels "blockrent/internal/identity/models"
	"blockrent/internal/platform/middleware"
	dErrors "blockrent/pkg/domain-errors"
	"blockrent/pkg/platform/sentinel"
)

// UserStore is the identity lookup the login flow needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*identitymodels.User, error)
}

// RevocationList tracks JTIs invalidated before their token expired.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// LoginResult carries a freshly issued access token and its subject.
type LoginResult struct {
	AccessToken string
	ExpiresIn   time.Duration
	User        *identitymodels.User
}

// Service implements login, logout and bearer-token validation. It satisfies
// middleware.JWTValidator so the auth middleware can consult the revocation
// list on every request.
type Service struct {
	users  UserStore
	tokens *TokenService
	trl    RevocationList
	logger *slog.Logger
}

func NewService(users UserStore, tokens *TokenService, trl RevocationList, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		trl:    trl,
		logger: logger,
	}
}

// Login exchanges email and password for an access token. Unknown emails and
// wrong passwords produce the same error so callers cannot probe for
// registered addresses.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if email == "" || password == "" {
		return LoginResult{}, dErrors.New(dErrors.CodeValidation, "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return LoginResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return LoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "user lookup failed")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "failed login attempt", "account_id", user.AccountID)
		return LoginResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.Generate(*user)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		AccessToken: token,
		ExpiresIn:   s.tokens.TTL(),
		User:        user,
	}, nil
}

// ValidateToken parses the token and rejects it when its JTI has been
// revoked. The revocation check fails closed.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*middleware.JWTClaims, error) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.trl.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "revocation check failed")
	}
	if revoked {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has been revoked")
	}

	return &middleware.JWTClaims{
		UserID:  claims.AccountID,
		Role:    claims.Role,
		TokenID: claims.ID,
	}, nil
}

// Revoke invalidates the bearer token for the rest of its lifetime. The TTL
// is clamped to the token's remaining validity so the list stays bounded.
func (s *Service) Revoke(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return err
	}

	ttl := s.tokens.TTL()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.trl.Revoke(ctx, claims.ID, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "revoke token")
	}
	s.logger.InfoContext(ctx, "token revoked", "account_id", claims.AccountID)
	return nil
}
