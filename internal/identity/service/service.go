// Package service implements the identity provisioner: idempotent
// find-or-create of lease parties keyed by email.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"blockrent/internal/audit"
	"blockrent/internal/identity/models"
	"blockrent/internal/platform/metrics"
	id "blockrent/pkg/domain"
	dErrors "blockrent/pkg/domain-errors"
	"blockrent/pkg/email"
	"blockrent/pkg/platform/sentinel"
)

// maxCreateAttempts bounds account-id regeneration when the generated id
// collides with an existing one.
const maxCreateAttempts = 3

// UserStore is the persistence port for the provisioner.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByAccountID(ctx context.Context, accountID string) (*models.User, error)
}

// AccountNotifier dispatches the account-creation notification. Dispatch is
// fire-and-forget; delivery failures never reach the provisioner.
type AccountNotifier interface {
	AccountCreated(ctx context.Context, user models.User, oneTimePassword string)
}

// AuditRecorder appends a best-effort audit event.
type AuditRecorder interface {
	Record(ctx context.Context, referenceID, kind, actorID string) id.EventID
}

// ProvisionParams describes the party to resolve or create.
type ProvisionParams struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Role      models.Role
}

// ProvisionResult reports the resolved user and whether this call created it.
type ProvisionResult struct {
	User    *models.User
	Created bool
}

// Provisioner resolves lease parties by email, creating accounts with
// generated credentials when absent.
type Provisioner struct {
	users    UserStore
	notifier AccountNotifier
	recorder AuditRecorder
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewProvisioner(users UserStore, notifier AccountNotifier, recorder AuditRecorder, logger *slog.Logger, m *metrics.Metrics) *Provisioner {
	return &Provisioner{
		users:    users,
		notifier: notifier,
		recorder: recorder,
		logger:   logger,
		metrics:  m,
	}
}

// ResolveOrCreate returns the user registered under params.Email, creating
// one when none exists. Lookup is an exact, case-sensitive email match.
//
// On creation the side effects run in a fixed order: the user row is
// persisted first, then the notification is dispatched, then the audit event
// is recorded. A crash mid-sequence can leave a user without an audit trail
// but never an audit event for a user that does not exist.
func (p *Provisioner) ResolveOrCreate(ctx context.Context, params ProvisionParams) (ProvisionResult, error) {
	params.Email = strings.TrimSpace(params.Email)
	if params.Email == "" {
		return ProvisionResult{}, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if !params.Role.IsValid() {
		return ProvisionResult{}, dErrors.New(dErrors.CodeValidation, "invalid role")
	}
	if params.FirstName == "" && params.LastName == "" {
		params.FirstName, params.LastName = email.DeriveNameFromEmail(params.Email)
	}

	existing, err := p.users.FindByEmail(ctx, params.Email)
	if err == nil {
		return ProvisionResult{User: existing, Created: false}, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return ProvisionResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "user lookup failed")
	}

	return p.create(ctx, params)
}

func (p *Provisioner) create(ctx context.Context, params ProvisionParams) (ProvisionResult, error) {
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		oneTimePassword := newOneTimePassword(params.FirstName, params.LastName)
		hash, err := bcrypt.GenerateFromPassword([]byte(oneTimePassword), bcrypt.DefaultCost)
		if err != nil {
			return ProvisionResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "hash credential")
		}

		user := &models.User{
			ID:            id.NewUserID(),
			AccountID:     newAccountID(params.FirstName, params.LastName),
			Role:          params.Role,
			Status:        models.StatusNew,
			FirstName:     params.FirstName,
			LastName:      params.LastName,
			ContactNumber: params.Phone,
			Email:         params.Email,
			PasswordHash:  string(hash),
			CreatedAt:     time.Now(),
		}

		err = p.users.Create(ctx, user)
		if errors.Is(err, sentinel.ErrConflict) {
			// Either a concurrent registration won the email, or the
			// generated account id collided. Re-check the email, then retry
			// with a fresh id.
			if existing, lookupErr := p.users.FindByEmail(ctx, params.Email); lookupErr == nil {
				return ProvisionResult{User: existing, Created: false}, nil
			}
			continue
		}
		if err != nil {
			return ProvisionResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "create user")
		}

		p.notifier.AccountCreated(ctx, *user, oneTimePassword)
		p.recorder.Record(ctx, user.AccountID, audit.RegistrationKind(user.Role.String()), user.AccountID)
		if p.metrics != nil {
			p.metrics.UsersCreated.Inc()
		}
		p.logger.InfoContext(ctx, "user provisioned",
			"account_id", user.AccountID,
			"role", user.Role,
		)
		return ProvisionResult{User: user, Created: true}, nil
	}

	return ProvisionResult{}, dErrors.New(dErrors.CodeConflict, "could not allocate a unique account id")
}

// GetByAccountID returns the user behind an external account identifier.
func (p *Provisioner) GetByAccountID(ctx context.Context, accountID string) (*models.User, error) {
	if accountID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "account id is required")
	}
	user, err := p.users.FindByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "user lookup failed")
	}
	return user, nil
}
