package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"blockrent/internal/application/models"
	"blockrent/internal/application/store"
	"blockrent/internal/audit"
	identitymodels "blockrent/internal/identity/models"
	"blockrent/internal/platform/metrics"
	id "blockrent/pkg/domain"
	dErrors "blockrent/pkg/domain-errors"
	"blockrent/pkg/platform/sentinel"
)

// maxCreateAttempts bounds internal-id regeneration when the generated id
// collides with an existing one.
const maxCreateAttempts = 3

// RegisterResult reports the resolved application and whether this call
// created it.
type RegisterResult struct {
	Application *models.Application
	Created     bool
}

// Registry resolves applications by contract number, registering new ones
// with a generated internal id.
type Registry struct {
	applications ApplicationStore
	notifier     ConfirmationNotifier
	recorder     AuditRecorder
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

func NewRegistry(applications ApplicationStore, notifier ConfirmationNotifier, recorder AuditRecorder, logger *slog.Logger, m *metrics.Metrics) *Registry {
	return &Registry{
		applications: applications,
		notifier:     notifier,
		recorder:     recorder,
		logger:       logger,
		metrics:      m,
	}
}

// ResolveOrCreate returns the application registered under contractNumber,
// creating one when none exists. The contract number is the caller-facing
// idempotency key; soft-deleted applications do not count as existing.
//
// On creation the side effects run in a fixed order: the application row is
// persisted first, then the audit event is recorded, then the confirmation
// requests are dispatched to both parties.
func (r *Registry) ResolveOrCreate(ctx context.Context, contractNumber string, lease models.LeaseTerms, deposit models.DepositTerms, tenant, owner identitymodels.User) (RegisterResult, error) {
	if contractNumber == "" {
		return RegisterResult{}, dErrors.New(dErrors.CodeValidation, "contract number is required")
	}
	if err := lease.Validate(); err != nil {
		return RegisterResult{}, err
	}
	if err := deposit.Validate(); err != nil {
		return RegisterResult{}, err
	}

	existing, err := r.applications.FindByContractNumber(ctx, contractNumber)
	if err == nil {
		return RegisterResult{Application: existing, Created: false}, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return RegisterResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "application lookup failed")
	}

	return r.create(ctx, contractNumber, lease, deposit, tenant, owner)
}

func (r *Registry) create(ctx context.Context, contractNumber string, lease models.LeaseTerms, deposit models.DepositTerms, tenant, owner identitymodels.User) (RegisterResult, error) {
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		now := time.Now()
		application := &models.Application{
			ID:             id.NewApplicationID(),
			InternalID:     newInternalID(owner.FirstName, tenant.FirstName),
			ContractNumber: contractNumber,
			TenantID:       tenant.AccountID,
			OwnerID:        owner.AccountID,
			Lease:          lease,
			Deposit:        deposit,
			Status:         models.StatusNew,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		err := r.applications.Create(ctx, application)
		if errors.Is(err, sentinel.ErrConflict) {
			// Either a concurrent registration won the contract number, or
			// the generated internal id collided. Re-check the contract
			// number, then retry with a fresh id.
			if existing, lookupErr := r.applications.FindByContractNumber(ctx, contractNumber); lookupErr == nil {
				return RegisterResult{Application: existing, Created: false}, nil
			}
			continue
		}
		if err != nil {
			return RegisterResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "create application")
		}

		r.recorder.Record(ctx, application.InternalID, audit.KindApplicationRegistration, tenant.AccountID)
		r.notifier.ConfirmationRequest(ctx, tenant, owner, *application)
		if r.metrics != nil {
			r.metrics.ApplicationsRegistered.Inc()
		}
		r.logger.InfoContext(ctx, "application registered",
			"internal_id", application.InternalID,
			"tenant_id", tenant.AccountID,
			"owner_id", owner.AccountID,
		)
		return RegisterResult{Application: application, Created: true}, nil
	}

	return RegisterResult{}, dErrors.New(dErrors.CodeConflict, "could not allocate a unique internal id")
}

// Get returns the application behind an external internal identifier.
func (r *Registry) Get(ctx context.Context, internalID string) (*models.Application, error) {
	if internalID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "internal id is required")
	}
	application, err := r.applications.FindByInternalID(ctx, internalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "application lookup failed")
	}
	return application, nil
}

// List returns the non-deleted applications matching q.
func (r *Registry) List(ctx context.Context, q store.Query) ([]models.Application, error) {
	applications, err := r.applications.List(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list applications")
	}
	return applications, nil
}
