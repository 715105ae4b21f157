package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"blockrent/internal/application/models"
	"blockrent/internal/audit"
	"blockrent/internal/platform/metrics"
	dErrors "blockrent/pkg/domain-errors"
	"blockrent/pkg/platform/sentinel"
)

// ConfirmOutcome classifies what a confirmation attempt did.
type ConfirmOutcome string

const (
	// OutcomeTenantConfirmed and OutcomeOwnerConfirmed report that the
	// actor's confirmation flag was newly set.
	OutcomeTenantConfirmed ConfirmOutcome = "TENANT_CONFIRMED"
	OutcomeOwnerConfirmed  ConfirmOutcome = "OWNER_CONFIRMED"

	// OutcomeIgnored reports that the actor is not a party to the
	// application, or had already confirmed. The attempt is still audited.
	OutcomeIgnored ConfirmOutcome = "IGNORED"

	// OutcomeNotFound reports that no application carries the internal id.
	// Nothing is audited; there is no application to reference.
	OutcomeNotFound ConfirmOutcome = "NOT_FOUND"
)

// ConfirmResult reports the outcome of a confirmation attempt and the
// application as it stands afterwards. Application is nil for NOT_FOUND.
type ConfirmResult struct {
	Outcome     ConfirmOutcome
	Application *models.Application
}

// Confirmer applies party confirmations to applications. The flow is
// deliberately forgiving: unknown applications, repeated confirmations and
// non-party actors all produce a structured outcome rather than an error.
type Confirmer struct {
	applications ApplicationStore
	recorder     AuditRecorder
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

func NewConfirmer(applications ApplicationStore, recorder AuditRecorder, logger *slog.Logger, m *metrics.Metrics) *Confirmer {
	return &Confirmer{
		applications: applications,
		recorder:     recorder,
		logger:       logger,
		metrics:      m,
	}
}

// Confirm records actorAccountID's confirmation of the application addressed
// by internalID. The actor's account id is matched against the application's
// tenant and owner references; a match sets the corresponding flag, then the
// status is re-derived. Every attempt against an existing application is
// audited, including no-ops.
func (c *Confirmer) Confirm(ctx context.Context, internalID, actorAccountID string) (ConfirmResult, error) {
	if internalID == "" {
		return ConfirmResult{}, dErrors.New(dErrors.CodeValidation, "internal id is required")
	}
	if actorAccountID == "" {
		return ConfirmResult{}, dErrors.New(dErrors.CodeValidation, "actor account id is required")
	}

	application, err := c.applications.FindByInternalID(ctx, internalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			c.logger.WarnContext(ctx, "confirmation for unknown application",
				"internal_id", internalID,
				"actor_id", actorAccountID,
			)
			return ConfirmResult{Outcome: OutcomeNotFound}, nil
		}
		return ConfirmResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "application lookup failed")
	}

	outcome := OutcomeIgnored
	switch actorAccountID {
	case application.TenantID:
		if !application.ConfirmedByTenant {
			application.ConfirmedByTenant = true
			outcome = OutcomeTenantConfirmed
		}
	case application.OwnerID:
		if !application.ConfirmedByOwner {
			application.ConfirmedByOwner = true
			outcome = OutcomeOwnerConfirmed
		}
	}

	if outcome != OutcomeIgnored {
		previous := application.Status
		application.DeriveStatus()
		application.UpdatedAt = time.Now()
		if err := c.applications.Update(ctx, application); err != nil {
			return ConfirmResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "persist confirmation")
		}
		if previous != models.StatusConfirmed && application.Status == models.StatusConfirmed {
			if c.metrics != nil {
				c.metrics.ApplicationsConfirmed.Inc()
			}
			c.logger.InfoContext(ctx, "application confirmed by both parties",
				"internal_id", application.InternalID,
			)
		}
	}

	c.recorder.Record(ctx, application.InternalID, audit.KindApplicationConfirmation, actorAccountID)
	return ConfirmResult{Outcome: outcome, Application: application}, nil
}
