// Package service implements the application registry and the confirmation
// state machine.
package service

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"blockrent/internal/application/models"
	"blockrent/internal/application/store"
	identitymodels "blockrent/internal/identity/models"
	id "blockrent/pkg/domain"
)

// ApplicationStore is the persistence port shared by the registry and the
// confirmation state machine.
type ApplicationStore interface {
	Create(ctx context.Context, application *models.Application) error
	Update(ctx context.Context, application *models.Application) error
	FindByInternalID(ctx context.Context, internalID string) (*models.Application, error)
	FindByContractNumber(ctx context.Context, contractNumber string) (*models.Application, error)
	List(ctx context.Context, q store.Query) ([]models.Application, error)
}

// ConfirmationNotifier dispatches the dual confirmation-request
// notification. Fire-and-forget; failures never reach the registry.
type ConfirmationNotifier interface {
	ConfirmationRequest(ctx context.Context, tenant, owner identitymodels.User, application models.Application)
}

// AuditRecorder appends a best-effort audit event.
type AuditRecorder interface {
	Record(ctx context.Context, referenceID, kind, actorID string) id.EventID
}

// newInternalID derives the opaque application identifier: the owner and
// tenant initials plus a fragment of a random UUID. Uniqueness is enforced
// by the store; the registry regenerates on collision.
func newInternalID(ownerFirstName, tenantFirstName string) string {
	fragment := strings.ReplaceAll(uuid.NewString(), "-", "")
	return initial(ownerFirstName) + initial(tenantFirstName) + fragment[:6]
}

func initial(name string) string {
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return strings.ToUpper(string(r))
		}
	}
	return "X"
}
