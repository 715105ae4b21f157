// Package notify delivers account and confirmation emails. Delivery is
// best-effort and asynchronous: the owning request never blocks on, and
// never fails because of, the mail transport.
package notify

import (
	"context"

	appmodels "blockrent/internal/application/models"
	"blockrent/internal/identity/models"
)

// Sender delivers a notification synchronously. Implementations may fail;
// the dispatcher decides what to do with the error.
type Sender interface {
	AccountCreated(ctx context.Context, user models.User, oneTimePassword string) error
	ConfirmationRequest(ctx context.Context, tenant, owner models.User, application appmodels.Application) error
}
