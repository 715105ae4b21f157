package notify

import (
	"context"
	"log/slog"

	appmodels "blockrent/internal/application/models"
	"blockrent/internal/identity/models"
)

// LogSender records deliveries instead of sending them. Used when no SMTP
// host is configured. The one-time password is deliberately not logged.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) AccountCreated(ctx context.Context, user models.User, _ string) error {
	s.logger.InfoContext(ctx, "account creation notification",
		"email", user.Email,
		"account_id", user.AccountID,
	)
	return nil
}

func (s *LogSender) ConfirmationRequest(ctx context.Context, tenant, owner models.User, application appmodels.Application) error {
	s.logger.InfoContext(ctx, "confirmation request notification",
		"tenant_email", tenant.Email,
		"owner_email", owner.Email,
		"application_id", application.InternalID,
	)
	return nil
}
