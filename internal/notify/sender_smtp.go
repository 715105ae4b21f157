package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	appmodels "blockrent/internal/application/models"
	"blockrent/internal/identity/models"
	"blockrent/internal/platform/config"
)

// SMTPSender delivers plain-text mail over SMTP.
type SMTPSender struct {
	addr       string
	auth       smtp.Auth
	from       string
	portalHost string
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPSender{
		addr:       fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth:       auth,
		from:       cfg.From,
		portalHost: cfg.PortalHost,
	}
}

func (s *SMTPSender) AccountCreated(_ context.Context, user models.User, oneTimePassword string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"An account has been created for you.\n\n"+
			"Account ID: %s\n"+
			"Temporary password: %s\n\n"+
			"Sign in at http://%s and change your password.\n",
		user.FirstName, user.AccountID, oneTimePassword, s.portalHost,
	)
	return s.send("Thank you for registering", []string{user.Email}, body)
}

func (s *SMTPSender) ConfirmationRequest(_ context.Context, tenant, owner models.User, application appmodels.Application) error {
	body := fmt.Sprintf(
		"A lease application for %s (contract %s) is waiting for confirmation.\n\n"+
			"Tenant: %s %s\nOwner: %s %s\n\n"+
			"Review it at http://%s/applications/%s\n",
		application.Lease.Address, application.ContractNumber,
		tenant.FirstName, tenant.LastName,
		owner.FirstName, owner.LastName,
		s.portalHost, application.InternalID,
	)

	// Both parties get the same message; a failure for one recipient does
	// not stop the other.
	var errs []error
	for _, rcpt := range []string{tenant.Email, owner.Email} {
		if err := s.send("Application Confirmation", []string{rcpt}, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *SMTPSender) send(subject string, to []string, body string) error {
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	return smtp.SendMail(s.addr, s.auth, s.from, to, []byte(msg))
}
