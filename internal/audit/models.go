// Package audit provides the append-only trail of domain events. Events are
// a call log, not a state-change log: repeated operations append repeated
// events.
package audit

import (
	"time"

	id "blockrent/pkg/domain"
)

// Status is reserved for downstream event processing. Nothing in the core
// transitions it past StatusNew.
type Status string

const (
	StatusNew     Status = "NEW"
	StatusHandled Status = "HANDLED"
	StatusIgnored Status = "IGNORED"
)

// Event kinds emitted by the core workflows. Registration kinds are derived
// from the party role via RegistrationKind.
const (
	KindApplicationRegistration = "APPLICATION REGISTRATION"
	KindApplicationConfirmation = "APPLICATION CONFIRMATION"
)

// RegistrationKind returns the event kind for a party registration, e.g.
// "TENANT REGISTRATION".
func RegistrationKind(role string) string {
	return role + " REGISTRATION"
}

// Event is an immutable audit record. ReferenceID is the subject's external
// identifier (an account id or an application's internal id); ActorID is the
// account id of whoever caused the action.
type Event struct {
	ID          id.EventID
	ReferenceID string
	Kind        string
	ActorID     string
	Status      Status
	OccurredAt  time.Time
}

// Query filters event listings. Empty fields match everything.
type Query struct {
	ReferenceID string
	ActorID     string
	Kind        string
}

// Matches reports whether the event satisfies the query.
func (q Query) Matches(e Event) bool {
	if q.ReferenceID != "" && e.ReferenceID != q.ReferenceID {
		return false
	}
	if q.ActorID != "" && e.ActorID != q.ActorID {
		return false
	}
	if q.Kind != "" && e.Kind != q.Kind {
		return false
	}
	return true
}
