// Package domain holds identifier and enumeration types shared across
// features. Typed IDs keep user, application, event, and filter identifiers
// from being mixed up at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "blockrent/pkg/domain-errors"
)

// UserID is the internal primary key of a user row. The external-facing
// account identifier is a separate opaque string (models.User.AccountID).
type UserID uuid.UUID

// ApplicationID is the internal primary key of an application row. The
// confirmation flow addresses applications by their opaque internal
// identifier instead.
type ApplicationID uuid.UUID

// EventID identifies an audit event.
type EventID uuid.UUID

// FilterID identifies a saved search filter.
type FilterID uuid.UUID

// NewUserID returns a fresh random user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewApplicationID returns a fresh random application ID.
func NewApplicationID() ApplicationID { return ApplicationID(uuid.New()) }

// NewEventID returns a fresh random event ID.
func NewEventID() EventID { return EventID(uuid.New()) }

// NewFilterID returns a fresh random filter ID.
func NewFilterID() FilterID { return FilterID(uuid.New()) }

// ParseUserID constructs a UserID from external input.
//
// Usage: call from handlers/adapters when parsing requests; direct casting
// bypasses validation.
//
// Errors: returns CodeValidation when the value is empty, malformed, or the
// nil UUID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

// ParseApplicationID constructs an ApplicationID from external input.
func ParseApplicationID(s string) (ApplicationID, error) {
	u, err := parseUUID(s, "application id")
	return ApplicationID(u), err
}

// ParseEventID constructs an EventID from external input.
func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID(s, "event id")
	return EventID(u), err
}

// ParseFilterID constructs a FilterID from external input.
func ParseFilterID(s string) (FilterID, error) {
	u, err := parseUUID(s, "filter id")
	return FilterID(u), err
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, what+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "invalid "+what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, what+" cannot be the nil UUID")
	}
	return u, nil
}

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id ApplicationID) String() string { return uuid.UUID(id).String() }
func (id EventID) String() string       { return uuid.UUID(id).String() }
func (id FilterID) String() string      { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero value.
func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id FilterID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
