// Package models defines the user aggregate for the identity feature.
package models

import (
	"time"

	id "blockrent/pkg/domain"
	dErrors "blockrent/pkg/domain-errors"
)

// Role classifies a party to a lease application.
type Role string

const (
	RoleTenant Role = "TENANT"
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleTest   Role = "TEST"
)

var validRoles = map[Role]bool{
	RoleTenant: true,
	RoleOwner:  true,
	RoleAdmin:  true,
	RoleTest:   true,
}

// ParseRole constructs a Role from external input.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !validRoles[r] {
		return "", dErrors.New(dErrors.CodeValidation, "invalid role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool { return validRoles[r] }

func (r Role) String() string { return string(r) }

// Status tracks account verification state.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusVerified  Status = "VERIFIED"
	StatusSuspended Status = "SUSPENDED"
)

// User is a party to a lease application.
//
// Invariants:
//   - Email is globally unique
//   - AccountID is globally unique and immutable once assigned
//
// AccountID is the external-facing identifier; applications and audit events
// reference users by it. ID is the internal primary key and never leaves the
// storage layer.
type User struct {
	ID            id.UserID
	AccountID     string
	Role          Role
	Status        Status
	FirstName     string
	LastName      string
	ContactNumber string
	Email         string
	PasswordHash  string
	CreatedAt     time.Time
	VerifiedAt    *time.Time
}
