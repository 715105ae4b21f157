// Package filter stores per-owner saved search filters. Pure preference
// data: filters reference no application and carry no workflow logic.
package filter

import (
	"time"

	id "blockrent/pkg/domain"
)

// Definition is a named bundle of search predicates. All fields are
// optional; empty means unconstrained.
type Definition struct {
	PropertyUsage   string
	MinSize         string
	MaxSize         string
	TenantName      string
	OwnerName       string
	StartDateFrom   *time.Time
	StartDateTo     *time.Time
	AddressContains string
}

// SavedFilter is owned by exactly one user and visible only to them.
type SavedFilter struct {
	ID         id.FilterID
	OwnerID    string
	Name       string
	Definition Definition
	CreatedAt  time.Time
}
