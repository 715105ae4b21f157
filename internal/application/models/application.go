// Package models defines the application aggregate: one lease's
// deposit-handling case tracked through confirmation to completion.
package models

import (
	"time"

	id "blockrent/pkg/domain"
	dErrors "blockrent/pkg/domain-errors"
)

// Status tracks an application through its lifecycle. The core moves
// applications from NEW to CONFIRMED; the remaining states belong to the
// deposit-handling flows layered on top.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusConfirmed Status = "CONFIRMED"
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusDispute   Status = "DISPUTE"
	StatusComplete  Status = "COMPLETE"
)

// Currency is the contract currency.
type Currency string

const (
	CurrencyAED Currency = "AED"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyAUD Currency = "AUD"
)

var validCurrencies = map[Currency]bool{
	CurrencyAED: true,
	CurrencyUSD: true,
	CurrencyGBP: true,
	CurrencyAUD: true,
}

// ParseCurrency constructs a Currency from external input.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(s)
	if !validCurrencies[c] {
		return "", dErrors.New(dErrors.CodeValidation, "unsupported currency")
	}
	return c, nil
}

// DepositTermType selects between a fixed deposit amount and a percentage of
// the contract value.
type DepositTermType string

const (
	DepositTermFixed      DepositTermType = "FIXED"
	DepositTermPercentage DepositTermType = "PERCENTAGE"
)

// ParseDepositTermType constructs a DepositTermType from external input.
func ParseDepositTermType(s string) (DepositTermType, error) {
	t := DepositTermType(s)
	if t != DepositTermFixed && t != DepositTermPercentage {
		return "", dErrors.New(dErrors.CodeValidation, "invalid deposit term type")
	}
	return t, nil
}

// LeaseTerms describes the lease the deposit secures.
type LeaseTerms struct {
	Address       string
	StartDate     time.Time
	EndDate       time.Time
	PropertyUsage string
	PropertySize  string
	AnnualRent    float64
	Currency      Currency
	TotalValue    float64
}

// Validate checks the lease terms a registration must carry.
func (l LeaseTerms) Validate() error {
	if l.Address == "" {
		return dErrors.New(dErrors.CodeValidation, "property address is required")
	}
	if l.StartDate.IsZero() || l.EndDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "lease start and end dates are required")
	}
	if !l.EndDate.After(l.StartDate) {
		return dErrors.New(dErrors.CodeValidation, "lease end date must be after start date")
	}
	if l.AnnualRent < 0 || l.TotalValue < 0 {
		return dErrors.New(dErrors.CodeValidation, "lease amounts must not be negative")
	}
	if _, err := ParseCurrency(string(l.Currency)); err != nil {
		return err
	}
	return nil
}

// DepositTerms describes how the security deposit is computed.
type DepositTerms struct {
	TermType   DepositTermType
	Amount     float64
	Percentage float64
}

// Validate checks the deposit terms against the selected term type.
func (d DepositTerms) Validate() error {
	if _, err := ParseDepositTermType(string(d.TermType)); err != nil {
		return err
	}
	switch d.TermType {
	case DepositTermFixed:
		if d.Amount <= 0 {
			return dErrors.New(dErrors.CodeValidation, "fixed deposit amount must be positive")
		}
	case DepositTermPercentage:
		if d.Percentage <= 0 || d.Percentage > 100 {
			return dErrors.New(dErrors.CodeValidation, "deposit percentage must be between 0 and 100")
		}
	}
	return nil
}

// Application is one lease's deposit-handling case.
//
// Invariants:
//   - ContractNumber is unique among non-deleted applications
//   - InternalID is unique and immutable; the confirmation flow addresses
//     applications by it
//   - Status == CONFIRMED if and only if both confirmation flags are set;
//     Status is re-derived after every confirmation mutation
//
// TenantID and OwnerID are logical references to User.AccountID, not foreign
// keys: parties are provisioned in the same request but live independently.
type Application struct {
	ID             id.ApplicationID
	InternalID     string
	ContractNumber string
	TenantID       string
	OwnerID        string

	Lease   LeaseTerms
	Deposit DepositTerms

	ConfirmedByTenant bool
	ConfirmedByOwner  bool
	Status            Status

	// Dispute claims are free text per party; only the out-of-scope dispute
	// flow sets them.
	TenantClaim string
	OwnerClaim  string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// DeriveStatus re-establishes the confirmation invariant after a flag
// mutation: status is CONFIRMED exactly when both parties have confirmed.
// Status is derived, never settable on its own.
func (a *Application) DeriveStatus() {
	if a.ConfirmedByTenant && a.ConfirmedByOwner {
		a.Status = StatusConfirmed
	}
}
