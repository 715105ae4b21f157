// Package registration orchestrates the one-shot intake flow: resolve both
// lease parties, then register the application that binds them.
package registration

import (
	"time"

	"github.com/asaskevich/govalidator"

	applicationmodels "blockrent/internal/application/models"
	identitymodels "blockrent/internal/identity/models"
	identityservice "blockrent/internal/identity/service"
	dErrors "blockrent/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// PartyDetails identifies one lease party in a registration request. Email
// is the only required field; names are derived from it when absent.
type PartyDetails struct {
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	ContactNumber string `json:"contact_number"`
}

// LeaseDetails is the wire shape of the lease terms.
type LeaseDetails struct {
	Address       string  `json:"address"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	PropertyUsage string  `json:"property_usage"`
	PropertySize  string  `json:"property_size"`
	AnnualRent    float64 `json:"annual_rent"`
	Currency      string  `json:"currency"`
	TotalValue    float64 `json:"total_value"`
}

// DepositDetails is the wire shape of the deposit terms.
type DepositDetails struct {
	TermType   string  `json:"term_type"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// Request is the registration payload. The whole request is validated up
// front; nothing is provisioned if any part is malformed.
type Request struct {
	ContractNumber string         `json:"contract_number"`
	Tenant         PartyDetails   `json:"tenant"`
	Owner          PartyDetails   `json:"owner"`
	Lease          LeaseDetails   `json:"lease"`
	Deposit        DepositDetails `json:"deposit"`
}

// Validate rejects malformed requests before any provisioning runs.
func (r Request) Validate() error {
	if r.ContractNumber == "" {
		return dErrors.New(dErrors.CodeValidation, "contract number is required")
	}
	if !govalidator.IsEmail(r.Tenant.Email) {
		return dErrors.New(dErrors.CodeValidation, "invalid tenant email")
	}
	if !govalidator.IsEmail(r.Owner.Email) {
		return dErrors.New(dErrors.CodeValidation, "invalid owner email")
	}
	if r.Tenant.Email == r.Owner.Email {
		return dErrors.New(dErrors.CodeValidation, "tenant and owner must be different parties")
	}
	if _, _, err := r.leaseDates(); err != nil {
		return err
	}
	return nil
}

func (r Request) leaseDates() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, r.Lease.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, dErrors.New(dErrors.CodeValidation, "invalid lease start date")
	}
	end, err = time.Parse(dateLayout, r.Lease.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, dErrors.New(dErrors.CodeValidation, "invalid lease end date")
	}
	return start, end, nil
}

func (p PartyDetails) provisionParams(role identitymodels.Role) identityservice.ProvisionParams {
	return identityservice.ProvisionParams{
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.ContactNumber,
		Role:      role,
	}
}

func (r Request) leaseTerms() (applicationmodels.LeaseTerms, error) {
	start, end, err := r.leaseDates()
	if err != nil {
		return applicationmodels.LeaseTerms{}, err
	}
	currency, err := applicationmodels.ParseCurrency(r.Lease.Currency)
	if err != nil {
		return applicationmodels.LeaseTerms{}, err
	}
	return applicationmodels.LeaseTerms{
		Address:       r.Lease.Address,
		StartDate:     start,
		EndDate:       end,
		PropertyUsage: r.Lease.PropertyUsage,
		PropertySize:  r.Lease.PropertySize,
		AnnualRent:    r.Lease.AnnualRent,
		Currency:      currency,
		TotalValue:    r.Lease.TotalValue,
	}, nil
}

func (r Request) depositTerms() (applicationmodels.DepositTerms, error) {
	termType, err := applicationmodels.ParseDepositTermType(r.Deposit.TermType)
	if err != nil {
		return applicationmodels.DepositTerms{}, err
	}
	return applicationmodels.DepositTerms{
		TermType:   termType,
		Amount:     r.Deposit.Amount,
		Percentage: r.Deposit.Percentage,
	}, nil
}
