package handler

import (
	"time"

	"blockrent/internal/application/models"
)

// ApplicationView is the wire shape of an application. Internal primary keys
// and dispute claims never leave the service.
type ApplicationView struct {
	InternalID     string  `json:"internal_id"`
	ContractNumber string  `json:"contract_number"`
	TenantID       string  `json:"tenant_id"`
	OwnerID        string  `json:"owner_id"`
	Address        string  `json:"address"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	PropertyUsage  string  `json:"property_usage"`
	PropertySize   string  `json:"property_size"`
	AnnualRent     float64 `json:"annual_rent"`
	Currency       string  `json:"currency"`
	TotalValue     float64 `json:"total_value"`
	DepositType    string  `json:"deposit_term_type"`
	DepositAmount  float64 `json:"deposit_amount"`
	DepositPercent float64 `json:"deposit_percentage"`

	ConfirmedByTenant bool   `json:"confirmed_by_tenant"`
	ConfirmedByOwner  bool   `json:"confirmed_by_owner"`
	Status            string `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const dateLayout = "2006-01-02"

// NewApplicationView projects an application onto its wire shape.
func NewApplicationView(a models.Application) ApplicationView {
	return ApplicationView{
		InternalID:     a.InternalID,
		ContractNumber: a.ContractNumber,
		TenantID:       a.TenantID,
		OwnerID:        a.OwnerID,
		Address:        a.Lease.Address,
		StartDate:      a.Lease.StartDate.Format(dateLayout),
		EndDate:        a.Lease.EndDate.Format(dateLayout),
		PropertyUsage:  a.Lease.PropertyUsage,
		PropertySize:   a.Lease.PropertySize,
		AnnualRent:     a.Lease.AnnualRent,
		Currency:       string(a.Lease.Currency),
		TotalValue:     a.Lease.TotalValue,
		DepositType:    string(a.Deposit.TermType),
		DepositAmount:  a.Deposit.Amount,
		DepositPercent: a.Deposit.Percentage,

		ConfirmedByTenant: a.ConfirmedByTenant,
		ConfirmedByOwner:  a.ConfirmedByOwner,
		Status:            string(a.Status),

		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
