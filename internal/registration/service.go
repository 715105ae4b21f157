package registration

import (
	"context"
	"log/slog"

	applicationmodels "blockrent/internal/application/models"
	applicationservice "blockrent/internal/application/service"
	identitymodels "blockrent/internal/identity/models"
	identityservice "blockrent/internal/identity/service"
)

// PartyProvisioner resolves or creates one lease party.
type PartyProvisioner interface {
	ResolveOrCreate(ctx context.Context, params identityservice.ProvisionParams) (identityservice.ProvisionResult, error)
}

// ApplicationRegistry resolves or creates the application binding the
// parties.
type ApplicationRegistry interface {
	ResolveOrCreate(ctx context.Context, contractNumber string, lease applicationmodels.LeaseTerms, deposit applicationmodels.DepositTerms, tenant, owner identitymodels.User) (applicationservice.RegisterResult, error)
}

// Result reports what the registration resolved or created.
type Result struct {
	Tenant      identityservice.ProvisionResult
	Owner       identityservice.ProvisionResult
	Application applicationservice.RegisterResult
}

// Service runs the intake flow. The three steps are sequential and each is
// individually idempotent; a retried request converges on the same users and
// application instead of failing or duplicating.
type Service struct {
	parties  PartyProvisioner
	registry ApplicationRegistry
	logger   *slog.Logger
}

func NewService(parties PartyProvisioner, registry ApplicationRegistry, logger *slog.Logger) *Service {
	return &Service{
		parties:  parties,
		registry: registry,
		logger:   logger,
	}
}

// Register validates the request, resolves the tenant, then the owner, then
// the application. Party provisioning is not rolled back when a later step
// fails; the accounts remain and a retry picks them up.
func (s *Service) Register(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	lease, err := req.leaseTerms()
	if err != nil {
		return Result{}, err
	}
	deposit, err := req.depositTerms()
	if err != nil {
		return Result{}, err
	}

	tenant, err := s.parties.ResolveOrCreate(ctx, req.Tenant.provisionParams(identitymodels.RoleTenant))
	if err != nil {
		return Result{}, err
	}
	owner, err := s.parties.ResolveOrCreate(ctx, req.Owner.provisionParams(identitymodels.RoleOwner))
	if err != nil {
		return Result{}, err
	}

	application, err := s.registry.ResolveOrCreate(ctx, req.ContractNumber, lease, deposit, *tenant.User, *owner.User)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Tenant:      tenant,
		Owner:       owner,
		Application: application,
	}, nil
}
