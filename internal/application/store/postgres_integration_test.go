//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"blockrent/internal/application/models"
	"blockrent/internal/application/store"
	id "blockrent/pkg/domain"
	"blockrent/pkg/platform/sentinel"
	"blockrent/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "applications"))
}

func (s *PostgresStoreSuite) newTestApplication(internalID, contractNumber string) *models.Application {
	now := time.Now().Truncate(time.Microsecond)
	return &models.Application{
		ID:             id.NewApplicationID(),
		InternalID:     internalID,
		ContractNumber: contractNumber,
		TenantID:       "TA111111",
		OwnerID:        "OB222222",
		Lease: models.LeaseTerms{
			Address:    "Villa 12, Palm District",
			StartDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			AnnualRent: 120000,
			Currency:   models.CurrencyAED,
			TotalValue: 120000,
		},
		Deposit:   models.DepositTerms{TermType: models.DepositTermFixed, Amount: 10000},
		Status:    models.StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	application := s.newTestApplication("OT123456", "EJARI-1001")
	s.Require().NoError(s.store.Create(ctx, application))

	byInternal, err := s.store.FindByInternalID(ctx, "OT123456")
	s.Require().NoError(err)
	s.Equal("EJARI-1001", byInternal.ContractNumber)
	s.Equal(models.CurrencyAED, byInternal.Lease.Currency)
	s.Equal(float64(120000), byInternal.Lease.AnnualRent)
	s.Equal(models.DepositTermFixed, byInternal.Deposit.TermType)

	byContract, err := s.store.FindByContractNumber(ctx, "EJARI-1001")
	s.Require().NoError(err)
	s.Equal("OT123456", byContract.InternalID)

	_, err = s.store.FindByInternalID(ctx, "XX000000")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUniqueConstraints() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.newTestApplication("OT123456", "EJARI-1001")))

	err := s.store.Create(ctx, s.newTestApplication("OT999999", "EJARI-1001"))
	s.ErrorIs(err, sentinel.ErrConflict)

	err = s.store.Create(ctx, s.newTestApplication("OT123456", "EJARI-2002"))
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestUpdatePersistsConfirmation() {
	ctx := context.Background()
	application := s.newTestApplication("OT123456", "EJARI-1001")
	s.Require().NoError(s.store.Create(ctx, application))

	application.ConfirmedByTenant = true
	application.ConfirmedByOwner = true
	application.Status = models.StatusConfirmed
	application.UpdatedAt = time.Now()
	s.Require().NoError(s.store.Update(ctx, application))

	found, err := s.store.FindByInternalID(ctx, "OT123456")
	s.Require().NoError(err)
	s.True(found.ConfirmedByTenant)
	s.True(found.ConfirmedByOwner)
	s.Equal(models.StatusConfirmed, found.Status)
}

// TestSoftDeleteFreesContractNumber exercises the partial unique index:
// contract numbers are unique among non-deleted applications only.
func (s *PostgresStoreSuite) TestSoftDeleteFreesContractNumber() {
	ctx := context.Background()
	application := s.newTestApplication("OT123456", "EJARI-1001")
	s.Require().NoError(s.store.Create(ctx, application))

	deletedAt := time.Now()
	application.DeletedAt = &deletedAt
	s.Require().NoError(s.store.Update(ctx, application))

	_, err := s.store.FindByContractNumber(ctx, "EJARI-1001")
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.store.Create(ctx, s.newTestApplication("OT999999", "EJARI-1001")))
}

func (s *PostgresStoreSuite) TestList() {
	ctx := context.Background()
	first := s.newTestApplication("OT111111", "EJARI-1001")
	second := s.newTestApplication("OT222222", "EJARI-1002")
	second.TenantID = "TC333333"
	s.Require().NoError(s.store.Create(ctx, first))
	s.Require().NoError(s.store.Create(ctx, second))

	all, err := s.store.List(ctx, store.Query{})
	s.Require().NoError(err)
	s.Len(all, 2)

	byTenant, err := s.store.List(ctx, store.Query{TenantID: "TA111111"})
	s.Require().NoError(err)
	s.Require().Len(byTenant, 1)
	s.Equal("OT111111", byTenant[0].InternalID)
}
