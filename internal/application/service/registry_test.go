package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockrent/internal/application/models"
	"blockrent/internal/application/store"
	"blockrent/internal/audit"
	identitymodels "blockrent/internal/identity/models"
	id "blockrent/pkg/domain"
	dErrors "blockrent/pkg/domain-errors"
)

type confirmationCall struct {
	tenant      identitymodels.User
	owner       identitymodels.User
	application models.Application
}

type fakeNotifier struct {
	calls []confirmationCall
}

func (f *fakeNotifier) ConfirmationRequest(_ context.Context, tenant, owner identitymodels.User, application models.Application) {
	f.calls = append(f.calls, confirmationCall{tenant: tenant, owner: owner, application: application})
}

type recordedEvent struct {
	referenceID string
	kind        string
	actorID     string
}

type fakeRecorder struct {
	events []recordedEvent
}

func (f *fakeRecorder) Record(_ context.Context, referenceID, kind, actorID string) id.EventID {
	f.events = append(f.events, recordedEvent{referenceID: referenceID, kind: kind, actorID: actorID})
	return id.NewEventID()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testParty(accountID string, role identitymodels.Role) identitymodels.User {
	firstName := "Tina"
	if role == identitymodels.RoleOwner {
		firstName = "Omar"
	}
	return identitymodels.User{
		ID:        id.NewUserID(),
		AccountID: accountID,
		Role:      role,
		Status:    identitymodels.StatusNew,
		FirstName: firstName,
		LastName:  "Party",
		Email:     accountID + "@example.com",
	}
}

func testLease() models.LeaseTerms {
	return models.LeaseTerms{
		Address:    "Villa 12, Palm District",
		StartDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		AnnualRent: 120000,
		Currency:   models.CurrencyAED,
		TotalValue: 120000,
	}
}

func testDeposit() models.DepositTerms {
	return models.DepositTerms{TermType: models.DepositTermFixed, Amount: 10000}
}

func newTestRegistry(t *testing.T) (*Registry, *store.InMemoryStore, *fakeNotifier, *fakeRecorder) {
	t.Helper()
	applications := store.NewInMemoryStore()
	notifier := &fakeNotifier{}
	recorder := &fakeRecorder{}
	return NewRegistry(applications, notifier, recorder, discardLogger(), nil), applications, notifier, recorder
}

func TestResolveOrCreate_RegistersNewApplication(t *testing.T) {
	registry, _, notifier, recorder := newTestRegistry(t)
	tenant := testParty("TA111111", identitymodels.RoleTenant)
	owner := testParty("OB222222", identitymodels.RoleOwner)

	result, err := registry.ResolveOrCreate(context.Background(), "EJARI-1001", testLease(), testDeposit(), tenant, owner)
	require.NoError(t, err)
	require.True(t, result.Created)

	application := result.Application
	assert.Equal(t, models.StatusNew, application.Status)
	assert.False(t, application.ConfirmedByTenant)
	assert.False(t, application.ConfirmedByOwner)
	assert.Equal(t, tenant.AccountID, application.TenantID)
	assert.Equal(t, owner.AccountID, application.OwnerID)
	assert.Len(t, application.InternalID, 8)
	assert.Equal(t, "OT", application.InternalID[:2], "internal id starts with owner then tenant initial")

	require.Len(t, recorder.events, 1)
	assert.Equal(t, audit.KindApplicationRegistration, recorder.events[0].kind)
	assert.Equal(t, application.InternalID, recorder.events[0].referenceID)
	assert.Equal(t, tenant.AccountID, recorder.events[0].actorID)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, tenant.AccountID, notifier.calls[0].tenant.AccountID)
	assert.Equal(t, owner.AccountID, notifier.calls[0].owner.AccountID)
}

func TestResolveOrCreate_ResubmissionIsSilentlyResolved(t *testing.T) {
	registry, _, notifier, recorder := newTestRegistry(t)
	ctx := context.Background()
	tenant := testParty("TA111111", identitymodels.RoleTenant)
	owner := testParty("OB222222", identitymodels.RoleOwner)

	first, err := registry.ResolveOrCreate(ctx, "EJARI-1001", testLease(), testDeposit(), tenant, owner)
	require.NoError(t, err)

	// A resubmission with different lease terms returns the existing
	// application untouched. No new events, no new notifications.
	changed := testLease()
	changed.AnnualRent = 999999
	second, err := registry.ResolveOrCreate(ctx, "EJARI-1001", changed, testDeposit(), tenant, owner)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Application.InternalID, second.Application.InternalID)
	assert.Equal(t, float64(120000), second.Application.Lease.AnnualRent)

	assert.Len(t, recorder.events, 1)
	assert.Len(t, notifier.calls, 1)
}

func TestResolveOrCreate_DistinctContractsGetDistinctApplications(t *testing.T) {
	registry, _, _, _ := newTestRegistry(t)
	ctx := context.Background()
	tenant := testParty("TA111111", identitymodels.RoleTenant)
	owner := testParty("OB222222", identitymodels.RoleOwner)

	first, err := registry.ResolveOrCreate(ctx, "EJARI-1001", testLease(), testDeposit(), tenant, owner)
	require.NoError(t, err)
	second, err := registry.ResolveOrCreate(ctx, "EJARI-1002", testLease(), testDeposit(), tenant, owner)
	require.NoError(t, err)

	assert.NotEqual(t, first.Application.InternalID, second.Application.InternalID)
}

func TestResolveOrCreate_Validation(t *testing.T) {
	registry, _, _, recorder := newTestRegistry(t)
	ctx := context.Background()
	tenant := testParty("TA111111", identitymodels.RoleTenant)
	owner := testParty("OB222222", identitymodels.RoleOwner)

	tests := []struct {
		name     string
		contract string
		mutate   func(lease *models.LeaseTerms, deposit *models.DepositTerms)
	}{
		{"empty contract number", "", func(*models.LeaseTerms, *models.DepositTerms) {}},
		{"missing address", "EJARI-1", func(l *models.LeaseTerms, _ *models.DepositTerms) { l.Address = "" }},
		{"end before start", "EJARI-2", func(l *models.LeaseTerms, _ *models.DepositTerms) { l.EndDate = l.StartDate.AddDate(0, -1, 0) }},
		{"unsupported currency", "EJARI-3", func(l *models.LeaseTerms, _ *models.DepositTerms) { l.Currency = "EUR" }},
		{"zero fixed deposit", "EJARI-4", func(_ *models.LeaseTerms, d *models.DepositTerms) { d.Amount = 0 }},
		{"percentage out of range", "EJARI-5", func(_ *models.LeaseTerms, d *models.DepositTerms) {
			d.TermType = models.DepositTermPercentage
			d.Percentage = 150
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lease := testLease()
			deposit := testDeposit()
			tt.mutate(&lease, &deposit)
			_, err := registry.ResolveOrCreate(ctx, tt.contract, lease, deposit, tenant, owner)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}

	// Rejected requests leave no trace.
	assert.Empty(t, recorder.events)
}

func TestGetAndList(t *testing.T) {
	registry, _, _, _ := newTestRegistry(t)
	ctx := context.Background()
	tenant := testParty("TA111111", identitymodels.RoleTenant)
	owner := testParty("OB222222", identitymodels.RoleOwner)

	created, err := registry.ResolveOrCreate(ctx, "EJARI-1001", testLease(), testDeposit(), tenant, owner)
	require.NoError(t, err)

	found, err := registry.Get(ctx, created.Application.InternalID)
	require.NoError(t, err)
	assert.Equal(t, "EJARI-1001", found.ContractNumber)

	_, err = registry.Get(ctx, "XX000000")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	listed, err := registry.List(ctx, store.Query{TenantID: tenant.AccountID})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	listed, err = registry.List(ctx, store.Query{TenantID: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, listed)
}
