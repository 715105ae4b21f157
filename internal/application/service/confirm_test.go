package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockrent/internal/application/models"
	"blockrent/internal/application/store"
	"blockrent/internal/audit"
	identitymodels "blockrent/internal/identity/models"
	dErrors "blockrent/pkg/domain-errors"
	"blockrent/pkg/testutil"
)

func newTestConfirmer(t *testing.T) (*Confirmer, *Registry, *fakeRecorder) {
	t.Helper()
	applications := store.NewInMemoryStore()
	recorder := &fakeRecorder{}
	registry := NewRegistry(applications, &fakeNotifier{}, recorder, discardLogger(), nil)
	confirmer := NewConfirmer(applications, recorder, discardLogger(), nil)
	return confirmer, registry, recorder
}

func registerTestApplication(t *testing.T, registry *Registry, tenant, owner identitymodels.User) *models.Application {
	t.Helper()
	result, err := registry.ResolveOrCreate(context.Background(), "EJARI-1001", testLease(), testDeposit(), tenant, owner)
	require.NoError(t, err)
	require.True(t, result.Created)
	return result.Application
}

func TestConfirm_BothOrderings(t *testing.T) {
	orderings := []struct {
		name   string
		actors []string
	}{
		{"tenant first", []string{"TA111111", "OB222222"}},
		{"owner first", []string{"OB222222", "TA111111"}},
	}

	for _, ordering := range orderings {
		t.Run(ordering.name, func(t *testing.T) {
			confirmer, registry, _ := newTestConfirmer(t)
			tenant := testParty("TA111111", identitymodels.RoleTenant)
			owner := testParty("OB222222", identitymodels.RoleOwner)
			application := registerTestApplication(t, registry, tenant, owner)
			ctx := context.Background()

			first, err := confirmer.Confirm(ctx, application.InternalID, ordering.actors[0])
			require.NoError(t, err)
			assert.Equal(t, models.StatusNew, first.Application.Status,
				"one confirmation leaves the application partially confirmed")

			second, err := confirmer.Confirm(ctx, application.InternalID, ordering.actors[1])
			require.NoError(t, err)
			assert.Equal(t, models.StatusConfirmed, second.Application.Status)
			assert.True(t, second.Application.ConfirmedByTenant)
			assert.True(t, second.Application.ConfirmedByOwner)
		})
	}
}

func TestConfirm_TenantOutcome(t *testing.T) {
	confirmer, registry, recorder := newTestConfirmer(t)
	tenant := testParty("TA111111", identitymodels.RoleTenant)
	owner := testParty("OB222222", identitymodels.RoleOwner)
	application := registerTestApplication(t, registry, tenant, owner)

	result, err := confirmer.Confirm(context.Background(), application.InternalID, tenant.AccountID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeTenantConfirmed, result.Outcome)
	assert.True(t, result.Application.ConfirmedByTenant)
	assert.False(t, result.Application.ConfirmedByOwner)

	// One registration event plus one confirmation event.
	require.Len(t, recorder.events, 2)
	last := recorder.events[1]
	assert.Equal(t, audit.KindApplicationConfirmation, last.kind)
	assert.Equal(t, application.InternalID, last.referenceID)
	assert.Equal(t, tenant.AccountID, last.actorID)
}

func TestConfirm_RepeatIsIgnoredButAudited(t *testing.T) {
	confirmer, registry, recorder := newTestConfirmer(t)
	tenant := testParty("TA111111", identitymodels.RoleTenant)
	owner := testParty("OB222222", identitymodels.RoleOwner)
	application := registerTestApplication(t, registry, tenant, owner)
	ctx := context.Background()

	_, err := confirmer.Confirm(ctx, application.InternalID, tenant.AccountID)
	require.NoError(t, err)

	repeat, err := confirmer.Confirm(ctx, application.InternalID, tenant.AccountID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, repeat.Outcome)
	assert.True(t, repeat.Application.ConfirmedByTenant, "flag stays set")
	assert.Equal(t, models.StatusNew, repeat.Application.Status)

	// The audit trail is a call log: the repeat appended another event.
	assert.Len(t, recorder.events, 3)
}

func TestConfirm_StrangerIsIgnoredButAudited(t *testing.T) {
	confirmer, registry, recorder := newTestConfirmer(t)
	tenant := testParty("TA111111", identitymodels.RoleTenant)
	owner := testParty("OB222222", identitymodels.RoleOwner)
	application := registerTestApplication(t, registry, tenant, owner)

	result, err := confirmer.Confirm(context.Background(), application.InternalID, "XX999999")
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, result.Outcome)
	assert.False(t, result.Application.ConfirmedByTenant)
	assert.False(t, result.Application.ConfirmedByOwner)
	assert.Equal(t, models.StatusNew, result.Application.Status)

	require.Len(t, recorder.events, 2)
	assert.Equal(t, "XX999999", recorder.events[1].actorID)
}

func TestConfirm_UnknownApplication(t *testing.T) {
	confirmer, _, recorder := newTestConfirmer(t)

	result, err := confirmer.Confirm(context.Background(), "XX000000", "TA111111")
	require.NoError(t, err, "an unknown application is a structured no-op, not an error")
	assert.Equal(t, OutcomeNotFound, result.Outcome)
	assert.Nil(t, result.Application)

	// Nothing to reference, nothing audited.
	assert.Empty(t, recorder.events)
}

func TestConfirm_Validation(t *testing.T) {
	confirmer, _, _ := newTestConfirmer(t)
	ctx := context.Background()

	_, err := confirmer.Confirm(ctx, "", "TA111111")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = confirmer.Confirm(ctx, "OT123456", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestConfirm_FullHandshake(t *testing.T) {
	confirmer, registry, recorder := newTestConfirmer(t)
	tenant := testParty("TA111111", identitymodels.RoleTenant)
	owner := testParty("OB222222", identitymodels.RoleOwner)
	ctx := context.Background()

	var application *models.Application
	testutil.Given(t, "a freshly registered application", func(t *testing.T) {
		application = registerTestApplication(t, registry, tenant, owner)
		require.Equal(t, models.StatusNew, application.Status)
	})

	testutil.When(t, "both parties confirm", func(t *testing.T) {
		_, err := confirmer.Confirm(ctx, application.InternalID, tenant.AccountID)
		require.NoError(t, err)
		_, err = confirmer.Confirm(ctx, application.InternalID, owner.AccountID)
		require.NoError(t, err)
	})

	testutil.Then(t, "the application is confirmed and fully audited", func(t *testing.T) {
		confirmed, err := registry.Get(ctx, application.InternalID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, confirmed.Status)

		kinds := make([]string, 0, len(recorder.events))
		for _, event := range recorder.events {
			kinds = append(kinds, event.kind)
		}
		assert.Equal(t, []string{
			audit.KindApplicationRegistration,
			audit.KindApplicationConfirmation,
			audit.KindApplicationConfirmation,
		}, kinds)
	})
}
