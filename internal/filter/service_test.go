package filter

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "blockrent/pkg/domain-errors"
)

func newTestService() *Service {
	return NewService(NewInMemoryStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateAndListFor(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, "OB222222", "downtown commercial", Definition{
		PropertyUsage:   "COMMERCIAL",
		AddressContains: "Downtown",
		StartDateFrom:   &from,
	})
	require.NoError(t, err)
	assert.False(t, created.ID.IsNil())
	assert.Equal(t, "OB222222", created.OwnerID)

	filters, err := svc.ListFor(ctx, "OB222222")
	require.NoError(t, err)
	require.Len(t, filters, 1)
	assert.Equal(t, "downtown commercial", filters[0].Name)
	assert.Equal(t, "COMMERCIAL", filters[0].Definition.PropertyUsage)
}

func TestListFor_IsOwnerScoped(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "OB222222", "mine", Definition{})
	require.NoError(t, err)

	filters, err := svc.ListFor(ctx, "XX999999")
	require.NoError(t, err)
	assert.Empty(t, filters, "filters are visible only to their owner")
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "name", Definition{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = svc.Create(ctx, "OB222222", "", Definition{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = svc.ListFor(ctx, "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
