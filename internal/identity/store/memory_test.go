package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockrent/internal/identity/models"
	id "blockrent/pkg/domain"
	"blockrent/pkg/platform/sentinel"
)

func newUser(accountID, email string) *models.User {
	return &models.User{
		ID:        id.NewUserID(),
		AccountID: accountID,
		Role:      models.RoleTenant,
		Status:    models.StatusNew,
		Email:     email,
		CreatedAt: time.Now(),
	}
}

func TestInMemoryStore_CreateAndFind(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	user := newUser("TA111111", "tenant@example.com")
	require.NoError(t, s.Create(ctx, user))

	byEmail, err := s.FindByEmail(ctx, "tenant@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.AccountID, byEmail.AccountID)

	byAccount, err := s.FindByAccountID(ctx, "TA111111")
	require.NoError(t, err)
	assert.Equal(t, user.Email, byAccount.Email)

	_, err = s.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	_, err = s.FindByAccountID(ctx, "ZZ000000")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStore_EnforcesUniqueness(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newUser("TA111111", "tenant@example.com")))

	err := s.Create(ctx, newUser("TB222222", "tenant@example.com"))
	assert.ErrorIs(t, err, sentinel.ErrConflict, "duplicate email")

	err = s.Create(ctx, newUser("TA111111", "other@example.com"))
	assert.ErrorIs(t, err, sentinel.ErrConflict, "duplicate account id")
}

func TestInMemoryStore_FindByEmailIsCaseSensitive(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newUser("TA111111", "tenant@example.com")))

	_, err := s.FindByEmail(ctx, "Tenant@Example.com")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
