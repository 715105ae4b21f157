//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"blockrent/internal/identity/models"
	"blockrent/internal/identity/store"
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
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "users"))
}

func (s *PostgresStoreSuite) newTestUser(accountID, email string) *models.User {
	return &models.User{
		ID:        id.NewUserID(),
		AccountID: accountID,
		Role:      models.RoleTenant,
		Status:    models.StatusNew,
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		CreatedAt: time.Now(),
	}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	user := s.newTestUser("TA111111", "tenant@example.com")
	s.Require().NoError(s.store.Create(ctx, user))

	byEmail, err := s.store.FindByEmail(ctx, "tenant@example.com")
	s.Require().NoError(err)
	s.Equal(user.AccountID, byEmail.AccountID)
	s.Equal(models.RoleTenant, byEmail.Role)

	byAccount, err := s.store.FindByAccountID(ctx, "TA111111")
	s.Require().NoError(err)
	s.Equal(user.Email, byAccount.Email)

	_, err = s.store.FindByEmail(ctx, "nobody@example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUniqueConstraints() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.newTestUser("TA111111", "tenant@example.com")))

	err := s.store.Create(ctx, s.newTestUser("TB222222", "tenant@example.com"))
	s.ErrorIs(err, sentinel.ErrConflict)

	err = s.store.Create(ctx, s.newTestUser("TA111111", "other@example.com"))
	s.ErrorIs(err, sentinel.ErrConflict)
}

// TestConcurrentEmailCollision verifies that concurrent creation with the
// same email results in exactly one success; the losers observe a conflict
// the provisioner resolves by re-reading.
func (s *PostgresStoreSuite) TestConcurrentEmailCollision() {
	ctx := context.Background()
	email := "race-" + uuid.NewString() + "@example.com"
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			user := s.newTestUser("R"+uuid.NewString()[:7], email)
			switch err := s.store.Create(ctx, user); err {
			case nil:
				successCount.Add(1)
			case sentinel.ErrConflict:
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), conflictCount.Load())
}
