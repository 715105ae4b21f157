//go:build integration

package revocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockrent/internal/auth/revocation"
	"blockrent/pkg/testutil/containers"
)

func TestRedisTRL(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rc := containers.NewRedisContainer(t)
	trl := revocation.NewRedisTRL(rc.Client)
	ctx := context.Background()

	t.Run("revoked token is reported revoked", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		require.NoError(t, trl.Revoke(ctx, "jti-1", time.Minute))

		revoked, err := trl.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)

		other, err := trl.IsRevoked(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, other)
	})

	t.Run("entry expires with the token", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		require.NoError(t, trl.Revoke(ctx, "jti-short", 100*time.Millisecond))

		revoked, err := trl.IsRevoked(ctx, "jti-short")
		require.NoError(t, err)
		require.True(t, revoked)

		assert.Eventually(t, func() bool {
			revoked, err := trl.IsRevoked(ctx, "jti-short")
			return err == nil && !revoked
		}, 2*time.Second, 50*time.Millisecond)
	})

	t.Run("empty jti and zero ttl are no-ops", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		require.NoError(t, trl.Revoke(ctx, "", time.Minute))
		require.NoError(t, trl.Revoke(ctx, "jti-zero", 0))

		revoked, err := trl.IsRevoked(ctx, "jti-zero")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
