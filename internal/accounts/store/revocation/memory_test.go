package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resgate/pkg/platform/sentinel"
)

func TestRevokeAndCheck(t *testing.T) {
	list := NewInMemory()
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "unknown token is not revoked")

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked, "revocation is per token id")
}

func TestEmptyJTIIsIgnored(t *testing.T) {
	list := NewInMemory()
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "", time.Hour))
	revoked, err := list.IsRevoked(ctx, "")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInvalidTTL(t *testing.T) {
	err := NewInMemory().Revoke(context.Background(), "jti-1", 0)
	require.ErrorIs(t, err, sentinel.ErrInvalidState)
}

func TestExpiredEntriesAreDropped(t *testing.T) {
	list := NewInMemory()
	ctx := context.Background()

	now := time.Now()
	list.nowFn = func() time.Time { return now }

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Minute))

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)

	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "expired revocation no longer applies")
	assert.Empty(t, list.revoked, "lazy check removed the entry")
}

func TestSweep(t *testing.T) {
	list := NewInMemory()
	list.sweepSize = 4
	ctx := context.Background()

	now := time.Now()
	list.nowFn = func() time.Time { return now }

	for _, jti := range []string{"a", "b", "c", "d"} {
		require.NoError(t, list.Revoke(ctx, jti, time.Minute))
	}

	now = now.Add(2 * time.Minute)
	require.NoError(t, list.Revoke(ctx, "e", time.Minute))

	assert.Len(t, list.revoked, 1, "sweep dropped the expired entries")
}
