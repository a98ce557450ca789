package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLocker()

	tokenA, ok, err := l.TryLock(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = l.TryLock(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = l.TryLock(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, l.Unlock(ctx, "a", "someone-else"))
	_, ok, err = l.TryLock(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "a foreign token must not release the lock")

	require.NoError(t, l.Unlock(ctx, "a", tokenA))
	_, ok, err = l.TryLock(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func newRedisLocker(t *testing.T, ttl time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, ttl), mr
}

func TestRedisLocker(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLocker(t, time.Minute)

	token, ok, err := l.TryLock(ctx, "lead_to_project:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("crm:transition:lead_to_project:1"))

	_, ok, err = l.TryLock(ctx, "lead_to_project:1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Unlock(ctx, "lead_to_project:1", token))
	assert.False(t, mr.Exists("crm:transition:lead_to_project:1"))

	_, ok, err = l.TryLock(ctx, "lead_to_project:1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLockerExpiredHolderCannotReleaseSuccessor(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLocker(t, 30*time.Second)
	const key = "lead_to_project:slow"

	tokenA, ok, err := l.TryLock(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	// A outlives its TTL; B takes the lock over.
	mr.FastForward(31 * time.Second)
	_, ok, err = l.TryLock(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	// A finishes late and releases.
	require.NoError(t, l.Unlock(ctx, key, tokenA))

	_, ok, err = l.TryLock(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "B still holds the lock after A's late release")
}

func TestRedisLockerExpiresAbandonedLock(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLocker(t, 30*time.Second)

	_, ok, err := l.TryLock(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(31 * time.Second)
	_, ok, err = l.TryLock(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
