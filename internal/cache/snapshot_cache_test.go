package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cachedValue struct {
	Company string  `json:"company"`
	Total   float64 `json:"total"`
}

func newTestCache(t *testing.T) (*SnapshotCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSnapshotCache(client, time.Minute, zap.NewNop()), mr
}

func TestSnapshotCache_BuildKey(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "C1", "snapshot", "2024-05-01", "2024-05-31")
	require.NoError(t, err)
	assert.Equal(t, "fleet:C1:snapshot:2024-05-01:2024-05-31:v1", key)

	ver, err := c.Version(ctx, "C2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)
}

func TestSnapshotCache_StoreAndLoad(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "C1", "snapshot")
	require.NoError(t, err)

	var got cachedValue
	found, err := c.Load(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Store(ctx, key, cachedValue{Company: "C1", Total: 1500}))
	assert.Equal(t, time.Minute, mr.TTL(key))

	found, err = c.Load(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedValue{Company: "C1", Total: 1500}, got)

	t.Run("expired entries miss", func(t *testing.T) {
		mr.FastForward(2 * time.Minute)
		found, err := c.Load(ctx, key, &got)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestSnapshotCache_Bump(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	before, err := c.BuildKey(ctx, "C1", "snapshot")
	require.NoError(t, err)
	other, err := c.BuildKey(ctx, "C2", "snapshot")
	require.NoError(t, err)
	require.NoError(t, c.Store(ctx, before, cachedValue{Company: "C1"}))
	require.NoError(t, c.Store(ctx, other, cachedValue{Company: "C2"}))

	require.NoError(t, c.Bump(ctx, "C1"))

	after, err := c.BuildKey(ctx, "C1", "snapshot")
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	var got cachedValue
	found, err := c.Load(ctx, after, &got)
	require.NoError(t, err)
	assert.False(t, found, "bumped scope should miss")

	otherAgain, err := c.BuildKey(ctx, "C2", "snapshot")
	require.NoError(t, err)
	assert.Equal(t, other, otherAgain)
	found, err = c.Load(ctx, otherAgain, &got)
	require.NoError(t, err)
	assert.True(t, found, "other scopes are untouched")
}

func TestSnapshotCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("fleet:C1:snapshot:v1", "{not json"))

	var got cachedValue
	found, err := c.Load(ctx, "fleet:C1:snapshot:v1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := New(context.Background(), addr, "", 0)
	require.NoError(t, err)
	assert.NoError(t, client.Close())

	mr.Close()
	_, err = New(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
