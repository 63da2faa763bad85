package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraCache "iptv-manager/internal/infrastructure/cache"
)

func newTestCache(t *testing.T) (*infraCache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return infraCache.NewRedisCacheFromClient(client), mr
}

func TestRedisCache_SetGetRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var got map[string]int
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, got["a"])
}

func TestRedisCache_GetMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var got string
	found, err := c.Get(context.Background(), "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, got)
}

func TestRedisCache_GetCorruptValue(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("bad", "{not json"))

	var got []string
	found, err := c.Get(context.Background(), "bad", &got)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestRedisCache_DeleteAndTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", "x", time.Hour))
	require.NoError(t, c.Set(ctx, "b", "y", 0))
	assert.Equal(t, time.Hour, mr.TTL("a"))

	require.NoError(t, c.Delete(ctx, "a", "b", "never-set"))

	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
}

func TestRedisCache_SetNX(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "lock", "token-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "lock", "token-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second writer must not take the key")

	assert.Equal(t, time.Minute, mr.TTL("lock"))
}

func TestRedisCache_DeleteIfEqual(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, err := c.SetNX(ctx, "lock", "token-1", time.Minute)
	require.NoError(t, err)

	deleted, err := c.DeleteIfEqual(ctx, "lock", "token-2")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.True(t, mr.Exists("lock"))

	deleted, err = c.DeleteIfEqual(ctx, "lock", "token-1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, mr.Exists("lock"))

	deleted, err = c.DeleteIfEqual(ctx, "missing", "token-1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRedisCache_Expire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Expire(ctx, "k", time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("k"))
}
