package database

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	server := miniredis.RunT(t)
	UseRedis(redis.NewClient(&redis.Options{Addr: server.Addr()}))
	t.Cleanup(func() {
		CloseRedis()
		UseRedis(nil)
	})
	return server
}

func TestRedisDisabled(t *testing.T) {
	UseRedis(nil)
	ctx := t.Context()

	assert.NoError(t, RevokeToken(ctx, "jti", time.Now().Add(time.Hour)))
	revoked, err := IsTokenRevoked(ctx, "jti")
	assert.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, CacheSet(ctx, "k", 1, time.Minute))
	var v int
	hit, err := CacheGet(ctx, "k", &v)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, CloseRedis())
}

func TestRevokeToken(t *testing.T) {
	server := useMiniredis(t)
	ctx := t.Context()

	require.NoError(t, RevokeToken(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err := IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, server.Exists(REDIS_REVOKED_TOKEN_PREFIX+"jti-1"))

	revoked, err = IsTokenRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, RevokeToken(ctx, "jti-old", time.Now().Add(-time.Minute)))
	assert.False(t, server.Exists(REDIS_REVOKED_TOKEN_PREFIX+"jti-old"))

	server.FastForward(2 * time.Hour)
	revoked, err = IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestCache(t *testing.T) {
	server := useMiniredis(t)
	ctx := t.Context()

	type payload struct {
		Total float64 `json:"total"`
	}

	var got payload
	hit, err := CacheGet(ctx, "dashboard", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, CacheSet(ctx, "dashboard", payload{Total: 1680}, 5*time.Minute))
	hit, err = CacheGet(ctx, "dashboard", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1680.0, got.Total)
	assert.Equal(t, 5*time.Minute, server.TTL(REDIS_CACHE_PREFIX+"dashboard"))

	require.NoError(t, server.Set(REDIS_CACHE_PREFIX+"broken", "{"))
	_, err = CacheGet(ctx, "broken", &got)
	assert.Error(t, err)
}

func TestConnectRedis(t *testing.T) {
	server := miniredis.RunT(t)
	t.Cleanup(func() {
		CloseRedis()
		UseRedis(nil)
	})

	assert.Error(t, ConnectRedis(t.Context(), "not a url"))
	require.NoError(t, ConnectRedis(t.Context(), "redis://"+server.Addr()+"/0"))
	assert.NoError(t, CacheSet(t.Context(), "k", "v", time.Minute))
	assert.True(t, server.Exists(REDIS_CACHE_PREFIX+"k"))
}
