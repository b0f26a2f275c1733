package reportcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache := NewRedis(RedisOptions{Addr: mr.Addr(), TTL: ttl})
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestRedisCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestRedis(t, time.Hour)

	_, ok, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Put(ctx, "u1", sampleEntry()))
	assert.True(t, mr.Exists("compsherpa:report:u1"))
	assert.Equal(t, time.Hour, mr.TTL("compsherpa:report:u1"))

	got, ok, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleEntry().Fingerprint, got.Fingerprint)
	assert.Equal(t, sampleEntry().Report, got.Report)
	assert.True(t, sampleEntry().GeneratedAt.Equal(got.GeneratedAt))
	assert.NoError(t, cache.Ping(ctx))
}

func TestRedisCache_Expires(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestRedis(t, time.Minute)

	require.NoError(t, cache.Put(ctx, "u1", sampleEntry()))
	mr.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_CorruptValue(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestRedis(t, 0)
	require.NoError(t, mr.Set("compsherpa:report:u1", "not json"))

	_, ok, err := cache.Get(ctx, "u1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCache_BackendErrors(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	cache := NewRedisWithClient(db, 0, "test:")

	mock.ExpectGet("test:u1").SetErr(errors.New("connection refused"))
	_, _, err := cache.Get(ctx, "u1")
	assert.ErrorContains(t, err, "redis get failed")

	mock.ExpectPing().SetErr(errors.New("connection refused"))
	assert.ErrorContains(t, cache.Ping(ctx), "redis ping failed")

	assert.NoError(t, mock.ExpectationsWereMet())
}
