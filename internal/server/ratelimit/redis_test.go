package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLimiter_BlocksAfterLimit(t *testing.T) {
	mr, client := newMiniredis(t)
	l := NewRedisLimiter(client, 2, time.Minute)
	ctx := context.Background()

	assert.True(t, allowed(t, l, "alice"))
	require.NoError(t, l.Fail(ctx, "alice"))
	assert.True(t, allowed(t, l, "alice"))
	require.NoError(t, l.Fail(ctx, "alice"))
	assert.False(t, allowed(t, l, "alice"))

	ttl := mr.TTL(redisKeyPrefix + "alice")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	mr.FastForward(time.Minute)
	assert.True(t, allowed(t, l, "alice"))
}

func TestRedisLimiter_WindowNotExtendedByLaterFailures(t *testing.T) {
	mr, client := newMiniredis(t)
	l := NewRedisLimiter(client, 5, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Fail(ctx, "alice"))
	mr.FastForward(40 * time.Second)
	require.NoError(t, l.Fail(ctx, "alice"))

	assert.LessOrEqual(t, mr.TTL(redisKeyPrefix+"alice"), 20*time.Second)
}

func TestRedisLimiter_Reset(t *testing.T) {
	mr, client := newMiniredis(t)
	l := NewRedisLimiter(client, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Fail(ctx, "alice"))
	assert.False(t, allowed(t, l, "alice"))
	require.NoError(t, l.Reset(ctx, "alice"))
	assert.True(t, allowed(t, l, "alice"))
	assert.False(t, mr.Exists(redisKeyPrefix+"alice"))
}

func TestRedisLimiter_ServerDown(t *testing.T) {
	mr, client := newMiniredis(t)
	l := NewRedisLimiter(client, 1, time.Minute)
	mr.Close()

	_, err := l.Allowed(context.Background(), "alice")
	assert.Error(t, err)
	assert.Error(t, l.Fail(context.Background(), "alice"))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), mr.Addr())
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = NewRedisClient(context.Background(), "")
	assert.Error(t, err)
}
