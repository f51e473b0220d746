package cache

import (
	"context"
	"math"
	"testing"
	"time"

	"magnetic-field-service/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisFieldCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisFieldCache(client, ttl), mr
}

func TestRedisFieldCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, 0)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "bsfield:v1:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	vectors := []domain.Point{{Z: 1e-7}, {X: -2.5e-9, Y: math.Inf(1)}}
	require.NoError(t, c.Put(ctx, "bsfield:v1:abc", vectors))

	got, ok, err := c.Get(ctx, "bsfield:v1:abc")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, vectors[0], got[0])
	assert.Equal(t, -2.5e-9, got[1].X)
	assert.True(t, math.IsInf(got[1].Y, 1))
}

func TestRedisFieldCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", []domain.Point{{X: 1}}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisFieldCacheErrors(t *testing.T) {
	c, mr := newTestCache(t, 0)
	ctx := context.Background()

	require.Error(t, c.Put(ctx, "", nil))
	_, _, err := c.Get(ctx, "")
	require.Error(t, err)

	require.NoError(t, mr.Set("corrupt", "not cbor \xff"))
	_, _, err = c.Get(ctx, "corrupt")
	require.Error(t, err)

	empty := &RedisFieldCache{}
	_, _, err = empty.Get(ctx, "k")
	require.Error(t, err)
}
