package rediscache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_GetSetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "session:revoked:abc", []byte("1"), time.Minute))

	b, ok, err := c.Get(ctx, "session:revoked:abc")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("1"), b)

	require.NoError(t, c.Del(ctx, "session:revoked:abc"))
	_, ok, err = c.Get(ctx, "session:revoked:abc")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisCache_TTLExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "ports:peru", []byte("[]"), 10*time.Minute))
	mr.FastForward(11 * time.Minute)

	_, ok, err := c.Get(ctx, "ports:peru")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisCache_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())
	mr.Close()

	_, _, err := c.Get(context.Background(), "k")
	require.Error(t, err)
	require.Error(t, c.Ping(context.Background()))
}

func TestRateLimiter_Allow(t *testing.T) {
	mr := miniredis.RunT(t)
	rl := NewRateLimiterWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	ctx := context.Background()
	ok, n, err := rl.Allow(ctx, "rl:report:ip:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), n)

	ok, n, _ = rl.Allow(ctx, "rl:report:ip:1.2.3.4", 2, time.Minute)
	require.True(t, ok)
	require.Equal(t, int64(2), n)

	ok, n, _ = rl.Allow(ctx, "rl:report:ip:1.2.3.4", 2, time.Minute)
	require.False(t, ok)
	require.Equal(t, int64(3), n)

	mr.FastForward(time.Minute + time.Second)
	ok, n, _ = rl.Allow(ctx, "rl:report:ip:1.2.3.4", 2, time.Minute)
	require.True(t, ok)
	require.Equal(t, int64(1), n)
}
