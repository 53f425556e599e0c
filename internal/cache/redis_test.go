package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisCache_RoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	c := NewRedisCache(client, "pages:")

	require.NoError(t, c.Set(ctx, "index", []byte("cached"), 20*time.Second))
	assert.True(t, mr.Exists("pages:index"))

	got, ok, _ := c.Get(ctx, "index")
	require.True(t, ok)
	assert.Equal(t, "cached", string(got))

	mr.FastForward(21 * time.Second)
	_, ok, _ = c.Get(ctx, "index")
	assert.False(t, ok)
}

func TestRedisCache_ClearOnlyOwnPrefix(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	c := NewRedisCache(client, "pages:")

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), time.Minute))
	}
	require.NoError(t, mr.Set("sessions:1", "keep"))

	require.NoError(t, c.Clear(ctx))

	for _, k := range []string{"a", "b", "c"} {
		_, ok, _ := c.Get(ctx, k)
		assert.False(t, ok, k)
	}
	assert.True(t, mr.Exists("sessions:1"))
}

func TestRedisCache_GetWhenServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	c := NewRedisCache(client, "pages:")
	mr.Close()

	_, ok, err := c.Get(context.Background(), "index")
	assert.False(t, ok)
	assert.Error(t, err)
}
