package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func TestMemoryCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(10)
	require.NoError(t, err)

	_, ok, _ := c.Get(ctx, "index")
	assert.False(t, ok)

	body := []byte("<html>page</html>")
	require.NoError(t, c.Set(ctx, "index", body, time.Minute))
	body[0] = 'X'

	got, ok, _ := c.Get(ctx, "index")
	require.True(t, ok)
	assert.Equal(t, "<html>page</html>", string(got))
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	c, err := NewMemoryCache(10)
	require.NoError(t, err)
	c.WithClock(clock.Now)

	require.NoError(t, c.Set(ctx, "index", []byte("v1"), 20*time.Second))

	clock.Advance(19 * time.Second)
	_, ok, _ := c.Get(ctx, "index")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok, _ = c.Get(ctx, "index")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestMemoryCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(10)
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, c.Clear(ctx))

	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "b")
	assert.False(t, ok)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(2)
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))
	c.Get(ctx, "a")
	require.NoError(t, c.Set(ctx, "c", []byte("3"), time.Minute))

	_, ok, _ := c.Get(ctx, "b")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "a")
	assert.True(t, ok)
}

func TestNewMemoryCache_InvalidSize(t *testing.T) {
	_, err := NewMemoryCache(0)
	assert.Error(t, err)
}
