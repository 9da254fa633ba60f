package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewWithClient(client), mr
}

func TestGetSetJSON(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var missing payload
	found, err := c.GetJSON(ctx, "movie:1", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	stored := payload{Title: "기생충", Year: 2019}
	require.NoError(t, c.SetJSON(ctx, "movie:1", stored, time.Minute))

	var got payload
	found, err = c.GetJSON(ctx, "movie:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, stored, got)

	mr.FastForward(2 * time.Minute)
	found, err = c.GetJSON(ctx, "movie:1", &got)
	require.NoError(t, err)
	assert.False(t, found, "entry must expire with its TTL")
}

func TestAside(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			*dest = payload{Title: "괴물", Year: 2006}
			return nil
		}
	}

	var first payload
	require.NoError(t, c.Aside(ctx, "movie:2", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "괴물", first.Title)

	var second payload
	require.NoError(t, c.Aside(ctx, "movie:2", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, calls, "hit must not re-fetch")
	assert.Equal(t, first, second)

	t.Run("Fetch failure is not cached", func(t *testing.T) {
		boom := errors.New("upstream down")
		var dest payload
		err := c.Aside(ctx, "movie:3", &dest, time.Minute, func() error { return boom })
		assert.ErrorIs(t, err, boom)

		found, err := c.GetJSON(ctx, "movie:3", &dest)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestDisabledCacheIsNoOp(t *testing.T) {
	var c Cache
	ctx := context.Background()

	assert.False(t, c.Enabled())
	require.NoError(t, c.SetJSON(ctx, "k", payload{}, time.Minute))

	var dest payload
	found, err := c.GetJSON(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found)

	calls := 0
	require.NoError(t, c.Aside(ctx, "k", &dest, time.Minute, func() error {
		calls++
		dest = payload{Title: "벌새"}
		return nil
	}))
	assert.Equal(t, 1, calls, "disabled cache always fetches")
	assert.Equal(t, "벌새", dest.Title)

	require.NoError(t, c.Aside(ctx, "k", &dest, time.Minute, func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 2, calls)
}
