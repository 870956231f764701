package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arikaim/controllers/pkg/cache"
)

func TestMemory_SetGet(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[string]()
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", -1))

	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestMemory_Missing(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[int]()
	defer c.Close()

	_, err := c.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemory_Expiration(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[string]()
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))

	time.Sleep(30 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemory_DefaultTTL(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[string](cache.WithDefaultTTL(10 * time.Millisecond))
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", 0))

	time.Sleep(30 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemory_DeleteAndClear(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[string]()
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", "1", -1))
	require.NoError(t, c.Set(ctx, "b", "2", -1))

	require.NoError(t, c.Delete(ctx, "a"))
	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Clear(ctx))
	_, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemory_SetAfterClose(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[string]()
	require.NoError(t, c.Close())

	err := c.Set(context.Background(), "k", "v", -1)
	assert.ErrorIs(t, err, cache.ErrClosed)
}

func TestGetOrSet(t *testing.T) {
	t.Parallel()

	t.Run("computes on miss and caches", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		ctx := context.Background()
		calls := 0
		fn := func(context.Context) (string, time.Duration, error) {
			calls++
			return "computed", -1, nil
		}

		v, err := cache.GetOrSet(ctx, c, "key-a", fn)
		require.NoError(t, err)
		assert.Equal(t, "computed", v)

		v, err = cache.GetOrSet(ctx, c, "key-a", fn)
		require.NoError(t, err)
		assert.Equal(t, "computed", v)
		assert.Equal(t, 1, calls)
	})

	t.Run("error is not cached", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		ctx := context.Background()
		boom := errors.New("boom")
		_, err := cache.GetOrSet(ctx, c, "key-b", func(context.Context) (string, time.Duration, error) {
			return "", 0, boom
		})
		assert.ErrorIs(t, err, boom)

		v, err := cache.GetOrSet(ctx, c, "key-b", func(context.Context) (string, time.Duration, error) {
			return "ok", -1, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", v)
	})
}
