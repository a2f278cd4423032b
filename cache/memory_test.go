package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_BasicOperations(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(nil)
	defer mc.Close()

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, mc.Set(ctx, "plans", []byte(`[{"plan_code":"basic"}]`), 0))

		got, err := mc.Get(ctx, "plans")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"plan_code":"basic"}]`, string(got))
	})

	t.Run("Missing key", func(t *testing.T) {
		_, err := mc.Get(ctx, "plan_missing")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, mc.Set(ctx, "plan_basic", []byte("{}"), 0))
		require.NoError(t, mc.Delete(ctx, "plan_basic"))
		require.NoError(t, mc.Delete(ctx, "plan_basic"), "deleting a missing key is not an error")

		exists, err := mc.Exists(ctx, "plan_basic")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Stored value is copied", func(t *testing.T) {
		value := []byte("abc")
		require.NoError(t, mc.Set(ctx, "copy", value, 0))
		value[0] = 'x'

		got, err := mc.Get(ctx, "copy")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(got))
	})
}

func TestMemoryCache_TTL(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(&Config{MemorySize: 8, DefaultTTL: time.Hour})

	require.NoError(t, mc.Set(ctx, "short", []byte("1"), 20*time.Millisecond))
	require.NoError(t, mc.Set(ctx, "long", []byte("2"), 0))

	assert.Eventually(t, func() bool {
		_, err := mc.Get(ctx, "short")
		return err == ErrKeyNotFound
	}, time.Second, 10*time.Millisecond)

	_, err := mc.Get(ctx, "long")
	assert.NoError(t, err)
}

func TestMemoryCache_Eviction(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(&Config{MemorySize: 2, DefaultTTL: time.Hour})

	require.NoError(t, mc.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, mc.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, mc.Set(ctx, "c", []byte("3"), 0))

	assert.Equal(t, 2, mc.Len())
	_, err := mc.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryCache_Closed(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(nil)
	require.NoError(t, mc.Close())
	require.NoError(t, mc.Close())

	_, err := mc.Get(ctx, "plans")
	assert.ErrorIs(t, err, ErrCacheClosed)
	assert.ErrorIs(t, mc.Set(ctx, "plans", nil, 0), ErrCacheClosed)
	assert.ErrorIs(t, mc.Ping(ctx), ErrCacheClosed)
}
