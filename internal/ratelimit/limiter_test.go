package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/shurlix/shurlix/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	t.Run("counts requests within the window", func(t *testing.T) {
		store := ratelimit.NewMemoryStore()

		for want := int64(1); want <= 3; want++ {
			count, err := store.Record(context.Background(), "client", time.Minute)

			require.NoError(t, err)
			assert.Equal(t, want, count)
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		store := ratelimit.NewMemoryStore()

		_, err := store.Record(context.Background(), "a", time.Minute)
		require.NoError(t, err)

		count, err := store.Record(context.Background(), "b", time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("expired entries are pruned", func(t *testing.T) {
		store := ratelimit.NewMemoryStore()

		_, err := store.Record(context.Background(), "client", time.Nanosecond)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		count, err := store.Record(context.Background(), "client", time.Nanosecond)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestLimiterAllow(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore())
	limit := ratelimit.Limit{Max: 2, Window: time.Minute}

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(context.Background(), "client", limit)

		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(context.Background(), "client", limit)

	require.NoError(t, err)
	assert.False(t, allowed)

	// Other clients are unaffected.
	allowed, err = limiter.Allow(context.Background(), "other", limit)

	require.NoError(t, err)
	assert.True(t, allowed)
}
