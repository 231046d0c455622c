package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jon4hz/todolab/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.CacheConfig {
	return &config.CacheConfig{Type: config.CacheTypeMemory, TTL: time.Minute}
}

func TestPrefixedCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewPrefixedCache[[]string](newMemoryCache(time.Minute), config.CacheTypeMemory, "test-")

	require.NoError(t, c.Set(ctx, 1, []string{"a", "b"}))

	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, config.CacheTypeMemory, c.GetType())

	require.NoError(t, c.Clear(ctx))
	_, err = c.Get(ctx, 1)
	assert.Error(t, err)
}

func TestPrefixedCache_PrefixesKeys(t *testing.T) {
	ctx := context.Background()
	shared := newMemoryCache(time.Minute)
	first := NewPrefixedCache[int64](shared, config.CacheTypeMemory, "first-")
	second := NewPrefixedCache[int64](shared, config.CacheTypeMemory, "second-")

	require.NoError(t, first.Set(ctx, "k", 1))
	require.NoError(t, second.Set(ctx, "k", 2))

	v, err := first.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = second.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestResultCache_PrimeSum(t *testing.T) {
	ctx := context.Background()
	rc := New(memoryConfig())

	calls := 0
	compute := func(n int) (int64, error) {
		calls++
		return int64(n * 10), nil
	}

	sum, hit, err := rc.PrimeSum(ctx, 5, compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(50), sum)

	sum, hit, err = rc.PrimeSum(ctx, 5, compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(50), sum)
	assert.Equal(t, 1, calls)

	require.NoError(t, rc.ClearAll(ctx))
	_, hit, err = rc.PrimeSum(ctx, 5, compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, calls)
}

func TestResultCache_PrimeSumErrorNotCached(t *testing.T) {
	ctx := context.Background()
	rc := New(memoryConfig())
	wantErr := errors.New("too large")

	_, _, err := rc.PrimeSum(ctx, 7, func(int) (int64, error) { return 0, wantErr })
	assert.ErrorIs(t, err, wantErr)

	_, err = rc.PrimeSums.Get(ctx, 7)
	assert.Error(t, err)
}
