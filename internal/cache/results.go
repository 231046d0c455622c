package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/jon4hz/todolab/internal/config"
)

// Cache key prefixes.
const (
	PrimeSumCachePrefix = "prime-sum-"
)

// ResultCache memoizes results of the expensive lab endpoints.
type ResultCache struct {
	PrimeSums *PrefixedCache[int64]
	ttl       time.Duration
}

// New creates the result cache for the configured engine.
func New(cfg *config.CacheConfig) *ResultCache {
	return &ResultCache{
		PrimeSums: NewPrefixedCache[int64](
			newCacheInstanceByType(cfg),
			cfg.Type,
			PrimeSumCachePrefix,
		),
		ttl: cfg.TTL,
	}
}

// PrimeSum returns the cached prime sum for n or computes and stores it.
// The second return value reports a cache hit. Cache failures only cost a recomputation.
func (r *ResultCache) PrimeSum(ctx context.Context, n int, compute func(int) (int64, error)) (int64, bool, error) {
	if sum, err := r.PrimeSums.Get(ctx, n); err == nil {
		return sum, true, nil
	}

	sum, err := compute(n)
	if err != nil {
		return 0, false, err
	}

	if err := r.PrimeSums.Set(ctx, n, sum, store.WithExpiration(r.ttl)); err != nil {
		log.Warn("failed to cache prime sum", "n", n, "error", err)
	}
	return sum, false, nil
}

// ClearAll empties every cache.
func (r *ResultCache) ClearAll(ctx context.Context) error {
	if err := r.PrimeSums.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear %s cache: %w", r.PrimeSums.GetType(), err)
	}
	return nil
}
