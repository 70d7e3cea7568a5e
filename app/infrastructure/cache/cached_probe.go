package cache

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/probe"
	"github.com/scholarfed/engine/app/utils/logger"
)

// CachedProbe decorates a probe.Probe with an advisory Redis-backed cache,
// mirroring CachedStatsSource: feasibility/trend signals (spec §4.6) are
// advisory planning aids, not transactional data, so a short-lived stale
// read is acceptable.
type CachedProbe struct {
	inner *probe.Probe
	cache *RedisCacheService
}

// NewCachedProbe wraps inner with cache-aside SignalStrength/TrendLine,
// satisfying the facade's signalProbe surface.
func NewCachedProbe(inner *probe.Probe, cache *RedisCacheService) *CachedProbe {
	return &CachedProbe{inner: inner, cache: cache}
}

// SignalStrength serves from cache when a fresh entry exists, otherwise
// computes via inner and populates the cache for StatsCacheTTL.
func (c *CachedProbe) SignalStrength(ctx context.Context, query string, filters document.SearchFilters) probe.SignalMetrics {
	key := ProbeCacheKey(query, filters)

	if raw, err := c.cache.Get(ctx, key); err == nil {
		var cached probe.SignalMetrics
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached
		}
	}

	metrics := c.inner.SignalStrength(ctx, query, filters)

	if raw, err := json.Marshal(metrics); err == nil {
		if err := c.cache.Set(ctx, key, string(raw), StatsCacheTTL); err != nil {
			logger.GetLogger().Warnf("cache: failed to store probe signal strength: %v", err)
		}
	}
	return metrics
}

// TrendLine cache-asides the unbounded histogram only; a bounded request
// (yearStart/yearEnd set) is served straight from inner, which itself reads
// through the already cache-aside AggregatedStats call underneath it, so
// bounded requests stay cheap without needing a key that encodes the bounds.
func (c *CachedProbe) TrendLine(ctx context.Context, query string, yearStart, yearEnd *int) map[int]int {
	if yearStart != nil || yearEnd != nil {
		return c.inner.TrendLine(ctx, query, yearStart, yearEnd)
	}

	key := TrendCacheKey(query, document.SearchFilters{})

	if raw, err := c.cache.Get(ctx, key); err == nil {
		var cached map[int]int
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached
		}
	}

	histogram := c.inner.TrendLine(ctx, query, yearStart, yearEnd)

	if raw, err := json.Marshal(histogram); err == nil {
		if err := c.cache.Set(ctx, key, string(raw), StatsCacheTTL); err != nil {
			logger.GetLogger().Warnf("cache: failed to store probe trend line: %v", err)
		}
	}
	return histogram
}

// Compare fans SignalStrength out across queries concurrently, same shape
// as probe.Probe.Compare, but through this decorator's cache-aside path so
// repeated comparisons reuse cached per-query signals.
func (c *CachedProbe) Compare(ctx context.Context, queries []string, filters document.SearchFilters) map[string]probe.SignalMetrics {
	out := make(map[string]probe.SignalMetrics, len(queries))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, q := range queries {
		wg.Add(1)
		go func(query string) {
			defer wg.Done()
			metrics := c.SignalStrength(ctx, query, filters)
			mu.Lock()
			out[query] = metrics
			mu.Unlock()
		}(q)
	}
	wg.Wait()
	return out
}
