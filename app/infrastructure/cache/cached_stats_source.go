package cache

import (
	"context"
	"encoding/json"

	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/orchestrator"
	"github.com/scholarfed/engine/app/utils/logger"
)

// CachedStatsSource decorates the orchestrator with an advisory
// Redis-backed statistics cache, since aggregated statistics are
// explicitly advisory rather than transactional (spec §7) and so tolerate
// a short-lived stale read. Search and Enrich pass straight through to the
// wrapped orchestrator; only AggregatedStats is cache-aside. It embeds the
// concrete *orchestrator.Orchestrator (rather than facade.FacadeOrchestrator)
// so the composition root needs no second, conflicting bind of that
// interface.
type CachedStatsSource struct {
	*orchestrator.Orchestrator
	cache *RedisCacheService
}

// NewCachedStatsSource wraps inner with cache-aside AggregatedStats,
// satisfying facade.FacadeOrchestrator itself so it can be handed directly
// to facade.New.
func NewCachedStatsSource(inner *orchestrator.Orchestrator, cache *RedisCacheService) *CachedStatsSource {
	return &CachedStatsSource{Orchestrator: inner, cache: cache}
}

// AggregatedStats serves from cache when a fresh entry exists, otherwise
// computes via inner and populates the cache for StatsCacheTTL.
func (c *CachedStatsSource) AggregatedStats(ctx context.Context, intent document.SearchIntent) document.Stats {
	key := StatsCacheKey(intent.Query, intent.Filters)

	if raw, err := c.cache.Get(ctx, key); err == nil {
		var cached document.Stats
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached
		}
	}

	stats := c.Orchestrator.AggregatedStats(ctx, intent)

	if raw, err := json.Marshal(stats); err == nil {
		if err := c.cache.Set(ctx, key, string(raw), StatsCacheTTL); err != nil {
			logger.GetLogger().Warnf("cache: failed to store aggregated stats: %v", err)
		}
	}
	return stats
}
