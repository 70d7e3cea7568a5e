package cache

import "time"

const (
	// CacheVersion is the API version prefix for cache keys.
	CacheVersion = "v1"

	// StatsCacheKeyPattern formats cache keys for an aggregated stats
	// lookup, keyed by the normalized query+filter fingerprint.
	StatsCacheKeyPattern = CacheVersion + ":stats:%s"

	// ProbeCacheKeyPattern formats cache keys for a signal-strength probe
	// result, keyed the same way as stats.
	ProbeCacheKeyPattern = CacheVersion + ":probe:%s"

	// TrendCacheKeyPattern formats cache keys for a trend-line probe
	// result.
	TrendCacheKeyPattern = CacheVersion + ":trend:%s"

	// StatsCacheTTL bounds how long an aggregated stats/probe result is
	// served from cache before the orchestrator is asked again (spec §7:
	// statistics are advisory, not transactional, so a short TTL is
	// acceptable).
	StatsCacheTTL = 15 * time.Minute
)
