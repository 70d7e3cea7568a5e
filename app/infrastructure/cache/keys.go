package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/scholarfed/engine/app/domain/document"
)

// fingerprint collapses a query+filters pair into a short, stable cache-key
// suffix, since SearchFilters carries slice fields that can't be used as a
// map/cache key directly.
func fingerprint(query string, filters document.SearchFilters) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%+v", query, filters)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// StatsCacheKey returns the cache key for an aggregated stats lookup.
func StatsCacheKey(query string, filters document.SearchFilters) string {
	return fmt.Sprintf(StatsCacheKeyPattern, fingerprint(query, filters))
}

// ProbeCacheKey returns the cache key for a signal-strength probe.
func ProbeCacheKey(query string, filters document.SearchFilters) string {
	return fmt.Sprintf(ProbeCacheKeyPattern, fingerprint(query, filters))
}

// TrendCacheKey returns the cache key for a trend-line probe.
func TrendCacheKey(query string, filters document.SearchFilters) string {
	return fmt.Sprintf(TrendCacheKeyPattern, fingerprint(query, filters))
}
