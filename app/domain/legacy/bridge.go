// Package legacy presents the orchestrator behind a simpler paged/bounded
// adapter for downstream legacy consumers (spec §4.7).
package legacy

import (
	"context"
	"strconv"
	"time"

	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/utils/logger"
)

// Searcher is the subset of orchestrator behavior the bridge depends on,
// exported so the composition root can bind a concrete orchestrator to it.
type Searcher interface {
	Search(ctx context.Context, intent document.SearchIntent, emit func(document.ScholarlyDocument) error) error
}

// Bridge adapts the orchestrator to the legacy paged-search shape.
type Bridge struct {
	orchestrator Searcher
}

// New builds a Bridge over an orchestrator-like searcher.
func New(orchestrator Searcher) *Bridge {
	return &Bridge{orchestrator: orchestrator}
}

// PagedResult is the legacy consumer's expected return shape.
type PagedResult struct {
	Documents   []document.ScholarlyDocument
	HasMore     bool
	ElapsedTime time.Duration
}

// Search executes query with limit/offset and legacy string-keyed
// filters, recognizing from_year, to_year, has_pdf, open_access (spec
// §4.7). Exceptions are swallowed and converted to an empty result with
// execution-time measurement preserved.
func (b *Bridge) Search(ctx context.Context, query string, limit, offset int, legacyFilters map[string]string) (result PagedResult) {
	start := time.Now()
	defer func() {
		result.ElapsedTime = time.Since(start)
		if r := recover(); r != nil {
			logger.GetLogger().Errorf("legacy bridge: recovered panic: %v", r)
			result = PagedResult{ElapsedTime: time.Since(start)}
		}
	}()

	intent := document.SearchIntent{
		Query:          query,
		Filters:        convertFilters(legacyFilters),
		Mode:           document.ModeDiscovery,
		PerProviderCap: limit,
		Offset:         offset,
	}

	var docs []document.ScholarlyDocument
	err := b.orchestrator.Search(ctx, intent, func(d document.ScholarlyDocument) error {
		docs = append(docs, d)
		return nil
	})
	if err != nil {
		logger.GetLogger().Warnf("legacy bridge: search failed, returning empty result: %v", err)
		return PagedResult{ElapsedTime: time.Since(start)}
	}

	hasMore := len(docs) > limit
	if hasMore {
		docs = docs[:limit]
	}
	return PagedResult{Documents: docs, HasMore: hasMore}
}

// convertFilters recognizes the legacy string-keyed filter map and builds
// structured SearchFilters (spec §4.7). Unrecognized keys are ignored;
// malformed values are ignored rather than causing an error, consistent
// with the bridge's "exceptions are swallowed" obligation.
func convertFilters(legacy map[string]string) document.SearchFilters {
	var filters document.SearchFilters
	if v, ok := legacy["from_year"]; ok {
		if year, err := strconv.Atoi(v); err == nil {
			filters.YearFrom = &year
		}
	}
	if v, ok := legacy["to_year"]; ok {
		if year, err := strconv.Atoi(v); err == nil {
			filters.YearTo = &year
		}
	}
	if v, ok := legacy["has_pdf"]; ok {
		filters.PDFOnly = v == "true" || v == "1"
	}
	if v, ok := legacy["open_access"]; ok {
		filters.OpenAccessOnly = v == "true" || v == "1"
	}
	return filters
}
