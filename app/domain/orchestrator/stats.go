package orchestrator

import (
	"context"
	"strings"
	"sync"

	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/provider"
	"github.com/scholarfed/engine/app/utils/logger"
)

// AggregatedStats runs getStats in parallel across every provider
// supporting statistics and merges the results (spec §4.5 "Aggregated
// statistics"): year histograms combine by per-year maximum (providers
// report overlapping but incomplete slices — max is the conservative
// estimate of "at least this many papers exist in year Y"), totals take
// the maximum of reported totals, and concept lists union preserving
// highest-observed position. A per-provider failure contributes zero
// (spec §7: "the probe treats any per-provider failure as zero
// contribution... the caller sees conservative (underestimated)
// aggregates").
func (o *Orchestrator) AggregatedStats(ctx context.Context, intent document.SearchIntent) document.Stats {
	var supporting []provider.Adapter
	for _, adapter := range o.registry.All() {
		if adapter.Capabilities().Has(document.CapabilityStatistics) {
			supporting = append(supporting, adapter)
		}
	}

	results := make([]document.Stats, len(supporting))
	var wg sync.WaitGroup
	for i, adapter := range supporting {
		wg.Add(1)
		go func(i int, a provider.Adapter) {
			defer wg.Done()
			stats, err := a.GetStats(ctx, intent)
			if err != nil {
				logger.GetLogger().WithField("provider", a.ID()).
					Warnf("probe stats: provider failed, contributing zero: %v", err)
				return
			}
			results[i] = stats
		}(i, adapter)
	}
	wg.Wait()

	return mergeStats(results)
}

func mergeStats(results []document.Stats) document.Stats {
	merged := document.Stats{YearHistogram: make(map[int]int)}
	var conceptOrder []string
	seenConcept := make(map[string]struct{})
	byName := make(map[string]document.Concept)

	for _, s := range results {
		if s.TotalCount > merged.TotalCount {
			merged.TotalCount = s.TotalCount
		}
		if s.EstimatedMs > merged.EstimatedMs {
			merged.EstimatedMs = s.EstimatedMs
		}
		for year, count := range s.YearHistogram {
			if count > merged.YearHistogram[year] {
				merged.YearHistogram[year] = count
			}
		}
		for _, c := range s.TopConcepts {
			key := strings.ToLower(c.Name)
			if _, ok := seenConcept[key]; !ok {
				seenConcept[key] = struct{}{}
				conceptOrder = append(conceptOrder, key)
				byName[key] = c
				continue
			}
			if c.RelevanceScore > byName[key].RelevanceScore {
				existing := byName[key]
				existing.RelevanceScore = c.RelevanceScore
				byName[key] = existing
			}
		}
	}

	for _, key := range conceptOrder {
		merged.TopConcepts = append(merged.TopConcepts, byName[key])
	}
	return merged
}
