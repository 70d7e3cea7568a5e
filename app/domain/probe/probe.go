// Package probe implements spec §4.6: feasibility classification and
// trend analysis over aggregated provider statistics, without
// materializing any documents.
package probe

import (
	"context"
	"sort"
	"sync"

	"github.com/scholarfed/engine/app/domain/document"
)

// FeasibilityBand classifies a total-result count for systematic-review
// planning (spec §4.6, GLOSSARY).
type FeasibilityBand string

const (
	BandTooNarrow  FeasibilityBand = "TOO_NARROW"
	BandFeasible   FeasibilityBand = "FEASIBLE"
	BandBorderline FeasibilityBand = "BORDERLINE"
	BandTooBroad   FeasibilityBand = "TOO_BROAD"
)

// ClassifyFeasibility buckets total into a feasibility band per the spec's
// thresholds: <50 too narrow, 50-500 feasible, 501-2000 borderline, >2000
// too broad.
func ClassifyFeasibility(total int) FeasibilityBand {
	switch {
	case total < 50:
		return BandTooNarrow
	case total <= 500:
		return BandFeasible
	case total <= 2000:
		return BandBorderline
	default:
		return BandTooBroad
	}
}

// risingGrowthThreshold is the relative-growth cutoff above which a trend
// is classified as rising (spec §4.6: "rising iff relative growth exceeds
// 5%").
const risingGrowthThreshold = 0.05

// SignalMetrics is the result of a single-query probe (spec §6
// probeSignalStrength).
type SignalMetrics struct {
	Query                string
	TotalCount           int
	Band                 FeasibilityBand
	IsRising             bool
	YearHistogram        map[int]int
	RefinementSuggestions []string
}

// statsSource is the subset of orchestrator behavior probe depends on.
type statsSource interface {
	AggregatedStats(ctx context.Context, intent document.SearchIntent) document.Stats
}

// Probe computes feasibility signal strength and trend lines for a query.
type Probe struct {
	stats statsSource
}

// New builds a Probe backed by an orchestrator-like statistics source.
func New(stats statsSource) *Probe {
	return &Probe{stats: stats}
}

// SignalStrength requests aggregated statistics for query, classifies
// feasibility, analyzes trend, and produces band-keyed refinement
// suggestions (spec §4.6).
func (p *Probe) SignalStrength(ctx context.Context, query string, filters document.SearchFilters) SignalMetrics {
	intent := document.SearchIntent{Query: query, Filters: filters, Mode: document.ModeDiscovery}
	stats := p.stats.AggregatedStats(ctx, intent)
	band := ClassifyFeasibility(stats.TotalCount)

	return SignalMetrics{
		Query:                 query,
		TotalCount:            stats.TotalCount,
		Band:                  band,
		IsRising:              IsRising(stats.YearHistogram),
		YearHistogram:         stats.YearHistogram,
		RefinementSuggestions: refinementSuggestions(band),
	}
}

// TrendLine requests the aggregated year histogram for query, optionally
// bounded to [yearStart, yearEnd] (spec §6 probeTrendLine).
func (p *Probe) TrendLine(ctx context.Context, query string, yearStart, yearEnd *int) map[int]int {
	intent := document.SearchIntent{Query: query, Mode: document.ModeDiscovery}
	stats := p.stats.AggregatedStats(ctx, intent)
	if yearStart == nil && yearEnd == nil {
		return stats.YearHistogram
	}
	out := make(map[int]int)
	for year, count := range stats.YearHistogram {
		if yearStart != nil && year < *yearStart {
			continue
		}
		if yearEnd != nil && year > *yearEnd {
			continue
		}
		out[year] = count
	}
	return out
}

// Compare runs SignalStrength concurrently for every query and returns a
// map from query to its metrics (spec §4.6 "compare(queries)").
func (p *Probe) Compare(ctx context.Context, queries []string, filters document.SearchFilters) map[string]SignalMetrics {
	out := make(map[string]SignalMetrics, len(queries))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, q := range queries {
		wg.Add(1)
		go func(query string) {
			defer wg.Done()
			metrics := p.SignalStrength(ctx, query, filters)
			mu.Lock()
			out[query] = metrics
			mu.Unlock()
		}(q)
	}
	wg.Wait()
	return out
}

// IsRising compares the mean count of the last two years in histogram to
// the mean of the two prior years; true iff relative growth exceeds 5%
// (spec §4.6, scenario 5).
func IsRising(histogram map[int]int) bool {
	if len(histogram) < 4 {
		return false
	}
	years := make([]int, 0, len(histogram))
	for y := range histogram {
		years = append(years, y)
	}
	sort.Ints(years)
	n := len(years)

	recentMean := mean(histogram[years[n-1]], histogram[years[n-2]])
	priorMean := mean(histogram[years[n-3]], histogram[years[n-4]])
	if priorMean == 0 {
		return recentMean > 0
	}
	growth := (recentMean - priorMean) / priorMean
	return growth > risingGrowthThreshold
}

func mean(a, b int) float64 {
	return float64(a+b) / 2.0
}

func refinementSuggestions(band FeasibilityBand) []string {
	switch band {
	case BandTooBroad:
		return []string{"add concept filters to narrow scope", "restrict to a narrower publication-year range"}
	case BandTooNarrow:
		return []string{"drop less essential search terms", "broaden the publication-year range"}
	case BandBorderline:
		return []string{"consider adding one concept filter to tighten scope"}
	default:
		return nil
	}
}
