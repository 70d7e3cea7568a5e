package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/probe"
	"github.com/scholarfed/engine/app/infrastructure/cache"
)

type fakeStatsSource struct {
	calls int
	stats document.Stats
}

func (f *fakeStatsSource) AggregatedStats(ctx context.Context, intent document.SearchIntent) document.Stats {
	f.calls++
	return f.stats
}

func TestCachedProbe_SignalStrength_CachesAcrossCalls(t *testing.T) {
	source := &fakeStatsSource{stats: document.Stats{TotalCount: 120, YearHistogram: map[int]int{2020: 60, 2021: 60}}}
	cp := cache.NewCachedProbe(probe.New(source), cache.NewRedisCacheService())

	first := cp.SignalStrength(context.Background(), "neural nets", document.SearchFilters{})
	second := cp.SignalStrength(context.Background(), "neural nets", document.SearchFilters{})

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, probe.BandFeasible, second.Band)
}

func TestCachedProbe_SignalStrength_DistinctQueriesDontCollide(t *testing.T) {
	source := &fakeStatsSource{stats: document.Stats{TotalCount: 5000}}
	cp := cache.NewCachedProbe(probe.New(source), cache.NewRedisCacheService())

	cp.SignalStrength(context.Background(), "a", document.SearchFilters{})
	cp.SignalStrength(context.Background(), "b", document.SearchFilters{})

	assert.Equal(t, 2, source.calls)
}

func TestCachedProbe_TrendLine_CachesUnboundedOnly(t *testing.T) {
	source := &fakeStatsSource{stats: document.Stats{YearHistogram: map[int]int{2019: 1, 2020: 2, 2021: 3}}}
	cp := cache.NewCachedProbe(probe.New(source), cache.NewRedisCacheService())

	unbounded1 := cp.TrendLine(context.Background(), "q", nil, nil)
	unbounded2 := cp.TrendLine(context.Background(), "q", nil, nil)
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, unbounded1, unbounded2)

	yearFrom := 2020
	bounded := cp.TrendLine(context.Background(), "q", &yearFrom, nil)
	assert.Equal(t, 2, source.calls)
	assert.Equal(t, map[int]int{2020: 2, 2021: 3}, bounded)
}

func TestCachedProbe_Compare_PopulatesEveryQuery(t *testing.T) {
	source := &fakeStatsSource{stats: document.Stats{TotalCount: 10}}
	cp := cache.NewCachedProbe(probe.New(source), cache.NewRedisCacheService())

	results := cp.Compare(context.Background(), []string{"a", "b", "c"}, document.SearchFilters{})
	assert.Len(t, results, 3)
	for _, q := range []string{"a", "b", "c"} {
		assert.Equal(t, probe.BandTooNarrow, results[q].Band)
	}
}
