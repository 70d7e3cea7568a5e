package probe_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/probe"
)

type fakeStatsSource struct {
	stats document.Stats
}

func (f fakeStatsSource) AggregatedStats(ctx context.Context, intent document.SearchIntent) document.Stats {
	return f.stats
}

func TestClassifyFeasibility(t *testing.T) {
	assert.Equal(t, probe.BandTooNarrow, probe.ClassifyFeasibility(25))
	assert.Equal(t, probe.BandFeasible, probe.ClassifyFeasibility(200))
	assert.Equal(t, probe.BandBorderline, probe.ClassifyFeasibility(1000))
	assert.Equal(t, probe.BandTooBroad, probe.ClassifyFeasibility(5000))
}

func TestIsRising(t *testing.T) {
	histogram := map[int]int{2020: 10, 2021: 12, 2022: 30, 2023: 40}
	assert.True(t, probe.IsRising(histogram))

	flat := map[int]int{2020: 10, 2021: 10, 2022: 10, 2023: 10}
	assert.False(t, probe.IsRising(flat))
}

func TestSignalStrength(t *testing.T) {
	source := fakeStatsSource{stats: document.Stats{
		TotalCount:    200,
		YearHistogram: map[int]int{2020: 10, 2021: 12, 2022: 30, 2023: 40},
	}}
	p := probe.New(source)
	metrics := p.SignalStrength(context.Background(), "diabetes", document.SearchFilters{})

	assert.Equal(t, probe.BandFeasible, metrics.Band)
	assert.True(t, metrics.IsRising)
	assert.Equal(t, 200, metrics.TotalCount)
}

func TestCompare_RunsAllQueries(t *testing.T) {
	source := fakeStatsSource{stats: document.Stats{TotalCount: 25}}
	p := probe.New(source)
	results := p.Compare(context.Background(), []string{"a", "b", "c"}, document.SearchFilters{})

	assert.Len(t, results, 3)
	for _, q := range []string{"a", "b", "c"} {
		assert.Equal(t, probe.BandTooNarrow, results[q].Band)
	}
}

func TestTrendLine_YearBounds(t *testing.T) {
	source := fakeStatsSource{stats: document.Stats{
		YearHistogram: map[int]int{2018: 5, 2019: 8, 2020: 10},
	}}
	p := probe.New(source)
	start := 2019
	trend := p.TrendLine(context.Background(), "q", &start, nil)

	assert.NotContains(t, trend, 2018)
	assert.Contains(t, trend, 2019)
	assert.Contains(t, trend, 2020)
}
