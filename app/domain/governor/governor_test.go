package governor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scholarfed/engine/app/domain/document"
)

// virtualClock lets tests advance time deterministically instead of
// sleeping (spec §9: "tests inject a deterministic governor driven by a
// virtual clock").
type virtualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newVirtualClock(start time.Time) *virtualClock {
	return &virtualClock{now: start}
}

func (c *virtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *virtualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestHasBudget_InitialCapacityAvailable(t *testing.T) {
	g := New(map[document.ProviderTag]BucketConfig{
		document.ProviderOpenAlex: {Capacity: 2, RefillRate: 1},
	})
	assert.True(t, g.HasBudget(document.ProviderOpenAlex))
}

func TestAcquire_DrainsAndRefills(t *testing.T) {
	clk := newVirtualClock(time.Unix(0, 0))
	g := newWithClock(map[document.ProviderTag]BucketConfig{
		document.ProviderOpenAlex: {Capacity: 2, RefillRate: 1},
	}, clk)

	ctx := context.Background()
	assert.NoError(t, g.Acquire(ctx, document.ProviderOpenAlex))
	assert.NoError(t, g.Acquire(ctx, document.ProviderOpenAlex))
	assert.False(t, g.HasBudget(document.ProviderOpenAlex))

	clk.Advance(1 * time.Second)
	assert.True(t, g.HasBudget(document.ProviderOpenAlex))
}

// I6: the governor never grants more than `capacity` permits within any
// interval equal to 1/refillRate for a given provider.
func TestAcquire_NeverExceedsCapacityPerRefillInterval(t *testing.T) {
	clk := newVirtualClock(time.Unix(0, 0))
	g := newWithClock(map[document.ProviderTag]BucketConfig{
		document.ProviderOpenAlex: {Capacity: 2, RefillRate: 1},
	}, clk)

	ctx := context.Background()
	granted := 0
	for i := 0; i < 2; i++ {
		assert.NoError(t, g.Acquire(ctx, document.ProviderOpenAlex))
		granted++
	}
	assert.Equal(t, 2, granted)
	assert.False(t, g.HasBudget(document.ProviderOpenAlex))
}

func TestRecordUsageAndResetDailyCounters(t *testing.T) {
	g := New(DefaultConfigs())
	g.RecordUsage(document.ProviderCrossref, 5)
	assert.EqualValues(t, 5, g.DailyUsage(document.ProviderCrossref))

	g.ResetDailyCounters()
	assert.EqualValues(t, 0, g.DailyUsage(document.ProviderCrossref))
}

func TestDefaultConfigs_MatchSpec(t *testing.T) {
	cfg := DefaultConfigs()
	assert.Equal(t, BucketConfig{Capacity: 10, RefillRate: 1.0}, cfg[document.ProviderOpenAlex])
	assert.Equal(t, BucketConfig{Capacity: 5, RefillRate: 1.0}, cfg[document.ProviderSemanticScholar])
	assert.Equal(t, BucketConfig{Capacity: 10, RefillRate: 1.0}, cfg[document.ProviderCrossref])
	assert.InDelta(t, 1.0/3.0, cfg[document.ProviderArxiv].RefillRate, 1e-9)
	assert.Equal(t, 1, cfg[document.ProviderArxiv].Capacity)
}
