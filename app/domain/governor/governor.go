// Package governor implements the per-provider rate limiter (spec §4.3):
// token buckets with burst capacity and continuous fractional refill,
// plus advisory daily usage counters reset at UTC midnight.
package governor

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/config/environment_variables"
)

// BucketConfig is one provider's burst capacity and refill rate.
type BucketConfig struct {
	Capacity   int
	RefillRate float64 // tokens per second
}

// DefaultConfigs returns the spec's default bucket configuration per
// provider (spec §4.3).
func DefaultConfigs() map[document.ProviderTag]BucketConfig {
	return map[document.ProviderTag]BucketConfig{
		document.ProviderOpenAlex:        {Capacity: 10, RefillRate: 1.0},
		document.ProviderSemanticScholar: {Capacity: 5, RefillRate: 1.0},
		document.ProviderCrossref:        {Capacity: 10, RefillRate: 1.0},
		document.ProviderArxiv:           {Capacity: 1, RefillRate: 1.0 / 3.0},
	}
}

// clock abstracts time.Now so tests can inject a virtual clock (spec §9
// "Global state": "tests inject a deterministic governor driven by a
// virtual clock").
type clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type bucket struct {
	mu         sync.Mutex
	capacity   decimal.Decimal
	refillRate decimal.Decimal // tokens per second
	level      decimal.Decimal
	lastRefill time.Time
	dailyUsage int64
}

func newBucket(cfg BucketConfig, now time.Time) *bucket {
	return &bucket{
		capacity:   decimal.NewFromInt(int64(cfg.Capacity)),
		refillRate: decimal.NewFromFloat(cfg.RefillRate),
		level:      decimal.NewFromInt(int64(cfg.Capacity)),
		lastRefill: now,
	}
}

func (b *bucket) refillLocked(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	gained := b.refillRate.Mul(decimal.NewFromFloat(elapsed))
	b.level = decimal.Min(b.capacity, b.level.Add(gained))
	b.lastRefill = now
}

// Governor is a process-wide singleton mutating per-provider buckets
// under fine-grained per-provider locks (spec §5 "Shared resource
// policy").
type Governor struct {
	clk     clock
	mu      sync.Mutex
	buckets map[document.ProviderTag]*bucket
}

// New builds a Governor from the given per-provider configs.
func New(configs map[document.ProviderTag]BucketConfig) *Governor {
	return newWithClock(configs, realClock{})
}

// NewFromEnv builds a Governor using DefaultConfigs with any per-provider
// overrides set via environment_variables (wire entrypoint).
func NewFromEnv() *Governor {
	env := environment_variables.EnvironmentVariables
	configs := DefaultConfigs()
	configs[document.ProviderOpenAlex] = BucketConfig{Capacity: env.OpenAlexBucketCapacity, RefillRate: env.OpenAlexBucketRefillPerSec}
	configs[document.ProviderSemanticScholar] = BucketConfig{Capacity: env.SemanticScholarBucketCapacity, RefillRate: env.SemanticScholarBucketRefillRate}
	configs[document.ProviderCrossref] = BucketConfig{Capacity: env.CrossrefBucketCapacity, RefillRate: env.CrossrefBucketRefillRate}
	configs[document.ProviderArxiv] = BucketConfig{Capacity: env.ArxivBucketCapacity, RefillRate: env.ArxivBucketRefillRate}
	return New(configs)
}

func newWithClock(configs map[document.ProviderTag]BucketConfig, clk clock) *Governor {
	g := &Governor{clk: clk, buckets: make(map[document.ProviderTag]*bucket)}
	now := clk.Now()
	for tag, cfg := range configs {
		g.buckets[tag] = newBucket(cfg, now)
	}
	return g
}

func (g *Governor) bucketFor(tag document.ProviderTag) *bucket {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, ok := g.buckets[tag]
	if !ok {
		b = newBucket(BucketConfig{Capacity: 1, RefillRate: 1}, g.clk.Now())
		g.buckets[tag] = b
	}
	return b
}

// Acquire suspends the caller until one token is available for
// providerID, or ctx is done. Refill is continuous.
func (g *Governor) Acquire(ctx context.Context, providerID document.ProviderTag) error {
	b := g.bucketFor(providerID)
	one := decimal.NewFromInt(1)

	for {
		b.mu.Lock()
		now := g.clk.Now()
		b.refillLocked(now)
		if b.level.GreaterThanOrEqual(one) {
			b.level = b.level.Sub(one)
			b.mu.Unlock()
			return nil
		}
		// Compute wait time until one more whole token accrues.
		deficit := one.Sub(b.level)
		waitSeconds, _ := deficit.Div(b.refillRate).Float64()
		b.mu.Unlock()

		if waitSeconds <= 0 {
			waitSeconds = 0.001
		}
		timer := time.NewTimer(time.Duration(waitSeconds * float64(time.Second)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// HasBudget is a non-blocking probe: true iff at least one whole token is
// currently available for providerID.
func (g *Governor) HasBudget(providerID document.ProviderTag) bool {
	b := g.bucketFor(providerID)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refillLocked(g.clk.Now())
	return b.level.GreaterThanOrEqual(decimal.NewFromInt(1))
}

// RecordUsage is advisory: it only affects higher-level daily quota
// accounting, not burst enforcement.
func (g *Governor) RecordUsage(providerID document.ProviderTag, n int) {
	b := g.bucketFor(providerID)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dailyUsage += int64(n)
}

// DailyUsage returns the advisory usage counter accumulated since the
// last ResetDailyCounters call.
func (g *Governor) DailyUsage(providerID document.ProviderTag) int64 {
	b := g.bucketFor(providerID)
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dailyUsage
}

// ResetDailyCounters zeroes every provider's advisory daily usage
// counter. Invoked by the cron service at UTC midnight.
func (g *Governor) ResetDailyCounters() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, b := range g.buckets {
		b.mu.Lock()
		b.dailyUsage = 0
		b.mu.Unlock()
	}
}
