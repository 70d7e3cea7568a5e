// Package facade exposes the engine's public entry points (spec §6):
// search, enrich, stats, and probe operations, consumed by the HTTP and
// MCP interface layers.
package facade

import (
	"context"

	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/probe"
)

// searcher/enricher/statsSource narrow the orchestrator dependency to
// exactly what the facade needs, so interface-layer tests can inject
// fakes without constructing a full orchestrator.
type searcher interface {
	Search(ctx context.Context, intent document.SearchIntent, emit func(document.ScholarlyDocument) error) error
}

type enricher interface {
	Enrich(ctx context.Context, doc document.ScholarlyDocument) (*document.ScholarlyDocument, error)
	EnrichBatch(ctx context.Context, docs []document.ScholarlyDocument) ([]*document.ScholarlyDocument, error)
}

type statsSource interface {
	AggregatedStats(ctx context.Context, intent document.SearchIntent) document.Stats
}

// FacadeOrchestrator is the orchestrator surface the facade depends on,
// exported so the composition root can bind a concrete orchestrator to it
// (wire.Bind requires a nameable interface type).
type FacadeOrchestrator interface {
	searcher
	enricher
	statsSource
}

// signalProbe is the probe surface the facade depends on, narrowed so the
// composition root can hand in either a bare *probe.Probe or a
// cache-decorated one (infrastructure/cache.CachedProbe) without the
// facade importing infrastructure.
type signalProbe interface {
	SignalStrength(ctx context.Context, query string, filters document.SearchFilters) probe.SignalMetrics
	TrendLine(ctx context.Context, query string, yearStart, yearEnd *int) map[int]int
	Compare(ctx context.Context, queries []string, filters document.SearchFilters) map[string]probe.SignalMetrics
}

// Facade implements every method of spec §6's "Core facade surface".
type Facade struct {
	orchestrator FacadeOrchestrator
	probe        signalProbe
}

// New builds a Facade over an orchestrator satisfying Search/Enrich/
// AggregatedStats, and a probe satisfying signalProbe (ordinarily
// probe.New(orchestrator), or a cache-decorated wrapper around one).
func New(orchestrator FacadeOrchestrator, probe signalProbe) *Facade {
	return &Facade{
		orchestrator: orchestrator,
		probe:        probe,
	}
}

// Search is the discovery-stream entry point (spec §6 `search`).
func (f *Facade) Search(ctx context.Context, query string, filters document.SearchFilters, maxResults int, emit func(document.ScholarlyDocument) error) error {
	return f.SearchWithIntent(ctx, document.SearchIntent{
		Query:          query,
		Filters:        filters,
		Mode:           document.ModeDiscovery,
		PerProviderCap: maxResults,
	}, emit)
}

// SearchWithIntent is the full-control entry point (spec §6
// `searchWithIntent`).
func (f *Facade) SearchWithIntent(ctx context.Context, intent document.SearchIntent, emit func(document.ScholarlyDocument) error) error {
	return f.orchestrator.Search(ctx, intent, emit)
}

// Enrich hydrates doc via its originating provider, or a DOI-matching
// fallback (spec §6 `enrich`).
func (f *Facade) Enrich(ctx context.Context, doc document.ScholarlyDocument) (*document.ScholarlyDocument, error) {
	return f.orchestrator.Enrich(ctx, doc)
}

// EnrichBatch hydrates many documents at once, grouping by originating
// provider so a provider offering a multi-id endpoint (Semantic Scholar's
// /paper/batch) is called once instead of once per document.
func (f *Facade) EnrichBatch(ctx context.Context, docs []document.ScholarlyDocument) ([]*document.ScholarlyDocument, error) {
	return f.orchestrator.EnrichBatch(ctx, docs)
}

// GetStats returns aggregated statistics scoped to query/filters (spec §6
// `getStats`).
func (f *Facade) GetStats(ctx context.Context, query string, filters document.SearchFilters) document.Stats {
	intent := document.SearchIntent{Query: query, Filters: filters, Mode: document.ModeDiscovery}
	return f.orchestrator.AggregatedStats(ctx, intent)
}

// ProbeSignalStrength returns feasibility classification and trend with
// refinement suggestions (spec §6 `probeSignalStrength`).
func (f *Facade) ProbeSignalStrength(ctx context.Context, query string) probe.SignalMetrics {
	return f.probe.SignalStrength(ctx, query, document.SearchFilters{})
}

// ProbeTrendLine returns the year-count histogram, optionally bounded
// (spec §6 `probeTrendLine`).
func (f *Facade) ProbeTrendLine(ctx context.Context, query string, yearStart, yearEnd *int) map[int]int {
	return f.probe.TrendLine(ctx, query, yearStart, yearEnd)
}

// CompareQueries runs probes concurrently across queries (spec §6
// `compareQueries`).
func (f *Facade) CompareQueries(ctx context.Context, queries []string) map[string]probe.SignalMetrics {
	return f.probe.Compare(ctx, queries, document.SearchFilters{})
}
