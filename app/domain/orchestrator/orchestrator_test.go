package orchestrator_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/doi"
	"github.com/scholarfed/engine/app/domain/orchestrator"
	"github.com/scholarfed/engine/app/domain/provider"
)

// fakeGovernor grants every acquire immediately and always reports
// budget, letting tests focus on fan-out/dedup behavior.
type fakeGovernor struct{}

func (fakeGovernor) Acquire(ctx context.Context, providerID document.ProviderTag) error { return nil }
func (fakeGovernor) HasBudget(providerID document.ProviderTag) bool                     { return true }
func (fakeGovernor) RecordUsage(providerID document.ProviderTag, n int)                 {}

type fakeAdapter struct {
	tag     document.ProviderTag
	caps    document.CapabilitySet
	results []document.ProviderResult
}

func (a *fakeAdapter) ID() document.ProviderTag             { return a.tag }
func (a *fakeAdapter) Capabilities() document.CapabilitySet { return a.caps }
func (a *fakeAdapter) Health(ctx context.Context) error     { return nil }
func (a *fakeAdapter) DebugQueryTranslation(document.SearchIntent) string { return "" }
func (a *fakeAdapter) FetchDetails(ctx context.Context, id string) (*document.ScholarlyDocument, error) {
	return nil, nil
}
func (a *fakeAdapter) GetStats(ctx context.Context, intent document.SearchIntent) (document.Stats, error) {
	return document.Stats{}, nil
}
func (a *fakeAdapter) Search(ctx context.Context, intent document.SearchIntent, emit func(document.ProviderResult) error) error {
	for _, r := range a.results {
		if err := emit(r); err != nil {
			return err
		}
	}
	return nil
}

func doiOf(s string) doi.DOI {
	d, _ := doi.Parse(s)
	return d
}

func TestSearch_MergesAcrossProviders(t *testing.T) {
	registry := provider.NewRegistry()
	registry.Register(&fakeAdapter{
		tag:  document.ProviderOpenAlex,
		caps: document.NewCapabilitySet(document.CapabilityTextSearch),
		results: []document.ProviderResult{
			document.Success([]document.ScholarlyDocument{
				{InternalID: "oa:1", SourceProvider: document.ProviderOpenAlex, DOI: doiOf("10.1/x"), Title: "A", CitationCount: 100},
			}, 1, false),
		},
	})
	registry.Register(&fakeAdapter{
		tag:  document.ProviderCrossref,
		caps: document.NewCapabilitySet(document.CapabilityTextSearch),
		results: []document.ProviderResult{
			document.Success([]document.ScholarlyDocument{
				{InternalID: "cr:1", SourceProvider: document.ProviderCrossref, DOI: doiOf("10.1/x"), Title: "A Study", CitationCount: 0},
			}, 1, false),
		},
	})

	orch := orchestrator.New(registry, fakeGovernor{}, 0.5)

	var mu sync.Mutex
	var emitted []document.ScholarlyDocument
	err := orch.Search(context.Background(), document.SearchIntent{Query: "q", Mode: document.ModeDiscovery}, func(d document.ScholarlyDocument) error {
		mu.Lock()
		defer mu.Unlock()
		emitted = append(emitted, d)
		return nil
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, emitted)

	last := emitted[len(emitted)-1]
	assert.Equal(t, "A Study", last.Title)
	assert.Equal(t, 100, last.CitationCount)
}

func TestSearch_DiscoveryAbsorbsProviderErrors(t *testing.T) {
	registry := provider.NewRegistry()
	registry.Register(&fakeAdapter{
		tag:  document.ProviderOpenAlex,
		caps: document.NewCapabilitySet(document.CapabilityTextSearch),
		results: []document.ProviderResult{
			document.Failure(&document.ProviderError{Kind: document.ErrorTransient, Provider: document.ProviderOpenAlex, RetryPermitted: true}),
		},
	})
	registry.Register(&fakeAdapter{
		tag:  document.ProviderSemanticScholar,
		caps: document.NewCapabilitySet(document.CapabilityTextSearch),
		results: []document.ProviderResult{
			document.Success([]document.ScholarlyDocument{
				{InternalID: "ss:1", SourceProvider: document.ProviderSemanticScholar, Title: "B"},
				{InternalID: "ss:2", SourceProvider: document.ProviderSemanticScholar, Title: "C"},
			}, 2, false),
		},
	})

	orch := orchestrator.New(registry, fakeGovernor{}, 0.5)

	var mu sync.Mutex
	var emitted []document.ScholarlyDocument
	err := orch.Search(context.Background(), document.SearchIntent{Query: "q", Mode: document.ModeDiscovery}, func(d document.ScholarlyDocument) error {
		mu.Lock()
		defer mu.Unlock()
		emitted = append(emitted, d)
		return nil
	})
	assert.NoError(t, err)
	assert.Len(t, emitted, 2)
}

func TestActiveProviders_SkipsCapabilityMismatch(t *testing.T) {
	registry := provider.NewRegistry()
	registry.Register(&fakeAdapter{tag: document.ProviderArxiv, caps: document.NewCapabilitySet(document.CapabilityTextSearch)})

	orch := orchestrator.New(registry, fakeGovernor{}, 0.5)
	year := 2020
	intent := document.SearchIntent{Query: "q", Filters: document.SearchFilters{YearFrom: &year}}

	var emitted []document.ScholarlyDocument
	err := orch.Search(context.Background(), intent, func(d document.ScholarlyDocument) error {
		emitted = append(emitted, d)
		return nil
	})
	assert.NoError(t, err)
	assert.Empty(t, emitted)
}
