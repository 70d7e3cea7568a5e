package provider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/provider"
)

type stubAdapter struct {
	tag  document.ProviderTag
	caps document.CapabilitySet
}

func (s *stubAdapter) ID() document.ProviderTag                    { return s.tag }
func (s *stubAdapter) Capabilities() document.CapabilitySet        { return s.caps }
func (s *stubAdapter) Health(ctx context.Context) error            { return nil }
func (s *stubAdapter) DebugQueryTranslation(document.SearchIntent) string { return "" }
func (s *stubAdapter) Search(ctx context.Context, intent document.SearchIntent, emit func(document.ProviderResult) error) error {
	return nil
}
func (s *stubAdapter) FetchDetails(ctx context.Context, id string) (*document.ScholarlyDocument, error) {
	return nil, nil
}
func (s *stubAdapter) GetStats(ctx context.Context, intent document.SearchIntent) (document.Stats, error) {
	return document.Stats{}, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := provider.NewRegistry()
	a := &stubAdapter{tag: document.ProviderOpenAlex, caps: document.NewCapabilitySet(document.CapabilityTextSearch)}
	r.Register(a)

	got, ok := r.Get(document.ProviderOpenAlex)
	assert.True(t, ok)
	assert.Equal(t, a, got)

	_, ok = r.Get(document.ProviderCrossref)
	assert.False(t, ok)
}

func TestRegistry_AllSortedByTag(t *testing.T) {
	r := provider.NewRegistry()
	r.Register(&stubAdapter{tag: document.ProviderArxiv})
	r.Register(&stubAdapter{tag: document.ProviderOpenAlex})
	r.Register(&stubAdapter{tag: document.ProviderCrossref})

	all := r.All()
	assert.Len(t, all, 3)
	assert.Equal(t, document.ProviderArxiv, all[0].ID())
	assert.Equal(t, document.ProviderCrossref, all[1].ID())
	assert.Equal(t, document.ProviderOpenAlex, all[2].ID())
}

func TestSupportsIntent(t *testing.T) {
	a := &stubAdapter{tag: document.ProviderArxiv, caps: document.NewCapabilitySet(document.CapabilityTextSearch)}
	year := 2020
	intent := document.SearchIntent{Filters: document.SearchFilters{YearFrom: &year}}

	assert.False(t, provider.SupportsIntent(a, intent))

	a.caps = document.NewCapabilitySet(document.CapabilityTextSearch, document.CapabilityYearFilter)
	assert.True(t, provider.SupportsIntent(a, intent))
}
