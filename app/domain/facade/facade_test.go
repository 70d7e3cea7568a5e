package facade_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/facade"
	"github.com/scholarfed/engine/app/domain/probe"
)

type fakeOrchestrator struct {
	docs  []document.ScholarlyDocument
	stats document.Stats
}

func (f fakeOrchestrator) Search(ctx context.Context, intent document.SearchIntent, emit func(document.ScholarlyDocument) error) error {
	for _, d := range f.docs {
		if err := emit(d); err != nil {
			return err
		}
	}
	return nil
}

func (f fakeOrchestrator) Enrich(ctx context.Context, doc document.ScholarlyDocument) (*document.ScholarlyDocument, error) {
	enriched := doc
	abstract := "hydrated"
	enriched.Abstract = &abstract
	enriched.FullyHydrated = true
	return &enriched, nil
}

func (f fakeOrchestrator) EnrichBatch(ctx context.Context, docs []document.ScholarlyDocument) ([]*document.ScholarlyDocument, error) {
	out := make([]*document.ScholarlyDocument, len(docs))
	for i, d := range docs {
		enriched, _ := f.Enrich(ctx, d)
		out[i] = enriched
	}
	return out, nil
}

func (f fakeOrchestrator) AggregatedStats(ctx context.Context, intent document.SearchIntent) document.Stats {
	return f.stats
}

func TestFacade_Search(t *testing.T) {
	fake := fakeOrchestrator{docs: []document.ScholarlyDocument{{InternalID: "oa:1"}}}
	fc := facade.New(fake, probe.New(fake))

	var got []document.ScholarlyDocument
	err := fc.Search(context.Background(), "q", document.SearchFilters{}, 10, func(d document.ScholarlyDocument) error {
		got = append(got, d)
		return nil
	})
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFacade_Enrich(t *testing.T) {
	fake := fakeOrchestrator{}
	fc := facade.New(fake, probe.New(fake))

	enriched, err := fc.Enrich(context.Background(), document.ScholarlyDocument{InternalID: "oa:1"})
	assert.NoError(t, err)
	assert.True(t, enriched.FullyHydrated)
}

func TestFacade_ProbeSignalStrength(t *testing.T) {
	fake := fakeOrchestrator{stats: document.Stats{TotalCount: 25}}
	fc := facade.New(fake, probe.New(fake))

	metrics := fc.ProbeSignalStrength(context.Background(), "q")
	assert.Equal(t, 25, metrics.TotalCount)
}

func TestFacade_CompareQueries(t *testing.T) {
	fake := fakeOrchestrator{stats: document.Stats{TotalCount: 200}}
	fc := facade.New(fake, probe.New(fake))

	results := fc.CompareQueries(context.Background(), []string{"a", "b"})
	assert.Len(t, results, 2)
}
