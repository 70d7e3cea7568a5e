package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarfed/engine/app/domain/doi"
	"github.com/scholarfed/engine/app/domain/document"
)

func TestDedupTable_DOIBearingIncomingFusesWithDOIlessExisting(t *testing.T) {
	// Regression: a DOI-less record (e.g. an arXiv preprint) is ingested
	// first; a later record of the same work arrives carrying a DOI. Both
	// directions of this asymmetry must fuse, mirroring merge.SameWork's
	// mixed-DOI branch.
	table := newDedupTable(0.5)

	preprint := document.ScholarlyDocument{
		InternalID:     "arxiv:1",
		SourceProvider: document.ProviderArxiv,
		Title:          "Attention Is All You Need",
		Authors:        []document.Author{{DisplayName: "A. Vaswani"}},
		Confidence:     1.0,
	}
	_, isNew := table.Ingest(preprint)
	assert.True(t, isNew)

	parsedDOI, ok := doi.Parse("10.48550/arXiv.1706.03762")
	assert.True(t, ok)
	published := document.ScholarlyDocument{
		InternalID:     "crossref:1",
		SourceProvider: document.ProviderCrossref,
		DOI:            parsedDOI,
		Title:          "Attention Is All You Need",
		Authors:        []document.Author{{DisplayName: "A. Vaswani"}},
		Confidence:     1.0,
	}
	fused, isNew := table.Ingest(published)
	assert.False(t, isNew)
	assert.Len(t, table.records, 1)
	assert.True(t, fused.DOI.Valid())
}

func TestDedupTable_ReverseDirectionAlreadyFused(t *testing.T) {
	// The DOI-less-incoming/DOI-bearing-existing direction this regression
	// is paired with, kept alongside it so both directions are exercised
	// together.
	table := newDedupTable(0.5)

	parsedDOI, ok := doi.Parse("10.48550/arXiv.1706.03762")
	assert.True(t, ok)
	published := document.ScholarlyDocument{
		InternalID:     "crossref:1",
		SourceProvider: document.ProviderCrossref,
		DOI:            parsedDOI,
		Title:          "Attention Is All You Need",
		Authors:        []document.Author{{DisplayName: "A. Vaswani"}},
		Confidence:     1.0,
	}
	_, isNew := table.Ingest(published)
	assert.True(t, isNew)

	preprint := document.ScholarlyDocument{
		InternalID:     "arxiv:1",
		SourceProvider: document.ProviderArxiv,
		Title:          "Attention Is All You Need",
		Authors:        []document.Author{{DisplayName: "A. Vaswani"}},
		Confidence:     1.0,
	}
	fused, isNew := table.Ingest(preprint)
	assert.False(t, isNew)
	assert.Len(t, table.records, 1)
	assert.True(t, fused.DOI.Valid())
}
