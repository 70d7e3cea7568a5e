package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarfed/engine/app/domain/doi"
	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/merge"
)

func docFixture(provider document.ProviderTag, doiStr, title string, citations int) document.ScholarlyDocument {
	d, _ := doi.Parse(doiStr)
	return document.ScholarlyDocument{
		InternalID:     string(provider) + ":1",
		DOI:            d,
		SourceProvider: provider,
		Title:          title,
		CitationCount:  citations,
		Confidence:     1.0,
		SidecarPayloads: document.Sidecar{
			provider: {},
		},
	}
}

func TestSameWork_DOIEquality(t *testing.T) {
	a := docFixture(document.ProviderOpenAlex, "10.1038/x", "A", 100)
	b := docFixture(document.ProviderSemanticScholar, "10.1038/x", "A", 98)
	assert.True(t, merge.SameWork(a, b, merge.DefaultTitleSimilarityThreshold))
}

func TestFuse_CrossProviderScenario(t *testing.T) {
	// spec §8 scenario 2
	oa := docFixture(document.ProviderOpenAlex, "10.1038/x", "A", 100)
	oa.Concepts = []document.Concept{{Name: "Diabetes", RelevanceScore: 0.9}}

	ss := docFixture(document.ProviderSemanticScholar, "10.1038/x", "A", 98)
	tldr := "short"
	ss.TLDR = &tldr

	cr := docFixture(document.ProviderCrossref, "10.1038/x", "A Study", 0)
	year := 2019
	cr.PublicationYear = &year

	fused := merge.Fuse(merge.Fuse(oa, ss), cr)

	assert.Equal(t, "A Study", fused.Title)
	assert.Equal(t, 100, fused.CitationCount)
	assert.NotNil(t, fused.TLDR)
	assert.Equal(t, "short", *fused.TLDR)
	assert.Equal(t, 2019, *fused.PublicationYear)

	names := make([]string, 0, len(fused.Concepts))
	for _, c := range fused.Concepts {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "Diabetes")

	assert.Len(t, fused.SidecarPayloads, 3)
}

func TestFuse_Associative(t *testing.T) {
	a := docFixture(document.ProviderArxiv, "", "Shared Title", 5)
	a.Authors = []document.Author{{DisplayName: "Alice"}, {DisplayName: "Bob"}}
	b := docFixture(document.ProviderCrossref, "10.1/shared", "Shared Title Canonical", 10)
	b.Authors = []document.Author{{DisplayName: "Alice"}, {DisplayName: "Bob"}}
	c := docFixture(document.ProviderOpenAlex, "10.1/shared", "Shared Title OA", 20)
	c.Authors = []document.Author{{DisplayName: "Alice"}, {DisplayName: "Bob"}}

	left := merge.Fuse(merge.Fuse(a, b), c)
	right := merge.Fuse(a, merge.Fuse(b, c))

	assert.Equal(t, left.Title, right.Title)
	assert.Equal(t, left.CitationCount, right.CitationCount)
	assert.Equal(t, left.PublicationYear, right.PublicationYear)
}

func TestFuse_Associative_TLDRSurvivesEitherFoldOrder(t *testing.T) {
	// Regression for I4: a fused record can carry a TLDR while its
	// SourceProvider isn't "semanticscholar" (fusion keeps the left
	// operand's SourceProvider), so the fold order must not affect
	// whether TLDR survives.
	oa := docFixture(document.ProviderOpenAlex, "10.1/shared", "Shared Title", 5)
	cr := docFixture(document.ProviderCrossref, "10.1/shared", "Shared Title Canonical", 10)
	ss := docFixture(document.ProviderSemanticScholar, "10.1/shared", "Shared Title", 20)
	tldr := "short summary"
	ss.TLDR = &tldr

	left := merge.Fuse(merge.Fuse(oa, ss), cr)
	right := merge.Fuse(oa, merge.Fuse(cr, ss))

	if assert.NotNil(t, left.TLDR) {
		assert.Equal(t, "short summary", *left.TLDR)
	}
	if assert.NotNil(t, right.TLDR) {
		assert.Equal(t, "short summary", *right.TLDR)
	}
	assert.Equal(t, left.TLDR, right.TLDR)
}

func TestFuse_CitationCountNeverDecreases(t *testing.T) {
	a := docFixture(document.ProviderOpenAlex, "10.1/x", "T", 100)
	b := docFixture(document.ProviderCrossref, "10.1/x", "T", 10)
	fused := merge.Fuse(a, b)
	assert.GreaterOrEqual(t, fused.CitationCount, 100)
}
