package semanticscholar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarfed/engine/app/domain/document"
)

func TestConvertPaper_TLDRNullWhenAbsent(t *testing.T) {
	a := &Adapter{}
	p := paper{PaperID: "abc123", Title: "A Paper"}

	enriched := a.convertPaper(p, "enrichment")
	assert.Nil(t, enriched.TLDR)
}

func TestConvertPaper_TLDRPresent(t *testing.T) {
	a := &Adapter{}
	p := paper{PaperID: "abc123", Title: "A Paper", TLDR: &tldr{Text: "short summary"}}

	enriched := a.convertPaper(p, "enrichment")
	assert.NotNil(t, enriched.TLDR)
	assert.Equal(t, "short summary", *enriched.TLDR)
}

func TestConvertPaper_DOIFromExternalIDs(t *testing.T) {
	a := &Adapter{}
	p := paper{PaperID: "abc123", Title: "A Paper", ExternalIDs: map[string]string{"DOI": "10.1000/xyz123"}}

	doc := a.convertPaper(p, "discovery")
	assert.True(t, doc.DOI.Valid())
}

func TestBuildYearFilter(t *testing.T) {
	a := &Adapter{}
	from, to := 2020, 2022
	intent := document.SearchIntent{Filters: document.SearchFilters{YearFrom: &from, YearTo: &to}}
	assert.Equal(t, "2020-2022", a.buildYearFilter(intent))
}
