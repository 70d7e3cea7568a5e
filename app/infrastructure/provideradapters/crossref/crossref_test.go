package crossref

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveYear_Precedence(t *testing.T) {
	it := item{
		PublishedOnline: &datePart{DateParts: [][]int{{2021, 3}}},
		Created:         &datePart{DateParts: [][]int{{2019, 1}}},
	}
	year := resolveYear(it)
	assert.NotNil(t, year)
	assert.Equal(t, 2021, *year)
}

func TestResolveYear_FallsBackToIndexed(t *testing.T) {
	it := item{Indexed: &datePart{DateParts: [][]int{{2022}}}}
	year := resolveYear(it)
	assert.NotNil(t, year)
	assert.Equal(t, 2022, *year)
}

func TestStripJATS(t *testing.T) {
	assert.Equal(t, "Background Metformin is effective.", stripJATS("<jats:p>Background Metformin is effective.</jats:p>"))
	assert.Equal(t, "", stripJATS(""))
}

func TestBareORCID(t *testing.T) {
	assert.Equal(t, "0000-0002-1825-0097", bareORCID("http://orcid.org/0000-0002-1825-0097"))
}

func TestConvertItem_AbstractOnlyInEnrichment(t *testing.T) {
	it := item{
		DOI:   "10.1000/xyz123",
		Title: []string{"Some Title"},
		Abstract: "<jats:p>An abstract.</jats:p>",
	}
	a := &Adapter{}

	discovery := a.convertItem(it, "discovery")
	assert.Nil(t, discovery.Abstract)

	enriched := a.convertItem(it, "enrichment")
	assert.NotNil(t, enriched.Abstract)
	assert.Equal(t, "An abstract.", *enriched.Abstract)
}
