package openalex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconstructAbstract_ScenarioFromSpec(t *testing.T) {
	index := map[string][]int{
		"Metformin": {2},
		"is":        {3},
		"Background": {0},
		":":         {1},
	}
	assert.Equal(t, "Background : Metformin is", reconstructAbstract(index))
}

func TestLastSegment(t *testing.T) {
	assert.Equal(t, "W123", lastSegment("https://openalex.org/W123"))
	assert.Equal(t, "plain", lastSegment("plain"))
}

func TestBareORCID(t *testing.T) {
	assert.Equal(t, "0000-0002-1825-0097", bareORCID("https://orcid.org/0000-0002-1825-0097"))
	assert.Equal(t, "", bareORCID(""))
}

func TestConvertWork_DiscoveryVsEnrichment(t *testing.T) {
	w := work{
		ID:    "https://openalex.org/W1",
		Title: "A Title",
		AbstractInvertedIndex: map[string][]int{
			"hello": {0},
			"world": {1},
		},
	}
	a := &Adapter{}

	discovery := a.convertWork(w, "discovery")
	assert.Nil(t, discovery.Abstract)
	assert.False(t, discovery.FullyHydrated)

	enriched := a.convertWork(w, "enrichment")
	assert.NotNil(t, enriched.Abstract)
	assert.Equal(t, "hello world", *enriched.Abstract)
	assert.True(t, enriched.FullyHydrated)
}
