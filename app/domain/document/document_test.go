package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarfed/engine/app/domain/document"
)

func TestSidecar_CloneIsIndependent(t *testing.T) {
	s := document.Sidecar{
		document.ProviderOpenAlex: {JSON: map[string]interface{}{"id": "W1"}},
	}
	clone := s.Clone()
	clone[document.ProviderCrossref] = document.RawPayload{JSON: map[string]interface{}{"id": "10.1/x"}}

	assert.Len(t, s, 1)
	assert.Len(t, clone, 2)
}

func TestDocument_Clone_IndependentSlices(t *testing.T) {
	d := document.ScholarlyDocument{
		InternalID: "oa:W1",
		Authors:    []document.Author{{DisplayName: "A"}},
		SidecarPayloads: document.Sidecar{
			document.ProviderOpenAlex: {},
		},
	}
	clone := d.Clone()
	clone.Authors[0].DisplayName = "B"

	assert.Equal(t, "A", d.Authors[0].DisplayName)
	assert.Equal(t, "B", clone.Authors[0].DisplayName)
}

func TestSearchFilters_RequiredFor(t *testing.T) {
	year := 2020
	filters := document.SearchFilters{YearFrom: &year, ConceptWhitelist: []string{"ai"}}
	required := filters.RequiredFor()

	assert.Contains(t, required, document.CapabilityYearFilter)
	assert.Contains(t, required, document.CapabilityConceptFilter)
	assert.NotContains(t, required, document.CapabilityVenueFilter)
}

func TestSearchFilters_IsEmpty(t *testing.T) {
	assert.True(t, document.SearchFilters{}.IsEmpty())

	year := 2020
	assert.False(t, document.SearchFilters{YearFrom: &year}.IsEmpty())
}

func TestValidateORCID(t *testing.T) {
	assert.True(t, document.ValidateORCID("0000-0002-1825-0097"))
	assert.False(t, document.ValidateORCID("0000-0002-1825-0098"))
	assert.False(t, document.ValidateORCID("not-an-orcid"))
}
