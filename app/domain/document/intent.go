package document

// SearchMode selects between the lightweight discovery payload and the
// deep enrichment payload (spec §3 SearchIntent, GLOSSARY).
type SearchMode string

const (
	ModeDiscovery  SearchMode = "discovery"
	ModeEnrichment SearchMode = "enrichment"
)

// SearchIntent is the structured search request threaded through the
// facade, orchestrator, and every provider adapter.
type SearchIntent struct {
	Query      string
	Filters    SearchFilters
	Mode       SearchMode
	DomainHint string
	PerProviderCap int
	Offset     int
}

// SearchFilters are optional predicates narrowing a SearchIntent. The
// empty value matches everything (spec §3 SearchFilters).
type SearchFilters struct {
	YearFrom      *int
	YearTo        *int
	PDFOnly       bool
	DocumentTypes []string
	VenueWhitelist []string
	ConceptWhitelist []string
	OpenAccessOnly bool
}

// IsEmpty reports whether no filter predicate is set.
func (f SearchFilters) IsEmpty() bool {
	return f.YearFrom == nil && f.YearTo == nil && !f.PDFOnly &&
		len(f.DocumentTypes) == 0 && len(f.VenueWhitelist) == 0 &&
		len(f.ConceptWhitelist) == 0 && !f.OpenAccessOnly
}

// ProviderCapability enumerates the closed set of features a provider
// adapter may support (spec §3 ProviderCapability).
type ProviderCapability string

const (
	CapabilityTextSearch    ProviderCapability = "text_search"
	CapabilityYearFilter    ProviderCapability = "year_filter"
	CapabilityTypeFilter    ProviderCapability = "type_filter"
	CapabilityVenueFilter   ProviderCapability = "venue_filter"
	CapabilityConceptFilter ProviderCapability = "concept_filter"
	CapabilityAbstracts     ProviderCapability = "abstracts"
	CapabilityReferences    ProviderCapability = "references"
	CapabilityCitations     ProviderCapability = "citations"
	CapabilityTLDR          ProviderCapability = "tldr"
	CapabilityConceptTags   ProviderCapability = "concept_tags"
	CapabilityCitationCounts ProviderCapability = "citation_counts"
	CapabilityPDFURLs       ProviderCapability = "pdf_urls"
	CapabilityPagination    ProviderCapability = "pagination"
	CapabilityStatistics    ProviderCapability = "statistics"
	CapabilityBatchLookup   ProviderCapability = "batch_lookup"
)

// CapabilitySet is a closed collection of ProviderCapability values.
type CapabilitySet map[ProviderCapability]struct{}

// NewCapabilitySet builds a CapabilitySet from a variadic list.
func NewCapabilitySet(caps ...ProviderCapability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Has reports whether the set contains cap.
func (s CapabilitySet) Has(cap ProviderCapability) bool {
	_, ok := s[cap]
	return ok
}

// RequiredFor returns the capabilities an intent's filters require, used
// by the orchestrator to decide which providers are "active" for a given
// search (spec §4.5 step 1).
func (f SearchFilters) RequiredFor() []ProviderCapability {
	var required []ProviderCapability
	if f.YearFrom != nil || f.YearTo != nil {
		required = append(required, CapabilityYearFilter)
	}
	if len(f.DocumentTypes) > 0 {
		required = append(required, CapabilityTypeFilter)
	}
	if len(f.VenueWhitelist) > 0 {
		required = append(required, CapabilityVenueFilter)
	}
	if len(f.ConceptWhitelist) > 0 {
		required = append(required, CapabilityConceptFilter)
	}
	return required
}
