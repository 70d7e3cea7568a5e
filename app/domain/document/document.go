// Package document defines the canonical ScholarlyDocument model and its
// supporting value types (spec §3): the unified record every provider
// adapter normalizes into, and the sidecar that preserves each provider's
// raw payload losslessly.
package document

import "github.com/scholarfed/engine/app/domain/doi"

// ProviderTag identifies one of the four supported bibliographic
// providers. It is the sidecar map's key space, and IDPrefix maps it to
// the prefix used in internal document ids (`oa:`, `ss:`, `cr:`, `arxiv:`).
type ProviderTag string

const (
	ProviderOpenAlex         ProviderTag = "openalex"
	ProviderSemanticScholar  ProviderTag = "semanticscholar"
	ProviderCrossref         ProviderTag = "crossref"
	ProviderArxiv            ProviderTag = "arxiv"
)

// IDPrefix returns the internal-identifier prefix for this provider, e.g.
// "oa:" for OpenAlex.
func (p ProviderTag) IDPrefix() string {
	switch p {
	case ProviderOpenAlex:
		return "oa:"
	case ProviderSemanticScholar:
		return "ss:"
	case ProviderCrossref:
		return "cr:"
	case ProviderArxiv:
		return "arxiv:"
	default:
		return string(p) + ":"
	}
}

// Author is one contributor to a ScholarlyDocument (spec §3 Author).
type Author struct {
	DisplayName    string
	ProviderAuthorID string
	ORCID          string
	Affiliation    string
}

// Concept is a topical tag attached to a document, with a relevance score
// in [0,1].
type Concept struct {
	Name            string
	RelevanceScore  float64
	ProviderConceptID string
}

// RawPayload is an opaque, provider-native response fragment kept for
// lossless round-tripping. It wraps either a decoded JSON tree or raw XML
// bytes; the core never inspects its contents (spec §9 "Sidecar typing").
type RawPayload struct {
	// JSON holds a decoded JSON payload (map[string]interface{}, []interface{},
	// or scalar) when the provider's wire format is JSON.
	JSON interface{}
	// XML holds the raw XML bytes when the provider's wire format is XML
	// (arXiv's Atom feed entries).
	XML []byte
}

// Sidecar maps a contributing provider to its raw payload for this work.
// Keys are a subset of {openalex, semanticscholar, crossref, arxiv}
// (invariant iv).
type Sidecar map[ProviderTag]RawPayload

// Clone returns a shallow copy of the sidecar map (new map, same payload
// values), used by the merger's copy-on-fuse discipline.
func (s Sidecar) Clone() Sidecar {
	out := make(Sidecar, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ScholarlyDocument is the canonical normalized record every provider
// adapter produces and the merger fuses (spec §3).
type ScholarlyDocument struct {
	// Identity
	InternalID     string
	DOI            doi.DOI
	SourceProvider ProviderTag

	// Discovery layer
	Title          string
	Authors        []Author
	PublicationYear *int
	Venue          *string
	CitationCount  int
	PDFURL         *string

	// Enrichment layer (nil/empty until fully hydrated)
	Abstract   *string
	TLDR       *string
	Concepts   []Concept
	References []string // referenced DOIs/ids
	Citations  []string // citing DOIs/ids

	// Sidecar & state
	SidecarPayloads Sidecar
	FullyHydrated   bool
	Confidence      float64
	MergedIDs       []string

	// Provenance for the precedence-ordered fields (title, publication
	// year, venue). Adapters leave these at the zero value, in which case
	// the merger treats SourceProvider as the provenance; the merger
	// itself always sets them explicitly on fusion so that repeated
	// fusion remains associative (spec §4.4) regardless of which provider
	// last won the field, independent of the unchanging SourceProvider.
	TitleProvenance ProviderTag
	YearProvenance  ProviderTag
	VenueProvenance ProviderTag
}

// EffectiveTitleProvenance returns TitleProvenance, defaulting to
// SourceProvider when unset.
func (d ScholarlyDocument) EffectiveTitleProvenance() ProviderTag {
	if d.TitleProvenance != "" {
		return d.TitleProvenance
	}
	return d.SourceProvider
}

// EffectiveYearProvenance returns YearProvenance, defaulting to
// SourceProvider when unset.
func (d ScholarlyDocument) EffectiveYearProvenance() ProviderTag {
	if d.YearProvenance != "" {
		return d.YearProvenance
	}
	return d.SourceProvider
}

// EffectiveVenueProvenance returns VenueProvenance, defaulting to
// SourceProvider when unset.
func (d ScholarlyDocument) EffectiveVenueProvenance() ProviderTag {
	if d.VenueProvenance != "" {
		return d.VenueProvenance
	}
	return d.SourceProvider
}

// Clone returns a deep-enough copy suitable for copy-on-fuse mutation: new
// backing slices/maps, independent of the receiver.
func (d ScholarlyDocument) Clone() ScholarlyDocument {
	out := d
	out.Authors = append([]Author(nil), d.Authors...)
	out.Concepts = append([]Concept(nil), d.Concepts...)
	out.References = append([]string(nil), d.References...)
	out.Citations = append([]string(nil), d.Citations...)
	out.MergedIDs = append([]string(nil), d.MergedIDs...)
	out.SidecarPayloads = d.SidecarPayloads.Clone()
	return out
}
