// Package openalex adapts the OpenAlex Works API to the provider.Adapter
// contract (spec §4.2 OpenAlex, §6 external interfaces).
package openalex

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"resty.dev/v3"

	"github.com/scholarfed/engine/app/domain/doi"
	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/provider"
	"github.com/scholarfed/engine/app/utils/httpclients"
	"github.com/scholarfed/engine/config/environment_variables"
)

const (
	name           = document.ProviderOpenAlex
	defaultBaseURL = "https://api.openalex.org"
)

type workResponse struct {
	Results []work `json:"results"`
	Meta    struct {
		Count int `json:"count"`
	} `json:"meta"`
}

type work struct {
	ID                     string                 `json:"id"`
	DOI                    string                 `json:"doi"`
	Title                  string                 `json:"title"`
	PublicationYear        int                    `json:"publication_year"`
	HostVenue              *struct{ DisplayName string `json:"display_name"` } `json:"host_venue"`
	CitedByCount           int                    `json:"cited_by_count"`
	OpenAccess             *struct{ OAURL string `json:"oa_url"` } `json:"open_access"`
	Authorships            []authorship           `json:"authorships"`
	Concepts               []concept              `json:"concepts"`
	AbstractInvertedIndex  map[string][]int       `json:"abstract_inverted_index"`
	ReferencedWorks        []string               `json:"referenced_works"`
}

type authorship struct {
	Author struct {
		DisplayName string `json:"display_name"`
		ORCID       string `json:"orcid"`
		ID          string `json:"id"`
	} `json:"author"`
	RawAffiliation string `json:"raw_affiliation_string"`
}

type concept struct {
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
	ID          string  `json:"id"`
}

type groupByResponse struct {
	GroupBy []struct {
		Key   string `json:"key"`
		Count int    `json:"count"`
	} `json:"group_by"`
	Meta struct {
		Count int `json:"count"`
	} `json:"meta"`
}

// Adapter implements provider.Adapter for OpenAlex.
type Adapter struct {
	client  *resty.Client
	baseURL string
}

// New builds an OpenAlex adapter.
func New() *Adapter {
	return &Adapter{client: httpclients.NewClient("openalex"), baseURL: defaultBaseURL}
}

func (a *Adapter) ID() document.ProviderTag { return name }

func (a *Adapter) Capabilities() document.CapabilitySet {
	return document.NewCapabilitySet(
		document.CapabilityTextSearch,
		document.CapabilityYearFilter,
		document.CapabilityTypeFilter,
		document.CapabilityVenueFilter,
		document.CapabilityConceptFilter,
		document.CapabilityAbstracts,
		document.CapabilityReferences,
		document.CapabilityConceptTags,
		document.CapabilityCitationCounts,
		document.CapabilityPDFURLs,
		document.CapabilityPagination,
		document.CapabilityStatistics,
	)
}

func (a *Adapter) buildFilter(intent document.SearchIntent) string {
	var clauses []string
	if intent.Filters.YearFrom != nil {
		clauses = append(clauses, fmt.Sprintf("from_publication_date:%d-01-01", *intent.Filters.YearFrom))
	}
	if intent.Filters.YearTo != nil {
		clauses = append(clauses, fmt.Sprintf("to_publication_date:%d-12-31", *intent.Filters.YearTo))
	}
	if intent.Filters.OpenAccessOnly {
		clauses = append(clauses, "is_oa:true")
	}
	for _, venue := range intent.Filters.VenueWhitelist {
		clauses = append(clauses, fmt.Sprintf("host_venue.display_name.search:%s", venue))
	}
	return strings.Join(clauses, ",")
}

func (a *Adapter) DebugQueryTranslation(intent document.SearchIntent) string {
	cap := pageSize(intent)
	return fmt.Sprintf("GET %s/works?search=%s&filter=%s&per-page=%d&page=%d%s",
		a.baseURL, intent.Query, a.buildFilter(intent), cap, pageNumber(intent), mailtoSuffix())
}

func pageSize(intent document.SearchIntent) int {
	if intent.PerProviderCap > 0 {
		return intent.PerProviderCap
	}
	return 25
}

func pageNumber(intent document.SearchIntent) int {
	size := pageSize(intent)
	return intent.Offset/size + 1
}

func mailtoSuffix() string {
	if environment_variables.EnvironmentVariables.OpenAlexContactEmail == "" {
		return ""
	}
	return "&mailto=" + environment_variables.EnvironmentVariables.OpenAlexContactEmail
}

func (a *Adapter) Search(ctx context.Context, intent document.SearchIntent, emit func(document.ProviderResult) error) error {
	req := a.client.R().SetContext(ctx).
		SetQueryParam("search", intent.Query).
		SetQueryParam("per-page", strconv.Itoa(pageSize(intent))).
		SetQueryParam("page", strconv.Itoa(pageNumber(intent)))
	if filter := a.buildFilter(intent); filter != "" {
		req.SetQueryParam("filter", filter)
	}
	if email := environment_variables.EnvironmentVariables.OpenAlexContactEmail; email != "" {
		req.SetQueryParam("mailto", email)
	}

	var body workResponse
	resp, err := req.SetResult(&body).Get(a.baseURL + "/works")
	if err != nil {
		return emit(document.Failure(provider.TransportError(name, err)))
	}
	if resp.IsError() {
		perr := provider.ClassifyHTTPStatus(name, resp.StatusCode(), parseRetryAfter(resp), httpclients.ErrorFromResponse(resp))
		return emit(document.Failure(perr))
	}

	docs := make([]document.ScholarlyDocument, 0, len(body.Results))
	for _, w := range body.Results {
		docs = append(docs, a.convertWork(w, intent.Mode))
	}
	hasMore := intent.Offset+len(docs) < body.Meta.Count
	return emit(document.Success(docs, body.Meta.Count, hasMore))
}

func (a *Adapter) convertWork(w work, mode document.SearchMode) document.ScholarlyDocument {
	nativeID := lastSegment(w.ID)

	var docDOI doi.DOI
	confidence := 1.0
	if w.DOI != "" {
		if parsed, ok := doi.Parse(w.DOI); ok {
			docDOI = parsed
		}
	}

	authors := make([]document.Author, 0, len(w.Authorships))
	for _, as := range w.Authorships {
		authors = append(authors, document.Author{
			DisplayName:      as.Author.DisplayName,
			ProviderAuthorID: lastSegment(as.Author.ID),
			ORCID:            bareORCID(as.Author.ORCID),
			Affiliation:      as.RawAffiliation,
		})
	}

	var venue *string
	if w.HostVenue != nil && w.HostVenue.DisplayName != "" {
		v := w.HostVenue.DisplayName
		venue = &v
	}

	var pdfURL *string
	if w.OpenAccess != nil && w.OpenAccess.OAURL != "" {
		u := w.OpenAccess.OAURL
		pdfURL = &u
	}

	var year *int
	if w.PublicationYear != 0 {
		y := w.PublicationYear
		year = &y
	}

	d := document.ScholarlyDocument{
		InternalID:      name.IDPrefix() + nativeID,
		DOI:             docDOI,
		SourceProvider:  name,
		Title:           w.Title,
		Authors:         authors,
		PublicationYear: year,
		Venue:           venue,
		CitationCount:   w.CitedByCount,
		PDFURL:          pdfURL,
		Confidence:      confidence,
		SidecarPayloads: document.Sidecar{name: {JSON: w}},
	}

	if mode == document.ModeEnrichment {
		if len(w.AbstractInvertedIndex) > 0 {
			abstract := reconstructAbstract(w.AbstractInvertedIndex)
			d.Abstract = &abstract
			d.Confidence = 0.95
		}
		concepts := make([]document.Concept, 0, len(w.Concepts))
		for _, c := range w.Concepts {
			concepts = append(concepts, document.Concept{
				Name:              c.DisplayName,
				RelevanceScore:    c.Score,
				ProviderConceptID: lastSegment(c.ID),
			})
		}
		d.Concepts = concepts
		refs := make([]string, 0, len(w.ReferencedWorks))
		for _, r := range w.ReferencedWorks {
			refs = append(refs, lastSegment(r))
		}
		d.References = refs
		d.FullyHydrated = true
	}

	return d
}

// reconstructAbstract rebuilds OpenAlex's inverted-index abstract
// (term -> position list), position-ordered. Terms sharing a position are
// ordered lexically; the key order of the source JSON object is not kept,
// since the index arrives already decoded into a Go map.
func reconstructAbstract(invertedIndex map[string][]int) string {
	type placement struct {
		position     int
		insertionOrder int
		term         string
	}
	var placements []placement
	order := 0
	terms := make([]string, 0, len(invertedIndex))
	for term := range invertedIndex {
		terms = append(terms, term)
	}
	// Go map order is random, so terms are visited in lexical order; the
	// stable sort by position below then leaves terms that share a
	// position in that lexical order (a well-formed index has no such
	// ties).
	sort.Strings(terms)
	for _, term := range terms {
		for _, pos := range invertedIndex[term] {
			placements = append(placements, placement{position: pos, insertionOrder: order, term: term})
			order++
		}
	}
	sort.SliceStable(placements, func(i, j int) bool {
		return placements[i].position < placements[j].position
	})
	words := make([]string, len(placements))
	for i, p := range placements {
		words[i] = p.term
	}
	return strings.Join(words, " ")
}

func lastSegment(url string) string {
	idx := strings.LastIndex(url, "/")
	if idx == -1 {
		return url
	}
	return url[idx+1:]
}

func bareORCID(orcidURL string) string {
	if orcidURL == "" {
		return ""
	}
	return lastSegment(strings.TrimSuffix(orcidURL, "/"))
}

func (a *Adapter) FetchDetails(ctx context.Context, nativeID string) (*document.ScholarlyDocument, error) {
	var w work
	resp, err := a.client.R().SetContext(ctx).SetResult(&w).Get(a.baseURL + "/works/" + nativeID)
	if err != nil {
		return nil, provider.TransportError(name, err)
	}
	if resp.StatusCode() == 404 {
		return nil, nil
	}
	if resp.IsError() {
		return nil, provider.ClassifyHTTPStatus(name, resp.StatusCode(), parseRetryAfter(resp), httpclients.ErrorFromResponse(resp))
	}
	doc := a.convertWork(w, document.ModeEnrichment)
	return &doc, nil
}

// GetStats uses OpenAlex's group-by-publication-year query (spec §4.2
// OpenAlex: "Statistics are obtained via a group-by-publication-year
// query").
func (a *Adapter) GetStats(ctx context.Context, intent document.SearchIntent) (document.Stats, error) {
	var body groupByResponse
	req := a.client.R().SetContext(ctx).SetResult(&body).
		SetQueryParam("search", intent.Query).
		SetQueryParam("group_by", "publication_year")
	if filter := a.buildFilter(intent); filter != "" {
		req.SetQueryParam("filter", filter)
	}
	resp, err := req.Get(a.baseURL + "/works")
	if err != nil {
		return document.Stats{}, provider.TransportError(name, err)
	}
	if resp.IsError() {
		return document.Stats{}, provider.ClassifyHTTPStatus(name, resp.StatusCode(), parseRetryAfter(resp), httpclients.ErrorFromResponse(resp))
	}

	histogram := make(map[int]int, len(body.GroupBy))
	for _, g := range body.GroupBy {
		if year, err := strconv.Atoi(g.Key); err == nil {
			histogram[year] = g.Count
		}
	}
	return document.Stats{TotalCount: body.Meta.Count, YearHistogram: histogram}, nil
}

func (a *Adapter) Health(ctx context.Context) error {
	resp, err := a.client.R().SetContext(ctx).Get(a.baseURL + "/works?per-page=1")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return httpclients.ErrorFromResponse(resp)
	}
	return nil
}

func parseRetryAfter(resp *resty.Response) *int {
	header := resp.Header().Get("Retry-After")
	if header == "" {
		return nil
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return &seconds
	}
	return nil
}
