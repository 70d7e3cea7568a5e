// Package semanticscholar adapts the Semantic Scholar Graph API to the
// provider.Adapter contract (spec §4.2 Semantic Scholar, §6 external
// interfaces).
package semanticscholar

import (
	"context"
	"fmt"
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
	name           = document.ProviderSemanticScholar
	defaultBaseURL = "https://api.semanticscholar.org/graph/v1"

	searchFields = "externalIds,title,abstract,year,venue,citationCount,authors,tldr,openAccessPdf,fieldsOfStudy,references"
)

type searchResponse struct {
	Total  int     `json:"total"`
	Offset int     `json:"offset"`
	Next   int     `json:"next"`
	Data   []paper `json:"data"`
}

type paper struct {
	PaperID       string            `json:"paperId"`
	ExternalIDs   map[string]string `json:"externalIds"`
	Title         string            `json:"title"`
	Abstract      *string           `json:"abstract"`
	Year          *int              `json:"year"`
	Venue         string            `json:"venue"`
	CitationCount int               `json:"citationCount"`
	Authors       []author          `json:"authors"`
	TLDR          *tldr             `json:"tldr"`
	OpenAccessPDF *openAccessPDF    `json:"openAccessPdf"`
	FieldsOfStudy []string          `json:"fieldsOfStudy"`
	References    []reference       `json:"references"`
}

type author struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type tldr struct {
	Text string `json:"text"`
}

type openAccessPDF struct {
	URL string `json:"url"`
}

type reference struct {
	PaperID string `json:"paperId"`
}

// Adapter implements provider.Adapter for Semantic Scholar.
type Adapter struct {
	client  *resty.Client
	baseURL string
}

// New builds a Semantic Scholar adapter, attaching the optional
// x-api-key header when a key is configured (spec §4.2: "optional
// x-api-key header").
func New() *Adapter {
	client := httpclients.NewClient("semanticscholar")
	if key := environment_variables.EnvironmentVariables.SemanticScholarAPIKey; key != "" {
		client.SetHeader("x-api-key", key)
	}
	return &Adapter{client: client, baseURL: defaultBaseURL}
}

func (a *Adapter) ID() document.ProviderTag { return name }

func (a *Adapter) Capabilities() document.CapabilitySet {
	return document.NewCapabilitySet(
		document.CapabilityTextSearch,
		document.CapabilityYearFilter,
		document.CapabilityVenueFilter,
		document.CapabilityAbstracts,
		document.CapabilityReferences,
		document.CapabilityConceptTags,
		document.CapabilityCitationCounts,
		document.CapabilityPDFURLs,
		document.CapabilityPagination,
		document.CapabilityTLDR,
		document.CapabilityBatchLookup,
	)
}

func (a *Adapter) buildYearFilter(intent document.SearchIntent) string {
	switch {
	case intent.Filters.YearFrom != nil && intent.Filters.YearTo != nil:
		return fmt.Sprintf("%d-%d", *intent.Filters.YearFrom, *intent.Filters.YearTo)
	case intent.Filters.YearFrom != nil:
		return fmt.Sprintf("%d-", *intent.Filters.YearFrom)
	case intent.Filters.YearTo != nil:
		return fmt.Sprintf("-%d", *intent.Filters.YearTo)
	default:
		return ""
	}
}

func (a *Adapter) DebugQueryTranslation(intent document.SearchIntent) string {
	limit := pageLimit(intent)
	return fmt.Sprintf("GET %s/paper/search?query=%s&limit=%d&offset=%d&fields=%s",
		a.baseURL, intent.Query, limit, intent.Offset, searchFields)
}

func pageLimit(intent document.SearchIntent) int {
	if intent.PerProviderCap > 0 {
		return intent.PerProviderCap
	}
	return 25
}

func (a *Adapter) Search(ctx context.Context, intent document.SearchIntent, emit func(document.ProviderResult) error) error {
	req := a.client.R().SetContext(ctx).
		SetQueryParam("query", intent.Query).
		SetQueryParam("limit", strconv.Itoa(pageLimit(intent))).
		SetQueryParam("offset", strconv.Itoa(intent.Offset)).
		SetQueryParam("fields", searchFields)
	if venues := intent.Filters.VenueWhitelist; len(venues) > 0 {
		req.SetQueryParam("venue", strings.Join(venues, ","))
	}
	if yearFilter := a.buildYearFilter(intent); yearFilter != "" {
		req.SetQueryParam("year", yearFilter)
	}

	var body searchResponse
	resp, err := req.SetResult(&body).Get(a.baseURL + "/paper/search")
	if err != nil {
		return emit(document.Failure(provider.TransportError(name, err)))
	}
	if resp.IsError() {
		perr := provider.ClassifyHTTPStatus(name, resp.StatusCode(), parseRetryAfter(resp), httpclients.ErrorFromResponse(resp))
		return emit(document.Failure(perr))
	}

	docs := make([]document.ScholarlyDocument, 0, len(body.Data))
	for _, p := range body.Data {
		docs = append(docs, a.convertPaper(p, intent.Mode))
	}
	hasMore := body.Next > intent.Offset && body.Next < body.Total
	return emit(document.Success(docs, body.Total, hasMore))
}

func (a *Adapter) convertPaper(p paper, mode document.SearchMode) document.ScholarlyDocument {
	var docDOI doi.DOI
	if rawDOI, ok := p.ExternalIDs["DOI"]; ok && rawDOI != "" {
		if parsed, ok := doi.Parse(rawDOI); ok {
			docDOI = parsed
		}
	}

	authors := make([]document.Author, 0, len(p.Authors))
	for _, au := range p.Authors {
		authors = append(authors, document.Author{DisplayName: au.Name, ProviderAuthorID: au.AuthorID})
	}

	var venue *string
	if p.Venue != "" {
		v := p.Venue
		venue = &v
	}

	var pdfURL *string
	if p.OpenAccessPDF != nil && p.OpenAccessPDF.URL != "" {
		u := p.OpenAccessPDF.URL
		pdfURL = &u
	}

	d := document.ScholarlyDocument{
		InternalID:      name.IDPrefix() + p.PaperID,
		DOI:             docDOI,
		SourceProvider:  name,
		Title:           p.Title,
		Authors:         authors,
		PublicationYear: p.Year,
		Venue:           venue,
		CitationCount:   p.CitationCount,
		PDFURL:          pdfURL,
		Confidence:      1.0,
		SidecarPayloads: document.Sidecar{name: {JSON: p}},
	}

	if mode == document.ModeEnrichment {
		d.Abstract = p.Abstract
		// tldr.text is nil when Semantic Scholar has no TLDR summary for
		// this paper; surface it only when present (spec §4.2: "TLDR from
		// tldr.text path, null when absent").
		if p.TLDR != nil && p.TLDR.Text != "" {
			tldrText := p.TLDR.Text
			d.TLDR = &tldrText
		}
		concepts := make([]document.Concept, 0, len(p.FieldsOfStudy))
		for _, field := range p.FieldsOfStudy {
			concepts = append(concepts, document.Concept{Name: field, RelevanceScore: 1.0})
		}
		d.Concepts = concepts
		refs := make([]string, 0, len(p.References))
		for _, r := range p.References {
			if r.PaperID != "" {
				refs = append(refs, name.IDPrefix()+r.PaperID)
			}
		}
		d.References = refs
		d.FullyHydrated = true
	}

	return d
}

func (a *Adapter) FetchDetails(ctx context.Context, nativeID string) (*document.ScholarlyDocument, error) {
	var p paper
	resp, err := a.client.R().SetContext(ctx).SetResult(&p).
		SetQueryParam("fields", searchFields).
		Get(a.baseURL + "/paper/" + nativeID)
	if err != nil {
		return nil, provider.TransportError(name, err)
	}
	if resp.StatusCode() == 404 {
		return nil, nil
	}
	if resp.IsError() {
		return nil, provider.ClassifyHTTPStatus(name, resp.StatusCode(), parseRetryAfter(resp), httpclients.ErrorFromResponse(resp))
	}
	doc := a.convertPaper(p, document.ModeEnrichment)
	return &doc, nil
}

// FetchBatch exercises Semantic Scholar's /paper/batch endpoint (spec §4.2
// supplemented capability CapabilityBatchLookup). The orchestrator's
// EnrichBatch type-asserts for this method and prefers it over repeated
// FetchDetails calls whenever multiple documents to enrich share this
// provider.
func (a *Adapter) FetchBatch(ctx context.Context, nativeIDs []string) ([]document.ScholarlyDocument, error) {
	var papers []paper
	resp, err := a.client.R().SetContext(ctx).
		SetQueryParam("fields", searchFields).
		SetBody(map[string][]string{"ids": nativeIDs}).
		SetResult(&papers).
		Post(a.baseURL + "/paper/batch")
	if err != nil {
		return nil, provider.TransportError(name, err)
	}
	if resp.IsError() {
		return nil, provider.ClassifyHTTPStatus(name, resp.StatusCode(), parseRetryAfter(resp), httpclients.ErrorFromResponse(resp))
	}
	docs := make([]document.ScholarlyDocument, 0, len(papers))
	for _, p := range papers {
		docs = append(docs, a.convertPaper(p, document.ModeEnrichment))
	}
	return docs, nil
}

// GetStats approximates a year histogram from Semantic Scholar's search
// response, which has no native group-by endpoint (mirrors the arXiv
// adapter's best-effort approach).
func (a *Adapter) GetStats(ctx context.Context, intent document.SearchIntent) (document.Stats, error) {
	var stats document.Stats
	err := a.Search(ctx, document.SearchIntent{Query: intent.Query, Filters: intent.Filters, PerProviderCap: 100}, func(result document.ProviderResult) error {
		if result.IsError() {
			return result.Err
		}
		stats.TotalCount = result.TotalCount
		stats.YearHistogram = make(map[int]int)
		for _, d := range result.Documents {
			if d.PublicationYear != nil {
				stats.YearHistogram[*d.PublicationYear]++
			}
		}
		return nil
	})
	if err != nil {
		return document.Stats{}, err
	}
	return stats, nil
}

func (a *Adapter) Health(ctx context.Context) error {
	resp, err := a.client.R().SetContext(ctx).
		SetQueryParam("query", "test").
		SetQueryParam("limit", "1").
		Get(a.baseURL + "/paper/search")
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
