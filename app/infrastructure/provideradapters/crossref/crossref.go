// Package crossref adapts the Crossref Works API to the provider.Adapter
// contract (spec §4.2 Crossref, §6 external interfaces).
package crossref

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
	"github.com/scholarfed/engine/app/utils/idgen"
	"github.com/scholarfed/engine/app/utils/ptr"
	"github.com/scholarfed/engine/config/environment_variables"
)

const (
	name           = document.ProviderCrossref
	defaultBaseURL = "https://api.crossref.org"
)

type worksResponse struct {
	Message struct {
		TotalResults int    `json:"total-results"`
		Items        []item `json:"items"`
	} `json:"message"`
}

type itemResponse struct {
	Message item `json:"message"`
}

type item struct {
	DOI           string       `json:"DOI"`
	Title         []string     `json:"title"`
	Author        []crossAuthor `json:"author"`
	ContainerTitle []string    `json:"container-title"`
	IsReferencedByCount int   `json:"is-referenced-by-count"`
	Abstract      string       `json:"abstract"`
	Type          string       `json:"type"`
	PublishedPrint  *datePart  `json:"published-print"`
	PublishedOnline *datePart  `json:"published-online"`
	Created         *datePart  `json:"created"`
	Indexed         *datePart  `json:"indexed"`
	Link          []link       `json:"link"`
}

type crossAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	ORCID  string `json:"ORCID"`
}

type datePart struct {
	DateParts [][]int `json:"date-parts"`
}

type link struct {
	URL         string `json:"URL"`
	ContentType string `json:"content-type"`
}

// Adapter implements provider.Adapter for Crossref.
type Adapter struct {
	client  *resty.Client
	baseURL string
}

// New builds a Crossref adapter.
func New() *Adapter {
	return &Adapter{client: httpclients.NewClient("crossref"), baseURL: defaultBaseURL}
}

func (a *Adapter) ID() document.ProviderTag { return name }

func (a *Adapter) Capabilities() document.CapabilitySet {
	return document.NewCapabilitySet(
		document.CapabilityTextSearch,
		document.CapabilityYearFilter,
		document.CapabilityTypeFilter,
		document.CapabilityVenueFilter,
		document.CapabilityCitationCounts,
		document.CapabilityPagination,
	)
}

func (a *Adapter) buildFilter(intent document.SearchIntent) string {
	var clauses []string
	if intent.Filters.YearFrom != nil {
		clauses = append(clauses, fmt.Sprintf("from-pub-date:%d-01-01", *intent.Filters.YearFrom))
	}
	if intent.Filters.YearTo != nil {
		clauses = append(clauses, fmt.Sprintf("until-pub-date:%d-12-31", *intent.Filters.YearTo))
	}
	for _, docType := range intent.Filters.DocumentTypes {
		clauses = append(clauses, "type:"+docType)
	}
	return strings.Join(clauses, ",")
}

func pageRows(intent document.SearchIntent) int {
	if intent.PerProviderCap > 0 {
		return intent.PerProviderCap
	}
	return 20
}

func (a *Adapter) DebugQueryTranslation(intent document.SearchIntent) string {
	return fmt.Sprintf("GET %s/works?query=%s&rows=%d&offset=%d&filter=%s",
		a.baseURL, intent.Query, pageRows(intent), intent.Offset, a.buildFilter(intent))
}

func (a *Adapter) Search(ctx context.Context, intent document.SearchIntent, emit func(document.ProviderResult) error) error {
	req := a.client.R().SetContext(ctx).
		SetQueryParam("query", intent.Query).
		SetQueryParam("rows", strconv.Itoa(pageRows(intent))).
		SetQueryParam("offset", strconv.Itoa(intent.Offset))
	if filter := a.buildFilter(intent); filter != "" {
		req.SetQueryParam("filter", filter)
	}
	if email := environment_variables.EnvironmentVariables.CrossrefContactEmail; email != "" {
		req.SetQueryParam("mailto", email)
	}

	var body worksResponse
	resp, err := req.SetResult(&body).Get(a.baseURL + "/works")
	if err != nil {
		return emit(document.Failure(provider.TransportError(name, err)))
	}
	if resp.IsError() {
		perr := provider.ClassifyHTTPStatus(name, resp.StatusCode(), parseRetryAfter(resp), httpclients.ErrorFromResponse(resp))
		return emit(document.Failure(perr))
	}

	docs := make([]document.ScholarlyDocument, 0, len(body.Message.Items))
	for _, it := range body.Message.Items {
		docs = append(docs, a.convertItem(it, intent.Mode))
	}
	hasMore := intent.Offset+len(docs) < body.Message.TotalResults
	return emit(document.Success(docs, body.Message.TotalResults, hasMore))
}

func (a *Adapter) convertItem(it item, mode document.SearchMode) document.ScholarlyDocument {
	var docDOI doi.DOI
	if it.DOI != "" {
		if parsed, ok := doi.Parse(it.DOI); ok {
			docDOI = parsed
		}
	}

	title := ""
	if len(it.Title) > 0 {
		title = it.Title[0]
	}

	authors := make([]document.Author, 0, len(it.Author))
	for _, au := range it.Author {
		displayName := strings.TrimSpace(au.Given + " " + au.Family)
		authors = append(authors, document.Author{
			DisplayName: displayName,
			ORCID:       bareORCID(au.ORCID),
		})
	}

	var venue *string
	if len(it.ContainerTitle) > 0 && it.ContainerTitle[0] != "" {
		venue = ptr.To(it.ContainerTitle[0])
	}

	year := resolveYear(it)

	nativeID := it.DOI
	if nativeID == "" {
		// Crossref items are keyed by DOI; the rare item missing one still
		// needs a stable internal id to dedup and enrich against.
		nativeID = idgen.GenerateSecureID()
	}

	d := document.ScholarlyDocument{
		InternalID:      name.IDPrefix() + nativeID,
		DOI:             docDOI,
		SourceProvider:  name,
		Title:           title,
		Authors:         authors,
		PublicationYear: year,
		Venue:           venue,
		CitationCount:   it.IsReferencedByCount,
		Confidence:      1.0,
		SidecarPayloads: document.Sidecar{name: {JSON: it}},
	}

	if mode == document.ModeEnrichment {
		// Crossref's abstract field carries a JATS XML fragment when
		// present; stripJATS removes the tags here so Abstract holds plain
		// text. Absent entirely unless the publisher deposited one (spec §4.2:
		// "abstract null unless JATS-stripped abstract field present").
		if stripped := stripJATS(it.Abstract); stripped != "" {
			d.Abstract = &stripped
		}
		d.FullyHydrated = true
	}

	return d
}

// resolveYear applies Crossref's date precedence: published-print,
// published-online, created, then indexed (spec §4.2 Crossref).
func resolveYear(it item) *int {
	for _, dp := range []*datePart{it.PublishedPrint, it.PublishedOnline, it.Created, it.Indexed} {
		if dp == nil || len(dp.DateParts) == 0 || len(dp.DateParts[0]) == 0 {
			continue
		}
		year := dp.DateParts[0][0]
		return &year
	}
	return nil
}

func bareORCID(orcidURL string) string {
	if orcidURL == "" {
		return ""
	}
	idx := strings.LastIndex(orcidURL, "/")
	if idx == -1 {
		return orcidURL
	}
	return orcidURL[idx+1:]
}

// stripJATS removes JATS/XML tags from a Crossref abstract fragment,
// leaving plain text.
func stripJATS(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	inTag := false
	for _, r := range raw {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(strings.Join(strings.Fields(b.String()), " "))
}

func (a *Adapter) FetchDetails(ctx context.Context, nativeID string) (*document.ScholarlyDocument, error) {
	var body itemResponse
	resp, err := a.client.R().SetContext(ctx).SetResult(&body).Get(a.baseURL + "/works/" + nativeID)
	if err != nil {
		return nil, provider.TransportError(name, err)
	}
	if resp.StatusCode() == 404 {
		return nil, nil
	}
	if resp.IsError() {
		return nil, provider.ClassifyHTTPStatus(name, resp.StatusCode(), parseRetryAfter(resp), httpclients.ErrorFromResponse(resp))
	}
	doc := a.convertItem(body.Message, document.ModeEnrichment)
	return &doc, nil
}

// GetStats has no native group-by endpoint on Crossref's public API, so it
// derives a best-effort year histogram from a capped search page, the same
// approach the arXiv and Semantic Scholar adapters use.
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
	resp, err := a.client.R().SetContext(ctx).Get(a.baseURL + "/works?rows=1")
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
