// Package arxiv adapts the arXiv Atom export API to the provider.Adapter
// contract (spec §4.2 arXiv, §6 external interfaces), grounded on
// pnocera-SciFind's arxiv-provider.go Atom-parsing approach.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"resty.dev/v3"

	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/provider"
	"github.com/scholarfed/engine/app/utils/httpclients"
	"github.com/scholarfed/engine/app/utils/logger"
)

const (
	name            = document.ProviderArxiv
	defaultBaseURL  = "http://export.arxiv.org/api/query"
	maxResultsLimit = 2000
)

// Adapter implements provider.Adapter for arXiv.
type Adapter struct {
	client  *resty.Client
	baseURL string

	requests int64
	failures int64
}

// New builds an arXiv adapter using the shared httpclients resty
// constructor.
func New() *Adapter {
	return &Adapter{
		client:  httpclients.NewClient("arxiv"),
		baseURL: defaultBaseURL,
	}
}

func (a *Adapter) ID() document.ProviderTag { return name }

func (a *Adapter) Capabilities() document.CapabilitySet {
	return document.NewCapabilitySet(
		document.CapabilityTextSearch,
		document.CapabilityYearFilter,
		document.CapabilityConceptFilter,
		document.CapabilityConceptTags,
		document.CapabilityPDFURLs,
		document.CapabilityPagination,
	)
}

// buildQuery renders the arXiv query DSL: `ti:"..." OR abs:"..."`
// combined with `cat:` and `submittedDate:[... TO ...]` clauses (spec
// §4.2 arXiv).
func (a *Adapter) buildQuery(intent document.SearchIntent) string {
	var parts []string
	if intent.Query != "" {
		parts = append(parts, fmt.Sprintf(`(ti:%q OR abs:%q)`, intent.Query, intent.Query))
	}
	for _, category := range intent.Filters.ConceptWhitelist {
		parts = append(parts, fmt.Sprintf("cat:%s", category))
	}
	if intent.Filters.YearFrom != nil {
		parts = append(parts, fmt.Sprintf("submittedDate:[%d0101 TO *]", *intent.Filters.YearFrom))
	}
	if intent.Filters.YearTo != nil {
		parts = append(parts, fmt.Sprintf("submittedDate:[* TO %d1231]", *intent.Filters.YearTo))
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, " AND ")
}

func (a *Adapter) DebugQueryTranslation(intent document.SearchIntent) string {
	cap := intent.PerProviderCap
	if cap <= 0 {
		cap = 20
	}
	return fmt.Sprintf("GET %s?search_query=%s&start=%d&max_results=%d", a.baseURL, a.buildQuery(intent), intent.Offset, cap)
}

// Search fetches one page from the arXiv API and emits a single Success
// (or Error) frame. arXiv's API has no native streaming/pagination
// cursor beyond start/max_results, so one request satisfies the full
// adapter contract for a given intent.
func (a *Adapter) Search(ctx context.Context, intent document.SearchIntent, emit func(document.ProviderResult) error) error {
	perPage := intent.PerProviderCap
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > maxResultsLimit {
		perPage = maxResultsLimit
	}

	atomic.AddInt64(&a.requests, 1)
	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParam("search_query", a.buildQuery(intent)).
		SetQueryParam("start", strconv.Itoa(intent.Offset)).
		SetQueryParam("max_results", strconv.Itoa(perPage)).
		Get(a.baseURL)
	if err != nil {
		atomic.AddInt64(&a.failures, 1)
		return emit(document.Failure(provider.TransportError(name, err)))
	}
	if resp.IsError() {
		atomic.AddInt64(&a.failures, 1)
		retryAfter := parseRetryAfter(resp)
		perr := provider.ClassifyHTTPStatus(name, resp.StatusCode(), retryAfter, httpclients.ErrorFromResponse(resp))
		return emit(document.Failure(perr))
	}

	var feed atomFeed
	if err := xml.Unmarshal(resp.Bytes(), &feed); err != nil {
		atomic.AddInt64(&a.failures, 1)
		return emit(document.Failure(provider.MalformedError(name, err)))
	}

	docs := make([]document.ScholarlyDocument, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		doc, convErr := a.convertEntry(entry, intent.Mode, resp.Bytes())
		if convErr != nil {
			logger.GetLogger().WithField("provider", name).Warnf("arxiv: skipping malformed entry: %v", convErr)
			continue
		}
		docs = append(docs, doc)
	}

	hasMore := len(feed.Entries) == perPage
	return emit(document.Success(docs, len(docs), hasMore))
}

func (a *Adapter) convertEntry(entry atomEntry, mode document.SearchMode, rawFeedXML []byte) (document.ScholarlyDocument, error) {
	arxivID := extractArxivID(entry.ID)
	if arxivID == "" {
		return document.ScholarlyDocument{}, fmt.Errorf("invalid arxiv entry id: %s", entry.ID)
	}

	var year *int
	if len(entry.Published) >= 4 {
		if y, err := strconv.Atoi(entry.Published[:4]); err == nil {
			year = &y
		}
	}

	authors := make([]document.Author, 0, len(entry.Authors))
	for _, au := range entry.Authors {
		authors = append(authors, document.Author{DisplayName: au.Name})
	}

	concepts := make([]document.Concept, 0, len(entry.Categories))
	for _, cat := range entry.Categories {
		concepts = append(concepts, document.Concept{
			Name:              categoryName(cat.Term),
			RelevanceScore:    1.0,
			ProviderConceptID: cat.Term,
		})
	}

	var pdfURL *string
	for i := range entry.Links {
		if entry.Links[i].Title == "pdf" {
			href := entry.Links[i].Href
			pdfURL = &href
			break
		}
	}

	d := document.ScholarlyDocument{
		InternalID:     name.IDPrefix() + arxivID,
		SourceProvider: name,
		Title:          strings.TrimSpace(collapseWhitespace(entry.Title)),
		Authors:        authors,
		PublicationYear: year,
		CitationCount:  0,
		PDFURL:         pdfURL,
		Confidence:     1.0,
		SidecarPayloads: document.Sidecar{
			name: {XML: entryXML(entry)},
		},
	}

	if mode == document.ModeEnrichment {
		abstract := strings.TrimSpace(collapseWhitespace(entry.Summary))
		d.Abstract = &abstract
		d.Concepts = concepts
		d.FullyHydrated = true
	}

	return d, nil
}

// entryXML re-marshals the single entry so the sidecar preserves a
// provider-native fragment scoped to this document, rather than the
// whole feed (spec §3 invariant iv).
func entryXML(entry atomEntry) []byte {
	out, err := xml.Marshal(entry)
	if err != nil {
		return nil
	}
	return out
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// extractArxivID trims the entry id URL down to the trailing
// `NNNN.NNNNN[vN]` segment and strips any version suffix (spec §4.2
// arXiv).
func extractArxivID(entryID string) string {
	parts := strings.Split(entryID, "/")
	if len(parts) == 0 {
		return ""
	}
	id := parts[len(parts)-1]
	if idx := strings.LastIndex(id, "v"); idx > 0 {
		id = id[:idx]
	}
	return id
}

// FetchDetails re-queries arXiv by id (arXiv's query API doubles as its
// single-document lookup via `id_list`).
func (a *Adapter) FetchDetails(ctx context.Context, nativeID string) (*document.ScholarlyDocument, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParam("id_list", nativeID).
		SetQueryParam("max_results", "1").
		Get(a.baseURL)
	if err != nil {
		return nil, provider.TransportError(name, err)
	}
	if resp.IsError() {
		if resp.StatusCode() == 404 {
			return nil, nil
		}
		return nil, provider.ClassifyHTTPStatus(name, resp.StatusCode(), parseRetryAfter(resp), httpclients.ErrorFromResponse(resp))
	}

	var feed atomFeed
	if err := xml.Unmarshal(resp.Bytes(), &feed); err != nil {
		return nil, provider.MalformedError(name, err)
	}
	if len(feed.Entries) == 0 {
		return nil, nil
	}
	doc, err := a.convertEntry(feed.Entries[0], document.ModeEnrichment, resp.Bytes())
	if err != nil {
		return nil, provider.MalformedError(name, err)
	}
	return &doc, nil
}

// GetStats issues a broad search and reports a best-effort count; arXiv's
// query API has no group-by-year endpoint, so the year histogram is
// derived from the fetched page only (a conservative lower bound).
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
		SetQueryParam("search_query", "all").
		SetQueryParam("max_results", "1").
		Get(a.baseURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return httpclients.ErrorFromResponse(resp)
	}
	return nil
}

// Metrics returns the running request/failure counters since process
// start (grounded on pnocera-SciFind's arxiv-provider.go GetMetrics),
// surfaced by the providers route's health endpoint.
func (a *Adapter) Metrics() (requests, failures int64) {
	return atomic.LoadInt64(&a.requests), atomic.LoadInt64(&a.failures)
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
