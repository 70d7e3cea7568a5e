// Package searchroute exposes the discovery and enrichment search paths
// over HTTP (spec §6 `search`/`searchWithIntent`/`enrich`).
package searchroute

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scholarfed/engine/app/domain/doi"
	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/facade"
	"github.com/scholarfed/engine/app/interfaces/http/middleware"
	"github.com/scholarfed/engine/app/interfaces/http/responses"
	"github.com/scholarfed/engine/app/utils/ptr"
)

func tryParseDOI(s string) (doi.DOI, bool) {
	return doi.Parse(s)
}

// SearchAPI exposes the facade's search and enrich operations.
type SearchAPI struct {
	facade *facade.Facade
}

// NewSearchAPI builds the search route handler.
func NewSearchAPI(facade *facade.Facade) *SearchAPI {
	return &SearchAPI{facade: facade}
}

func (s *SearchAPI) RegisterRouter(router gin.IRouter) {
	group := router.Group("/search", middleware.BearerAuthMiddleware())
	group.GET("", s.Search)
	group.POST("/enrich", s.Enrich)
	group.POST("/enrich-batch", s.EnrichBatch)
}

// Search streams discovery-mode results as newline-delimited Server-Sent
// Events, one document per frame (spec §6 `search`: "streaming discovery").
//
// @Summary Stream a federated discovery search
// @Description Fans the query across every active provider and streams deduplicated, merged documents as Server-Sent Events.
// @Tags Search
// @Security BearerAuth
// @Produce text/event-stream
// @Param q query string true "search query"
// @Param year_from query int false "minimum publication year"
// @Param year_to query int false "maximum publication year"
// @Param open_access query bool false "restrict to open-access works"
// @Param limit query int false "per-provider result cap"
// @Router /v1/search [get]
func (s *SearchAPI) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.NewErrorResponse(
			"0199600b-1000-7000-8000-000000000001", errMissingQuery))
		return
	}

	filters := document.SearchFilters{
		OpenAccessOnly: c.Query("open_access") == "true",
	}
	if v := c.Query("year_from"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			filters.YearFrom = ptr.To(year)
		}
	}
	if v := c.Query("year_to"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			filters.YearTo = ptr.To(year)
		}
	}
	limit := 25
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ctx := c.Request.Context()
	c.Stream(func(w gin.ResponseWriter) bool {
		err := s.facade.Search(ctx, query, filters, limit, func(doc document.ScholarlyDocument) error {
			c.SSEvent("document", doc)
			w.Flush()
			return nil
		})
		if err != nil {
			c.SSEvent("error", responses.NewErrorResponse("0199600b-1000-7000-8000-000000000002", err))
			w.Flush()
		}
		return false
	})
}

// enrichRequest is the minimal payload the caller must send back a
// previously discovered document's identity (its internal id and source
// provider are enough to refetch and fuse its deep record).
type enrichRequest struct {
	InternalID     string              `json:"internal_id" binding:"required"`
	SourceProvider document.ProviderTag `json:"source_provider" binding:"required"`
	DOI            string              `json:"doi"`
}

// Enrich hydrates a previously discovered document to its full record
// (spec §6 `enrich`).
//
// @Summary Enrich a discovery-mode document
// @Description Fetches the deep record for a document (abstract, concepts, references) and fuses it with the discovery-layer fields already known.
// @Tags Search
// @Security BearerAuth
// @Accept json
// @Produce json
// @Router /v1/search/enrich [post]
func (s *SearchAPI) Enrich(c *gin.Context) {
	var req enrichRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.NewErrorResponse(
			"0199600b-1000-7000-8000-000000000003", err))
		return
	}

	doc := document.ScholarlyDocument{InternalID: req.InternalID, SourceProvider: req.SourceProvider}
	if req.DOI != "" {
		// A client-echoed DOI, parsed here; an invalid one is dropped and
		// the document is enriched as if it had no DOI.
		if parsed, ok := tryParseDOI(req.DOI); ok {
			doc.DOI = parsed
		}
	}

	enriched, err := s.facade.Enrich(c.Request.Context(), doc)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, responses.NewErrorResponse(
			"0199600b-1000-7000-8000-000000000004", err))
		return
	}
	if enriched == nil {
		c.JSON(http.StatusNotFound, responses.NewErrorResponse(
			"0199600b-1000-7000-8000-000000000005", errEnrichmentUnavailable))
		return
	}
	c.JSON(http.StatusOK, enriched)
}

// EnrichBatch hydrates many previously discovered documents at once,
// letting the facade group same-provider lookups onto a single multi-id
// request where the provider supports one (spec §4.2 CapabilityBatchLookup).
//
// @Summary Enrich multiple discovery-mode documents at once
// @Description Fetches deep records for a batch of documents, grouping same-provider lookups onto a multi-id endpoint where available.
// @Tags Search
// @Security BearerAuth
// @Accept json
// @Produce json
// @Router /v1/search/enrich-batch [post]
func (s *SearchAPI) EnrichBatch(c *gin.Context) {
	var reqs []enrichRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.NewErrorResponse(
			"0199600b-1000-7000-8000-000000000006", err))
		return
	}

	docs := make([]document.ScholarlyDocument, len(reqs))
	for i, req := range reqs {
		doc := document.ScholarlyDocument{InternalID: req.InternalID, SourceProvider: req.SourceProvider}
		if req.DOI != "" {
			if parsed, ok := tryParseDOI(req.DOI); ok {
				doc.DOI = parsed
			}
		}
		docs[i] = doc
	}

	enriched, err := s.facade.EnrichBatch(c.Request.Context(), docs)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, responses.NewErrorResponse(
			"0199600b-1000-7000-8000-000000000007", err))
		return
	}
	c.JSON(http.StatusOK, enriched)
}

type searchRouteError string

func (e searchRouteError) Error() string { return string(e) }

const (
	errMissingQuery           searchRouteError = "q query parameter is required"
	errEnrichmentUnavailable  searchRouteError = "no provider could enrich this document"
)
