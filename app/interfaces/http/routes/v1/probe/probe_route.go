// Package proberoute exposes signal-strength, trend-line, and
// query-comparison planning endpoints (spec §6 `probeSignalStrength`/
// `probeTrendLine`/`compareQueries`).
package proberoute

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scholarfed/engine/app/domain/facade"
	"github.com/scholarfed/engine/app/interfaces/http/middleware"
	"github.com/scholarfed/engine/app/interfaces/http/responses"
	"github.com/scholarfed/engine/app/utils/ptr"
)

// ProbeAPI exposes the facade's feasibility-planning operations.
type ProbeAPI struct {
	facade *facade.Facade
}

// NewProbeAPI builds the probe route handler.
func NewProbeAPI(facade *facade.Facade) *ProbeAPI {
	return &ProbeAPI{facade: facade}
}

func (p *ProbeAPI) RegisterRouter(router gin.IRouter) {
	group := router.Group("/probe", middleware.BearerAuthMiddleware())
	group.GET("/signal-strength", p.SignalStrength)
	group.GET("/trend-line", p.TrendLine)
	group.GET("/compare", p.Compare)
}

// SignalStrength classifies a query's feasibility and rising trend (spec
// §6 `probeSignalStrength`).
//
// @Summary Classify a query's systematic-review feasibility
// @Tags Probe
// @Security BearerAuth
// @Produce json
// @Param q query string true "search query"
// @Router /v1/probe/signal-strength [get]
func (p *ProbeAPI) SignalStrength(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.NewErrorResponse(
			"0199600b-2000-7000-8000-000000000001", errMissingQuery))
		return
	}
	metrics := p.facade.ProbeSignalStrength(c.Request.Context(), query)
	c.JSON(http.StatusOK, metrics)
}

// TrendLine returns the year-count histogram for a query, optionally
// bounded by year_start/year_end (spec §6 `probeTrendLine`).
//
// @Summary Return a query's year-count histogram
// @Tags Probe
// @Security BearerAuth
// @Produce json
// @Param q query string true "search query"
// @Param year_start query int false "inclusive lower bound"
// @Param year_end query int false "inclusive upper bound"
// @Router /v1/probe/trend-line [get]
func (p *ProbeAPI) TrendLine(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.NewErrorResponse(
			"0199600b-2000-7000-8000-000000000002", errMissingQuery))
		return
	}

	var yearStart, yearEnd *int
	if v := c.Query("year_start"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			yearStart = ptr.To(year)
		}
	}
	if v := c.Query("year_end"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			yearEnd = ptr.To(year)
		}
	}

	histogram := p.facade.ProbeTrendLine(c.Request.Context(), query, yearStart, yearEnd)
	c.JSON(http.StatusOK, histogram)
}

// Compare runs signal-strength probes concurrently across a comma-separated
// list of queries (spec §6 `compareQueries`).
//
// @Summary Compare feasibility across multiple candidate queries
// @Tags Probe
// @Security BearerAuth
// @Produce json
// @Param q query string true "comma-separated candidate queries"
// @Router /v1/probe/compare [get]
func (p *ProbeAPI) Compare(c *gin.Context) {
	raw := c.Query("q")
	if raw == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.NewErrorResponse(
			"0199600b-2000-7000-8000-000000000003", errMissingQuery))
		return
	}
	queries := strings.Split(raw, ",")
	for i := range queries {
		queries[i] = strings.TrimSpace(queries[i])
	}

	results := p.facade.CompareQueries(c.Request.Context(), queries)
	c.JSON(http.StatusOK, results)
}

type probeRouteError string

func (e probeRouteError) Error() string { return string(e) }

const errMissingQuery probeRouteError = "q query parameter is required"
