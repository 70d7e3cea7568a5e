// Package providersroute exposes per-provider debug and health endpoints
// (spec §6 `debugQueryTranslation`, §4.2 adapter Health).
package providersroute

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/provider"
	"github.com/scholarfed/engine/app/interfaces/http/middleware"
	"github.com/scholarfed/engine/app/interfaces/http/responses"
)

// ProvidersAPI exposes provider-registry introspection over HTTP.
type ProvidersAPI struct {
	registry *provider.Registry
}

// NewProvidersAPI builds the providers route handler.
func NewProvidersAPI(registry *provider.Registry) *ProvidersAPI {
	return &ProvidersAPI{registry: registry}
}

func (p *ProvidersAPI) RegisterRouter(router gin.IRouter) {
	group := router.Group("/providers", middleware.BearerAuthMiddleware())
	group.GET("", p.List)
	group.GET("/:id/debug-query", p.DebugQueryTranslation)
	group.GET("/:id/health", p.Health)
}

type providerSummary struct {
	ID           document.ProviderTag         `json:"id"`
	Capabilities []document.ProviderCapability `json:"capabilities"`
}

// List enumerates every registered provider and its capability set.
//
// @Summary List registered bibliographic providers
// @Tags Providers
// @Security BearerAuth
// @Produce json
// @Router /v1/providers [get]
func (p *ProvidersAPI) List(c *gin.Context) {
	adapters := p.registry.All()
	out := make([]providerSummary, 0, len(adapters))
	for _, a := range adapters {
		caps := a.Capabilities()
		capList := make([]document.ProviderCapability, 0, len(caps))
		for cap := range caps {
			capList = append(capList, cap)
		}
		out = append(out, providerSummary{ID: a.ID(), Capabilities: capList})
	}
	c.JSON(http.StatusOK, out)
}

// DebugQueryTranslation renders the native query a provider would issue
// for a given intent, without executing it (spec §6 `debugQueryTranslation`).
//
// @Summary Render a provider's native query translation
// @Tags Providers
// @Security BearerAuth
// @Produce json
// @Param id path string true "provider id"
// @Param q query string true "search query"
// @Router /v1/providers/{id}/debug-query [get]
func (p *ProvidersAPI) DebugQueryTranslation(c *gin.Context) {
	tag := document.ProviderTag(c.Param("id"))
	adapter, ok := p.registry.Get(tag)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, responses.NewErrorResponse(
			"0199600b-3000-7000-8000-000000000001", errUnknownProvider))
		return
	}

	intent := document.SearchIntent{Query: c.Query("q"), Mode: document.ModeDiscovery}
	c.JSON(http.StatusOK, gin.H{"translation": adapter.DebugQueryTranslation(intent)})
}

// Health reports whether a provider's upstream API currently responds
// successfully.
//
// @Summary Check a provider's upstream health
// @Tags Providers
// @Security BearerAuth
// @Produce json
// @Param id path string true "provider id"
// @Router /v1/providers/{id}/health [get]
func (p *ProvidersAPI) Health(c *gin.Context) {
	tag := document.ProviderTag(c.Param("id"))
	adapter, ok := p.registry.Get(tag)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, responses.NewErrorResponse(
			"0199600b-3000-7000-8000-000000000002", errUnknownProvider))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	body := gin.H{}
	if reporter, ok := adapter.(metricsReporter); ok {
		requests, failures := reporter.Metrics()
		body["requests"] = requests
		body["failures"] = failures
	}

	if err := adapter.Health(ctx); err != nil {
		body["healthy"] = false
		body["error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	body["healthy"] = true
	c.JSON(http.StatusOK, body)
}

// metricsReporter is the optional running-counter surface an adapter may
// implement (only the arXiv adapter does today, grounded on
// pnocera-SciFind's GetMetrics). Health reports these alongside
// reachability when present.
type metricsReporter interface {
	Metrics() (requests, failures int64)
}

const healthCheckTimeout = 5 * time.Second

type providersRouteError string

func (e providersRouteError) Error() string { return string(e) }

const errUnknownProvider providersRouteError = "unknown provider id"
