// Package http assembles the module's HTTP surface: versioned route groups
// registered onto a shared gin engine, following the teacher's
// `RegisterRouter(router gin.IRouter)` convention per route package.
package http

import (
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"

	legacyroute "github.com/scholarfed/engine/app/interfaces/http/routes/v1/legacy"
	proberoute "github.com/scholarfed/engine/app/interfaces/http/routes/v1/probe"
	providersroute "github.com/scholarfed/engine/app/interfaces/http/routes/v1/providers"
	searchroute "github.com/scholarfed/engine/app/interfaces/http/routes/v1/search"
)

// Router bundles every v1 route registrar the composition root wires
// together.
type Router struct {
	search    *searchroute.SearchAPI
	probe     *proberoute.ProbeAPI
	providers *providersroute.ProvidersAPI
	legacy    *legacyroute.LegacyAPI
}

// NewRouter builds the Router from its route-level dependencies.
func NewRouter(
	search *searchroute.SearchAPI,
	probe *proberoute.ProbeAPI,
	providers *providersroute.ProvidersAPI,
	legacy *legacyroute.LegacyAPI,
) *Router {
	return &Router{search: search, probe: probe, providers: providers, legacy: legacy}
}

// Register wires every route group plus the swagger UI onto engine.
func (r *Router) Register(engine *gin.Engine) {
	engine.GET("/swagger/*any", ginswagger.WrapHandler(swaggerfiles.Handler))
	registerProfilingRoutes(engine)

	v1 := engine.Group("/v1")
	r.search.RegisterRouter(v1)
	r.probe.RegisterRouter(v1)
	r.providers.RegisterRouter(v1)
	r.legacy.RegisterRouter(v1)
}
