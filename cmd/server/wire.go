//go:build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/scholarfed/engine/app/domain"
	"github.com/scholarfed/engine/app/infrastructure"
	httpinterface "github.com/scholarfed/engine/app/interfaces/http"
	legacyroute "github.com/scholarfed/engine/app/interfaces/http/routes/v1/legacy"
	proberoute "github.com/scholarfed/engine/app/interfaces/http/routes/v1/probe"
	providersroute "github.com/scholarfed/engine/app/interfaces/http/routes/v1/providers"
	searchroute "github.com/scholarfed/engine/app/interfaces/http/routes/v1/search"
	"github.com/scholarfed/engine/app/interfaces/mcp"
)

// InitializeApplication builds the fully wired Application, generalizing
// the teacher's per-layer wire.NewSet composition (InfrastructureProvider +
// ServiceProvider) to this module's interface layer.
func InitializeApplication() (*Application, error) {
	wire.Build(
		infrastructure.InfrastructureProvider,
		domain.ServiceProvider,
		searchroute.NewSearchAPI,
		proberoute.NewProbeAPI,
		providersroute.NewProvidersAPI,
		legacyroute.NewLegacyAPI,
		httpinterface.NewRouter,
		mcp.NewServer,
		NewApplication,
	)
	return nil, nil
}
