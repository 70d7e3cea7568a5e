package infrastructure

import (
	"github.com/scholarfed/engine/app/domain/provider"
	"github.com/scholarfed/engine/app/infrastructure/provideradapters/arxiv"
	"github.com/scholarfed/engine/app/infrastructure/provideradapters/crossref"
	"github.com/scholarfed/engine/app/infrastructure/provideradapters/openalex"
	"github.com/scholarfed/engine/app/infrastructure/provideradapters/semanticscholar"
)

// NewProviderRegistry builds the registry with every built-in bibliographic
// adapter registered (spec §4.2).
func NewProviderRegistry() *provider.Registry {
	registry := provider.NewRegistry()
	registry.Register(openalex.New())
	registry.Register(semanticscholar.New())
	registry.Register(crossref.New())
	registry.Register(arxiv.New())
	return registry
}
