// Package provider defines the adapter contract every bibliographic
// provider implements (spec §4.2): capability negotiation, the four
// operations, and error classification. Concrete adapters live under
// app/infrastructure/provideradapters/.
package provider

import (
	"context"

	"github.com/scholarfed/engine/app/domain/document"
)

// Adapter is the narrow contract the orchestrator, probe, and legacy
// bridge drive every provider through. Implementations must be safe for
// concurrent use — the orchestrator calls search on many goroutines.
type Adapter interface {
	// ID is the stable provider identifier, one of
	// "openalex"|"semanticscholar"|"crossref"|"arxiv".
	ID() document.ProviderTag

	// Capabilities returns the closed set of features this adapter
	// supports.
	Capabilities() document.CapabilitySet

	// Search streams ProviderResult frames for intent via the callback.
	// It emits zero or more Success frames as pages arrive, then at most
	// one Error frame, then returns. emit returning an error (e.g. the
	// orchestrator's channel send observing context cancellation) must
	// stop the search and propagate.
	Search(ctx context.Context, intent document.SearchIntent, emit func(document.ProviderResult) error) error

	// FetchDetails retrieves a fully-hydrated document by native id
	// (without the provider-tag prefix). Returns (nil, nil) on a 404-class
	// outcome.
	FetchDetails(ctx context.Context, nativeID string) (*document.ScholarlyDocument, error)

	// GetStats returns aggregate statistics for intent.
	GetStats(ctx context.Context, intent document.SearchIntent) (document.Stats, error)

	// DebugQueryTranslation describes, in human-readable form, the exact
	// wire request this adapter would issue for intent.
	DebugQueryTranslation(intent document.SearchIntent) string

	// Health reports the adapter's current reachability (supplemented
	// feature, grounded on pnocera-SciFind's HealthCheck).
	Health(ctx context.Context) error
}

// SupportsIntent reports whether adapter's capability set covers every
// capability intent's filters require (spec §4.5 step 1).
func SupportsIntent(adapter Adapter, intent document.SearchIntent) bool {
	caps := adapter.Capabilities()
	for _, required := range intent.Filters.RequiredFor() {
		if !caps.Has(required) {
			return false
		}
	}
	return true
}
