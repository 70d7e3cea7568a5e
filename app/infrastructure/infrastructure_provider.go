package infrastructure

import (
	"github.com/google/wire"

	"github.com/scholarfed/engine/app/infrastructure/cache"
)

// InfrastructureProvider wires the cache service and the provider adapter
// registry, generalizing the teacher's infrastructure wire set from a
// single inference provider to the four bibliographic source adapters this
// module fans out to.
var InfrastructureProvider = wire.NewSet(
	cache.NewRedisCacheService,
	NewProviderRegistry,
)
