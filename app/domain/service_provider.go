package domain

import (
	"github.com/google/wire"

	"github.com/scholarfed/engine/app/domain/cron"
	"github.com/scholarfed/engine/app/domain/facade"
	"github.com/scholarfed/engine/app/domain/governor"
	"github.com/scholarfed/engine/app/domain/legacy"
	"github.com/scholarfed/engine/app/domain/orchestrator"
	"github.com/scholarfed/engine/app/domain/probe"
	"github.com/scholarfed/engine/app/infrastructure/cache"
)

// ServiceProvider wires the governor, orchestrator, statistics cache,
// facade, legacy bridge, and cron service constructors, generalizing the
// teacher's domain wire set to this module's federated-search pipeline.
var ServiceProvider = wire.NewSet(
	governor.NewFromEnv,
	wire.Bind(new(orchestrator.Governor), new(*governor.Governor)),
	orchestrator.NewFromEnv,
	cache.NewCachedStatsSource,
	wire.Bind(new(facade.FacadeOrchestrator), new(*cache.CachedStatsSource)),
	probe.New,
	cache.NewCachedProbe,
	facade.New,
	wire.Bind(new(cron.QuotaResetter), new(*governor.Governor)),
	cron.NewService,
	wire.Bind(new(legacy.Searcher), new(*orchestrator.Orchestrator)),
	legacy.New,
)
