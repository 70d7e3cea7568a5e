package main

import (
	"github.com/scholarfed/engine/app/domain/cron"
	httpinterface "github.com/scholarfed/engine/app/interfaces/http"
	"github.com/scholarfed/engine/app/interfaces/mcp"
)

// Application bundles the process's two long-running surfaces: the HTTP
// router and the MCP server, plus the cron service that keeps the
// governor's quotas and environment config fresh.
type Application struct {
	Router *httpinterface.Router
	MCP    *mcp.Server
	Cron   *cron.CronService
}

// NewApplication assembles the Application from its wired dependencies.
func NewApplication(router *httpinterface.Router, mcpServer *mcp.Server, cronService *cron.CronService) *Application {
	return &Application{Router: router, MCP: mcpServer, Cron: cronService}
}
