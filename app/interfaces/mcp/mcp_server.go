// Package mcp exposes the engine's search, probe, and query-translation
// operations as Model Context Protocol tools, so LLM agents can drive
// federated literature search the same way a human would through the HTTP
// surface (spec §6).
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/scholarfed/engine/app/domain/document"
	"github.com/scholarfed/engine/app/domain/facade"
	"github.com/scholarfed/engine/app/domain/provider"
)

const (
	serverName    = "scholarfed-engine"
	serverVersion = "1.0.0"

	defaultSearchLimit = 10
)

// Server wraps an MCP server exposing the facade's search/probe surface as
// tools.
type Server struct {
	mcp      *server.MCPServer
	facade   *facade.Facade
	registry *provider.Registry
}

// NewServer builds the MCP server and registers every tool.
func NewServer(facade *facade.Facade, registry *provider.Registry) *Server {
	s := &Server{
		mcp:      server.NewMCPServer(serverName, serverVersion),
		facade:   facade,
		registry: registry,
	}
	s.registerTools()
	return s
}

// ServeStdio runs the server over stdio, the common MCP agent transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("search",
			mcp.WithDescription("Search academic literature across OpenAlex, Semantic Scholar, Crossref, and arXiv, returning deduplicated, merged results."),
			mcp.WithString("query", mcp.Required(), mcp.Description("Free-text search query")),
			mcp.WithNumber("year_from", mcp.Description("Minimum publication year")),
			mcp.WithNumber("year_to", mcp.Description("Maximum publication year")),
			mcp.WithBoolean("open_access_only", mcp.Description("Restrict to open-access works")),
			mcp.WithNumber("limit", mcp.Description("Maximum results per provider (default 10)")),
		),
		s.handleSearch,
	)

	s.mcp.AddTool(
		mcp.NewTool("probe",
			mcp.WithDescription("Classify a query's systematic-review feasibility (too narrow/feasible/borderline/too broad) and whether its publication rate is rising."),
			mcp.WithString("query", mcp.Required(), mcp.Description("Free-text search query")),
		),
		s.handleProbe,
	)

	s.mcp.AddTool(
		mcp.NewTool("debugQueryTranslation",
			mcp.WithDescription("Render the native query a given provider would issue for a search, without executing it."),
			mcp.WithString("provider", mcp.Required(), mcp.Description("Provider id: openalex, semanticscholar, crossref, or arxiv")),
			mcp.WithString("query", mcp.Required(), mcp.Description("Free-text search query")),
		),
		s.handleDebugQueryTranslation,
	)
}

func (s *Server) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	filters := document.SearchFilters{
		OpenAccessOnly: req.GetBool("open_access_only", false),
	}
	if yearFrom := req.GetInt("year_from", 0); yearFrom != 0 {
		filters.YearFrom = &yearFrom
	}
	if yearTo := req.GetInt("year_to", 0); yearTo != 0 {
		filters.YearTo = &yearTo
	}
	limit := req.GetInt("limit", defaultSearchLimit)

	var docs []document.ScholarlyDocument
	err = s.facade.Search(ctx, query, filters, limit, func(doc document.ScholarlyDocument) error {
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.Marshal(docs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleProbe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	metrics := s.facade.ProbeSignalStrength(ctx, query)
	payload, err := json.Marshal(metrics)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleDebugQueryTranslation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	providerID, err := req.RequireString("provider")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	adapter, ok := s.registry.Get(document.ProviderTag(providerID))
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown provider: %s", providerID)), nil
	}

	intent := document.SearchIntent{Query: query, Mode: document.ModeDiscovery}
	return mcp.NewToolResultText(adapter.DebugQueryTranslation(intent)), nil
}
