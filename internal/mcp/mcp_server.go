// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CollectFunc runs one collection with the given configuration.
type CollectFunc func(ctx context.Context, cfg *contract.Config) (schema.Report, error)

// Backend holds what the tools read from and act on.
type Backend struct {
	Store    contract.SnapshotStore
	Registry contract.MaintainerRegistry
	Collect  CollectFunc
}

// NewMCPServer initializes and configures the commpulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, backend Backend) *server.MCPServer {
	s := server.NewMCPServer(
		"Community Metrics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		backend: backend,
	}

	// --- 1. Tool: get_latest_snapshot ---
	s.AddTool(mcp.NewTool("get_latest_snapshot",
		mcp.WithDescription("Return the most recent stored community metrics snapshot for each repository, or for one repository label."),
		mcp.WithString("repo_label", mcp.Description("Repository label such as 'owner/name', or 'aggregate' for the cross-repository totals.")),
	), h.handleGetLatestSnapshot)

	// --- 2. Tool: get_history ---
	s.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("Return the daily community metrics series, one snapshot per day and repository."),
		mcp.WithString("repo_label", mcp.Description("Restrict the series to one repository label.")),
		mcp.WithNumber("days", mcp.Description("Number of most recent days to return. 0 returns everything.")),
	), h.handleGetHistory)

	// --- 3. Tool: collect_metrics ---
	s.AddTool(mcp.NewTool("collect_metrics",
		mcp.WithDescription("Collect community metrics from GitHub for the configured repositories and store today's snapshots."),
		mcp.WithBoolean("no_cache", mcp.Description("Fetch from GitHub even when a snapshot for today already exists.")),
	), h.handleCollectMetrics)

	// --- 4. Tool: list_maintainers ---
	s.AddTool(mcp.NewTool("list_maintainers",
		mcp.WithDescription("List the maintainer, bot and emeritus logins excluded from community metrics."),
	), h.handleListMaintainers)

	return s
}

// StartMCPServer starts the commpulse MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, backend Backend) error {
	s := NewMCPServer(baseCfg, backend)
	return server.ServeStdio(s)
}
