package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/internal/iocache"
	"github.com/huangsam/commpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	backend Backend
}

func (h *toolHandler) handleGetLatestSnapshot(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label := request.GetString("repo_label", "")

	daily, err := h.backend.Store.Daily()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load history: %v", err)), nil
	}
	latest := latestByLabel(iocache.FilterLabel(daily, label))
	if len(latest) == 0 {
		if label != "" {
			return mcp.NewToolResultError(fmt.Sprintf("no snapshot found for %s", label)), nil
		}
		return mcp.NewToolResultError("no snapshot history found, run collect first"), nil
	}
	return jsonResult(latest)
}

func (h *toolHandler) handleGetHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := request.GetInt("days", h.baseCfg.HistoryDays)
	if days < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("days cannot be negative (received %d)", days)), nil
	}

	recent, err := h.backend.Store.Recent(days)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load history: %v", err)), nil
	}
	series := iocache.FilterLabel(recent, request.GetString("repo_label", ""))
	if series == nil {
		series = []schema.Snapshot{}
	}
	return jsonResult(series)
}

func (h *toolHandler) handleCollectMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.NoCache = request.GetBool("no_cache", cfg.NoCache)

	report, err := h.backend.Collect(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("collection failed: %v", err)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleListMaintainers(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.backend.Registry.Reload(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load maintainers: %v", err)), nil
	}
	return jsonResult(map[string][]string{"logins": h.backend.Registry.Logins()})
}

// latestByLabel keeps the newest daily snapshot of each repoLabel, sorted by label.
// The input is the daily series, oldest first.
func latestByLabel(daily []schema.Snapshot) []schema.Snapshot {
	index := make(map[string]int)
	var latest []schema.Snapshot
	for _, snap := range daily {
		if i, ok := index[snap.RepoLabel]; ok {
			latest[i] = snap
			continue
		}
		index[snap.RepoLabel] = len(latest)
		latest = append(latest, snap)
	}
	sort.SliceStable(latest, func(i, j int) bool {
		return latest[i].RepoLabel < latest[j].RepoLabel
	})
	return latest
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
