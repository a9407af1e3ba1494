package cmd

import (
	"github.com/huangsam/commpulse/core"
	"github.com/huangsam/commpulse/internal/iocache"
	"github.com/huangsam/commpulse/internal/maintainers"
	"github.com/huangsam/commpulse/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the commpulse MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents read snapshots, trigger collections and list maintainers.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Progress logs go to stderr, so stdio stays reserved for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, mcp.Backend{
			Store:    iocache.NewFileStore(cfg.HistoryDir),
			Registry: maintainers.NewRegistry(cfg.MaintainersFile),
			Collect:  core.Collect,
		})
	},
}
