package cmd

import (
	"github.com/huangsam/destiny/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the destiny MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents check zodiac compatibility via standard tools.`,
	Args:  cobra.NoArgs,
	// Diagnostics go to stderr, which keeps stdio free for the protocol.
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager, version)
	},
}
