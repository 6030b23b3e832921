// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/diet/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to work with your diet log through a
standardized protocol. The server communicates via stdin/stdout; logs go
to stderr.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "diet": {
        "command": "diet",
        "args": ["mcp"]
      }
    }
  }

  On macOS, the config is at:
    ~/Library/Application Support/Claude/claude_desktop_config.json

AVAILABLE TOOLS:

  import_csv       Import a CSV file by path
  list_records     List entries with date and text filters
  summarize        Totals, averages, macro split, daily calories
  get_targets      BMR, TDEE and daily targets
  get_profile      Stored profile and goals
  update_profile   Change profile fields
  update_goals     Change goal settings
  analyze          Written feedback on filtered entries
  list_imports     List imported files
  delete_import    Delete an import and its entries

AVAILABLE RESOURCES:

  diet://summary   Summary of all entries with targets
  diet://targets   Profile, goals and targets
  diet://recent    Last 7 logged days and latest imports`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		narrator := cfg.NewNarrator(ctx, logger)

		server, err := mcp.NewServer(db, narrator, logger)
		if err != nil {
			return err
		}

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
