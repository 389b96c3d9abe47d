// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/workoutlog/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout; logs go to stderr.

CONFIGURATION:

  {
    "mcpServers": {
      "workoutlog": {
        "command": "workoutlog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_record          Append a workout record
  list_records        List records newest first, optionally for one user
  summarize_records   Coaching summary text for a user's records

AVAILABLE RESOURCES:

  workoutlog://recent   Last 10 records`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		r, err := openRepo(ctx)
		if err != nil {
			return err
		}

		server, err := mcp.NewServer(r)
		if err != nil {
			return err
		}

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
