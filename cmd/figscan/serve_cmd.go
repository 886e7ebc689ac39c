package main

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/gnana997/figscan/pkg/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdin/stdout",
	Long: `Expose scan commands (start_scan, cancel_scan, list_sessions,
get_session, export_session) as MCP tools over stdio.`,
	Run: func(cmd *cobra.Command, args []string) {
		st, closeStore, err := openStore()
		if err != nil {
			exitErr(err)
		}
		defer closeStore()

		orch := newOrchestrator(newClient(), nil, nil)
		srv := mcpserver.NewServer(orch, st, logger)
		if err := srv.ServeStdio(); err != nil {
			exitErr(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
