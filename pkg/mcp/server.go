// Package mcp exposes the scanner's command surface (start, cancel, export,
// session queries) as MCP tools over stdio.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/figscan/pkg/scan"
	"github.com/gnana997/figscan/pkg/store"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for figscan.
type Server struct {
	mcpServer *server.MCPServer
	orch      *scan.Orchestrator
	store     *store.Store
	log       *slog.Logger
}

// NewServer creates an MCP server over the given orchestrator and store.
func NewServer(orch *scan.Orchestrator, st *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		orch:  orch,
		store: st,
		log:   logger.With(slog.String("component", "mcp")),
	}

	s.mcpServer = server.NewMCPServer(
		"figscan",
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: startScanTool(), Handler: s.handleStartScan},
		server.ServerTool{Tool: cancelScanTool(), Handler: s.handleCancelScan},
		server.ServerTool{Tool: listSessionsTool(), Handler: s.handleListSessions},
		server.ServerTool{Tool: getSessionTool(), Handler: s.handleGetSession},
		server.ServerTool{Tool: exportSessionTool(), Handler: s.handleExportSession},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
