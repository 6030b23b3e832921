// ABOUTME: MCP server setup for the diet log store.
// ABOUTME: Wraps MCP server with storage, importer and narrator.
package mcp

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harperreed/diet/internal/ingest"
	"github.com/harperreed/diet/internal/narrate"
	"github.com/harperreed/diet/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	importer  *ingest.Importer
	narrator  *narrate.Service
	logger    *log.Logger
}

// NewServer creates a new MCP server with the given storage. A nil narrator
// serves offline analysis only; a nil logger uses the default logger.
func NewServer(repo storage.Repository, narrator *narrate.Service, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	if narrator == nil {
		narrator = narrate.NewService(nil, narrate.WithLogger(logger))
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "diet",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		importer:  ingest.NewImporter(ingest.WithLogger(logger)),
		narrator:  narrator,
		logger:    logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
