// Package mcp exposes the concierge to MCP clients over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/candidate-concierge/concierge/internal/concierge"
	"github.com/candidate-concierge/concierge/internal/knowledge"
	"github.com/candidate-concierge/concierge/internal/vectordb"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that answers questions about the candidate.
type Server struct {
	svc   *concierge.Service
	kb    *knowledge.KnowledgeBase
	store vectordb.VectorStore
	mcp   *server.MCPServer
}

// NewServer creates a new MCP server. store is optional; search_profile is
// only registered when a passage index is available.
func NewServer(svc *concierge.Service, store vectordb.VectorStore) *Server {
	s := &Server{
		svc:   svc,
		kb:    svc.Resolver().Knowledge(),
		store: store,
	}

	s.mcp = server.NewMCPServer(
		"concierge",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(askCandidateTool, s.handleAskCandidate)
	s.mcp.AddTool(getProfileSectionTool, s.handleGetProfileSection)
	if s.store != nil {
		s.mcp.AddTool(searchProfileTool, s.handleSearchProfile)
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
