package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/pixlet/internal/history"
	"github.com/ziadkadry99/pixlet/internal/navigation"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the start page actions as tools.
type Server struct {
	nav     *navigation.Navigator
	history *history.Store
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server. store may be nil, in which case
// recent_history reports that history is unavailable.
func NewServer(nav *navigation.Navigator, store *history.Store) *Server {
	s := &Server{
		nav:     nav,
		history: store,
	}

	s.mcp = server.NewMCPServer(
		"pixlet",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(openHomeTool, s.handleOpenHome)
	s.mcp.AddTool(searchTool, s.handleSearch)
	s.mcp.AddTool(recentHistoryTool, s.handleRecentHistory)
	s.mcp.AddTool(formatDateTool, s.handleFormatDate)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
