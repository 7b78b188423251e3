package server

import (
	"context"
	"net/http"

	gymmcp "github.com/claude/gymlog/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPHandler serves an MCP server over streamable HTTP. Mounted behind the
// identity middleware, tool calls run as the resolved user.
func NewMCPHandler(s *mcpserver.MCPServer) http.Handler {
	return mcpserver.NewStreamableHTTPServer(s, mcpserver.WithHTTPContextFunc(mcpContext))
}

// mcpContext copies the request's user into the MCP tool context.
func mcpContext(ctx context.Context, r *http.Request) context.Context {
	if uid, ok := userIDFromContext(r); ok {
		return gymmcp.WithUserID(ctx, uid)
	}
	return ctx
}
