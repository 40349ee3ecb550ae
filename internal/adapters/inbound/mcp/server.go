package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/assetlint/assetlint/internal/domain"
	"github.com/assetlint/assetlint/internal/logger"
)

// NewAssetlintMCPServer creates an MCP server with the assetlint tools and
// resources registered. projectPath is the root of the project to validate;
// loader supplies its rule sets on every call.
func NewAssetlintMCPServer(projectPath string, loader domain.ConfigLoader, log *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"assetlint",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	log = logger.OrNop(log).Named(logger.ComponentMCP)
	registerTools(s, projectPath, loader, log)
	registerResources(s, projectPath, loader)

	return s
}
