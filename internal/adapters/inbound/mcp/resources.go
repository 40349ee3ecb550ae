package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/assetlint/assetlint/internal/domain"
)

const rulesURI = "assetlint://rules"

// registerResources registers the assetlint MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string, loader domain.ConfigLoader) {
	s.AddResource(
		mcplib.NewResource(
			rulesURI,
			"Rule Sets",
			mcplib.WithResourceDescription("Effective script and markup rule levels after applying .assetlint.yaml"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRulesResource(projectPath, loader),
	)
}

func handleRulesResource(projectPath string, loader domain.ConfigLoader) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, err := loader.Load(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}

		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling rules: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      rulesURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
