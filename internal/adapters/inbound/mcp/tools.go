package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/assetlint/assetlint/internal/adapters/outbound/document"
	"github.com/assetlint/assetlint/internal/adapters/outbound/gitinfo"
	"github.com/assetlint/assetlint/internal/adapters/outbound/scanner"
	"github.com/assetlint/assetlint/internal/adapters/outbound/validator"
	"github.com/assetlint/assetlint/internal/application"
	"github.com/assetlint/assetlint/internal/domain"
)

// registerTools registers the assetlint MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string, loader domain.ConfigLoader, log *zap.Logger) {
	s.AddTool(
		mcplib.NewTool("assetlint_run_suite",
			mcplib.WithDescription("Validates every script and markup file in the project and returns the suite verdict as JSON"),
		),
		handleRunSuite(projectPath, loader, log),
	)

	s.AddTool(
		mcplib.NewTool("assetlint_validate_file",
			mcplib.WithDescription("Validates a single .js or .html file and returns its diagnostics as JSON"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path of the file, absolute or relative to the project root"),
			),
		),
		handleValidateFile(projectPath, loader, log),
	)
}

func newRunService(loader domain.ConfigLoader, projectPath string, log *zap.Logger) (*application.RunService, error) {
	cfg, err := loader.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	sc := scanner.New()
	return application.NewRunService(sc, sc, validator.ForConfig(cfg, document.New()), log), nil
}

func handleRunSuite(projectPath string, loader domain.ConfigLoader, log *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		runner, err := newRunService(loader, projectPath, log)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		suite := application.NewSuiteService(runner, gitinfo.New(), nil, nil, log)
		return jsonResult(suite.RunProject(ctx, projectPath))
	}
}

func handleValidateFile(projectPath string, loader domain.ConfigLoader, log *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(projectPath, file)
		}

		runner, err := newRunService(loader, projectPath, log)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		kind, result, err := runner.ValidateFile(ctx, file)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		return jsonResult(struct {
			Kind domain.Kind `json:"kind"`
			domain.FileResult
		}{kind, result})
	}
}

// jsonResult marshals v to indented JSON and wraps it in a CallToolResult.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
