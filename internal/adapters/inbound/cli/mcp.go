package cli

import (
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/assetlint/assetlint/internal/adapters/inbound/mcp"
	"github.com/assetlint/assetlint/internal/domain"
	"github.com/assetlint/assetlint/internal/logger"
)

func newMCPCmd(loader domain.ConfigLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the assetlint MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(loader))
	return cmd
}

func newMCPServeCmd(loader domain.ConfigLoader) *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the assetlint MCP server (stdio)",
		Long:  "Start the assetlint MCP server using stdio transport. This lets AI coding assistants run the validation suite and check single files.",
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(projectPath)
			if err != nil {
				return err
			}
			log := logger.FromEnv()
			defer func() { _ = log.Sync() }()

			s := mcpadapter.NewAssetlintMCPServer(absPath, loader, log)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", ".", "Project path (defaults to current working directory)")

	return cmd
}
