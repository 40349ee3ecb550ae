package mcp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpadapter "github.com/assetlint/assetlint/internal/adapters/inbound/mcp"
	"github.com/assetlint/assetlint/internal/adapters/outbound/config"
)

func TestNewAssetlintMCPServer(t *testing.T) {
	s := mcpadapter.NewAssetlintMCPServer(".", config.New(), nil)
	require.NotNil(t, s)
}

func TestMCPServerHasTools(t *testing.T) {
	s := mcpadapter.NewAssetlintMCPServer(".", config.New(), nil)
	require.NotNil(t, s)

	tools := s.ListTools()
	require.NotNil(t, tools)

	expectedTools := []string{
		"assetlint_run_suite",
		"assetlint_validate_file",
	}

	for _, name := range expectedTools {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}

	assert.Len(t, tools, len(expectedTools), "should have exactly %d tools", len(expectedTools))
}
