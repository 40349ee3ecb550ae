package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetlint/assetlint/internal/adapters/outbound/config"
	"github.com/assetlint/assetlint/internal/domain"
)

type failingLoader struct{ err error }

func (l failingLoader) Load(string) (domain.ProjectConfig, error) {
	return domain.ProjectConfig{}, l.err
}

type fixedLoader struct {
	cfg   domain.ProjectConfig
	paths []string
}

func (l *fixedLoader) Load(path string) (domain.ProjectConfig, error) {
	l.paths = append(l.paths, path)
	return l.cfg, nil
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func callTool(t *testing.T, handler func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcplib.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestHandleRunSuite(t *testing.T) {
	root := writeProject(t, map[string]string{
		"app.js":            "var a = 1;\nexport { a };\n",
		"public/index.html": "<html><head><title>x</title></head><body></body></html>\n",
	})

	text, isErr := callTool(t, handleRunSuite(root, config.New(), nil), nil)
	require.False(t, isErr, text)

	var verdict domain.SuiteVerdict
	require.NoError(t, json.Unmarshal([]byte(text), &verdict))
	assert.False(t, verdict.OverallSuccess)
	assert.True(t, verdict.PerKind[domain.KindScript].Success)
	assert.Equal(t, 1, verdict.PerKind[domain.KindScript].WarningCount)
	assert.Equal(t, 1, verdict.PerKind[domain.KindMarkup].ErrorCount)
}

func TestHandleValidateFile(t *testing.T) {
	root := writeProject(t, map[string]string{"lib/util.js": "if (a == b) {}\n"})

	text, isErr := callTool(t, handleValidateFile(root, config.New(), nil), map[string]any{"file": "lib/util.js"})
	require.False(t, isErr, text)

	var got struct {
		Kind domain.Kind `json:"kind"`
		domain.FileResult
	}
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.Equal(t, domain.KindScript, got.Kind)
	assert.False(t, got.Valid)
	assert.Equal(t, filepath.Join(root, "lib/util.js"), got.File)
}

func TestHandleValidateFile_Errors(t *testing.T) {
	root := t.TempDir()

	text, isErr := callTool(t, handleValidateFile(root, config.New(), nil), map[string]any{})
	assert.True(t, isErr)
	assert.Contains(t, text, "file")

	text, isErr = callTool(t, handleValidateFile(root, config.New(), nil), map[string]any{"file": "style.css"})
	assert.True(t, isErr)
	assert.Contains(t, text, "unsupported file type")
}

func TestHandleRulesResource(t *testing.T) {
	root := writeProject(t, map[string]string{".assetlint.yaml": "script:\n  rules:\n    no-console: warning\n"})

	contents, err := handleRulesResource(root, config.New())(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, rulesURI, text.URI)

	var cfg domain.ProjectConfig
	require.NoError(t, json.Unmarshal([]byte(text.Text), &cfg))
	assert.Equal(t, domain.LevelWarning, cfg.Script.Rules.Level("no-console"))
	assert.Equal(t, domain.LevelError, cfg.Markup.Rules.Level("wcag/h37"))
}

func TestHandlers_UseInjectedLoader(t *testing.T) {
	root := writeProject(t, map[string]string{"app.js": "console.log(1);\n"})

	cfg := domain.DefaultConfig()
	cfg.Script.Rules = domain.RuleSet{"no-console": domain.LevelError}
	loader := &fixedLoader{cfg: cfg}

	text, isErr := callTool(t, handleValidateFile(root, loader, nil), map[string]any{"file": "app.js"})
	assert.False(t, isErr)
	assert.Contains(t, text, "no-console")
	assert.Equal(t, []string{root}, loader.paths)

	_, err := handleRulesResource(root, loader)(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	assert.Len(t, loader.paths, 2)
}

func TestHandlers_LoaderErrorSurfaces(t *testing.T) {
	root := writeProject(t, map[string]string{"app.js": "var a = 1;\n"})
	loader := failingLoader{err: errors.New("bad rules file")}

	text, isErr := callTool(t, handleRunSuite(root, loader, nil), nil)
	assert.True(t, isErr)
	assert.Contains(t, text, "bad rules file")

	text, isErr = callTool(t, handleValidateFile(root, loader, nil), map[string]any{"file": "app.js"})
	assert.True(t, isErr)
	assert.Contains(t, text, "bad rules file")

	_, err := handleRulesResource(root, loader)(context.Background(), mcplib.ReadResourceRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad rules file")
}
