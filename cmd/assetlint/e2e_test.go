package main_test

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetlint/assetlint/internal/domain"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "assetlint-e2e")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(dir, "assetlint")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		_ = os.RemoveAll(dir)
		panic("build failed: " + string(out))
	}

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func fixturePath(name string) string {
	abs, _ := filepath.Abs(filepath.Join("../../testdata/assets", name))
	return abs
}

func run(t *testing.T, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.Output()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
	}
	return string(out), exitCode
}

func TestE2E_CleanProjectPasses(t *testing.T) {
	out, code := run(t, "--path", fixturePath("clean"))
	assert.Equal(t, 0, code, out)
	assert.Contains(t, out, "render.js")
	assert.Contains(t, out, "about")
	assert.NotContains(t, out, "node_modules")
	assert.Contains(t, out, "All assets valid")
}

func TestE2E_BrokenProjectFails(t *testing.T) {
	out, code := run(t, "--path", fixturePath("broken"))
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "eqeqeq")
	assert.Contains(t, out, "Parsing error")
	assert.Contains(t, out, "Missing <!DOCTYPE html> declaration")
	assert.Contains(t, out, `Duplicate id "main"`)
	assert.Contains(t, out, "Validation failed")
}

func TestE2E_JSON(t *testing.T) {
	out, code := run(t, "--path", fixturePath("broken"), "--json")
	assert.Equal(t, 1, code)

	var verdict domain.SuiteVerdict
	require.NoError(t, json.Unmarshal([]byte(out), &verdict))
	assert.False(t, verdict.OverallSuccess)

	script := verdict.PerKind[domain.KindScript]
	require.NotNil(t, script)
	assert.Equal(t, 2, script.TotalFiles)
	assert.Equal(t, 3, script.ErrorCount)
	assert.Equal(t, 1, script.WarningCount)

	markup := verdict.PerKind[domain.KindMarkup]
	require.NotNil(t, markup)
	assert.Equal(t, 1, markup.TotalFiles)
	assert.Equal(t, 2, markup.ErrorCount)
}

func TestE2E_MissingPublicDirFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("export const a = 1;\n"), 0o644))

	out, code := run(t, "--path", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "discovering files in")
}

func TestE2E_Version(t *testing.T) {
	out, code := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "assetlint")
}
