package scanner_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/assetlint/assetlint/internal/adapters/outbound/scanner"
	"github.com/assetlint/assetlint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	slices.Sort(out)
	return out
}

func TestFileScanner_FindsMatchingFilesRecursively(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"app.js",
		"src/util.js",
		"src/deep/nested/mod.js",
		"src/readme.md",
		"src/app.jsx",
		"public/index.html",
	)

	files, err := scanner.New().Discover(root, ".js")
	require.NoError(t, err)
	assert.Equal(t, []string{"app.js", "src/deep/nested/mod.js", "src/util.js"}, rel(t, root, files))
}

func TestFileScanner_SkipsExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"keep.js",
		"node_modules/lib/index.js",
		".git/hooks/pre-commit.js",
		"dist/bundle.js",
		"build/out.js",
		"uploads/user.js",
		"src/dist/inner.js",
		"src/builder/ok.js",
	)

	files, err := scanner.New().Discover(root, ".js")
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.js", "src/builder/ok.js"}, rel(t, root, files))
}

func TestFileScanner_ExcludedNameOnFileIsNotSkipped(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "dist.js")

	files, err := scanner.New().Discover(root, ".js")
	require.NoError(t, err)
	assert.Equal(t, []string{"dist.js"}, rel(t, root, files))
}

func TestFileScanner_EmptyRoot(t *testing.T) {
	files, err := scanner.New().Discover(t.TempDir(), ".js")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileScanner_MissingRootIsDiscoveryError(t *testing.T) {
	_, err := scanner.New().Discover(filepath.Join(t.TempDir(), "public"), ".html")
	require.Error(t, err)

	var de *domain.DiscoveryError
	require.True(t, errors.As(err, &de))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileScanner_RootIsFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "public")

	_, err := scanner.New().Discover(filepath.Join(root, "public"), ".html")
	var de *domain.DiscoveryError
	assert.True(t, errors.As(err, &de))
}

func TestFileScanner_SymlinkCycleTerminates(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/one.js")
	if err := os.Symlink(root, filepath.Join(root, "a", "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := scanner.New().Discover(root, ".js")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/one.js"}, rel(t, root, files))
}

func TestFileScanner_SymlinkedRoot(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "real")
	writeTree(t, target, "app.js", "src/b.js", "node_modules/x.js")
	link := filepath.Join(base, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := scanner.New().Discover(link, ".js")
	require.NoError(t, err)
	assert.Equal(t, []string{"app.js", "src/b.js"}, rel(t, link, files))
	for _, f := range files {
		assert.True(t, strings.HasPrefix(f, link), "%s should stay under the given root", f)
	}
}

func TestFileScanner_FollowsSymlinkedFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.js")
	outside := t.TempDir()
	writeTree(t, outside, "shared.js")
	if err := os.Symlink(filepath.Join(outside, "shared.js"), filepath.Join(root, "src", "linked.js")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(outside, "missing.js"), filepath.Join(root, "src", "broken.js")))

	files, err := scanner.New().Discover(root, ".js")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.js", "src/linked.js"}, rel(t, root, files))
}

func TestFileScanner_FollowsSymlinkedDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "app.js")
	outside := t.TempDir()
	writeTree(t, outside, "lib/util.js")
	if err := os.Symlink(filepath.Join(outside, "lib"), filepath.Join(root, "vendor")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := scanner.New().Discover(root, ".js")
	require.NoError(t, err)
	assert.Equal(t, []string{"app.js", "vendor/util.js"}, rel(t, root, files))
}

func TestFileScanner_Deterministic(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "b.js", "a.js", "c/d.js")

	s := scanner.New()
	first, err := s.Discover(root, ".js")
	require.NoError(t, err)
	second, err := s.Discover(root, ".js")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
