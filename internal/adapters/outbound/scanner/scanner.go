package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/assetlint/assetlint/internal/domain"
)

var errNotDir = errors.New("not a directory")

// FileScanner implements domain.FileDiscoverer by walking the filesystem.
type FileScanner struct {
	skipDirs map[string]bool
}

func New() *FileScanner {
	excluded := domain.ExcludedDirs()
	skip := make(map[string]bool, len(excluded))
	for _, d := range excluded {
		skip[d] = true
	}
	return &FileScanner{skipDirs: skip}
}

// Discover returns every regular file under root whose name ends with suffix.
// Excluded directories are skipped before descending. Symlinked files and
// directories are followed; a directory whose real path was already visited
// is not entered again. Paths are joined to root and come back in
// directory-listing order.
func (s *FileScanner) Discover(root, suffix string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &domain.DiscoveryError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &domain.DiscoveryError{Root: root, Err: errNotDir}
	}

	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, &domain.DiscoveryError{Root: root, Err: err}
	}

	w := &walker{skipDirs: s.skipDirs, suffix: suffix, visited: map[string]bool{resolved: true}}
	if err := w.walk(root); err != nil {
		return nil, &domain.DiscoveryError{Root: root, Err: err}
	}
	return w.files, nil
}

type walker struct {
	skipDirs map[string]bool
	suffix   string
	visited  map[string]bool
	files    []string
}

func (w *walker) walk(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		mode := e.Type()

		if mode&os.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				// Broken link.
				continue
			}
			mode = target.Mode().Type()
		}

		switch {
		case mode.IsDir():
			if w.skipDirs[e.Name()] {
				continue
			}
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil {
				return err
			}
			if w.visited[resolved] {
				continue
			}
			w.visited[resolved] = true
			if err := w.walk(path); err != nil {
				return err
			}
		case mode.IsRegular():
			if strings.HasSuffix(e.Name(), w.suffix) {
				w.files = append(w.files, path)
			}
		}
	}
	return nil
}

// ReadFile implements domain.ContentReader.
func (s *FileScanner) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
