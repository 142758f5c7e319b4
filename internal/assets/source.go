package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir serves assets from a directory tree on disk. The tree is expected to
// follow the consumed layout: assets/<ns>/... plus an optional hardcoded
// shadow tree.
type Dir struct {
	root string
}

// NewDir opens a directory source.
func NewDir(root string) (*Dir, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening asset root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset root %s is not a directory", root)
	}
	return &Dir{root: root}, nil
}

// Read implements Source. Paths escaping the root are treated as absent.
func (d *Dir) Read(path string) ([]byte, error) {
	rel := filepath.FromSlash(path)
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	data, err := os.ReadFile(filepath.Join(d.root, rel))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// Close implements Source.
func (d *Dir) Close() error { return nil }

// MapSource serves assets from memory. Tests use it in place of a tree on
// disk.
type MapSource map[string][]byte

// Read implements Source.
func (m MapSource) Read(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return data, nil
}

// Close implements Source.
func (m MapSource) Close() error { return nil }
