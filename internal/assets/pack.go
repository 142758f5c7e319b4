package assets

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
)

// Pack serves assets from a zip resource pack. Entry names are expected to
// use the consumed layout verbatim.
type Pack struct {
	rc    *zip.ReadCloser
	files map[string]*zip.File
}

// OpenPack opens a resource pack and indexes its entries.
func OpenPack(archive string) (*Pack, error) {
	rc, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("opening pack %s: %w", archive, err)
	}

	p := &Pack{
		rc:    rc,
		files: make(map[string]*zip.File, len(rc.File)),
	}
	for _, f := range rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		p.files[path.Clean(f.Name)] = f
	}
	return p, nil
}

// Read implements Source.
func (p *Pack) Read(name string) ([]byte, error) {
	f, ok := p.files[path.Clean(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("reading %s from pack: %w", name, err)
	}
	defer r.Close()

	return io.ReadAll(r)
}

// Close implements Source.
func (p *Pack) Close() error { return p.rc.Close() }
