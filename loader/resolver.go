package loader

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
)

// FSResolver resolves includes against a FileSystem. Relative paths are
// tried next to the including file first and then in each include
// directory, like +incdir+.
type FSResolver struct {
	FS          FileSystem
	IncludeDirs []string
}

// NewDefaultFileResolver creates a resolver over the local disk.
func NewDefaultFileResolver(includeDirs ...string) *FSResolver {
	return &FSResolver{FS: NewLocalFS(""), IncludeDirs: includeDirs}
}

func (r *FSResolver) candidates(importerPath, includePath string) []string {
	if filepath.IsAbs(includePath) {
		return []string{includePath}
	}
	var out []string
	if importerPath != "" {
		out = append(out, filepath.Join(filepath.Dir(importerPath), includePath))
	} else {
		out = append(out, includePath)
	}
	for _, dir := range r.IncludeDirs {
		out = append(out, filepath.Join(dir, includePath))
	}
	return out
}

func (r *FSResolver) Resolve(importerPath, includePath string) (io.ReadCloser, string, error) {
	for _, candidate := range r.candidates(importerPath, includePath) {
		if !r.FS.Exists(candidate) {
			continue
		}
		canonicalPath, err := r.FS.Canonical(candidate)
		if err != nil {
			return nil, "", err
		}
		data, err := r.FS.ReadFile(candidate)
		if err != nil {
			return nil, "", fmt.Errorf("could not read file '%s': %w", canonicalPath, err)
		}
		return io.NopCloser(bytes.NewReader(data)), canonicalPath, nil
	}
	return nil, "", fmt.Errorf("file not found: %s", includePath)
}
