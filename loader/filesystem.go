package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileSystem abstracts where sources come from so includes can be resolved
// against local disk or an in-memory tree.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Exists(path string) bool
	// Canonical gives the key used for caching and cycle detection.
	Canonical(path string) (string, error)
}

// LocalFS implements FileSystem using the local disk
type LocalFS struct {
	basePath string
}

func NewLocalFS(basePath string) *LocalFS {
	return &LocalFS{basePath: basePath}
}

func (l *LocalFS) resolvePath(path string) string {
	if filepath.IsAbs(path) || l.basePath == "" {
		return path
	}
	return filepath.Join(l.basePath, path)
}

func (l *LocalFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(l.resolvePath(path))
}

func (l *LocalFS) Exists(path string) bool {
	info, err := os.Stat(l.resolvePath(path))
	return err == nil && !info.IsDir()
}

func (l *LocalFS) Canonical(path string) (string, error) {
	abs, err := filepath.Abs(l.resolvePath(path))
	if err != nil {
		return "", fmt.Errorf("could not get absolute path for '%s': %w", path, err)
	}
	return abs, nil
}

// MemoryFS implements an in-memory file system
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: make(map[string][]byte),
	}
}

func (m *MemoryFS) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, exists := m.files[filepath.Clean(path)]
	if !exists {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return append([]byte(nil), data...), nil // Return a copy
}

func (m *MemoryFS) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(path)] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.files[filepath.Clean(path)]
	return exists
}

func (m *MemoryFS) Canonical(path string) (string, error) {
	return filepath.Clean(path), nil
}
