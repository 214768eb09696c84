package loader

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/panyam/svlog/decl"
)

// DefaultMaxDepth bounds `include nesting when no depth is configured.
const DefaultMaxDepth = 16

// LoadResult holds the outcome of a loading operation.
type LoadResult struct {
	ErrorCollector
	Library     *Library
	RootFiles   []*decl.FileDecl          // files named by the caller, in order
	LoadedFiles map[string]*decl.FileDecl // every file loaded, keyed by canonical path
}

// Loader parses source files and recursively follows their `include
// directives.
type Loader struct {
	parser   Parser
	resolver FileResolver
	maxDepth int
	logger   *slog.Logger

	// Internal state during a load operation
	mutex   sync.Mutex
	result  *LoadResult
	pending map[string]bool // files on the include stack, for cycle detection
}

// NewLoader creates a loader. maxDepth is the deepest include nesting
// allowed; 0 means DefaultMaxDepth.
func NewLoader(parser Parser, resolver FileResolver, maxDepth int) *Loader {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Loader{
		parser:   parser,
		resolver: resolver,
		maxDepth: maxDepth,
		logger:   slog.Default(),
	}
}

func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	l.logger = logger
	return l
}

// LoadFiles loads each path and everything it includes into one Library.
// Loading continues past a failing file so that all errors are reported;
// the returned error is the first of them.
func (l *Loader) LoadFiles(paths ...string) (*LoadResult, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.result = &LoadResult{Library: NewLibrary(), LoadedFiles: map[string]*decl.FileDecl{}}
	l.pending = map[string]bool{}
	defer func() { l.pending = nil }()

	for _, path := range paths {
		file, err := l.loadFileRecursive("", path, 0)
		if err != nil {
			l.result.AddErrors(fmt.Errorf("failed to load '%s': %w", path, err))
			continue
		}
		l.result.RootFiles = append(l.result.RootFiles, file)
	}
	result := l.result
	l.result = nil
	if result.HasErrors() {
		return result, result.Errors[0]
	}
	return result, nil
}

// loadFileRecursive handles the actual loading and parsing logic.
func (l *Loader) loadFileRecursive(importerPath, filePath string, depth int) (*decl.FileDecl, error) {
	// depth 0 is a root file, depth 1 its direct includes and so on.
	if depth >= l.maxDepth {
		return nil, fmt.Errorf("max include depth (%d) exceeded at '%s'", l.maxDepth, filePath)
	}

	contentReader, canonicalPath, err := l.resolver.Resolve(importerPath, filePath)
	if err != nil {
		if importerPath == "" {
			return nil, err
		}
		return nil, fmt.Errorf("cannot resolve include '%s' from '%s': %w", filePath, importerPath, err)
	}
	defer contentReader.Close()

	if l.pending[canonicalPath] {
		return nil, fmt.Errorf("circular include: '%s' is already being loaded", canonicalPath)
	}
	if fileDecl, found := l.result.LoadedFiles[canonicalPath]; found {
		return fileDecl, nil
	}

	l.pending[canonicalPath] = true
	defer delete(l.pending, canonicalPath)

	fileDecl, err := l.parser.Parse(contentReader, canonicalPath)
	if err != nil {
		return nil, err
	}
	if err := fileDecl.Resolve(); err != nil {
		return nil, fmt.Errorf("%s: %w", canonicalPath, err)
	}
	l.result.LoadedFiles[canonicalPath] = fileDecl
	l.result.AddErrors(l.result.Library.Add(fileDecl)...)
	l.logger.Debug("parsed file", "path", canonicalPath, "depth", depth, "declarations", len(fileDecl.Declarations))

	includes, err := fileDecl.Includes()
	if err != nil {
		return nil, err
	}
	for _, inc := range includes {
		l.logger.Debug("following include", "from", canonicalPath, "path", inc.Path)
		if _, err := l.loadFileRecursive(canonicalPath, inc.Path, depth+1); err != nil {
			return nil, fmt.Errorf("%s:%s: %w", canonicalPath, inc.Pos().LineColStr(), err)
		}
	}
	return fileDecl, nil
}
