package loader

import (
	"io"

	"github.com/panyam/svlog/decl"
)

// Parser turns one source into a file AST.
type Parser interface {
	// Parse reads from the input reader and returns the root AST node.
	// sourceName is used for context in error messages (e.g., file path).
	Parse(input io.Reader, sourceName string) (*decl.FileDecl, error)
}

// FileResolver finds the file an `include directive names.
type FileResolver interface {
	// Resolve takes the path of the including file and the path string from
	// the directive. It returns the content, the canonical path used for
	// caching and cycle detection, or an error. importerPath is empty for
	// files named directly by the caller.
	Resolve(importerPath, includePath string) (content io.ReadCloser, canonicalPath string, err error)
}
