package loader

import (
	"fmt"
	"io"

	"github.com/panyam/svlog/decl"
	"github.com/panyam/svlog/parser"
)

// SVParser adapts the parser package to the Parser interface.
type SVParser struct{}

func (SVParser) Parse(input io.Reader, sourceName string) (*decl.FileDecl, error) {
	file, err := parser.Parse(input, sourceName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sourceName, err)
	}
	return file, nil
}
