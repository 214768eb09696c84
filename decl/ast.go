package decl

import (
	"fmt"
)

// --- Interfaces ---

// Location is a position in a source file.
type Location struct {
	Pos  int // byte offset
	Line int
	Col  int
}

func (l Location) IsValid() bool { return l.Line > 0 }

func (l Location) LineColStr() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

func (l Location) String() string { return l.LineColStr() }

// Node represents any node in the Abstract Syntax Tree.
type Node interface {
	Pos() Location  // Starting position (for error reporting)
	End() Location  // Ending position
	String() string // String representation for debugging/printing
}

// --- Base Struct ---

// NodeInfo embeddable struct for position tracking.
type NodeInfo struct{ StartPos, StopPos Location }

func (n *NodeInfo) Pos() Location  { return n.StartPos }
func (n *NodeInfo) End() Location  { return n.StopPos }
func (n *NodeInfo) String() string { return "{Node}" } // Default stringer

// NewNodeInfo spans the two nodes (either may be nil).
func NewNodeInfo(first, last Node) NodeInfo {
	var out NodeInfo
	if first != nil {
		out.StartPos = first.Pos()
	}
	if last != nil {
		out.StopPos = last.End()
	}
	return out
}

// Declarations are processed at load time unlike expressions.
type Declaration interface {
	Node

	// Called to resolve specific AST aspects out of the parse tree
	Resolve(file *FileDecl) error
}

// TokenNode holds a lexed token's text and span.
type TokenNode struct {
	NodeInfo
	Text string
}

func (t *TokenNode) String() string { return t.Text }
