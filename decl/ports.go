package decl

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

type Direction int

const (
	DirNone Direction = iota
	DirInput
	DirOutput
	DirInout
	DirRef
)

func (d Direction) String() string {
	switch d {
	case DirInput:
		return "input"
	case DirOutput:
		return "output"
	case DirInout:
		return "inout"
	case DirRef:
		return "ref"
	}
	return ""
}

// PortDecl is one entry of a module's unified port list.
type PortDecl interface {
	Node
	portNode()
	// PortName is empty for reference groups.
	PortName() string
}

// PortRef is `name` or `name[sel]` inside a port expression.
type PortRef struct {
	NodeInfo
	Name   *IdentifierExpr
	Select *RangeSelector
}

func (p *PortRef) String() string {
	if p.Select == nil {
		return p.Name.Value
	}
	return fmt.Sprintf("%s[%s]", p.Name.Value, p.Select.String())
}

// RefGroupPort is a non-ANSI `{a, b[3:0]}` port.
type RefGroupPort struct {
	NodeInfo
	Refs []*PortRef
}

func (p *RefGroupPort) portNode()        {}
func (p *RefGroupPort) PortName() string { return "" }
func (p *RefGroupPort) String() string {
	return "{" + strings.Join(gfn.Map(p.Refs, func(r *PortRef) string { return r.String() }), ", ") + "}"
}

// InterfaceHeader is `intf[.modport]` or `interface[.modport]` on a port.
type InterfaceHeader struct {
	NodeInfo
	Name    string // "interface" for generic interface ports
	Modport string
}

func (i *InterfaceHeader) String() string {
	if i.Modport == "" {
		return i.Name
	}
	return i.Name + "." + i.Modport
}

// DeclaredPort is the shared ANSI/non-ANSI form. A non-ANSI port has only a
// Name and possibly a single select in Dims.
type DeclaredPort struct {
	NodeInfo
	Direction Direction
	Kind      string // net type or "var"; empty when omitted
	Type      *DataType
	Interface *InterfaceHeader
	Name      *IdentifierExpr
	Dims      []*RangeSelector
	Default   Expr
}

func (p *DeclaredPort) portNode()        {}
func (p *DeclaredPort) PortName() string { return p.Name.Value }

// HasHeader reports whether anything beyond the name was written.
func (p *DeclaredPort) HasHeader() bool {
	return p.Direction != DirNone || p.Kind != "" || p.Type != nil || p.Interface != nil || p.Default != nil
}

func (p *DeclaredPort) String() string {
	var parts []string
	if p.Direction != DirNone {
		parts = append(parts, p.Direction.String())
	}
	if p.Kind != "" {
		parts = append(parts, p.Kind)
	}
	if p.Interface != nil {
		parts = append(parts, p.Interface.String())
	}
	if p.Type != nil {
		if s := p.Type.String(); s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, p.Name.Value+dimsString(p.Dims))
	out := strings.Join(parts, " ")
	if p.Default != nil {
		out += " = " + p.Default.String()
	}
	return out
}

// ExplicitPort is `[dir] .name([expr])`.
type ExplicitPort struct {
	NodeInfo
	Direction Direction
	Name      *IdentifierExpr
	Expr      Expr
}

func (p *ExplicitPort) portNode()        {}
func (p *ExplicitPort) PortName() string { return p.Name.Value }
func (p *ExplicitPort) String() string {
	out := fmt.Sprintf(".%s(%s)", p.Name.Value, exprString0(p.Expr))
	if p.Direction != DirNone {
		out = p.Direction.String() + " " + out
	}
	return out
}

func exprString0(e Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}

// --- Connections ---

type ConnKind int

const (
	ConnPositional ConnKind = iota
	ConnNamed               // .p(e) or .p()
	ConnImplicit            // .p
	ConnWildcard            // .*
)

// PortConn is one port connection of an instance.
type PortConn struct {
	NodeInfo
	Kind ConnKind
	Name *IdentifierExpr // named and implicit connections
	Expr Expr            // nil for open connections
}

func (c *PortConn) String() string {
	switch c.Kind {
	case ConnNamed:
		return fmt.Sprintf(".%s(%s)", c.Name.Value, exprString0(c.Expr))
	case ConnImplicit:
		return "." + c.Name.Value
	case ConnWildcard:
		return ".*"
	}
	return exprString0(c.Expr)
}
