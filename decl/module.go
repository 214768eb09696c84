package decl

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// ModuleItem is anything that can appear in a module body.
type ModuleItem interface {
	Node
	moduleItemNode()
}

// DeclaredName is one `name [dims] [= init]` in a declaration list.
type DeclaredName struct {
	NodeInfo
	Name *IdentifierExpr
	Dims []*RangeSelector
	Init Expr
}

func (d *DeclaredName) String() string {
	out := d.Name.Value + dimsString(d.Dims)
	if d.Init != nil {
		out += " = " + d.Init.String()
	}
	return out
}

func declaredNames(names []*DeclaredName) string {
	return strings.Join(gfn.Map(names, func(d *DeclaredName) string { return d.String() }), ", ")
}

// PortDeclItem is a body port declaration of a non-ANSI module.
type PortDeclItem struct {
	NodeInfo
	Direction Direction
	Kind      string
	Type      *DataType
	Names     []*DeclaredName
}

func (p *PortDeclItem) moduleItemNode() {}
func (p *PortDeclItem) String() string {
	parts := []string{p.Direction.String()}
	if p.Kind != "" {
		parts = append(parts, p.Kind)
	}
	if p.Type != nil {
		if s := p.Type.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ") + " " + declaredNames(p.Names) + ";"
}

// DataDeclItem is a net or variable declaration.
type DataDeclItem struct {
	NodeInfo
	Kind  string // net type, "var" or empty
	Type  *DataType
	Names []*DeclaredName
}

func (d *DataDeclItem) moduleItemNode() {}
func (d *DataDeclItem) String() string {
	var parts []string
	if d.Kind != "" {
		parts = append(parts, d.Kind)
	}
	if d.Type != nil {
		if s := d.Type.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ") + " " + declaredNames(d.Names) + ";"
}

// ParamDeclItem is a body `parameter`/`localparam` statement.
type ParamDeclItem struct {
	NodeInfo
	Decls []ParamDecl
}

func (p *ParamDeclItem) moduleItemNode() {}
func (p *ParamDeclItem) String() string {
	return strings.Join(gfn.Map(p.Decls, func(d ParamDecl) string { return d.String() }), "; ") + ";"
}

// ContAssignItem is `assign a = b, c = d;`
type ContAssignItem struct {
	NodeInfo
	Assigns []*AssignExpr
}

func (c *ContAssignItem) moduleItemNode() {}
func (c *ContAssignItem) String() string {
	return "assign " + strings.Join(gfn.Map(c.Assigns, func(a *AssignExpr) string {
		return exprString(a.Target) + " = " + exprString(a.Value)
	}), ", ") + ";"
}

// Instance is one named instance in an instantiation statement.
type Instance struct {
	NodeInfo
	Name  *IdentifierExpr
	Conns []*PortConn
}

func (i *Instance) String() string {
	return fmt.Sprintf("%s(%s)", i.Name.Value,
		strings.Join(gfn.Map(i.Conns, func(c *PortConn) string { return c.String() }), ", "))
}

// InstantiationItem is `Callee [#(overrides)] inst (conns) {, inst (conns)};`
type InstantiationItem struct {
	NodeInfo
	Callee *IdentifierExpr
	// HasParams is set when a `#(...)` override list was written, even empty.
	HasParams bool
	Params    []*ParamAssign
	Instances []*Instance
}

func (s *InstantiationItem) moduleItemNode() {}
func (s *InstantiationItem) String() string {
	out := s.Callee.Value
	if s.HasParams {
		out += " #(" + strings.Join(gfn.Map(s.Params, func(p *ParamAssign) string { return p.String() }), ", ") + ")"
	}
	return out + " " + strings.Join(gfn.Map(s.Instances, func(i *Instance) string { return i.String() }), ", ") + ";"
}

// --- Module ---

type PortStyle int

const (
	PortStyleNone PortStyle = iota // no ports at all
	PortStyleANSI
	PortStyleNonANSI
)

func (s PortStyle) String() string {
	switch s {
	case PortStyleANSI:
		return "ANSI"
	case PortStyleNonANSI:
		return "non-ANSI"
	}
	return "none"
}

// ModuleDecl is one parsed module.
type ModuleDecl struct {
	NodeInfo
	Keyword  string // module or macromodule
	Lifetime string
	NameNode *IdentifierExpr
	// HasParamList is set when a `#(...)` parameter port list was written.
	HasParamList bool
	Params       []ParamDecl
	Ports        []PortDecl
	Items        []ModuleItem
	EndLabel     *IdentifierExpr
}

func (m *ModuleDecl) Name() string { return m.NameNode.Value }

func (m *ModuleDecl) String() string {
	return fmt.Sprintf("module %s (%d params, %d ports, %d items)", m.Name(), len(m.Params), len(m.Ports), len(m.Items))
}

// PortStyle is decided by the first port.
func (m *ModuleDecl) PortStyle() PortStyle {
	if len(m.Ports) == 0 {
		return PortStyleNone
	}
	switch p := m.Ports[0].(type) {
	case *DeclaredPort:
		if p.HasHeader() {
			return PortStyleANSI
		}
	case *ExplicitPort:
		if p.Direction != DirNone {
			return PortStyleANSI
		}
	}
	return PortStyleNonANSI
}

// BodyParams returns parameter declarations from body items in order.
func (m *ModuleDecl) BodyParams() (out []ParamDecl) {
	for _, item := range m.Items {
		if p, ok := item.(*ParamDeclItem); ok {
			out = append(out, p.Decls...)
		}
	}
	return
}

// OverridableParams are the parameters that make up the specialization key.
// Without a parameter port list, body `parameter`s take that role.
func (m *ModuleDecl) OverridableParams() []ParamDecl {
	if m.HasParamList {
		return m.Params
	}
	var out []ParamDecl
	for _, p := range m.BodyParams() {
		if !p.IsLocal() {
			out = append(out, p)
		}
	}
	return out
}

// LocalParams are the body parameters evaluated after the key is bound.
func (m *ModuleDecl) LocalParams() []ParamDecl {
	if m.HasParamList {
		return m.BodyParams()
	}
	var out []ParamDecl
	for _, p := range m.BodyParams() {
		if p.IsLocal() {
			out = append(out, p)
		}
	}
	return out
}

// Instantiations returns instantiation statements in source order.
func (m *ModuleDecl) Instantiations() (out []*InstantiationItem) {
	for _, item := range m.Items {
		if inst, ok := item.(*InstantiationItem); ok {
			out = append(out, inst)
		}
	}
	return
}

// PortDeclFor finds the body port declaration for a non-ANSI port.
func (m *ModuleDecl) PortDeclFor(name string) (*PortDeclItem, *DeclaredName) {
	for _, item := range m.Items {
		if pd, ok := item.(*PortDeclItem); ok {
			for _, n := range pd.Names {
				if n.Name.Value == name {
					return pd, n
				}
			}
		}
	}
	return nil, nil
}

// DataDeclFor finds the net or variable declaration for a name.
func (m *ModuleDecl) DataDeclFor(name string) (*DataDeclItem, *DeclaredName) {
	for _, item := range m.Items {
		if dd, ok := item.(*DataDeclItem); ok {
			for _, n := range dd.Names {
				if n.Name.Value == name {
					return dd, n
				}
			}
		}
	}
	return nil, nil
}

func (m *ModuleDecl) Resolve(file *FileDecl) error {
	return file.RegisterModule(m)
}

// IncludeDecl is an `include directive.
type IncludeDecl struct {
	NodeInfo
	Path string
}

func (i *IncludeDecl) String() string          { return fmt.Sprintf("`include %q", i.Path) }
func (i *IncludeDecl) Resolve(*FileDecl) error { return nil }
