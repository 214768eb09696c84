package decl

import (
	"fmt"
)

// ParamDecl is one parameter declaration, from a parameter port list or a
// body parameter item.
type ParamDecl interface {
	Node
	paramNode()
	ParamName() string
	IsLocal() bool
	IsType() bool
}

// ValueParamDecl is `[parameter|localparam] [data_type] name [dims] [= expr]`.
type ValueParamDecl struct {
	NodeInfo
	Local   bool
	Type    *DataType // nil when no type was written
	Name    *IdentifierExpr
	Dims    []*RangeSelector
	Default Expr
}

func (p *ValueParamDecl) paramNode()        {}
func (p *ValueParamDecl) ParamName() string { return p.Name.Value }
func (p *ValueParamDecl) IsLocal() bool     { return p.Local }
func (p *ValueParamDecl) IsType() bool      { return false }
func (p *ValueParamDecl) String() string {
	out := "parameter "
	if p.Local {
		out = "localparam "
	}
	if p.Type != nil {
		if s := p.Type.String(); s != "" {
			out += s + " "
		}
	}
	out += p.Name.Value + dimsString(p.Dims)
	if p.Default != nil {
		out += " = " + p.Default.String()
	}
	return out
}

// TypeParamDecl is `[parameter|localparam] type name [= data_type]`.
type TypeParamDecl struct {
	NodeInfo
	Local   bool
	Name    *IdentifierExpr
	Default *DataType
}

func (p *TypeParamDecl) paramNode()        {}
func (p *TypeParamDecl) ParamName() string { return p.Name.Value }
func (p *TypeParamDecl) IsLocal() bool     { return p.Local }
func (p *TypeParamDecl) IsType() bool      { return true }
func (p *TypeParamDecl) String() string {
	kw := "parameter"
	if p.Local {
		kw = "localparam"
	}
	if p.Default == nil {
		return fmt.Sprintf("%s type %s", kw, p.Name.Value)
	}
	return fmt.Sprintf("%s type %s = %s", kw, p.Name.Value, p.Default.String())
}

// ParamAssign is one parameter override at an instantiation site.
type ParamAssign struct {
	NodeInfo
	Name  *IdentifierExpr // nil for positional overrides
	Value Expr            // TypeExpr for data types; nil for `.W()`
}

func (p *ParamAssign) String() string {
	if p.Name == nil {
		return exprString0(p.Value)
	}
	return fmt.Sprintf(".%s(%s)", p.Name.Value, exprString0(p.Value))
}
