package decl

import (
	"fmt"
	"strings"
)

// DataType is a data type as written in source. Keyword is empty for
// implicit types (only signing and/or packed dims) and for named types.
type DataType struct {
	NodeInfo
	Keyword string          // bit, logic, reg, int, integer, byte, shortint, longint, void, string
	Name    *IdentifierExpr // named type, usually a type parameter
	Signing string          // "", "signed" or "unsigned"
	Packed  []*RangeSelector
}

func (d *DataType) IsImplicit() bool { return d.Keyword == "" && d.Name == nil }

func (d *DataType) String() string {
	var parts []string
	if d.Keyword != "" {
		parts = append(parts, d.Keyword)
	} else if d.Name != nil {
		parts = append(parts, d.Name.Value)
	}
	if d.Signing != "" {
		parts = append(parts, d.Signing)
	}
	out := strings.Join(parts, " ")
	if len(d.Packed) > 0 {
		if out != "" {
			out += " "
		}
		out += dimsString(d.Packed)
	}
	return out
}

// --- Resolved types ---

type TypeTag int

const (
	TypeTagUnknown TypeTag = iota
	TypeTagVoid
	TypeTagInt   // two-state integral
	TypeTagLogic // four-state integral
	TypeTagString
	TypeTagArray // unpacked array
)

// Type is a fully resolved type, the form elaboration binds to type
// parameters and emits on entity ports.
type Type struct {
	Tag    TypeTag
	Width  int   // integral types
	Signed bool  // integral types
	Len    int   // arrays
	Elem   *Type // arrays
}

// --- Type Factory Functions ---

var (
	VoidType   = &Type{Tag: TypeTagVoid}
	StringType = &Type{Tag: TypeTagString}
)

func IntType(width int, signed bool) *Type {
	return &Type{Tag: TypeTagInt, Width: width, Signed: signed}
}

func LogicType(width int, signed bool) *Type {
	return &Type{Tag: TypeTagLogic, Width: width, Signed: signed}
}

func ArrayType(length int, elem *Type) *Type {
	return &Type{Tag: TypeTagArray, Len: length, Elem: elem}
}

func (t *Type) IsIntegral() bool {
	return t != nil && (t.Tag == TypeTagInt || t.Tag == TypeTagLogic)
}

// WithWidth returns an integral type of the same state-ness.
func (t *Type) WithWidth(width int, signed bool) *Type {
	return &Type{Tag: t.Tag, Width: width, Signed: signed}
}

// Equals compares structurally.
func (t *Type) Equals(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Tag != other.Tag {
		return false
	}
	switch t.Tag {
	case TypeTagInt, TypeTagLogic:
		return t.Width == other.Width && t.Signed == other.Signed
	case TypeTagArray:
		return t.Len == other.Len && t.Elem.Equals(other.Elem)
	}
	return true
}

// String renders the IR form used on entity ports.
func (t *Type) String() string {
	if t == nil {
		return "nil"
	}
	switch t.Tag {
	case TypeTagVoid:
		return "void$"
	case TypeTagInt:
		return fmt.Sprintf("i%d$", t.Width)
	case TypeTagLogic:
		return fmt.Sprintf("l%d$", t.Width)
	case TypeTagString:
		return "string$"
	case TypeTagArray:
		return fmt.Sprintf("[%d x %s]$", t.Len, strings.TrimSuffix(t.Elem.String(), "$"))
	}
	return "unknown$"
}

// KeyString is a canonical form that also records signedness. Two types
// with equal KeyStrings are the same type.
func (t *Type) KeyString() string {
	if t.IsIntegral() && t.Signed {
		return t.String() + "s"
	}
	if t != nil && t.Tag == TypeTagArray {
		return fmt.Sprintf("[%d x %s]", t.Len, t.Elem.KeyString())
	}
	return t.String()
}
