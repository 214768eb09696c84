package elab

import (
	"github.com/panyam/svlog/decl"
)

// maxTypeWidth bounds packed widths so a bad dimension cannot run away.
const maxTypeWidth = 1 << 20

type atomType struct {
	width     int
	fourState bool
	signed    bool
	// vector types accept packed dimensions; atoms do not.
	vector bool
}

var builtinTypes = map[string]atomType{
	"bit":      {width: 1, vector: true},
	"logic":    {width: 1, fourState: true, vector: true},
	"reg":      {width: 1, fourState: true, vector: true},
	"byte":     {width: 8, signed: true},
	"shortint": {width: 16, signed: true},
	"int":      {width: 32, signed: true},
	"longint":  {width: 64, signed: true},
	"integer":  {width: 32, fourState: true, signed: true},
}

// ResolveType turns a written data type into a resolved one. A nil data
// type is the implicit single bit logic type.
func (s *Scope) ResolveType(dt *decl.DataType) (*decl.Type, error) {
	t, err := s.resolveType(dt)
	if err != nil {
		return nil, s.own(err)
	}
	return t, nil
}

func (s *Scope) resolveType(dt *decl.DataType) (*decl.Type, error) {
	if dt == nil {
		return decl.LogicType(1, false), nil
	}
	signed := dt.Signing == "signed"

	var base *decl.Type
	switch {
	case dt.Name != nil:
		pv, ok := s.Lookup(dt.Name.Value)
		if !ok {
			if _, pending := s.pendingDecl(dt.Name.Value); pending {
				return nil, s.forwardRef(dt.Name)
			}
			return nil, Errorf(UnknownName, dt.Name.Pos(), "unknown type %s", dt.Name.Value)
		}
		if !pv.IsType() {
			return nil, Errorf(KindMismatch, dt.Name.Pos(), "value parameter %s used where a type is expected", dt.Name.Value)
		}
		base = pv.Type
		if len(dt.Packed) == 0 && dt.Signing == "" {
			return base, nil
		}
		if !base.IsIntegral() {
			return nil, Errorf(InvalidType, dt.Pos(), "%s is %s and cannot take packed dimensions or signing", dt.Name.Value, base.String())
		}
		if dt.Signing != "" {
			base = base.WithWidth(base.Width, signed)
		}
	case dt.Keyword == "void":
		return s.plainType(dt, decl.VoidType)
	case dt.Keyword == "string":
		return s.plainType(dt, decl.StringType)
	case dt.Keyword == "":
		base = decl.LogicType(1, signed)
	default:
		atom, ok := builtinTypes[dt.Keyword]
		if !ok {
			return nil, Errorf(InvalidType, dt.Pos(), "unsupported data type %s", dt.Keyword)
		}
		if !atom.vector && len(dt.Packed) > 0 {
			return nil, Errorf(InvalidType, dt.Pos(), "%s cannot take packed dimensions", dt.Keyword)
		}
		if dt.Signing != "" {
			atom.signed = signed
		}
		if atom.fourState {
			base = decl.LogicType(atom.width, atom.signed)
		} else {
			base = decl.IntType(atom.width, atom.signed)
		}
	}

	width := base.Width
	for _, dim := range dt.Packed {
		n, err := s.packedWidth(dim)
		if err != nil {
			return nil, err
		}
		width *= n
		if width > maxTypeWidth {
			return nil, Errorf(InvalidType, dim.Pos(), "packed type %s is too wide", dt.String())
		}
	}
	return base.WithWidth(width, base.Signed), nil
}

func (s *Scope) plainType(dt *decl.DataType, t *decl.Type) (*decl.Type, error) {
	if len(dt.Packed) > 0 || dt.Signing != "" {
		return nil, Errorf(InvalidType, dt.Pos(), "%s cannot take packed dimensions or signing", dt.Keyword)
	}
	return t, nil
}

// packedWidth evaluates a `[hi:lo]` dimension.
func (s *Scope) packedWidth(dim *decl.RangeSelector) (int, error) {
	if dim.Kind != decl.SelectRange {
		return 0, Errorf(InvalidType, dim.Pos(), "packed dimension [%s] must be a range", dim.String())
	}
	return s.rangeWidth(dim.Left, dim.Right)
}

func (s *Scope) rangeWidth(left, right decl.Expr) (int, error) {
	hi, err := s.EvalInt(left)
	if err != nil {
		return 0, err
	}
	lo, err := s.EvalInt(right)
	if err != nil {
		return 0, err
	}
	n := hi - lo
	if n < 0 {
		n = -n
	}
	if n+1 > maxTypeWidth {
		return 0, Errorf(InvalidType, left.Pos(), "range [%d:%d] is too wide", hi, lo)
	}
	return int(n + 1), nil
}

// WithUnpacked wraps t in one array level per unpacked dimension, the
// leftmost dimension outermost.
func (s *Scope) WithUnpacked(t *decl.Type, dims []*decl.RangeSelector) (*decl.Type, error) {
	for i := len(dims) - 1; i >= 0; i-- {
		dim := dims[i]
		var n int
		switch dim.Kind {
		case decl.SelectPlain:
			size, err := s.EvalInt(dim.Left)
			if err != nil {
				return nil, err
			}
			if size <= 0 || size > maxTypeWidth {
				return nil, s.own(Errorf(InvalidType, dim.Pos(), "array size %d is out of range", size))
			}
			n = int(size)
		case decl.SelectRange:
			size, err := s.rangeWidth(dim.Left, dim.Right)
			if err != nil {
				return nil, s.own(err)
			}
			n = size
		default:
			return nil, s.own(Errorf(InvalidType, dim.Pos(), "unpacked dimension [%s] must be a size or a range", dim.String()))
		}
		t = decl.ArrayType(n, t)
	}
	return t, nil
}

// SelectType is the type of a bit or part select applied to an integral
// signal of type t.
func (s *Scope) SelectType(t *decl.Type, sel *decl.RangeSelector) (*decl.Type, error) {
	if !t.IsIntegral() {
		return nil, s.own(Errorf(InvalidType, sel.Pos(), "cannot select [%s] from %s", sel.String(), t.String()))
	}
	switch sel.Kind {
	case decl.SelectPlain:
		if _, err := s.EvalInt(sel.Left); err != nil {
			return nil, err
		}
		return t.WithWidth(1, false), nil
	case decl.SelectRange:
		n, err := s.rangeWidth(sel.Left, sel.Right)
		if err != nil {
			return nil, s.own(err)
		}
		return t.WithWidth(n, false), nil
	}
	if _, err := s.EvalInt(sel.Left); err != nil {
		return nil, err
	}
	w, err := s.EvalInt(sel.Right)
	if err != nil {
		return nil, err
	}
	if w <= 0 || w > maxTypeWidth {
		return nil, s.own(Errorf(InvalidType, sel.Right.Pos(), "part select width %d is out of range", w))
	}
	return t.WithWidth(int(w), false), nil
}

// TypeOf reports whether e denotes a type, and which. Expressions that are
// values return false with no error.
func (s *Scope) TypeOf(e decl.Expr) (*decl.Type, bool, error) {
	switch x := e.(type) {
	case *decl.TypeExpr:
		t, err := s.ResolveType(x.Type)
		return t, true, err
	case *decl.IdentifierExpr:
		if pv, ok := s.Lookup(x.Value); ok && pv.IsType() {
			return pv.Type, true, nil
		}
		if d, ok := s.pendingDecl(x.Value); ok && d.IsType() {
			return nil, true, s.own(s.forwardRef(x))
		}
	}
	return nil, false, nil
}
