package elab

import (
	"github.com/panyam/svlog/decl"
)

// bindPorts resolves the signature of mod with its parameters in scope.
func bindPorts(mod *decl.ModuleDecl, scope *Scope) ([]*EntityPort, error) {
	ansi := mod.PortStyle() == decl.PortStyleANSI
	prev := ansiDefaults{dir: decl.DirInout}
	out := make([]*EntityPort, 0, len(mod.Ports))
	for i, port := range mod.Ports {
		var dir decl.Direction
		var typ *decl.Type
		var err error
		switch p := port.(type) {
		case *decl.DeclaredPort:
			if ansi {
				dir, typ, err = prev.bind(p, scope)
			} else {
				dir, typ, err = signalType(mod, scope, p.Name.Value, p.Pos())
				if err == nil && len(p.Dims) == 1 {
					typ, err = scope.SelectType(typ, p.Dims[0])
				}
			}
		case *decl.ExplicitPort:
			dir, typ, err = exprPortType(mod, scope, p.Expr, p.Pos())
			if ansi {
				if p.Direction != decl.DirNone {
					prev.dir = p.Direction
				}
				prev.dt = nil
				dir = prev.dir
			}
		case *decl.RefGroupPort:
			dir, typ, err = refGroupType(mod, scope, p)
		}
		if err != nil {
			return nil, scope.own(err)
		}
		out = append(out, &EntityPort{
			Name:  port.PortName(),
			Index: i,
			Type:  typ,
			Dir:   dir,
			Class: classOf(dir),
		})
	}
	return out, nil
}

// ansiDefaults carries direction and type from one ANSI port to the next.
type ansiDefaults struct {
	dir decl.Direction
	dt  *decl.DataType
}

func (a *ansiDefaults) bind(p *decl.DeclaredPort, scope *Scope) (decl.Direction, *decl.Type, error) {
	if p.Interface != nil {
		return decl.DirNone, nil, Errorf(InvalidType, p.Pos(), "interface port %s is not supported", p.Name.Value)
	}
	if p.Direction != decl.DirNone || p.Kind != "" || p.Type != nil {
		if p.Direction != decl.DirNone {
			a.dir = p.Direction
		}
		a.dt = p.Type
	}
	typ, err := scope.ResolveType(a.dt)
	if err != nil {
		return decl.DirNone, nil, err
	}
	typ, err = scope.WithUnpacked(typ, p.Dims)
	return a.dir, typ, err
}

// signalType types a name from its body port and data declarations. An
// explicit data type on either wins over an implicit one.
func signalType(mod *decl.ModuleDecl, scope *Scope, name string, pos decl.Location) (decl.Direction, *decl.Type, error) {
	pd, pn := mod.PortDeclFor(name)
	dd, dn := mod.DataDeclFor(name)
	if pd == nil && dd == nil {
		return decl.DirNone, nil, Errorf(InvalidType, pos, "%s has no declaration in %s", name, mod.Name())
	}
	dir := decl.DirNone
	var dt *decl.DataType
	var dims []*decl.RangeSelector
	if pd != nil {
		dir, dt, dims = pd.Direction, pd.Type, pn.Dims
	}
	if dd != nil {
		if dd.Type != nil && (isBareType(dt) || (dt.IsImplicit() && !dd.Type.IsImplicit())) {
			dt = dd.Type
		}
		if len(dims) == 0 {
			dims = dn.Dims
		}
	}
	typ, err := scope.ResolveType(dt)
	if err != nil {
		return dir, nil, err
	}
	typ, err = scope.WithUnpacked(typ, dims)
	return dir, typ, err
}

func isBareType(dt *decl.DataType) bool {
	return dt == nil || (dt.IsImplicit() && len(dt.Packed) == 0 && dt.Signing == "")
}

// exprPortType types the expression of an explicit port `.name(expr)`.
func exprPortType(mod *decl.ModuleDecl, scope *Scope, expr decl.Expr, pos decl.Location) (decl.Direction, *decl.Type, error) {
	switch x := expr.(type) {
	case nil:
		return decl.DirNone, decl.VoidType, nil
	case *decl.IdentifierExpr:
		return signalType(mod, scope, x.Value, x.Pos())
	case *decl.IndexExpr:
		id, ok := x.Target.(*decl.IdentifierExpr)
		if !ok {
			break
		}
		dir, typ, err := signalType(mod, scope, id.Value, id.Pos())
		if err != nil {
			return dir, nil, err
		}
		typ, err = scope.SelectType(typ, x.Select)
		return dir, typ, err
	case *decl.ConcatExpr:
		parts := make([]typedPart, 0, len(x.Items))
		for _, item := range x.Items {
			dir, typ, err := exprPortType(mod, scope, item, item.Pos())
			if err != nil {
				return dir, nil, err
			}
			parts = append(parts, typedPart{dir: dir, typ: typ, pos: item.Pos()})
		}
		return joinParts(parts, x.Pos())
	}
	return decl.DirNone, nil, Errorf(InvalidType, pos, "port expression %s is not supported", expr.String())
}

func refGroupType(mod *decl.ModuleDecl, scope *Scope, group *decl.RefGroupPort) (decl.Direction, *decl.Type, error) {
	parts := make([]typedPart, 0, len(group.Refs))
	for _, ref := range group.Refs {
		dir, typ, err := signalType(mod, scope, ref.Name.Value, ref.Pos())
		if err != nil {
			return dir, nil, err
		}
		if ref.Select != nil {
			if typ, err = scope.SelectType(typ, ref.Select); err != nil {
				return dir, nil, err
			}
		}
		parts = append(parts, typedPart{dir: dir, typ: typ, pos: ref.Pos()})
	}
	return joinParts(parts, group.Pos())
}

type typedPart struct {
	dir decl.Direction
	typ *decl.Type
	pos decl.Location
}

// joinParts types a concatenation of signals as one packed vector. All
// parts must agree on direction.
func joinParts(parts []typedPart, pos decl.Location) (decl.Direction, *decl.Type, error) {
	dir := decl.DirNone
	width, fourState := 0, false
	for _, part := range parts {
		if !part.typ.IsIntegral() {
			return dir, nil, Errorf(InvalidType, part.pos, "%s cannot be part of a port concatenation", part.typ.String())
		}
		if part.dir != decl.DirNone {
			if dir != decl.DirNone && dir != part.dir {
				return dir, nil, Errorf(InvalidType, part.pos, "port concatenation mixes %s and %s signals", dir, part.dir)
			}
			dir = part.dir
		}
		width += part.typ.Width
		fourState = fourState || part.typ.Tag == decl.TypeTagLogic
	}
	if width == 0 {
		return dir, nil, Errorf(InvalidType, pos, "empty port concatenation")
	}
	if fourState {
		return dir, decl.LogicType(width, false), nil
	}
	return dir, decl.IntType(width, false), nil
}

// mapConnections aligns the connections of one instance with the ports of
// its callee. Unconnected ports stay nil.
func mapConnections(callee *Entity, inst *decl.Instance) ([]decl.Expr, error) {
	conns := make([]decl.Expr, len(callee.Ports))
	assigned := make([]bool, len(callee.Ports))
	positional, named, wildcard := false, false, false

	for i, c := range inst.Conns {
		switch c.Kind {
		case decl.ConnPositional:
			if named || wildcard {
				return nil, mixedConns(inst, c)
			}
			positional = true
			if i >= len(callee.Ports) {
				return nil, Errorf(PortMapping, c.Pos(), "instance %s: %s only has %d port(s)", inst.Name.Value, callee.Module, len(callee.Ports))
			}
			conns[i] = c.Expr
			assigned[i] = true
		case decl.ConnWildcard:
			if positional {
				return nil, mixedConns(inst, c)
			}
			if wildcard {
				return nil, Errorf(PortMapping, c.Pos(), "instance %s: .* appears more than once", inst.Name.Value)
			}
			wildcard = true
		default:
			if positional {
				return nil, mixedConns(inst, c)
			}
			named = true
			idx, err := namedPortIndex(callee, inst, c.Name)
			if err != nil {
				return nil, err
			}
			if assigned[idx] {
				return nil, Errorf(PortMapping, c.Name.Pos(), "instance %s: port %s is connected more than once", inst.Name.Value, c.Name.Value)
			}
			assigned[idx] = true
			if c.Kind == decl.ConnImplicit {
				conns[idx] = &decl.IdentifierExpr{ExprBase: decl.ExprBase{NodeInfo: c.NodeInfo}, Value: c.Name.Value}
			} else {
				conns[idx] = c.Expr
			}
		}
	}
	if wildcard {
		for i, p := range callee.Ports {
			if assigned[i] {
				continue
			}
			if p.Name == "" {
				return nil, Errorf(PortMapping, inst.Pos(), "instance %s: .* cannot connect unnamed port %d of %s", inst.Name.Value, i, callee.Module)
			}
			conns[i] = &decl.IdentifierExpr{ExprBase: decl.ExprBase{NodeInfo: inst.NodeInfo}, Value: p.Name}
		}
	}
	return conns, nil
}

func mixedConns(inst *decl.Instance, c *decl.PortConn) *Error {
	return Errorf(PortMapping, c.Pos(), "instance %s mixes positional and named connections", inst.Name.Value)
}

func namedPortIndex(callee *Entity, inst *decl.Instance, name *decl.IdentifierExpr) (int, error) {
	for _, p := range callee.Ports {
		if p.Name == "" {
			return 0, Errorf(PortMapping, name.Pos(), "instance %s: %s has unnamed ports and needs positional connections", inst.Name.Value, callee.Module)
		}
	}
	for i, p := range callee.Ports {
		if p.Name == name.Value {
			return i, nil
		}
	}
	return 0, Errorf(PortMapping, name.Pos(), "instance %s: %s has no port named %s", inst.Name.Value, callee.Module, name.Value).
		withNote("ports of %s: %s", callee.Module, portNames(callee))
}

func portNames(e *Entity) string {
	if len(e.Ports) == 0 {
		return "none"
	}
	out := ""
	for i, p := range e.Ports {
		if i > 0 {
			out += ", "
		}
		out += p.DisplayName()
	}
	return out
}
