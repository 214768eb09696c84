package elab

import (
	"errors"
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
	"github.com/panyam/svlog/decl"
)

// ParamValue is a resolved parameter: a type for type parameters, a
// constant for value parameters.
type ParamValue struct {
	Name  string
	Type  *decl.Type
	Value *decl.Value
}

func (p ParamValue) IsType() bool { return p.Value == nil }

func (p ParamValue) String() string {
	if p.IsType() {
		return "type " + p.Name + " = " + p.Type.String()
	}
	return p.Name + " = " + p.Value.String()
}

func (p ParamValue) keyString() string {
	if p.IsType() {
		return p.Name + ":" + p.Type.KeyString()
	}
	return p.Name + "=" + p.Value.String()
}

// Key is the ordered list of resolved overridable parameters of one
// specialization. Two keys are equal when their strings are.
type Key []ParamValue

func (k Key) String() string {
	return "(" + strings.Join(gfn.Map(k, func(p ParamValue) string { return p.keyString() }), ", ") + ")"
}

func (k Key) Equals(other Key) bool {
	return k.String() == other.String()
}

func paramNames(params []decl.ParamDecl) string {
	if len(params) == 0 {
		return "none"
	}
	return strings.Join(gfn.Map(params, func(p decl.ParamDecl) string { return p.ParamName() }), ", ")
}

func pluralParams(n int) string {
	if n == 1 {
		return "1 parameter"
	}
	return fmt.Sprintf("%d parameters", n)
}

// ResolveParams binds the overrides written at an instantiation to the
// overridable parameters of mod. Override expressions are folded in the
// caller's scope; defaults are folded left to right in the callee's scope
// where only earlier parameters are visible.
func ResolveParams(mod *decl.ModuleDecl, assigns []*decl.ParamAssign, caller *Scope) (Key, error) {
	declared := mod.OverridableParams()
	overrides, err := matchOverrides(mod, declared, assigns)
	if err != nil {
		return nil, err
	}

	scope := NewScope(mod.Name())
	for _, d := range declared {
		scope.declare(d)
	}
	key := make(Key, 0, len(declared))
	for i, d := range declared {
		pv, err := resolveParam(scope, d, overrides[i], caller)
		if err != nil {
			return nil, paramError(err, mod.Name(), d.ParamName(), i)
		}
		scope.bind(pv)
		key = append(key, pv)
	}
	return key, nil
}

// matchOverrides lines overrides up with declared parameters. Positional
// overrides skip localparams in the header.
func matchOverrides(mod *decl.ModuleDecl, declared []decl.ParamDecl, assigns []*decl.ParamAssign) ([]*decl.ParamAssign, error) {
	out := make([]*decl.ParamAssign, len(declared))
	var slots []int
	index := map[string]int{}
	for i, d := range declared {
		index[d.ParamName()] = i
		if !d.IsLocal() {
			slots = append(slots, i)
		}
	}

	positional, named, next := false, false, 0
	for _, a := range assigns {
		if a.Name == nil {
			if named {
				return nil, Errorf(InvalidOverride, a.Pos(), "cannot mix positional and named overrides of %s", mod.Name()).inModule(mod.Name())
			}
			positional = true
			if next >= len(slots) {
				return nil, Errorf(TooManyParams, a.Pos(), "%s only has %s", mod.Name(), pluralParams(len(slots))).
					inModule(mod.Name()).
					withNote("declared parameters: %s", paramNames(declared))
			}
			out[slots[next]] = a
			next++
			continue
		}
		if positional {
			return nil, Errorf(InvalidOverride, a.Pos(), "cannot mix positional and named overrides of %s", mod.Name()).inModule(mod.Name())
		}
		named = true
		i, ok := index[a.Name.Value]
		if !ok {
			return nil, Errorf(NoSuchParam, a.Name.Pos(), "%s has no parameter named %s", mod.Name(), a.Name.Value).
				inModule(mod.Name()).
				withNote("declared parameters: %s", paramNames(declared))
		}
		if declared[i].IsLocal() {
			return nil, Errorf(InvalidOverride, a.Name.Pos(), "cannot override localparam %s of %s", a.Name.Value, mod.Name()).
				inModule(mod.Name()).forParam(a.Name.Value, i)
		}
		if out[i] != nil {
			return nil, Errorf(DuplicateParam, a.Name.Pos(), "parameter %s of %s is overridden more than once", a.Name.Value, mod.Name()).
				inModule(mod.Name()).forParam(a.Name.Value, i)
		}
		// `.W()` keeps the default.
		if a.Value != nil {
			out[i] = a
		}
	}
	return out, nil
}

func paramError(err error, module, param string, index int) error {
	var ee *Error
	if errors.As(err, &ee) {
		if ee.Module == "" {
			ee.Module = module
		}
		if ee.Param == "" {
			ee.forParam(param, index)
		}
	}
	return err
}

// resolveParam binds one declared parameter from its override or default.
func resolveParam(scope *Scope, d decl.ParamDecl, ov *decl.ParamAssign, caller *Scope) (ParamValue, error) {
	scope.current = d.ParamName()
	defer func() { scope.current = "" }()

	switch d := d.(type) {
	case *decl.TypeParamDecl:
		name := d.Name.Value
		if ov != nil {
			t, isType, err := caller.TypeOf(ov.Value)
			if err != nil {
				return ParamValue{}, err
			}
			if !isType {
				return ParamValue{}, Errorf(KindMismatch, ov.Value.Pos(), "type parameter %s is given the value %s", name, ov.Value.String()).inModule(scope.Module)
			}
			return ParamValue{Name: name, Type: t}, nil
		}
		if d.Default == nil {
			return ParamValue{}, Errorf(UnresolvedParam, d.Pos(), "type parameter %s of %s has no override and no default", name, scope.Module)
		}
		t, err := scope.ResolveType(d.Default)
		if err != nil {
			return ParamValue{}, err
		}
		return ParamValue{Name: name, Type: t}, nil

	case *decl.ValueParamDecl:
		name := d.Name.Value
		if len(d.Dims) > 0 {
			return ParamValue{}, Errorf(InvalidType, d.Pos(), "unpacked array parameter %s is not supported", name)
		}
		var v decl.Value
		var err error
		switch {
		case ov != nil:
			if _, isType, terr := caller.TypeOf(ov.Value); terr != nil || isType {
				if terr != nil {
					return ParamValue{}, terr
				}
				return ParamValue{}, Errorf(KindMismatch, ov.Value.Pos(), "value parameter %s is given the type %s", name, ov.Value.String()).inModule(scope.Module)
			}
			v, err = caller.Eval(ov.Value)
		case d.Default != nil:
			v, err = scope.Eval(d.Default)
		default:
			return ParamValue{}, Errorf(UnresolvedParam, d.Pos(), "parameter %s of %s has no override and no default", name, scope.Module)
		}
		if err != nil {
			return ParamValue{}, err
		}
		v, err = coerce(scope, d, v)
		if err != nil {
			return ParamValue{}, err
		}
		return ParamValue{Name: name, Value: &v}, nil
	}
	return ParamValue{}, Errorf(InvalidType, d.Pos(), "unsupported parameter %s", d.ParamName())
}

// coerce casts a value to the declared type of its parameter. Parameters
// written without a type take the type of their value.
func coerce(scope *Scope, d *decl.ValueParamDecl, v decl.Value) (decl.Value, error) {
	if d.Type == nil {
		if v.Unbased {
			return v.Cast(1, false), nil
		}
		return v, nil
	}
	t, err := scope.ResolveType(d.Type)
	if err != nil {
		return v, err
	}
	switch {
	case t.IsIntegral():
		if v.Kind == decl.ValueString {
			return v, Errorf(KindMismatch, d.Pos(), "parameter %s of type %s is given a string", d.Name.Value, t.String())
		}
		if t.Width > decl.MaxConstWidth {
			return v, Errorf(ConstEval, d.Pos(), "parameter %s is wider than %d bits", d.Name.Value, decl.MaxConstWidth)
		}
		return v.Cast(t.Width, t.Signed), nil
	case t.Tag == decl.TypeTagString:
		if v.Kind != decl.ValueString {
			return v, Errorf(KindMismatch, d.Pos(), "string parameter %s is given %s", d.Name.Value, v.String())
		}
		return v, nil
	}
	return v, Errorf(InvalidType, d.Pos(), "parameter %s cannot have type %s", d.Name.Value, t.String())
}

// resolveLocals extends the key scope with the module's local parameters.
func resolveLocals(mod *decl.ModuleDecl, key Key) (*Scope, error) {
	scope := scopeFromKey(mod.Name(), key)
	locals := mod.LocalParams()
	if len(locals) == 0 {
		return scope, nil
	}
	scope = scope.Push()
	for _, d := range locals {
		scope.declare(d)
	}
	for i, d := range locals {
		pv, err := resolveParam(scope, d, nil, scope)
		if err != nil {
			return nil, paramError(err, mod.Name(), d.ParamName(), i)
		}
		scope.bind(pv)
	}
	return scope, nil
}

func scopeFromKey(module string, key Key) *Scope {
	scope := NewScope(module)
	for _, pv := range key {
		scope.bind(pv)
	}
	return scope
}
