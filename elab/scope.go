package elab

import (
	"errors"

	"github.com/panyam/svlog/decl"
)

// Scope is the set of parameters visible while folding constants in one
// module. Parameters that are declared but not yet resolved are pending;
// naming one is a forward reference.
type Scope struct {
	Module  string
	params  *Env[ParamValue]
	pending *Env[decl.ParamDecl]

	// current is the parameter being resolved, if any.
	current string
}

func NewScope(module string) *Scope {
	return &Scope{
		Module:  module,
		params:  NewEnv[ParamValue](nil),
		pending: NewEnv[decl.ParamDecl](nil),
	}
}

// Push returns a nested scope that sees every binding of s.
func (s *Scope) Push() *Scope {
	return &Scope{Module: s.Module, params: s.params.Push(), pending: s.pending.Push()}
}

func (s *Scope) declare(d decl.ParamDecl) {
	s.pending.Set(d.ParamName(), d)
}

func (s *Scope) bind(pv ParamValue) {
	s.pending.Delete(pv.Name)
	s.params.Set(pv.Name, pv)
}

// Define binds a value parameter directly, outside of any module.
func (s *Scope) Define(name string, v decl.Value) {
	s.bind(ParamValue{Name: name, Value: &v})
}

// DefineType binds a type parameter directly.
func (s *Scope) DefineType(name string, t *decl.Type) {
	s.bind(ParamValue{Name: name, Type: t})
}

func (s *Scope) Lookup(name string) (ParamValue, bool) {
	return s.params.Get(name)
}

func (s *Scope) pendingDecl(name string) (decl.ParamDecl, bool) {
	return s.pending.Get(name)
}

// forwardRef reports a reference to a parameter that has not been resolved.
func (s *Scope) forwardRef(id *decl.IdentifierExpr) *Error {
	if id.Value == s.current {
		return Errorf(ForwardReference, id.Pos(), "parameter %s refers to itself", id.Value)
	}
	if s.current != "" {
		return Errorf(ForwardReference, id.Pos(), "parameter %s refers to %s, which is declared after it", s.current, id.Value)
	}
	return Errorf(ForwardReference, id.Pos(), "%s is used before it is resolved", id.Value)
}

// own stamps errors raised in this scope with the module name.
func (s *Scope) own(err error) error {
	var ee *Error
	if errors.As(err, &ee) && ee.Module == "" {
		ee.Module = s.Module
	}
	return err
}
