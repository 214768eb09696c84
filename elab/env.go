package elab

import (
	"sort"
	"strings"
)

// Env holds bindings for identifiers with an optional outer scope.
type Env[T any] struct {
	store map[string]T
	outer *Env[T]
}

// NewEnv creates an environment nested within outer. A nil outer gives a
// fresh top-level environment.
func NewEnv[T any](outer *Env[T]) *Env[T] {
	return &Env[T]{store: make(map[string]T), outer: outer}
}

// Get looks in this environment first and then in the outer ones.
func (e *Env[T]) Get(name string) (out T, found bool) {
	for curr := e; curr != nil; curr = curr.outer {
		if out, found = curr.store[name]; found {
			return
		}
	}
	return
}

func (e *Env[T]) Set(name string, value T) {
	e.store[name] = value
}

func (e *Env[T]) Delete(name string) {
	delete(e.store, name)
}

func (e *Env[T]) Push() *Env[T] {
	return NewEnv(e)
}

// Names lists the names bound in the top most layer, sorted.
func (e *Env[T]) Names() []string {
	out := make([]string, 0, len(e.store))
	for k := range e.store {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (e *Env[T]) String() string {
	var sb strings.Builder
	for curr := e; curr != nil; curr = curr.outer {
		if curr != e {
			sb.WriteString(" -> ")
		}
		sb.WriteString("{")
		sb.WriteString(strings.Join(curr.Names(), ", "))
		sb.WriteString("}")
	}
	return sb.String()
}
