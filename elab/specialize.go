package elab

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/panyam/svlog/decl"
)

// ModuleSource looks modules up by name. decl.FileDecl and loader.Library
// both satisfy it.
type ModuleSource interface {
	Module(name string) *decl.ModuleDecl
}

type Option func(*Elaborator)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Elaborator) { e.logger = logger }
}

// Elaborator specializes modules against resolved parameter keys. One
// Elaborator serves one elaboration run at a time and is not safe for
// concurrent use.
type Elaborator struct {
	source ModuleSource
	logger *slog.Logger

	root      string
	rootNamed bool

	// cache maps module name -> key string -> entity
	cache    map[string]map[string]*Entity
	counters map[string]int
	entities []*Entity

	inProgress map[string]bool
	stack      []frame
}

type frame struct {
	module string
	entity string
}

func NewElaborator(source ModuleSource, opts ...Option) *Elaborator {
	out := &Elaborator{source: source, logger: slog.Default()}
	for _, opt := range opts {
		opt(out)
	}
	out.reset("")
	return out
}

func (e *Elaborator) reset(root string) {
	e.root = root
	e.rootNamed = false
	e.cache = map[string]map[string]*Entity{}
	e.counters = map[string]int{}
	e.entities = nil
	e.inProgress = map[string]bool{}
	e.stack = nil
}

// Elaborate specializes root with its default parameters and everything it
// reaches.
func (e *Elaborator) Elaborate(root string) (*Design, error) {
	mod := e.source.Module(root)
	if mod == nil {
		return nil, Errorf(UnknownModule, decl.Location{}, "unknown root module %s", root)
	}
	e.reset(root)
	key, err := ResolveParams(mod, nil, NewScope(""))
	if err != nil {
		return nil, err
	}
	ent, err := e.Specialize(root, key)
	if err != nil {
		return nil, err
	}
	design := &Design{Root: ent, Entities: slices.Clone(e.entities)}
	e.logger.Debug("elaborated design", "root", root, "entities", len(design.Entities))
	return design, nil
}

// Specialize returns the entity for module name under key, building it on
// first use.
func (e *Elaborator) Specialize(name string, key Key) (*Entity, error) {
	mod := e.source.Module(name)
	if mod == nil {
		return nil, Errorf(UnknownModule, decl.Location{}, "unknown module %s", name)
	}
	ks := key.String()
	id := name + ks
	if e.inProgress[id] {
		return nil, e.cycleError(mod, fmt.Sprintf("%s is instantiated inside itself with the same parameters %s", name, ks))
	}
	if ent := e.cache[name][ks]; ent != nil {
		e.logger.Debug("specialize hit", "module", name, "key", ks, "entity", ent.Name)
		return ent, nil
	}
	if slices.ContainsFunc(e.stack, func(f frame) bool { return f.module == name }) {
		return nil, e.cycleError(mod, fmt.Sprintf("%s is instantiated inside itself", name))
	}

	ent := &Entity{Name: e.entityName(mod), Module: name, Key: key, index: len(e.entities)}
	e.entities = append(e.entities, ent)
	if e.cache[name] == nil {
		e.cache[name] = map[string]*Entity{}
	}
	e.cache[name][ks] = ent
	e.logger.Debug("specialize miss", "module", name, "key", ks, "entity", ent.Name)

	e.inProgress[id] = true
	e.stack = append(e.stack, frame{module: name, entity: ent.Name})
	defer func() {
		delete(e.inProgress, id)
		e.stack = e.stack[:len(e.stack)-1]
	}()

	scope, err := resolveLocals(mod, key)
	if err != nil {
		return nil, err
	}
	if ent.Ports, err = bindPorts(mod, scope); err != nil {
		return nil, err
	}
	for _, item := range mod.Instantiations() {
		if err := e.instantiate(ent, item, scope); err != nil {
			return nil, err
		}
	}
	return ent, nil
}

func (e *Elaborator) instantiate(parent *Entity, item *decl.InstantiationItem, scope *Scope) error {
	callee := e.source.Module(item.Callee.Value)
	if callee == nil {
		return Errorf(UnknownModule, item.Callee.Pos(), "unknown module %s", item.Callee.Value).inModule(parent.Module)
	}
	key, err := ResolveParams(callee, item.Params, scope)
	if err != nil {
		return err
	}
	child, err := e.Specialize(callee.Name(), key)
	if err != nil {
		return err
	}
	for _, inst := range item.Instances {
		conns, err := mapConnections(child, inst)
		if err != nil {
			var ee *Error
			if errors.As(err, &ee) && ee.Module == "" {
				ee.Module = parent.Module
			}
			return err
		}
		parent.Insts = append(parent.Insts, &InstStmt{
			Name:   inst.Name.Value,
			Pos:    inst.Pos(),
			Callee: child,
			Conns:  conns,
		})
	}
	return nil
}

// entityName assigns names at first discovery. Modules without overridable
// parameters and the root keep their name; other specializations count up
// per module.
func (e *Elaborator) entityName(mod *decl.ModuleDecl) string {
	name := mod.Name()
	if name == e.root && !e.rootNamed {
		e.rootNamed = true
		return name
	}
	if !slices.ContainsFunc(mod.OverridableParams(), func(p decl.ParamDecl) bool { return !p.IsLocal() }) {
		return name
	}
	e.counters[name]++
	return fmt.Sprintf("%s.param%d", name, e.counters[name])
}

func (e *Elaborator) cycleError(mod *decl.ModuleDecl, msg string) *Error {
	chain := make([]string, 0, len(e.stack)+1)
	for _, f := range e.stack {
		chain = append(chain, f.module)
	}
	chain = append(chain, mod.Name())
	return Errorf(CyclicInstantiation, mod.Pos(), "%s", msg).
		inModule(mod.Name()).
		withNote("instantiation chain: %s", strings.Join(chain, " -> "))
}
