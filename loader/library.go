package loader

import (
	"fmt"

	"github.com/panyam/svlog/decl"
)

// Library is the set of modules from every loaded file. It serves module
// lookups for elaboration.
type Library struct {
	Files []*decl.FileDecl

	modules map[string]*decl.ModuleDecl
	order   []*decl.ModuleDecl
	origin  map[string]*decl.FileDecl
}

func NewLibrary() *Library {
	return &Library{
		modules: map[string]*decl.ModuleDecl{},
		origin:  map[string]*decl.FileDecl{},
	}
}

// Add registers the modules of a resolved file. A module name already
// defined by another file is an error.
func (l *Library) Add(file *decl.FileDecl) (errs []error) {
	mods, err := file.Modules()
	if err != nil {
		return []error{fmt.Errorf("%s: %w", file.FullPath, err)}
	}
	l.Files = append(l.Files, file)
	for _, m := range mods {
		if prev, ok := l.origin[m.Name()]; ok {
			errs = append(errs, fmt.Errorf("%s: %w", file.FullPath, &decl.ValidationError{
				Pos:    m.NameNode.Pos(),
				Module: m.Name(),
				Msg:    fmt.Sprintf("module '%s' is already declared in %s", m.Name(), prev.FullPath),
			}))
			continue
		}
		l.modules[m.Name()] = m
		l.origin[m.Name()] = file
		l.order = append(l.order, m)
	}
	return
}

// Module returns the named module or nil.
func (l *Library) Module(name string) *decl.ModuleDecl {
	return l.modules[name]
}

// Modules lists modules in load order.
func (l *Library) Modules() []*decl.ModuleDecl {
	return l.order
}

// FileOf returns the file that declared a module.
func (l *Library) FileOf(name string) *decl.FileDecl {
	return l.origin[name]
}

// Validate runs the post-parse legality checks over every file.
func (l *Library) Validate() (errs []error) {
	for _, f := range l.Files {
		for _, err := range f.Validate() {
			errs = append(errs, fmt.Errorf("%s: %w", f.FullPath, err))
		}
	}
	return
}

// Roots lists the modules no other library module instantiates, in load
// order. These are the candidate top modules.
func (l *Library) Roots() (out []*decl.ModuleDecl) {
	used := map[string]bool{}
	for _, m := range l.order {
		for _, inst := range m.Instantiations() {
			if inst.Callee.Value != m.Name() {
				used[inst.Callee.Value] = true
			}
		}
	}
	for _, m := range l.order {
		if !used[m.Name()] {
			out = append(out, m)
		}
	}
	return
}
