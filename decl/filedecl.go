package decl

import (
	"fmt"
)

// FileDecl represents the top-level node of a parsed source file.
type FileDecl struct {
	NodeInfo
	FullPath     string
	Declarations []Node // ModuleDecl, IncludeDecl

	resolved   bool
	modules    map[string]*ModuleDecl
	moduleList []*ModuleDecl
	includes   []*IncludeDecl
}

// Called to resolve specific AST aspects out of the parse tree
func (f *FileDecl) Resolve() error {
	if f == nil {
		return fmt.Errorf("cannot load nil file")
	}
	if f.resolved {
		return nil
	}
	f.modules = map[string]*ModuleDecl{}
	f.moduleList = nil
	f.includes = nil
	for _, d := range f.Declarations {
		switch node := d.(type) {
		case *ModuleDecl:
			if err := node.Resolve(f); err != nil {
				return err
			}
		case *IncludeDecl:
			f.includes = append(f.includes, node)
		}
	}
	f.resolved = true
	return nil
}

func (f *FileDecl) RegisterModule(m *ModuleDecl) error {
	if f.modules == nil {
		f.modules = map[string]*ModuleDecl{}
	}
	if prev, exists := f.modules[m.Name()]; exists {
		return &ValidationError{Pos: m.NameNode.Pos(), Module: m.Name(),
			Msg: fmt.Sprintf("module '%s' already declared at %s", m.Name(), prev.Pos().LineColStr())}
	}
	f.modules[m.Name()] = m
	f.moduleList = append(f.moduleList, m)
	return nil
}

// Modules returns the file's modules in declaration order.
func (f *FileDecl) Modules() ([]*ModuleDecl, error) {
	if err := f.Resolve(); err != nil {
		return nil, err
	}
	return f.moduleList, nil
}

// Module returns the named module or nil.
func (f *FileDecl) Module(name string) *ModuleDecl {
	if f.Resolve() != nil {
		return nil
	}
	return f.modules[name]
}

// Includes returns the `include directives in source order.
func (f *FileDecl) Includes() ([]*IncludeDecl, error) {
	if err := f.Resolve(); err != nil {
		return nil, err
	}
	return f.includes, nil
}

func (f *FileDecl) PrettyPrint(cp CodePrinter) {
	for i, n := range f.Declarations {
		if i > 0 {
			cp.Println("")
		}
		switch node := n.(type) {
		case *ModuleDecl:
			node.PrettyPrint(cp)
		default:
			cp.Println(n.String())
		}
	}
}
