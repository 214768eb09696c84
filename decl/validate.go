package decl

import (
	"fmt"
)

// ValidationError is raised by the post-parse legality checks.
type ValidationError struct {
	Pos    Location
	Module string
	Msg    string
}

func (e *ValidationError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("%s: %s", e.Pos.LineColStr(), e.Msg)
	}
	return fmt.Sprintf("%s: module %s: %s", e.Pos.LineColStr(), e.Module, e.Msg)
}

// Validate checks every module in the file.
func (f *FileDecl) Validate() (errs []error) {
	if err := f.Resolve(); err != nil {
		return []error{err}
	}
	for _, m := range f.moduleList {
		errs = append(errs, m.Validate()...)
	}
	return
}

// Validate runs the checks the unified grammar cannot express: port style
// consistency, body port declarations, duplicate names and the end label.
func (m *ModuleDecl) Validate() (errs []error) {
	fail := func(n Node, format string, args ...any) {
		errs = append(errs, &ValidationError{Pos: n.Pos(), Module: m.Name(), Msg: fmt.Sprintf(format, args...)})
	}

	if m.EndLabel != nil && m.EndLabel.Value != m.Name() {
		fail(m.EndLabel, "end label '%s' does not match module name", m.EndLabel.Value)
	}

	// Parameters
	seen := map[string]Node{}
	for _, p := range append(append([]ParamDecl{}, m.Params...), m.BodyParams()...) {
		if prev, ok := seen[p.ParamName()]; ok {
			fail(p, "duplicate parameter '%s' (first declared at %s)", p.ParamName(), prev.Pos().LineColStr())
			continue
		}
		seen[p.ParamName()] = p
	}

	// Ports
	style := m.PortStyle()
	portNames := map[string]Node{}
	addPortName := func(n Node, name string) {
		if prev, ok := portNames[name]; ok {
			fail(n, "duplicate port '%s' (first declared at %s)", name, prev.Pos().LineColStr())
			return
		}
		portNames[name] = n
	}
	// non-ANSI ports name internal signals which need a body declaration
	referenced := map[string]bool{}
	for _, port := range m.Ports {
		switch p := port.(type) {
		case *RefGroupPort:
			if style == PortStyleANSI {
				fail(p, "port reference group %s in an ANSI port list", p.String())
			}
			for _, r := range p.Refs {
				referenced[r.Name.Value] = true
			}
		case *DeclaredPort:
			if style == PortStyleNonANSI {
				if p.HasHeader() {
					fail(p, "port '%s' is declared in a non-ANSI port list", p.PortName())
				}
				if len(p.Dims) > 1 {
					fail(p, "port reference '%s' has more than one select", p.PortName())
				}
				referenced[p.PortName()] = true
			}
			addPortName(p, p.PortName())
		case *ExplicitPort:
			if style == PortStyleNonANSI && p.Direction != DirNone {
				fail(p, "port '%s' has a direction in a non-ANSI port list", p.PortName())
			}
			addPortName(p, p.PortName())
			if style == PortStyleNonANSI {
				for _, name := range ReferencedNames(p.Expr) {
					referenced[name] = true
				}
			}
		}
	}

	declaredInBody := map[string]bool{}
	for _, item := range m.Items {
		pd, ok := item.(*PortDeclItem)
		if !ok {
			continue
		}
		if style == PortStyleANSI {
			fail(pd, "port declarations in the body of a module with an ANSI port list")
			continue
		}
		for _, n := range pd.Names {
			if declaredInBody[n.Name.Value] {
				fail(n, "duplicate port declaration for '%s'", n.Name.Value)
			}
			declaredInBody[n.Name.Value] = true
			if !referenced[n.Name.Value] {
				fail(n, "'%s' is declared as a port but is not in the port list", n.Name.Value)
			}
		}
	}
	if style == PortStyleNonANSI {
		for _, port := range m.Ports {
			for _, name := range portRefNames(port) {
				if !declaredInBody[name] {
					fail(port, "port '%s' has no port declaration in the module body", name)
				}
			}
		}
	}

	// Instances
	instNames := map[string]Node{}
	for _, inst := range m.Instantiations() {
		for _, i := range inst.Instances {
			if prev, ok := instNames[i.Name.Value]; ok {
				fail(i, "duplicate instance '%s' (first declared at %s)", i.Name.Value, prev.Pos().LineColStr())
				continue
			}
			instNames[i.Name.Value] = i
		}
	}
	return
}

func portRefNames(port PortDecl) (out []string) {
	switch p := port.(type) {
	case *RefGroupPort:
		for _, r := range p.Refs {
			out = append(out, r.Name.Value)
		}
	case *DeclaredPort:
		out = append(out, p.PortName())
	case *ExplicitPort:
		out = ReferencedNames(p.Expr)
	}
	return
}

// ReferencedNames lists the signal names a port expression refers to:
// identifiers, selects of identifiers and concatenations of those.
func ReferencedNames(e Expr) (out []string) {
	switch x := e.(type) {
	case *IdentifierExpr:
		out = append(out, x.Value)
	case *IndexExpr:
		out = append(out, ReferencedNames(x.Target)...)
	case *ConcatExpr:
		for _, item := range x.Items {
			out = append(out, ReferencedNames(item)...)
		}
	}
	return
}
