package elab

import (
	"io"
	"strings"

	gfn "github.com/panyam/goutils/fn"
	"github.com/panyam/svlog/decl"
)

// PrettyPrint writes the design graph, callees first, one blank line
// between entities.
func (d *Design) PrettyPrint(cp decl.CodePrinter) {
	for i, e := range d.Ordered() {
		if i > 0 {
			cp.Println("")
		}
		e.PrettyPrint(cp)
	}
}

func (d *Design) String() string { return decl.PPrint(d) }

func (d *Design) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

func (e *Entity) PrettyPrint(cp decl.CodePrinter) {
	cp.Printf("entity @%s (%s) (%s) {\n", e.Name, portList(e.Inputs()), portList(e.Outputs()))
	decl.WithIndent(4, cp, func(cp decl.CodePrinter) {
		for _, inst := range e.Insts {
			in, out := inst.Args()
			cp.Printf("inst @%s (%s) (%s)\n", inst.Callee.Name, strings.Join(in, ", "), strings.Join(out, ", "))
		}
	})
	cp.Println("}")
}

func portList(ports []*EntityPort) string {
	return strings.Join(gfn.Map(ports, func(p *EntityPort) string {
		return p.Type.String() + " %" + p.DisplayName()
	}), ", ")
}

// Args renders the connected arguments of an instance, split by the class
// of the callee port they drive.
func (i *InstStmt) Args() (inputs, outputs []string) {
	for idx, conn := range i.Conns {
		if conn == nil {
			continue
		}
		arg := argString(conn)
		if i.Callee.Ports[idx].Class == ClassOutput {
			outputs = append(outputs, arg)
		} else {
			inputs = append(inputs, arg)
		}
	}
	return
}

func argString(e decl.Expr) string {
	if id, ok := e.(*decl.IdentifierExpr); ok {
		return "%" + id.Value
	}
	return e.String()
}
