package decl

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

type CodePrinter interface {
	Indent(n int)
	Unindent(n int)
	Print(str string)
	Printf(fmt string, args ...any)
	Println(str string)
}

func WithIndent(n int, cp CodePrinter, block func(cp CodePrinter)) {
	cp.Indent(n)
	defer cp.Unindent(n)
	block(cp)
}

type codePrinter struct {
	indent  int
	col     int
	builder strings.Builder
}

func NewCodePrinter() *codePrinter { return &codePrinter{} }

func (c *codePrinter) Indent(n int) {
	c.indent += n
}

func (c *codePrinter) Unindent(n int) {
	c.indent -= n
	if c.indent < 0 {
		c.indent = 0
	}
}

func (c *codePrinter) Print(str string) {
	lines := strings.Split(str, "\n")
	for idx, l := range lines {
		if c.col == 0 && l != "" {
			// new line has started so add the indent string
			c.builder.WriteString(strings.Repeat(" ", c.indent))
		}
		c.builder.WriteString(l)
		c.col += len(l)
		if idx < len(lines)-1 {
			c.builder.WriteByte('\n')
			c.col = 0
		}
	}
}

func (c *codePrinter) Printf(format string, args ...any) {
	c.Print(fmt.Sprintf(format, args...))
}

func (c *codePrinter) Println(str string) {
	c.Print(str)
	c.Print("\n")
}

func (c *codePrinter) String() string { return c.builder.String() }

// PPrint pretty prints a module or file.
func PPrint(n interface{ PrettyPrint(CodePrinter) }) string {
	cp := NewCodePrinter()
	n.PrettyPrint(cp)
	return cp.String()
}

func (m *ModuleDecl) PrettyPrint(cp CodePrinter) {
	kw := m.Keyword
	if kw == "" {
		kw = "module"
	}
	cp.Print(kw + " ")
	if m.Lifetime != "" {
		cp.Print(m.Lifetime + " ")
	}
	cp.Print(m.Name())
	if m.HasParamList {
		cp.Printf(" #(%s)", strings.Join(gfn.Map(m.Params, func(p ParamDecl) string { return p.String() }), ", "))
	}
	if len(m.Ports) > 0 {
		cp.Printf(" (%s)", strings.Join(gfn.Map(m.Ports, func(p PortDecl) string { return p.String() }), ", "))
	}
	cp.Println(";")
	WithIndent(4, cp, func(cp CodePrinter) {
		for _, item := range m.Items {
			cp.Println(item.String())
		}
	})
	cp.Println("endmodule")
}
