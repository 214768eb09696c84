package elab

import (
	"errors"
	"testing"

	"github.com/panyam/svlog/decl"
	"github.com/panyam/svlog/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

func parseSource(t *testing.T, src string) *decl.FileDecl {
	t.Helper()
	file, err := parser.ParseString(src)
	require.NoError(t, err)
	require.NoError(t, file.Resolve())
	return file
}

func elaborate(t *testing.T, src, root string) (*Design, error) {
	t.Helper()
	return NewElaborator(parseSource(t, src)).Elaborate(root)
}

func requireKind(t *testing.T, err error, kind ErrorKind) *Error {
	t.Helper()
	require.Error(t, err)
	var ee *Error
	require.True(t, errors.As(err, &ee), "expected *elab.Error, got %T: %v", err, err)
	require.Equal(t, kind, ee.Kind, "unexpected error: %v", err)
	return ee
}

func TestElaborateGolden(t *testing.T) {
	tests := []struct {
		name   string
		root   string
		src    string
		golden string
	}{
		{
			name:   "empty modules",
			root:   "A",
			src:    "module A; B b(); endmodule\nmodule B; endmodule",
			golden: "empty_modules.golden",
		},
		{
			name: "type parameter override",
			root: "C",
			src: `module C;
  D #(void) d1();
  D #(bit) d2();
endmodule
module D #(type T)(input T t);
endmodule`,
			golden: "type_override.golden",
		},
		{
			name:   "default parameter type",
			root:   "E",
			src:    "module E #(type T = bit)(input T t);\nendmodule",
			golden: "default_type.golden",
		},
		{
			name: "dependent parameters",
			root: "F",
			src: `module F;
  G #(bit) g1();
  G #(void) g2();
  G #(void, bit) g3();
endmodule
module G #(type T, type R = T)(input T t, input R r);
endmodule`,
			golden: "dependent_params.golden",
		},
		{
			name: "ports and connections",
			root: "Top",
			src: `module Adder #(parameter W = 8) (input logic [W-1:0] a, b, output logic [W:0] sum);
endmodule

module Top (input logic [7:0] x, y, output logic [8:0] s8, output logic [16:0] s16);
  logic [7:0] wide;
  Adder #(8) add8 (x, y, s8);
  Adder #(.W(16)) add16 (.a({8'd0, x}), .b({wide, y}), .sum(s16));
endmodule`,
			golden: "ports.golden",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			design, err := elaborate(t, tt.src, tt.root)
			require.NoError(t, err)
			golden.Assert(t, design.String(), tt.golden)
		})
	}
}

func TestSpecializeIsMemoized(t *testing.T) {
	file := parseSource(t, `module Top;
  Leaf a();
  Leaf b();
  Leaf c();
endmodule
module Leaf; endmodule`)
	e := NewElaborator(file)
	design, err := e.Elaborate("Top")
	require.NoError(t, err)

	require.Len(t, design.Entities, 2)
	leaf := design.Entity("Leaf")
	require.NotNil(t, leaf)
	require.Len(t, design.Root.Insts, 3)
	for _, inst := range design.Root.Insts {
		assert.Same(t, leaf, inst.Callee)
	}

	// Repeated calls within the same run return the cached entity.
	again, err := e.Specialize("Leaf", nil)
	require.NoError(t, err)
	assert.Same(t, leaf, again)
	again, err = e.Specialize("Leaf", Key{})
	require.NoError(t, err)
	assert.Same(t, leaf, again)
	assert.Len(t, e.entities, 2)
}

func TestSuffixesFollowDiscoveryOrder(t *testing.T) {
	design, err := elaborate(t, `module Top;
  M #(2) m1();
  M #(4) m2();
  M #(2) m3();
  Wrap w();
  M #(8) m4();
endmodule
module Wrap;
  M #(16) inner();
  M #(4) again();
endmodule
module M #(parameter W = 1)(input logic [W-1:0] a);
endmodule`, "Top")
	require.NoError(t, err)

	names := map[string]string{}
	for _, e := range design.Entities {
		if e.Module == "M" {
			names[e.Name] = e.Ports[0].Type.String()
		}
	}
	assert.Equal(t, map[string]string{
		"M.param1": "l2$",
		"M.param2": "l4$",
		"M.param3": "l16$",
		"M.param4": "l8$",
	}, names)

	callees := []string{}
	for _, inst := range design.Root.Insts {
		callees = append(callees, inst.Callee.Name)
	}
	assert.Equal(t, []string{"M.param1", "M.param2", "M.param1", "Wrap", "M.param4"}, callees)
}

func TestOrderedCalleesFirst(t *testing.T) {
	design, err := elaborate(t, `module Top;
  A a();
  B b();
endmodule
module A; C c(); endmodule
module B; C c(); endmodule
module C; endmodule`, "Top")
	require.NoError(t, err)

	var order []string
	for _, e := range design.Ordered() {
		order = append(order, e.Name)
	}
	assert.Equal(t, []string{"C", "A", "B", "Top"}, order)
}

func TestForwardReferences(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		param string
		index int
	}{
		{"later value", "module P #(parameter A = B, parameter B = 1); endmodule", "A", 0},
		{"self value", "module P #(parameter A = A + 1); endmodule", "A", 0},
		{"later type", "module P #(type T = R, type R = bit); endmodule", "T", 0},
		{"later in dims", "module P #(parameter logic [N-1:0] A = 0, parameter N = 4); endmodule", "A", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := elaborate(t, tt.src, "P")
			ee := requireKind(t, err, ForwardReference)
			assert.Equal(t, "P", ee.Module)
			assert.Equal(t, tt.param, ee.Param)
			assert.Equal(t, tt.index, ee.Index)
		})
	}
}

func TestCyclicInstantiation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		root string
	}{
		{"self", "module Z; Z z(); endmodule", "Z"},
		{"mutual", "module X; Y y(); endmodule\nmodule Y; X x(); endmodule", "X"},
		{"growing key", "module R #(parameter N = 1); R #(N + 1) r(); endmodule", "R"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := elaborate(t, tt.src, tt.root)
			ee := requireKind(t, err, CyclicInstantiation)
			require.NotEmpty(t, ee.Notes)
			assert.Contains(t, ee.Notes[0], "instantiation chain: "+tt.root)
		})
	}
}

func TestParameterErrors(t *testing.T) {
	const lib = `
module D #(type T)(input T t); endmodule
module V #(parameter W = 4); endmodule
module G #(type T, type R = T)(input T t, input R r); endmodule
module H #(parameter A = 1, localparam B = A * 2); endmodule
`
	tests := []struct {
		name string
		body string
		kind ErrorKind
		msg  string
	}{
		{"value for type", "D #(5) d();", KindMismatch, "type parameter T is given the value 5"},
		{"type for value", "V #(bit) v();", KindMismatch, "value parameter W is given the type bit"},
		{"no default", "D d();", UnresolvedParam, "type parameter T of D has no override and no default"},
		{"too many", "V #(1, 2) v();", TooManyParams, "V only has 1 parameter"},
		{"unknown name", "V #(.X(1)) v();", NoSuchParam, "V has no parameter named X"},
		{"duplicate name", "V #(.W(1), .W(2)) v();", DuplicateParam, "parameter W of V is overridden more than once"},
		{"mixed", "G #(bit, .R(bit)) g();", InvalidOverride, "cannot mix positional and named overrides of G"},
		{"localparam", "H #(.B(3)) h();", InvalidOverride, "cannot override localparam B of H"},
		{"unknown module", "Nope n();", UnknownModule, "unknown module Nope"},
		{"unknown override name", "V #(Q) v();", UnknownName, "unknown name Q"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := elaborate(t, lib+"module Top;\n  "+tt.body+"\nendmodule", "Top")
			ee := requireKind(t, err, tt.kind)
			assert.Contains(t, ee.Msg, tt.msg)
		})
	}
}

func TestTooManyParamsNote(t *testing.T) {
	_, err := elaborate(t, `module Top; E #(bit, bit) e(); endmodule
module E #(type T = bit)(input T t); endmodule`, "Top")
	ee := requireKind(t, err, TooManyParams)
	assert.Equal(t, "E only has 1 parameter", ee.Msg)
	assert.Equal(t, []string{"declared parameters: T"}, ee.Notes)
	assert.Contains(t, err.Error(), "too many parameters: E only has 1 parameter\n  note: declared parameters: T")
}

func TestNamedOverrides(t *testing.T) {
	design, err := elaborate(t, `module Top;
  G #(.R(bit), .T(void)) g1();
  G #(.T(bit)) g2();
  G #(.T(bit), .R()) g3();
endmodule
module G #(type T, type R = T)(input T t, input R r); endmodule`, "Top")
	require.NoError(t, err)

	g1 := design.Root.Insts[0].Callee
	assert.Equal(t, "G.param1", g1.Name)
	assert.Equal(t, "void$", g1.Ports[0].Type.String())
	assert.Equal(t, "i1$", g1.Ports[1].Type.String())

	g2 := design.Root.Insts[1].Callee
	assert.Equal(t, "G.param2", g2.Name)
	assert.Same(t, g2, design.Root.Insts[2].Callee)
}

func TestEquivalentOverridesShareEntity(t *testing.T) {
	design, err := elaborate(t, `module Top;
  V #(4) a();
  V #(2 + 2) b();
  V c();
  V #(.W(32'd4)) d();
endmodule
module V #(parameter int W = 4)(input bit [W-1:0] x); endmodule`, "Top")
	require.NoError(t, err)
	first := design.Root.Insts[0].Callee
	for _, inst := range design.Root.Insts {
		assert.Same(t, first, inst.Callee, inst.Name)
	}
	assert.Equal(t, "V.param1", first.Name)
	assert.Equal(t, "i4$", first.Ports[0].Type.String())
}

func TestWideUnsizedOverridesStayDistinct(t *testing.T) {
	design, err := elaborate(t, `module Top;
  N #('h1FFFFFFFF) c();
  N #('hFFFFFFFF) d();
endmodule
module N #(parameter longint unsigned V = 1); endmodule`, "Top")
	require.NoError(t, err)
	c, d := design.Root.Insts[0].Callee, design.Root.Insts[1].Callee
	assert.NotSame(t, c, d)
	assert.Equal(t, "(V=64'd8589934591)", c.Key.String())
	assert.Equal(t, "(V=64'd4294967295)", d.Key.String())
}

func TestOverridesSeeCallerParams(t *testing.T) {
	design, err := elaborate(t, `module Top #(parameter N = 3, type T = logic [1:0]);
  localparam M = N * 2;
  Sub #(M, T) s();
endmodule
module Sub #(parameter W = 1, type E = bit)(input bit [W-1:0] a, output E e); endmodule`, "Top")
	require.NoError(t, err)
	sub := design.Root.Insts[0].Callee
	assert.Equal(t, "Sub.param1", sub.Name)
	assert.Equal(t, "i6$", sub.Ports[0].Type.String())
	assert.Equal(t, "l2$", sub.Ports[1].Type.String())
	assert.Equal(t, ClassOutput, sub.Ports[1].Class)
	assert.Equal(t, "(N=32'sd3, T:l2$)", design.Root.Key.String())
}

func TestNonANSIPorts(t *testing.T) {
	design, err := elaborate(t, `module L(a, b, c, {d, e[3:0]});
  parameter N = 5;
  localparam W = $clog2(N);
  input [W-1:0] a;
  output logic [N-1:0] b;
  inout c;
  wire [7:0] c;
  input d;
  input bit [7:0] e;
endmodule`, "L")
	require.NoError(t, err)
	l := design.Root
	assert.Equal(t, "L", l.Name)
	require.Len(t, l.Ports, 4)

	assert.Equal(t, "l3$", l.Ports[0].Type.String())
	assert.Equal(t, ClassInput, l.Ports[0].Class)
	assert.Equal(t, "l5$", l.Ports[1].Type.String())
	assert.Equal(t, ClassOutput, l.Ports[1].Class)
	assert.Equal(t, "l8$", l.Ports[2].Type.String())
	assert.Equal(t, decl.DirInout, l.Ports[2].Dir)
	assert.Equal(t, ClassOutput, l.Ports[2].Class)
	// {d, e[3:0]} is one unnamed 5 bit port.
	assert.Equal(t, "", l.Ports[3].Name)
	assert.Equal(t, "3", l.Ports[3].DisplayName())
	assert.Equal(t, "l5$", l.Ports[3].Type.String())

	assert.Equal(t, "entity @L (l3$ %a, l5$ %3) (l5$ %b, l8$ %c) {\n}\n", design.String())
}

func TestANSIPortInheritance(t *testing.T) {
	design, err := elaborate(t, `module P (input logic [3:0] a, b, output c, d, bit [1:0] e, f [4][0:1], inout int g);
endmodule`, "P")
	require.NoError(t, err)
	want := []struct {
		name string
		typ  string
		dir  decl.Direction
	}{
		{"a", "l4$", decl.DirInput},
		{"b", "l4$", decl.DirInput},
		{"c", "l1$", decl.DirOutput},
		{"d", "l1$", decl.DirOutput},
		{"e", "i2$", decl.DirOutput},
		{"f", "[4 x [2 x i2]]$", decl.DirOutput},
		{"g", "i32$", decl.DirInout},
	}
	ports := design.Root.Ports
	require.Len(t, ports, len(want))
	for i, w := range want {
		assert.Equal(t, w.name, ports[i].Name)
		assert.Equal(t, w.typ, ports[i].Type.String(), w.name)
		assert.Equal(t, w.dir, ports[i].Dir, w.name)
	}
}

func TestPortConnections(t *testing.T) {
	const sub = "module Sub(input logic a, input logic b, output logic y); endmodule\n"
	tests := []struct {
		name string
		inst string
		want string
	}{
		{"positional", "Sub s(p, q, r);", "inst @Sub (%p, %q) (%r)"},
		{"open positional", "Sub s(, q, r);", "inst @Sub (%q) (%r)"},
		{"named out of order", "Sub s(.y(r), .a(p));", "inst @Sub (%p) (%r)"},
		{"implicit", "Sub s(.a, .y);", "inst @Sub (%a) (%y)"},
		{"wildcard", "Sub s(.b(1'b0), .*);", "inst @Sub (%a, 1'b0) (%y)"},
		{"expression", "Sub s(.a(p & q));", "inst @Sub ((p & q)) ()"},
		{"no connections", "Sub s();", "inst @Sub () ()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			design, err := elaborate(t, sub+"module Top;\n  "+tt.inst+"\nendmodule", "Top")
			require.NoError(t, err)
			assert.Contains(t, design.String(), "    "+tt.want+"\n")
		})
	}
}

func TestPortConnectionErrors(t *testing.T) {
	const lib = `module Sub(input logic a, output logic y); endmodule
module Grp({a, b}); input a, b; endmodule
`
	tests := []struct {
		name string
		inst string
		msg  string
	}{
		{"too many", "Sub s(p, q, r);", "instance s: Sub only has 2 port(s)"},
		{"unknown port", "Sub s(.z(p));", "instance s: Sub has no port named z"},
		{"twice", "Sub s(.a(p), .a(q));", "instance s: port a is connected more than once"},
		{"mixed", "Sub s(p, .y(q));", "instance s mixes positional and named connections"},
		{"unnamed ports", "Grp g(.a(p));", "instance g: Grp has unnamed ports and needs positional connections"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := elaborate(t, lib+"module Top;\n  "+tt.inst+"\nendmodule", "Top")
			ee := requireKind(t, err, PortMapping)
			assert.Equal(t, "Top", ee.Module)
			assert.Equal(t, tt.msg, ee.Msg)
		})
	}
}

func TestUnknownRoot(t *testing.T) {
	_, err := elaborate(t, "module A; endmodule", "B")
	requireKind(t, err, UnknownModule)
}

func TestElaboratorIsReusable(t *testing.T) {
	file := parseSource(t, `module A; M #(1) m(); endmodule
module B; M #(2) m(); M #(1) n(); endmodule
module M #(parameter W = 0); endmodule`)
	e := NewElaborator(file)
	first, err := e.Elaborate("A")
	require.NoError(t, err)
	assert.Equal(t, "M.param1", first.Root.Insts[0].Callee.Name)

	// A new run starts a fresh cache and fresh suffixes.
	second, err := e.Elaborate("B")
	require.NoError(t, err)
	assert.Equal(t, "M.param1", second.Root.Insts[0].Callee.Name)
	assert.Equal(t, "M.param2", second.Root.Insts[1].Callee.Name)
	assert.Len(t, second.Entities, 3)
}
