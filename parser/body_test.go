package parser

import (
	"testing"

	"github.com/panyam/svlog/decl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModuleItems(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"port decl", "input [3:0] a, b;", "input [3:0] a, b;"},
		{"port decl with kind", "output wire logic y;", "output wire logic y;"},
		{"port decl named type", "input T t;", "input T t;"},
		{"net decl", "wire [7:0] w = 8'h1;", "wire [7:0] w = 8'h1;"},
		{"var decl", "logic signed [3:0] x, y [2];", "logic signed [3:0] x, y[2];"},
		{"named type var", "T data;", "T data;"},
		{"parameter item", "parameter int A = 1, B = A + 1;", "parameter int A = 1; parameter int B = (A + 1);"},
		{"localparam type", "localparam type U = logic [3:0];", "localparam type U = logic [3:0];"},
		{"assign", "assign a = b & c, d = ~e;", "assign a = (b & c), d = (~ e);"},
		{"simple inst", "B b();", "B b();"},
		{"positional overrides", "D #(void) d1();", "D #(void) d1();"},
		{"named overrides", "M #(.W(8), .T(bit [3:0]), .X()) m(.a(x), .b, .*);", "M #(.W(8), .T(bit [3:0]), .X()) m(.a(x), .b, .*);"},
		{"positional conns", "M m(a, , b[1]);", "M m(a, , b[1]);"},
		{"multiple instances", "M #(4) m1(a), m2(b);", "M #(4) m1(a), m2(b);"},
		{"expression override", "G #(W*2, int) g();", "G #((W * 2), int) g();"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := parseFragment(t, tt.input, func(p *LLParser) (ModuleItem, error) {
				return p.ParseModuleItem()
			})
			require.NoError(t, err)
			assertNodeEqual(t, tt.input, tt.expected, item)
		})
	}
}

func TestParseInstantiationShape(t *testing.T) {
	item, err := parseFragment(t, "G #(void, bit) g(.t(x), y);", func(p *LLParser) (ModuleItem, error) {
		return p.ParseModuleItem()
	})
	require.NoError(t, err)
	inst := item.(*InstantiationItem)
	assert.Equal(t, "G", inst.Callee.Value)
	assert.True(t, inst.HasParams)
	require.Len(t, inst.Params, 2)
	assert.IsType(t, &TypeExpr{}, inst.Params[0].Value)
	assert.Nil(t, inst.Params[0].Name)
	require.Len(t, inst.Instances, 1)
	conns := inst.Instances[0].Conns
	require.Len(t, conns, 2)
	assert.Equal(t, decl.ConnNamed, conns[0].Kind)
	assert.Equal(t, decl.ConnPositional, conns[1].Kind)
}

func TestParseModuleItemErrors(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		errorContains string
	}{
		{"assign without target", "assign a;", "expected net assignment"},
		{"compound assign", "assign a += 1;", "expected net assignment"},
		{"bare identifier", "foo;", "expected one of: ['#', IDENTIFIER], found: ';'"},
		{"unclosed instance", "B b(.a(1);", "expected ')', found: ';'"},
		{"unknown item", "+a;", "expected module item, found: '+'"},
		{"unclosed override", "B #(1 b();", "expected ')', found: IDENTIFIER (b)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFragment(t, tt.input, func(p *LLParser) (ModuleItem, error) {
				return p.ParseModuleItem()
			})
			assertError(t, tt.input, err, true, tt.errorContains)
		})
	}
}

func TestParseSourceFile(t *testing.T) {
	src := "`include \"common.svh\"\n" +
		"module A; B b(); endmodule\n" +
		"module B; endmodule : B\n" +
		"module C(input a, output b); assign b = a; endmodule\n"
	file, err := ParseString(src)
	require.NoError(t, err)
	require.Len(t, file.Declarations, 4)
	includes, err := file.Includes()
	require.NoError(t, err)
	require.Len(t, includes, 1)
	assert.Equal(t, "common.svh", includes[0].Path)

	modules, err := file.Modules()
	require.NoError(t, err)
	require.Len(t, modules, 3)
	assert.Equal(t, "A", modules[0].Name())
	assert.Len(t, modules[0].Instantiations(), 1)
	assert.Equal(t, "B", modules[1].EndLabel.Value)
	assert.Equal(t, 4, modules[2].Pos().Line)
	assert.NotNil(t, file.Module("C"))
	assert.Nil(t, file.Module("D"))
}

func TestParseSourceFileErrors(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		errorContains string
	}{
		{"missing endmodule", "module A;", "expected endmodule, found: EOF"},
		{"junk at top", "wire a;", "expected one of: [module, macromodule, `include], found: NET_TYPE (wire)"},
		{"error location", "module A;\n  B b(;\nendmodule", "2:7: expected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			assertError(t, tt.input, err, true, tt.errorContains)
		})
	}
}

func TestPrettyPrintModule(t *testing.T) {
	file, err := ParseString("module E #(type T = bit)(input T t); F f(.x(t)); endmodule")
	require.NoError(t, err)
	expected := "module E #(parameter type T = bit) (input T t);\n" +
		"    F f(.x(t));\n" +
		"endmodule\n"
	assert.Equal(t, expected, decl.PPrint(file))
}
