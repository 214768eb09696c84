package parser

import (
	"testing"

	"github.com/panyam/svlog/decl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHeader(t *testing.T, input string) *ModuleDecl {
	t.Helper()
	out, err := parseFragment(t, input, func(p *LLParser) (*ModuleDecl, error) {
		m := &ModuleDecl{}
		return m, p.ParseModuleHeader(m)
	})
	require.NoError(t, err)
	return out
}

func TestParseModuleHeaderBasics(t *testing.T) {
	m := parseHeader(t, "module A;")
	assert.Equal(t, "A", m.Name())
	assert.Equal(t, "module", m.Keyword)
	assert.False(t, m.HasParamList)
	assert.Empty(t, m.Ports)
	assert.Equal(t, decl.PortStyleNone, m.PortStyle())

	m = parseHeader(t, "macromodule automatic B #() ();")
	assert.Equal(t, "macromodule", m.Keyword)
	assert.Equal(t, "automatic", m.Lifetime)
	assert.True(t, m.HasParamList)
	assert.Empty(t, m.Params)
}

func TestParseParamPortList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
		types    []bool
	}{
		{"type param", "module D #(type T)(input T t);",
			[]string{"parameter type T"}, []bool{true}},
		{"dependent type defaults", "module G #(type T, type R = T)(input T t, input R r);",
			[]string{"parameter type T", "parameter type R = T"}, []bool{true, true}},
		{"type continuation", "module H #(type T = bit, R = T);",
			[]string{"parameter type T = bit", "parameter type R = T"}, []bool{true, true}},
		{"value params", "module M #(parameter W = 8, int N = W * 2, localparam L = N + 1);",
			[]string{"parameter W = 8", "parameter int N = (W * 2)", "localparam L = (N + 1)"}, []bool{false, false, false}},
		{"value continuation keeps type", "module M #(parameter int A = 1, B = 2);",
			[]string{"parameter int A = 1", "parameter int B = 2"}, []bool{false, false}},
		{"bare first param", "module M #(W = 4);",
			[]string{"parameter W = 4"}, []bool{false}},
		{"packed type", "module M #(parameter logic [7:0] INIT = 8'h0, type T = logic [3:0]);",
			[]string{"parameter logic [7:0] INIT = 8'h0", "parameter type T = logic [3:0]"}, []bool{false, true}},
		{"implicit signed", "module M #(parameter signed [3:0] S = -1);",
			[]string{"parameter signed [3:0] S = (- 1)"}, []bool{false}},
		{"mixed kinds", "module M #(type T = int, parameter T V = 0);",
			[]string{"parameter type T = int", "parameter T V = 0"}, []bool{true, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := parseHeader(t, tt.input)
			require.Len(t, m.Params, len(tt.expected))
			for i, p := range m.Params {
				assert.Equal(t, tt.expected[i], p.String())
				assert.Equal(t, tt.types[i], p.IsType())
			}
		})
	}
}

func TestParseAnsiPorts(t *testing.T) {
	m := parseHeader(t, "module M(input logic [7:0] a, b, output reg c = 0, inout wire d, ref int e [4], input var f, output T g, bus.master h, interface.slave i, interface j);")
	assert.Equal(t, decl.PortStyleANSI, m.PortStyle())
	expected := []string{
		"input logic [7:0] a",
		"b",
		"output reg c = 0",
		"inout wire d",
		"ref int e[4]",
		"input var f",
		"output T g",
		"bus.master h",
		"interface.slave i",
		"interface j",
	}
	require.Len(t, m.Ports, len(expected))
	for i, p := range m.Ports {
		assert.Equal(t, expected[i], p.String())
	}
	h := m.Ports[7].(*DeclaredPort)
	require.NotNil(t, h.Interface)
	assert.Equal(t, "bus", h.Interface.Name)
	assert.Equal(t, "master", h.Interface.Modport)
	g := m.Ports[6].(*DeclaredPort)
	require.NotNil(t, g.Type)
	assert.Equal(t, "T", g.Type.Name.Value)
}

func TestParseNonAnsiPorts(t *testing.T) {
	m := parseHeader(t, "module N(a, b[3:0], {c, d[1]}, .e(f), .g());")
	assert.Equal(t, decl.PortStyleNonANSI, m.PortStyle())
	require.Len(t, m.Ports, 5)
	assert.IsType(t, &DeclaredPort{}, m.Ports[0])
	assert.Equal(t, "b[3:0]", m.Ports[1].String())
	group, ok := m.Ports[2].(*RefGroupPort)
	require.True(t, ok)
	assert.Equal(t, "{c, d[1]}", group.String())
	assert.Equal(t, "", group.PortName())
	explicit := m.Ports[3].(*ExplicitPort)
	assert.Equal(t, "e", explicit.PortName())
	assert.Equal(t, "f", explicit.Expr.String())
	assert.Nil(t, m.Ports[4].(*ExplicitPort).Expr)
}

func TestParseHeaderErrors(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		errorContains string
	}{
		{"missing name", "module ;", "expected IDENTIFIER, found: ';'"},
		{"missing semicolon", "module A", "expected ';', found: EOF"},
		{"bad param", "module A #(type = bit);", "expected IDENTIFIER, found: '='"},
		{"unclosed ports", "module A(input a;", "expected ')', found: ';'"},
		{"bad port", "module A(input 3);", "expected IDENTIFIER, found: INT_LITERAL (3)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFragment(t, tt.input, func(p *LLParser) (*ModuleDecl, error) {
				m := &ModuleDecl{}
				return m, p.ParseModuleHeader(m)
			})
			assertError(t, tt.input, err, true, tt.errorContains)
		})
	}
}
