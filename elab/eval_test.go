package elab

import (
	"strings"
	"testing"

	"github.com/panyam/svlog/decl"
	"github.com/panyam/svlog/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testScope binds W = 8 and type T = bit [3:0].
func testScope() *Scope {
	s := NewScope("Test")
	s.Define("W", decl.IntValue(8, 32, true))
	s.DefineType("T", decl.IntType(4, false))
	return s
}

func evalString(t *testing.T, s *Scope, input string) (decl.Value, error) {
	t.Helper()
	expr, err := parser.ParseExpressionString(input)
	require.NoError(t, err, input)
	return s.Eval(expr)
}

func TestEvalConstants(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2", "32'sd3"},
		{"8'hFF + 1", "32'd256"},
		{"4'd15 + 4'd1", "4'd0"},
		{"W * 2", "32'sd16"},
		{"W - 1", "32'sd7"},
		{"2 ** 10", "32'sd1024"},
		{"7 / 2", "32'sd3"},
		{"-7 % 3", "32'sd-1"},
		{"$clog2(5)", "32'sd3"},
		{"$clog2(1)", "32'sd0"},
		{"$clog2(W)", "32'sd3"},
		{"$bits(8'd0)", "32'sd8"},
		{"$bits(T)", "32'sd4"},
		{"$signed(4'hF)", "4'sd-1"},
		{"$unsigned(-1)", "32'd4294967295"},
		{"{4'hA, 4'h5}", "8'd165"},
		{"{2{2'b10}}", "4'd10"},
		{"-4'sd3 >>> 1", "4'sd-2"},
		{"8'd1 << 3", "8'd8"},
		{"8'hF0 >> 4", "8'd15"},
		{"(3 > 2) ? 10 : 20", "32'sd10"},
		{"W == 8 && W != 4", "1'd1"},
		{"W < 4 || 0", "1'd0"},
		{"-1 < 0", "1'd1"},
		{"-1 < 1'b0", "1'd0"},
		{"W inside {[1:4], 8}", "1'd1"},
		{"3 inside {1, 2}", "1'd0"},
		{"int'(8'hFF)", "32'sd255"},
		{"T'(5'd31)", "4'd15"},
		{"signed'(4'hF)", "4'sd-1"},
		{"4'(300)", "4'sd-4"},
		{"(1:2:3)", "32'sd2"},
		{"!0", "1'd1"},
		{"&4'hF", "1'd1"},
		{"~|4'h0", "1'd1"},
		{"^3'b101", "1'd0"},
		{"~4'b0101", "4'd10"},
		{"8'hF0 | 8'h0F", "8'd255"},
		{"8'hFF ^ 8'h0F", "8'd240"},
		{"'1 + 4'd0", "4'd15"},
		{`"ab" == "ab"`, "1'd1"},
		{`{"ab", "cd"}`, `"abcd"`},
		{"1.5 * 2", "3"},
		{"0 && (1 / 0)", "1'd0"},
	}
	s := testScope()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := evalString(t, s, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  ErrorKind
		msg   string
	}{
		{"10 / 0", ConstEval, "division by zero"},
		{"X + 1", UnknownName, "unknown name X"},
		{"T + 1", KindMismatch, "type parameter T used where a value is expected"},
		{"a[0]", ConstEval, "a[0] is not a constant expression"},
		{"$random(1)", ConstEval, "system function $random cannot be folded"},
		{"{64'd1, 1'b1}", ConstEval, "concatenation is wider than 64 bits"},
		{"{0{1'b1}}", ConstEval, "replication count 0 must be positive"},
		{"{33{2'b1}}", ConstEval, "replication is wider than 64 bits"},
		{"{64'h4000000000000000{4'd1}}", ConstEval, "replication is wider than 64 bits"},
		{"{64'h0400000000000000{64'd0}}", ConstEval, "replication is wider than 64 bits"},
		{"8'hx1", ConstEval, "x/z bits"},
		{`"a" + 1`, ConstEval, "mixes a string and a number"},
	}
	s := testScope()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := evalString(t, s, tt.input)
			ee := requireKind(t, err, tt.kind)
			assert.Contains(t, ee.Msg, tt.msg)
			assert.Equal(t, "Test", ee.Module)
		})
	}
}

func TestEvalForwardReference(t *testing.T) {
	s := NewScope("M")
	s.declare(&decl.ValueParamDecl{Name: &decl.IdentifierExpr{Value: "B"}})
	s.current = "A"
	_, err := evalString(t, s, "B + 1")
	ee := requireKind(t, err, ForwardReference)
	assert.Equal(t, "parameter A refers to B, which is declared after it", ee.Msg)
}

func TestPushedScopeShadows(t *testing.T) {
	outer := testScope()
	inner := outer.Push()
	inner.Define("W", decl.IntValue(3, 32, true))

	v, err := evalString(t, inner, "W * 2")
	require.NoError(t, err)
	assert.Equal(t, "32'sd6", v.String())

	v, err = evalString(t, outer, "W * 2")
	require.NoError(t, err)
	assert.Equal(t, "32'sd16", v.String())

	_, err = evalString(t, inner, "$bits(T)")
	require.NoError(t, err)
}

func parseDataType(t *testing.T, input string) *decl.DataType {
	t.Helper()
	p := parser.NewLLParser(parser.NewLexer(strings.NewReader(input)))
	dt, err := p.ParseDataType()
	require.NoError(t, err, input)
	return dt
}

func TestResolveType(t *testing.T) {
	tests := []struct {
		input string
		want  string
		key   string
	}{
		{"bit", "i1$", "i1$"},
		{"logic [7:0]", "l8$", "l8$"},
		{"reg [0:3]", "l4$", "l4$"},
		{"bit signed [15:0]", "i16$", "i16$s"},
		{"bit [3:0][1:0]", "i8$", "i8$"},
		{"bit [W-1:0]", "i8$", "i8$"},
		{"int", "i32$", "i32$s"},
		{"int unsigned", "i32$", "i32$"},
		{"integer", "l32$", "l32$s"},
		{"byte", "i8$", "i8$s"},
		{"shortint", "i16$", "i16$s"},
		{"longint", "i64$", "i64$s"},
		{"void", "void$", "void$"},
		{"string", "string$", "string$"},
		{"T", "i4$", "i4$"},
		{"[3:0]", "l4$", "l4$"},
		{"signed [3:0]", "l4$", "l4$s"},
	}
	s := testScope()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			typ, err := s.ResolveType(parseDataType(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, typ.String())
			assert.Equal(t, tt.key, typ.KeyString())
		})
	}
}

func TestResolveTypeErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  ErrorKind
	}{
		{"int [3:0]", InvalidType},
		{"void [1:0]", InvalidType},
		{"bit [4]", InvalidType},
		{"U", UnknownName},
		{"W", KindMismatch},
		{"bit [X:0]", UnknownName},
	}
	s := testScope()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := s.ResolveType(parseDataType(t, tt.input))
			requireKind(t, err, tt.kind)
		})
	}
}
