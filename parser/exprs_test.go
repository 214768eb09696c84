package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runExprTests(t *testing.T, tests []struct {
	name     string
	input    string
	expected string
}) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := parseFragment(t, tt.input, func(p *LLParser) (Expr, error) {
				return p.ParseExpression()
			})
			require.NoError(t, err)
			assertNodeEqual(t, tt.input, tt.expected, actual)
		})
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	runExprTests(t, []struct {
		name     string
		input    string
		expected string
	}{
		{"mul over add", "a + b * c", "(a + (b * c))"},
		{"left assoc", "a - b - c", "((a - b) - c)"},
		{"power over mul", "a ** b * c", "((a ** b) * c)"},
		{"shift under add", "a << 1 + b", "(a << (1 + b))"},
		{"relational over equality", "a == b < c", "(a == (b < c))"},
		{"bitwise ladder", "a | b ^ c & d", "(a | (b ^ (c & d)))"},
		{"xnor with xor", "a ^ b ~^ c", "((a ^ b) ~^ c)"},
		{"logical ladder", "a || b && c | d", "(a || (b && (c | d)))"},
		{"case equality", "a === b !== c", "((a === b) !== c)"},
		{"wildcard equality", "a ==? b", "(a ==? b)"},
		{"arith shift", "a <<< 2 >>> b", "((a <<< 2) >>> b)"},
		{"parens override", "(a + b) * c", "((a + b) * c)"},
		{"literals", "8'hFF + 'b1 - '1", "((8'hFF + 'b1) - '1)"},
	})
}

func TestParseConditional(t *testing.T) {
	runExprTests(t, []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "a ? b : c", "(a ? b : c)"},
		{"right assoc", "a ? b : c ? d : e", "(a ? b : (c ? d : e))"},
		{"nested then", "a ? b ? c : d : e", "(a ? (b ? c : d) : e)"},
		{"lowest precedence", "a || b ? c + 1 : d", "((a || b) ? (c + 1) : d)"},
	})
}

func TestParseUnaryAndPostfix(t *testing.T) {
	runExprTests(t, []struct {
		name     string
		input    string
		expected string
	}{
		{"negate", "-a + b", "((- a) + b)"},
		{"reduction and", "&a", "(& a)"},
		{"reduction nand", "~&a | b", "((~& a) | b)"},
		{"not", "!a && b", "((! a) && b)"},
		{"member chain", "a.b.c", "a.b.c"},
		{"member then index", "a.b[3]", "a.b[3]"},
		{"scope access", "pkg::WIDTH + 1", "(pkg::WIDTH + 1)"},
		{"call", "f(a, b + 1)", "f(a, (b + 1))"},
		{"empty call", "f()", "f()"},
		{"system call", "$clog2(W) - 1", "($clog2(W) - 1)"},
		{"method call", "obj.size()", "obj.size()"},
		{"part select", "a[7:0]", "a[7:0]"},
		{"indexed up", "a[i+:4]", "a[i+:4]"},
		{"indexed down", "a[i-:4]", "a[i-:4]"},
		{"chained selects", "mem[3][7:0]", "mem[3][7:0]"},
		{"post increment", "a++", "(a++)"},
		{"pre increment", "++a", "(++a)"},
		{"post decrement binds tighter", "a-- + b", "((a--) + b)"},
		{"postfix preferred", "a++ + b", "((a++) + b)"},
	})
}

func TestParseCasts(t *testing.T) {
	runExprTests(t, []struct {
		name     string
		input    string
		expected string
	}{
		{"type keyword", "int'(x)", "int'(x)"},
		{"width", "8'(x + 1)", "8'((x + 1))"},
		{"signing", "signed'(x)", "signed'(x)"},
		{"type parameter", "T'(x)", "T'(x)"},
		{"parenthesized width", "(W+1)'(x)", "(W + 1)'(x)"},
		{"cast in expression", "a + logic'(b)", "(a + logic'(b))"},
	})
}

func TestParseBracedForms(t *testing.T) {
	runExprTests(t, []struct {
		name     string
		input    string
		expected string
	}{
		{"empty queue", "{}", "{}"},
		{"concat", "{a, b[3:0], 1'b0}", "{a, b[3:0], 1'b0}"},
		{"single concat", "{a}", "{a}"},
		{"replicate", "{4{a}}", "{4 {a}}"},
		{"replicate list", "{W-1{a, b}}", "{(W - 1) {a, b}}"},
		{"stream left", "{<<{a, b}}", "{<< {a, b}}"},
		{"stream with slice", "{>> 8 {a}}", "{>> 8 {a}}"},
		{"stream with type slice", "{<< byte {a}}", "{<< byte {a}}"},
		{"stream with range", "{<<{a with [0:3], b}}", "{<< {a with [0:3], b}}"},
		{"nested concat", "{{a, b}, c}", "{{a, b}, c}"},
	})
}

func TestParseParenForms(t *testing.T) {
	runExprTests(t, []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "(a)", "a"},
		{"mintypmax", "(1:2:3)", "(1 : 2 : 3)"},
		{"mintypmax exprs", "(a+1 : b : c*2)", "((a + 1) : b : (c * 2))"},
		{"ternary inside parens", "(a ? b : c)", "(a ? b : c)"},
	})
}

func TestParseInsideMatchesTagged(t *testing.T) {
	runExprTests(t, []struct {
		name     string
		input    string
		expected string
	}{
		{"inside", "a inside {1, [2:3], b}", "(a inside {1, [2:3], b})"},
		{"inside then equality", "a inside {b} == c", "((a inside {b}) == c)"},
		{"inside under and", "a inside {1} && b", "((a inside {1}) && b)"},
		{"matches wildcard", "x matches .*", "(x matches .*)"},
		{"matches variable", "x matches .v", "(x matches .v)"},
		{"matches tagged", "x matches tagged Valid .v &&& v > 0",
			"((x matches (tagged Valid .v)) &&& (v > 0))"},
		{"matches expr", "x matches 3 + 1", "(x matches (3 + 1))"},
		{"tagged expr", "tagged Valid 5", "(tagged Valid 5)"},
		{"tagged void member", "tagged Invalid", "(tagged Invalid)"},
	})
}

func TestParseOperatorAssignment(t *testing.T) {
	runExprTests(t, []struct {
		name     string
		input    string
		expected string
	}{
		{"assign", "a = b + 1", "(a = (b + 1))"},
		{"compound", "a += 2", "(a += 2)"},
		{"shift compound", "x <<<= 1", "(x <<<= 1)"},
		{"select target", "a[3] |= b", "(a[3] |= b)"},
		{"relational not assignment", "a <= b", "(a <= b)"},
		{"parenthesized in operand", "a + (b = c)", "(a + (b = c))"},
		{"conditional else branch", "s ? x : y = 1", "(s ? x : (y = 1))"},
	})
}

func TestAssignmentNeedsBareTarget(t *testing.T) {
	tests := []struct {
		input string
		found string
	}{
		{"a + b = c", "found: '='"},
		{"-a = b", "found: '='"},
		{"a == b += 1", "found: ASSIGN_OP (+=)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseExpressionString(tt.input)
			assertError(t, tt.input, err, true, "expected EOF, "+tt.found)
		})
	}
}

func TestParseExpressionErrors(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		errorContains string
	}{
		{"missing operand", "a +", "expected expression, found: EOF"},
		{"unclosed paren", "(a", "expected ')', found: EOF"},
		{"type keyword without cast", "bit x", `expected "'(", found: IDENTIFIER (x)`},
		{"trailing comma in concat", "{a, }", "expected expression, found: '}'"},
		{"missing range bound", "a[1:]", "expected expression, found: ']'"},
		{"unclosed stream", "{<< {a}", "expected '}', found: EOF"},
		{"bad inside", "a inside b", "expected '{', found: IDENTIFIER (b)"},
		{"missing conditional colon", "a ? b", "expected ':', found: EOF"},
		{"lex error", "a @ b", "unexpected character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExpressionString(tt.input)
			assertError(t, tt.input, err, true, tt.errorContains)
		})
	}
}

func TestParseErrorCarriesExpectedSet(t *testing.T) {
	_, err := ParseExpressionString("(a b")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []string{"')'"}, perr.Expected)
	assert.Equal(t, "b", perr.Found)
	assert.Equal(t, 1, perr.Pos.Line)
	assert.Equal(t, 4, perr.Pos.Col)
}

func TestParseErrorNamesFixedTokenOnce(t *testing.T) {
	_, err := ParseExpressionString("a ? b )")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "expected ':', found: ')'", perr.Msg)
}

func TestParseRangeSelector(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"3", "3"},
		{"W-1:0", "(W - 1):0"},
		{"i*8+:8", "(i * 8)+:8"},
		{"hi-:2", "hi-:2"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sel, err := parseFragment(t, tt.input, func(p *LLParser) (*RangeSelector, error) {
				return p.ParseRangeSelector()
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sel.String())
		})
	}
}

func TestParseParamValueString(t *testing.T) {
	v, err := ParseParamValueString("logic [3:0]")
	require.NoError(t, err)
	te, ok := v.(*TypeExpr)
	require.True(t, ok, "got %T", v)
	assert.Equal(t, "logic", te.Type.Keyword)
	require.Len(t, te.Type.Packed, 1)

	v, err = ParseParamValueString("W * 2")
	require.NoError(t, err)
	assert.Equal(t, "(W * 2)", v.String())

	// a cast is still an expression
	v, err = ParseParamValueString("int'(3)")
	require.NoError(t, err)
	_, isType := v.(*TypeExpr)
	assert.False(t, isType)

	_, err = ParseParamValueString("bit x")
	assert.Error(t, err)
}
