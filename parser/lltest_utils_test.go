package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// parseFragment is a generic helper to parse a fragment using a specific parse function
// from the LLParser (e.g., p.ParseExpression, p.ParsePort).
func parseFragment[T any](t *testing.T, input string, parseFunc func(p *LLParser) (T, error)) (actualNode T, err error) {
	t.Helper()
	parser := NewLLParser(NewLexer(strings.NewReader(input)))

	actualNode, err = parseFunc(parser)

	// After parsing, check if there's any unconsumed input (other than EOF)
	// This helps catch cases where the parser stops too early.
	if err == nil {
		if peeked := parser.PeekToken(); peeked != eof {
			t.Errorf("Input: %q\nParser did not consume all input. Remaining token: %s (%q)",
				input, TokenString(peeked), parser.peekedText())
			err = &ParseError{Pos: parser.peekedValuePos(), Msg: "parser did not consume all input"}
		}
	}
	return
}

// assertNodeEqual compares the printed forms of two nodes.
func assertNodeEqual(t *testing.T, input string, expected string, actual Node) {
	t.Helper()
	if actual == nil {
		t.Errorf("Input: %q\nExpected %q, got nil node", input, expected)
		return
	}
	assert.Equal(t, expected, actual.String(), "Input: %q", input)
}

// assertError checks for expected errors.
func assertError(t *testing.T, input string, err error, expectError bool, errorContains string) {
	t.Helper()
	if expectError {
		if err == nil {
			t.Errorf("Input: %q\nExpected an error, but got nil", input)
			return
		}
		if errorContains != "" && !strings.Contains(err.Error(), errorContains) {
			t.Errorf("Input: %q\nError message %q does not contain expected string %q", input, err.Error(), errorContains)
		}
	} else {
		if err != nil {
			t.Errorf("Input: %q\nDid not expect an error, but got: %v", input, err)
		}
	}
}
