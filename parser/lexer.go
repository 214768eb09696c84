package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/panyam/svlog/decl"
)

// SVSymType carries a token's semantic value.
type SVSymType struct {
	node *TokenNode
	expr Expr // literals and identifiers
	sval string
}

// Lexer structure
type Lexer struct {
	lookaheadRunes  []rune
	lookaheadWidths []int
	reader          *bufio.Reader
	buf             bytes.Buffer // Temporary buffer for scanned text
	pos             int          // Current byte offset from the beginning of the input
	lastError       error

	// Position tracking for the current token
	tokenStart Location
	tokenText  string // Raw text of the current token

	// Current line and column (rune-based) in the input
	line int
	col  int
}

// NewLexer creates a new lexer instance
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(r),
		pos:    0,
		line:   1,
		col:    1,
	}
}

// Error records a lexing error at the current token.
func (l *Lexer) Error(s string) {
	l.lastError = &ParseError{Pos: l.tokenStart, Found: l.tokenText, Msg: s}
}

// LastError returns the most recent lexing error.
func (l *Lexer) LastError() error { return l.lastError }

// Pos returns the start of the most recently lexed token.
func (l *Lexer) Pos() Location { return l.tokenStart }

// End returns the location just past the most recent token.
func (l *Lexer) End() Location { return Location{Pos: l.pos, Line: l.line, Col: l.col} }

// Text returns the raw text of the most recently lexed token.
func (l *Lexer) Text() string { return l.tokenText }

// --- Rune Reading Helpers (with line/col tracking) ---
func (l *Lexer) read() (r rune, width int) {
	if l.peek() == eof {
		return eof, 0
	}
	r, width = l.lookaheadRunes[0], l.lookaheadWidths[0]
	l.lookaheadRunes, l.lookaheadWidths = l.lookaheadRunes[1:], l.lookaheadWidths[1:]
	l.updatePosition(r, width)
	return r, width
}

func (l *Lexer) updatePosition(r rune, width int) {
	l.pos += width
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) peekN(nthchar int) rune {
	l.ensureLookAhead(nthchar + 1)
	if nthchar >= len(l.lookaheadRunes) {
		return eof
	}
	return l.lookaheadRunes[nthchar]
}

func (l *Lexer) peek() rune { return l.peekN(0) }

func (l *Lexer) ensureLookAhead(numchars int) int {
	for len(l.lookaheadRunes) < numchars {
		r, width, err := l.reader.ReadRune()
		if err != nil {
			break
		}
		l.lookaheadRunes = append(l.lookaheadRunes, r)
		l.lookaheadWidths = append(l.lookaheadWidths, width)
	}
	return len(l.lookaheadRunes)
}

func (l *Lexer) hasPrefix(prefix string, consume bool) bool {
	runes := []rune(prefix)
	if l.ensureLookAhead(len(runes)) < len(runes) {
		return false
	}
	for i, r := range runes {
		if l.lookaheadRunes[i] != r {
			return false
		}
	}
	if consume {
		for range runes {
			l.read()
		}
	}
	return true
}

func (l *Lexer) readTill(stop rune, skip bool) (foundeof bool) {
	for {
		r := l.peek()
		if r == eof {
			return true
		}
		if r == stop {
			if skip {
				l.read()
			}
			return false
		}
		l.read()
	}
}

// --- Scanning Functions ---
func (l *Lexer) skipWhitespace() bool {
	for {
		firstChar := l.peek()
		if firstChar == eof {
			return true
		}
		if unicode.IsSpace(firstChar) {
			l.read()
		} else if l.hasPrefix("//", true) {
			l.readTill('\n', true)
		} else if l.hasPrefix("/*", true) {
			for {
				if l.hasPrefix("*/", true) {
					break
				}
				if r, _ := l.read(); r == eof {
					l.Error("unterminated block comment")
					return true
				}
			}
		} else {
			return false
		}
	}
}

func isIdentStart(r rune) bool { return unicode.IsLetter(r) || r == '_' }
func isIdentChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}

func (l *Lexer) scanIdentifierOrKeyword() (tok int, text string) {
	l.buf.Reset()
	for r := l.peek(); r != eof && isIdentChar(r); r = l.peek() {
		l.read()
		l.buf.WriteRune(r)
	}
	text = l.buf.String()
	if kw, ok := keywords[text]; ok {
		return kw, text
	}
	return IDENTIFIER, text
}

// scanEscapedIdentifier reads `\name ` up to the next whitespace.
func (l *Lexer) scanEscapedIdentifier() string {
	l.buf.Reset()
	l.read() // backslash
	for r := l.peek(); r != eof && !unicode.IsSpace(r); r = l.peek() {
		l.read()
		l.buf.WriteRune(r)
	}
	return l.buf.String()
}

func isBaseChar(r rune) bool {
	switch unicode.ToLower(r) {
	case 'h', 'o', 'b', 'd':
		return true
	}
	return false
}

func isBasedDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		return true
	}
	return strings.ContainsRune("xXzZ?_", r)
}

// scanBase reads `'[s]b digits` with the apostrophe still pending.
func (l *Lexer) scanBase() bool {
	r1 := l.peekN(1)
	off := 1
	if r1 == 's' || r1 == 'S' {
		off = 2
	}
	if !isBaseChar(l.peekN(off)) {
		return false
	}
	for i := 0; i <= off; i++ {
		r, _ := l.read()
		l.buf.WriteRune(r)
	}
	for unicode.IsSpace(l.peek()) {
		l.read()
	}
	n := 0
	for r := l.peek(); r != eof && isBasedDigit(r); r = l.peek() {
		l.read()
		l.buf.WriteRune(r)
		n++
	}
	if n == 0 {
		l.Error("missing digits in based number")
	}
	return true
}

func (l *Lexer) scanNumber() (tok int, text string) {
	l.buf.Reset()
	tok = INT_LITERAL
	if l.peek() == '\'' {
		if !l.scanBase() {
			l.Error("invalid based number")
			return ILLEGAL, l.buf.String()
		}
		return tok, l.buf.String()
	}
	for r := l.peek(); unicode.IsDigit(r) || r == '_'; r = l.peek() {
		l.read()
		l.buf.WriteRune(r)
	}
	if l.peek() == '.' && unicode.IsDigit(l.peekN(1)) {
		tok = REAL_LITERAL
		l.read()
		l.buf.WriteRune('.')
		for r := l.peek(); unicode.IsDigit(r) || r == '_'; r = l.peek() {
			l.read()
			l.buf.WriteRune(r)
		}
	}
	if r := l.peek(); r == 'e' || r == 'E' {
		next := l.peekN(1)
		if unicode.IsDigit(next) || ((next == '+' || next == '-') && unicode.IsDigit(l.peekN(2))) {
			tok = REAL_LITERAL
			l.read()
			l.buf.WriteRune(r)
			if next == '+' || next == '-' {
				l.read()
				l.buf.WriteRune(next)
			}
			for r := l.peek(); unicode.IsDigit(r); r = l.peek() {
				l.read()
				l.buf.WriteRune(r)
			}
		}
	}
	if tok == INT_LITERAL && l.peek() == '\'' {
		// sized literal; a `'(` after the size is a cast and is left alone
		l.scanBase()
	}
	return tok, l.buf.String()
}

func (l *Lexer) scanString() (tok int, content string) {
	l.buf.Reset()
	l.read() // Consume opening '"'
	for {
		r, _ := l.read()
		if r == eof || r == '\n' {
			l.Error("unterminated string literal")
			return ILLEGAL, l.buf.String()
		}
		if r == '"' {
			break
		}
		if r == '\\' {
			esc, _ := l.read()
			switch esc {
			case 'n':
				l.buf.WriteRune('\n')
			case 't':
				l.buf.WriteRune('\t')
			case '\\', '"':
				l.buf.WriteRune(esc)
			case eof:
				l.Error("unterminated string literal after escape")
				return ILLEGAL, l.buf.String()
			default:
				l.buf.WriteRune('\\')
				l.buf.WriteRune(esc)
			}
		} else {
			l.buf.WriteRune(r)
		}
	}
	return STRING_LITERAL, l.buf.String()
}

// scanDirective handles compiler directives. Only `include produces a
// token; `timescale and `default_nettype lines are skipped.
func (l *Lexer) scanDirective(lval *SVSymType) int {
	l.read() // backtick
	l.buf.Reset()
	for r := l.peek(); r != eof && isIdentChar(r); r = l.peek() {
		l.read()
		l.buf.WriteRune(r)
	}
	name := l.buf.String()
	switch name {
	case "include":
		for r := l.peek(); r == ' ' || r == '\t'; r = l.peek() {
			l.read()
		}
		if l.peek() != '"' {
			l.tokenText = "`include"
			l.Error("expected quoted file name after `include")
			return ILLEGAL
		}
		tok, path := l.scanString()
		if tok == ILLEGAL {
			return ILLEGAL
		}
		l.tokenText = fmt.Sprintf("`include %q", path)
		lval.sval = path
		return INCLUDE_DIRECTIVE
	case "timescale", "default_nettype", "resetall", "celldefine", "endcelldefine":
		l.readTill('\n', false)
		return -1
	}
	l.tokenText = "`" + name
	l.Error(fmt.Sprintf("unsupported compiler directive `%s", name))
	return ILLEGAL
}

// Lex is the main lexing function called by the parser.
func (l *Lexer) Lex(lval *SVSymType) int {
	for {
		tok := l.lex(lval)
		if tok >= 0 {
			return tok
		}
	}
}

func (l *Lexer) lex(lval *SVSymType) int {
	prevErr := l.lastError
	if l.skipWhitespace() {
		l.tokenStart = l.End()
		l.tokenText = ""
		if l.lastError != prevErr {
			return ILLEGAL
		}
		return eof
	}

	l.tokenStart = l.End()
	l.tokenText = ""
	start := l.tokenStart
	setNode := func() {
		lval.node = &TokenNode{NodeInfo: NodeInfo{StartPos: start, StopPos: l.End()}, Text: l.tokenText}
	}

	r := l.peek()
	switch {
	case isIdentStart(r) || r == '\\':
		tok, text := IDENTIFIER, ""
		if r == '\\' {
			text = l.scanEscapedIdentifier()
		} else {
			tok, text = l.scanIdentifierOrKeyword()
		}
		l.tokenText = text
		setNode()
		lval.sval = text
		if tok == IDENTIFIER {
			lval.expr = &IdentifierExpr{ExprBase: ExprBase{NodeInfo: lval.node.NodeInfo}, Value: text}
		}
		return tok

	case r == '$':
		l.read()
		l.buf.Reset()
		l.buf.WriteRune('$')
		for r := l.peek(); r != eof && isIdentChar(r); r = l.peek() {
			l.read()
			l.buf.WriteRune(r)
		}
		l.tokenText = l.buf.String()
		setNode()
		lval.sval = l.tokenText
		lval.expr = &IdentifierExpr{ExprBase: ExprBase{NodeInfo: lval.node.NodeInfo}, Value: l.tokenText}
		return SYSTEM_IDENTIFIER

	case r == '`':
		tok := l.scanDirective(lval)
		if tok > 0 {
			setNode()
		}
		return tok

	case r == '"':
		tok, content := l.scanString()
		l.tokenText = fmt.Sprintf("%q", content)
		setNode()
		if tok == STRING_LITERAL {
			lval.expr = &LiteralExpr{ExprBase: ExprBase{NodeInfo: lval.node.NodeInfo}, Kind: decl.LitString, Text: l.tokenText}
		}
		return tok

	case r == '\'' && l.peekN(1) != '(' && l.peekN(1) != '{':
		next := l.peekN(1)
		if strings.ContainsRune("01xXzZ", next) && !isIdentChar(l.peekN(2)) {
			l.read()
			l.read()
			l.tokenText = "'" + string(next)
			setNode()
			lval.expr = &LiteralExpr{ExprBase: ExprBase{NodeInfo: lval.node.NodeInfo}, Kind: decl.LitUnbased, Text: l.tokenText}
			return UNBASED_LITERAL
		}
		fallthrough

	case unicode.IsDigit(r):
		tok, text := l.scanNumber()
		l.tokenText = text
		setNode()
		kind := decl.LitInt
		if tok == REAL_LITERAL {
			kind = decl.LitReal
		}
		if tok != ILLEGAL {
			lval.expr = &LiteralExpr{ExprBase: ExprBase{NodeInfo: lval.node.NodeInfo}, Kind: kind, Text: text}
		}
		return tok
	}

	for _, op := range operators {
		if l.hasPrefix(op.text, true) {
			l.tokenText = op.text
			lval.sval = op.text
			setNode()
			return op.tok
		}
	}

	l.read()
	l.tokenText = string(r)
	setNode()
	l.Error(fmt.Sprintf("unexpected character %q", r))
	return ILLEGAL
}
