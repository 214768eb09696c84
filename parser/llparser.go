package parser

import (
	"fmt"
	"io"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// ParseError reports an unexpected token with the tokens that would have
// been accepted in its place.
type ParseError struct {
	Pos      Location
	Expected []string
	Found    string
	Msg      string
}

func (e *ParseError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos.LineColStr(), e.Msg)
	}
	return e.Msg
}

type lexedToken struct {
	tok   int
	value *SVSymType
}

// LLParser is a hand written recursive descent parser with a small fixed
// token lookahead window.
type LLParser struct {
	lexer     *Lexer
	lookahead []lexedToken
	lastEnd   Location

	PanicOnError bool
	Errors       []error
}

func NewLLParser(lexer *Lexer) *LLParser {
	return &LLParser{lexer: lexer}
}

// Parse reads a whole source file into file.
func (p *LLParser) Parse(file *File) (err error) {
	for {
		switch p.PeekToken() {
		case eof:
			file.StopPos = p.lastEnd
			return nil
		case MODULE, MACROMODULE:
			node := &ModuleDecl{}
			if err = p.ParseModuleDecl(node); err != nil {
				return err
			}
			file.Declarations = append(file.Declarations, node)
		case INCLUDE_DIRECTIVE:
			tokVal := p.peekedValue()
			p.Advance()
			file.Declarations = append(file.Declarations, &IncludeDecl{NodeInfo: newNodeInfoFromToken(tokVal), Path: tokVal.sval})
		case SEMICOLON:
			p.Advance()
		default:
			_, err = p.Expect(MODULE, MACROMODULE, INCLUDE_DIRECTIVE)
			return err
		}
	}
}

func (p *LLParser) Errorf(format string, args ...any) error {
	return p.fail(&ParseError{Pos: p.peekedValuePos(), Found: p.peekedText(), Msg: fmt.Sprintf(format, args...)})
}

func (p *LLParser) fail(err error) error {
	p.Errors = append(p.Errors, err)
	if p.PanicOnError {
		panic(err)
	}
	return err
}

func (p *LLParser) fill(n int) {
	for len(p.lookahead) <= n {
		val := &SVSymType{}
		tok := p.lexer.Lex(val)
		if val.node == nil {
			val.node = &TokenNode{NodeInfo: newNodeInfo(p.lexer.Pos(), p.lexer.End()), Text: p.lexer.Text()}
		}
		p.lookahead = append(p.lookahead, lexedToken{tok, val})
	}
}

// PeekToken returns the next token without consuming it.
func (p *LLParser) PeekToken() int { return p.PeekTokenN(0) }

// PeekTokenN looks n tokens past the next one.
func (p *LLParser) PeekTokenN(n int) int {
	p.fill(n)
	return p.lookahead[n].tok
}

func (p *LLParser) peekedValue() *SVSymType {
	p.fill(0)
	return p.lookahead[0].value
}

func (p *LLParser) peekedText() string { return p.peekedValue().node.Text }

func (p *LLParser) peekedValuePos() Location { return p.peekedValue().node.Pos() }

func (p *LLParser) Advance() int {
	p.fill(0)
	last := p.lookahead[0]
	p.lookahead = p.lookahead[1:]
	p.lastEnd = last.value.node.End()
	return last.tok
}

// Expect checks if the current peeked token is one of the expected tokens.
// It does NOT advance.
func (p *LLParser) Expect(tokensIn ...int) (foundToken int, err error) {
	peekedToken := p.PeekToken()
	for _, tok := range tokensIn {
		if tok == peekedToken {
			return tok, nil
		}
	}
	return -1, p.unexpected(gfn.Map(tokensIn, func(t int) string { return TokenString(t) })...)
}

// unexpected reports the peeked token against a set of accepted tokens.
func (p *LLParser) unexpected(expected ...string) error {
	peekedToken := p.PeekToken()
	if peekedToken == ILLEGAL && p.lexer.LastError() != nil {
		return p.fail(p.lexer.LastError())
	}
	var errMsg string
	if len(expected) == 1 {
		errMsg = fmt.Sprintf("expected %s, found: %s", expected[0], TokenString(peekedToken))
	} else {
		errMsg = fmt.Sprintf("expected one of: [%s], found: %s", strings.Join(expected, ", "), TokenString(peekedToken))
	}
	if text := p.peekedText(); text != "" && text != unquoteTokenName(TokenString(peekedToken)) {
		errMsg = fmt.Sprintf("%s (%s)", errMsg, text)
	}
	return p.fail(&ParseError{Pos: p.peekedValuePos(), Expected: expected, Found: p.peekedText(), Msg: errMsg})
}

// unquoteTokenName strips the quotes from names of fixed tokens like ')'.
func unquoteTokenName(name string) string {
	if len(name) >= 2 && (name[0] == '\'' || name[0] == '"') && name[len(name)-1] == name[0] {
		return name[1 : len(name)-1]
	}
	return name
}

// AdvanceIf expects one of the given tokens and advances if found.
// Returns the matched token type and its semantic value.
func (p *LLParser) AdvanceIf(tokensIn ...int) (foundToken int, tokenValue *SVSymType, err error) {
	if _, err = p.Expect(tokensIn...); err != nil {
		return -1, nil, err
	}
	tokenValue = p.peekedValue()
	foundToken = p.Advance()
	return
}

// consumeIf advances past tok if it is next.
func (p *LLParser) consumeIf(tok int) bool {
	if p.PeekToken() == tok {
		p.Advance()
		return true
	}
	return false
}

// Extract a single identifier
func (p *LLParser) ParseIdentifier() (out *IdentifierExpr, err error) {
	_, tokVal, err := p.AdvanceIf(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if ident, ok := tokVal.expr.(*IdentifierExpr); ok {
		return ident, nil
	}
	return newIdentifierExpr(tokVal.sval, tokVal.node.Pos(), tokVal.node.End()), nil
}

// --- Entry points ---

// Parse parses a source file. The sourceName is recorded on the result.
func Parse(input io.Reader, sourceName string) (*File, error) {
	p := NewLLParser(NewLexer(input))
	file := &File{FullPath: sourceName}
	if err := p.Parse(file); err != nil {
		return nil, err
	}
	return file, nil
}

// ParseString is Parse for in-memory sources.
func ParseString(input string) (*File, error) {
	return Parse(strings.NewReader(input), "<string>")
}

// ParseExpressionString parses a single complete expression.
func ParseExpressionString(input string) (Expr, error) {
	p := NewLLParser(NewLexer(strings.NewReader(input)))
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if p.PeekToken() != eof {
		return nil, p.unexpected(TokenString(eof))
	}
	return expr, nil
}

// ParseParamValueString parses a parameter value the way an override list
// does: a data type or an expression.
func ParseParamValueString(input string) (Expr, error) {
	p := NewLLParser(NewLexer(strings.NewReader(input)))
	expr, err := p.parseParamValue()
	if err != nil {
		return nil, err
	}
	if p.PeekToken() != eof {
		return nil, p.unexpected(TokenString(eof))
	}
	return expr, nil
}
