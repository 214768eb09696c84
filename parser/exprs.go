package parser

import (
	"github.com/panyam/svlog/decl"
)

// castTypeTokens are the type keywords that may appear directly before `'(`.
var castTypeTokens = map[int]bool{
	BIT: true, LOGIC: true, REG: true, INT: true, INTEGER: true, BYTE: true,
	SHORTINT: true, LONGINT: true, VOID: true, STRING: true, SIGNED: true, UNSIGNED: true,
}

// primaryStartTokens can begin a primary expression.
var primaryStartTokens = map[int]bool{
	IDENTIFIER: true, SYSTEM_IDENTIFIER: true, INT_LITERAL: true, UNBASED_LITERAL: true,
	REAL_LITERAL: true, STRING_LITERAL: true, NULL: true, THIS: true,
	LPAREN: true, LBRACE: true, TAGGED: true,
}

// ParseExpression parses a full expression including the conditional
// operator.
func (p *LLParser) ParseExpression() (Expr, error) {
	return p.parseConditional()
}

// conditional := binary [ '?' expression ':' conditional ]
func (p *LLParser) parseConditional() (Expr, error) {
	cond, err := p.parseBinaryExpr(PrecLogicalOr)
	if err != nil {
		return nil, err
	}
	if tok := p.PeekToken(); (tok == ASSIGN || tok == ASSIGN_OP) && isAssignTarget(cond) {
		return p.parseAssignment(cond)
	}
	if p.PeekToken() != QUESTION {
		return cond, nil
	}
	p.Advance()
	then, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if _, _, err = p.AdvanceIf(COLON); err != nil {
		return nil, err
	}
	elseExpr, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	return &TernaryExpr{ExprBase: exprNodeInfo(cond, elseExpr), Cond: cond, Then: then, Else: elseExpr}, nil
}

// parseBinaryExpr is precedence climbing over svPrecedencer. Only operators
// binding at least as tightly as minPrec are consumed at this level.
func (p *LLParser) parseBinaryExpr(minPrec int) (Expr, error) {
	lhs, err := p.ParseUnaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.PeekToken()
		info, ok := svPrecedencer.PrecedenceFor(tok)
		if !ok || info.Precedence < minPrec {
			return lhs, nil
		}
		opText := p.peekedText()
		p.Advance()

		switch tok {
		case INSIDE:
			ranges, err := p.parseInsideRanges()
			if err != nil {
				return nil, err
			}
			lhs = &InsideExpr{ExprBase: ExprBase{NodeInfo: newNodeInfo(lhs.Pos(), p.lastEnd)}, Operand: lhs, Ranges: ranges}
			continue
		case MATCHES:
			pattern, err := p.ParsePattern()
			if err != nil {
				return nil, err
			}
			lhs = &MatchesExpr{ExprBase: exprNodeInfo(lhs, pattern), Operand: lhs, Pattern: pattern}
			continue
		}

		next := info.Precedence + 1
		if info.Assoc == AssocRight {
			next = info.Precedence
		}
		rhs, err := p.parseBinaryExpr(next)
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{ExprBase: exprNodeInfo(lhs, rhs), Left: lhs, Operator: opText, Right: rhs}
	}
}

// parseAssignment parses the right side of an operator assignment. Only a
// bare postfix chain at the start of an expression (or inside parentheses)
// can be a target, so "a + b = c" stops at the '='.
func (p *LLParser) parseAssignment(target Expr) (Expr, error) {
	op := p.peekedText()
	p.Advance()
	value, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &AssignExpr{ExprBase: exprNodeInfo(target, value), Target: target, Operator: op, Value: value}, nil
}

func isAssignTarget(e Expr) bool {
	switch e.(type) {
	case *BinaryExpr, *UnaryExpr, *IncDecExpr, *InsideExpr, *MatchesExpr, *TernaryExpr, *AssignExpr:
		return false
	}
	return true
}

// ParseUnaryExpr handles prefix operators.
func (p *LLParser) ParseUnaryExpr() (Expr, error) {
	tok := p.PeekToken()
	if unaryOperators[tok] {
		opVal := p.peekedValue()
		p.Advance()
		operand, err := p.ParseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{ExprBase: exprNodeInfo(opVal.node, operand), Operator: opVal.node.Text, Right: operand}, nil
	}
	if tok == INC || tok == DEC {
		opVal := p.peekedValue()
		p.Advance()
		operand, err := p.ParsePostfixExpr()
		if err != nil {
			return nil, err
		}
		return &IncDecExpr{ExprBase: exprNodeInfo(opVal.node, operand), Operator: opVal.node.Text, Prefix: true, Operand: operand}, nil
	}

	return p.ParsePostfixExpr()
}

func isCallable(e Expr) bool {
	switch e.(type) {
	case *IdentifierExpr, *MemberAccessExpr, *ScopeAccessExpr:
		return true
	}
	return false
}

// ParsePostfixExpr parses a primary followed by any number of member,
// scope, call, select, cast and post increment/decrement suffixes.
func (p *LLParser) ParsePostfixExpr() (expr Expr, err error) {
	if expr, err = p.ParsePrimaryExpr(); err != nil {
		return nil, err
	}
	for {
		switch p.PeekToken() {
		case DOT:
			p.Advance()
			member, err := p.ParseIdentifier()
			if err != nil {
				return nil, err
			}
			expr = &MemberAccessExpr{ExprBase: exprNodeInfo(expr, member), Receiver: expr, Member: member}
		case SCOPE:
			p.Advance()
			name, err := p.ParseIdentifier()
			if err != nil {
				return nil, err
			}
			expr = &ScopeAccessExpr{ExprBase: exprNodeInfo(expr, name), Scope: expr, Name: name}
		case LPAREN:
			if !isCallable(expr) {
				return expr, nil
			}
			p.Advance()
			args, err := p.parseExprList(RPAREN)
			if err != nil {
				return nil, err
			}
			if _, _, err = p.AdvanceIf(RPAREN); err != nil {
				return nil, err
			}
			expr = &CallExpr{ExprBase: ExprBase{NodeInfo: newNodeInfo(expr.Pos(), p.lastEnd)}, Function: expr, ArgList: args}
		case LBRACKET:
			p.Advance()
			sel, err := p.ParseRangeSelector()
			if err != nil {
				return nil, err
			}
			if _, _, err = p.AdvanceIf(RBRACKET); err != nil {
				return nil, err
			}
			expr = &IndexExpr{ExprBase: ExprBase{NodeInfo: newNodeInfo(expr.Pos(), p.lastEnd)}, Target: expr, Select: sel}
		case INC, DEC:
			op := p.peekedText()
			p.Advance()
			expr = &IncDecExpr{ExprBase: ExprBase{NodeInfo: newNodeInfo(expr.Pos(), p.lastEnd)}, Operator: op, Operand: expr}
		case APOS_LPAREN:
			p.Advance()
			operand, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			if _, _, err = p.AdvanceIf(RPAREN); err != nil {
				return nil, err
			}
			expr = &CastExpr{ExprBase: ExprBase{NodeInfo: newNodeInfo(expr.Pos(), p.lastEnd)}, Target: expr, Operand: operand}
		default:
			return expr, nil
		}
	}
}

// ParsePrimaryExpr parses the leaf and bracketed forms of an expression.
func (p *LLParser) ParsePrimaryExpr() (Expr, error) {
	tok := p.PeekToken()
	tokVal := p.peekedValue()
	switch tok {
	case INT_LITERAL, UNBASED_LITERAL, REAL_LITERAL, STRING_LITERAL:
		p.Advance()
		return tokVal.expr, nil
	case NULL:
		p.Advance()
		return &LiteralExpr{ExprBase: ExprBase{NodeInfo: tokVal.node.NodeInfo}, Kind: decl.LitNull, Text: "null"}, nil
	case IDENTIFIER, SYSTEM_IDENTIFIER:
		p.Advance()
		return tokVal.expr, nil
	case THIS:
		p.Advance()
		return newIdentifierExpr("this", tokVal.node.Pos(), tokVal.node.End()), nil
	case LPAREN:
		return p.parseParenthesized()
	case LBRACE:
		return p.parseBraced()
	case TAGGED:
		p.Advance()
		member, err := p.ParseIdentifier()
		if err != nil {
			return nil, err
		}
		out := &TaggedExpr{ExprBase: exprNodeInfo(tokVal.node, member), Member: member}
		if primaryStartTokens[p.PeekToken()] {
			if out.Value, err = p.ParsePrimaryExpr(); err != nil {
				return nil, err
			}
			out.StopPos = out.Value.End()
		}
		return out, nil
	}
	if castTypeTokens[tok] {
		// A type keyword in expression position must be a cast target.
		if p.PeekTokenN(1) != APOS_LPAREN {
			p.Advance()
			return nil, p.unexpected(TokenString(APOS_LPAREN))
		}
		p.Advance()
		dt := &DataType{NodeInfo: tokVal.node.NodeInfo}
		if tok == SIGNED || tok == UNSIGNED {
			dt.Signing = tokVal.node.Text
		} else {
			dt.Keyword = tokVal.node.Text
		}
		return &TypeExpr{ExprBase: ExprBase{NodeInfo: dt.NodeInfo}, Type: dt}, nil
	}
	return nil, p.unexpected("expression")
}

// parseParenthesized handles `(e)` and the mintypmax form `(a:b:c)`.
func (p *LLParser) parseParenthesized() (Expr, error) {
	open := p.peekedValue()
	p.Advance()
	first, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if p.PeekToken() == COLON {
		p.Advance()
		typ, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if _, _, err = p.AdvanceIf(COLON); err != nil {
			return nil, err
		}
		maxExpr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if _, _, err = p.AdvanceIf(RPAREN); err != nil {
			return nil, err
		}
		return &MinTypMaxExpr{ExprBase: ExprBase{NodeInfo: newNodeInfo(open.node.Pos(), p.lastEnd)}, Min: first, Typ: typ, Max: maxExpr}, nil
	}
	if _, _, err = p.AdvanceIf(RPAREN); err != nil {
		return nil, err
	}
	return first, nil
}

// parseBraced dispatches on the tokens after `{`: `}` is an empty queue,
// `<<`/`>>` a streaming concatenation, `expr {` a multiple concatenation and
// anything else a plain concatenation.
func (p *LLParser) parseBraced() (Expr, error) {
	open := p.peekedValue()
	p.Advance()
	switch p.PeekToken() {
	case RBRACE:
		p.Advance()
		return &EmptyQueueExpr{ExprBase: ExprBase{NodeInfo: newNodeInfo(open.node.Pos(), p.lastEnd)}}, nil
	case SHL, SHR:
		return p.parseStreaming(open)
	}

	first, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if p.PeekToken() == LBRACE {
		inner, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		if _, _, err = p.AdvanceIf(RBRACE); err != nil {
			return nil, err
		}
		return &ReplicateExpr{ExprBase: ExprBase{NodeInfo: newNodeInfo(open.node.Pos(), p.lastEnd)}, Count: first, Concat: inner}, nil
	}

	items := []Expr{first}
	for p.consumeIf(COMMA) {
		item, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if _, _, err = p.AdvanceIf(RBRACE); err != nil {
		return nil, err
	}
	return &ConcatExpr{ExprBase: ExprBase{NodeInfo: newNodeInfo(open.node.Pos(), p.lastEnd)}, Items: items}, nil
}

// parseConcat parses `{ e, ... }` starting at the brace.
func (p *LLParser) parseConcat() (*ConcatExpr, error) {
	_, open, err := p.AdvanceIf(LBRACE)
	if err != nil {
		return nil, err
	}
	items, err := p.parseExprList(RBRACE)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, p.unexpected("expression")
	}
	if _, _, err = p.AdvanceIf(RBRACE); err != nil {
		return nil, err
	}
	return &ConcatExpr{ExprBase: ExprBase{NodeInfo: newNodeInfo(open.node.Pos(), p.lastEnd)}, Items: items}, nil
}

// parseStreaming parses `<< [slice] {items}}` after the opening brace.
func (p *LLParser) parseStreaming(open *SVSymType) (Expr, error) {
	out := &StreamExpr{Operator: p.peekedText()}
	p.Advance()
	if p.PeekToken() != LBRACE {
		if castTypeTokens[p.PeekToken()] && p.PeekTokenN(1) != APOS_LPAREN {
			dt, err := p.ParseDataType()
			if err != nil {
				return nil, err
			}
			out.Slice = &TypeExpr{ExprBase: ExprBase{NodeInfo: dt.NodeInfo}, Type: dt}
		} else {
			slice, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			out.Slice = slice
		}
	}
	if _, _, err := p.AdvanceIf(LBRACE); err != nil {
		return nil, err
	}
	for {
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		item := &StreamItem{Expr: expr}
		if p.consumeIf(WITH) {
			if _, _, err = p.AdvanceIf(LBRACKET); err != nil {
				return nil, err
			}
			if item.With, err = p.ParseRangeSelector(); err != nil {
				return nil, err
			}
			if _, _, err = p.AdvanceIf(RBRACKET); err != nil {
				return nil, err
			}
		}
		out.Items = append(out.Items, item)
		if !p.consumeIf(COMMA) {
			break
		}
	}
	if _, _, err := p.AdvanceIf(RBRACE); err != nil {
		return nil, err
	}
	if _, _, err := p.AdvanceIf(RBRACE); err != nil {
		return nil, err
	}
	out.NodeInfo = newNodeInfo(open.node.Pos(), p.lastEnd)
	return out, nil
}

// parseExprList parses comma separated expressions up to (not including)
// the closing token. An immediately closing list is empty.
func (p *LLParser) parseExprList(closing int) (out []Expr, err error) {
	if p.PeekToken() == closing {
		return nil, nil
	}
	for {
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
		if !p.consumeIf(COMMA) {
			return out, nil
		}
	}
}

// ParseRangeSelector parses the contents of `[...]`; the token after the
// first expression picks the form.
func (p *LLParser) ParseRangeSelector() (*RangeSelector, error) {
	left, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	out := &RangeSelector{NodeInfo: newNodeInfo(left.Pos(), left.End()), Kind: decl.SelectPlain, Left: left}
	switch p.PeekToken() {
	case COLON:
		out.Kind = decl.SelectRange
	case PLUS_COLON:
		out.Kind = decl.SelectIndexUp
	case MINUS_COLON:
		out.Kind = decl.SelectIndexDown
	default:
		return out, nil
	}
	p.Advance()
	if out.Right, err = p.ParseExpression(); err != nil {
		return nil, err
	}
	out.StopPos = out.Right.End()
	return out, nil
}

// parseDimension parses one bracketed dimension `[sel]`.
func (p *LLParser) parseDimension() (*RangeSelector, error) {
	_, open, err := p.AdvanceIf(LBRACKET)
	if err != nil {
		return nil, err
	}
	sel, err := p.ParseRangeSelector()
	if err != nil {
		return nil, err
	}
	if _, _, err = p.AdvanceIf(RBRACKET); err != nil {
		return nil, err
	}
	sel.NodeInfo = newNodeInfo(open.node.Pos(), p.lastEnd)
	return sel, nil
}

func (p *LLParser) parseDimensions() (out []*RangeSelector, err error) {
	for p.PeekToken() == LBRACKET {
		dim, err := p.parseDimension()
		if err != nil {
			return nil, err
		}
		out = append(out, dim)
	}
	return out, nil
}

// parseInsideRanges parses `{ value_range, ... }` after `inside`.
func (p *LLParser) parseInsideRanges() (out []*RangeSelector, err error) {
	if _, _, err = p.AdvanceIf(LBRACE); err != nil {
		return nil, err
	}
	for {
		var item *RangeSelector
		if p.PeekToken() == LBRACKET {
			if item, err = p.parseDimension(); err != nil {
				return nil, err
			}
		} else {
			expr, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			item = &RangeSelector{NodeInfo: newNodeInfo(expr.Pos(), expr.End()), Kind: decl.SelectPlain, Left: expr}
		}
		out = append(out, item)
		if !p.consumeIf(COMMA) {
			break
		}
	}
	if _, _, err = p.AdvanceIf(RBRACE); err != nil {
		return nil, err
	}
	return out, nil
}

// ParsePattern parses the right side of `matches`.
func (p *LLParser) ParsePattern() (Expr, error) {
	tokVal := p.peekedValue()
	switch p.PeekToken() {
	case DOT:
		if p.PeekTokenN(1) == MUL {
			p.Advance()
			p.Advance()
			return &WildcardPattern{ExprBase: ExprBase{NodeInfo: newNodeInfo(tokVal.node.Pos(), p.lastEnd)}}, nil
		}
		p.Advance()
		name, err := p.ParseIdentifier()
		if err != nil {
			return nil, err
		}
		return &VariablePattern{ExprBase: exprNodeInfo(tokVal.node, name), Name: name}, nil
	case TAGGED:
		p.Advance()
		member, err := p.ParseIdentifier()
		if err != nil {
			return nil, err
		}
		out := &TaggedPattern{ExprBase: exprNodeInfo(tokVal.node, member), Member: member}
		if next := p.PeekToken(); next == DOT || primaryStartTokens[next] {
			if out.Inner, err = p.ParsePattern(); err != nil {
				return nil, err
			}
			out.StopPos = out.Inner.End()
		}
		return out, nil
	}
	return p.parseBinaryExpr(PrecEquality + 1)
}
