package parser

// startsDataType reports whether the token at offset n begins an explicit or
// implicit data type. A named type needs an identifier right after it.
func (p *LLParser) startsDataType(n int) bool {
	tok := p.PeekTokenN(n)
	if castTypeTokens[tok] || tok == LBRACKET {
		return true
	}
	return tok == IDENTIFIER && p.PeekTokenN(n+1) == IDENTIFIER
}

// ParseDataType parses a keyword, named or implicit data type with its
// signing and packed dimensions.
func (p *LLParser) ParseDataType() (*DataType, error) {
	tokVal := p.peekedValue()
	dt := &DataType{NodeInfo: tokVal.node.NodeInfo}
	switch p.PeekToken() {
	case BIT, LOGIC, REG, INT, INTEGER, BYTE, SHORTINT, LONGINT, VOID, STRING:
		p.Advance()
		dt.Keyword = tokVal.node.Text
	case IDENTIFIER:
		name, err := p.ParseIdentifier()
		if err != nil {
			return nil, err
		}
		dt.Name = name
	case SIGNED, UNSIGNED, LBRACKET:
		// implicit
	default:
		return nil, p.unexpected("data type")
	}
	if tok := p.PeekToken(); tok == SIGNED || tok == UNSIGNED {
		dt.Signing = p.peekedText()
		p.Advance()
	}
	packed, err := p.parseDimensions()
	if err != nil {
		return nil, err
	}
	dt.Packed = packed
	dt.StopPos = p.lastEnd
	return dt, nil
}

// parseParamValue parses an override value, which is a data type when it
// starts with a type keyword and an expression otherwise.
func (p *LLParser) parseParamValue() (Expr, error) {
	if castTypeTokens[p.PeekToken()] && p.PeekTokenN(1) != APOS_LPAREN {
		dt, err := p.ParseDataType()
		if err != nil {
			return nil, err
		}
		return &TypeExpr{ExprBase: ExprBase{NodeInfo: dt.NodeInfo}, Type: dt}, nil
	}
	return p.ParseExpression()
}
