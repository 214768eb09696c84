package parser

import (
	"github.com/panyam/svlog/decl"
)

// ParseModuleItem parses one module body item.
func (p *LLParser) ParseModuleItem() (ModuleItem, error) {
	tok := p.PeekToken()
	switch tok {
	case INPUT, OUTPUT, INOUT, REF:
		return p.parsePortDeclItem()
	case NET_TYPE, VAR:
		return p.parseDataDeclItem()
	case PARAMETER, LOCALPARAM:
		return p.parseParamDeclItem()
	case ASSIGN_KW:
		return p.parseContAssign()
	case IDENTIFIER:
		switch p.PeekTokenN(1) {
		case HASH:
			return p.ParseInstantiation()
		case IDENTIFIER:
			if p.PeekTokenN(2) == LPAREN {
				return p.ParseInstantiation()
			}
			return p.parseDataDeclItem()
		}
		p.Advance()
		return nil, p.unexpected(TokenString(HASH), TokenString(IDENTIFIER))
	}
	if castTypeTokens[tok] {
		return p.parseDataDeclItem()
	}
	return nil, p.unexpected("module item")
}

// parseDeclaredNames parses `name [dims] [= init] {, ...}`.
func (p *LLParser) parseDeclaredNames(allowInit bool) (out []*DeclaredName, err error) {
	for {
		name, err := p.ParseIdentifier()
		if err != nil {
			return nil, err
		}
		dn := &DeclaredName{Name: name}
		if dn.Dims, err = p.parseDimensions(); err != nil {
			return nil, err
		}
		if allowInit && p.consumeIf(ASSIGN) {
			if dn.Init, err = p.ParseExpression(); err != nil {
				return nil, err
			}
		}
		dn.NodeInfo = newNodeInfo(name.Pos(), p.lastEnd)
		out = append(out, dn)
		if !p.consumeIf(COMMA) {
			return out, nil
		}
	}
}

func (p *LLParser) parsePortDeclItem() (ModuleItem, error) {
	start := p.peekedValue().node.Pos()
	out := &PortDeclItem{Direction: p.parseDirection()}
	var err error
	if tok := p.PeekToken(); tok == NET_TYPE || tok == VAR {
		out.Kind = p.peekedText()
		p.Advance()
	}
	if p.startsDataType(0) {
		if out.Type, err = p.ParseDataType(); err != nil {
			return nil, err
		}
	}
	if out.Names, err = p.parseDeclaredNames(true); err != nil {
		return nil, err
	}
	if _, _, err = p.AdvanceIf(SEMICOLON); err != nil {
		return nil, err
	}
	out.NodeInfo = newNodeInfo(start, p.lastEnd)
	return out, nil
}

func (p *LLParser) parseDataDeclItem() (ModuleItem, error) {
	start := p.peekedValue().node.Pos()
	out := &DataDeclItem{}
	var err error
	if tok := p.PeekToken(); tok == NET_TYPE || tok == VAR {
		out.Kind = p.peekedText()
		p.Advance()
	}
	if p.startsDataType(0) {
		if out.Type, err = p.ParseDataType(); err != nil {
			return nil, err
		}
	}
	if out.Names, err = p.parseDeclaredNames(true); err != nil {
		return nil, err
	}
	if _, _, err = p.AdvanceIf(SEMICOLON); err != nil {
		return nil, err
	}
	out.NodeInfo = newNodeInfo(start, p.lastEnd)
	return out, nil
}

func (p *LLParser) parseParamDeclItem() (ModuleItem, error) {
	start := p.peekedValue().node.Pos()
	out := &ParamDeclItem{}
	var prev ParamDecl
	for {
		param, err := p.parseParamDecl(prev)
		if err != nil {
			return nil, err
		}
		out.Decls = append(out.Decls, param)
		prev = param
		if !p.consumeIf(COMMA) {
			break
		}
	}
	if _, _, err := p.AdvanceIf(SEMICOLON); err != nil {
		return nil, err
	}
	out.NodeInfo = newNodeInfo(start, p.lastEnd)
	return out, nil
}

func (p *LLParser) parseContAssign() (ModuleItem, error) {
	_, kw, err := p.AdvanceIf(ASSIGN_KW)
	if err != nil {
		return nil, err
	}
	out := &ContAssignItem{}
	for {
		tokVal := p.peekedValue()
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		assign, ok := expr.(*AssignExpr)
		if !ok || assign.Operator != "=" {
			return nil, p.fail(&ParseError{Pos: tokVal.node.Pos(), Expected: []string{"'='"}, Found: expr.String(),
				Msg: "expected net assignment 'lvalue = expression', found: " + expr.String()})
		}
		out.Assigns = append(out.Assigns, assign)
		if !p.consumeIf(COMMA) {
			break
		}
	}
	if _, _, err = p.AdvanceIf(SEMICOLON); err != nil {
		return nil, err
	}
	out.NodeInfo = newNodeInfo(kw.node.Pos(), p.lastEnd)
	return out, nil
}

// ParseInstantiation parses
//
//	Callee [#(overrides)] name (connections) {, name (connections)} ;
func (p *LLParser) ParseInstantiation() (*InstantiationItem, error) {
	callee, err := p.ParseIdentifier()
	if err != nil {
		return nil, err
	}
	out := &InstantiationItem{Callee: callee}
	if p.PeekToken() == HASH {
		out.HasParams = true
		if out.Params, err = p.ParseParamOverrides(); err != nil {
			return nil, err
		}
	}
	for {
		inst, err := p.parseInstance()
		if err != nil {
			return nil, err
		}
		out.Instances = append(out.Instances, inst)
		if !p.consumeIf(COMMA) {
			break
		}
	}
	if _, _, err = p.AdvanceIf(SEMICOLON); err != nil {
		return nil, err
	}
	out.NodeInfo = newNodeInfo(callee.Pos(), p.lastEnd)
	return out, nil
}

// ParseParamOverrides parses `#( [assign {, assign}] )` where each assign is
// positional or `.name([value])`.
func (p *LLParser) ParseParamOverrides() (out []*ParamAssign, err error) {
	if _, _, err = p.AdvanceIf(HASH); err != nil {
		return nil, err
	}
	if _, _, err = p.AdvanceIf(LPAREN); err != nil {
		return nil, err
	}
	if p.consumeIf(RPAREN) {
		return nil, nil
	}
	for {
		start := p.peekedValue().node.Pos()
		assign := &ParamAssign{}
		if p.consumeIf(DOT) {
			if assign.Name, err = p.ParseIdentifier(); err != nil {
				return nil, err
			}
			if _, _, err = p.AdvanceIf(LPAREN); err != nil {
				return nil, err
			}
			if p.PeekToken() != RPAREN {
				if assign.Value, err = p.parseParamValue(); err != nil {
					return nil, err
				}
			}
			if _, _, err = p.AdvanceIf(RPAREN); err != nil {
				return nil, err
			}
		} else if assign.Value, err = p.parseParamValue(); err != nil {
			return nil, err
		}
		assign.NodeInfo = newNodeInfo(start, p.lastEnd)
		out = append(out, assign)
		if !p.consumeIf(COMMA) {
			break
		}
	}
	_, _, err = p.AdvanceIf(RPAREN)
	return out, err
}

func (p *LLParser) parseInstance() (*Instance, error) {
	name, err := p.ParseIdentifier()
	if err != nil {
		return nil, err
	}
	out := &Instance{Name: name}
	if _, _, err = p.AdvanceIf(LPAREN); err != nil {
		return nil, err
	}
	if out.Conns, err = p.ParsePortConnections(); err != nil {
		return nil, err
	}
	if _, _, err = p.AdvanceIf(RPAREN); err != nil {
		return nil, err
	}
	out.NodeInfo = newNodeInfo(name.Pos(), p.lastEnd)
	return out, nil
}

// ParsePortConnections parses the connection list up to the closing paren.
func (p *LLParser) ParsePortConnections() (out []*PortConn, err error) {
	if p.PeekToken() == RPAREN {
		return nil, nil
	}
	for {
		start := p.peekedValue().node.Pos()
		conn := &PortConn{Kind: decl.ConnPositional}
		switch p.PeekToken() {
		case DOT:
			p.Advance()
			if p.consumeIf(MUL) {
				conn.Kind = decl.ConnWildcard
				break
			}
			if conn.Name, err = p.ParseIdentifier(); err != nil {
				return nil, err
			}
			conn.Kind = decl.ConnImplicit
			if p.consumeIf(LPAREN) {
				conn.Kind = decl.ConnNamed
				if p.PeekToken() != RPAREN {
					if conn.Expr, err = p.ParseExpression(); err != nil {
						return nil, err
					}
				}
				if _, _, err = p.AdvanceIf(RPAREN); err != nil {
					return nil, err
				}
			}
		case COMMA, RPAREN:
			// open positional connection
		default:
			if conn.Expr, err = p.ParseExpression(); err != nil {
				return nil, err
			}
		}
		conn.NodeInfo = newNodeInfo(start, p.lastEnd)
		out = append(out, conn)
		if !p.consumeIf(COMMA) {
			return out, nil
		}
	}
}
