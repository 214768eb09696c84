package parser

import (
	"github.com/panyam/svlog/decl"
)

// ParseModuleDecl parses a complete module, header through endmodule.
func (p *LLParser) ParseModuleDecl(out *ModuleDecl) (err error) {
	if err = p.ParseModuleHeader(out); err != nil {
		return err
	}
	for {
		switch p.PeekToken() {
		case ENDMODULE:
			p.Advance()
			if p.consumeIf(COLON) {
				if out.EndLabel, err = p.ParseIdentifier(); err != nil {
					return err
				}
			}
			out.StopPos = p.lastEnd
			return nil
		case SEMICOLON:
			p.Advance()
		case eof:
			_, err = p.Expect(ENDMODULE)
			return err
		default:
			item, err := p.ParseModuleItem()
			if err != nil {
				return err
			}
			out.Items = append(out.Items, item)
		}
	}
}

// ParseModuleHeader parses
//
//	module_keyword [lifetime] identifier [parameter_port_list] [port_list] ;
func (p *LLParser) ParseModuleHeader(out *ModuleDecl) (err error) {
	_, kw, err := p.AdvanceIf(MODULE, MACROMODULE)
	if err != nil {
		return err
	}
	out.Keyword = kw.node.Text
	out.StartPos = kw.node.Pos()
	if tok := p.PeekToken(); tok == AUTOMATIC || tok == STATIC {
		out.Lifetime = p.peekedText()
		p.Advance()
	}
	if out.NameNode, err = p.ParseIdentifier(); err != nil {
		return err
	}
	if p.PeekToken() == HASH {
		out.HasParamList = true
		if out.Params, err = p.ParseParamPortList(); err != nil {
			return err
		}
	}
	if p.PeekToken() == LPAREN {
		if out.Ports, err = p.ParsePortList(); err != nil {
			return err
		}
	}
	_, _, err = p.AdvanceIf(SEMICOLON)
	out.StopPos = p.lastEnd
	return err
}

// ParseParamPortList parses `#( param_decl {, param_decl} )`.
func (p *LLParser) ParseParamPortList() (out []ParamDecl, err error) {
	if _, _, err = p.AdvanceIf(HASH); err != nil {
		return nil, err
	}
	if _, _, err = p.AdvanceIf(LPAREN); err != nil {
		return nil, err
	}
	if p.consumeIf(RPAREN) {
		return nil, nil
	}
	var prev ParamDecl
	for {
		param, err := p.parseParamDecl(prev)
		if err != nil {
			return nil, err
		}
		out = append(out, param)
		prev = param
		if !p.consumeIf(COMMA) {
			break
		}
	}
	_, _, err = p.AdvanceIf(RPAREN)
	return out, err
}

// parseParamDecl parses one parameter declaration. Without a leading
// parameter/localparam keyword a bare name continues the kind and data type
// of the previous declaration.
func (p *LLParser) parseParamDecl(prev ParamDecl) (ParamDecl, error) {
	start := p.peekedValue().node.Pos()
	local, explicit := false, false
	switch p.PeekToken() {
	case PARAMETER:
		p.Advance()
		explicit = true
	case LOCALPARAM:
		p.Advance()
		local, explicit = true, true
	}
	if !explicit && prev != nil {
		local = prev.IsLocal()
	}
	if p.consumeIf(TYPE) {
		return p.parseTypeParamRest(start, local)
	}
	if !explicit && prev != nil && p.PeekToken() == IDENTIFIER && !p.startsDataType(0) {
		switch prevDecl := prev.(type) {
		case *TypeParamDecl:
			return p.parseTypeParamRest(start, local)
		case *ValueParamDecl:
			return p.parseValueParamRest(start, local, prevDecl.Type)
		}
	}
	var dt *DataType
	if p.startsDataType(0) {
		var err error
		if dt, err = p.ParseDataType(); err != nil {
			return nil, err
		}
	}
	return p.parseValueParamRest(start, local, dt)
}

func (p *LLParser) parseTypeParamRest(start Location, local bool) (ParamDecl, error) {
	name, err := p.ParseIdentifier()
	if err != nil {
		return nil, err
	}
	out := &TypeParamDecl{Local: local, Name: name}
	if p.consumeIf(ASSIGN) {
		if out.Default, err = p.ParseDataType(); err != nil {
			return nil, err
		}
	}
	out.NodeInfo = newNodeInfo(start, p.lastEnd)
	return out, nil
}

func (p *LLParser) parseValueParamRest(start Location, local bool, dt *DataType) (ParamDecl, error) {
	name, err := p.ParseIdentifier()
	if err != nil {
		return nil, err
	}
	out := &ValueParamDecl{Local: local, Type: dt, Name: name}
	if out.Dims, err = p.parseDimensions(); err != nil {
		return nil, err
	}
	if p.consumeIf(ASSIGN) {
		if out.Default, err = p.ParseExpression(); err != nil {
			return nil, err
		}
	}
	out.NodeInfo = newNodeInfo(start, p.lastEnd)
	return out, nil
}

// ParsePortList parses `( [port {, port}] )` in the unified form shared by
// ANSI and non-ANSI headers.
func (p *LLParser) ParsePortList() (out []PortDecl, err error) {
	if _, _, err = p.AdvanceIf(LPAREN); err != nil {
		return nil, err
	}
	if p.consumeIf(RPAREN) {
		return nil, nil
	}
	for {
		port, err := p.ParsePort()
		if err != nil {
			return nil, err
		}
		out = append(out, port)
		if !p.consumeIf(COMMA) {
			break
		}
	}
	_, _, err = p.AdvanceIf(RPAREN)
	return out, err
}

func (p *LLParser) parseDirection() decl.Direction {
	dir := decl.DirNone
	switch p.PeekToken() {
	case INPUT:
		dir = decl.DirInput
	case OUTPUT:
		dir = decl.DirOutput
	case INOUT:
		dir = decl.DirInout
	case REF:
		dir = decl.DirRef
	default:
		return dir
	}
	p.Advance()
	return dir
}

// ParsePort parses one port: a reference group, an explicit `.name(expr)`
// port or a declared port.
func (p *LLParser) ParsePort() (PortDecl, error) {
	start := p.peekedValue().node.Pos()
	if p.PeekToken() == LBRACE {
		return p.parseRefGroup()
	}
	dir := p.parseDirection()
	if p.consumeIf(DOT) {
		name, err := p.ParseIdentifier()
		if err != nil {
			return nil, err
		}
		out := &ExplicitPort{Direction: dir, Name: name}
		if _, _, err = p.AdvanceIf(LPAREN); err != nil {
			return nil, err
		}
		if p.PeekToken() != RPAREN {
			if out.Expr, err = p.ParseExpression(); err != nil {
				return nil, err
			}
		}
		if _, _, err = p.AdvanceIf(RPAREN); err != nil {
			return nil, err
		}
		out.NodeInfo = newNodeInfo(start, p.lastEnd)
		return out, nil
	}

	out := &DeclaredPort{Direction: dir}
	var err error
	switch p.PeekToken() {
	case NET_TYPE, VAR:
		out.Kind = p.peekedText()
		p.Advance()
		if p.startsDataType(0) {
			if out.Type, err = p.ParseDataType(); err != nil {
				return nil, err
			}
		}
	case INTERFACE:
		hdrVal := p.peekedValue()
		p.Advance()
		out.Interface = &InterfaceHeader{NodeInfo: hdrVal.node.NodeInfo, Name: "interface"}
		if err = p.parseModport(out.Interface); err != nil {
			return nil, err
		}
	case IDENTIFIER:
		if p.PeekTokenN(1) == DOT && p.PeekTokenN(2) == IDENTIFIER && p.PeekTokenN(3) == IDENTIFIER {
			intf, _ := p.ParseIdentifier()
			out.Interface = &InterfaceHeader{NodeInfo: intf.NodeInfo, Name: intf.Value}
			if err = p.parseModport(out.Interface); err != nil {
				return nil, err
			}
		} else if p.PeekTokenN(1) == IDENTIFIER {
			if out.Type, err = p.ParseDataType(); err != nil {
				return nil, err
			}
		}
	default:
		if p.startsDataType(0) {
			if out.Type, err = p.ParseDataType(); err != nil {
				return nil, err
			}
		}
	}
	if out.Name, err = p.ParseIdentifier(); err != nil {
		return nil, err
	}
	if out.Dims, err = p.parseDimensions(); err != nil {
		return nil, err
	}
	if p.consumeIf(ASSIGN) {
		if out.Default, err = p.ParseExpression(); err != nil {
			return nil, err
		}
	}
	out.NodeInfo = newNodeInfo(start, p.lastEnd)
	return out, nil
}

func (p *LLParser) parseModport(hdr *InterfaceHeader) error {
	if !p.consumeIf(DOT) {
		return nil
	}
	modport, err := p.ParseIdentifier()
	if err != nil {
		return err
	}
	hdr.Modport = modport.Value
	hdr.StopPos = modport.End()
	return nil
}

// parseRefGroup parses `{ ref {, ref} }`.
func (p *LLParser) parseRefGroup() (PortDecl, error) {
	_, open, err := p.AdvanceIf(LBRACE)
	if err != nil {
		return nil, err
	}
	out := &RefGroupPort{}
	for {
		ref, err := p.parsePortRef()
		if err != nil {
			return nil, err
		}
		out.Refs = append(out.Refs, ref)
		if !p.consumeIf(COMMA) {
			break
		}
	}
	if _, _, err = p.AdvanceIf(RBRACE); err != nil {
		return nil, err
	}
	out.NodeInfo = newNodeInfo(open.node.Pos(), p.lastEnd)
	return out, nil
}

func (p *LLParser) parsePortRef() (*PortRef, error) {
	name, err := p.ParseIdentifier()
	if err != nil {
		return nil, err
	}
	out := &PortRef{Name: name}
	if p.PeekToken() == LBRACKET {
		if out.Select, err = p.parseDimension(); err != nil {
			return nil, err
		}
	}
	out.NodeInfo = newNodeInfo(name.Pos(), p.lastEnd)
	return out, nil
}
