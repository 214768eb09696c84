package parser

// Helper to combine position info
func newNodeInfo(start, end Location) NodeInfo {
	return NodeInfo{StartPos: start, StopPos: end}
}

// Helper to create NodeInfo from a token's SVSymType value.
func newNodeInfoFromToken(tokenValue *SVSymType) NodeInfo {
	if tokenValue == nil || tokenValue.node == nil {
		return NodeInfo{}
	}
	return NodeInfo{StartPos: tokenValue.node.Pos(), StopPos: tokenValue.node.End()}
}

// Helper to create NodeInfo spanning from a start Node to an end Node.
func newNodeInfoFromStartEndNode(startNode Node, endNode Node) NodeInfo {
	if startNode == nil || endNode == nil {
		return NodeInfo{}
	}
	return NodeInfo{StartPos: startNode.Pos(), StopPos: endNode.End()}
}

// Helper function to create an IdentifierExpr node
func newIdentifierExpr(name string, start, end Location) *IdentifierExpr {
	return &IdentifierExpr{
		ExprBase: ExprBase{NodeInfo: newNodeInfo(start, end)},
		Value:    name,
	}
}

func exprNodeInfo(start Node, end Node) ExprBase {
	return ExprBase{NodeInfo: newNodeInfoFromStartEndNode(start, end)}
}
