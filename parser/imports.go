package parser

import "github.com/panyam/svlog/decl"

type Location = decl.Location
type NodeInfo = decl.NodeInfo
type Node = decl.Node
type TokenNode = decl.TokenNode
type File = decl.FileDecl

type Expr = decl.Expr
type ExprBase = decl.ExprBase
type LiteralExpr = decl.LiteralExpr
type IdentifierExpr = decl.IdentifierExpr
type TypeExpr = decl.TypeExpr
type UnaryExpr = decl.UnaryExpr
type BinaryExpr = decl.BinaryExpr
type TernaryExpr = decl.TernaryExpr
type IncDecExpr = decl.IncDecExpr
type AssignExpr = decl.AssignExpr
type MemberAccessExpr = decl.MemberAccessExpr
type ScopeAccessExpr = decl.ScopeAccessExpr
type CallExpr = decl.CallExpr
type IndexExpr = decl.IndexExpr
type CastExpr = decl.CastExpr
type ConcatExpr = decl.ConcatExpr
type ReplicateExpr = decl.ReplicateExpr
type EmptyQueueExpr = decl.EmptyQueueExpr
type StreamExpr = decl.StreamExpr
type StreamItem = decl.StreamItem
type MinTypMaxExpr = decl.MinTypMaxExpr
type TaggedExpr = decl.TaggedExpr
type InsideExpr = decl.InsideExpr
type MatchesExpr = decl.MatchesExpr
type WildcardPattern = decl.WildcardPattern
type VariablePattern = decl.VariablePattern
type TaggedPattern = decl.TaggedPattern
type RangeSelector = decl.RangeSelector

type DataType = decl.DataType
type ParamDecl = decl.ParamDecl
type ValueParamDecl = decl.ValueParamDecl
type TypeParamDecl = decl.TypeParamDecl
type ParamAssign = decl.ParamAssign
type PortDecl = decl.PortDecl
type PortRef = decl.PortRef
type RefGroupPort = decl.RefGroupPort
type DeclaredPort = decl.DeclaredPort
type ExplicitPort = decl.ExplicitPort
type InterfaceHeader = decl.InterfaceHeader
type PortConn = decl.PortConn

type ModuleDecl = decl.ModuleDecl
type ModuleItem = decl.ModuleItem
type IncludeDecl = decl.IncludeDecl
type DeclaredName = decl.DeclaredName
type PortDeclItem = decl.PortDeclItem
type DataDeclItem = decl.DataDeclItem
type ParamDeclItem = decl.ParamDeclItem
type ContAssignItem = decl.ContAssignItem
type InstantiationItem = decl.InstantiationItem
type Instance = decl.Instance
