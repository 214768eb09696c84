package decl

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode() // Marker method for expressions
	PrettyPrint(cp CodePrinter)
}

type ExprBase struct {
	NodeInfo
}

func (me *ExprBase) exprNode() {}

func joinExprs(exprs []Expr, sep string) string {
	return strings.Join(gfn.Map(exprs, func(e Expr) string {
		if e == nil {
			return ""
		}
		return e.String()
	}), sep)
}

func exprString(e Expr) string {
	if e == nil {
		return "nil"
	}
	return e.String()
}

// --- Leaves ---

type LiteralKind int

const (
	LitInt     LiteralKind = iota // 12, 8'hFF, 'b101
	LitUnbased                    // '0 '1 'x 'z
	LitReal
	LitString
	LitNull
)

// LiteralExpr keeps the literal's source text. Numbers are decoded on demand
// by ParseNumber.
type LiteralExpr struct {
	ExprBase
	Kind LiteralKind
	Text string
}

func (l *LiteralExpr) String() string { return l.Text }
func (l *LiteralExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(l.String())
}

// IdentifierExpr represents simple names, system names ($clog2) and `$`.
type IdentifierExpr struct {
	ExprBase
	Value string
}

func (i *IdentifierExpr) IsSystem() bool { return strings.HasPrefix(i.Value, "$") }
func (i *IdentifierExpr) String() string { return i.Value }
func (e *IdentifierExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// TypeExpr is a data type appearing where an expression is expected: cast
// targets, streaming slice sizes and type parameter overrides.
type TypeExpr struct {
	ExprBase
	Type *DataType
}

func (t *TypeExpr) String() string { return t.Type.String() }
func (t *TypeExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(t.String())
}

// --- Operators ---

// UnaryExpr represents `operator operand`
type UnaryExpr struct {
	ExprBase
	Operator string
	Right    Expr
}

func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s %s)", u.Operator, exprString(u.Right)) }
func (e *UnaryExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// BinaryExpr represents `left operator right`
type BinaryExpr struct {
	ExprBase
	Left     Expr
	Operator string
	Right    Expr
}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", exprString(b.Left), b.Operator, exprString(b.Right))
}
func (e *BinaryExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// TernaryExpr represents `cond ? then : else`
type TernaryExpr struct {
	ExprBase
	Cond Expr
	Then Expr
	Else Expr
}

func (t *TernaryExpr) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", exprString(t.Cond), exprString(t.Then), exprString(t.Else))
}
func (e *TernaryExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// IncDecExpr is `++x`, `x--` and friends.
type IncDecExpr struct {
	ExprBase
	Operator string
	Prefix   bool
	Operand  Expr
}

func (i *IncDecExpr) String() string {
	if i.Prefix {
		return fmt.Sprintf("(%s%s)", i.Operator, exprString(i.Operand))
	}
	return fmt.Sprintf("(%s%s)", exprString(i.Operand), i.Operator)
}
func (e *IncDecExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// AssignExpr is an operator assignment such as `a = b` or `a += 1`.
type AssignExpr struct {
	ExprBase
	Target   Expr
	Operator string
	Value    Expr
}

func (a *AssignExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", exprString(a.Target), a.Operator, exprString(a.Value))
}
func (e *AssignExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// --- Postfix forms ---

// MemberAccessExpr represents `receiver.member`
type MemberAccessExpr struct {
	ExprBase
	Receiver Expr
	Member   *IdentifierExpr
}

func (m *MemberAccessExpr) String() string {
	return fmt.Sprintf("%s.%s", exprString(m.Receiver), m.Member.Value)
}
func (e *MemberAccessExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// ScopeAccessExpr represents `scope::name`
type ScopeAccessExpr struct {
	ExprBase
	Scope Expr
	Name  *IdentifierExpr
}

func (s *ScopeAccessExpr) String() string {
	return fmt.Sprintf("%s::%s", exprString(s.Scope), s.Name.Value)
}
func (e *ScopeAccessExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// CallExpr represents `function(args...)`
type CallExpr struct {
	ExprBase
	Function Expr
	ArgList  []Expr
}

func (c *CallExpr) String() string {
	return fmt.Sprintf("%s(%s)", exprString(c.Function), joinExprs(c.ArgList, ", "))
}
func (e *CallExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// IndexExpr represents `target[select]`
type IndexExpr struct {
	ExprBase
	Target Expr
	Select *RangeSelector
}

func (i *IndexExpr) String() string {
	return fmt.Sprintf("%s[%s]", exprString(i.Target), i.Select.String())
}
func (e *IndexExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// CastExpr represents `target'(operand)`. Target is a TypeExpr for type
// keywords or any expression (a width, `signed`, a type parameter name).
type CastExpr struct {
	ExprBase
	Target  Expr
	Operand Expr
}

func (c *CastExpr) String() string {
	return fmt.Sprintf("%s'(%s)", exprString(c.Target), exprString(c.Operand))
}
func (e *CastExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// --- Braced forms ---

// ConcatExpr represents `{a, b, c}`
type ConcatExpr struct {
	ExprBase
	Items []Expr
}

func (c *ConcatExpr) String() string { return fmt.Sprintf("{%s}", joinExprs(c.Items, ", ")) }
func (e *ConcatExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// ReplicateExpr represents `{count {items}}`
type ReplicateExpr struct {
	ExprBase
	Count  Expr
	Concat *ConcatExpr
}

func (r *ReplicateExpr) String() string {
	return fmt.Sprintf("{%s %s}", exprString(r.Count), r.Concat.String())
}
func (e *ReplicateExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// EmptyQueueExpr represents `{}`
type EmptyQueueExpr struct {
	ExprBase
}

func (q *EmptyQueueExpr) String() string { return "{}" }
func (e *EmptyQueueExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// StreamItem is one operand of a streaming concatenation.
type StreamItem struct {
	Expr Expr
	With *RangeSelector
}

func (s *StreamItem) String() string {
	if s.With == nil {
		return exprString(s.Expr)
	}
	return fmt.Sprintf("%s with [%s]", exprString(s.Expr), s.With.String())
}

// StreamExpr represents `{<< slice {items}}` and `{>> ...}`
type StreamExpr struct {
	ExprBase
	Operator string
	Slice    Expr // nil when omitted
	Items    []*StreamItem
}

func (s *StreamExpr) String() string {
	items := strings.Join(gfn.Map(s.Items, func(i *StreamItem) string { return i.String() }), ", ")
	if s.Slice == nil {
		return fmt.Sprintf("{%s {%s}}", s.Operator, items)
	}
	return fmt.Sprintf("{%s %s {%s}}", s.Operator, s.Slice.String(), items)
}
func (e *StreamExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// MinTypMaxExpr represents `(min : typ : max)`
type MinTypMaxExpr struct {
	ExprBase
	Min Expr
	Typ Expr
	Max Expr
}

func (m *MinTypMaxExpr) String() string {
	return fmt.Sprintf("(%s : %s : %s)", exprString(m.Min), exprString(m.Typ), exprString(m.Max))
}
func (e *MinTypMaxExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// --- Keyword forms ---

// TaggedExpr represents `tagged Member [value]`
type TaggedExpr struct {
	ExprBase
	Member *IdentifierExpr
	Value  Expr
}

func (t *TaggedExpr) String() string {
	if t.Value == nil {
		return fmt.Sprintf("(tagged %s)", t.Member.Value)
	}
	return fmt.Sprintf("(tagged %s %s)", t.Member.Value, t.Value.String())
}
func (e *TaggedExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// InsideExpr represents `operand inside {ranges}`. Each range is either a
// plain value or a `lo:hi` range.
type InsideExpr struct {
	ExprBase
	Operand Expr
	Ranges  []*RangeSelector
}

func (i *InsideExpr) String() string {
	items := strings.Join(gfn.Map(i.Ranges, func(r *RangeSelector) string {
		if r.Kind == SelectRange {
			return "[" + r.String() + "]"
		}
		return r.String()
	}), ", ")
	return fmt.Sprintf("(%s inside {%s})", exprString(i.Operand), items)
}
func (e *InsideExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// MatchesExpr represents `operand matches pattern`
type MatchesExpr struct {
	ExprBase
	Operand Expr
	Pattern Expr
}

func (m *MatchesExpr) String() string {
	return fmt.Sprintf("(%s matches %s)", exprString(m.Operand), exprString(m.Pattern))
}
func (e *MatchesExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// --- Patterns ---

// WildcardPattern is `.*`
type WildcardPattern struct {
	ExprBase
}

func (w *WildcardPattern) String() string { return ".*" }
func (e *WildcardPattern) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// VariablePattern is `.name`
type VariablePattern struct {
	ExprBase
	Name *IdentifierExpr
}

func (v *VariablePattern) String() string { return "." + v.Name.Value }
func (e *VariablePattern) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// TaggedPattern is `tagged Member [pattern]`
type TaggedPattern struct {
	ExprBase
	Member *IdentifierExpr
	Inner  Expr
}

func (t *TaggedPattern) String() string {
	if t.Inner == nil {
		return fmt.Sprintf("(tagged %s)", t.Member.Value)
	}
	return fmt.Sprintf("(tagged %s %s)", t.Member.Value, t.Inner.String())
}
func (e *TaggedPattern) PrettyPrint(cp CodePrinter) {
	cp.Print(e.String())
}

// --- Selectors ---

type SelectKind int

const (
	SelectPlain     SelectKind = iota // [e]
	SelectRange                       // [l:r]
	SelectIndexUp                     // [b+:w]
	SelectIndexDown                   // [b-:w]
)

// RangeSelector is the contents of a bracketed select or dimension.
type RangeSelector struct {
	NodeInfo
	Kind  SelectKind
	Left  Expr
	Right Expr // nil for SelectPlain
}

func (r *RangeSelector) String() string {
	switch r.Kind {
	case SelectRange:
		return fmt.Sprintf("%s:%s", exprString(r.Left), exprString(r.Right))
	case SelectIndexUp:
		return fmt.Sprintf("%s+:%s", exprString(r.Left), exprString(r.Right))
	case SelectIndexDown:
		return fmt.Sprintf("%s-:%s", exprString(r.Left), exprString(r.Right))
	}
	return exprString(r.Left)
}

func dimsString(dims []*RangeSelector) string {
	var sb strings.Builder
	for _, d := range dims {
		sb.WriteString("[")
		sb.WriteString(d.String())
		sb.WriteString("]")
	}
	return sb.String()
}
