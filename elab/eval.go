package elab

import (
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/panyam/svlog/decl"
)

// Eval folds a constant expression using the parameters bound in s.
func (s *Scope) Eval(e decl.Expr) (decl.Value, error) {
	v, err := s.eval(e)
	if err != nil {
		return decl.Value{}, s.own(err)
	}
	return v, nil
}

// EvalInt folds e and requires an integral result.
func (s *Scope) EvalInt(e decl.Expr) (int64, error) {
	v, err := s.Eval(e)
	if err != nil {
		return 0, err
	}
	if v.Kind != decl.ValueInt {
		return 0, s.own(Errorf(ConstEval, e.Pos(), "%s is not an integral constant", e.String()))
	}
	if v.Unbased {
		v = v.Cast(1, false)
	}
	return v.Int, nil
}

func notConstant(e decl.Expr) *Error {
	return Errorf(ConstEval, e.Pos(), "%s is not a constant expression", e.String())
}

func (s *Scope) eval(e decl.Expr) (decl.Value, error) {
	switch x := e.(type) {
	case *decl.LiteralExpr:
		return evalLiteral(x)
	case *decl.IdentifierExpr:
		return s.evalIdentifier(x)
	case *decl.UnaryExpr:
		v, err := s.eval(x.Right)
		if err != nil {
			return v, err
		}
		return unaryOp(x.Operator, x.Pos(), v)
	case *decl.BinaryExpr:
		return s.evalBinary(x)
	case *decl.TernaryExpr:
		c, err := s.eval(x.Cond)
		if err != nil {
			return c, err
		}
		if c.IsTrue() {
			return s.eval(x.Then)
		}
		return s.eval(x.Else)
	case *decl.ConcatExpr:
		return s.evalConcat(x)
	case *decl.ReplicateExpr:
		return s.evalReplicate(x)
	case *decl.CallExpr:
		return s.evalCall(x)
	case *decl.CastExpr:
		return s.evalCast(x)
	case *decl.MinTypMaxExpr:
		return s.eval(x.Typ)
	case *decl.InsideExpr:
		return s.evalInside(x)
	case *decl.TypeExpr:
		return decl.Value{}, Errorf(KindMismatch, x.Pos(), "type %s used where a value is expected", x.Type.String())
	}
	return decl.Value{}, notConstant(e)
}

func evalLiteral(l *decl.LiteralExpr) (decl.Value, error) {
	switch l.Kind {
	case decl.LitInt, decl.LitUnbased:
		v, err := decl.ParseNumber(l.Text)
		if err != nil {
			return v, Errorf(ConstEval, l.Pos(), "%s", err.Error())
		}
		return v, nil
	case decl.LitReal:
		f, err := strconv.ParseFloat(strings.ReplaceAll(l.Text, "_", ""), 64)
		if err != nil {
			return decl.Value{}, Errorf(ConstEval, l.Pos(), "invalid real literal %s", l.Text)
		}
		return decl.RealValue(f), nil
	case decl.LitString:
		str, err := strconv.Unquote(l.Text)
		if err != nil {
			str = l.Text
		}
		return decl.StringValue(str), nil
	}
	return decl.Value{}, notConstant(l)
}

func (s *Scope) evalIdentifier(id *decl.IdentifierExpr) (decl.Value, error) {
	if pv, ok := s.Lookup(id.Value); ok {
		if pv.IsType() {
			return decl.Value{}, Errorf(KindMismatch, id.Pos(), "type parameter %s used where a value is expected", id.Value)
		}
		return *pv.Value, nil
	}
	if _, ok := s.pendingDecl(id.Value); ok {
		return decl.Value{}, s.forwardRef(id)
	}
	if id.IsSystem() {
		return decl.Value{}, notConstant(id)
	}
	return decl.Value{}, Errorf(UnknownName, id.Pos(), "unknown name %s", id.Value)
}

func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<uint(width) - 1
}

// selfSized gives unbased fill literals their self-determined width.
func selfSized(v decl.Value) decl.Value {
	if v.Unbased {
		return v.Cast(1, false)
	}
	return v
}

func unaryOp(op string, pos decl.Location, v decl.Value) (decl.Value, error) {
	switch v.Kind {
	case decl.ValueReal:
		switch op {
		case "+":
			return v, nil
		case "-":
			return decl.RealValue(-v.Real), nil
		case "!":
			return decl.BoolValue(v.Real == 0), nil
		}
		return decl.Value{}, Errorf(ConstEval, pos, "operator %s is not defined on reals", op)
	case decl.ValueString:
		return decl.Value{}, Errorf(ConstEval, pos, "operator %s is not defined on strings", op)
	}
	v = selfSized(v)
	switch op {
	case "+":
		return v, nil
	case "-":
		return decl.IntValue(-v.Int, v.Width, v.Signed), nil
	case "~":
		return decl.IntValue(^v.Int, v.Width, v.Signed), nil
	case "!":
		return decl.BoolValue(v.Int == 0), nil
	case "&":
		return decl.BoolValue(v.Uint() == mask(v.Width)), nil
	case "~&":
		return decl.BoolValue(v.Uint() != mask(v.Width)), nil
	case "|":
		return decl.BoolValue(v.Uint() != 0), nil
	case "~|":
		return decl.BoolValue(v.Uint() == 0), nil
	case "^":
		return decl.BoolValue(bits.OnesCount64(v.Uint())%2 == 1), nil
	case "~^", "^~":
		return decl.BoolValue(bits.OnesCount64(v.Uint())%2 == 0), nil
	}
	return decl.Value{}, Errorf(ConstEval, pos, "operator %s cannot be folded", op)
}

func (s *Scope) evalBinary(b *decl.BinaryExpr) (decl.Value, error) {
	l, err := s.eval(b.Left)
	if err != nil {
		return l, err
	}
	switch b.Operator {
	case "&&":
		if l.Kind != decl.ValueString && !l.IsTrue() {
			return decl.BoolValue(false), nil
		}
	case "||":
		if l.Kind != decl.ValueString && l.IsTrue() {
			return decl.BoolValue(true), nil
		}
	}
	r, err := s.eval(b.Right)
	if err != nil {
		return r, err
	}
	return binaryOp(b.Operator, b.Pos(), l, r)
}

func toReal(v decl.Value) float64 {
	if v.Kind == decl.ValueReal {
		return v.Real
	}
	if !v.Signed && v.Width >= 64 {
		return float64(uint64(v.Int))
	}
	return float64(v.Int)
}

// unify brings two integral operands to their common width and signedness.
func unify(l, r decl.Value) (decl.Value, decl.Value, int, bool) {
	switch {
	case l.Unbased && !r.Unbased:
		l = l.Cast(r.Width, false)
	case r.Unbased && !l.Unbased:
		r = r.Cast(l.Width, false)
	case l.Unbased && r.Unbased:
		l, r = l.Cast(1, false), r.Cast(1, false)
	}
	w := max(l.Width, r.Width)
	signed := l.Signed && r.Signed
	return l.Cast(w, signed), r.Cast(w, signed), w, signed
}

func binaryOp(op string, pos decl.Location, l, r decl.Value) (decl.Value, error) {
	if l.Kind == decl.ValueString || r.Kind == decl.ValueString {
		if l.Kind != r.Kind {
			return decl.Value{}, Errorf(ConstEval, pos, "operator %s mixes a string and a number", op)
		}
		switch op {
		case "==", "===":
			return decl.BoolValue(l.Str == r.Str), nil
		case "!=", "!==":
			return decl.BoolValue(l.Str != r.Str), nil
		case "<":
			return decl.BoolValue(l.Str < r.Str), nil
		case ">":
			return decl.BoolValue(l.Str > r.Str), nil
		}
		return decl.Value{}, Errorf(ConstEval, pos, "operator %s is not defined on strings", op)
	}
	if l.Kind == decl.ValueReal || r.Kind == decl.ValueReal {
		return realOp(op, pos, toReal(l), toReal(r))
	}

	switch op {
	case "&&":
		return decl.BoolValue(l.IsTrue() && r.IsTrue()), nil
	case "||":
		return decl.BoolValue(l.IsTrue() || r.IsTrue()), nil
	case "->":
		return decl.BoolValue(!l.IsTrue() || r.IsTrue()), nil
	case "<->":
		return decl.BoolValue(l.IsTrue() == r.IsTrue()), nil
	case "<<", "<<<", ">>", ">>>":
		return shiftOp(op, selfSized(l), selfSized(r).Uint()), nil
	}

	a, c, w, signed := unify(l, r)
	switch op {
	case "+":
		return decl.IntValue(a.Int+c.Int, w, signed), nil
	case "-":
		return decl.IntValue(a.Int-c.Int, w, signed), nil
	case "*":
		return decl.IntValue(a.Int*c.Int, w, signed), nil
	case "/", "%":
		if c.Int == 0 {
			return decl.Value{}, Errorf(ConstEval, pos, "division by zero")
		}
		if signed {
			if op == "/" {
				return decl.IntValue(a.Int/c.Int, w, signed), nil
			}
			return decl.IntValue(a.Int%c.Int, w, signed), nil
		}
		if op == "/" {
			return decl.IntValue(int64(a.Uint()/c.Uint()), w, signed), nil
		}
		return decl.IntValue(int64(a.Uint()%c.Uint()), w, signed), nil
	case "**":
		return powOp(pos, a, c, w, signed)
	case "&":
		return decl.IntValue(a.Int&c.Int, w, signed), nil
	case "|":
		return decl.IntValue(a.Int|c.Int, w, signed), nil
	case "^":
		return decl.IntValue(a.Int^c.Int, w, signed), nil
	case "~^", "^~":
		return decl.IntValue(^(a.Int ^ c.Int), w, signed), nil
	case "==", "===", "==?":
		return decl.BoolValue(a.Int == c.Int), nil
	case "!=", "!==", "!=?":
		return decl.BoolValue(a.Int != c.Int), nil
	case "<", "<=", ">", ">=":
		cmp := compareInts(a, c, signed)
		switch op {
		case "<":
			return decl.BoolValue(cmp < 0), nil
		case "<=":
			return decl.BoolValue(cmp <= 0), nil
		case ">":
			return decl.BoolValue(cmp > 0), nil
		}
		return decl.BoolValue(cmp >= 0), nil
	}
	return decl.Value{}, Errorf(ConstEval, pos, "operator %s cannot be folded", op)
}

func compareInts(a, c decl.Value, signed bool) int {
	if signed {
		switch {
		case a.Int < c.Int:
			return -1
		case a.Int > c.Int:
			return 1
		}
		return 0
	}
	switch {
	case a.Uint() < c.Uint():
		return -1
	case a.Uint() > c.Uint():
		return 1
	}
	return 0
}

func shiftOp(op string, l decl.Value, amount uint64) decl.Value {
	switch op {
	case "<<", "<<<":
		if amount >= 64 {
			return decl.IntValue(0, l.Width, l.Signed)
		}
		return decl.IntValue(l.Int<<amount, l.Width, l.Signed)
	case ">>>":
		if l.Signed {
			if amount >= 63 {
				return decl.IntValue(l.Int>>63, l.Width, l.Signed)
			}
			return decl.IntValue(l.Int>>amount, l.Width, l.Signed)
		}
	}
	if amount >= 64 {
		return decl.IntValue(0, l.Width, l.Signed)
	}
	return decl.IntValue(int64(l.Uint()>>amount), l.Width, l.Signed)
}

func powOp(pos decl.Location, a, c decl.Value, w int, signed bool) (decl.Value, error) {
	if signed && c.Int < 0 {
		switch a.Int {
		case 0:
			return decl.Value{}, Errorf(ConstEval, pos, "zero raised to a negative power")
		case 1:
			return decl.IntValue(1, w, signed), nil
		case -1:
			if c.Int%2 == 0 {
				return decl.IntValue(1, w, signed), nil
			}
			return decl.IntValue(-1, w, signed), nil
		}
		return decl.IntValue(0, w, signed), nil
	}
	base, exp, result := uint64(a.Int), c.Uint(), uint64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return decl.IntValue(int64(result), w, signed), nil
}

func realOp(op string, pos decl.Location, a, b float64) (decl.Value, error) {
	switch op {
	case "+":
		return decl.RealValue(a + b), nil
	case "-":
		return decl.RealValue(a - b), nil
	case "*":
		return decl.RealValue(a * b), nil
	case "/":
		if b == 0 {
			return decl.Value{}, Errorf(ConstEval, pos, "division by zero")
		}
		return decl.RealValue(a / b), nil
	case "**":
		return decl.RealValue(math.Pow(a, b)), nil
	case "==":
		return decl.BoolValue(a == b), nil
	case "!=":
		return decl.BoolValue(a != b), nil
	case "<":
		return decl.BoolValue(a < b), nil
	case "<=":
		return decl.BoolValue(a <= b), nil
	case ">":
		return decl.BoolValue(a > b), nil
	case ">=":
		return decl.BoolValue(a >= b), nil
	case "&&":
		return decl.BoolValue(a != 0 && b != 0), nil
	case "||":
		return decl.BoolValue(a != 0 || b != 0), nil
	}
	return decl.Value{}, Errorf(ConstEval, pos, "operator %s is not defined on reals", op)
}

func (s *Scope) evalConcat(c *decl.ConcatExpr) (decl.Value, error) {
	vals := make([]decl.Value, 0, len(c.Items))
	strs := 0
	for _, item := range c.Items {
		v, err := s.eval(item)
		if err != nil {
			return v, err
		}
		if v.Kind == decl.ValueReal {
			return decl.Value{}, Errorf(ConstEval, item.Pos(), "real value %s in concatenation", item.String())
		}
		if v.Kind == decl.ValueString {
			strs++
		}
		vals = append(vals, v)
	}
	if strs > 0 {
		if strs != len(vals) {
			return decl.Value{}, Errorf(ConstEval, c.Pos(), "concatenation mixes strings and numbers")
		}
		var sb strings.Builder
		for _, v := range vals {
			sb.WriteString(v.Str)
		}
		return decl.StringValue(sb.String()), nil
	}
	width := 0
	var acc uint64
	for i, v := range vals {
		if v.Unbased {
			return decl.Value{}, Errorf(ConstEval, c.Items[i].Pos(), "unsized constant %s in concatenation", c.Items[i].String())
		}
		width += v.Width
		if width > decl.MaxConstWidth {
			return decl.Value{}, Errorf(ConstEval, c.Pos(), "concatenation is wider than %d bits", decl.MaxConstWidth)
		}
		if v.Width >= 64 {
			acc = v.Uint()
		} else {
			acc = acc<<uint(v.Width) | v.Uint()
		}
	}
	if width == 0 {
		return decl.Value{}, Errorf(ConstEval, c.Pos(), "empty concatenation")
	}
	return decl.IntValue(int64(acc), width, false), nil
}

func (s *Scope) evalReplicate(r *decl.ReplicateExpr) (decl.Value, error) {
	n, err := s.EvalInt(r.Count)
	if err != nil {
		return decl.Value{}, err
	}
	if n <= 0 {
		return decl.Value{}, Errorf(ConstEval, r.Count.Pos(), "replication count %d must be positive", n)
	}
	inner, err := s.evalConcat(r.Concat)
	if err != nil {
		return inner, err
	}
	if inner.Kind == decl.ValueString {
		return decl.StringValue(strings.Repeat(inner.Str, int(n))), nil
	}
	if inner.Width <= 0 || n > int64(decl.MaxConstWidth/inner.Width) {
		return decl.Value{}, Errorf(ConstEval, r.Pos(), "replication is wider than %d bits", decl.MaxConstWidth)
	}
	var acc uint64
	for i := int64(0); i < n; i++ {
		if inner.Width >= 64 {
			acc = inner.Uint()
		} else {
			acc = acc<<uint(inner.Width) | inner.Uint()
		}
	}
	return decl.IntValue(int64(acc), inner.Width*int(n), false), nil
}

func clog2(n uint64) int64 {
	if n <= 1 {
		return 0
	}
	return int64(bits.Len64(n - 1))
}

func (s *Scope) evalCall(c *decl.CallExpr) (decl.Value, error) {
	id, ok := c.Function.(*decl.IdentifierExpr)
	if !ok || !id.IsSystem() {
		return decl.Value{}, notConstant(c)
	}
	if len(c.ArgList) != 1 {
		return decl.Value{}, Errorf(ConstEval, c.Pos(), "%s takes one argument, got %d", id.Value, len(c.ArgList))
	}
	arg := c.ArgList[0]
	if id.Value == "$bits" {
		t, isType, err := s.TypeOf(arg)
		if err != nil {
			return decl.Value{}, err
		}
		if isType {
			n, err := typeBits(t, arg.Pos())
			return decl.IntValue(int64(n), 32, true), err
		}
	}
	v, err := s.eval(arg)
	if err != nil {
		return v, err
	}
	switch id.Value {
	case "$clog2":
		if v.Kind != decl.ValueInt {
			return decl.Value{}, Errorf(ConstEval, arg.Pos(), "$clog2 needs an integral argument")
		}
		return decl.IntValue(clog2(selfSized(v).Uint()), 32, true), nil
	case "$bits":
		switch v.Kind {
		case decl.ValueString:
			return decl.IntValue(int64(8*len(v.Str)), 32, true), nil
		case decl.ValueReal:
			return decl.IntValue(64, 32, true), nil
		}
		return decl.IntValue(int64(selfSized(v).Width), 32, true), nil
	case "$signed", "$unsigned":
		if v.Kind != decl.ValueInt {
			return decl.Value{}, Errorf(ConstEval, arg.Pos(), "%s needs an integral argument", id.Value)
		}
		v = selfSized(v)
		return v.Cast(v.Width, id.Value == "$signed"), nil
	}
	return decl.Value{}, Errorf(ConstEval, c.Pos(), "system function %s cannot be folded", id.Value)
}

func typeBits(t *decl.Type, pos decl.Location) (int, error) {
	switch {
	case t.IsIntegral():
		return t.Width, nil
	case t.Tag == decl.TypeTagArray:
		n, err := typeBits(t.Elem, pos)
		return n * t.Len, err
	}
	return 0, Errorf(ConstEval, pos, "$bits is not defined for %s", t.String())
}

func (s *Scope) evalCast(c *decl.CastExpr) (decl.Value, error) {
	v, err := s.eval(c.Operand)
	if err != nil {
		return v, err
	}
	if te, ok := c.Target.(*decl.TypeExpr); ok && te.Type.IsImplicit() && len(te.Type.Packed) == 0 {
		// signed'(x) and unsigned'(x) keep the width.
		if v.Kind != decl.ValueInt {
			return decl.Value{}, Errorf(ConstEval, c.Pos(), "%s needs an integral operand", c.String())
		}
		v = selfSized(v)
		return v.Cast(v.Width, te.Type.Signing == "signed"), nil
	}
	t, isType, err := s.TypeOf(c.Target)
	if err != nil {
		return decl.Value{}, err
	}
	if isType {
		switch {
		case t.IsIntegral() && v.Kind != decl.ValueString:
			return v.Cast(t.Width, t.Signed), nil
		case t.Tag == decl.TypeTagString && v.Kind == decl.ValueString:
			return v, nil
		}
		return decl.Value{}, Errorf(ConstEval, c.Pos(), "cannot cast %s to %s", c.Operand.String(), t.String())
	}
	w, err := s.EvalInt(c.Target)
	if err != nil {
		return decl.Value{}, err
	}
	if w <= 0 || w > decl.MaxConstWidth {
		return decl.Value{}, Errorf(ConstEval, c.Target.Pos(), "cast width %d is out of range", w)
	}
	if v.Kind != decl.ValueInt {
		return decl.Value{}, Errorf(ConstEval, c.Pos(), "%s needs an integral operand", c.String())
	}
	return v.Cast(int(w), !v.Unbased && v.Signed), nil
}

func (s *Scope) evalInside(x *decl.InsideExpr) (decl.Value, error) {
	v, err := s.eval(x.Operand)
	if err != nil {
		return v, err
	}
	for _, sel := range x.Ranges {
		switch sel.Kind {
		case decl.SelectPlain:
			item, err := s.eval(sel.Left)
			if err != nil {
				return item, err
			}
			eq, err := binaryOp("==", sel.Pos(), v, item)
			if err != nil {
				return eq, err
			}
			if eq.IsTrue() {
				return decl.BoolValue(true), nil
			}
		case decl.SelectRange:
			lo, err := s.eval(sel.Left)
			if err != nil {
				return lo, err
			}
			hi, err := s.eval(sel.Right)
			if err != nil {
				return hi, err
			}
			ge, err := binaryOp(">=", sel.Pos(), v, lo)
			if err != nil {
				return ge, err
			}
			le, err := binaryOp("<=", sel.Pos(), v, hi)
			if err != nil {
				return le, err
			}
			if ge.IsTrue() && le.IsTrue() {
				return decl.BoolValue(true), nil
			}
		default:
			return decl.Value{}, Errorf(ConstEval, sel.Pos(), "indexed range in inside list")
		}
	}
	return decl.BoolValue(false), nil
}
