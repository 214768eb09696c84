package parser

// Associativity of a binary operator.
type Associativity int

const (
	AssocNone Associativity = iota
	AssocLeft
	AssocRight
)

type PrecedenceInfo struct {
	Precedence int
	Assoc      Associativity
}

// Precedencer maps binary operator tokens to their binding power. Tokens it
// does not know end a binary expression.
type Precedencer interface {
	PrecedenceFor(tok int) (PrecedenceInfo, bool)
}

// Binding powers, lowest first. The conditional operator sits below all of
// these and is handled separately since it is ternary.
const (
	PrecLogicalOr = iota + 1
	PrecLogicalAnd
	PrecBitOr
	PrecBitXor
	PrecBitAnd
	PrecEquality // also inside, matches, &&&
	PrecRelational
	PrecShift
	PrecAdditive
	PrecMultiplicative
	PrecPower
)

type tablePrecedencer map[int]PrecedenceInfo

func (t tablePrecedencer) PrecedenceFor(tok int) (PrecedenceInfo, bool) {
	info, ok := t[tok]
	return info, ok
}

// svPrecedencer is the operator table for expressions.
var svPrecedencer = tablePrecedencer{
	LOR:        {PrecLogicalOr, AssocLeft},
	LAND:       {PrecLogicalAnd, AssocLeft},
	OR:         {PrecBitOr, AssocLeft},
	XOR:        {PrecBitXor, AssocLeft},
	XNOR:       {PrecBitXor, AssocLeft},
	AND:        {PrecBitAnd, AssocLeft},
	EQ:         {PrecEquality, AssocLeft},
	NEQ:        {PrecEquality, AssocLeft},
	CASE_EQ:    {PrecEquality, AssocLeft},
	CASE_NEQ:   {PrecEquality, AssocLeft},
	WILD_EQ:    {PrecEquality, AssocLeft},
	WILD_NEQ:   {PrecEquality, AssocLeft},
	INSIDE:     {PrecEquality, AssocLeft},
	MATCHES:    {PrecEquality, AssocLeft},
	TRIPLE_AND: {PrecEquality, AssocLeft},
	LT:         {PrecRelational, AssocLeft},
	LTE:        {PrecRelational, AssocLeft},
	GT:         {PrecRelational, AssocLeft},
	GTE:        {PrecRelational, AssocLeft},
	SHL:        {PrecShift, AssocLeft},
	SHR:        {PrecShift, AssocLeft},
	ASHL:       {PrecShift, AssocLeft},
	ASHR:       {PrecShift, AssocLeft},
	PLUS:       {PrecAdditive, AssocLeft},
	MINUS:      {PrecAdditive, AssocLeft},
	MUL:        {PrecMultiplicative, AssocLeft},
	DIV:        {PrecMultiplicative, AssocLeft},
	MOD:        {PrecMultiplicative, AssocLeft},
	POW:        {PrecPower, AssocLeft},
}

// unaryOperators are the prefix operators other than ++ and --.
var unaryOperators = map[int]bool{
	PLUS: true, MINUS: true, NOT: true, TILDE: true,
	AND: true, NAND: true, OR: true, NOR: true, XOR: true, XNOR: true,
}
