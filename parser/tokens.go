package parser

import "fmt"

// Ensure EOF is defined
const eof = 0

// Token kinds.
const (
	ILLEGAL = iota + 1

	// Literals and names
	IDENTIFIER
	SYSTEM_IDENTIFIER
	INT_LITERAL
	UNBASED_LITERAL
	REAL_LITERAL
	STRING_LITERAL
	INCLUDE_DIRECTIVE

	// Keywords
	MODULE
	MACROMODULE
	ENDMODULE
	AUTOMATIC
	STATIC
	PARAMETER
	LOCALPARAM
	TYPE
	INPUT
	OUTPUT
	INOUT
	REF
	VAR
	INTERFACE
	ASSIGN_KW
	SIGNED
	UNSIGNED
	BIT
	LOGIC
	REG
	INT
	INTEGER
	BYTE
	SHORTINT
	LONGINT
	VOID
	STRING
	NET_TYPE // wire, tri, wand, ... (text carries the kind)
	INSIDE
	MATCHES
	TAGGED
	WITH
	NULL
	THIS

	// Punctuation
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	COMMA
	SEMICOLON
	COLON
	DOT
	SCOPE
	HASH
	QUESTION
	APOS_LPAREN
	APOS_LBRACE
	PLUS_COLON
	MINUS_COLON
	ARROW

	// Operators
	PLUS
	MINUS
	MUL
	DIV
	MOD
	POW
	LT
	LTE
	GT
	GTE
	EQ
	NEQ
	CASE_EQ
	CASE_NEQ
	WILD_EQ
	WILD_NEQ
	LAND
	LOR
	TRIPLE_AND
	AND
	OR
	XOR
	XNOR
	NAND
	NOR
	TILDE
	NOT
	SHL
	SHR
	ASHL
	ASHR
	INC
	DEC
	ASSIGN
	ASSIGN_OP // compound assignment, text carries the operator

	lastToken
)

var tokenNames = map[int]string{
	eof:               "EOF",
	ILLEGAL:           "ILLEGAL",
	IDENTIFIER:        "IDENTIFIER",
	SYSTEM_IDENTIFIER: "SYSTEM_IDENTIFIER",
	INT_LITERAL:       "INT_LITERAL",
	UNBASED_LITERAL:   "UNBASED_LITERAL",
	REAL_LITERAL:      "REAL_LITERAL",
	STRING_LITERAL:    "STRING_LITERAL",
	INCLUDE_DIRECTIVE: "`include",
	NET_TYPE:          "NET_TYPE",
	ASSIGN_OP:         "ASSIGN_OP",
	APOS_LPAREN:       `"'("`,
	APOS_LBRACE:       `"'{"`,
}

// keywords maps reserved words to their token kinds.
var keywords = map[string]int{
	"module":      MODULE,
	"macromodule": MACROMODULE,
	"endmodule":   ENDMODULE,
	"automatic":   AUTOMATIC,
	"static":      STATIC,
	"parameter":   PARAMETER,
	"localparam":  LOCALPARAM,
	"type":        TYPE,
	"input":       INPUT,
	"output":      OUTPUT,
	"inout":       INOUT,
	"ref":         REF,
	"var":         VAR,
	"interface":   INTERFACE,
	"assign":      ASSIGN_KW,
	"signed":      SIGNED,
	"unsigned":    UNSIGNED,
	"bit":         BIT,
	"logic":       LOGIC,
	"reg":         REG,
	"int":         INT,
	"integer":     INTEGER,
	"byte":        BYTE,
	"shortint":    SHORTINT,
	"longint":     LONGINT,
	"void":        VOID,
	"string":      STRING,
	"inside":      INSIDE,
	"matches":     MATCHES,
	"tagged":      TAGGED,
	"with":        WITH,
	"null":        NULL,
	"this":        THIS,
	"wire":        NET_TYPE,
	"tri":         NET_TYPE,
	"wand":        NET_TYPE,
	"wor":         NET_TYPE,
	"triand":      NET_TYPE,
	"trior":       NET_TYPE,
	"tri0":        NET_TYPE,
	"tri1":        NET_TYPE,
	"trireg":      NET_TYPE,
	"supply0":     NET_TYPE,
	"supply1":     NET_TYPE,
	"uwire":       NET_TYPE,
}

// operators is ordered longest first so the lexer can take the first match.
var operators = []struct {
	text string
	tok  int
}{
	{"<<<=", ASSIGN_OP}, {">>>=", ASSIGN_OP},
	{"===", CASE_EQ}, {"!==", CASE_NEQ}, {"==?", WILD_EQ}, {"!=?", WILD_NEQ},
	{"<<<", ASHL}, {">>>", ASHR}, {"&&&", TRIPLE_AND},
	{"<<=", ASSIGN_OP}, {">>=", ASSIGN_OP},
	{"+=", ASSIGN_OP}, {"-=", ASSIGN_OP}, {"*=", ASSIGN_OP}, {"/=", ASSIGN_OP},
	{"%=", ASSIGN_OP}, {"&=", ASSIGN_OP}, {"|=", ASSIGN_OP}, {"^=", ASSIGN_OP},
	{"==", EQ}, {"!=", NEQ}, {"<=", LTE}, {">=", GTE},
	{"&&", LAND}, {"||", LOR}, {"<<", SHL}, {">>", SHR},
	{"**", POW}, {"++", INC}, {"--", DEC}, {"->", ARROW}, {"::", SCOPE},
	{"~^", XNOR}, {"^~", XNOR}, {"~&", NAND}, {"~|", NOR},
	{"+:", PLUS_COLON}, {"-:", MINUS_COLON},
	{"'(", APOS_LPAREN}, {"'{", APOS_LBRACE},
	{"(", LPAREN}, {")", RPAREN}, {"[", LBRACKET}, {"]", RBRACKET},
	{"{", LBRACE}, {"}", RBRACE}, {",", COMMA}, {";", SEMICOLON},
	{":", COLON}, {".", DOT}, {"#", HASH}, {"?", QUESTION},
	{"+", PLUS}, {"-", MINUS}, {"*", MUL}, {"/", DIV}, {"%", MOD},
	{"<", LT}, {">", GT}, {"&", AND}, {"|", OR}, {"^", XOR},
	{"~", TILDE}, {"!", NOT}, {"=", ASSIGN},
}

func init() {
	for text, tok := range keywords {
		if tok != NET_TYPE {
			tokenNames[tok] = text
		}
	}
	for _, op := range operators {
		if op.tok == ASSIGN_OP {
			continue
		}
		if _, ok := tokenNames[op.tok]; !ok {
			tokenNames[op.tok] = "'" + op.text + "'"
		}
	}
}

// TokenString returns a printable name for a token kind.
func TokenString(tok int) string {
	if name, ok := tokenNames[tok]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", tok)
}
