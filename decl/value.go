package decl

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

type ValueKind int

const (
	ValueInt ValueKind = iota
	ValueReal
	ValueString
)

// MaxConstWidth is the widest integral constant the evaluator can hold.
const MaxConstWidth = 64

// Value is a constant produced by parameter evaluation. Integral values are
// stored sign or zero extended to 64 bits according to Signed.
type Value struct {
	Kind   ValueKind
	Int    int64
	Width  int
	Signed bool
	// Unbased marks '0 '1 literals that fill whatever width they are cast to.
	Unbased bool
	Real    float64
	Str     string
}

func IntValue(v int64, width int, signed bool) Value {
	return Value{Kind: ValueInt, Width: width, Signed: signed}.withBits(v)
}

func BoolValue(b bool) Value {
	if b {
		return IntValue(1, 1, false)
	}
	return IntValue(0, 1, false)
}

func RealValue(f float64) Value { return Value{Kind: ValueReal, Real: f} }

func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

func (v Value) withBits(raw int64) Value {
	v.Int = normalize(raw, v.Width, v.Signed)
	return v
}

func normalize(raw int64, width int, signed bool) int64 {
	if width <= 0 || width >= 64 {
		return raw
	}
	mask := int64(1)<<uint(width) - 1
	raw &= mask
	if signed && raw&(int64(1)<<uint(width-1)) != 0 {
		raw |= ^mask
	}
	return raw
}

// Cast converts an integral value to the given width and signedness.
func (v Value) Cast(width int, signed bool) Value {
	switch v.Kind {
	case ValueReal:
		return IntValue(int64(v.Real), width, signed)
	case ValueString:
		return v
	}
	if v.Unbased {
		if v.Int != 0 {
			return IntValue(-1, width, signed)
		}
		return IntValue(0, width, signed)
	}
	return IntValue(v.Int, width, signed)
}

// Uint is the value's bit pattern without sign extension.
func (v Value) Uint() uint64 {
	if v.Width <= 0 || v.Width >= 64 {
		return uint64(v.Int)
	}
	return uint64(v.Int) & (uint64(1)<<uint(v.Width) - 1)
}

func (v Value) IsTrue() bool {
	switch v.Kind {
	case ValueReal:
		return v.Real != 0
	case ValueString:
		return v.Str != ""
	}
	return v.Int != 0
}

func (v Value) Equals(other Value) bool {
	return v.String() == other.String()
}

// String is the canonical form used in specialization keys.
func (v Value) String() string {
	switch v.Kind {
	case ValueReal:
		return strconv.FormatFloat(v.Real, 'g', -1, 64)
	case ValueString:
		return strconv.Quote(v.Str)
	}
	if v.Unbased {
		return fmt.Sprintf("'%d", v.Int&1)
	}
	if v.Signed {
		return fmt.Sprintf("%d'sd%d", v.Width, v.Int)
	}
	return fmt.Sprintf("%d'd%d", v.Width, v.Uint())
}

// ParseNumber decodes an integer literal: 42, 8'hFF, 'b101, 4'sd3, '1.
func ParseNumber(text string) (Value, error) {
	clean := strings.ReplaceAll(text, "_", "")
	if len(clean) == 2 && clean[0] == '\'' {
		switch clean[1] {
		case '0':
			return Value{Kind: ValueInt, Width: 1, Unbased: true}, nil
		case '1':
			return Value{Kind: ValueInt, Width: 1, Int: 1, Unbased: true}, nil
		case 'x', 'X', 'z', 'Z', '?':
			return Value{}, fmt.Errorf("literal %s has x/z bits", text)
		}
	}
	apos := strings.IndexByte(clean, '\'')
	if apos < 0 {
		n, err := strconv.ParseInt(clean, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %s: %w", text, err)
		}
		if n > 1<<31-1 {
			// Unsized decimals wider than 32 bits keep their magnitude.
			return IntValue(n, 64, true), nil
		}
		return IntValue(n, 32, true), nil
	}

	width := 32
	sized := apos > 0
	if sized {
		w, err := strconv.Atoi(clean[:apos])
		if err != nil || w <= 0 {
			return Value{}, fmt.Errorf("invalid width in %s", text)
		}
		width = w
	}
	if width > MaxConstWidth {
		return Value{}, fmt.Errorf("literal %s is wider than %d bits", text, MaxConstWidth)
	}
	rest := clean[apos+1:]
	signed := false
	if rest != "" && (rest[0] == 's' || rest[0] == 'S') {
		signed = true
		rest = rest[1:]
	}
	if rest == "" {
		return Value{}, fmt.Errorf("invalid number %s", text)
	}
	base := 10
	switch rest[0] {
	case 'h', 'H':
		base = 16
	case 'o', 'O':
		base = 8
	case 'b', 'B':
		base = 2
	case 'd', 'D':
		base = 10
	default:
		return Value{}, fmt.Errorf("invalid base in %s", text)
	}
	digits := rest[1:]
	if strings.ContainsAny(digits, "xXzZ?") {
		return Value{}, fmt.Errorf("literal %s has x/z bits", text)
	}
	n, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %s: %w", text, err)
	}
	// Unsized literals grow to hold their digits.
	if !sized && bits.Len64(n) > width {
		width = bits.Len64(n)
	}
	return IntValue(int64(n), width, signed), nil
}
