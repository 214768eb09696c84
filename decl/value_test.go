package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "32'sd42"},
		{"1_000", "32'sd1000"},
		{"8'hFF", "8'd255"},
		{"8'HfF", "8'd255"},
		{"'b101", "32'd5"},
		{"4'sd3", "4'sd3"},
		{"4'sb1111", "4'sd-1"},
		{"12'o17", "12'd15"},
		{"4'hFF", "4'd15"},
		{"64'hFFFF_FFFF_FFFF_FFFF", "64'd18446744073709551615"},
		{"5000000000", "64'sd5000000000"},
		{"9223372036854775807", "64'sd9223372036854775807"},
		{"'h1FFFFFFFF", "33'd8589934591"},
		{"'hFFFFFFFF", "32'd4294967295"},
		{"'hFFFF_FFFF_FFFF_FFFF", "64'd18446744073709551615"},
		{"'0", "'0"},
		{"'1", "'1"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseNumber(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestParseNumberErrors(t *testing.T) {
	for _, input := range []string{"8'hx0", "'x", "'z", "4'b1?", "65'd1", "0'd1", "8'q1", "8'h",
		"18446744073709551615", "'h1_0000_0000_0000_0000"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseNumber(input)
			assert.Error(t, err)
		})
	}
}

func TestValueCast(t *testing.T) {
	assert.Equal(t, "4'd15", IntValue(255, 8, false).Cast(4, false).String())
	assert.Equal(t, "4'sd-1", IntValue(255, 8, false).Cast(4, true).String())
	assert.Equal(t, "16'sd-1", IntValue(-1, 8, true).Cast(16, true).String())
	assert.Equal(t, "16'd65535", IntValue(-1, 8, true).Cast(16, false).String())
	assert.Equal(t, "16'd255", IntValue(255, 8, false).Cast(16, false).String())

	ones, err := ParseNumber("'1")
	require.NoError(t, err)
	assert.Equal(t, "12'd4095", ones.Cast(12, false).String())
	zeros, err := ParseNumber("'0")
	require.NoError(t, err)
	assert.Equal(t, "12'd0", zeros.Cast(12, false).String())

	assert.Equal(t, "8'd3", RealValue(3.7).Cast(8, false).String())
}

func TestValueTruthAndEquality(t *testing.T) {
	assert.True(t, IntValue(2, 4, false).IsTrue())
	assert.False(t, IntValue(16, 4, false).IsTrue())
	assert.True(t, StringValue("x").IsTrue())
	assert.False(t, RealValue(0).IsTrue())

	assert.True(t, IntValue(4, 32, true).Equals(IntValue(4, 32, true)))
	assert.False(t, IntValue(4, 32, true).Equals(IntValue(4, 32, false)))
	assert.False(t, IntValue(4, 32, true).Equals(IntValue(4, 16, true)))
	assert.Equal(t, uint64(0xF), IntValue(-1, 4, true).Uint())
}
