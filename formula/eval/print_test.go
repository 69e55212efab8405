package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midbel/gridcalc/formula/op"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		Input string
		Want  string
	}{
		{Input: "=A1 + B2", Want: "A1+B2"},
		{Input: "= sum( a1 : b2 , 1 )", Want: "SUM(A1:B2,1)"},
		{Input: "(1+2)*3", Want: "(1+2)*3"},
		{Input: "1+(2*3)", Want: "1+2*3"},
		{Input: "1-(2-3)", Want: "1-(2-3)"},
		{Input: "(1-2)-3", Want: "1-2-3"},
		{Input: "2^(3^2)", Want: "2^(3^2)"},
		{Input: "-(A1+1)", Want: "-(A1+1)"},
		{Input: "(A1>1)=(B1<2)", Want: "A1>1=(B1<2)"},
		{Input: "$A$1*A$2+$B3", Want: "$A$1*A$2+$B3"},
		{Input: "1.50+.5", Want: "1.5+0.5"},
		{Input: `"a\"b\\c"`, Want: `"a\"b\\c"`},
	}
	for _, c := range tests {
		t.Run(c.Input, func(t *testing.T) {
			expr, err := Parse(c.Input)
			require.NoError(t, err)
			got := Format(expr)
			assert.Equal(t, c.Want, got)

			again, err := Parse(got)
			require.NoError(t, err)
			assert.Equal(t, expr, again)
		})
	}
}

func TestFormatRangeOperand(t *testing.T) {
	rg, err := ParseRange("A1:B2")
	require.NoError(t, err)
	expr := NewBinary(rg, NewNumber(1), op.Add)
	assert.Equal(t, "(A1:B2)+1", Format(expr))
}

func TestFormatReference(t *testing.T) {
	for _, str := range []string{"A1", "$A1", "A$1", "$A$1", "XFD1048576", "AA10"} {
		r, err := ParseReference(str)
		require.NoError(t, err)
		assert.Equal(t, str, FormatReference(r))
	}
	rg, err := ParseRange("$A1:B$2")
	require.NoError(t, err)
	assert.Equal(t, "$A1:B$2", FormatRange(rg))
}

func TestDumpExpr(t *testing.T) {
	expr, err := Parse("SUM(A1,2)")
	require.NoError(t, err)
	assert.Equal(t, "call(SUM, args: cell(A1, false, false), number(2))", DumpExpr(expr))
}
