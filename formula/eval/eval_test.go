package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/value"
)

type mapContext map[layout.Position]value.Value

func (c mapContext) At(pos layout.Position) value.Value {
	v, ok := c[pos]
	if !ok {
		return value.Empty()
	}
	return v
}

func (c mapContext) Range(start, end layout.Position) []value.Value {
	var list []value.Value
	for pos := range layout.NewRange(start, end).Positions() {
		list = append(list, c.At(pos))
	}
	return list
}

func testContext() mapContext {
	return mapContext{
		layout.NewPosition(0, 0): value.Float(10),
		layout.NewPosition(1, 0): value.Float(5),
		layout.NewPosition(0, 1): value.Float(15),
		layout.NewPosition(1, 1): value.Float(20),
		layout.NewPosition(2, 0): value.Text("12abc"),
		layout.NewPosition(2, 1): value.Text("foo"),
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		Input string
		Want  value.Value
	}{
		{Input: "=SUM(A1:B2)", Want: value.Float(50)},
		{Input: "=MIN(A1:B2)", Want: value.Float(5)},
		{Input: "=MAX(A1:B2)", Want: value.Float(20)},
		{Input: "=AVERAGE(A1:B2)", Want: value.Float(12.5)},
		{Input: "=COUNT(A1:B3)", Want: value.Float(6)},
		{Input: "=COUNT(A1:C4)", Want: value.Float(6)},
		{Input: "=A1+B2", Want: value.Float(30)},
		{Input: "=A2+B1", Want: value.Float(20)},
		{Input: "=A1-B2*2", Want: value.Float(-30)},
		{Input: "=2^3", Want: value.Float(8)},
		{Input: "=-A1", Want: value.Float(-10)},
		{Input: "=A3+1", Want: value.Float(13)},
		{Input: "=B3+1", Want: value.Float(1)},
		{Input: "=Z100+1", Want: value.Float(1)},
		{Input: "=A1>B1", Want: value.Float(0)},
		{Input: "=A1<=B1", Want: value.Float(1)},
		{Input: "=A1=10", Want: value.Float(1)},
		{Input: "=A1<>10", Want: value.Float(0)},
		{Input: "=A1/0", Want: value.ErrDiv0},
		{Input: `="hello"`, Want: value.Text("hello")},
		{Input: "=SUM(A1,B1,3)", Want: value.Float(28)},
		{Input: "=SUM(C1:C5)", Want: value.Float(0)},
	}
	ctx := testContext()
	for _, c := range tests {
		t.Run(c.Input, func(t *testing.T) {
			expr, err := Parse(c.Input)
			require.NoError(t, err)
			got, err := Eval(expr, ctx)
			require.NoError(t, err)
			assert.Equal(t, c.Want, got)
		})
	}
}

func TestEvalUnknownFunction(t *testing.T) {
	expr, err := Parse("=INVALID(A1)")
	require.NoError(t, err)
	got, err := Eval(expr, testContext())
	require.NoError(t, err)
	assert.Equal(t, value.TypeError, got.Type())
	assert.Equal(t, "#ERROR: unknown function: INVALID", got.String())
}

func TestEvalNotFinite(t *testing.T) {
	expr, err := Parse("=10^400")
	require.NoError(t, err)
	got, err := Eval(expr, testContext())
	require.NoError(t, err)
	assert.Equal(t, value.ErrNum, got)
}

func TestEvalRange(t *testing.T) {
	expr, err := Parse("B2:A1")
	require.NoError(t, err)
	got, err := Eval(expr, testContext())
	require.NoError(t, err)
	arr, ok := got.(value.Array)
	require.True(t, ok)
	assert.Equal(t, value.TypeNumber, arr.Type())
	assert.Equal(t, 4, arr.Len())
	assert.Equal(t, layout.Dimension{Lines: 2, Columns: 2}, arr.Dimension())
}

type sparseContext struct{}

func (sparseContext) At(layout.Position) value.Value {
	return nil
}

func (sparseContext) Range(layout.Position, layout.Position) []value.Value {
	return nil
}

func TestEvalMissingCell(t *testing.T) {
	for _, str := range []string{"=A1", "=A1+1"} {
		expr, err := Parse(str)
		require.NoError(t, err)
		got, err := Eval(expr, sparseContext{})
		require.NoError(t, err)
		assert.NotNil(t, got, str)
		assert.False(t, value.IsError(got), str)
	}
}

type unknownNode struct{}

func (unknownNode) String() string {
	return "unknown"
}

func TestEvalUnknownNode(t *testing.T) {
	_, err := Eval(NewBinary(NewNumber(1), unknownNode{}, 0), testContext())
	assert.ErrorIs(t, err, ErrEval)
}

func TestExcelReferences(t *testing.T) {
	got := ExcelReferences("=SUM(A1:B2)+C3")
	assert.Equal(t, []string{"A1:B2", "C3"}, got)

	toks := ExcelTokens("=1+2")
	require.Len(t, toks, 3)
	assert.Equal(t, "1", toks[0].Value)
}

func TestTokenize(t *testing.T) {
	toks := Tokenize("=SUM(A1:B2)")
	var got []string
	for _, tok := range toks {
		got = append(got, tok.String())
	}
	want := []string{
		"identifier(SUM)",
		"<beg-group>",
		"cell(A1)",
		"<range>",
		"cell(B2)",
		"<end-group>",
		"<eof>",
	}
	assert.Equal(t, want, got)
}
