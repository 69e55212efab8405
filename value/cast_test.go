package value

import (
	"errors"
	"testing"

	"github.com/midbel/gridcalc/layout"
	"github.com/stretchr/testify/assert"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		Input Value
		Want  float64
	}{
		{Input: Float(42), Want: 42},
		{Input: Text("3.5"), Want: 3.5},
		{Input: Text("  12abc"), Want: 12},
		{Input: Text("-1e3x"), Want: -1000},
		{Input: Text("1e"), Want: 1},
		{Input: Text(".5"), Want: 0.5},
		{Input: Text("abc"), Want: 0},
		{Input: Text(""), Want: 0},
		{Input: Text("-"), Want: 0},
		{Input: Empty(), Want: 0},
		{Input: ErrDiv0, Want: 0},
		{Input: NewArray([]Value{Float(1)}, layoutDim(1, 1)), Want: 0},
	}
	for _, c := range tests {
		assert.Equal(t, c.Want, ToNumber(c.Input), c.Input.String())
	}
}

func TestFromRaw(t *testing.T) {
	assert.Equal(t, Float(10), FromRaw(10))
	assert.Equal(t, Float(2.5), FromRaw("2.5"))
	assert.Equal(t, Text("hello"), FromRaw("hello"))
	assert.Equal(t, Float(1), FromRaw(true))
	assert.Equal(t, Empty(), FromRaw(nil))
	assert.Equal(t, Empty(), FromRaw(""))
}

func TestParseError(t *testing.T) {
	tests := []struct {
		Input string
		Want  Error
		Ok    bool
	}{
		{Input: "#NULL!", Want: ErrNull, Ok: true},
		{Input: "#name?", Want: ErrName, Ok: true},
		{Input: " #N/A ", Want: ErrNA, Ok: true},
		{Input: "#DIV/0!", Want: ErrDiv0, Ok: true},
		{Input: "#ERROR: unknown function: FOO", Want: Failuref("unknown function: FOO"), Ok: true},
		{Input: "#N/A!", Ok: false},
		{Input: "#ERRORS", Ok: false},
		{Input: "N/A", Ok: false},
	}
	for _, c := range tests {
		got, ok := ParseError(c.Input)
		if !c.Ok {
			assert.False(t, ok, c.Input)
			continue
		}
		assert.True(t, ok, c.Input)
		assert.Equal(t, c.Want, got, c.Input)
	}
	assert.Equal(t, ErrNA, FromRaw("#N/A"))
	assert.Equal(t, ErrName, FromRaw("#NAME?"))
	assert.Equal(t, Text("#hashtag"), FromRaw("#hashtag"))
}

func TestErrorValue(t *testing.T) {
	assert.Equal(t, "#DIV/0!", ErrDiv0.String())
	assert.Equal(t, TypeError, ErrDiv0.Type())

	e := Failure(errors.New("unknown function: FOO"))
	assert.Equal(t, "#ERROR: unknown function: FOO", e.String())
	assert.True(t, IsError(e))
}

func TestFlatten(t *testing.T) {
	arr := NewArray([]Value{Float(1), Text("x")}, layoutDim(1, 2))
	list := Flatten([]Value{Float(0), arr, Empty()})
	assert.Equal(t, []Value{Float(0), Float(1), Text("x"), Empty()}, list)
	assert.Equal(t, TypeNumber, arr.Type())
}

func layoutDim(lines, cols int64) layout.Dimension {
	return layout.Dimension{
		Lines:   lines,
		Columns: cols,
	}
}
