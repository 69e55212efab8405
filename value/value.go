package value

import (
	"fmt"

	"github.com/midbel/gridcalc/layout"
)

type ValueKind int8

const (
	KindScalar ValueKind = 1 << iota
	KindError
	KindArray
)

const (
	TypeNumber = "number"
	TypeString = "string"
	TypeError  = "error"
	TypeEmpty  = "empty"
)

type Value interface {
	Kind() ValueKind
	// Type reports one of number, string, error or empty.
	Type() string
	fmt.Stringer
}

type ScalarValue interface {
	Value
	Scalar() any
}

// Context gives the evaluator access to the content of the grid.
type Context interface {
	At(layout.Position) Value
	Range(start, end layout.Position) []Value
}

func IsNumber(v Value) bool {
	_, ok := v.(Float)
	return ok
}

func IsText(v Value) bool {
	_, ok := v.(Text)
	return ok
}

func IsError(v Value) bool {
	return v != nil && v.Kind() == KindError
}

func IsEmpty(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Blank)
	return ok
}
