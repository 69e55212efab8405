package value

import (
	"strings"

	"github.com/midbel/gridcalc/layout"
)

// Array is the result of evaluating a range. It reports the number type:
// consumers recognize it by its kind.
type Array struct {
	Data []Value
	Dim  layout.Dimension
}

func NewArray(data []Value, dim layout.Dimension) Array {
	return Array{
		Data: data,
		Dim:  dim,
	}
}

func (Array) Type() string {
	return TypeNumber
}

func (Array) Kind() ValueKind {
	return KindArray
}

func (a Array) String() string {
	var parts []string
	for _, v := range a.Data {
		parts = append(parts, v.String())
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func (a Array) Dimension() layout.Dimension {
	return a.Dim
}

func (a Array) Len() int {
	return len(a.Data)
}

// Flatten expands arrays in place, scalars are kept as is.
func Flatten(values []Value) []Value {
	var list []Value
	for _, v := range values {
		if a, ok := v.(Array); ok {
			list = append(list, Flatten(a.Data)...)
			continue
		}
		list = append(list, v)
	}
	return list
}
