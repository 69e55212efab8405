package builtins

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/midbel/gridcalc/value"
)

var ErrArity = errors.New("invalid number of arguments")

type Func func([]value.Value) (value.Value, error)

var Registry = map[string]Func{
	"SUM":     Sum,
	"MIN":     Min,
	"MAX":     Max,
	"AVERAGE": Average,
	"COUNT":   Count,
}

// Lookup finds a builtin by name. Names are matched without regard to case.
func Lookup(name string) (Func, bool) {
	fn, ok := Registry[strings.ToUpper(name)]
	return fn, ok
}

func Names() []string {
	return slices.Sorted(maps.Keys(Registry))
}
