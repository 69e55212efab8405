package eval

import (
	"github.com/midbel/gridcalc/layout"
)

// Dependencies returns every cell expr reads, ranges being expanded cell by
// cell. Each position is reported once, in the order it is first met.
func Dependencies(expr Expr) []layout.Position {
	var (
		seen = make(map[layout.Position]struct{})
		list []layout.Position
	)
	collect := func(pos layout.Position) {
		if _, ok := seen[pos]; ok {
			return
		}
		seen[pos] = struct{}{}
		list = append(list, pos)
	}
	walk(expr, func(e Expr) {
		switch e := e.(type) {
		case Reference:
			collect(e.Position)
		case RangeRef:
			for pos := range e.Range().Positions() {
				collect(pos)
			}
		}
	})
	return list
}

func walk(expr Expr, visit func(Expr)) {
	visit(expr)
	switch e := expr.(type) {
	case Call:
		for _, a := range e.Args {
			walk(a, visit)
		}
	case Binary:
		walk(e.Left, visit)
		walk(e.Right, visit)
	case Unary:
		walk(e.Expr, visit)
	}
}
