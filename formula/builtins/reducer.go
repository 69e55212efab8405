package builtins

import (
	"iter"

	"github.com/midbel/gridcalc/value"
)

// numbers yields the numeric members of args. Arrays are flattened, every
// other kind of value is skipped.
func numbers(args []value.Value) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for _, v := range value.Flatten(args) {
			f, ok := v.(value.Float)
			if !ok {
				continue
			}
			if !yield(float64(f)) {
				return
			}
		}
	}
}

func reduce(args []value.Value, fn func(float64, float64) float64) (float64, int) {
	var (
		res   float64
		count int
	)
	for f := range numbers(args) {
		if count == 0 {
			res = f
		} else {
			res = fn(res, f)
		}
		count++
	}
	return res, count
}
