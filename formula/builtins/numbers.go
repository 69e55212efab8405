package builtins

import (
	"fmt"

	"github.com/midbel/gridcalc/value"
)

func Min(args []value.Value) (value.Value, error) {
	if err := atLeastOne(args); err != nil {
		return nil, err
	}
	res, _ := reduce(args, minimum)
	return value.Float(res), nil
}

func Max(args []value.Value) (value.Value, error) {
	if err := atLeastOne(args); err != nil {
		return nil, err
	}
	res, _ := reduce(args, maximum)
	return value.Float(res), nil
}

func Sum(args []value.Value) (value.Value, error) {
	if err := atLeastOne(args); err != nil {
		return nil, err
	}
	res, _ := reduce(args, add)
	return value.Float(res), nil
}

func Average(args []value.Value) (value.Value, error) {
	if err := atLeastOne(args); err != nil {
		return nil, err
	}
	res, count := reduce(args, add)
	if count == 0 {
		return value.Float(0), nil
	}
	return value.Float(res / float64(count)), nil
}

// Count returns the number of numbers and strings found in args.
func Count(args []value.Value) (value.Value, error) {
	if err := atLeastOne(args); err != nil {
		return nil, err
	}
	var count int
	for _, v := range value.Flatten(args) {
		if value.IsNumber(v) || value.IsText(v) {
			count++
		}
	}
	return value.Float(count), nil
}

func atLeastOne(args []value.Value) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: at least one argument expected", ErrArity)
	}
	return nil
}

func add(a, b float64) float64 {
	return a + b
}

func minimum(a, b float64) float64 {
	return min(a, b)
}

func maximum(a, b float64) float64 {
	return max(a, b)
}
