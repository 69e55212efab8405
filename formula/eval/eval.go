package eval

import (
	"errors"
	"fmt"
	"math"

	"github.com/midbel/gridcalc/formula/builtins"
	"github.com/midbel/gridcalc/formula/op"
	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/value"
)

var ErrEval = errors.New("expression can not be evaluated")

// Eval computes the value of expr. Failures met during the evaluation are
// reported as error values: the returned error is only set when the tree
// contains a node the evaluator does not know.
func Eval(expr Expr, ctx value.Context) (value.Value, error) {
	switch e := expr.(type) {
	case Binary:
		return evalBinary(e, ctx)
	case Unary:
		return evalUnary(e, ctx)
	case Literal:
		return value.Text(e.Value), nil
	case Number:
		return value.Float(e.Value), nil
	case Call:
		return evalCall(e, ctx)
	case Reference:
		return evalReference(e, ctx)
	case RangeRef:
		return evalRange(e, ctx)
	default:
		return nil, fmt.Errorf("%w: unsupported node %T", ErrEval, expr)
	}
}

func evalBinary(e Binary, ctx value.Context) (value.Value, error) {
	left, err := Eval(e.Left, ctx)
	if err != nil {
		return nil, err
	}
	right, err := Eval(e.Right, ctx)
	if err != nil {
		return nil, err
	}
	var (
		x = value.ToNumber(left)
		y = value.ToNumber(right)
	)
	switch e.Op {
	case op.Add:
		return doMath(x, y, func(left, right float64) (float64, error) {
			return left + right, nil
		})
	case op.Sub:
		return doMath(x, y, func(left, right float64) (float64, error) {
			return left - right, nil
		})
	case op.Mul:
		return doMath(x, y, func(left, right float64) (float64, error) {
			return left * right, nil
		})
	case op.Div:
		return doMath(x, y, func(left, right float64) (float64, error) {
			if right == 0 {
				return 0, value.ErrDiv0
			}
			return left / right, nil
		})
	case op.Pow:
		return doMath(x, y, func(left, right float64) (float64, error) {
			return math.Pow(left, right), nil
		})
	case op.Eq:
		return value.Boolean(x == y), nil
	case op.Ne:
		return value.Boolean(x != y), nil
	case op.Lt:
		return value.Boolean(x < y), nil
	case op.Le:
		return value.Boolean(x <= y), nil
	case op.Gt:
		return value.Boolean(x > y), nil
	case op.Ge:
		return value.Boolean(x >= y), nil
	default:
		return value.Failuref("unsupported operator %s", op.Symbol(e.Op)), nil
	}
}

func doMath(left, right float64, do func(float64, float64) (float64, error)) (value.Value, error) {
	res, err := do(left, right)
	if err != nil {
		var e value.Error
		if errors.As(err, &e) {
			return e, nil
		}
		return value.Failure(err), nil
	}
	if math.IsNaN(res) || math.IsInf(res, 0) {
		return value.ErrNum, nil
	}
	return value.Float(res), nil
}

func evalUnary(e Unary, ctx value.Context) (value.Value, error) {
	val, err := Eval(e.Expr, ctx)
	if err != nil {
		return nil, err
	}
	n := value.ToNumber(val)
	switch e.Op {
	case op.Add:
		return value.Float(n), nil
	case op.Sub:
		return value.Float(-n), nil
	default:
		return value.Failuref("unsupported operator %s", op.Symbol(e.Op)), nil
	}
}

func evalCall(e Call, ctx value.Context) (value.Value, error) {
	var args []value.Value
	for i := range e.Args {
		a, err := Eval(e.Args[i], ctx)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	fn, ok := builtins.Lookup(e.Name)
	if !ok {
		return value.Failuref("unknown function: %s", e.Name), nil
	}
	res, err := fn(args)
	if err != nil {
		return value.Failure(fmt.Errorf("%s: %w", e.Name, err)), nil
	}
	return res, nil
}

func evalReference(e Reference, ctx value.Context) (value.Value, error) {
	if ctx == nil {
		return value.Empty(), nil
	}
	v := ctx.At(e.Position)
	if value.IsEmpty(v) {
		return value.Empty(), nil
	}
	return v, nil
}

func evalRange(e RangeRef, ctx value.Context) (value.Value, error) {
	var (
		rg  = e.Range()
		dim = layout.Dimension{
			Lines:   rg.Height(),
			Columns: rg.Width(),
		}
	)
	if ctx == nil {
		return value.NewArray(nil, dim), nil
	}
	return value.NewArray(ctx.Range(rg.Starts, rg.Ends), dim), nil
}
