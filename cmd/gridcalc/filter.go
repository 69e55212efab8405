package main

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/value"
)

type filterFunc func(layout.Position, any, value.Value) (bool, error)

func keepAll(layout.Position, any, value.Value) (bool, error) {
	return true, nil
}

func filterEnv(pos layout.Position, raw any, val value.Value) map[string]any {
	env := map[string]any{
		"line":    pos.Line + 1,
		"column":  layout.ColumnLetter(pos.Column),
		"addr":    pos.Addr(),
		"raw":     raw,
		"value":   val.String(),
		"number":  value.ToNumber(val),
		"formula": false,
	}
	if str, ok := raw.(string); ok && len(str) > 0 && str[0] == '=' {
		env["formula"] = true
	}
	return env
}

// compileFilter builds a predicate over the cells of a sheet from a
// boolean expression. Variables available are line, column, addr, raw,
// value, number and formula.
func compileFilter(where string) (filterFunc, error) {
	if where == "" {
		return keepAll, nil
	}
	sample := filterEnv(layout.Position{}, nil, value.Empty())
	program, err := expr.Compile(where, expr.Env(sample), expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", where, err)
	}
	keep := func(pos layout.Position, raw any, val value.Value) (bool, error) {
		res, err := expr.Run(program, filterEnv(pos, raw, val))
		if err != nil {
			return false, fmt.Errorf("evaluate expression %q: %w", where, err)
		}
		b, _ := res.(bool)
		return b, nil
	}
	return keep, nil
}
