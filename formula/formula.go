package formula

import (
	"errors"
	"slices"
	"strings"

	"github.com/midbel/gridcalc/formula/eval"
	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/value"
)

var (
	ErrCircular = errors.New("circular reference")
	ErrStale    = errors.New("formulas changed since the edit was prepared")
)

// Formula is a parsed formula registered at a position of the grid.
type Formula struct {
	Expr eval.Expr
	// Text is the formula as given by the user or, after a structural
	// edit, as rewritten. It always starts with an equal sign.
	Text string
	// Dependencies are the cells the formula reads, ranges being expanded.
	Dependencies Set
	// Dependents are the registered formulas reading the cell of this
	// formula.
	Dependents Set
}

func newFormula(expr eval.Expr, text string) *Formula {
	f := Formula{
		Expr:         expr,
		Text:         text,
		Dependencies: make(Set),
		Dependents:   make(Set),
	}
	for _, pos := range eval.Dependencies(expr) {
		f.Dependencies.add(pos)
	}
	return &f
}

func (f *Formula) String() string {
	return f.Text
}

func formulaText(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "=") {
		text = "=" + text
	}
	return text
}

func canonicalText(expr eval.Expr) string {
	return "=" + eval.Format(expr)
}

// Updater is told about every formula whose text changes because of a
// structural edit.
type Updater interface {
	UpdateFormula(line, col int64, text string)
}

type UpdaterFunc func(line, col int64, text string)

func (f UpdaterFunc) UpdateFormula(line, col int64, text string) {
	f(line, col, text)
}

type discardUpdater struct{}

func (discardUpdater) UpdateFormula(_, _ int64, _ string) {}

type emptyContext struct{}

func (emptyContext) At(_ layout.Position) value.Value {
	return value.Empty()
}

func (emptyContext) Range(start, end layout.Position) []value.Value {
	rg := layout.NewRange(start, end).Normalize()
	return slices.Repeat([]value.Value{value.Empty()}, int(rg.Size()))
}
