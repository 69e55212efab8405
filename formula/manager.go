package formula

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/midbel/gridcalc/formula/eval"
	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/value"
)

// Manager owns the formulas of a grid. It keeps the dependency graph
// between them up to date and rewrites them when lines or columns are
// inserted or deleted.
type Manager struct {
	formulas map[layout.Position]*Formula
	// values computed since the last change of the cells they read
	values map[layout.Position]value.Value
	graph    *graph
	// formulas being evaluated, used to stop on circular references
	running Set
	// formulas caught in a cycle after a structural edit
	cyclic Set
	// bumped on every change of the registry
	generation int

	ctx     value.Context
	updater Updater
	logger  *slog.Logger
}

func New(options ...Option) *Manager {
	m := Manager{
		formulas: make(map[layout.Position]*Formula),
		values:   make(map[layout.Position]value.Value),
		graph:    newGraph(),
		running:  make(Set),
		cyclic:   make(Set),
		ctx:      emptyContext{},
		updater:  discardUpdater{},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, o := range options {
		o(&m)
	}
	m.logger = m.logger.With(slog.String("component", "formula"))
	return &m
}

// SetContext replaces the context formulas are evaluated against.
func (m *Manager) SetContext(ctx value.Context) {
	if ctx == nil {
		ctx = emptyContext{}
	}
	m.ctx = ctx
	clear(m.values)
}

// Invalidate forgets the values of the formulas reading, directly or
// through other formulas, the given cell. It has to be called when the
// content of a cell changes outside of the manager.
func (m *Manager) Invalidate(line, col int64) {
	m.invalidate(layout.NewPosition(line, col))
}

func (m *Manager) invalidate(pos layout.Position) {
	var (
		queue = []layout.Position{pos}
		seen  = make(Set)
	)
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		if seen.Has(curr) {
			continue
		}
		seen.add(curr)
		delete(m.values, curr)
		for d := range m.graph.dependentsOf(curr) {
			queue = append(queue, d)
		}
	}
}

// SetFormula parses text and registers it at the given position. On
// failure, the formula previously registered at this position, if any, is
// kept.
func (m *Manager) SetFormula(line, col int64, text string) error {
	pos := layout.NewPosition(line, col)
	expr, err := eval.Parse(text)
	if err != nil {
		m.logger.Debug("formula rejected", slog.String("cell", pos.Addr()), slog.String("error", err.Error()))
		return err
	}
	return m.register(pos, expr, formulaText(text))
}

func (m *Manager) register(pos layout.Position, expr eval.Expr, text string) error {
	f := newFormula(expr, text)
	if f.Dependencies.Has(pos) || m.graph.reaches(f.Dependencies, pos) {
		m.logger.Warn("circular reference rejected", slog.String("cell", pos.Addr()), slog.String("formula", text))
		return fmt.Errorf("%w: %s", ErrCircular, pos.Addr())
	}
	old := m.graph.precedentsOf(pos)
	m.formulas[pos] = f
	m.graph.link(pos, f.Dependencies)
	m.invalidate(pos)
	m.refresh(old)
	m.refresh(f.Dependencies)
	m.refreshAt(pos)
	m.checkCycles()
	m.generation++

	m.logger.Debug("formula registered",
		slog.String("cell", pos.Addr()),
		slog.String("formula", text),
		slog.Int("dependencies", f.Dependencies.Len()),
	)
	return nil
}

func (m *Manager) Formula(line, col int64) (*Formula, bool) {
	f, ok := m.formulas[layout.NewPosition(line, col)]
	return f, ok
}

// Formulas returns the positions of all registered formulas, line by line.
func (m *Manager) Formulas() []layout.Position {
	return slices.SortedFunc(maps.Keys(m.formulas), comparePosition)
}

func (m *Manager) RemoveFormula(line, col int64) {
	pos := layout.NewPosition(line, col)
	if _, ok := m.formulas[pos]; !ok {
		return
	}
	old := m.graph.precedentsOf(pos)
	m.invalidate(pos)
	delete(m.formulas, pos)
	m.graph.unlink(pos)
	m.refresh(old)
	m.checkCycles()
	m.generation++
	m.logger.Debug("formula removed", slog.String("cell", pos.Addr()))
}

func (m *Manager) Len() int {
	return len(m.formulas)
}

// Dependents returns the positions of the formulas reading the given cell.
func (m *Manager) Dependents(line, col int64) []layout.Position {
	return m.graph.dependentsOf(layout.NewPosition(line, col)).Sorted()
}

// Precedents returns the cells read by the formula at the given position.
func (m *Manager) Precedents(line, col int64) []layout.Position {
	return m.graph.precedentsOf(layout.NewPosition(line, col)).Sorted()
}

// Evaluate gives the current value of the formula at the given position.
// Values are kept until a cell they read changes. Cells without formula
// evaluate to the empty value and failures are reported as error values.
func (m *Manager) Evaluate(line, col int64) value.Value {
	pos := layout.NewPosition(line, col)
	f, ok := m.formulas[pos]
	if !ok {
		return value.Empty()
	}
	if v, ok := m.values[pos]; ok {
		return v
	}
	if m.running.Has(pos) || m.cyclic.Has(pos) {
		return value.Failure(fmt.Errorf("%w: %s", ErrCircular, pos.Addr()))
	}
	m.running.add(pos)
	defer delete(m.running, pos)

	res, err := eval.Eval(f.Expr, m.ctx)
	if err != nil {
		res = value.Failure(err)
	}
	m.values[pos] = res
	return res
}

// Value returns the value known for the formula at the given position
// without evaluating it.
func (m *Manager) Value(line, col int64) (value.Value, bool) {
	v, ok := m.values[layout.NewPosition(line, col)]
	return v, ok
}

// Recalculate evaluates every formula, each one after the formulas it
// depends on, and keeps the results.
func (m *Manager) Recalculate() {
	list, cyclic := m.graph.order()
	m.markCycles(cyclic)
	clear(m.values)
	for _, pos := range list {
		m.values[pos] = m.Evaluate(pos.Line, pos.Column)
	}
	for _, pos := range cyclic {
		m.values[pos] = value.Failure(fmt.Errorf("%w: %s", ErrCircular, pos.Addr()))
	}
	m.logger.Debug("formulas recalculated", slog.Int("count", len(list)), slog.Int("cyclic", len(cyclic)))
}

// CopyFormula registers at to the formula found at from, its relative
// references moved by the distance between both positions.
func (m *Manager) CopyFormula(from, to layout.Position) error {
	f, ok := m.formulas[from]
	if !ok {
		return fmt.Errorf("%s: no formula", from.Addr())
	}
	diff := to.Sub(from)
	expr, err := eval.Rewrite(f.Expr, eval.Offset(diff.Line, diff.Column))
	if err != nil {
		return err
	}
	return m.register(to, expr, canonicalText(expr))
}

// checkCycles updates the formulas known to be in a cycle. Cycles can only
// be introduced by structural edits so there is nothing to do when none
// was found before.
func (m *Manager) checkCycles() {
	if m.cyclic.Len() == 0 {
		return
	}
	_, cyclic := m.graph.order()
	m.markCycles(cyclic)
	clear(m.values)
}

func (m *Manager) markCycles(list []layout.Position) {
	clear(m.cyclic)
	for _, pos := range list {
		m.cyclic.add(pos)
	}
}

func (m *Manager) refresh(set Set) {
	for pos := range set {
		m.refreshAt(pos)
	}
}

func (m *Manager) refreshAt(pos layout.Position) {
	f, ok := m.formulas[pos]
	if !ok {
		return
	}
	clear(f.Dependents)
	for d := range m.graph.dependentsOf(pos) {
		f.Dependents.add(d)
	}
}

func (m *Manager) rebuild() {
	m.graph = newGraph()
	for pos, f := range m.formulas {
		m.graph.link(pos, f.Dependencies)
	}
	for pos := range m.formulas {
		m.refreshAt(pos)
	}
}
