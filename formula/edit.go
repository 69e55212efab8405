package formula

import (
	"fmt"
	"log/slog"

	"github.com/midbel/gridcalc/formula/eval"
	"github.com/midbel/gridcalc/layout"
)

// Edit holds the formulas as they will be once a line or a column has been
// inserted or deleted. Nothing changes in the manager until the edit is
// committed.
type Edit struct {
	shift      eval.Shift
	generation int
	formulas   map[layout.Position]*Formula
	// positions of the rewritten formulas, after the edit
	rewritten []layout.Position
	// positions of the formulas dropped with a deleted line or column or
	// pushed outside of the grid
	dropped []layout.Position
}

func (e *Edit) String() string {
	return e.shift.String()
}

// Rewritten returns the positions, after the edit, of the formulas whose
// text is rewritten.
func (e *Edit) Rewritten() []layout.Position {
	return e.rewritten
}

// Dropped returns the positions of the formulas removed by the edit.
func (e *Edit) Dropped() []layout.Position {
	return e.dropped
}

type moveFunc func(layout.Position) (layout.Position, bool)

func insertLineAt(at int64) moveFunc {
	return func(pos layout.Position) (layout.Position, bool) {
		if pos.Line >= at {
			pos.Line++
		}
		return pos, pos.Line < layout.MaxLines
	}
}

func insertColumnAt(at int64) moveFunc {
	return func(pos layout.Position) (layout.Position, bool) {
		if pos.Column >= at {
			pos.Column++
		}
		return pos, pos.Column < layout.MaxColumns
	}
}

func deleteLineAt(at int64) moveFunc {
	return func(pos layout.Position) (layout.Position, bool) {
		if pos.Line == at {
			return pos, false
		}
		if pos.Line > at {
			pos.Line--
		}
		return pos, true
	}
}

func deleteColumnAt(at int64) moveFunc {
	return func(pos layout.Position) (layout.Position, bool) {
		if pos.Column == at {
			return pos, false
		}
		if pos.Column > at {
			pos.Column--
		}
		return pos, true
	}
}

func (m *Manager) PrepareRowInsertion(at int64) (*Edit, error) {
	return m.prepare(eval.InsertLine(at), insertLineAt(at))
}

func (m *Manager) PrepareColumnInsertion(at int64) (*Edit, error) {
	return m.prepare(eval.InsertColumn(at), insertColumnAt(at))
}

func (m *Manager) PrepareRowDeletion(at int64) (*Edit, error) {
	return m.prepare(eval.DeleteLine(at), deleteLineAt(at))
}

func (m *Manager) PrepareColumnDeletion(at int64) (*Edit, error) {
	return m.prepare(eval.DeleteColumn(at), deleteColumnAt(at))
}

func (m *Manager) prepare(shift eval.Shift, move moveFunc) (*Edit, error) {
	edit := Edit{
		shift:      shift,
		generation: m.generation,
		formulas:   make(map[layout.Position]*Formula),
	}
	for _, pos := range m.Formulas() {
		f := m.formulas[pos]
		at, ok := move(pos)
		if !ok {
			edit.dropped = append(edit.dropped, pos)
			continue
		}
		expr, err := eval.Rewrite(f.Expr, shift)
		if err != nil {
			m.logger.Warn("edit rejected",
				slog.String("edit", shift.String()),
				slog.String("cell", pos.Addr()),
				slog.String("formula", f.Text),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		edit.formulas[at] = newFormula(expr, canonicalText(expr))
		edit.rewritten = append(edit.rewritten, at)
	}
	return &edit, nil
}

// Commit replaces the formulas of the manager by the ones of the edit,
// notifies the updater of every rewritten formula and recalculates.
func (m *Manager) Commit(edit *Edit) error {
	if edit == nil {
		return nil
	}
	if edit.generation != m.generation {
		return fmt.Errorf("%w: %s", ErrStale, edit)
	}
	m.formulas = edit.formulas
	m.rebuild()
	m.generation++

	for _, pos := range edit.rewritten {
		f := m.formulas[pos]
		m.updater.UpdateFormula(pos.Line, pos.Column, f.Text)
	}
	m.logger.Debug("edit committed",
		slog.String("edit", edit.String()),
		slog.Int("rewritten", len(edit.rewritten)),
		slog.Int("dropped", len(edit.dropped)),
	)
	m.Recalculate()
	return nil
}

func (m *Manager) HandleRowInsertion(at int64) error {
	return m.apply(m.PrepareRowInsertion(at))
}

func (m *Manager) HandleColumnInsertion(at int64) error {
	return m.apply(m.PrepareColumnInsertion(at))
}

// HandleRowDeletion drops the formulas of the deleted line and rewrites the
// others. It fails, leaving every formula untouched, when a formula still
// references a cell of the deleted line.
func (m *Manager) HandleRowDeletion(at int64) error {
	return m.apply(m.PrepareRowDeletion(at))
}

func (m *Manager) HandleColumnDeletion(at int64) error {
	return m.apply(m.PrepareColumnDeletion(at))
}

func (m *Manager) apply(edit *Edit, err error) error {
	if err != nil {
		return err
	}
	return m.Commit(edit)
}
