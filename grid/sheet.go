package grid

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/midbel/gridcalc/formula"
	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/value"
)

// Sheet binds a store and the formulas of its cells. Cells whose raw
// content starts with an equal sign hold formulas: their text is kept in
// the store, their parsed form in the formula manager.
type Sheet struct {
	store    *Store
	formulas *formula.Manager
	logger   *slog.Logger
}

type SheetOption func(*Sheet)

func WithStore(store *Store) SheetOption {
	return func(s *Sheet) {
		if store != nil {
			s.store = store
		}
	}
}

func WithSheetLogger(logger *slog.Logger) SheetOption {
	return func(s *Sheet) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSheet creates a sheet. When a store is given, the formulas it
// contains are registered.
func NewSheet(options ...SheetOption) (*Sheet, error) {
	s := Sheet{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, o := range options {
		o(&s)
	}
	store := s.store
	if store == nil {
		store = NewStore()
	}
	err := s.Load(store)
	return &s, err
}

func (s *Sheet) Store() *Store {
	return s.store
}

func (s *Sheet) Formulas() *formula.Manager {
	return s.formulas
}

// Load replaces the content of the sheet by the one of store and registers
// every formula found in it. Formulas that can not be registered are
// reported but do not stop the loading.
func (s *Sheet) Load(store *Store) error {
	s.store = store
	s.formulas = formula.New(
		formula.WithContext(s),
		formula.WithUpdater(s),
		formula.WithLogger(s.logger),
	)
	var errs []error
	for pos, raw := range store.Cells() {
		text, ok := isFormula(raw)
		if !ok {
			continue
		}
		if err := s.formulas.SetFormula(pos.Line, pos.Column, text); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", pos.Addr(), err))
		}
	}
	s.formulas.Recalculate()
	s.sheetLogger().Debug("sheet loaded",
		slog.Int("cells", store.Len()),
		slog.Int("formulas", s.formulas.Len()),
		slog.Int("errors", len(errs)),
	)
	return errors.Join(errs...)
}

// SetValue sets the raw content of a cell. Strings starting with an equal
// sign are registered as formulas.
func (s *Sheet) SetValue(line, col int64, raw any) error {
	if text, ok := isFormula(raw); ok {
		return s.SetFormula(line, col, text)
	}
	if err := s.store.SetCell(line, col, raw); err != nil {
		return err
	}
	s.formulas.RemoveFormula(line, col)
	s.formulas.Invalidate(line, col)
	return nil
}

func (s *Sheet) SetFormula(line, col int64, text string) error {
	if !inBounds(line, col) {
		return fmt.Errorf("%w: %d, %d", ErrOutOfBounds, line, col)
	}
	if err := s.formulas.SetFormula(line, col, text); err != nil {
		return err
	}
	f, _ := s.formulas.Formula(line, col)
	return s.store.SetCell(line, col, f.Text)
}

// Value returns the value of a cell, formulas being evaluated.
func (s *Sheet) Value(line, col int64) value.Value {
	if _, ok := s.formulas.Formula(line, col); ok {
		return s.formulas.Evaluate(line, col)
	}
	raw, ok := s.store.Cell(line, col)
	if !ok {
		return value.Empty()
	}
	return value.FromRaw(raw)
}

func (s *Sheet) At(pos layout.Position) value.Value {
	return s.Value(pos.Line, pos.Column)
}

func (s *Sheet) Range(start, end layout.Position) []value.Value {
	var (
		rg   = layout.NewRange(start, end).Normalize()
		list = make([]value.Value, 0, rg.Size())
	)
	for pos := range rg.Positions() {
		list = append(list, s.At(pos))
	}
	return list
}

// UpdateFormula writes in the store the text of a formula rewritten by a
// structural edit.
func (s *Sheet) UpdateFormula(line, col int64, text string) {
	if err := s.store.SetCell(line, col, text); err != nil {
		s.sheetLogger().Warn("formula not updated", slog.String("cell", layout.NewPosition(line, col).Addr()), slog.String("error", err.Error()))
	}
}

func (s *Sheet) InsertLine(at int64) error {
	return s.edit("insert-line", at, s.formulas.PrepareRowInsertion, s.store.InsertLine)
}

func (s *Sheet) DeleteLine(at int64) error {
	return s.edit("delete-line", at, s.formulas.PrepareRowDeletion, s.store.DeleteLine)
}

func (s *Sheet) InsertColumn(at int64) error {
	return s.edit("insert-column", at, s.formulas.PrepareColumnInsertion, s.store.InsertColumn)
}

func (s *Sheet) DeleteColumn(at int64) error {
	return s.edit("delete-column", at, s.formulas.PrepareColumnDeletion, s.store.DeleteColumn)
}

func (s *Sheet) edit(name string, at int64, prepare func(int64) (*formula.Edit, error), move func(int64)) error {
	if at < 0 {
		return fmt.Errorf("%w: %s at %d", ErrOutOfBounds, name, at)
	}
	edit, err := prepare(at)
	if err != nil {
		s.sheetLogger().Warn("edit rejected", slog.String("edit", name), slog.Int64("at", at), slog.String("error", err.Error()))
		return err
	}
	move(at)
	if err := s.formulas.Commit(edit); err != nil {
		return err
	}
	s.sheetLogger().Debug("edit applied", slog.String("edit", name), slog.Int64("at", at), slog.Int("formulas", len(edit.Rewritten())))
	return nil
}

func (s *Sheet) sheetLogger() *slog.Logger {
	return s.logger.With(slog.String("component", "sheet"))
}

func isFormula(raw any) (string, bool) {
	str, ok := raw.(string)
	if !ok || !strings.HasPrefix(str, "=") || len(str) == 1 {
		return "", false
	}
	return str, true
}
