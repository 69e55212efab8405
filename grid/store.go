package grid

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/midbel/gridcalc/layout"
)

const (
	MaxLines         = layout.MaxLines
	MaxColumns       = layout.MaxColumns
	DefaultBlockSize = 1000
)

var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrFormat      = errors.New("invalid snapshot format")
)

type blockKey struct {
	Line   int64
	Column int64
}

func (k blockKey) String() string {
	return fmt.Sprintf("%d_%d", k.Line, k.Column)
}

// block holds the cells of a square area of the grid, keyed by their
// position relative to the top left corner of the block.
type block map[layout.Position]any

// Store is a sparse storage for the raw content of the cells of the grid.
// Cells are grouped in blocks, created when a first cell is set and removed
// as soon as they become empty.
type Store struct {
	blocks     map[blockKey]block
	blockSize  int64
	totalCells int
}

type StoreOption func(*Store)

func WithBlockSize(size int) StoreOption {
	return func(s *Store) {
		if size > 0 {
			s.blockSize = int64(size)
		}
	}
}

func NewStore(options ...StoreOption) *Store {
	s := Store{
		blocks:    make(map[blockKey]block),
		blockSize: DefaultBlockSize,
	}
	for _, o := range options {
		o(&s)
	}
	return &s
}

func (s *Store) BlockSize() int {
	return int(s.blockSize)
}

func (s *Store) Len() int {
	return s.totalCells
}

// SetCell stores v at the given position. Setting nil or the empty string
// removes the cell.
func (s *Store) SetCell(line, col int64, v any) error {
	if !inBounds(line, col) {
		return fmt.Errorf("%w: %d, %d", ErrOutOfBounds, line, col)
	}
	if isBlank(v) {
		s.RemoveCell(line, col)
		return nil
	}
	key, local := s.locate(line, col)
	b, ok := s.blocks[key]
	if !ok {
		b = make(block)
		s.blocks[key] = b
	}
	if _, ok := b[local]; !ok {
		s.totalCells++
	}
	b[local] = v
	return nil
}

func (s *Store) Cell(line, col int64) (any, bool) {
	if !inBounds(line, col) {
		return nil, false
	}
	key, local := s.locate(line, col)
	b, ok := s.blocks[key]
	if !ok {
		return nil, false
	}
	v, ok := b[local]
	return v, ok
}

func (s *Store) RemoveCell(line, col int64) {
	if !inBounds(line, col) {
		return
	}
	key, local := s.locate(line, col)
	b, ok := s.blocks[key]
	if !ok {
		return
	}
	if _, ok := b[local]; !ok {
		return
	}
	delete(b, local)
	s.totalCells--
	if len(b) == 0 {
		delete(s.blocks, key)
	}
}

func (s *Store) Clear() {
	clear(s.blocks)
	s.totalCells = 0
}

// Dimension gives the size of the smallest area starting at A1 that holds
// every cell of the store.
func (s *Store) Dimension() layout.Dimension {
	var dim layout.Dimension
	for key, b := range s.blocks {
		for local := range b {
			pos := s.global(key, local)
			dim = dim.Max(layout.Dimension{
				Lines:   pos.Line + 1,
				Columns: pos.Column + 1,
			})
		}
	}
	return dim
}

// Cells yields every cell of the store ordered by line then column.
func (s *Store) Cells() iter.Seq2[layout.Position, any] {
	return s.cells(func(_ blockKey) bool { return true }, func(_ layout.Position) bool { return true })
}

// CellsInRange yields the cells found between start and end, both
// included, ordered by line then column.
func (s *Store) CellsInRange(start, end layout.Position) iter.Seq2[layout.Position, any] {
	var (
		rg   = layout.NewRange(start, end).Normalize()
		from = blockKey{Line: rg.Starts.Line / s.blockSize, Column: rg.Starts.Column / s.blockSize}
		to   = blockKey{Line: rg.Ends.Line / s.blockSize, Column: rg.Ends.Column / s.blockSize}
	)
	keep := func(k blockKey) bool {
		return k.Line >= from.Line && k.Line <= to.Line && k.Column >= from.Column && k.Column <= to.Column
	}
	return s.cells(keep, rg.Contains)
}

func (s *Store) cells(keepBlock func(blockKey) bool, keepCell func(layout.Position) bool) iter.Seq2[layout.Position, any] {
	return func(yield func(layout.Position, any) bool) {
		var list []layout.Position
		for key, b := range s.blocks {
			if !keepBlock(key) {
				continue
			}
			for local := range b {
				pos := s.global(key, local)
				if keepCell(pos) {
					list = append(list, pos)
				}
			}
		}
		slices.SortFunc(list, comparePosition)
		for _, pos := range list {
			v, _ := s.Cell(pos.Line, pos.Column)
			if !yield(pos, v) {
				return
			}
		}
	}
}

// Optimize removes the blocks left without cells and returns how many were
// removed.
func (s *Store) Optimize() int {
	var count int
	for key, b := range s.blocks {
		if len(b) == 0 {
			delete(s.blocks, key)
			count++
		}
	}
	return count
}

func (s *Store) InsertLine(at int64) {
	s.remap(func(pos layout.Position) (layout.Position, bool) {
		if pos.Line >= at {
			pos.Line++
		}
		return pos, pos.Line < MaxLines
	})
}

func (s *Store) InsertColumn(at int64) {
	s.remap(func(pos layout.Position) (layout.Position, bool) {
		if pos.Column >= at {
			pos.Column++
		}
		return pos, pos.Column < MaxColumns
	})
}

// DeleteLine removes the cells of the given line and moves up the cells
// found below it.
func (s *Store) DeleteLine(at int64) {
	s.remap(func(pos layout.Position) (layout.Position, bool) {
		if pos.Line == at {
			return pos, false
		}
		if pos.Line > at {
			pos.Line--
		}
		return pos, true
	})
}

func (s *Store) DeleteColumn(at int64) {
	s.remap(func(pos layout.Position) (layout.Position, bool) {
		if pos.Column == at {
			return pos, false
		}
		if pos.Column > at {
			pos.Column--
		}
		return pos, true
	})
}

func (s *Store) remap(move func(layout.Position) (layout.Position, bool)) {
	blocks := s.blocks
	s.blocks = make(map[blockKey]block)
	s.totalCells = 0
	for key, b := range blocks {
		for local, v := range b {
			pos, ok := move(s.global(key, local))
			if !ok {
				continue
			}
			s.SetCell(pos.Line, pos.Column, v)
		}
	}
}

func (s *Store) locate(line, col int64) (blockKey, layout.Position) {
	key := blockKey{
		Line:   line / s.blockSize,
		Column: col / s.blockSize,
	}
	return key, layout.NewPosition(line%s.blockSize, col%s.blockSize)
}

func (s *Store) global(key blockKey, local layout.Position) layout.Position {
	return layout.NewPosition(key.Line*s.blockSize+local.Line, key.Column*s.blockSize+local.Column)
}

func (s *Store) blockKeys() []blockKey {
	return slices.SortedFunc(maps.Keys(s.blocks), func(a, b blockKey) int {
		if a.Line == b.Line {
			return int(a.Column - b.Column)
		}
		return int(a.Line - b.Line)
	})
}

func inBounds(line, col int64) bool {
	return layout.NewPosition(line, col).InGrid()
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	str, ok := v.(string)
	return ok && str == ""
}

func comparePosition(a, b layout.Position) int {
	switch {
	case a.Equal(b):
		return 0
	case a.Less(b):
		return -1
	default:
		return 1
	}
}
