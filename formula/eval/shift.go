package eval

import (
	"errors"
	"fmt"

	"github.com/midbel/gridcalc/layout"
)

var ErrDeletedRef = errors.New("reference to deleted cell")

type shiftMode int8

const (
	shiftOffset shiftMode = iota
	shiftInsertLine
	shiftInsertColumn
	shiftDeleteLine
	shiftDeleteColumn
)

// Shift describes how references move: either by a fixed offset or because
// of a single line/column insertion or deletion.
type Shift struct {
	mode    shiftMode
	at      int64
	lines   int64
	columns int64
}

func Offset(lines, columns int64) Shift {
	return Shift{
		mode:    shiftOffset,
		lines:   lines,
		columns: columns,
	}
}

func InsertLine(at int64) Shift {
	return Shift{
		mode: shiftInsertLine,
		at:   at,
	}
}

func InsertColumn(at int64) Shift {
	return Shift{
		mode: shiftInsertColumn,
		at:   at,
	}
}

func DeleteLine(at int64) Shift {
	return Shift{
		mode: shiftDeleteLine,
		at:   at,
	}
}

func DeleteColumn(at int64) Shift {
	return Shift{
		mode: shiftDeleteColumn,
		at:   at,
	}
}

func (s Shift) String() string {
	switch s.mode {
	case shiftOffset:
		return fmt.Sprintf("offset(%d, %d)", s.lines, s.columns)
	case shiftInsertLine:
		return fmt.Sprintf("insert-line(%d)", s.at)
	case shiftInsertColumn:
		return fmt.Sprintf("insert-column(%d)", s.at)
	case shiftDeleteLine:
		return fmt.Sprintf("delete-line(%d)", s.at)
	case shiftDeleteColumn:
		return fmt.Sprintf("delete-column(%d)", s.at)
	default:
		return "shift"
	}
}

// ShiftReference moves ref according to s. Absolute axes are left as is.
func ShiftReference(ref Reference, s Shift) (Reference, error) {
	var err error
	switch s.mode {
	case shiftOffset:
		if !ref.AbsLine {
			ref.Line += s.lines
		}
		if !ref.AbsColumn {
			ref.Column += s.columns
		}
		if !ref.InGrid() {
			err = fmt.Errorf("%w: reference moved outside of the grid", ErrReference)
		}
	case shiftInsertLine:
		if !ref.AbsLine && ref.Line >= s.at {
			ref.Line++
			if ref.Line >= layout.MaxLines {
				err = fmt.Errorf("%w: %s pushed outside of the grid", ErrReference, ref.Position.Addr())
			}
		}
	case shiftInsertColumn:
		if !ref.AbsColumn && ref.Column >= s.at {
			ref.Column++
			if ref.Column >= layout.MaxColumns {
				err = fmt.Errorf("%w: %s pushed outside of the grid", ErrReference, ref.Position.Addr())
			}
		}
	case shiftDeleteLine:
		if ref.AbsLine {
			break
		}
		if ref.Line == s.at {
			err = fmt.Errorf("%w: %s", ErrDeletedRef, ref.Position.Addr())
		} else if ref.Line > s.at {
			ref.Line--
		}
	case shiftDeleteColumn:
		if ref.AbsColumn {
			break
		}
		if ref.Column == s.at {
			err = fmt.Errorf("%w: %s", ErrDeletedRef, ref.Position.Addr())
		} else if ref.Column > s.at {
			ref.Column--
		}
	}
	return ref, err
}

func ShiftRange(rg RangeRef, s Shift) (RangeRef, error) {
	start, err := ShiftReference(rg.Start, s)
	if err != nil {
		return rg, err
	}
	end, err := ShiftReference(rg.End, s)
	if err != nil {
		return rg, err
	}
	return NewRangeRef(start, end), nil
}

// Rewrite applies s to every reference of expr and returns the new tree.
func Rewrite(expr Expr, s Shift) (Expr, error) {
	switch e := expr.(type) {
	case Number, Literal:
		return e, nil
	case Reference:
		return ShiftReference(e, s)
	case RangeRef:
		return ShiftRange(e, s)
	case Call:
		x := Call{
			Name: e.Name,
			Args: make([]Expr, 0, len(e.Args)),
		}
		for _, a := range e.Args {
			a, err := Rewrite(a, s)
			if err != nil {
				return nil, err
			}
			x.Args = append(x.Args, a)
		}
		return x, nil
	case Binary:
		left, err := Rewrite(e.Left, s)
		if err != nil {
			return nil, err
		}
		right, err := Rewrite(e.Right, s)
		if err != nil {
			return nil, err
		}
		return NewBinary(left, right, e.Op), nil
	case Unary:
		inner, err := Rewrite(e.Expr, s)
		if err != nil {
			return nil, err
		}
		return NewUnary(inner, e.Op), nil
	default:
		return nil, fmt.Errorf("%w: unsupported node %T", ErrEval, expr)
	}
}
