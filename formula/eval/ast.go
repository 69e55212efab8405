package eval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/midbel/gridcalc/formula/op"
	"github.com/midbel/gridcalc/layout"
)

var ErrReference = errors.New("invalid reference")

// maximum number of letters accepted in the column part of a reference
const maxLetters = 7

// Expr is one of Number, Literal, Reference, RangeRef, Call, Binary or
// Unary. Nodes are values: rewriting a tree always builds a new one.
type Expr interface {
	fmt.Stringer
}

type Number struct {
	Value float64
}

func NewNumber(f float64) Number {
	return Number{Value: f}
}

func (n Number) String() string {
	return Format(n)
}

type Literal struct {
	Value string
}

func NewLiteral(str string) Literal {
	return Literal{Value: str}
}

func (i Literal) String() string {
	return Format(i)
}

type Reference struct {
	layout.Position
	AbsLine   bool
	AbsColumn bool
}

func NewReference(pos layout.Position) Reference {
	return Reference{Position: pos}
}

func (r Reference) String() string {
	return FormatReference(r)
}

type RangeRef struct {
	Start Reference
	End   Reference
}

func NewRangeRef(start, end Reference) RangeRef {
	return RangeRef{
		Start: start,
		End:   end,
	}
}

func (r RangeRef) String() string {
	return FormatRange(r)
}

// Range returns the normalized area covered by r.
func (r RangeRef) Range() *layout.Range {
	return layout.NewRange(r.Start.Position, r.End.Position).Normalize()
}

type Call struct {
	Name string
	Args []Expr
}

func NewCall(name string, args []Expr) Call {
	return Call{
		Name: name,
		Args: args,
	}
}

func (c Call) String() string {
	return Format(c)
}

type Binary struct {
	Op    op.Op
	Left  Expr
	Right Expr
}

func NewBinary(left, right Expr, oper op.Op) Binary {
	return Binary{
		Op:    oper,
		Left:  left,
		Right: right,
	}
}

func (b Binary) String() string {
	return Format(b)
}

type Unary struct {
	Op   op.Op
	Expr Expr
}

func NewUnary(expr Expr, oper op.Op) Unary {
	return Unary{
		Op:   oper,
		Expr: expr,
	}
}

func (u Unary) String() string {
	return Format(u)
}

// ParseReference parses a single cell reference such as B2, $B2, B$2 or
// $B$2. Column letters may be given in lower case.
func ParseReference(str string) (Reference, error) {
	var (
		ref    Reference
		offset int
	)
	if str == "" {
		return ref, fmt.Errorf("%w: empty reference", ErrReference)
	}
	if str[offset] == dollar {
		ref.AbsColumn = true
		offset++
	}
	start := offset
	for offset < len(str) && isLetter(rune(str[offset])) {
		offset++
	}
	if offset == start || offset-start > maxLetters {
		return ref, fmt.Errorf("%w: %q: invalid column", ErrReference, str)
	}
	col, err := layout.ColumnIndex(str[start:offset])
	if err != nil {
		return ref, fmt.Errorf("%w: %q: invalid column", ErrReference, str)
	}
	if offset < len(str) && str[offset] == dollar {
		ref.AbsLine = true
		offset++
	}
	rest := str[offset:]
	if rest == "" || rest[0] == '0' || strings.IndexFunc(rest, func(r rune) bool { return !isDigit(r) }) >= 0 {
		return ref, fmt.Errorf("%w: %q: invalid row", ErrReference, str)
	}
	line, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return ref, fmt.Errorf("%w: %q: invalid row", ErrReference, str)
	}
	ref.Line = line - 1
	ref.Column = col
	return ref, nil
}

// ParseRange parses two references separated by a colon.
func ParseRange(str string) (RangeRef, error) {
	var rg RangeRef
	left, right, ok := strings.Cut(str, ":")
	if !ok {
		return rg, fmt.Errorf("%w: %q: missing colon in range", ErrReference, str)
	}
	start, err := ParseReference(left)
	if err != nil {
		return rg, err
	}
	end, err := ParseReference(right)
	if err != nil {
		return rg, err
	}
	return NewRangeRef(start, end), nil
}
