package eval

import (
	"fmt"

	"github.com/midbel/gridcalc/formula/op"
)

type Token struct {
	Literal string
	Type    op.Op
	// Offset is the 1 based character position of the token in the formula.
	Offset int
}

func (t Token) String() string {
	var str string
	switch t.Type {
	case op.Invalid:
		str = "invalid"
		if t.Literal == "" {
			return "<invalid>"
		}
	case op.EOF:
		return "<eof>"
	case op.Ident:
		str = "identifier"
	case op.Cell:
		str = "cell"
	case op.Number:
		str = "number"
	case op.Literal:
		str = "literal"
	case op.Add:
		return "<add>"
	case op.Sub:
		return "<subtract>"
	case op.Mul:
		return "<multiply>"
	case op.Div:
		return "<divide>"
	case op.Pow:
		return "<power>"
	case op.Eq:
		return "<equal>"
	case op.Ne:
		return "<notequal>"
	case op.Lt:
		return "<lesser>"
	case op.Le:
		return "<lesseq>"
	case op.Gt:
		return "<greater>"
	case op.Ge:
		return "<greateq>"
	case op.Comma:
		return "<comma>"
	case op.BegGrp:
		return "<beg-group>"
	case op.EndGrp:
		return "<end-group>"
	case op.RangeRef:
		return "<range>"
	}
	return fmt.Sprintf("%s(%s)", str, t.Literal)
}
