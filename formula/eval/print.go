package eval

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/midbel/gridcalc/formula/op"
	"github.com/midbel/gridcalc/layout"
)

const (
	precRange = iota
	precCmp
	precAdd
	precMul
	precPow
	precUnary
	precPrimary
)

// Format returns the canonical text of expr, without the leading equal sign.
// No blanks are emitted and parentheses are only written where the
// precedence of the operators requires them.
func Format(expr Expr) string {
	var str strings.Builder
	formatExpr(&str, expr)
	return str.String()
}

func formatExpr(w *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case Number:
		w.WriteString(strconv.FormatFloat(e.Value, 'f', -1, 64))
	case Literal:
		formatLiteral(w, e.Value)
	case Reference:
		w.WriteString(FormatReference(e))
	case RangeRef:
		w.WriteString(FormatRange(e))
	case Call:
		w.WriteString(e.Name)
		w.WriteByte(lparen)
		for i, a := range e.Args {
			if i > 0 {
				w.WriteByte(comma)
			}
			formatExpr(w, a)
		}
		w.WriteByte(rparen)
	case Binary:
		prec := precedence(e)
		formatOperand(w, e.Left, precedence(e.Left) < prec)
		w.WriteString(op.Symbol(e.Op))
		formatOperand(w, e.Right, precedence(e.Right) <= prec)
	case Unary:
		w.WriteString(op.Symbol(e.Op))
		formatOperand(w, e.Expr, precedence(e.Expr) < precUnary)
	default:
		fmt.Fprintf(w, "<%T>", e)
	}
}

func formatOperand(w *strings.Builder, expr Expr, group bool) {
	if group {
		w.WriteByte(lparen)
	}
	formatExpr(w, expr)
	if group {
		w.WriteByte(rparen)
	}
}

func formatLiteral(w *strings.Builder, str string) {
	w.WriteByte(dquote)
	for _, c := range str {
		if c == dquote || c == backslash {
			w.WriteByte(backslash)
		}
		w.WriteRune(c)
	}
	w.WriteByte(dquote)
}

func precedence(expr Expr) int {
	switch e := expr.(type) {
	case RangeRef:
		return precRange
	case Binary:
		switch e.Op {
		case op.Add, op.Sub:
			return precAdd
		case op.Mul, op.Div:
			return precMul
		case op.Pow:
			return precPow
		default:
			return precCmp
		}
	case Unary:
		return precUnary
	default:
		return precPrimary
	}
}

func FormatReference(ref Reference) string {
	var str strings.Builder
	if ref.AbsColumn {
		str.WriteByte(dollar)
	}
	str.WriteString(layout.ColumnLetter(ref.Column))
	if ref.AbsLine {
		str.WriteByte(dollar)
	}
	str.WriteString(strconv.FormatInt(ref.Line+1, 10))
	return str.String()
}

func FormatRange(rg RangeRef) string {
	return FormatReference(rg.Start) + ":" + FormatReference(rg.End)
}

// DumpExpr writes the structure of the tree, mostly for debugging purpose.
func DumpExpr(expr Expr) string {
	var buf bytes.Buffer
	dumpExpr(&buf, expr)
	return buf.String()
}

func dumpExpr(w io.Writer, expr Expr) {
	switch e := expr.(type) {
	case Literal:
		io.WriteString(w, "literal(")
		io.WriteString(w, e.Value)
		io.WriteString(w, ")")
	case Number:
		io.WriteString(w, "number(")
		io.WriteString(w, strconv.FormatFloat(e.Value, 'f', -1, 64))
		io.WriteString(w, ")")
	case Binary:
		io.WriteString(w, "binary(")
		dumpExpr(w, e.Left)
		io.WriteString(w, ", ")
		dumpExpr(w, e.Right)
		io.WriteString(w, ", ")
		io.WriteString(w, op.Symbol(e.Op))
		io.WriteString(w, ")")
	case Unary:
		io.WriteString(w, "unary(")
		dumpExpr(w, e.Expr)
		io.WriteString(w, ", ")
		io.WriteString(w, op.Symbol(e.Op))
		io.WriteString(w, ")")
	case Call:
		io.WriteString(w, "call(")
		io.WriteString(w, e.Name)
		io.WriteString(w, ", args: ")
		for i := range e.Args {
			if i > 0 {
				io.WriteString(w, ", ")
			}
			dumpExpr(w, e.Args[i])
		}
		io.WriteString(w, ")")
	case Reference:
		io.WriteString(w, "cell(")
		io.WriteString(w, e.Position.String())
		io.WriteString(w, ", ")
		io.WriteString(w, strconv.FormatBool(e.AbsColumn))
		io.WriteString(w, ", ")
		io.WriteString(w, strconv.FormatBool(e.AbsLine))
		io.WriteString(w, ")")
	case RangeRef:
		io.WriteString(w, "range(")
		dumpExpr(w, e.Start)
		io.WriteString(w, ", ")
		dumpExpr(w, e.End)
		io.WriteString(w, ")")
	default:
		io.WriteString(w, fmt.Sprintf("unknown(%T)", e))
	}
}
