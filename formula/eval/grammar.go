package eval

import (
	"github.com/midbel/gridcalc/formula/op"
)

const (
	powLowest = iota
	powRange
	powCmp
	powAdd
	powMul
	powPow
	powUnary
)

type (
	PrefixFunc func(*Parser) (Expr, error)
	InfixFunc  func(*Parser, Expr) (Expr, error)
)

type Grammar struct {
	name string

	prefix   map[op.Op]PrefixFunc
	infix    map[op.Op]InfixFunc
	bindings map[op.Op]int
}

func NewGrammar(name string) *Grammar {
	g := Grammar{
		name:     name,
		prefix:   make(map[op.Op]PrefixFunc),
		infix:    make(map[op.Op]InfixFunc),
		bindings: make(map[op.Op]int),
	}
	return &g
}

func FormulaGrammar() *Grammar {
	g := NewGrammar("formula")

	g.RegisterPrefix(op.Cell, parseAddress)
	g.RegisterPrefix(op.Ident, parseIdentifier)
	g.RegisterPrefix(op.Number, parseNumber)
	g.RegisterPrefix(op.Literal, parseLiteral)
	g.RegisterPrefix(op.Sub, parseUnary)
	g.RegisterPrefix(op.Add, parseUnary)
	g.RegisterPrefix(op.BegGrp, parseGroup)

	g.RegisterInfix(op.RangeRef, parseRangeAddress)
	g.RegisterInfix(op.Add, parseBinary)
	g.RegisterInfix(op.Sub, parseBinary)
	g.RegisterInfix(op.Mul, parseBinary)
	g.RegisterInfix(op.Div, parseBinary)
	g.RegisterInfix(op.Pow, parseBinary)
	g.RegisterInfix(op.Eq, parseBinary)
	g.RegisterInfix(op.Ne, parseBinary)
	g.RegisterInfix(op.Lt, parseBinary)
	g.RegisterInfix(op.Le, parseBinary)
	g.RegisterInfix(op.Gt, parseBinary)
	g.RegisterInfix(op.Ge, parseBinary)

	g.RegisterBinding(op.RangeRef, powRange)
	for _, kd := range []op.Op{op.Eq, op.Ne, op.Lt, op.Le, op.Gt, op.Ge} {
		g.RegisterBinding(kd, powCmp)
	}
	g.RegisterBinding(op.Add, powAdd)
	g.RegisterBinding(op.Sub, powAdd)
	g.RegisterBinding(op.Mul, powMul)
	g.RegisterBinding(op.Div, powMul)
	g.RegisterBinding(op.Pow, powPow)

	return g
}

func (g *Grammar) Context() string {
	return g.name
}

func (g *Grammar) Pow(kind op.Op) int {
	pow, ok := g.bindings[kind]
	if !ok {
		pow = powLowest
	}
	return pow
}

func (g *Grammar) Prefix(tok Token) (PrefixFunc, bool) {
	fn, ok := g.prefix[tok.Type]
	return fn, ok
}

func (g *Grammar) Infix(tok Token) (InfixFunc, bool) {
	fn, ok := g.infix[tok.Type]
	return fn, ok
}

func (g *Grammar) RegisterPrefix(kd op.Op, fn PrefixFunc) {
	g.prefix[kd] = fn
}

func (g *Grammar) RegisterInfix(kd op.Op, fn InfixFunc) {
	g.infix[kd] = fn
}

func (g *Grammar) RegisterBinding(kd op.Op, pow int) {
	g.bindings[kd] = pow
}
