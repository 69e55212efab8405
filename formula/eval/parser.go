package eval

import (
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/midbel/gridcalc/formula/op"
)

var ErrSyntax = errors.New("syntax error")

// SyntaxError reports the first problem met while parsing a formula. Pos
// is the 1 based position of the offending character.
type SyntaxError struct {
	Pos int
	Msg string
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrSyntax
}

type Parser struct {
	scan *Scanner
	curr Token
	peek Token

	grammar *Grammar
	upper   cases.Caser
}

// Parse turns formula text into a tree. The text may start with an equal
// sign.
func Parse(str string) (Expr, error) {
	return NewParser(FormulaGrammar()).ParseString(str)
}

func NewParser(g *Grammar) *Parser {
	return &Parser{
		grammar: g,
		upper:   cases.Upper(language.Und),
	}
}

func (p *Parser) ParseString(str string) (Expr, error) {
	p.scan = Scan(str)
	p.next()
	p.next()
	if p.done() {
		return nil, p.makeError("empty formula")
	}
	expr, err := p.parse(powLowest)
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.unexpected()
	}
	return expr, nil
}

func (p *Parser) parse(pow int) (Expr, error) {
	fn, ok := p.grammar.Prefix(p.curr)
	if !ok {
		return nil, p.unexpected()
	}
	left, err := fn(p)
	if err != nil {
		return nil, err
	}
	for !p.done() && pow < p.pow(p.curr.Type) {
		fn, ok := p.grammar.Infix(p.curr)
		if !ok {
			return nil, p.unexpected()
		}
		left, err = fn(p, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) next() {
	p.curr = p.peek
	p.peek = p.scan.Scan()
}

func (p *Parser) done() bool {
	return p.is(op.EOF)
}

func (p *Parser) is(kind op.Op) bool {
	return p.curr.Type == kind
}

func (p *Parser) currentLiteral() string {
	return p.curr.Literal
}

func (p *Parser) pow(kind op.Op) int {
	return p.grammar.Pow(kind)
}

func (p *Parser) makeError(msg string) error {
	return &SyntaxError{
		Pos: p.curr.Offset,
		Msg: msg,
	}
}

func (p *Parser) wrapError(err error) error {
	return &SyntaxError{
		Pos: p.curr.Offset,
		Msg: err.Error(),
		Err: err,
	}
}

func (p *Parser) unexpected() error {
	switch p.curr.Type {
	case op.EOF:
		return p.makeError("unexpected end of formula")
	case op.EndGrp:
		return p.makeError("unmatched parenthesis")
	case op.Invalid:
		if p.curr.Literal == "unterminated string" {
			return p.makeError(p.curr.Literal)
		}
		return p.makeError(fmt.Sprintf("unexpected character %q", p.curr.Literal))
	default:
		return p.makeError(fmt.Sprintf("unexpected token %s", p.curr))
	}
}

func parseCall(p *Parser) (Expr, error) {
	name := p.upper.String(p.currentLiteral())
	p.next()
	p.next()
	var args []Expr
	for !p.done() && !p.is(op.EndGrp) {
		arg, err := p.parse(powLowest)
		if err != nil {
			return nil, err
		}
		switch p.curr.Type {
		case op.Comma:
			p.next()
			if p.is(op.EndGrp) {
				return nil, p.makeError(fmt.Sprintf("unexpected token %s", p.curr))
			}
		case op.EndGrp:
		case op.EOF:
			return nil, p.makeError("unmatched parenthesis")
		default:
			return nil, p.unexpected()
		}
		args = append(args, arg)
	}
	if !p.is(op.EndGrp) {
		return nil, p.makeError("unmatched parenthesis")
	}
	p.next()
	return NewCall(name, args), nil
}

func parseBinary(p *Parser, left Expr) (Expr, error) {
	oper := p.curr.Type
	p.next()
	right, err := p.parse(p.pow(oper))
	if err != nil {
		return nil, err
	}
	return NewBinary(left, right, oper), nil
}

func parseUnary(p *Parser) (Expr, error) {
	oper := p.curr.Type
	p.next()
	right, err := p.parse(powUnary)
	if err != nil {
		return nil, err
	}
	return NewUnary(right, oper), nil
}

func parseGroup(p *Parser) (Expr, error) {
	p.next()
	expr, err := p.parse(powLowest)
	if err != nil {
		return nil, err
	}
	if !p.is(op.EndGrp) {
		if p.done() {
			return nil, p.makeError("unmatched parenthesis")
		}
		return nil, p.unexpected()
	}
	p.next()
	return expr, nil
}

func parseNumber(p *Parser) (Expr, error) {
	x, err := strconv.ParseFloat(p.currentLiteral(), 64)
	if err != nil {
		return nil, p.makeError(fmt.Sprintf("invalid number %s", p.currentLiteral()))
	}
	p.next()
	return NewNumber(x), nil
}

func parseLiteral(p *Parser) (Expr, error) {
	defer p.next()
	return NewLiteral(p.currentLiteral()), nil
}

func parseIdentifier(p *Parser) (Expr, error) {
	if p.peek.Type == op.BegGrp {
		return parseCall(p)
	}
	err := fmt.Errorf("%w: %s", ErrReference, p.currentLiteral())
	return nil, p.wrapError(err)
}

func parseAddress(p *Parser) (Expr, error) {
	if p.peek.Type == op.BegGrp {
		return parseCall(p)
	}
	ref, err := ParseReference(p.currentLiteral())
	if err != nil {
		return nil, p.wrapError(err)
	}
	p.next()
	return ref, nil
}

func parseRangeAddress(p *Parser, left Expr) (Expr, error) {
	start, ok := left.(Reference)
	if !ok {
		return nil, p.makeError("range: reference expected before ':'")
	}
	p.next()
	if !p.is(op.Cell) || p.peek.Type == op.BegGrp {
		return nil, p.makeError("range: reference expected after ':'")
	}
	addr, err := parseAddress(p)
	if err != nil {
		return nil, err
	}
	return NewRangeRef(start, addr.(Reference)), nil
}
