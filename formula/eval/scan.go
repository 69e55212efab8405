package eval

import (
	"bytes"
	"unicode/utf8"

	"github.com/midbel/gridcalc/formula/op"
)

type Scanner struct {
	input []byte
	pos   int
	next  int
	char  rune
	// column of the current character, 1 based
	column int

	buf bytes.Buffer
}

func Scan(str string) *Scanner {
	scan := Scanner{
		input: []byte(str),
	}
	scan.read()
	if scan.char == equal {
		scan.read()
	}
	return &scan
}

// Tokenize returns every token of the formula, the last one being EOF or
// the first invalid token met.
func Tokenize(str string) []Token {
	var (
		scan = Scan(str)
		list []Token
	)
	for {
		tok := scan.Scan()
		list = append(list, tok)
		if tok.Type == op.EOF || tok.Type == op.Invalid {
			break
		}
	}
	return list
}

func (s *Scanner) Scan() Token {
	s.skipBlanks()

	var tok Token
	tok.Offset = s.column
	if s.done() {
		tok.Type = op.EOF
		return tok
	}
	defer s.reset()
	switch {
	case isOperator(s.char):
		s.scanOperator(&tok)
	case isDelimiter(s.char):
		s.scanDelimiter(&tok)
	case isQuote(s.char):
		s.scanLiteral(&tok)
	case isDigit(s.char) || (s.char == dot && isDigit(s.peek())):
		s.scanNumber(&tok)
	case isLetter(s.char) || s.char == dollar:
		s.scanIdent(&tok)
	default:
		tok.Type = op.Invalid
		tok.Literal = string(s.char)
		s.read()
	}
	return tok
}

func (s *Scanner) scanIdent(tok *Token) {
	reco := recognizeCell()
	for !s.done() && isAlpha(s.char) {
		reco.Update(s.char)
		s.write()
		s.read()
	}
	tok.Type = op.Ident
	tok.Literal = s.literal()
	if reco.IsCell() {
		tok.Type = op.Cell
	}
}

func (s *Scanner) scanNumber(tok *Token) {
	tok.Type = op.Number
	for !s.done() && isDigit(s.char) {
		s.write()
		s.read()
	}
	if s.char == dot {
		s.write()
		s.read()
		for !s.done() && isDigit(s.char) {
			s.write()
			s.read()
		}
	}
	tok.Literal = s.literal()
}

func (s *Scanner) scanLiteral(tok *Token) {
	s.read()
	for !s.done() && !isQuote(s.char) {
		if s.char == backslash {
			s.read()
			if s.done() {
				break
			}
		}
		s.write()
		s.read()
	}
	tok.Type = op.Literal
	tok.Literal = s.literal()
	if isQuote(s.char) {
		s.read()
	} else {
		tok.Type = op.Invalid
		tok.Literal = "unterminated string"
	}
}

func (s *Scanner) scanOperator(tok *Token) {
	tok.Type = op.Invalid
	switch s.char {
	case plus:
		tok.Type = op.Add
	case minus:
		tok.Type = op.Sub
	case star:
		tok.Type = op.Mul
	case slash:
		tok.Type = op.Div
	case caret:
		tok.Type = op.Pow
	case langle:
		tok.Type = op.Lt
		if k := s.peek(); k == equal {
			s.read()
			tok.Type = op.Le
		} else if k == rangle {
			s.read()
			tok.Type = op.Ne
		}
	case rangle:
		tok.Type = op.Gt
		if s.peek() == equal {
			s.read()
			tok.Type = op.Ge
		}
	case equal:
		tok.Type = op.Eq
	case colon:
		tok.Type = op.RangeRef
	default:
	}
	s.read()
}

func (s *Scanner) scanDelimiter(tok *Token) {
	tok.Type = op.Invalid
	switch s.char {
	case comma:
		tok.Type = op.Comma
	case lparen:
		tok.Type = op.BegGrp
	case rparen:
		tok.Type = op.EndGrp
	default:
	}
	s.read()
}

func (s *Scanner) literal() string {
	return s.buf.String()
}

func (s *Scanner) write() {
	s.buf.WriteRune(s.char)
}

func (s *Scanner) reset() {
	s.buf.Reset()
}

func (s *Scanner) read() {
	if s.next >= len(s.input) {
		s.char = 0
		s.pos = len(s.input)
		s.column++
		return
	}
	r, n := utf8.DecodeRune(s.input[s.next:])
	s.char, s.pos, s.next = r, s.next, s.next+n
	s.column++
}

func (s *Scanner) peek() rune {
	if s.next >= len(s.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(s.input[s.next:])
	return r
}

func (s *Scanner) done() bool {
	return s.pos >= len(s.input)
}

func (s *Scanner) skipBlanks() {
	for !s.done() && isBlank(s.char) {
		s.read()
	}
}

type recoMode int

const (
	cellCol recoMode = iota // reading column (A-Z)
	cellRow                 // reading row (1-9 then 0-9)
	cellStart
	cellAbsCol // reading first column letter after $
	cellAbsRow
	cellDead // invalid
)

type cellRecognizer struct {
	state recoMode
}

func recognizeCell() *cellRecognizer {
	return &cellRecognizer{
		state: cellStart,
	}
}

func (c *cellRecognizer) Update(ch rune) {
	switch c.state {
	case cellStart:
		if ch == dollar {
			c.state = cellAbsCol
			break
		}
		if isLetter(ch) {
			c.state = cellCol
			break
		}
		c.toDead()
	case cellAbsCol:
		if isLetter(ch) {
			c.state = cellCol
			break
		}
		c.toDead()
	case cellAbsRow:
		if isDigit(ch) && ch != '0' {
			c.state = cellRow
			break
		}
		c.toDead()
	case cellCol:
		if isLetter(ch) {
			break
		}
		if ch == dollar {
			c.state = cellAbsRow
			break
		}
		if isDigit(ch) && ch != '0' {
			c.state = cellRow
			break
		}
		c.toDead()
	case cellRow:
		if isDigit(ch) {
			break
		}
		c.toDead()
	}
}

func (c *cellRecognizer) IsCell() bool {
	return c.state == cellRow
}

func (c *cellRecognizer) toDead() {
	c.state = cellDead
}

const (
	underscore = '_'
	comma      = ','
	rparen     = ')'
	lparen     = '('
	dquote     = '"'
	space      = ' '
	tab        = '\t'
	nl         = '\n'
	cr         = '\r'
	plus       = '+'
	minus      = '-'
	star       = '*'
	slash      = '/'
	backslash  = '\\'
	caret      = '^'
	equal      = '='
	langle     = '<'
	rangle     = '>'
	colon      = ':'
	dot        = '.'
	dollar     = '$'
)

func isQuote(c rune) bool {
	return c == dquote
}

func isLower(c rune) bool {
	return c >= 'a' && c <= 'z'
}

func isUpper(c rune) bool {
	return c >= 'A' && c <= 'Z'
}

func isLetter(c rune) bool {
	return isLower(c) || isUpper(c)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c rune) bool {
	return isLetter(c) || isDigit(c) || c == dollar || c == underscore || c == dot
}

func isBlank(c rune) bool {
	return c == space || c == tab || c == nl || c == cr
}

func isDelimiter(c rune) bool {
	return c == lparen || c == rparen || c == comma
}

func isOperator(c rune) bool {
	return c == plus || c == minus || c == slash || c == star ||
		c == langle || c == rangle || c == colon || c == equal ||
		c == caret
}
