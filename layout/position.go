package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrAddress = errors.New("invalid address")

// Position is a zero based grid coordinate. Its textual form is the usual
// spreadsheet address where line 0 is written as row 1.
type Position struct {
	Line   int64
	Column int64
}

func NewPosition(line, col int64) Position {
	return Position{
		Line:   line,
		Column: col,
	}
}

func ParsePosition(addr string) (Position, error) {
	var pos Position
	col, offset := parseLetters(addr)
	if offset == 0 {
		return pos, fmt.Errorf("%w: %q missing column", ErrAddress, addr)
	}
	if offset >= len(addr) || addr[offset] == '0' {
		return pos, fmt.Errorf("%w: %q missing row", ErrAddress, addr)
	}
	line, err := strconv.ParseInt(addr[offset:], 10, 64)
	if err != nil || line <= 0 {
		return pos, fmt.Errorf("%w: %q invalid row", ErrAddress, addr)
	}
	pos.Column = col
	pos.Line = line - 1
	return pos, nil
}

func (p Position) Equal(other Position) bool {
	return p.Line == other.Line && p.Column == other.Column
}

func (p Position) Less(other Position) bool {
	if p.Line == other.Line {
		return p.Column < other.Column
	}
	return p.Line < other.Line
}

func (p Position) Add(other Position) Position {
	p.Line += other.Line
	p.Column += other.Column
	return p
}

func (p Position) Sub(other Position) Position {
	p.Line -= other.Line
	p.Column -= other.Column
	return p
}

func (p Position) Valid() bool {
	return p.Line >= 0 && p.Column >= 0
}

// InGrid reports whether p lies inside the grid.
func (p Position) InGrid() bool {
	return p.Valid() && p.Line < MaxLines && p.Column < MaxColumns
}

func (p Position) Addr() string {
	var str strings.Builder
	str.WriteString(ColumnLetter(p.Column))
	str.WriteString(strconv.FormatInt(p.Line+1, 10))
	return str.String()
}

func (p Position) String() string {
	return p.Addr()
}

// ColumnLetter converts a zero based column index to its bijective base 26
// name: 0 is A, 25 is Z, 26 is AA.
func ColumnLetter(ix int64) string {
	if ix < 0 {
		return ""
	}
	var buf []byte
	for ix++; ix > 0; ix /= 26 {
		ix--
		buf = append(buf, byte('A'+ix%26))
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

func ColumnIndex(str string) (int64, error) {
	ix, offset := parseLetters(str)
	if offset == 0 || offset != len(str) {
		return 0, fmt.Errorf("%w: %q is not a column name", ErrAddress, str)
	}
	return ix, nil
}

func parseLetters(str string) (int64, int) {
	var (
		offset int
		index  int64
	)
	for offset < len(str) && isLetter(rune(str[offset])) {
		delta := byte('A')
		if isLower(rune(str[offset])) {
			delta = 'a'
		}
		index = index*26 + int64(str[offset]-delta+1)
		offset++
	}
	return index - 1, offset
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
