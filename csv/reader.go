package csv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	quote = '"'
	nl    = '\n'
	cr    = '\r'
	space = ' '
)

var (
	ErrQuote        = errors.New("bare quote in field")
	ErrFieldCount   = errors.New("wrong number of fields")
	errUnterminated = errors.New("unterminated quoted field")
)

type Reader struct {
	inner         *bufio.Reader
	Comma         byte
	FieldsPerLine int

	line  int
	atEOF bool
}

func NewReader(r io.Reader) *Reader {
	rs := Reader{
		inner: bufio.NewReader(r),
		Comma: ',',
	}
	return &rs
}

func (r *Reader) Done() bool {
	return r.atEOF
}

// Line gives the number of the last record read.
func (r *Reader) Line() int {
	return r.line
}

func (r *Reader) ReadAll() ([][]string, error) {
	var all [][]string
	for {
		rs, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		all = append(all, rs)
	}
	return all, nil
}

func (r *Reader) Read() ([]string, error) {
	if r.Done() {
		return nil, io.EOF
	}
	line, err := r.inner.ReadBytes(nl)
	if errors.Is(err, io.EOF) {
		r.atEOF = true
		if len(line) == 0 {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	r.line++

	var res []string
	for i := 0; ; {
		var (
			field string
			size  int
			err   error
		)
		if i < len(line) && line[i] == quote {
			for {
				field, size, err = r.readQuotedField(line[i:])
				if !errors.Is(err, errUnterminated) || r.atEOF {
					break
				}
				next, err1 := r.inner.ReadBytes(nl)
				if err1 != nil {
					if !errors.Is(err1, io.EOF) {
						return nil, err1
					}
					r.atEOF = true
				}
				line = append(line, next...)
			}
		} else {
			field, size, err = r.readDefaultField(line[i:])
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		res = append(res, field)
		i += size
		if i >= len(line) || line[i] == nl || line[i] == cr {
			break
		}
		if line[i] != r.Comma {
			return nil, fmt.Errorf("line %d: unexpected character after field", r.line)
		}
		i++
	}
	if r.FieldsPerLine > 0 && len(res) != r.FieldsPerLine {
		return nil, fmt.Errorf("line %d: %w", r.line, ErrFieldCount)
	}
	return res, nil
}

func (r *Reader) readQuotedField(line []byte) (string, int, error) {
	var (
		str    strings.Builder
		offset = 1
	)
	for offset < len(line) {
		if line[offset] == quote {
			if offset+1 < len(line) && line[offset+1] == quote {
				str.WriteByte(quote)
				offset += 2
				continue
			}
			return str.String(), offset + 1, nil
		}
		str.WriteByte(line[offset])
		offset++
	}
	return "", 0, errUnterminated
}

func (r *Reader) readDefaultField(line []byte) (string, int, error) {
	var offset int
	for offset < len(line) {
		switch line[offset] {
		case quote:
			return "", 0, ErrQuote
		case r.Comma, cr, nl:
			return string(line[:offset]), offset, nil
		default:
			offset++
		}
	}
	return string(line[:offset]), offset, nil
}
