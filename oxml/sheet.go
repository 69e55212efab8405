package oxml

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	sax "github.com/midbel/codecs/xml"

	"github.com/midbel/gridcalc/formula/eval"
	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/layout"
)

type sharedFormula struct {
	layout.Position
	Expr eval.Expr
}

type cell struct {
	layout.Position
	Type    string
	raw     any
	formula string
}

type sheetReader struct {
	reader         *sax.Reader
	store          *grid.Store
	sharedStrings  []string
	sharedFormulas map[string]sharedFormula

	curr *cell
	err  error
}

// LoadSheet reads the cells of a worksheet document into store. Formulas
// are stored as their text prefixed with an equal sign, shared formulas
// being expanded for every cell using them.
func LoadSheet(r io.Reader, store *grid.Store, shared []string) error {
	rs := sheetReader{
		reader:         sax.NewReader(r),
		store:          store,
		sharedStrings:  shared,
		sharedFormulas: make(map[string]sharedFormula),
	}
	return rs.Update()
}

func (r *sheetReader) Update() error {
	r.reader.Element(sax.LocalName("c"), r.onCell)
	if err := r.reader.Start(); err != nil {
		return err
	}
	r.flush()
	return r.err
}

func (r *sheetReader) flush() {
	c := r.curr
	r.curr = nil
	if c == nil || r.err != nil {
		return
	}
	v := c.raw
	if c.formula != "" {
		v = "=" + c.formula
	}
	if v == nil {
		return
	}
	if err := r.store.SetCell(c.Line, c.Column, v); err != nil {
		r.err = fmt.Errorf("%s: %w", c.Addr(), err)
	}
}

func (r *sheetReader) parseCellValue(c *cell, str string) error {
	switch c.Type {
	case TypeSharedStr:
		n, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return fmt.Errorf("%w: invalid shared string index: %s", ErrFile, str)
		}
		if n < 0 || n >= len(r.sharedStrings) {
			return fmt.Errorf("%w: shared string index out of bounds", ErrFile)
		}
		c.raw = r.sharedStrings[n]
	case TypeInlineStr, TypeFormula, TypeError, TypeDate:
		c.raw = str
	case TypeBool:
		b, err := strconv.ParseBool(strings.TrimSpace(str))
		if err != nil {
			return err
		}
		c.raw = b
	default:
		n, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			c.raw = str
		} else {
			c.raw = n
		}
	}
	return nil
}

func (r *sheetReader) parseCellFormula(c *cell, el sax.E, rs *sax.Reader) error {
	var (
		shared = el.GetAttributeValue("t") == "shared"
		index  = el.GetAttributeValue("si")
	)
	if sf, ok := r.sharedFormulas[index]; shared && ok {
		diff := c.Position.Sub(sf.Position)
		expr, err := eval.Rewrite(sf.Expr, eval.Offset(diff.Line, diff.Column))
		if err != nil {
			return fmt.Errorf("%s: %w", c.Addr(), err)
		}
		c.formula = eval.Format(expr)
	}
	if el.SelfClosed {
		return nil
	}
	rs.OnText(func(_ *sax.Reader, str string) error {
		expr, err := eval.Parse(str)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Addr(), err)
		}
		if _, ok := r.sharedFormulas[index]; shared && !ok {
			r.sharedFormulas[index] = sharedFormula{
				Position: c.Position,
				Expr:     expr,
			}
		}
		if c.formula == "" {
			c.formula = eval.Format(expr)
		}
		return nil
	})
	return nil
}

func (r *sheetReader) onCell(rs *sax.Reader, el sax.E) error {
	r.flush()
	if r.err != nil {
		return r.err
	}
	pos, err := layout.ParsePosition(el.GetAttributeValue("r"))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrFile, err)
	}
	c := &cell{
		Position: pos,
		Type:     el.GetAttributeValue("t"),
	}
	r.curr = c

	local := sax.LocalName("v")
	if c.Type == TypeInlineStr {
		local = sax.LocalName("is")
	}
	rs.Element(local, func(rs *sax.Reader, _ sax.E) error {
		rs.OnText(func(_ *sax.Reader, str string) error {
			return r.parseCellValue(c, str)
		})
		return nil
	})
	rs.Element(sax.LocalName("f"), func(rs *sax.Reader, el sax.E) error {
		return r.parseCellFormula(c, el, rs)
	})
	return nil
}
