package csv

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/midbel/gridcalc/format"
	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/layout"
)

// Import writes every non empty field of r into store, the first record
// going to line 0. Fields holding a number or a boolean are stored as
// such, fields starting with an equal sign are kept as formulas.
func Import(r io.Reader, store *grid.Store, comma byte) error {
	rs := NewReader(r)
	if comma != 0 {
		rs.Comma = comma
	}
	for line := int64(0); ; line++ {
		fields, err := rs.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		for col, f := range fields {
			if f == "" {
				continue
			}
			if err := store.SetCell(line, int64(col), parseField(f)); err != nil {
				return fmt.Errorf("%s: %w", layout.NewPosition(line, int64(col)).Addr(), err)
			}
		}
	}
	return nil
}

func parseField(str string) any {
	if strings.HasPrefix(str, "=") {
		return str
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
		return n
	}
	switch strings.ToUpper(str) {
	case "TRUE":
		return true
	case "FALSE":
		return false
	default:
		return str
	}
}

type ExportOption func(*exporter)

func WithComma(comma byte) ExportOption {
	return func(e *exporter) {
		e.comma = comma
	}
}

// WithRaw exports the content of the cells as stored: formulas are written
// as text instead of their value.
func WithRaw() ExportOption {
	return func(e *exporter) {
		e.raw = true
	}
}

func WithFormatter(f format.Formatter) ExportOption {
	return func(e *exporter) {
		e.formatter = f
	}
}

type exporter struct {
	comma     byte
	raw       bool
	formatter format.Formatter
}

// Export writes the area of sheet starting at A1 and holding all of its
// cells, one record per line.
func Export(w io.Writer, sheet *grid.Sheet, options ...ExportOption) error {
	ex := exporter{
		comma:     ',',
		formatter: format.FormatString(),
	}
	for _, o := range options {
		o(&ex)
	}
	ws := NewWriter(w)
	ws.Comma = ex.comma

	dim := sheet.Store().Dimension()
	for line := int64(0); line < dim.Lines; line++ {
		record := make([]string, dim.Columns)
		for col := range record {
			str, err := ex.field(sheet, line, int64(col))
			if err != nil {
				return fmt.Errorf("%s: %w", layout.NewPosition(line, int64(col)).Addr(), err)
			}
			record[col] = str
		}
		if err := ws.Write(record); err != nil {
			return err
		}
	}
	return ws.Flush()
}

func (e exporter) field(sheet *grid.Sheet, line, col int64) (string, error) {
	if e.raw {
		raw, ok := sheet.Store().Cell(line, col)
		if !ok {
			return "", nil
		}
		return fmt.Sprint(raw), nil
	}
	return e.formatter.Format(sheet.Value(line, col))
}
