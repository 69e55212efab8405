package format

import (
	"github.com/midbel/gridcalc/value"
)

const DefaultNumberPattern = "#######.00"

type Formatter interface {
	Format(value.Value) (string, error)
}

// ValueFormatter picks a formatter from the type of the value given. Values
// without formatter are rendered with their String method.
type ValueFormatter struct {
	formatters map[string]Formatter
}

func FormatValue() *ValueFormatter {
	vf := ValueFormatter{
		formatters: make(map[string]Formatter),
	}
	return &vf
}

func (vf *ValueFormatter) Set(kind string, formatter Formatter) {
	vf.formatters[kind] = formatter
}

func (vf *ValueFormatter) Number(pattern string) error {
	f, err := ParseNumberFormatter(pattern)
	if err == nil {
		vf.Set(value.TypeNumber, f)
	}
	return err
}

// Format renders v with the formatter set for its type. Arrays are rendered
// value by value.
func (vf *ValueFormatter) Format(v value.Value) (string, error) {
	if arr, ok := v.(value.Array); ok {
		return formatArray(arr, vf.Format)
	}
	f, ok := vf.formatters[v.Type()]
	if ok {
		return f.Format(v)
	}
	return v.String(), nil
}

func FormatString() Formatter {
	return strFormatter{}
}

type strFormatter struct{}

func (strFormatter) Format(v value.Value) (string, error) {
	return v.String(), nil
}

// FormatEmpty renders blank cells with str.
func FormatEmpty(str string) Formatter {
	return constFormatter(str)
}

type constFormatter string

func (f constFormatter) Format(_ value.Value) (string, error) {
	return string(f), nil
}
