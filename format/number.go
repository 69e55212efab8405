package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/midbel/gridcalc/value"
)

var ErrPattern = errors.New("invalid number pattern")

const (
	decimalSep  = '.'
	thousandSep = ','
)

// numberPattern renders numbers from patterns such as "#,##0.00": 0 is a
// mandatory digit and # an optional one. A comma in the integral part groups
// digits by thousands, a leading + forces the sign.
type numberPattern struct {
	sign     bool
	grouping bool
	// mandatory digits of the integral part
	digits  int
	minFrac int
	maxFrac int
}

func ParseNumberFormatter(pattern string) (Formatter, error) {
	np, err := parsePattern(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %s", ErrPattern, pattern, err)
	}
	return np, nil
}

func parsePattern(pattern string) (numberPattern, error) {
	var np numberPattern
	str, sign := strings.CutPrefix(pattern, "+")
	np.sign = sign

	whole, frac, _ := strings.Cut(str, string(decimalSep))
	if whole == "" {
		return np, errors.New("integral part missing")
	}
	for _, c := range whole {
		switch {
		case c == thousandSep:
			np.grouping = true
		case c == '#' && np.digits == 0:
		case c == '0':
			np.digits++
		default:
			return np, fmt.Errorf("unexpected %q in integral part", c)
		}
	}
	for _, c := range frac {
		switch {
		case c == '0' && np.minFrac == np.maxFrac:
			np.minFrac++
			np.maxFrac++
		case c == '#':
			np.maxFrac++
		default:
			return np, fmt.Errorf("unexpected %q in fractional part", c)
		}
	}
	return np, nil
}

// Format renders numbers with the pattern. Error values are given back as is
// and the numbers of an array are rendered one by one.
func (np numberPattern) Format(v value.Value) (string, error) {
	switch v := v.(type) {
	case value.Float:
		return np.render(float64(v)), nil
	case value.Error:
		return v.String(), nil
	case value.Array:
		return formatArray(v, func(v value.Value) (string, error) {
			if f, ok := v.(value.Float); ok {
				return np.render(float64(f)), nil
			}
			return v.String(), nil
		})
	default:
		return "", fmt.Errorf("%s: value is not a number", v.Type())
	}
}

func (np numberPattern) render(f float64) string {
	var (
		str         = strconv.FormatFloat(math.Abs(f), 'f', np.maxFrac, 64)
		whole, frac = splitNumber(str)
		buf         strings.Builder
	)
	frac = strings.TrimRight(frac, "0")
	if n := np.minFrac - len(frac); n > 0 {
		frac += strings.Repeat("0", n)
	}
	if n := np.digits - len(whole); n > 0 {
		whole = strings.Repeat("0", n) + whole
	}
	// a number rounded to zero loses its sign
	switch {
	case f < 0 && strings.Trim(str, "0.") != "":
		buf.WriteByte('-')
	case np.sign:
		buf.WriteByte('+')
	}
	if np.grouping {
		whole = groupThousands(whole)
	}
	buf.WriteString(whole)
	if frac != "" {
		buf.WriteByte(decimalSep)
		buf.WriteString(frac)
	}
	return buf.String()
}

func splitNumber(str string) (string, string) {
	whole, frac, _ := strings.Cut(str, ".")
	return whole, frac
}

func groupThousands(digits string) string {
	var buf strings.Builder
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			buf.WriteByte(thousandSep)
		}
		buf.WriteByte(digits[i])
	}
	return buf.String()
}

// formatArray renders each value of arr between braces, the way a range
// prints.
func formatArray(arr value.Array, format func(value.Value) (string, error)) (string, error) {
	parts := make([]string, 0, arr.Len())
	for _, v := range arr.Data {
		str, err := format(v)
		if err != nil {
			return "", err
		}
		parts = append(parts, str)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}
