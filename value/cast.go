package value

import (
	"math"
	"strconv"
	"strings"
)

// ToNumber coerces a value to a float. Strings are read the way a leading
// numeric prefix is read, anything that is not a number yields 0.
func ToNumber(val Value) float64 {
	switch v := val.(type) {
	case Float:
		return float64(v)
	case Text:
		f := parseFloat(string(v))
		if math.IsNaN(f) {
			return 0
		}
		return f
	default:
		return 0
	}
}

// FromRaw converts a raw value kept by the cell store.
func FromRaw(raw any) ScalarValue {
	switch v := raw.(type) {
	case nil:
		return Empty()
	case ScalarValue:
		return v
	case float64:
		return Float(v)
	case float32:
		return Float(v)
	case int:
		return Float(v)
	case int64:
		return Float(v)
	case int32:
		return Float(v)
	case bool:
		return Boolean(v)
	case string:
		if v == "" {
			return Empty()
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return Float(f)
		}
		if e, ok := ParseError(v); ok {
			return e
		}
		return Text(v)
	default:
		return ErrValue
	}
}

func parseFloat(str string) float64 {
	str = strings.TrimLeft(str, " \t\n\r\v\f")
	var (
		end    int
		digits bool
	)
	if end < len(str) && (str[end] == '+' || str[end] == '-') {
		end++
	}
	if strings.HasPrefix(str[end:], "Infinity") {
		if str[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	for end < len(str) && isDigit(str[end]) {
		end++
		digits = true
	}
	if end < len(str) && str[end] == '.' {
		end++
		for end < len(str) && isDigit(str[end]) {
			end++
			digits = true
		}
	}
	if !digits {
		return math.NaN()
	}
	if end < len(str) && (str[end] == 'e' || str[end] == 'E') {
		exp := end + 1
		if exp < len(str) && (str[exp] == '+' || str[exp] == '-') {
			exp++
		}
		if exp < len(str) && isDigit(str[exp]) {
			for exp < len(str) && isDigit(str[exp]) {
				exp++
			}
			end = exp
		}
	}
	f, err := strconv.ParseFloat(str[:end], 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
