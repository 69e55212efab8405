package value

import (
	"fmt"
	"strings"
)

var (
	ErrNull  = createError("#NULL!")
	ErrDiv0  = createError("#DIV/0!")
	ErrValue = createError("#VALUE!")
	ErrRef   = createError("#REF!")
	ErrName  = createError("#NAME?")
	ErrNum   = createError("#NUM!")
	ErrNA    = createError("#N/A")
)

const codeFailure = "#ERROR"

var knownErrors = []Error{ErrNull, ErrDiv0, ErrValue, ErrRef, ErrName, ErrNum, ErrNA}

type Error struct {
	code    string
	message string
}

func createError(code string) Error {
	return Error{
		code: code,
	}
}

// Failure turns an evaluation failure into an error value rendered as
// "#ERROR: <message>".
func Failure(err error) Error {
	return Error{
		code:    codeFailure,
		message: err.Error(),
	}
}

// ParseError reads back the text of an error value, as written by an export
// or found in an imported workbook.
func ParseError(str string) (Error, bool) {
	str = strings.TrimSpace(str)
	for _, e := range knownErrors {
		if strings.EqualFold(str, e.code) {
			return e, true
		}
	}
	msg, ok := strings.CutPrefix(str, codeFailure+":")
	if !ok {
		return Error{}, false
	}
	return Failure(fmt.Errorf("%s", strings.TrimSpace(msg))), true
}

func Failuref(format string, args ...any) Error {
	return Failure(fmt.Errorf(format, args...))
}

func (Error) Type() string {
	return TypeError
}

func (Error) Kind() ValueKind {
	return KindError
}

func (e Error) Code() string {
	return e.code
}

func (e Error) Error() string {
	return e.String()
}

func (e Error) String() string {
	if e.message == "" {
		return e.code
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e Error) Scalar() any {
	return e.String()
}
