package param

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is(). Validation stops at the first
// failing check, so a returned error always matches exactly one sentinel.
var (
	// ErrMissingRequired indicates a required parameter had no value.
	ErrMissingRequired = errors.New("missing required parameter")

	// ErrTypeMismatch indicates a value of the wrong type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrEnumViolation indicates a value outside the declared enum.
	ErrEnumViolation = errors.New("enum violation")

	// ErrLengthViolation indicates a string outside the declared length bounds.
	ErrLengthViolation = errors.New("length violation")

	// ErrPatternViolation indicates a string not matching the declared pattern.
	ErrPatternViolation = errors.New("pattern violation")

	// ErrRangeViolation indicates a numeric value outside the declared bounds.
	ErrRangeViolation = errors.New("range violation")
)

// Error carries the failing parameter name and value alongside the sentinel
// identifying the violated constraint.
type Error struct {
	Param  string
	Value  any
	Detail string

	kind error
}

func newError(kind error, name string, value any, format string, args ...any) *Error {
	return &Error{
		Param:  name,
		Value:  value,
		Detail: fmt.Sprintf(format, args...),
		kind:   kind,
	}
}

func (e *Error) Error() string {
	msg := e.kind.Error()
	if e.Param != "" {
		msg += " " + fmt.Sprintf("%q", e.Param)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the sentinel identifying the violated constraint.
func (e *Error) Unwrap() error {
	return e.kind
}
