// Package simerr defines the errors returned by the simulation engine.
package simerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindDegenerateInput: too few observations, zero predictor variance,
	// zero sample size.
	KindDegenerateInput
	// KindNumericalInstability: a variance or residual sum of squares that
	// should be positive is not, or a result is not finite.
	KindNumericalInstability
	// KindInvalidParameter: a request field outside its accepted range.
	KindInvalidParameter
)

func (k Kind) String() string {
	switch k {
	case KindDegenerateInput:
		return "DEGENERATE_INPUT"
	case KindNumericalInstability:
		return "NUMERICAL_INSTABILITY"
	case KindInvalidParameter:
		return "INVALID_PARAMETER"
	default:
		return "UNKNOWN"
	}
}

// Error is a classified engine error.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind, which makes the
// sentinels below usable with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Message == ""
}

// Sentinels for errors.Is.
var (
	ErrDegenerateInput      = &Error{Kind: KindDegenerateInput}
	ErrNumericalInstability = &Error{Kind: KindNumericalInstability}
	ErrInvalidParameter     = &Error{Kind: KindInvalidParameter}
)

// Degenerate returns a KindDegenerateInput error.
func Degenerate(op, format string, args ...any) error {
	return &Error{Kind: KindDegenerateInput, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Unstable returns a KindNumericalInstability error.
func Unstable(op, format string, args ...any) error {
	return &Error{Kind: KindNumericalInstability, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Invalid returns a KindInvalidParameter error.
func Invalid(op, format string, args ...any) error {
	return &Error{Kind: KindInvalidParameter, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap adds context to err while keeping its kind.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindOf(err), Op: op, Message: "failed", Cause: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
