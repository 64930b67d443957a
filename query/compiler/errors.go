package compiler

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedQuery    = errors.New("unsupported query type")
	ErrInvalidQuery        = errors.New("invalid query")
	ErrMissingValues       = errors.New("missing values")
	ErrMissingConstraints  = errors.New("missing constraints")
	ErrBetweenArity        = errors.New("invalid between arity")
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrEmptyList           = errors.New("empty value list")
)

// Error is a compile-time validation failure. Kind is one of the sentinel
// errors above and can be matched with errors.Is.
type Error struct {
	Kind    error
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the sentinel kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func missingValues(op string) *Error {
	return newError(ErrMissingValues, "cannot perform %s without values", op)
}
