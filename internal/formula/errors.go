package formula

import (
	"errors"
	"fmt"
)

// Formula errors
var (
	ErrEmptyFormula    = errors.New("formula: empty formula")
	ErrSyntax          = errors.New("formula: syntax error")
	ErrUnknownName     = errors.New("formula: unknown name")
	ErrArity           = errors.New("formula: wrong number of arguments")
	ErrDivisionByZero  = errors.New("formula: division by zero")
	ErrDomain          = errors.New("formula: argument out of domain")
	ErrInvalidFormula  = errors.New("formula: invalid program")
	ErrTooManyFormulas = errors.New("formula: more than two formulas")
)

// SyntaxError reports where compilation failed.
type SyntaxError struct {
	Pos int
	Msg string
	Err error
}

func newSyntaxError(pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...), Err: ErrSyntax}
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("formula: %s at offset %d", e.Msg, e.Pos)
}

// Unwrap returns the sentinel error for errors.Is.
func (e *SyntaxError) Unwrap() error { return e.Err }
