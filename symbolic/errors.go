package symbolic

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax marks text the parser cannot read.
	ErrSyntax = errors.New("symbolic: syntax error")

	// ErrUnbound marks a symbol with no binding and no constant value.
	ErrUnbound = errors.New("symbolic: unbound symbol")

	// ErrUnknownFunction marks a function name the evaluator does not implement.
	ErrUnknownFunction = errors.New("symbolic: unknown function")
)

// ParseError carries the byte offset where parsing stopped.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("symbolic: syntax error at %d: %s", e.Pos, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrSyntax }
