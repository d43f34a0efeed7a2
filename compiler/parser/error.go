package parser

import "fmt"

// Error is a syntax error at a byte offset of the parsed source.
type Error struct {
	Pos int
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Pos, e.Msg)
}

// bailout aborts parsing on the first error.
type bailout struct{ err *Error }
