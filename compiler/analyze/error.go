package analyze

import (
	"fmt"

	"github.com/AnatoleLucet/sig/compiler/ast"
)

type Code string

const (
	ErrReservedName      Code = "reserved-name"
	ErrReservedAssign    Code = "reserved-assignment"
	ErrLoneSigil         Code = "lone-sigil"
	ErrDefaultExport     Code = "default-export"
	ErrDuplicateExport   Code = "duplicate-export"
	ErrUnsupportedExport Code = "unsupported-export"
	ErrComputedAssign    Code = "computed-assignment"
	ErrPostfixUpdate     Code = "postfix-update"
	ErrImportPlacement   Code = "import-placement"
	ErrInvalidDirective  Code = "invalid-directive"
)

// Error is a semantic error in a component script.
type Error struct {
	Code  Code
	Range ast.Range
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func errorf(code Code, at ast.Node, format string, args ...any) *Error {
	var r ast.Range
	if at != nil {
		r = at.Span()
	}
	return &Error{Code: code, Range: r, Msg: fmt.Sprintf(format, args...)}
}
