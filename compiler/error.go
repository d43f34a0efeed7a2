package compiler

import (
	"fmt"
	"strings"

	"github.com/AnatoleLucet/sig/compiler/analyze"
)

// Code identifies the kind of a compile error.
type Code = analyze.Code

const (
	ErrSyntax Code = "syntax"
	ErrMarkup Code = "markup"
	ErrStyle  Code = "style"

	ErrReservedName      = analyze.ErrReservedName
	ErrReservedAssign    = analyze.ErrReservedAssign
	ErrLoneSigil         = analyze.ErrLoneSigil
	ErrDefaultExport     = analyze.ErrDefaultExport
	ErrDuplicateExport   = analyze.ErrDuplicateExport
	ErrUnsupportedExport = analyze.ErrUnsupportedExport
	ErrComputedAssign    = analyze.ErrComputedAssign
	ErrPostfixUpdate     = analyze.ErrPostfixUpdate
	ErrInvalidDirective  = analyze.ErrInvalidDirective
)

// Pos is a 1-based line and column.
type Pos struct {
	Line   int
	Column int
}

type Span struct {
	Start Pos
	End   Pos
}

// Error is a compile error with its location in the source.
type Error struct {
	Code     Code
	Message  string
	Filename string
	Span     Span
	// Frame shows the source lines around the error with the span
	// underlined.
	Frame string
	// Wrapped is the error reported by the failing phase, if any.
	Wrapped error
}

func (e *Error) Error() string {
	name := e.Filename
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s (%s)", name, e.Span.Start.Line, e.Span.Start.Column, e.Message, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Format returns the error with its frame for terminal display.
func (e *Error) Format() string {
	var b strings.Builder
	b.WriteString(e.Error())
	if e.Frame != "" {
		b.WriteString("\n\n")
		b.WriteString(e.Frame)
	}
	return b.String()
}

// frameContext is the number of lines shown around the error line.
const frameContext = 2

func newError(src, filename string, code Code, msg string, start, end int, wrapped error) *Error {
	start = clamp(start, 0, len(src))
	end = clamp(end, start, len(src))

	e := &Error{
		Code:     code,
		Message:  msg,
		Filename: filename,
		Span:     Span{Start: position(src, start), End: position(src, end)},
		Wrapped:  wrapped,
	}
	e.Frame = frame(src, e.Span)
	return e
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func position(src string, offset int) Pos {
	before := src[:offset]
	line := strings.Count(before, "\n") + 1
	col := offset - strings.LastIndexByte(before, '\n')
	return Pos{Line: line, Column: col}
}

func frame(src string, span Span) string {
	lines := strings.Split(src, "\n")
	first := max(1, span.Start.Line-frameContext)
	last := min(len(lines), span.Start.Line+frameContext)
	width := len(fmt.Sprint(last))

	var b strings.Builder
	for n := first; n <= last; n++ {
		line := strings.TrimRight(lines[n-1], "\r")
		marker := "  "
		if n == span.Start.Line {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%*d | %s\n", marker, width, n, expandTabs(line))

		if n != span.Start.Line {
			continue
		}
		length := 1
		if span.End.Line == span.Start.Line && span.End.Column > span.Start.Column {
			length = span.End.Column - span.Start.Column
		}
		prefix := expandTabs(line[:min(len(line), span.Start.Column-1)])
		fmt.Fprintf(&b, "  %*s | %s%s\n", width, "", strings.Repeat(" ", len(prefix)), strings.Repeat("^", length))
	}
	return strings.TrimRight(b.String(), "\n")
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
