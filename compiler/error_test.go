package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFrame(t *testing.T) {
	src := "a\nbb\nccc = 1\nd\ne\nf"

	err := newError(src, "f.sig", ErrSyntax, "bad", 5, 8, nil)

	assert.Equal(t, Span{Start: Pos{Line: 3, Column: 1}, End: Pos{Line: 3, Column: 4}}, err.Span)
	assert.Equal(t, "  1 | a\n  2 | bb\n> 3 | ccc = 1\n    | ^^^\n  4 | d\n  5 | e", err.Frame)
	assert.Equal(t, "f.sig:3:1: bad (syntax)", err.Error())
	assert.Equal(t, err.Error()+"\n\n"+err.Frame, err.Format())
}

func TestErrorPosition(t *testing.T) {
	src := "one\ntwo"

	assert.Equal(t, Pos{Line: 1, Column: 1}, position(src, 0))
	assert.Equal(t, Pos{Line: 1, Column: 4}, position(src, 3))
	assert.Equal(t, Pos{Line: 2, Column: 1}, position(src, 4))
	assert.Equal(t, Pos{Line: 2, Column: 4}, position(src, 7))

	err := newError(src, "", ErrMarkup, "eof", 100, 200, nil)
	assert.Equal(t, Pos{Line: 2, Column: 4}, err.Span.Start)
	assert.Equal(t, "<input>:2:4: eof (markup)", err.Error())
}
