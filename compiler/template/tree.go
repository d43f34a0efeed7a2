// Package template parses component sources: the markup tree, plus the
// script and style blocks.
package template

import (
	"fmt"

	"github.com/AnatoleLucet/sig/compiler/ast"
)

// Error is a markup error at a byte offset of the source.
type Error struct {
	Pos int
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Pos, e.Msg)
}

type Node interface {
	Span() ast.Range
	templateNode()
}

// Document is a parsed component source.
type Document struct {
	Fragment *Fragment
	Script   *Block
	Style    *Block
}

// Block is the content of a script or style element.
type Block struct {
	ast.Range
	Attrs   map[string]string
	Content string
	// Offset is the position of Content in the source.
	Offset int
}

type (
	Fragment struct {
		ast.Range
		Nodes []Node
	}

	// Element is an HTML element. Component elements have a capitalised
	// tag and name a component in scope; Inline elements are custom
	// elements, which receive dynamic attributes as properties.
	Element struct {
		ast.Range
		Tag         string
		Attrs       []*Attribute
		Children    *Fragment
		SelfClosing bool
		Inline      bool
		Component   bool
	}

	Text struct {
		ast.Range
		Data string
	}

	// Expression is an interpolated expression. Name is set for tagged
	// forms such as {@html x}.
	Expression struct {
		ast.Range
		Name string
		X    ast.Expr
	}

	Branch struct {
		ast.Range
		Test ast.Expr
		Body *Fragment
	}

	IfBlock struct {
		ast.Range
		Branches []*Branch
		Else     *Fragment
	}

	EachBlock struct {
		ast.Range
		Items ast.Expr
		Item  *ast.Ident
		Index *ast.Ident
		Body  *Fragment
	}

	AwaitBlock struct {
		ast.Range
		Promise ast.Expr
		Pending *Fragment
		Value   *ast.Ident
		Then    *Fragment
		Error   *ast.Ident
		Catch   *Fragment
	}

	KeyBlock struct {
		ast.Range
		Key  ast.Expr
		Body *Fragment
	}
)

func (*Fragment) templateNode()   {}
func (*Element) templateNode()    {}
func (*Text) templateNode()       {}
func (*Expression) templateNode() {}
func (*IfBlock) templateNode()    {}
func (*EachBlock) templateNode()  {}
func (*AwaitBlock) templateNode() {}
func (*KeyBlock) templateNode()   {}

type AttrKind int

const (
	// Static attributes have no expressions.
	Static AttrKind = iota
	// Dynamic attributes have one or more expression parts.
	Dynamic
	Event
	Bind
	Class
	Prop
)

var directives = map[string]AttrKind{
	"on":    Event,
	"bind":  Bind,
	"class": Class,
	"prop":  Prop,
}

// Attribute is an attribute or a directive. Directives carry their
// expression in X and the part after the colon in Name.
type Attribute struct {
	ast.Range
	Kind AttrKind
	Name string
	// Value holds *Text and *Expression parts. It is nil for boolean
	// attributes.
	Value []Node
	X     ast.Expr
}

// Expr returns the single expression of the value, if the value is exactly
// one expression.
func (a *Attribute) Expr() ast.Expr {
	if a.X != nil {
		return a.X
	}
	if len(a.Value) == 1 {
		if e, ok := a.Value[0].(*Expression); ok {
			return e.X
		}
	}
	return nil
}

// Text returns the value of a static attribute.
func (a *Attribute) Text() string {
	if len(a.Value) == 1 {
		if t, ok := a.Value[0].(*Text); ok {
			return t.Data
		}
	}
	return ""
}
