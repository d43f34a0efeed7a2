// Package analyze resolves the identifiers of a component script and
// classifies the root bindings the compiler turns into reactive primitives.
package analyze

import (
	"strings"

	"github.com/AnatoleLucet/sig/compiler/ast"
)

type Flags uint8

const (
	// Mutable bindings are declared in the root scope and assigned somewhere.
	Mutable Flags = 1 << iota
	// Prop bindings are exported from the root scope.
	Prop
	// Computed bindings come from a reactive label assignment.
	Computed
	// Store bindings are the hidden subscriptions behind $name references.
	Store
	// BlockParam bindings are parameters of compiler generated block
	// functions, which receive accessors.
	BlockParam
)

func (f Flags) String() string {
	var names []string
	for _, v := range []struct {
		flag Flags
		name string
	}{
		{Mutable, "mutable"},
		{Prop, "prop"},
		{Computed, "computed"},
		{Store, "store"},
		{BlockParam, "param"},
	} {
		if f&v.flag != 0 {
			names = append(names, v.name)
		}
	}
	if names == nil {
		return "plain"
	}
	return strings.Join(names, ",")
}

// Binding is a declared name.
type Binding struct {
	Name  string
	Kind  string // var, let, const, function, param, import or catch
	Flags Flags
	Scope *Scope
	Decl  ast.Node

	// Export is the exported name of a prop, Index its position among the
	// component props.
	Export string
	Index  int

	// Raw is set on computed bindings whose initializer is primitive. They
	// compile to plain constants.
	Raw bool

	// Source is the store a Store binding subscribes to.
	Source string

	// Assigned is set when the binding is the target of a write.
	Assigned bool
}

// Reactive reports whether reads of the binding go through an accessor.
func (b *Binding) Reactive() bool {
	if b.Flags&(Mutable|Prop|Store|BlockParam) != 0 {
		return true
	}
	return b.Flags&Computed != 0 && !b.Raw
}

// Init returns the initializer of a variable binding.
func (b *Binding) Init() ast.Expr {
	if d, ok := b.Decl.(*ast.Declarator); ok {
		return d.Init
	}
	return nil
}

// Scope is a lexical scope.
type Scope struct {
	Parent   *Scope
	Children []*Scope
	Node     ast.Node

	// Function scopes receive var declarations. Body scopes are the program
	// and compiler generated block functions; they hold store subscriptions.
	Function bool
	Body     bool

	Bindings map[string]*Binding
	order    []string

	// names referenced in the scope or a nested scope, up to the scope that
	// declares them
	References map[string]bool
}

func newScope(parent *Scope, n ast.Node, function, body bool) *Scope {
	s := &Scope{
		Parent:   parent,
		Node:     n,
		Function: function,
		Body:     body,
		Bindings:   map[string]*Binding{},
		References: map[string]bool{},
	}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Lookup finds the binding visible from s under name.
func (s *Scope) Lookup(name string) *Binding {
	for ; s != nil; s = s.Parent {
		if b, ok := s.Bindings[name]; ok {
			return b
		}
	}
	return nil
}

// Declared reports whether name is declared in s itself.
func (s *Scope) Declared(name string) bool {
	_, ok := s.Bindings[name]
	return ok
}

// Captured reports whether name is referenced inside s but declared in an
// enclosing scope.
func (s *Scope) Captured(name string) bool {
	return s.References[name] && !s.Declared(name) && s.Parent.Lookup(name) != nil
}

func (s *Scope) reference(name string, decl *Scope) {
	for ; s != nil; s = s.Parent {
		s.References[name] = true
		if s == decl {
			return
		}
	}
}

// Names returns the names declared in s in declaration order.
func (s *Scope) Names() []string {
	return s.order
}

func (s *Scope) declare(b *Binding) *Binding {
	if prev, ok := s.Bindings[b.Name]; ok {
		return prev
	}
	b.Scope = s
	s.Bindings[b.Name] = b
	s.order = append(s.order, b.Name)
	return b
}

// function returns the nearest function scope.
func (s *Scope) function() *Scope {
	for !s.Function {
		s = s.Parent
	}
	return s
}

// body returns the nearest body scope.
func (s *Scope) body() *Scope {
	for !s.Body {
		s = s.Parent
	}
	return s
}
