package internal

import "slices"

type Scope struct {
	rt *Runtime

	// back-reference only, the parent does not have to list this scope
	parent *Scope

	children []*Scope

	// cleanup functions, run in registration order when the scope is cleared
	cleanups []func()

	// panic handlers
	catchers []func(any)

	// the context values of this scope
	context map[*Context]any

	depth int
}

func newScope(r *Runtime, parent *Scope) *Scope {
	s := &Scope{
		rt:     r,
		parent: parent,
		depth:  1,
	}

	if parent != nil {
		s.depth = parent.depth + 1
	}

	return s
}

// NewScope creates a scope owned by the current scope, if any.
func (r *Runtime) NewScope() *Scope {
	parent := r.CurrentScope()
	s := newScope(r, parent)

	if parent != nil {
		parent.children = append(parent.children, s)
	}

	return s
}

func (s *Scope) Parent() *Scope {
	return s.parent
}

func (s *Scope) Depth() int {
	return s.depth
}

// Run calls fn with s as the current scope. Panics are handed to the nearest
// error handler; without one they propagate as usual.
func (s *Scope) Run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if !s.handle(r) {
				panic(r)
			}
		}
	}()

	s.rt.tracker.RunWithScope(s, func() {
		err = fn()
	})

	return err
}

// Clear clears every child scope, then runs the cleanups in registration
// order. The scope stays attached to its parent and can be reused.
func (s *Scope) Clear() {
	children := s.children
	s.children = nil

	for _, child := range children {
		child.Clear()
		child.parent = nil
	}

	cleanups := s.cleanups
	s.cleanups = nil

	for _, cleanup := range cleanups {
		cleanup()
	}
}

// Dispose clears the scope and removes it from its parent.
func (s *Scope) Dispose() {
	s.Detach()
	s.Clear()
}

// Detach removes the scope from its parent's children.
func (s *Scope) Detach() {
	if s.parent == nil {
		return
	}

	if i := slices.Index(s.parent.children, s); i >= 0 {
		s.parent.children = slices.Delete(s.parent.children, i, i+1)
	}
}

func (s *Scope) OnCleanup(fn func()) {
	s.cleanups = append(s.cleanups, fn)
}

func (s *Scope) OnError(fn func(any)) {
	s.catchers = append(s.catchers, fn)
}

// handle passes v to the catchers of the nearest scope that has some.
func (s *Scope) handle(v any) bool {
	for scope := s; scope != nil; scope = scope.parent {
		if len(scope.catchers) == 0 {
			continue
		}

		for _, catcher := range scope.catchers {
			catcher(v)
		}
		return true
	}

	return false
}

// owns reports whether clearing the scope would do anything.
func (s *Scope) owns() bool {
	return len(s.children) > 0 || len(s.cleanups) > 0
}

// Context is a value inherited down the scope tree.
type Context struct {
	rt *Runtime

	initial any
}

func (r *Runtime) NewContext(initial any) *Context {
	return &Context{rt: r, initial: initial}
}

// Value returns the value set on the nearest scope, or the initial value.
func (c *Context) Value() any {
	for scope := c.rt.CurrentScope(); scope != nil; scope = scope.parent {
		if v, ok := scope.context[c]; ok {
			return v
		}
	}

	return c.initial
}

// Set stores value on the current scope. It is a no-op outside of any scope.
func (c *Context) Set(value any) {
	scope := c.rt.CurrentScope()
	if scope == nil {
		return
	}

	if scope.context == nil {
		scope.context = make(map[*Context]any)
	}
	scope.context[c] = value
}
