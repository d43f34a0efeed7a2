package ast

// Action tells Apply how to continue after a visit.
type Action int

const (
	// Continue visits the children of the node.
	Continue Action = iota
	// Skip does not visit the children of the node.
	Skip
	// Remove drops the node. Inside a list the element disappears, elsewhere
	// the field is set to nil.
	Remove
)

// Cursor describes the node being visited.
type Cursor struct {
	node  Node
	name  string
	index int
	stack []Node
}

// Node returns the current node, or its replacement.
func (c *Cursor) Node() Node { return c.node }

// Parent returns the parent of the current node, nil for the root.
func (c *Cursor) Parent() Node {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// Ancestors returns the enclosing nodes, outermost first. The slice is only
// valid during the visit.
func (c *Cursor) Ancestors() []Node { return c.stack }

// Name is the name of the parent field holding the current node, such as
// "Property" for the property of a MemberExpr.
func (c *Cursor) Name() string { return c.name }

// Index is the position of the node in a list field, or -1.
func (c *Cursor) Index() int { return c.index }

// Replace substitutes n for the current node. Children of n are visited when
// called from the enter function and the action is Continue.
func (c *Cursor) Replace(n Node) { c.node = n }

// Func is called on entering and leaving every node.
type Func func(c *Cursor) Action

// Apply walks root depth first and returns the rewritten tree. Nodes that do
// not change are shared with the input; changed nodes and all their ancestors
// are fresh copies.
func Apply(root Node, enter, leave Func) Node {
	a := &applier{enter: enter, leave: leave}
	n, _ := a.visit("", -1, root)
	return n
}

// Walk visits root without rewriting it.
func Walk(root Node, enter, leave Func) {
	Apply(root, enter, leave)
}

// Inspect calls fn on every node of root in depth first order. Returning
// false skips the children.
func Inspect(root Node, fn func(Node) bool) {
	Walk(root, func(c *Cursor) Action {
		if fn(c.Node()) {
			return Continue
		}
		return Skip
	}, nil)
}

type applier struct {
	enter Func
	leave Func
	stack []Node
}

func (a *applier) visit(name string, index int, n Node) (Node, bool) {
	if isNil(n) {
		return n, false
	}

	c := &Cursor{node: n, name: name, index: index, stack: a.stack}

	if a.enter != nil {
		switch a.enter(c) {
		case Remove:
			return nil, true
		case Skip:
			return c.node, false
		}
	}

	a.stack = append(a.stack, c.node)
	n = a.children(c.node)
	a.stack = a.stack[:len(a.stack)-1]

	if a.leave != nil {
		c.node = n
		c.stack = a.stack
		if a.leave(c) == Remove {
			return nil, true
		}
		n = c.node
	}

	return n, false
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}

	switch n := n.(type) {
	case *Ident:
		return n == nil
	case *Literal:
		return n == nil
	case *BlockStmt:
		return n == nil
	case *FuncLit:
		return n == nil
	case *VarDecl:
		return n == nil
	}

	return false
}

func (a *applier) expr(name string, e Expr) (Expr, bool) {
	if e == nil {
		return nil, false
	}

	n, _ := a.visit(name, -1, e)
	if n == nil {
		return nil, true
	}

	out := n.(Expr)
	return out, out != e
}

func (a *applier) stmt(name string, s Stmt) (Stmt, bool) {
	if s == nil {
		return nil, false
	}

	n, _ := a.visit(name, -1, s)
	if n == nil {
		return nil, true
	}

	out := n.(Stmt)
	return out, out != s
}

func (a *applier) ident(name string, id *Ident) (*Ident, bool) {
	if id == nil {
		return nil, false
	}

	n, _ := a.visit(name, -1, id)
	if n == nil {
		return nil, true
	}

	out := n.(*Ident)
	return out, out != id
}

func (a *applier) block(name string, b *BlockStmt) (*BlockStmt, bool) {
	if b == nil {
		return nil, false
	}

	n, _ := a.visit(name, -1, b)
	if n == nil {
		return nil, true
	}

	out := n.(*BlockStmt)
	return out, out != b
}

func (a *applier) exprs(name string, list []Expr) ([]Expr, bool) {
	changed := false
	out := make([]Expr, 0, len(list))

	for i, e := range list {
		n, removed := a.visit(name, i, e)
		if removed {
			changed = true
			continue
		}
		if n != Node(e) {
			changed = true
		}
		if n == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, n.(Expr))
	}

	if !changed {
		return list, false
	}
	return out, true
}

// stmts visits a statement list. A statement replaced by a *BlockStmt with
// Range {-1, -1} is spliced into the list.
func (a *applier) stmts(name string, list []Stmt) ([]Stmt, bool) {
	changed := false
	out := make([]Stmt, 0, len(list))

	for i, s := range list {
		n, removed := a.visit(name, i, s)
		if removed {
			changed = true
			continue
		}
		if n != Node(s) {
			changed = true
		}
		if splice, ok := n.(*BlockStmt); ok && splice.Range == Spliced {
			out = append(out, splice.Body...)
			continue
		}
		out = append(out, n.(Stmt))
	}

	if !changed {
		return list, false
	}
	return out, true
}

// Spliced marks a BlockStmt whose statements replace a single statement of a list.
var Spliced = Range{Start: -1, End: -1}

// Splice returns a node that replaces one statement of a list with several.
func Splice(stmts ...Stmt) *BlockStmt {
	return &BlockStmt{Range: Spliced, Body: stmts}
}
