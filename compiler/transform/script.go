package transform

import (
	"strings"

	"github.com/AnatoleLucet/sig/compiler/analyze"
	"github.com/AnatoleLucet/sig/compiler/ast"
)

// PropsParam names the setup parameter holding the component props.
const PropsParam = "$$props"

type rewriter struct {
	res *analyze.Result
	h   *Helpers
	err error

	// labels holds, per enclosing labelled statement, whether it is a
	// reactive statement (1 with reactive reads, 0 without) or a plain
	// label (-1).
	labels []int
	// bodies holds the scope of each enclosing program or function, nil for
	// scopes without store subscriptions.
	bodies []*analyze.Scope
}

// Script rewrites the analyzed program: reactive declarations become
// primitive constructors, their reads accessor calls and their writes
// setter calls; reactive statements become effects; store subscriptions
// are declared.
func Script(res *analyze.Result, h *Helpers) (*ast.Program, error) {
	r := &rewriter{res: res, h: h}
	out := ast.Apply(res.Program, r.enter, r.leave)
	if r.err != nil {
		return nil, r.err
	}
	return out.(*ast.Program), nil
}

func (r *rewriter) fail(code analyze.Code, at ast.Range, msg string) {
	if r.err == nil {
		r.err = &analyze.Error{Code: code, Range: at, Msg: msg}
	}
}

func (r *rewriter) enter(c *ast.Cursor) ast.Action {
	switch n := c.Node().(type) {
	case *ast.Program, *ast.FuncLit:
		s := r.res.Scopes[n]
		if s == nil || len(r.res.Stores[s]) == 0 {
			s = nil
		}
		r.bodies = append(r.bodies, s)

	case *ast.LabeledStmt:
		state := -1
		if n.Label.Name == "$" && atBody(c) {
			state = 0
			if r.res.Reactive(n.Body) {
				state = 1
			}
		}
		r.labels = append(r.labels, state)

	case *ast.Ident:
		ref := r.res.Refs[n]
		if ref == nil || ref.Write || !ref.Binding.Reactive() {
			break
		}
		call := ast.Call(&ast.Ident{Range: n.Range, Name: n.Name})
		call.Range = n.Range
		c.Replace(call)
		return ast.Skip
	}
	return ast.Continue
}

// atBody reports whether the statement at c sits directly in the program or
// in the body of a block function.
func atBody(c *ast.Cursor) bool {
	stack := c.Ancestors()
	switch c.Parent().(type) {
	case *ast.Program:
		return true
	case *ast.BlockStmt:
		if len(stack) < 2 {
			return false
		}
		fn, ok := stack[len(stack)-2].(*ast.FuncLit)
		return ok && fn.Block
	}
	return false
}

func (r *rewriter) leave(c *ast.Cursor) ast.Action {
	switch n := c.Node().(type) {
	case *ast.Program:
		s := r.popBody()
		if s != nil {
			out := *n
			out.Body = r.subscriptions(s, n.Body)
			c.Replace(&out)
		}

	case *ast.FuncLit:
		s := r.popBody()
		if s != nil && n.Body != nil {
			body := *n.Body
			body.Body = r.subscriptions(s, n.Body.Body)
			out := *n
			out.Body = &body
			c.Replace(&out)
		}

	case *ast.LabeledStmt:
		state := r.labels[len(r.labels)-1]
		r.labels = r.labels[:len(r.labels)-1]
		switch state {
		case 0:
			c.Replace(n.Body)
		case 1:
			body, ok := n.Body.(*ast.BlockStmt)
			if !ok {
				body = ast.Block(n.Body)
			}
			stmt := ast.Expression(ast.Call(r.h.Ref("effect"), ast.ArrowBlock(body)))
			stmt.Range = n.Range
			c.Replace(stmt)
		}

	case *ast.AssignExpr:
		id, b := r.reactiveTarget(n.Target)
		if b == nil {
			break
		}
		value := n.Value
		if n.Op != "=" {
			value = &ast.BinaryExpr{Op: strings.TrimSuffix(n.Op, "="), X: reader(b), Y: n.Value}
		}
		c.Replace(r.set(n.Range, id, b, value))

	case *ast.UpdateExpr:
		id, b := r.reactiveTarget(n.X)
		if b == nil {
			break
		}
		if !n.Prefix {
			r.fail(analyze.ErrPostfixUpdate, n.Range,
				"postfix "+n.Op+" is not supported on reactive variable "+id.Name+", use the prefix form")
			break
		}
		op := "+"
		if n.Op == "--" {
			op = "-"
		}
		c.Replace(r.set(n.Range, id, b, &ast.BinaryExpr{Op: op, X: reader(b), Y: ast.Num(1)}))

	case *ast.Declarator:
		if _, ok := c.Parent().(*ast.VarDecl); !ok {
			break
		}
		b := r.res.Root.Bindings[n.Name.Name]
		if b == nil || !r.declares(b, n) {
			break
		}
		if init := r.init(b, n.Init); init != n.Init {
			out := *n
			out.Init = init
			c.Replace(&out)
		}
	}
	return ast.Continue
}

func (r *rewriter) popBody() *analyze.Scope {
	s := r.bodies[len(r.bodies)-1]
	r.bodies = r.bodies[:len(r.bodies)-1]
	return s
}

func (r *rewriter) declares(b *analyze.Binding, d *ast.Declarator) bool {
	decl, ok := b.Decl.(*ast.Declarator)
	return ok && decl.Name == d.Name
}

// reactiveTarget returns the identifier and binding of an assignment
// target that is a reactive variable.
func (r *rewriter) reactiveTarget(x ast.Expr) (*ast.Ident, *analyze.Binding) {
	id, ok := x.(*ast.Ident)
	if !ok {
		return nil, nil
	}
	ref := r.res.Refs[id]
	if ref == nil || !ref.Binding.Reactive() {
		return nil, nil
	}
	return id, ref.Binding
}

func reader(b *analyze.Binding) ast.Expr {
	return ast.Call(ast.Id(b.Name))
}

// set writes value through the setter of b. Store subscriptions write to
// the store they subscribe to.
func (r *rewriter) set(at ast.Range, id *ast.Ident, b *analyze.Binding, value ast.Expr) ast.Expr {
	target := &ast.Ident{Range: id.Range, Name: id.Name}
	if b.Flags&analyze.Store != 0 {
		target.Name = b.Source
	}
	call := ast.Call(ast.Member(target, "set"), value)
	call.Range = at
	return call
}

// init returns the initializer of a root declaration of b.
func (r *rewriter) init(b *analyze.Binding, init ast.Expr) ast.Expr {
	switch {
	case b.Flags&analyze.Prop != 0:
		args := []ast.Expr{ast.Id(PropsParam), ast.Num(b.Index)}
		if init != nil {
			if b.Flags&analyze.Mutable == 0 && r.res.Primitive(b.Init()) {
				args = append(args, init)
			} else {
				args = append(args, ast.Arrow(init))
			}
		}
		return ast.Call(r.h.Ref("prop"), args...)

	case b.Flags&analyze.Computed != 0:
		if b.Raw {
			return init
		}
		return ast.Call(r.h.Ref("computed"), ast.Arrow(init))

	case b.Flags&analyze.Mutable != 0:
		if init == nil {
			return ast.Call(r.h.Ref("signal"))
		}
		return ast.Call(r.h.Ref("signal"), init)
	}
	return init
}

// subscriptions declares the store subscriptions of s in body, each right
// after the declaration of its store or at the top.
func (r *rewriter) subscriptions(s *analyze.Scope, body []ast.Stmt) []ast.Stmt {
	out := append(make([]ast.Stmt, 0, len(body)+1), body...)
	for _, b := range r.res.Stores[s] {
		decl := ast.Const(b.Name, ast.Call(r.h.Ref("subscribe"), ast.Id(b.Source)))

		at := 0
		for i, stmt := range out {
			if declaresName(stmt, b.Source) {
				at = i + 1
				break
			}
		}
		out = append(out[:at], append([]ast.Stmt{decl}, out[at:]...)...)
	}
	return out
}

func declaresName(s ast.Stmt, name string) bool {
	switch s := s.(type) {
	case *ast.VarDecl:
		for _, d := range s.Decls {
			if d.Name.Name == name {
				return true
			}
		}
	case *ast.FuncDecl:
		return s.Func.Name.Name == name
	}
	return false
}
