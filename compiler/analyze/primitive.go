package analyze

import "github.com/AnatoleLucet/sig/compiler/ast"

// Primitive reports whether x can be evaluated once instead of being
// wrapped in reactive machinery: it is built from literals and operators,
// member accesses and calls, and reads no reactive binding.
func (r *Result) Primitive(x ast.Expr) bool {
	switch x := x.(type) {
	case nil:
		return true
	case *ast.Literal:
		return true
	case *ast.Ident:
		b := r.Lookup(x)
		return b == nil || !b.Reactive()
	case *ast.TemplateLit:
		return r.all(x.Exprs)
	case *ast.UnaryExpr:
		return x.Op != "delete" && r.Primitive(x.X)
	case *ast.BinaryExpr:
		return r.Primitive(x.X) && r.Primitive(x.Y)
	case *ast.MemberExpr:
		if x.Computed && !r.Primitive(x.Property) {
			return false
		}
		return r.Primitive(x.Object)
	case *ast.CallExpr:
		return r.Primitive(x.Callee) && r.all(x.Args)
	case *ast.NewExpr:
		return r.Primitive(x.Callee) && r.all(x.Args)
	}
	return false
}

func (r *Result) all(list []ast.Expr) bool {
	for _, x := range list {
		if !r.Primitive(x) {
			return false
		}
	}
	return true
}

// Reactive reports whether n reads or writes a reactive binding. The walk
// stops at the first one found.
func (r *Result) Reactive(n ast.Node) bool {
	found := false
	ast.Inspect(n, func(n ast.Node) bool {
		if found {
			return false
		}
		if id, ok := n.(*ast.Ident); ok {
			if b := r.Lookup(id); b != nil && b.Reactive() {
				found = true
			}
		}
		return !found
	})
	return found
}
