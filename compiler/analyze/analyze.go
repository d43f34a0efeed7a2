package analyze

import (
	"slices"
	"strings"

	"github.com/AnatoleLucet/sig/compiler/ast"
)

// Ref is a resolved identifier reference.
type Ref struct {
	Ident   *ast.Ident
	Binding *Binding
	// Write is set for assignment and update targets.
	Write bool
}

// Result is the outcome of Analyze.
type Result struct {
	// Program is the analyzed program. Exports are folded into their
	// declarations and reactive label assignments to undeclared names are
	// turned into computed declarations.
	Program *ast.Program
	Root    *Scope
	// Scopes maps scope-creating nodes of Program to their scope.
	Scopes map[ast.Node]*Scope
	// Refs maps every reference of Program to its resolution. Unresolved
	// globals are not listed.
	Refs map[*ast.Ident]*Ref
	// Props lists the exported bindings by declaration order.
	Props []*Binding
	// Stores lists the store subscriptions of each body scope in order of
	// first use.
	Stores map[*Scope][]*Binding
}

// Lookup returns the binding prog references with id, if any.
func (r *Result) Lookup(id *ast.Ident) *Binding {
	if ref, ok := r.Refs[id]; ok {
		return ref.Binding
	}
	return nil
}

type export struct {
	local *ast.Ident
	name  *ast.Ident
}

type pending struct {
	scope *Scope
	ident *ast.Ident
	write bool
}

type analyzer struct {
	res     *Result
	scope   *Scope
	pushed  []bool
	pending []pending
	err     *Error
}

// Analyze resolves prog. prog is not modified.
func Analyze(prog *ast.Program) (*Result, error) {
	a := &analyzer{
		res: &Result{
			Scopes: map[ast.Node]*Scope{},
			Refs:   map[*ast.Ident]*Ref{},
			Stores: map[*Scope][]*Binding{},
		},
	}

	prog, exports, err := prepare(prog)
	if err != nil {
		return nil, err
	}
	a.res.Program = prog

	ast.Walk(prog, a.enter, a.leave)
	if a.err != nil {
		return nil, a.err
	}

	if err := a.resolve(); err != nil {
		return nil, err
	}
	if err := a.exports(exports); err != nil {
		return nil, err
	}
	a.primitives()

	return a.res, nil
}

// prepare folds export declarations into the root statements and turns
// reactive assignments to undeclared names into computed declarations.
func prepare(prog *ast.Program) (*ast.Program, []export, error) {
	declared := map[string]bool{}
	for _, s := range prog.Body {
		if e, ok := s.(*ast.ExportDecl); ok && e.Decl != nil {
			s = e.Decl
		}
		switch s := s.(type) {
		case *ast.VarDecl:
			for _, d := range s.Decls {
				declared[d.Name.Name] = true
			}
		case *ast.FuncDecl:
			declared[s.Func.Name.Name] = true
		case *ast.ImportDecl:
			if s.Default != nil {
				declared[s.Default.Name] = true
			}
			if s.Namespace != nil {
				declared[s.Namespace.Name] = true
			}
			for _, spec := range s.Specs {
				declared[spec.Local.Name] = true
			}
		}
	}

	var (
		exports []export
		body    = make([]ast.Stmt, 0, len(prog.Body))
		seen    = map[string]bool{}
	)

	add := func(local, name *ast.Ident) error {
		if seen[name.Name] {
			return errorf(ErrDuplicateExport, name, "%s is exported more than once", name.Name)
		}
		seen[name.Name] = true
		exports = append(exports, export{local: local, name: name})
		return nil
	}

	for _, s := range prog.Body {
		switch s := s.(type) {
		case *ast.ExportDefault:
			return nil, nil, errorf(ErrDefaultExport, s, "components cannot have a default export")

		case *ast.ExportDecl:
			if s.Source != nil {
				return nil, nil, errorf(ErrUnsupportedExport, s, "re-exports are not supported in components")
			}
			if s.Decl == nil {
				for _, spec := range s.Specs {
					if err := add(spec.Local, spec.Exported); err != nil {
						return nil, nil, err
					}
				}
				continue
			}
			decl, ok := s.Decl.(*ast.VarDecl)
			if !ok {
				return nil, nil, errorf(ErrUnsupportedExport, s, "only variables can be exported from components")
			}
			for _, d := range decl.Decls {
				if err := add(d.Name, d.Name); err != nil {
					return nil, nil, err
				}
			}
			body = append(body, decl)

		case *ast.LabeledStmt:
			if x, ok := computedAssign(s); ok && !declared[x.Target.(*ast.Ident).Name] {
				name := x.Target.(*ast.Ident)
				declared[name.Name] = true
				body = append(body, &ast.VarDecl{
					Range:    s.Range,
					Kind:     "const",
					Decls:    []*ast.Declarator{{Range: x.Range, Name: name, Init: x.Value}},
					Computed: true,
				})
				continue
			}
			body = append(body, s)

		default:
			body = append(body, s)
		}
	}

	out := *prog
	out.Body = body
	return &out, exports, nil
}

// computedAssign matches $: name = value.
func computedAssign(s *ast.LabeledStmt) (*ast.AssignExpr, bool) {
	if s.Label.Name != "$" {
		return nil, false
	}
	stmt, ok := s.Body.(*ast.ExprStmt)
	if !ok {
		return nil, false
	}
	x, ok := stmt.X.(*ast.AssignExpr)
	if !ok || x.Op != "=" {
		return nil, false
	}
	id, ok := x.Target.(*ast.Ident)
	if !ok || strings.HasPrefix(id.Name, "$") {
		return nil, false
	}
	return x, true
}

func (a *analyzer) fail(err *Error) {
	if a.err == nil {
		a.err = err
	}
}

func (a *analyzer) open(n ast.Node, function, body bool) *Scope {
	s := newScope(a.scope, n, function, body)
	a.res.Scopes[n] = s
	if a.res.Root == nil {
		a.res.Root = s
	}
	return s
}

func (a *analyzer) declare(s *Scope, id *ast.Ident, kind string, decl ast.Node, flags Flags) {
	if strings.HasPrefix(id.Name, "$") {
		a.fail(errorf(ErrReservedName, id, "%s: names starting with $ are reserved", id.Name))
		return
	}
	s.declare(&Binding{Name: id.Name, Kind: kind, Decl: decl, Flags: flags})
}

func (a *analyzer) enter(c *ast.Cursor) ast.Action {
	var s *Scope

	switch n := c.Node().(type) {
	case *ast.Program:
		s = a.open(n, true, true)

	case *ast.FuncLit:
		s = a.open(n, true, n.Block)
		var flags Flags
		if n.Block {
			flags = BlockParam
		}
		if n.Name != nil && c.Name() != "Func" {
			a.declare(s, n.Name, "function", n, 0)
		}
		for _, p := range n.Params {
			a.declare(s, p.Name, "param", p, flags)
		}

	case *ast.BlockStmt:
		if _, ok := c.Parent().(*ast.FuncLit); ok && c.Name() == "Body" {
			break
		}
		s = a.open(n, false, false)
		if try, ok := c.Parent().(*ast.TryStmt); ok && c.Name() == "Catch" && try.Param != nil {
			a.declare(s, try.Param, "catch", try, 0)
		}

	case *ast.ForStmt, *ast.ForInStmt, *ast.SwitchStmt:
		s = a.open(n, false, false)

	case *ast.VarDecl:
		target := a.scope
		if n.Kind == "var" {
			target = target.function()
		}
		var flags Flags
		if n.Computed {
			flags = Computed
		}
		for _, d := range n.Decls {
			a.declare(target, d.Name, n.Kind, d, flags)
		}

	case *ast.FuncDecl:
		a.declare(a.scope, n.Func.Name, "function", n.Func, 0)

	case *ast.ImportDecl:
		if a.scope != a.res.Root {
			a.fail(errorf(ErrImportPlacement, n, "imports must be at the top level"))
		}
		if n.Default != nil {
			a.declare(a.scope, n.Default, "import", n, 0)
		}
		if n.Namespace != nil {
			a.declare(a.scope, n.Namespace, "import", n, 0)
		}
		for _, spec := range n.Specs {
			a.declare(a.scope, spec.Local, "import", spec, 0)
		}

	case *ast.Ident:
		if isReference(c) {
			a.pending = append(a.pending, pending{scope: a.scope, ident: n, write: isWrite(c)})
		}
	}

	if s != nil {
		a.scope = s
	}
	a.pushed = append(a.pushed, s != nil)
	return ast.Continue
}

func (a *analyzer) leave(c *ast.Cursor) ast.Action {
	last := len(a.pushed) - 1
	if a.pushed[last] {
		a.scope = a.scope.Parent
	}
	a.pushed = a.pushed[:last]
	return ast.Continue
}

// isReference reports whether the identifier at c refers to a binding, as
// opposed to declaring one or naming a property or label.
func isReference(c *ast.Cursor) bool {
	if c.Node().(*ast.Ident).Name == "this" {
		return false
	}

	switch p := c.Parent().(type) {
	case *ast.MemberExpr:
		return c.Name() != "Property" || p.Computed
	case *ast.Property:
		return c.Name() != "Key" || p.Computed
	case *ast.Declarator, *ast.Param, *ast.FuncLit:
		return c.Name() != "Name"
	case *ast.LabeledStmt, *ast.BranchStmt, *ast.ImportDecl, *ast.ImportSpec, *ast.ExportSpec:
		return false
	case *ast.TryStmt:
		return c.Name() != "Param"
	}
	return true
}

func isWrite(c *ast.Cursor) bool {
	switch c.Parent().(type) {
	case *ast.AssignExpr:
		return c.Name() == "Target"
	case *ast.UpdateExpr:
		return true
	case *ast.ForInStmt:
		return c.Name() == "Left"
	}
	return false
}

func (a *analyzer) resolve() error {
	for _, p := range a.pending {
		name := p.ident.Name
		b := p.scope.Lookup(name)

		if b == nil {
			switch {
			case name == "$":
				return errorf(ErrLoneSigil, p.ident, "$ is not a valid store reference")
			case strings.HasPrefix(name, "$$"):
				if p.write {
					return errorf(ErrReservedAssign, p.ident, "cannot assign to reserved name %s", name)
				}
				p.scope.reference(name, nil)
				continue
			case strings.HasPrefix(name, "$"):
				b = a.subscribe(p.scope.body(), name)
			default:
				p.scope.reference(name, nil)
				continue
			}
		}
		p.scope.reference(name, b.Scope)

		if p.write {
			b.Assigned = true
			if b.Flags&Computed != 0 {
				return errorf(ErrComputedAssign, p.ident, "cannot assign to reactive declaration %s", name)
			}
			if b.Scope == a.res.Root && b.Flags&Store == 0 && b.Kind != "import" && b.Kind != "function" {
				b.Flags |= Mutable
			}
		}

		a.res.Refs[p.ident] = &Ref{Ident: p.ident, Binding: b, Write: p.write}
	}
	return nil
}

// subscribe declares the hidden subscription for a $name reference.
func (a *analyzer) subscribe(body *Scope, name string) *Binding {
	if b, ok := body.Bindings[name]; ok {
		return b
	}
	b := body.declare(&Binding{Name: name, Kind: "const", Flags: Store, Source: name[1:]})
	a.res.Stores[body] = append(a.res.Stores[body], b)
	return b
}

func (a *analyzer) exports(exports []export) error {
	for _, e := range exports {
		b := a.res.Root.Bindings[e.local.Name]
		if b == nil {
			return errorf(ErrUnsupportedExport, e.local, "%s is not declared", e.local.Name)
		}
		if _, ok := b.Decl.(*ast.Declarator); !ok || b.Flags&Computed != 0 {
			return errorf(ErrUnsupportedExport, e.local, "only variables can be exported from components")
		}
		if b.Flags&Prop != 0 {
			return errorf(ErrDuplicateExport, e.name, "%s is exported more than once", e.local.Name)
		}
		b.Flags |= Prop
		b.Export = e.name.Name
		a.res.Props = append(a.res.Props, b)
	}

	slices.SortStableFunc(a.res.Props, func(x, y *Binding) int {
		return x.Decl.Span().Start - y.Decl.Span().Start
	})
	for i, b := range a.res.Props {
		b.Index = i
	}
	return nil
}

// primitives marks computed bindings with primitive initializers as raw, in
// declaration order so later declarations see the decision for earlier ones.
func (a *analyzer) primitives() {
	for _, name := range a.res.Root.order {
		b := a.res.Root.Bindings[name]
		if b.Flags&Computed != 0 && b.Init() != nil {
			b.Raw = a.res.Primitive(b.Init())
		}
	}
}
