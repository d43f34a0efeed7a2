package transform

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/AnatoleLucet/sig"
	"github.com/AnatoleLucet/sig/compiler/analyze"
	"github.com/AnatoleLucet/sig/compiler/ast"
	"github.com/AnatoleLucet/sig/compiler/template"
)

// lowering turns template fragments into statements. Every fragment gets a
// hoisted template declaration holding its static HTML, with <!> comments
// marking dynamic positions, and statements wiring those positions.
type lowering struct {
	h       *Helpers
	names   *Namer
	hoisted []ast.Stmt
	err     error
}

func (l *lowering) fail(code analyze.Code, at ast.Range, format string, args ...any) {
	if l.err == nil {
		l.err = &analyze.Error{Code: code, Range: at, Msg: fmt.Sprintf(format, args...)}
	}
}

// fragment returns the statements building f and returning its root.
func (l *lowering) fragment(f *template.Fragment) []ast.Stmt {
	nodes := trim(f.Nodes)
	if len(nodes) == 0 {
		return []ast.Stmt{&ast.ReturnStmt{X: ast.NullLit()}}
	}

	fr := &fragment{l: l, root: l.names.Fresh("root")}
	var b strings.Builder
	fr.nodes(&b, nodes, nil)

	name := l.names.Fresh(fmt.Sprintf("template_%d", len(l.hoisted)+1))
	decl := ast.Const(name, ast.Call(l.h.Ref("template"), ast.Str(b.String())))
	decl.Hoisted = true
	l.hoisted = append(l.hoisted, decl)

	stmts := []ast.Stmt{ast.Const(fr.root, ast.Call(ast.Id(name)))}
	stmts = append(stmts, fr.lookups...)
	stmts = append(stmts, fr.wiring...)
	stmts = append(stmts, &ast.ReturnStmt{X: ast.Id(fr.root)})
	return stmts
}

// block returns a block function rendering f.
func (l *lowering) block(f *template.Fragment, params ...*ast.Ident) *ast.FuncLit {
	fn := &ast.FuncLit{Block: true, Params: []*ast.Param{}}
	for _, p := range params {
		if p != nil {
			fn.Params = append(fn.Params, &ast.Param{Range: p.Range, Name: p})
		}
	}
	fn.Body = ast.Block(l.fragment(f)...)
	return fn
}

// trim merges adjacent text and drops whitespace between tags.
func trim(nodes []template.Node) []template.Node {
	var out []template.Node
	for _, n := range nodes {
		t, ok := n.(*template.Text)
		if !ok {
			out = append(out, n)
			continue
		}
		if len(out) > 0 {
			if prev, ok := out[len(out)-1].(*template.Text); ok {
				merged := *prev
				merged.Data += t.Data
				merged.End = t.End
				out[len(out)-1] = &merged
				continue
			}
		}
		out = append(out, t)
	}

	return slices.DeleteFunc(out, func(n template.Node) bool {
		t, ok := n.(*template.Text)
		return ok && strings.TrimSpace(t.Data) == "" && strings.ContainsAny(t.Data, "\r\n")
	})
}

type fragment struct {
	l       *lowering
	root    string
	lookups []ast.Stmt
	wiring  []ast.Stmt
}

// ref declares a variable holding the node at path.
func (f *fragment) ref(path []int, base string) *ast.Ident {
	name := f.l.names.Fresh(base)
	args := []ast.Expr{ast.Id(f.root)}
	for _, i := range path {
		args = append(args, ast.Num(i))
	}
	f.lookups = append(f.lookups, ast.Const(name, ast.Call(f.l.h.Ref("child"), args...)))
	return ast.Id(name)
}

func (f *fragment) plain(x ast.Expr) {
	f.wiring = append(f.wiring, ast.Expression(x))
}

// reactive adds a statement that reruns whenever the reactive values it
// reads change. Statements reading none run once.
func (f *fragment) reactive(x ast.Expr) {
	f.wiring = append(f.wiring, &ast.LabeledStmt{Label: ast.Id("$"), Body: ast.Expression(x)})
}

func (f *fragment) helper(name string, args ...ast.Expr) *ast.CallExpr {
	return ast.Call(f.l.h.Ref(name), args...)
}

func (f *fragment) nodes(b *strings.Builder, nodes []template.Node, parent []int) {
	for i, n := range nodes {
		path := append(slices.Clip(parent), i)

		switch n := n.(type) {
		case *template.Text:
			b.WriteString(n.Data)
		case *template.Element:
			if n.Component {
				b.WriteString("<!>")
				f.component(f.ref(path, "anchor"), n)
				continue
			}
			f.element(b, n, path)
		default:
			b.WriteString("<!>")
			f.dynamic(f.ref(path, "anchor"), n)
		}
	}
}

func (f *fragment) element(b *strings.Builder, el *template.Element, path []int) {
	b.WriteString("<" + el.Tag)

	var dynamic []*template.Attribute
	for _, a := range el.Attrs {
		if a.Kind != template.Static {
			dynamic = append(dynamic, a)
			continue
		}
		b.WriteString(" " + a.Name)
		if a.Value != nil {
			b.WriteString(`="` + html.EscapeString(html.UnescapeString(a.Text())) + `"`)
		}
	}
	b.WriteString(">")

	if len(dynamic) > 0 {
		ref := f.ref(path, "el")
		for _, a := range dynamic {
			f.attribute(ref, el, a)
		}
	}

	if template.IsVoid(el.Tag) {
		return
	}
	f.nodes(b, trim(el.Children.Nodes), path)
	b.WriteString("</" + el.Tag + ">")
}

func (f *fragment) attribute(el *ast.Ident, owner *template.Element, a *template.Attribute) {
	switch a.Kind {
	case template.Dynamic:
		if owner.Inline {
			f.reactive(f.helper("setProp", el, ast.Str(sig.PropertyName(a.Name)), attrValue(a)))
			return
		}
		f.reactive(f.helper("attr", el, ast.Str(a.Name), attrValue(a)))

	case template.Event:
		f.plain(f.helper("listen", el, ast.Str(a.Name), f.handler(a.X)))

	case template.Class:
		f.reactive(f.helper("toggle", el, ast.Str(a.Name), a.X))

	case template.Prop:
		f.reactive(&ast.AssignExpr{Op: "=", Target: member(el, a.Name), Value: a.X})

	case template.Bind:
		switch a.X.(type) {
		case *ast.Ident, *ast.MemberExpr:
		default:
			f.l.fail(analyze.ErrInvalidDirective, a.Range, "bind:%s needs a variable or member expression", a.Name)
			return
		}

		event := "change"
		if a.Name == "value" {
			event = "input"
		}
		f.reactive(&ast.AssignExpr{Op: "=", Target: member(el, a.Name), Value: a.X})
		update := &ast.AssignExpr{Range: a.X.Span(), Op: "=", Target: ast.Clone(a.X), Value: member(el, a.Name)}
		f.plain(f.helper("listen", el, ast.Str(event), ast.ArrowBlock(ast.Block(ast.Expression(update)))))
	}
}

// handler wraps event handler expressions that are not function literals so
// they are evaluated on each event.
func (f *fragment) handler(x ast.Expr) ast.Expr {
	if fn, ok := x.(*ast.FuncLit); ok {
		return fn
	}
	event := f.l.names.Fresh("event")
	return ast.Arrow(ast.Call(x, ast.Id(event)), event)
}

func member(object ast.Expr, name string) *ast.MemberExpr {
	if isIdentName(name) {
		return ast.Member(object, name)
	}
	return &ast.MemberExpr{Object: object, Property: ast.Str(name), Computed: true}
}

func isIdentName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '$' || c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || i > 0 && c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// attrValue returns the expression of an attribute value, joining mixed
// text and expression parts into a template literal.
func attrValue(a *template.Attribute) ast.Expr {
	if x := a.Expr(); x != nil {
		return x
	}

	lit := &ast.TemplateLit{Range: a.Range}
	text := ""
	for _, part := range a.Value {
		switch part := part.(type) {
		case *template.Text:
			text += escapeQuasi(html.UnescapeString(part.Data))
		case *template.Expression:
			lit.Quasis = append(lit.Quasis, text)
			lit.Exprs = append(lit.Exprs, part.X)
			text = ""
		}
	}
	lit.Quasis = append(lit.Quasis, text)
	return lit
}

func escapeQuasi(s string) string {
	return strings.NewReplacer(`\`, `\\`, "`", "\\`", "${", "\\${").Replace(s)
}

func (f *fragment) dynamic(anchor *ast.Ident, n template.Node) {
	switch n := n.(type) {
	case *template.Expression:
		if n.Name == "html" {
			f.reactive(f.helper("html", anchor, n.X))
			return
		}
		txt := ast.Id(f.l.names.Fresh("txt"))
		f.wiring = append(f.wiring, ast.Const(txt.Name, f.helper("text", anchor)))
		f.reactive(&ast.AssignExpr{
			Op:     "=",
			Target: ast.Member(txt, "data"),
			Value:  &ast.BinaryExpr{Op: "??", X: n.X, Y: ast.Str("")},
		})

	case *template.IfBlock:
		blocks := &ast.ArrayLit{}
		var selector ast.Expr = ast.Num(-1)
		if n.Else != nil {
			selector = ast.Num(len(n.Branches))
		}
		for i := len(n.Branches) - 1; i >= 0; i-- {
			selector = &ast.CondExpr{Test: n.Branches[i].Test, Then: ast.Num(i), Else: selector}
		}
		for _, br := range n.Branches {
			blocks.Elements = append(blocks.Elements, f.l.block(br.Body))
		}
		if n.Else != nil {
			blocks.Elements = append(blocks.Elements, f.l.block(n.Else))
		}
		f.plain(f.helper("ifBlock", anchor, ast.Arrow(selector), blocks))

	case *template.EachBlock:
		f.plain(f.helper("each", anchor, ast.Arrow(n.Items), f.l.block(n.Body, n.Item, n.Index)))

	case *template.AwaitBlock:
		state := func(body *template.Fragment, param *ast.Ident) ast.Expr {
			if body == nil {
				return ast.NullLit()
			}
			return f.l.block(body, param)
		}
		f.plain(f.helper("awaitBlock", anchor, ast.Arrow(n.Promise),
			state(n.Pending, nil),
			state(n.Then, n.Value),
			state(n.Catch, n.Error),
		))

	case *template.KeyBlock:
		f.plain(f.helper("keyBlock", anchor, ast.Arrow(n.Key), f.l.block(n.Body)))
	}
}

// component mounts a component element. Props are passed as thunks so the
// child reads them lazily inside its own reactive scopes.
func (f *fragment) component(anchor *ast.Ident, el *template.Element) {
	props := &ast.ObjectLit{Props: []*ast.Property{}}
	events := &ast.ObjectLit{Props: []*ast.Property{}}

	for _, a := range el.Attrs {
		switch a.Kind {
		case template.Static:
			var value ast.Expr = ast.Str(html.UnescapeString(a.Text()))
			if a.Value == nil {
				value = &ast.Literal{Kind: ast.Boolean, Raw: "true"}
			}
			props.Props = append(props.Props, &ast.Property{Key: key(a.Name), Value: ast.Arrow(value)})
		case template.Dynamic:
			props.Props = append(props.Props, &ast.Property{Key: key(a.Name), Value: ast.Arrow(attrValue(a))})
		case template.Event:
			events.Props = append(events.Props, &ast.Property{Key: key(a.Name), Value: f.handler(a.X)})
		default:
			f.l.fail(analyze.ErrInvalidDirective, a.Range, "directive is not supported on component <%s>", el.Tag)
		}
	}

	var children ast.Expr = ast.NullLit()
	if len(trim(el.Children.Nodes)) > 0 {
		children = f.l.block(el.Children)
	}

	f.plain(f.helper("component", anchor, componentRef(el), props, events, children))
}

func key(name string) ast.Expr {
	if isIdentName(name) {
		return ast.Id(name)
	}
	return ast.Str(name)
}

// componentRef returns the expression naming the component of el, such as
// ui.Button for <ui.Button>.
func componentRef(el *template.Element) ast.Expr {
	parts := strings.Split(el.Tag, ".")
	start := el.Start + 1

	var x ast.Expr = &ast.Ident{Range: ast.Range{Start: start, End: start + len(parts[0])}, Name: parts[0]}
	for _, p := range parts[1:] {
		x = ast.Member(x, p)
	}
	return x
}

// templateNames calls fn with every script node in f.
func templateNames(f *template.Fragment, fn func(ast.Node)) {
	for _, n := range f.Nodes {
		switch n := n.(type) {
		case *template.Expression:
			fn(n.X)
		case *template.Element:
			if n.Component {
				fn(componentRef(n))
			}
			for _, a := range n.Attrs {
				if a.X != nil {
					fn(a.X)
				}
				for _, part := range a.Value {
					if e, ok := part.(*template.Expression); ok {
						fn(e.X)
					}
				}
			}
			templateNames(n.Children, fn)
		case *template.IfBlock:
			for _, br := range n.Branches {
				fn(br.Test)
				templateNames(br.Body, fn)
			}
			if n.Else != nil {
				templateNames(n.Else, fn)
			}
		case *template.EachBlock:
			fn(n.Items)
			fn(n.Item)
			if n.Index != nil {
				fn(n.Index)
			}
			templateNames(n.Body, fn)
		case *template.AwaitBlock:
			fn(n.Promise)
			for _, id := range []*ast.Ident{n.Value, n.Error} {
				if id != nil {
					fn(id)
				}
			}
			for _, body := range []*template.Fragment{n.Pending, n.Then, n.Catch} {
				if body != nil {
					templateNames(body, fn)
				}
			}
		case *template.KeyBlock:
			fn(n.Key)
			templateNames(n.Body, fn)
		}
	}
}
