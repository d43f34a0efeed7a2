// Package transform turns an analyzed component into a program defining it
// against the runtime helper module.
package transform

import (
	"slices"

	"github.com/AnatoleLucet/sig/compiler/analyze"
	"github.com/AnatoleLucet/sig/compiler/ast"
	"github.com/AnatoleLucet/sig/compiler/template"
)

// DefaultRuntimePath is the module runtime helpers are imported from.
const DefaultRuntimePath = "sig/runtime"

type Options struct {
	// Tag is the custom element name the component is defined under.
	Tag         string
	RuntimePath string
	Styles      []string
}

type Output struct {
	Program  *ast.Program
	Analysis *analyze.Result
	// Props are the exported prop names by index.
	Props []string
}

// Component compiles the script and markup of doc into a program. script is
// the parsed content of doc.Script, or nil.
func Component(doc *template.Document, script *ast.Program, opts Options) (*Output, error) {
	if script == nil {
		script = &ast.Program{}
	}
	if opts.RuntimePath == "" {
		opts.RuntimePath = DefaultRuntimePath
	}

	namer := NewNamer(script)
	templateNames(doc.Fragment, namer.Collect)
	namer.Reserve(PropsParam)

	h := NewHelpers(namer)
	l := &lowering{h: h, names: namer}
	markup := l.fragment(doc.Fragment)
	if l.err != nil {
		return nil, l.err
	}

	body := slices.Concat(script.Body, l.hoisted, markup)
	res, err := analyze.Analyze(&ast.Program{Range: script.Range, Body: body})
	if err != nil {
		return nil, err
	}

	prog, err := Script(res, h)
	if err != nil {
		return nil, err
	}

	return &Output{
		Program:  assemble(prog, res, h, namer, opts),
		Analysis: res,
		Props:    propNames(res),
	}, nil
}

func propNames(res *analyze.Result) []string {
	names := make([]string, 0, len(res.Props))
	for _, b := range res.Props {
		names = append(names, b.Export)
	}
	return names
}

// assemble hoists imports and template declarations out of prog and wraps
// the rest into the component setup function.
func assemble(prog *ast.Program, res *analyze.Result, h *Helpers, namer *Namer, opts Options) *ast.Program {
	var imports, hoisted, body []ast.Stmt
	for _, s := range prog.Body {
		switch s := s.(type) {
		case *ast.ImportDecl:
			imports = append(imports, s)
		case *ast.VarDecl:
			if s.Hoisted {
				hoisted = append(hoisted, s)
				continue
			}
			body = append(body, s)
		default:
			body = append(body, s)
		}
	}

	setup := &ast.FuncLit{
		Name:   ast.Id(namer.Fresh("setup")),
		Params: ast.Params(PropsParam, "$$host"),
		Body:   ast.Block(body...),
	}

	props := &ast.ArrayLit{Elements: []ast.Expr{}}
	for _, name := range propNames(res) {
		props.Elements = append(props.Elements, ast.Str(name))
	}
	styles := &ast.ArrayLit{Elements: []ast.Expr{}}
	for _, css := range opts.Styles {
		styles.Elements = append(styles.Elements, ast.Str(css))
	}

	define := &ast.ExportDefault{X: ast.Call(h.Ref("define"), ast.Str(opts.Tag), setup, props, styles)}

	out := &ast.Program{Range: prog.Range}
	out.Body = append(out.Body, h.Import(opts.RuntimePath))
	out.Body = append(out.Body, imports...)
	out.Body = append(out.Body, hoisted...)
	out.Body = append(out.Body, define)
	return out
}
