package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnatoleLucet/sig/compiler/ast"
	"github.com/AnatoleLucet/sig/compiler/parser"
	"github.com/AnatoleLucet/sig/compiler/printer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.ParseProgram(src, 0)
	require.NoError(t, err)
	return prog
}

func TestApply(t *testing.T) {
	t.Run("replace keeps the input intact", func(t *testing.T) {
		prog := parse(t, "a + b;\nc;")

		out := ast.Apply(prog, func(c *ast.Cursor) ast.Action {
			if id, ok := c.Node().(*ast.Ident); ok && id.Name == "a" {
				c.Replace(ast.Call(ast.Id("a")))
				return ast.Skip
			}
			return ast.Continue
		}, nil)

		assert.Equal(t, "a() + b;\nc;", printer.Print(out))
		assert.Equal(t, "a + b;\nc;", printer.Print(prog))

		// untouched statements are shared
		assert.Same(t, prog.Body[1], out.(*ast.Program).Body[1])
		assert.NotSame(t, prog.Body[0], out.(*ast.Program).Body[0])
	})

	t.Run("remove", func(t *testing.T) {
		prog := parse(t, "a;\nb;\nf(x, y, z);")

		out := ast.Apply(prog, func(c *ast.Cursor) ast.Action {
			if id, ok := c.Node().(*ast.Ident); ok && id.Name == "y" {
				return ast.Remove
			}
			if s, ok := c.Node().(*ast.ExprStmt); ok {
				if id, ok := s.X.(*ast.Ident); ok && id.Name == "b" {
					return ast.Remove
				}
			}
			return ast.Continue
		}, nil)

		assert.Equal(t, "a;\nf(x, z);", printer.Print(out))
	})

	t.Run("splice", func(t *testing.T) {
		prog := parse(t, "a;\nb;")

		out := ast.Apply(prog, nil, func(c *ast.Cursor) ast.Action {
			if s, ok := c.Node().(*ast.ExprStmt); ok && c.Index() == 0 {
				c.Replace(ast.Splice(s, ast.Expression(ast.Call(ast.Id("after")))))
			}
			return ast.Continue
		})

		assert.Equal(t, "a;\nafter();\nb;", printer.Print(out))
	})

	t.Run("skip", func(t *testing.T) {
		prog := parse(t, "function f() { inner; }\nouter;")

		var seen []string
		ast.Walk(prog, func(c *ast.Cursor) ast.Action {
			if _, ok := c.Node().(*ast.FuncLit); ok {
				return ast.Skip
			}
			if id, ok := c.Node().(*ast.Ident); ok {
				seen = append(seen, id.Name)
			}
			return ast.Continue
		}, nil)

		assert.Equal(t, []string{"outer"}, seen)
	})

	t.Run("cursor", func(t *testing.T) {
		prog := parse(t, "o.p[k];")

		fields := map[string]string{}
		ast.Walk(prog, func(c *ast.Cursor) ast.Action {
			if id, ok := c.Node().(*ast.Ident); ok {
				fields[id.Name] = c.Name()
				assert.IsType(t, &ast.MemberExpr{}, c.Parent())
				assert.IsType(t, &ast.Program{}, c.Ancestors()[0])
			}
			return ast.Continue
		}, nil)

		assert.Equal(t, map[string]string{"o": "Object", "p": "Property", "k": "Property"}, fields)
	})
}

func TestInspect(t *testing.T) {
	prog := parse(t, "x = y + 1;")

	var kinds []string
	ast.Inspect(prog, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Ident:
			kinds = append(kinds, n.Name)
		case *ast.Literal:
			kinds = append(kinds, n.Raw)
		}
		return true
	})

	assert.Equal(t, []string{"x", "y", "1"}, kinds)
}

func TestClone(t *testing.T) {
	prog := parse(t, "a + a;")
	x := prog.Body[0].(*ast.ExprStmt).X

	cp := ast.Clone(x)
	assert.Equal(t, printer.Print(x), printer.Print(cp))

	orig := x.(*ast.BinaryExpr)
	clone := cp.(*ast.BinaryExpr)
	assert.NotSame(t, orig.X, clone.X)
	assert.NotSame(t, orig.Y, clone.Y)
}

func TestQuote(t *testing.T) {
	for in, want := range map[string]string{
		"plain":      `"plain"`,
		`say "hi"`:   `"say \"hi\""`,
		"a\\b":       `"a\\b"`,
		"line\nnext": `"line\nnext"`,
		"\x00":       `"\x00"`,
		"\u2028":     `"\u2028"`,
		"héllo":      `"héllo"`,
	} {
		assert.Equal(t, want, ast.Quote(in), in)
	}
}
