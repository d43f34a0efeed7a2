package printer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnatoleLucet/sig/compiler/ast"
	"github.com/AnatoleLucet/sig/compiler/parser"
	"github.com/AnatoleLucet/sig/compiler/printer"
)

func TestPrint(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want string
	}{
		{"declarations", `let a = 1, b = "x";`, ""},
		{"grouping", "const y = (a + b) * c;", ""},
		{"precedence", "const z = a + b * c;", ""},
		{"literals", `foo(1, "two", [3, 4], { a: 1, b });`, ""},
		{"arrow", "const f = x => x * 2;", "const f = (x) => x * 2;"},
		{"arrow object body", "const g = () => ({ a: 1 });", ""},
		{"coalesce mix", "a ?? (b || c);", ""},
		{"if chain", "if (a) {\n  b();\n} else if (c) {\n  d();\n} else {\n  e();\n}", ""},
		{"for", "for (let i = 0; i < n; i++) {\n  sum += i;\n}", ""},
		{"for of", "for (const item of items) {\n  use(item);\n}", ""},
		{"import", `import a, { b as c, d } from "./m";`, ""},
		{"template literal", "x = `hello ${name}!`;", ""},
		{"double negation", "-(-x);", "- -x;"},
		{"iife", "(function () {})();", "(function () {}());"},
		{"new without args", "const o = new Foo;", ""},
		{"optional chaining", "a?.b?.[c]?.(d);", ""},
		{"exponent", "(-2) ** 2;", ""},
		{"switch", "switch (x) {\n  case 1:\n    a();\n    break;\n  default:\n    b();\n}", ""},
		{"try", "try {\n  a();\n} catch (e) {\n  b(e);\n} finally {\n  c();\n}", ""},
		{"label", "label: for (;;) {\n  break label;\n}", ""},
		{"do while", "do {\n  i++;\n} while (i < 3);", ""},
		{"export list", "export { a, b as c };", ""},
		{"async", "async function load() {\n  const r = await fetch(url);\n  return r.json();\n}", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			prog, err := parser.ParseProgram(tc.src, 0)
			require.NoError(t, err)

			want := tc.want
			if want == "" {
				want = tc.src
			}
			got := printer.Print(prog)
			assert.Equal(t, want, got)

			// printing is stable
			again, err := parser.ParseProgram(got, 0)
			require.NoError(t, err)
			assert.Equal(t, got, printer.Print(again))
		})
	}
}

func TestPrintGenerated(t *testing.T) {
	fn := ast.ArrowBlock(ast.Block(ast.Expression(ast.Call(ast.Id("run")))))
	stmt := ast.Expression(ast.Call(ast.Id("effect"), fn))

	assert.Equal(t, "effect(() => {\n  run();\n});", printer.Print(stmt))

	cfg := printer.Config{Indent: "\t"}
	assert.Equal(t, "effect(() => {\n\trun();\n});", cfg.Print(stmt))

	assert.Equal(t, `"a\"b\n"`, printer.Print(ast.Str("a\"b\n")))
	assert.Equal(t, "return null;", printer.Print(&ast.ReturnStmt{X: ast.NullLit()}))
}
