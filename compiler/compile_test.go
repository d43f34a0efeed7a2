package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counter = `<script>
  let count = 0;
  const step = 1;
  function increment() {
    count += step;
  }
</script>

<button on:click={increment}>Clicked {count}</button>
`

func TestCompile(t *testing.T) {
	res, err := Compile(counter, Options{Filename: "Counter.sig"})
	require.NoError(t, err)

	want := `import { child, define, effect, listen, signal, template, text } from "sig/runtime";
const template_1 = template("<button>Clicked <!></button>");
export default define("x-counter", function setup($$props, $$host) {
  let count = signal(0);
  const step = 1;
  function increment() {
    count.set(count() + step);
  }
  const root = template_1();
  const el = child(root, 0);
  const anchor = child(root, 0, 1);
  listen(el, "click", (event) => increment(event));
  const txt = text(anchor);
  effect(() => {
    txt.data = count() ?? "";
  });
  return root;
}, [], []);`

	assert.Equal(t, want, res.Code)
	assert.Equal(t, "x-counter", res.Tag)
	assert.Empty(t, res.Props)
}

func compile(t *testing.T, script string) string {
	t.Helper()
	res, err := Compile("<script>"+script+"</script>", Options{Name: "test-component"})
	require.NoError(t, err)
	return res.Code
}

func compileError(t *testing.T, source string) *Error {
	t.Helper()
	_, err := Compile(source, Options{Filename: "Broken.sig"})
	require.Error(t, err)

	var cerr *Error
	require.True(t, errors.As(err, &cerr), "got %T: %v", err, err)
	return cerr
}

func TestMutableDetection(t *testing.T) {
	t.Run("reassigned variables become signals", func(t *testing.T) {
		code := compile(t, "let x = 1; x = 2; console.log(x);")

		assert.Contains(t, code, "let x = signal(1);")
		assert.Contains(t, code, "x.set(2);")
		assert.Contains(t, code, "console.log(x());")
	})

	t.Run("untouched variables stay plain", func(t *testing.T) {
		code := compile(t, "let y = 1; console.log(y);")

		assert.Contains(t, code, "let y = 1;")
		assert.Contains(t, code, "console.log(y);")
		assert.NotContains(t, code, "signal")
	})

	t.Run("writes in nested functions count", func(t *testing.T) {
		code := compile(t, "let n = 0; function reset() { n = 0; }")

		assert.Contains(t, code, "let n = signal(0);")
		assert.Contains(t, code, "n.set(0);")
	})

	t.Run("shadowed names are left alone", func(t *testing.T) {
		code := compile(t, "let n = 0; n = 1; function f(n) { return n + 1; }")

		assert.Contains(t, code, "return n + 1;")
	})

	t.Run("compound and prefix updates", func(t *testing.T) {
		code := compile(t, "let n = 0; n *= 3; ++n; --n;")

		assert.Contains(t, code, "n.set(n() * 3);")
		assert.Contains(t, code, "n.set(n() + 1);")
		assert.Contains(t, code, "n.set(n() - 1);")
	})
}

func TestPostfixUpdate(t *testing.T) {
	t.Run("rejected on reactive variables", func(t *testing.T) {
		err := compileError(t, "<script>let x = 0;\nx++;</script>")

		assert.Equal(t, ErrPostfixUpdate, err.Code)
		assert.Equal(t, Pos{Line: 2, Column: 1}, err.Span.Start)
	})

	t.Run("allowed on locals", func(t *testing.T) {
		code := compile(t, "function f() { let i = 0; i++; return i; }")

		assert.Contains(t, code, "i++;")
	})
}

func TestProps(t *testing.T) {
	res, err := Compile(`<script>
  export let title = "untitled";
  export let items = [];
  let count = 0;
  export { count as total };
  count = 1;
</script>`, Options{Name: "prop-list"})
	require.NoError(t, err)

	assert.Equal(t, []string{"title", "items", "total"}, res.Props)
	assert.Contains(t, res.Code, `let title = prop($$props, 0, "untitled");`)
	assert.Contains(t, res.Code, `let items = prop($$props, 1, () => []);`)
	assert.Contains(t, res.Code, `let count = prop($$props, 2, () => 0);`)
	assert.Contains(t, res.Code, `count.set(1);`)
	assert.Contains(t, res.Code, `}, ["title", "items", "total"], []);`)
}

func TestReactiveStatements(t *testing.T) {
	t.Run("computed declarations", func(t *testing.T) {
		code := compile(t, "let a = 1; a = 2; $: double = a * 2; $: label = \"fixed\"; console.log(double, label);")

		assert.Contains(t, code, "const double = computed(() => a() * 2);")
		assert.Contains(t, code, `const label = "fixed";`)
		assert.Contains(t, code, "console.log(double(), label);")
	})

	t.Run("effects", func(t *testing.T) {
		code := compile(t, "let a = 1; a = 2; $: console.log(a); $: console.log(\"once\");")

		assert.Contains(t, code, "effect(() => {\n    console.log(a());\n  });")
		assert.Contains(t, code, "  console.log(\"once\");")
	})

	t.Run("assigning a computed is an error", func(t *testing.T) {
		err := compileError(t, "<script>$: d = 1; d = 2;</script>")
		assert.Equal(t, ErrComputedAssign, err.Code)
	})
}

func TestStores(t *testing.T) {
	t.Run("subscription is declared", func(t *testing.T) {
		code := compile(t, `import { store } from "./stores"; console.log($store);`)

		assert.Contains(t, code, `import { store } from "./stores";`)
		assert.Contains(t, code, "const $store = subscribe(store);")
		assert.Contains(t, code, "console.log($store());")
	})

	t.Run("subscription follows the store declaration", func(t *testing.T) {
		code := compile(t, "const first = 1; const store = writable(0); console.log($store);")

		assert.Contains(t, code, "const store = writable(0);\n  const $store = subscribe(store);")
	})

	t.Run("writes go to the store", func(t *testing.T) {
		code := compile(t, "const store = writable(0); $store = 5;")

		assert.Contains(t, code, "store.set(5);")
	})

	t.Run("lone sigil", func(t *testing.T) {
		err := compileError(t, "<script>console.log($);</script>")
		assert.Equal(t, ErrLoneSigil, err.Code)
	})

	t.Run("reserved names are not stores", func(t *testing.T) {
		code := compile(t, "console.log($$props, $$$internal);")

		assert.Contains(t, code, "console.log($$props, $$$internal);")
		assert.NotContains(t, code, "subscribe")
	})

	t.Run("reserved declarations", func(t *testing.T) {
		err := compileError(t, "<script>let $x = 1;</script>")
		assert.Equal(t, ErrReservedName, err.Code)
	})

	t.Run("reserved assignment", func(t *testing.T) {
		err := compileError(t, "<script>$$props = 1;</script>")
		assert.Equal(t, ErrReservedAssign, err.Code)
	})
}

func TestExports(t *testing.T) {
	for name, tc := range map[string]struct {
		source string
		code   Code
	}{
		"default export":   {"<script>export default 1;</script>", ErrDefaultExport},
		"duplicate export": {"<script>let a = 1; export { a, a };</script>", ErrDuplicateExport},
		"exported function": {
			"<script>export function f() {}</script>", ErrUnsupportedExport,
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := compileError(t, tc.source)
			assert.Equal(t, tc.code, err.Code)
		})
	}
}

func TestHelperAliases(t *testing.T) {
	code := compile(t, "let effect = 1; effect = 2; $: console.log(effect);")

	assert.Contains(t, code, "import { define, effect as effect_1, signal } from")
	assert.Contains(t, code, "effect_1(() => {\n    console.log(effect());\n  });")
}

func TestTemplate(t *testing.T) {
	compileMarkup := func(t *testing.T, source string) string {
		t.Helper()
		res, err := Compile(source, Options{Name: "test-markup"})
		require.NoError(t, err)
		return res.Code
	}

	t.Run("static markup", func(t *testing.T) {
		code := compileMarkup(t, `<p class="note">a &amp; b</p>`)

		assert.Contains(t, code, `template("<p class=\"note\">a &amp; b</p>")`)
		assert.NotContains(t, code, "effect")
	})

	t.Run("attributes", func(t *testing.T) {
		code := compileMarkup(t, `<script>let name = "a"; name = "b";</script><a href="/users/{name}" title={name}>x</a>`)

		assert.Contains(t, code, "attr(el, \"href\", `/users/${name()}`);")
		assert.Contains(t, code, `attr(el, "title", name());`)
	})

	t.Run("custom elements get properties", func(t *testing.T) {
		code := compileMarkup(t, `<script>let v = 1; v = 2;</script><my-input max-length={v}></my-input>`)

		assert.Contains(t, code, `setProp(el, "maxLength", v());`)
	})

	t.Run("two way binding", func(t *testing.T) {
		code := compileMarkup(t, `<script>let query = ""; query = "a";</script><input bind:value={query}>`)

		assert.Contains(t, code, "el.value = query();")
		assert.Contains(t, code, "listen(el, \"input\", () => {\n    query.set(el.value);\n  });")
	})

	t.Run("bind needs an assignable expression", func(t *testing.T) {
		err := compileError(t, `<input bind:value={1 + 2}>`)
		assert.Equal(t, ErrInvalidDirective, err.Code)
	})

	t.Run("class and prop directives", func(t *testing.T) {
		code := compileMarkup(t, `<script>let on = false; on = true;</script><div class:active={on} prop:hidden={!on}></div>`)

		assert.Contains(t, code, `toggle(el, "active", on());`)
		assert.Contains(t, code, "el.hidden = !on();")
	})

	t.Run("plain wiring runs once", func(t *testing.T) {
		code := compileMarkup(t, `<script>const label = "hi";</script><span>{label}</span>`)

		assert.Contains(t, code, `txt.data = label ?? "";`)
		assert.NotContains(t, code, "effect")
	})

	t.Run("if blocks", func(t *testing.T) {
		code := compileMarkup(t, `<script>let n = 0; n = 1;</script>{#if n > 1}many{:else if n}one{:else}none{/if}`)

		assert.Contains(t, code, "ifBlock(anchor, () => n() > 1 ? 0 : n() ? 1 : 2, [")
		assert.Equal(t, 4, strings.Count(code, "template(\""), code)
	})

	t.Run("each blocks", func(t *testing.T) {
		code := compileMarkup(t, `<script>let items = []; items = [1];</script><ul>{#each items as item, i}<li>{i}: {item}</li>{/each}</ul>`)

		assert.Contains(t, code, "each(anchor, () => items(), function (item, i) {")
		assert.Contains(t, code, `txt.data = i() ?? "";`)
		assert.Contains(t, code, `txt_1.data = item() ?? "";`)
	})

	t.Run("await blocks", func(t *testing.T) {
		code := compileMarkup(t, `<script>const p = load();</script>{#await p}wait{:then v}{v}{:catch e}{e.message}{/await}`)

		assert.Contains(t, code, "awaitBlock(anchor, () => p, function () {")
		assert.Contains(t, code, "}, function (v) {")
		assert.Contains(t, code, "}, function (e) {")
		assert.Contains(t, code, `txt.data = v() ?? "";`)
		assert.Contains(t, code, `txt_1.data = e().message ?? "";`)
	})

	t.Run("components", func(t *testing.T) {
		code := compileMarkup(t, `<script>import Card from "./Card.sig"; let n = 0; n = 1;</script><Card title="t" count={n} on:close={() => n = 0} />`)

		assert.Contains(t, code, `component(anchor, Card, { title: () => "t", count: () => n() }, { close: () => n.set(0) }, null);`)
	})

	t.Run("raw html", func(t *testing.T) {
		code := compileMarkup(t, `<script>let h = ""; h = "<b>x</b>";</script><div>{@html h}</div>`)

		assert.Contains(t, code, "html(anchor, h());")
	})
}

func TestTag(t *testing.T) {
	for _, tc := range []struct {
		name, filename, prefix, want string
	}{
		{"my-counter", "", "", "my-counter"},
		{"", "src/TodoList.sig", "", "todo-list"},
		{"", "Counter.sig", "", "x-counter"},
		{"", "Counter.sig", "app", "app-counter"},
		{"Button", "", "ui", "ui-button"},
		{"", "", "", "x-component"},
	} {
		assert.Equal(t, tc.want, Tag(tc.name, tc.filename, tc.prefix), "%+v", tc)
	}
}

func TestStyle(t *testing.T) {
	source := "<style lang=\"upper\">p { color: red; }</style><p>hi</p>"

	res, err := Compile(source, Options{
		Name: "styled-p",
		Preprocess: func(css string, attrs map[string]string, filename string) (string, error) {
			assert.Equal(t, "upper", attrs["lang"])
			return strings.ToUpper(css), nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "P { COLOR: RED; }", res.CSS)
	assert.Contains(t, res.Code, `}, [], ["P { COLOR: RED; }"]);`)

	_, err = Compile(source, Options{
		Preprocess: func(string, map[string]string, string) (string, error) {
			return "", errors.New("bad css")
		},
	})
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrStyle, cerr.Code)
}

func TestErrors(t *testing.T) {
	t.Run("syntax errors carry a frame", func(t *testing.T) {
		err := compileError(t, "<script>\nlet a = ;\n</script>")

		assert.Equal(t, ErrSyntax, err.Code)
		assert.Equal(t, "Broken.sig", err.Filename)
		assert.Equal(t, 2, err.Span.Start.Line)
		assert.Contains(t, err.Frame, "> 2 | let a = ;")
		assert.Contains(t, err.Frame, "^")
		assert.True(t, strings.HasPrefix(err.Error(), "Broken.sig:2:"))
		assert.Contains(t, err.Format(), err.Frame)
	})

	t.Run("markup errors", func(t *testing.T) {
		err := compileError(t, "<div>\n<span></div>")

		assert.Equal(t, ErrMarkup, err.Code)
	})

	t.Run("unwraps to the phase error", func(t *testing.T) {
		err := compileError(t, "<script>let $x = 1;</script>")
		assert.Error(t, errors.Unwrap(err))
	})
}

func TestReport(t *testing.T) {
	res, err := Compile(`<script>
  import { store } from "./stores";
  export let title = "";
  let count = 0;
  const limit = 10;
  $: double = count * 2;
  count = 1;
</script>
<p>{$store} {double}</p>`, Options{Name: "report-test"})
	require.NoError(t, err)

	r := NewReport("Report.sig", res)
	classes := map[string]string{}
	for _, b := range r.Bindings {
		classes[b.Name] = b.Class
	}

	assert.Equal(t, map[string]string{
		"store":  "plain",
		"title":  "prop",
		"count":  "mutable",
		"limit":  "plain",
		"double": "computed",
		"$store": "store",
	}, classes)
	assert.Equal(t, []string{"title"}, r.Props)
}
