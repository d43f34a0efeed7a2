package transform

import (
	"fmt"
	"sort"

	"github.com/AnatoleLucet/sig/compiler/ast"
)

// Namer hands out identifiers that do not clash with the ones already in
// use.
type Namer struct {
	used map[string]bool
}

// NewNamer reserves every identifier appearing in nodes.
func NewNamer(nodes ...ast.Node) *Namer {
	n := &Namer{used: map[string]bool{}}
	for _, node := range nodes {
		n.Collect(node)
	}
	return n
}

func (n *Namer) Collect(node ast.Node) {
	if node == nil {
		return
	}
	ast.Inspect(node, func(node ast.Node) bool {
		if id, ok := node.(*ast.Ident); ok {
			n.used[id.Name] = true
		}
		return true
	})
}

func (n *Namer) Reserve(name string) { n.used[name] = true }

// Fresh returns base, or base with the smallest numeric suffix that is
// still free.
func (n *Namer) Fresh(base string) string {
	name := base
	for i := 1; n.used[name]; i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	n.used[name] = true
	return name
}

// Helpers tracks the runtime helpers a component uses and the local names
// they are imported under.
type Helpers struct {
	namer   *Namer
	aliases map[string]string
}

func NewHelpers(namer *Namer) *Helpers {
	return &Helpers{namer: namer, aliases: map[string]string{}}
}

// Ref returns a reference to the helper name, importing it on first use.
func (h *Helpers) Ref(name string) *ast.Ident {
	alias, ok := h.aliases[name]
	if !ok {
		alias = h.namer.Fresh(name)
		h.aliases[name] = alias
	}
	return ast.Id(alias)
}

// Used returns the imported helper names, sorted.
func (h *Helpers) Used() []string {
	names := make([]string, 0, len(h.aliases))
	for name := range h.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Import returns the import declaration of the used helpers from path.
func (h *Helpers) Import(path string) *ast.ImportDecl {
	d := &ast.ImportDecl{Source: ast.Str(path)}
	for _, name := range h.Used() {
		d.Specs = append(d.Specs, &ast.ImportSpec{Imported: ast.Id(name), Local: ast.Id(h.aliases[name])})
	}
	return d
}
