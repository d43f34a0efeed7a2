package ast

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Constructors for compiler generated nodes. Generated nodes have an empty
// Range.

func Id(name string) *Ident { return &Ident{Name: name} }

// Str returns a string literal for s.
func Str(s string) *Literal {
	return &Literal{Kind: String, Raw: Quote(s), Value: s}
}

func Num(n int) *Literal {
	return &Literal{Kind: Number, Raw: fmt.Sprint(n)}
}

func NullLit() *Literal { return &Literal{Kind: Null, Raw: "null"} }

func Call(callee Expr, args ...Expr) *CallExpr {
	if args == nil {
		args = []Expr{}
	}
	return &CallExpr{Callee: callee, Args: args}
}

// Member returns object.name.
func Member(object Expr, name string) *MemberExpr {
	return &MemberExpr{Object: object, Property: Id(name)}
}

func Arrow(body Expr, params ...string) *FuncLit {
	return &FuncLit{Arrow: true, Params: Params(params...), ExprBody: body}
}

func ArrowBlock(body *BlockStmt, params ...string) *FuncLit {
	return &FuncLit{Arrow: true, Params: Params(params...), Body: body}
}

func Params(names ...string) []*Param {
	params := make([]*Param, 0, len(names))
	for _, name := range names {
		params = append(params, &Param{Name: Id(name)})
	}
	return params
}

func Const(name string, init Expr) *VarDecl {
	return &VarDecl{Kind: "const", Decls: []*Declarator{{Name: Id(name), Init: init}}}
}

func Expression(x Expr) *ExprStmt { return &ExprStmt{X: x} }

func Block(stmts ...Stmt) *BlockStmt {
	if stmts == nil {
		stmts = []Stmt{}
	}
	return &BlockStmt{Body: stmts}
}

// Quote returns s as a double quoted JavaScript string literal.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size

		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}
			if r == utf8.RuneError && size == 1 {
				b.WriteString(`\ufffd`)
				continue
			}
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')
	return b.String()
}

// Clone returns a copy of n sharing no identifiers with it, so the copy can
// be placed in the same tree and resolved separately.
func Clone[T Node](n T) T {
	out := Apply(n, nil, func(c *Cursor) Action {
		if id, ok := c.Node().(*Ident); ok {
			cp := *id
			c.Replace(&cp)
		}
		return Continue
	})
	return out.(T)
}
