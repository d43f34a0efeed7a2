// Package printer prints script syntax trees as JavaScript source.
package printer

import (
	"strings"

	"github.com/AnatoleLucet/sig/compiler/ast"
)

// Config controls the output layout.
type Config struct {
	Indent string
}

var DefaultConfig = Config{Indent: "  "}

// Print returns the source of n using DefaultConfig.
func Print(n ast.Node) string {
	return DefaultConfig.Print(n)
}

func (c Config) Print(n ast.Node) string {
	p := &printer{cfg: c}
	switch n := n.(type) {
	case *ast.Program:
		p.stmts(n.Body)
	case ast.Stmt:
		p.stmt(n)
	case ast.Expr:
		p.expr(n, precLowest)
	}
	return p.b.String()
}

type printer struct {
	cfg   Config
	b     strings.Builder
	depth int
}

func (p *printer) write(s ...string) {
	for _, v := range s {
		p.b.WriteString(v)
	}
}

func (p *printer) newline() {
	p.b.WriteByte('\n')
	for range p.depth {
		p.b.WriteString(p.cfg.Indent)
	}
}

// Expression precedence, loosest first.
const (
	precLowest = iota
	precSeq
	precAssign
	precCond
	precCoalesce
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precExponent
	precUnary
	precUpdate
	precCall
	precPrimary
)

var binaryPrec = map[string]int{
	"??": precCoalesce,
	"||": precOr,
	"&&": precAnd,
	"|":  precBitOr,
	"^":  precBitXor,
	"&":  precBitAnd,
	"==": precEquality, "!=": precEquality, "===": precEquality, "!==": precEquality,
	"<": precRelational, ">": precRelational, "<=": precRelational, ">=": precRelational,
	"instanceof": precRelational, "in": precRelational,
	"<<": precShift, ">>": precShift, ">>>": precShift,
	"+": precAdditive, "-": precAdditive,
	"*": precMultiplicative, "/": precMultiplicative, "%": precMultiplicative,
	"**": precExponent,
}

func precOf(x ast.Expr) int {
	switch x := x.(type) {
	case *ast.SeqExpr:
		return precSeq
	case *ast.AssignExpr, *ast.SpreadExpr:
		return precAssign
	case *ast.FuncLit:
		if x.Arrow {
			return precAssign
		}
		return precPrimary
	case *ast.CondExpr:
		return precCond
	case *ast.BinaryExpr:
		return binaryPrec[x.Op]
	case *ast.UnaryExpr, *ast.AwaitExpr:
		return precUnary
	case *ast.UpdateExpr:
		if x.Prefix {
			return precUnary
		}
		return precUpdate
	case *ast.CallExpr, *ast.MemberExpr:
		return precCall
	case *ast.NewExpr:
		if x.Args == nil {
			return precCall - 1
		}
		return precCall
	}
	return precPrimary
}

func (p *printer) expr(x ast.Expr, prec int) {
	if precOf(x) < prec {
		p.write("(")
		p.expr(x, precLowest)
		p.write(")")
		return
	}

	switch x := x.(type) {
	case *ast.Ident:
		p.write(x.Name)

	case *ast.Literal:
		p.write(x.Raw)

	case *ast.TemplateLit:
		p.write("`")
		for i, q := range x.Quasis {
			p.write(q)
			if i < len(x.Exprs) {
				p.write("${")
				p.expr(x.Exprs[i], precLowest)
				p.write("}")
			}
		}
		p.write("`")

	case *ast.ArrayLit:
		p.write("[")
		for i, e := range x.Elements {
			if i > 0 {
				p.write(", ")
			}
			if e != nil {
				p.expr(e, precAssign)
			}
		}
		if n := len(x.Elements); n > 0 && x.Elements[n-1] == nil {
			p.write(",")
		}
		p.write("]")

	case *ast.ObjectLit:
		p.object(x)

	case *ast.FuncLit:
		p.function(x)

	case *ast.UnaryExpr:
		p.write(x.Op)
		if isWord(x.Op) || needsSpace(x.Op, x.X) {
			p.write(" ")
		}
		p.expr(x.X, precUnary)

	case *ast.AwaitExpr:
		p.write("await ")
		p.expr(x.X, precUnary)

	case *ast.UpdateExpr:
		if x.Prefix {
			p.write(x.Op)
			p.expr(x.X, precUnary)
			return
		}
		p.expr(x.X, precCall)
		p.write(x.Op)

	case *ast.BinaryExpr:
		p.binary(x)

	case *ast.AssignExpr:
		p.expr(x.Target, precCall)
		p.write(" ", x.Op, " ")
		p.expr(x.Value, precAssign)

	case *ast.CondExpr:
		p.expr(x.Test, precCoalesce)
		p.write(" ? ")
		p.expr(x.Then, precAssign)
		p.write(" : ")
		p.expr(x.Else, precAssign)

	case *ast.CallExpr:
		p.callee(x.Callee)
		if x.Optional {
			p.write("?.")
		}
		p.args(x.Args)

	case *ast.NewExpr:
		p.write("new ")
		if containsCall(x.Callee) {
			p.write("(")
			p.expr(x.Callee, precLowest)
			p.write(")")
		} else {
			p.expr(x.Callee, precCall)
		}
		if x.Args != nil {
			p.args(x.Args)
		}

	case *ast.MemberExpr:
		p.callee(x.Object)
		if lit, ok := x.Object.(*ast.Literal); ok && lit.Kind == ast.Number &&
			!x.Computed && !x.Optional && !strings.ContainsAny(lit.Raw, ".eExXbBoOn") {
			p.write(".")
		}
		switch {
		case x.Computed && x.Optional:
			p.write("?.[")
		case x.Computed:
			p.write("[")
		case x.Optional:
			p.write("?.")
		default:
			p.write(".")
		}
		p.expr(x.Property, precLowest)
		if x.Computed {
			p.write("]")
		}

	case *ast.SeqExpr:
		for i, e := range x.Exprs {
			if i > 0 {
				p.write(", ")
			}
			p.expr(e, precAssign)
		}

	case *ast.SpreadExpr:
		p.write("...")
		p.expr(x.X, precAssign)
	}
}

// callee prints the left side of a call or member access.
func (p *printer) callee(x ast.Expr) {
	if n, ok := x.(*ast.NewExpr); ok && n.Args == nil {
		p.write("(")
		p.expr(x, precLowest)
		p.write(")")
		return
	}
	p.expr(x, precCall)
}

func containsCall(x ast.Expr) bool {
	for {
		switch n := x.(type) {
		case *ast.CallExpr:
			return true
		case *ast.MemberExpr:
			x = n.Object
		default:
			return false
		}
	}
}

func isWord(op string) bool {
	return op == "typeof" || op == "void" || op == "delete"
}

// needsSpace reports whether printing op directly before x would merge two
// operators, as in - -x or + ++x.
func needsSpace(op string, x ast.Expr) bool {
	if op != "-" && op != "+" {
		return false
	}
	switch x := x.(type) {
	case *ast.UnaryExpr:
		return x.Op == op
	case *ast.UpdateExpr:
		return x.Prefix && x.Op[0] == op[0]
	case *ast.Literal:
		return strings.HasPrefix(x.Raw, op)
	}
	return false
}

func (p *printer) binary(x *ast.BinaryExpr) {
	prec := binaryPrec[x.Op]
	left, right := prec, prec+1
	if x.Op == "**" {
		left, right = prec+1, prec
	}

	p.operand(x, x.X, left)
	p.write(" ", x.Op, " ")
	p.operand(x, x.Y, right)
}

// operand prints an operand of a binary expression. ?? cannot be mixed
// with || or && without parentheses.
func (p *printer) operand(parent *ast.BinaryExpr, x ast.Expr, prec int) {
	if b, ok := x.(*ast.BinaryExpr); ok {
		mixed := parent.Op == "??" && (b.Op == "||" || b.Op == "&&") ||
			b.Op == "??" && (parent.Op == "||" || parent.Op == "&&")
		if mixed {
			p.write("(")
			p.expr(x, precLowest)
			p.write(")")
			return
		}
	}
	// -x ** 2 is a syntax error
	if parent.Op == "**" && x == parent.X && precOf(x) == precUnary {
		p.write("(")
		p.expr(x, precLowest)
		p.write(")")
		return
	}
	p.expr(x, prec)
}

func (p *printer) args(args []ast.Expr) {
	p.write("(")
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		p.expr(a, precAssign)
	}
	p.write(")")
}

func (p *printer) object(x *ast.ObjectLit) {
	if len(x.Props) == 0 {
		p.write("{}")
		return
	}

	p.write("{ ")
	for i, prop := range x.Props {
		if i > 0 {
			p.write(", ")
		}
		p.property(prop)
	}
	p.write(" }")
}

func (p *printer) property(prop *ast.Property) {
	if prop.Spread {
		p.write("...")
		p.expr(prop.Value, precAssign)
		return
	}

	if key, ok := prop.Key.(*ast.Ident); ok && !prop.Computed {
		if v, ok := prop.Value.(*ast.Ident); ok && v.Name == key.Name {
			p.write(key.Name)
			return
		}
	}

	if prop.Computed {
		p.write("[")
		p.expr(prop.Key, precAssign)
		p.write("]")
	} else {
		p.expr(prop.Key, precPrimary)
	}
	p.write(": ")
	p.expr(prop.Value, precAssign)
}

func (p *printer) function(fn *ast.FuncLit) {
	if fn.Async {
		p.write("async ")
	}
	if !fn.Arrow {
		p.write("function")
		if fn.Name != nil {
			p.write(" ", fn.Name.Name)
		} else {
			p.write(" ")
		}
	}

	p.params(fn.Params)

	if fn.Arrow {
		p.write(" => ")
		if fn.Body == nil {
			if leftmost(fn.ExprBody) == "{" {
				p.write("(")
				p.expr(fn.ExprBody, precLowest)
				p.write(")")
				return
			}
			p.expr(fn.ExprBody, precAssign)
			return
		}
	} else {
		p.write(" ")
	}
	p.block(fn.Body)
}

func (p *printer) params(params []*ast.Param) {
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		if param.Rest {
			p.write("...")
		}
		p.write(param.Name.Name)
		if param.Default != nil {
			p.write(" = ")
			p.expr(param.Default, precAssign)
		}
	}
	p.write(")")
}

// leftmost returns "function" or "{" when x starts with a token that would
// be read as a declaration or block at the start of a statement.
func leftmost(x ast.Expr) string {
	for {
		switch n := x.(type) {
		case *ast.FuncLit:
			if n.Arrow {
				return ""
			}
			return "function"
		case *ast.ObjectLit:
			return "{"
		case *ast.CallExpr:
			x = n.Callee
		case *ast.MemberExpr:
			x = n.Object
		case *ast.BinaryExpr:
			x = n.X
		case *ast.AssignExpr:
			x = n.Target
		case *ast.CondExpr:
			x = n.Test
		case *ast.SeqExpr:
			x = n.Exprs[0]
		case *ast.UpdateExpr:
			if n.Prefix {
				return ""
			}
			x = n.X
		default:
			return ""
		}
	}
}
