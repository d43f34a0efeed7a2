package parser

import "github.com/AnatoleLucet/sig/compiler/ast"

var precedence = map[string]int{
	"??": 1,
	"||": 2,
	"&&": 3,
	"|":  4,
	"^":  5,
	"&":  6,
	"==": 7, "!=": 7, "===": 7, "!==": 7,
	"<": 8, ">": 8, "<=": 8, ">=": 8, "instanceof": 8, "in": 8,
	"<<": 9, ">>": 9, ">>>": 9,
	"+": 10, "-": 10,
	"*": 11, "/": 11, "%": 11,
	"**": 12,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "<<=": true, ">>=": true, ">>>=": true, "&=": true, "|=": true,
	"^=": true, "&&=": true, "||=": true, "??=": true,
}

// parseExpression parses a comma separated sequence.
func (p *parser) parseExpression() ast.Expr {
	x := p.parseAssign()
	if !p.is(",") {
		return x
	}

	seq := &ast.SeqExpr{Exprs: []ast.Expr{x}}
	for p.eat(",") {
		seq.Exprs = append(seq.Exprs, p.parseAssign())
	}
	seq.Range = p.rangeFrom(x.Span().Start)
	return seq
}

func (p *parser) parseAssign() ast.Expr {
	if fn := p.tryArrow(); fn != nil {
		return fn
	}

	start := p.tok.pos
	x := p.parseConditional()

	if p.tok.kind == tokPunct && assignOps[p.tok.value] {
		op := p.next().value
		checkTarget(p, x)
		value := p.parseAssign()
		return &ast.AssignExpr{Range: p.rangeFrom(start), Op: op, Target: x, Value: value}
	}
	return x
}

func checkTarget(p *parser, x ast.Expr) {
	switch x := x.(type) {
	case *ast.Ident:
		if x.Name == "this" {
			p.errorf(x.Start, "invalid assignment target")
		}
	case *ast.MemberExpr:
		if x.Optional {
			p.errorf(x.Start, "invalid assignment target")
		}
	default:
		p.errorf(x.Span().Start, "invalid assignment target")
	}
}

func (p *parser) parseConditional() ast.Expr {
	start := p.tok.pos
	test := p.parseBinary(1)
	if !p.eat("?") {
		return test
	}

	noIn := p.noIn
	p.noIn = false
	then := p.parseAssign()
	p.noIn = noIn

	p.expect(":")
	els := p.parseAssign()
	return &ast.CondExpr{Range: p.rangeFrom(start), Test: test, Then: then, Else: els}
}

func (p *parser) binaryOp() (string, int) {
	if p.tok.kind != tokPunct && p.tok.kind != tokIdent {
		return "", 0
	}
	op := p.tok.value
	if op == "in" && p.noIn {
		return "", 0
	}
	return op, precedence[op]
}

func (p *parser) parseBinary(min int) ast.Expr {
	start := p.tok.pos
	x := p.parseUnary()

	for {
		op, prec := p.binaryOp()
		if prec < min || prec == 0 {
			return x
		}
		p.next()

		// exponentiation is right associative
		next := prec + 1
		if op == "**" {
			next = prec
		}
		y := p.parseBinary(next)
		x = &ast.BinaryExpr{Range: p.rangeFrom(start), Op: op, X: x, Y: y}
	}
}

func (p *parser) parseUnary() ast.Expr {
	start := p.tok.pos

	switch {
	case p.is("!") || p.is("~") || p.is("+") || p.is("-") ||
		p.is("typeof") || p.is("void") || p.is("delete"):
		op := p.next().value
		x := p.parseUnary()
		return &ast.UnaryExpr{Range: p.rangeFrom(start), Op: op, X: x}

	case p.is("await"):
		if p.fn == 0 && !p.isAwaitOperand() {
			break
		}
		p.next()
		x := p.parseUnary()
		return &ast.AwaitExpr{Range: p.rangeFrom(start), X: x}

	case p.is("++") || p.is("--"):
		op := p.next().value
		x := p.parseUnary()
		checkTarget(p, x)
		return &ast.UpdateExpr{Range: p.rangeFrom(start), Op: op, Prefix: true, X: x}
	}

	x := p.parseCall()
	if (p.is("++") || p.is("--")) && !p.tok.nl {
		checkTarget(p, x)
		op := p.next().value
		return &ast.UpdateExpr{Range: p.rangeFrom(start), Op: op, X: x}
	}
	return x
}

// isAwaitOperand reports whether await at module level starts an await
// expression rather than naming a variable.
func (p *parser) isAwaitOperand() bool {
	next := p.peek(1)
	if next.nl {
		return false
	}
	switch next.kind {
	case tokIdent, tokNumber, tokString, tokTemplate:
		return !reserved[next.value] || next.value == "new" || next.value == "function"
	}
	return next.value == "(" || next.value == "[" || next.value == "{"
}

func (p *parser) parseCall() ast.Expr {
	start := p.tok.pos

	var x ast.Expr
	if p.is("new") {
		x = p.parseNew()
	} else {
		x = p.parsePrimary()
	}

	for {
		switch {
		case p.eat("."):
			prop := p.parseName()
			x = &ast.MemberExpr{Range: p.rangeFrom(start), Object: x, Property: prop}
		case p.eat("?."):
			switch {
			case p.is("("):
				args := p.parseArgs()
				x = &ast.CallExpr{Range: p.rangeFrom(start), Callee: x, Args: args, Optional: true}
			case p.eat("["):
				prop := p.parseInner()
				p.expect("]")
				x = &ast.MemberExpr{Range: p.rangeFrom(start), Object: x, Property: prop, Computed: true, Optional: true}
			default:
				prop := p.parseName()
				x = &ast.MemberExpr{Range: p.rangeFrom(start), Object: x, Property: prop, Optional: true}
			}
		case p.eat("["):
			prop := p.parseInner()
			p.expect("]")
			x = &ast.MemberExpr{Range: p.rangeFrom(start), Object: x, Property: prop, Computed: true}
		case p.is("("):
			args := p.parseArgs()
			x = &ast.CallExpr{Range: p.rangeFrom(start), Callee: x, Args: args}
		case p.tok.kind == tokTemplate:
			p.errorf(p.tok.pos, "tagged templates are not supported")
		default:
			return x
		}
	}
}

func (p *parser) parseNew() ast.Expr {
	start := p.next().pos

	var callee ast.Expr
	if p.is("new") {
		callee = p.parseNew()
	} else {
		callee = p.parsePrimary()
	}
	for {
		switch {
		case p.eat("."):
			prop := p.parseName()
			callee = &ast.MemberExpr{Range: p.rangeFrom(start), Object: callee, Property: prop}
		case p.eat("["):
			prop := p.parseInner()
			p.expect("]")
			callee = &ast.MemberExpr{Range: p.rangeFrom(start), Object: callee, Property: prop, Computed: true}
		default:
			n := &ast.NewExpr{Callee: callee}
			if p.is("(") {
				n.Args = p.parseArgs()
			}
			n.Range = p.rangeFrom(start)
			return n
		}
	}
}

// parseInner parses an expression nested in brackets, where in is allowed.
func (p *parser) parseInner() ast.Expr {
	noIn := p.noIn
	p.noIn = false
	defer func() { p.noIn = noIn }()
	return p.parseExpression()
}

func (p *parser) parseArgs() []ast.Expr {
	p.expect("(")
	noIn := p.noIn
	p.noIn = false
	defer func() { p.noIn = noIn }()

	args := []ast.Expr{}
	for !p.eat(")") {
		args = append(args, p.parseSpreadOr())
		if !p.eat(",") {
			p.expect(")")
			break
		}
	}
	return args
}

func (p *parser) parseSpreadOr() ast.Expr {
	if p.is("...") {
		start := p.next().pos
		x := p.parseAssign()
		return &ast.SpreadExpr{Range: p.rangeFrom(start), X: x}
	}
	return p.parseAssign()
}

func (p *parser) parsePrimary() ast.Expr {
	t := p.tok
	r := ast.Range{Start: t.pos, End: t.end}

	switch t.kind {
	case tokNumber:
		p.next()
		return &ast.Literal{Range: r, Kind: ast.Number, Raw: t.value}
	case tokString:
		return p.parseString()
	case tokTemplate:
		return p.parseTemplate()
	case tokIdent:
		switch t.value {
		case "true", "false":
			p.next()
			return &ast.Literal{Range: r, Kind: ast.Boolean, Raw: t.value}
		case "null":
			p.next()
			return &ast.Literal{Range: r, Kind: ast.Null, Raw: t.value}
		case "this":
			p.next()
			return &ast.Ident{Range: r, Name: t.value}
		case "function":
			return p.parseFunction(false, false)
		case "async":
			if next := p.peek(1); next.value == "function" && !next.nl {
				p.next()
				fn := p.parseFunction(false, true)
				fn.Start = t.pos
				return fn
			}
		case "class", "super":
			p.errorf(t.pos, "%s is not supported", t.value)
		case "import":
			p.errorf(t.pos, "dynamic import is not supported")
		}
		return p.parseIdent()
	case tokPunct:
		switch t.value {
		case "(":
			p.next()
			x := p.parseInner()
			p.expect(")")
			return x
		case "[":
			return p.parseArray()
		case "{":
			return p.parseObject()
		case "/", "/=":
			p.errorf(t.pos, "regular expression literals are not supported")
		}
	}

	p.unexpected()
	return nil
}

func (p *parser) parseTemplate() ast.Expr {
	t := p.next()
	quasis, offsets := templateParts(t.value)

	lit := &ast.TemplateLit{Range: ast.Range{Start: t.pos, End: t.end}, Quasis: quasis}
	for _, off := range offsets {
		x, err := ParseExpression(t.value[off[0]:off[1]], t.pos+off[0])
		if err != nil {
			panic(bailout{err.(*Error)})
		}
		lit.Exprs = append(lit.Exprs, x)
	}
	return lit
}

func (p *parser) parseArray() ast.Expr {
	start := p.expect("[").pos
	noIn := p.noIn
	p.noIn = false
	defer func() { p.noIn = noIn }()

	a := &ast.ArrayLit{Elements: []ast.Expr{}}
	for !p.eat("]") {
		if p.eat(",") {
			// hole
			a.Elements = append(a.Elements, nil)
			continue
		}
		a.Elements = append(a.Elements, p.parseSpreadOr())
		if !p.eat(",") {
			p.expect("]")
			break
		}
	}
	a.Range = p.rangeFrom(start)
	return a
}

func (p *parser) parseObject() ast.Expr {
	start := p.expect("{").pos
	noIn := p.noIn
	p.noIn = false
	defer func() { p.noIn = noIn }()

	o := &ast.ObjectLit{Props: []*ast.Property{}}
	for !p.eat("}") {
		o.Props = append(o.Props, p.parseProperty())
		if !p.eat(",") {
			p.expect("}")
			break
		}
	}
	o.Range = p.rangeFrom(start)
	return o
}

func (p *parser) parseProperty() *ast.Property {
	start := p.tok.pos
	prop := &ast.Property{}

	if p.eat("...") {
		prop.Spread = true
		prop.Value = p.parseAssign()
		prop.Range = p.rangeFrom(start)
		return prop
	}

	async := false
	if p.is("async") && !p.peek(1).nl && p.peek(1).value != ":" && p.peek(1).value != "(" &&
		p.peek(1).value != "," && p.peek(1).value != "}" {
		p.next()
		async = true
	}
	if (p.is("get") || p.is("set")) && p.peek(1).value != ":" && p.peek(1).value != "(" &&
		p.peek(1).value != "," && p.peek(1).value != "}" {
		p.errorf(p.tok.pos, "accessor properties are not supported")
	}

	switch p.tok.kind {
	case tokIdent:
		prop.Key = p.parseName()
	case tokString:
		prop.Key = p.parseString()
	case tokNumber:
		t := p.next()
		prop.Key = &ast.Literal{Range: ast.Range{Start: t.pos, End: t.end}, Kind: ast.Number, Raw: t.value}
	default:
		if !p.eat("[") {
			p.unexpected()
		}
		prop.Key = p.parseAssign()
		p.expect("]")
		prop.Computed = true
	}

	switch {
	case p.eat(":"):
		prop.Value = p.parseAssign()
	case p.is("("):
		fn := &ast.FuncLit{Async: async}
		p.parseFunctionRest(fn)
		fn.Start = start
		prop.Value = fn
	default:
		key, ok := prop.Key.(*ast.Ident)
		if !ok || prop.Computed || reserved[key.Name] {
			p.unexpected()
		}
		prop.Shorthand = true
		prop.Value = &ast.Ident{Range: key.Range, Name: key.Name}
	}

	prop.Range = p.rangeFrom(start)
	return prop
}

// parseFunction parses a function declaration or expression starting at
// the function keyword.
func (p *parser) parseFunction(decl, async bool) *ast.FuncLit {
	start := p.expect("function").pos
	if p.is("*") {
		p.errorf(p.tok.pos, "generators are not supported")
	}

	fn := &ast.FuncLit{Async: async}
	if p.tok.kind == tokIdent && !p.is("(") {
		fn.Name = p.parseIdent()
	} else if decl {
		p.errorf(p.tok.pos, "function declarations require a name")
	}

	p.parseFunctionRest(fn)
	fn.Start = start
	return fn
}

func (p *parser) parseFunctionRest(fn *ast.FuncLit) {
	fn.Params = p.parseParams()

	noIn := p.noIn
	p.noIn = false
	p.fn++
	fn.Body = p.parseBlock()
	p.fn--
	p.noIn = noIn

	fn.End = p.end()
}

func (p *parser) parseParams() []*ast.Param {
	p.expect("(")

	params := []*ast.Param{}
	for !p.eat(")") {
		start := p.tok.pos
		param := &ast.Param{Rest: p.eat("...")}
		if p.is("[") || p.is("{") {
			p.errorf(p.tok.pos, "destructuring parameters are not supported")
		}
		param.Name = p.parseIdent()
		if !param.Rest && p.eat("=") {
			param.Default = p.parseAssign()
		}
		param.Range = p.rangeFrom(start)
		params = append(params, param)

		if param.Rest {
			p.expect(")")
			break
		}
		if !p.eat(",") {
			p.expect(")")
			break
		}
	}
	return params
}

// tryArrow parses an arrow function if one starts at the current token.
func (p *parser) tryArrow() ast.Expr {
	start := p.tok.pos
	async := false
	offset := 0

	if p.is("async") && !p.peek(1).nl && (p.peek(1).kind == tokIdent || p.peek(1).value == "(") {
		async = true
		offset = 1
	}

	first := p.peek(offset)
	switch {
	case first.kind == tokIdent && !reserved[first.value]:
		arrow := p.peek(offset + 1)
		if arrow.value != "=>" || arrow.kind != tokPunct || arrow.nl {
			return nil
		}
	case first.value == "(" && first.kind == tokPunct:
		end := p.matchParen(p.pos + offset)
		if end < 0 {
			return nil
		}
		arrow := p.peek(end - p.pos + 1)
		if arrow.value != "=>" || arrow.kind != tokPunct || arrow.nl {
			return nil
		}
	default:
		return nil
	}

	if async {
		p.next()
	}

	fn := &ast.FuncLit{Arrow: true, Async: async}
	if p.is("(") {
		fn.Params = p.parseParams()
	} else {
		name := p.parseIdent()
		fn.Params = []*ast.Param{{Range: name.Range, Name: name}}
	}
	p.expect("=>")

	noIn := p.noIn
	p.fn++
	if p.is("{") {
		p.noIn = false
		fn.Body = p.parseBlock()
	} else {
		fn.ExprBody = p.parseAssign()
	}
	p.fn--
	p.noIn = noIn

	fn.Range = p.rangeFrom(start)
	return fn
}

// matchParen returns the index of the token closing the parenthesis at i,
// or -1.
func (p *parser) matchParen(i int) int {
	depth := 0
	for ; i < len(p.toks); i++ {
		t := p.toks[i]
		if t.kind != tokPunct {
			if t.kind == tokEOF {
				return -1
			}
			continue
		}
		switch t.value {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
