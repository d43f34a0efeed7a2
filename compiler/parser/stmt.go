package parser

import "github.com/AnatoleLucet/sig/compiler/ast"

func (p *parser) parseStatement(top bool) ast.Stmt {
	start := p.tok.pos

	if p.tok.kind == tokIdent {
		switch p.tok.value {
		case "import":
			// import(...) and import.meta are expressions
			if next := p.peek(1); next.value != "(" && next.value != "." {
				if !top {
					p.errorf(start, "import declarations may only appear at top level")
				}
				return p.parseImport()
			}
		case "export":
			if !top {
				p.errorf(start, "export declarations may only appear at top level")
			}
			return p.parseExport()
		case "var", "const":
			d := p.parseVarDecl()
			p.semicolon()
			d.End = p.end()
			return d
		case "let":
			if next := p.peek(1); next.kind == tokIdent || next.value == "[" || next.value == "{" {
				d := p.parseVarDecl()
				p.semicolon()
				d.End = p.end()
				return d
			}
		case "function":
			fn := p.parseFunction(true, false)
			return &ast.FuncDecl{Range: fn.Range, Func: fn}
		case "async":
			if next := p.peek(1); next.value == "function" && !next.nl {
				p.next()
				fn := p.parseFunction(true, true)
				fn.Start = start
				return &ast.FuncDecl{Range: ast.Range{Start: start, End: fn.End}, Func: fn}
			}
		case "class":
			p.errorf(start, "class declarations are not supported")
		case "if":
			return p.parseIf()
		case "for":
			return p.parseFor()
		case "while":
			p.next()
			p.expect("(")
			test := p.parseExpression()
			p.expect(")")
			body := p.parseStatement(false)
			return &ast.WhileStmt{Range: p.rangeFrom(start), Test: test, Body: body}
		case "do":
			p.next()
			body := p.parseStatement(false)
			p.expect("while")
			p.expect("(")
			test := p.parseExpression()
			p.expect(")")
			p.eat(";")
			return &ast.DoWhileStmt{Range: p.rangeFrom(start), Body: body, Test: test}
		case "return":
			if p.fn == 0 {
				p.errorf(start, "return outside of function")
			}
			p.next()
			s := &ast.ReturnStmt{}
			if !p.is(";") && !p.is("}") && p.tok.kind != tokEOF && !p.tok.nl {
				s.X = p.parseExpression()
			}
			p.semicolon()
			s.Range = p.rangeFrom(start)
			return s
		case "break", "continue":
			s := &ast.BranchStmt{Tok: p.next().value}
			if p.tok.kind == tokIdent && !p.tok.nl && !reserved[p.tok.value] {
				s.Label = p.parseIdent()
			}
			p.semicolon()
			s.Range = p.rangeFrom(start)
			return s
		case "throw":
			p.next()
			if p.tok.nl {
				p.errorf(p.tok.pos, "illegal newline after throw")
			}
			x := p.parseExpression()
			p.semicolon()
			return &ast.ThrowStmt{Range: p.rangeFrom(start), X: x}
		case "try":
			return p.parseTry()
		case "switch":
			return p.parseSwitch()
		case "debugger", "with":
			p.errorf(start, "%s statements are not supported", p.tok.value)
		}

		if next := p.peek(1); next.value == ":" && next.kind == tokPunct && !reserved[p.tok.value] {
			label := p.parseIdent()
			p.next()
			body := p.parseStatement(false)
			return &ast.LabeledStmt{Range: p.rangeFrom(start), Label: label, Body: body}
		}
	}

	switch {
	case p.is("{"):
		return p.parseBlock()
	case p.is(";"):
		p.next()
		return &ast.EmptyStmt{Range: p.rangeFrom(start)}
	}

	x := p.parseExpression()
	p.semicolon()
	return &ast.ExprStmt{Range: p.rangeFrom(start), X: x}
}

func (p *parser) rangeFrom(start int) ast.Range {
	return ast.Range{Start: start, End: p.end()}
}

func (p *parser) parseBlock() *ast.BlockStmt {
	start := p.expect("{").pos
	b := &ast.BlockStmt{}
	for !p.is("}") {
		if p.tok.kind == tokEOF {
			p.unexpected()
		}
		b.Body = append(b.Body, p.parseStatement(false))
	}
	p.next()
	b.Range = p.rangeFrom(start)
	return b
}

// parseVarDecl parses a declaration without its terminator.
func (p *parser) parseVarDecl() *ast.VarDecl {
	kw := p.next()
	d := &ast.VarDecl{Kind: kw.value}

	for {
		if p.is("[") || p.is("{") {
			p.errorf(p.tok.pos, "destructuring declarations are not supported")
		}
		name := p.parseIdent()
		decl := &ast.Declarator{Name: name}
		if p.eat("=") {
			decl.Init = p.parseAssign()
		}
		decl.Range = p.rangeFrom(name.Start)
		d.Decls = append(d.Decls, decl)
		if !p.eat(",") {
			break
		}
	}

	d.Range = p.rangeFrom(kw.pos)
	return d
}

func (p *parser) parseIf() ast.Stmt {
	start := p.next().pos
	p.expect("(")
	test := p.parseExpression()
	p.expect(")")

	s := &ast.IfStmt{Test: test, Then: p.parseStatement(false)}
	if p.eat("else") {
		s.Else = p.parseStatement(false)
	}
	s.Range = p.rangeFrom(start)
	return s
}

func (p *parser) parseFor() ast.Stmt {
	start := p.next().pos
	if p.is("await") {
		p.errorf(p.tok.pos, "for await is not supported")
	}
	p.expect("(")

	var init ast.Node
	if !p.is(";") {
		p.noIn = true
		if p.is("var") || p.is("const") || (p.is("let") && p.peek(1).kind == tokIdent) {
			init = p.parseVarDecl()
		} else {
			init = p.parseExpression()
		}
		p.noIn = false
	}

	if p.is("in") || p.is("of") {
		of := p.next().value == "of"
		if d, ok := init.(*ast.VarDecl); ok && (len(d.Decls) != 1 || d.Decls[0].Init != nil) {
			p.errorf(d.Start, "invalid declaration in for loop head")
		}
		var right ast.Expr
		if of {
			right = p.parseAssign()
		} else {
			right = p.parseExpression()
		}
		p.expect(")")
		body := p.parseStatement(false)
		return &ast.ForInStmt{Range: p.rangeFrom(start), Left: init, Right: right, Body: body, Of: of}
	}

	s := &ast.ForStmt{}
	switch init := init.(type) {
	case *ast.VarDecl:
		s.Init = init
	case ast.Expr:
		s.Init = &ast.ExprStmt{Range: init.Span(), X: init}
	}
	p.expect(";")
	if !p.is(";") {
		s.Test = p.parseExpression()
	}
	p.expect(";")
	if !p.is(")") {
		s.Update = p.parseExpression()
	}
	p.expect(")")
	s.Body = p.parseStatement(false)
	s.Range = p.rangeFrom(start)
	return s
}

func (p *parser) parseTry() ast.Stmt {
	start := p.next().pos
	s := &ast.TryStmt{Block: p.parseBlock()}

	if p.eat("catch") {
		if p.eat("(") {
			s.Param = p.parseIdent()
			p.expect(")")
		}
		s.Catch = p.parseBlock()
	}
	if p.eat("finally") {
		s.Finally = p.parseBlock()
	}
	if s.Catch == nil && s.Finally == nil {
		p.errorf(p.tok.pos, "missing catch or finally after try")
	}

	s.Range = p.rangeFrom(start)
	return s
}

func (p *parser) parseSwitch() ast.Stmt {
	start := p.next().pos
	p.expect("(")
	s := &ast.SwitchStmt{Disc: p.parseExpression()}
	p.expect(")")
	p.expect("{")

	seenDefault := false
	for !p.eat("}") {
		c := &ast.SwitchCase{}
		caseStart := p.tok.pos
		switch {
		case p.eat("case"):
			c.Test = p.parseExpression()
		case p.eat("default"):
			if seenDefault {
				p.errorf(caseStart, "multiple default clauses")
			}
			seenDefault = true
		default:
			p.unexpected()
		}
		p.expect(":")
		for !p.is("case") && !p.is("default") && !p.is("}") {
			if p.tok.kind == tokEOF {
				p.unexpected()
			}
			c.Body = append(c.Body, p.parseStatement(false))
		}
		c.Range = p.rangeFrom(caseStart)
		s.Cases = append(s.Cases, c)
	}

	s.Range = p.rangeFrom(start)
	return s
}

func (p *parser) parseImport() ast.Stmt {
	start := p.next().pos
	d := &ast.ImportDecl{}

	if p.tok.kind == tokString {
		d.Source = p.parseString()
		p.semicolon()
		d.Range = p.rangeFrom(start)
		return d
	}

	named := true
	if p.tok.kind == tokIdent {
		d.Default = p.parseIdent()
		named = p.eat(",")
	}

	switch {
	case !named:
	case p.eat("*"):
		p.expect("as")
		d.Namespace = p.parseIdent()
	case p.eat("{"):
		for !p.eat("}") {
			specStart := p.tok.pos
			imported := p.parseName()
			spec := &ast.ImportSpec{Imported: imported, Local: imported}
			if p.eat("as") {
				spec.Local = p.parseIdent()
			} else if reserved[imported.Name] {
				p.errorf(imported.Start, "unexpected reserved word %q", imported.Name)
			}
			spec.Range = p.rangeFrom(specStart)
			d.Specs = append(d.Specs, spec)
			if !p.eat(",") {
				p.expect("}")
				break
			}
		}
	default:
		p.unexpected()
	}

	p.expect("from")
	d.Source = p.parseString()
	p.semicolon()
	d.Range = p.rangeFrom(start)
	return d
}

func (p *parser) parseExport() ast.Stmt {
	start := p.next().pos

	switch {
	case p.eat("default"):
		var x ast.Node
		switch {
		case p.is("function"):
			x = p.parseFunction(false, false)
		default:
			x = p.parseAssign()
			p.semicolon()
		}
		return &ast.ExportDefault{Range: p.rangeFrom(start), X: x}

	case p.is("var") || p.is("let") || p.is("const"):
		decl := p.parseVarDecl()
		p.semicolon()
		decl.End = p.end()
		return &ast.ExportDecl{Range: p.rangeFrom(start), Decl: decl}

	case p.is("function") || p.is("async") && p.peek(1).value == "function":
		fnStart := p.tok.pos
		async := p.eat("async")
		fn := p.parseFunction(true, async)
		fn.Start = fnStart
		return &ast.ExportDecl{Range: p.rangeFrom(start), Decl: &ast.FuncDecl{Range: fn.Range, Func: fn}}

	case p.is("*"):
		p.errorf(p.tok.pos, "export * is not supported")

	case p.eat("{"):
		d := &ast.ExportDecl{}
		for !p.eat("}") {
			specStart := p.tok.pos
			local := p.parseName()
			spec := &ast.ExportSpec{Local: local, Exported: local}
			if p.eat("as") {
				spec.Exported = p.parseName()
			}
			spec.Range = p.rangeFrom(specStart)
			d.Specs = append(d.Specs, spec)
			if !p.eat(",") {
				p.expect("}")
				break
			}
		}
		if p.eat("from") {
			d.Source = p.parseString()
		}
		p.semicolon()
		d.Range = p.rangeFrom(start)
		return d
	}

	p.unexpected()
	return nil
}
