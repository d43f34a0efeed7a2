package printer

import "github.com/AnatoleLucet/sig/compiler/ast"

func (p *printer) stmts(list []ast.Stmt) {
	for i, s := range list {
		if i > 0 {
			p.newline()
		}
		p.stmt(s)
	}
}

func (p *printer) block(b *ast.BlockStmt) {
	if len(b.Body) == 0 {
		p.write("{}")
		return
	}

	p.write("{")
	p.depth++
	for _, s := range b.Body {
		p.newline()
		p.stmt(s)
	}
	p.depth--
	p.newline()
	p.write("}")
}

// body prints the body of a compound statement after its head.
func (p *printer) body(s ast.Stmt) {
	if b, ok := s.(*ast.BlockStmt); ok {
		p.write(" ")
		p.block(b)
		return
	}
	if _, ok := s.(*ast.EmptyStmt); ok {
		p.write(";")
		return
	}

	p.depth++
	p.newline()
	p.stmt(s)
	p.depth--
}

func (p *printer) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Program:
		p.stmts(s.Body)

	case *ast.VarDecl:
		p.varDecl(s)
		p.write(";")

	case *ast.FuncDecl:
		p.function(s.Func)

	case *ast.ExprStmt:
		if leftmost(s.X) != "" {
			p.write("(")
			p.expr(s.X, precLowest)
			p.write(");")
			return
		}
		p.expr(s.X, precLowest)
		p.write(";")

	case *ast.BlockStmt:
		p.block(s)

	case *ast.IfStmt:
		p.write("if (")
		p.expr(s.Test, precLowest)
		p.write(")")

		then := s.Then
		// keep a nested if without else from taking our else
		if inner, ok := then.(*ast.IfStmt); ok && s.Else != nil && inner.Else == nil {
			then = ast.Block(inner)
		}
		p.body(then)

		if s.Else == nil {
			return
		}
		if _, ok := then.(*ast.BlockStmt); ok {
			p.write(" ")
		} else {
			p.newline()
		}
		p.write("else")
		if elif, ok := s.Else.(*ast.IfStmt); ok {
			p.write(" ")
			p.stmt(elif)
			return
		}
		p.body(s.Else)

	case *ast.ForStmt:
		p.write("for (")
		switch init := s.Init.(type) {
		case *ast.VarDecl:
			p.varDecl(init)
		case *ast.ExprStmt:
			p.expr(init.X, precLowest)
		}
		p.write(";")
		if s.Test != nil {
			p.write(" ")
			p.expr(s.Test, precLowest)
		}
		p.write(";")
		if s.Update != nil {
			p.write(" ")
			p.expr(s.Update, precLowest)
		}
		p.write(")")
		p.body(s.Body)

	case *ast.ForInStmt:
		p.write("for (")
		switch left := s.Left.(type) {
		case *ast.VarDecl:
			p.varDecl(left)
		case ast.Expr:
			p.expr(left, precCall)
		}
		if s.Of {
			p.write(" of ")
			p.expr(s.Right, precAssign)
		} else {
			p.write(" in ")
			p.expr(s.Right, precLowest)
		}
		p.write(")")
		p.body(s.Body)

	case *ast.WhileStmt:
		p.write("while (")
		p.expr(s.Test, precLowest)
		p.write(")")
		p.body(s.Body)

	case *ast.DoWhileStmt:
		p.write("do")
		p.body(s.Body)
		if _, ok := s.Body.(*ast.BlockStmt); ok {
			p.write(" ")
		} else {
			p.newline()
		}
		p.write("while (")
		p.expr(s.Test, precLowest)
		p.write(");")

	case *ast.ReturnStmt:
		p.write("return")
		if s.X != nil {
			p.write(" ")
			p.expr(s.X, precLowest)
		}
		p.write(";")

	case *ast.BranchStmt:
		p.write(s.Tok)
		if s.Label != nil {
			p.write(" ", s.Label.Name)
		}
		p.write(";")

	case *ast.ThrowStmt:
		p.write("throw ")
		p.expr(s.X, precLowest)
		p.write(";")

	case *ast.TryStmt:
		p.write("try ")
		p.block(s.Block)
		if s.Catch != nil {
			p.write(" catch ")
			if s.Param != nil {
				p.write("(", s.Param.Name, ") ")
			}
			p.block(s.Catch)
		}
		if s.Finally != nil {
			p.write(" finally ")
			p.block(s.Finally)
		}

	case *ast.LabeledStmt:
		p.write(s.Label.Name, ": ")
		p.stmt(s.Body)

	case *ast.SwitchStmt:
		p.write("switch (")
		p.expr(s.Disc, precLowest)
		p.write(") {")
		p.depth++
		for _, c := range s.Cases {
			p.newline()
			if c.Test != nil {
				p.write("case ")
				p.expr(c.Test, precLowest)
				p.write(":")
			} else {
				p.write("default:")
			}
			p.depth++
			for _, st := range c.Body {
				p.newline()
				p.stmt(st)
			}
			p.depth--
		}
		p.depth--
		p.newline()
		p.write("}")

	case *ast.ImportDecl:
		p.importDecl(s)

	case *ast.ExportDecl:
		p.write("export ")
		if s.Decl != nil {
			p.stmt(s.Decl)
			return
		}
		p.write("{")
		for i, spec := range s.Specs {
			if i > 0 {
				p.write(",")
			}
			p.write(" ", spec.Local.Name)
			if spec.Exported != nil && spec.Exported.Name != spec.Local.Name {
				p.write(" as ", spec.Exported.Name)
			}
		}
		if len(s.Specs) > 0 {
			p.write(" ")
		}
		p.write("}")
		if s.Source != nil {
			p.write(" from ", s.Source.Raw)
		}
		p.write(";")

	case *ast.ExportDefault:
		p.write("export default ")
		switch x := s.X.(type) {
		case *ast.FuncLit:
			if !x.Arrow {
				p.function(x)
				return
			}
			p.expr(x, precAssign)
		case ast.Expr:
			p.expr(x, precAssign)
		}
		p.write(";")

	case *ast.EmptyStmt:
		p.write(";")
	}
}

func (p *printer) varDecl(d *ast.VarDecl) {
	p.write(d.Kind, " ")
	for i, decl := range d.Decls {
		if i > 0 {
			p.write(", ")
		}
		p.write(decl.Name.Name)
		if decl.Init != nil {
			p.write(" = ")
			p.expr(decl.Init, precAssign)
		}
	}
}

func (p *printer) importDecl(d *ast.ImportDecl) {
	p.write("import ")

	named := d.Default != nil || d.Namespace != nil || len(d.Specs) > 0
	if d.Default != nil {
		p.write(d.Default.Name)
		if d.Namespace != nil || len(d.Specs) > 0 {
			p.write(", ")
		}
	}
	if d.Namespace != nil {
		p.write("* as ", d.Namespace.Name)
	}
	if len(d.Specs) > 0 {
		p.write("{")
		for i, spec := range d.Specs {
			if i > 0 {
				p.write(",")
			}
			p.write(" ", spec.Imported.Name)
			if spec.Local != nil && spec.Local.Name != spec.Imported.Name {
				p.write(" as ", spec.Local.Name)
			}
		}
		p.write(" }")
	}
	if named {
		p.write(" from ")
	}
	p.write(d.Source.Raw, ";")
}
