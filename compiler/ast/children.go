package ast

// children visits the children of n and returns n, or a copy of n when a
// child changed.
func (a *applier) children(n Node) Node {
	switch n := n.(type) {
	case *Ident, *Literal, *EmptyStmt:
		return n

	case *TemplateLit:
		exprs, ch := a.exprs("Exprs", n.Exprs)
		if !ch {
			return n
		}
		cp := *n
		cp.Exprs = exprs
		return &cp

	case *ArrayLit:
		elems, ch := a.exprs("Elements", n.Elements)
		if !ch {
			return n
		}
		cp := *n
		cp.Elements = elems
		return &cp

	case *ObjectLit:
		props, ch := a.props(n.Props)
		if !ch {
			return n
		}
		cp := *n
		cp.Props = props
		return &cp

	case *Property:
		var key Expr
		var k bool
		if n.Key != nil {
			key, k = a.expr("Key", n.Key)
		}
		value, v := a.expr("Value", n.Value)
		if !k && !v {
			return n
		}
		cp := *n
		cp.Key, cp.Value = key, value
		return &cp

	case *Param:
		name, c1 := a.ident("Name", n.Name)
		def, c2 := a.expr("Default", n.Default)
		if !c1 && !c2 {
			return n
		}
		cp := *n
		cp.Name, cp.Default = name, def
		return &cp

	case *FuncLit:
		name, c1 := a.ident("Name", n.Name)
		params, c2 := a.params(n.Params)
		body, c3 := a.block("Body", n.Body)
		expr, c4 := a.expr("ExprBody", n.ExprBody)
		if !c1 && !c2 && !c3 && !c4 {
			return n
		}
		cp := *n
		cp.Name, cp.Params, cp.Body, cp.ExprBody = name, params, body, expr
		return &cp

	case *UnaryExpr:
		x, ch := a.expr("X", n.X)
		if !ch {
			return n
		}
		cp := *n
		cp.X = x
		return &cp

	case *UpdateExpr:
		x, ch := a.expr("X", n.X)
		if !ch {
			return n
		}
		cp := *n
		cp.X = x
		return &cp

	case *BinaryExpr:
		x, c1 := a.expr("X", n.X)
		y, c2 := a.expr("Y", n.Y)
		if !c1 && !c2 {
			return n
		}
		cp := *n
		cp.X, cp.Y = x, y
		return &cp

	case *AssignExpr:
		target, c1 := a.expr("Target", n.Target)
		value, c2 := a.expr("Value", n.Value)
		if !c1 && !c2 {
			return n
		}
		cp := *n
		cp.Target, cp.Value = target, value
		return &cp

	case *CondExpr:
		test, c1 := a.expr("Test", n.Test)
		then, c2 := a.expr("Then", n.Then)
		els, c3 := a.expr("Else", n.Else)
		if !c1 && !c2 && !c3 {
			return n
		}
		cp := *n
		cp.Test, cp.Then, cp.Else = test, then, els
		return &cp

	case *CallExpr:
		callee, c1 := a.expr("Callee", n.Callee)
		args, c2 := a.exprs("Args", n.Args)
		if !c1 && !c2 {
			return n
		}
		cp := *n
		cp.Callee, cp.Args = callee, args
		return &cp

	case *NewExpr:
		callee, c1 := a.expr("Callee", n.Callee)
		args, c2 := a.exprs("Args", n.Args)
		if !c1 && !c2 {
			return n
		}
		cp := *n
		cp.Callee, cp.Args = callee, args
		return &cp

	case *MemberExpr:
		object, c1 := a.expr("Object", n.Object)
		prop, c2 := a.expr("Property", n.Property)
		if !c1 && !c2 {
			return n
		}
		cp := *n
		cp.Object, cp.Property = object, prop
		return &cp

	case *SeqExpr:
		exprs, ch := a.exprs("Exprs", n.Exprs)
		if !ch {
			return n
		}
		cp := *n
		cp.Exprs = exprs
		return &cp

	case *SpreadExpr:
		x, ch := a.expr("X", n.X)
		if !ch {
			return n
		}
		cp := *n
		cp.X = x
		return &cp

	case *AwaitExpr:
		x, ch := a.expr("X", n.X)
		if !ch {
			return n
		}
		cp := *n
		cp.X = x
		return &cp

	case *Program:
		body, ch := a.stmts("Body", n.Body)
		if !ch {
			return n
		}
		cp := *n
		cp.Body = body
		return &cp

	case *Declarator:
		name, c1 := a.ident("Name", n.Name)
		init, c2 := a.expr("Init", n.Init)
		if !c1 && !c2 {
			return n
		}
		cp := *n
		cp.Name, cp.Init = name, init
		return &cp

	case *VarDecl:
		decls, ch := a.decls(n.Decls)
		if !ch {
			return n
		}
		cp := *n
		cp.Decls = decls
		return &cp

	case *FuncDecl:
		n2, _ := a.visit("Func", -1, n.Func)
		fn, _ := n2.(*FuncLit)
		if fn == n.Func {
			return n
		}
		cp := *n
		cp.Func = fn
		return &cp

	case *ExprStmt:
		x, ch := a.expr("X", n.X)
		if !ch {
			return n
		}
		cp := *n
		cp.X = x
		return &cp

	case *BlockStmt:
		body, ch := a.stmts("Body", n.Body)
		if !ch {
			return n
		}
		cp := *n
		cp.Body = body
		return &cp

	case *IfStmt:
		test, c1 := a.expr("Test", n.Test)
		then, c2 := a.stmt("Then", n.Then)
		els, c3 := a.stmt("Else", n.Else)
		if !c1 && !c2 && !c3 {
			return n
		}
		cp := *n
		cp.Test, cp.Then, cp.Else = test, then, els
		return &cp

	case *ForStmt:
		init, c1 := a.stmt("Init", n.Init)
		test, c2 := a.expr("Test", n.Test)
		update, c3 := a.expr("Update", n.Update)
		body, c4 := a.stmt("Body", n.Body)
		if !c1 && !c2 && !c3 && !c4 {
			return n
		}
		cp := *n
		cp.Init, cp.Test, cp.Update, cp.Body = init, test, update, body
		return &cp

	case *ForInStmt:
		left, _ := a.visit("Left", -1, n.Left)
		right, c2 := a.expr("Right", n.Right)
		body, c3 := a.stmt("Body", n.Body)
		if left == n.Left && !c2 && !c3 {
			return n
		}
		cp := *n
		cp.Left, cp.Right, cp.Body = left, right, body
		return &cp

	case *WhileStmt:
		test, c1 := a.expr("Test", n.Test)
		body, c2 := a.stmt("Body", n.Body)
		if !c1 && !c2 {
			return n
		}
		cp := *n
		cp.Test, cp.Body = test, body
		return &cp

	case *DoWhileStmt:
		body, c1 := a.stmt("Body", n.Body)
		test, c2 := a.expr("Test", n.Test)
		if !c1 && !c2 {
			return n
		}
		cp := *n
		cp.Body, cp.Test = body, test
		return &cp

	case *ReturnStmt:
		x, ch := a.expr("X", n.X)
		if !ch {
			return n
		}
		cp := *n
		cp.X = x
		return &cp

	case *BranchStmt:
		label, ch := a.ident("Label", n.Label)
		if !ch {
			return n
		}
		cp := *n
		cp.Label = label
		return &cp

	case *ThrowStmt:
		x, ch := a.expr("X", n.X)
		if !ch {
			return n
		}
		cp := *n
		cp.X = x
		return &cp

	case *TryStmt:
		block, c1 := a.block("Block", n.Block)
		param, c2 := a.ident("Param", n.Param)
		catch, c3 := a.block("Catch", n.Catch)
		finally, c4 := a.block("Finally", n.Finally)
		if !c1 && !c2 && !c3 && !c4 {
			return n
		}
		cp := *n
		cp.Block, cp.Param, cp.Catch, cp.Finally = block, param, catch, finally
		return &cp

	case *LabeledStmt:
		label, c1 := a.ident("Label", n.Label)
		body, c2 := a.stmt("Body", n.Body)
		if !c1 && !c2 {
			return n
		}
		cp := *n
		cp.Label, cp.Body = label, body
		return &cp

	case *SwitchStmt:
		disc, c1 := a.expr("Disc", n.Disc)
		changed := c1
		cases := make([]*SwitchCase, 0, len(n.Cases))
		for i, sc := range n.Cases {
			out, removed := a.visit("Cases", i, sc)
			if removed {
				changed = true
				continue
			}
			if out != Node(sc) {
				changed = true
			}
			cases = append(cases, out.(*SwitchCase))
		}
		if !changed {
			return n
		}
		cp := *n
		cp.Disc, cp.Cases = disc, cases
		return &cp

	case *SwitchCase:
		test, c1 := a.expr("Test", n.Test)
		body, c2 := a.stmts("Body", n.Body)
		if !c1 && !c2 {
			return n
		}
		cp := *n
		cp.Test, cp.Body = test, body
		return &cp

	case *ImportDecl:
		def, c1 := a.ident("Default", n.Default)
		ns, c2 := a.ident("Namespace", n.Namespace)
		changed := c1 || c2
		specs := make([]*ImportSpec, 0, len(n.Specs))
		for i, spec := range n.Specs {
			out, removed := a.visit("Specs", i, spec)
			if removed {
				changed = true
				continue
			}
			if out != Node(spec) {
				changed = true
			}
			specs = append(specs, out.(*ImportSpec))
		}
		if !changed {
			return n
		}
		cp := *n
		cp.Default, cp.Namespace, cp.Specs = def, ns, specs
		return &cp

	case *ImportSpec:
		imported, c1 := a.ident("Imported", n.Imported)
		local, c2 := a.ident("Local", n.Local)
		if !c1 && !c2 {
			return n
		}
		cp := *n
		cp.Imported, cp.Local = imported, local
		return &cp

	case *ExportDecl:
		decl, c1 := a.stmt("Decl", n.Decl)
		changed := c1
		specs := make([]*ExportSpec, 0, len(n.Specs))
		for i, spec := range n.Specs {
			out, removed := a.visit("Specs", i, spec)
			if removed {
				changed = true
				continue
			}
			if out != Node(spec) {
				changed = true
			}
			specs = append(specs, out.(*ExportSpec))
		}
		if !changed {
			return n
		}
		cp := *n
		cp.Decl, cp.Specs = decl, specs
		return &cp

	case *ExportSpec:
		local, c1 := a.ident("Local", n.Local)
		exported, c2 := a.ident("Exported", n.Exported)
		if !c1 && !c2 {
			return n
		}
		cp := *n
		cp.Local, cp.Exported = local, exported
		return &cp

	case *ExportDefault:
		x, _ := a.visit("X", -1, n.X)
		if x == n.X {
			return n
		}
		cp := *n
		cp.X = x
		return &cp
	}

	return n
}

func (a *applier) props(list []*Property) ([]*Property, bool) {
	changed := false
	out := make([]*Property, 0, len(list))

	for i, p := range list {
		n, removed := a.visit("Props", i, p)
		if removed {
			changed = true
			continue
		}
		if n != Node(p) {
			changed = true
		}
		out = append(out, n.(*Property))
	}

	if !changed {
		return list, false
	}
	return out, true
}

func (a *applier) params(list []*Param) ([]*Param, bool) {
	changed := false
	out := make([]*Param, 0, len(list))

	for i, p := range list {
		n, removed := a.visit("Params", i, p)
		if removed {
			changed = true
			continue
		}
		if n != Node(p) {
			changed = true
		}
		out = append(out, n.(*Param))
	}

	if !changed {
		return list, false
	}
	return out, true
}

func (a *applier) decls(list []*Declarator) ([]*Declarator, bool) {
	changed := false
	out := make([]*Declarator, 0, len(list))

	for i, d := range list {
		n, removed := a.visit("Decls", i, d)
		if removed {
			changed = true
			continue
		}
		if n != Node(d) {
			changed = true
		}
		out = append(out, n.(*Declarator))
	}

	if !changed {
		return list, false
	}
	return out, true
}
