// Package ast declares the syntax tree of component scripts and template
// expressions.
//
// Nodes are plain structs grouped by the Expr and Stmt interfaces. Trees are
// treated as values: Apply never mutates a node, it copies every node on the
// path to a replacement.
package ast

// Range is the byte span of a node in its source.
type Range struct {
	Start int
	End   int
}

func (r Range) Span() Range { return r }

type Node interface {
	Span() Range
}

type Expr interface {
	Node
	exprNode()
}

type Stmt interface {
	Node
	stmtNode()
}

type LitKind int

const (
	Number LitKind = iota
	String
	Boolean
	Null
)

type (
	Ident struct {
		Range
		Name string
	}

	// Literal keeps the source text in Raw. Value holds the decoded string
	// of String literals.
	Literal struct {
		Range
		Kind  LitKind
		Raw   string
		Value string
	}

	// TemplateLit has one more quasi than expressions. Quasis are raw text.
	TemplateLit struct {
		Range
		Quasis []string
		Exprs  []Expr
	}

	ArrayLit struct {
		Range
		Elements []Expr
	}

	Property struct {
		Range
		Key       Expr
		Value     Expr
		Computed  bool
		Shorthand bool
		Spread    bool
	}

	ObjectLit struct {
		Range
		Props []*Property
	}

	Param struct {
		Range
		Name    *Ident
		Default Expr
		Rest    bool
	}

	// FuncLit is a function expression, an arrow function or the body of a
	// function declaration. Block marks functions emitted by the compiler for
	// template blocks.
	FuncLit struct {
		Range
		Name     *Ident
		Params   []*Param
		Body     *BlockStmt
		ExprBody Expr
		Arrow    bool
		Async    bool
		Block    bool
	}

	UnaryExpr struct {
		Range
		Op string
		X  Expr
	}

	UpdateExpr struct {
		Range
		Op     string
		Prefix bool
		X      Expr
	}

	BinaryExpr struct {
		Range
		Op string
		X  Expr
		Y  Expr
	}

	AssignExpr struct {
		Range
		Op     string
		Target Expr
		Value  Expr
	}

	CondExpr struct {
		Range
		Test Expr
		Then Expr
		Else Expr
	}

	CallExpr struct {
		Range
		Callee   Expr
		Args     []Expr
		Optional bool
	}

	NewExpr struct {
		Range
		Callee Expr
		Args   []Expr
	}

	// MemberExpr with Computed unset has an *Ident Property.
	MemberExpr struct {
		Range
		Object   Expr
		Property Expr
		Computed bool
		Optional bool
	}

	SeqExpr struct {
		Range
		Exprs []Expr
	}

	SpreadExpr struct {
		Range
		X Expr
	}

	AwaitExpr struct {
		Range
		X Expr
	}
)

func (*Ident) exprNode()       {}
func (*Literal) exprNode()     {}
func (*TemplateLit) exprNode() {}
func (*ArrayLit) exprNode()    {}
func (*ObjectLit) exprNode()   {}
func (*FuncLit) exprNode()     {}
func (*UnaryExpr) exprNode()   {}
func (*UpdateExpr) exprNode()  {}
func (*BinaryExpr) exprNode()  {}
func (*AssignExpr) exprNode()  {}
func (*CondExpr) exprNode()    {}
func (*CallExpr) exprNode()    {}
func (*NewExpr) exprNode()     {}
func (*MemberExpr) exprNode()  {}
func (*SeqExpr) exprNode()     {}
func (*SpreadExpr) exprNode()  {}
func (*AwaitExpr) exprNode()   {}

type (
	Program struct {
		Range
		Body []Stmt
	}

	Declarator struct {
		Range
		Name *Ident
		Init Expr
	}

	// VarDecl is a var/let/const statement. Computed marks declarations that
	// came from a reactive label, Hoisted the ones to move to program top.
	VarDecl struct {
		Range
		Kind     string
		Decls    []*Declarator
		Computed bool
		Hoisted  bool
	}

	FuncDecl struct {
		Range
		Func *FuncLit
	}

	ExprStmt struct {
		Range
		X Expr
	}

	BlockStmt struct {
		Range
		Body []Stmt
	}

	IfStmt struct {
		Range
		Test Expr
		Then Stmt
		Else Stmt
	}

	ForStmt struct {
		Range
		Init   Stmt
		Test   Expr
		Update Expr
		Body   Stmt
	}

	// ForInStmt covers for-in and for-of. Left is a *VarDecl or an Expr.
	ForInStmt struct {
		Range
		Left  Node
		Right Expr
		Body  Stmt
		Of    bool
	}

	WhileStmt struct {
		Range
		Test Expr
		Body Stmt
	}

	DoWhileStmt struct {
		Range
		Body Stmt
		Test Expr
	}

	ReturnStmt struct {
		Range
		X Expr
	}

	BranchStmt struct {
		Range
		Tok   string // break or continue
		Label *Ident
	}

	ThrowStmt struct {
		Range
		X Expr
	}

	TryStmt struct {
		Range
		Block   *BlockStmt
		Param   *Ident
		Catch   *BlockStmt
		Finally *BlockStmt
	}

	LabeledStmt struct {
		Range
		Label *Ident
		Body  Stmt
	}

	SwitchCase struct {
		Range
		Test Expr
		Body []Stmt
	}

	SwitchStmt struct {
		Range
		Disc  Expr
		Cases []*SwitchCase
	}

	ImportSpec struct {
		Range
		Imported *Ident
		Local    *Ident
	}

	ImportDecl struct {
		Range
		Default   *Ident
		Namespace *Ident
		Specs     []*ImportSpec
		Source    *Literal
	}

	ExportSpec struct {
		Range
		Local    *Ident
		Exported *Ident
	}

	ExportDecl struct {
		Range
		Decl   Stmt
		Specs  []*ExportSpec
		Source *Literal
	}

	ExportDefault struct {
		Range
		X Node
	}

	EmptyStmt struct {
		Range
	}
)

func (*Program) stmtNode()       {}
func (*VarDecl) stmtNode()       {}
func (*FuncDecl) stmtNode()      {}
func (*ExprStmt) stmtNode()      {}
func (*BlockStmt) stmtNode()     {}
func (*IfStmt) stmtNode()        {}
func (*ForStmt) stmtNode()       {}
func (*ForInStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()     {}
func (*DoWhileStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()    {}
func (*BranchStmt) stmtNode()    {}
func (*ThrowStmt) stmtNode()     {}
func (*TryStmt) stmtNode()       {}
func (*LabeledStmt) stmtNode()   {}
func (*SwitchStmt) stmtNode()    {}
func (*ImportDecl) stmtNode()    {}
func (*ExportDecl) stmtNode()    {}
func (*ExportDefault) stmtNode() {}
func (*EmptyStmt) stmtNode()     {}
