package ast

type CompoundStmt struct {
	Base
	Stmts []Stmt
}

type DeclStmt struct {
	Base
	Decls []*VarDecl
}

// ForStmt parts other than Body may be nil.
type ForStmt struct {
	Base
	Init Stmt
	Cond Expr
	Inc  Expr
	Body Stmt
}

type IfStmt struct {
	Base
	Cond Expr
	Then Stmt
	Else Stmt
}

type WhileStmt struct {
	Base
	Cond Expr
	Body Stmt
}

type DoStmt struct {
	Base
	Body Stmt
	Cond Expr
}

type ReturnStmt struct {
	Base
	Value Expr
}

type NullStmt struct {
	Base
}

func (*CompoundStmt) NodeType() NodeType { return COMPOUND_STMT }
func (*DeclStmt) NodeType() NodeType     { return DECL_STMT }
func (*ForStmt) NodeType() NodeType      { return FOR_STMT }
func (*IfStmt) NodeType() NodeType       { return IF_STMT }
func (*WhileStmt) NodeType() NodeType    { return WHILE_STMT }
func (*DoStmt) NodeType() NodeType       { return DO_STMT }
func (*ReturnStmt) NodeType() NodeType   { return RETURN_STMT }
func (*NullStmt) NodeType() NodeType     { return NULL_STMT }

func (*CompoundStmt) isStmt() {}
func (*DeclStmt) isStmt()     {}
func (*ForStmt) isStmt()      {}
func (*IfStmt) isStmt()       {}
func (*WhileStmt) isStmt()    {}
func (*DoStmt) isStmt()       {}
func (*ReturnStmt) isStmt()   {}
func (*NullStmt) isStmt()     {}
