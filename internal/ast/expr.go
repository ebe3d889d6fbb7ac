package ast

import (
	"cxxlint/internal/source"
	"cxxlint/internal/types"
)

// ImplicitCastExpr is a conversion the compiler inserted.
type ImplicitCastExpr struct {
	ExprBase
	Kind CastKind
	Sub  Expr
}

// ExplicitCastExpr is a cast the programmer wrote. Written is the target
// type as spelled in the cast; Type is the resulting expression type.
type ExplicitCastExpr struct {
	ExprBase
	Style   CastStyle
	Kind    CastKind
	Written types.QualType
	Sub     Expr
}

// BinaryOperator's ExprLoc is the operator location.
type BinaryOperator struct {
	ExprBase
	Op  BinaryOp
	LHS Expr
	RHS Expr
}

func (b *BinaryOperator) OperatorLoc() source.Location { return b.Loc }

type UnaryOperator struct {
	ExprBase
	Op      UnaryOp
	Operand Expr
}

type ConditionalOperator struct {
	ExprBase
	Cond Expr
	Then Expr
	Else Expr
}

// CallExpr is a call through a function name or pointer. Callee is the
// directly called function when it is known.
type CallExpr struct {
	ExprBase
	Callee *FunctionDecl
	Fn     Expr
	Args   []Expr
}

// OperatorCallExpr is a call of an overloaded operator; Args[0] is the left
// operand.
type OperatorCallExpr struct {
	ExprBase
	Op     string
	Callee *FunctionDecl
	Args   []Expr
}

type MemberCallExpr struct {
	ExprBase
	Object Expr
	Callee *FunctionDecl
	Args   []Expr
}

type ConstructExpr struct {
	ExprBase
	Ctor *FunctionDecl
	Args []Expr
}

type DeleteExpr struct {
	ExprBase
	Array bool
	Arg   Expr
}

type LiteralExpr struct {
	ExprBase
	Kind  LiteralKind
	Value string
}

// DeclRefExpr names a variable, parameter, function or enumerator.
type DeclRefExpr struct {
	ExprBase
	Name string
	Decl Decl
}

type MemberExpr struct {
	ExprBase
	Object Expr
	Name   string
	Arrow  bool
}

type ParenExpr struct {
	ExprBase
	Inner Expr
}

// InitListExpr is the semantic form of a braced list. Syntactic, when set,
// is the form as written; walkers do not descend into it.
type InitListExpr struct {
	ExprBase
	Inits     []Expr
	Syntactic *InitListExpr
}

type StdInitializerListExpr struct {
	ExprBase
	Sub Expr
}

type MaterializeTemporaryExpr struct {
	ExprBase
	Sub Expr
}

type BindTemporaryExpr struct {
	ExprBase
	Sub Expr
}

type ExprWithCleanups struct {
	ExprBase
	Sub Expr
}

func (c *ImplicitCastExpr) CastKind() CastKind { return c.Kind }
func (c *ImplicitCastExpr) SubExpr() Expr      { return c.Sub }
func (c *ExplicitCastExpr) CastKind() CastKind { return c.Kind }
func (c *ExplicitCastExpr) SubExpr() Expr      { return c.Sub }

// CallLike gives uniform access to the callee and arguments of the call
// forms.
type CallLike interface {
	Expr
	DirectCallee() *FunctionDecl
	CallArgs() []Expr
}

func (c *CallExpr) DirectCallee() *FunctionDecl         { return c.Callee }
func (c *CallExpr) CallArgs() []Expr                    { return c.Args }
func (c *OperatorCallExpr) DirectCallee() *FunctionDecl { return c.Callee }
func (c *OperatorCallExpr) CallArgs() []Expr            { return c.Args }
func (c *MemberCallExpr) DirectCallee() *FunctionDecl   { return c.Callee }
func (c *MemberCallExpr) CallArgs() []Expr              { return c.Args }

func (*ImplicitCastExpr) NodeType() NodeType         { return IMPLICIT_CAST_EXPR }
func (*ExplicitCastExpr) NodeType() NodeType         { return EXPLICIT_CAST_EXPR }
func (*BinaryOperator) NodeType() NodeType           { return BINARY_OPERATOR }
func (*UnaryOperator) NodeType() NodeType            { return UNARY_OPERATOR }
func (*ConditionalOperator) NodeType() NodeType      { return CONDITIONAL_OPERATOR }
func (*CallExpr) NodeType() NodeType                 { return CALL_EXPR }
func (*OperatorCallExpr) NodeType() NodeType         { return OPERATOR_CALL_EXPR }
func (*MemberCallExpr) NodeType() NodeType           { return MEMBER_CALL_EXPR }
func (*ConstructExpr) NodeType() NodeType            { return CONSTRUCT_EXPR }
func (*DeleteExpr) NodeType() NodeType               { return DELETE_EXPR }
func (*LiteralExpr) NodeType() NodeType              { return LITERAL_EXPR }
func (*DeclRefExpr) NodeType() NodeType              { return DECL_REF_EXPR }
func (*MemberExpr) NodeType() NodeType               { return MEMBER_EXPR }
func (*ParenExpr) NodeType() NodeType                { return PAREN_EXPR }
func (*InitListExpr) NodeType() NodeType             { return INIT_LIST_EXPR }
func (*StdInitializerListExpr) NodeType() NodeType   { return STD_INITIALIZER_LIST_EXPR }
func (*MaterializeTemporaryExpr) NodeType() NodeType { return MATERIALIZE_TEMPORARY_EXPR }
func (*BindTemporaryExpr) NodeType() NodeType        { return BIND_TEMPORARY_EXPR }
func (*ExprWithCleanups) NodeType() NodeType         { return EXPR_WITH_CLEANUPS }

// IsCast reports whether e is an explicit cast of the given style.
func IsCast(e Node, style CastStyle) bool {
	c, ok := e.(*ExplicitCastExpr)
	return ok && c.Style == style
}

// AsCast returns e as an explicit cast of the given style, or nil.
func AsCast(e Node, style CastStyle) *ExplicitCastExpr {
	if c, ok := e.(*ExplicitCastExpr); ok && c.Style == style {
		return c
	}
	return nil
}

// IsIntegerLiteral reports an integer literal.
func IsIntegerLiteral(e Node) bool {
	l, ok := e.(*LiteralExpr)
	return ok && l.Kind == INTEGER_LITERAL
}
