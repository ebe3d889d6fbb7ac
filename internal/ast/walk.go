package ast

import "reflect"

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

type children []Node

func (c *children) add(nodes ...Node) {
	for _, n := range nodes {
		if !isNil(n) {
			*c = append(*c, n)
		}
	}
}

func addExprs[E Expr](c *children, es []E) {
	for _, e := range es {
		c.add(e)
	}
}

// Children returns the direct children of n in source order. Init lists
// contribute their semantic form only.
func Children(n Node) []Node {
	var c children
	switch n := n.(type) {
	case *TranslationUnit:
		for _, d := range n.Decls {
			c.add(d)
		}
	case *FunctionDecl:
		for _, p := range n.Params {
			c.add(p)
		}
		for _, init := range n.Inits {
			c.add(init)
		}
		c.add(n.Body)
	case *VarDecl:
		c.add(n.Init)
	case *EnumDecl:
		for _, ec := range n.Constants {
			c.add(ec)
		}
	case *CtorInitializer:
		c.add(n.Init)

	case *CompoundStmt:
		for _, s := range n.Stmts {
			c.add(s)
		}
	case *DeclStmt:
		for _, d := range n.Decls {
			c.add(d)
		}
	case *ForStmt:
		c.add(n.Init, n.Cond, n.Inc, n.Body)
	case *IfStmt:
		c.add(n.Cond, n.Then, n.Else)
	case *WhileStmt:
		c.add(n.Cond, n.Body)
	case *DoStmt:
		c.add(n.Body, n.Cond)
	case *ReturnStmt:
		c.add(n.Value)

	case *ImplicitCastExpr:
		c.add(n.Sub)
	case *ExplicitCastExpr:
		c.add(n.Sub)
	case *BinaryOperator:
		c.add(n.LHS, n.RHS)
	case *UnaryOperator:
		c.add(n.Operand)
	case *ConditionalOperator:
		c.add(n.Cond, n.Then, n.Else)
	case *CallExpr:
		c.add(n.Fn)
		addExprs(&c, n.Args)
	case *OperatorCallExpr:
		addExprs(&c, n.Args)
	case *MemberCallExpr:
		c.add(n.Object)
		addExprs(&c, n.Args)
	case *ConstructExpr:
		addExprs(&c, n.Args)
	case *DeleteExpr:
		c.add(n.Arg)
	case *MemberExpr:
		c.add(n.Object)
	case *ParenExpr:
		c.add(n.Inner)
	case *InitListExpr:
		addExprs(&c, n.Inits)
	case *StdInitializerListExpr:
		c.add(n.Sub)
	case *MaterializeTemporaryExpr:
		c.add(n.Sub)
	case *BindTemporaryExpr:
		c.add(n.Sub)
	case *ExprWithCleanups:
		c.add(n.Sub)
	}
	return c
}

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children of
// node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first pre-order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, c := range Children(node) {
		Walk(v, c)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first pre-order, calling f(node) for
// each node and f(nil) after the children of a node. Returning false skips
// the children.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Inspector dispatches to callbacks registered per node kind. Traversal
// overrides run before the callbacks of their kind; an override returning
// false skips the node's callbacks and its whole subtree.
type Inspector struct {
	visit    map[NodeType][]func(Node)
	traverse map[NodeType]func(Node) bool
}

func NewInspector() *Inspector {
	return &Inspector{
		visit:    make(map[NodeType][]func(Node)),
		traverse: make(map[NodeType]func(Node) bool),
	}
}

func (in *Inspector) On(t NodeType, f func(Node)) {
	in.visit[t] = append(in.visit[t], f)
}

func (in *Inspector) OnImplicitCast(f func(*ImplicitCastExpr)) {
	in.On(IMPLICIT_CAST_EXPR, func(n Node) { f(n.(*ImplicitCastExpr)) })
}

func (in *Inspector) OnExplicitCast(f func(*ExplicitCastExpr)) {
	in.On(EXPLICIT_CAST_EXPR, func(n Node) { f(n.(*ExplicitCastExpr)) })
}

func (in *Inspector) OnBinaryOperator(f func(*BinaryOperator)) {
	in.On(BINARY_OPERATOR, func(n Node) { f(n.(*BinaryOperator)) })
}

func (in *Inspector) OnOperatorCall(f func(*OperatorCallExpr)) {
	in.On(OPERATOR_CALL_EXPR, func(n Node) { f(n.(*OperatorCallExpr)) })
}

// OnCall registers f for every call form: plain, operator and member calls.
func (in *Inspector) OnCall(f func(CallLike)) {
	for _, t := range []NodeType{CALL_EXPR, OPERATOR_CALL_EXPR, MEMBER_CALL_EXPR} {
		in.On(t, func(n Node) { f(n.(CallLike)) })
	}
}

func (in *Inspector) OnDelete(f func(*DeleteExpr)) {
	in.On(DELETE_EXPR, func(n Node) { f(n.(*DeleteExpr)) })
}

func (in *Inspector) OnFunction(f func(*FunctionDecl)) {
	in.On(FUNCTION_DECL, func(n Node) { f(n.(*FunctionDecl)) })
}

// Traverse overrides the traversal of one node kind.
func (in *Inspector) Traverse(t NodeType, f func(Node) bool) {
	in.traverse[t] = f
}

// Run walks root.
func (in *Inspector) Run(root Node) {
	Inspect(root, func(n Node) bool {
		if n == nil {
			return false
		}
		t := n.NodeType()
		if tr, ok := in.traverse[t]; ok && !tr(n) {
			return false
		}
		for _, f := range in.visit[t] {
			f(n)
		}
		return true
	})
}
