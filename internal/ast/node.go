package ast

import (
	"cxxlint/internal/source"
	"cxxlint/internal/types"
)

type Node interface {
	NodePos() source.Location
	NodeEndPos() source.Location
	NodeType() NodeType
	String() string

	// Metadata carries the node id and the parent link
	GetMetadata() *Metadata
	SetMetadata(*Metadata)
}

// Decl is a declaration node.
type Decl interface {
	Node
	isDecl()
}

// Stmt is a statement node. Every expression is a statement too.
type Stmt interface {
	Node
	isStmt()
}

type Expr interface {
	Stmt
	ExprType() types.QualType
	ValueKind() ValueKind
	// ExprLoc is the location diagnostics point at: the operator of a
	// binary expression, the keyword of a named cast.
	ExprLoc() source.Location
	isExpr()
}

// CastExpr is implemented by implicit and explicit casts.
type CastExpr interface {
	Expr
	CastKind() CastKind
	SubExpr() Expr
}

// Base holds the source range and metadata every node has.
type Base struct {
	Begin source.Location
	End   source.Location

	metadata *Metadata
}

func (b *Base) NodePos() source.Location    { return b.Begin }
func (b *Base) NodeEndPos() source.Location { return b.End }
func (b *Base) GetMetadata() *Metadata      { return b.metadata }
func (b *Base) SetMetadata(m *Metadata)     { b.metadata = m }

// Range returns the closed source range of the node.
func (b *Base) Range() source.Range {
	return source.Range{Begin: b.Begin, End: b.End}
}

// ExprBase holds what all expressions share.
type ExprBase struct {
	Base
	Loc  source.Location
	Type types.QualType
	VK   ValueKind
}

func (e *ExprBase) ExprType() types.QualType { return e.Type }
func (e *ExprBase) ValueKind() ValueKind     { return e.VK }
func (e *ExprBase) ExprLoc() source.Location { return e.Loc }
func (e *ExprBase) Header() *ExprBase        { return e }
func (*ExprBase) isStmt()                    {}
func (*ExprBase) isExpr()                    {}

// Parent returns the parent node recorded by AssignMetadata.
func Parent(n Node) Node {
	if n == nil {
		return nil
	}
	if m := n.GetMetadata(); m != nil {
		return m.Parent
	}
	return nil
}
