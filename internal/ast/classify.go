package ast

import "cxxlint/internal/types"

// ValueKind is the value category of an expression.
type ValueKind uint8

const (
	PRVALUE ValueKind = iota
	LVALUE
	XVALUE
)

func (k ValueKind) String() string {
	switch k {
	case LVALUE:
		return "lvalue"
	case XVALUE:
		return "xvalue"
	}
	return "prvalue"
}

// ParseValueKind accepts the dump spellings; "rvalue" is taken as prvalue.
func ParseValueKind(s string) (ValueKind, bool) {
	switch s {
	case "prvalue", "rvalue":
		return PRVALUE, true
	case "lvalue":
		return LVALUE, true
	case "xvalue":
		return XVALUE, true
	}
	return PRVALUE, false
}

// IsGLValue reports lvalues and xvalues.
func (k ValueKind) IsGLValue() bool { return k != PRVALUE }

// valueKindOfType derives the category of a call or cast from its type.
func valueKindOfType(q types.QualType) ValueKind {
	if q.T == nil {
		return PRVALUE
	}
	switch types.Canonical(q).T.Kind {
	case types.LVALUE_REFERENCE:
		return LVALUE
	case types.RVALUE_REFERENCE:
		ref, _ := types.ReferencedType(q)
		if types.IsFunction(ref) {
			return LVALUE
		}
		return XVALUE
	}
	return PRVALUE
}

// ClassifyValueKind computes the value category of e from its shape and
// its children's categories, for dumps that omit it. Call and cast results
// are classified by their declared type, which must still be the reference
// type for that to work.
func ClassifyValueKind(e Expr, declared types.QualType) ValueKind {
	switch e := e.(type) {
	case *DeclRefExpr:
		if _, ok := e.Decl.(*EnumConstantDecl); ok {
			return PRVALUE
		}
		return LVALUE
	case *MemberExpr:
		if e.Arrow || e.Object == nil || e.Object.ValueKind() == LVALUE {
			return LVALUE
		}
		return XVALUE
	case *LiteralExpr:
		if e.Kind == STRING_LITERAL {
			return LVALUE
		}
		return PRVALUE
	case *ParenExpr:
		return e.Inner.ValueKind()
	case *UnaryOperator:
		switch e.Op {
		case UO_DEREF, UO_PRE_INC, UO_PRE_DEC:
			return LVALUE
		}
		return PRVALUE
	case *BinaryOperator:
		switch {
		case e.Op.IsAssignment():
			return LVALUE
		case e.Op == BO_COMMA:
			return e.RHS.ValueKind()
		}
		return PRVALUE
	case *ConditionalOperator:
		if k := e.Then.ValueKind(); k.IsGLValue() && k == e.Else.ValueKind() {
			return k
		}
		return PRVALUE
	case *ImplicitCastExpr:
		switch e.Kind {
		case CK_NO_OP, CK_DERIVED_TO_BASE, CK_UNCHECKED_DERIVED_TO_BASE, CK_BASE_TO_DERIVED:
			return e.Sub.ValueKind()
		}
		return PRVALUE
	case *ExplicitCastExpr:
		return valueKindOfType(e.Written)
	case *CallExpr, *OperatorCallExpr, *MemberCallExpr:
		return valueKindOfType(declared)
	case *MaterializeTemporaryExpr:
		return XVALUE
	case *ExprWithCleanups:
		return e.Sub.ValueKind()
	}
	return PRVALUE
}

// IgnoreParenImpCasts strips parentheses, implicit casts, full-expression
// cleanups and temporary materialization.
func IgnoreParenImpCasts(e Expr) Expr {
	for {
		switch x := e.(type) {
		case *ParenExpr:
			e = x.Inner
		case *ImplicitCastExpr:
			e = x.Sub
		case *ExprWithCleanups:
			e = x.Sub
		case *MaterializeTemporaryExpr:
			e = x.Sub
		default:
			return e
		}
	}
}

// IgnoreImplicit strips implicit casts, cleanups and temporaries but keeps
// parentheses.
func IgnoreImplicit(e Expr) Expr {
	for {
		switch x := e.(type) {
		case *ImplicitCastExpr:
			e = x.Sub
		case *ExprWithCleanups:
			e = x.Sub
		case *MaterializeTemporaryExpr:
			e = x.Sub
		case *BindTemporaryExpr:
			e = x.Sub
		default:
			return e
		}
	}
}

func skipImplicitTemporary(e Expr) Expr {
	if m, ok := e.(*MaterializeTemporaryExpr); ok {
		e = m.Sub
	}
	if b, ok := e.(*BindTemporaryExpr); ok {
		e = b.Sub
	}
	return e
}

// SubExprAsWritten returns the operand of a cast as the programmer wrote it:
// implicit conversions the compiler stacked below the cast are removed, and
// a constructor or conversion-function call that implements the cast is
// replaced by its argument or object.
func SubExprAsWritten(c CastExpr) Expr {
	var sub Expr
	for e := c; e != nil; {
		sub = skipImplicitTemporary(e.SubExpr())
		switch e.CastKind() {
		case CK_CONSTRUCTOR_CONVERSION:
			if ctor, ok := IgnoreImplicit(sub).(*ConstructExpr); ok && len(ctor.Args) > 0 {
				sub = skipImplicitTemporary(ctor.Args[0])
			}
		case CK_USER_DEFINED_CONVERSION:
			if call, ok := IgnoreImplicit(sub).(*MemberCallExpr); ok && call.Object != nil {
				sub = call.Object
			}
		}
		next, ok := sub.(*ImplicitCastExpr)
		if !ok {
			break
		}
		e = next
	}
	return sub
}

// IsArithmeticOp reports expressions whose type may come from promotion:
// arithmetic, bitwise and shift operators, any unary operator and the
// conditional operator. A comma expression is judged by its right operand.
func IsArithmeticOp(e Expr) bool {
	e = IgnoreParenImpCasts(e)
	switch e := e.(type) {
	case *BinaryOperator:
		switch e.Op {
		case BO_MUL, BO_DIV, BO_REM, BO_ADD, BO_SUB, BO_SHL, BO_SHR, BO_AND, BO_XOR, BO_OR:
			return true
		case BO_COMMA:
			return IsArithmeticOp(e.RHS)
		}
		return false
	case *UnaryOperator, *ConditionalOperator:
		return true
	}
	return false
}

// ParentStmt returns the nearest statement or expression above n, looking
// through declarations such as the variable an initializer belongs to. It
// stops at function boundaries.
func ParentStmt(n Node) Stmt {
	for p := Parent(n); p != nil; p = Parent(p) {
		switch p := p.(type) {
		case Stmt:
			return p
		case *FunctionDecl, *TranslationUnit:
			return nil
		}
	}
	return nil
}

// EnclosingFunction returns the function whose body contains n.
func EnclosingFunction(n Node) *FunctionDecl {
	for p := Parent(n); p != nil; p = Parent(p) {
		if f, ok := p.(*FunctionDecl); ok {
			return f
		}
	}
	return nil
}
