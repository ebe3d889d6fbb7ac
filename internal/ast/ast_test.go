package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cxxlint/internal/types"
)

func ref(name string, d Decl, t types.QualType) *DeclRefExpr {
	return &DeclRefExpr{ExprBase: ExprBase{Type: t, VK: LVALUE}, Name: name, Decl: d}
}

func implicit(kind CastKind, sub Expr, t types.QualType) *ImplicitCastExpr {
	vk := PRVALUE
	if kind == CK_NO_OP {
		vk = sub.ValueKind()
	}
	return &ImplicitCastExpr{ExprBase: ExprBase{Type: t, VK: vk}, Kind: kind, Sub: sub}
}

// sampleFunction builds
//
//	void f(int a) { int b = a + 1; b = static_cast<int>(a); }
func sampleFunction(r *types.Registry) (*TranslationUnit, map[string]Node) {
	intT := r.Q(types.Int)
	fn := &FunctionDecl{Kind: FREE_FUNCTION, Name: "f", QualifiedName: "f", Result: r.Q(types.Void)}
	a := &ParmVarDecl{Name: "a", Type: intT, Function: fn}
	fn.Params = []*ParmVarDecl{a}

	aRef := ref("a", a, intT)
	load := implicit(CK_LVALUE_TO_RVALUE, aRef, intT)
	one := &LiteralExpr{ExprBase: ExprBase{Type: intT}, Kind: INTEGER_LITERAL, Value: "1"}
	sum := &BinaryOperator{ExprBase: ExprBase{Type: intT}, Op: BO_ADD, LHS: load, RHS: one}
	b := &VarDecl{Name: "b", Type: intT, Init: sum}
	declStmt := &DeclStmt{Decls: []*VarDecl{b}}

	aRef2 := ref("a", a, intT)
	cast := &ExplicitCastExpr{
		ExprBase: ExprBase{Type: intT},
		Style:    STATIC_CAST,
		Kind:     CK_NO_OP,
		Written:  intT,
		Sub:      implicit(CK_LVALUE_TO_RVALUE, aRef2, intT),
	}
	assign := &BinaryOperator{
		ExprBase: ExprBase{Type: intT, VK: LVALUE},
		Op:       BO_ASSIGN,
		LHS:      ref("b", b, intT),
		RHS:      cast,
	}
	fn.Body = &CompoundStmt{Stmts: []Stmt{declStmt, assign}}
	tu := &TranslationUnit{CPlusPlus: true, Decls: []Decl{fn}}

	return tu, map[string]Node{
		"fn": fn, "a": a, "aRef": aRef, "sum": sum, "b": b, "declStmt": declStmt,
		"cast": cast, "assign": assign, "aRef2": aRef2,
	}
}

func TestValueKindString(t *testing.T) {
	assert.Equal(t, "prvalue", PRVALUE.String())
	assert.Equal(t, "lvalue", LVALUE.String())
	assert.Equal(t, "xvalue", XVALUE.String())

	k, ok := ParseValueKind("rvalue")
	assert.True(t, ok)
	assert.Equal(t, PRVALUE, k)
	_, ok = ParseValueKind("glvalue")
	assert.False(t, ok)
}

func TestClassifyValueKind(t *testing.T) {
	r := types.NewRegistry()
	intT := r.Q(types.Int)
	intRef := types.QualType{T: r.LValueRefTo(intT)}
	intRRef := types.QualType{T: r.RValueRefTo(intT)}

	v := &VarDecl{Name: "v", Type: intT}
	e := &EnumConstantDecl{Name: "E", Type: intT}
	vRef := ref("v", v, intT)

	t.Run("decl refs", func(t *testing.T) {
		assert.Equal(t, LVALUE, ClassifyValueKind(vRef, types.QualType{}))
		assert.Equal(t, PRVALUE, ClassifyValueKind(&DeclRefExpr{Name: "E", Decl: e}, types.QualType{}))
	})

	t.Run("literals", func(t *testing.T) {
		assert.Equal(t, LVALUE, ClassifyValueKind(&LiteralExpr{Kind: STRING_LITERAL, Value: `"x"`}, types.QualType{}))
		assert.Equal(t, PRVALUE, ClassifyValueKind(&LiteralExpr{Kind: INTEGER_LITERAL, Value: "0"}, types.QualType{}))
	})

	t.Run("operators", func(t *testing.T) {
		deref := &UnaryOperator{Op: UO_DEREF, Operand: vRef}
		assert.Equal(t, LVALUE, ClassifyValueKind(deref, types.QualType{}))
		neg := &UnaryOperator{Op: UO_MINUS, Operand: vRef}
		assert.Equal(t, PRVALUE, ClassifyValueKind(neg, types.QualType{}))
		assign := &BinaryOperator{Op: BO_ADD_ASSIGN, LHS: vRef, RHS: vRef}
		assert.Equal(t, LVALUE, ClassifyValueKind(assign, types.QualType{}))
		comma := &BinaryOperator{Op: BO_COMMA, LHS: neg, RHS: vRef}
		assert.Equal(t, LVALUE, ClassifyValueKind(comma, types.QualType{}))
	})

	t.Run("conditional", func(t *testing.T) {
		both := &ConditionalOperator{Cond: vRef, Then: vRef, Else: vRef}
		assert.Equal(t, LVALUE, ClassifyValueKind(both, types.QualType{}))
		lit := &LiteralExpr{Kind: INTEGER_LITERAL, Value: "1"}
		mixed := &ConditionalOperator{Cond: vRef, Then: vRef, Else: lit}
		assert.Equal(t, PRVALUE, ClassifyValueKind(mixed, types.QualType{}))
	})

	t.Run("calls and casts by type", func(t *testing.T) {
		call := &CallExpr{}
		assert.Equal(t, LVALUE, ClassifyValueKind(call, intRef))
		assert.Equal(t, XVALUE, ClassifyValueKind(call, intRRef))
		assert.Equal(t, PRVALUE, ClassifyValueKind(call, intT))

		cast := &ExplicitCastExpr{Style: STATIC_CAST, Written: intRRef, Sub: vRef}
		assert.Equal(t, XVALUE, ClassifyValueKind(cast, types.QualType{}))
	})

	t.Run("implicit casts", func(t *testing.T) {
		noop := &ImplicitCastExpr{Kind: CK_NO_OP, Sub: vRef}
		assert.Equal(t, LVALUE, ClassifyValueKind(noop, types.QualType{}))
		load := &ImplicitCastExpr{Kind: CK_LVALUE_TO_RVALUE, Sub: vRef}
		assert.Equal(t, PRVALUE, ClassifyValueKind(load, types.QualType{}))
	})

	t.Run("temporaries", func(t *testing.T) {
		mat := &MaterializeTemporaryExpr{Sub: &LiteralExpr{Kind: INTEGER_LITERAL}}
		assert.Equal(t, XVALUE, ClassifyValueKind(mat, types.QualType{}))
	})
}

func TestIgnoreParenImpCasts(t *testing.T) {
	r := types.NewRegistry()
	intT := r.Q(types.Int)
	v := ref("v", &VarDecl{Name: "v", Type: intT}, intT)

	wrapped := &ExprWithCleanups{Sub: &ParenExpr{Inner: implicit(CK_LVALUE_TO_RVALUE, &ParenExpr{Inner: v}, intT)}}
	assert.Same(t, v, IgnoreParenImpCasts(wrapped))

	paren := &ParenExpr{Inner: v}
	assert.Same(t, paren, IgnoreImplicit(implicit(CK_LVALUE_TO_RVALUE, paren, intT)))
}

func TestSubExprAsWritten(t *testing.T) {
	r := types.NewRegistry()
	intT := r.Q(types.Int)
	longT := r.Q(types.Long)
	rec, err := r.DeclareRecord("S", 4, true)
	require.NoError(t, err)
	recT := types.QualType{T: rec}

	v := ref("v", &VarDecl{Name: "v", Type: intT}, intT)

	t.Run("implicit conversions below the cast are dropped", func(t *testing.T) {
		inner := implicit(CK_LVALUE_TO_RVALUE, v, intT)
		outer := implicit(CK_INTEGRAL_CAST, inner, longT)
		cast := &ExplicitCastExpr{Style: STATIC_CAST, Kind: CK_NO_OP, Written: longT, Sub: outer}
		assert.Same(t, v, SubExprAsWritten(cast))
	})

	t.Run("constructor conversion yields the argument", func(t *testing.T) {
		ctor := &ConstructExpr{ExprBase: ExprBase{Type: recT}, Args: []Expr{v}}
		cast := &ExplicitCastExpr{
			Style:   FUNCTIONAL_CAST,
			Kind:    CK_CONSTRUCTOR_CONVERSION,
			Written: recT,
			Sub:     &BindTemporaryExpr{Sub: ctor},
		}
		assert.Same(t, v, SubExprAsWritten(cast))
	})

	t.Run("conversion function yields the object", func(t *testing.T) {
		obj := ref("s", &VarDecl{Name: "s", Type: recT}, recT)
		call := &MemberCallExpr{ExprBase: ExprBase{Type: intT}, Object: obj}
		cast := &ExplicitCastExpr{Style: STATIC_CAST, Kind: CK_USER_DEFINED_CONVERSION, Written: intT, Sub: call}
		assert.Same(t, obj, SubExprAsWritten(cast))
	})
}

func TestIsArithmeticOp(t *testing.T) {
	r := types.NewRegistry()
	intT := r.Q(types.Int)
	v := ref("v", &VarDecl{Name: "v", Type: intT}, intT)

	tests := []struct {
		name string
		expr Expr
		want bool
	}{
		{"plain ref", v, false},
		{"addition", &BinaryOperator{Op: BO_ADD, LHS: v, RHS: v}, true},
		{"shift in parens", &ParenExpr{Inner: &BinaryOperator{Op: BO_SHL, LHS: v, RHS: v}}, true},
		{"comparison", &BinaryOperator{Op: BO_LT, LHS: v, RHS: v}, false},
		{"comma ending in ref", &BinaryOperator{Op: BO_COMMA, LHS: &BinaryOperator{Op: BO_ADD, LHS: v, RHS: v}, RHS: v}, false},
		{"comma ending in sum", &BinaryOperator{Op: BO_COMMA, LHS: v, RHS: &BinaryOperator{Op: BO_MUL, LHS: v, RHS: v}}, true},
		{"unary", &UnaryOperator{Op: UO_NOT, Operand: v}, true},
		{"conditional", &ConditionalOperator{Cond: v, Then: v, Else: v}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsArithmeticOp(tt.expr))
		})
	}
}

func TestAssignParents(t *testing.T) {
	r := types.NewRegistry()
	tu, n := sampleFunction(r)

	tracker := AssignParents(tu)
	require.NotNil(t, tracker)
	assert.Greater(t, tracker.Len(), 10)

	assert.Same(t, n["fn"], Parent(n["a"]))
	assert.Same(t, n["declStmt"], Parent(n["b"]))

	// the initializer's statement is found through the variable
	assert.Same(t, n["declStmt"], ParentStmt(n["sum"]))
	assert.Same(t, n["assign"], ParentStmt(n["cast"]))
	assert.Nil(t, ParentStmt(n["a"]))

	assert.Same(t, n["fn"], EnclosingFunction(n["aRef2"]))
	assert.Nil(t, EnclosingFunction(n["fn"]))

	meta := n["cast"].GetMetadata()
	require.NotNil(t, meta)
	assert.Equal(t, n["assign"].GetMetadata().NodeID, meta.ParentID)
	assert.Same(t, n["cast"], tracker.Node(meta.NodeID))
}

func TestMetadataVisitorNodesByType(t *testing.T) {
	r := types.NewRegistry()
	tu, _ := sampleFunction(r)

	mv := NewMetadataVisitor()
	mv.AssignMetadata(tu, nil)

	refs := mv.GetNodesByType(DECL_REF_EXPR)
	assert.Len(t, refs, 3)
	assert.Len(t, mv.GetNodesByType(EXPLICIT_CAST_EXPR), 1)
	assert.Contains(t, mv.PrintDebugInfo(), "EXPLICIT_CAST_EXPR")
}

func TestInspector(t *testing.T) {
	r := types.NewRegistry()
	tu, n := sampleFunction(r)
	AssignParents(tu)

	t.Run("callbacks per kind", func(t *testing.T) {
		in := NewInspector()
		var casts []*ExplicitCastExpr
		var implicits int
		in.OnExplicitCast(func(c *ExplicitCastExpr) { casts = append(casts, c) })
		in.OnImplicitCast(func(*ImplicitCastExpr) { implicits++ })
		in.Run(tu)

		require.Len(t, casts, 1)
		assert.Same(t, n["cast"], casts[0])
		assert.Equal(t, 2, implicits)
	})

	t.Run("traversal override prunes", func(t *testing.T) {
		in := NewInspector()
		var refs []string
		in.Traverse(IMPLICIT_CAST_EXPR, func(n Node) bool {
			return n.(*ImplicitCastExpr).Kind != CK_LVALUE_TO_RVALUE
		})
		in.On(DECL_REF_EXPR, func(n Node) { refs = append(refs, n.(*DeclRefExpr).Name) })
		in.Run(tu)

		// both reads of a are under lvalue-to-rvalue loads
		assert.Equal(t, []string{"b"}, refs)
	})
}

func TestPrinter(t *testing.T) {
	r := types.NewRegistry()
	tu, n := sampleFunction(r)

	assert.Equal(t, "static_cast<int>(a)", n["cast"].String())
	assert.Equal(t, "int b = a + 1", n["b"].String())

	want := "void f(int a) {\n  int b = a + 1;\n  b = static_cast<int>(a);\n}"
	assert.Equal(t, want, tu.String())

	cstyle := &ExplicitCastExpr{Style: CSTYLE_CAST, Written: r.Q(types.Long), Sub: &LiteralExpr{Value: "0"}}
	assert.Equal(t, "(long)0", cstyle.String())

	post := &UnaryOperator{Op: UO_POST_INC, Operand: &DeclRefExpr{Name: "i"}}
	assert.Equal(t, "i++", post.String())

	del := &DeleteExpr{Array: true, Arg: &DeclRefExpr{Name: "p"}}
	assert.Equal(t, "delete[] p", del.String())
}
