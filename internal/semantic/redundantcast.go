package semantic

import (
	"cxxlint/internal/ast"
	"cxxlint/internal/errors"
	"cxxlint/internal/rewrite"
	"cxxlint/internal/source"
	"cxxlint/internal/types"
)

// RedundantCast reports casts that can be removed or weakened: const_casts
// whose effect is undone by an implicit conversion, casts to the type the
// operand already has, reinterpret_casts that a static_cast can express,
// and static_casts that only add qualifiers.
func RedundantCast(ctx *Context) Result {
	rc := &redundantCast{emitter: newEmitter(ctx, errors.CheckRedundantCast), sm: ctx.Sources}

	in := ast.NewInspector()
	in.OnImplicitCast(rc.visitImplicitCast)
	in.OnExplicitCast(rc.visitExplicitCast)
	in.OnCall(rc.visitCall)
	in.OnDelete(rc.visitDelete)
	in.OnBinaryOperator(rc.visitBinaryOperator)
	in.Run(ctx.Unit)

	return rc.out
}

type redundantCast struct {
	*emitter
	sm *source.Manager
}

func isRedundantConstCast(cc *ast.ExplicitCastExpr) bool {
	sub := ast.SubExprAsWritten(cc)
	return types.SameType(cc.Type, sub.ExprType()) &&
		(cc.VK != ast.XVALUE || sub.ValueKind() == ast.XVALUE)
}

// isOkToRemoveArithmeticCast keeps casts between arithmetic types that
// document intent: between differently named typedefs, around arithmetic
// whose type comes from promotion, and around integer literals.
func isOkToRemoveArithmeticCast(t1, t2 types.QualType, sub ast.Expr) bool {
	if !types.IsIntegral(t1) && !types.IsRealFloating(t1) {
		return true
	}
	if !types.Equal(t1, t2) && (types.IsTypedef(t1) || types.IsTypedef(t2)) {
		return false
	}
	if ast.IsArithmeticOp(sub) {
		return false
	}
	if ast.IsIntegerLiteral(ast.IgnoreParenImpCasts(sub)) {
		return false
	}
	return true
}

func (rc *redundantCast) visitImplicitCast(expr *ast.ImplicitCastExpr) {
	if rc.ctx.Ignored(expr) {
		return
	}
	switch expr.Kind {
	case ast.CK_NO_OP:
		rc.checkImplicitNoOp(expr)
	case ast.CK_BIT_CAST:
		if types.IsVoidPointer(expr.Type) && types.IsPointer(expr.Sub.ExprType()) {
			rc.checkImplicitToVoidPointer(expr)
		}
	case ast.CK_DERIVED_TO_BASE, ast.CK_UNCHECKED_DERIVED_TO_BASE:
		rc.checkImplicitToBase(expr)
	}
}

func (rc *redundantCast) checkImplicitNoOp(expr *ast.ImplicitCastExpr) {
	if !types.IsPointer(expr.Type) && !types.IsObjectType(expr.Type) {
		return
	}
	cc := ast.AsCast(ast.IgnoreParenImpCasts(expr.Sub), ast.CONST_CAST)
	if cc == nil || isRedundantConstCast(cc) {
		return
	}
	t1 := types.Canonical(cc.Sub.ExprType())
	t3 := types.Canonical(expr.Type)
	if t1.T == t3.T ||
		(types.IsQualificationConversion(t1, t3) && types.Canonical(cc.Type).T != t3.T) {
		rc.warn(errors.WarningConstCastImplicitlyCastBack, cc.Loc, expr.Range(),
			"redundant const_cast from %s to %s, result is implicitly cast to %s",
			quote(ast.SubExprAsWritten(cc).ExprType()), quote(cc.Type), quote(expr.Type))
	}
}

// stripConstCasts reports every const_cast in a chain below a conversion
// whose target qualification makes the const_cast pointless, and returns
// the first operand that is not a const_cast. pointee extracts the level
// the qualifiers are compared at.
func (rc *redundantCast) stripConstCasts(expr *ast.ImplicitCastExpr, code string,
	pointee func(types.QualType) (types.QualType, bool)) ast.Expr {
	target, _ := pointee(expr.Type)
	cur := ast.IgnoreParenImpCasts(expr.Sub)
	for cc := ast.AsCast(cur, ast.CONST_CAST); cc != nil; cc = ast.AsCast(cur, ast.CONST_CAST) {
		if from, ok := pointee(cc.Sub.ExprType()); ok && types.AtLeastAsQualifiedAs(target, from) {
			rc.warn(code, cc.Loc, expr.Range(),
				"redundant const_cast from %s to %s, result is ultimately implicitly cast to %s",
				quote(ast.SubExprAsWritten(cc).ExprType()), quote(cc.Type), quote(expr.Type))
		}
		cur = ast.IgnoreParenImpCasts(cc.Sub)
	}
	return cur
}

func (rc *redundantCast) checkImplicitToVoidPointer(expr *ast.ImplicitCastExpr) {
	cur := rc.stripConstCasts(expr, errors.WarningConstCastToVoidPointer, types.PointeeType)

	if c := ast.AsCast(cur, ast.REINTERPRET_CAST); c != nil {
		rc.warn(errors.WarningReinterpretCastToVoid, c.Loc, c.Range(),
			"redundant reinterpret_cast, result is implicitly cast to void pointer")
		return
	}
	if c := ast.AsCast(cur, ast.STATIC_CAST); c != nil &&
		types.IsVoidPointer(ast.IgnoreParenImpCasts(c.Sub).ExprType()) &&
		!rc.sm.IsMacroBodyExpansion(c.Begin) {
		rc.warn(errors.WarningStaticCastFromVoidPointer, c.Loc, c.Range(),
			"redundant static_cast from void pointer, result is implicitly cast to void pointer")
	}
}

// referencedOrSelf is the qualification level of a reference conversion.
// Expression types have their references dropped, so a non-reference type
// stands for itself.
func referencedOrSelf(q types.QualType) (types.QualType, bool) {
	if ref, ok := types.ReferencedType(q); ok {
		return ref, true
	}
	return q, !q.IsNull()
}

func (rc *redundantCast) checkImplicitToBase(expr *ast.ImplicitCastExpr) {
	switch {
	case types.IsPointer(expr.Type):
		rc.stripConstCasts(expr, errors.WarningConstCastToBase, types.PointeeType)
	case types.IsReference(expr.Type) || expr.VK.IsGLValue():
		rc.stripConstCasts(expr, errors.WarningConstCastToBase, referencedOrSelf)
	}
}

func (rc *redundantCast) visitExplicitCast(expr *ast.ExplicitCastExpr) {
	if rc.ctx.Ignored(expr) {
		return
	}
	switch expr.Style {
	case ast.CSTYLE_CAST:
		rc.checkCStyleCast(expr)
	case ast.STATIC_CAST:
		rc.checkStaticCast(expr)
	case ast.REINTERPRET_CAST:
		rc.checkReinterpretCast(expr)
	case ast.CONST_CAST:
		rc.checkConstCast(expr)
	case ast.FUNCTIONAL_CAST:
		rc.checkFunctionalCast(expr)
	}
}

// spelledInIgnoredMacro reports a construct whose locations all come from
// one macro body defined in ignored code. Argument expansions are first
// walked to their callers. at is the location whose spelling is tested.
func (rc *redundantCast) spelledInIgnoredMacro(begin, at, end source.Location) bool {
	l1 := rc.sm.SkipMacroArgs(begin)
	l2 := rc.sm.SkipMacroArgs(at)
	l3 := rc.sm.SkipMacroArgs(end)
	return rc.sm.IsMacroBodyExpansion(l1) &&
		rc.sm.IsMacroBodyExpansion(l2) &&
		rc.sm.IsMacroBodyExpansion(l3) &&
		rc.ctx.IgnoreLocation(rc.sm.SpellingLoc(l2))
}

func (rc *redundantCast) checkCStyleCast(expr *ast.ExplicitCastExpr) {
	if rc.ctx.IsInThirdPartyHeader(rc.sm.SpellingLoc(expr.Begin)) {
		return
	}
	t1 := ast.SubExprAsWritten(expr).ExprType()
	t2 := expr.Written
	if !types.Equal(t1, t2) {
		return
	}
	if !types.IsBuiltin(t1) && !types.IsEnum(t1) && !types.IsTypedef(t1) {
		return
	}
	if !isOkToRemoveArithmeticCast(t1, t2, expr.Sub) {
		return
	}
	if rc.spelledInIgnoredMacro(expr.Begin, expr.Loc, expr.End) {
		return
	}
	rc.warn(errors.WarningRedundantCStyleCast, expr.Loc, expr.Range(),
		"redundant cstyle cast from %s to %s", quote(t1), quote(t2))
}

// canConstCastFromTo reports whether const_cast could produce to's value
// category from from's.
func canConstCastFromTo(from, to ast.Expr) bool {
	k1, k2 := from.ValueKind(), to.ValueKind()
	return (k2 == ast.LVALUE && k1 == ast.LVALUE) ||
		(k2 == ast.XVALUE && (k1 != ast.PRVALUE || types.IsRecord(from.ExprType())))
}

func qualifierWords(q types.QualType) string {
	switch {
	case types.IsLocalConst(q) && types.IsLocalVolatile(q):
		return "const volatile qualifiers"
	case types.IsLocalConst(q):
		return "const qualifier"
	}
	return "volatile qualifier"
}

// typedefNode returns the outermost typedef of q as written, or nil.
func typedefNode(q types.QualType) *types.Type {
	if types.IsTypedef(q) {
		return q.T
	}
	return nil
}

// keepsVoidPointerTypedef reports a static_cast from a plain void pointer
// whose typedefs, at the top level or at the pointee, differ from those of
// the written type. Such casts name an opaque handle type.
func keepsVoidPointerTypedef(t1, t2 types.QualType) bool {
	pt1, ok := types.PointeeType(t1)
	if !ok || !types.IsVoid(pt1) || types.IsConst(pt1) || types.IsVolatile(pt1) {
		return false
	}
	if td1, td2 := typedefNode(t1), typedefNode(t2); td1 != nil || td2 != nil {
		return td1 != td2
	}
	pt2, _ := types.PointeeType(t2)
	return typedefNode(pt1) != typedefNode(pt2)
}

func (rc *redundantCast) checkStaticCast(expr *ast.ExplicitCastExpr) {
	sub := ast.SubExprAsWritten(expr)
	t1 := sub.ExprType()
	t2 := expr.Written
	k1, k3 := sub.ValueKind(), expr.VK
	nonClassObjectType := types.IsObjectType(t2) && !types.IsRecord(t2) && !types.IsArray(t2)

	if nonClassObjectType && types.HasLocalQualifiers(t2) {
		rc.warn(errors.WarningStaticCastQualifier, expr.Loc, expr.Range(),
			"in static_cast from %s %s to %s %s, remove redundant top-level %s",
			quote(t1), k1, quote(t2), k3, qualifierWords(t2))
		return
	}

	c1 := types.Canonical(t1)
	c3 := types.Canonical(expr.Type)
	var differ bool
	if nonClassObjectType || !canConstCastFromTo(sub, expr) {
		differ = c1.T != c3.T
	} else {
		differ = c1 != c3
	}
	if differ {
		if nonClassObjectType || (c1.T != c3.T && !types.IsQualificationConversion(c1, c3)) {
			return
		}
		rc.warn(errors.WarningStaticCastShouldBeConstCast, expr.Loc, expr.Range(),
			"static_cast from %s %s to %s %s should be written as const_cast",
			quote(t1), k1, quote(t2), k3)
		return
	}

	if !isOkToRemoveArithmeticCast(t1, t2, expr.Sub) {
		return
	}
	if keepsVoidPointerTypedef(t1, t2) {
		return
	}
	// std::move and std::forward style casts change the value category
	if (k3 == ast.XVALUE && k1 != ast.XVALUE) || (k3 == ast.LVALUE && k1 == ast.XVALUE) {
		return
	}
	// assert(static_cast<bool>(x)) as expanded by some C libraries
	if types.IsBoolean(t1) && types.IsBoolean(t2) &&
		rc.sm.IsMacroBodyExpansion(expr.Begin) && rc.sm.ImmediateMacroName(expr.Begin) == "assert" {
		return
	}

	msg := "static_cast from %s %s to %s %s is redundant"
	if k3 == ast.PRVALUE && (k1 != ast.PRVALUE || types.IsRecord(t1)) {
		msg += " or should be written as an explicit construction of a temporary"
	}
	rc.warn(errors.WarningRedundantStaticCast, expr.Loc, expr.Range(), msg, quote(t1), k1, quote(t2), k3)
}

// rewriteLoc is where the cast keyword is spelled: the caller's text for
// macro arguments, the macro definition when the whole cast comes from one
// macro body.
func (rc *redundantCast) rewriteLoc(expr *ast.ExplicitCastExpr) source.Location {
	loc := rc.sm.SkipMacroArgs(expr.Begin)
	if rc.sm.IsMacroBodyExpansion(loc) && rc.sm.IsMacroBodyExpansion(rc.sm.SkipMacroArgs(expr.End)) {
		loc = rc.sm.SpellingLoc(loc)
	}
	return loc
}

func (rc *redundantCast) checkReinterpretCast(expr *ast.ExplicitCastExpr) {
	from := expr.Sub.ExprType()
	switch {
	case types.IsVoidPointer(from):
		if !types.IsObjectPointer(expr.Type) {
			return
		}
		if rc.ctx.Rewrite {
			loc := rc.rewriteLoc(expr)
			if tok, ok := rc.sm.TokenAt(loc); ok && tok == "reinterpret_cast" {
				rc.edit(rewrite.ReplaceToken(loc, tok, "static_cast"))
				return
			}
		}
		rc.emit(rc.diagnostic(errors.WarningReinterpretCastFromVoidPointer, expr.Loc, expr.Range(),
			"reinterpret_cast from %s to %s can be simplified to static_cast",
			quote(ast.SubExprAsWritten(expr).ExprType()), quote(expr.Type)).
			WithSuggestion("replace reinterpret_cast with static_cast"))
	case types.IsVoidPointer(expr.Type):
		if !types.IsObjectPointer(from) {
			return
		}
		rc.warn(errors.WarningReinterpretCastToVoidPointer, expr.Loc, expr.Range(),
			"reinterpret_cast from %s to %s can be simplified to static_cast or an implicit conversion",
			quote(ast.SubExprAsWritten(expr).ExprType()), quote(expr.Type))
	}
}

func (rc *redundantCast) checkConstCast(expr *ast.ExplicitCastExpr) {
	sub := ast.SubExprAsWritten(expr)
	if isRedundantConstCast(expr) {
		rc.warn(errors.WarningRedundantConstCast, expr.Loc, expr.Range(),
			"redundant const_cast from %s %s to %s %s",
			quote(sub.ExprType()), sub.ValueKind(), quote(expr.Written), expr.VK)
		return
	}

	sc := ast.AsCast(ast.IgnoreParenImpCasts(sub), ast.STATIC_CAST)
	if sc == nil {
		return
	}
	sub2 := ast.SubExprAsWritten(sc)
	if staticConstCastCancels(sub2.ExprType(), sc.Type, expr.Type) {
		rc.warn(errors.WarningStaticConstCastCombination, expr.Loc, expr.Range(),
			"redundant static_cast/const_cast combination from %s via %s to %s",
			quote(sub2.ExprType()), quote(sc.Written), quote(expr.Written))
	}
}

// staticConstCastCancels walks the three types in lock-step over their
// pointer levels and reports whether the static_cast added a qualifier,
// at some level, that neither the source had nor the const_cast result
// keeps. A nullptr source carries no qualifiers at any level.
func staticConstCastCancels(from, via, to types.QualType) bool {
	t1, t2, t3 := types.Canonical(from), types.Canonical(via), types.Canonical(to)
	isNullPtr := types.IsNullPtr(t1)
	for {
		for _, q := range []types.Quals{types.Const, types.Volatile} {
			if t2.Q&q != 0 && (isNullPtr || t1.Q&q == 0) && t3.Q&q == 0 {
				return true
			}
		}
		if !isNullPtr {
			p1, ok := types.PointeeType(t1)
			if !ok {
				return false
			}
			t1 = types.Canonical(p1)
			isNullPtr = types.IsNullPtr(t1)
		}
		p2, ok := types.PointeeType(t2)
		if !ok {
			return false
		}
		p3, ok := types.PointeeType(t3)
		if !ok {
			return false
		}
		t2, t3 = types.Canonical(p2), types.Canonical(p3)
	}
}

var cppunitAsserts = map[string]bool{
	"CPPUNIT_ASSERT":         true,
	"CPPUNIT_ASSERT_MESSAGE": true,
}

// wrapsFDIsSet reports a functional cast around an FD_ISSET expansion,
// whose type differs between platforms.
func (rc *redundantCast) wrapsFDIsSet(sub ast.Expr) bool {
	if !sub.NodeEndPos().IsMacroID() {
		return false
	}
	loc := sub.NodePos()
	for i := 0; loc.IsMacroID() && rc.sm.IsAtStartOfImmediateMacroExpansion(loc) && i < 64; i++ {
		if rc.sm.ImmediateMacroName(loc) == "FD_ISSET" {
			return true
		}
		loc = rc.sm.ImmediateMacroCallerLoc(loc)
	}
	return false
}

func (rc *redundantCast) checkFunctionalCast(expr *ast.ExplicitCastExpr) {
	sub := ast.SubExprAsWritten(expr)
	if sub.ValueKind() != ast.PRVALUE || types.IsRecord(expr.Type) {
		return
	}
	switch sub.(type) {
	case *ast.InitListExpr, *ast.StdInitializerListExpr:
		return
	}
	if rc.sm.IsMacroArgExpansion(expr.Loc) && cppunitAsserts[rc.sm.ImmediateMacroName(expr.Loc)] {
		return
	}
	if rc.wrapsFDIsSet(sub) {
		return
	}

	t1 := expr.Written
	t2 := types.Desugar(sub.ExprType())
	if !types.Equal(t1, t2) {
		return
	}
	if (types.IsTypedef(t1) || types.IsTypedef(sub.ExprType())) && !types.Equal(t1, sub.ExprType()) {
		return
	}
	if !isOkToRemoveArithmeticCast(t1, t2, expr.Sub) {
		return
	}
	rc.warn(errors.WarningRedundantFunctionalCast, expr.Loc, expr.Range(),
		"redundant functional cast from %s to %s", quote(sub.ExprType()), quote(t1))
}

func (rc *redundantCast) visitCall(call ast.CallLike) {
	if rc.ctx.Ignored(call) {
		return
	}
	fn := call.DirectCallee()
	args := call.CallArgs()
	if fn == nil || !fn.Variadic || len(args) <= len(fn.Params) {
		return
	}
	for _, arg := range args[len(fn.Params):] {
		if !types.IsPointer(arg.ExprType()) {
			continue
		}
		if cc := ast.AsCast(ast.IgnoreParenImpCasts(arg), ast.CONST_CAST); cc != nil {
			rc.warn(errors.WarningConstCastVariadicArgument, cc.Loc, cc.Range(),
				"redundant const_cast of variadic function argument")
		}
	}
}

func (rc *redundantCast) visitDelete(expr *ast.DeleteExpr) {
	if rc.ctx.Ignored(expr) {
		return
	}
	if cc := ast.AsCast(ast.IgnoreParenImpCasts(expr.Arg), ast.CONST_CAST); cc != nil {
		rc.warn(errors.WarningConstCastInDelete, cc.Loc, cc.Range(),
			"redundant const_cast in delete expression")
	}
}

func (rc *redundantCast) visitBinaryOperator(expr *ast.BinaryOperator) {
	if rc.ctx.Ignored(expr) {
		return
	}
	var kind string
	switch expr.Op {
	case ast.BO_SUB:
		kind = "subtraction"
	case ast.BO_LT, ast.BO_GT, ast.BO_LE, ast.BO_GE, ast.BO_EQ, ast.BO_NE:
		kind = "comparison"
	default:
		return
	}
	if !types.IsPointer(expr.LHS.ExprType()) || !types.IsPointer(expr.RHS.ExprType()) {
		return
	}
	for _, side := range []struct {
		name    string
		operand ast.Expr
	}{{"lhs", expr.LHS}, {"rhs", expr.RHS}} {
		if cc := ast.AsCast(ast.IgnoreParenImpCasts(side.operand), ast.CONST_CAST); cc != nil {
			rc.warn(errors.WarningConstCastPointerOperand, cc.Loc, cc.Range(),
				"redundant const_cast on %s of pointer %s expression", side.name, kind)
		}
	}
}
