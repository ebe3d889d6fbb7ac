package semantic

import (
	"cxxlint/internal/ast"
	"cxxlint/internal/errors"
)

// CommaOperator reports comma operators outside the places where they
// read naturally: parenthesized, nested in another binary operator, or in
// the header of a for loop.
func CommaOperator(ctx *Context) Result {
	e := newEmitter(ctx, errors.CheckCommaOperator)
	sm := ctx.Sources

	in := ast.NewInspector()
	in.OnBinaryOperator(func(b *ast.BinaryOperator) {
		if ctx.Ignored(b) {
			return
		}
		// FD_SET expands to "... } while (0, 0)" in some winsock2.h
		if sm.IsMacroBodyExpansion(b.Begin) &&
			sm.IsMacroBodyExpansion(b.OperatorLoc()) &&
			sm.IsMacroBodyExpansion(b.End) &&
			ctx.IgnoreLocation(sm.SpellingLoc(b.OperatorLoc())) {
			return
		}
		if b.Op != ast.BO_COMMA {
			return
		}
		switch parent := ast.ParentStmt(b).(type) {
		case *ast.ParenExpr, *ast.BinaryOperator, *ast.ForStmt:
			return
		case *ast.ExprWithCleanups:
			if _, ok := ast.ParentStmt(parent).(*ast.ForStmt); ok {
				return
			}
		}
		e.warn(errors.WarningCommaOperator, b.OperatorLoc(), b.Range(), "comma operator hides code")
	})
	in.Run(ctx.Unit)

	return e.out
}
