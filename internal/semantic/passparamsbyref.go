package semantic

import (
	"strings"

	"cxxlint/internal/ast"
	"cxxlint/internal/errors"
)

// PassParamsByRef reports parameters of fat record types that a function
// definition takes by value. Parameters the function assigns to, and
// parameters a constructor moves into a member, are left alone. Overriding methods, deleted functions and template
// specializations are skipped because their signatures are not free to
// change.
func PassParamsByRef(ctx *Context) Result {
	p := &passParamsByRef{emitter: newEmitter(ctx, errors.CheckPassParamsByRef)}

	in := ast.NewInspector()
	in.Traverse(ast.FUNCTION_DECL, func(n ast.Node) bool {
		p.checkFunction(n.(*ast.FunctionDecl))
		return false
	})
	in.Run(ctx.Unit)

	return p.out
}

type passParamsByRef struct {
	*emitter
}

// assigningOperators are the overloaded operators whose left operand being
// a parameter exempts it.
var assigningOperators = map[string]bool{
	"=": true, "/=": true, "*=": true, "-=": true, "+=": true,
}

func (p *passParamsByRef) checkFunction(fn *ast.FunctionDecl) {
	loc := fn.Loc
	if !loc.IsValid() {
		loc = fn.Begin
	}
	if p.ctx.IgnoreLocation(loc) {
		return
	}
	if fn.Deleted || fn.TemplateSpecialization || fn.Overrides > 0 || !fn.HasBody() {
		return
	}

	excluded := p.assignedParams(fn)
	if fn.Kind == ast.CONSTRUCTOR {
		for _, param := range movedIntoMembers(fn) {
			excluded[param] = true
		}
	}

	for _, param := range fn.Params {
		if !p.ctx.Fat.IsFat(param.Type) {
			continue
		}
		if excluded[param] {
			continue
		}
		d := p.diagnostic(errors.WarningPassByValue, param.Loc, param.Range(),
			"passing %s by value, rather pass by const lvalue reference", quote(param.Type))
		if can := fn.CanonicalDecl(); can.Loc != fn.Loc {
			d.WithNote(errors.NoteDeclaredHere, "function is declared here:",
				p.ctx.Sources.Position(can.Loc), p.ctx.tokenLength(can.Loc))
		}
		p.emit(d)
	}
}

// assignedParams collects the parameters fn assigns to. References that
// are only read through an lvalue-to-rvalue conversion are not visited.
func (p *passParamsByRef) assignedParams(fn *ast.FunctionDecl) map[*ast.ParmVarDecl]bool {
	excluded := make(map[*ast.ParmVarDecl]bool)
	exclude := func(e ast.Expr) {
		if ref, ok := e.(*ast.DeclRefExpr); ok {
			if param, ok := ref.Decl.(*ast.ParmVarDecl); ok {
				excluded[param] = true
			}
		}
	}

	in := ast.NewInspector()
	in.Traverse(ast.IMPLICIT_CAST_EXPR, func(n ast.Node) bool {
		c := n.(*ast.ImplicitCastExpr)
		if p.ctx.Ignored(c) {
			return false
		}
		if c.Kind == ast.CK_LVALUE_TO_RVALUE {
			if _, ok := ast.IgnoreParenImpCasts(c.Sub).(*ast.DeclRefExpr); ok {
				return false
			}
		}
		return true
	})
	in.OnBinaryOperator(func(b *ast.BinaryOperator) {
		if b.Op == ast.BO_ASSIGN {
			exclude(b.LHS)
		}
	})
	in.OnOperatorCall(func(c *ast.OperatorCallExpr) {
		if assigningOperators[c.Op] && len(c.Args) > 0 {
			exclude(c.Args[0])
		}
	})
	in.Run(fn)
	return excluded
}

// movedIntoMembers returns the parameters x moved by member initializers
// m(std::move(x)), with or without a constructor call around the move.
func movedIntoMembers(fn *ast.FunctionDecl) []*ast.ParmVarDecl {
	var moved []*ast.ParmVarDecl
	for _, init := range fn.Inits {
		if !init.IsMemberInitializer() {
			continue
		}
		e := ast.IgnoreParenImpCasts(init.Init)
		if ctor, ok := e.(*ast.ConstructExpr); ok {
			if len(ctor.Args) != 1 {
				continue
			}
			e = ast.IgnoreParenImpCasts(ctor.Args[0])
		}
		call, ok := e.(*ast.CallExpr)
		if !ok || !isStdFunction(call.Callee, "move") || len(call.Args) != 1 {
			continue
		}
		if ref, ok := ast.IgnoreParenImpCasts(call.Args[0]).(*ast.DeclRefExpr); ok {
			if param, ok := ref.Decl.(*ast.ParmVarDecl); ok {
				moved = append(moved, param)
			}
		}
	}
	return moved
}

// isStdFunction matches std::name, also inside inline namespaces of std.
func isStdFunction(fn *ast.FunctionDecl, name string) bool {
	if fn == nil || fn.Name != name {
		return false
	}
	q := strings.TrimPrefix(fn.QualifiedName, "::")
	return q == "std::"+name || (strings.HasPrefix(q, "std::") && strings.HasSuffix(q, "::"+name))
}
