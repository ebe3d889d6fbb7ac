package ast

import (
	"fmt"
	"strings"
)

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

func joinExprs(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = exprString(e)
	}
	return strings.Join(parts, ", ")
}

func exprString(e Expr) string {
	if isNil(e) {
		return "<nil>"
	}
	return e.String()
}

func (tu *TranslationUnit) String() string {
	var b strings.Builder
	for i, d := range tu.Decls {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(d.String())
	}
	return b.String()
}

func (f *FunctionDecl) String() string {
	var b strings.Builder

	if f.Kind != CONSTRUCTOR {
		b.WriteString(f.Result.String())
		b.WriteString(" ")
	}
	name := f.QualifiedName
	if name == "" {
		name = f.Name
	}
	b.WriteString(name)
	b.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	if f.Variadic {
		if len(f.Params) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
	}
	b.WriteString(")")
	if f.Deleted {
		b.WriteString(" = delete")
	}

	if len(f.Inits) > 0 {
		parts := make([]string, len(f.Inits))
		for i, init := range f.Inits {
			parts[i] = init.String()
		}
		b.WriteString(" : ")
		b.WriteString(strings.Join(parts, ", "))
	}

	if f.Body == nil {
		b.WriteString(";")
		return b.String()
	}
	b.WriteString(" ")
	b.WriteString(f.Body.String())
	return b.String()
}

func (p *ParmVarDecl) String() string {
	if p.Name == "" {
		return p.Type.String()
	}
	return fmt.Sprintf("%s %s", p.Type, p.Name)
}

func (v *VarDecl) String() string {
	if v.Init == nil {
		return fmt.Sprintf("%s %s", v.Type, v.Name)
	}
	return fmt.Sprintf("%s %s = %s", v.Type, v.Name, exprString(v.Init))
}

func (r *RecordDecl) String() string {
	return fmt.Sprintf("struct %s;", r.Name)
}

func (e *EnumDecl) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "enum %s {", e.Name)
	for i, c := range e.Constants {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(" ")
		b.WriteString(c.String())
	}
	b.WriteString(" };")
	return b.String()
}

func (c *EnumConstantDecl) String() string {
	return fmt.Sprintf("%s = %d", c.Name, c.Value)
}

func (t *TypedefDecl) String() string {
	return fmt.Sprintf("typedef %s %s;", t.Type, t.Name)
}

func (c *CtorInitializer) String() string {
	return fmt.Sprintf("%s(%s)", c.Member, exprString(c.Init))
}

func (c *CompoundStmt) String() string {
	if len(c.Stmts) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{\n")
	for _, s := range c.Stmts {
		b.WriteString(indent(stmtString(s)))
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// stmtString terminates expression statements.
func stmtString(s Stmt) string {
	if isNil(s) {
		return ";"
	}
	if _, ok := s.(Expr); ok {
		return s.String() + ";"
	}
	return s.String()
}

func (d *DeclStmt) String() string {
	parts := make([]string, len(d.Decls))
	for i, v := range d.Decls {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ") + ";"
}

func (f *ForStmt) String() string {
	var init, cond, inc string
	if !isNil(f.Init) {
		init = strings.TrimSuffix(stmtString(f.Init), ";")
	}
	if !isNil(f.Cond) {
		cond = " " + f.Cond.String()
	}
	if !isNil(f.Inc) {
		inc = " " + f.Inc.String()
	}
	return fmt.Sprintf("for (%s;%s;%s) %s", init, cond, inc, stmtString(f.Body))
}

func (i *IfStmt) String() string {
	s := fmt.Sprintf("if (%s) %s", exprString(i.Cond), stmtString(i.Then))
	if !isNil(i.Else) {
		s += " else " + stmtString(i.Else)
	}
	return s
}

func (w *WhileStmt) String() string {
	return fmt.Sprintf("while (%s) %s", exprString(w.Cond), stmtString(w.Body))
}

func (d *DoStmt) String() string {
	return fmt.Sprintf("do %s while (%s);", stmtString(d.Body), exprString(d.Cond))
}

func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return;"
	}
	return "return " + exprString(r.Value) + ";"
}

func (*NullStmt) String() string { return ";" }

// Implicit nodes print as their operand so that the output reads like
// the source.

func (c *ImplicitCastExpr) String() string { return exprString(c.Sub) }

func (c *ExplicitCastExpr) String() string {
	switch c.Style {
	case CSTYLE_CAST:
		return fmt.Sprintf("(%s)%s", c.Written, exprString(c.Sub))
	case FUNCTIONAL_CAST:
		if il, ok := c.Sub.(*InitListExpr); ok {
			return c.Written.String() + il.String()
		}
		return fmt.Sprintf("%s(%s)", c.Written, exprString(c.Sub))
	}
	return fmt.Sprintf("%s<%s>(%s)", c.Style, c.Written, exprString(c.Sub))
}

func (b *BinaryOperator) String() string {
	return fmt.Sprintf("%s %s %s", exprString(b.LHS), b.Op, exprString(b.RHS))
}

func (u *UnaryOperator) String() string {
	switch u.Op {
	case UO_POST_INC:
		return exprString(u.Operand) + "++"
	case UO_POST_DEC:
		return exprString(u.Operand) + "--"
	}
	return string(u.Op) + exprString(u.Operand)
}

func (c *ConditionalOperator) String() string {
	return fmt.Sprintf("%s ? %s : %s", exprString(c.Cond), exprString(c.Then), exprString(c.Else))
}

func (c *CallExpr) String() string {
	fn := "<callee>"
	switch {
	case !isNil(c.Fn):
		fn = c.Fn.String()
	case c.Callee != nil:
		fn = c.Callee.Name
	}
	return fmt.Sprintf("%s(%s)", fn, joinExprs(c.Args))
}

func (c *OperatorCallExpr) String() string {
	switch len(c.Args) {
	case 1:
		return c.Op + exprString(c.Args[0])
	case 2:
		if c.Op == "[]" {
			return fmt.Sprintf("%s[%s]", exprString(c.Args[0]), exprString(c.Args[1]))
		}
		return fmt.Sprintf("%s %s %s", exprString(c.Args[0]), c.Op, exprString(c.Args[1]))
	}
	return fmt.Sprintf("operator%s(%s)", c.Op, joinExprs(c.Args))
}

func (c *MemberCallExpr) String() string {
	name := "<method>"
	if c.Callee != nil {
		name = c.Callee.Name
	}
	if isNil(c.Object) {
		return fmt.Sprintf("%s(%s)", name, joinExprs(c.Args))
	}
	return fmt.Sprintf("%s.%s(%s)", c.Object, name, joinExprs(c.Args))
}

func (c *ConstructExpr) String() string {
	return fmt.Sprintf("%s(%s)", c.Type, joinExprs(c.Args))
}

func (d *DeleteExpr) String() string {
	if d.Array {
		return "delete[] " + exprString(d.Arg)
	}
	return "delete " + exprString(d.Arg)
}

func (l *LiteralExpr) String() string { return l.Value }

func (d *DeclRefExpr) String() string { return d.Name }

func (m *MemberExpr) String() string {
	sep := "."
	if m.Arrow {
		sep = "->"
	}
	if isNil(m.Object) {
		return m.Name
	}
	return m.Object.String() + sep + m.Name
}

func (p *ParenExpr) String() string { return "(" + exprString(p.Inner) + ")" }

func (il *InitListExpr) String() string {
	if il.Syntactic != nil {
		return "{" + joinExprs(il.Syntactic.Inits) + "}"
	}
	return "{" + joinExprs(il.Inits) + "}"
}

func (s *StdInitializerListExpr) String() string   { return exprString(s.Sub) }
func (m *MaterializeTemporaryExpr) String() string { return exprString(m.Sub) }
func (b *BindTemporaryExpr) String() string        { return exprString(b.Sub) }
func (c *ExprWithCleanups) String() string         { return exprString(c.Sub) }
