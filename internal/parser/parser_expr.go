package parser

import (
	"strings"

	"cxxlint/grammar"
	"cxxlint/internal/ast"
	"cxxlint/internal/types"
)

var castStyles = map[string]ast.CastStyle{
	"static-cast":      ast.STATIC_CAST,
	"reinterpret-cast": ast.REINTERPRET_CAST,
	"const-cast":       ast.CONST_CAST,
	"dynamic-cast":     ast.DYNAMIC_CAST,
	"functional-cast":  ast.FUNCTIONAL_CAST,
	"cstyle-cast":      ast.CSTYLE_CAST,
}

var literalKinds = map[string]ast.LiteralKind{
	"integer-literal":  ast.INTEGER_LITERAL,
	"floating-literal": ast.FLOATING_LITERAL,
	"bool-literal":     ast.BOOL_LITERAL,
	"char-literal":     ast.CHAR_LITERAL,
	"string-literal":   ast.STRING_LITERAL,
	"nullptr-literal":  ast.NULLPTR_LITERAL,
}

// exprHeader holds the attributes every expression form accepts.
type exprHeader struct {
	base    ast.ExprBase
	hasType bool
	hasVK   bool
}

func (p *Parser) exprHeader(n *grammar.Node, extra ...string) exprHeader {
	allowed := append([]string{"type", "vk", "loc", "begin", "end"}, extra...)
	p.checkAttrs(n, allowed...)

	var h exprHeader
	h.base.Loc, h.base.Begin, h.base.End = p.span(n)
	h.base.Type, h.hasType = p.typeAttr(n, "type")
	if a := n.Attr("vk"); a != nil {
		s, _ := a.Text()
		vk, ok := ast.ParseValueKind(s)
		if !ok {
			p.errorAt(a.Pos, "unknown value kind %q", s)
		}
		h.base.VK, h.hasVK = vk, ok
	}
	return h
}

type headed interface {
	ast.Expr
	Header() *ast.ExprBase
}

// finish checks that the expression has a type and derives its value
// kind when the dump did not give one. declared is the type a call's
// callee or a cast names, before references are dropped.
func (p *Parser) finish(n *grammar.Node, e headed, h exprHeader, declared types.QualType) ast.Expr {
	base := e.Header()
	if base.Type.IsNull() {
		if n.Attr("type") == nil {
			p.errorAt(n.Pos, "cannot infer the type of %s, add a type attribute", n.Head)
		}
		return nil
	}
	if !h.hasVK {
		base.VK = ast.ClassifyValueKind(e, declared)
	}
	return e
}

// operands lowers the children of n as expressions. want < 0 accepts any
// number of operands.
func (p *Parser) operands(n *grammar.Node, want int) ([]ast.Expr, bool) {
	children := n.Children()
	if want >= 0 && len(children) != want {
		p.errorAt(n.Pos, "%s takes %d operand(s), got %d", n.Head, want, len(children))
		return nil, false
	}
	ok := true
	out := make([]ast.Expr, 0, len(children))
	for _, c := range children {
		e := p.lowerExpr(c)
		if e == nil {
			ok = false
			continue
		}
		out = append(out, e)
	}
	return out, ok
}

// valueType is the type of an expression whose declared type is q:
// references are dropped.
func valueType(q types.QualType) types.QualType {
	if ref, ok := types.ReferencedType(q); ok {
		return ref
	}
	return q
}

// castResultType drops references, and the qualifiers of non-class
// prvalues, from the written type of a cast.
func castResultType(written types.QualType) types.QualType {
	if ref, ok := types.ReferencedType(written); ok {
		return ref
	}
	if types.IsRecord(written) || types.IsArray(written) {
		return written
	}
	return written.Unqualified()
}

func (p *Parser) lowerExpr(n *grammar.Node) ast.Expr {
	if style, ok := castStyles[n.Head]; ok {
		return p.lowerExplicitCast(n, style)
	}
	if kind, ok := literalKinds[n.Head]; ok {
		return p.lowerLiteral(n, kind)
	}

	switch n.Head {
	case "implicit-cast":
		return p.lowerImplicitCast(n)
	case "binary":
		return p.lowerBinary(n)
	case "unary":
		return p.lowerUnary(n)
	case "conditional":
		h := p.exprHeader(n)
		ops, ok := p.operands(n, 3)
		if !ok {
			return nil
		}
		c := &ast.ConditionalOperator{ExprBase: h.base, Cond: ops[0], Then: ops[1], Else: ops[2]}
		if !h.hasType {
			c.Type = ops[1].ExprType()
		}
		return p.finish(n, c, h, types.QualType{})
	case "call":
		return p.lowerCall(n)
	case "operator-call":
		return p.lowerOperatorCall(n)
	case "member-call":
		return p.lowerMemberCall(n)
	case "construct":
		h := p.exprHeader(n, "ctor")
		args, ok := p.operands(n, -1)
		if !ok {
			return nil
		}
		c := &ast.ConstructExpr{ExprBase: h.base, Args: args}
		if name, ok := p.str(n, "ctor"); ok {
			c.Ctor = p.lookupFunction(name, p.types.Q(types.Void))
		}
		return p.finish(n, c, h, types.QualType{})
	case "delete":
		h := p.exprHeader(n, "array")
		ops, ok := p.operands(n, 1)
		if !ok {
			return nil
		}
		d := &ast.DeleteExpr{ExprBase: h.base, Array: n.Flag("array"), Arg: ops[0]}
		if !h.hasType {
			d.Type = p.types.Q(types.Void)
		}
		return p.finish(n, d, h, types.QualType{})
	case "decl-ref":
		return p.lowerDeclRef(n)
	case "member":
		h := p.exprHeader(n, "name", "arrow")
		ops, ok := p.operands(n, 1)
		if !ok {
			return nil
		}
		m := &ast.MemberExpr{ExprBase: h.base, Object: ops[0], Name: p.requireStr(n, "name"), Arrow: n.Flag("arrow")}
		return p.finish(n, m, h, types.QualType{})
	case "paren":
		h := p.exprHeader(n)
		ops, ok := p.operands(n, 1)
		if !ok {
			return nil
		}
		e := &ast.ParenExpr{ExprBase: h.base, Inner: ops[0]}
		if !h.hasType {
			e.Type = ops[0].ExprType()
		}
		return p.finish(n, e, h, types.QualType{})
	case "init-list":
		return p.lowerInitList(n)
	case "std-initializer-list":
		h := p.exprHeader(n)
		ops, ok := p.operands(n, 1)
		if !ok {
			return nil
		}
		return p.finish(n, &ast.StdInitializerListExpr{ExprBase: h.base, Sub: ops[0]}, h, types.QualType{})
	case "materialize":
		h := p.exprHeader(n)
		ops, ok := p.operands(n, 1)
		if !ok {
			return nil
		}
		e := &ast.MaterializeTemporaryExpr{ExprBase: h.base, Sub: ops[0]}
		if !h.hasType {
			e.Type = ops[0].ExprType()
		}
		return p.finish(n, e, h, types.QualType{})
	case "bind-temporary":
		h := p.exprHeader(n)
		ops, ok := p.operands(n, 1)
		if !ok {
			return nil
		}
		e := &ast.BindTemporaryExpr{ExprBase: h.base, Sub: ops[0]}
		if !h.hasType {
			e.Type = ops[0].ExprType()
		}
		if !h.hasVK {
			e.VK = ops[0].ValueKind()
			h.hasVK = true
		}
		return p.finish(n, e, h, types.QualType{})
	case "cleanups":
		h := p.exprHeader(n)
		ops, ok := p.operands(n, 1)
		if !ok {
			return nil
		}
		e := &ast.ExprWithCleanups{ExprBase: h.base, Sub: ops[0]}
		if !h.hasType {
			e.Type = ops[0].ExprType()
		}
		return p.finish(n, e, h, types.QualType{})
	}

	p.errorAt(n.Pos, "unknown expression form %q", n.Head)
	return nil
}

func (p *Parser) lowerImplicitCast(n *grammar.Node) ast.Expr {
	h := p.exprHeader(n, "kind")
	kind := ast.CastKind(p.requireStr(n, "kind"))
	if kind != "" && !ast.IsCastKind(string(kind)) {
		p.errorAt(n.Attr("kind").Pos, "unknown cast kind %q", kind)
		return nil
	}
	ops, ok := p.operands(n, 1)
	if !ok {
		return nil
	}
	sub := ops[0]
	c := &ast.ImplicitCastExpr{ExprBase: h.base, Kind: kind, Sub: sub}
	if !h.hasType {
		switch kind {
		case ast.CK_LVALUE_TO_RVALUE:
			c.Type = sub.ExprType().Unqualified()
		case ast.CK_ARRAY_TO_POINTER_DECAY:
			if arr := types.Desugar(sub.ExprType()); arr.T != nil && arr.T.Kind == types.ARRAY {
				c.Type = types.QualType{T: p.types.PointerTo(arr.T.Elem)}
			}
		case ast.CK_FUNCTION_TO_POINTER_DECAY:
			c.Type = types.QualType{T: p.types.PointerTo(sub.ExprType())}
		}
	}
	return p.finish(n, c, h, types.QualType{})
}

func (p *Parser) lowerExplicitCast(n *grammar.Node, style ast.CastStyle) ast.Expr {
	h := p.exprHeader(n, "kind", "written")
	written := p.requireType(n, "written")
	kind := ast.CK_NO_OP
	if s, ok := p.str(n, "kind"); ok {
		if !ast.IsCastKind(s) {
			p.errorAt(n.Attr("kind").Pos, "unknown cast kind %q", s)
			return nil
		}
		kind = ast.CastKind(s)
	}
	ops, ok := p.operands(n, 1)
	if !ok || written.IsNull() {
		return nil
	}
	c := &ast.ExplicitCastExpr{ExprBase: h.base, Style: style, Kind: kind, Written: written, Sub: ops[0]}
	if !h.hasType {
		c.Type = castResultType(written)
	}
	return p.finish(n, c, h, written)
}

func (p *Parser) lowerBinary(n *grammar.Node) ast.Expr {
	h := p.exprHeader(n, "op")
	op := ast.BinaryOp(p.requireStr(n, "op"))
	if op != "" && !ast.IsBinaryOp(string(op)) {
		p.errorAt(n.Attr("op").Pos, "unknown binary operator %q", op)
		return nil
	}
	ops, ok := p.operands(n, 2)
	if !ok {
		return nil
	}
	b := &ast.BinaryOperator{ExprBase: h.base, Op: op, LHS: ops[0], RHS: ops[1]}
	if !h.hasType {
		lt := ops[0].ExprType()
		switch {
		case op.IsComparison(), op == ast.BO_LAND, op == ast.BO_LOR:
			b.Type = p.types.Q(types.Bool)
		case op == ast.BO_COMMA:
			b.Type = ops[1].ExprType()
		case op == ast.BO_SUB && types.IsPointer(lt) && types.IsPointer(ops[1].ExprType()):
			b.Type = p.types.Q(types.Long)
		case op.IsAssignment():
			b.Type = lt
		default:
			b.Type = lt.Unqualified()
		}
	}
	return p.finish(n, b, h, types.QualType{})
}

func (p *Parser) lowerUnary(n *grammar.Node) ast.Expr {
	h := p.exprHeader(n, "op")
	op := ast.UnaryOp(p.requireStr(n, "op"))
	if op != "" && !ast.IsUnaryOp(string(op)) {
		p.errorAt(n.Attr("op").Pos, "unknown unary operator %q", op)
		return nil
	}
	ops, ok := p.operands(n, 1)
	if !ok {
		return nil
	}
	u := &ast.UnaryOperator{ExprBase: h.base, Op: op, Operand: ops[0]}
	if !h.hasType {
		t := ops[0].ExprType()
		switch op {
		case ast.UO_DEREF:
			u.Type, _ = types.PointeeType(t)
		case ast.UO_ADDR_OF:
			u.Type = types.QualType{T: p.types.PointerTo(t)}
		case ast.UO_LNOT:
			u.Type = p.types.Q(types.Bool)
		default:
			u.Type = t
		}
	}
	return p.finish(n, u, h, types.QualType{})
}

func (p *Parser) lowerCall(n *grammar.Node) ast.Expr {
	h := p.exprHeader(n, "callee")
	kids, ok := p.operands(n, -1)
	if !ok {
		return nil
	}
	c := &ast.CallExpr{ExprBase: h.base}
	if name, ok := p.str(n, "callee"); ok {
		c.Callee = p.lookupFunction(name, h.base.Type)
		c.Args = kids
	} else {
		if len(kids) == 0 {
			p.errorAt(n.Pos, "call requires a callee attribute or a callee expression")
			return nil
		}
		c.Fn, c.Args = kids[0], kids[1:]
		if ref, ok := ast.IgnoreParenImpCasts(c.Fn).(*ast.DeclRefExpr); ok {
			c.Callee, _ = ref.Decl.(*ast.FunctionDecl)
		}
	}
	var declared types.QualType
	if c.Callee != nil {
		declared = c.Callee.Result
	}
	if !h.hasType && !declared.IsNull() {
		c.Type = valueType(declared)
	}
	return p.finish(n, c, h, declared)
}

// assignment-like overloaded operators yield a reference to their left
// operand.
var assignmentOperators = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"<<=": true, ">>=": true, "&=": true, "|=": true, "^=": true,
}

func (p *Parser) lowerOperatorCall(n *grammar.Node) ast.Expr {
	h := p.exprHeader(n, "op", "callee")
	op := strings.TrimPrefix(p.requireStr(n, "op"), "operator")
	args, ok := p.operands(n, -1)
	if !ok {
		return nil
	}
	if len(args) == 0 {
		p.errorAt(n.Pos, "operator-call requires at least one operand")
		return nil
	}
	c := &ast.OperatorCallExpr{ExprBase: h.base, Op: op, Args: args}
	if name, ok := p.str(n, "callee"); ok {
		c.Callee = p.lookupFunction(name, h.base.Type)
	}
	var declared types.QualType
	switch {
	case c.Callee != nil && !c.Callee.Result.IsNull():
		declared = c.Callee.Result
	case assignmentOperators[op]:
		declared = types.QualType{T: p.types.LValueRefTo(args[0].ExprType())}
	}
	if !h.hasType && !declared.IsNull() {
		c.Type = valueType(declared)
	}
	return p.finish(n, c, h, declared)
}

func (p *Parser) lowerMemberCall(n *grammar.Node) ast.Expr {
	h := p.exprHeader(n, "callee")
	kids, ok := p.operands(n, -1)
	if !ok {
		return nil
	}
	if len(kids) == 0 {
		p.errorAt(n.Pos, "member-call requires the object expression")
		return nil
	}
	c := &ast.MemberCallExpr{ExprBase: h.base, Object: kids[0], Args: kids[1:]}
	if name, ok := p.str(n, "callee"); ok {
		c.Callee = p.lookupFunction(name, h.base.Type)
	}
	var declared types.QualType
	if c.Callee != nil {
		declared = c.Callee.Result
	}
	if !h.hasType && !declared.IsNull() {
		c.Type = valueType(declared)
	}
	return p.finish(n, c, h, declared)
}

func (p *Parser) lowerLiteral(n *grammar.Node, kind ast.LiteralKind) ast.Expr {
	h := p.exprHeader(n, "value")
	if len(n.Children()) > 0 {
		p.errorAt(n.Pos, "%s takes no operands", n.Head)
		return nil
	}
	l := &ast.LiteralExpr{ExprBase: h.base, Kind: kind}
	value, hasValue := p.str(n, "value")
	l.Value = value

	switch kind {
	case ast.INTEGER_LITERAL:
		l.Type = p.defaultType(h, types.Int)
	case ast.FLOATING_LITERAL:
		l.Type = p.defaultType(h, types.Double)
	case ast.BOOL_LITERAL:
		l.Type = p.defaultType(h, types.Bool)
		if hasValue && value != "true" && value != "false" {
			p.errorAt(n.Attr("value").Pos, "invalid bool literal %q", value)
		}
	case ast.CHAR_LITERAL:
		l.Type = p.defaultType(h, types.Char)
	case ast.STRING_LITERAL:
		if !h.hasType {
			elem := p.types.Q(types.Char).WithQuals(types.Const)
			l.Type = types.QualType{T: p.types.ArrayOf(elem, int64(len(value))+1)}
		}
		l.Value = `"` + value + `"`
	case ast.NULLPTR_LITERAL:
		l.Type = p.defaultType(h, types.NullPtr)
		l.Value = "nullptr"
		hasValue = true
	}
	if !hasValue && kind != ast.STRING_LITERAL {
		p.errorAt(n.Pos, "%s requires attribute %q", n.Head, "value")
	}
	return p.finish(n, l, h, types.QualType{})
}

func (p *Parser) defaultType(h exprHeader, b types.BuiltinType) types.QualType {
	if h.hasType {
		return h.base.Type
	}
	return p.types.Q(b)
}

func (p *Parser) lowerDeclRef(n *grammar.Node) ast.Expr {
	h := p.exprHeader(n, "name")
	name := strings.TrimPrefix(p.requireStr(n, "name"), "::")
	if name == "" {
		return nil
	}
	d, ok := p.resolve(name)
	if !ok {
		p.errorAt(n.Pos, "unresolved name %q", name)
		return nil
	}
	r := &ast.DeclRefExpr{ExprBase: h.base, Name: name, Decl: d}
	if !h.hasType {
		switch d := d.(type) {
		case *ast.VarDecl:
			r.Type = valueType(d.Type)
		case *ast.ParmVarDecl:
			r.Type = valueType(d.Type)
		case *ast.EnumConstantDecl:
			r.Type = d.Type
		case *ast.FunctionDecl:
			r.Type = d.Type(p.types)
		}
	}
	return p.finish(n, r, h, types.QualType{})
}

func (p *Parser) lowerInitList(n *grammar.Node) ast.Expr {
	h := p.exprHeader(n)
	il := &ast.InitListExpr{ExprBase: h.base}
	ok := true
	for _, c := range n.Children() {
		if c.Head == "syntactic" {
			if il.Syntactic != nil {
				p.errorAt(c.Pos, "init-list has more than one syntactic form")
				ok = false
				continue
			}
			p.checkAttrs(c, "loc", "begin", "end")
			syn, synOK := p.operands(c, -1)
			ok = ok && synOK
			il.Syntactic = &ast.InitListExpr{ExprBase: h.base, Inits: syn}
			_, il.Syntactic.Begin, il.Syntactic.End = p.span(c)
			continue
		}
		e := p.lowerExpr(c)
		if e == nil {
			ok = false
			continue
		}
		il.Inits = append(il.Inits, e)
	}
	if !ok {
		return nil
	}
	return p.finish(n, il, h, types.QualType{})
}
