package parser

import (
	"cxxlint/grammar"
	"cxxlint/internal/ast"
)

func (p *Parser) lowerCompound(n *grammar.Node) *ast.CompoundStmt {
	p.checkAttrs(n, "loc", "begin", "end")
	c := &ast.CompoundStmt{}
	_, c.Begin, c.End = p.span(n)

	p.pushScope()
	defer p.popScope()
	for _, child := range n.Children() {
		if s := p.lowerStmt(child); s != nil {
			c.Stmts = append(c.Stmts, s)
		}
	}
	return c
}

// lowerStmt lowers a statement form; any expression form is an expression
// statement.
func (p *Parser) lowerStmt(n *grammar.Node) ast.Stmt {
	switch n.Head {
	case "compound":
		return p.lowerCompound(n)
	case "decl-stmt":
		return p.lowerDeclStmt(n)
	case "for":
		if s := p.lowerFor(n); s != nil {
			return s
		}
		return nil
	case "if":
		if s := p.lowerIf(n); s != nil {
			return s
		}
		return nil
	case "while":
		if s := p.lowerWhile(n); s != nil {
			return s
		}
		return nil
	case "do":
		if s := p.lowerDo(n); s != nil {
			return s
		}
		return nil
	case "return":
		return p.lowerReturn(n)
	case "null":
		p.checkAttrs(n, "loc", "begin", "end")
		s := &ast.NullStmt{}
		_, s.Begin, s.End = p.span(n)
		return s
	}
	if e := p.lowerExpr(n); e != nil {
		return e
	}
	return nil
}

func (p *Parser) lowerDeclStmt(n *grammar.Node) *ast.DeclStmt {
	p.checkAttrs(n, "loc", "begin", "end")
	d := &ast.DeclStmt{}
	_, d.Begin, d.End = p.span(n)
	for _, c := range n.Children() {
		if c.Head != "var" {
			p.errorAt(c.Pos, "unexpected %s in decl-stmt", c.Head)
			continue
		}
		var scope map[string]ast.Decl
		if len(p.scopes) > 0 {
			scope = p.scopes[len(p.scopes)-1]
		}
		if v := p.lowerVar(c, scope); v != nil {
			d.Decls = append(d.Decls, v)
		}
	}
	return d
}

// optional lowers a for-statement part; "(null)" marks an absent one.
func (p *Parser) optional(n *grammar.Node) *grammar.Node {
	if n.Head == "null" && len(n.Items) == 0 {
		return nil
	}
	return n
}

func (p *Parser) lowerFor(n *grammar.Node) *ast.ForStmt {
	p.checkAttrs(n, "loc", "begin", "end")
	f := &ast.ForStmt{}
	_, f.Begin, f.End = p.span(n)

	children := n.Children()
	if len(children) != 4 {
		p.errorAt(n.Pos, "for takes exactly four parts (init, cond, inc, body), got %d", len(children))
		return nil
	}

	p.pushScope()
	defer p.popScope()
	if c := p.optional(children[0]); c != nil {
		f.Init = p.lowerStmt(c)
	}
	if c := p.optional(children[1]); c != nil {
		f.Cond = p.lowerExpr(c)
	}
	if c := p.optional(children[2]); c != nil {
		f.Inc = p.lowerExpr(c)
	}
	f.Body = p.lowerStmt(children[3])
	return f
}

func (p *Parser) lowerIf(n *grammar.Node) *ast.IfStmt {
	p.checkAttrs(n, "loc", "begin", "end")
	s := &ast.IfStmt{}
	_, s.Begin, s.End = p.span(n)
	children := n.Children()
	if len(children) != 2 && len(children) != 3 {
		p.errorAt(n.Pos, "if takes a condition, a then branch and an optional else branch")
		return nil
	}
	s.Cond = p.lowerExpr(children[0])
	s.Then = p.lowerStmt(children[1])
	if len(children) == 3 {
		s.Else = p.lowerStmt(children[2])
	}
	return s
}

func (p *Parser) lowerWhile(n *grammar.Node) *ast.WhileStmt {
	p.checkAttrs(n, "loc", "begin", "end")
	s := &ast.WhileStmt{}
	_, s.Begin, s.End = p.span(n)
	children := n.Children()
	if len(children) != 2 {
		p.errorAt(n.Pos, "while takes a condition and a body")
		return nil
	}
	s.Cond = p.lowerExpr(children[0])
	s.Body = p.lowerStmt(children[1])
	return s
}

func (p *Parser) lowerDo(n *grammar.Node) *ast.DoStmt {
	p.checkAttrs(n, "loc", "begin", "end")
	s := &ast.DoStmt{}
	_, s.Begin, s.End = p.span(n)
	children := n.Children()
	if len(children) != 2 {
		p.errorAt(n.Pos, "do takes a body and a condition")
		return nil
	}
	s.Body = p.lowerStmt(children[0])
	s.Cond = p.lowerExpr(children[1])
	return s
}

func (p *Parser) lowerReturn(n *grammar.Node) *ast.ReturnStmt {
	p.checkAttrs(n, "loc", "begin", "end")
	s := &ast.ReturnStmt{}
	_, s.Begin, s.End = p.span(n)
	switch children := n.Children(); len(children) {
	case 0:
	case 1:
		s.Value = p.lowerExpr(children[0])
	default:
		p.errorAt(n.Pos, "return takes at most one value")
	}
	return s
}
