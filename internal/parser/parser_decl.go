package parser

import (
	"strings"

	"cxxlint/grammar"
	"cxxlint/internal/ast"
	"cxxlint/internal/types"
)

// lowerTypes declares records first, so that enums and typedefs can name
// any of them, then enums and typedefs in dump order.
func (p *Parser) lowerTypes(children []*grammar.Node) {
	for _, n := range children {
		if n.Head == "record" {
			p.lowerRecord(n)
		}
	}
	for _, n := range children {
		switch n.Head {
		case "enum":
			p.lowerEnum(n)
		case "typedef":
			p.lowerTypedef(n)
		}
	}
}

func (p *Parser) declOf(n *grammar.Node) ast.Decl {
	return p.typeDecls[n]
}

func (p *Parser) lowerRecord(n *grammar.Node) {
	p.checkAttrs(n, "name", "size", "incomplete", "loc", "begin", "end")
	name := p.requireStr(n, "name")
	if name == "" {
		return
	}
	complete := !n.Flag("incomplete")
	size, hasSize := p.intAttr(n, "size")
	if complete && !hasSize {
		p.errorAt(n.Pos, "complete record %q requires attribute %q", name, "size")
	}
	t, err := p.types.DeclareRecord(name, size, complete)
	if err != nil {
		p.errorAt(n.Pos, "%v", err)
		return
	}
	d := &ast.RecordDecl{Name: name, Type: types.QualType{T: t}}
	d.Loc, d.Begin, d.End = p.span(n)
	p.typeDecls[n] = d
}

func (p *Parser) lowerEnum(n *grammar.Node) {
	p.checkAttrs(n, "name", "type", "loc", "begin", "end")
	name := p.requireStr(n, "name")
	if name == "" {
		return
	}
	underlying, _ := p.typeAttr(n, "type")
	if !underlying.IsNull() && !types.IsIntegral(underlying) {
		p.errorAt(n.Attr("type").Pos, "enum %q: underlying type %s is not integral", name, underlying)
		underlying = types.QualType{}
	}
	t, err := p.types.DeclareEnum(name, underlying)
	if err != nil {
		p.errorAt(n.Pos, "%v", err)
		return
	}
	d := &ast.EnumDecl{Name: name, Type: types.QualType{T: t}}
	d.Loc, d.Begin, d.End = p.span(n)

	next := int64(0)
	for _, c := range n.Children() {
		if c.Head != "enumerator" {
			p.errorAt(c.Pos, "unexpected %s in enum %q", c.Head, name)
			continue
		}
		p.checkAttrs(c, "name", "value", "loc", "begin", "end")
		ec := &ast.EnumConstantDecl{Name: p.requireStr(c, "name"), Type: d.Type, Value: next}
		if v, ok := p.intAttr(c, "value"); ok {
			ec.Value = v
		}
		next = ec.Value + 1
		ec.Loc, ec.Begin, ec.End = p.span(c)
		d.Constants = append(d.Constants, ec)
		if ec.Name != "" {
			p.globals[ec.Name] = ec
			p.globals[name+"::"+ec.Name] = ec
		}
	}
	p.typeDecls[n] = d
}

func (p *Parser) lowerTypedef(n *grammar.Node) {
	p.checkAttrs(n, "name", "type", "loc", "begin", "end")
	name := p.requireStr(n, "name")
	target := p.requireType(n, "type")
	if name == "" || target.IsNull() {
		return
	}
	t, err := p.types.DeclareTypedef(name, target)
	if err != nil {
		p.errorAt(n.Pos, "%v", err)
		return
	}
	d := &ast.TypedefDecl{Name: name, Type: types.QualType{T: t}}
	d.Loc, d.Begin, d.End = p.span(n)
	p.typeDecls[n] = d
}

var functionKinds = map[string]ast.FunctionKind{
	"function":    ast.FREE_FUNCTION,
	"method":      ast.METHOD,
	"constructor": ast.CONSTRUCTOR,
}

// splitQualified splits "a::b::f" into "a::b" and "f".
func splitQualified(name string) (scope, last string) {
	name = strings.TrimPrefix(name, "::")
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[:i], name[i+2:]
	}
	return "", name
}

func (p *Parser) lowerFunction(n *grammar.Node) *ast.FunctionDecl {
	p.checkAttrs(n, "name", "type", "class", "variadic", "deleted",
		"template-specialization", "overrides", "loc", "begin", "end")

	qualified := strings.TrimPrefix(p.requireStr(n, "name"), "::")
	if qualified == "" {
		return nil
	}
	scope, short := splitQualified(qualified)
	fn := &ast.FunctionDecl{
		Kind:                   functionKinds[n.Head],
		Name:                   short,
		QualifiedName:          qualified,
		Variadic:               n.Flag("variadic"),
		Deleted:                n.Flag("deleted"),
		TemplateSpecialization: n.Flag("template-specialization"),
	}
	fn.Loc, fn.Begin, fn.End = p.span(n)

	if class, ok := p.str(n, "class"); ok {
		fn.Class = class
		if scope == "" {
			fn.QualifiedName = class + "::" + short
		}
	} else if fn.Kind != ast.FREE_FUNCTION {
		fn.Class = scope
	}
	if fn.Kind != ast.FREE_FUNCTION && fn.Class == "" {
		p.errorAt(n.Pos, "%s %q requires a class", n.Head, qualified)
	}
	if overrides, ok := p.intAttr(n, "overrides"); ok {
		fn.Overrides = p.toInt(n.Pos, overrides)
	}

	if fn.Kind == ast.CONSTRUCTOR {
		fn.Result = p.types.Q(types.Void)
	} else {
		fn.Result = p.requireType(n, "type")
	}

	var hasBody bool
	for _, c := range n.Children() {
		switch c.Head {
		case "param":
			if param := p.lowerParam(c, fn); param != nil {
				fn.Params = append(fn.Params, param)
			}
		case "ctor-init":
			if fn.Kind != ast.CONSTRUCTOR {
				p.errorAt(c.Pos, "member initializers are only allowed on constructors")
			}
			hasBody = true
		case "compound":
			hasBody = true
		default:
			p.errorAt(c.Pos, "unexpected %s in %s %q", c.Head, n.Head, qualified)
		}
	}
	if hasBody {
		p.bodies[fn] = n
	}

	p.declareFunction(fn)
	return fn
}

func (p *Parser) lowerParam(n *grammar.Node, fn *ast.FunctionDecl) *ast.ParmVarDecl {
	p.checkAttrs(n, "name", "type", "loc", "begin", "end")
	param := &ast.ParmVarDecl{
		Name:     p.str0(n, "name"),
		Type:     p.requireType(n, "type"),
		Function: fn,
		Index:    len(fn.Params),
	}
	param.Loc, param.Begin, param.End = p.span(n)
	if len(n.Children()) > 0 {
		p.errorAt(n.Pos, "default arguments are not supported")
	}
	return param
}

// str0 reads an optional string attribute.
func (p *Parser) str0(n *grammar.Node, key string) string {
	s, _ := p.str(n, key)
	return s
}

// signature identifies redeclarations of one function.
func signature(fn *ast.FunctionDecl) string {
	var b strings.Builder
	b.WriteString(fn.QualifiedName)
	b.WriteString("(")
	for i, param := range fn.Params {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(types.Canonical(param.Type).String())
	}
	if fn.Variadic {
		b.WriteString(",...")
	}
	b.WriteString(")")
	return b.String()
}

func (p *Parser) declareFunction(fn *ast.FunctionDecl) {
	key := signature(fn)
	if first, ok := p.canonical[key]; ok {
		fn.Canonical = first
	} else {
		fn.Canonical = fn
		p.canonical[key] = fn
	}
	p.functions[fn.QualifiedName] = append(p.functions[fn.QualifiedName], fn)
	for _, name := range []string{fn.QualifiedName, fn.Name} {
		if _, taken := p.globals[name]; !taken {
			p.globals[name] = fn
		}
	}
}

// lookupFunction finds a function by qualified or plain name; unknown names
// get an implicit declaration whose result is the given type.
func (p *Parser) lookupFunction(name string, result types.QualType) *ast.FunctionDecl {
	name = strings.TrimPrefix(name, "::")
	if fns := p.functions[name]; len(fns) > 0 {
		return fns[0].CanonicalDecl()
	}
	if d, ok := p.globals[name]; ok {
		if fn, ok := d.(*ast.FunctionDecl); ok {
			return fn.CanonicalDecl()
		}
	}
	if fn, ok := p.implicit[name]; ok {
		return fn
	}
	_, short := splitQualified(name)
	fn := &ast.FunctionDecl{
		Kind:          ast.FREE_FUNCTION,
		Name:          short,
		QualifiedName: name,
		Result:        result,
	}
	fn.Canonical = fn
	p.implicit[name] = fn
	log.Debugf("implicitly declared %s", name)
	return fn
}

func (p *Parser) lowerFunctionBody(fn *ast.FunctionDecl, n *grammar.Node) {
	p.current = fn
	p.pushScope()
	defer func() {
		p.popScope()
		p.current = nil
	}()

	for _, param := range fn.Params {
		p.declare(param.Name, param)
	}
	for _, c := range n.Children() {
		switch c.Head {
		case "ctor-init":
			if init := p.lowerCtorInit(c); init != nil {
				fn.Inits = append(fn.Inits, init)
			}
		case "compound":
			if fn.Body != nil {
				p.errorAt(c.Pos, "function %q has more than one body", fn.QualifiedName)
				continue
			}
			fn.Body = p.lowerCompound(c)
		}
	}
}

func (p *Parser) lowerCtorInit(n *grammar.Node) *ast.CtorInitializer {
	p.checkAttrs(n, "member", "base", "loc", "begin", "end")
	init := &ast.CtorInitializer{}
	_, init.Begin, init.End = p.span(n)
	member, isMember := p.str(n, "member")
	base, isBase := p.str(n, "base")
	switch {
	case isMember && !isBase:
		init.Member = member
	case isBase && !isMember:
		init.Member, init.IsBase = base, true
	default:
		p.errorAt(n.Pos, "ctor-init requires exactly one of %q and %q", "member", "base")
		return nil
	}
	children := n.Children()
	if len(children) != 1 {
		p.errorAt(n.Pos, "ctor-init takes one initializer expression, got %d", len(children))
		return nil
	}
	init.Init = p.lowerExpr(children[0])
	if init.Init == nil {
		return nil
	}
	return init
}

// lowerVar lowers a variable with an optional initializer. Local variables
// are declared in the current scope after their initializer is lowered.
func (p *Parser) lowerVar(n *grammar.Node, scope map[string]ast.Decl) *ast.VarDecl {
	p.checkAttrs(n, "name", "type", "loc", "begin", "end")
	v := &ast.VarDecl{
		Name: p.requireStr(n, "name"),
		Type: p.requireType(n, "type"),
	}
	v.Loc, v.Begin, v.End = p.span(n)
	switch children := n.Children(); len(children) {
	case 0:
	case 1:
		v.Init = p.lowerExpr(children[0])
	default:
		p.errorAt(n.Pos, "variable %q takes at most one initializer", v.Name)
	}
	if scope != nil && v.Name != "" {
		scope[v.Name] = v
	}
	return v
}
