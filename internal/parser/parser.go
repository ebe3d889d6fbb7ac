package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tliron/commonlog"

	"cxxlint/grammar"
	"cxxlint/internal/ast"
	"cxxlint/internal/source"
	"cxxlint/internal/types"
)

var log = commonlog.GetLogger("cxxlint.parser")

// Parser lowers a parsed dump into a typed translation unit. Lowering runs
// in passes over the top-level forms: files, macro expansions, types,
// declarations and finally function bodies, so that forms may refer to
// each other regardless of order.
type Parser struct {
	filename string
	sources  *source.Manager
	types    *types.Registry
	errors   []ParseError

	unit      *ast.TranslationUnit
	globals   map[string]ast.Decl
	functions map[string][]*ast.FunctionDecl
	canonical map[string]*ast.FunctionDecl
	implicit  map[string]*ast.FunctionDecl
	bodies    map[*ast.FunctionDecl]*grammar.Node
	typeDecls map[*grammar.Node]ast.Decl

	scopes  []map[string]ast.Decl
	current *ast.FunctionDecl
}

func NewParser(filename string, sources *source.Manager, registry *types.Registry) *Parser {
	return &Parser{
		filename:  filename,
		sources:   sources,
		types:     registry,
		globals:   make(map[string]ast.Decl),
		functions: make(map[string][]*ast.FunctionDecl),
		canonical: make(map[string]*ast.FunctionDecl),
		implicit:  make(map[string]*ast.FunctionDecl),
		bodies:    make(map[*ast.FunctionDecl]*grammar.Node),
		typeDecls: make(map[*grammar.Node]ast.Decl),
	}
}

// Errors returns the problems found so far.
func (p *Parser) Errors() []ParseError {
	return p.errors
}

// Lower converts the single translation-unit form of dump.
func (p *Parser) Lower(dump *grammar.Dump) *ast.TranslationUnit {
	if len(dump.Nodes) != 1 || dump.Nodes[0].Head != "translation-unit" {
		pos := p.dumpPos(dump)
		p.errorAt(pos, "a dump must consist of exactly one translation-unit form")
		return nil
	}
	root := dump.Nodes[0]
	p.checkAttrs(root, "file", "lang", "loc", "begin", "end")

	main := p.requireStr(root, "file")
	if main != "" {
		p.sources.SetMainFile(p.sources.AddFile(main, 0))
	}
	lang, hasLang := p.str(root, "lang")
	if hasLang && lang != "c++" && lang != "c" {
		p.errorAt(root.Attr("lang").Pos, "unknown language %q", lang)
	}
	p.unit = &ast.TranslationUnit{
		MainFile:  p.sources.MainFile(),
		CPlusPlus: !hasLang || lang == "c++",
	}

	children := root.Children()
	p.lowerFiles(children)
	p.lowerExpansions(children)
	p.lowerTypes(children)
	p.lowerDecls(children)
	p.lowerBodies()

	if err := p.sources.Validate(); err != nil {
		p.errorAt(root.Pos, "%v", err)
	}
	_, p.unit.Begin, p.unit.End = p.span(root)

	log.Debugf("lowered %s: %d top-level declarations, %d errors", p.filename, len(p.unit.Decls), len(p.errors))
	return p.unit
}

func (p *Parser) dumpPos(dump *grammar.Dump) (pos lexer.Position) {
	if len(dump.Nodes) > 1 {
		return dump.Nodes[1].Pos
	}
	if len(dump.Nodes) == 1 {
		return dump.Nodes[0].Pos
	}
	pos.Filename = p.filename
	pos.Line = 1
	pos.Column = 1
	return pos
}

func (p *Parser) lowerFiles(children []*grammar.Node) {
	for _, n := range children {
		if n.Head != "file" {
			continue
		}
		p.checkAttrs(n, "path", "system", "third-party", "text")
		path := p.requireStr(n, "path")
		if path == "" {
			continue
		}
		var flags source.FileFlags
		if n.Flag("system") {
			flags |= source.FileSystem
		}
		if n.Flag("third-party") {
			flags |= source.FileThirdParty
		}
		id := p.sources.AddFile(path, flags)
		if text, ok := p.str(n, "text"); ok {
			p.sources.SetFileText(id, text)
		}
	}
}

func (p *Parser) lowerExpansions(children []*grammar.Node) {
	for _, n := range children {
		if n.Head != "expansion" {
			continue
		}
		p.checkAttrs(n, "id", "kind", "macro", "spelling", "caller")

		id, _ := p.intAttr(n, "id")
		exp := source.Expansion{Macro: p.requireStr(n, "macro")}
		switch kind := p.requireStr(n, "kind"); kind {
		case "body":
			exp.Kind = source.MacroBody
		case "arg":
			exp.Kind = source.MacroArg
		default:
			p.errorAt(n.Pos, "unknown expansion kind %q", kind)
			continue
		}
		var ok bool
		if exp.Spelling, ok = p.locAttr(n, "spelling"); !ok {
			p.errorAt(n.Pos, "expansion requires attribute %q", "spelling")
			continue
		}
		if exp.Caller, ok = p.locAttr(n, "caller"); !ok {
			p.errorAt(n.Pos, "expansion requires attribute %q", "caller")
			continue
		}
		if id > 0 && id <= int64(^uint32(0)) {
			exp.ID = source.ExpansionID(id)
		}
		if err := p.sources.AddExpansion(exp); err != nil {
			p.errorAt(n.Pos, "%v", err)
		}
	}
}

// Known top-level heads; anything else is an error.
var topLevel = map[string]bool{
	"file": true, "expansion": true, "record": true, "enum": true,
	"typedef": true, "function": true, "method": true, "constructor": true,
	"var": true,
}

func (p *Parser) lowerDecls(children []*grammar.Node) {
	for _, n := range children {
		switch n.Head {
		case "function", "method", "constructor":
			if fn := p.lowerFunction(n); fn != nil {
				p.unit.Decls = append(p.unit.Decls, fn)
			}
		case "var":
			if v := p.lowerVar(n, nil); v != nil {
				p.globals[v.Name] = v
				p.unit.Decls = append(p.unit.Decls, v)
			}
		case "record", "enum", "typedef":
			if d := p.declOf(n); d != nil {
				p.unit.Decls = append(p.unit.Decls, d)
			}
		default:
			if !topLevel[n.Head] {
				p.errorAt(n.Pos, "unknown top-level form %q", n.Head)
			}
		}
	}
}

// lowerBodies lowers function bodies after all declarations are known.
// Global initializers are lowered with their declarations.
func (p *Parser) lowerBodies() {
	for _, d := range p.unit.Decls {
		fn, ok := d.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		n := p.bodies[fn]
		if n == nil {
			continue
		}
		p.lowerFunctionBody(fn, n)
	}
}

func (p *Parser) pushScope() {
	p.scopes = append(p.scopes, make(map[string]ast.Decl))
}

func (p *Parser) popScope() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

func (p *Parser) declare(name string, d ast.Decl) {
	if name == "" || len(p.scopes) == 0 {
		return
	}
	p.scopes[len(p.scopes)-1][name] = d
}

// resolve finds a name in the local scopes, then among the globals.
func (p *Parser) resolve(name string) (ast.Decl, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if d, ok := p.scopes[i][name]; ok {
			return d, true
		}
	}
	d, ok := p.globals[name]
	return d, ok
}
