package parser

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"
	"github.com/alecthomas/participle/v2/lexer"

	"cxxlint/grammar"
	"cxxlint/internal/source"
	"cxxlint/internal/types"
)

func (p *Parser) errorAt(pos lexer.Position, format string, args ...any) {
	filename := pos.Filename
	if filename == "" {
		filename = p.filename
	}
	p.errors = append(p.errors, ParseError{
		Message:  fmt.Sprintf(format, args...),
		Position: source.Position{Filename: filename, Line: pos.Line, Column: pos.Column},
	})
}

// checkAttrs reports attributes n does not accept.
func (p *Parser) checkAttrs(n *grammar.Node, allowed ...string) {
	for _, a := range n.Attrs() {
		ok := false
		for _, k := range allowed {
			if a.Key == k {
				ok = true
				break
			}
		}
		if !ok {
			p.errorAt(a.Pos, "unknown attribute %q on %s", a.Key, n.Head)
		}
	}
}

func (p *Parser) str(n *grammar.Node, key string) (string, bool) {
	a := n.Attr(key)
	if a == nil {
		return "", false
	}
	s, ok := a.Text()
	if !ok {
		p.errorAt(a.Pos, "attribute %q of %s must be a string", key, n.Head)
	}
	return s, ok
}

func (p *Parser) requireStr(n *grammar.Node, key string) string {
	s, ok := p.str(n, key)
	if !ok && n.Attr(key) == nil {
		p.errorAt(n.Pos, "%s requires attribute %q", n.Head, key)
	}
	return s
}

func (p *Parser) intAttr(n *grammar.Node, key string) (int64, bool) {
	a := n.Attr(key)
	if a == nil {
		return 0, false
	}
	if a.Value != nil && a.Value.Int != nil {
		return *a.Value.Int, true
	}
	s, ok := a.Text()
	if ok {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v, true
		}
	}
	p.errorAt(a.Pos, "attribute %q of %s must be an integer", key, n.Head)
	return 0, false
}

func (p *Parser) toInt(pos lexer.Position, v int64) int {
	n, err := safecast.Conv[int](v)
	if err != nil {
		p.errorAt(pos, "number out of range: %v", err)
	}
	return n
}

// location converts a dump location. Locations without a file name refer
// to the main file.
func (p *Parser) location(l *grammar.Loc) source.Location {
	if l.Macro != nil {
		id, err := safecast.Conv[uint32](l.Macro.Expansion)
		if err != nil || id == 0 {
			p.errorAt(l.Pos, "invalid expansion id %d", l.Macro.Expansion)
			return source.Location{}
		}
		return source.MacroLoc(source.ExpansionID(id), p.toInt(l.Pos, l.Macro.Offset))
	}

	file := p.sources.MainFile()
	if l.File.File != "" {
		file = p.sources.AddFile(l.File.File, 0)
	}
	return source.FileLoc(file, p.toInt(l.Pos, l.File.Line), p.toInt(l.Pos, l.File.Column))
}

func (p *Parser) locAttr(n *grammar.Node, key string) (source.Location, bool) {
	a := n.Attr(key)
	if a == nil {
		return source.Location{}, false
	}
	if a.Value == nil || a.Value.Loc == nil {
		p.errorAt(a.Pos, "attribute %q of %s must be a location", key, n.Head)
		return source.Location{}, false
	}
	return p.location(a.Value.Loc), true
}

// span reads loc, begin and end. Missing begin and end default to loc,
// a missing loc defaults to begin.
func (p *Parser) span(n *grammar.Node) (loc, begin, end source.Location) {
	loc, hasLoc := p.locAttr(n, "loc")
	begin, hasBegin := p.locAttr(n, "begin")
	end, hasEnd := p.locAttr(n, "end")
	if !hasLoc {
		loc = begin
	}
	if !hasBegin {
		begin = loc
	}
	if !hasEnd {
		end = loc
	}
	return loc, begin, end
}

// typeAttr parses a type attribute. ok is false when the attribute is
// missing or invalid; invalid types are reported.
func (p *Parser) typeAttr(n *grammar.Node, key string) (types.QualType, bool) {
	a := n.Attr(key)
	if a == nil {
		return types.QualType{}, false
	}
	s, ok := a.Text()
	if !ok {
		p.errorAt(a.Pos, "attribute %q of %s must be a type", key, n.Head)
		return types.QualType{}, false
	}
	q, err := p.types.Parse(s)
	if err != nil {
		p.errorAt(a.Pos, "%v", err)
		return types.QualType{}, false
	}
	return q, true
}

func (p *Parser) requireType(n *grammar.Node, key string) types.QualType {
	q, ok := p.typeAttr(n, key)
	if !ok && n.Attr(key) == nil {
		p.errorAt(n.Pos, "%s requires attribute %q", n.Head, key)
	}
	return q
}
