package grammar

import (
	"fmt"
	"strconv"
	"strings"
)

func indent(level int) string {
	return strings.Repeat("  ", level)
}

// String renders the dump in canonical layout: one node per line, attributes
// on the head line, children indented below.
func (d *Dump) String() string {
	var b strings.Builder
	for _, n := range d.Nodes {
		b.WriteString(n.StringWithIndent(0))
		b.WriteString("\n")
	}
	return b.String()
}

func (n *Node) String() string {
	return n.StringWithIndent(0)
}

func (n *Node) StringWithIndent(level int) string {
	var b strings.Builder
	b.WriteString(indent(level) + "(" + n.Head)
	for _, a := range n.Attrs() {
		b.WriteString(" " + a.String())
	}
	for _, c := range n.Children() {
		b.WriteString("\n" + c.StringWithIndent(level+1))
	}
	b.WriteString(")")
	return b.String()
}

func (a *Attr) String() string {
	if a.Value == nil {
		return a.Key
	}
	return a.Key + "=" + a.Value.String()
}

func (v *Value) String() string {
	switch {
	case v.Loc != nil:
		return v.Loc.String()
	case v.Str != nil:
		return strconv.Quote(*v.Str)
	case v.Int != nil:
		return lexerInt(*v.Int)
	case v.Ident != nil:
		return *v.Ident
	}
	return ""
}

func (l *Loc) String() string {
	if l.Macro != nil {
		if l.Macro.Offset != 0 {
			return fmt.Sprintf("<#%d+%d>", l.Macro.Expansion, l.Macro.Offset)
		}
		return fmt.Sprintf("<#%d>", l.Macro.Expansion)
	}
	if l.File == nil {
		return "<>"
	}
	if l.File.File != "" {
		return fmt.Sprintf("<%s:%d:%d>", strconv.Quote(l.File.File), l.File.Line, l.File.Column)
	}
	return fmt.Sprintf("<%d:%d>", l.File.Line, l.File.Column)
}

func (t *TypeExpr) String() string {
	var parts []string
	parts = append(parts, t.Leading...)
	parts = append(parts, t.Name.String())
	parts = append(parts, t.Trailing...)
	s := strings.Join(parts, " ")
	for _, d := range t.Declarators {
		s += d.String()
	}
	return s
}

func (n *TypeName) String() string {
	var segs []string
	for _, s := range n.Segments {
		segs = append(segs, s.String())
	}
	out := strings.Join(segs, "::")
	if n.Global {
		return "::" + out
	}
	return out
}

func (s *NameSegment) String() string {
	out := strings.Join(s.Words, " ")
	if len(s.Args) == 0 {
		return out
	}
	var args []string
	for _, a := range s.Args {
		if a.Int != nil {
			args = append(args, *a.Int)
		} else {
			args = append(args, a.Type.String())
		}
	}
	return out + "<" + strings.Join(args, ", ") + ">"
}

func (d *Declarator) String() string {
	switch {
	case d.Pointer != nil:
		if len(d.Pointer.Quals) > 0 {
			return " *" + strings.Join(d.Pointer.Quals, " ")
		}
		return " *"
	case d.RRef:
		return " &&"
	case d.LRef:
		return " &"
	case d.Array != nil:
		if d.Array.Size != nil {
			return " [" + *d.Array.Size + "]"
		}
		return " []"
	}
	return ""
}
