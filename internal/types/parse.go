package types

import (
	"fmt"
	"strconv"
	"strings"

	"cxxlint/grammar"
)

var elaborated = map[string]bool{"struct": true, "class": true, "union": true, "enum": true}

// Parse resolves a type spelling from a dump ("const rtl::OUString &",
// "unsigned long", "struct Foo *") against the registry.
func (r *Registry) Parse(spelling string) (QualType, error) {
	te, err := grammar.ParseType(spelling)
	if err != nil {
		_, msg := grammar.ErrorPosition(err)
		return QualType{}, fmt.Errorf("invalid type %q: %s", spelling, msg)
	}
	return r.resolve(te)
}

// MustParse is Parse for known-good spellings.
func (r *Registry) MustParse(spelling string) QualType {
	q, err := r.Parse(spelling)
	if err != nil {
		panic(err)
	}
	return q
}

func qualsOf(words []string) Quals {
	var q Quals
	for _, w := range words {
		switch w {
		case "const":
			q |= Const
		case "volatile":
			q |= Volatile
		}
	}
	return q
}

func (r *Registry) resolve(te *grammar.TypeExpr) (QualType, error) {
	base, err := r.resolveName(te.Name)
	if err != nil {
		return QualType{}, err
	}
	q := QualType{T: base, Q: qualsOf(te.Leading) | qualsOf(te.Trailing)}

	for _, d := range te.Declarators {
		switch {
		case d.Pointer != nil:
			q = QualType{T: r.PointerTo(q), Q: qualsOf(d.Pointer.Quals)}
		case d.LRef:
			q = QualType{T: r.LValueRefTo(q)}
		case d.RRef:
			q = QualType{T: r.RValueRefTo(q)}
		case d.Array != nil:
			n := int64(-1)
			if d.Array.Size != nil {
				n, err = strconv.ParseInt(*d.Array.Size, 10, 64)
				if err != nil {
					return QualType{}, fmt.Errorf("invalid array bound %q: %w", *d.Array.Size, err)
				}
			}
			q = QualType{T: r.ArrayOf(q, n)}
		}
	}
	return q, nil
}

func (r *Registry) resolveName(n *grammar.TypeName) (*Type, error) {
	if len(n.Segments) == 1 && !n.Global && len(n.Segments[0].Args) == 0 {
		if b, ok := NormalizeBuiltin(n.Segments[0].Words); ok {
			return r.builtins[b], nil
		}
	}

	// "struct Foo" and "enum ns::E" carry the keyword on the first segment
	first := n.Segments[0].Words
	keyword := ""
	if len(first) > 1 && elaborated[first[0]] {
		keyword = first[0]
		first = first[1:]
	}
	if len(first) != 1 {
		return nil, fmt.Errorf("unknown type name %q", strings.Join(n.Segments[0].Words, " "))
	}

	stripped := &grammar.TypeName{Global: n.Global, Segments: append([]*grammar.NameSegment{{Words: first, Args: n.Segments[0].Args}}, n.Segments[1:]...)}
	name := strings.TrimPrefix(stripped.String(), "::")

	if name == "std::nullptr_t" {
		return r.builtins[NullPtr], nil
	}

	switch keyword {
	case "":
		if t, ok := r.Lookup(name); ok {
			return t, nil
		}
	case "enum":
		if t, ok := r.LookupTag(name); ok && t.Kind == ENUM {
			return t, nil
		}
	default:
		if t, ok := r.LookupTag(name); ok {
			if t.Kind != RECORD {
				return nil, fmt.Errorf("%q is not a %s", name, keyword)
			}
			return t, nil
		}
		// an elaborated type specifier declares the record
		return r.DeclareRecord(name, 0, false)
	}
	return nil, fmt.Errorf("unknown type name %q", name)
}
