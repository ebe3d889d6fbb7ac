package types

import (
	"strconv"
	"strings"
)

// String prints the type the way C++ diagnostics spell it: "const int *",
// "int *const *", "char [16]", "void (*)(int)".
func (q QualType) String() string {
	if q.T == nil {
		return "<null type>"
	}
	return printType(q, "")
}

func (t *Type) String() string {
	return QualType{T: t}.String()
}

func printType(q QualType, declarator string) string {
	t := q.T
	switch t.Kind {
	case POINTER, LVALUE_REFERENCE, RVALUE_REFERENCE:
		var d strings.Builder
		switch t.Kind {
		case POINTER:
			d.WriteString("*")
		case LVALUE_REFERENCE:
			d.WriteString("&")
		default:
			d.WriteString("&&")
		}
		if q.Q != 0 && t.Kind == POINTER {
			d.WriteString(q.Q.String())
			if declarator != "" {
				d.WriteString(" ")
			}
		}
		d.WriteString(declarator)
		return printType(t.Elem, d.String())

	case ARRAY:
		bound := ""
		if t.Len >= 0 {
			bound = strconv.FormatInt(t.Len, 10)
		}
		return printType(t.Elem.WithQuals(q.Q), parenthesize(declarator)+"["+bound+"]")

	case FUNCTION:
		params := make([]string, 0, len(t.Params)+1)
		for _, p := range t.Params {
			params = append(params, p.String())
		}
		if t.Variadic {
			params = append(params, "...")
		}
		return printType(t.Elem, parenthesize(declarator)+"("+strings.Join(params, ", ")+")")
	}

	base := t.Name
	if q.Q != 0 {
		base = q.Q.String() + " " + base
	}
	if declarator == "" {
		return base
	}
	return base + " " + declarator
}

func parenthesize(declarator string) string {
	if strings.HasPrefix(declarator, "*") || strings.HasPrefix(declarator, "&") {
		return "(" + declarator + ")"
	}
	return declarator
}
