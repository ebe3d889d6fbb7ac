package types

import "strings"

// All category tests look at the canonical type unless their name says
// otherwise (IsTypedef, HasLocalQualifiers).

func canonicalKind(q QualType) Kind {
	if q.T == nil {
		return 0
	}
	return q.T.canon.T.Kind
}

func IsPointer(q QualType) bool { return canonicalKind(q) == POINTER }
func IsRecord(q QualType) bool  { return canonicalKind(q) == RECORD }
func IsEnum(q QualType) bool    { return canonicalKind(q) == ENUM }
func IsArray(q QualType) bool   { return canonicalKind(q) == ARRAY }
func IsBuiltin(q QualType) bool { return canonicalKind(q) == BUILTIN }

func IsFunction(q QualType) bool { return canonicalKind(q) == FUNCTION }

func IsReference(q QualType) bool {
	k := canonicalKind(q)
	return k == LVALUE_REFERENCE || k == RVALUE_REFERENCE
}

// IsTypedef reports whether the outermost node as written is a typedef.
func IsTypedef(q QualType) bool {
	return q.T != nil && q.T.Kind == TYPEDEF
}

func isBuiltinNamed(q QualType, match func(string) bool) bool {
	c := Canonical(q)
	return c.T != nil && c.T.Kind == BUILTIN && match(c.T.Name)
}

func IsVoid(q QualType) bool {
	return isBuiltinNamed(q, func(n string) bool { return n == string(Void) })
}

func IsBoolean(q QualType) bool {
	return isBuiltinNamed(q, func(n string) bool { return n == string(Bool) })
}

func IsNullPtr(q QualType) bool {
	return isBuiltinNamed(q, func(n string) bool { return n == string(NullPtr) })
}

// IsIntegral is the C++ notion: bool, character and integer types. Enums are
// not integral in C++.
func IsIntegral(q QualType) bool {
	return isBuiltinNamed(q, IsIntegerType)
}

func IsRealFloating(q QualType) bool {
	return isBuiltinNamed(q, IsFloatingType)
}

func IsArithmetic(q QualType) bool {
	return IsIntegral(q) || IsRealFloating(q)
}

// IsObjectType is true for everything but functions, references and void.
func IsObjectType(q QualType) bool {
	switch canonicalKind(q) {
	case 0, FUNCTION, LVALUE_REFERENCE, RVALUE_REFERENCE:
		return false
	}
	return !IsVoid(q)
}

// PointeeType looks through typedefs to a pointer and returns its pointee as
// written.
func PointeeType(q QualType) (QualType, bool) {
	d := Desugar(q)
	if d.T == nil || d.T.Kind != POINTER {
		return QualType{}, false
	}
	return d.T.Elem, true
}

// ReferencedType looks through typedefs to a reference and returns the
// referenced type as written.
func ReferencedType(q QualType) (QualType, bool) {
	d := Desugar(q)
	if d.T == nil || (d.T.Kind != LVALUE_REFERENCE && d.T.Kind != RVALUE_REFERENCE) {
		return QualType{}, false
	}
	return d.T.Elem, true
}

// IsVoidPointer reports a pointer whose pointee is void, with any
// qualification.
func IsVoidPointer(q QualType) bool {
	p, ok := PointeeType(q)
	return ok && IsVoid(p)
}

// IsObjectPointer reports a pointer whose pointee is an object type.
func IsObjectPointer(q QualType) bool {
	p, ok := PointeeType(q)
	return ok && IsObjectType(p)
}

// HasLocalQualifiers reports qualifiers written directly on q, not those
// hidden behind a typedef.
func HasLocalQualifiers(q QualType) bool {
	return q.Q != 0
}

func IsLocalConst(q QualType) bool    { return q.Q&Const != 0 }
func IsLocalVolatile(q QualType) bool { return q.Q&Volatile != 0 }

// IsConst includes qualifiers that come from typedefs.
func IsConst(q QualType) bool    { return Canonical(q).Q&Const != 0 }
func IsVolatile(q QualType) bool { return Canonical(q).Q&Volatile != 0 }

// AtLeastAsQualifiedAs reports whether a carries every cv-qualifier b
// carries, typedef qualifiers included.
func AtLeastAsQualifiedAs(a, b QualType) bool {
	return Canonical(a).Q.Includes(Canonical(b).Q)
}

// IsQualificationConversion reports whether from converts to to by adding
// cv-qualifiers at one or more pointer levels, following the multi-level
// rule: once qualifiers differ at a level, every outer level of the target
// must be const.
func IsQualificationConversion(from, to QualType) bool {
	from, to = Canonical(from), Canonical(to)
	if from.T == to.T {
		return false
	}
	previousIncludeConst := true
	unwrapped := false
	for from.T != nil && to.T != nil && from.T.Kind == POINTER && to.T.Kind == POINTER {
		from, to = Canonical(from.T.Elem), Canonical(to.T.Elem)
		if !to.Q.Includes(from.Q) {
			return false
		}
		if from.Q != to.Q && !previousIncludeConst {
			return false
		}
		previousIncludeConst = previousIncludeConst && to.Q&Const != 0
		unwrapped = true
	}
	return unwrapped && from.T == to.T
}

// SizeOf returns the size in bytes of a complete object type.
func SizeOf(q QualType) (int64, bool) {
	c := Canonical(q)
	if c.T == nil {
		return 0, false
	}
	switch c.T.Kind {
	case BUILTIN:
		n, ok := BuiltinSizes[BuiltinType(c.T.Name)]
		return n, ok
	case POINTER, LVALUE_REFERENCE, RVALUE_REFERENCE:
		return 8, true
	case ENUM:
		return SizeOf(c.T.Elem)
	case RECORD:
		return c.T.size, c.T.complete
	case ARRAY:
		if c.T.Len < 0 {
			return 0, false
		}
		n, ok := SizeOf(c.T.Elem)
		return n * c.T.Len, ok
	}
	return 0, false
}

// IsIncomplete reports types whose size is unknown: void, incomplete records
// and arrays of unknown bound.
func IsIncomplete(q QualType) bool {
	if IsVoid(q) {
		return true
	}
	switch canonicalKind(q) {
	case RECORD, ARRAY:
		_, ok := SizeOf(q)
		return !ok
	}
	return false
}

// QualifiedName returns the qualified name of the record or enum behind q,
// without template arguments, or "".
func QualifiedName(q QualType) string {
	c := Canonical(q)
	if c.T == nil || (c.T.Kind != RECORD && c.T.Kind != ENUM) {
		return ""
	}
	return stripTemplateArgs(c.T.Name)
}

// RecordMatches checks the record behind q against a qualified name such as
// "rtl::OUString"; template arguments are ignored.
func RecordMatches(q QualType, qualified string) bool {
	if !IsRecord(q) {
		return false
	}
	return QualifiedName(q) == strings.TrimPrefix(qualified, "::")
}

func stripTemplateArgs(name string) string {
	var b strings.Builder
	depth := 0
	for _, r := range name {
		switch {
		case r == '<':
			depth++
		case r == '>':
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
