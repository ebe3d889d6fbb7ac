package types

// Kind is the structural category of a Type node.
type Kind uint8

const (
	BUILTIN Kind = iota + 1
	POINTER
	LVALUE_REFERENCE
	RVALUE_REFERENCE
	RECORD
	ENUM
	TYPEDEF
	ARRAY
	FUNCTION
)

func (k Kind) String() string {
	switch k {
	case BUILTIN:
		return "builtin"
	case POINTER:
		return "pointer"
	case LVALUE_REFERENCE:
		return "lvalue reference"
	case RVALUE_REFERENCE:
		return "rvalue reference"
	case RECORD:
		return "record"
	case ENUM:
		return "enum"
	case TYPEDEF:
		return "typedef"
	case ARRAY:
		return "array"
	case FUNCTION:
		return "function"
	}
	return "unknown"
}

// Quals is a set of cv-qualifiers.
type Quals uint8

const (
	Const Quals = 1 << iota
	Volatile
)

func (q Quals) String() string {
	switch q {
	case Const:
		return "const"
	case Volatile:
		return "volatile"
	case Const | Volatile:
		return "const volatile"
	}
	return ""
}

// Includes reports whether q has every qualifier of other.
func (q Quals) Includes(other Quals) bool {
	return q&other == other
}

// Type is an interned type node. Nodes are created only by a Registry, so two
// structurally identical nodes of one registry are the same pointer.
//
// Typedef nodes are sugar: their canonical form is the canonical form of the
// aliased type. Pointer, reference, array and function nodes are sugared when
// any component is.
type Type struct {
	id   int
	Kind Kind

	// Name is the builtin spelling or the qualified name of a record, enum or
	// typedef.
	Name string

	// Elem is the pointee, referent, array element, typedef target, enum
	// underlying type or function result.
	Elem QualType

	// Len is the array bound, -1 when unknown.
	Len int64

	Params   []QualType
	Variadic bool

	size     int64
	complete bool

	canon QualType
}

// QualType is a type node plus the qualifiers written on it. The zero value
// is the null type.
type QualType struct {
	T *Type
	Q Quals
}

func (q QualType) IsNull() bool { return q.T == nil }

// WithQuals adds qualifiers.
func (q QualType) WithQuals(quals Quals) QualType {
	q.Q |= quals
	return q
}

// Unqualified drops the local qualifiers.
func (q QualType) Unqualified() QualType {
	return QualType{T: q.T}
}

// Canonical strips all sugar. The result's T is a canonical node; two
// QualTypes denote the same type iff their canonical forms are equal.
func Canonical(q QualType) QualType {
	if q.T == nil {
		return q
	}
	c := q.T.canon
	c.Q |= q.Q
	return c
}

// Desugar removes the sugar of the outermost level only, keeping any sugar
// further down (the pointee of a typedef'd pointer stays as written).
func Desugar(q QualType) QualType {
	for q.T != nil && q.T.Kind == TYPEDEF {
		q = QualType{T: q.T.Elem.T, Q: q.T.Elem.Q | q.Q}
	}
	return q
}

// IsCanonical reports whether q is already in canonical form.
func IsCanonical(q QualType) bool {
	return q.T == nil || q.T.canon.T == q.T
}

// Equal is as-written equality: same sugared node and same local qualifiers.
func Equal(a, b QualType) bool {
	return a == b
}

// SameType is canonical equality.
func SameType(a, b QualType) bool {
	return Canonical(a) == Canonical(b)
}

// SameUnqualifiedType compares canonical nodes ignoring qualifiers.
func SameUnqualifiedType(a, b QualType) bool {
	return Canonical(a).T == Canonical(b).T
}
