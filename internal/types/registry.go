package types

import (
	"fmt"
	"slices"
	"strings"

	"cxxlint/grammar"
)

type typeKey struct {
	kind   Kind
	name   string
	elem   QualType
	len    int64
	params string
}

// Registry interns the types of one translation unit. Builtins exist from
// the start; records, enums and typedefs are declared by name.
type Registry struct {
	interned map[typeKey]*Type
	builtins map[BuiltinType]*Type
	tags     map[string]*Type // records and enums
	typedefs map[string]*Type
	nextID   int
}

// NewRegistry creates a new type registry with built-in types
func NewRegistry() *Registry {
	r := &Registry{
		interned: make(map[typeKey]*Type),
		builtins: make(map[BuiltinType]*Type),
		tags:     make(map[string]*Type),
		typedefs: make(map[string]*Type),
	}
	r.initializeBuiltins()
	return r
}

func (r *Registry) initializeBuiltins() {
	for name := range BuiltinSizes {
		r.builtins[name] = r.newType(&Type{Kind: BUILTIN, Name: string(name)}, nil)
	}
	r.builtins[Void] = r.newType(&Type{Kind: BUILTIN, Name: string(Void)}, nil)
}

// newType finalizes t. canonicalOf computes the canonical form of a sugared
// node; nil means t is canonical itself.
func (r *Registry) newType(t *Type, canonicalOf func() QualType) *Type {
	r.nextID++
	t.id = r.nextID
	if canonicalOf == nil {
		t.canon = QualType{T: t}
	} else {
		t.canon = canonicalOf()
	}
	return t
}

func (r *Registry) intern(key typeKey, build func() *Type) *Type {
	if t, ok := r.interned[key]; ok {
		return t
	}
	t := build()
	r.interned[key] = t
	return t
}

// Builtin returns the builtin type named b, or nil.
func (r *Registry) Builtin(b BuiltinType) *Type {
	return r.builtins[b]
}

// Q wraps a builtin as an unqualified QualType.
func (r *Registry) Q(b BuiltinType) QualType {
	return QualType{T: r.builtins[b]}
}

func (r *Registry) derived(kind Kind, elem QualType, n int64, rebuild func(QualType) *Type) *Type {
	key := typeKey{kind: kind, elem: elem, len: n}
	return r.intern(key, func() *Type {
		t := &Type{Kind: kind, Elem: elem, Len: n}
		if IsCanonical(elem) {
			return r.newType(t, nil)
		}
		return r.newType(t, func() QualType {
			return QualType{T: rebuild(Canonical(elem))}
		})
	})
}

// PointerTo returns the pointer type with pointee q.
func (r *Registry) PointerTo(q QualType) *Type {
	return r.derived(POINTER, q, 0, r.PointerTo)
}

func (r *Registry) LValueRefTo(q QualType) *Type {
	return r.derived(LVALUE_REFERENCE, q, 0, r.LValueRefTo)
}

func (r *Registry) RValueRefTo(q QualType) *Type {
	return r.derived(RVALUE_REFERENCE, q, 0, r.RValueRefTo)
}

// ArrayOf returns the array type with n elements of q; n < 0 is an unknown
// bound.
func (r *Registry) ArrayOf(q QualType, n int64) *Type {
	if n < 0 {
		n = -1
	}
	return r.derived(ARRAY, q, n, func(c QualType) *Type { return r.ArrayOf(c, n) })
}

// FunctionType returns the function type ret(params...).
func (r *Registry) FunctionType(ret QualType, params []QualType, variadic bool) *Type {
	var ids strings.Builder
	canonical := IsCanonical(ret)
	for _, p := range params {
		fmt.Fprintf(&ids, "%d/%d,", p.T.id, p.Q)
		canonical = canonical && IsCanonical(p)
	}
	if variadic {
		ids.WriteString("...")
	}
	key := typeKey{kind: FUNCTION, elem: ret, params: ids.String()}
	return r.intern(key, func() *Type {
		t := &Type{Kind: FUNCTION, Elem: ret, Params: append([]QualType(nil), params...), Variadic: variadic}
		if canonical {
			return r.newType(t, nil)
		}
		return r.newType(t, func() QualType {
			cp := make([]QualType, len(params))
			for i, p := range params {
				cp[i] = Canonical(p)
			}
			return QualType{T: r.FunctionType(Canonical(ret), cp, variadic)}
		})
	})
}

// DeclareRecord declares (or completes) the record named name. size is in
// bytes and ignored for incomplete records.
func (r *Registry) DeclareRecord(name string, size int64, complete bool) (*Type, error) {
	name = normalizeName(name)
	if t, ok := r.tags[name]; ok {
		if t.Kind != RECORD {
			return nil, fmt.Errorf("%q redeclared as a record", name)
		}
		if complete {
			if t.complete && t.size != size {
				return nil, fmt.Errorf("record %q redefined with a different size", name)
			}
			t.complete, t.size = true, size
		}
		return t, nil
	}
	t := r.newType(&Type{Kind: RECORD, Name: name, size: size, complete: complete}, nil)
	if !complete {
		t.size = 0
	}
	r.tags[name] = t
	return t, nil
}

// DeclareEnum declares an enum with the given underlying integer type.
func (r *Registry) DeclareEnum(name string, underlying QualType) (*Type, error) {
	name = normalizeName(name)
	if underlying.IsNull() {
		underlying = r.Q(Int)
	}
	if t, ok := r.tags[name]; ok {
		if t.Kind != ENUM {
			return nil, fmt.Errorf("%q redeclared as an enum", name)
		}
		return t, nil
	}
	t := r.newType(&Type{Kind: ENUM, Name: name, Elem: underlying, complete: true}, nil)
	r.tags[name] = t
	return t, nil
}

// DeclareTypedef declares name as an alias of target.
func (r *Registry) DeclareTypedef(name string, target QualType) (*Type, error) {
	name = normalizeName(name)
	if target.IsNull() {
		return nil, fmt.Errorf("typedef %q has no target type", name)
	}
	if t, ok := r.typedefs[name]; ok {
		if !SameType(t.Elem, target) {
			return nil, fmt.Errorf("typedef %q redefined with a different type", name)
		}
		return t, nil
	}
	t := r.newType(&Type{Kind: TYPEDEF, Name: name, Elem: target}, func() QualType {
		return Canonical(target)
	})
	r.typedefs[name] = t
	return t, nil
}

// Lookup resolves a qualified name to a typedef, record or enum. Typedefs
// win over tags of the same name, as in C++ name lookup.
func (r *Registry) Lookup(name string) (*Type, bool) {
	name = normalizeName(name)
	if t, ok := r.typedefs[name]; ok {
		return t, true
	}
	t, ok := r.tags[name]
	return t, ok
}

// LookupTag resolves an elaborated name ("struct Foo") that ignores
// typedefs.
func (r *Registry) LookupTag(name string) (*Type, bool) {
	t, ok := r.tags[normalizeName(name)]
	return t, ok
}

// Records returns the declared record types.
func (r *Registry) Records() []*Type {
	var out []*Type
	for _, t := range r.tags {
		if t.Kind == RECORD {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b *Type) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// normalizeName brings a qualified name into the spacing the type printer
// uses, so that "Reference< XInterface >" and "Reference<XInterface>" agree.
func normalizeName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "::")
	if !strings.ContainsAny(name, "< ") {
		return name
	}
	te, err := grammar.ParseType(name)
	if err != nil || len(te.Leading)+len(te.Trailing)+len(te.Declarators) > 0 {
		return name
	}
	return strings.TrimPrefix(te.Name.String(), "::")
}
