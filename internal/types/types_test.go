package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	_, err := r.DeclareRecord("rtl::OUString", 8, true)
	require.NoError(t, err)
	_, err = r.DeclareRecord("Big", 128, true)
	require.NoError(t, err)
	_, err = r.DeclareRecord("Small", 16, true)
	require.NoError(t, err)
	_, err = r.DeclareRecord("Base", 8, true)
	require.NoError(t, err)
	_, err = r.DeclareRecord("com::sun::star::uno::Reference<XInterface>", 8, true)
	require.NoError(t, err)
	_, err = r.DeclareEnum("Color", QualType{})
	require.NoError(t, err)
	_, err = r.DeclareTypedef("sal_Int32", r.Q(Int))
	require.NoError(t, err)
	_, err = r.DeclareTypedef("sal_uInt32", r.Q(UInt))
	require.NoError(t, err)
	_, err = r.DeclareTypedef("LPVOID", r.MustParse("void *"))
	require.NoError(t, err)
	_, err = r.DeclareTypedef("HANDLE", r.MustParse("void *"))
	require.NoError(t, err)
	_, err = r.DeclareTypedef("CString", r.MustParse("const char"))
	require.NoError(t, err)
	return r
}

func TestBuiltinNormalization(t *testing.T) {
	tests := []struct {
		words []string
		want  BuiltinType
		ok    bool
	}{
		{[]string{"int"}, Int, true},
		{[]string{"unsigned"}, UInt, true},
		{[]string{"signed"}, Int, true},
		{[]string{"long", "int"}, Long, true},
		{[]string{"unsigned", "long", "long", "int"}, ULongLong, true},
		{[]string{"short", "unsigned"}, UShort, true},
		{[]string{"signed", "char"}, SChar, true},
		{[]string{"long", "double"}, LongDouble, true},
		{[]string{"void"}, Void, true},
		{[]string{"nullptr_t"}, NullPtr, true},
		{[]string{"long", "long", "long"}, "", false},
		{[]string{"unsigned", "double"}, "", false},
		{[]string{"Foo"}, "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeBuiltin(tt.words)
		assert.Equal(t, tt.ok, ok, "%v", tt.words)
		if tt.ok {
			assert.Equal(t, tt.want, got, "%v", tt.words)
		}
	}
}

func TestInterning(t *testing.T) {
	r := newTestRegistry(t)

	a := r.MustParse("const int *")
	b := r.MustParse("int const*")
	assert.Equal(t, a, b, "identical spellings intern to one node")
	assert.Same(t, a.T, b.T)

	td := r.MustParse("sal_Int32 *")
	assert.NotEqual(t, r.MustParse("int *"), td, "as-written types differ")
	assert.True(t, SameType(r.MustParse("int *"), td), "canonical types agree")
	assert.Same(t, Canonical(td).T, r.MustParse("int *").T)
}

func TestCanonicalAndDesugar(t *testing.T) {
	r := newTestRegistry(t)

	cs := r.MustParse("CString *")
	c := Canonical(cs)
	assert.Equal(t, "const char *", c.String())
	assert.True(t, IsCanonical(c))
	assert.False(t, IsCanonical(cs))

	// the outer typedef goes, typedefs further down stay
	q := r.MustParse("const sal_Int32")
	assert.Equal(t, "const int", Desugar(q).String())
	p := r.MustParse("LPVOID")
	assert.Equal(t, "void *", Desugar(p).String())
}

func TestPrinter(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct{ spelling, want string }{
		{"int", "int"},
		{"const int *", "const int *"},
		{"int * const *", "int *const *"},
		{"int **", "int **"},
		{"volatile const char", "const volatile char"},
		{"rtl::OUString const &", "const rtl::OUString &"},
		{"rtl::OUString &&", "rtl::OUString &&"},
		{"char [16]", "char [16]"},
		{"struct Base *", "Base *"},
		{"::com::sun::star::uno::Reference< XInterface >", "com::sun::star::uno::Reference<XInterface>"},
		{"sal_Int32", "sal_Int32"},
		{"unsigned long int", "unsigned long"},
	}
	for _, tt := range tests {
		t.Run(tt.spelling, func(t *testing.T) {
			assert.Equal(t, tt.want, r.MustParse(tt.spelling).String())
		})
	}

	fn := r.FunctionType(r.Q(Void), []QualType{r.Q(Int)}, true)
	assert.Equal(t, "void (int, ...)", fn.String())
	assert.Equal(t, "void (*)(int, ...)", r.PointerTo(QualType{T: fn}).String())
}

func TestParseErrors(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Parse("Unknown *")
	assert.ErrorContains(t, err, "unknown type name")
	_, err = r.Parse("int (")
	assert.ErrorContains(t, err, "invalid type")
	_, err = r.Parse("enum Nope")
	assert.Error(t, err)

	// an elaborated specifier forward declares
	q, err := r.Parse("struct Fwd *")
	require.NoError(t, err)
	pointee, _ := PointeeType(q)
	assert.True(t, IsIncomplete(pointee))
}

func TestCategories(t *testing.T) {
	r := newTestRegistry(t)

	assert.True(t, IsVoidPointer(r.MustParse("void *")))
	assert.True(t, IsVoidPointer(r.MustParse("const void *")))
	assert.True(t, IsVoidPointer(r.MustParse("LPVOID")))
	assert.False(t, IsVoidPointer(r.MustParse("void **")))
	assert.False(t, IsVoidPointer(r.MustParse("int *")))

	assert.True(t, IsIntegral(r.MustParse("sal_Int32")))
	assert.True(t, IsIntegral(r.MustParse("bool")))
	assert.False(t, IsIntegral(r.MustParse("Color")), "enums are not integral")
	assert.True(t, IsRealFloating(r.MustParse("double")))
	assert.True(t, IsBuiltin(r.MustParse("sal_Int32")))
	assert.True(t, IsEnum(r.MustParse("Color")))
	assert.True(t, IsTypedef(r.MustParse("sal_Int32")))
	assert.False(t, IsTypedef(r.MustParse("sal_Int32 *")))
	assert.True(t, IsNullPtr(r.MustParse("std::nullptr_t")))

	assert.True(t, IsObjectType(r.MustParse("int")))
	assert.True(t, IsObjectType(r.MustParse("Big")))
	assert.False(t, IsObjectType(r.MustParse("void")))
	assert.False(t, IsObjectType(r.MustParse("int &")))
	assert.True(t, IsObjectPointer(r.MustParse("Big *")))
	assert.False(t, IsObjectPointer(r.MustParse("void *")))

	assert.True(t, HasLocalQualifiers(r.MustParse("const int")))
	assert.False(t, HasLocalQualifiers(r.MustParse("CString")))
	assert.True(t, IsConst(r.MustParse("CString")))
}

func TestQualifiers(t *testing.T) {
	r := newTestRegistry(t)

	assert.True(t, AtLeastAsQualifiedAs(r.MustParse("const int"), r.MustParse("int")))
	assert.True(t, AtLeastAsQualifiedAs(r.MustParse("const volatile int"), r.MustParse("volatile int")))
	assert.False(t, AtLeastAsQualifiedAs(r.MustParse("int"), r.MustParse("const int")))
	assert.True(t, AtLeastAsQualifiedAs(r.MustParse("CString"), r.MustParse("const char")))

	tests := []struct {
		from, to string
		want     bool
	}{
		{"int *", "const int *", true},
		{"int *", "int *", false},
		{"const int *", "int *", false},
		{"int **", "const int **", false},
		{"int **", "const int *const *", true},
		{"char **", "char *const *", true},
		{"int *", "long *", false},
		{"int", "const int", false},
		{"sal_Int32 *", "const int *", true},
	}
	for _, tt := range tests {
		t.Run(tt.from+" -> "+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, IsQualificationConversion(r.MustParse(tt.from), r.MustParse(tt.to)))
		})
	}
}

func TestSizes(t *testing.T) {
	r := newTestRegistry(t)

	n, ok := SizeOf(r.MustParse("int [4]"))
	assert.True(t, ok)
	assert.Equal(t, int64(16), n)
	n, ok = SizeOf(r.MustParse("Big"))
	assert.True(t, ok)
	assert.Equal(t, int64(128), n)
	_, ok = SizeOf(r.MustParse("int []"))
	assert.False(t, ok)
	assert.True(t, IsIncomplete(r.MustParse("void")))

	_, err := r.DeclareRecord("Big", 64, true)
	assert.Error(t, err, "conflicting sizes")
}

func TestFatPolicy(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.DeclareRecord("rtl::Incomplete", 0, false)
	require.NoError(t, err)
	_, err = r.DeclareRecord("com::sun::star::uno::Sequence<sal_Int8>", 0, false)
	require.NoError(t, err)

	p := DefaultFatPolicy()
	assert.True(t, p.IsFat(r.MustParse("Big")))
	assert.False(t, p.IsFat(r.MustParse("Small")))
	assert.True(t, p.IsFat(r.MustParse("rtl::OUString")), "handle types are fat whatever their size")
	assert.True(t, p.IsFat(r.MustParse("com::sun::star::uno::Reference<XInterface>")))
	assert.True(t, p.IsFat(r.MustParse("com::sun::star::uno::Sequence<sal_Int8>")), "even when incomplete")
	assert.False(t, p.IsFat(r.MustParse("rtl::Incomplete")))
	assert.False(t, p.IsFat(r.MustParse("Big *")), "only records")
	assert.False(t, p.IsFat(r.MustParse("const Big &")))
	assert.False(t, p.IsFat(r.MustParse("double [32]")))

	p.Threshold = 8
	assert.True(t, p.IsFat(r.MustParse("Small")))
}
