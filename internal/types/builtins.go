package types

import (
	"slices"
	"strings"
)

// BuiltinType is the normalized spelling of a fundamental C++ type.
type BuiltinType string

const (
	Void    BuiltinType = "void"
	Bool    BuiltinType = "bool"
	NullPtr BuiltinType = "std::nullptr_t"

	// Character types
	Char   BuiltinType = "char"
	SChar  BuiltinType = "signed char"
	UChar  BuiltinType = "unsigned char"
	WChar  BuiltinType = "wchar_t"
	Char8  BuiltinType = "char8_t"
	Char16 BuiltinType = "char16_t"
	Char32 BuiltinType = "char32_t"

	// Integers
	Short     BuiltinType = "short"
	UShort    BuiltinType = "unsigned short"
	Int       BuiltinType = "int"
	UInt      BuiltinType = "unsigned int"
	Long      BuiltinType = "long"
	ULong     BuiltinType = "unsigned long"
	LongLong  BuiltinType = "long long"
	ULongLong BuiltinType = "unsigned long long"
	Int128    BuiltinType = "__int128"
	UInt128   BuiltinType = "unsigned __int128"

	// Floating point
	Float      BuiltinType = "float"
	Double     BuiltinType = "double"
	LongDouble BuiltinType = "long double"
)

// BuiltinSizes maps every builtin type to its size in bytes on an LP64
// target. Void has no size.
var BuiltinSizes = map[BuiltinType]int64{
	Bool:    1,
	NullPtr: 8,

	Char:   1,
	SChar:  1,
	UChar:  1,
	WChar:  4,
	Char8:  1,
	Char16: 2,
	Char32: 4,

	Short:     2,
	UShort:    2,
	Int:       4,
	UInt:      4,
	Long:      8,
	ULong:     8,
	LongLong:  8,
	ULongLong: 8,
	Int128:    16,
	UInt128:   16,

	Float:      4,
	Double:     8,
	LongDouble: 16,
}

// IsBuiltinType checks if a normalized spelling is a builtin type
func IsBuiltinType(name string) bool {
	if BuiltinType(name) == Void {
		return true
	}
	_, ok := BuiltinSizes[BuiltinType(name)]
	return ok
}

// IsIntegerType reports integral builtins, including bool and the character
// types.
func IsIntegerType(name string) bool {
	switch BuiltinType(name) {
	case Bool, Char, SChar, UChar, WChar, Char8, Char16, Char32,
		Short, UShort, Int, UInt, Long, ULong, LongLong, ULongLong, Int128, UInt128:
		return true
	default:
		return false
	}
}

func IsFloatingType(name string) bool {
	switch BuiltinType(name) {
	case Float, Double, LongDouble:
		return true
	default:
		return false
	}
}

var builtinWords = []string{
	"void", "bool", "char", "wchar_t", "char8_t", "char16_t", "char32_t",
	"short", "int", "long", "signed", "unsigned", "float", "double", "__int128",
}

// NormalizeBuiltin maps any legal spelling of a builtin ("long int",
// "unsigned", "signed short int") to its normalized name.
func NormalizeBuiltin(words []string) (BuiltinType, bool) {
	if len(words) == 1 && (words[0] == "nullptr_t" || words[0] == "decltype(nullptr)") {
		return NullPtr, true
	}
	var signed, unsigned bool
	var shorts, longs int
	base := ""
	for _, w := range words {
		if !slices.Contains(builtinWords, w) {
			return "", false
		}
		switch w {
		case "signed":
			signed = true
		case "unsigned":
			unsigned = true
		case "short":
			shorts++
		case "long":
			longs++
		default:
			if base != "" && !(base == "int" || w == "int") {
				return "", false
			}
			if base == "" || base == "int" {
				base = w
			}
		}
	}
	if signed && unsigned || shorts > 1 || longs > 2 || shorts > 0 && longs > 0 {
		return "", false
	}

	switch base {
	case "char":
		switch {
		case signed:
			return SChar, true
		case unsigned:
			return UChar, true
		}
		return Char, shorts+longs == 0
	case "double":
		if longs == 1 && !signed && !unsigned && shorts == 0 {
			return LongDouble, true
		}
		return Double, longs == 0 && shorts == 0 && !signed && !unsigned
	case "", "int":
		var b strings.Builder
		if unsigned {
			b.WriteString("unsigned ")
		}
		switch {
		case shorts == 1:
			b.WriteString("short")
		case longs == 1:
			b.WriteString("long")
		case longs == 2:
			b.WriteString("long long")
		default:
			b.WriteString("int")
		}
		return BuiltinType(b.String()), true
	case "__int128":
		if shorts+longs > 0 {
			return "", false
		}
		if unsigned {
			return UInt128, true
		}
		return Int128, true
	}
	if signed || unsigned || shorts+longs > 0 {
		return "", false
	}
	return BuiltinType(base), true
}
