package errors

// Diagnostic codes reported by cxxlint.
//
// Code ranges:
// E0100-E0199: dump errors (the input could not be lowered)
// W1000-W1999: redundant casts
// W2000-W2999: parameter passing
// W3000-W3999: comma operator
// N0001-N0099: notes attached to other diagnostics

const (
	// E0100: the dump is malformed or refers to unknown names or types
	ErrorMalformedDump = "E0100"

	// W1001: const_cast whose result is implicitly converted back
	WarningConstCastImplicitlyCastBack = "W1001"

	// W1002: const_cast chain feeding a conversion to a void pointer
	WarningConstCastToVoidPointer = "W1002"

	// W1003: reinterpret_cast whose result becomes a void pointer anyway
	WarningReinterpretCastToVoid = "W1003"

	// W1004: static_cast from void pointer converted back to void pointer
	WarningStaticCastFromVoidPointer = "W1004"

	// W1005: const_cast chain feeding a derived-to-base conversion
	WarningConstCastToBase = "W1005"

	// W1006: C-style cast between identical types
	WarningRedundantCStyleCast = "W1006"

	// W1007: static_cast to a top-level qualified non-class type
	WarningStaticCastQualifier = "W1007"

	// W1008: static_cast that only adds qualifiers
	WarningStaticCastShouldBeConstCast = "W1008"

	// W1009: static_cast that changes nothing
	WarningRedundantStaticCast = "W1009"

	// W1010: reinterpret_cast from void pointer to object pointer
	WarningReinterpretCastFromVoidPointer = "W1010"

	// W1011: reinterpret_cast from object pointer to void pointer
	WarningReinterpretCastToVoidPointer = "W1011"

	// W1012: const_cast between identical types
	WarningRedundantConstCast = "W1012"

	// W1013: static_cast whose qualifiers a following const_cast removes
	WarningStaticConstCastCombination = "W1013"

	// W1014: functional cast between identical types
	WarningRedundantFunctionalCast = "W1014"

	// W1015: const_cast of a variadic argument
	WarningConstCastVariadicArgument = "W1015"

	// W1016: const_cast of the operand of delete
	WarningConstCastInDelete = "W1016"

	// W1017: const_cast of a pointer comparison or subtraction operand
	WarningConstCastPointerOperand = "W1017"

	// W2001: fat parameter passed by value
	WarningPassByValue = "W2001"

	// W3001: comma operator outside the accepted positions
	WarningCommaOperator = "W3001"

	// N0001: location of the first declaration of a function
	NoteDeclaredHere = "N0001"
)

// Check names, as used in configuration and in rendered diagnostics.
const (
	CheckRedundantCast   = "redundantcast"
	CheckPassParamsByRef = "passparamsbyref"
	CheckCommaOperator   = "commaoperator"
)

// GetErrorDescription returns a human-readable description of the code.
func GetErrorDescription(code string) string {
	switch code {
	case ErrorMalformedDump:
		return "The AST dump could not be lowered"
	case WarningConstCastImplicitlyCastBack:
		return "const_cast result is implicitly cast back to a qualified type"
	case WarningConstCastToVoidPointer:
		return "const_cast result is ultimately cast to a void pointer"
	case WarningReinterpretCastToVoid:
		return "reinterpret_cast result is implicitly cast to a void pointer"
	case WarningStaticCastFromVoidPointer:
		return "static_cast from void pointer is implicitly cast back to a void pointer"
	case WarningConstCastToBase:
		return "const_cast result is ultimately cast to a base class"
	case WarningRedundantCStyleCast:
		return "C-style cast between identical types"
	case WarningStaticCastQualifier:
		return "static_cast to a type with redundant top-level qualifiers"
	case WarningStaticCastShouldBeConstCast:
		return "static_cast that only adds qualifiers"
	case WarningRedundantStaticCast:
		return "static_cast that does not change the type"
	case WarningReinterpretCastFromVoidPointer, WarningReinterpretCastToVoidPointer:
		return "reinterpret_cast that can be a static_cast"
	case WarningRedundantConstCast:
		return "const_cast that does not change the type"
	case WarningStaticConstCastCombination:
		return "static_cast adds qualifiers a following const_cast removes"
	case WarningRedundantFunctionalCast:
		return "functional cast between identical types"
	case WarningConstCastVariadicArgument:
		return "const_cast of an argument passed through an ellipsis"
	case WarningConstCastInDelete:
		return "const_cast of the operand of a delete expression"
	case WarningConstCastPointerOperand:
		return "const_cast of an operand of a pointer comparison or subtraction"
	case WarningPassByValue:
		return "Parameter of a fat type is passed by value"
	case WarningCommaOperator:
		return "Comma operator hides code"
	case NoteDeclaredHere:
		return "First declaration of the function"
	default:
		return "Unknown diagnostic code"
	}
}

// IsWarning returns true if the code represents a warning rather than an
// error or a note.
func IsWarning(code string) bool {
	return code != "" && code[0] == 'W'
}

// GetErrorCategory returns the category of the code based on its range.
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0100" && code < "E0200":
		return "Dump"
	case code >= "W1000" && code < "W2000":
		return "Redundant Cast"
	case code >= "W2000" && code < "W3000":
		return "Parameter Passing"
	case code >= "W3000" && code < "W4000":
		return "Comma Operator"
	case code != "" && code[0] == 'N':
		return "Note"
	default:
		return "Unknown"
	}
}

// CheckOf returns the check that reports the code, or "".
func CheckOf(code string) string {
	switch GetErrorCategory(code) {
	case "Redundant Cast":
		return CheckRedundantCast
	case "Parameter Passing":
		return CheckPassParamsByRef
	case "Comma Operator":
		return CheckCommaOperator
	}
	return ""
}
