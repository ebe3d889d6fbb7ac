package ast

type NodeType int

const (
	// Special / error
	ILLEGAL NodeType = iota

	// Declarations
	TRANSLATION_UNIT
	FUNCTION_DECL
	PARM_VAR_DECL
	VAR_DECL
	RECORD_DECL
	ENUM_DECL
	ENUM_CONSTANT_DECL
	TYPEDEF_DECL
	CTOR_INITIALIZER

	// Statements
	COMPOUND_STMT
	DECL_STMT
	FOR_STMT
	IF_STMT
	WHILE_STMT
	DO_STMT
	RETURN_STMT
	NULL_STMT

	// Casts
	IMPLICIT_CAST_EXPR
	EXPLICIT_CAST_EXPR

	// Operators
	BINARY_OPERATOR
	UNARY_OPERATOR
	CONDITIONAL_OPERATOR

	// Calls and object lifetime
	CALL_EXPR
	OPERATOR_CALL_EXPR
	MEMBER_CALL_EXPR
	CONSTRUCT_EXPR
	DELETE_EXPR

	// Leaves and wrappers
	LITERAL_EXPR
	DECL_REF_EXPR
	MEMBER_EXPR
	PAREN_EXPR
	INIT_LIST_EXPR
	STD_INITIALIZER_LIST_EXPR
	MATERIALIZE_TEMPORARY_EXPR
	BIND_TEMPORARY_EXPR
	EXPR_WITH_CLEANUPS
)

var nodeTypeNames = [...]string{
	ILLEGAL:                    "ILLEGAL",
	TRANSLATION_UNIT:           "TRANSLATION_UNIT",
	FUNCTION_DECL:              "FUNCTION_DECL",
	PARM_VAR_DECL:              "PARM_VAR_DECL",
	VAR_DECL:                   "VAR_DECL",
	RECORD_DECL:                "RECORD_DECL",
	ENUM_DECL:                  "ENUM_DECL",
	ENUM_CONSTANT_DECL:         "ENUM_CONSTANT_DECL",
	TYPEDEF_DECL:               "TYPEDEF_DECL",
	CTOR_INITIALIZER:           "CTOR_INITIALIZER",
	COMPOUND_STMT:              "COMPOUND_STMT",
	DECL_STMT:                  "DECL_STMT",
	FOR_STMT:                   "FOR_STMT",
	IF_STMT:                    "IF_STMT",
	WHILE_STMT:                 "WHILE_STMT",
	DO_STMT:                    "DO_STMT",
	RETURN_STMT:                "RETURN_STMT",
	NULL_STMT:                  "NULL_STMT",
	IMPLICIT_CAST_EXPR:         "IMPLICIT_CAST_EXPR",
	EXPLICIT_CAST_EXPR:         "EXPLICIT_CAST_EXPR",
	BINARY_OPERATOR:            "BINARY_OPERATOR",
	UNARY_OPERATOR:             "UNARY_OPERATOR",
	CONDITIONAL_OPERATOR:       "CONDITIONAL_OPERATOR",
	CALL_EXPR:                  "CALL_EXPR",
	OPERATOR_CALL_EXPR:         "OPERATOR_CALL_EXPR",
	MEMBER_CALL_EXPR:           "MEMBER_CALL_EXPR",
	CONSTRUCT_EXPR:             "CONSTRUCT_EXPR",
	DELETE_EXPR:                "DELETE_EXPR",
	LITERAL_EXPR:               "LITERAL_EXPR",
	DECL_REF_EXPR:              "DECL_REF_EXPR",
	MEMBER_EXPR:                "MEMBER_EXPR",
	PAREN_EXPR:                 "PAREN_EXPR",
	INIT_LIST_EXPR:             "INIT_LIST_EXPR",
	STD_INITIALIZER_LIST_EXPR:  "STD_INITIALIZER_LIST_EXPR",
	MATERIALIZE_TEMPORARY_EXPR: "MATERIALIZE_TEMPORARY_EXPR",
	BIND_TEMPORARY_EXPR:        "BIND_TEMPORARY_EXPR",
	EXPR_WITH_CLEANUPS:         "EXPR_WITH_CLEANUPS",
}

func (t NodeType) String() string {
	if t >= 0 && int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return "ILLEGAL"
}

// CastKind is the conversion a cast performs, spelled as in compiler dumps.
type CastKind string

const (
	CK_NO_OP                     CastKind = "NoOp"
	CK_BIT_CAST                  CastKind = "BitCast"
	CK_LVALUE_TO_RVALUE          CastKind = "LValueToRValue"
	CK_DERIVED_TO_BASE           CastKind = "DerivedToBase"
	CK_UNCHECKED_DERIVED_TO_BASE CastKind = "UncheckedDerivedToBase"
	CK_BASE_TO_DERIVED           CastKind = "BaseToDerived"
	CK_DYNAMIC                   CastKind = "Dynamic"
	CK_TO_VOID                   CastKind = "ToVoid"
	CK_ARRAY_TO_POINTER_DECAY    CastKind = "ArrayToPointerDecay"
	CK_FUNCTION_TO_POINTER_DECAY CastKind = "FunctionToPointerDecay"
	CK_NULL_TO_POINTER           CastKind = "NullToPointer"
	CK_CONSTRUCTOR_CONVERSION    CastKind = "ConstructorConversion"
	CK_USER_DEFINED_CONVERSION   CastKind = "UserDefinedConversion"
	CK_INTEGRAL_CAST             CastKind = "IntegralCast"
	CK_INTEGRAL_TO_BOOLEAN       CastKind = "IntegralToBoolean"
	CK_INTEGRAL_TO_FLOATING      CastKind = "IntegralToFloating"
	CK_INTEGRAL_TO_POINTER       CastKind = "IntegralToPointer"
	CK_POINTER_TO_INTEGRAL       CastKind = "PointerToIntegral"
	CK_POINTER_TO_BOOLEAN        CastKind = "PointerToBoolean"
	CK_FLOATING_CAST             CastKind = "FloatingCast"
	CK_FLOATING_TO_INTEGRAL      CastKind = "FloatingToIntegral"
	CK_FLOATING_TO_BOOLEAN       CastKind = "FloatingToBoolean"
	CK_DEPENDENT                 CastKind = "Dependent"
)

var castKinds = map[CastKind]bool{
	CK_NO_OP: true, CK_BIT_CAST: true, CK_LVALUE_TO_RVALUE: true,
	CK_DERIVED_TO_BASE: true, CK_UNCHECKED_DERIVED_TO_BASE: true, CK_BASE_TO_DERIVED: true,
	CK_DYNAMIC: true, CK_TO_VOID: true, CK_ARRAY_TO_POINTER_DECAY: true,
	CK_FUNCTION_TO_POINTER_DECAY: true, CK_NULL_TO_POINTER: true,
	CK_CONSTRUCTOR_CONVERSION: true, CK_USER_DEFINED_CONVERSION: true,
	CK_INTEGRAL_CAST: true, CK_INTEGRAL_TO_BOOLEAN: true, CK_INTEGRAL_TO_FLOATING: true,
	CK_INTEGRAL_TO_POINTER: true, CK_POINTER_TO_INTEGRAL: true, CK_POINTER_TO_BOOLEAN: true,
	CK_FLOATING_CAST: true, CK_FLOATING_TO_INTEGRAL: true, CK_FLOATING_TO_BOOLEAN: true,
	CK_DEPENDENT: true,
}

// IsCastKind checks a dump spelling against the known cast kinds.
func IsCastKind(s string) bool {
	return castKinds[CastKind(s)]
}

// CastStyle is the syntax of an explicit cast.
type CastStyle uint8

const (
	STATIC_CAST CastStyle = iota + 1
	REINTERPRET_CAST
	CONST_CAST
	DYNAMIC_CAST
	FUNCTIONAL_CAST
	CSTYLE_CAST
)

func (s CastStyle) String() string {
	switch s {
	case STATIC_CAST:
		return "static_cast"
	case REINTERPRET_CAST:
		return "reinterpret_cast"
	case CONST_CAST:
		return "const_cast"
	case DYNAMIC_CAST:
		return "dynamic_cast"
	case FUNCTIONAL_CAST:
		return "functional cast"
	case CSTYLE_CAST:
		return "cstyle cast"
	}
	return "cast"
}

// BinaryOp is a binary opcode spelled as in source.
type BinaryOp string

const (
	BO_MUL        BinaryOp = "*"
	BO_DIV        BinaryOp = "/"
	BO_REM        BinaryOp = "%"
	BO_ADD        BinaryOp = "+"
	BO_SUB        BinaryOp = "-"
	BO_SHL        BinaryOp = "<<"
	BO_SHR        BinaryOp = ">>"
	BO_LT         BinaryOp = "<"
	BO_GT         BinaryOp = ">"
	BO_LE         BinaryOp = "<="
	BO_GE         BinaryOp = ">="
	BO_EQ         BinaryOp = "=="
	BO_NE         BinaryOp = "!="
	BO_AND        BinaryOp = "&"
	BO_XOR        BinaryOp = "^"
	BO_OR         BinaryOp = "|"
	BO_LAND       BinaryOp = "&&"
	BO_LOR        BinaryOp = "||"
	BO_ASSIGN     BinaryOp = "="
	BO_MUL_ASSIGN BinaryOp = "*="
	BO_DIV_ASSIGN BinaryOp = "/="
	BO_REM_ASSIGN BinaryOp = "%="
	BO_ADD_ASSIGN BinaryOp = "+="
	BO_SUB_ASSIGN BinaryOp = "-="
	BO_SHL_ASSIGN BinaryOp = "<<="
	BO_SHR_ASSIGN BinaryOp = ">>="
	BO_AND_ASSIGN BinaryOp = "&="
	BO_XOR_ASSIGN BinaryOp = "^="
	BO_OR_ASSIGN  BinaryOp = "|="
	BO_COMMA      BinaryOp = ","
)

var binaryOps = map[BinaryOp]bool{
	BO_MUL: true, BO_DIV: true, BO_REM: true, BO_ADD: true, BO_SUB: true,
	BO_SHL: true, BO_SHR: true, BO_LT: true, BO_GT: true, BO_LE: true,
	BO_GE: true, BO_EQ: true, BO_NE: true, BO_AND: true, BO_XOR: true,
	BO_OR: true, BO_LAND: true, BO_LOR: true, BO_ASSIGN: true,
	BO_MUL_ASSIGN: true, BO_DIV_ASSIGN: true, BO_REM_ASSIGN: true,
	BO_ADD_ASSIGN: true, BO_SUB_ASSIGN: true, BO_SHL_ASSIGN: true,
	BO_SHR_ASSIGN: true, BO_AND_ASSIGN: true, BO_XOR_ASSIGN: true,
	BO_OR_ASSIGN: true, BO_COMMA: true,
}

func IsBinaryOp(s string) bool { return binaryOps[BinaryOp(s)] }

func (op BinaryOp) IsAssignment() bool {
	return op == BO_ASSIGN || op.IsCompoundAssignment()
}

func (op BinaryOp) IsCompoundAssignment() bool {
	switch op {
	case BO_MUL_ASSIGN, BO_DIV_ASSIGN, BO_REM_ASSIGN, BO_ADD_ASSIGN, BO_SUB_ASSIGN,
		BO_SHL_ASSIGN, BO_SHR_ASSIGN, BO_AND_ASSIGN, BO_XOR_ASSIGN, BO_OR_ASSIGN:
		return true
	}
	return false
}

func (op BinaryOp) IsComparison() bool {
	switch op {
	case BO_LT, BO_GT, BO_LE, BO_GE, BO_EQ, BO_NE:
		return true
	}
	return false
}

// UnaryOp is a unary opcode; postfix increments are spelled "x++"/"x--".
type UnaryOp string

const (
	UO_PLUS     UnaryOp = "+"
	UO_MINUS    UnaryOp = "-"
	UO_NOT      UnaryOp = "~"
	UO_LNOT     UnaryOp = "!"
	UO_DEREF    UnaryOp = "*"
	UO_ADDR_OF  UnaryOp = "&"
	UO_PRE_INC  UnaryOp = "++"
	UO_PRE_DEC  UnaryOp = "--"
	UO_POST_INC UnaryOp = "x++"
	UO_POST_DEC UnaryOp = "x--"
)

func IsUnaryOp(s string) bool {
	switch UnaryOp(s) {
	case UO_PLUS, UO_MINUS, UO_NOT, UO_LNOT, UO_DEREF, UO_ADDR_OF,
		UO_PRE_INC, UO_PRE_DEC, UO_POST_INC, UO_POST_DEC:
		return true
	}
	return false
}

// LiteralKind distinguishes the literal expression forms.
type LiteralKind uint8

const (
	INTEGER_LITERAL LiteralKind = iota + 1
	FLOATING_LITERAL
	BOOL_LITERAL
	CHAR_LITERAL
	STRING_LITERAL
	NULLPTR_LITERAL
)

// FunctionKind separates free functions from methods and constructors.
type FunctionKind uint8

const (
	FREE_FUNCTION FunctionKind = iota + 1
	METHOD
	CONSTRUCTOR
)
