package ast

import (
	"cxxlint/internal/source"
	"cxxlint/internal/types"
)

// TranslationUnit is the root declaration of one compiled file.
type TranslationUnit struct {
	Base
	MainFile  source.FileID
	CPlusPlus bool
	Decls     []Decl
}

// FunctionDecl is a function, method or constructor declaration. Body is
// nil for declarations that are not definitions.
type FunctionDecl struct {
	Base
	Loc           source.Location
	Kind          FunctionKind
	Name          string
	QualifiedName string
	Class         string
	Result        types.QualType
	Params        []*ParmVarDecl
	Inits         []*CtorInitializer
	Body          *CompoundStmt

	Variadic               bool
	Deleted                bool
	TemplateSpecialization bool

	// Overrides counts the methods this one overrides.
	Overrides int

	// Canonical is the first declaration of the function; it points to
	// itself for first declarations.
	Canonical *FunctionDecl
}

// HasBody reports whether this declaration is a definition.
func (f *FunctionDecl) HasBody() bool { return f.Body != nil }

// Type returns the function type.
func (f *FunctionDecl) Type(r *types.Registry) types.QualType {
	params := make([]types.QualType, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type
	}
	return types.QualType{T: r.FunctionType(f.Result, params, f.Variadic)}
}

// CanonicalDecl never returns nil.
func (f *FunctionDecl) CanonicalDecl() *FunctionDecl {
	if f.Canonical == nil {
		return f
	}
	return f.Canonical
}

type ParmVarDecl struct {
	Base
	Loc      source.Location
	Name     string
	Type     types.QualType
	Function *FunctionDecl
	Index    int
}

type VarDecl struct {
	Base
	Loc  source.Location
	Name string
	Type types.QualType
	Init Expr
}

type RecordDecl struct {
	Base
	Loc  source.Location
	Name string
	Type types.QualType
}

type EnumDecl struct {
	Base
	Loc       source.Location
	Name      string
	Type      types.QualType
	Constants []*EnumConstantDecl
}

type EnumConstantDecl struct {
	Base
	Loc   source.Location
	Name  string
	Type  types.QualType
	Value int64
}

type TypedefDecl struct {
	Base
	Loc  source.Location
	Name string
	Type types.QualType
}

// CtorInitializer is one entry of a constructor's member initializer list.
// Member initializers name a field; base initializers name a base class.
type CtorInitializer struct {
	Base
	Member string
	IsBase bool
	Init   Expr
}

func (c *CtorInitializer) IsMemberInitializer() bool { return !c.IsBase }

func (*TranslationUnit) NodeType() NodeType  { return TRANSLATION_UNIT }
func (*FunctionDecl) NodeType() NodeType     { return FUNCTION_DECL }
func (*ParmVarDecl) NodeType() NodeType      { return PARM_VAR_DECL }
func (*VarDecl) NodeType() NodeType          { return VAR_DECL }
func (*RecordDecl) NodeType() NodeType       { return RECORD_DECL }
func (*EnumDecl) NodeType() NodeType         { return ENUM_DECL }
func (*EnumConstantDecl) NodeType() NodeType { return ENUM_CONSTANT_DECL }
func (*TypedefDecl) NodeType() NodeType      { return TYPEDEF_DECL }
func (*CtorInitializer) NodeType() NodeType  { return CTOR_INITIALIZER }

func (*TranslationUnit) isDecl()  {}
func (*FunctionDecl) isDecl()     {}
func (*ParmVarDecl) isDecl()      {}
func (*VarDecl) isDecl()          {}
func (*RecordDecl) isDecl()       {}
func (*EnumDecl) isDecl()         {}
func (*EnumConstantDecl) isDecl() {}
func (*TypedefDecl) isDecl()      {}
