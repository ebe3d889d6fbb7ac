package grammar

// TypeExpr is a C++ type as spelled in a dump, e.g. "const char *const *",
// "rtl::OUString &" or "com::sun::star::uno::Reference<XInterface>".
type TypeExpr struct {
	Leading     []string      `@Qualifier*`
	Name        *TypeName     `@@`
	Trailing    []string      `@Qualifier*`
	Declarators []*Declarator `@@*`
}

type TypeName struct {
	Global   bool           `@"::"?`
	Segments []*NameSegment `@@ ( "::" @@ )*`
}

// NameSegment holds one or more words so that multi-word builtins such as
// "unsigned long long" and elaborated names such as "struct Foo" parse.
type NameSegment struct {
	Words []string       `@Ident+`
	Args  []*TemplateArg `( "<" @@ ( "," @@ )* ">" )?`
}

type TemplateArg struct {
	Int  *string   `  @Int`
	Type *TypeExpr `| @@`
}

type Declarator struct {
	Pointer *PointerDeclarator `  @@`
	RRef    bool               `| @"&&"`
	LRef    bool               `| @"&"`
	Array   *ArrayDeclarator   `| @@`
}

type PointerDeclarator struct {
	Star  string   `@"*"`
	Quals []string `@Qualifier*`
}

type ArrayDeclarator struct {
	Size *string `"[" @Int? "]"`
}
