package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cxxlint/internal/ast"
	"cxxlint/internal/source"
	"cxxlint/internal/types"
)

func parseOK(t *testing.T, text string) *ParseResult {
	t.Helper()
	res := ParseSource("test.cxxast", text)
	require.Empty(t, res.Errors, "unexpected parse errors")
	require.NotNil(t, res.Unit)
	return res
}

func firstFunction(t *testing.T, tu *ast.TranslationUnit) *ast.FunctionDecl {
	t.Helper()
	for _, d := range tu.Decls {
		if fn, ok := d.(*ast.FunctionDecl); ok {
			return fn
		}
	}
	t.Fatal("no function in translation unit")
	return nil
}

const constCastDump = `
(translation-unit file="main.cxx" lang=c++
  (function name="f" type="void" loc=<1:6>
    (param name="p" type="const int *" loc=<1:20>)
    (compound
      (decl-stmt
        (var name="q" type="int *" loc=<2:8>
          (const-cast written="int *" loc=<2:12> begin=<2:12> end=<2:34>
            (implicit-cast kind=LValueToRValue
              (decl-ref name="p" loc=<2:33>)))))
      (decl-stmt
        (var name="r" type="const int *" loc=<3:14>
          (implicit-cast kind=NoOp type="const int *"
            (implicit-cast kind=LValueToRValue
              (decl-ref name="q" loc=<3:18>))))))))
`

func TestParseSourceLowersFunction(t *testing.T) {
	res := parseOK(t, constCastDump)
	tu := res.Unit

	assert.True(t, tu.CPlusPlus)
	main, ok := res.Sources.File(tu.MainFile)
	require.True(t, ok)
	assert.Equal(t, "main.cxx", main.Path)

	fn := firstFunction(t, tu)
	assert.Equal(t, "f", fn.Name)
	assert.Equal(t, ast.FREE_FUNCTION, fn.Kind)
	assert.Same(t, fn, fn.CanonicalDecl())
	require.Len(t, fn.Params, 1)
	param := fn.Params[0]
	assert.Equal(t, "const int *", param.Type.String())
	assert.Equal(t, source.FileLoc(tu.MainFile, 1, 20), param.Loc)

	require.True(t, fn.HasBody())
	require.Len(t, fn.Body.Stmts, 2)
	q := fn.Body.Stmts[0].(*ast.DeclStmt).Decls[0]
	cast, ok := q.Init.(*ast.ExplicitCastExpr)
	require.True(t, ok)
	assert.Equal(t, ast.CONST_CAST, cast.Style)
	assert.Equal(t, ast.CK_NO_OP, cast.Kind)
	assert.Equal(t, "int *", cast.ExprType().String())
	assert.Equal(t, ast.PRVALUE, cast.ValueKind())
	assert.Equal(t, source.FileLoc(tu.MainFile, 2, 34), cast.End)

	load := cast.Sub.(*ast.ImplicitCastExpr)
	assert.Equal(t, "const int *", load.ExprType().String())
	ref := load.Sub.(*ast.DeclRefExpr)
	assert.Same(t, param, ref.Decl)
	assert.Equal(t, ast.LVALUE, ref.ValueKind())

	r := fn.Body.Stmts[1].(*ast.DeclStmt).Decls[0]
	noop := r.Init.(*ast.ImplicitCastExpr)
	inner := noop.Sub.(*ast.ImplicitCastExpr).Sub.(*ast.DeclRefExpr)
	assert.Same(t, q, inner.Decl)

	// parent links are filled for the whole tree
	assert.Same(t, fn, ast.Parent(param))
	assert.Same(t, q, ast.Parent(cast))
	assert.Contains(t, res.GetDebugInfo(), "EXPLICIT_CAST_EXPR")
}

func TestParseSourceErrors(t *testing.T) {
	tests := []struct {
		name string
		dump string
		want string
	}{
		{
			name: "syntax error",
			dump: `(translation-unit (function name=)`,
		},
		{
			name: "unknown attribute",
			dump: `(translation-unit file="m.cxx" (function name="f" type="void" color=red))`,
			want: `unknown attribute "color" on function`,
		},
		{
			name: "unknown top-level form",
			dump: `(translation-unit file="m.cxx" (namespace name="n"))`,
			want: `unknown top-level form "namespace"`,
		},
		{
			name: "unresolved name",
			dump: `(translation-unit file="m.cxx"
			  (function name="f" type="void" (compound (decl-ref name="nope"))))`,
			want: `unresolved name "nope"`,
		},
		{
			name: "unknown type",
			dump: `(translation-unit file="m.cxx" (var name="x" type="Widget"))`,
			want: `unknown type name "Widget"`,
		},
		{
			name: "type cannot be inferred",
			dump: `(translation-unit file="m.cxx"
			  (var name="x" type="int")
			  (function name="f" type="void"
			    (compound (implicit-cast kind=NoOp (decl-ref name="x")))))`,
			want: "cannot infer the type of implicit-cast",
		},
		{
			name: "for needs four parts",
			dump: `(translation-unit file="m.cxx"
			  (function name="f" type="void" (compound (for (null) (null) (null)))))`,
			want: "for takes exactly four parts",
		},
		{
			name: "more than one translation unit",
			dump: `(translation-unit file="a.cxx") (translation-unit file="b.cxx")`,
			want: "exactly one translation-unit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseSource("bad.cxxast", tt.dump)
			require.Len(t, res.Errors, 1, "errors: %v", res.Errors)
			assert.True(t, res.HasErrors())
			assert.Error(t, res.Err())

			e := res.Errors[0]
			assert.Equal(t, "bad.cxxast", e.Position.Filename)
			assert.GreaterOrEqual(t, e.Position.Line, 1)
			if tt.want != "" {
				assert.Contains(t, e.Message, tt.want)
			}
		})
	}
}

func TestParseSourceSyntaxErrorHasNoUnit(t *testing.T) {
	res := ParseSource("bad.cxxast", "(translation-unit (function name=)")
	assert.Nil(t, res.Unit)
	assert.NotNil(t, res.Sources)
	assert.Equal(t, "No metadata available", res.GetDebugInfo())
}

func TestParseSourceMacroExpansions(t *testing.T) {
	res := parseOK(t, `
(translation-unit file="main.cxx"
  (file path="/usr/include/winsock2.h" system)
  (file path="ext/lib.h" third-party)
  (expansion id=1 kind=body macro="FD_SET" spelling=<"/usr/include/winsock2.h":120:9> caller=<10:3>)
  (function name="g" type="void" loc=<10:1>
    (compound
      (binary op="," loc=<#1+4> begin=<#1> end=<#1+9>
        (integer-literal value=0 loc=<#1+1>)
        (integer-literal value=0 loc=<#1+6>)))))
`)
	sm := res.Sources

	winsock, ok := sm.Lookup("/usr/include/winsock2.h")
	require.True(t, ok)
	f, _ := sm.File(winsock)
	assert.Equal(t, source.FileSystem, f.Flags)
	lib, ok := sm.Lookup("ext/lib.h")
	require.True(t, ok)
	f, _ = sm.File(lib)
	assert.Equal(t, source.FileThirdParty, f.Flags)

	comma := firstFunction(t, res.Unit).Body.Stmts[0].(*ast.BinaryOperator)
	assert.Equal(t, ast.BO_COMMA, comma.Op)
	assert.Equal(t, "int", comma.ExprType().String())
	assert.Equal(t, ast.PRVALUE, comma.ValueKind())

	loc := comma.OperatorLoc()
	assert.True(t, loc.IsMacroID())
	assert.True(t, sm.IsMacroBodyExpansion(loc))
	assert.True(t, sm.IsMacroBodyExpansion(comma.Begin))
	assert.True(t, sm.IsInSystemHeader(sm.SpellingLoc(loc)))
	assert.Equal(t, "FD_SET", sm.ImmediateMacroName(loc))
}

func TestParseSourceUnknownExpansion(t *testing.T) {
	res := ParseSource("bad.cxxast", `
(translation-unit file="main.cxx"
  (expansion id=1 kind=arg macro="M" spelling=<1:1> caller=<#7>))
`)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Message, "unknown expansion #7")
}

func TestParseSourceStatements(t *testing.T) {
	res := parseOK(t, `
(translation-unit file="main.cxx"
  (var name="i" type="int")
  (function name="loop" type="int"
    (compound
      (for
        (binary op="=" (decl-ref name="i") (integer-literal value=0))
        (binary op="<" (implicit-cast kind=LValueToRValue (decl-ref name="i")) (integer-literal value=10))
        (null)
        (null))
      (if (bool-literal value=true)
        (return (integer-literal value=1))
        (return (integer-literal value=2)))
      (while (bool-literal value=false) (null))
      (do (compound) (bool-literal value=false)))))
`)
	fn := firstFunction(t, res.Unit)
	require.Len(t, fn.Body.Stmts, 4)

	loop := fn.Body.Stmts[0].(*ast.ForStmt)
	init := loop.Init.(*ast.BinaryOperator)
	assert.Equal(t, ast.BO_ASSIGN, init.Op)
	assert.Equal(t, ast.LVALUE, init.ValueKind())
	assert.Equal(t, "bool", loop.Cond.ExprType().String())
	assert.Nil(t, loop.Inc)
	assert.IsType(t, &ast.NullStmt{}, loop.Body)

	ifStmt := fn.Body.Stmts[1].(*ast.IfStmt)
	assert.NotNil(t, ifStmt.Else)
	ret := ifStmt.Then.(*ast.ReturnStmt)
	assert.Equal(t, "1", ret.Value.String())

	assert.IsType(t, &ast.WhileStmt{}, fn.Body.Stmts[2])
	assert.IsType(t, &ast.DoStmt{}, fn.Body.Stmts[3])

	// the init expression belongs to the for statement
	assert.Same(t, loop, ast.ParentStmt(init))
}

func TestParseSourceRedeclarations(t *testing.T) {
	res := parseOK(t, `
(translation-unit file="main.cxx"
  (function name="h" type="void" loc=<1:6> (param name="a" type="int"))
  (function name="h" type="void" loc=<5:6> (param name="b" type="int") (compound))
  (function name="h" type="void" loc=<9:6> (param name="c" type="long") (compound)))
`)
	require.Len(t, res.Unit.Decls, 3)
	first := res.Unit.Decls[0].(*ast.FunctionDecl)
	second := res.Unit.Decls[1].(*ast.FunctionDecl)
	overload := res.Unit.Decls[2].(*ast.FunctionDecl)

	assert.False(t, first.HasBody())
	assert.True(t, second.HasBody())
	assert.Same(t, first, second.CanonicalDecl())
	assert.Same(t, overload, overload.CanonicalDecl())
}

func TestParseSourceConstructorWithMove(t *testing.T) {
	res := parseOK(t, `
(translation-unit file="main.cxx"
  (record name="S" size=128)
  (constructor name="C::C" loc=<3:1>
    (param name="s" type="S" loc=<3:5>)
    (ctor-init member="m"
      (construct type="S" ctor="S::S"
        (call callee="std::move" type="S" vk=xvalue
          (decl-ref name="s"))))
    (compound)))
`)
	fn := firstFunction(t, res.Unit)
	assert.Equal(t, ast.CONSTRUCTOR, fn.Kind)
	assert.Equal(t, "C", fn.Class)
	assert.Equal(t, "C", fn.Name)
	assert.True(t, fn.HasBody())

	require.Len(t, fn.Inits, 1)
	init := fn.Inits[0]
	assert.True(t, init.IsMemberInitializer())
	assert.Equal(t, "m", init.Member)

	ctor := init.Init.(*ast.ConstructExpr)
	require.Len(t, ctor.Args, 1)
	call := ctor.Args[0].(*ast.CallExpr)
	require.NotNil(t, call.Callee)
	assert.Equal(t, "std::move", call.Callee.QualifiedName)
	assert.Equal(t, "move", call.Callee.Name)
	assert.Equal(t, ast.XVALUE, call.ValueKind())
	assert.Same(t, fn.Params[0], call.Args[0].(*ast.DeclRefExpr).Decl)

	assert.Same(t, fn, ast.EnclosingFunction(call))
}

func TestParseSourceTypes(t *testing.T) {
	res := parseOK(t, `
(translation-unit file="main.cxx"
  (enum name="Color" (enumerator name="RED") (enumerator name="GREEN" value=5) (enumerator name="BLUE"))
  (typedef name="Int32" type="int")
  (record name="Fwd" incomplete)
  (var name="c" type="Color" (decl-ref name="RED"))
  (var name="n" type="Int32" (integer-literal value=3)))
`)
	decls := res.Unit.Decls
	require.Len(t, decls, 5)

	enum := decls[0].(*ast.EnumDecl)
	require.Len(t, enum.Constants, 3)
	assert.Equal(t, int64(0), enum.Constants[0].Value)
	assert.Equal(t, int64(5), enum.Constants[1].Value)
	assert.Equal(t, int64(6), enum.Constants[2].Value)

	td := decls[1].(*ast.TypedefDecl)
	assert.True(t, types.IsTypedef(td.Type))
	assert.True(t, types.IsIncomplete(decls[2].(*ast.RecordDecl).Type))

	c := decls[3].(*ast.VarDecl)
	assert.True(t, types.IsEnum(c.Type))
	ref := c.Init.(*ast.DeclRefExpr)
	assert.Same(t, enum.Constants[0], ref.Decl)
	assert.Equal(t, ast.PRVALUE, ref.ValueKind())
	assert.True(t, types.SameType(c.Type, ref.ExprType()))

	n := decls[4].(*ast.VarDecl)
	assert.Equal(t, "Int32", n.Type.String())
	assert.True(t, types.SameType(n.Type, res.Types.Q(types.Int)))
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unit.cxxast")
	require.NoError(t, os.WriteFile(path, []byte(constCastDump), 0o600))

	res, err := ParseFile(path)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.NotNil(t, res.Unit)

	_, err = ParseFile(filepath.Join(dir, "missing.cxxast"))
	assert.Error(t, err)
}
