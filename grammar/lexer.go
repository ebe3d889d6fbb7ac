package grammar

import (
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"
)

var DumpLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments
	{Name: "Comment", Pattern: `;[^\n]*`},

	// Literals
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Int", Pattern: `[0-9]+`},

	// Heads, keys and bare values; "c++" is a valid identifier here
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_\-]*(?:\+\+)?`},

	// Punctuation
	{Name: "Punct", Pattern: `[()=<>#:+]`},

	// Whitespace
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

var TypeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Qualifier", Pattern: `\b(?:const|volatile)\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `::|&&|[*&<>,\[\]]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

func lexerInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
