package grammar

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dumpParser = participle.MustBuild[Dump](
		participle.Lexer(DumpLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.Unquote("String"),
		participle.UseLookahead(3),
	)

	typeParser = participle.MustBuild[TypeExpr](
		participle.Lexer(TypeLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(3),
	)
)

func ParseFile(path string) (*Dump, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseString(path, string(source))
}

func ParseString(filename, source string) (*Dump, error) {
	return dumpParser.ParseString(filename, source)
}

// ParseType parses a C++ type spelling such as "const int *".
func ParseType(spelling string) (*TypeExpr, error) {
	return typeParser.ParseString("", spelling)
}

// ErrorPosition extracts the position and bare message of a participle
// error. Other errors yield a zero position and their full text.
func ErrorPosition(err error) (lexer.Position, string) {
	var pe participle.Error
	if errors.As(err, &pe) {
		return pe.Position(), pe.Message()
	}
	return lexer.Position{}, err.Error()
}
