package parser

import (
	"fmt"
	"os"
	"path/filepath"

	"cxxlint/grammar"
	"cxxlint/internal/ast"
	"cxxlint/internal/source"
	"cxxlint/internal/types"
)

// ParseFile reads and lowers the dump at path. Relative source paths named
// in the dump are resolved against the dump's directory.
func ParseFile(path string) (*ParseResult, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	res := ParseSource(path, string(text))
	res.Sources.SetBaseDir(filepath.Dir(path))
	return res, nil
}

// ParseSource parses and lowers dump text. The result always carries a
// usable source manager and registry; Unit is nil when the dump has syntax
// errors.
func ParseSource(path string, text string) *ParseResult {
	res := &ParseResult{
		Sources: source.NewManager(),
		Types:   types.NewRegistry(),
	}

	dump, err := grammar.ParseString(path, text)
	if err != nil {
		pos, msg := grammar.ErrorPosition(err)
		if pos.Filename == "" {
			pos.Filename = path
		}
		res.Errors = append(res.Errors, ParseError{
			Message:  msg,
			Position: source.Position{Filename: pos.Filename, Line: pos.Line, Column: pos.Column},
		})
		return res
	}

	p := NewParser(path, res.Sources, res.Types)
	res.Unit = p.Lower(dump)
	res.Errors = append(res.Errors, p.errors...)
	if res.Unit != nil {
		res.MetadataVisitor = ast.NewMetadataVisitor()
		res.MetadataVisitor.AssignMetadata(res.Unit, nil)
	}
	return res
}
