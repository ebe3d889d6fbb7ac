package parser

import (
	"fmt"

	"cxxlint/internal/ast"
	"cxxlint/internal/source"
	"cxxlint/internal/types"
)

// ParseError is a problem in a dump file, positioned in the dump itself.
type ParseError struct {
	Message  string
	Position source.Position
}

func (e ParseError) Error() string {
	if !e.Position.IsValid() {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Position, e.Message)
}

// ParseResult contains the lowered translation unit and everything the
// passes need to interpret it.
type ParseResult struct {
	Unit    *ast.TranslationUnit
	Sources *source.Manager
	Types   *types.Registry
	Errors  []ParseError

	MetadataVisitor *ast.MetadataVisitor
}

// HasErrors reports whether the dump had problems; such a unit is not
// analyzed.
func (pr *ParseResult) HasErrors() bool {
	return len(pr.Errors) > 0
}

// Err folds the parse errors into one error value, or nil.
func (pr *ParseResult) Err() error {
	switch len(pr.Errors) {
	case 0:
		return nil
	case 1:
		return pr.Errors[0]
	}
	return fmt.Errorf("%w (and %d more errors)", pr.Errors[0], len(pr.Errors)-1)
}

// GetDebugInfo returns debugging information about the parse result
func (pr *ParseResult) GetDebugInfo() string {
	if pr.MetadataVisitor == nil {
		return "No metadata available"
	}
	return pr.MetadataVisitor.PrintDebugInfo()
}
