package errors

import "cxxlint/internal/source"

// DiagnosticBuilder provides a fluent interface for creating diagnostics.
type DiagnosticBuilder struct {
	d Diagnostic
}

// NewDiagnostic creates a builder for a diagnostic at pos.
func NewDiagnostic(level Level, code, message string, pos source.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		d: Diagnostic{
			Level:    level,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning creates a builder for a warning at pos.
func NewWarning(code, message string, pos source.Position) *DiagnosticBuilder {
	return NewDiagnostic(Warning, code, message, pos)
}

// WithCheck names the check that produced the diagnostic.
func (b *DiagnosticBuilder) WithCheck(check string) *DiagnosticBuilder {
	b.d.Check = check
	return b
}

// WithRange attaches the source range of the offending construct.
func (b *DiagnosticBuilder) WithRange(r source.Range) *DiagnosticBuilder {
	b.d.Range = r
	return b
}

// WithLength sets the length of the marked region.
func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	if length > 0 {
		b.d.Length = length
	}
	return b
}

// WithNote adds a note pointing at its own location.
func (b *DiagnosticBuilder) WithNote(code, message string, pos source.Position, length int) *DiagnosticBuilder {
	b.d.Notes = append(b.d.Notes, NoteInfo{Code: code, Message: message, Position: pos, Length: length})
	return b
}

// WithSuggestion adds a suggestion to the diagnostic.
func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.d.Suggestions = append(b.d.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement adds a suggestion with replacement text.
func (b *DiagnosticBuilder) WithReplacement(message, replacement string, pos source.Position, length int) *DiagnosticBuilder {
	b.d.Suggestions = append(b.d.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
		Position:    pos,
		Length:      length,
	})
	return b
}

// Build returns the completed diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.d
}

// MalformedDump reports a problem in the input dump.
func MalformedDump(message string, pos source.Position) Diagnostic {
	return NewDiagnostic(Error, ErrorMalformedDump, message, pos).Build()
}
