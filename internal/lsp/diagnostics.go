package lsp

import (
	"fmt"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"cxxlint/internal/driver"
	"cxxlint/internal/errors"
	"cxxlint/internal/source"
)

const diagnosticSource = "cxxlint"

// ConvertResult groups the diagnostics of an analyzed dump by the document
// they point into. Relative source paths are resolved against the dump's
// directory. The dump's own document is always present, so publishing the
// result clears problems that were fixed.
func ConvertResult(r *driver.FileResult) map[protocol.DocumentUri][]protocol.Diagnostic {
	dumpURI := pathToURI(r.Path)
	out := map[protocol.DocumentUri][]protocol.Diagnostic{dumpURI: {}}
	uriFor := func(pos source.Position) protocol.DocumentUri {
		if pos.Filename == "" || pos.Filename == r.Path {
			return dumpURI
		}
		return pathToURI(resolve(r.Path, pos.Filename))
	}

	for _, d := range r.Diagnostics {
		uri := uriFor(d.Position)
		out[uri] = append(out[uri], ConvertDiagnostic(d, uriFor))
	}
	if r.Err != nil {
		out[dumpURI] = append(out[dumpURI], protocol.Diagnostic{
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString(diagnosticSource),
			Message:  r.Err.Error(),
		})
	}
	return out
}

// ConvertDiagnostic turns one diagnostic into its LSP form. Notes become
// related information located through uriFor.
func ConvertDiagnostic(d errors.Diagnostic, uriFor func(source.Position) protocol.DocumentUri) protocol.Diagnostic {
	msg := d.Message
	for _, s := range d.Suggestions {
		msg += "\nhelp: " + s.Message
	}
	pd := protocol.Diagnostic{
		Range:    toRange(d.Position, d.Length),
		Severity: ptrSeverity(severity(d.Level)),
		Source:   ptrString(diagnosticSource),
		Message:  msg,
	}
	if d.Code != "" {
		pd.Code = &protocol.IntegerOrString{Value: d.Code}
	}
	for _, n := range d.Notes {
		pd.RelatedInformation = append(pd.RelatedInformation, protocol.DiagnosticRelatedInformation{
			Location: protocol.Location{URI: uriFor(n.Position), Range: toRange(n.Position, n.Length)},
			Message:  strings.TrimSuffix(n.Message, ":"),
		})
	}
	return pd
}

func severity(l errors.Level) protocol.DiagnosticSeverity {
	switch l {
	case errors.Error:
		return protocol.DiagnosticSeverityError
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note:
		return protocol.DiagnosticSeverityInformation
	}
	return protocol.DiagnosticSeverityHint
}

// toRange converts a 1-based position to a 0-based range length columns
// wide, at least one.
func toRange(pos source.Position, length int) protocol.Range {
	line, err := safecast.Conv[uint32](pos.Line - 1)
	if err != nil {
		line = 0
	}
	col, err := safecast.Conv[uint32](pos.Column - 1)
	if err != nil {
		col = 0
	}
	width, err := safecast.Conv[uint32](max(length, 1))
	if err != nil {
		width = 1
	}
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: col},
		End:   protocol.Position{Line: line, Character: col + width},
	}
}

func resolve(dumpPath, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(filepath.Dir(dumpPath), filepath.FromSlash(name))
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}

func describe(uri protocol.DocumentUri, diags []protocol.Diagnostic) string {
	return fmt.Sprintf("%s: %d diagnostics", uri, len(diags))
}
