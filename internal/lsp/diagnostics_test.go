package lsp

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"cxxlint/internal/driver"
	"cxxlint/internal/errors"
	"cxxlint/internal/source"
)

func TestConvertResult(t *testing.T) {
	res := &driver.FileResult{
		Path: "/work/dumps/a.cxxast",
		Diagnostics: []errors.Diagnostic{
			{
				Level:    errors.Warning,
				Code:     errors.WarningPassByValue,
				Message:  "passing 'S' by value, rather pass by const lvalue reference",
				Position: source.Position{Filename: "src/main.cxx", Line: 3, Column: 5},
				Length:   4,
				Notes: []errors.NoteInfo{{
					Message:  "function is declared here:",
					Position: source.Position{Filename: "src/main.h", Line: 1, Column: 6},
				}},
				Suggestions: []errors.Suggestion{{Message: "take 'const S &'"}},
			},
			errors.MalformedDump("unknown attribute", source.Position{Filename: "/work/dumps/a.cxxast", Line: 7, Column: 2}),
		},
		Err: stderrors.New("stale edit"),
	}

	got := ConvertResult(res)
	require.Len(t, got, 2)

	dump := got["file:///work/dumps/a.cxxast"]
	require.Len(t, dump, 2)
	assert.Equal(t, "unknown attribute", dump[0].Message)
	assert.Equal(t, protocol.DiagnosticSeverityError, *dump[0].Severity)
	assert.Equal(t, protocol.Position{Line: 6, Character: 1}, dump[0].Range.Start)
	assert.Equal(t, "stale edit", dump[1].Message)

	src := got["file:///work/dumps/src/main.cxx"]
	require.Len(t, src, 1)
	d := src[0]
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 2, Character: 4},
		End:   protocol.Position{Line: 2, Character: 8},
	}, d.Range)
	assert.Equal(t, "passing 'S' by value, rather pass by const lvalue reference\nhelp: take 'const S &'", d.Message)
	require.Len(t, d.RelatedInformation, 1)
	rel := d.RelatedInformation[0]
	assert.Equal(t, "file:///work/dumps/src/main.h", rel.Location.URI)
	assert.Equal(t, "function is declared here", rel.Message)
	assert.Equal(t, protocol.Position{Line: 0, Character: 6}, rel.Location.Range.End)
}

func TestConvertResultWithoutFindings(t *testing.T) {
	got := ConvertResult(&driver.FileResult{Path: "/a.cxxast"})
	assert.Equal(t, map[protocol.DocumentUri][]protocol.Diagnostic{"file:///a.cxxast": {}}, got)
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, protocol.DiagnosticSeverityInformation, severity(errors.Note))
	assert.Equal(t, protocol.DiagnosticSeverityHint, severity(errors.Help))
}

func TestApplyChange(t *testing.T) {
	text := "ab\ncd\n"
	r := &protocol.Range{
		Start: protocol.Position{Line: 1, Character: 1},
		End:   protocol.Position{Line: 1, Character: 2},
	}
	assert.Equal(t, "ab\ncX\n", applyChange(text, r, "X"))
	assert.Equal(t, "new", applyChange(text, nil, "new"))

	// past the end of a line clamps to it
	r = &protocol.Range{
		Start: protocol.Position{Line: 0, Character: 9},
		End:   protocol.Position{Line: 0, Character: 9},
	}
	assert.Equal(t, "ab!\ncd\n", applyChange(text, r, "!"))
}

func TestOffsetOfCountsUTF16(t *testing.T) {
	text := "é\U0001D11Ex"
	assert.Equal(t, 6, offsetOf(text, protocol.Position{Line: 0, Character: 3}))
	assert.Equal(t, len(text), offsetOf(text, protocol.Position{Line: 4}))
}

func TestURIRoundTrip(t *testing.T) {
	uri := pathToURI("/tmp/with space/a.cxxast")
	assert.Equal(t, "file:///tmp/with%20space/a.cxxast", uri)
	path, err := uriToPath(uri)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/with space/a.cxxast", path)
}
