package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cxxlint/internal/source"
)

// Level is the severity of a diagnostic.
type Level string

const (
	Error   Level = "error"
	Warning Level = "warning"
	Note    Level = "note"
	Help    Level = "help"
)

// Diagnostic is one finding of a check, or a problem with the input.
type Diagnostic struct {
	Level   Level  `json:"level" msgpack:"level"`
	Code    string `json:"code" msgpack:"code"`
	Check   string `json:"check,omitempty" msgpack:"check"`
	Message string `json:"message" msgpack:"message"`

	// Range is the highlighted source range in translation unit terms;
	// Position is where the diagnostic points, as a user sees it.
	Range    source.Range    `json:"-" msgpack:"-"`
	Position source.Position `json:"position" msgpack:"position"`
	Length   int             `json:"length" msgpack:"length"`

	Notes       []NoteInfo   `json:"notes,omitempty" msgpack:"notes"`
	Suggestions []Suggestion `json:"suggestions,omitempty" msgpack:"suggestions"`
}

// NoteInfo is a secondary message with its own location.
type NoteInfo struct {
	Code     string          `json:"code,omitempty" msgpack:"code"`
	Message  string          `json:"message" msgpack:"message"`
	Position source.Position `json:"position" msgpack:"position"`
	Length   int             `json:"length,omitempty" msgpack:"length"`
}

// Suggestion represents a suggested fix.
type Suggestion struct {
	Message     string          `json:"message" msgpack:"message"`
	Replacement string          `json:"replacement,omitempty" msgpack:"replacement"`
	Position    source.Position `json:"position,omitempty" msgpack:"position"`
	Length      int             `json:"length,omitempty" msgpack:"length"`
}

func (d Diagnostic) Error() string {
	if d.Code != "" {
		return fmt.Sprintf("%s: %s[%s]: %s", d.Position, d.Level, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Position, d.Level, d.Message)
}

// LineSource supplies the text of source lines for rendering.
type LineSource interface {
	SourceLine(filename string, line int) (string, bool)
}

// StaticSource serves lines from in-memory file contents.
type StaticSource map[string]string

func (s StaticSource) SourceLine(filename string, line int) (string, bool) {
	text, ok := s[filename]
	if !ok {
		return "", false
	}
	lines := strings.Split(text, "\n")
	if line < 1 || line > len(lines) {
		return "", false
	}
	return lines[line-1], true
}

// Reporter renders diagnostics in a compiler-like layout with the source
// line and a caret marker.
type Reporter struct {
	source     LineSource
	tabWidth   int
	showChecks bool
}

// NewReporter creates a reporter. A nil source renders without source
// excerpts.
func NewReporter(src LineSource) *Reporter {
	return &Reporter{source: src, tabWidth: 4, showChecks: true}
}

// ShowChecks toggles the trailing [check] tag of the header line.
func (r *Reporter) ShowChecks(on bool) *Reporter {
	r.showChecks = on
	return r
}

// FormatDiagnostic formats one diagnostic and its notes.
func (r *Reporter) FormatDiagnostic(d Diagnostic) string {
	var result strings.Builder

	levelColor := levelColor(d.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	// warning[W1001]: message [check]
	header := levelColor(string(d.Level))
	if d.Code != "" {
		header = fmt.Sprintf("%s[%s]", header, d.Code)
	}
	result.WriteString(fmt.Sprintf("%s: %s", header, bold(d.Message)))
	if r.showChecks && d.Check != "" {
		result.WriteString(" " + dim("["+d.Check+"]"))
	}
	result.WriteString("\n")

	width := lineNumberWidth(d.Position.Line)
	for _, n := range d.Notes {
		width = max(width, lineNumberWidth(n.Position.Line))
	}
	indent := strings.Repeat(" ", width)

	r.writeExcerpt(&result, d.Position, d.Length, d.Level, width)

	for _, s := range d.Suggestions {
		help := color.New(color.FgCyan).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("="), help("help:"), s.Message))
		if s.Replacement != "" {
			result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), help(s.Replacement)))
		}
	}

	for _, n := range d.Notes {
		noteColor := color.New(color.FgBlue, color.Bold).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("="), noteColor("note:"), n.Message))
		r.writeExcerpt(&result, n.Position, n.Length, Note, width)
	}

	result.WriteString("\n")
	return result.String()
}

func (r *Reporter) writeExcerpt(b *strings.Builder, pos source.Position, length int, level Level, width int) {
	if !pos.IsValid() {
		return
	}
	dim := color.New(color.Faint).SprintFunc()
	indent := strings.Repeat(" ", width)

	b.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("-->"), pos))
	if r.source == nil {
		return
	}
	line, ok := r.source.SourceLine(pos.Filename, pos.Line)
	if !ok {
		return
	}
	line = strings.TrimRight(line, "\r")
	b.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))
	b.WriteString(fmt.Sprintf("%s %s %s\n",
		dim(fmt.Sprintf("%*d", width, pos.Line)), dim("│"), r.expandTabs(line)))
	b.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), r.marker(line, pos.Column, length, level)))
}

// marker underlines length bytes starting at the 1-based byte column,
// measuring the prefix in display cells so that tabs and wide characters
// line up.
func (r *Reporter) marker(line string, column, length int, level Level) string {
	if length <= 0 {
		length = 1
	}
	start := min(max(column-1, 0), len(line))
	end := min(start+length, len(line))

	pad := r.displayWidth(line[:start])
	cells := r.displayWidth(line[start:end])
	if cells == 0 {
		cells = 1
	}
	return strings.Repeat(" ", pad) + levelColor(level)(strings.Repeat("^", cells))
}

func (r *Reporter) expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", r.tabWidth))
}

func (r *Reporter) displayWidth(s string) int {
	w := 0
	for _, c := range s {
		if c == '\t' {
			w += r.tabWidth
			continue
		}
		w += runewidth.RuneWidth(c)
	}
	return w
}

// FormatAll formats diagnostics in the order given, followed by a summary
// line.
func (r *Reporter) FormatAll(diags []Diagnostic) string {
	var b strings.Builder
	for _, d := range diags {
		b.WriteString(r.FormatDiagnostic(d))
	}
	if s := Summary(diags); s != "" {
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String()
}

// Summary counts diagnostics per level, e.g. "2 warnings, 1 error".
func Summary(diags []Diagnostic) string {
	counts := make(map[Level]int)
	for _, d := range diags {
		counts[d.Level]++
	}
	var parts []string
	for _, level := range []Level{Error, Warning} {
		n := counts[level]
		if n == 0 {
			continue
		}
		word := string(level)
		if n > 1 {
			word += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, word))
	}
	return strings.Join(parts, ", ")
}

// Sort orders diagnostics by file, line and column, keeping the relative
// order of diagnostics at the same position.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Position, diags[j].Position
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

func levelColor(level Level) func(...interface{}) string {
	switch level {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// lineNumberWidth calculates the width needed for line numbers
func lineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3 // minimum width for visual alignment
	}
	return width
}
