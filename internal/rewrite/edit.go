package rewrite

import (
	"errors"
	"fmt"

	"cxxlint/internal/source"
)

// ErrNoEdits is returned when there is nothing to apply.
var ErrNoEdits = errors.New("no edits to apply")

// Edit replaces the text of a half-open range of one file: Range.Begin is
// the first replaced character, Range.End the first character kept. Expect,
// when set, is the text the range must hold for the edit to apply.
type Edit struct {
	Range       source.Range
	Replacement string
	Expect      string
}

// ReplaceToken builds an edit replacing the token old spelled at loc.
func ReplaceToken(loc source.Location, old, replacement string) Edit {
	return Edit{
		Range:       source.Range{Begin: loc, End: loc.Shift(len(old))},
		Replacement: replacement,
		Expect:      old,
	}
}

// FileEdit is an edit resolved to a path and a 1-based line and byte
// column. Edits never span lines.
type FileEdit struct {
	Path        string `json:"path" msgpack:"path"`
	Line        int    `json:"line" msgpack:"line"`
	Column      int    `json:"column" msgpack:"column"`
	Length      int    `json:"length" msgpack:"length"`
	Replacement string `json:"replacement" msgpack:"replacement"`
	Expect      string `json:"expect,omitempty" msgpack:"expect"`
}

func (e FileEdit) String() string {
	if e.Expect != "" {
		return fmt.Sprintf("%s:%d:%d: replace %q with %q", e.Path, e.Line, e.Column, e.Expect, e.Replacement)
	}
	return fmt.Sprintf("%s:%d:%d: replace %d bytes with %q", e.Path, e.Line, e.Column, e.Length, e.Replacement)
}

// Resolve turns edits into file edits using the file table of their
// translation unit. Paths are the ones files are read from.
func Resolve(m *source.Manager, edits []Edit) ([]FileEdit, error) {
	out := make([]FileEdit, 0, len(edits))
	for _, e := range edits {
		b, end := e.Range.Begin, e.Range.End
		if !b.IsFileID() || !end.IsFileID() {
			return nil, fmt.Errorf("edit at %s is not in a file", b)
		}
		if b.File != end.File || b.Line != end.Line || end.Column < b.Column {
			return nil, fmt.Errorf("edit at %s must stay within one line", m.Position(b))
		}
		out = append(out, FileEdit{
			Path:        m.ResolvePath(b.File),
			Line:        b.Line,
			Column:      b.Column,
			Length:      end.Column - b.Column,
			Replacement: e.Replacement,
			Expect:      e.Expect,
		})
	}
	return out, nil
}
