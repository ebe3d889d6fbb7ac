package rewrite

import (
	"bytes"
	"fmt"
	"os"
	"sort"
)

// SkippedEdit records an edit that could not be applied.
type SkippedEdit struct {
	Edit   FileEdit
	Reason string
}

// FileChange summarises the modifications of one file.
type FileChange struct {
	Path      string
	EditCount int
}

type span struct {
	start, end int
	edit       FileEdit
}

// Apply applies edits to content. Edits that fall outside the content,
// whose expected text does not match, or that overlap an earlier edit are
// skipped.
func Apply(content []byte, edits []FileEdit) ([]byte, []SkippedEdit) {
	lineStarts := []int{0}
	for i, c := range content {
		if c == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}

	var spans []span
	var skipped []SkippedEdit
	for _, e := range edits {
		if e.Line < 1 || e.Line > len(lineStarts) || e.Column < 1 || e.Length < 0 {
			skipped = append(skipped, SkippedEdit{Edit: e, Reason: "edit span out of range"})
			continue
		}
		start := lineStarts[e.Line-1] + e.Column - 1
		end := start + e.Length
		lineEnd := len(content)
		if e.Line < len(lineStarts) {
			lineEnd = lineStarts[e.Line] - 1
		}
		if end > lineEnd {
			skipped = append(skipped, SkippedEdit{Edit: e, Reason: "edit span out of range"})
			continue
		}
		if e.Expect != "" && !bytes.Equal(content[start:end], []byte(e.Expect)) {
			skipped = append(skipped, SkippedEdit{Edit: e, Reason: "existing text does not match expected content"})
			continue
		}
		if conflicts(spans, start, end) {
			skipped = append(skipped, SkippedEdit{Edit: e, Reason: "conflicts with a previous edit"})
			continue
		}
		spans = append(spans, span{start: start, end: end, edit: e})
	}

	// apply back to front so earlier offsets stay valid
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start > spans[j].start })
	out := append([]byte(nil), content...)
	for _, s := range spans {
		suffix := append([]byte(nil), out[s.end:]...)
		out = append(append(out[:s.start], s.edit.Replacement...), suffix...)
	}
	return out, skipped
}

// conflicts treats spans as half-open intervals; two insertions at the same
// point do not conflict.
func conflicts(spans []span, start, end int) bool {
	for _, s := range spans {
		if s.start == s.end && start == end {
			continue
		}
		if s.start == s.end {
			if start <= s.start && s.start < end {
				return true
			}
			continue
		}
		if start == end {
			if s.start <= start && start < s.end {
				return true
			}
			continue
		}
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

// ApplyFiles applies edits to the files they name, keeping file modes.
func ApplyFiles(edits []FileEdit) ([]FileChange, []SkippedEdit, error) {
	if len(edits) == 0 {
		return nil, nil, ErrNoEdits
	}
	byPath := make(map[string][]FileEdit)
	var paths []string
	for _, e := range edits {
		if _, ok := byPath[e.Path]; !ok {
			paths = append(paths, e.Path)
		}
		byPath[e.Path] = append(byPath[e.Path], e)
	}
	sort.Strings(paths)

	var changes []FileChange
	var skipped []SkippedEdit
	for _, path := range paths {
		fileEdits := byPath[path]
		content, err := os.ReadFile(path) // #nosec G304 -- paths come from the analyzed dump
		if err != nil {
			return changes, skipped, fmt.Errorf("read %s: %w", path, err)
		}
		updated, s := Apply(content, fileEdits)
		skipped = append(skipped, s...)
		applied := len(fileEdits) - len(s)
		if applied == 0 {
			continue
		}

		mode := os.FileMode(0o644)
		if info, err := os.Stat(path); err == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(path, updated, mode); err != nil {
			return changes, skipped, fmt.Errorf("write %s: %w", path, err)
		}
		changes = append(changes, FileChange{Path: path, EditCount: applied})
	}
	return changes, skipped, nil
}
