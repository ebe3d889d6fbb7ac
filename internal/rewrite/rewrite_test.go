package rewrite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cxxlint/internal/source"
)

const castSource = "void f(void *p) {\n  int *q = reinterpret_cast<int *>(p);\n}\n"

func TestResolve(t *testing.T) {
	m := source.NewManager()
	m.SetBaseDir("/work")
	f := m.AddFile("src/a.cxx", 0)

	edit := ReplaceToken(source.FileLoc(f, 2, 12), "reinterpret_cast", "static_cast")
	assert.Equal(t, source.FileLoc(f, 2, 28), edit.Range.End)

	resolved, err := Resolve(m, []Edit{edit})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, FileEdit{
		Path:        "/work/src/a.cxx",
		Line:        2,
		Column:      12,
		Length:      16,
		Replacement: "static_cast",
		Expect:      "reinterpret_cast",
	}, resolved[0])
	assert.Equal(t, `/work/src/a.cxx:2:12: replace "reinterpret_cast" with "static_cast"`, resolved[0].String())
}

func TestResolveRejects(t *testing.T) {
	m := source.NewManager()
	f := m.AddFile("a.cxx", 0)

	_, err := Resolve(m, []Edit{{Range: source.Range{Begin: source.MacroLoc(1, 0), End: source.MacroLoc(1, 3)}}})
	assert.ErrorContains(t, err, "not in a file")

	_, err = Resolve(m, []Edit{{Range: source.Range{Begin: source.FileLoc(f, 1, 1), End: source.FileLoc(f, 2, 1)}}})
	assert.ErrorContains(t, err, "one line")
}

func TestApply(t *testing.T) {
	edits := []FileEdit{
		{Line: 2, Column: 12, Length: 16, Replacement: "static_cast", Expect: "reinterpret_cast"},
		{Line: 1, Column: 1, Length: 4, Replacement: "static void"},
	}
	out, skipped := Apply([]byte(castSource), edits)
	assert.Empty(t, skipped)
	assert.Equal(t, "static void f(void *p) {\n  int *q = static_cast<int *>(p);\n}\n", string(out))
}

func TestApplySkips(t *testing.T) {
	tests := []struct {
		name   string
		edit   FileEdit
		reason string
	}{
		{"line out of range", FileEdit{Line: 9, Column: 1, Length: 1}, "out of range"},
		{"past end of line", FileEdit{Line: 1, Column: 17, Length: 5}, "out of range"},
		{"stale text", FileEdit{Line: 2, Column: 12, Length: 11, Expect: "static_cast"}, "does not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, skipped := Apply([]byte(castSource), []FileEdit{tt.edit})
			require.Len(t, skipped, 1)
			assert.Contains(t, skipped[0].Reason, tt.reason)
			assert.Equal(t, castSource, string(out))
		})
	}
}

func TestApplyConflicts(t *testing.T) {
	edits := []FileEdit{
		{Line: 2, Column: 12, Length: 16, Replacement: "static_cast"},
		{Line: 2, Column: 20, Length: 4, Replacement: "xxxx"},
		{Line: 2, Column: 3, Length: 0, Replacement: "const "},
		{Line: 2, Column: 3, Length: 0, Replacement: "/**/"},
	}
	out, skipped := Apply([]byte(castSource), edits)
	require.Len(t, skipped, 1)
	assert.Equal(t, 20, skipped[0].Edit.Column)
	assert.Contains(t, string(out), "static_cast<int *>(p)")
}

func TestApplyIsIdempotentForStaleEdits(t *testing.T) {
	edit := FileEdit{Line: 2, Column: 12, Length: 16, Replacement: "static_cast", Expect: "reinterpret_cast"}
	once, skipped := Apply([]byte(castSource), []FileEdit{edit})
	require.Empty(t, skipped)
	twice, skipped := Apply(once, []FileEdit{edit})
	assert.Len(t, skipped, 1)
	assert.Equal(t, once, twice)
}

func TestApplyFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.cxx")
	require.NoError(t, os.WriteFile(path, []byte(castSource), 0o640))

	changes, skipped, err := ApplyFiles([]FileEdit{
		{Path: path, Line: 2, Column: 12, Length: 16, Replacement: "static_cast", Expect: "reinterpret_cast"},
	})
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, []FileChange{{Path: path, EditCount: 1}}, changes)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "static_cast<int *>(p)")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	_, _, err = ApplyFiles(nil)
	assert.ErrorIs(t, err, ErrNoEdits)

	_, _, err = ApplyFiles([]FileEdit{{Path: filepath.Join(dir, "missing.cxx"), Line: 1, Column: 1}})
	assert.ErrorContains(t, err, "read")
}
