package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cxxlint/internal/config"
	"cxxlint/internal/errors"
)

const commaDump = `
(translation-unit file="main.cxx"
  (var name="a" type="int")
  (function name="f" type="void" loc=<1:6>
    (compound
      (binary op="," loc=<2:4> begin=<2:3> end=<2:6>
        (decl-ref name="a" loc=<2:3>)
        (decl-ref name="a" loc=<2:6>)))))
`

const reinterpretDump = `
(translation-unit file="main.cxx"
  (function name="get" type="void *" loc=<1:7>)
  (function name="f" type="int *" loc=<2:6>
    (compound
      (return loc=<3:3>
        (reinterpret-cast written="int *" kind=BitCast loc=<3:10> begin=<3:10> end=<3:39>
          (call callee="get" loc=<3:34>))))))
`

const reinterpretSource = "void *get();\nint *f() {\n  return reinterpret_cast<int *>(get());\n}\n"

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(text), 0o600))
	return p
}

func codes(diags []errors.Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestAnalyzeSource(t *testing.T) {
	res := AnalyzeSource("dumps/a.cxxast", commaDump, nil)

	require.NoError(t, res.Err)
	assert.False(t, res.Malformed())
	assert.Equal(t, []string{errors.WarningCommaOperator}, codes(res.Diagnostics))
	assert.Equal(t, "main.cxx:2:4", res.Diagnostics[0].Position.String())
	assert.Empty(t, res.Edits)
}

func TestAnalyzeSourceReportsMalformedDumps(t *testing.T) {
	t.Run("syntax", func(t *testing.T) {
		res := AnalyzeSource("bad.cxxast", "(translation-unit file=\"main.cxx\"", nil)
		assert.True(t, res.Malformed())
		require.NotEmpty(t, res.Diagnostics)
		assert.Equal(t, errors.ErrorMalformedDump, res.Diagnostics[0].Code)
		assert.Equal(t, "bad.cxxast", res.Diagnostics[0].Position.Filename)
	})

	t.Run("unresolved name", func(t *testing.T) {
		dump := `(translation-unit file="main.cxx"
  (function name="f" type="void" (compound (decl-ref name="missing"))))`
		res := AnalyzeSource("bad.cxxast", dump, nil)
		assert.True(t, res.Malformed())
		require.Len(t, res.Diagnostics, 1)
		assert.Contains(t, res.Diagnostics[0].Message, `unresolved name "missing"`)
	})
}

func TestAnalyzeSourceResolvesEdits(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.cxx", reinterpretSource)
	cfg := config.Default()
	cfg.Rewrite = true

	res := AnalyzeSource(filepath.Join(dir, "main.cxxast"), reinterpretDump, cfg)
	require.NoError(t, res.Err)
	assert.Empty(t, res.Diagnostics)
	require.Len(t, res.Edits, 1)
	e := res.Edits[0]
	assert.Equal(t, filepath.Join(dir, "main.cxx"), e.Path)
	assert.Equal(t, 3, e.Line)
	assert.Equal(t, 10, e.Column)
	assert.Equal(t, "static_cast", e.Replacement)
}

func TestRunKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.cxxast", commaDump),
		filepath.Join(dir, "missing.cxxast"),
		writeFile(t, dir, "b.cxxast", "(translation-unit"),
		writeFile(t, dir, "c.cxxast", commaDump),
	}

	results, err := Run(context.Background(), paths, Options{Jobs: 2})
	require.NoError(t, err)
	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
	}
	assert.Equal(t, []string{errors.WarningCommaOperator}, codes(results[0].Diagnostics))
	assert.Error(t, results[1].Err)
	assert.True(t, results[2].Malformed())
	assert.Equal(t, []string{errors.WarningCommaOperator}, codes(results[3].Diagnostics))
}

func TestRunStopsWhenCanceled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.cxxast", commaDump)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, []string{path}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunWithoutPaths(t *testing.T) {
	results, err := Run(context.Background(), nil, Options{})
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestCollectDumps(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tree/b.cxxast", commaDump)
	writeFile(t, dir, "tree/a/x.cxxast", commaDump)
	writeFile(t, dir, "tree/notes.txt", "")
	single := writeFile(t, dir, "single.dump", commaDump)

	got, err := CollectDumps([]string{filepath.Join(dir, "tree"), single})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "tree", "a", "x.cxxast"),
		filepath.Join(dir, "tree", "b.cxxast"),
		single,
	}, got)

	_, err = CollectDumps([]string{filepath.Join(dir, "nope")})
	assert.Error(t, err)
}
