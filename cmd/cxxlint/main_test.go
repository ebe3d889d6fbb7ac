package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const commaDump = `(translation-unit file="main.cxx"
  (var name="a" type="int")
  (function name="f" type="void" loc=<1:6>
    (compound
      (binary op="," loc=<2:4> begin=<2:3> end=<2:6>
        (decl-ref name="a" loc=<2:3>)
        (decl-ref name="a" loc=<2:6>)))))
`

const reinterpretDump = `(translation-unit file="main.cxx"
  (function name="get" type="void *" loc=<1:7>)
  (function name="f" type="int *" loc=<2:6>
    (compound
      (return loc=<3:3>
        (reinterpret-cast written="int *" kind=BitCast loc=<3:10> begin=<3:10> end=<3:39>
          (call callee="get" loc=<3:34>))))))
`

const reinterpretSource = "void *get();\nint *f() {\n  return reinterpret_cast<int *>(get());\n}\n"

type workspace struct {
	dir    string
	config string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	w := &workspace{dir: t.TempDir()}
	w.config = w.write(t, "cxxlint.toml", "jobs = 1\n")
	return w
}

func (w *workspace) write(t *testing.T, name, text string) string {
	t.Helper()
	p := filepath.Join(w.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(text), 0o600))
	return p
}

func (w *workspace) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", w.config, "--color", "off"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCheckReportsFindings(t *testing.T) {
	w := newWorkspace(t)
	w.write(t, "dumps/a.cxxast", commaDump)

	out, err := w.run(t, "check", filepath.Join(w.dir, "dumps"))
	assert.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, "warning[W3001]")
	assert.Contains(t, out, "[commaoperator]")
	assert.Contains(t, out, "1 warning")
}

func TestCheckDisabled(t *testing.T) {
	w := newWorkspace(t)
	dump := w.write(t, "a.cxxast", commaDump)

	out, err := w.run(t, "check", "--disable", "commaoperator", dump)
	assert.NoError(t, err)
	assert.Empty(t, out)

	_, err = w.run(t, "check", "--enable", "nosuchcheck", dump)
	assert.ErrorContains(t, err, `unknown check "nosuchcheck"`)
}

func TestCheckJSONAndCache(t *testing.T) {
	w := newWorkspace(t)
	dump := w.write(t, "a.cxxast", commaDump)
	cacheDir := filepath.Join(w.dir, "cache")

	type result struct {
		Path        string `json:"path"`
		Cached      bool   `json:"cached"`
		Diagnostics []struct {
			Code  string `json:"code"`
			Check string `json:"check"`
		} `json:"diagnostics"`
	}
	decode := func(out string) []result {
		var rs []result
		require.NoError(t, json.Unmarshal([]byte(out), &rs))
		return rs
	}

	out, err := w.run(t, "check", "--format", "json", "--cache-dir", cacheDir, dump)
	assert.ErrorIs(t, err, errFindings)
	rs := decode(out)
	require.Len(t, rs, 1)
	assert.Equal(t, dump, rs[0].Path)
	assert.False(t, rs[0].Cached)
	require.Len(t, rs[0].Diagnostics, 1)
	assert.Equal(t, "W3001", rs[0].Diagnostics[0].Code)
	assert.Equal(t, "commaoperator", rs[0].Diagnostics[0].Check)

	out, _ = w.run(t, "check", "--format", "json", "--cache-dir", cacheDir, dump)
	rs = decode(out)
	require.Len(t, rs, 1)
	assert.True(t, rs[0].Cached)

	out, _ = w.run(t, "check", "--format", "json", "--cache-dir", cacheDir, "--no-cache", dump)
	assert.False(t, decode(out)[0].Cached)
}

func TestCheckRejectsUnknownFormat(t *testing.T) {
	w := newWorkspace(t)
	dump := w.write(t, "a.cxxast", commaDump)
	_, err := w.run(t, "check", "--format", "xml", dump)
	assert.ErrorContains(t, err, "unknown format")
}

func TestFix(t *testing.T) {
	w := newWorkspace(t)
	src := w.write(t, "main.cxx", reinterpretSource)
	dump := w.write(t, "main.cxxast", reinterpretDump)

	out, err := w.run(t, "fix", "--dry-run", dump)
	require.NoError(t, err)
	assert.Contains(t, out, `replace "reinterpret_cast" with "static_cast"`)
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, reinterpretSource, string(data))

	out, err = w.run(t, "fix", dump)
	require.NoError(t, err)
	assert.Contains(t, out, "fixed "+src+" (1 edits)")
	data, err = os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(reinterpretSource, "reinterpret_cast", "static_cast", 1), string(data))

	// the source no longer spells reinterpret_cast, so the finding is
	// reported instead of rewritten
	out, err = w.run(t, "fix", dump)
	require.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, "warning[W1010]")
	assert.NotContains(t, out, "fixed")
}

func TestFixReportsRemainingFindings(t *testing.T) {
	w := newWorkspace(t)
	dump := w.write(t, "a.cxxast", commaDump)

	out, err := w.run(t, "fix", "--no-cache", dump)
	require.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, "warning[W3001]")
	assert.Contains(t, out, "1 warning")
}

func TestFixReportsSkippedEdits(t *testing.T) {
	w := newWorkspace(t)
	src := w.write(t, "main.cxx", reinterpretSource)
	a := w.write(t, "a.cxxast", reinterpretDump)
	b := w.write(t, "b.cxxast", reinterpretDump)

	// both dumps rewrite the same token; the second edit conflicts
	out, err := w.run(t, "fix", "--no-cache", a, b)
	require.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, "fixed "+src+" (1 edits)")
	assert.Contains(t, out, "skipped "+src+":3:10")
	assert.Contains(t, out, "conflicts with a previous edit")
	assert.Contains(t, out, "warning[W1010]")
	assert.Equal(t, 1, strings.Count(out, "warning[W1010]"))

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(reinterpretSource, "reinterpret_cast", "static_cast", 1), string(data))
}

func TestDump(t *testing.T) {
	w := newWorkspace(t)
	dump := w.write(t, "a.cxxast", "; comment\n(translation-unit   file=\"main.cxx\" (var name=\"a\" type=\"int\"))")

	out, err := w.run(t, "dump", "--format", "canonical", dump)
	require.NoError(t, err)
	assert.Equal(t, "(translation-unit file=\"main.cxx\"\n  (var name=\"a\" type=\"int\"))\n", out)

	out, err = w.run(t, "dump", "--format", "metadata", dump)
	require.NoError(t, err)
	assert.Contains(t, out, "=== AST Metadata Debug Info ===")

	bad := w.write(t, "bad.cxxast", "(translation-unit file=\"main.cxx\" (bogus))")
	out, err = w.run(t, "dump", bad)
	assert.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, "bogus")
}

func TestVersionJSON(t *testing.T) {
	w := newWorkspace(t)
	out, err := w.run(t, "version", "--format", "json")
	require.NoError(t, err)
	var p versionPayload
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "cxxlint", p.Tool)
	assert.Equal(t, version, p.Version)
}

func TestBadColorMode(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--color", "sometimes", "version"})
	assert.ErrorContains(t, root.Execute(), "unknown color mode")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.50s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "2.5ms", formatDuration(2500*time.Microsecond))
	assert.Equal(t, "12ns", formatDuration(12))
}
