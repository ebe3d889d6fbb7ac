package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cxxlint/internal/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Enabled("redundantcast"))
	assert.True(t, cfg.Enabled("passparamsbyref"))
	assert.True(t, cfg.Enabled("commaoperator"))
	assert.False(t, cfg.Enabled("nosuchcheck"))
	assert.False(t, cfg.Rewrite)
	assert.Equal(t, int64(64), cfg.FatThreshold)
	assert.Equal(t, types.DefaultHandleTypes, cfg.FatTypes)
	assert.NoError(t, cfg.Validate())

	policy := cfg.FatPolicy()
	assert.Equal(t, int64(64), policy.Threshold)
	assert.Len(t, policy.Handles, 5)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "cxxlint.toml", `
rewrite = true
fat_threshold = 128
fat_types = ["my::Handle"]
ignore_paths = ["generated/**"]
jobs = 4

[checks]
commaoperator = false
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.True(t, cfg.Rewrite)
	assert.Equal(t, int64(128), cfg.FatThreshold)
	assert.Equal(t, []string{"my::Handle"}, cfg.FatTypes)
	assert.Equal(t, []string{"generated/**"}, cfg.IgnorePaths)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, p, cfg.Path)

	// keys not in the file keep their defaults
	assert.True(t, cfg.Checks.RedundantCast)
	assert.True(t, cfg.Checks.PassParamsByRef)
	assert.False(t, cfg.Checks.CommaOperator)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, ".cxxlint.yaml", `
checks:
  redundantcast: false
third_party_paths:
  - "external/**"
cache: .cache/cxxlint
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.False(t, cfg.Checks.RedundantCast)
	assert.True(t, cfg.Checks.CommaOperator)
	assert.Equal(t, []string{"external/**"}, cfg.ThirdPartyPaths)
	assert.Equal(t, ".cache/cxxlint", cfg.Cache)
}

func TestLoadEmptyYAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), ".cxxlint.yml", "")
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, Default().FatThreshold, cfg.FatThreshold)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"unknown toml key", "a.toml", "colour = true\n", "unknown key"},
		{"unknown yaml key", "b.yaml", "colour: true\n", "failed to parse YAML"},
		{"bad toml", "c.toml", "fat_threshold = \n", "failed to parse TOML"},
		{"negative threshold", "d.toml", "fat_threshold = -1\n", "fat_threshold must not be negative"},
		{"negative jobs", "e.yaml", "jobs: -2\n", "jobs must not be negative"},
		{"bad pattern", "f.toml", "ignore_paths = [\"[\"]\n", "bad path pattern"},
		{"empty fat type", "g.toml", "fat_types = [\" \"]\n", "empty name"},
		{"unsupported format", "h.json", "{}", "unsupported config format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, dir, tt.file, tt.content)
			_, err := Load(p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	_, ok, err := Find(nested)
	require.NoError(t, err)
	if ok {
		t.Skip("a configuration file exists above the temporary directory")
	}

	want := writeFile(t, root, ".cxxlint.yaml", "jobs: 2\n")
	got, ok, err := Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	cfg, err := LoadOrDefault(nested)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Jobs)

	// cxxlint.toml wins over .cxxlint.yaml in the same directory
	preferred := writeFile(t, root, "cxxlint.toml", "jobs = 3\n")
	got, _, err = Find(nested)
	require.NoError(t, err)
	assert.Equal(t, preferred, got)
}

func TestSetEnabled(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.SetEnabled("passparamsbyref", false))
	assert.False(t, cfg.Enabled("passparamsbyref"))
	assert.Error(t, cfg.SetEnabled("bogus", true))
}

func TestMatchPath(t *testing.T) {
	tests := []struct {
		patterns []string
		path     string
		want     bool
	}{
		{[]string{"external/**"}, "external/lib/a.h", true},
		{[]string{"external/**"}, "/src/external/lib/a.h", true},
		{[]string{"external/**"}, "externals/a.h", false},
		{[]string{"*.hxx"}, "/usr/include/foo.hxx", true},
		{[]string{"inc/*.h"}, "inc/a.h", true},
		{[]string{"inc/*.h"}, "src/inc/a.h", false},
		{nil, "a.h", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchPath(tt.patterns, tt.path), "%v %s", tt.patterns, tt.path)
	}
}
