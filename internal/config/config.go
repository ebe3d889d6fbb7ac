package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	cxxerrors "cxxlint/internal/errors"
	"cxxlint/internal/types"
)

// File names Find looks for, in order of preference.
var FileNames = []string{"cxxlint.toml", ".cxxlint.yaml", ".cxxlint.yml"}

// Checks enables or disables each check.
type Checks struct {
	RedundantCast   bool `toml:"redundantcast" yaml:"redundantcast"`
	PassParamsByRef bool `toml:"passparamsbyref" yaml:"passparamsbyref"`
	CommaOperator   bool `toml:"commaoperator" yaml:"commaoperator"`
}

// Config is the analyzer configuration. Keys missing from a file keep
// their defaults.
type Config struct {
	Checks Checks `toml:"checks" yaml:"checks"`

	// Rewrite turns the reinterpret_cast to static_cast fix into an edit
	// instead of a warning.
	Rewrite bool `toml:"rewrite" yaml:"rewrite"`

	FatThreshold int64    `toml:"fat_threshold" yaml:"fat_threshold"`
	FatTypes     []string `toml:"fat_types" yaml:"fat_types"`

	// IgnorePaths and ThirdPartyPaths are slash separated glob patterns
	// matched against file paths; a trailing "/**" matches a whole tree.
	IgnorePaths     []string `toml:"ignore_paths" yaml:"ignore_paths"`
	ThirdPartyPaths []string `toml:"third_party_paths" yaml:"third_party_paths"`

	// Jobs bounds the number of dumps analyzed at once; 0 means one per CPU.
	Jobs int `toml:"jobs" yaml:"jobs"`

	// Cache is the directory of the result cache; empty disables caching.
	Cache string `toml:"cache" yaml:"cache"`

	// Path is the file the configuration was loaded from, if any.
	Path string `toml:"-" yaml:"-"`
}

func Default() *Config {
	return &Config{
		Checks: Checks{
			RedundantCast:   true,
			PassParamsByRef: true,
			CommaOperator:   true,
		},
		FatThreshold: types.DefaultFatThreshold,
		FatTypes:     append([]string(nil), types.DefaultHandleTypes...),
	}
}

// Load reads a TOML or YAML file, chosen by extension, over the defaults.
func Load(file string) (*Config, error) {
	data, err := os.ReadFile(file) // #nosec G304 -- configuration path chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".toml":
		meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", file, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%s: unknown key %q", file, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", file, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported config format %q", file, ext)
	}
	cfg.Path = file
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return cfg, nil
}

// Find walks up from dir looking for a configuration file.
func Find(dir string) (string, bool, error) {
	if dir == "" {
		dir = "."
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadOrDefault loads the configuration found from dir, or the defaults.
func LoadOrDefault(dir string) (*Config, error) {
	file, ok, err := Find(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(file)
}

// Validate checks value ranges and glob syntax.
func (c *Config) Validate() error {
	if c.FatThreshold < 0 {
		return fmt.Errorf("fat_threshold must not be negative, got %d", c.FatThreshold)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	for _, name := range c.FatTypes {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("fat_types contains an empty name")
		}
	}
	for _, list := range [][]string{c.IgnorePaths, c.ThirdPartyPaths} {
		for _, p := range list {
			if _, err := path.Match(strings.TrimSuffix(p, "/**"), ""); err != nil {
				return fmt.Errorf("bad path pattern %q: %w", p, err)
			}
		}
	}
	return nil
}

// Enabled reports whether the named check runs.
func (c *Config) Enabled(check string) bool {
	switch check {
	case cxxerrors.CheckRedundantCast:
		return c.Checks.RedundantCast
	case cxxerrors.CheckPassParamsByRef:
		return c.Checks.PassParamsByRef
	case cxxerrors.CheckCommaOperator:
		return c.Checks.CommaOperator
	}
	return false
}

// SetEnabled switches a check on or off by name.
func (c *Config) SetEnabled(check string, on bool) error {
	switch check {
	case cxxerrors.CheckRedundantCast:
		c.Checks.RedundantCast = on
	case cxxerrors.CheckPassParamsByRef:
		c.Checks.PassParamsByRef = on
	case cxxerrors.CheckCommaOperator:
		c.Checks.CommaOperator = on
	default:
		return fmt.Errorf("unknown check %q", check)
	}
	return nil
}

// FatPolicy returns the fat type policy the configuration describes.
func (c *Config) FatPolicy() types.FatPolicy {
	return types.FatPolicy{
		Threshold: c.FatThreshold,
		Handles:   append([]string(nil), c.FatTypes...),
	}
}

// MatchPath reports whether a slash separated path matches any pattern.
// Patterns without a slash also match the base name.
func MatchPath(patterns []string, p string) bool {
	p = filepath.ToSlash(p)
	for _, pattern := range patterns {
		if tree, ok := strings.CutSuffix(pattern, "/**"); ok {
			if p == tree || strings.HasPrefix(p, tree+"/") || strings.Contains(p, "/"+tree+"/") {
				return true
			}
			continue
		}
		if ok, _ := path.Match(pattern, p); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := path.Match(pattern, path.Base(p)); ok {
				return true
			}
		}
	}
	return false
}
