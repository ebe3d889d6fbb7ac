package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"cxxlint/internal/config"
	"cxxlint/internal/errors"
	"cxxlint/internal/parser"
	"cxxlint/internal/rewrite"
	"cxxlint/internal/semantic"
	"cxxlint/internal/source"
)

var log = commonlog.GetLogger("cxxlint.driver")

// DumpExt is the extension of AST dump files.
const DumpExt = ".cxxast"

// FileResult is the outcome of analyzing one dump.
type FileResult struct {
	Path        string
	Diagnostics []errors.Diagnostic
	Edits       []rewrite.FileEdit

	// Sources serves the lines of the files the dump names, for rendering.
	Sources *source.Manager

	// Cached is set when the result was served from the cache.
	Cached bool

	// Err is set when the dump could not be read or its edits could not be
	// resolved. Malformed dumps are reported as diagnostics instead.
	Err error
}

// Malformed reports whether the dump itself had errors.
func (r *FileResult) Malformed() bool {
	for _, d := range r.Diagnostics {
		if d.Level == errors.Error {
			return true
		}
	}
	return false
}

// Options control a Run.
type Options struct {
	Config *config.Config

	// Jobs bounds the number of dumps analyzed at once; zero means one per
	// CPU.
	Jobs int

	// Cache, when set, serves and stores results.
	Cache *Cache
}

// AnalyzeSource parses dump text and runs every enabled pass over it.
// Relative source paths in the dump are resolved against the directory of
// path.
func AnalyzeSource(path, text string, cfg *config.Config) *FileResult {
	if cfg == nil {
		cfg = config.Default()
	}
	res := parser.ParseSource(path, text)
	res.Sources.SetBaseDir(filepath.Dir(path))

	out := &FileResult{Path: path, Sources: res.Sources}
	if res.HasErrors() {
		for _, e := range res.Errors {
			out.Diagnostics = append(out.Diagnostics, errors.MalformedDump(e.Message, e.Position))
		}
		log.Debugf("%s: %d dump errors", path, len(res.Errors))
		return out
	}

	ctx := semantic.NewContext(res.Unit, res.Sources, res.Types, cfg)
	a := semantic.NewAnalyzer()
	out.Diagnostics = a.Analyze(ctx)

	edits, err := rewrite.Resolve(res.Sources, a.GetEdits())
	if err != nil {
		out.Err = fmt.Errorf("%s: %w", path, err)
		return out
	}
	out.Edits = edits
	return out
}

// AnalyzeFile reads and analyzes one dump, going through cache when it is
// not nil.
func AnalyzeFile(path string, cfg *config.Config, cache *Cache) *FileResult {
	if cfg == nil {
		cfg = config.Default()
	}
	data, err := os.ReadFile(path) // #nosec G304 -- dump paths are given by the user
	if err != nil {
		return &FileResult{Path: path, Err: fmt.Errorf("failed to read dump: %w", err)}
	}
	text := string(data)
	if cache == nil {
		return AnalyzeSource(path, text, cfg)
	}

	key, err := Key(text, cfg)
	if err != nil {
		log.Warningf("%s: cache disabled: %v", path, err)
		return AnalyzeSource(path, text, cfg)
	}
	var entry Entry
	if ok, err := cache.Get(key, &entry); err != nil {
		log.Warningf("%s: ignoring unreadable cache entry: %v", path, err)
	} else if ok && entry.Fresh(filepath.Dir(path)) {
		log.Debugf("%s: cache hit", path)
		return entry.Result(path)
	}

	res := AnalyzeSource(path, text, cfg)
	if res.Err == nil {
		if err := cache.Put(key, NewEntry(res)); err != nil {
			log.Warningf("%s: failed to store cache entry: %v", path, err)
		}
	}
	return res
}

// Run analyzes every dump in paths concurrently. Results are in the order
// of paths; a problem with one dump never stops the others. The error is
// only set when ctx is canceled.
func Run(ctx context.Context, paths []string, opts Options) ([]*FileResult, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = cfg.Jobs
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]*FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = AnalyzeFile(path, cfg, opts.Cache)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CollectDumps expands directories among args into the dump files below
// them, sorted. Plain files are kept as given.
func CollectDumps(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", arg, err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, DumpExt) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %q: %w", arg, err)
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
