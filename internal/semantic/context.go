package semantic

import (
	"fmt"

	"cxxlint/internal/ast"
	"cxxlint/internal/config"
	"cxxlint/internal/errors"
	"cxxlint/internal/rewrite"
	"cxxlint/internal/source"
	"cxxlint/internal/types"
)

// Context is everything a pass may consult about one translation unit.
// Passes only read it; each analyzed file gets its own Context.
type Context struct {
	Unit    *ast.TranslationUnit
	Sources *source.Manager
	Types   *types.Registry
	Config  *config.Config

	// Fat decides which parameter types passparamsbyref reports.
	Fat types.FatPolicy

	// Rewrite enables source edits where a pass knows how to fix a finding.
	Rewrite bool

	// IgnoreLocation reports locations no pass may diagnose.
	IgnoreLocation func(source.Location) bool

	// IsInThirdPartyHeader reports locations in code not owned by the
	// project being analyzed.
	IsInThirdPartyHeader func(source.Location) bool
}

// NewContext builds a context with the default predicates. A nil cfg means
// the default configuration.
func NewContext(unit *ast.TranslationUnit, sources *source.Manager, registry *types.Registry, cfg *config.Config) *Context {
	if cfg == nil {
		cfg = config.Default()
	}
	ctx := &Context{
		Unit:    unit,
		Sources: sources,
		Types:   registry,
		Config:  cfg,
		Fat:     cfg.FatPolicy(),
		Rewrite: cfg.Rewrite,
	}
	ctx.IgnoreLocation = ctx.defaultIgnoreLocation
	ctx.IsInThirdPartyHeader = ctx.defaultIsInThirdPartyHeader
	return ctx
}

// defaultIgnoreLocation ignores code that expands into a system header or
// into a file matching one of the configured ignore patterns.
func (c *Context) defaultIgnoreLocation(loc source.Location) bool {
	if !loc.IsValid() {
		return false
	}
	exp := c.Sources.ExpansionLoc(loc)
	if c.Sources.IsInSystemHeader(exp) {
		return true
	}
	return config.MatchPath(c.Config.IgnorePaths, c.Sources.Filename(exp))
}

func (c *Context) defaultIsInThirdPartyHeader(loc source.Location) bool {
	if !loc.IsValid() {
		return false
	}
	if c.Sources.IsInThirdPartyFile(loc) {
		return true
	}
	return config.MatchPath(c.Config.ThirdPartyPaths, c.Sources.Filename(loc))
}

// Ignored applies IgnoreLocation to the start of n.
func (c *Context) Ignored(n ast.Node) bool {
	return c.IgnoreLocation(n.NodePos())
}

// tokenLength is the length of the identifier spelled at the position loc
// is reported at, or 1 when the text is unavailable or not an identifier.
func (c *Context) tokenLength(loc source.Location) int {
	if tok, ok := c.Sources.TokenAt(c.Sources.ExpansionLoc(loc)); ok {
		return len(tok)
	}
	return 1
}

// Result is what a pass produced, in traversal order.
type Result struct {
	Diagnostics []errors.Diagnostic
	Edits       []rewrite.Edit
}

// emitter accumulates the findings of one pass run.
type emitter struct {
	ctx   *Context
	check string
	out   Result
}

func newEmitter(ctx *Context, check string) *emitter {
	return &emitter{ctx: ctx, check: check}
}

func (e *emitter) diagnostic(code string, loc source.Location, r source.Range, format string, args ...any) *errors.DiagnosticBuilder {
	return errors.NewWarning(code, fmt.Sprintf(format, args...), e.ctx.Sources.Position(loc)).
		WithCheck(e.check).
		WithRange(r).
		WithLength(e.ctx.tokenLength(loc))
}

func (e *emitter) emit(b *errors.DiagnosticBuilder) {
	e.out.Diagnostics = append(e.out.Diagnostics, b.Build())
}

func (e *emitter) warn(code string, loc source.Location, r source.Range, format string, args ...any) {
	e.emit(e.diagnostic(code, loc, r, format, args...))
}

func (e *emitter) edit(ed rewrite.Edit) {
	e.out.Edits = append(e.out.Edits, ed)
}

// quote renders a type the way diagnostics show it.
func quote(q types.QualType) string {
	return "'" + q.String() + "'"
}
