package semantic

import (
	"github.com/tliron/commonlog"

	"cxxlint/internal/errors"
	"cxxlint/internal/rewrite"
)

var log = commonlog.GetLogger("cxxlint.semantic")

// Pass is one check over a translation unit.
type Pass struct {
	Name string
	// CPlusPlusOnly passes are skipped for C translation units.
	CPlusPlusOnly bool
	Run           func(ctx *Context) Result
}

// Passes lists every check in the order they run.
func Passes() []Pass {
	return []Pass{
		{Name: errors.CheckRedundantCast, CPlusPlusOnly: true, Run: RedundantCast},
		{Name: errors.CheckPassParamsByRef, Run: PassParamsByRef},
		{Name: errors.CheckCommaOperator, Run: CommaOperator},
	}
}

// LookupPass finds a pass by its check name.
func LookupPass(name string) (Pass, bool) {
	for _, p := range Passes() {
		if p.Name == name {
			return p, true
		}
	}
	return Pass{}, false
}

type Analyzer struct {
	passes      []Pass
	diagnostics []errors.Diagnostic
	edits       []rewrite.Edit
}

// NewAnalyzer runs the given passes, or all of them when none are given.
func NewAnalyzer(passes ...Pass) *Analyzer {
	if len(passes) == 0 {
		passes = Passes()
	}
	return &Analyzer{passes: passes}
}

// Analyze runs every pass the configuration enables over ctx.Unit and
// returns their diagnostics, pass by pass.
func (a *Analyzer) Analyze(ctx *Context) []errors.Diagnostic {
	a.diagnostics = nil
	a.edits = nil
	if ctx.Unit == nil {
		return nil
	}

	for _, p := range a.passes {
		if !ctx.Config.Enabled(p.Name) {
			log.Debugf("pass %s disabled", p.Name)
			continue
		}
		if p.CPlusPlusOnly && !ctx.Unit.CPlusPlus {
			continue
		}
		res := p.Run(ctx)
		log.Debugf("pass %s: %d diagnostics, %d edits", p.Name, len(res.Diagnostics), len(res.Edits))
		a.diagnostics = append(a.diagnostics, res.Diagnostics...)
		a.edits = append(a.edits, res.Edits...)
	}
	return a.diagnostics
}

// GetErrors returns the diagnostics of the last Analyze call.
func (a *Analyzer) GetErrors() []errors.Diagnostic {
	return a.diagnostics
}

// GetEdits returns the rewrite edits of the last Analyze call.
func (a *Analyzer) GetEdits() []rewrite.Edit {
	return a.edits
}
