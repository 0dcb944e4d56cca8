// Package analyzer exposes the log message check as a go/analysis pass so it
// can run under go vet, singlechecker or golangci-lint.
package analyzer

import (
	"fmt"
	"go/ast"
	"sync"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/aiseeq/logcheck/pkg/core"
	"github.com/aiseeq/logcheck/pkg/logcall"
)

const doc = `report log messages built by concatenation, formatting or method calls

A log call whose message is assembled at the call site pays for that work even
when the level is disabled:

	slog.Info("user " + name)              // concatenation
	log.Print(fmt.Sprintf("user %s", name)) // formatting
	slog.Info(u.String())                   // method call

Concatenations of string literals only carry a fix that merges them.`

// Analyzer runs with the built-in signatures, or those of -config
var Analyzer = NewAnalyzer(nil)

type runner struct {
	configPath string

	once    sync.Once
	checker *logcall.Checker
	err     error
}

// NewAnalyzer creates an analyzer bound to cfg. A nil cfg defers to the
// -config flag and then to the defaults.
func NewAnalyzer(cfg *core.Config) *analysis.Analyzer {
	r := &runner{}
	if cfg != nil {
		r.once.Do(func() { r.checker, r.err = checkerFor(cfg) })
	}

	a := &analysis.Analyzer{
		Name:     "logcheck",
		Doc:      doc,
		Requires: []*analysis.Analyzer{inspect.Analyzer},
		Run:      r.run,
	}
	a.Flags.StringVar(&r.configPath, "config", "", "path to a logcheck yaml config")
	return a
}

func checkerFor(cfg *core.Config) (*logcall.Checker, error) {
	checkerCfg, err := cfg.CheckerConfig()
	if err != nil {
		return nil, err
	}
	return logcall.New(checkerCfg), nil
}

func (r *runner) load() (*logcall.Checker, error) {
	r.once.Do(func() {
		cfg := core.DefaultConfig()
		if r.configPath != "" {
			loaded, err := core.LoadConfig(r.configPath)
			if err != nil {
				r.err = err
				return
			}
			cfg = core.MergeConfigs(cfg, loaded)
		}
		r.checker, r.err = checkerFor(cfg)
	})
	return r.checker, r.err
}

func (r *runner) run(pass *analysis.Pass) (any, error) {
	checker, err := r.load()
	if err != nil {
		return nil, fmt.Errorf("logcheck config: %w", err)
	}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}
	insp.Preorder(nodeFilter, func(node ast.Node) {
		res, ok := checker.Inspect(node.(*ast.CallExpr), pass.TypesInfo)
		if !ok || !res.Verdict.IsFinding() {
			return
		}
		pass.Report(diagnostic(res))
	})
	return nil, nil
}

func diagnostic(res logcall.Result) analysis.Diagnostic {
	d := analysis.Diagnostic{
		Pos:      res.Message.Pos(),
		End:      res.Message.End(),
		Category: res.Verdict.String(),
		Message:  res.Text(),
	}

	if res.Verdict == logcall.ConcatStringOnly {
		if merged, ok := logcall.MergeLiterals(res.Message); ok {
			d.SuggestedFixes = []analysis.SuggestedFix{{
				Message: "Merge into a single literal",
				TextEdits: []analysis.TextEdit{{
					Pos:     res.Message.Pos(),
					End:     res.Message.End(),
					NewText: []byte(merged),
				}},
			}}
		}
	}
	return d
}
