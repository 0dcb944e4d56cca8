// Package logmessage registers the rule that flags log messages built by
// concatenation, formatting or method calls.
package logmessage

import (
	"fmt"
	"go/ast"
	"sync"

	"github.com/aiseeq/logcheck/pkg/core"
	"github.com/aiseeq/logcheck/pkg/logcall"
	"github.com/aiseeq/logcheck/pkg/rules"
)

// Key is the rule key findings are reported under
const Key = "Methods4logmsg"

func init() {
	if err := rules.Register(New()); err != nil {
		panic(err)
	}
}

// Meta returns the rule metadata
func Meta() rules.Metadata {
	return rules.Metadata{
		Key:        Key,
		Repository: "speesimon",
		Name:       "Log messages should not use fmt.Sprintf() or method calls",
		Description: "Building a log message eagerly costs the concatenation, formatting " +
			"or method call even when the level is disabled. Pass a constant message " +
			"and let the logger format its arguments.",
		Tags:        []string{"bad-practice", "convention", "suspicious", "performance"},
		Severity:    core.SeverityMajor,
		Remediation: "10min",
	}
}

// Rule checks the message argument of every recognized log call
type Rule struct {
	*rules.BaseRule

	mu      sync.RWMutex
	checker *logcall.Checker
}

// New creates the rule with the built-in signatures
func New() *Rule {
	return &Rule{
		BaseRule: rules.NewBaseRule(Meta()),
		checker:  logcall.NewDefault(),
	}
}

// Configure rebuilds the checker from the configured signature sets
func (r *Rule) Configure(cfg *core.Config) error {
	if err := r.BaseRule.Configure(cfg); err != nil {
		return err
	}

	checkerCfg, err := cfg.CheckerConfig()
	if err != nil {
		return fmt.Errorf("%s: %w", Key, err)
	}

	r.mu.Lock()
	r.checker = logcall.New(checkerCfg)
	r.mu.Unlock()
	return nil
}

// Checker returns the checker currently in use
func (r *Rule) Checker() *logcall.Checker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.checker
}

// AnalyzeFile reports every log call whose message is built at the call site
func (r *Rule) AnalyzeFile(ctx *core.FileContext) []*core.Finding {
	if !ctx.HasTypes() {
		return nil
	}
	if ctx.IsTestFile() && !r.Config().Settings.Tests {
		return nil
	}

	checker := r.Checker()
	var findings []*core.Finding

	ast.Inspect(ctx.File, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}

		res, ok := checker.Inspect(call, ctx.Info)
		if !ok || !res.Verdict.IsFinding() {
			return true
		}

		f := r.CreateFinding(ctx, res.Message, res.Text())
		if f == nil {
			return true
		}
		findings = append(findings, f.
			WithVerdict(res.Verdict.String()).
			WithSuggestion(Suggestion(res)))
		return true
	})

	return findings
}

// Suggestion describes how to rewrite the message of res
func Suggestion(res logcall.Result) string {
	switch res.Verdict {
	case logcall.ConcatStringOnly:
		if merged, ok := logcall.MergeLiterals(res.Message); ok {
			return "Use a single literal: " + merged
		}
		return "Use a single literal"
	case logcall.ConcatWithObject:
		return "Pass a constant message and the values as separate arguments"
	case logcall.FormatCall:
		return fmt.Sprintf("Pass the %s arguments to the logger instead of formatting eagerly",
			logcall.FuncName(res.Formatter))
	case logcall.GenericMethodCall:
		return "Log a constant message and pass the call result as an argument"
	default:
		return ""
	}
}
