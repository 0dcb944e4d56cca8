package rules

import (
	"go/ast"

	"github.com/aiseeq/logcheck/pkg/core"
)

// Metadata describes a rule to whatever registers it. It is plain data,
// built independently of the rule's analysis logic.
type Metadata struct {
	Key         string // Stable rule key, e.g. "Methods4logmsg"
	Repository  string // Rule repository the key belongs to
	Name        string
	Description string
	Tags        []string
	Severity    core.Severity
	Remediation string // Constant remediation effort, e.g. "10min"
}

// Rule is the interface that all rules must implement
type Rule interface {
	Metadata() Metadata

	// Configure applies the project configuration
	Configure(cfg *core.Config) error

	// AnalyzeFile returns the findings for one file
	AnalyzeFile(ctx *core.FileContext) []*core.Finding
}

// BaseRule provides common functionality for rules
type BaseRule struct {
	meta     Metadata
	severity core.Severity
	config   *core.Config
}

// NewBaseRule creates a new base rule
func NewBaseRule(meta Metadata) *BaseRule {
	return &BaseRule{
		meta:     meta,
		severity: meta.Severity,
		config:   core.DefaultConfig(),
	}
}

// Metadata returns the rule metadata
func (r *BaseRule) Metadata() Metadata {
	return r.meta
}

// Key returns the rule key
func (r *BaseRule) Key() string {
	return r.meta.Key
}

// Severity returns the effective severity after configuration
func (r *BaseRule) Severity() core.Severity {
	return r.severity
}

// Configure picks up the severity override and exceptions
func (r *BaseRule) Configure(cfg *core.Config) error {
	r.config = cfg
	r.severity = cfg.RuleSeverity(r.meta.Key, r.meta.Severity)
	return nil
}

// Config returns the configuration last passed to Configure
func (r *BaseRule) Config() *core.Config {
	return r.config
}

// CreateFinding creates a finding anchored at node. It returns nil when a
// configured exception waives it.
func (r *BaseRule) CreateFinding(ctx *core.FileContext, node ast.Node, message string) *core.Finding {
	pos := ctx.PositionFor(node)
	end := ctx.EndPositionFor(node)

	if r.config != nil && r.config.IsExcepted(r.meta.Key, ctx.RelPath, pos.Line) {
		return nil
	}

	return core.NewFinding(r.meta.Key, ctx.RelPath, pos.Line, r.severity, message).
		WithColumn(pos.Column).
		WithEnd(end.Line, end.Column).
		WithOffsets(pos.Offset, end.Offset).
		WithCode(ctx.GetLine(pos.Line))
}
