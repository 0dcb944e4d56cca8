package fix

import (
	"go/parser"

	"github.com/aiseeq/logcheck/pkg/core"
	"github.com/aiseeq/logcheck/pkg/logcall"
	"github.com/aiseeq/logcheck/pkg/rules/logmessage"
)

func init() {
	DefaultRegistry.Register(NewConcatMergeFixer())
}

// ConcatMergeFixer folds a log message made only of concatenated string
// literals into one literal
type ConcatMergeFixer struct{}

// NewConcatMergeFixer creates the fixer
func NewConcatMergeFixer() *ConcatMergeFixer {
	return &ConcatMergeFixer{}
}

// RuleName returns the rule name
func (f *ConcatMergeFixer) RuleName() string {
	return logmessage.Key
}

// CanFix accepts literal-only concatenations
func (f *ConcatMergeFixer) CanFix(finding *core.Finding) bool {
	return finding != nil &&
		finding.Rule == logmessage.Key &&
		finding.Verdict == logcall.ConcatStringOnly.String()
}

// GenerateFix re-parses the flagged range and merges its literals
func (f *ConcatMergeFixer) GenerateFix(ctx *core.FileContext, finding *core.Finding) *Fix {
	if ctx == nil || finding == nil {
		return nil
	}
	if finding.Offset < 0 || finding.EndOffset > len(ctx.Content) || finding.Offset >= finding.EndOffset {
		return nil
	}

	old := string(ctx.Content[finding.Offset:finding.EndOffset])
	expr, err := parser.ParseExpr(old)
	if err != nil {
		return nil
	}
	merged, ok := logcall.MergeLiterals(expr)
	if !ok {
		return nil
	}

	return &Fix{
		File:     ctx.Path,
		Line:     finding.Line,
		Start:    finding.Offset,
		End:      finding.EndOffset,
		OldText:  old,
		NewText:  merged,
		Message:  "Merge string literals",
		RuleName: logmessage.Key,
		Finding:  finding,
	}
}
