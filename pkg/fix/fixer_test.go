package fix

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiseeq/logcheck/pkg/core"
	"github.com/aiseeq/logcheck/pkg/logcall"
	"github.com/aiseeq/logcheck/pkg/rules/logmessage"
)

const source = `package demo

import "log/slog"

func run(name string) {
	slog.Info("user " + "login")
	slog.Warn("a" + ` + "`b`" + ` + "c")
	slog.Error("user " + name)
}
`

func analyzeFile(t *testing.T, path string) (*core.FileContext, []*core.Finding) {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	ctx, err := core.NewLoader(false).ParseSource(path, content)
	require.NoError(t, err)
	return ctx, logmessage.New().AnalyzeFile(ctx)
}

func writeSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.go")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestConcatMergeFixerCanFix(t *testing.T) {
	fixer := NewConcatMergeFixer()

	tests := []struct {
		name    string
		finding *core.Finding
		want    bool
	}{
		{"string only", &core.Finding{Rule: logmessage.Key, Verdict: logcall.ConcatStringOnly.String()}, true},
		{"with object", &core.Finding{Rule: logmessage.Key, Verdict: logcall.ConcatWithObject.String()}, false},
		{"other rule", &core.Finding{Rule: "other", Verdict: logcall.ConcatStringOnly.String()}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fixer.CanFix(tt.finding))
		})
	}
}

func TestConcatMergeFixerGenerateFix(t *testing.T) {
	path := writeSource(t)
	ctx, findings := analyzeFile(t, path)
	require.Len(t, findings, 3)

	fixer := NewConcatMergeFixer()

	fix := fixer.GenerateFix(ctx, findings[0])
	require.NotNil(t, fix)
	assert.Equal(t, path, fix.File)
	assert.Equal(t, 6, fix.Line)
	assert.Equal(t, `"user " + "login"`, fix.OldText)
	assert.Equal(t, `"user login"`, fix.NewText)

	fix = fixer.GenerateFix(ctx, findings[1])
	require.NotNil(t, fix)
	assert.Equal(t, `"abc"`, fix.NewText)

	assert.Nil(t, fixer.GenerateFix(ctx, findings[2]))
}

func TestGenerateFixOutOfRange(t *testing.T) {
	ctx := core.NewFileContext("/p/x.go", "/p", []byte("package x\n"), nil)
	finding := &core.Finding{Rule: logmessage.Key, Offset: 5, EndOffset: 50}
	assert.Nil(t, NewConcatMergeFixer().GenerateFix(ctx, finding))
}

func TestEngineApplyFixes(t *testing.T) {
	path := writeSource(t)
	ctx, findings := analyzeFile(t, path)

	engine := NewEngine(DefaultRegistry, false, false)
	fixes := engine.GenerateFixes(findings, map[string]*core.FileContext{ctx.RelPath: ctx})
	require.Len(t, fixes, 2)

	results := engine.ApplyFixes(fixes)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Error)
	assert.Equal(t, 2, results[0].FixesApplied)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `slog.Info("user login")`)
	assert.Contains(t, string(content), `slog.Warn("abc")`)
	assert.Contains(t, string(content), `slog.Error("user " + name)`)

	_, after := analyzeFile(t, path)
	assert.Len(t, after, 1)
}

func TestEngineGenerateFixesSkipsOtherRules(t *testing.T) {
	path := writeSource(t)
	ctx, findings := analyzeFile(t, path)
	require.NotEmpty(t, findings)

	foreign := *findings[0]
	foreign.Rule = "other"

	engine := NewEngine(DefaultRegistry, true, false)
	fixes := engine.GenerateFixes([]*core.Finding{&foreign}, map[string]*core.FileContext{ctx.RelPath: ctx})
	assert.Empty(t, fixes)

	fixes = engine.GenerateFixes([]*core.Finding{&foreign, findings[0]}, map[string]*core.FileContext{ctx.RelPath: ctx})
	require.Len(t, fixes, 1)
	assert.Same(t, findings[0], fixes[0].Finding)
}

func TestEngineDryRun(t *testing.T) {
	path := writeSource(t)
	ctx, findings := analyzeFile(t, path)

	engine := NewEngine(DefaultRegistry, true, false)
	fixes := engine.GenerateFixes(findings, map[string]*core.FileContext{ctx.RelPath: ctx})
	results := engine.ApplyFixes(fixes)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].FixesApplied)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, source, string(content))
}

func TestApply(t *testing.T) {
	content := []byte("0123456789")

	tests := []struct {
		name    string
		fixes   []*Fix
		want    string
		applied int
	}{
		{
			name:    "single",
			fixes:   []*Fix{{Start: 2, End: 4, OldText: "23", NewText: "x"}},
			want:    "01x456789",
			applied: 1,
		},
		{
			name: "any order",
			fixes: []*Fix{
				{Start: 0, End: 1, OldText: "0", NewText: "a"},
				{Start: 8, End: 10, OldText: "89", NewText: "bc"},
			},
			want:    "a1234567bc",
			applied: 2,
		},
		{
			name:    "stale",
			fixes:   []*Fix{{Start: 2, End: 4, OldText: "xx", NewText: "y"}},
			want:    "0123456789",
			applied: 0,
		},
		{
			name: "overlapping",
			fixes: []*Fix{
				{Start: 2, End: 6, OldText: "2345", NewText: "x"},
				{Start: 4, End: 8, OldText: "4567", NewText: "y"},
			},
			want:    "0123y89",
			applied: 1,
		},
		{
			name:    "out of range",
			fixes:   []*Fix{{Start: 8, End: 20, OldText: "89", NewText: "z"}},
			want:    "0123456789",
			applied: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, applied := Apply(content, tt.fixes)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.applied, applied)
		})
	}
	assert.Equal(t, "0123456789", string(content))
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	_, ok := registry.Get(logmessage.Key)
	assert.False(t, ok)

	fixer := NewConcatMergeFixer()
	registry.Register(fixer)

	got, ok := registry.Get(logmessage.Key)
	require.True(t, ok)
	assert.Same(t, fixer, got)
	assert.Len(t, registry.All(), 1)
}

func TestDefaultRegistry(t *testing.T) {
	_, ok := DefaultRegistry.Get(logmessage.Key)
	assert.True(t, ok)
}

func TestEnginePreview(t *testing.T) {
	engine := NewEngine(DefaultRegistry, true, false)

	fixes := []*Fix{
		{File: "/test/file.go", Line: 10, OldText: `"a" + "b"`, NewText: `"ab"`, RuleName: logmessage.Key},
		{File: "/test/file.go", Line: 20, OldText: `"c" + "d"`, NewText: `"cd"`, RuleName: logmessage.Key},
	}

	preview := engine.Preview(fixes)
	assert.Contains(t, preview, "PROPOSED FIXES (2 changes in 1 files)")
	assert.Contains(t, preview, `- "a" + "b"`)
	assert.Contains(t, preview, `+ "ab"`)
	assert.Contains(t, preview, "Run without --dry-run")
}

func TestEnginePreviewEmpty(t *testing.T) {
	engine := NewEngine(DefaultRegistry, true, false)
	assert.Equal(t, "No fixes available.\n", engine.Preview(nil))
}
