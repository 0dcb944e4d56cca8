package fix

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aiseeq/logcheck/pkg/core"
)

// Fixer interface for rules that support auto-fixing
type Fixer interface {
	// RuleName returns the rule this fixer is for
	RuleName() string

	// CanFix returns true if this fixer can fix the given finding
	CanFix(f *core.Finding) bool

	// GenerateFix returns the fix for a finding (nil if can't fix)
	GenerateFix(ctx *core.FileContext, f *core.Finding) *Fix
}

// Fix replaces the bytes [Start, End) of File
type Fix struct {
	File     string // Absolute file path
	Line     int    // Line of Start, for display
	Start    int    // Byte offset
	End      int    // Byte offset, exclusive
	OldText  string // Text expected at [Start, End)
	NewText  string // Replacement text
	Message  string // Description of the fix
	RuleName string // Rule that triggered this fix
	Finding  *core.Finding
}

// FixResult represents the result of applying fixes
type FixResult struct {
	File         string
	FixesApplied int
	FixesSkipped int
	Fixes        []*Fix
	Error        error
}

// Registry holds all registered fixers
type Registry struct {
	fixers map[string]Fixer
}

// DefaultRegistry is the global fixer registry
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new fixer registry
func NewRegistry() *Registry {
	return &Registry{
		fixers: make(map[string]Fixer),
	}
}

// Register adds a fixer to the registry
func (r *Registry) Register(f Fixer) {
	r.fixers[f.RuleName()] = f
}

// Get returns a fixer for the given rule name
func (r *Registry) Get(ruleName string) (Fixer, bool) {
	f, ok := r.fixers[ruleName]
	return f, ok
}

// All returns all registered fixers
func (r *Registry) All() map[string]Fixer {
	return r.fixers
}

// Engine applies fixes to files
type Engine struct {
	registry *Registry
	dryRun   bool
	verbose  bool
}

// NewEngine creates a new fix engine
func NewEngine(registry *Registry, dryRun, verbose bool) *Engine {
	return &Engine{
		registry: registry,
		dryRun:   dryRun,
		verbose:  verbose,
	}
}

// CheckGitStatus checks for uncommitted changes
func (e *Engine) CheckGitStatus(projectRoot string) (bool, error) {
	cmd := exec.Command("git", "status", "--porcelain")
	cmd.Dir = projectRoot
	output, err := cmd.Output()
	if err != nil {
		// Not a git repo or git not available - skip check
		return false, nil
	}
	return len(strings.TrimSpace(string(output))) > 0, nil
}

// GenerateFixes generates fixes for findings without applying them.
// contexts is keyed by the finding's File.
func (e *Engine) GenerateFixes(findings []*core.Finding, contexts map[string]*core.FileContext) []*Fix {
	fixers := e.registry.All()
	names := make([]string, 0, len(fixers))
	for name := range fixers {
		names = append(names, name)
	}
	sort.Strings(names)

	var fixes []*Fix
	for _, name := range names {
		fixer := fixers[name]
		for _, f := range core.FindingList(findings).ByRule(name) {
			if !fixer.CanFix(f) {
				continue
			}

			ctx, ok := contexts[f.File]
			if !ok {
				continue
			}

			if fix := fixer.GenerateFix(ctx, f); fix != nil {
				fixes = append(fixes, fix)
			}
		}
	}

	return fixes
}

// ApplyFixes applies fixes to files. Results are ordered by file.
func (e *Engine) ApplyFixes(fixes []*Fix) []FixResult {
	byFile := groupByFile(fixes)

	files := make([]string, 0, len(byFile))
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)

	results := make([]FixResult, 0, len(files))
	for _, file := range files {
		results = append(results, e.applyToFile(file, byFile[file]))
	}
	return results
}

func (e *Engine) applyToFile(file string, fixes []*Fix) FixResult {
	result := FixResult{
		File:  file,
		Fixes: fixes,
	}

	content, err := os.ReadFile(file)
	if err != nil {
		result.Error = fmt.Errorf("read file: %w", err)
		return result
	}

	updated, applied := Apply(content, fixes)
	result.FixesApplied = applied
	result.FixesSkipped = len(fixes) - applied

	if e.verbose && result.FixesSkipped > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %s: skipped %d stale or overlapping fixes\n", file, result.FixesSkipped)
	}

	if e.dryRun || applied == 0 {
		return result
	}

	info, err := os.Stat(file)
	if err != nil {
		result.Error = fmt.Errorf("stat file: %w", err)
		return result
	}
	if err := os.WriteFile(file, updated, info.Mode().Perm()); err != nil {
		result.Error = fmt.Errorf("write file: %w", err)
		return result
	}

	return result
}

// Apply rewrites content with fixes, last offset first. A fix whose OldText
// no longer matches, or that overlaps one already applied, is skipped.
func Apply(content []byte, fixes []*Fix) ([]byte, int) {
	sorted := make([]*Fix, len(fixes))
	copy(sorted, fixes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})

	out := append([]byte(nil), content...)
	applied := 0
	limit := len(content)

	for _, fix := range sorted {
		if fix.Start < 0 || fix.Start > fix.End || fix.End > limit {
			continue
		}
		if string(content[fix.Start:fix.End]) != fix.OldText {
			continue
		}

		out = append(out[:fix.Start], append([]byte(fix.NewText), out[fix.End:]...)...)
		limit = fix.Start
		applied++
	}

	return out, applied
}

func groupByFile(fixes []*Fix) map[string][]*Fix {
	byFile := make(map[string][]*Fix)
	for _, fix := range fixes {
		byFile[fix.File] = append(byFile[fix.File], fix)
	}
	return byFile
}

// Preview formats fixes for display
func (e *Engine) Preview(fixes []*Fix) string {
	if len(fixes) == 0 {
		return "No fixes available.\n"
	}

	byFile := groupByFile(fixes)
	files := make([]string, 0, len(byFile))
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("PROPOSED FIXES (%d changes in %d files):\n\n", len(fixes), len(byFile)))

	cwd, cwdErr := os.Getwd()
	for _, file := range files {
		relPath := file
		if cwdErr == nil {
			if rel, err := filepath.Rel(cwd, file); err == nil {
				relPath = rel
			}
		}

		for _, fix := range byFile[file] {
			sb.WriteString(fmt.Sprintf("  %s:%d [%s]\n", relPath, fix.Line, fix.RuleName))
			sb.WriteString(fmt.Sprintf("    - %s\n", fix.OldText))
			sb.WriteString(fmt.Sprintf("    + %s\n", fix.NewText))
			sb.WriteString("\n")
		}
	}

	if e.dryRun {
		sb.WriteString("Run without --dry-run to apply changes.\n")
	}

	return sb.String()
}
