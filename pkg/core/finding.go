package core

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Finding is a single issue reported by a rule
type Finding struct {
	Rule string `json:"rule"`

	// Location
	File      string `json:"file"`
	Line      int    `json:"line"`
	Column    int    `json:"column,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
	EndColumn int    `json:"end_column,omitempty"`

	// Byte range of the anchor node, used by fixers
	Offset    int `json:"-"`
	EndOffset int `json:"-"`

	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Verdict  string   `json:"verdict,omitempty"`

	Code       string `json:"code,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// NewFinding creates a finding with the required fields
func NewFinding(rule, file string, line int, severity Severity, message string) *Finding {
	return &Finding{
		Rule:     rule,
		File:     file,
		Line:     line,
		Severity: severity,
		Message:  message,
	}
}

// WithColumn adds column information
func (f *Finding) WithColumn(col int) *Finding {
	f.Column = col
	return f
}

// WithEnd marks where the anchor node ends
func (f *Finding) WithEnd(line, col int) *Finding {
	f.EndLine = line
	f.EndColumn = col
	return f
}

// WithOffsets records the byte range of the anchor node
func (f *Finding) WithOffsets(start, end int) *Finding {
	f.Offset = start
	f.EndOffset = end
	return f
}

// WithVerdict records the classification behind the finding
func (f *Finding) WithVerdict(verdict string) *Finding {
	f.Verdict = verdict
	return f
}

// WithCode adds the offending source line
func (f *Finding) WithCode(code string) *Finding {
	f.Code = code
	return f
}

// WithSuggestion adds a hint on how to fix the finding
func (f *Finding) WithSuggestion(suggestion string) *Finding {
	f.Suggestion = suggestion
	return f
}

// Location returns file:line or file:line:col
func (f *Finding) Location() string {
	if f.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", f.File, f.Line, f.Column)
	}
	return fmt.Sprintf("%s:%d", f.File, f.Line)
}

// RelativeFile returns the file path relative to root
func (f *Finding) RelativeFile(root string) string {
	rel, err := filepath.Rel(root, f.File)
	if err != nil {
		return f.File
	}
	return rel
}

func (f *Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s (%s)", f.Severity.Label(), f.Location(), f.Message, f.Rule)
}

// FindingList is a slice of findings with helper methods
type FindingList []*Finding

// BySeverity keeps findings at or above minSeverity
func (fl FindingList) BySeverity(minSeverity Severity) FindingList {
	result := make(FindingList, 0, len(fl))
	for _, f := range fl {
		if f.Severity.IsAtLeast(minSeverity) {
			result = append(result, f)
		}
	}
	return result
}

// ByRule keeps findings of one rule
func (fl FindingList) ByRule(rule string) FindingList {
	var result FindingList
	for _, f := range fl {
		if f.Rule == rule {
			result = append(result, f)
		}
	}
	return result
}

// CountBySeverity returns a map of severity to count
func (fl FindingList) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, f := range fl {
		counts[f.Severity]++
	}
	return counts
}

// CountByVerdict returns a map of verdict to count
func (fl FindingList) CountByVerdict() map[string]int {
	counts := make(map[string]int)
	for _, f := range fl {
		counts[f.Verdict]++
	}
	return counts
}

// CountByRule returns a map of rule to count
func (fl FindingList) CountByRule() map[string]int {
	counts := make(map[string]int)
	for _, f := range fl {
		counts[f.Rule]++
	}
	return counts
}

// HasAtLeast reports whether any finding reaches severity
func (fl FindingList) HasAtLeast(severity Severity) bool {
	for _, f := range fl {
		if f.Severity.IsAtLeast(severity) {
			return true
		}
	}
	return false
}

// Sort orders findings by file, line and column
func (fl FindingList) Sort() {
	sort.SliceStable(fl, func(i, j int) bool {
		a, b := fl[i], fl[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}
