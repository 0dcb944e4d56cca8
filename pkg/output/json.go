package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aiseeq/logcheck/pkg/core"
)

// Writer renders the findings of a run
type Writer interface {
	Write(findings core.FindingList, stats Stats) error
}

// JSONOutput writes findings as a single JSON document
type JSONOutput struct {
	writer io.Writer
}

type jsonReport struct {
	Findings core.FindingList `json:"findings"`
	Summary  jsonSummary      `json:"summary"`
}

type jsonSummary struct {
	Total         int            `json:"total"`
	BySeverity    map[string]int `json:"by_severity"`
	ByVerdict     map[string]int `json:"by_verdict"`
	ByRule        map[string]int `json:"by_rule"`
	FilesAnalyzed int            `json:"files_analyzed"`
	FilesSkipped  int            `json:"files_skipped"`
	Duration      float64        `json:"duration_seconds"`
}

// NewJSONOutput creates a new JSON output
func NewJSONOutput() *JSONOutput {
	return &JSONOutput{writer: os.Stdout}
}

// WithWriter sets a custom writer
func (j *JSONOutput) WithWriter(w io.Writer) *JSONOutput {
	j.writer = w
	return j
}

// Write encodes the report
func (j *JSONOutput) Write(findings core.FindingList, stats Stats) error {
	bySeverity := make(map[string]int)
	for sev, n := range findings.CountBySeverity() {
		bySeverity[sev.String()] = n
	}

	report := jsonReport{
		Findings: findings,
		Summary: jsonSummary{
			Total:         len(findings),
			BySeverity:    bySeverity,
			ByVerdict:     findings.CountByVerdict(),
			ByRule:        findings.CountByRule(),
			FilesAnalyzed: stats.FilesAnalyzed,
			FilesSkipped:  stats.FilesSkipped,
			Duration:      stats.Duration,
		},
	}
	if report.Findings == nil {
		report.Findings = core.FindingList{}
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// New returns the writer for format: console, summary or json
func New(format string, w io.Writer, verbose, noColor bool) (Writer, error) {
	switch format {
	case "", "console":
		return NewConsoleOutput().WithWriter(w).WithVerbose(verbose).WithNoColor(noColor), nil
	case "summary":
		return NewSummaryOutput().WithWriter(w), nil
	case "json":
		return NewJSONOutput().WithWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
