package output

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/aiseeq/logcheck/pkg/core"
)

// Stats contains analysis statistics
type Stats struct {
	FilesAnalyzed int
	FilesSkipped  int
	TypeErrors    int
	RulesRun      int
	Duration      float64
}

// SummaryOutput writes a compact summary: counts per severity and verdict
type SummaryOutput struct {
	writer io.Writer
}

// NewSummaryOutput creates a new summary output
func NewSummaryOutput() *SummaryOutput {
	return &SummaryOutput{
		writer: os.Stdout,
	}
}

// WithWriter sets a custom writer
func (s *SummaryOutput) WithWriter(w io.Writer) *SummaryOutput {
	s.writer = w
	return s
}

// Write outputs a compact summary
func (s *SummaryOutput) Write(findings core.FindingList, stats Stats) error {
	counts := findings.CountBySeverity()

	fmt.Fprintln(s.writer, "LOGCHECK SUMMARY")
	fmt.Fprintln(s.writer, "================")
	fmt.Fprintf(s.writer, "Blocker: %d | Critical: %d | Major: %d | Minor: %d | Info: %d\n",
		counts[core.SeverityBlocker],
		counts[core.SeverityCritical],
		counts[core.SeverityMajor],
		counts[core.SeverityMinor],
		counts[core.SeverityInfo],
	)
	fmt.Fprintln(s.writer)

	if len(findings) > 0 {
		s.printCounts("BY RULE:", findings.CountByRule())
		s.printCounts("BY KIND:", findings.CountByVerdict())
	}

	fmt.Fprintf(s.writer, "Files analyzed: %d | Duration: %.2fs\n", stats.FilesAnalyzed, stats.Duration)
	return nil
}

type keyCount struct {
	key   string
	count int
}

// printCounts lists counts largest first, ties by key
func (s *SummaryOutput) printCounts(title string, byKey map[string]int) {
	counts := make([]keyCount, 0, len(byKey))
	for key, count := range byKey {
		counts = append(counts, keyCount{key, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].key < counts[j].key
	})

	fmt.Fprintln(s.writer, title)
	for i, kc := range counts {
		fmt.Fprintf(s.writer, "%d. %s: %d\n", i+1, kc.key, kc.count)
	}
	fmt.Fprintln(s.writer)
}
