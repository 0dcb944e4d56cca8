package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiseeq/logcheck/pkg/core"
)

func sampleFindings() core.FindingList {
	return core.FindingList{
		core.NewFinding("Methods4logmsg", "b.go", 3, core.SeverityMajor, "Avoid method call as a log message").
			WithColumn(12).WithVerdict("method-call").WithCode("\tslog.Info(u.String())"),
		core.NewFinding("Methods4logmsg", "a.go", 7, core.SeverityCritical, "Avoid String concatenating in log messages").
			WithColumn(5).WithVerdict("concat-string-only").WithSuggestion(`Use a single literal: "ab"`),
		core.NewFinding("Methods4logmsg", "a.go", 2, core.SeverityMajor, "Avoid method call as a log message").
			WithColumn(1).WithVerdict("method-call"),
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewConsoleOutput().WithWriter(&buf).WithNoColor(true).WithVerbose(true)

	require.NoError(t, out.Write(sampleFindings(), Stats{FilesAnalyzed: 4, FilesSkipped: 1}))

	text := buf.String()
	assert.Contains(t, text, "LOGCHECK RESULTS")
	assert.Contains(t, text, "Files analyzed: 4")
	assert.Contains(t, text, "Files skipped: 1")
	assert.Contains(t, text, "[CRITICAL] Avoid String concatenating in log messages (Methods4logmsg)")
	assert.Contains(t, text, "> slog.Info(u.String())")
	assert.Contains(t, text, `Suggestion: Use a single literal: "ab"`)
	assert.Contains(t, text, "SUMMARY: 3 issues found")
	assert.Contains(t, text, "Critical: 1")
	assert.Contains(t, text, "Major: 2")

	aIdx := bytes.Index(buf.Bytes(), []byte("a.go"))
	bIdx := bytes.Index(buf.Bytes(), []byte("b.go"))
	assert.Less(t, aIdx, bIdx)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("2:1:")), bytes.Index(buf.Bytes(), []byte("7:5:")))
}

func TestConsoleOutputQuiet(t *testing.T) {
	var buf bytes.Buffer
	out := NewConsoleOutput().WithWriter(&buf).WithNoColor(true)

	require.NoError(t, out.Write(sampleFindings(), Stats{}))
	assert.NotContains(t, buf.String(), "Suggestion:")
}

func TestConsoleOutputNoFindings(t *testing.T) {
	var buf bytes.Buffer
	out := NewConsoleOutput().WithWriter(&buf).WithNoColor(true)

	require.NoError(t, out.Write(nil, Stats{FilesAnalyzed: 2}))
	assert.Contains(t, buf.String(), "No inefficient log messages found!")
	assert.Contains(t, buf.String(), "Files analyzed: 2")
}

func TestSummaryOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewSummaryOutput().WithWriter(&buf)

	require.NoError(t, out.Write(sampleFindings(), Stats{FilesAnalyzed: 3, Duration: 0.5}))

	text := buf.String()
	assert.Contains(t, text, "Blocker: 0 | Critical: 1 | Major: 2 | Minor: 0 | Info: 0")
	assert.Contains(t, text, "BY RULE:\n1. Methods4logmsg: 3")
	assert.Contains(t, text, "1. method-call: 2")
	assert.Contains(t, text, "2. concat-string-only: 1")
	assert.Contains(t, text, "Files analyzed: 3 | Duration: 0.50s")
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONOutput().WithWriter(&buf).Write(sampleFindings(), Stats{FilesAnalyzed: 3}))

	var report struct {
		Findings []struct {
			Rule     string `json:"rule"`
			File     string `json:"file"`
			Line     int    `json:"line"`
			Severity string `json:"severity"`
			Verdict  string `json:"verdict"`
		} `json:"findings"`
		Summary struct {
			Total         int            `json:"total"`
			BySeverity    map[string]int `json:"by_severity"`
			ByVerdict     map[string]int `json:"by_verdict"`
			ByRule        map[string]int `json:"by_rule"`
			FilesAnalyzed int            `json:"files_analyzed"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))

	require.Len(t, report.Findings, 3)
	assert.Equal(t, "major", report.Findings[0].Severity)
	assert.Equal(t, "method-call", report.Findings[0].Verdict)
	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.BySeverity["critical"])
	assert.Equal(t, 2, report.Summary.ByVerdict["method-call"])
	assert.Equal(t, 3, report.Summary.ByRule["Methods4logmsg"])
	assert.Equal(t, 3, report.Summary.FilesAnalyzed)
}

func TestJSONOutputEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONOutput().WithWriter(&buf).Write(nil, Stats{}))
	assert.Contains(t, buf.String(), `"findings": []`)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	for _, format := range []string{"", "console", "summary", "json"} {
		w, err := New(format, &buf, false, true)
		require.NoError(t, err, format)
		assert.NotNil(t, w)
	}

	_, err := New("xml", &buf, false, true)
	assert.Error(t, err)
}
