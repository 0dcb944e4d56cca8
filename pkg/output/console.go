package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aiseeq/logcheck/pkg/core"
)

const outputLineWidth = 60

// severityColors maps each severity to its console color, most severe first
var severityColors = []struct {
	sev   core.Severity
	color *color.Color
}{
	{core.SeverityBlocker, color.New(color.FgRed, color.Bold, color.Underline)},
	{core.SeverityCritical, color.New(color.FgRed, color.Bold)},
	{core.SeverityMajor, color.New(color.FgYellow)},
	{core.SeverityMinor, color.New(color.FgBlue)},
	{core.SeverityInfo, color.New(color.FgHiBlack)},
}

func colorFor(sev core.Severity) *color.Color {
	for _, sc := range severityColors {
		if sc.sev == sev {
			return sc.color
		}
	}
	return color.New(color.Reset)
}

// ConsoleOutput writes findings to console with colors
type ConsoleOutput struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

// NewConsoleOutput creates a new console output
func NewConsoleOutput() *ConsoleOutput {
	return &ConsoleOutput{
		writer: os.Stdout,
	}
}

// WithWriter sets a custom writer
func (c *ConsoleOutput) WithWriter(w io.Writer) *ConsoleOutput {
	c.writer = w
	return c
}

// WithVerbose also prints the source line and suggestion of each finding
func (c *ConsoleOutput) WithVerbose(v bool) *ConsoleOutput {
	c.verbose = v
	return c
}

// WithNoColor disables colors
func (c *ConsoleOutput) WithNoColor(v bool) *ConsoleOutput {
	c.noColor = v
	if v {
		color.NoColor = true
	}
	return c
}

// Write outputs findings grouped by file
func (c *ConsoleOutput) Write(findings core.FindingList, stats Stats) error {
	if len(findings) == 0 {
		c.printSuccess(stats)
		return nil
	}

	c.printHeader(stats)
	c.printFindings(findings)
	c.printSummary(findings)

	return nil
}

func (c *ConsoleOutput) printHeader(stats Stats) {
	fmt.Fprintln(c.writer)
	fmt.Fprintln(c.writer, "LOGCHECK RESULTS")
	fmt.Fprintln(c.writer, strings.Repeat("=", outputLineWidth))
	fmt.Fprintf(c.writer, "Files analyzed: %d\n", stats.FilesAnalyzed)
	if stats.FilesSkipped > 0 {
		fmt.Fprintf(c.writer, "Files skipped: %d\n", stats.FilesSkipped)
	}
	if stats.TypeErrors > 0 {
		fmt.Fprintf(c.writer, "Packages with type errors: %d\n", stats.TypeErrors)
	}
	fmt.Fprintln(c.writer)
}

func (c *ConsoleOutput) printSuccess(stats Stats) {
	green := color.New(color.FgGreen, color.Bold)

	fmt.Fprintln(c.writer)
	green.Fprintln(c.writer, "No inefficient log messages found!")
	fmt.Fprintf(c.writer, "Files analyzed: %d\n", stats.FilesAnalyzed)
	fmt.Fprintln(c.writer)
}

func (c *ConsoleOutput) printFindings(findings core.FindingList) {
	sorted := append(core.FindingList(nil), findings...)
	sorted.Sort()

	cyan := color.New(color.FgCyan, color.Bold)
	current := ""
	for _, f := range sorted {
		if f.File != current {
			if current != "" {
				fmt.Fprintln(c.writer)
			}
			current = f.File
			cyan.Fprintf(c.writer, "%s\n", f.File)
		}
		c.printFinding(f)
	}
	fmt.Fprintln(c.writer)
}

func (c *ConsoleOutput) printFinding(f *core.Finding) {
	gray := color.New(color.FgHiBlack)

	gray.Fprintf(c.writer, "  %d:%d: ", f.Line, f.Column)
	colorFor(f.Severity).Fprintf(c.writer, "[%s] ", f.Severity.Label())
	fmt.Fprintf(c.writer, "%s ", f.Message)
	gray.Fprintf(c.writer, "(%s)\n", f.Rule)

	if !c.verbose {
		return
	}
	if f.Code != "" {
		gray.Fprintf(c.writer, "     > %s\n", strings.TrimSpace(f.Code))
	}
	if f.Suggestion != "" {
		green := color.New(color.FgGreen)
		green.Fprintf(c.writer, "     Suggestion: %s\n", f.Suggestion)
	}
}

func (c *ConsoleOutput) printSummary(findings core.FindingList) {
	counts := findings.CountBySeverity()

	fmt.Fprintln(c.writer, strings.Repeat("-", outputLineWidth))
	fmt.Fprintf(c.writer, "SUMMARY: %d issues found\n", len(findings))

	for _, sc := range severityColors {
		if count := counts[sc.sev]; count > 0 {
			sc.color.Fprintf(c.writer, "  %s: %d\n", titleCase(sc.sev.String()), count)
		}
	}

	fmt.Fprintln(c.writer)
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
