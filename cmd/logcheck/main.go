package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aiseeq/logcheck/pkg/core"
	"github.com/aiseeq/logcheck/pkg/fix"
	"github.com/aiseeq/logcheck/pkg/output"
	"github.com/aiseeq/logcheck/pkg/rules"

	// Rule packages - imported for init() registration
	_ "github.com/aiseeq/logcheck/pkg/rules/logmessage"
)

var version = "dev"

const (
	defaultFilePermissions = 0644
)

// errFailOn signals findings at or above the fail_on severity
var errFailOn = errors.New("findings at or above fail_on severity")

// CLI flags
var (
	flagTag         string
	flagRule        string
	flagMinSeverity string
	flagFailOn      string
	flagOutput      string
	flagTests       bool
	flagWorkers     int
	flagVerbose     bool
	flagDebug       bool
	flagNoColor     bool
	// Fix command flags
	flagDryRun bool
	flagForce  bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if errors.Is(err, errFailOn) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "logcheck",
	Short: "logcheck - log message analyzer",
	Long: `logcheck reports log calls whose message is built at the call site by
string concatenation, fmt.Sprintf or another method call.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var checkCmd = &cobra.Command{
	Use:   "check [path] [packages...]",
	Short: "Analyze code for inefficient log messages",
	Long: `Analyze the packages below path (default: current directory).
Package patterns default to ./...`,
	RunE: runCheck,
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List available rules",
	RunE:  runRules,
}

var explainCmd = &cobra.Command{
	Use:   "explain <rule> [files...]",
	Short: "Explain a specific rule",
	Long: `Explain a specific rule. Given Go files, also check each one on its own
and list what the rule reports in it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExplain,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .logcheck.yaml configuration",
	RunE:  runInit,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	RunE:  runConfigValidate,
}

var fixCmd = &cobra.Command{
	Use:   "fix [path] [packages...]",
	Short: "Merge literal-only log message concatenations",
	Long: `Rewrite log messages made only of concatenated string literals into a
single literal. By default runs in dry-run mode to show what would be fixed.
Use --dry-run=false to apply the fixes.`,
	RunE: runFix,
}

func init() {
	// Shared analysis flags
	for _, cmd := range []*cobra.Command{checkCmd, fixCmd} {
		cmd.Flags().BoolVar(&flagTests, "tests", false, "Also analyze _test.go files")
		cmd.Flags().IntVarP(&flagWorkers, "workers", "j", 0, "Number of analysis workers (default: NumCPU)")
		cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Show progress and finding details")
		cmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug output")
	}

	// Check command flags
	checkCmd.Flags().StringVarP(&flagTag, "tag", "t", "", "Run only rules with tag")
	checkCmd.Flags().StringVarP(&flagRule, "rule", "r", "", "Run only specified rule")
	checkCmd.Flags().StringVarP(&flagMinSeverity, "min-severity", "s", "", "Minimum severity (info, minor, major, critical, blocker)")
	checkCmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Exit 1 when a finding reaches this severity")
	checkCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (console, json, summary)")
	checkCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	// Rules command flags
	rulesCmd.Flags().StringVarP(&flagTag, "tag", "t", "", "Filter by tag")

	// Config subcommands
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	// Fix command flags
	fixCmd.Flags().BoolVar(&flagDryRun, "dry-run", true, "Show what would be fixed without applying")
	fixCmd.Flags().BoolVar(&flagForce, "force", false, "Apply fixes even with uncommitted changes")

	// Root commands
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(fixCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	projectRoot, patterns, err := splitArgs(args)
	if err != nil {
		return err
	}

	cfg, enabledRules, err := loadConfig(projectRoot)
	if err != nil {
		return err
	}

	if len(enabledRules) == 0 {
		fmt.Fprintln(out, "No rules enabled. Check your configuration.")
		return nil
	}

	contexts, walker := walkFiles(cmd.Context(), out, projectRoot, cfg, patterns)

	findings, err := rules.Run(cmd.Context(), contexts, enabledRules, flagWorkers)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	findings = findings.BySeverity(cfg.GetMinSeverity())

	walkStats := walker.Stats()
	stats := output.Stats{
		FilesAnalyzed: len(contexts),
		FilesSkipped:  walkStats.SkippedFiles,
		TypeErrors:    walkStats.TypeErrors,
		RulesRun:      len(enabledRules),
		Duration:      time.Since(startTime).Seconds(),
	}

	writer, err := output.New(cfg.Settings.Output, out, flagVerbose, flagNoColor)
	if err != nil {
		return err
	}
	if err := writer.Write(findings, stats); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	if findings.HasAtLeast(cfg.GetFailOn()) {
		return errFailOn
	}
	return nil
}

// splitArgs takes the project root from the first argument when it is a
// directory; everything else is a package pattern.
func splitArgs(args []string) (string, []string, error) {
	projectRoot := "."
	if len(args) > 0 {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			projectRoot = args[0]
			args = args[1:]
		}
	}

	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	return abs, args, nil
}

func loadConfig(projectRoot string) (*core.Config, []rules.Rule, error) {
	cfg, err := core.LoadConfigWithDefaults(projectRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if flagMinSeverity != "" {
		cfg.Settings.MinSeverity = flagMinSeverity
	}
	if flagFailOn != "" {
		cfg.Settings.FailOn = flagFailOn
	}
	if flagOutput != "" {
		cfg.Settings.Output = flagOutput
	}
	if flagTests {
		cfg.Settings.Tests = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := rules.ConfigureAll(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to configure rules: %w", err)
	}

	enabledRules := getEnabledRules(cfg)
	return cfg, enabledRules, nil
}

func getEnabledRules(cfg *core.Config) []rules.Rule {
	enabledRules := rules.GetEnabled(cfg)
	if flagTag != "" {
		var tagged []rules.Rule
		for _, r := range rules.GlobalRegistry().ByTag(flagTag) {
			if cfg.IsRuleEnabled(r.Metadata().Key) {
				tagged = append(tagged, r)
			}
		}
		enabledRules = tagged
	}
	if flagRule != "" {
		enabledRules = nil
		if r, ok := rules.Get(flagRule); ok {
			enabledRules = []rules.Rule{r}
		}
	}

	if flagVerbose {
		fmt.Printf("Running %d rules...\n", len(enabledRules))
	}

	return enabledRules
}

func walkFiles(ctx context.Context, out io.Writer, projectRoot string, cfg *core.Config, patterns []string) ([]*core.FileContext, *core.Walker) {
	walker := core.NewWalker(projectRoot, cfg).WithWorkers(flagWorkers)
	contexts, errs := walker.WalkSync(ctx, patterns...)

	stats := walker.Stats()
	if flagVerbose {
		fmt.Fprintf(out, "Loaded %d packages, %d files to analyze\n", stats.Packages, stats.ParsedFiles)
	}
	if flagDebug {
		fmt.Fprintf(os.Stderr, "debug: total=%d parsed=%d skipped=%d errors=%d\n",
			stats.TotalFiles, stats.ParsedFiles, stats.SkippedFiles, stats.ErrorFiles)
	}

	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	return contexts, walker
}

func runRules(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	allRules := rules.All()
	if flagTag != "" {
		allRules = rules.GlobalRegistry().ByTag(flagTag)
	}

	if len(allRules) == 0 {
		fmt.Fprintln(out, "No rules found.")
		return nil
	}

	fmt.Fprintln(out, "AVAILABLE RULES")
	fmt.Fprintln(out, "===============")
	fmt.Fprintln(out)

	for _, r := range allRules {
		meta := r.Metadata()
		autofix := ""
		if _, ok := fix.DefaultRegistry.Get(meta.Key); ok {
			autofix = " (auto-fix)"
		}

		fmt.Fprintf(out, "  %-20s %s [%s]%s\n", meta.Key, meta.Name, meta.Severity.Label(), autofix)
	}

	fmt.Fprintf(out, "\nTotal: %d rules\n", len(allRules))
	return nil
}

func runExplain(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	rule, ok := rules.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown rule: %s", args[0])
	}
	meta := rule.Metadata()

	fmt.Fprintf(out, "RULE: %s:%s\n", meta.Repository, meta.Key)
	fmt.Fprintf(out, "NAME: %s\n", meta.Name)
	fmt.Fprintf(out, "SEVERITY: %s\n", meta.Severity.Label())
	fmt.Fprintf(out, "TAGS: %s\n", strings.Join(meta.Tags, ", "))
	fmt.Fprintf(out, "REMEDIATION: %s\n", meta.Remediation)
	if _, ok := fix.DefaultRegistry.Get(meta.Key); ok {
		fmt.Fprintln(out, "AUTO-FIX: Available")
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "DESCRIPTION:")
	fmt.Fprintf(out, "  %s\n", meta.Description)

	if len(args) > 1 {
		return explainFiles(out, rule, args[1:])
	}
	return nil
}

// explainFiles type-checks each file as a standalone package and lists the
// findings rule reports in it.
func explainFiles(out io.Writer, rule rules.Rule, files []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg, err := core.LoadConfigWithDefaults(cwd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Settings.Tests = true
	if err := rule.Configure(cfg); err != nil {
		return fmt.Errorf("failed to configure rule: %w", err)
	}

	loader := core.NewLoader(true)
	var findings core.FindingList
	for _, file := range files {
		path, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", file, err)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		ctx, err := loader.ParseSource(path, content)
		if ctx == nil {
			return fmt.Errorf("failed to parse %s: %w", file, err)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", file, err)
		}
		ctx.Config = cfg
		findings = append(findings, rule.AnalyzeFile(ctx)...)
	}
	findings.Sort()

	fmt.Fprintln(out)
	fmt.Fprintf(out, "FINDINGS: %d\n", len(findings))
	for _, f := range findings {
		fmt.Fprintf(out, "  %s:%d:%d: %s\n", f.RelativeFile(cwd), f.Line, f.Column, f.Message)
	}
	return nil
}

const initConfig = `# logcheck configuration

version: 1

settings:
  exclude:
    - vendor/**
    - testdata/**
    - "**/*.pb.go"
  min_severity: info
  fail_on: critical
  output: console
  tests: false

rules:
  Methods4logmsg:
    enabled: true
    severity: major

# Additional logging facades. Params use "*" for any type; a leading
# marker such as context.Context moves the message to the second argument.
logging:
  signatures: []
  markers: []

# Additional formatting functions, reported as format calls.
formatting:
  signatures: []
`

func runInit(cmd *cobra.Command, args []string) error {
	filename := core.ConfigFileNames[0]
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("%s already exists", filename)
	}

	if err := os.WriteFile(filename, []byte(initConfig), defaultFilePermissions); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", filename)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg, err := core.LoadConfigWithDefaults(cwd)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "# Effective configuration")
	_, err = out.Write(data)
	return err
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configPath, err := core.FindConfig(cwd)
	if err != nil {
		return err
	}

	if configPath == "" {
		fmt.Fprintln(out, "No configuration file found")
		return nil
	}

	cfg, err := core.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := core.MergeConfigs(core.DefaultConfig(), cfg).Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fmt.Fprintf(out, "Configuration valid: %s\n", configPath)
	return nil
}

func runFix(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	projectRoot, patterns, err := splitArgs(args)
	if err != nil {
		return err
	}

	// Check for uncommitted changes
	dryRun := flagDryRun
	hasChanges, err := fix.NewEngine(fix.DefaultRegistry, dryRun, flagVerbose).CheckGitStatus(projectRoot)
	if err != nil && flagVerbose {
		fmt.Fprintf(os.Stderr, "Warning: could not check git status: %v\n", err)
	}

	if hasChanges && !flagForce && !dryRun {
		fmt.Fprintln(out, "WARNING: You have uncommitted changes.")
		fmt.Fprintln(out, "Use --force to apply fixes anyway, or commit your changes first.")
		fmt.Fprintln(out, "Running in dry-run mode instead.")
		dryRun = true
	}
	engine := fix.NewEngine(fix.DefaultRegistry, dryRun, flagVerbose)

	cfg, enabledRules, err := loadConfig(projectRoot)
	if err != nil {
		return err
	}

	// Filter to only rules that have fixers
	var fixableRules []rules.Rule
	for _, r := range enabledRules {
		if _, ok := fix.DefaultRegistry.Get(r.Metadata().Key); ok {
			fixableRules = append(fixableRules, r)
		}
	}

	if len(fixableRules) == 0 {
		fmt.Fprintln(out, "No fixable rules enabled.")
		return nil
	}

	contexts, _ := walkFiles(cmd.Context(), out, projectRoot, cfg, patterns)

	contextMap := make(map[string]*core.FileContext, len(contexts))
	for _, ctx := range contexts {
		contextMap[ctx.RelPath] = ctx
	}

	findings, err := rules.Run(cmd.Context(), contexts, fixableRules, flagWorkers)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if len(findings) == 0 {
		fmt.Fprintln(out, "No issues found that can be fixed.")
		return nil
	}

	fixes := engine.GenerateFixes(findings, contextMap)
	if len(fixes) == 0 {
		fmt.Fprintln(out, "No automatic fixes available for the found issues.")
		return nil
	}

	fmt.Fprint(out, engine.Preview(fixes))

	if dryRun {
		return nil
	}

	results := engine.ApplyFixes(fixes)

	totalFixed := 0
	for _, result := range results {
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "Error fixing %s: %v\n", result.File, result.Error)
			continue
		}
		totalFixed += result.FixesApplied
		if flagVerbose {
			fmt.Fprintf(out, "Fixed %d issues in %s\n", result.FixesApplied, result.File)
		}
	}

	fmt.Fprintf(out, "\nApplied %d fixes in %d files.\n", totalFixed, len(results))
	return nil
}
