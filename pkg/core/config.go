package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aiseeq/logcheck/pkg/logcall"
)

// ConfigFileNames are searched, in order, in every directory up to the root
var ConfigFileNames = []string{".logcheck.yaml", "logcheck.yaml"}

// Config represents the logcheck configuration
type Config struct {
	Version    int                   `yaml:"version"`
	Settings   SettingsConfig        `yaml:"settings"`
	Rules      map[string]RuleConfig `yaml:"rules,omitempty"`
	Logging    SignatureSet          `yaml:"logging,omitempty"`
	Formatting SignatureSet          `yaml:"formatting,omitempty"`
}

// SettingsConfig contains global settings
type SettingsConfig struct {
	Exclude     []string `yaml:"exclude"`
	MinSeverity string   `yaml:"min_severity"`
	FailOn      string   `yaml:"fail_on"`
	Output      string   `yaml:"output"`
	Tests       bool     `yaml:"tests"`
}

// RuleConfig contains rule-specific settings
type RuleConfig struct {
	Enabled    bool        `yaml:"enabled"`
	Severity   string      `yaml:"severity,omitempty"`
	Exceptions []Exception `yaml:"exceptions,omitempty"`
}

// Exception defines when a rule should be skipped
type Exception struct {
	File   string `yaml:"file,omitempty"`
	Line   int    `yaml:"line,omitempty"`
	Files  string `yaml:"files,omitempty"` // Glob pattern
	Reason string `yaml:"reason,omitempty"`
}

// SignatureSet adds call signatures to, or replaces, the built-in ones
type SignatureSet struct {
	ReplaceDefaults bool              `yaml:"replace_defaults,omitempty"`
	Signatures      []SignatureConfig `yaml:"signatures,omitempty"`
	Markers         []string          `yaml:"markers,omitempty"`
}

// SignatureConfig is the yaml form of logcall.Signature.
// Params use the logcall.ParseTypeRef syntax; "*" matches any type.
type SignatureConfig struct {
	Package string   `yaml:"package"`
	Type    string   `yaml:"type,omitempty"`
	Method  string   `yaml:"method,omitempty"`
	Params  []string `yaml:"params"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Settings: SettingsConfig{
			Exclude: []string{
				"vendor/**",
				"testdata/**",
				"**/*.pb.go",
				"**/*_gen.go",
			},
			MinSeverity: "info",
			FailOn:      "critical",
			Output:      "console",
		},
		Rules: map[string]RuleConfig{},
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// FindConfig searches for a config file in startDir and its parents.
// It returns "" when none exists.
func FindConfig(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadConfigWithDefaults loads the project config, if any, over the defaults
func LoadConfigWithDefaults(projectRoot string) (*Config, error) {
	cfg := DefaultConfig()

	configPath, err := FindConfig(projectRoot)
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		return cfg, nil
	}

	projectCfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return MergeConfigs(cfg, projectCfg), nil
}

// MergeConfigs merges two configs, with override taking precedence
func MergeConfigs(base, override *Config) *Config {
	result := &Config{
		Version:    override.Version,
		Settings:   base.Settings,
		Rules:      make(map[string]RuleConfig),
		Logging:    mergeSignatureSets(base.Logging, override.Logging),
		Formatting: mergeSignatureSets(base.Formatting, override.Formatting),
	}
	if result.Version == 0 {
		result.Version = base.Version
	}

	if len(override.Settings.Exclude) > 0 {
		result.Settings.Exclude = override.Settings.Exclude
	}
	if override.Settings.MinSeverity != "" {
		result.Settings.MinSeverity = override.Settings.MinSeverity
	}
	if override.Settings.FailOn != "" {
		result.Settings.FailOn = override.Settings.FailOn
	}
	if override.Settings.Output != "" {
		result.Settings.Output = override.Settings.Output
	}
	if override.Settings.Tests {
		result.Settings.Tests = true
	}

	for name, rule := range base.Rules {
		result.Rules[name] = rule
	}
	for name, rule := range override.Rules {
		result.Rules[name] = rule
	}

	return result
}

func mergeSignatureSets(base, override SignatureSet) SignatureSet {
	if override.ReplaceDefaults {
		return override
	}
	return SignatureSet{
		ReplaceDefaults: base.ReplaceDefaults,
		Signatures:      append(append([]SignatureConfig(nil), base.Signatures...), override.Signatures...),
		Markers:         append(append([]string(nil), base.Markers...), override.Markers...),
	}
}

// Validate checks severities and signature type references
func (c *Config) Validate() error {
	var errs []error

	if c.Settings.MinSeverity != "" {
		if _, err := ParseSeverity(c.Settings.MinSeverity); err != nil {
			errs = append(errs, fmt.Errorf("settings.min_severity: %w", err))
		}
	}
	if c.Settings.FailOn != "" {
		if _, err := ParseSeverity(c.Settings.FailOn); err != nil {
			errs = append(errs, fmt.Errorf("settings.fail_on: %w", err))
		}
	}
	switch c.Settings.Output {
	case "", "console", "summary", "json":
	default:
		errs = append(errs, fmt.Errorf("settings.output: unknown format %q", c.Settings.Output))
	}

	for name, rule := range c.Rules {
		if rule.Severity == "" {
			continue
		}
		if _, err := ParseSeverity(rule.Severity); err != nil {
			errs = append(errs, fmt.Errorf("rules.%s.severity: %w", name, err))
		}
	}

	if _, err := c.CheckerConfig(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// IsRuleEnabled checks if a rule is enabled; unknown rules are enabled
func (c *Config) IsRuleEnabled(rule string) bool {
	if ruleCfg, ok := c.Rules[rule]; ok {
		return ruleCfg.Enabled
	}
	return true
}

// RuleSeverity returns the configured severity for rule, or fallback
func (c *Config) RuleSeverity(rule string, fallback Severity) Severity {
	ruleCfg, ok := c.Rules[rule]
	if !ok || ruleCfg.Severity == "" {
		return fallback
	}
	sev, err := ParseSeverity(ruleCfg.Severity)
	if err != nil {
		return fallback
	}
	return sev
}

// GetRuleExceptions returns exceptions for a specific rule
func (c *Config) GetRuleExceptions(rule string) []Exception {
	if ruleCfg, ok := c.Rules[rule]; ok {
		return ruleCfg.Exceptions
	}
	return nil
}

// IsExcepted reports whether a finding of rule at relPath:line is waived
func (c *Config) IsExcepted(rule, relPath string, line int) bool {
	for _, exc := range c.GetRuleExceptions(rule) {
		if exc.File != "" && exc.File == relPath && (exc.Line == 0 || exc.Line == line) {
			return true
		}
		if exc.Files != "" && matchGlob(exc.Files, relPath) {
			return true
		}
	}
	return false
}

// GetMinSeverity returns the minimum severity level
func (c *Config) GetMinSeverity() Severity {
	sev, err := ParseSeverity(c.Settings.MinSeverity)
	if err != nil {
		return SeverityInfo
	}
	return sev
}

// GetFailOn returns the severity that makes a check fail
func (c *Config) GetFailOn() Severity {
	sev, err := ParseSeverity(c.Settings.FailOn)
	if err != nil {
		return SeverityCritical
	}
	return sev
}

// ShouldExclude checks if a path should be excluded based on glob patterns
func (c *Config) ShouldExclude(path string) bool {
	for _, pattern := range c.Settings.Exclude {
		if matchGlob(pattern, path) {
			return true
		}
	}
	return false
}

// matchGlob matches path, or its base name, against pattern.
// A "dir/**" pattern matches everything below dir and "**/" matches any prefix.
func matchGlob(pattern, path string) bool {
	path = filepath.ToSlash(path)

	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		if path == prefix || strings.HasPrefix(path, prefix+"/") ||
			strings.Contains(path, "/"+prefix+"/") {
			return true
		}
	}
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		pattern = rest
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}
	matched, err := filepath.Match(pattern, filepath.Base(path))
	return err == nil && matched
}

// CheckerConfig builds the logcall configuration: the built-in signatures
// plus configured ones, unless a set replaces the defaults.
func (c *Config) CheckerConfig() (logcall.Config, error) {
	cfg := logcall.DefaultConfig()

	markers, err := parseTypeRefs(c.Logging.Markers)
	if err != nil {
		return cfg, fmt.Errorf("logging.markers: %w", err)
	}
	if c.Logging.ReplaceDefaults {
		cfg.Markers = markers
	} else {
		cfg.Markers = append(cfg.Markers, markers...)
	}

	logging, err := buildSignatures(c.Logging.Signatures)
	if err != nil {
		return cfg, fmt.Errorf("logging.signatures: %w", err)
	}
	if c.Logging.ReplaceDefaults {
		cfg.Logging = logging
	} else {
		cfg.Logging = append(cfg.Logging, logging...)
	}

	formatting, err := buildSignatures(c.Formatting.Signatures)
	if err != nil {
		return cfg, fmt.Errorf("formatting.signatures: %w", err)
	}
	if c.Formatting.ReplaceDefaults {
		cfg.Formatting = formatting
	} else {
		cfg.Formatting = append(cfg.Formatting, formatting...)
	}

	return cfg, nil
}

func parseTypeRefs(values []string) ([]logcall.TypeRef, error) {
	refs := make([]logcall.TypeRef, 0, len(values))
	for _, v := range values {
		ref, err := logcall.ParseTypeRef(v)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func buildSignatures(configs []SignatureConfig) ([]logcall.Signature, error) {
	sigs := make([]logcall.Signature, 0, len(configs))
	for i, sc := range configs {
		if sc.Package == "" {
			return nil, fmt.Errorf("#%d: package is required", i)
		}
		params, err := parseTypeRefs(sc.Params)
		if err != nil {
			return nil, fmt.Errorf("#%d: %w", i, err)
		}
		sigs = append(sigs, logcall.Signature{
			Owner:  logcall.Owner{Package: sc.Package, Type: sc.Type},
			Method: sc.Method,
			Params: params,
		})
	}
	return sigs, nil
}
