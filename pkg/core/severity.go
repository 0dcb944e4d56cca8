package core

import (
	"fmt"
	"strings"
)

// Severity ranks findings, following the SonarQube priority scale
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityMinor
	SeverityMajor
	SeverityCritical
	SeverityBlocker
)

var severityNames = [...]string{"info", "minor", "major", "critical", "blocker"}

// String returns the config spelling of severity
func (s Severity) String() string {
	if s < SeverityInfo || s > SeverityBlocker {
		return "unknown"
	}
	return severityNames[s]
}

// Label returns the upper-case form used in console output
func (s Severity) Label() string {
	return strings.ToUpper(s.String())
}

// ParseSeverity converts a config value to Severity
func ParseSeverity(s string) (Severity, error) {
	value := strings.ToLower(strings.TrimSpace(s))
	for i, name := range severityNames {
		if value == name {
			return Severity(i), nil
		}
	}
	return SeverityInfo, fmt.Errorf("unknown severity: %q", s)
}

// IsAtLeast returns true if this severity is at least as severe as other
func (s Severity) IsAtLeast(other Severity) bool {
	return s >= other
}

// MarshalText implements encoding.TextMarshaler
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
