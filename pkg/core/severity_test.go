package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityLabel(t *testing.T) {
	tests := []struct {
		severity Severity
		expected string
	}{
		{SeverityInfo, "INFO"},
		{SeverityMinor, "MINOR"},
		{SeverityMajor, "MAJOR"},
		{SeverityCritical, "CRITICAL"},
		{SeverityBlocker, "BLOCKER"},
		{Severity(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.severity.Label())
		})
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input    string
		expected Severity
		hasError bool
	}{
		{"info", SeverityInfo, false},
		{"MINOR", SeverityMinor, false},
		{" Major ", SeverityMajor, false},
		{"critical", SeverityCritical, false},
		{"blocker", SeverityBlocker, false},
		{"high", SeverityInfo, true},
		{"", SeverityInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseSeverity(tt.input)
			if tt.hasError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityMajor.IsAtLeast(SeverityMinor))
	assert.True(t, SeverityMajor.IsAtLeast(SeverityMajor))
	assert.False(t, SeverityMinor.IsAtLeast(SeverityCritical))
}

func TestSeverityMarshalText(t *testing.T) {
	text, err := SeverityCritical.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "critical", string(text))
}
