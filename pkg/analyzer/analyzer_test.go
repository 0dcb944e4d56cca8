package analyzer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/aiseeq/logcheck/pkg/core"
)

func TestAnalyzer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), Analyzer, "a")
}

func TestSuggestedFixes(t *testing.T) {
	analysistest.RunWithSuggestedFixes(t, analysistest.TestData(), Analyzer, "fix")
}

func TestCustomConfig(t *testing.T) {
	cfg, err := core.LoadConfig(filepath.Join(analysistest.TestData(), "src", "custom", "logcheck.yaml"))
	require.NoError(t, err)

	analysistest.Run(t, analysistest.TestData(), NewAnalyzer(core.MergeConfigs(core.DefaultConfig(), cfg)), "custom")
}

func TestConfigFlag(t *testing.T) {
	a := NewAnalyzer(nil)
	require.NoError(t, a.Flags.Set("config", filepath.Join(analysistest.TestData(), "src", "custom", "logcheck.yaml")))

	analysistest.Run(t, analysistest.TestData(), a, "custom")
}

func TestInvalidConfig(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Formatting.Signatures = []core.SignatureConfig{{Method: "Sprintf"}}

	_, err := checkerFor(cfg)
	assert.Error(t, err)
}

func TestAnalyzerMetadata(t *testing.T) {
	assert.Equal(t, "logcheck", Analyzer.Name)
	assert.NotEmpty(t, Analyzer.Doc)
	assert.NotNil(t, Analyzer.Flags.Lookup("config"))
}
