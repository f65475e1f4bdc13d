package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/uijenforce/internal/catalog"
)

// resetKoanf creates a fresh koanf instance for each test.
func resetKoanf() {
	k = koanf.New(".")
}

func TestConfigFileLoading(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".uijenforce.yaml")
	configContent := `
verbose: true
scan:
  exclude:
    - "dist/**"
  elements: true
output:
  format: json
  max-issues: 25
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	assert.True(t, k.Bool("verbose"))
	assert.Equal(t, []string{"dist/**"}, k.Strings("scan.exclude"))
	assert.True(t, k.Bool("scan.elements"))
	assert.Equal(t, "json", k.String("output.format"))
	assert.Equal(t, 25, k.Int("output.max-issues"))
}

func TestConfigFileNotFound_UsesDefaults(t *testing.T) {
	resetKoanf()

	require.NoError(t, loadConfigFromPath("/nonexistent/.uijenforce.yaml"))

	config := buildReportConfig()
	assert.True(t, config.PrintLines)
	assert.True(t, config.PrintRuleName)
	assert.Equal(t, 0, config.MaxIssues)

	rules, err := buildRules()
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultRules(), rules)
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".uijenforce.yaml")
	configContent := `
output:
  format: markdown
scan:
  gitignore: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	t.Setenv("UIJENFORCE_OUTPUT_FORMAT", "json")
	t.Setenv("UIJENFORCE_SCAN_GITIGNORE", "false")

	require.NoError(t, loadConfigFromPath(configPath))

	assert.Equal(t, "json", getStringWithFallback("output-format", "output.format", ""))
	assert.False(t, getBoolWithFallback("gitignore", "scan.gitignore", true))
}

func TestBuildRules_ConfigBlockOverlaysDefaults(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".uijenforce.yaml")
	configContent := `
rules:
  accent: "#1e90ff"
  forbidden-properties:
    - box-shadow
  tokens:
    muted-text: "#777777"
scan:
  extensions: [".css"]
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	rules, err := buildRules()
	require.NoError(t, err)

	defaults := catalog.DefaultRules()
	assert.Equal(t, "#1e90ff", rules.Accent)
	assert.Equal(t, []string{"box-shadow"}, rules.ForbiddenProperties)
	assert.Equal(t, "#777777", rules.Tokens.MutedText)
	assert.Equal(t, defaults.Tokens.Border, rules.Tokens.Border)
	assert.Equal(t, defaults.ForbiddenColors, rules.ForbiddenColors)
	assert.Equal(t, []string{".css"}, rules.Extensions)
}

func TestBuildRules_RulesFileThenConfigBlock(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.toml")
	require.NoError(t, os.WriteFile(rulesPath, []byte(`
accent = "#ff8800"
primary-markers = ["cta"]
`), 0644))

	configPath := filepath.Join(dir, ".uijenforce.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
rules-file: `+rulesPath+`
rules:
  primary-markers: [main-cta]
`), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	rules, err := buildRules()
	require.NoError(t, err)
	assert.Equal(t, "#ff8800", rules.Accent)
	assert.Equal(t, []string{"main-cta"}, rules.PrimaryMarkers)
}

func TestBuildCatalog_InvalidRules(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".uijenforce.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
rules:
  allowed-colors: ["#ff0000"]
`), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	_, err := buildCatalog()
	var cfgErr *catalog.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestGetStringWithFallback(t *testing.T) {
	resetKoanf()

	assert.Equal(t, "default", getStringWithFallback("flag-key", "config.key", "default"))
}

func TestGetBoolWithFallback(t *testing.T) {
	resetKoanf()

	assert.False(t, getBoolWithFallback("flag-key", "config.key", false))
	assert.True(t, getBoolWithFallback("flag-key", "config.key", true))
}

func TestGetIntWithFallback(t *testing.T) {
	resetKoanf()

	assert.Equal(t, 42, getIntWithFallback("flag-key", "config.key", 42))
}

func TestGetStringsWithFallback(t *testing.T) {
	resetKoanf()

	assert.Equal(t, []string{"a"}, getStringsWithFallback("flag-key", "config.key", []string{"a"}))
	require.NoError(t, k.Set("config.key", []string{"b", "c"}))
	assert.Equal(t, []string{"b", "c"}, getStringsWithFallback("flag-key", "config.key", nil))
	require.NoError(t, k.Set("flag-key", []string{"d"}))
	assert.Equal(t, []string{"d"}, getStringsWithFallback("flag-key", "config.key", nil))
}
