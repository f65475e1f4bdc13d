package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/uijenforce/internal/catalog"
	"github.com/yacobolo/uijenforce/internal/report"
	"github.com/yacobolo/uijenforce/internal/source"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".uijenforce.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// Only flags the user set are loaded. An unset flag must not shadow
	// the config file key its getter falls back to.
	if err := k.Load(posflag.ProviderWithFlag(cmd.Flags(), ".", k, changedFlags(cmd.Flags())), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

func changedFlags(fs *pflag.FlagSet) func(*pflag.Flag) (string, interface{}) {
	return func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(fs, f)
	}
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// UIJENFORCE_OUTPUT_FORMAT -> output.format
	// UIJENFORCE_SCAN_ELEMENTS -> scan.elements
	if err := k.Load(env.Provider("UIJENFORCE_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "UIJENFORCE_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildRules resolves the rule catalog: built-in defaults, then the rules
// file, then the config file's rules block, then --extensions.
func buildRules() (catalog.Rules, error) {
	rules := catalog.DefaultRules()

	if path := getStringWithFallback("rules-file", "rules-file", ""); path != "" {
		loaded, err := catalog.LoadFile(path)
		if err != nil {
			return catalog.Rules{}, err
		}
		rules = loaded
	}

	if block := k.Cut("rules"); len(block.Keys()) > 0 {
		var over catalog.Rules
		if err := block.UnmarshalWithConf("", &over, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
			return catalog.Rules{}, fmt.Errorf("decoding rules from config: %w", err)
		}
		rules = catalog.Overlay(rules, over)
	}

	if exts := getStringsWithFallback("extensions", "scan.extensions", nil); len(exts) > 0 {
		rules.Extensions = exts
	}
	return rules, nil
}

// buildCatalog validates the resolved rules.
func buildCatalog() (*catalog.Catalog, error) {
	rules, err := buildRules()
	if err != nil {
		return nil, err
	}
	return catalog.New(rules)
}

// buildDiscoverOptions constructs the discovery settings from koanf state.
func buildDiscoverOptions(cat *catalog.Catalog) source.DiscoverOptions {
	return source.DiscoverOptions{
		Extensions: cat.Extensions(),
		Exclude:    getStringsWithFallback("exclude", "scan.exclude", nil),
		GitIgnore:  getBoolWithFallback("gitignore", "scan.gitignore", true),
	}
}

// buildReportConfig constructs the renderer settings from koanf state.
func buildReportConfig() report.Config {
	return report.Config{
		UseColors:     getBoolWithFallback("color", "color", false),
		PrintLines:    getBoolWithFallback("print-lines", "output.print-lines", true),
		PrintRuleName: getBoolWithFallback("print-rule-name", "output.print-rule-name", true),
		MaxIssues:     getIntWithFallback("max-issues", "output.max-issues", 0),
	}
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}

// getStringsWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	if k.Exists(flagKey) {
		return k.Strings(flagKey)
	}
	if k.Exists(configKey) {
		return k.Strings(configKey)
	}
	return defaultVal
}
