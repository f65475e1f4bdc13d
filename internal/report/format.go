// Package report renders enforcement reports for terminals, CI logs and
// other tools.
package report

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/yacobolo/uijenforce/internal/enforcer"
)

// Format selects a renderer.
type Format string

const (
	FormatIssues   Format = "issues"
	FormatSummary  Format = "summary"
	FormatFull     Format = "full"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatPretty   Format = "pretty"
)

// Formats lists the accepted --output-format values.
var Formats = []Format{FormatIssues, FormatSummary, FormatFull, FormatJSON, FormatMarkdown, FormatPretty}

// ParseFormat resolves a format name. An empty name selects issues, like
// golangci-lint; an unknown name is an error.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "issues":
		return FormatIssues, nil
	case "summary":
		return FormatSummary, nil
	case "full":
		return FormatFull, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "pretty":
		return FormatPretty, nil
	}
	return "", fmt.Errorf("unknown output format %q (want one of %s)", name, formatList())
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Config controls rendering.
type Config struct {
	// UseColors forces colored output. When false, colors are still used
	// if the environment asks for them or stdout is a terminal.
	UseColors     bool
	PrintLines    bool
	PrintRuleName bool
	// MaxIssues caps the listed violations. Zero lists all of them.
	MaxIssues int
}

// Result is everything a report renders.
type Result struct {
	Report       *enforcer.Report
	Fixes        *enforcer.FixSummary
	FilesScanned int
	FilesSkipped int
}

// ShouldUseColors decides whether output is colored: the explicit flag,
// then FORCE_COLOR and GITHUB_ACTIONS, then whether stdout is a terminal.
func ShouldUseColors(config Config) bool {
	if config.UseColors {
		return true
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
