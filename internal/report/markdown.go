package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/yacobolo/uijenforce/internal/enforcer"
)

// WriteMarkdown writes result as a markdown document suitable for PR
// comments and CI job summaries.
func WriteMarkdown(w io.Writer, result Result) error {
	_, err := io.WriteString(w, buildMarkdown(result))
	return err
}

// WritePretty renders the markdown report for a terminal.
func WritePretty(w io.Writer, result Result, useColors bool) error {
	style := glamour.WithStandardStyle("notty")
	if useColors {
		style = glamour.WithAutoStyle()
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(buildMarkdown(result))
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func buildMarkdown(result Result) string {
	rep := result.Report
	var b strings.Builder

	b.WriteString("# Design Rule Report\n\n")
	fmt.Fprintf(&b, "**Status:** %s  \n", rep.Status())
	fmt.Fprintf(&b, "**Summary:** %s\n\n", rep.Summary())

	if rep.Scanned() {
		b.WriteString("| Rule | Violations |\n|---|---:|\n")
		counts := rep.CountByKind()
		for _, k := range enforcer.Kinds {
			fmt.Fprintf(&b, "| `%s` | %d |\n", k, counts[k])
		}
		fmt.Fprintf(&b, "| **Total** | **%d** |\n\n", len(rep.Violations))
	}

	if rep != nil && len(rep.Violations) > 0 {
		b.WriteString("## Violations\n\n")
		b.WriteString("| # | Location | Rule | Property | Value |\n|---:|---|---|---|---|\n")
		for i, v := range rep.Violations {
			fmt.Fprintf(&b, "| %d | `%s` | %s | `%s` | `%s` |\n",
				i+1, escapeCell(v.Location.String()), v.Kind, v.Property, escapeCell(v.Value))
		}
		b.WriteString("\n")
	}

	if rep != nil && len(rep.Warnings) > 0 {
		b.WriteString("## Unreadable sources\n\n")
		for _, w := range rep.Warnings {
			fmt.Fprintf(&b, "- `%s`: %s\n", w.Source, w.Err)
		}
		b.WriteString("\n")
	}

	if s := result.Fixes; s != nil {
		b.WriteString("## Fixes\n\n")
		fmt.Fprintf(&b, "%s.\n\n", upperFirst(s.Summary()))
		for _, o := range s.Failed {
			fmt.Fprintf(&b, "- failed `%s` %s: %v\n", escapeCell(o.Violation.Location.String()), o.Property, o.Err)
		}
		if len(s.Failed) > 0 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
