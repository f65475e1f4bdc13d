package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/yacobolo/uijenforce/internal/enforcer"
)

// Reporter prints violations one per line in golangci-lint style.
type Reporter struct {
	w             io.Writer
	useColors     bool
	printLines    bool
	printRuleName bool
	maxIssues     int
}

// NewReporter creates a reporter for config.
func NewReporter(w io.Writer, config Config) *Reporter {
	return &Reporter{
		w:             w,
		useColors:     ShouldUseColors(config),
		printLines:    config.PrintLines,
		printRuleName: config.PrintRuleName,
		maxIssues:     config.MaxIssues,
	}
}

// UseColors returns whether colors are enabled.
func (r *Reporter) UseColors() bool {
	return r.useColors
}

// PrintIssues prints violations in discovery order and returns how many
// were left out by the issue cap.
func (r *Reporter) PrintIssues(violations []enforcer.Violation) int {
	shown := violations
	if r.maxIssues > 0 && len(shown) > r.maxIssues {
		shown = shown[:r.maxIssues]
	}
	for _, v := range shown {
		r.printIssue(v)
	}
	return len(violations) - len(shown)
}

// printIssue formats one violation as "location: message (rule)".
func (r *Reporter) printIssue(v enforcer.Violation) {
	location := v.Location.String() + ":"

	ruleSuffix := ""
	if r.printRuleName {
		ruleSuffix = fmt.Sprintf(" (%s)", v.Kind)
	}

	fmt.Fprintf(r.w, "%s %s%s\n",
		RenderStyle(StyleCyan, location, r.useColors),
		v.Message,
		RenderStyle(StyleGray, ruleSuffix, r.useColors))

	if r.printLines && v.Context != "" {
		fmt.Fprintf(r.w, "\t%s\n", v.Context)
		caret := buildCaretIndicator(v.Context, v.Location.Column)
		fmt.Fprintf(r.w, "\t%s\n", RenderStyle(StyleYellow, caret, r.useColors))
	}
}

// buildCaretIndicator returns a "^" under the given 1-based column,
// keeping the tabs of the source line so the caret lines up.
func buildCaretIndicator(sourceLine string, column int) string {
	if column <= 0 {
		return "^"
	}
	prefixLen := min(column-1, len(sourceLine))

	var padding strings.Builder
	for _, ch := range sourceLine[:prefixLen] {
		if ch == '\t' {
			padding.WriteRune('\t')
		} else {
			padding.WriteRune(' ')
		}
	}
	return padding.String() + "^"
}

// PrintSummary prints the violation count and the per-rule breakdown.
func (r *Reporter) PrintSummary(result Result, truncated int) {
	rep := result.Report
	fmt.Fprintln(r.w, "")

	switch rep.Status() {
	case enforcer.StatusNotScanned:
		fmt.Fprintln(r.w, RenderStyle(StyleYellow, "not scanned", r.useColors))
		return
	case enforcer.StatusClean, enforcer.StatusIncomplete:
		fmt.Fprintln(r.w, RenderStyle(StyleGreen, "0 issues.", r.useColors))
	default:
		total := pluralizeCount(len(rep.Violations), "issue", "issues")
		if truncated > 0 {
			fmt.Fprintf(r.w, "%s (%d not shown):\n", total, truncated)
		} else {
			fmt.Fprintf(r.w, "%s:\n", total)
		}
		counts := rep.CountByKind()
		for _, k := range enforcer.Kinds {
			if counts[k] > 0 {
				fmt.Fprintf(r.w, "* %s: %d\n", k, counts[k])
			}
		}
	}

	for _, w := range rep.Warnings {
		fmt.Fprintf(r.w, "%s %v\n", RenderStyle(StyleYellow, "warning:", r.useColors), w)
	}

	if result.Fixes != nil {
		fmt.Fprintln(r.w, r.fixLine(result.Fixes))
	}

	if len(rep.Violations) > 0 && result.Fixes == nil {
		fmt.Fprintln(r.w, "")
		fmt.Fprintln(r.w, RenderStyle(StyleGray, "Hint: Run uijenforce fix to rewrite these violations", r.useColors))
	}
}

func (r *Reporter) fixLine(s *enforcer.FixSummary) string {
	style := StyleGreen
	if len(s.Failed) > 0 {
		style = StyleRed
	}
	return RenderStyle(style, s.Summary(), r.useColors)
}

// pluralizeCount returns count with the matching noun form.
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
