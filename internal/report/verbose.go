package report

import (
	"fmt"
	"io"

	"github.com/yacobolo/uijenforce/internal/enforcer"
)

// VerboseReporter prints statistics instead of individual violations.
type VerboseReporter struct {
	w         io.Writer
	useColors bool
}

// NewVerboseReporter creates a verbose reporter.
func NewVerboseReporter(w io.Writer, useColors bool) *VerboseReporter {
	return &VerboseReporter{w: w, useColors: useColors}
}

// PrintStatistics prints scan totals and the per-rule counts.
func (r *VerboseReporter) PrintStatistics(result Result) {
	rep := result.Report
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Design Rule Statistics", r.useColors))
	fmt.Fprintln(r.w, "----------------------")

	fmt.Fprintf(r.w, "Status:            %s\n", rep.Status())
	fmt.Fprintf(r.w, "Files Scanned:     %d\n", result.FilesScanned)
	fmt.Fprintf(r.w, "Files Skipped:     %d\n", result.FilesSkipped)
	if rep != nil {
		fmt.Fprintf(r.w, "Targets Inspected: %d\n", rep.Targets)
		fmt.Fprintf(r.w, "Violations:        %d\n", len(rep.Violations))
	}

	counts := rep.CountByKind()
	for _, k := range enforcer.Kinds {
		fmt.Fprintf(r.w, "  %-24s %d\n", k, counts[k])
	}
}

// PrintCompliance prints the share of inspected targets with no violation
// as a progress bar.
func (r *VerboseReporter) PrintCompliance(result Result) {
	rep := result.Report
	if rep == nil || rep.Targets == 0 {
		return
	}
	offending := make(map[string]bool)
	for _, v := range rep.Violations {
		offending[targetKey(v)] = true
	}
	pct := 100 * float64(rep.Targets-len(offending)) / float64(rep.Targets)

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Compliance", r.useColors))
	fmt.Fprintln(r.w, "----------")
	printProgressBar(r.w, pct)
}

// targetKey identifies the target a violation was found on, ignoring the
// column.
func targetKey(v enforcer.Violation) string {
	loc := v.Location
	loc.Column = 0
	return loc.String()
}

func printProgressBar(w io.Writer, pct float64) {
	const width = 40
	filled := int(pct / 100 * width)
	filled = max(0, min(width, filled))

	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	fmt.Fprintf(w, "[%s] %.1f%%\n", string(bar), pct)
}

// PrintFixes lists the outcome of every attempted rewrite.
func (r *VerboseReporter) PrintFixes(s *enforcer.FixSummary) {
	if s == nil {
		return
	}
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleGreen, "Fixes", r.useColors))
	fmt.Fprintln(r.w, "-----")
	for _, o := range s.Applied {
		fmt.Fprintf(r.w, "✓ %s: %s: %s → %s\n", o.Violation.Location, o.Property, o.Violation.Value, o.Value)
	}
	for _, o := range s.Failed {
		fmt.Fprintf(r.w, "%s %s: %s: %v\n", RenderStyle(StyleRed, "✗", r.useColors), o.Violation.Location, o.Property, o.Err)
	}
	if len(s.Skipped) > 0 {
		fmt.Fprintf(r.w, "%d skipped\n", len(s.Skipped))
	}
}

// PrintWarnings lists sources that could not be read.
func (r *VerboseReporter) PrintWarnings(result Result) {
	if result.Report == nil || len(result.Report.Warnings) == 0 {
		return
	}
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "--------")
	for _, w := range result.Report.Warnings {
		fmt.Fprintf(r.w, "• %v\n", w)
	}
}
