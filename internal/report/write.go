package report

import (
	"fmt"
	"io"

	"github.com/yacobolo/uijenforce/internal/enforcer"
)

// Write renders result in format. A result without a report renders as
// not scanned.
func Write(w io.Writer, result Result, format Format, config Config) error {
	if result.Report == nil {
		result.Report = &enforcer.Report{}
	}
	switch format {
	case FormatIssues, "":
		reporter := NewReporter(w, config)
		truncated := reporter.PrintIssues(result.Report.Violations)
		reporter.PrintSummary(result, truncated)

	case FormatSummary:
		verbose := NewVerboseReporter(w, ShouldUseColors(config))
		verbose.PrintStatistics(result)
		verbose.PrintCompliance(result)
		verbose.PrintWarnings(result)

	case FormatFull:
		reporter := NewReporter(w, config)
		truncated := reporter.PrintIssues(result.Report.Violations)
		reporter.PrintSummary(result, truncated)

		verbose := NewVerboseReporter(w, reporter.UseColors())
		verbose.PrintStatistics(result)
		verbose.PrintCompliance(result)
		verbose.PrintFixes(result.Fixes)
		verbose.PrintWarnings(result)

	case FormatJSON:
		return WriteJSON(w, result)

	case FormatMarkdown:
		return WriteMarkdown(w, result)

	case FormatPretty:
		return WritePretty(w, result, ShouldUseColors(config))

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}
