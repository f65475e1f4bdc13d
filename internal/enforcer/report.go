package enforcer

import (
	"fmt"
	"strings"
)

// Status summarizes a report.
type Status int

const (
	StatusNotScanned Status = iota
	StatusClean
	StatusViolations
	// StatusIncomplete means no violations were found but part of the
	// corpus could not be read.
	StatusIncomplete
)

func (s Status) String() string {
	switch s {
	case StatusNotScanned:
		return "not scanned"
	case StatusClean:
		return "clean"
	case StatusViolations:
		return "violations"
	case StatusIncomplete:
		return "incomplete"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Report is the ordered result of one scan.
type Report struct {
	Violations []Violation
	Warnings   []*CorpusError
	Targets    int

	scanned bool
}

// Scanned reports whether a scan produced r. The zero Report was never
// scanned and is distinct from a clean one.
func (r *Report) Scanned() bool {
	return r != nil && r.scanned
}

// Status classifies the report.
func (r *Report) Status() Status {
	switch {
	case !r.Scanned():
		return StatusNotScanned
	case len(r.Violations) > 0:
		return StatusViolations
	case len(r.Warnings) > 0:
		return StatusIncomplete
	}
	return StatusClean
}

// Clean reports whether a completed scan found nothing.
func (r *Report) Clean() bool {
	return r.Status() == StatusClean
}

// CountByKind counts violations per kind.
func (r *Report) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	if r == nil {
		return counts
	}
	for _, v := range r.Violations {
		counts[v.Kind]++
	}
	return counts
}

// Merge joins the reports of consecutive passes over parts of one corpus
// into a single scanned report. Violations keep their order and are
// renumbered. Nil reports are skipped.
func Merge(reports ...*Report) *Report {
	merged := &Report{scanned: true}
	for _, r := range reports {
		if r == nil {
			continue
		}
		for _, v := range r.Violations {
			v.Ordinal = len(merged.Violations)
			merged.Violations = append(merged.Violations, v)
		}
		merged.Warnings = append(merged.Warnings, r.Warnings...)
		merged.Targets += r.Targets
	}
	return merged
}

// Summary renders a one-paragraph human-readable account of the report.
func (r *Report) Summary() string {
	if !r.Scanned() {
		return "not scanned"
	}

	var b strings.Builder
	if len(r.Violations) == 0 {
		fmt.Fprintf(&b, "no violations in %s", plural(r.Targets, "target", "targets"))
	} else {
		counts := r.CountByKind()
		parts := make([]string, 0, len(Kinds))
		for _, k := range Kinds {
			if counts[k] > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
			}
		}
		fmt.Fprintf(&b, "%s in %s: %s",
			plural(len(r.Violations), "violation", "violations"),
			plural(r.Targets, "target", "targets"),
			strings.Join(parts, ", "))
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, " (%s could not be read)", plural(len(r.Warnings), "source", "sources"))
	}
	return b.String()
}

// FixOutcome records one attempted rewrite.
type FixOutcome struct {
	Violation Violation
	Property  string
	Value     string
	Err       error
}

// FixSummary is the result of a fix pass.
type FixSummary struct {
	Applied []FixOutcome
	Failed  []FixOutcome
	Skipped []Violation
}

// Summary renders the fix counts.
func (s *FixSummary) Summary() string {
	if s == nil {
		return "no fixes attempted"
	}
	out := fmt.Sprintf("fixed %s", plural(len(s.Applied), "violation", "violations"))
	if len(s.Failed) > 0 {
		out += fmt.Sprintf(", %d failed", len(s.Failed))
	}
	if len(s.Skipped) > 0 {
		out += fmt.Sprintf(", %d skipped", len(s.Skipped))
	}
	return out
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}
