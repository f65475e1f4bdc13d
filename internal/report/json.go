package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/yacobolo/uijenforce/internal/enforcer"
)

// JSONVersion is bumped whenever the schema changes incompatibly.
const JSONVersion = "1.0"

// JSONOutput is the structured export schema.
type JSONOutput struct {
	Version    string          `json:"version"`
	Timestamp  string          `json:"timestamp"`
	Status     string          `json:"status"`
	Summary    JSONSummary     `json:"summary"`
	Violations []JSONViolation `json:"violations"`
	Warnings   []JSONWarning   `json:"warnings"`
	Fixes      *JSONFixes      `json:"fixes,omitempty"`
}

// JSONSummary holds the counts.
type JSONSummary struct {
	TotalViolations int            `json:"total_violations"`
	ByKind          map[string]int `json:"by_kind"`
	Targets         int            `json:"targets"`
	FilesScanned    int            `json:"files_scanned"`
	FilesSkipped    int            `json:"files_skipped"`
}

// JSONViolation is one violation.
type JSONViolation struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Location  string `json:"location"`
	File      string `json:"file,omitempty"`
	Line      int    `json:"line,omitempty"`
	Column    int    `json:"column,omitempty"`
	Element   string `json:"element,omitempty"`
	Property  string `json:"property"`
	Value     string `json:"value"`
	Canonical string `json:"canonical,omitempty"`
	Message   string `json:"message"`
	Source    string `json:"source,omitempty"`
}

// JSONWarning is a source that could not be read.
type JSONWarning struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// JSONFixes summarizes a fix pass.
type JSONFixes struct {
	Applied []JSONFix `json:"applied"`
	Failed  []JSONFix `json:"failed"`
	Skipped int       `json:"skipped"`
}

// JSONFix is one attempted rewrite.
type JSONFix struct {
	ViolationID string `json:"violation_id"`
	Location    string `json:"location"`
	Property    string `json:"property"`
	From        string `json:"from"`
	To          string `json:"to"`
	Error       string `json:"error,omitempty"`
}

// WriteJSON writes result as indented JSON.
func WriteJSON(w io.Writer, result Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildJSONOutput(result, time.Now()))
}

func buildJSONOutput(result Result, now time.Time) JSONOutput {
	rep := result.Report
	out := JSONOutput{
		Version:    JSONVersion,
		Timestamp:  now.Format(time.RFC3339),
		Status:     rep.Status().String(),
		Violations: []JSONViolation{},
		Warnings:   []JSONWarning{},
		Summary: JSONSummary{
			ByKind:       make(map[string]int),
			FilesScanned: result.FilesScanned,
			FilesSkipped: result.FilesSkipped,
		},
	}
	if rep != nil {
		out.Summary.TotalViolations = len(rep.Violations)
		out.Summary.Targets = rep.Targets
		for k, n := range rep.CountByKind() {
			out.Summary.ByKind[string(k)] = n
		}
		for _, v := range rep.Violations {
			out.Violations = append(out.Violations, JSONViolation{
				ID:        v.ID,
				Kind:      string(v.Kind),
				Location:  v.Location.String(),
				File:      v.Location.File,
				Line:      v.Location.Line,
				Column:    v.Location.Column,
				Element:   v.Location.Element,
				Property:  v.Property,
				Value:     v.Value,
				Canonical: v.Canonical,
				Message:   v.Message,
				Source:    v.Context,
			})
		}
		for _, w := range rep.Warnings {
			out.Warnings = append(out.Warnings, JSONWarning{Source: w.Source, Error: w.Err.Error()})
		}
	}

	if s := result.Fixes; s != nil {
		fixes := &JSONFixes{Applied: []JSONFix{}, Failed: []JSONFix{}, Skipped: len(s.Skipped)}
		for _, o := range s.Applied {
			fixes.Applied = append(fixes.Applied, jsonFix(o))
		}
		for _, o := range s.Failed {
			fixes.Failed = append(fixes.Failed, jsonFix(o))
		}
		out.Fixes = fixes
	}
	return out
}

func jsonFix(o enforcer.FixOutcome) JSONFix {
	f := JSONFix{
		ViolationID: o.Violation.ID,
		Location:    o.Violation.Location.String(),
		Property:    o.Property,
		From:        o.Violation.Value,
		To:          o.Value,
	}
	if o.Err != nil {
		f.Error = o.Err.Error()
	}
	return f
}
