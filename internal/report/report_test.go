package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/uijenforce/internal/catalog"
	"github.com/yacobolo/uijenforce/internal/classify"
	"github.com/yacobolo/uijenforce/internal/enforcer"
)

type lineTarget struct {
	file   string
	line   int
	text   string
	styles map[string]string
	refuse bool
}

func (l *lineTarget) DeclaredValue(property string) (string, bool) {
	v, ok := l.styles[property]
	return v, ok
}

func (l *lineTarget) SetDeclaredValue(property, value string) error {
	if l.refuse {
		return enforcer.ErrMutationRefused
	}
	l.styles[property] = value
	return nil
}

func (l *lineTarget) Location() enforcer.Location {
	return enforcer.Location{Kind: enforcer.LocationFile, File: l.file, Line: l.line, Column: 3}
}

func (l *lineTarget) Context() string { return l.text }

func noColors(t *testing.T) {
	t.Helper()
	t.Setenv("FORCE_COLOR", "")
	t.Setenv("GITHUB_ACTIONS", "")
}

func scan(t *testing.T) (*enforcer.Engine, *enforcer.Report) {
	t.Helper()
	e := enforcer.New(classify.New(catalog.Default()), enforcer.WithIDGenerator(func() string { return "id" }))
	corpus := enforcer.Concat(
		enforcer.Targets(
			&lineTarget{file: "a.css", line: 2, text: "\tcolor: red;", styles: map[string]string{"color": "red"}},
			&lineTarget{file: "a.css", line: 5, text: "  box-shadow: 0 0 1px #000;", styles: map[string]string{"box-shadow": "0 0 1px #000"}, refuse: true},
			&lineTarget{file: "b.css", line: 1, text: "ok", styles: map[string]string{"color": "#333"}},
		),
		func(yield func(enforcer.Target, error) bool) {
			yield(nil, &enforcer.CorpusError{Source: "gone.css", Err: errors.New("permission denied")})
		},
	)
	rep, err := e.Scan(corpus)
	require.NoError(t, err)
	return e, rep
}

func TestBuildCaretIndicator(t *testing.T) {
	tests := []struct {
		name       string
		sourceLine string
		column     int
		want       string
	}{
		{name: "spaces only", sourceLine: "  color: red;", column: 10, want: "         ^"},
		{name: "tabs and spaces", sourceLine: "\t\tcolor: red;", column: 10, want: "\t\t       ^"},
		{name: "start of line", sourceLine: "color: red", column: 1, want: "^"},
		{name: "column 0 fallback", sourceLine: "color: red", column: 0, want: "^"},
		{name: "column beyond line length", sourceLine: "short", column: 100, want: "     ^"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, buildCaretIndicator(tt.sourceLine, tt.column))
		})
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"", "issues", "summary", "full", "json", "markdown", "md", "pretty", " JSON "} {
		_, err := ParseFormat(name)
		assert.NoError(t, err, name)
	}
	f, _ := ParseFormat("md")
	assert.Equal(t, FormatMarkdown, f)

	_, err := ParseFormat("xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestWrite_Issues(t *testing.T) {
	noColors(t)
	_, rep := scan(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Result{Report: rep}, FormatIssues, Config{PrintLines: true, PrintRuleName: true}))

	want := "a.css:2:3: forbidden color \"red\" on color (forbidden-color)\n" +
		"\t\tcolor: red;\n" +
		"\t\t ^\n" +
		"a.css:5:3: forbidden property box-shadow: 0 0 1px #000 (forbidden-property)\n" +
		"\t  box-shadow: 0 0 1px #000;\n" +
		"\t  ^\n" +
		"\n" +
		"2 issues:\n" +
		"* forbidden-color: 1\n" +
		"* forbidden-property: 1\n" +
		"warning: gone.css: permission denied\n" +
		"\n" +
		"Hint: Run uijenforce fix to rewrite these violations\n"
	assert.Equal(t, want, buf.String())
}

func TestWrite_IssuesTruncated(t *testing.T) {
	noColors(t)
	_, rep := scan(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Result{Report: rep}, FormatIssues, Config{MaxIssues: 1}))
	assert.Contains(t, buf.String(), "2 issues (1 not shown):")
	assert.NotContains(t, buf.String(), "box-shadow")
}

func TestWrite_NotScanned(t *testing.T) {
	noColors(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Result{}, FormatIssues, Config{}))
	assert.Equal(t, "\nnot scanned\n", buf.String())
}

func TestWrite_FullWithFixes(t *testing.T) {
	noColors(t)
	e, rep := scan(t)
	fixes, err := e.Fix(rep)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Result{Report: rep, Fixes: fixes, FilesScanned: 2}, FormatFull, Config{}))
	out := buf.String()

	assert.Contains(t, out, "fixed 1 violation, 1 failed")
	assert.Contains(t, out, "Design Rule Statistics")
	assert.Contains(t, out, "Files Scanned:     2")
	assert.Contains(t, out, "Targets Inspected: 3")
	assert.Contains(t, out, "✓ a.css:2:3: color: red → #888888")
	assert.Contains(t, out, "✗ a.css:5:3: box-shadow:")
	assert.Contains(t, out, "33.3%")
	assert.NotContains(t, out, "Hint:")
}

func TestBuildJSONOutput(t *testing.T) {
	e, rep := scan(t)
	fixes, err := e.Fix(rep)
	require.NoError(t, err)

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	out := buildJSONOutput(Result{Report: rep, Fixes: fixes, FilesScanned: 2}, now)

	assert.Equal(t, JSONVersion, out.Version)
	assert.Equal(t, "2026-01-02T03:04:05Z", out.Timestamp)
	assert.Equal(t, "violations", out.Status)
	assert.Equal(t, 2, out.Summary.TotalViolations)
	assert.Equal(t, map[string]int{"forbidden-color": 1, "forbidden-property": 1}, out.Summary.ByKind)
	require.Len(t, out.Violations, 2)
	assert.Equal(t, "a.css:2:3", out.Violations[0].Location)
	assert.Equal(t, "red", out.Violations[0].Canonical)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, "gone.css", out.Warnings[0].Source)
	require.NotNil(t, out.Fixes)
	assert.Len(t, out.Fixes.Applied, 1)
	require.Len(t, out.Fixes.Failed, 1)
	assert.Contains(t, out.Fixes.Failed[0].Error, "refused")

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Result{Report: rep}))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.NotContains(t, decoded, "fixes")
}

func TestBuildMarkdown(t *testing.T) {
	_, rep := scan(t)
	md := buildMarkdown(Result{Report: rep})

	assert.Contains(t, md, "# Design Rule Report")
	assert.Contains(t, md, "**Status:** violations")
	assert.Contains(t, md, "| `forbidden-color` | 1 |")
	assert.Contains(t, md, "| `non-transparent-element` | 0 |")
	assert.Contains(t, md, "| 1 | `a.css:2:3` | forbidden-color | `color` | `red` |")
	assert.Contains(t, md, "- `gone.css`: permission denied")
	assert.NotContains(t, md, "## Fixes")
}

func TestWritePretty(t *testing.T) {
	_, rep := scan(t)
	var buf bytes.Buffer
	require.NoError(t, WritePretty(&buf, Result{Report: rep}, false))
	assert.Contains(t, buf.String(), "Design Rule Report")
	assert.Contains(t, buf.String(), "forbidden-color")
}
