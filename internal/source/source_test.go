package source

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/uijenforce/internal/catalog"
	"github.com/yacobolo/uijenforce/internal/classify"
	"github.com/yacobolo/uijenforce/internal/enforcer"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.css"), "")
	writeFile(t, filepath.Join(root, "a", "app.JS"), "")
	writeFile(t, filepath.Join(root, "a", "readme.md"), "")
	writeFile(t, filepath.Join(root, "node_modules", "lib", "x.css"), "")
	writeFile(t, filepath.Join(root, "dist", "bundle.js"), "")
	writeFile(t, filepath.Join(root, "vendor", "v.css"), "")
	writeFile(t, filepath.Join(root, ".gitignore"), "dist/\n")

	files, stats, err := Discover(root, DiscoverOptions{
		Extensions: catalog.Default().Extensions(),
		Exclude:    []string{"vendor/**"},
		GitIgnore:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "a", "app.JS"),
		filepath.Join(root, "b.css"),
	}, files)
	assert.Equal(t, 2, stats.FilesScanned)
	assert.Equal(t, stats.FilesDiscovered-2, stats.FilesSkipped)
}

func TestDiscover_RootWithGlobCharacters(t *testing.T) {
	root := filepath.Join(t.TempDir(), "site[v2]{old}")
	writeFile(t, filepath.Join(root, "css", "app.css"), "")
	writeFile(t, filepath.Join(root, "index.html"), "")

	files, stats, err := Discover(root, DiscoverOptions{Extensions: []string{".css", ".html"}})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "css", "app.css"),
		filepath.Join(root, "index.html"),
	}, files)
	assert.Equal(t, 2, stats.FilesScanned)
}

func TestDiscover_SingleFileAndMissing(t *testing.T) {
	root := t.TempDir()
	css := filepath.Join(root, "one.css")
	md := filepath.Join(root, "notes.md")
	writeFile(t, css, "")
	writeFile(t, md, "")

	opts := DiscoverOptions{Extensions: []string{".css"}}

	files, _, err := Discover(css, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{css}, files)

	files, stats, err := Discover(md, opts)
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Equal(t, 1, stats.FilesSkipped)

	_, _, err = Discover(filepath.Join(root, "nope"), opts)
	assert.ErrorContains(t, err, "path does not exist")

	_, _, err = Discover(root, DiscoverOptions{Exclude: []string{"[unclosed"}})
	assert.ErrorContains(t, err, "invalid exclude pattern")
}

func TestRuleContexts(t *testing.T) {
	content := `.card {
  color: #333;
}

.uij-btn, [role="button"] {
  background: red;
  &:hover {
    background: blue;
  }
}

@media (max-width: 600px) {
  button.primary { background: #32CD32; }
}
`
	lines := splitLines(content)
	ctx := ruleContexts(content, len(lines))

	require.Len(t, ctx[1], 1)
	assert.Equal(t, []string{"card"}, ctx[1][0].Classes)
	assert.Nil(t, ctx[3])

	require.Len(t, ctx[5], 2)
	assert.Equal(t, []string{"uij-btn"}, ctx[5][0].Classes)
	assert.Equal(t, ctx[5], ctx[7], "nested & rule inherits the parent selector")

	require.Len(t, ctx[12], 1)
	assert.Equal(t, "button", ctx[12][0].Tag)
	assert.Equal(t, []string{"primary"}, ctx[12][0].Classes)
}

func TestRuleContexts_NestedAmpersand(t *testing.T) {
	content := `.uij-btn {
  background: transparent;
  &.primary {
    background: #32CD32;
  }
  &-primary { color: #fff; }
  &:hover { background: #111; }
}
`
	lines := splitLines(content)
	ctx := ruleContexts(content, len(lines))

	require.Len(t, ctx[3], 1)
	assert.Equal(t, []string{"uij-btn", "primary"}, ctx[3][0].Classes)
	require.Len(t, ctx[5], 1)
	assert.Equal(t, []string{"uij-btn-primary"}, ctx[5][0].Classes)
	assert.Equal(t, ctx[1], ctx[6])
}

func TestCorpus_NestedPrimaryIsExempt(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "btn.scss")
	content := `.uij-btn {
  background: transparent;
  &.primary {
    background: #32CD32;
  }
  &:hover {
    background: #222222;
  }
}
`
	writeFile(t, path, content)

	e := newEngine()
	report, err := e.Scan(Corpus([]string{path}, catalog.Default().PrimaryMarkers()))
	require.NoError(t, err)
	require.Len(t, report.Violations, 1, report.Summary())
	assert.Equal(t, enforcer.KindNonTransparent, report.Violations[0].Kind)
	assert.Equal(t, 7, report.Violations[0].Location.Line)

	_, err = e.Fix(report)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "background: #32CD32;")
	assert.Contains(t, string(data), "background: transparent;\n  }\n}")
}

func TestProximityContexts(t *testing.T) {
	lines := make([]string, 14)
	lines[0] = `<button class="uij-btn">`
	lines[1] = `  <span style="background: red">`
	lines[12] = `<button class="uij-btn uij-btn-primary" style="background: #32CD32">`

	ctx := proximityContexts(lines, []string{"primary", "uij-btn-primary"})
	for i := 0; i < 10; i++ {
		require.Len(t, ctx[i], 1, "line %d", i)
		assert.Equal(t, "button", ctx[i][0].Tag)
		assert.Empty(t, ctx[i][0].Classes)
	}
	assert.Nil(t, ctx[10])
	assert.Nil(t, ctx[11])
	assert.ElementsMatch(t, []string{"primary", "uij-btn-primary"}, ctx[12][0].Classes)
}

func newEngine() *enforcer.Engine {
	return enforcer.New(classify.New(catalog.Default()))
}

func TestCorpus_ScanFixRescan(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.css")
	writeFile(t, path, ".card {\n  padding: 4px;\n  color: red;\n}\n")

	e := newEngine()
	corpus := Corpus([]string{path}, catalog.Default().PrimaryMarkers())

	report, err := e.Scan(corpus)
	require.NoError(t, err)
	require.Len(t, report.Violations, 1)

	v := report.Violations[0]
	assert.Equal(t, enforcer.KindForbiddenColor, v.Kind)
	assert.Equal(t, path, v.Location.File)
	assert.Equal(t, 3, v.Location.Line)
	assert.Equal(t, 10, v.Location.Column)
	assert.Equal(t, "red", v.Value)
	assert.Equal(t, "  color: red;", v.Context)

	summary, err := e.Fix(report)
	require.NoError(t, err)
	assert.Len(t, summary.Applied, 1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ".card {\n  padding: 4px;\n  color: #888888;\n}\n", string(data))

	rescan, err := e.Scan(Corpus([]string{path}, nil))
	require.NoError(t, err)
	assert.True(t, rescan.Clean())
}

func TestCorpus_FixesEveryKind(t *testing.T) {
	root := t.TempDir()
	css := filepath.Join(root, "buttons.css")
	writeFile(t, css, `.uij-btn {
  background: #333333 url(bg.png);
  border: 1px solid #ff0000;
  box-shadow: 0 2px 4px #000 !important;
}
.uij-btn.primary { background: #32CD32; }
`)
	html := filepath.Join(root, "index.html")
	writeFile(t, html, `<nav>
  <button class="uij-btn" style="background: #444; color: blue">Menu</button>
</nav>
`)

	e := newEngine()
	corpus := Corpus([]string{css, html}, catalog.Default().PrimaryMarkers())
	report, err := e.Scan(corpus)
	require.NoError(t, err)

	kinds := report.CountByKind()
	assert.Equal(t, 2, kinds[enforcer.KindNonTransparent])
	assert.Equal(t, 2, kinds[enforcer.KindForbiddenColor])
	assert.Equal(t, 1, kinds[enforcer.KindForbiddenProperty])

	summary, err := e.Fix(report)
	require.NoError(t, err)
	assert.Empty(t, summary.Failed)

	got, err := os.ReadFile(css)
	require.NoError(t, err)
	assert.Equal(t, `.uij-btn {
  background: transparent url(bg.png);
  border: 1px solid var(--uij-border);
  box-shadow: none !important;
}
.uij-btn.primary { background: #32CD32; }
`, string(got))

	got, err = os.ReadFile(html)
	require.NoError(t, err)
	assert.Contains(t, string(got), `style="background: transparent; color: #888888"`)

	rescan, err := e.Scan(Corpus([]string{css, html}, catalog.Default().PrimaryMarkers()))
	require.NoError(t, err)
	assert.True(t, rescan.Clean(), rescan.Summary())
}

func TestCorpus_ScriptStyleAssignments(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "menu.js")
	writeFile(t, path, "el.style.color = 'red';\nel.style.backgroundColor = \"#ff0000\";\nel.style.color = theme.text;\n")

	e := newEngine()
	report, err := e.Scan(Corpus([]string{path}, nil))
	require.NoError(t, err)
	require.Len(t, report.Violations, 2, report.Summary())
	assert.Equal(t, "color", report.Violations[0].Property)
	assert.Equal(t, "background-color", report.Violations[1].Property)

	_, err = e.Fix(report)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "el.style.color = '#888888';\nel.style.backgroundColor = \"transparent\";\nel.style.color = theme.text;\n", string(data))
}

func TestCorpus_UnreadableFileIsWarning(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "good.css")
	writeFile(t, good, "a { color: blue; }\n")

	report, err := newEngine().Scan(Corpus([]string{filepath.Join(root, "gone.css"), good}, nil))
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, filepath.Join(root, "gone.css"), report.Warnings[0].Source)
	assert.Len(t, report.Violations, 1)
}

func TestLine_WriteFailureIsRefused(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	path := filepath.Join(root, "locked.css")
	writeFile(t, path, "a { color: red; }\n")

	f, err := Load(path, nil)
	require.NoError(t, err)
	require.NoError(t, os.Chmod(path, 0o444))
	t.Cleanup(func() { _ = os.Chmod(path, 0o644) })

	line := f.Line(1)
	err = line.SetDeclaredValue("color", "#888888")
	assert.ErrorIs(t, err, enforcer.ErrMutationRefused)
	assert.Equal(t, "a { color: red; }", line.Text())
}

func TestLine_SetSameValueIsNoop(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.css")
	writeFile(t, path, "a { color: #888888; }")

	f, err := Load(path, nil)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	// No write happens, so the missing file does not matter.
	assert.NoError(t, f.Line(1).SetDeclaredValue("color", "#888888"))
	assert.Error(t, f.Line(1).SetDeclaredValue("box-shadow", "none"))
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
