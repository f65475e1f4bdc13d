package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yacobolo/uijenforce/internal/cssvalue"
	"github.com/yacobolo/uijenforce/internal/enforcer"
)

// File is a loaded source file split into lines. Rewrites go straight back
// to disk.
type File struct {
	Path string

	lines    []string
	mode     os.FileMode
	contexts [][]cssvalue.Element
}

// Load reads path and computes the element context of each line.
func Load(path string, primaryMarkers []string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	// #nosec G304 - path comes from discovery under a user-chosen root
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	content := string(data)
	f := &File{
		Path:  path,
		lines: strings.Split(content, "\n"),
		mode:  info.Mode().Perm(),
	}
	if stylesheetExtensions[strings.ToLower(filepath.Ext(path))] {
		f.contexts = ruleContexts(content, len(f.lines))
	} else {
		f.contexts = proximityContexts(f.lines, primaryMarkers)
	}
	return f, nil
}

// Lines returns the number of lines.
func (f *File) Lines() int {
	return len(f.lines)
}

// Line returns the target for the 1-based line n.
func (f *File) Line(n int) *Line {
	if n < 1 || n > len(f.lines) {
		return nil
	}
	return &Line{file: f, index: n - 1}
}

// setLine replaces one line and writes the file. On a failed write the
// in-memory line is restored.
func (f *File) setLine(index int, text string) error {
	old := f.lines[index]
	f.lines[index] = text
	if err := os.WriteFile(f.Path, []byte(strings.Join(f.lines, "\n")), f.mode); err != nil {
		f.lines[index] = old
		return fmt.Errorf("%w: writing %s: %w", enforcer.ErrMutationRefused, f.Path, err)
	}
	return nil
}

// Line is one line of a source file seen as a scan target.
type Line struct {
	file  *File
	index int

	parsedText string
	decls      []declaration
}

// Text returns the current line text.
func (l *Line) Text() string {
	return l.file.lines[l.index]
}

// Number returns the 1-based line number.
func (l *Line) Number() int {
	return l.index + 1
}

func (l *Line) declarations() []declaration {
	text := l.Text()
	if l.decls == nil || l.parsedText != text {
		l.decls = extractDeclarations(text)
		if l.decls == nil {
			l.decls = []declaration{}
		}
		l.parsedText = text
	}
	return l.decls
}

// DeclaredValue returns the value the line declares for property.
func (l *Line) DeclaredValue(property string) (string, bool) {
	d, ok := lookup(l.declarations(), strings.ToLower(property))
	if !ok {
		return "", false
	}
	return d.Value, true
}

// SetDeclaredValue rewrites the value span of property on this line and
// saves the file. Writing the value already present is a no-op.
func (l *Line) SetDeclaredValue(property, value string) error {
	d, ok := lookup(l.declarations(), strings.ToLower(property))
	if !ok {
		return fmt.Errorf("%w: %s:%d no longer declares %s", enforcer.ErrMutationRefused, l.file.Path, l.Number(), property)
	}
	if d.Value == value {
		return nil
	}
	text := l.Text()
	return l.file.setLine(l.index, text[:d.Start]+value+text[d.End:])
}

// Location points at the start of the line.
func (l *Line) Location() enforcer.Location {
	return enforcer.Location{Kind: enforcer.LocationFile, File: l.file.Path, Line: l.Number(), Column: 1}
}

// LocateValue points at the value of property, 1-based.
func (l *Line) LocateValue(property string) enforcer.Location {
	loc := l.Location()
	if d, ok := lookup(l.declarations(), strings.ToLower(property)); ok {
		loc.Column = d.Start + 1
	}
	return loc
}

// Identities returns the elements this line styles, if known.
func (l *Line) Identities() []cssvalue.Element {
	return l.file.contexts[l.index]
}

// Context returns the raw line text for display.
func (l *Line) Context() string {
	return strings.TrimRight(l.Text(), "\r")
}
